// Package tui is the keyboard-first terminal frontend: clip list, zoomable
// timeline, segment table, and export job panel.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/danlitvak/tool-cliptrim/internal/jobs"
	"github.com/danlitvak/tool-cliptrim/internal/keymap"
	"github.com/danlitvak/tool-cliptrim/internal/player"
	"github.com/danlitvak/tool-cliptrim/internal/session"
	"github.com/danlitvak/tool-cliptrim/internal/timeline"
)

const (
	tickInterval = 100 * time.Millisecond
	noticeLinger = 3 * time.Second
)

type tickMsg time.Time

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	editStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	segmentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
)

type Config struct {
	Session    *session.Session
	Clock      *player.Clock
	View       *timeline.View
	Dispatcher *keymap.Dispatcher
	Jobs       *jobs.Reducer
	Logger     *slog.Logger
}

type Model struct {
	ctx        context.Context
	sess       *session.Session
	clock      *player.Clock
	view       *timeline.View
	dispatcher *keymap.Dispatcher
	jobs       *jobs.Reducer
	logger     *slog.Logger

	labelInput textinput.Model
	typing     bool

	notice   string
	noticeAt time.Time

	width  int
	height int
}

func New(ctx context.Context, cfg Config) *Model {
	input := textinput.New()
	input.Placeholder = "segment label"
	input.CharLimit = 64

	return &Model{
		ctx:        ctx,
		sess:       cfg.Session,
		clock:      cfg.Clock,
		view:       cfg.View,
		dispatcher: cfg.Dispatcher,
		jobs:       cfg.Jobs,
		logger:     cfg.Logger,
		labelInput: input,
		width:      100,
		height:     30,
	}
}

// Notify records a transient status notice. Safe to call from the binding
// handlers, which run on the update goroutine.
func (m *Model) Notify(text string) {
	m.notice = text
	m.noticeAt = time.Now()
}

func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.view.SetViewport(float64(m.trackWidth()))
		return m, nil

	case tickMsg:
		m.view.FollowPlayhead(m.sess.PlayheadMs())
		return m, tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.typing {
		switch msg.Type {
		case tea.KeyEnter:
			m.commitLabel()
			return m, nil
		case tea.KeyEsc:
			m.typing = false
			m.labelInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.labelInput, cmd = m.labelInput.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "l":
		// Label editing lives in the frontend, outside the rebindable map.
		if segs := m.sess.Segments(); len(segs) > 0 {
			m.typing = true
			m.labelInput.SetValue(segs[len(segs)-1].Label)
			m.labelInput.Focus()
		}
		return m, nil
	case "+", "=":
		m.view.ZoomIn(m.sess.PlayheadMs())
		return m, nil
	case "-":
		m.view.ZoomOut(m.sess.PlayheadMs())
		return m, nil
	case "0":
		m.view.ZoomFit()
		return m, nil
	}

	m.dispatcher.Dispatch(keyName(msg), m.typing)
	return m, nil
}

func (m *Model) commitLabel() {
	segs := m.sess.Segments()
	if len(segs) > 0 {
		seg := segs[len(segs)-1]
		if err := m.sess.UpdateLabel(m.ctx, seg.ID, m.labelInput.Value()); err != nil {
			m.Notify("error: " + err.Error())
		} else {
			m.Notify("label saved")
		}
	}
	m.typing = false
	m.labelInput.Blur()
}

func (m *Model) trackWidth() int {
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderTimeline())
	b.WriteString("\n\n")
	b.WriteString(m.renderSegments())
	b.WriteString("\n")
	b.WriteString(m.renderJobs())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m *Model) renderHeader() string {
	clip := m.sess.ActiveClip()
	name := "(no clip)"
	if clip != nil {
		name = clip.OriginalName
	}

	mode := dimStyle.Render("NORMAL")
	if m.sess.EditMode() {
		mode = editStyle.Render("EDIT")
	}

	pos := formatTime(m.sess.PlayheadMs())
	dur := formatTime(m.clock.DurationMs())
	state := "paused"
	if !m.clock.Paused() {
		state = fmt.Sprintf("playing %.2fx", m.clock.Rate())
	}

	clips := m.sess.Clips()
	return fmt.Sprintf("%s  %s  %s / %s  %s  %s",
		titleStyle.Render("ClipTrim"),
		activeStyle.Render(name),
		pos, dur,
		dimStyle.Render(state),
		mode,
	) + "\n" + dimStyle.Render(fmt.Sprintf("clips: %d  zoom: %.1fx  tick: %ss",
		len(clips), m.view.Zoom(), trimFloat(m.view.TickIntervalSec())))
}

func (m *Model) renderSegments() string {
	segs := m.sess.Segments()
	if len(segs) == 0 {
		return dimStyle.Render("  no segments")
	}

	var b strings.Builder
	for i, seg := range segs {
		line := fmt.Sprintf("  %2d  %s - %s", i+1, formatTime(seg.StartMs), formatTime(seg.EndMs))
		if seg.Label != "" {
			line += "  " + seg.Label
		}
		b.WriteString(segmentStyle.Render(line))
		if i < len(segs)-1 {
			b.WriteString("\n")
		}
	}

	if m.typing {
		b.WriteString("\n  label: " + m.labelInput.View())
	}
	return b.String()
}

func (m *Model) renderJobs() string {
	table := m.jobs.Jobs()
	if len(table) == 0 {
		return ""
	}

	var b strings.Builder
	for _, job := range table {
		switch job.Status {
		case jobs.StatusRunning:
			b.WriteString(fmt.Sprintf("  exporting %s  %d/%d (%d%%)\n",
				job.ClipName, job.CurrentSegment, job.TotalSegments, job.Percent()))
		case jobs.StatusCompleted:
			b.WriteString(activeStyle.Render(fmt.Sprintf("  exported %s", job.ClipName)) + "\n")
		case jobs.StatusFailed:
			b.WriteString(errorStyle.Render(fmt.Sprintf("  export failed %s: %s", job.ClipName, job.Error)) + "\n")
		}
	}
	return b.String()
}

func (m *Model) renderFooter() string {
	if m.notice != "" && time.Since(m.noticeAt) < noticeLinger {
		return errorStyle.Render("  " + m.notice)
	}
	help := "space play  i/o mark  a add  del remove  enter export  e edit  n/p clip  +/- zoom  q quit"
	return dimStyle.Render("  " + help)
}

func formatTime(ms int64) string {
	total := ms / 1000
	return fmt.Sprintf("%02d:%02d.%03d", total/60, total%60, ms%1000)
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%g", f)
	return s
}
