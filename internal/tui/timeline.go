package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/danlitvak/tool-cliptrim/internal/session"
)

var (
	playheadStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	markerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	targetStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")).Reverse(true)
)

// renderTimeline draws the visible window of the track as three rows: the
// ruler, the track with segments and markers, and the playhead cursor.
// One terminal cell equals one track pixel.
func (m *Model) renderTimeline() string {
	width := m.trackWidth()
	if m.view.DurationMs() <= 0 {
		return dimStyle.Render("  " + strings.Repeat("─", width))
	}

	scroll := int(m.view.ScrollPx())

	// Track row: base line, segment spans, in/out markers.
	cells := make([]rune, width)
	for i := range cells {
		cells[i] = '─'
	}
	styles := make([]int, width) // 0 plain, 1 segment, 2 marker, 3 target

	target, hasTarget := m.sess.EditTarget()
	for _, seg := range m.sess.Segments() {
		startCol := int(m.view.TimeToPx(seg.StartMs)) - scroll
		endCol := int(m.view.TimeToPx(seg.EndMs)) - scroll
		for col := startCol; col <= endCol; col++ {
			if col >= 0 && col < width {
				cells[col] = '█'
				styles[col] = 1
			}
		}
		if hasTarget && target.SegmentID == seg.ID {
			col := startCol
			if target.Kind == session.TargetSegmentEnd {
				col = endCol
			}
			if col >= 0 && col < width {
				styles[col] = 3
			}
		}
	}

	placeMarker := func(timeMs int64, glyph rune, kind session.TargetKind) {
		col := int(m.view.TimeToPx(timeMs)) - scroll
		if col < 0 || col >= width {
			return
		}
		cells[col] = glyph
		if hasTarget && target.Kind == kind && target.SegmentID == "" {
			styles[col] = 3
		} else {
			styles[col] = 2
		}
	}
	if in, ok := m.sess.InMarker(); ok {
		placeMarker(in, 'I', session.TargetIn)
	}
	if out, ok := m.sess.OutMarker(); ok {
		placeMarker(out, 'O', session.TargetOut)
	}

	var track strings.Builder
	track.WriteString("  ")
	for i, cell := range cells {
		s := string(cell)
		switch styles[i] {
		case 1:
			s = segmentStyle.Render(s)
		case 2:
			s = markerStyle.Render(s)
		case 3:
			s = targetStyle.Render(s)
		}
		track.WriteString(s)
	}

	// Playhead row.
	cursor := make([]rune, width)
	for i := range cursor {
		cursor[i] = ' '
	}
	playheadCol := int(m.view.TimeToPx(m.sess.PlayheadMs())) - scroll
	if playheadCol >= 0 && playheadCol < width {
		cursor[playheadCol] = '▲'
	}

	return m.renderRuler(width, scroll) + "\n" +
		track.String() + "\n" +
		"  " + playheadStyle.Render(string(cursor))
}

// renderRuler labels the gridlines chosen by the tick ladder.
func (m *Model) renderRuler(width, scroll int) string {
	cells := make([]rune, width)
	for i := range cells {
		cells[i] = ' '
	}

	stepMs := int64(m.view.TickIntervalSec() * 1000)
	if stepMs <= 0 {
		stepMs = 100
	}
	for t := int64(0); t <= m.view.DurationMs(); t += stepMs {
		col := int(m.view.TimeToPx(t)) - scroll
		if col < 0 || col >= width {
			continue
		}
		label := []rune(fmt.Sprintf("%g", float64(t)/1000))
		for i, r := range label {
			if col+i < width {
				cells[col+i] = r
			}
		}
	}
	return dimStyle.Render("  " + string(cells))
}
