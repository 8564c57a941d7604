// Package ui hosts the system tray companion shown while the editor runs.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/getlantern/systray"

	"github.com/danlitvak/tool-cliptrim/internal/jobs"
	"github.com/danlitvak/tool-cliptrim/internal/library"
)

type Tray struct {
	lib    library.ClipService
	jobs   *jobs.Reducer
	logger *slog.Logger

	statusItem *systray.MenuItem
	clipsItem  *systray.MenuItem

	mu sync.Mutex

	onRescan func() error
	onQuit   func()
}

type TrayConfig struct {
	ClipService library.ClipService
	Jobs        *jobs.Reducer
	Logger      *slog.Logger
	OnRescan    func() error
	OnQuit      func()
}

func NewTray(cfg TrayConfig) *Tray {
	return &Tray{
		lib:      cfg.ClipService,
		jobs:     cfg.Jobs,
		logger:   cfg.Logger,
		onRescan: cfg.OnRescan,
		onQuit:   cfg.OnQuit,
	}
}

func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(iconBytes)
	systray.SetTitle("ClipTrim")
	systray.SetTooltip("ClipTrim")

	t.statusItem = systray.AddMenuItem("Status: Idle", "Export activity")
	t.statusItem.Disable()

	t.clipsItem = systray.AddMenuItem("Clips: 0", "Clips in the working folder")
	t.clipsItem.Disable()

	systray.AddSeparator()

	rescanItem := systray.AddMenuItem("Rescan Folder", "Rescan the IN folder for new clips")

	systray.AddSeparator()

	quitItem := systray.AddMenuItem("Quit", "Quit ClipTrim")

	go func() {
		for {
			select {
			case <-rescanItem.ClickedCh:
				t.handleRescan()
			case <-quitItem.ClickedCh:
				t.logger.Info("quit requested from tray")
				if t.onQuit != nil {
					t.onQuit()
				}
				systray.Quit()
				return
			}
		}
	}()

	t.refreshClipCount()
	t.logger.Info("system tray ready")
}

func (t *Tray) onExit() {
	t.logger.Info("system tray exiting")
}

func (t *Tray) handleRescan() {
	if t.onRescan != nil {
		if err := t.onRescan(); err != nil {
			t.logger.Error("rescan failed", "error", err)
			return
		}
	}
	t.refreshClipCount()
}

func (t *Tray) refreshClipCount() {
	clips, err := t.lib.GetClips(context.Background())
	if err != nil {
		t.logger.Error("failed to count clips", "error", err)
		return
	}
	t.UpdateClipCount(len(clips))
}

// RefreshStatus re-renders the export state from the job table. Called on
// every job event.
func (t *Tray) RefreshStatus() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.statusItem == nil {
		return
	}
	if running := t.jobs.RunningCount(); running > 0 {
		t.statusItem.SetTitle(fmt.Sprintf("Status: Exporting (%d)", running))
	} else {
		t.statusItem.SetTitle("Status: Idle")
	}
}

func (t *Tray) UpdateClipCount(count int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.clipsItem != nil {
		t.clipsItem.SetTitle(fmt.Sprintf("Clips: %d", count))
	}
}

func (t *Tray) Quit() {
	systray.Quit()
}
