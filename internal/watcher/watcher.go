// Package watcher notices new clip files landing in the IN folder so the
// library picks them up without a manual rescan.
package watcher

import (
	"context"
	"log/slog"
	"os"
	"time"
)

type EventType int

const (
	EventCreate EventType = iota
	EventDelete
)

type Watcher interface {
	Watch(ctx context.Context, path string) error
	Stop() error
	OnChange(callback func(name string, event EventType))
}

// PollWatcher diffs directory listings on an interval. Polling avoids
// platform watch APIs and is cheap at the folder sizes a capture session
// produces.
type PollWatcher struct {
	logger   *slog.Logger
	interval time.Duration
	callback func(name string, event EventType)
	cancel   context.CancelFunc
}

func NewPollWatcher(interval time.Duration, logger *slog.Logger) *PollWatcher {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &PollWatcher{logger: logger, interval: interval}
}

func (w *PollWatcher) OnChange(callback func(name string, event EventType)) {
	w.callback = callback
}

// Watch polls the folder until ctx is cancelled or Stop is called. Runs on
// its own goroutine.
func (w *PollWatcher) Watch(ctx context.Context, path string) error {
	ctx, w.cancel = context.WithCancel(ctx)

	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		seen := w.snapshot(path)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				current := w.snapshot(path)
				w.diff(seen, current)
				seen = current
			}
		}
	}()

	w.logger.Info("watching folder", "path", path, "interval", w.interval.String())
	return nil
}

func (w *PollWatcher) Stop() error {
	if w.cancel != nil {
		w.cancel()
	}
	return nil
}

func (w *PollWatcher) snapshot(path string) map[string]struct{} {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil
	}
	names := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names[entry.Name()] = struct{}{}
		}
	}
	return names
}

func (w *PollWatcher) diff(before, after map[string]struct{}) {
	if w.callback == nil {
		return
	}
	for name := range after {
		if _, ok := before[name]; !ok {
			w.callback(name, EventCreate)
		}
	}
	for name := range before {
		if _, ok := after[name]; !ok {
			w.callback(name, EventDelete)
		}
	}
}
