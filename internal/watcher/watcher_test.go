package watcher

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type eventRecorder struct {
	mu     sync.Mutex
	events []string
}

func (r *eventRecorder) record(name string, event EventType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kind := "create"
	if event == EventDelete {
		kind = "delete"
	}
	r.events = append(r.events, kind+":"+name)
}

func (r *eventRecorder) wait(t *testing.T, want string) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		r.mu.Lock()
		for _, e := range r.events {
			if e == want {
				r.mu.Unlock()
				return
			}
		}
		r.mu.Unlock()

		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %s", want)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestPollWatcherDetectsCreateAndDelete(t *testing.T) {
	dir := t.TempDir()
	rec := &eventRecorder{}

	w := NewPollWatcher(10*time.Millisecond, discardLogger())
	w.OnChange(rec.record)
	if err := w.Watch(context.Background(), dir); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	path := filepath.Join(dir, "new.mp4")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	rec.wait(t, "create:new.mp4")

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	rec.wait(t, "delete:new.mp4")
}

func TestPollWatcherIgnoresDirectories(t *testing.T) {
	dir := t.TempDir()
	rec := &eventRecorder{}

	w := NewPollWatcher(10*time.Millisecond, discardLogger())
	w.OnChange(rec.record)
	if err := w.Watch(context.Background(), dir); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.Mkdir(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "file.mp4"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	rec.wait(t, "create:file.mp4")

	rec.mu.Lock()
	defer rec.mu.Unlock()
	for _, e := range rec.events {
		if e == "create:sub" {
			t.Error("directories should not produce events")
		}
	}
}

func TestPollWatcherStop(t *testing.T) {
	dir := t.TempDir()
	rec := &eventRecorder{}

	w := NewPollWatcher(10*time.Millisecond, discardLogger())
	w.OnChange(rec.record)
	if err := w.Watch(context.Background(), dir); err != nil {
		t.Fatal(err)
	}
	if err := w.Stop(); err != nil {
		t.Fatal(err)
	}

	// Give the poll goroutine time to exit, then verify nothing fires.
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "late.mp4"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.events) != 0 {
		t.Errorf("events after stop: %v", rec.events)
	}
}
