package jobs

import (
	"context"
	"testing"
	"time"
)

// attach wires a reducer to a bus directly, skipping context plumbing.
func attach(r *Reducer, b *Bus) {
	b.OnStarted(r.applyStarted)
	b.OnProgress(r.applyProgress)
	b.OnCompleted(r.applyCompleted)
	b.OnFailed(r.applyFailed)
}

func TestJobLifecycle(t *testing.T) {
	bus := NewBus()
	r := NewReducer()
	r.afterFunc = func(d time.Duration, fn func()) *time.Timer { return nil }
	attach(r, bus)

	bus.EmitStarted(StartedEvent{JobID: "j1", ClipName: "a.mp4", TotalSegments: 3})

	table := r.Jobs()
	if len(table) != 1 {
		t.Fatalf("got %d jobs, want 1", len(table))
	}
	if table[0].Status != StatusRunning || table[0].TotalSegments != 3 {
		t.Errorf("job = %+v, want running with 3 segments", table[0])
	}

	bus.EmitProgress(ProgressEvent{JobID: "j1", CurrentSegment: 2, TotalSegments: 3})
	if got := r.Jobs()[0]; got.CurrentSegment != 2 || got.Percent() != 66 {
		t.Errorf("progress = %d (%d%%), want 2 (66%%)", got.CurrentSegment, got.Percent())
	}

	bus.EmitCompleted(CompletedEvent{JobID: "j1"})
	got := r.Jobs()[0]
	if got.Status != StatusCompleted {
		t.Errorf("status = %s, want completed", got.Status)
	}
	if got.CurrentSegment != got.TotalSegments {
		t.Errorf("completion must fill progress, got %d/%d", got.CurrentSegment, got.TotalSegments)
	}
}

func TestCompletedJobRemovedAfterLinger(t *testing.T) {
	bus := NewBus()
	r := NewReducer()

	var scheduled time.Duration
	var removal func()
	r.afterFunc = func(d time.Duration, fn func()) *time.Timer {
		scheduled = d
		removal = fn
		return nil
	}
	attach(r, bus)

	bus.EmitStarted(StartedEvent{JobID: "j1", TotalSegments: 1})
	bus.EmitCompleted(CompletedEvent{JobID: "j1"})

	if scheduled != completedLingerMs*time.Millisecond {
		t.Errorf("linger = %v, want %dms", scheduled, int(completedLingerMs))
	}
	if len(r.Jobs()) != 1 {
		t.Fatal("job should linger until the timer fires")
	}

	removal()
	if len(r.Jobs()) != 0 {
		t.Error("job should be removed after the linger")
	}
}

func TestProgressForUnknownJobIgnored(t *testing.T) {
	bus := NewBus()
	r := NewReducer()
	attach(r, bus)

	bus.EmitProgress(ProgressEvent{JobID: "ghost", CurrentSegment: 1, TotalSegments: 2})
	if len(r.Jobs()) != 0 {
		t.Error("unknown progress must not create a job row")
	}

	bus.EmitCompleted(CompletedEvent{JobID: "ghost"})
	bus.EmitFailed(FailedEvent{JobID: "ghost", Error: "x"})
	if len(r.Jobs()) != 0 {
		t.Error("unknown terminal events must not create job rows")
	}
}

func TestFailedJobPersists(t *testing.T) {
	bus := NewBus()
	r := NewReducer()
	attach(r, bus)

	bus.EmitStarted(StartedEvent{JobID: "j1", TotalSegments: 2})
	bus.EmitFailed(FailedEvent{JobID: "j1", Error: "ffmpeg exited 1"})

	got := r.Jobs()[0]
	if got.Status != StatusFailed || got.Error != "ffmpeg exited 1" {
		t.Errorf("job = %+v, want failed with error", got)
	}
}

func TestRestartReplacesJobRow(t *testing.T) {
	bus := NewBus()
	r := NewReducer()
	attach(r, bus)

	bus.EmitStarted(StartedEvent{JobID: "j1", TotalSegments: 2})
	bus.EmitFailed(FailedEvent{JobID: "j1", Error: "boom"})
	bus.EmitStarted(StartedEvent{JobID: "j1", TotalSegments: 2})

	table := r.Jobs()
	if len(table) != 1 {
		t.Fatalf("got %d rows, want 1", len(table))
	}
	if table[0].Status != StatusRunning || table[0].Error != "" {
		t.Errorf("restarted job = %+v, want a fresh running row", table[0])
	}
}

func TestPercentGuards(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		want    int
	}{
		{"zero total", 1, 0, 0},
		{"zero progress", 0, 4, 0},
		{"truncates", 1, 3, 33},
		{"complete", 3, 3, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := &ExportJob{CurrentSegment: tt.current, TotalSegments: tt.total}
			if got := j.Percent(); got != tt.want {
				t.Errorf("Percent() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOrderPreserved(t *testing.T) {
	bus := NewBus()
	r := NewReducer()
	attach(r, bus)

	bus.EmitStarted(StartedEvent{JobID: "j1"})
	bus.EmitStarted(StartedEvent{JobID: "j2"})
	bus.EmitStarted(StartedEvent{JobID: "j3"})

	table := r.Jobs()
	for i, want := range []string{"j1", "j2", "j3"} {
		if table[i].ID != want {
			t.Errorf("jobs[%d] = %s, want %s", i, table[i].ID, want)
		}
	}
}

func TestSubscribeDetachRemovesListeners(t *testing.T) {
	bus := NewBus()
	r := NewReducer()

	detach := r.Subscribe(context.Background(), bus)
	if got := bus.ListenerCount(); got != 4 {
		t.Fatalf("listeners = %d, want 4", got)
	}

	detach()
	if got := bus.ListenerCount(); got != 0 {
		t.Errorf("listeners = %d after detach, want 0", got)
	}

	// Idempotent.
	detach()
	if got := bus.ListenerCount(); got != 0 {
		t.Errorf("listeners = %d after double detach, want 0", got)
	}
}

func TestSubscribeCancellationDetaches(t *testing.T) {
	bus := NewBus()
	r := NewReducer()

	ctx, cancel := context.WithCancel(context.Background())
	r.Subscribe(ctx, bus)
	cancel()

	deadline := time.After(2 * time.Second)
	for bus.ListenerCount() != 0 {
		select {
		case <-deadline:
			t.Fatalf("listeners = %d after cancel, want 0", bus.ListenerCount())
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

func TestSubscribeOnCancelledContext(t *testing.T) {
	bus := NewBus()
	r := NewReducer()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r.Subscribe(ctx, bus)

	// Registration raced an already-cancelled context; every listener must
	// still come off the bus.
	deadline := time.After(2 * time.Second)
	for bus.ListenerCount() != 0 {
		select {
		case <-deadline:
			t.Fatalf("listeners = %d on cancelled context, want 0", bus.ListenerCount())
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

func TestRunningCount(t *testing.T) {
	bus := NewBus()
	r := NewReducer()
	r.afterFunc = func(d time.Duration, fn func()) *time.Timer { return nil }
	attach(r, bus)

	bus.EmitStarted(StartedEvent{JobID: "j1"})
	bus.EmitStarted(StartedEvent{JobID: "j2"})
	if got := r.RunningCount(); got != 2 {
		t.Fatalf("running = %d, want 2", got)
	}

	bus.EmitCompleted(CompletedEvent{JobID: "j1"})
	if got := r.RunningCount(); got != 1 {
		t.Errorf("running = %d, want 1", got)
	}
}
