package jobs

import (
	"context"
	"sync"
	"time"
)

// completedLingerMs is how long a finished job stays visible before removal.
const completedLingerMs = 5000

type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// ExportJob is one row of the reduced job table.
type ExportJob struct {
	ID             string `json:"id"`
	ClipName       string `json:"clip_name"`
	TotalSegments  int    `json:"total_segments"`
	CurrentSegment int    `json:"current_segment"`
	Status         Status `json:"status"`
	Error          string `json:"error,omitempty"`
}

// Percent is the truncated progress percentage. Zero total reports zero
// rather than dividing.
func (j *ExportJob) Percent() int {
	if j.TotalSegments <= 0 {
		return 0
	}
	return j.CurrentSegment * 100 / j.TotalSegments
}

// Reducer folds bus events into an ordered job table. Completed jobs linger
// briefly, then drop; failed jobs stay until the next start of the same id.
// afterFunc is swappable so tests control the removal timer.
type Reducer struct {
	mu        sync.Mutex
	jobs      map[string]*ExportJob
	order     []string
	afterFunc func(d time.Duration, fn func()) *time.Timer
}

func NewReducer() *Reducer {
	return &Reducer{
		jobs:      make(map[string]*ExportJob),
		order:     nil,
		afterFunc: time.AfterFunc,
	}
}

// Jobs returns the current table in insertion order.
func (r *Reducer) Jobs() []ExportJob {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ExportJob, 0, len(r.order))
	for _, id := range r.order {
		if job, ok := r.jobs[id]; ok {
			out = append(out, *job)
		}
	}
	return out
}

// RunningCount reports jobs still in flight.
func (r *Reducer) RunningCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, job := range r.jobs {
		if job.Status == StatusRunning {
			n++
		}
	}
	return n
}

func (r *Reducer) applyStarted(e StartedEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.jobs[e.JobID]; !exists {
		r.order = append(r.order, e.JobID)
	}
	r.jobs[e.JobID] = &ExportJob{
		ID:            e.JobID,
		ClipName:      e.ClipName,
		TotalSegments: e.TotalSegments,
		Status:        StatusRunning,
	}
}

// applyProgress ignores unknown job ids; a progress event racing ahead of
// its started event must not create a phantom row.
func (r *Reducer) applyProgress(e ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[e.JobID]
	if !ok {
		return
	}
	job.CurrentSegment = e.CurrentSegment
	job.TotalSegments = e.TotalSegments
}

func (r *Reducer) applyCompleted(e CompletedEvent) {
	r.mu.Lock()
	job, ok := r.jobs[e.JobID]
	if !ok {
		r.mu.Unlock()
		return
	}
	job.Status = StatusCompleted
	job.CurrentSegment = job.TotalSegments
	after := r.afterFunc
	r.mu.Unlock()

	after(completedLingerMs*time.Millisecond, func() {
		r.remove(e.JobID)
	})
}

func (r *Reducer) applyFailed(e FailedEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[e.JobID]
	if !ok {
		return
	}
	job.Status = StatusFailed
	job.Error = e.Error
}

func (r *Reducer) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Subscribe attaches the reducer to a bus until ctx is done. Listener setup
// may race with cancellation, so a cancelled flag is re-checked after every
// registration completes; a subscription observed as cancelled detaches
// immediately instead of leaking listeners.
func (r *Reducer) Subscribe(ctx context.Context, bus *Bus) (detach func()) {
	var (
		mu        sync.Mutex
		cancelled bool
		unlistens []func()
	)

	detachAll := func() {
		mu.Lock()
		if cancelled {
			mu.Unlock()
			return
		}
		cancelled = true
		fns := unlistens
		unlistens = nil
		mu.Unlock()
		for _, fn := range fns {
			fn()
		}
	}

	register := func(unlisten func()) {
		mu.Lock()
		if cancelled {
			mu.Unlock()
			unlisten()
			return
		}
		unlistens = append(unlistens, unlisten)
		mu.Unlock()
	}

	register(bus.OnStarted(r.applyStarted))
	register(bus.OnProgress(r.applyProgress))
	register(bus.OnCompleted(r.applyCompleted))
	register(bus.OnFailed(r.applyFailed))

	stop := context.AfterFunc(ctx, detachAll)
	return func() {
		stop()
		detachAll()
	}
}
