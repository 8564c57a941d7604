package jobs

import "sync"

// Bus is an in-process event channel for export jobs. Listener registration
// returns an unlisten func. Emits call listeners synchronously on the
// emitter's goroutine, so listeners must not block.
type Bus struct {
	mu        sync.Mutex
	nextID    int
	started   map[int]func(StartedEvent)
	progress  map[int]func(ProgressEvent)
	completed map[int]func(CompletedEvent)
	failed    map[int]func(FailedEvent)
}

func NewBus() *Bus {
	return &Bus{
		started:   make(map[int]func(StartedEvent)),
		progress:  make(map[int]func(ProgressEvent)),
		completed: make(map[int]func(CompletedEvent)),
		failed:    make(map[int]func(FailedEvent)),
	}
}

func (b *Bus) OnStarted(fn func(StartedEvent)) (unlisten func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.started[id] = fn
	return func() {
		b.mu.Lock()
		delete(b.started, id)
		b.mu.Unlock()
	}
}

func (b *Bus) OnProgress(fn func(ProgressEvent)) (unlisten func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.progress[id] = fn
	return func() {
		b.mu.Lock()
		delete(b.progress, id)
		b.mu.Unlock()
	}
}

func (b *Bus) OnCompleted(fn func(CompletedEvent)) (unlisten func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.completed[id] = fn
	return func() {
		b.mu.Lock()
		delete(b.completed, id)
		b.mu.Unlock()
	}
}

func (b *Bus) OnFailed(fn func(FailedEvent)) (unlisten func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.failed[id] = fn
	return func() {
		b.mu.Lock()
		delete(b.failed, id)
		b.mu.Unlock()
	}
}

// Emits snapshot the listener set under the lock and invoke it outside, so
// a listener may register or unlisten without deadlocking.

func (b *Bus) EmitStarted(e StartedEvent) {
	b.mu.Lock()
	fns := make([]func(StartedEvent), 0, len(b.started))
	for _, fn := range b.started {
		fns = append(fns, fn)
	}
	b.mu.Unlock()
	for _, fn := range fns {
		fn(e)
	}
}

func (b *Bus) EmitProgress(e ProgressEvent) {
	b.mu.Lock()
	fns := make([]func(ProgressEvent), 0, len(b.progress))
	for _, fn := range b.progress {
		fns = append(fns, fn)
	}
	b.mu.Unlock()
	for _, fn := range fns {
		fn(e)
	}
}

func (b *Bus) EmitCompleted(e CompletedEvent) {
	b.mu.Lock()
	fns := make([]func(CompletedEvent), 0, len(b.completed))
	for _, fn := range b.completed {
		fns = append(fns, fn)
	}
	b.mu.Unlock()
	for _, fn := range fns {
		fn(e)
	}
}

func (b *Bus) EmitFailed(e FailedEvent) {
	b.mu.Lock()
	fns := make([]func(FailedEvent), 0, len(b.failed))
	for _, fn := range b.failed {
		fns = append(fns, fn)
	}
	b.mu.Unlock()
	for _, fn := range fns {
		fn(e)
	}
}

// ListenerCount reports the number of registered listeners across all event
// kinds. Used by tests to verify teardown.
func (b *Bus) ListenerCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.started) + len(b.progress) + len(b.completed) + len(b.failed)
}
