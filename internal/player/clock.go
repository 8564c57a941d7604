package player

import (
	"sync"
	"time"
)

// Clock is a wall-clock simulated transport. It carries no media; the TUI
// uses it to drive the playhead against the clip's probed duration, and
// tests use it as a deterministic transport by seeking explicitly.
type Clock struct {
	mu         sync.Mutex
	durationMs int64
	positionMs int64
	rate       float64
	paused     bool
	resumedAt  time.Time
	now        func() time.Time
}

func NewClock() *Clock {
	return &Clock{rate: 1.0, paused: true, now: time.Now}
}

// Load resets the transport for a new clip.
func (c *Clock) Load(durationMs int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.durationMs = durationMs
	c.positionMs = 0
	c.paused = true
}

func (c *Clock) CurrentTimeMs() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position()
}

// position folds elapsed wall time into the stored position. Callers hold mu.
func (c *Clock) position() int64 {
	if c.paused {
		return c.positionMs
	}
	elapsed := c.now().Sub(c.resumedAt)
	pos := c.positionMs + int64(float64(elapsed.Milliseconds())*c.rate)
	if pos > c.durationMs {
		pos = c.durationMs
	}
	return pos
}

func (c *Clock) DurationMs() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.durationMs
}

func (c *Clock) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

func (c *Clock) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.paused {
		return
	}
	c.paused = false
	c.resumedAt = c.now()
}

func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		return
	}
	c.positionMs = c.position()
	c.paused = true
}

func (c *Clock) SeekMs(t int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t < 0 {
		t = 0
	}
	if t > c.durationMs {
		t = c.durationMs
	}
	c.positionMs = t
	c.resumedAt = c.now()
}

func (c *Clock) Rate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rate
}

func (c *Clock) SetRate(rate float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// Fold accrued progress at the old rate before switching.
	c.positionMs = c.position()
	c.resumedAt = c.now()
	c.rate = rate
}
