package player

import (
	"testing"
	"time"
)

// fakeNow gives tests direct control over elapsed wall time.
type fakeNow struct {
	t time.Time
}

func (f *fakeNow) now() time.Time          { return f.t }
func (f *fakeNow) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestClock(durationMs int64) (*Clock, *fakeNow) {
	fn := &fakeNow{t: time.Unix(0, 0)}
	c := NewClock()
	c.now = fn.now
	c.Load(durationMs)
	return c, fn
}

func TestClockStartsPausedAtZero(t *testing.T) {
	c, _ := newTestClock(60_000)
	if !c.Paused() {
		t.Error("new clock should be paused")
	}
	if c.CurrentTimeMs() != 0 {
		t.Errorf("position = %d, want 0", c.CurrentTimeMs())
	}
}

func TestClockAdvancesWhilePlaying(t *testing.T) {
	c, fn := newTestClock(60_000)

	c.Play()
	fn.advance(2 * time.Second)
	if got := c.CurrentTimeMs(); got != 2_000 {
		t.Errorf("position = %d, want 2000", got)
	}

	c.Pause()
	fn.advance(5 * time.Second)
	if got := c.CurrentTimeMs(); got != 2_000 {
		t.Errorf("position = %d while paused, want 2000", got)
	}
}

func TestClockRateScalesProgress(t *testing.T) {
	c, fn := newTestClock(60_000)

	c.SetRate(2.0)
	c.Play()
	fn.advance(3 * time.Second)
	if got := c.CurrentTimeMs(); got != 6_000 {
		t.Errorf("position = %d at 2x, want 6000", got)
	}
}

func TestClockRateChangeFoldsProgress(t *testing.T) {
	c, fn := newTestClock(60_000)

	c.Play()
	fn.advance(2 * time.Second)
	c.SetRate(0.5)
	fn.advance(2 * time.Second)

	// 2s at 1x plus 2s at 0.5x.
	if got := c.CurrentTimeMs(); got != 3_000 {
		t.Errorf("position = %d, want 3000", got)
	}
}

func TestClockSeekClamps(t *testing.T) {
	c, _ := newTestClock(60_000)

	c.SeekMs(-5_000)
	if got := c.CurrentTimeMs(); got != 0 {
		t.Errorf("position = %d, want clamp at 0", got)
	}

	c.SeekMs(90_000)
	if got := c.CurrentTimeMs(); got != 60_000 {
		t.Errorf("position = %d, want clamp at duration", got)
	}
}

func TestClockStopsAtEnd(t *testing.T) {
	c, fn := newTestClock(10_000)

	c.Play()
	fn.advance(time.Minute)
	if got := c.CurrentTimeMs(); got != 10_000 {
		t.Errorf("position = %d, want pin at duration", got)
	}
}

func TestClockLoadResets(t *testing.T) {
	c, fn := newTestClock(60_000)

	c.Play()
	fn.advance(5 * time.Second)
	c.Load(30_000)

	if !c.Paused() {
		t.Error("load should pause the transport")
	}
	if got := c.CurrentTimeMs(); got != 0 {
		t.Errorf("position = %d after load, want 0", got)
	}
	if got := c.DurationMs(); got != 30_000 {
		t.Errorf("duration = %d, want 30000", got)
	}
}
