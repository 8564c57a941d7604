// Package player abstracts the media playback primitive. The editing engine
// only reads position/duration and issues seek, pause, and rate commands;
// decode and render live entirely outside the agent.
package player

// Transport is the control surface of a playback primitive.
type Transport interface {
	CurrentTimeMs() int64
	DurationMs() int64
	Paused() bool
	Play()
	Pause()
	// SeekMs moves the playhead, clamped to [0, duration].
	SeekMs(t int64)
	Rate() float64
	SetRate(rate float64)
}
