// Package timeline maps clip time onto the horizontal geometry of a
// zoomable, scrollable track.
package timeline

import "math"

const (
	MinZoom = 1.0
	MaxZoom = 100.0

	// Each discrete zoom step multiplies the level by this factor.
	stepFactor = 1.5

	// Wheel zoom is a continuous exponential of the wheel delta.
	wheelFactor = 0.002
)

// tickLadderSec is the set of candidate gridline spacings. The largest value
// that still yields roughly ten visible gridlines wins.
var tickLadderSec = []float64{300, 60, 30, 10, 5, 2, 1, 0.5, 0.2, 0.1}

// View is the zoom/scroll state of the timeline for the active clip.
// zoom 1 fits the whole clip in the viewport; higher levels stretch the
// track and create scrollable overflow.
type View struct {
	durationMs int64
	viewportPx float64
	zoom       float64
	scrollPx   float64
}

func NewView(durationMs int64, viewportPx float64) *View {
	return &View{durationMs: durationMs, viewportPx: viewportPx, zoom: MinZoom}
}

// Reset restores the fit-to-viewport state. Called when a new clip loads.
func (v *View) Reset(durationMs int64) {
	v.durationMs = durationMs
	v.zoom = MinZoom
	v.scrollPx = 0
}

// SetViewport updates the viewport width, re-clamping the scroll offset.
func (v *View) SetViewport(widthPx float64) {
	v.viewportPx = widthPx
	v.scrollPx = v.clampScroll(v.scrollPx)
}

func (v *View) Zoom() float64 {
	return v.zoom
}

func (v *View) ScrollPx() float64 {
	return v.scrollPx
}

func (v *View) DurationMs() int64 {
	return v.durationMs
}

// TimeToPercent maps a time to its position as a percentage of the track,
// clamped to [0, 100]. A zero-duration clip maps everything to 0.
func (v *View) TimeToPercent(timeMs int64) float64 {
	if v.durationMs <= 0 {
		return 0
	}
	percent := float64(timeMs) / float64(v.durationMs) * 100
	return math.Min(100, math.Max(0, percent))
}

// WidthPercent is the track width of a [start, end] range in percent.
func (v *View) WidthPercent(startMs, endMs int64) float64 {
	return v.TimeToPercent(endMs) - v.TimeToPercent(startMs)
}

// TrackWidthPx is the full track width at the current zoom.
func (v *View) TrackWidthPx() float64 {
	return v.zoom * v.viewportPx
}

// TimeToPx maps a time to its absolute pixel offset on the track.
func (v *View) TimeToPx(timeMs int64) float64 {
	return v.TimeToPercent(timeMs) / 100 * v.TrackWidthPx()
}

// PxToTime is the inverse mapping, clamped to the clip bounds.
func (v *View) PxToTime(px float64) int64 {
	track := v.TrackWidthPx()
	if track <= 0 || v.durationMs <= 0 {
		return 0
	}
	t := int64(px / track * float64(v.durationMs))
	if t < 0 {
		return 0
	}
	if t > v.durationMs {
		return v.durationMs
	}
	return t
}

// ZoomIn applies one discrete zoom-in step and recenters on the playhead.
func (v *View) ZoomIn(playheadMs int64) {
	v.setZoom(v.zoom*stepFactor, playheadMs)
}

// ZoomOut applies one discrete zoom-out step and recenters on the playhead.
func (v *View) ZoomOut(playheadMs int64) {
	v.setZoom(v.zoom/stepFactor, playheadMs)
}

// ZoomWheel applies a continuous zoom from a pointer-wheel delta. Negative
// deltas (wheel up) zoom in.
func (v *View) ZoomWheel(delta float64, playheadMs int64) {
	v.setZoom(v.zoom*math.Exp(-delta*wheelFactor), playheadMs)
}

// ZoomFit resets the level to 1 (whole clip visible).
func (v *View) ZoomFit() {
	v.zoom = MinZoom
	v.scrollPx = 0
}

// setZoom clamps the level and recenters on the playhead unconditionally,
// so the operator's visual anchor survives the zoom change.
func (v *View) setZoom(zoom float64, playheadMs int64) {
	v.zoom = math.Min(MaxZoom, math.Max(MinZoom, zoom))
	v.centerOn(playheadMs)
}

// FollowPlayhead recenters the window on the playhead only when it has left
// the visible range. The adjustment is immediate; animated scrolling is
// reserved for user-initiated seeks.
func (v *View) FollowPlayhead(playheadMs int64) {
	px := v.TimeToPx(playheadMs)
	if px < v.scrollPx || px > v.scrollPx+v.viewportPx {
		v.centerOn(playheadMs)
	}
}

func (v *View) centerOn(timeMs int64) {
	v.scrollPx = v.clampScroll(v.TimeToPx(timeMs) - v.viewportPx/2)
}

// Pan shifts the visible window by a pointer drag delta. Panning is
// unavailable in Edit Mode; callers gate on the session's pointer rules.
func (v *View) Pan(deltaPx float64) {
	v.scrollPx = v.clampScroll(v.scrollPx - deltaPx)
}

func (v *View) clampScroll(px float64) float64 {
	maxScroll := v.TrackWidthPx() - v.viewportPx
	if maxScroll < 0 {
		maxScroll = 0
	}
	return math.Min(maxScroll, math.Max(0, px))
}

// VisibleDurationSec is the stretch of clip time inside the viewport.
func (v *View) VisibleDurationSec() float64 {
	if v.zoom <= 0 {
		return 0
	}
	return float64(v.durationMs) / 1000 / v.zoom
}

// TickIntervalSec picks the gridline spacing: the largest ladder value that
// keeps about ten gridlines visible at the current zoom.
func (v *View) TickIntervalSec() float64 {
	target := v.VisibleDurationSec() / 10
	for _, step := range tickLadderSec {
		if step <= target {
			return step
		}
	}
	return tickLadderSec[len(tickLadderSec)-1]
}
