package session

import (
	"context"
	"sort"
)

// navGuardMs keeps next/prev navigation from re-selecting the marker the
// playhead is already sitting on when positions differ by sub-frame jitter.
const navGuardMs = 10

// EditMode reports whether keyboard marker editing is active.
func (s *Session) EditMode() bool {
	return s.editMode
}

// ToggleEditMode flips Edit Mode. The selected edit target clears on both
// transitions; selection must be re-acquired by navigation.
func (s *Session) ToggleEditMode() bool {
	s.editMode = !s.editMode
	s.editTarget = nil
	return s.editMode
}

// EditTarget returns the currently selected marker, if any.
func (s *Session) EditTarget() (EditTarget, bool) {
	if s.editTarget == nil {
		return EditTarget{}, false
	}
	return *s.editTarget, true
}

// PointerSeekAllowed reports whether pointer-driven seeking and panning on
// the timeline are enabled. Both are suppressed in Edit Mode.
func (s *Session) PointerSeekAllowed() bool {
	return !s.editMode
}

// AllMarkers enumerates every active marker: the in/out pair when set and
// both bounds of every segment, ascending by time. Ties keep insertion order.
func (s *Session) AllMarkers() []MarkerPoint {
	var points []MarkerPoint

	if s.inMarker != nil {
		points = append(points, MarkerPoint{TimeMs: *s.inMarker, Target: EditTarget{Kind: TargetIn}})
	}
	if s.outMarker != nil {
		points = append(points, MarkerPoint{TimeMs: *s.outMarker, Target: EditTarget{Kind: TargetOut}})
	}
	for _, seg := range s.segments {
		points = append(points,
			MarkerPoint{TimeMs: seg.StartMs, Target: EditTarget{Kind: TargetSegmentStart, SegmentID: seg.ID}},
			MarkerPoint{TimeMs: seg.EndMs, Target: EditTarget{Kind: TargetSegmentEnd, SegmentID: seg.ID}},
		)
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].TimeMs < points[j].TimeMs
	})
	return points
}

// NavigateNext seeks to the first marker past the playhead and selects it.
// Silent no-op when no marker qualifies.
func (s *Session) NavigateNext() bool {
	pos := s.transport.CurrentTimeMs()
	for _, p := range s.AllMarkers() {
		if p.TimeMs > pos+navGuardMs {
			s.selectMarker(p)
			return true
		}
	}
	return false
}

// NavigatePrev seeks to the last marker before the playhead and selects it.
// Silent no-op when no marker qualifies.
func (s *Session) NavigatePrev() bool {
	pos := s.transport.CurrentTimeMs()
	points := s.AllMarkers()
	for i := len(points) - 1; i >= 0; i-- {
		if points[i].TimeMs < pos-navGuardMs {
			s.selectMarker(points[i])
			return true
		}
	}
	return false
}

func (s *Session) selectMarker(p MarkerPoint) {
	s.transport.SeekMs(p.TimeMs)
	target := p.Target
	s.editTarget = &target
}

// ScrubForward moves the playhead forward by the scrub duration in Normal
// Mode; in Edit Mode the same key navigates to the next marker.
func (s *Session) ScrubForward() {
	if s.editMode {
		s.NavigateNext()
		return
	}
	s.transport.SeekMs(s.transport.CurrentTimeMs() + s.scrubMs)
}

// ScrubBackward is the reverse of ScrubForward.
func (s *Session) ScrubBackward() {
	if s.editMode {
		s.NavigatePrev()
		return
	}
	s.transport.SeekMs(s.transport.CurrentTimeMs() - s.scrubMs)
}

// StepForward pauses and advances exactly one frame. In Edit Mode the
// selected marker follows the playhead in the same action.
func (s *Session) StepForward(ctx context.Context) {
	s.step(ctx, 1)
}

// StepBackward pauses and rewinds exactly one frame, nudging like StepForward.
func (s *Session) StepBackward(ctx context.Context) {
	s.step(ctx, -1)
}

func (s *Session) step(ctx context.Context, direction int64) {
	s.transport.Pause()

	fps := s.fps
	if fps <= 0 {
		fps = defaultFPS
	}
	frameMs := int64(1000.0/fps + 0.5)
	if frameMs < 1 {
		frameMs = 1
	}

	pos := s.transport.CurrentTimeMs() + direction*frameMs
	if pos < 0 {
		pos = 0
	}
	if d := s.transport.DurationMs(); d > 0 && pos > d {
		pos = d
	}
	s.transport.SeekMs(pos)

	if s.editMode && s.editTarget != nil {
		s.nudgeTarget(ctx, pos)
	}
}

// nudgeTarget writes the stepped position into the selected marker. Segment
// bounds are updated without cross-validation against their pair; a nudged
// start may cross its end.
func (s *Session) nudgeTarget(ctx context.Context, timeMs int64) {
	switch s.editTarget.Kind {
	case TargetIn:
		s.SetIn(timeMs)
	case TargetOut:
		s.SetOut(timeMs)
	case TargetSegmentStart, TargetSegmentEnd:
		for _, seg := range s.segments {
			if seg.ID != s.editTarget.SegmentID {
				continue
			}
			if s.editTarget.Kind == TargetSegmentStart {
				seg.StartMs = timeMs
			} else {
				seg.EndMs = timeMs
			}
			if err := s.lib.UpdateSegmentBounds(ctx, seg.ID, seg.StartMs, seg.EndMs); err != nil && s.logger != nil {
				s.logger.Warn("failed to persist nudged bounds", "segment_id", seg.ID, "error", err)
			}
			return
		}
	}
}
