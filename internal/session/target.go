package session

// TargetKind enumerates the closed set of nudgeable markers.
type TargetKind int

const (
	TargetIn TargetKind = iota
	TargetOut
	TargetSegmentStart
	TargetSegmentEnd
)

func (k TargetKind) String() string {
	switch k {
	case TargetIn:
		return "in"
	case TargetOut:
		return "out"
	case TargetSegmentStart:
		return "segment_start"
	case TargetSegmentEnd:
		return "segment_end"
	}
	return "unknown"
}

// EditTarget identifies which marker is selected for nudging in Edit Mode.
// SegmentID is set only for the segment kinds.
type EditTarget struct {
	Kind      TargetKind
	SegmentID string
}

// MarkerPoint is one entry of the Edit Mode marker enumeration.
type MarkerPoint struct {
	TimeMs int64
	Target EditTarget
}
