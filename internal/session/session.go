// Package session holds the interactive editing state for the active clip:
// in/out markers, the loaded segment list, Edit Mode, and the transport
// commands driven by the keyboard layer.
package session

import (
	"context"
	"log/slog"

	"github.com/danlitvak/tool-cliptrim/internal/library"
	"github.com/danlitvak/tool-cliptrim/internal/player"
)

const (
	defaultFPS = 30.0

	MinPlaybackRate  = 0.25
	MaxPlaybackRate  = 4.0
	PlaybackRateStep = 0.25
)

// Exporter starts a background export for a clip's segments. Progress is
// reported through the job event bus, not through this call.
type Exporter interface {
	ExportClip(ctx context.Context, clipID string) (jobID string, err error)
}

type Session struct {
	lib       library.ClipService
	transport player.Transport
	exporter  Exporter
	logger    *slog.Logger

	clips    []*library.Clip
	clip     *library.Clip
	segments []*library.Segment

	inMarker  *int64
	outMarker *int64

	fps     float64
	scrubMs int64

	editMode   bool
	editTarget *EditTarget

	onClipLoaded func(*library.Clip, *library.VideoInfo)
}

func New(lib library.ClipService, transport player.Transport, exporter Exporter, settings library.Settings, logger *slog.Logger) *Session {
	scrubMs := int64(settings.ScrubDurationSec * 1000)
	if scrubMs <= 0 {
		scrubMs = 1000
	}
	return &Session{
		lib:       lib,
		transport: transport,
		exporter:  exporter,
		logger:    logger,
		fps:       defaultFPS,
		scrubMs:   scrubMs,
	}
}

// SetOnClipLoaded registers the presentation hook invoked after a clip is
// opened (view reset, transport reload).
func (s *Session) SetOnClipLoaded(fn func(*library.Clip, *library.VideoInfo)) {
	s.onClipLoaded = fn
}

func (s *Session) ActiveClip() *library.Clip {
	return s.clip
}

func (s *Session) Clips() []*library.Clip {
	return s.clips
}

func (s *Session) Segments() []*library.Segment {
	return s.segments
}

func (s *Session) InMarker() (int64, bool) {
	if s.inMarker == nil {
		return 0, false
	}
	return *s.inMarker, true
}

func (s *Session) OutMarker() (int64, bool) {
	if s.outMarker == nil {
		return 0, false
	}
	return *s.outMarker, true
}

func (s *Session) FPS() float64 {
	return s.fps
}

// PlayheadMs is the transport position, exposed for marker capture and
// rendering.
func (s *Session) PlayheadMs() int64 {
	return s.transport.CurrentTimeMs()
}

// RefreshClips rescans the working folder and updates the clip list.
func (s *Session) RefreshClips(ctx context.Context) error {
	clips, err := s.lib.ScanClips(ctx)
	if err != nil {
		return &CollaboratorError{Op: "scan clips", Err: err}
	}
	s.clips = clips
	return nil
}

// LoadClip opens a clip and makes it the active editing target. Markers,
// the edit target, and the playhead reset; the segment list reloads.
func (s *Session) LoadClip(ctx context.Context, id string) error {
	clip, err := s.lib.OpenClip(ctx, id)
	if err != nil {
		return &CollaboratorError{Op: "open clip", Err: err}
	}

	segments, err := s.lib.GetSegments(ctx, clip.ID)
	if err != nil {
		return &CollaboratorError{Op: "load segments", Err: err}
	}

	s.clip = clip
	s.segments = segments
	s.inMarker = nil
	s.outMarker = nil
	s.editTarget = nil

	info, err := s.lib.GetVideoInfo(ctx, clip.BackupPath)
	if err != nil {
		// Probe failure is not fatal; fps falls back to the default.
		if s.logger != nil {
			s.logger.Warn("video probe failed", "clip_id", clip.ID, "error", err)
		}
		info = &library.VideoInfo{FPS: defaultFPS}
	}
	if info.FPS > 0 {
		s.fps = info.FPS
	} else {
		s.fps = defaultFPS
	}

	if s.onClipLoaded != nil {
		s.onClipLoaded(clip, info)
	}
	s.transport.SeekMs(0)

	if s.logger != nil {
		s.logger.Info("clip loaded", "clip_id", clip.ID, "name", clip.OriginalName,
			"segments", len(segments), "fps", s.fps)
	}
	return nil
}

// NextClip activates the clip after the current one in the list, if any.
func (s *Session) NextClip(ctx context.Context) error {
	idx := s.activeClipIndex()
	if idx < 0 || idx >= len(s.clips)-1 {
		return nil
	}
	return s.LoadClip(ctx, s.clips[idx+1].ID)
}

// PrevClip activates the clip before the current one in the list, if any.
func (s *Session) PrevClip(ctx context.Context) error {
	idx := s.activeClipIndex()
	if idx <= 0 {
		return nil
	}
	return s.LoadClip(ctx, s.clips[idx-1].ID)
}

func (s *Session) activeClipIndex() int {
	if s.clip == nil {
		return -1
	}
	for i, c := range s.clips {
		if c.ID == s.clip.ID {
			return i
		}
	}
	return -1
}

// SetIn overwrites the in marker unconditionally. Ordering against the out
// marker is validated only when a segment is created.
func (s *Session) SetIn(timeMs int64) {
	t := timeMs
	s.inMarker = &t
}

// SetOut overwrites the out marker unconditionally.
func (s *Session) SetOut(timeMs int64) {
	t := timeMs
	s.outMarker = &t
}

// AddSegment commits the current in/out pair as a segment. On success the
// segment is persisted, appended locally, and both markers clear.
func (s *Session) AddSegment(ctx context.Context) error {
	if s.inMarker == nil || s.outMarker == nil {
		return validationErrorf("set both an IN and OUT marker before adding a segment")
	}
	if *s.outMarker <= *s.inMarker {
		return validationErrorf("OUT marker must be after IN marker")
	}
	if s.clip == nil {
		return validationErrorf("no active clip selected")
	}

	seg, err := s.lib.AddSegment(ctx, s.clip.ID, *s.inMarker, *s.outMarker)
	if err != nil {
		return &CollaboratorError{Op: "add segment", Err: err}
	}

	s.segments = append(s.segments, seg)
	startMs, endMs := *s.inMarker, *s.outMarker
	s.inMarker = nil
	s.outMarker = nil

	if s.logger != nil {
		s.logger.Info("segment committed", "segment_id", seg.ID,
			"start_ms", startMs, "end_ms", endMs)
	}
	return nil
}

// DeleteSegment removes a segment by id. The segment must exist locally.
func (s *Session) DeleteSegment(ctx context.Context, id string) error {
	idx := -1
	for i, seg := range s.segments {
		if seg.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return validationErrorf("segment %s not found", id)
	}

	if err := s.lib.DeleteSegment(ctx, id); err != nil {
		return &CollaboratorError{Op: "delete segment", Err: err}
	}

	s.segments = append(s.segments[:idx], s.segments[idx+1:]...)
	if s.editTarget != nil && s.editTarget.SegmentID == id {
		s.editTarget = nil
	}
	return nil
}

// DeleteSelected removes the most recently added segment. With no explicit
// segment selection model, targeting the last element is the intended
// behavior, not a fallback. Silent no-op on an empty list.
func (s *Session) DeleteSelected(ctx context.Context) error {
	if len(s.segments) == 0 {
		return nil
	}
	return s.DeleteSegment(ctx, s.segments[len(s.segments)-1].ID)
}

// UpdateLabel replaces the label of a segment. Text is free-form.
func (s *Session) UpdateLabel(ctx context.Context, id, label string) error {
	if err := s.lib.UpdateSegmentLabel(ctx, id, label); err != nil {
		return &CollaboratorError{Op: "update label", Err: err}
	}
	for _, seg := range s.segments {
		if seg.ID == id {
			seg.Label = label
			break
		}
	}
	return nil
}

// Export starts a background export of the active clip's segments, then
// rescans and advances to the next clip so the operator keeps moving.
func (s *Session) Export(ctx context.Context) error {
	if s.clip == nil {
		return validationErrorf("no active clip selected")
	}
	if len(s.segments) == 0 {
		return validationErrorf("no segments to export; set IN/OUT markers and add segments first")
	}

	jobID, err := s.exporter.ExportClip(ctx, s.clip.ID)
	if err != nil {
		return &CollaboratorError{Op: "start export", Err: err}
	}

	if s.logger != nil {
		s.logger.Info("export started", "clip_id", s.clip.ID, "job_id", jobID)
	}

	if err := s.RefreshClips(ctx); err != nil {
		return err
	}
	return s.NextClip(ctx)
}

// TogglePlay flips play/pause on the transport.
func (s *Session) TogglePlay() {
	if s.transport.Paused() {
		s.transport.Play()
	} else {
		s.transport.Pause()
	}
}

// SpeedUp raises the playback rate one step, clamped. Returns the new rate.
func (s *Session) SpeedUp() float64 {
	rate := s.transport.Rate() + PlaybackRateStep
	if rate > MaxPlaybackRate {
		rate = MaxPlaybackRate
	}
	s.transport.SetRate(rate)
	return rate
}

// SpeedDown lowers the playback rate one step, clamped. Returns the new rate.
func (s *Session) SpeedDown() float64 {
	rate := s.transport.Rate() - PlaybackRateStep
	if rate < MinPlaybackRate {
		rate = MinPlaybackRate
	}
	s.transport.SetRate(rate)
	return rate
}
