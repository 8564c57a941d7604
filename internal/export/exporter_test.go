package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danlitvak/tool-cliptrim/internal/ffmpeg"
	"github.com/danlitvak/tool-cliptrim/internal/jobs"
	"github.com/danlitvak/tool-cliptrim/internal/library"
)

type exportFakeLib struct {
	clip     *library.Clip
	segments []*library.Segment
	doneIDs  []string
}

func (f *exportFakeLib) ScanClips(ctx context.Context) ([]*library.Clip, error) { return nil, nil }
func (f *exportFakeLib) GetClips(ctx context.Context) ([]*library.Clip, error)  { return nil, nil }

func (f *exportFakeLib) GetClip(ctx context.Context, id string) (*library.Clip, error) {
	if f.clip != nil && f.clip.ID == id {
		return f.clip, nil
	}
	return nil, nil
}

func (f *exportFakeLib) OpenClip(ctx context.Context, id string) (*library.Clip, error) {
	return f.clip, nil
}

func (f *exportFakeLib) GetSegments(ctx context.Context, clipID string) ([]*library.Segment, error) {
	return f.segments, nil
}

func (f *exportFakeLib) AddSegment(ctx context.Context, clipID string, startMs, endMs int64) (*library.Segment, error) {
	return nil, nil
}

func (f *exportFakeLib) DeleteSegment(ctx context.Context, segmentID string) error         { return nil }
func (f *exportFakeLib) UpdateSegmentLabel(ctx context.Context, id, label string) error    { return nil }
func (f *exportFakeLib) UpdateSegmentBounds(ctx context.Context, id string, s, e int64) error {
	return nil
}

func (f *exportFakeLib) MarkClipDone(ctx context.Context, clipID string) error {
	f.doneIDs = append(f.doneIDs, clipID)
	return nil
}

func (f *exportFakeLib) GetVideoInfo(ctx context.Context, path string) (*library.VideoInfo, error) {
	return &library.VideoInfo{FPS: 30}, nil
}

// failingFFmpeg fails the export at a chosen segment index.
type failingFFmpeg struct {
	failAt int
	count  int
}

func (f *failingFFmpeg) Probe(ctx context.Context, path string) (*ffmpeg.ProbeResult, error) {
	return &ffmpeg.ProbeResult{FPS: 30}, nil
}

func (f *failingFFmpeg) ExportSegment(ctx context.Context, src, dst string, startMs, endMs int64) error {
	f.count++
	if f.count == f.failAt {
		return errors.New("ffmpeg exited 1")
	}
	return os.WriteFile(dst, nil, 0644)
}

func waitEvent[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for job event")
		panic("unreachable")
	}
}

func TestExportClipHappyPath(t *testing.T) {
	outDir := t.TempDir()
	lib := &exportFakeLib{
		clip: &library.Clip{ID: "c1", OriginalName: "match.mp4", BackupPath: "/tmp/match.mp4"},
		segments: []*library.Segment{
			{ID: "s2", ClipID: "c1", Index: 1, StartMs: 30_000, EndMs: 40_000, Label: "clutch"},
			{ID: "s1", ClipID: "c1", Index: 0, StartMs: 5_000, EndMs: 10_000},
		},
	}

	bus := jobs.NewBus()
	started := make(chan jobs.StartedEvent, 1)
	progress := make(chan jobs.ProgressEvent, 4)
	completed := make(chan jobs.CompletedEvent, 1)
	bus.OnStarted(func(e jobs.StartedEvent) { started <- e })
	bus.OnProgress(func(e jobs.ProgressEvent) { progress <- e })
	bus.OnCompleted(func(e jobs.CompletedEvent) { completed <- e })

	exp := NewExporter(lib, ffmpeg.NewStubFFmpeg(nil), bus, outDir, nil)

	jobID, err := exp.ExportClip(context.Background(), "c1")
	if err != nil {
		t.Fatalf("ExportClip: %v", err)
	}

	s := waitEvent(t, started)
	if s.JobID != jobID || s.TotalSegments != 2 || s.ClipName != "match.mp4" {
		t.Errorf("started = %+v", s)
	}

	p1 := waitEvent(t, progress)
	p2 := waitEvent(t, progress)
	if p1.CurrentSegment != 1 || p2.CurrentSegment != 2 {
		t.Errorf("progress order = %d, %d, want 1, 2", p1.CurrentSegment, p2.CurrentSegment)
	}

	waitEvent(t, completed)

	// Segments are cut in start order, so the earlier segment is trim01.
	for _, name := range []string{"match__trim01.mp4", "match__trim02__clutch.mp4"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}

	if len(lib.doneIDs) != 1 || lib.doneIDs[0] != "c1" {
		t.Errorf("doneIDs = %v, want [c1]", lib.doneIDs)
	}
}

func TestExportClipFailureAborts(t *testing.T) {
	outDir := t.TempDir()
	lib := &exportFakeLib{
		clip: &library.Clip{ID: "c1", OriginalName: "match.mp4", BackupPath: "/tmp/match.mp4"},
		segments: []*library.Segment{
			{ID: "s1", ClipID: "c1", StartMs: 1_000, EndMs: 2_000},
			{ID: "s2", ClipID: "c1", StartMs: 3_000, EndMs: 4_000},
			{ID: "s3", ClipID: "c1", StartMs: 5_000, EndMs: 6_000},
		},
	}

	bus := jobs.NewBus()
	failed := make(chan jobs.FailedEvent, 1)
	bus.OnFailed(func(e jobs.FailedEvent) { failed <- e })

	ffm := &failingFFmpeg{failAt: 2}
	exp := NewExporter(lib, ffm, bus, outDir, nil)

	if _, err := exp.ExportClip(context.Background(), "c1"); err != nil {
		t.Fatalf("ExportClip: %v", err)
	}

	e := waitEvent(t, failed)
	if e.Error == "" {
		t.Error("failed event should carry the error")
	}
	if ffm.count != 2 {
		t.Errorf("ffmpeg calls = %d, want abort after the failure", ffm.count)
	}
	if len(lib.doneIDs) != 0 {
		t.Error("failed export must not mark the clip done")
	}
}

func TestExportClipValidation(t *testing.T) {
	bus := jobs.NewBus()
	exp := NewExporter(&exportFakeLib{}, ffmpeg.NewStubFFmpeg(nil), bus, t.TempDir(), nil)

	if _, err := exp.ExportClip(context.Background(), "missing"); err == nil {
		t.Error("expected error for unknown clip")
	}

	lib := &exportFakeLib{clip: &library.Clip{ID: "c1", OriginalName: "a.mp4"}}
	exp = NewExporter(lib, ffmpeg.NewStubFFmpeg(nil), bus, t.TempDir(), nil)
	if _, err := exp.ExportClip(context.Background(), "c1"); err == nil {
		t.Error("expected error for clip without segments")
	}
}
