package export

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/danlitvak/tool-cliptrim/internal/ffmpeg"
	"github.com/danlitvak/tool-cliptrim/internal/jobs"
	"github.com/danlitvak/tool-cliptrim/internal/library"
	"github.com/danlitvak/tool-cliptrim/internal/logging"
)

// Exporter runs one background job per clip: every segment becomes its own
// file in the OUT folder. Callers track outcomes through the job bus.
type Exporter struct {
	lib    library.ClipService
	ffm    ffmpeg.FFmpeg
	bus    *jobs.Bus
	outDir string
	logger *slog.Logger
}

func NewExporter(lib library.ClipService, ffm ffmpeg.FFmpeg, bus *jobs.Bus, outDir string, logger *slog.Logger) *Exporter {
	return &Exporter{lib: lib, ffm: ffm, bus: bus, outDir: outDir, logger: logger}
}

// ExportClip validates the clip and launches the cut job in the background.
// The returned job id matches the events the job will emit. The job runs on
// its own context so navigating away does not cancel an export in flight.
func (e *Exporter) ExportClip(ctx context.Context, clipID string) (string, error) {
	clip, err := e.lib.GetClip(ctx, clipID)
	if err != nil {
		return "", err
	}
	if clip == nil {
		return "", fmt.Errorf("clip not found")
	}

	segments, err := e.lib.GetSegments(ctx, clipID)
	if err != nil {
		return "", err
	}
	if len(segments) == 0 {
		return "", fmt.Errorf("clip has no segments to export")
	}

	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].StartMs < segments[j].StartMs
	})

	jobID := library.NewID()
	e.bus.EmitStarted(jobs.StartedEvent{
		JobID:         jobID,
		ClipID:        clip.ID,
		ClipName:      clip.OriginalName,
		TotalSegments: len(segments),
	})

	go e.run(context.Background(), jobID, clip, segments)
	return jobID, nil
}

func (e *Exporter) run(ctx context.Context, jobID string, clip *library.Clip, segments []*library.Segment) {
	log := e.logger
	if log != nil {
		log = logging.WithClipID(logging.WithJobID(log, jobID), clip.ID)
	}

	for i, seg := range segments {
		dst := uniquePath(e.outDir, outputName(clip.OriginalName, i+1, seg.Label))

		if err := e.ffm.ExportSegment(ctx, clip.BackupPath, dst, seg.StartMs, seg.EndMs); err != nil {
			if log != nil {
				log.Error("segment export failed", "segment_id", seg.ID, "error", err)
			}
			e.bus.EmitFailed(jobs.FailedEvent{
				JobID: jobID,
				Error: fmt.Sprintf("segment %d of %d: %v", i+1, len(segments), err),
			})
			return
		}

		if log != nil {
			log.Info("segment exported", "segment_id", seg.ID, "output", dst)
		}
		e.bus.EmitProgress(jobs.ProgressEvent{
			JobID:          jobID,
			CurrentSegment: i + 1,
			TotalSegments:  len(segments),
		})
	}

	if err := e.lib.MarkClipDone(ctx, clip.ID); err != nil && log != nil {
		log.Warn("failed to mark clip done", "error", err)
	}
	e.bus.EmitCompleted(jobs.CompletedEvent{JobID: jobID})

	if log != nil {
		log.Info("export completed", "segments", len(segments))
	}
}
