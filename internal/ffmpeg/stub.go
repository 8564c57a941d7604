package ffmpeg

import (
	"context"
	"log/slog"
	"os"
)

// StubFFmpeg stands in on machines without ffmpeg installed. Probe reports a
// fixed 30 fps and zero duration; ExportSegment writes an empty file so the
// exporter's naming and progress paths stay exercisable.
type StubFFmpeg struct {
	logger *slog.Logger
}

func NewStubFFmpeg(logger *slog.Logger) *StubFFmpeg {
	return &StubFFmpeg{logger: logger}
}

func (f *StubFFmpeg) Probe(ctx context.Context, filePath string) (*ProbeResult, error) {
	if f.logger != nil {
		f.logger.Info("ffmpeg stub: probe requested", "path", filePath)
	}
	return &ProbeResult{FPS: 30}, nil
}

func (f *StubFFmpeg) ExportSegment(ctx context.Context, src, dst string, startMs, endMs int64) error {
	if f.logger != nil {
		f.logger.Info("ffmpeg stub: segment export requested",
			"src", src, "dst", dst, "start_ms", startMs, "end_ms", endMs)
	}
	return os.WriteFile(dst, nil, 0644)
}
