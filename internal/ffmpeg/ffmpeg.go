// Package ffmpeg wraps the external ffmpeg/ffprobe binaries. The agent never
// decodes video itself; it only probes metadata and cuts segments.
package ffmpeg

import "context"

type FFmpeg interface {
	// Probe returns duration and frame rate for a video file.
	Probe(ctx context.Context, filePath string) (*ProbeResult, error)
	// ExportSegment writes the [startMs, endMs) range of src to dst,
	// re-encoding for frame accuracy.
	ExportSegment(ctx context.Context, src, dst string, startMs, endMs int64) error
}

type ProbeResult struct {
	DurationSec float64
	FPS         float64
}
