package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
)

// ExecFFmpeg shells out to ffprobe/ffmpeg found on PATH (or at configured
// locations).
type ExecFFmpeg struct {
	ffmpegPath  string
	ffprobePath string
	logger      *slog.Logger
}

func NewExecFFmpeg(ffmpegPath, ffprobePath string, logger *slog.Logger) *ExecFFmpeg {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &ExecFFmpeg{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath, logger: logger}
}

type probeFormat struct {
	Duration string `json:"duration"`
}

type probeStream struct {
	RFrameRate string `json:"r_frame_rate"`
}

type probeOutput struct {
	Format  probeFormat   `json:"format"`
	Streams []probeStream `json:"streams"`
}

func (f *ExecFFmpeg) Probe(ctx context.Context, filePath string) (*ProbeResult, error) {
	cmd := exec.CommandContext(ctx, f.ffprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=r_frame_rate:format=duration",
		"-of", "json",
		filePath,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	var parsed probeOutput
	if err := json.Unmarshal(stdout.Bytes(), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	result := &ProbeResult{FPS: 30}

	if d, err := strconv.ParseFloat(parsed.Format.Duration, 64); err == nil {
		result.DurationSec = d
	}

	if len(parsed.Streams) > 0 {
		if fps, ok := parseFrameRate(parsed.Streams[0].RFrameRate); ok {
			result.FPS = fps
		}
	}

	return result, nil
}

// parseFrameRate parses ffprobe's rational r_frame_rate form, e.g. "30000/1001".
func parseFrameRate(s string) (float64, bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return 0, false
	}
	num, err1 := strconv.ParseFloat(parts[0], 64)
	den, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil || den <= 0 {
		return 0, false
	}
	return num / den, true
}

func (f *ExecFFmpeg) ExportSegment(ctx context.Context, src, dst string, startMs, endMs int64) error {
	start := float64(startMs) / 1000.0
	duration := float64(endMs-startMs) / 1000.0

	cmd := exec.CommandContext(ctx, f.ffmpegPath,
		"-y",
		"-ss", fmt.Sprintf("%.3f", start),
		"-i", src,
		"-t", fmt.Sprintf("%.3f", duration),
		"-c:v", "libx264",
		"-preset", "fast",
		"-c:a", "aac",
		dst,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if f.logger != nil {
		f.logger.Debug("exporting segment", "src", src, "dst", dst, "start_ms", startMs, "end_ms", endMs)
	}

	if err := cmd.Run(); err != nil {
		tail := stderr.String()
		if len(tail) > 512 {
			tail = tail[len(tail)-512:]
		}
		return fmt.Errorf("ffmpeg failed: %w: %s", err, strings.TrimSpace(tail))
	}
	return nil
}
