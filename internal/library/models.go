package library

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"
)

const (
	ClipStatusNew        = "new"
	ClipStatusPending    = "pending"
	ClipStatusInProgress = "in_progress"
	ClipStatusDone       = "done"
)

// Clip is a source video registered from the IN folder. The backup path
// points at the original file after it has been moved to BACKUP.
type Clip struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"original_name"`
	BackupPath   string    `json:"backup_path"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// Segment is a committed time range of a clip, consumed by export.
// Bounds are milliseconds from the start of the clip, start < end.
type Segment struct {
	ID      string `json:"id"`
	ClipID  string `json:"clip_id"`
	Index   int    `json:"idx"`
	StartMs int64  `json:"start_ms"`
	EndMs   int64  `json:"end_ms"`
	Label   string `json:"label,omitempty"`
}

// VideoInfo is the probe result for a clip's backing file.
type VideoInfo struct {
	DurationSec float64 `json:"duration_sec"`
	FPS         float64 `json:"fps"`
}

func NewID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:])
}

func IsClipFile(filename string) bool {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 {
		return false
	}
	return strings.ToLower(filename[i:]) == ".mp4"
}
