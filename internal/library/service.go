package library

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/danlitvak/tool-cliptrim/internal/ffmpeg"
)

// ClipService is the command surface the editing session and the HTTP API
// call into. All persistence and file movement happens here.
type ClipService interface {
	ScanClips(ctx context.Context) ([]*Clip, error)
	GetClips(ctx context.Context) ([]*Clip, error)
	GetClip(ctx context.Context, id string) (*Clip, error)
	OpenClip(ctx context.Context, id string) (*Clip, error)
	GetSegments(ctx context.Context, clipID string) ([]*Segment, error)
	AddSegment(ctx context.Context, clipID string, startMs, endMs int64) (*Segment, error)
	DeleteSegment(ctx context.Context, segmentID string) error
	UpdateSegmentLabel(ctx context.Context, segmentID, label string) error
	UpdateSegmentBounds(ctx context.Context, segmentID string, startMs, endMs int64) error
	MarkClipDone(ctx context.Context, clipID string) error
	GetVideoInfo(ctx context.Context, path string) (*VideoInfo, error)
}

// Dirs is the working folder layout the service operates on.
type Dirs struct {
	In     string
	Out    string
	Backup string
}

type Service struct {
	repo   Repository
	dirs   Dirs
	ffm    ffmpeg.FFmpeg
	logger *slog.Logger
}

func NewService(repo Repository, dirs Dirs, ffm ffmpeg.FFmpeg, logger *slog.Logger) *Service {
	return &Service{repo: repo, dirs: dirs, ffm: ffm, logger: logger}
}

// ScanClips walks the IN folder, registers any clip files not seen before,
// and returns the full clip list.
func (s *Service) ScanClips(ctx context.Context) ([]*Clip, error) {
	entries, err := os.ReadDir(s.dirs.In)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read IN folder: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !IsClipFile(entry.Name()) {
			continue
		}

		existing, err := s.repo.GetClipByOriginalName(ctx, entry.Name())
		if err != nil {
			return nil, err
		}
		if existing != nil {
			continue
		}

		clip := &Clip{
			ID:           NewID(),
			OriginalName: entry.Name(),
			// Until the clip is opened, backup_path holds the IN location.
			BackupPath: filepath.Join(s.dirs.In, entry.Name()),
			Status:     ClipStatusNew,
			CreatedAt:  time.Now(),
		}
		if err := s.repo.CreateClip(ctx, clip); err != nil {
			return nil, err
		}

		if s.logger != nil {
			s.logger.Info("clip registered", "clip_id", clip.ID, "name", clip.OriginalName)
		}
	}

	return s.repo.ListClips(ctx)
}

func (s *Service) GetClips(ctx context.Context) ([]*Clip, error) {
	return s.repo.ListClips(ctx)
}

func (s *Service) GetClip(ctx context.Context, id string) (*Clip, error) {
	return s.repo.GetClip(ctx, id)
}

// OpenClip makes a clip active for editing. A freshly scanned clip is moved
// from IN to BACKUP first so the original survives the export step.
func (s *Service) OpenClip(ctx context.Context, id string) (*Clip, error) {
	clip, err := s.repo.GetClip(ctx, id)
	if err != nil {
		return nil, err
	}
	if clip == nil {
		return nil, fmt.Errorf("clip not found")
	}

	if clip.Status == ClipStatusNew {
		if _, err := os.Stat(clip.BackupPath); err == nil {
			// Pending marks a move in flight; a crash here is swept back to
			// new on the next startup.
			if err := s.repo.UpdateClipStatus(ctx, clip.ID, ClipStatusPending); err != nil {
				return nil, err
			}

			target, err := s.moveToBackup(clip.BackupPath)
			if err != nil {
				if resetErr := s.repo.UpdateClipStatus(ctx, clip.ID, ClipStatusNew); resetErr != nil && s.logger != nil {
					s.logger.Error("failed to reset clip status", "clip_id", clip.ID, "error", resetErr)
				}
				return nil, fmt.Errorf("failed to back up clip: %w", err)
			}

			clip.BackupPath = target
			clip.Status = ClipStatusInProgress
			if err := s.repo.UpdateClipBackupPath(ctx, clip.ID, clip.BackupPath, clip.Status); err != nil {
				return nil, err
			}

			if s.logger != nil {
				s.logger.Info("clip moved to backup", "clip_id", clip.ID, "path", clip.BackupPath)
			}
		}
	}

	return clip, nil
}

// moveToBackup renames the file into BACKUP, suffixing _orig_vN on collisions.
func (s *Service) moveToBackup(srcPath string) (string, error) {
	name := filepath.Base(srcPath)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	target := filepath.Join(s.dirs.Backup, name)
	counter := 2
	for {
		if _, err := os.Stat(target); os.IsNotExist(err) {
			break
		}
		target = filepath.Join(s.dirs.Backup, fmt.Sprintf("%s_orig_v%d%s", stem, counter, ext))
		counter++
	}

	if err := os.Rename(srcPath, target); err != nil {
		return "", err
	}
	return target, nil
}

func (s *Service) GetSegments(ctx context.Context, clipID string) ([]*Segment, error) {
	return s.repo.GetSegmentsByClip(ctx, clipID)
}

func (s *Service) AddSegment(ctx context.Context, clipID string, startMs, endMs int64) (*Segment, error) {
	if startMs < 0 || endMs <= startMs {
		return nil, fmt.Errorf("invalid segment bounds: [%d, %d)", startMs, endMs)
	}

	count, err := s.repo.CountSegmentsByClip(ctx, clipID)
	if err != nil {
		return nil, err
	}

	seg := &Segment{
		ID:      NewID(),
		ClipID:  clipID,
		Index:   count,
		StartMs: startMs,
		EndMs:   endMs,
	}
	if err := s.repo.CreateSegment(ctx, seg); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("segment added", "segment_id", seg.ID, "clip_id", clipID,
			"start_ms", startMs, "end_ms", endMs)
	}
	return seg, nil
}

func (s *Service) DeleteSegment(ctx context.Context, segmentID string) error {
	return s.repo.DeleteSegment(ctx, segmentID)
}

func (s *Service) UpdateSegmentLabel(ctx context.Context, segmentID, label string) error {
	return s.repo.UpdateSegmentLabel(ctx, segmentID, label)
}

func (s *Service) UpdateSegmentBounds(ctx context.Context, segmentID string, startMs, endMs int64) error {
	return s.repo.UpdateSegmentBounds(ctx, segmentID, startMs, endMs)
}

func (s *Service) MarkClipDone(ctx context.Context, clipID string) error {
	return s.repo.UpdateClipStatus(ctx, clipID, ClipStatusDone)
}

func (s *Service) GetVideoInfo(ctx context.Context, path string) (*VideoInfo, error) {
	probe, err := s.ffm.Probe(ctx, path)
	if err != nil {
		return nil, err
	}
	return &VideoInfo{DurationSec: probe.DurationSec, FPS: probe.FPS}, nil
}
