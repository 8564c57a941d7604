package playback

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/danlitvak/tool-cliptrim/internal/library"
)

// Server streams a clip's backup file to the preview player. Lookups go
// through the clip service so only registered clips are reachable, and the
// resolved path must sit under the backup folder.
type Server struct {
	lib       library.ClipService
	backupDir string
	logger    *slog.Logger
}

func NewServer(lib library.ClipService, backupDir string, logger *slog.Logger) *Server {
	return &Server{lib: lib, backupDir: backupDir, logger: logger}
}

// ServeClip streams the source video of one clip, honoring byte ranges.
func (s *Server) ServeClip(w http.ResponseWriter, r *http.Request, clipID string) error {
	clip, err := s.lib.GetClip(r.Context(), clipID)
	if err != nil {
		return fmt.Errorf("failed to look up clip: %w", err)
	}
	if clip == nil {
		http.Error(w, "clip not found", http.StatusNotFound)
		return nil
	}

	path, err := filepath.Abs(clip.BackupPath)
	if err != nil {
		return err
	}
	root, err := filepath.Abs(s.backupDir)
	if err != nil {
		return err
	}
	if path != root && !strings.HasPrefix(path, root+string(filepath.Separator)) {
		// Unopened clips still point at the IN folder; those are not
		// streamable until OpenClip moves them.
		http.Error(w, "clip not opened", http.StatusConflict)
		return nil
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "source file missing", http.StatusNotFound)
			return nil
		}
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat source file: %w", err)
	}
	size := stat.Size()

	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("Content-Type", "video/mp4")

	byteRange, err := ParseRange(r.Header.Get("Range"), size)
	if err == ErrUnsatisfiable {
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", size))
		http.Error(w, "range not satisfiable", http.StatusRequestedRangeNotSatisfiable)
		return nil
	}
	if err != nil && err != ErrInvalidRange {
		return err
	}

	// An unparseable Range header degrades to a full-body response.
	if byteRange == nil {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", size))
		w.WriteHeader(http.StatusOK)
		io.Copy(w, file)
		return nil
	}

	w.Header().Set("Content-Length", fmt.Sprintf("%d", byteRange.Length()))
	w.Header().Set("Content-Range", byteRange.ContentRange(size))
	w.WriteHeader(http.StatusPartialContent)

	if _, err := file.Seek(byteRange.Start, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek source file: %w", err)
	}
	io.CopyN(w, file, byteRange.Length())
	return nil
}
