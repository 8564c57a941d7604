package library

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/danlitvak/tool-cliptrim/internal/db"
	"github.com/danlitvak/tool-cliptrim/internal/ffmpeg"
)

func setupTestService(t *testing.T) (*Service, Dirs, *db.DB) {
	t.Helper()
	tmpDir := t.TempDir()

	database, err := db.New(filepath.Join(tmpDir, "test.db"), nil)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	dirs := Dirs{
		In:     filepath.Join(tmpDir, "IN"),
		Out:    filepath.Join(tmpDir, "OUT"),
		Backup: filepath.Join(tmpDir, "BACKUP"),
	}
	for _, d := range []string{dirs.In, dirs.Out, dirs.Backup} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}

	repo := NewRepository(database.Conn())
	svc := NewService(repo, dirs, ffmpeg.NewStubFFmpeg(nil), nil)
	return svc, dirs, database
}

func writeClipFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestScanClipsRegistersNewFiles(t *testing.T) {
	svc, dirs, _ := setupTestService(t)
	ctx := context.Background()

	writeClipFile(t, dirs.In, "b.mp4")
	writeClipFile(t, dirs.In, "a.mp4")
	writeClipFile(t, dirs.In, "notes.txt") // ignored

	clips, err := svc.ScanClips(ctx)
	if err != nil {
		t.Fatalf("ScanClips: %v", err)
	}
	if len(clips) != 2 {
		t.Fatalf("got %d clips, want 2", len(clips))
	}
	// Listing is sorted by original name.
	if clips[0].OriginalName != "a.mp4" || clips[1].OriginalName != "b.mp4" {
		t.Errorf("order = %s, %s", clips[0].OriginalName, clips[1].OriginalName)
	}
	for _, c := range clips {
		if c.Status != ClipStatusNew {
			t.Errorf("%s status = %s, want new", c.OriginalName, c.Status)
		}
	}
}

func TestScanClipsIdempotent(t *testing.T) {
	svc, dirs, _ := setupTestService(t)
	ctx := context.Background()

	writeClipFile(t, dirs.In, "a.mp4")

	if _, err := svc.ScanClips(ctx); err != nil {
		t.Fatal(err)
	}
	clips, err := svc.ScanClips(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(clips) != 1 {
		t.Errorf("got %d clips after rescan, want 1", len(clips))
	}
}

func TestOpenClipMovesToBackup(t *testing.T) {
	svc, dirs, _ := setupTestService(t)
	ctx := context.Background()

	inPath := writeClipFile(t, dirs.In, "a.mp4")
	clips, err := svc.ScanClips(ctx)
	if err != nil {
		t.Fatal(err)
	}

	clip, err := svc.OpenClip(ctx, clips[0].ID)
	if err != nil {
		t.Fatalf("OpenClip: %v", err)
	}

	if clip.Status != ClipStatusInProgress {
		t.Errorf("status = %s, want in_progress", clip.Status)
	}
	if clip.BackupPath != filepath.Join(dirs.Backup, "a.mp4") {
		t.Errorf("backup path = %s", clip.BackupPath)
	}
	if _, err := os.Stat(inPath); !os.IsNotExist(err) {
		t.Error("source should be gone from IN")
	}
	if _, err := os.Stat(clip.BackupPath); err != nil {
		t.Errorf("backup file missing: %v", err)
	}
}

func TestOpenClipBackupCollisionSuffix(t *testing.T) {
	svc, dirs, _ := setupTestService(t)
	ctx := context.Background()

	// A stale file already sits in BACKUP under the same name.
	writeClipFile(t, dirs.Backup, "a.mp4")
	writeClipFile(t, dirs.In, "a.mp4")

	clips, err := svc.ScanClips(ctx)
	if err != nil {
		t.Fatal(err)
	}
	clip, err := svc.OpenClip(ctx, clips[0].ID)
	if err != nil {
		t.Fatal(err)
	}

	want := filepath.Join(dirs.Backup, "a_orig_v2.mp4")
	if clip.BackupPath != want {
		t.Errorf("backup path = %s, want %s", clip.BackupPath, want)
	}
}

func TestOpenClipSecondTimeIsStable(t *testing.T) {
	svc, dirs, _ := setupTestService(t)
	ctx := context.Background()

	writeClipFile(t, dirs.In, "a.mp4")
	clips, _ := svc.ScanClips(ctx)

	first, err := svc.OpenClip(ctx, clips[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.OpenClip(ctx, clips[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if second.BackupPath != first.BackupPath {
		t.Errorf("reopen moved the file: %s vs %s", second.BackupPath, first.BackupPath)
	}
}

func TestSegmentLifecycle(t *testing.T) {
	svc, dirs, _ := setupTestService(t)
	ctx := context.Background()

	writeClipFile(t, dirs.In, "a.mp4")
	clips, _ := svc.ScanClips(ctx)
	clipID := clips[0].ID

	first, err := svc.AddSegment(ctx, clipID, 5_000, 10_000)
	if err != nil {
		t.Fatalf("AddSegment: %v", err)
	}
	if first.Index != 0 {
		t.Errorf("first index = %d, want 0", first.Index)
	}

	second, err := svc.AddSegment(ctx, clipID, 1_000, 2_000)
	if err != nil {
		t.Fatal(err)
	}
	if second.Index != 1 {
		t.Errorf("second index = %d, want 1", second.Index)
	}

	// Listed ascending by start time regardless of insertion order.
	segs, err := svc.GetSegments(ctx, clipID)
	if err != nil {
		t.Fatal(err)
	}
	if len(segs) != 2 || segs[0].StartMs != 1_000 {
		t.Fatalf("segments not sorted by start: %+v", segs)
	}

	if err := svc.UpdateSegmentLabel(ctx, first.ID, "clutch"); err != nil {
		t.Fatal(err)
	}
	if err := svc.UpdateSegmentBounds(ctx, first.ID, 6_000, 11_000); err != nil {
		t.Fatal(err)
	}

	segs, _ = svc.GetSegments(ctx, clipID)
	var updated *Segment
	for _, s := range segs {
		if s.ID == first.ID {
			updated = s
		}
	}
	if updated == nil || updated.Label != "clutch" || updated.StartMs != 6_000 || updated.EndMs != 11_000 {
		t.Errorf("updated segment = %+v", updated)
	}

	if err := svc.DeleteSegment(ctx, second.ID); err != nil {
		t.Fatal(err)
	}
	segs, _ = svc.GetSegments(ctx, clipID)
	if len(segs) != 1 {
		t.Errorf("got %d segments after delete, want 1", len(segs))
	}
}

func TestAddSegmentRejectsBadBounds(t *testing.T) {
	svc, dirs, _ := setupTestService(t)
	ctx := context.Background()

	writeClipFile(t, dirs.In, "a.mp4")
	clips, _ := svc.ScanClips(ctx)

	tests := []struct {
		name    string
		startMs int64
		endMs   int64
	}{
		{"negative start", -1, 1_000},
		{"end equals start", 1_000, 1_000},
		{"end before start", 2_000, 1_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.AddSegment(ctx, clips[0].ID, tt.startMs, tt.endMs); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestMarkClipDone(t *testing.T) {
	svc, dirs, _ := setupTestService(t)
	ctx := context.Background()

	writeClipFile(t, dirs.In, "a.mp4")
	clips, _ := svc.ScanClips(ctx)

	if err := svc.MarkClipDone(ctx, clips[0].ID); err != nil {
		t.Fatal(err)
	}
	clip, err := svc.GetClip(ctx, clips[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if clip.Status != ClipStatusDone {
		t.Errorf("status = %s, want done", clip.Status)
	}
}

func TestIsClipFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"match.mp4", true},
		{"MATCH.MP4", true},
		{"clip.mkv", false},
		{"notes.txt", false},
		{"mp4", false},
	}
	for _, tt := range tests {
		if got := IsClipFile(tt.name); got != tt.want {
			t.Errorf("IsClipFile(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
