package library

import (
	"context"
	"database/sql"
	"time"
)

type Repository interface {
	CreateClip(ctx context.Context, clip *Clip) error
	GetClip(ctx context.Context, id string) (*Clip, error)
	GetClipByOriginalName(ctx context.Context, name string) (*Clip, error)
	ListClips(ctx context.Context) ([]*Clip, error)
	UpdateClipStatus(ctx context.Context, id, status string) error
	UpdateClipBackupPath(ctx context.Context, id, backupPath, status string) error

	CreateSegment(ctx context.Context, seg *Segment) error
	GetSegment(ctx context.Context, id string) (*Segment, error)
	GetSegmentsByClip(ctx context.Context, clipID string) ([]*Segment, error)
	CountSegmentsByClip(ctx context.Context, clipID string) (int, error)
	DeleteSegment(ctx context.Context, id string) error
	UpdateSegmentLabel(ctx context.Context, id, label string) error
	UpdateSegmentBounds(ctx context.Context, id string, startMs, endMs int64) error

	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) CreateClip(ctx context.Context, c *Clip) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO clips (id, original_name, backup_path, status, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, c.ID, c.OriginalName, c.BackupPath, c.Status, c.CreatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) GetClip(ctx context.Context, id string) (*Clip, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, original_name, backup_path, status, created_at
		FROM clips WHERE id = ?
	`, id)
	return r.scanClip(row)
}

func (r *SQLiteRepository) GetClipByOriginalName(ctx context.Context, name string) (*Clip, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, original_name, backup_path, status, created_at
		FROM clips WHERE original_name = ?
	`, name)
	return r.scanClip(row)
}

func (r *SQLiteRepository) scanClip(row *sql.Row) (*Clip, error) {
	var c Clip
	var createdAt string

	err := row.Scan(&c.ID, &c.OriginalName, &c.BackupPath, &c.Status, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &c, nil
}

func (r *SQLiteRepository) ListClips(ctx context.Context) ([]*Clip, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, original_name, backup_path, status, created_at
		FROM clips ORDER BY original_name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clips []*Clip
	for rows.Next() {
		var c Clip
		var createdAt string
		if err := rows.Scan(&c.ID, &c.OriginalName, &c.BackupPath, &c.Status, &createdAt); err != nil {
			return nil, err
		}
		c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		clips = append(clips, &c)
	}
	return clips, rows.Err()
}

func (r *SQLiteRepository) UpdateClipStatus(ctx context.Context, id, status string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE clips SET status = ? WHERE id = ?", status, id)
	return err
}

func (r *SQLiteRepository) UpdateClipBackupPath(ctx context.Context, id, backupPath, status string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE clips SET backup_path = ?, status = ? WHERE id = ?", backupPath, status, id)
	return err
}

func (r *SQLiteRepository) CreateSegment(ctx context.Context, s *Segment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO segments (id, clip_id, idx, start_ms, end_ms, label)
		VALUES (?, ?, ?, ?, ?, ?)
	`, s.ID, s.ClipID, s.Index, s.StartMs, s.EndMs, nullString(s.Label))
	return err
}

func (r *SQLiteRepository) GetSegment(ctx context.Context, id string) (*Segment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, clip_id, idx, start_ms, end_ms, label
		FROM segments WHERE id = ?
	`, id)

	var s Segment
	var label sql.NullString
	err := row.Scan(&s.ID, &s.ClipID, &s.Index, &s.StartMs, &s.EndMs, &label)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.Label = label.String
	return &s, nil
}

func (r *SQLiteRepository) GetSegmentsByClip(ctx context.Context, clipID string) ([]*Segment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, clip_id, idx, start_ms, end_ms, label
		FROM segments WHERE clip_id = ? ORDER BY start_ms ASC
	`, clipID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var segments []*Segment
	for rows.Next() {
		var s Segment
		var label sql.NullString
		if err := rows.Scan(&s.ID, &s.ClipID, &s.Index, &s.StartMs, &s.EndMs, &label); err != nil {
			return nil, err
		}
		s.Label = label.String
		segments = append(segments, &s)
	}
	return segments, rows.Err()
}

func (r *SQLiteRepository) CountSegmentsByClip(ctx context.Context, clipID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM segments WHERE clip_id = ?", clipID).Scan(&count)
	return count, err
}

func (r *SQLiteRepository) DeleteSegment(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM segments WHERE id = ?", id)
	return err
}

func (r *SQLiteRepository) UpdateSegmentLabel(ctx context.Context, id, label string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE segments SET label = ? WHERE id = ?", nullString(label), id)
	return err
}

func (r *SQLiteRepository) UpdateSegmentBounds(ctx context.Context, id string, startMs, endMs int64) error {
	_, err := r.db.ExecContext(ctx, "UPDATE segments SET start_ms = ?, end_ms = ? WHERE id = ?", startMs, endMs, id)
	return err
}

func (r *SQLiteRepository) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (r *SQLiteRepository) SetConfig(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
