package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mrowan/craglog/internal/domain"
)

const mediaColumns = "id, climb_id, user_id, type, url, thumbnail_url, caption, duration_seconds, bytes, created_at"

type MediaStore struct {
	db *sql.DB
}

func NewMediaStore(db *sql.DB) *MediaStore {
	return &MediaStore{db: db}
}

func (s *MediaStore) Create(ctx context.Context, m *domain.Media) (*domain.Media, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO media (climb_id, user_id, type, url, thumbnail_url, caption, duration_seconds, bytes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ClimbID, m.UserID, string(m.Type), m.URL, m.ThumbnailURL, m.Caption,
		m.DurationSeconds, m.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to create media: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *MediaStore) GetByID(ctx context.Context, id int64) (*domain.Media, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+mediaColumns+` FROM media WHERE id = ?`, id)
	m, err := scanMedia(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get media: %w", err)
	}
	return m, nil
}

func (s *MediaStore) ListByClimb(ctx context.Context, climbID int64) ([]*domain.Media, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+mediaColumns+` FROM media WHERE climb_id = ? ORDER BY created_at DESC, id DESC
	`, climbID)
	if err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}
	defer rows.Close()

	var media []*domain.Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan media: %w", err)
		}
		media = append(media, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating media: %w", err)
	}
	return media, nil
}

func scanMedia(r rowScanner) (*domain.Media, error) {
	m := &domain.Media{}
	var typ string
	err := r.Scan(&m.ID, &m.ClimbID, &m.UserID, &typ, &m.URL, &m.ThumbnailURL,
		&m.Caption, &m.DurationSeconds, &m.Bytes, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.Type = domain.MediaType(typ)
	return m, nil
}
