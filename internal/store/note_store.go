package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mrowan/craglog/internal/domain"
)

type NoteStore struct {
	db *sql.DB
}

func NewNoteStore(db *sql.DB) *NoteStore {
	return &NoteStore{db: db}
}

func (s *NoteStore) Create(ctx context.Context, note *domain.RouteNote) (*domain.RouteNote, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO route_notes (climb_id, user_id, body) VALUES (?, ?, ?)
	`, note.ClimbID, note.UserID, note.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	created := &domain.RouteNote{}
	err = s.db.QueryRowContext(ctx, `
		SELECT id, climb_id, user_id, body, created_at FROM route_notes WHERE id = ?
	`, id).Scan(&created.ID, &created.ClimbID, &created.UserID, &created.Body, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return created, nil
}

// ListByClimb returns a climb's notes, newest first.
func (s *NoteStore) ListByClimb(ctx context.Context, climbID int64) ([]*domain.RouteNote, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, climb_id, user_id, body, created_at
		FROM route_notes WHERE climb_id = ?
		ORDER BY created_at DESC, id DESC
	`, climbID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []*domain.RouteNote
	for rows.Next() {
		note := &domain.RouteNote{}
		if err := rows.Scan(&note.ID, &note.ClimbID, &note.UserID, &note.Body, &note.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notes: %w", err)
	}
	return notes, nil
}
