package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mrowan/craglog/internal/domain"
)

const areaColumns = "id, name, state, country, lat, lng, parent_area_id, created_at"

type AreaStore struct {
	db *sql.DB
}

func NewAreaStore(db *sql.DB) *AreaStore {
	return &AreaStore{db: db}
}

func (s *AreaStore) Create(ctx context.Context, area *domain.Area) (*domain.Area, error) {
	country := area.Country
	if country == "" {
		country = "United States"
	}
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO areas (name, state, country, lat, lng, parent_area_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`, area.Name, area.State, country, area.Lat, area.Lng, area.ParentAreaID)
	if err != nil {
		return nil, fmt.Errorf("failed to create area: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *AreaStore) GetByID(ctx context.Context, id int64) (*domain.Area, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+areaColumns+` FROM areas WHERE id = ?
	`, id)
	area, err := scanArea(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get area: %w", err)
	}
	return area, nil
}

// GetTopLevelByName returns the top-level area with the given name, or nil.
func (s *AreaStore) GetTopLevelByName(ctx context.Context, name string) (*domain.Area, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+areaColumns+` FROM areas WHERE name = ? AND parent_area_id IS NULL
	`, name)
	area, err := scanArea(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get area by name: %w", err)
	}
	return area, nil
}

// FindByNameAndParent is the importer's natural-key lookup. A nil parentID
// matches top-level areas only.
func (s *AreaStore) FindByNameAndParent(ctx context.Context, name string, parentID *int64) (*domain.Area, error) {
	var row *sql.Row
	if parentID == nil {
		row = s.db.QueryRowContext(ctx, `
			SELECT `+areaColumns+` FROM areas WHERE name = ? AND parent_area_id IS NULL
		`, name)
	} else {
		row = s.db.QueryRowContext(ctx, `
			SELECT `+areaColumns+` FROM areas WHERE name = ? AND parent_area_id = ?
		`, name, *parentID)
	}
	area, err := scanArea(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find area: %w", err)
	}
	return area, nil
}

func (s *AreaStore) ListAll(ctx context.Context) ([]*domain.Area, error) {
	return s.list(ctx, `SELECT `+areaColumns+` FROM areas ORDER BY id`)
}

func (s *AreaStore) ListTopLevel(ctx context.Context) ([]*domain.Area, error) {
	return s.list(ctx, `SELECT `+areaColumns+` FROM areas WHERE parent_area_id IS NULL ORDER BY name ASC`)
}

func (s *AreaStore) ListTopLevelByState(ctx context.Context, state string) ([]*domain.Area, error) {
	return s.list(ctx, `
		SELECT `+areaColumns+` FROM areas
		WHERE parent_area_id IS NULL AND state = ?
		ORDER BY name ASC
	`, state)
}

func (s *AreaStore) ListChildren(ctx context.Context, parentID int64) ([]*domain.Area, error) {
	return s.list(ctx, `
		SELECT `+areaColumns+` FROM areas WHERE parent_area_id = ? ORDER BY name ASC
	`, parentID)
}

// SearchByName matches areas at any depth whose name contains q
// (case-insensitive for ASCII, which is what sqlite LIKE gives us).
func (s *AreaStore) SearchByName(ctx context.Context, q string, limit int) ([]*domain.Area, error) {
	return s.list(ctx, `
		SELECT `+areaColumns+` FROM areas WHERE name LIKE '%' || ? || '%' LIMIT ?
	`, q, limit)
}

// SearchTopLevelByState matches top-level areas whose state contains q.
func (s *AreaStore) SearchTopLevelByState(ctx context.Context, q string, limit int) ([]*domain.Area, error) {
	return s.list(ctx, `
		SELECT `+areaColumns+` FROM areas
		WHERE parent_area_id IS NULL AND state IS NOT NULL AND state LIKE '%' || ? || '%'
		LIMIT ?
	`, q, limit)
}

// UpdateCoords backfills coordinates on an area.
func (s *AreaStore) UpdateCoords(ctx context.Context, id int64, lat, lng float64) error {
	if _, err := s.db.ExecContext(ctx, `
		UPDATE areas SET lat = ?, lng = ? WHERE id = ?
	`, lat, lng, id); err != nil {
		return fmt.Errorf("failed to update area coords: %w", err)
	}
	return nil
}

// UpdateState backfills the state on an area.
func (s *AreaStore) UpdateState(ctx context.Context, id int64, state string) error {
	if _, err := s.db.ExecContext(ctx, `
		UPDATE areas SET state = ? WHERE id = ?
	`, state, id); err != nil {
		return fmt.Errorf("failed to update area state: %w", err)
	}
	return nil
}

// NormalizeState rewrites one state value across all areas and reports how
// many rows changed.
func (s *AreaStore) NormalizeState(ctx context.Context, from, to string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `UPDATE areas SET state = ? WHERE state = ?`, to, from)
	if err != nil {
		return 0, fmt.Errorf("failed to normalize state %q: %w", from, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// Delete removes an area. Descendant areas and all attached climbs go with it
// via the schema's cascade rules.
func (s *AreaStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM areas WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete area: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *AreaStore) DeleteAll(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM areas`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete areas: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

func (s *AreaStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM areas`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count areas: %w", err)
	}
	return n, nil
}

func (s *AreaStore) list(ctx context.Context, query string, args ...any) ([]*domain.Area, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list areas: %w", err)
	}
	defer rows.Close()

	var areas []*domain.Area
	for rows.Next() {
		area, err := scanArea(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan area: %w", err)
		}
		areas = append(areas, area)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating areas: %w", err)
	}
	return areas, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArea(r rowScanner) (*domain.Area, error) {
	area := &domain.Area{}
	err := r.Scan(&area.ID, &area.Name, &area.State, &area.Country,
		&area.Lat, &area.Lng, &area.ParentAreaID, &area.CreatedAt)
	if err != nil {
		return nil, err
	}
	return area, nil
}
