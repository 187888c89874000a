package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mrowan/craglog/internal/domain"
)

const climbColumns = `id, area_id, name, type, yds, lat, lng, length_meters,
	description, hero_url, hero_attribution, source, source_id, created_at`

type ClimbStore struct {
	db *sql.DB
}

func NewClimbStore(db *sql.DB) *ClimbStore {
	return &ClimbStore{db: db}
}

func (s *ClimbStore) Create(ctx context.Context, climb *domain.Climb) (*domain.Climb, error) {
	typ := climb.Type
	if typ == "" {
		typ = domain.ClimbTypeSport
	}
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO climbs (area_id, name, type, yds, lat, lng, length_meters,
			description, hero_url, hero_attribution, source, source_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, climb.AreaID, climb.Name, typ, climb.Yds, climb.Lat, climb.Lng,
		climb.LengthMeters, climb.Description, climb.HeroURL,
		climb.HeroAttribution, climb.Source, climb.SourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to create climb: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *ClimbStore) GetByID(ctx context.Context, id int64) (*domain.Climb, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+climbColumns+` FROM climbs WHERE id = ?`, id)
	climb, err := scanClimb(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get climb: %w", err)
	}
	return climb, nil
}

func (s *ClimbStore) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM climbs WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check climb: %w", err)
	}
	return true, nil
}

// FindBySource looks a climb up by its external idempotency key.
func (s *ClimbStore) FindBySource(ctx context.Context, source, sourceID string) (*domain.Climb, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+climbColumns+` FROM climbs WHERE source = ? AND source_id = ?
	`, source, sourceID)
	climb, err := scanClimb(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find climb by source: %w", err)
	}
	return climb, nil
}

func (s *ClimbStore) List(ctx context.Context) ([]*domain.Climb, error) {
	return s.list(ctx, `SELECT `+climbColumns+` FROM climbs ORDER BY id`)
}

func (s *ClimbStore) ListByArea(ctx context.Context, areaID int64) ([]*domain.Climb, error) {
	return s.list(ctx, `SELECT `+climbColumns+` FROM climbs WHERE area_id = ? ORDER BY name ASC`, areaID)
}

func (s *ClimbStore) SearchByName(ctx context.Context, q string, limit int) ([]*domain.Climb, error) {
	return s.list(ctx, `SELECT `+climbColumns+` FROM climbs WHERE name LIKE '%' || ? || '%' LIMIT ?`, q, limit)
}

// Update rewrites every mutable column of an existing climb.
func (s *ClimbStore) Update(ctx context.Context, climb *domain.Climb) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE climbs SET area_id = ?, name = ?, type = ?, yds = ?, lat = ?, lng = ?,
			length_meters = ?, description = ?, hero_url = ?, hero_attribution = ?,
			source = ?, source_id = ?
		WHERE id = ?
	`, climb.AreaID, climb.Name, climb.Type, climb.Yds, climb.Lat, climb.Lng,
		climb.LengthMeters, climb.Description, climb.HeroURL,
		climb.HeroAttribution, climb.Source, climb.SourceID, climb.ID)
	if err != nil {
		return fmt.Errorf("failed to update climb: %w", err)
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

// DirectCounts returns the number of climbs attached directly to each area,
// keyed by area id. Areas with no climbs are absent from the map.
func (s *ClimbStore) DirectCounts(ctx context.Context) (map[int64]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT area_id, COUNT(*) FROM climbs GROUP BY area_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to count climbs: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var areaID int64
		var n int
		if err := rows.Scan(&areaID, &n); err != nil {
			return nil, fmt.Errorf("failed to scan climb count: %w", err)
		}
		counts[areaID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating climb counts: %w", err)
	}
	return counts, nil
}

func (s *ClimbStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM climbs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count climbs: %w", err)
	}
	return n, nil
}

func (s *ClimbStore) DeleteAll(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM climbs`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete climbs: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

func (s *ClimbStore) list(ctx context.Context, query string, args ...any) ([]*domain.Climb, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list climbs: %w", err)
	}
	defer rows.Close()

	var climbs []*domain.Climb
	for rows.Next() {
		climb, err := scanClimb(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan climb: %w", err)
		}
		climbs = append(climbs, climb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating climbs: %w", err)
	}
	return climbs, nil
}

func scanClimb(r rowScanner) (*domain.Climb, error) {
	climb := &domain.Climb{}
	err := r.Scan(&climb.ID, &climb.AreaID, &climb.Name, &climb.Type, &climb.Yds,
		&climb.Lat, &climb.Lng, &climb.LengthMeters, &climb.Description,
		&climb.HeroURL, &climb.HeroAttribution, &climb.Source, &climb.SourceID,
		&climb.CreatedAt)
	if err != nil {
		return nil, err
	}
	return climb, nil
}
