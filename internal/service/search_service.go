package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mrowan/craglog/internal/domain"
)

// searchAreaRepository is the subset of store.AreaStore that SearchService requires.
type searchAreaRepository interface {
	ListAll(ctx context.Context) ([]*domain.Area, error)
	SearchByName(ctx context.Context, q string, limit int) ([]*domain.Area, error)
	SearchTopLevelByState(ctx context.Context, q string, limit int) ([]*domain.Area, error)
}

// searchClimbRepository is the subset of store.ClimbStore that SearchService requires.
type searchClimbRepository interface {
	SearchByName(ctx context.Context, q string, limit int) ([]*domain.Climb, error)
	DirectCounts(ctx context.Context) (map[int64]int, error)
}

// SearchService answers the unified search box: one query matched against
// states, areas at any depth, and climbs.
type SearchService struct {
	areaStore  searchAreaRepository
	climbStore searchClimbRepository
	logger     *slog.Logger
}

func NewSearchService(areaStore searchAreaRepository, climbStore searchClimbRepository, logger *slog.Logger) *SearchService {
	return &SearchService{areaStore: areaStore, climbStore: climbStore, logger: logger}
}

type SearchResult struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Type       string  `json:"type"` // "area" or "climb"
	Location   *string `json:"location,omitempty"`
	Grade      *string `json:"grade,omitempty"`
	ClimbCount *int    `json:"climbCount,omitempty"`
	Hierarchy  string  `json:"hierarchy,omitempty"`
}

const (
	searchStateCap = 5
	searchAreaCap  = 10
	searchClimbCap = 10
	searchTotalCap = 20
)

// Search runs the three match passes (state, area name, climb name) in order,
// dedupes by (id, type) keeping the first hit, and caps the merged list at 20.
// A blank query returns an empty list.
func (s *SearchService) Search(ctx context.Context, q string) ([]SearchResult, error) {
	query := strings.TrimSpace(q)
	if query == "" {
		return []SearchResult{}, nil
	}

	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	var results []SearchResult

	// 1. State match: top-level areas in a matching state.
	stateAreas, err := s.areaStore.SearchTopLevelByState(ctx, query, searchStateCap)
	if err != nil {
		return nil, err
	}
	for _, area := range stateAreas {
		count := snap.totalClimbs(area.ID)
		results = append(results, SearchResult{
			ID:         area.ID,
			Name:       area.Name,
			Type:       "area",
			Location:   area.State,
			Hierarchy:  "State → Area",
			ClimbCount: &count,
		})
	}

	// 2. Area-name match at any depth.
	areas, err := s.areaStore.SearchByName(ctx, query, searchAreaCap)
	if err != nil {
		return nil, err
	}
	for _, area := range areas {
		hierarchy := "Top-Level"
		if area.ParentAreaID != nil {
			hierarchy = "Sub-Area"
		}
		count := snap.totalClimbs(area.ID)
		path := snap.breadcrumbPath(area.ID)
		results = append(results, SearchResult{
			ID:         area.ID,
			Name:       area.Name,
			Type:       "area",
			Location:   &path,
			Hierarchy:  hierarchy,
			ClimbCount: &count,
		})
	}

	// 3. Climb-name match.
	climbs, err := s.climbStore.SearchByName(ctx, query, searchClimbCap)
	if err != nil {
		return nil, err
	}
	for _, climb := range climbs {
		path := snap.breadcrumbPath(climb.AreaID)
		if path == "" {
			path = "Unknown"
		}
		results = append(results, SearchResult{
			ID:        climb.ID,
			Name:      climb.Name,
			Type:      "climb",
			Location:  &path,
			Grade:     climb.Yds,
			Hierarchy: "Route",
		})
	}

	return dedupeResults(results, searchTotalCap), nil
}

func dedupeResults(results []SearchResult, limit int) []SearchResult {
	type key struct {
		id  int64
		typ string
	}
	seen := make(map[key]bool, len(results))
	unique := make([]SearchResult, 0, len(results))
	for _, r := range results {
		k := key{id: r.ID, typ: r.Type}
		if seen[k] {
			continue
		}
		seen[k] = true
		unique = append(unique, r)
		if len(unique) == limit {
			break
		}
	}
	return unique
}

func (s *SearchService) loadSnapshot(ctx context.Context) (*treeSnapshot, error) {
	areas, err := s.areaStore.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	direct, err := s.climbStore.DirectCounts(ctx)
	if err != nil {
		return nil, err
	}
	return newTreeSnapshot(areas, direct), nil
}
