package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/mrowan/craglog/internal/domain"
	"github.com/mrowan/craglog/internal/geo"
)

// areaRepository is the subset of store.AreaStore that CatalogService requires.
type areaRepository interface {
	Create(ctx context.Context, area *domain.Area) (*domain.Area, error)
	GetByID(ctx context.Context, id int64) (*domain.Area, error)
	ListAll(ctx context.Context) ([]*domain.Area, error)
	ListTopLevel(ctx context.Context) ([]*domain.Area, error)
	ListTopLevelByState(ctx context.Context, state string) ([]*domain.Area, error)
	SearchByName(ctx context.Context, q string, limit int) ([]*domain.Area, error)
}

// climbCountRepository is the subset of store.ClimbStore that CatalogService requires.
type climbCountRepository interface {
	ListByArea(ctx context.Context, areaID int64) ([]*domain.Climb, error)
	DirectCounts(ctx context.Context) (map[int64]int, error)
}

// CatalogService serves the browse and aggregation views over the area tree:
// rollup climb counts, breadcrumbs, state summaries, and nearby-area search.
type CatalogService struct {
	areaStore  areaRepository
	climbStore climbCountRepository
	logger     *slog.Logger
}

func NewCatalogService(areaStore areaRepository, climbStore climbCountRepository, logger *slog.Logger) *CatalogService {
	return &CatalogService{areaStore: areaStore, climbStore: climbStore, logger: logger}
}

type StateSummary struct {
	State      string `json:"state"`
	AreaCount  int    `json:"areaCount"`
	ClimbCount int    `json:"climbCount"`
}

type AreaSummary struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	ClimbCount int      `json:"climbCount"`
	Lat        *float64 `json:"lat,omitempty"`
	Lng        *float64 `json:"lng,omitempty"`
}

type NearbyArea struct {
	AreaSummary
	DistanceMiles float64 `json:"distanceMiles"`
}

type ClimbSummary struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	Type string  `json:"type"`
	Yds  *string `json:"yds,omitempty"`
}

type AreaDetail struct {
	ID           int64          `json:"id"`
	Name         string         `json:"name"`
	State        *string        `json:"state,omitempty"`
	Lat          *float64       `json:"lat,omitempty"`
	Lng          *float64       `json:"lng,omitempty"`
	ParentAreaID *int64         `json:"parentAreaId,omitempty"`
	Breadcrumb   []string       `json:"breadcrumb"`
	SubAreas     []AreaSummary  `json:"subAreas"`
	Climbs       []ClimbSummary `json:"climbs"`
}

// treeSnapshot is an in-memory view of the whole area tree plus direct climb
// counts, built from one pass over the store. All rollups and breadcrumb
// walks run against it instead of issuing one query per node.
type treeSnapshot struct {
	byID     map[int64]*domain.Area
	children map[int64][]*domain.Area
	direct   map[int64]int
}

func (s *CatalogService) snapshot(ctx context.Context) (*treeSnapshot, error) {
	areas, err := s.areaStore.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load area tree: %w", err)
	}
	direct, err := s.climbStore.DirectCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load climb counts: %w", err)
	}

	return newTreeSnapshot(areas, direct), nil
}

func newTreeSnapshot(areas []*domain.Area, direct map[int64]int) *treeSnapshot {
	snap := &treeSnapshot{
		byID:     make(map[int64]*domain.Area, len(areas)),
		children: make(map[int64][]*domain.Area),
		direct:   direct,
	}
	for _, a := range areas {
		snap.byID[a.ID] = a
	}
	for _, a := range areas {
		if a.ParentAreaID != nil {
			snap.children[*a.ParentAreaID] = append(snap.children[*a.ParentAreaID], a)
		}
	}
	return snap
}

// totalClimbs counts climbs on the area and every descendant. Unknown ids
// have no climbs and no children, so they count zero.
func (t *treeSnapshot) totalClimbs(areaID int64) int {
	total := 0
	stack := []int64{areaID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		total += t.direct[id]
		for _, child := range t.children[id] {
			stack = append(stack, child.ID)
		}
	}
	return total
}

// breadcrumb returns names from the root ancestor down to the area itself.
// The walk stops if a parent link dangles.
func (t *treeSnapshot) breadcrumb(areaID int64) []string {
	var names []string
	current, ok := t.byID[areaID]
	for ok && len(names) <= len(t.byID) {
		names = append(names, current.Name)
		if current.ParentAreaID == nil {
			break
		}
		current, ok = t.byID[*current.ParentAreaID]
	}
	// Collected leaf-to-root; flip.
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return names
}

func (t *treeSnapshot) breadcrumbPath(areaID int64) string {
	return strings.Join(t.breadcrumb(areaID), " > ")
}

// TotalClimbCount returns the rollup climb count for an area and all of its
// descendants. A nonexistent area counts zero rather than erroring.
func (s *CatalogService) TotalClimbCount(ctx context.Context, areaID int64) (int, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return 0, err
	}
	return snap.totalClimbs(areaID), nil
}

// Breadcrumb returns root-to-leaf area names for the given area.
func (s *CatalogService) Breadcrumb(ctx context.Context, areaID int64) ([]string, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.breadcrumb(areaID), nil
}

// StateSummaries groups top-level areas that carry a state by state name,
// ordered by state ascending.
func (s *CatalogService) StateSummaries(ctx context.Context) ([]StateSummary, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	byState := make(map[string]*StateSummary)
	for _, a := range snap.byID {
		if a.ParentAreaID != nil || a.State == nil {
			continue
		}
		summary, ok := byState[*a.State]
		if !ok {
			summary = &StateSummary{State: *a.State}
			byState[*a.State] = summary
		}
		summary.AreaCount++
		summary.ClimbCount += snap.totalClimbs(a.ID)
	}

	result := make([]StateSummary, 0, len(byState))
	for _, summary := range byState {
		result = append(result, *summary)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].State < result[j].State })
	return result, nil
}

// TopLevelAreas lists every root area with its rollup climb count.
func (s *CatalogService) TopLevelAreas(ctx context.Context) ([]AreaSummary, error) {
	areas, err := s.areaStore.ListTopLevel(ctx)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, areas)
}

// AreasInState lists the top-level areas of one state with rollup counts.
func (s *CatalogService) AreasInState(ctx context.Context, state string) ([]AreaSummary, error) {
	areas, err := s.areaStore.ListTopLevelByState(ctx, state)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, areas)
}

// SearchAreas matches area names at any depth, capped at 20.
func (s *CatalogService) SearchAreas(ctx context.Context, q string) ([]AreaSummary, error) {
	if strings.TrimSpace(q) == "" {
		return []AreaSummary{}, nil
	}
	areas, err := s.areaStore.SearchByName(ctx, q, 20)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, areas)
}

func (s *CatalogService) summarize(ctx context.Context, areas []*domain.Area) ([]AreaSummary, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]AreaSummary, 0, len(areas))
	for _, a := range areas {
		result = append(result, AreaSummary{
			ID:         a.ID,
			Name:       a.Name,
			ClimbCount: snap.totalClimbs(a.ID),
			Lat:        a.Lat,
			Lng:        a.Lng,
		})
	}
	return result, nil
}

// GetArea returns an area with its direct sub-areas (each with rollup
// counts), its direct climbs, and its breadcrumb.
func (s *CatalogService) GetArea(ctx context.Context, id int64) (*AreaDetail, error) {
	area, err := s.areaStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if area == nil {
		return nil, domain.ErrNotFound
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	detail := &AreaDetail{
		ID:           area.ID,
		Name:         area.Name,
		State:        area.State,
		Lat:          area.Lat,
		Lng:          area.Lng,
		ParentAreaID: area.ParentAreaID,
		Breadcrumb:   snap.breadcrumb(area.ID),
		SubAreas:     []AreaSummary{},
		Climbs:       []ClimbSummary{},
	}

	for _, sub := range snap.children[area.ID] {
		detail.SubAreas = append(detail.SubAreas, AreaSummary{
			ID:         sub.ID,
			Name:       sub.Name,
			ClimbCount: snap.totalClimbs(sub.ID),
			Lat:        sub.Lat,
			Lng:        sub.Lng,
		})
	}

	climbs, err := s.climbStore.ListByArea(ctx, area.ID)
	if err != nil {
		return nil, err
	}
	for _, c := range climbs {
		detail.Climbs = append(detail.Climbs, ClimbSummary{ID: c.ID, Name: c.Name, Type: c.Type, Yds: c.Yds})
	}
	return detail, nil
}

// CreateArea validates and persists a new area. A declared parent must exist.
func (s *CatalogService) CreateArea(ctx context.Context, area *domain.Area) (*domain.Area, error) {
	if strings.TrimSpace(area.Name) == "" {
		return nil, domain.Validationf("area name is required")
	}
	if area.ParentAreaID != nil {
		parent, err := s.areaStore.GetByID(ctx, *area.ParentAreaID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, domain.ErrNotFound
		}
	}
	return s.areaStore.Create(ctx, area)
}

// DefaultNearbyRadiusMiles is the search radius applied when the caller does
// not supply one.
const DefaultNearbyRadiusMiles = 50.0

const nearbyLimit = 20

// Nearby ranks parent areas (areas with children, or top-level areas) by
// great-circle distance from the given point, keeping those within
// radiusMiles, closest first, at most 20.
func (s *CatalogService) Nearby(ctx context.Context, lat, lng, radiusMiles float64) ([]NearbyArea, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	type candidate struct {
		area     *domain.Area
		distance float64
	}
	var candidates []candidate
	for _, a := range snap.byID {
		if a.Lat == nil || a.Lng == nil {
			continue
		}
		// Parent areas only: leaf walls under a parent are skipped.
		if len(snap.children[a.ID]) == 0 && a.ParentAreaID != nil {
			continue
		}
		d := geo.Haversine(lat, lng, *a.Lat, *a.Lng)
		if d <= radiusMiles {
			candidates = append(candidates, candidate{area: a, distance: d})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].area.ID < candidates[j].area.ID
	})
	if len(candidates) > nearbyLimit {
		candidates = candidates[:nearbyLimit]
	}

	result := make([]NearbyArea, 0, len(candidates))
	for _, c := range candidates {
		result = append(result, NearbyArea{
			AreaSummary: AreaSummary{
				ID:         c.area.ID,
				Name:       c.area.Name,
				ClimbCount: snap.totalClimbs(c.area.ID),
				Lat:        c.area.Lat,
				Lng:        c.area.Lng,
			},
			DistanceMiles: c.distance,
		})
	}
	return result, nil
}
