package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/mrowan/craglog/internal/domain"
	"github.com/mrowan/craglog/internal/states"
)

// adminAreaRepository is the subset of store.AreaStore that AdminService requires.
type adminAreaRepository interface {
	Create(ctx context.Context, area *domain.Area) (*domain.Area, error)
	GetTopLevelByName(ctx context.Context, name string) (*domain.Area, error)
	NormalizeState(ctx context.Context, from, to string) (int64, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// adminClimbRepository is the subset of store.ClimbStore that AdminService requires.
type adminClimbRepository interface {
	Create(ctx context.Context, climb *domain.Climb) (*domain.Climb, error)
	Count(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// AdminService carries the maintenance operations: state-name normalization,
// whole-subtree deletion, database reset, and the sample seed.
type AdminService struct {
	areaStore  adminAreaRepository
	climbStore adminClimbRepository
	logger     *slog.Logger
}

func NewAdminService(areaStore adminAreaRepository, climbStore adminClimbRepository, logger *slog.Logger) *AdminService {
	return &AdminService{areaStore: areaStore, climbStore: climbStore, logger: logger}
}

// NormalizeResult reports a state-name normalization pass.
type NormalizeResult struct {
	AreasFixed  int64 `json:"areasFixed"`
	StatesFixed int   `json:"statesFixed"`
}

// NormalizeStateNames rewrites two-letter state codes to full state names
// across all areas.
func (s *AdminService) NormalizeStateNames(ctx context.Context) (*NormalizeResult, error) {
	// Deterministic order makes logs and partial failures reproducible.
	codes := make([]string, 0, len(states.Abbreviations))
	for code := range states.Abbreviations {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	result := &NormalizeResult{StatesFixed: len(codes)}
	for _, code := range codes {
		n, err := s.areaStore.NormalizeState(ctx, code, states.Abbreviations[code])
		if err != nil {
			return nil, fmt.Errorf("normalize %s: %w", code, err)
		}
		result.AreasFixed += n
	}
	s.logger.Info("state names normalized", "areas_fixed", result.AreasFixed)
	return result, nil
}

// DeleteAreaByName removes the top-level area with the given name together
// with every descendant area and all climbs attached at any level. Returns
// domain.ErrNotFound when no such top-level area exists.
func (s *AdminService) DeleteAreaByName(ctx context.Context, name string) error {
	area, err := s.areaStore.GetTopLevelByName(ctx, name)
	if err != nil {
		return err
	}
	if area == nil {
		return domain.ErrNotFound
	}
	if err := s.areaStore.Delete(ctx, area.ID); err != nil {
		return err
	}
	s.logger.Info("area subtree deleted", "name", name, "area_id", area.ID)
	return nil
}

// ResetResult reports a full-database reset. Failures are folded into the
// result instead of being returned as an error.
type ResetResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	ClimbsDeleted int64  `json:"climbsDeleted"`
	AreasDeleted  int64  `json:"areasDeleted"`
}

// ResetAll deletes every climb, then every area.
func (s *AdminService) ResetAll(ctx context.Context) ResetResult {
	climbs, err := s.climbStore.DeleteAll(ctx)
	if err != nil {
		return ResetResult{Success: false, Message: fmt.Sprintf("Reset failed: %v", err)}
	}
	areas, err := s.areaStore.DeleteAll(ctx)
	if err != nil {
		return ResetResult{Success: false, Message: fmt.Sprintf("Reset failed: %v", err)}
	}
	s.logger.Info("database reset", "climbs_deleted", climbs, "areas_deleted", areas)
	return ResetResult{
		Success:       true,
		Message:       fmt.Sprintf("Database reset complete. Deleted %d climbs and %d areas.", climbs, areas),
		ClimbsDeleted: climbs,
		AreasDeleted:  areas,
	}
}

// SeedSample loads a small demo dataset. It is a no-op when any areas exist.
func (s *AdminService) SeedSample(ctx context.Context) (string, error) {
	n, err := s.areaStore.Count(ctx)
	if err != nil {
		return "", err
	}
	if n > 0 {
		return "Already seeded.", nil
	}

	state := "Texas"
	lat, lng := 32.8134, -98.0588
	area, err := s.areaStore.Create(ctx, &domain.Area{
		Name:  "Lake Mineral Wells State Park",
		State: &state,
		Lat:   &lat,
		Lng:   &lng,
	})
	if err != nil {
		return "", err
	}

	source := "Sample"
	attribution := "Photo © craglog sample"
	seeds := []*domain.Climb{
		{
			AreaID:          area.ID,
			Name:            "Black Sabbath",
			Type:            domain.ClimbTypeSport,
			Yds:             ptr("5.10a"),
			Description:     ptr("Face climbing on edges; good intro to the style."),
			HeroURL:         ptr("/uploads/sample_black_sabbath_overhead.jpg"),
			HeroAttribution: &attribution,
			Source:          &source,
		},
		{
			AreaID:          area.ID,
			Name:            "Bird Dog",
			Type:            domain.ClimbTypeSport,
			Yds:             ptr("5.8"),
			Description:     ptr("Friendly warm-up with a mellow crux midway."),
			HeroURL:         ptr("/uploads/sample_birddog_overhead.jpg"),
			HeroAttribution: &attribution,
			Source:          &source,
		},
	}
	for _, climb := range seeds {
		if _, err := s.climbStore.Create(ctx, climb); err != nil {
			return "", err
		}
	}
	return "Seeded.", nil
}

func ptr[T any](v T) *T { return &v }
