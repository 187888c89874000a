package openbeta

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/mrowan/craglog/internal/domain"
	"github.com/mrowan/craglog/internal/states"
)

// Source tags climbs imported from OpenBeta. The (Source, SourceID) pair is
// the upsert key: re-importing the same payload never duplicates a climb.
const Source = "OpenBeta"

// areaRepository is the subset of store.AreaStore that the importer requires.
type areaRepository interface {
	Create(ctx context.Context, area *domain.Area) (*domain.Area, error)
	FindByNameAndParent(ctx context.Context, name string, parentID *int64) (*domain.Area, error)
	UpdateCoords(ctx context.Context, id int64, lat, lng float64) error
	UpdateState(ctx context.Context, id int64, state string) error
	Count(ctx context.Context) (int64, error)
}

// climbRepository is the subset of store.ClimbStore that the importer requires.
type climbRepository interface {
	Create(ctx context.Context, climb *domain.Climb) (*domain.Climb, error)
	FindBySource(ctx context.Context, source, sourceID string) (*domain.Climb, error)
	Update(ctx context.Context, climb *domain.Climb) error
	Count(ctx context.Context) (int64, error)
}

// treeFetcher is the subset of Client that the importer requires.
type treeFetcher interface {
	FetchAreaTree(ctx context.Context, name string) ([]AreaNode, error)
}

// Config tunes the importer. Zero values get sane defaults from NewImporter.
type Config struct {
	// IncludeTrad admits trad climbs on single-area imports. The 50-state
	// batch always runs strict sport+boulder regardless.
	IncludeTrad bool

	// FetchInterval is the politeness gap between external fetches.
	FetchInterval time.Duration

	// RetryBackoff scales the exponential backoff: attempt n sleeps
	// RetryBackoff * 2^n before the next try.
	RetryBackoff time.Duration

	MaxAttempts int
}

// ImportResult reports one import run. Success is false only when the run
// as a whole failed; per-unit failures land in Errors without flipping it.
type ImportResult struct {
	Success        bool     `json:"success"`
	Message        string   `json:"message"`
	AreasImported  int      `json:"areasImported"`
	ClimbsImported int      `json:"climbsImported"`
	ClimbsSkipped  int      `json:"climbsSkipped"`
	Errors         []string `json:"errors"`
}

// Importer reconciles OpenBeta's area trees into the local catalog.
type Importer struct {
	client  treeFetcher
	areas   areaRepository
	climbs  climbRepository
	cfg     Config
	limiter *rate.Limiter
	logger  *slog.Logger
}

func NewImporter(client treeFetcher, areas areaRepository, climbs climbRepository, cfg Config, logger *slog.Logger) *Importer {
	if cfg.FetchInterval <= 0 {
		cfg.FetchInterval = time.Second
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	return &Importer{
		client:  client,
		areas:   areas,
		climbs:  climbs,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(cfg.FetchInterval), 1),
		logger:  logger,
	}
}

// ImportAreaByName imports the area tree matching name, for example
// "Barton Creek Greenbelt". No state is stamped on created areas because the
// payload does not say which state the match lives in.
func (i *Importer) ImportAreaByName(ctx context.Context, name string) *ImportResult {
	return i.importTree(ctx, name, "", i.cfg.IncludeTrad)
}

// ImportStateByName imports one US state's tree, stamping the state name on
// every area it creates. Strict sport+boulder only.
func (i *Importer) ImportStateByName(ctx context.Context, state string) *ImportResult {
	return i.importTree(ctx, state, state, false)
}

// ImportAllStates runs ImportStateByName across all 50 states sequentially.
// Per-state failures are recorded and the batch carries on; the reported
// counts are whole-batch store deltas, which assumes no concurrent writers.
func (i *Importer) ImportAllStates(ctx context.Context) *ImportResult {
	result := &ImportResult{}
	if err := ctx.Err(); err != nil {
		result.Message = fmt.Sprintf("Import cancelled: %v", err)
		return result
	}

	areasBefore, err := i.areas.Count(ctx)
	if err != nil {
		return failedResult(fmt.Sprintf("Import failed: %v", err))
	}
	climbsBefore, err := i.climbs.Count(ctx)
	if err != nil {
		return failedResult(fmt.Sprintf("Import failed: %v", err))
	}

	for _, state := range states.Names {
		if err := ctx.Err(); err != nil {
			result.Message = fmt.Sprintf("Import cancelled: %v", err)
			return result
		}

		stateResult := i.ImportStateByName(ctx, state)
		result.ClimbsSkipped += stateResult.ClimbsSkipped
		for _, e := range stateResult.Errors {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", state, e))
		}
		i.logger.Info("state imported",
			"state", state,
			"areas", stateResult.AreasImported,
			"climbs", stateResult.ClimbsImported,
			"errors", len(stateResult.Errors))
	}

	areasAfter, err := i.areas.Count(ctx)
	if err != nil {
		return failedResult(fmt.Sprintf("Import failed: %v", err))
	}
	climbsAfter, err := i.climbs.Count(ctx)
	if err != nil {
		return failedResult(fmt.Sprintf("Import failed: %v", err))
	}

	result.Success = true
	result.AreasImported = int(areasAfter - areasBefore)
	result.ClimbsImported = int(climbsAfter - climbsBefore)
	result.Message = fmt.Sprintf("Imported %d areas and %d climbs across %d states (%d errors).",
		result.AreasImported, result.ClimbsImported, len(states.Names), len(result.Errors))
	return result
}

func failedResult(message string) *ImportResult {
	return &ImportResult{Success: false, Message: message, Errors: []string{message}}
}

func (i *Importer) importTree(ctx context.Context, name, state string, includeTrad bool) *ImportResult {
	result := &ImportResult{}

	tree, err := i.fetchWithRetry(ctx, name)
	if err != nil {
		result.Message = fmt.Sprintf("Import failed: %v", err)
		result.Errors = append(result.Errors, result.Message)
		return result
	}

	for _, node := range tree {
		if err := i.walkArea(ctx, node, nil, state, includeTrad, result); err != nil {
			result.Errors = append(result.Errors, err.Error())
		}
	}

	result.Success = len(result.Errors) == 0
	result.Message = fmt.Sprintf("Imported %d climbs across %d areas. Skipped %d duplicates.",
		result.ClimbsImported, result.AreasImported, result.ClimbsSkipped)
	return result
}

// fetchWithRetry waits out the politeness limiter before every attempt and
// backs off exponentially between transport failures. Query rejections are
// not retried; the server already understood and refused the request.
func (i *Importer) fetchWithRetry(ctx context.Context, name string) ([]AreaNode, error) {
	var lastErr error
	for attempt := 1; attempt <= i.cfg.MaxAttempts; attempt++ {
		if err := i.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		tree, err := i.client.FetchAreaTree(ctx, name)
		if err == nil {
			return tree, nil
		}
		lastErr = err

		var queryErr *QueryError
		if errors.As(err, &queryErr) {
			return nil, err
		}

		i.logger.Warn("openbeta fetch failed", "name", name, "attempt", attempt, "error", err)
		if attempt < i.cfg.MaxAttempts {
			backoff := i.cfg.RetryBackoff * (1 << attempt)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, fmt.Errorf("after %d attempts: %w", i.cfg.MaxAttempts, lastErr)
}

// walkArea resolves one payload node into a persisted area, imports its
// climbs, and recurses into its children.
func (i *Importer) walkArea(ctx context.Context, node AreaNode, parentID *int64, state string, includeTrad bool, result *ImportResult) error {
	if strings.TrimSpace(node.AreaName) == "" {
		return nil
	}

	area, err := i.resolveArea(ctx, node, parentID, state)
	if err != nil {
		return fmt.Errorf("area %q: %w", node.AreaName, err)
	}
	result.AreasImported++

	for _, climb := range node.Climbs {
		if err := i.upsertClimb(ctx, climb, area.ID, includeTrad, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("climb %q: %v", climb.Name, err))
		}
	}

	for _, child := range node.Children {
		if err := i.walkArea(ctx, child, &area.ID, state, includeTrad, result); err != nil {
			result.Errors = append(result.Errors, err.Error())
		}
	}
	return nil
}

// resolveArea finds the persisted area for a payload node by (name, parent)
// or creates it, backfilling coordinates and state on reuse.
func (i *Importer) resolveArea(ctx context.Context, node AreaNode, parentID *int64, state string) (*domain.Area, error) {
	existing, err := i.areas.FindByNameAndParent(ctx, node.AreaName, parentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Lat == nil && node.Metadata != nil && node.Metadata.Lat != nil && node.Metadata.Lng != nil {
			if err := i.areas.UpdateCoords(ctx, existing.ID, *node.Metadata.Lat, *node.Metadata.Lng); err != nil {
				return nil, err
			}
			existing.Lat = node.Metadata.Lat
			existing.Lng = node.Metadata.Lng
		}
		if existing.State == nil && state != "" {
			if err := i.areas.UpdateState(ctx, existing.ID, state); err != nil {
				return nil, err
			}
			existing.State = &state
		}
		return existing, nil
	}

	area := &domain.Area{
		Name:         node.AreaName,
		ParentAreaID: parentID,
	}
	if state != "" {
		area.State = &state
	}
	if node.Metadata != nil {
		area.Lat = node.Metadata.Lat
		area.Lng = node.Metadata.Lng
	}
	return i.areas.Create(ctx, area)
}

// classify maps OpenBeta discipline flags to a catalog climb type with
// precedence Boulder > Trad > Sport. Returns "" for climbs to leave out.
func classify(flags *ClimbFlags, includeTrad bool) string {
	if flags == nil {
		return ""
	}
	switch {
	case flags.Bouldering:
		return domain.ClimbTypeBoulder
	case flags.Trad && includeTrad:
		return domain.ClimbTypeTrad
	case flags.Sport:
		return domain.ClimbTypeSport
	default:
		return ""
	}
}

func (i *Importer) upsertClimb(ctx context.Context, node ClimbNode, areaID int64, includeTrad bool, result *ImportResult) error {
	if strings.TrimSpace(node.Name) == "" {
		return nil
	}
	climbType := classify(node.Type, includeTrad)
	if climbType == "" {
		return nil
	}

	existing, err := i.climbs.FindBySource(ctx, Source, node.UUID)
	if err != nil {
		return err
	}
	if existing != nil {
		changed := mergeClimb(existing, node)
		if changed {
			if err := i.climbs.Update(ctx, existing); err != nil {
				return err
			}
		}
		result.ClimbsSkipped++
		return nil
	}

	source := Source
	climb := &domain.Climb{
		AreaID:   areaID,
		Name:     node.Name,
		Type:     climbType,
		Source:   &source,
		SourceID: &node.UUID,
	}
	if node.Grades != nil {
		climb.Yds = node.Grades.Yds
	}
	if node.Content != nil {
		climb.Description = node.Content.Description
	}
	if node.Metadata != nil {
		climb.Lat = node.Metadata.Lat
		climb.Lng = node.Metadata.Lng
	}
	if url := firstMediaURL(node); url != "" {
		climb.HeroURL = &url
	}
	if _, err := i.climbs.Create(ctx, climb); err != nil {
		return err
	}
	result.ClimbsImported++
	return nil
}

// mergeClimb fills null fields on an existing climb from the payload. It
// never overwrites a populated field. Reports whether anything changed.
func mergeClimb(existing *domain.Climb, node ClimbNode) bool {
	changed := false
	if existing.Yds == nil && node.Grades != nil && node.Grades.Yds != nil {
		existing.Yds = node.Grades.Yds
		changed = true
	}
	if existing.Description == nil && node.Content != nil && node.Content.Description != nil {
		existing.Description = node.Content.Description
		changed = true
	}
	if existing.Lat == nil && node.Metadata != nil && node.Metadata.Lat != nil {
		existing.Lat = node.Metadata.Lat
		existing.Lng = node.Metadata.Lng
		changed = true
	}
	if existing.HeroURL == nil {
		if url := firstMediaURL(node); url != "" {
			existing.HeroURL = &url
			changed = true
		}
	}
	return changed
}

func firstMediaURL(node ClimbNode) string {
	for _, m := range node.Media {
		if m.MediaURL != "" {
			return m.MediaURL
		}
	}
	return ""
}
