package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrowan/craglog/internal/domain"
)

// buildGreenbeltTree seeds the canonical example: Barton Creek Greenbelt (TX)
// with sub-area Gus Fruh holding climb Black Sabbath.
func buildGreenbeltTree(t *testing.T, ts *testStores) (root, sub *domain.Area) {
	root = addArea(t, ts.areas, "Barton Creek Greenbelt", ptr("Texas"), nil, ptr(30.244), ptr(-97.8))
	sub = addArea(t, ts.areas, "Gus Fruh", nil, &root.ID, nil, nil)
	addClimb(t, ts.climbs, sub.ID, "Black Sabbath", domain.ClimbTypeSport)
	return root, sub
}

func TestTotalClimbCountRollsUpDescendants(t *testing.T) {
	ts := newTestStores(t)
	svc := NewCatalogService(ts.areas, ts.climbs, testLogger())
	ctx := context.Background()

	root, sub := buildGreenbeltTree(t, ts)
	wall := addArea(t, ts.areas, "Urban Assault Wall", nil, &sub.ID, nil, nil)
	addClimb(t, ts.climbs, wall.ID, "Crankenstein", domain.ClimbTypeSport)
	addClimb(t, ts.climbs, root.ID, "Warmup Slab", domain.ClimbTypeBoulder)

	// root = 1 direct + (sub = 1 direct + (wall = 1 direct))
	count, err := svc.TotalClimbCount(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = svc.TotalClimbCount(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestTotalClimbCountChildlessEmptyArea(t *testing.T) {
	ts := newTestStores(t)
	svc := NewCatalogService(ts.areas, ts.climbs, testLogger())

	area := addArea(t, ts.areas, "Quiet Crag", nil, nil, nil, nil)
	count, err := svc.TotalClimbCount(context.Background(), area.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTotalClimbCountUnknownAreaIsZero(t *testing.T) {
	ts := newTestStores(t)
	svc := NewCatalogService(ts.areas, ts.climbs, testLogger())

	count, err := svc.TotalClimbCount(context.Background(), 12345)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestBreadcrumbRootToLeaf(t *testing.T) {
	ts := newTestStores(t)
	svc := NewCatalogService(ts.areas, ts.climbs, testLogger())
	ctx := context.Background()

	root, sub := buildGreenbeltTree(t, ts)

	crumbs, err := svc.Breadcrumb(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Barton Creek Greenbelt", "Gus Fruh"}, crumbs)

	crumbs, err = svc.Breadcrumb(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Barton Creek Greenbelt"}, crumbs)

	crumbs, err = svc.Breadcrumb(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, crumbs)
}

func TestStateSummariesGroupsAndOrders(t *testing.T) {
	ts := newTestStores(t)
	svc := NewCatalogService(ts.areas, ts.climbs, testLogger())
	ctx := context.Background()

	buildGreenbeltTree(t, ts) // Texas, 1 climb
	tx2 := addArea(t, ts.areas, "Reimers Ranch", ptr("Texas"), nil, nil, nil)
	addClimb(t, ts.climbs, tx2.ID, "Magnum", domain.ClimbTypeSport)
	co := addArea(t, ts.areas, "Clear Creek Canyon", ptr("Colorado"), nil, nil, nil)
	addClimb(t, ts.climbs, co.ID, "Interstate", domain.ClimbTypeTrad)
	// Stateless top-level areas are left out of the summaries.
	addArea(t, ts.areas, "Mystery Crag", nil, nil, nil, nil)

	summaries, err := svc.StateSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, "Colorado", summaries[0].State)
	assert.Equal(t, 1, summaries[0].AreaCount)
	assert.Equal(t, 1, summaries[0].ClimbCount)

	assert.Equal(t, "Texas", summaries[1].State)
	assert.Equal(t, 2, summaries[1].AreaCount)
	assert.Equal(t, 2, summaries[1].ClimbCount)
}

func TestGetAreaDetail(t *testing.T) {
	ts := newTestStores(t)
	svc := NewCatalogService(ts.areas, ts.climbs, testLogger())
	ctx := context.Background()

	root, sub := buildGreenbeltTree(t, ts)
	addClimb(t, ts.climbs, root.ID, "Roadside Attraction", domain.ClimbTypeSport)

	detail, err := svc.GetArea(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, "Barton Creek Greenbelt", detail.Name)
	require.Len(t, detail.SubAreas, 1)
	assert.Equal(t, sub.ID, detail.SubAreas[0].ID)
	assert.Equal(t, 1, detail.SubAreas[0].ClimbCount)
	require.Len(t, detail.Climbs, 1)
	assert.Equal(t, "Roadside Attraction", detail.Climbs[0].Name)
	assert.Equal(t, []string{"Barton Creek Greenbelt"}, detail.Breadcrumb)

	_, err = svc.GetArea(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateAreaValidation(t *testing.T) {
	ts := newTestStores(t)
	svc := NewCatalogService(ts.areas, ts.climbs, testLogger())
	ctx := context.Background()

	_, err := svc.CreateArea(ctx, &domain.Area{Name: "   "})
	assert.True(t, domain.IsValidation(err))

	missing := int64(777)
	_, err = svc.CreateArea(ctx, &domain.Area{Name: "Orphan Wall", ParentAreaID: &missing})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	root := addArea(t, ts.areas, "Root", nil, nil, nil, nil)
	child, err := svc.CreateArea(ctx, &domain.Area{Name: "Child", ParentAreaID: &root.ID})
	require.NoError(t, err)
	assert.Equal(t, root.ID, *child.ParentAreaID)
}

func TestNearbyFiltersAndRanks(t *testing.T) {
	ts := newTestStores(t)
	svc := NewCatalogService(ts.areas, ts.climbs, testLogger())
	ctx := context.Background()

	// Austin-ish query point.
	qLat, qLng := 30.2672, -97.7431

	near := addArea(t, ts.areas, "Barton Creek Greenbelt", ptr("Texas"), nil, ptr(30.244), ptr(-97.8))
	farther := addArea(t, ts.areas, "Reimers Ranch", ptr("Texas"), nil, ptr(30.335), ptr(-98.12))
	// Out of a 50 mile radius (El Paso).
	addArea(t, ts.areas, "Hueco-ish", ptr("Texas"), nil, ptr(31.76), ptr(-106.49))
	// No coordinates: never a candidate.
	addArea(t, ts.areas, "Nowhere", ptr("Texas"), nil, nil, nil)
	// Leaf sub-area with coords but a parent and no children: excluded.
	leaf := addArea(t, ts.areas, "Gus Fruh", nil, &near.ID, ptr(30.243), ptr(-97.79))
	addClimb(t, ts.climbs, leaf.ID, "Black Sabbath", domain.ClimbTypeSport)

	results, err := svc.Nearby(ctx, qLat, qLng, 50)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, near.ID, results[0].ID)
	assert.Equal(t, farther.ID, results[1].ID)
	assert.Less(t, results[0].DistanceMiles, results[1].DistanceMiles)
	// Rollup count covers the excluded leaf's climbs.
	assert.Equal(t, 1, results[0].ClimbCount)
}

func TestNearbyZeroRadius(t *testing.T) {
	ts := newTestStores(t)
	svc := NewCatalogService(ts.areas, ts.climbs, testLogger())
	ctx := context.Background()

	exact := addArea(t, ts.areas, "Exact Spot", ptr("Texas"), nil, ptr(30.0), ptr(-97.0))
	addArea(t, ts.areas, "Near Miss", ptr("Texas"), nil, ptr(30.01), ptr(-97.0))

	results, err := svc.Nearby(ctx, 30.0, -97.0, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, exact.ID, results[0].ID)
	assert.Zero(t, results[0].DistanceMiles)
}

func TestNearbyCapsAtTwenty(t *testing.T) {
	ts := newTestStores(t)
	svc := NewCatalogService(ts.areas, ts.climbs, testLogger())
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		lat := 30.0 + float64(i)*0.001
		addArea(t, ts.areas, "Crag", ptr("Texas"), nil, &lat, ptr(-97.0))
	}

	results, err := svc.Nearby(ctx, 30.0, -97.0, 50)
	require.NoError(t, err)
	assert.Len(t, results, 20)
}
