package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrowan/craglog/internal/domain"
)

func TestAreaStoreCreateAndGet(t *testing.T) {
	d := openTestDB(t)
	store := NewAreaStore(d)
	ctx := context.Background()

	area, err := store.Create(ctx, &domain.Area{
		Name:  "Barton Creek Greenbelt",
		State: strPtr("Texas"),
		Lat:   f64Ptr(30.244),
		Lng:   f64Ptr(-97.8),
	})
	require.NoError(t, err)
	assert.NotZero(t, area.ID)
	assert.Equal(t, "Barton Creek Greenbelt", area.Name)
	assert.Equal(t, "United States", area.Country)
	assert.Nil(t, area.ParentAreaID)

	retrieved, err := store.GetByID(ctx, area.ID)
	require.NoError(t, err)
	require.NotNil(t, retrieved)
	assert.Equal(t, area.ID, retrieved.ID)
	require.NotNil(t, retrieved.State)
	assert.Equal(t, "Texas", *retrieved.State)
	require.NotNil(t, retrieved.Lat)
	assert.InDelta(t, 30.244, *retrieved.Lat, 1e-9)
}

func TestAreaStoreGetMissing(t *testing.T) {
	d := openTestDB(t)
	store := NewAreaStore(d)

	area, err := store.GetByID(context.Background(), 9999)
	require.NoError(t, err)
	assert.Nil(t, area)
}

func TestAreaStoreChildren(t *testing.T) {
	d := openTestDB(t)
	store := NewAreaStore(d)
	ctx := context.Background()

	root := mustCreateArea(t, store, "Greenbelt", strPtr("Texas"), nil)
	child := mustCreateArea(t, store, "Gus Fruh", nil, &root.ID)

	children, err := store.ListChildren(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, child.ID, children[0].ID)

	top, err := store.ListTopLevel(ctx)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, root.ID, top[0].ID)
}

func TestAreaStoreFindByNameAndParent(t *testing.T) {
	d := openTestDB(t)
	store := NewAreaStore(d)
	ctx := context.Background()

	root := mustCreateArea(t, store, "Greenbelt", strPtr("Texas"), nil)
	child := mustCreateArea(t, store, "Gus Fruh", nil, &root.ID)

	found, err := store.FindByNameAndParent(ctx, "Gus Fruh", &root.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, child.ID, found.ID)

	// Same name, wrong parent scope.
	found, err = store.FindByNameAndParent(ctx, "Gus Fruh", nil)
	require.NoError(t, err)
	assert.Nil(t, found)

	found, err = store.FindByNameAndParent(ctx, "Greenbelt", nil)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, root.ID, found.ID)
}

func TestAreaStoreSearchByName(t *testing.T) {
	d := openTestDB(t)
	store := NewAreaStore(d)
	ctx := context.Background()

	root := mustCreateArea(t, store, "Barton Creek Greenbelt", strPtr("Texas"), nil)
	mustCreateArea(t, store, "Gus Fruh", nil, &root.ID)

	// Case-insensitive substring.
	results, err := store.SearchByName(ctx, "gus", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Gus Fruh", results[0].Name)

	results, err = store.SearchByName(ctx, "zzz", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestAreaStoreSearchTopLevelByState(t *testing.T) {
	d := openTestDB(t)
	store := NewAreaStore(d)
	ctx := context.Background()

	root := mustCreateArea(t, store, "Greenbelt", strPtr("Texas"), nil)
	// Sub-area in the same state must not match the top-level pass.
	sub := mustCreateArea(t, store, "Gus Fruh", strPtr("Texas"), &root.ID)
	_ = sub

	results, err := store.SearchTopLevelByState(ctx, "tex", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, root.ID, results[0].ID)
}

func TestAreaStoreUpdateCoords(t *testing.T) {
	d := openTestDB(t)
	store := NewAreaStore(d)
	ctx := context.Background()

	area := mustCreateArea(t, store, "Greenbelt", nil, nil)
	require.Nil(t, area.Lat)

	require.NoError(t, store.UpdateCoords(ctx, area.ID, 30.1, -97.7))

	updated, err := store.GetByID(ctx, area.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.Lat)
	assert.InDelta(t, 30.1, *updated.Lat, 1e-9)
	require.NotNil(t, updated.Lng)
	assert.InDelta(t, -97.7, *updated.Lng, 1e-9)
}

func TestAreaStoreNormalizeState(t *testing.T) {
	d := openTestDB(t)
	store := NewAreaStore(d)
	ctx := context.Background()

	mustCreateArea(t, store, "A", strPtr("TX"), nil)
	mustCreateArea(t, store, "B", strPtr("TX"), nil)
	mustCreateArea(t, store, "C", strPtr("Texas"), nil)

	n, err := store.NormalizeState(ctx, "TX", "Texas")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	areas, err := store.ListTopLevelByState(ctx, "Texas")
	require.NoError(t, err)
	assert.Len(t, areas, 3)
}

func TestAreaStoreDeleteCascades(t *testing.T) {
	d := openTestDB(t)
	store := NewAreaStore(d)
	climbs := NewClimbStore(d)
	ctx := context.Background()

	root := mustCreateArea(t, store, "Root", strPtr("Texas"), nil)
	c1 := mustCreateArea(t, store, "C1", nil, &root.ID)
	c2 := mustCreateArea(t, store, "C2", nil, &root.ID)
	wall := mustCreateArea(t, store, "Wall", nil, &c1.ID)
	mustCreateClimb(t, climbs, c1.ID, "Black Sabbath")
	mustCreateClimb(t, climbs, wall.ID, "Bird Dog")

	require.NoError(t, store.Delete(ctx, root.ID))

	for _, id := range []int64{root.ID, c1.ID, c2.ID, wall.ID} {
		area, err := store.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, area, "area %d should be gone", id)
	}

	n, err := climbs.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAreaStoreDeleteMissing(t *testing.T) {
	d := openTestDB(t)
	store := NewAreaStore(d)

	err := store.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
