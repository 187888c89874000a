package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrowan/craglog/internal/domain"
)

func TestClimbStoreCreateAndGet(t *testing.T) {
	d := openTestDB(t)
	areas := NewAreaStore(d)
	store := NewClimbStore(d)
	ctx := context.Background()

	area := mustCreateArea(t, areas, "Gus Fruh", nil, nil)

	climb, err := store.Create(ctx, &domain.Climb{
		AreaID:      area.ID,
		Name:        "Black Sabbath",
		Type:        domain.ClimbTypeSport,
		Yds:         strPtr("5.10a"),
		Description: strPtr("Face climbing on edges."),
		Source:      strPtr("OpenBeta"),
		SourceID:    strPtr("uuid-abc"),
	})
	require.NoError(t, err)
	assert.NotZero(t, climb.ID)

	got, err := store.GetByID(ctx, climb.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Black Sabbath", got.Name)
	require.NotNil(t, got.Yds)
	assert.Equal(t, "5.10a", *got.Yds)
	assert.Nil(t, got.HeroURL)
}

func TestClimbStoreFindBySource(t *testing.T) {
	d := openTestDB(t)
	areas := NewAreaStore(d)
	store := NewClimbStore(d)
	ctx := context.Background()

	area := mustCreateArea(t, areas, "Wall", nil, nil)
	created, err := store.Create(ctx, &domain.Climb{
		AreaID:   area.ID,
		Name:     "Crimpy",
		Type:     domain.ClimbTypeBoulder,
		Source:   strPtr("OpenBeta"),
		SourceID: strPtr("uuid-1"),
	})
	require.NoError(t, err)

	found, err := store.FindBySource(ctx, "OpenBeta", "uuid-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)

	found, err = store.FindBySource(ctx, "OpenBeta", "uuid-2")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestClimbStoreUpdate(t *testing.T) {
	d := openTestDB(t)
	areas := NewAreaStore(d)
	store := NewClimbStore(d)
	ctx := context.Background()

	area := mustCreateArea(t, areas, "Wall", nil, nil)
	climb := mustCreateClimb(t, store, area.ID, "Bird Dog")

	climb.Yds = strPtr("5.8")
	climb.Description = strPtr("Friendly warm-up.")
	require.NoError(t, store.Update(ctx, climb))

	got, err := store.GetByID(ctx, climb.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Yds)
	assert.Equal(t, "5.8", *got.Yds)

	missing := &domain.Climb{ID: 9999, AreaID: area.ID, Name: "X", Type: domain.ClimbTypeSport}
	assert.ErrorIs(t, store.Update(ctx, missing), domain.ErrNotFound)
}

func TestClimbStoreDirectCounts(t *testing.T) {
	d := openTestDB(t)
	areas := NewAreaStore(d)
	store := NewClimbStore(d)
	ctx := context.Background()

	a := mustCreateArea(t, areas, "A", nil, nil)
	b := mustCreateArea(t, areas, "B", nil, nil)
	mustCreateArea(t, areas, "Empty", nil, nil)

	mustCreateClimb(t, store, a.ID, "One")
	mustCreateClimb(t, store, a.ID, "Two")
	mustCreateClimb(t, store, b.ID, "Three")

	counts, err := store.DirectCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[a.ID])
	assert.Equal(t, 1, counts[b.ID])
	assert.Len(t, counts, 2)
}

func TestClimbStoreSearchByName(t *testing.T) {
	d := openTestDB(t)
	areas := NewAreaStore(d)
	store := NewClimbStore(d)
	ctx := context.Background()

	area := mustCreateArea(t, areas, "Wall", nil, nil)
	mustCreateClimb(t, store, area.ID, "Black Sabbath")
	mustCreateClimb(t, store, area.ID, "Blackout")
	mustCreateClimb(t, store, area.ID, "Bird Dog")

	results, err := store.SearchByName(ctx, "black", 10)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	results, err = store.SearchByName(ctx, "black", 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestClimbStoreDeleteAll(t *testing.T) {
	d := openTestDB(t)
	areas := NewAreaStore(d)
	store := NewClimbStore(d)
	ctx := context.Background()

	area := mustCreateArea(t, areas, "Wall", nil, nil)
	mustCreateClimb(t, store, area.ID, "One")
	mustCreateClimb(t, store, area.ID, "Two")

	n, err := store.DeleteAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	total, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)
}
