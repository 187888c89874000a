package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mrowan/craglog/internal/db"
	"github.com/mrowan/craglog/internal/domain"
	"github.com/mrowan/craglog/internal/store"
)

type testStores struct {
	areas  *store.AreaStore
	climbs *store.ClimbStore
	media  *store.MediaStore
	notes  *store.NoteStore
}

func newTestStores(t *testing.T) *testStores {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return &testStores{
		areas:  store.NewAreaStore(d),
		climbs: store.NewClimbStore(d),
		media:  store.NewMediaStore(d),
		notes:  store.NewNoteStore(d),
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func addArea(t *testing.T, s *store.AreaStore, name string, state *string, parentID *int64, lat, lng *float64) *domain.Area {
	t.Helper()
	area, err := s.Create(context.Background(), &domain.Area{
		Name:         name,
		State:        state,
		Lat:          lat,
		Lng:          lng,
		ParentAreaID: parentID,
	})
	require.NoError(t, err)
	return area
}

func addClimb(t *testing.T, s *store.ClimbStore, areaID int64, name, typ string) *domain.Climb {
	t.Helper()
	climb, err := s.Create(context.Background(), &domain.Climb{AreaID: areaID, Name: name, Type: typ})
	require.NoError(t, err)
	return climb
}
