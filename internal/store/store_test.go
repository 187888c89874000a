package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mrowan/craglog/internal/db"
	"github.com/mrowan/craglog/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }
func i64Ptr(i int64) *int64     { return &i }

// mustCreateArea inserts an area with the given name, state, and parent.
func mustCreateArea(t *testing.T, s *AreaStore, name string, state *string, parentID *int64) *domain.Area {
	t.Helper()
	area, err := s.Create(context.Background(), &domain.Area{
		Name:         name,
		State:        state,
		ParentAreaID: parentID,
	})
	require.NoError(t, err)
	return area
}

func mustCreateClimb(t *testing.T, s *ClimbStore, areaID int64, name string) *domain.Climb {
	t.Helper()
	climb, err := s.Create(context.Background(), &domain.Climb{
		AreaID: areaID,
		Name:   name,
		Type:   domain.ClimbTypeSport,
	})
	require.NoError(t, err)
	return climb
}
