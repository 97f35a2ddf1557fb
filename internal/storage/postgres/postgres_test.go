package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gridpath/internal/storage"
	"github.com/katalvlaran/gridpath/report"
	"github.com/katalvlaran/gridpath/search"
	"github.com/katalvlaran/gridpath/topology"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
	assert.False(t, isUniqueViolation(nil))
	assert.True(t, hasCode(&pq.Error{Code: "22P02"}, invalidTextRepresentation))
}

func TestDecodeRecord(t *testing.T) {
	created := time.Date(2024, 5, 6, 7, 8, 9, 10_000_000, time.FixedZone("CEST", 2*3600))
	rec, err := decodeRecord(report.Record{ID: "x"}, "A*", "Triangle", []byte(`[{"row":0,"col":0},{"row":1,"col":0}]`), created)
	require.NoError(t, err)
	assert.Equal(t, search.AStar, rec.Algorithm)
	assert.Equal(t, topology.Triangle, rec.GridType)
	assert.Equal(t, []topology.Position{{Row: 0, Col: 0}, {Row: 1, Col: 0}}, rec.Path)
	assert.Equal(t, "2024-05-06T05:08:09.010Z", rec.CreatedAt)

	_, err = decodeRecord(report.Record{}, "Greedy", "Square", []byte(`[]`), created)
	assert.ErrorIs(t, err, search.ErrUnknownAlgorithm)
	_, err = decodeRecord(report.Record{}, "BFS", "Octagon", []byte(`[]`), created)
	assert.ErrorIs(t, err, topology.ErrUnknownShape)
	_, err = decodeRecord(report.Record{}, "BFS", "Square", []byte(`{`), created)
	assert.Error(t, err)
}

// TestStore_Integration runs against a live database named by GRIDPATH_TEST_PG_DSN.
func TestStore_Integration(t *testing.T) {
	dsn := os.Getenv("GRIDPATH_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("GRIDPATH_TEST_PG_DSN not set")
	}
	ctx := context.Background()
	s, err := Open(ctx, dsn)
	require.NoError(t, err)
	defer s.Close()

	uid := "it-" + uuid.NewString()
	rec := report.Record{
		ID:         uuid.NewString(),
		UserID:     uid,
		Name:       "integration",
		Algorithm:  search.Dijkstra,
		Path:       []topology.Position{{Row: 0, Col: 0}, {Row: 0, Col: 1}},
		PathLength: 2,
		GridSize:   4,
		GridType:   topology.Hexagonal,
		TotalCost:  1,
		CreatedAt:  time.Now().UTC().Format(report.TimeLayout),
	}
	require.NoError(t, s.Save(ctx, rec))

	dup := rec
	dup.ID = uuid.NewString()
	assert.ErrorIs(t, s.Save(ctx, dup), storage.ErrDuplicate)

	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	list, err := s.List(ctx, uid)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	ok, err := s.Exists(ctx, uid, "integration", search.Dijkstra)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.Get(ctx, uuid.NewString())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
