package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/gridpath/internal/storage"
	"github.com/katalvlaran/gridpath/report"
	"github.com/katalvlaran/gridpath/search"
	"github.com/katalvlaran/gridpath/topology"
)

type MemorySuite struct {
	suite.Suite
	ctx   context.Context
	store storage.Store
}

func (s *MemorySuite) SetupTest() {
	s.ctx = context.Background()
	s.store = storage.NewMemory()
}

func record(id, uid, name string, alg search.Algorithm, created string) report.Record {
	return report.Record{
		ID:         id,
		UserID:     uid,
		Name:       name,
		Algorithm:  alg,
		Path:       []topology.Position{{Row: 0, Col: 0}, {Row: 0, Col: 1}},
		PathLength: 2,
		GridSize:   3,
		GridType:   topology.Square,
		TotalCost:  1,
		CreatedAt:  created,
	}
}

func (s *MemorySuite) TestSaveGet() {
	rec := record("a", "u1", "route", search.BFS, "2024-01-01T00:00:00.000Z")
	s.Require().NoError(s.store.Save(s.ctx, rec))

	got, err := s.store.Get(s.ctx, "a")
	s.Require().NoError(err)
	s.Equal(rec, got)

	_, err = s.store.Get(s.ctx, "missing")
	s.ErrorIs(err, storage.ErrNotFound)
}

func (s *MemorySuite) TestDuplicatePerUserNameAlgorithm() {
	s.Require().NoError(s.store.Save(s.ctx, record("a", "u1", "route", search.BFS, "2024-01-01T00:00:00.000Z")))

	err := s.store.Save(s.ctx, record("b", "u1", "route", search.BFS, "2024-01-02T00:00:00.000Z"))
	s.ErrorIs(err, storage.ErrDuplicate)

	// a different algorithm or user is a different key
	s.NoError(s.store.Save(s.ctx, record("c", "u1", "route", search.AStar, "2024-01-02T00:00:00.000Z")))
	s.NoError(s.store.Save(s.ctx, record("d", "u2", "route", search.BFS, "2024-01-02T00:00:00.000Z")))

	ok, err := s.store.Exists(s.ctx, "u1", "route", search.BFS)
	s.Require().NoError(err)
	s.True(ok)
	ok, err = s.store.Exists(s.ctx, "u1", "route", search.Dijkstra)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *MemorySuite) TestListNewestFirstPerUser() {
	s.Require().NoError(s.store.Save(s.ctx, record("old", "u1", "a", search.BFS, "2024-01-01T00:00:00.000Z")))
	s.Require().NoError(s.store.Save(s.ctx, record("new", "u1", "b", search.BFS, "2024-03-01T00:00:00.000Z")))
	s.Require().NoError(s.store.Save(s.ctx, record("mid", "u1", "c", search.BFS, "2024-02-01T00:00:00.000Z")))
	s.Require().NoError(s.store.Save(s.ctx, record("other", "u2", "a", search.BFS, "2024-04-01T00:00:00.000Z")))

	list, err := s.store.List(s.ctx, "u1")
	s.Require().NoError(err)
	var ids []string
	for _, r := range list {
		ids = append(ids, r.ID)
	}
	s.Equal([]string{"new", "mid", "old"}, ids)

	none, err := s.store.List(s.ctx, "nobody")
	s.Require().NoError(err)
	s.NotNil(none)
	s.Empty(none)
}

func (s *MemorySuite) TestStoredPathIsCopied() {
	rec := record("a", "u1", "route", search.BFS, "2024-01-01T00:00:00.000Z")
	s.Require().NoError(s.store.Save(s.ctx, rec))
	rec.Path[0] = topology.Position{Row: 9, Col: 9}

	got, err := s.store.Get(s.ctx, "a")
	s.Require().NoError(err)
	s.Equal(topology.Position{Row: 0, Col: 0}, got.Path[0])
}

func (s *MemorySuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	s.ErrorIs(s.store.Save(ctx, record("a", "u", "n", search.BFS, "")), context.Canceled)
	_, err := s.store.List(ctx, "u")
	s.ErrorIs(err, context.Canceled)
}

func TestMemorySuite(t *testing.T) {
	suite.Run(t, new(MemorySuite))
}
