// Package storage persists saved path records.
package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/katalvlaran/gridpath/report"
	"github.com/katalvlaran/gridpath/search"
)

// Sentinel errors shared by every Store.
var (
	// ErrDuplicate indicates a record with the same user, name and algorithm exists.
	ErrDuplicate = errors.New("storage: record already exists")
	// ErrNotFound indicates no record has the requested id.
	ErrNotFound = errors.New("storage: record not found")
)

// Store keeps report.Records keyed by an opaque user id.
type Store interface {
	// Save inserts rec. Returns ErrDuplicate when (UserID, Name, Algorithm) is taken.
	Save(ctx context.Context, rec report.Record) error
	// List returns the user's records, newest first.
	List(ctx context.Context, userID string) ([]report.Record, error)
	// Get returns the record with id, or ErrNotFound.
	Get(ctx context.Context, id string) (report.Record, error)
	// Exists reports whether (userID, name, alg) is taken.
	Exists(ctx context.Context, userID, name string, alg search.Algorithm) (bool, error)
	Close() error
}

type key struct {
	uid, name string
	alg       search.Algorithm
}

// Memory is an in-process Store. Safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	byID  map[string]report.Record
	byKey map[key]string
	order []string
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{byID: make(map[string]report.Record), byKey: make(map[key]string)}
}

// Save implements Store.
func (m *Memory) Save(ctx context.Context, rec report.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key{rec.UserID, rec.Name, rec.Algorithm}
	if _, ok := m.byKey[k]; ok {
		return ErrDuplicate
	}
	if _, ok := m.byID[rec.ID]; ok {
		return ErrDuplicate
	}
	rec.Path = append(rec.Path[:0:0], rec.Path...)
	m.byID[rec.ID] = rec
	m.byKey[k] = rec.ID
	m.order = append(m.order, rec.ID)
	return nil
}

// List implements Store.
func (m *Memory) List(ctx context.Context, userID string) ([]report.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []report.Record{}
	for i := len(m.order) - 1; i >= 0; i-- {
		if rec := m.byID[m.order[i]]; rec.UserID == userID {
			out = append(out, rec)
		}
	}
	// CreatedAt shares one fixed-width layout, so string order is time order
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

// Get implements Store.
func (m *Memory) Get(ctx context.Context, id string) (report.Record, error) {
	if err := ctx.Err(); err != nil {
		return report.Record{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.byID[id]
	if !ok {
		return report.Record{}, ErrNotFound
	}
	return rec, nil
}

// Exists implements Store.
func (m *Memory) Exists(ctx context.Context, userID, name string, alg search.Algorithm) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.byKey[key{userID, name, alg}]
	return ok, nil
}

// Close implements Store.
func (m *Memory) Close() error { return nil }
