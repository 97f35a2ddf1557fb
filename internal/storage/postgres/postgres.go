// Package postgres is a storage.Store backed by PostgreSQL through lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/katalvlaran/gridpath/internal/storage"
	"github.com/katalvlaran/gridpath/report"
	"github.com/katalvlaran/gridpath/search"
	"github.com/katalvlaran/gridpath/topology"
)

// SQLSTATE codes.
const (
	uniqueViolation           = "23505"
	invalidTextRepresentation = "22P02" // e.g. an id that is not a UUID
)

const schema = `
	CREATE TABLE IF NOT EXISTS saved_paths (
		id           UUID PRIMARY KEY,
		uid          TEXT NOT NULL,
		name         TEXT NOT NULL,
		algorithm    TEXT NOT NULL,
		path         JSONB NOT NULL,
		path_length  INTEGER NOT NULL,
		time_taken   BIGINT NOT NULL,
		grid_size    INTEGER NOT NULL,
		grid_type    TEXT NOT NULL,
		override_mud BOOLEAN NOT NULL,
		total_cost   DOUBLE PRECISION NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL,
		UNIQUE (uid, name, algorithm)
	);
	CREATE INDEX IF NOT EXISTS idx_saved_paths_uid ON saved_paths(uid, created_at DESC);
`

const columns = `id, uid, name, algorithm, path, path_length, time_taken,
	grid_size, grid_type, override_mud, total_cost, created_at`

// Store implements storage.Store.
type Store struct {
	db *sql.DB
}

var _ storage.Store = (*Store)(nil)

// Open connects with dsn, pings, and creates the schema if needed.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	s := &Store{db: db}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: create schema: %w", err)
	}
	return s, nil
}

// Save implements storage.Store.
func (s *Store) Save(ctx context.Context, rec report.Record) error {
	path, err := json.Marshal(rec.Path)
	if err != nil {
		return fmt.Errorf("postgres: marshal path: %w", err)
	}
	created, err := rec.Created()
	if err != nil {
		return fmt.Errorf("postgres: createdAt %q: %w", rec.CreatedAt, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO saved_paths (`+columns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		rec.ID, rec.UserID, rec.Name, rec.Algorithm.String(), path, rec.PathLength, rec.TimeTaken,
		rec.GridSize, rec.GridType.String(), rec.OverrideMud, rec.TotalCost, created,
	)
	if isUniqueViolation(err) {
		return storage.ErrDuplicate
	}
	return err
}

// List implements storage.Store.
func (s *Store) List(ctx context.Context, userID string) ([]report.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+columns+` FROM saved_paths WHERE uid = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []report.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Get implements storage.Store.
func (s *Store) Get(ctx context.Context, id string) (report.Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+columns+` FROM saved_paths WHERE id = $1`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) || hasCode(err, invalidTextRepresentation) {
		return report.Record{}, storage.ErrNotFound
	}
	return rec, err
}

// Exists implements storage.Store.
func (s *Store) Exists(ctx context.Context, userID, name string, alg search.Algorithm) (bool, error) {
	var ok bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM saved_paths WHERE uid = $1 AND name = $2 AND algorithm = $3)`,
		userID, name, alg.String(),
	).Scan(&ok)
	return ok, err
}

// Close implements storage.Store.
func (s *Store) Close() error { return s.db.Close() }

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (report.Record, error) {
	var (
		rec       report.Record
		alg, kind string
		path      []byte
		created   time.Time
	)
	err := sc.Scan(&rec.ID, &rec.UserID, &rec.Name, &alg, &path, &rec.PathLength, &rec.TimeTaken,
		&rec.GridSize, &kind, &rec.OverrideMud, &rec.TotalCost, &created)
	if err != nil {
		return report.Record{}, err
	}
	return decodeRecord(rec, alg, kind, path, created)
}

// decodeRecord fills the columns that need parsing.
func decodeRecord(rec report.Record, alg, kind string, path []byte, created time.Time) (report.Record, error) {
	var err error
	if rec.Algorithm, err = search.ParseAlgorithm(alg); err != nil {
		return report.Record{}, fmt.Errorf("postgres: record %s: %w", rec.ID, err)
	}
	if rec.GridType, err = topology.ParseShape(kind); err != nil {
		return report.Record{}, fmt.Errorf("postgres: record %s: %w", rec.ID, err)
	}
	rec.Path = []topology.Position{}
	if err := json.Unmarshal(path, &rec.Path); err != nil {
		return report.Record{}, fmt.Errorf("postgres: record %s path: %w", rec.ID, err)
	}
	rec.CreatedAt = created.UTC().Format(report.TimeLayout)
	return rec, nil
}

func isUniqueViolation(err error) bool { return hasCode(err, uniqueViolation) }

func hasCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}
