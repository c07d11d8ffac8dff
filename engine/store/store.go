// Package store persists the entity graph in SQLite and exposes the scoped
// queries the parsers and reconciliation connectors run: unresolved-record
// selection, JOIN-scoped candidate sets, and insert-once junction edges.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Open connects to (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	// Pragmas go in the DSN so they apply to every pooled connection, not
	// just the one that happens to run an Exec.
	dsn := "file:" + path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=foreign_keys(ON)" +
		"&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	s := &Store{db: db}
	if err := s.applySchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// NameRef pairs a display name with the id of the entity it identifies,
// the shape every candidate-set query returns.
type NameRef struct {
	Name string
	ID   int64
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return timestamp(*t)
}

func scanTime(v sql.NullString) *time.Time {
	if !v.Valid || v.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, v.String)
	if err != nil {
		return nil
	}
	return &t
}

func nullableString(v string) any {
	if v == "" {
		return nil
	}
	return v
}
