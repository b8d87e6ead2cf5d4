// Package store persists one row of diagnostics per solver run to a
// local SQLite file, so a `num_runs > 1` sweep can be compared after
// the fact instead of only printed to stdout.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite connection and provides run-diagnostics
// persistence.
type Store struct {
	db *sql.DB
}

// Run is one solver invocation's recorded outcome.
type Run struct {
	ID             string
	Algorithm      string
	Seed           int64
	GridRows       int
	GridCols       int
	Solved         bool
	BacktrackCount int
	SnapshotBytes  int
	ElapsedMillis  int64
	CreatedAt      time.Time
}

// Open opens or creates the SQLite database at path, running any
// pending migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("store: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: set busy timeout: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	const schema = `CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		algorithm TEXT NOT NULL,
		seed INTEGER NOT NULL,
		grid_rows INTEGER NOT NULL,
		grid_cols INTEGER NOT NULL,
		solved INTEGER NOT NULL,
		backtrack_count INTEGER NOT NULL,
		snapshot_bytes INTEGER NOT NULL,
		elapsed_millis INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	_, err := s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_runs_algorithm ON runs(algorithm)`)
	return err
}

// InsertRun records one completed run.
func (s *Store) InsertRun(r Run) error {
	_, err := s.db.Exec(
		`INSERT INTO runs (id, algorithm, seed, grid_rows, grid_cols, solved, backtrack_count, snapshot_bytes, elapsed_millis)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Algorithm, r.Seed, r.GridRows, r.GridCols, r.Solved, r.BacktrackCount, r.SnapshotBytes, r.ElapsedMillis,
	)
	if err != nil {
		return fmt.Errorf("store: insert run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first, capped at limit.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT id, algorithm, seed, grid_rows, grid_cols, solved, backtrack_count, snapshot_bytes, elapsed_millis, created_at
		 FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Algorithm, &r.Seed, &r.GridRows, &r.GridCols, &r.Solved,
			&r.BacktrackCount, &r.SnapshotBytes, &r.ElapsedMillis, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
