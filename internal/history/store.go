// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists per-run download outcomes in a SQLite database
// inside the output directory. The database is a reporting surface only:
// idempotence decisions are made from artifact files on disk, never from
// history rows.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-harvester/pkg/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	keyword    TEXT NOT NULL,
	venue      TEXT NOT NULL,
	year       INTEGER NOT NULL,
	started_at TEXT NOT NULL,
	total      INTEGER NOT NULL,
	succeeded  INTEGER NOT NULL,
	failed     INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS outcomes (
	run_id    INTEGER NOT NULL REFERENCES runs(id),
	idx       INTEGER NOT NULL,
	title     TEXT NOT NULL,
	succeeded INTEGER NOT NULL,
	reason    TEXT NOT NULL DEFAULT '',
	url       TEXT NOT NULL DEFAULT ''
);
`

// Store records harvest runs and their download outcomes.
type Store struct {
	db *sql.DB
}

// RunSummary is one row of the per-run history listing.
type RunSummary struct {
	ID        int64
	Keyword   string
	Venue     string
	Year      int
	StartedAt time.Time
	Total     int
	Succeeded int
	Failed    int
}

// Open opens or creates the history database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun inserts one run row plus one row per outcome and returns the
// new run's ID.
func (s *Store) RecordRun(keyword, venue string, year int, startedAt time.Time, outcomes []types.DownloadOutcome) (int64, error) {
	succeeded, failed := 0, 0
	for _, o := range outcomes {
		if o.Succeeded {
			succeeded++
		} else {
			failed++
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO runs (keyword, venue, year, started_at, total, succeeded, failed) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		keyword, venue, year, startedAt.UTC().Format(time.RFC3339), len(outcomes), succeeded, failed,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run ID: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO outcomes (run_id, idx, title, succeeded, reason, url) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing outcome insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range outcomes {
		if _, err := stmt.Exec(runID, o.Index, o.Title, o.Succeeded, o.Reason, o.URL); err != nil {
			return 0, fmt.Errorf("inserting outcome %d: %w", o.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// Runs returns all recorded runs, most recent first.
func (s *Store) Runs() ([]RunSummary, error) {
	rows, err := s.db.Query(
		`SELECT id, keyword, venue, year, started_at, total, succeeded, failed FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var summaries []RunSummary
	for rows.Next() {
		var rs RunSummary
		var started string
		if err := rows.Scan(&rs.ID, &rs.Keyword, &rs.Venue, &rs.Year, &started, &rs.Total, &rs.Succeeded, &rs.Failed); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339, started); parseErr == nil {
			rs.StartedAt = t
		}
		summaries = append(summaries, rs)
	}
	return summaries, rows.Err()
}

// Failures returns the failed outcomes of one run, in run order.
func (s *Store) Failures(runID int64) ([]types.DownloadOutcome, error) {
	rows, err := s.db.Query(
		`SELECT idx, title, reason, url FROM outcomes WHERE run_id = ? AND succeeded = 0 ORDER BY idx`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying failures: %w", err)
	}
	defer rows.Close()

	var failures []types.DownloadOutcome
	for rows.Next() {
		var o types.DownloadOutcome
		if err := rows.Scan(&o.Index, &o.Title, &o.Reason, &o.URL); err != nil {
			return nil, fmt.Errorf("scanning outcome row: %w", err)
		}
		failures = append(failures, o)
	}
	return failures, rows.Err()
}
