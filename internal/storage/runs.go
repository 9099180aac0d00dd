package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run is one audit record of a compatibility run.
type Run struct {
	ID           string
	BaselineRef  string
	CandidateRef string
	Mode         string
	Differences  int
	Errors       int
	Warnings     int
	Suppressed   int
	Stale        int
	Result       string
	StartedAt    time.Time
}

// Run results.
const (
	RunPassed = "pass"
	RunFailed = "fail"
)

// RecordRun persists a run audit record, assigning a fresh UUID when
// the caller did not supply one.
func (db *DB) RecordRun(r *Run) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now().UTC()
	}

	return db.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO runs (id, baseline_ref, candidate_ref, mode,
				differences, errors, warnings, suppressed, stale,
				result, started_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, r.ID, r.BaselineRef, r.CandidateRef, r.Mode,
			r.Differences, r.Errors, r.Warnings, r.Suppressed, r.Stale,
			r.Result, r.StartedAt.Format(time.RFC3339))
		return err
	})
}

// ListRuns returns the most recent run records, newest first.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.Query(`
		SELECT id, baseline_ref, candidate_ref, mode,
			differences, errors, warnings, suppressed, stale,
			result, started_at
		FROM runs ORDER BY started_at DESC, id LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var startedAt string
		if err := rows.Scan(&r.ID, &r.BaselineRef, &r.CandidateRef, &r.Mode,
			&r.Differences, &r.Errors, &r.Warnings, &r.Suppressed, &r.Stale,
			&r.Result, &startedAt); err != nil {
			return nil, err
		}
		if t, perr := time.Parse(time.RFC3339, startedAt); perr == nil {
			r.StartedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
