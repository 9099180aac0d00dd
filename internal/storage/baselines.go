package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// Baseline is one cached baseline artifact: where it lives on disk and
// the digest it must still hash to.
type Baseline struct {
	PackageID string
	Version   string
	Path      string
	Digest    string
	FetchedAt time.Time
}

// PutBaseline records a fetched baseline, replacing any previous entry
// for the same package and version.
func (db *DB) PutBaseline(b *Baseline) error {
	if b.PackageID == "" || b.Version == "" {
		return fmt.Errorf("baseline requires package_id and version")
	}
	if b.FetchedAt.IsZero() {
		b.FetchedAt = time.Now().UTC()
	}

	return db.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT OR REPLACE INTO baselines (package_id, version, path, digest, fetched_at)
			VALUES (?, ?, ?, ?, ?)
		`, b.PackageID, b.Version, b.Path, b.Digest, b.FetchedAt.Format(time.RFC3339))
		return err
	})
}

// GetBaseline looks up a cached baseline. A miss returns nil, nil.
func (db *DB) GetBaseline(packageID, version string) (*Baseline, error) {
	var b Baseline
	var fetchedAt string
	err := db.QueryRow(`
		SELECT package_id, version, path, digest, fetched_at
		FROM baselines WHERE package_id = ? AND version = ?
	`, packageID, version).Scan(&b.PackageID, &b.Version, &b.Path, &b.Digest, &fetchedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline cache: %w", err)
	}

	if t, perr := time.Parse(time.RFC3339, fetchedAt); perr == nil {
		b.FetchedAt = t
	}
	return &b, nil
}
