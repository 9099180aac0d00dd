package storage

import (
	"database/sql"
)

const currentSchemaVersion = 1

// initializeSchema creates all tables for a new database
func (db *DB) initializeSchema() error {
	return db.WithTx(func(tx *sql.Tx) error {
		if err := createSchemaVersionTable(tx); err != nil {
			return err
		}
		if err := createBaselinesTable(tx); err != nil {
			return err
		}
		if err := createRunsTable(tx); err != nil {
			return err
		}
		if err := setSchemaVersion(tx, currentSchemaVersion); err != nil {
			return err
		}

		if db.logger != nil {
			db.logger.Info("Database schema initialized", map[string]interface{}{
				"version": currentSchemaVersion,
			})
		}
		return nil
	})
}

// runMigrations runs any pending schema migrations
func (db *DB) runMigrations() error {
	version, err := db.getSchemaVersion()
	if err != nil {
		return err
	}

	if version == currentSchemaVersion {
		return nil
	}

	// Run migrations sequentially as the schema evolves.
	return nil
}

func (db *DB) getSchemaVersion() (int, error) {
	var tableName string
	err := db.QueryRow(`
		SELECT name FROM sqlite_master
		WHERE type='table' AND name='schema_version'
	`).Scan(&tableName)

	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var version int
	err = db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return version, nil
}

func setSchemaVersion(tx *sql.Tx, version int) error {
	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	_, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version)
	return err
}

func createSchemaVersionTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`)
	return err
}

func createBaselinesTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS baselines (
			package_id TEXT NOT NULL,
			version TEXT NOT NULL,
			path TEXT NOT NULL,
			digest TEXT NOT NULL,
			fetched_at TEXT NOT NULL,
			PRIMARY KEY (package_id, version)
		)
	`)
	return err
}

func createRunsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			baseline_ref TEXT NOT NULL,
			candidate_ref TEXT NOT NULL,
			mode TEXT NOT NULL,
			differences INTEGER NOT NULL DEFAULT 0,
			errors INTEGER NOT NULL DEFAULT 0,
			warnings INTEGER NOT NULL DEFAULT 0,
			suppressed INTEGER NOT NULL DEFAULT 0,
			stale INTEGER NOT NULL DEFAULT 0,
			result TEXT NOT NULL,
			started_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`
		CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC)
	`)
	return err
}
