package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SchemaVersion is the current schema version.
const SchemaVersion = 1

// schemaV1 is the initial schema for the run-history store.
const schemaV1 = `
-- One row per completed simulation run
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    created_at TEXT NOT NULL,

    -- Run parameters
    trials INTEGER NOT NULL,
    particles INTEGER NOT NULL,
    energy_total INTEGER NOT NULL,
    energy_min INTEGER NOT NULL,
    energy_max INTEGER NOT NULL,
    seed INTEGER NOT NULL,
    workers INTEGER NOT NULL,

    -- Finalized outputs
    accepted INTEGER NOT NULL,
    mean REAL NOT NULL,
    stddev REAL NOT NULL,
    avg_total_energy REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);

-- Per-level histogram rows for each run
CREATE TABLE IF NOT EXISTS run_levels (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    level INTEGER NOT NULL,
    count INTEGER NOT NULL,
    probability REAL NOT NULL,
    PRIMARY KEY (run_id, level)
);

-- Schema version
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL
);
`

// InitSchema creates or upgrades the database schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	version, err := getSchemaVersion(ctx, db)
	if err != nil {
		// Schema version table doesn't exist yet, create fresh schema
		return createSchema(ctx, db)
	}
	if version > SchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, SchemaVersion)
	}
	return nil
}

// getSchemaVersion returns the current schema version from the database.
// Returns an error if the schema_version table doesn't exist.
func getSchemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	err := db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_version`).Scan(&version)
	if err != nil {
		return 0, err
	}
	return version, nil
}

// createSchema applies the full current schema to a fresh database.
func createSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaV1); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO schema_version (version, applied_at) VALUES (?, ?)`,
		SchemaVersion, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return nil
}
