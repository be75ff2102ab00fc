package migration

import (
	"context"
	"fmt"

	"afmdash/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner creates the preset schema on postgres or sqlite
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in order. Every step is idempotent.
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createPresetsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create analysis_presets table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	if err := r.recordVersion(ctx, db); err != nil {
		return errors.Wrap(err, "failed to record schema version")
	}

	return nil
}

func (r *MigrationRunner) createPresetsTable(ctx context.Context, db *sqlx.DB) error {
	payloadType := "TEXT"
	if isPostgres(db) {
		payloadType = "JSONB"
	}
	_, err := db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS analysis_presets (
			name VARCHAR(128) PRIMARY KEY,
			payload %s NOT NULL,
			created_at BIGINT NOT NULL,
			updated_at BIGINT NOT NULL
		)
	`, payloadType))
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_analysis_presets_updated_at ON analysis_presets(updated_at)
	`)
	return err
}

func (r *MigrationRunner) recordVersion(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_versions (
			version VARCHAR(32) PRIMARY KEY
		)
	`); err != nil {
		return err
	}
	_, err := db.ExecContext(ctx, db.Rebind(`
		INSERT INTO schema_versions (version) VALUES (?)
		ON CONFLICT (version) DO NOTHING
	`), r.version)
	return err
}

// AppliedVersions lists the recorded schema versions
func AppliedVersions(ctx context.Context, db *sqlx.DB) ([]string, error) {
	var versions []string
	if err := db.SelectContext(ctx, &versions, `SELECT version FROM schema_versions ORDER BY version`); err != nil {
		return nil, errors.Wrap(err, "failed to read schema versions")
	}
	return versions, nil
}

func isPostgres(db *sqlx.DB) bool {
	return db.DriverName() == "postgres"
}
