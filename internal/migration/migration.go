package migration

import (
	"context"

	"housepulse/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
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

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createRegionFlowsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create region_flows table")
	}

	if err := r.createMetricPointsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create metric_points table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

// createRegionFlowsTable stores raw origin-destination migration records as
// delivered by the upstream service, one row per (period, origin,
// destination) observation.
func (r *MigrationRunner) createRegionFlowsTable(ctx context.Context, db *sqlx.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS region_flows (
		id UUID PRIMARY KEY,
		period VARCHAR(16) NOT NULL,
		origin VARCHAR(64) NOT NULL,
		destination VARCHAR(64) NOT NULL,
		weight DOUBLE PRECISION NOT NULL,
		fetched_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (period, origin, destination)
	)`

	_, err := db.ExecContext(ctx, query)
	return err
}

// createMetricPointsTable stores per-region per-period metric observations
// (HPI change rate, net migration, and whatever the upstream adds next).
func (r *MigrationRunner) createMetricPointsTable(ctx context.Context, db *sqlx.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS metric_points (
		id UUID PRIMARY KEY,
		metric VARCHAR(64) NOT NULL,
		region VARCHAR(64) NOT NULL,
		period VARCHAR(16) NOT NULL,
		value DOUBLE PRECISION NOT NULL,
		fetched_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (metric, region, period)
	)`

	_, err := db.ExecContext(ctx, query)
	return err
}

// createIndexes creates performance indexes
func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_region_flows_period ON region_flows(period)`,
		`CREATE INDEX IF NOT EXISTS idx_metric_points_metric_period ON metric_points(metric, period)`,
		`CREATE INDEX IF NOT EXISTS idx_metric_points_region ON metric_points(region)`,
	}

	for _, index := range indexes {
		if _, err := db.ExecContext(ctx, index); err != nil {
			return err
		}
	}

	return nil
}
