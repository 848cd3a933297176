package postgres

import (
	"context"
	"fmt"

	"housepulse/domain/core"
	"housepulse/domain/flow"
	"housepulse/ports"

	"github.com/jmoiron/sqlx"
)

// flowRepository implements the FlowRepository interface
type flowRepository struct {
	db *sqlx.DB
}

// NewFlowRepository creates a new flow repository
func NewFlowRepository(db *sqlx.DB) ports.FlowRepository {
	return &flowRepository{db: db}
}

// SaveFlows upserts one period's raw migration records inside a transaction
func (r *flowRepository) SaveFlows(ctx context.Context, period core.Period, records []flow.FlowRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO region_flows (id, period, origin, destination, weight)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (period, origin, destination)
	DO UPDATE SET weight = EXCLUDED.weight, fetched_at = NOW()`

	for _, rec := range records {
		_, err = tx.ExecContext(ctx, query,
			core.NewID(), period, rec.Origin, rec.Destination, rec.Weight,
		)
		if err != nil {
			return fmt.Errorf("failed to save flow %s->%s: %w", rec.Origin, rec.Destination, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit flows: %w", err)
	}

	return nil
}

// ListFlows retrieves all raw records for one period
func (r *flowRepository) ListFlows(ctx context.Context, period core.Period) ([]flow.FlowRecord, error) {
	query := `SELECT origin, destination, weight
	FROM region_flows
	WHERE period = $1
	ORDER BY origin, destination`

	records := []flow.FlowRecord{}
	if err := r.db.SelectContext(ctx, &records, query, period); err != nil {
		return nil, fmt.Errorf("failed to list flows for period %s: %w", period, err)
	}

	return records, nil
}

// Periods retrieves the distinct periods with stored flows
func (r *flowRepository) Periods(ctx context.Context) ([]core.Period, error) {
	query := `SELECT DISTINCT period FROM region_flows ORDER BY period`

	periods := []core.Period{}
	if err := r.db.SelectContext(ctx, &periods, query); err != nil {
		return nil, fmt.Errorf("failed to list flow periods: %w", err)
	}

	return periods, nil
}
