package postgres

import (
	"context"
	"fmt"

	"housepulse/domain/core"
	"housepulse/domain/metrics"
	"housepulse/ports"

	"github.com/jmoiron/sqlx"
)

// metricRepository implements the MetricRepository interface
type metricRepository struct {
	db *sqlx.DB
}

// NewMetricRepository creates a new metric repository
func NewMetricRepository(db *sqlx.DB) ports.MetricRepository {
	return &metricRepository{db: db}
}

// SavePoints upserts one metric's observations inside a transaction
func (r *metricRepository) SavePoints(ctx context.Context, metric core.MetricKey, points metrics.MetricSeries) error {
	if len(points) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO metric_points (id, metric, region, period, value)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (metric, region, period)
	DO UPDATE SET value = EXCLUDED.value, fetched_at = NOW()`

	for _, p := range points {
		_, err = tx.ExecContext(ctx, query,
			core.NewID(), metric, p.Region, p.Period, p.Value,
		)
		if err != nil {
			return fmt.Errorf("failed to save metric point %s/%s/%s: %w", metric, p.Region, p.Period, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit metric points: %w", err)
	}

	return nil
}

// ListSeries retrieves the full stored series of one metric
func (r *metricRepository) ListSeries(ctx context.Context, metric core.MetricKey) (metrics.MetricSeries, error) {
	query := `SELECT region, period, value
	FROM metric_points
	WHERE metric = $1
	ORDER BY period, region`

	series := metrics.MetricSeries{}
	if err := r.db.SelectContext(ctx, &series, query, metric); err != nil {
		return nil, fmt.Errorf("failed to list series for metric %s: %w", metric, err)
	}

	return series, nil
}
