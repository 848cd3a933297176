package ports

import (
	"context"

	"housepulse/domain/core"
	"housepulse/domain/metrics"
)

// MetricRepository persists per-region per-period metric observations.
type MetricRepository interface {
	// SavePoints upserts the points of one metric, replacing earlier values
	// for the same (metric, region, period) keys.
	SavePoints(ctx context.Context, metric core.MetricKey, points metrics.MetricSeries) error

	// ListSeries returns the full stored series of one metric, sorted by
	// (period, region). An unknown metric yields an empty series.
	ListSeries(ctx context.Context, metric core.MetricKey) (metrics.MetricSeries, error)
}
