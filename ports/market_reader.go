package ports

import (
	"context"

	"housepulse/domain/core"
	"housepulse/domain/flow"
	"housepulse/domain/metrics"
)

// MarketDataReader is the upstream market-data service: the asynchronous
// external collaborator that supplies every raw input this system consumes.
// HPI values and market-phase labels arrive pre-computed; nothing behind
// this interface is derived locally.
type MarketDataReader interface {
	// FetchFlows retrieves the raw migration records for one period.
	FetchFlows(ctx context.Context, period core.Period) ([]flow.FlowRecord, error)

	// FetchMetricSeries retrieves the full series of one metric across all
	// regions and periods the upstream currently publishes.
	FetchMetricSeries(ctx context.Context, metric core.MetricKey) (metrics.MetricSeries, error)

	// FetchMarketPhase retrieves the externally computed quadrant label for
	// one region and period.
	FetchMarketPhase(ctx context.Context, region core.RegionID, period core.Period) (metrics.MarketPhase, error)
}
