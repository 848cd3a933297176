package ports

import (
	"context"

	"housepulse/domain/core"
	"housepulse/domain/flow"
)

// FlowRepository persists raw region-to-region migration records. The
// repository is a cache of upstream data only; aggregated graphs are never
// stored, they are recomputed per request.
type FlowRepository interface {
	// SaveFlows upserts the records observed for one period, replacing any
	// earlier snapshot of the same (period, origin, destination) keys.
	SaveFlows(ctx context.Context, period core.Period, records []flow.FlowRecord) error

	// ListFlows returns all records for one period. A period with no data
	// yields an empty slice, not an error.
	ListFlows(ctx context.Context, period core.Period) ([]flow.FlowRecord, error)

	// Periods returns the distinct periods with stored flows, sorted.
	Periods(ctx context.Context) ([]core.Period, error)
}
