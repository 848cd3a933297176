package app

import (
	"context"
	"time"

	"housepulse/domain/core"
	"housepulse/domain/metrics"
	"housepulse/internal"
	"housepulse/internal/errors"
	"housepulse/ports"
)

// IngestService pulls the upstream service's current data into the local
// cache. Ingestion is best-effort per section: a failing metric fetch does
// not abort the flow fetch, so a partial upstream outage still refreshes
// what it can.
type IngestService struct {
	reader     ports.MarketDataReader
	flowRepo   ports.FlowRepository
	metricRepo ports.MetricRepository
	logger     *internal.Logger
}

// NewIngestService creates an ingestion service
func NewIngestService(reader ports.MarketDataReader, flowRepo ports.FlowRepository, metricRepo ports.MetricRepository) *IngestService {
	return &IngestService{
		reader:     reader,
		flowRepo:   flowRepo,
		metricRepo: metricRepo,
		logger:     internal.DefaultLogger.Named("ingest"),
	}
}

// RefreshResult summarizes one ingestion cycle.
type RefreshResult struct {
	Period       core.Period    `json:"period"`
	FetchedAt    core.Timestamp `json:"fetched_at"`
	FlowRecords  int            `json:"flow_records"`
	MetricPoints int            `json:"metric_points"`
	Failures     []string       `json:"failures,omitempty"`
}

// Refresh fetches the given period's flows plus the full metric series and
// persists them. Returns an error only when every section failed; partial
// success is reported through RefreshResult.Failures.
func (s *IngestService) Refresh(ctx context.Context, period core.Period) (*RefreshResult, error) {
	result := &RefreshResult{Period: period, FetchedAt: core.Now()}

	if err := s.refreshFlows(ctx, period, result); err != nil {
		result.Failures = append(result.Failures, err.Error())
	}
	for _, metric := range []core.MetricKey{metrics.MetricHPIChange, metrics.MetricNetMigration} {
		if err := s.refreshMetric(ctx, metric, result); err != nil {
			result.Failures = append(result.Failures, err.Error())
		}
	}

	if len(result.Failures) == 3 {
		return result, errors.ExternalService("all ingestion sections failed")
	}
	return result, nil
}

// RefreshCurrent ingests the period containing now.
func (s *IngestService) RefreshCurrent(ctx context.Context) (*RefreshResult, error) {
	return s.Refresh(ctx, core.PeriodFromTime(time.Now()))
}

// Poll runs Refresh on a fixed interval until the context is cancelled.
// Failures are logged and the loop keeps going; upstream outages are
// routine and the next tick retries.
func (s *IngestService) Poll(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			result, err := s.RefreshCurrent(ctx)
			if err != nil {
				s.logger.Warn("ingestion cycle failed: %v", err)
				continue
			}
			s.logger.Info("ingested period %s: %d flows, %d metric points (%d failures)",
				result.Period, result.FlowRecords, result.MetricPoints, len(result.Failures))
		}
	}
}

// MarketPhase reads through to the upstream's quadrant label for one region
// and period. Phase labels are consumed, never derived locally, and are not
// cached: the upstream may restate a period's phase after revision.
func (s *IngestService) MarketPhase(ctx context.Context, region core.RegionID, period core.Period) (metrics.MarketPhase, error) {
	return s.reader.FetchMarketPhase(ctx, region, period)
}

func (s *IngestService) refreshFlows(ctx context.Context, period core.Period, result *RefreshResult) error {
	records, err := s.reader.FetchFlows(ctx, period)
	if err != nil {
		return errors.Wrap(err, "flow fetch failed")
	}
	if err := s.flowRepo.SaveFlows(ctx, period, records); err != nil {
		return errors.Wrap(err, "flow save failed")
	}
	result.FlowRecords = len(records)
	return nil
}

func (s *IngestService) refreshMetric(ctx context.Context, metric core.MetricKey, result *RefreshResult) error {
	series, err := s.reader.FetchMetricSeries(ctx, metric)
	if err != nil {
		return errors.Wrapf(err, "metric %s fetch failed", metric)
	}
	if err := s.metricRepo.SavePoints(ctx, metric, series); err != nil {
		return errors.Wrapf(err, "metric %s save failed", metric)
	}
	result.MetricPoints += len(series)
	return nil
}
