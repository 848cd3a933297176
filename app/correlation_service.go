package app

import (
	"context"

	"housepulse/domain/core"
	"housepulse/domain/correlation"
	"housepulse/domain/metrics"
	"housepulse/ports"
)

// CorrelationService joins the stored metric series and runs the regression
// engine over them. A nil result propagates unchanged: it means "not enough
// data", and the UI renders it as an empty state rather than an error.
type CorrelationService struct {
	metricRepo ports.MetricRepository
}

// NewCorrelationService creates a correlation service
func NewCorrelationService(metricRepo ports.MetricRepository) *CorrelationService {
	return &CorrelationService{metricRepo: metricRepo}
}

// PriceMigration regresses net migration on HPI change rate, optionally
// restricted to one region.
func (s *CorrelationService) PriceMigration(ctx context.Context, filterRegion core.RegionID) (*correlation.RegressionResult, error) {
	return s.Correlate(ctx, metrics.MetricHPIChange, metrics.MetricNetMigration, filterRegion)
}

// Correlate loads two stored metric series and fits the regression.
func (s *CorrelationService) Correlate(ctx context.Context, xMetric, yMetric core.MetricKey, filterRegion core.RegionID) (*correlation.RegressionResult, error) {
	seriesX, err := s.metricRepo.ListSeries(ctx, xMetric)
	if err != nil {
		return nil, err
	}
	seriesY, err := s.metricRepo.ListSeries(ctx, yMetric)
	if err != nil {
		return nil, err
	}

	return correlation.Correlate(seriesX, seriesY, correlation.Options{
		FilterRegion: filterRegion,
		XLabel:       xMetric.String(),
		YLabel:       yMetric.String(),
	}), nil
}
