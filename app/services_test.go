package app

import (
	"context"
	"strings"
	"testing"

	"housepulse/domain/core"
	"housepulse/domain/flow"
	"housepulse/domain/metrics"
	"housepulse/domain/region"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock implementations for testing
type MockFlowRepository struct {
	mock.Mock
}

func (m *MockFlowRepository) SaveFlows(ctx context.Context, period core.Period, records []flow.FlowRecord) error {
	args := m.Called(ctx, period, records)
	return args.Error(0)
}

func (m *MockFlowRepository) ListFlows(ctx context.Context, period core.Period) ([]flow.FlowRecord, error) {
	args := m.Called(ctx, period)
	return args.Get(0).([]flow.FlowRecord), args.Error(1)
}

func (m *MockFlowRepository) Periods(ctx context.Context) ([]core.Period, error) {
	args := m.Called(ctx)
	return args.Get(0).([]core.Period), args.Error(1)
}

type MockMetricRepository struct {
	mock.Mock
}

func (m *MockMetricRepository) SavePoints(ctx context.Context, metric core.MetricKey, points metrics.MetricSeries) error {
	args := m.Called(ctx, metric, points)
	return args.Error(0)
}

func (m *MockMetricRepository) ListSeries(ctx context.Context, metric core.MetricKey) (metrics.MetricSeries, error) {
	args := m.Called(ctx, metric)
	return args.Get(0).(metrics.MetricSeries), args.Error(1)
}

func sampleFlows() []flow.FlowRecord {
	return []flow.FlowRecord{
		{Origin: "Gangnam-gu", Destination: "Suwon-si", Weight: 120},
		{Origin: "Suwon-si", Destination: "Gangnam-gu", Weight: 60},
		{Origin: "Haeundae-gu", Destination: "Gangnam-gu", Weight: 25},
	}
}

func TestFlowService_GroupedGraph(t *testing.T) {
	repo := new(MockFlowRepository)
	repo.On("ListFlows", mock.Anything, core.Period("2024-03")).Return(sampleFlows(), nil)

	svc := NewFlowService(repo)
	graph, err := svc.GroupedGraph(context.Background(), "2024-03")

	assert.NoError(t, err)
	assert.False(t, graph.IsEmpty())
	assert.Equal(t, 180.0+25.0, graph.TotalWeight())
	repo.AssertExpectations(t)
}

func TestFlowService_AllDrilldowns(t *testing.T) {
	repo := new(MockFlowRepository)
	repo.On("ListFlows", mock.Anything, core.Period("2024-03")).Return(sampleFlows(), nil)

	svc := NewFlowService(repo)
	set, err := svc.AllDrilldowns(context.Background(), "2024-03")

	assert.NoError(t, err)
	assert.Len(t, set.Graphs, len(region.Groups()), "one drilldown per metro group")

	// Groups untouched by the sample data come back empty, not missing.
	assert.True(t, set.Graphs["Daejeon"].IsEmpty())
	assert.False(t, set.Graphs["Seoul"].IsEmpty())

	// The Seoul drilldown keeps atomic Seoul districts as endpoints.
	seoul := set.Graphs["Seoul"]
	sawAtomic := false
	for _, l := range seoul.Links {
		if l.From == "Gangnam-gu" || l.To == "Gangnam-gu" {
			sawAtomic = true
		}
	}
	assert.True(t, sawAtomic, "expected atomic district endpoints in the Seoul drilldown")
}

func TestFlowService_LatestPeriod(t *testing.T) {
	repo := new(MockFlowRepository)
	repo.On("Periods", mock.Anything).Return([]core.Period{"2024-02", "2024-03", "2024-01"}, nil)

	svc := NewFlowService(repo)
	latest, err := svc.LatestPeriod(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, core.Period("2024-03"), latest)
}

func TestCorrelationService_PriceMigration(t *testing.T) {
	hpi := metrics.MetricSeries{
		{Region: "Seoul", Period: "2024-01", Value: 0.5},
		{Region: "Seoul", Period: "2024-02", Value: 1.0},
		{Region: "Seoul", Period: "2024-03", Value: 1.5},
	}
	migration := metrics.MetricSeries{
		{Region: "Seoul", Period: "2024-01", Value: 500},
		{Region: "Seoul", Period: "2024-02", Value: 1000},
		{Region: "Seoul", Period: "2024-03", Value: 1500},
	}

	repo := new(MockMetricRepository)
	repo.On("ListSeries", mock.Anything, metrics.MetricHPIChange).Return(hpi, nil)
	repo.On("ListSeries", mock.Anything, metrics.MetricNetMigration).Return(migration, nil)

	svc := NewCorrelationService(repo)
	result, err := svc.PriceMigration(context.Background(), "")

	assert.NoError(t, err)
	if assert.NotNil(t, result) {
		assert.InDelta(t, 1000.0, result.Slope, 1e-9)
		assert.InDelta(t, 1.0, result.Correlation, 1e-9)
		assert.Contains(t, result.Interpretation, "hpi_change")
		assert.Contains(t, result.Interpretation, "net_migration")
	}
}

func TestCorrelationService_SparseDataYieldsNil(t *testing.T) {
	repo := new(MockMetricRepository)
	repo.On("ListSeries", mock.Anything, metrics.MetricHPIChange).Return(metrics.MetricSeries{}, nil)
	repo.On("ListSeries", mock.Anything, metrics.MetricNetMigration).Return(metrics.MetricSeries{}, nil)

	svc := NewCorrelationService(repo)
	result, err := svc.PriceMigration(context.Background(), "")

	assert.NoError(t, err, "sparse data is not an error")
	assert.Nil(t, result)
}

func TestReportService_DegradesGracefully(t *testing.T) {
	flowRepo := new(MockFlowRepository)
	flowRepo.On("ListFlows", mock.Anything, core.Period("2024-04")).Return([]flow.FlowRecord{}, nil)
	metricRepo := new(MockMetricRepository)
	metricRepo.On("ListSeries", mock.Anything, mock.Anything).Return(metrics.MetricSeries{}, nil)

	svc := NewReportService(NewFlowService(flowRepo), NewCorrelationService(metricRepo))
	brief, err := svc.MarkdownBrief(context.Background(), "2024-04")

	assert.NoError(t, err)
	assert.True(t, strings.Contains(brief, "No flow data recorded"))
	assert.True(t, strings.Contains(brief, "Not enough overlapping data"))
}

func TestReportService_FullBrief(t *testing.T) {
	flowRepo := new(MockFlowRepository)
	flowRepo.On("ListFlows", mock.Anything, core.Period("2024-03")).Return(sampleFlows(), nil)
	metricRepo := new(MockMetricRepository)
	series := metrics.MetricSeries{
		{Region: "Seoul", Period: "2024-01", Value: 1},
		{Region: "Seoul", Period: "2024-02", Value: 2},
		{Region: "Seoul", Period: "2024-03", Value: 3},
	}
	metricRepo.On("ListSeries", mock.Anything, metrics.MetricHPIChange).Return(series, nil)
	metricRepo.On("ListSeries", mock.Anything, metrics.MetricNetMigration).Return(series, nil)

	svc := NewReportService(NewFlowService(flowRepo), NewCorrelationService(metricRepo))
	brief, err := svc.MarkdownBrief(context.Background(), "2024-03")

	assert.NoError(t, err)
	assert.Contains(t, brief, "# Market brief for 2024-03")
	assert.Contains(t, brief, "Seoul → Gyeonggi: 120 moves")
	assert.Contains(t, brief, "Fitted line:")
}
