package app

import (
	"context"
	"sort"
	"sync"

	"housepulse/domain/core"
	"housepulse/domain/flow"
	"housepulse/domain/region"
	"housepulse/ports"

	"golang.org/x/sync/errgroup"
)

// FlowService turns stored migration records into the graphs the dashboard
// renders. All computation is a fresh pure-function pass per call; nothing
// is cached across requests.
type FlowService struct {
	flowRepo ports.FlowRepository
	resolve  flow.GroupResolver
}

// NewFlowService creates a flow service backed by the production region table
func NewFlowService(flowRepo ports.FlowRepository) *FlowService {
	return &FlowService{
		flowRepo: flowRepo,
		resolve:  region.Resolve,
	}
}

// GroupedGraph aggregates one period's flows at the metro-group level.
func (s *FlowService) GroupedGraph(ctx context.Context, period core.Period) (flow.FlowGraph, error) {
	records, err := s.flowRepo.ListFlows(ctx, period)
	if err != nil {
		return flow.FlowGraph{}, err
	}
	return flow.Aggregate(records, s.resolve, flow.ModeGrouped, ""), nil
}

// DrilldownGraph expands one metro group to its districts for one period.
// An unknown focus group yields an empty graph, matching the aggregator's
// contract.
func (s *FlowService) DrilldownGraph(ctx context.Context, period core.Period, focusGroup core.RegionID) (flow.FlowGraph, error) {
	records, err := s.flowRepo.ListFlows(ctx, period)
	if err != nil {
		return flow.FlowGraph{}, err
	}
	return flow.Aggregate(records, s.resolve, flow.ModeDrilldown, focusGroup), nil
}

// SynthesizedGraph builds the approximate pairwise graph from one period's
// grouped per-node totals. Used by views that only have net figures to show.
func (s *FlowService) SynthesizedGraph(ctx context.Context, period core.Period) (flow.FlowGraph, error) {
	grouped, err := s.GroupedGraph(ctx, period)
	if err != nil {
		return flow.FlowGraph{}, err
	}
	return flow.Synthesize(grouped.Nodes), nil
}

// DrilldownSet is the full set of per-group drilldown views for one period.
type DrilldownSet struct {
	Period core.Period                      `json:"period"`
	Graphs map[core.RegionID]flow.FlowGraph `json:"graphs"`
}

// AllDrilldowns computes the drilldown view of every metro group for one
// period concurrently. The aggregator is pure and stateless, so the
// fan-out needs no coordination beyond collecting results.
func (s *FlowService) AllDrilldowns(ctx context.Context, period core.Period) (*DrilldownSet, error) {
	records, err := s.flowRepo.ListFlows(ctx, period)
	if err != nil {
		return nil, err
	}

	set := &DrilldownSet{
		Period: period,
		Graphs: make(map[core.RegionID]flow.FlowGraph),
	}

	var mu sync.Mutex
	g, _ := errgroup.WithContext(ctx)
	for _, group := range region.Groups() {
		group := group
		g.Go(func() error {
			graph := flow.Aggregate(records, s.resolve, flow.ModeDrilldown, group)
			mu.Lock()
			set.Graphs[group] = graph
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return set, nil
}

// Periods lists the periods with stored flow data, newest last.
func (s *FlowService) Periods(ctx context.Context) ([]core.Period, error) {
	periods, err := s.flowRepo.Periods(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i] < periods[j] })
	return periods, nil
}

// LatestPeriod returns the most recent period with stored flows, or empty
// when nothing has been ingested yet.
func (s *FlowService) LatestPeriod(ctx context.Context) (core.Period, error) {
	periods, err := s.Periods(ctx)
	if err != nil {
		return "", err
	}
	if len(periods) == 0 {
		return "", nil
	}
	return periods[len(periods)-1], nil
}
