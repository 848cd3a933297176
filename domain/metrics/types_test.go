package metrics

import (
	"testing"

	"housepulse/domain/core"
)

func TestInnerJoin_MatchesOnRegionAndPeriod(t *testing.T) {
	a := MetricSeries{
		{Region: "Seoul", Period: "2024-01", Value: 1.2},
		{Region: "Seoul", Period: "2024-02", Value: 0.8},
		{Region: "Busan", Period: "2024-01", Value: -0.3},
	}
	b := MetricSeries{
		{Region: "Seoul", Period: "2024-01", Value: 5400},
		{Region: "Busan", Period: "2024-01", Value: -210},
		{Region: "Busan", Period: "2024-03", Value: 90}, // no partner in a
	}

	joined := InnerJoin(a, b)

	if len(joined) != 2 {
		t.Fatalf("expected 2 joined points, got %d", len(joined))
	}
	// Sorted by (period, region): Busan 2024-01 first.
	if joined[0].Region != "Busan" || joined[0].X != -0.3 || joined[0].Y != -210 {
		t.Errorf("unexpected first joined point: %+v", joined[0])
	}
	if joined[1].Region != "Seoul" || joined[1].X != 1.2 || joined[1].Y != 5400 {
		t.Errorf("unexpected second joined point: %+v", joined[1])
	}
}

func TestInnerJoin_DuplicateKeysLastWins(t *testing.T) {
	a := MetricSeries{
		{Region: "Seoul", Period: "2024-01", Value: 1.0},
		{Region: "Seoul", Period: "2024-01", Value: 2.0}, // re-published
	}
	b := MetricSeries{
		{Region: "Seoul", Period: "2024-01", Value: 10},
	}

	joined := InnerJoin(a, b)

	if len(joined) != 1 {
		t.Fatalf("expected 1 joined point, got %d", len(joined))
	}
	if joined[0].X != 2.0 {
		t.Errorf("duplicate key: got X=%.1f, want the re-published 2.0", joined[0].X)
	}
}

func TestInnerJoin_Disjoint(t *testing.T) {
	a := MetricSeries{{Region: "Seoul", Period: "2024-01", Value: 1}}
	b := MetricSeries{{Region: "Seoul", Period: "2024-02", Value: 2}}

	if joined := InnerJoin(a, b); len(joined) != 0 {
		t.Errorf("disjoint series must join to nothing, got %d points", len(joined))
	}
}

func TestFilterRegion(t *testing.T) {
	s := MetricSeries{
		{Region: "Seoul", Period: "2024-01", Value: 1},
		{Region: "Busan", Period: "2024-01", Value: 2},
		{Region: "Seoul", Period: "2024-02", Value: 3},
	}

	seoul := s.FilterRegion("Seoul")
	if len(seoul) != 2 {
		t.Fatalf("expected 2 Seoul points, got %d", len(seoul))
	}
	if len(s) != 3 {
		t.Error("FilterRegion must not modify the receiver")
	}
	for _, p := range seoul {
		if p.Region != core.RegionID("Seoul") {
			t.Errorf("leaked region %s", p.Region)
		}
	}
}

func TestMarketPhase_Validate(t *testing.T) {
	for _, p := range []MarketPhase{PhaseExpansion, PhaseSlowdown, PhaseRecession, PhaseRecovery} {
		if err := p.Validate(); err != nil {
			t.Errorf("known phase %s rejected: %v", p, err)
		}
	}
	if err := MarketPhase("boom").Validate(); err == nil {
		t.Error("unknown phase must be rejected")
	}
}
