package testkit

import (
	"math"
	"reflect"
	"testing"

	"housepulse/domain/core"
	"housepulse/domain/correlation"
	"housepulse/domain/flow"
	"housepulse/domain/region"

	"github.com/montanaflynn/stats"
)

func TestGenerator_Deterministic(t *testing.T) {
	a := NewGenerator(42).Flows(DefaultFlowOptions())
	b := NewGenerator(42).Flows(DefaultFlowOptions())
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed must yield identical flows")
	}

	c := NewGenerator(43).Flows(DefaultFlowOptions())
	if reflect.DeepEqual(a, c) {
		t.Error("different seeds should not yield identical flows")
	}
}

func TestGenerator_FlowsAreWellFormed(t *testing.T) {
	records := NewGenerator(1).Flows(DefaultFlowOptions())
	if len(records) == 0 {
		t.Fatal("no records generated")
	}

	weights := make([]float64, 0, len(records))
	for _, r := range records {
		if r.Weight <= 0 {
			t.Errorf("non-positive weight %v", r.Weight)
		}
		if r.Origin == r.Destination {
			t.Errorf("self-move %s generated", r.Origin)
		}
		if region.Resolve(r.Origin) == region.FallbackGroup {
			t.Errorf("origin %s not in the region table", r.Origin)
		}
		weights = append(weights, r.Weight)
	}

	mean, _ := stats.Mean(weights)
	if mean <= 0 {
		t.Errorf("degenerate weight distribution, mean %v", mean)
	}

	// Generated records must survive the production aggregation path.
	graph := flow.Aggregate(records, region.Resolve, flow.ModeGrouped, "")
	if graph.IsEmpty() {
		t.Error("generated flows aggregate to an empty graph")
	}
}

func TestGenerator_SeoulGravity(t *testing.T) {
	opts := DefaultFlowOptions()
	opts.SeoulGravity = 0.9
	records := NewGenerator(7).Flows(opts)

	toSeoul := 0
	for _, r := range records {
		if region.Resolve(r.Destination) == core.RegionID("Seoul") {
			toSeoul++
		}
	}
	if ratio := float64(toSeoul) / float64(len(records)); ratio < 0.7 {
		t.Errorf("gravity 0.9 produced only %.0f%% Seoul-bound records", ratio*100)
	}
}

func TestGenerator_PairedSeriesRecoverable(t *testing.T) {
	g := NewGenerator(99)
	x, y := g.PairedSeries([]core.RegionID{"Seoul", "Busan"}, Periods(12), 250, 40, 1)

	result := correlation.Correlate(x, y, correlation.Options{})
	if result == nil {
		t.Fatal("generated series must be sufficient for regression")
	}
	if math.Abs(result.Slope-250) > 5 {
		t.Errorf("recovered slope %v too far from planted 250", result.Slope)
	}
	if result.Correlation < 0.99 {
		t.Errorf("low-noise series should correlate near 1, got %v", result.Correlation)
	}
}

func TestPeriods_RollsOverYears(t *testing.T) {
	periods := Periods(14)
	if periods[0] != "2024-01" || periods[11] != "2024-12" || periods[12] != "2025-01" {
		t.Errorf("unexpected period sequence: %v", periods)
	}
}
