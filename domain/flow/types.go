package flow

import (
	"housepulse/domain/core"
)

// FlowRecord is one raw migration observation from the upstream data
// service: Weight people moved Origin -> Destination during a period.
// Weights are non-negative by contract; records violating that are
// dropped during aggregation, never propagated.
type FlowRecord struct {
	Origin      core.RegionID `json:"origin" db:"origin"`
	Destination core.RegionID `json:"destination" db:"destination"`
	Weight      float64       `json:"weight" db:"weight"`
}

// AggregationMode selects the level a flow set is bucketed at.
type AggregationMode string

const (
	// ModeGrouped collapses every endpoint to its metro group.
	ModeGrouped AggregationMode = "grouped"
	// ModeDrilldown expands one group to its atomic districts while
	// collapsing everything outside it.
	ModeDrilldown AggregationMode = "drilldown"
)

// Valid reports whether the mode is one of the known aggregation modes.
func (m AggregationMode) Valid() bool {
	return m == ModeGrouped || m == ModeDrilldown
}

// AggregatedLink is one directed edge of an aggregated flow graph.
// From and To are never equal: self-loops are removed structurally.
type AggregatedLink struct {
	From   core.RegionID `json:"from"`
	To     core.RegionID `json:"to"`
	Weight float64       `json:"weight"`
}

// AggregatedNode is one endpoint of an aggregated flow graph. Sum is the
// total traffic through the node (inbound plus outbound over the surviving
// link set); Net is inbound minus outbound.
type AggregatedNode struct {
	ID    core.RegionID `json:"id"`
	Sum   float64       `json:"sum"`
	Net   float64       `json:"net"`
	Color string        `json:"color"`
}

// FlowGraph is the node/link payload handed to the visualization layer.
// Approximate marks graphs whose links were synthesized from per-node
// totals rather than measured origin-destination pairs.
type FlowGraph struct {
	Nodes       []AggregatedNode `json:"nodes"`
	Links       []AggregatedLink `json:"links"`
	Approximate bool             `json:"approximate"`
}

// IsEmpty reports whether the graph carries no data.
func (g FlowGraph) IsEmpty() bool {
	return len(g.Nodes) == 0 && len(g.Links) == 0
}

// TotalWeight returns the sum of all link weights.
func (g FlowGraph) TotalWeight() float64 {
	total := 0.0
	for _, l := range g.Links {
		total += l.Weight
	}
	return total
}

// GroupResolver maps an atomic region to its metro group. It must be total:
// every input yields some group. The production resolver is
// region.Resolve; tests substitute fixed tables.
type GroupResolver func(core.RegionID) core.RegionID
