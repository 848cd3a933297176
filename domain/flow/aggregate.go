package flow

import (
	"sort"

	"housepulse/domain/core"
)

// pairKey buckets flows by directed endpoint pair after mapping.
type pairKey struct {
	from core.RegionID
	to   core.RegionID
}

// Aggregate buckets raw migration records into a node/link graph at the
// requested level.
//
// In ModeGrouped both endpoints of every record are mapped through the
// resolver and flows are summed per (sourceGroup, targetGroup) pair.
//
// In ModeDrilldown only records touching focusGroup survive: an endpoint
// inside the focus group keeps its atomic id, the opposite endpoint is
// collapsed to its group. A focusGroup that matches nothing yields an empty
// graph, not an error.
//
// After bucketing, self-loop entries (from == to after mapping, which also
// removes intra-group movement in grouped mode) are dropped first, then any
// non-positive buckets. Nodes are derived from the surviving links only, so
// every output node is an endpoint of at least one link and the per-node
// nets reconcile exactly against the link set. Bucketing is a commutative
// sum, so the result is independent of input record order.
func Aggregate(records []FlowRecord, resolve GroupResolver, mode AggregationMode, focusGroup core.RegionID) FlowGraph {
	buckets := make(map[pairKey]float64)

	for _, rec := range records {
		// Non-negative by contract; malformed weights are filtered, not reported.
		if rec.Weight <= 0 {
			continue
		}

		var key pairKey
		switch mode {
		case ModeDrilldown:
			sourceGroup := resolve(rec.Origin)
			targetGroup := resolve(rec.Destination)
			if sourceGroup != focusGroup && targetGroup != focusGroup {
				continue
			}
			key.from = sourceGroup
			if sourceGroup == focusGroup {
				key.from = rec.Origin
			}
			key.to = targetGroup
			if targetGroup == focusGroup {
				key.to = rec.Destination
			}
		default: // ModeGrouped
			key.from = resolve(rec.Origin)
			key.to = resolve(rec.Destination)
		}

		buckets[key] += rec.Weight
	}

	links := make([]AggregatedLink, 0, len(buckets))
	for key, weight := range buckets {
		if key.from == key.to {
			continue
		}
		if weight <= 0 {
			continue
		}
		links = append(links, AggregatedLink{From: key.from, To: key.to, Weight: weight})
	}
	sort.Slice(links, func(i, j int) bool {
		if links[i].From != links[j].From {
			return links[i].From < links[j].From
		}
		return links[i].To < links[j].To
	})

	return FlowGraph{
		Nodes: deriveNodes(links),
		Links: links,
	}
}

// deriveNodes builds the node set from the surviving links: one node per
// distinct endpoint, Sum = inbound+outbound traffic, Net = inbound-outbound.
// Nodes come back sorted by id with palette colors assigned in that order.
func deriveNodes(links []AggregatedLink) []AggregatedNode {
	sums := make(map[core.RegionID]float64)
	nets := make(map[core.RegionID]float64)
	for _, l := range links {
		sums[l.From] += l.Weight
		sums[l.To] += l.Weight
		nets[l.From] -= l.Weight
		nets[l.To] += l.Weight
	}

	nodes := make([]AggregatedNode, 0, len(sums))
	for id := range sums {
		nodes = append(nodes, AggregatedNode{ID: id, Sum: sums[id], Net: nets[id]})
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	assignColors(nodes)
	return nodes
}
