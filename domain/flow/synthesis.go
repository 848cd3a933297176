package flow

import (
	"math"
	"sort"

	"housepulse/domain/core"
)

// placeholderWeight keeps zero-net nodes visible in synthesized graphs.
const placeholderWeight = 1.0

// Synthesize reconstructs an approximate pairwise flow graph from per-node
// aggregate totals. The upstream service only publishes net inflow/outflow
// per region for some views, but the visualization needs directed edges, so
// the net figures are split proportionally: for every (outflow, inflow)
// node pair,
//
//	weight = round((out/totalOut) * (in/totalIn) * min(totalOut, totalIn))
//
// Zero-weight links are dropped after rounding. The total synthesized
// weight therefore approaches min(totalOut, totalIn), subject to rounding.
//
// The result is a display approximation, not a measured origin-destination
// matrix; the returned graph is flagged Approximate and must never be
// treated as ground truth.
func Synthesize(nodes []AggregatedNode) FlowGraph {
	var outflow, inflow, neutral []AggregatedNode
	totalOut, totalIn := 0.0, 0.0
	for _, n := range nodes {
		switch {
		case n.Net < 0:
			outflow = append(outflow, n)
			totalOut += -n.Net
		case n.Net > 0:
			inflow = append(inflow, n)
			totalIn += n.Net
		default:
			neutral = append(neutral, n)
		}
	}

	// With an empty side there is no pair to split across; nothing to show.
	if totalOut == 0 || totalIn == 0 {
		return FlowGraph{Approximate: true}
	}

	scale := math.Min(totalOut, totalIn)
	links := make([]AggregatedLink, 0, len(outflow)*len(inflow))
	for _, o := range outflow {
		for _, i := range inflow {
			weight := math.Round((-o.Net / totalOut) * (i.Net / totalIn) * scale)
			if weight == 0 {
				continue
			}
			links = append(links, AggregatedLink{From: o.ID, To: i.ID, Weight: weight})
		}
	}

	links = attachNeutralNodes(links, neutral, anchorNode(outflow, inflow))

	sort.Slice(links, func(i, j int) bool {
		if links[i].From != links[j].From {
			return links[i].From < links[j].From
		}
		return links[i].To < links[j].To
	})

	return FlowGraph{
		Nodes:       deriveNodes(links),
		Links:       links,
		Approximate: true,
	}
}

// anchorNode picks the attachment point for zero-net nodes: the largest-|net|
// node in the graph, smaller id on ties, so the choice is deterministic.
func anchorNode(outflow, inflow []AggregatedNode) core.RegionID {
	var anchor core.RegionID
	best := -1.0
	consider := func(n AggregatedNode) {
		mag := math.Abs(n.Net)
		if mag > best || (mag == best && n.ID < anchor) {
			best = mag
			anchor = n.ID
		}
	}
	for _, n := range outflow {
		consider(n)
	}
	for _, n := range inflow {
		consider(n)
	}
	return anchor
}

// attachNeutralNodes ties each zero-net node to the anchor with a
// placeholder edge so it stays present in the rendered graph. Without this
// a balanced region would vanish entirely from the view. The placeholder is
// a display device only, never a claim of real movement.
func attachNeutralNodes(links []AggregatedLink, neutral []AggregatedNode, anchor core.RegionID) []AggregatedLink {
	if len(links) == 0 || anchor == "" {
		return links
	}
	for _, n := range neutral {
		if n.ID == anchor {
			continue
		}
		links = append(links, AggregatedLink{From: n.ID, To: anchor, Weight: placeholderWeight})
	}
	return links
}
