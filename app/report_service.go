package app

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"housepulse/domain/core"
	"housepulse/domain/flow"
)

// ReportService composes the markdown market brief for one period: top
// corridors, biggest gainers and losers, and the price/migration regression
// summary. The output is deterministic for a given data state so briefs can
// be diffed across refreshes.
type ReportService struct {
	flows        *FlowService
	correlations *CorrelationService
}

// NewReportService creates a report service
func NewReportService(flows *FlowService, correlations *CorrelationService) *ReportService {
	return &ReportService{flows: flows, correlations: correlations}
}

// MarkdownBrief renders the period's brief as markdown. Sparse data
// degrades section by section; a period with no flows at all still
// produces a valid document saying so.
func (s *ReportService) MarkdownBrief(ctx context.Context, period core.Period) (string, error) {
	graph, err := s.flows.GroupedGraph(ctx, period)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Market brief for %s\n\n", period)

	writeFlowSections(&b, graph)

	regression, err := s.correlations.PriceMigration(ctx, "")
	if err != nil {
		return "", err
	}
	b.WriteString("## Price vs. migration\n\n")
	if regression == nil {
		b.WriteString("Not enough overlapping data to fit a regression.\n")
	} else {
		fmt.Fprintf(&b, "%s\n\nFitted line: `%s`\n", regression.Interpretation, regression.Equation)
	}

	return b.String(), nil
}

func writeFlowSections(b *strings.Builder, graph flow.FlowGraph) {
	b.WriteString("## Migration corridors\n\n")
	if graph.IsEmpty() {
		b.WriteString("No flow data recorded for this period.\n\n")
		return
	}

	links := make([]flow.AggregatedLink, len(graph.Links))
	copy(links, graph.Links)
	sort.Slice(links, func(i, j int) bool {
		if links[i].Weight != links[j].Weight {
			return links[i].Weight > links[j].Weight
		}
		if links[i].From != links[j].From {
			return links[i].From < links[j].From
		}
		return links[i].To < links[j].To
	})
	if len(links) > 5 {
		links = links[:5]
	}
	for _, l := range links {
		fmt.Fprintf(b, "- %s → %s: %.0f moves\n", l.From, l.To, l.Weight)
	}
	b.WriteString("\n## Net movement\n\n")

	nodes := make([]flow.AggregatedNode, len(graph.Nodes))
	copy(nodes, graph.Nodes)
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Net != nodes[j].Net {
			return nodes[i].Net > nodes[j].Net
		}
		return nodes[i].ID < nodes[j].ID
	})
	for _, n := range nodes {
		direction := "gained"
		if n.Net < 0 {
			direction = "lost"
		} else if n.Net == 0 {
			direction = "balanced at"
		}
		fmt.Fprintf(b, "- %s %s %.0f (total traffic %.0f)\n", n.ID, direction, abs(n.Net), n.Sum)
	}
	b.WriteString("\n")
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
