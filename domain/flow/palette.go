package flow

// palette is the dashboard's categorical color cycle. Colors are assigned
// by sorted node id order so a given node set keeps stable colors across
// recomputation.
var palette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
	"#86bcb6", "#d37295", "#fabfd2", "#b6992d", "#499894",
}

// assignColors colors nodes in place. Callers pass nodes already sorted by id.
func assignColors(nodes []AggregatedNode) {
	for i := range nodes {
		nodes[i].Color = palette[i%len(palette)]
	}
}
