package ports

import (
	"io"

	"housepulse/domain/core"
	"housepulse/domain/correlation"
	"housepulse/domain/flow"
)

// ExportPayload bundles everything one spreadsheet export carries.
// Regression is optional; a sparse period exports graph sheets only.
type ExportPayload struct {
	Period     core.Period
	Graph      flow.FlowGraph
	Regression *correlation.RegressionResult
}

// GraphExporter renders an export payload to a downloadable document.
type GraphExporter interface {
	Export(w io.Writer, payload ExportPayload) error
}
