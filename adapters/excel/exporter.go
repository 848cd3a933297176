package excel

import (
	"fmt"
	"io"

	"housepulse/internal/errors"
	"housepulse/ports"

	"github.com/xuri/excelize/v2"
)

// Exporter writes an export payload as an xlsx workbook: one sheet of
// nodes, one of links, and one regression summary sheet when a result is
// present. It implements ports.GraphExporter.
type Exporter struct {
	sheetPrefix string
}

// NewExporter creates a new workbook exporter
func NewExporter(sheetPrefix string) *Exporter {
	if sheetPrefix == "" {
		sheetPrefix = "housepulse"
	}
	return &Exporter{sheetPrefix: sheetPrefix}
}

// Export renders the payload to w as an xlsx workbook
func (e *Exporter) Export(w io.Writer, payload ports.ExportPayload) error {
	f := excelize.NewFile()
	defer f.Close()

	nodeSheet := fmt.Sprintf("%s nodes", e.sheetPrefix)
	if err := e.writeNodeSheet(f, nodeSheet, payload); err != nil {
		return errors.WithCode(errors.CodeExportFailed, err)
	}
	if err := e.writeLinkSheet(f, fmt.Sprintf("%s links", e.sheetPrefix), payload); err != nil {
		return errors.WithCode(errors.CodeExportFailed, err)
	}
	if payload.Regression != nil {
		if err := e.writeRegressionSheet(f, fmt.Sprintf("%s regression", e.sheetPrefix), payload); err != nil {
			return errors.WithCode(errors.CodeExportFailed, err)
		}
	}

	if err := f.Write(w); err != nil {
		return errors.WithCode(errors.CodeExportFailed, errors.Wrap(err, "failed to write workbook"))
	}
	return nil
}

func (e *Exporter) writeNodeSheet(f *excelize.File, sheet string, payload ports.ExportPayload) error {
	// Reuse the default sheet as the first tab.
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return err
	}

	headers := []string{"region", "total_traffic", "net", "color", "period"}
	if err := writeRow(f, sheet, 1, headers); err != nil {
		return err
	}
	for i, n := range payload.Graph.Nodes {
		row := []interface{}{n.ID.String(), n.Sum, n.Net, n.Color, payload.Period.String()}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) writeLinkSheet(f *excelize.File, sheet string, payload ports.ExportPayload) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"from", "to", "weight", "approximate"}
	if err := writeRow(f, sheet, 1, headers); err != nil {
		return err
	}
	for i, l := range payload.Graph.Links {
		row := []interface{}{l.From.String(), l.To.String(), l.Weight, payload.Graph.Approximate}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) writeRegressionSheet(f *excelize.File, sheet string, payload ports.ExportPayload) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	reg := payload.Regression
	rows := [][]interface{}{
		{"equation", reg.Equation},
		{"slope", reg.Slope},
		{"intercept", reg.Intercept},
		{"correlation", reg.Correlation},
		{"r_squared", reg.RSquared},
		{"p_value_approx", reg.PValueApprox},
		{"signal", reg.Signal},
		{"interpretation", reg.Interpretation},
	}
	for i, row := range rows {
		if err := writeRow(f, sheet, i+1, row); err != nil {
			return err
		}
	}

	// Scatter data below the summary block, one joined point per row.
	base := len(rows) + 2
	if err := writeRow(f, sheet, base, []string{"region", "period", "x", "y"}); err != nil {
		return err
	}
	for i, p := range reg.DataPoints {
		row := []interface{}{p.Region.String(), p.Period.String(), p.X, p.Y}
		if err := writeRow(f, sheet, base+1+i, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRow[T any](f *excelize.File, sheet string, rowIdx int, values []T) error {
	for c, v := range values {
		cell, err := excelize.CoordinatesToCellName(c+1, rowIdx)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

var _ ports.GraphExporter = (*Exporter)(nil)
