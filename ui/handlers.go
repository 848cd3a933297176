package ui

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"housepulse/domain/core"
	"housepulse/domain/flow"
	"housepulse/internal/errors"
	"housepulse/ports"
)

// statusNoData marks responses where upstream data is legitimately sparse.
// Sparse data is an expected state, never an HTTP error.
const statusNoData = "no_data"

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handlePeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := a.flows.Periods(r.Context())
	if err != nil {
		a.respondError(w, err)
		return
	}
	a.respondJSON(w, http.StatusOK, map[string]interface{}{"periods": periods})
}

// handleGraph serves the aggregated flow graph. Query parameters:
// mode (grouped|drilldown, default grouped), focus (drilldown group),
// period (default: latest ingested).
func (a *App) handleGraph(w http.ResponseWriter, r *http.Request) {
	mode := flow.AggregationMode(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = flow.ModeGrouped
	}
	if !mode.Valid() {
		a.respondJSON(w, http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf("unknown mode %q", mode),
			"code":  errors.CodeInvalidInput,
		})
		return
	}

	period, ok := a.resolvePeriod(w, r)
	if !ok {
		return
	}

	var graph flow.FlowGraph
	var err error
	if mode == flow.ModeDrilldown {
		focus := core.RegionID(r.URL.Query().Get("focus"))
		graph, err = a.flows.DrilldownGraph(r.Context(), period, focus)
	} else {
		graph, err = a.flows.GroupedGraph(r.Context(), period)
	}
	if err != nil {
		a.respondError(w, err)
		return
	}

	a.respondJSON(w, http.StatusOK, map[string]interface{}{
		"period": period,
		"graph":  graph,
	})
}

func (a *App) handleSynthesizedGraph(w http.ResponseWriter, r *http.Request) {
	period, ok := a.resolvePeriod(w, r)
	if !ok {
		return
	}

	graph, err := a.flows.SynthesizedGraph(r.Context(), period)
	if err != nil {
		a.respondError(w, err)
		return
	}

	a.respondJSON(w, http.StatusOK, map[string]interface{}{
		"period": period,
		"graph":  graph,
	})
}

func (a *App) handleAllDrilldowns(w http.ResponseWriter, r *http.Request) {
	period, ok := a.resolvePeriod(w, r)
	if !ok {
		return
	}

	set, err := a.flows.AllDrilldowns(r.Context(), period)
	if err != nil {
		a.respondError(w, err)
		return
	}

	a.respondJSON(w, http.StatusOK, set)
}

// handleCorrelation serves the price/migration regression, optionally
// restricted by the region query parameter. Insufficient data responds
// 200 with a no_data status, not an error.
func (a *App) handleCorrelation(w http.ResponseWriter, r *http.Request) {
	region := core.RegionID(r.URL.Query().Get("region"))

	result, err := a.correlations.PriceMigration(r.Context(), region)
	if err != nil {
		a.respondError(w, err)
		return
	}
	if result == nil {
		a.respondJSON(w, http.StatusOK, map[string]string{"status": statusNoData})
		return
	}

	a.respondJSON(w, http.StatusOK, result)
}

// handlePhase serves the upstream's market-phase (quadrant) label for one
// region and period. The label is a read-through to the data service; it is
// never computed here.
func (a *App) handlePhase(w http.ResponseWriter, r *http.Request) {
	region := core.RegionID(r.URL.Query().Get("region"))
	if region == "" {
		a.respondJSON(w, http.StatusBadRequest, map[string]string{
			"error": "region query parameter is required",
			"code":  errors.CodeInvalidInput,
		})
		return
	}

	period, ok := a.resolvePeriod(w, r)
	if !ok {
		return
	}

	phase, err := a.ingest.MarketPhase(r.Context(), region, period)
	if err != nil {
		a.respondError(w, err)
		return
	}

	a.respondJSON(w, http.StatusOK, map[string]interface{}{
		"region": region,
		"period": period,
		"phase":  phase,
	})
}

// handleReport renders the period's markdown brief as HTML.
func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	period, ok := a.resolvePeriod(w, r)
	if !ok {
		return
	}

	brief, err := a.reports.MarkdownBrief(r.Context(), period)
	if err != nil {
		a.respondError(w, err)
		return
	}

	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	html := markdown.ToHTML([]byte(brief), p, renderer)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(html)
}

// handleExport streams the period's graph and regression as an xlsx
// workbook download.
func (a *App) handleExport(w http.ResponseWriter, r *http.Request) {
	period, ok := a.resolvePeriod(w, r)
	if !ok {
		return
	}

	graph, err := a.flows.GroupedGraph(r.Context(), period)
	if err != nil {
		a.respondError(w, err)
		return
	}
	regression, err := a.correlations.PriceMigration(r.Context(), "")
	if err != nil {
		a.respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="housepulse-%s.xlsx"`, period))

	payload := ports.ExportPayload{Period: period, Graph: graph, Regression: regression}
	if err := a.exporter.Export(w, payload); err != nil {
		// Headers are gone at this point; log instead of double-responding.
		a.logger.Error("export failed for period %s: %v", period, err)
	}
}

// resolvePeriod reads the period query parameter, falling back to the
// latest ingested period. A false return means the response was already
// written (no data at all, or a repository failure).
func (a *App) resolvePeriod(w http.ResponseWriter, r *http.Request) (core.Period, bool) {
	period := core.Period(r.URL.Query().Get("period"))
	if !period.IsEmpty() {
		return period, true
	}

	latest, err := a.flows.LatestPeriod(r.Context())
	if err != nil {
		a.respondError(w, err)
		return "", false
	}
	if latest.IsEmpty() {
		a.respondJSON(w, http.StatusOK, map[string]string{"status": statusNoData})
		return "", false
	}
	return latest, true
}

func (a *App) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.logger.Error("failed to encode response: %v", err)
	}
}

// respondError maps adapter failures onto HTTP statuses: upstream trouble
// is a 502, everything else a 500. Data sparsity never reaches here.
func (a *App) respondError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	if code == errors.CodeExternalService {
		status = http.StatusBadGateway
	}

	a.logger.Error("request failed [%s]: %v", code, err)
	a.respondJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  code,
	})
}
