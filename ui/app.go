package ui

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"housepulse/app"
	"housepulse/internal"
	"housepulse/ports"
)

// App is the dashboard's JSON API application
type App struct {
	router       *chi.Mux
	flows        *app.FlowService
	correlations *app.CorrelationService
	reports      *app.ReportService
	ingest       *app.IngestService
	exporter     ports.GraphExporter
	logger       *internal.Logger
}

// NewApp creates the API application and wires its routes
func NewApp(flows *app.FlowService, correlations *app.CorrelationService, reports *app.ReportService, ingest *app.IngestService, exporter ports.GraphExporter) *App {
	a := &App{
		router:       chi.NewRouter(),
		flows:        flows,
		correlations: correlations,
		reports:      reports,
		ingest:       ingest,
		exporter:     exporter,
		logger:       internal.DefaultLogger.Named("ui"),
	}

	a.setupMiddleware()
	a.setupRoutes()

	return a
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/health", a.handleHealth)

	a.router.Route("/api", func(r chi.Router) {
		r.Get("/periods", a.handlePeriods)
		r.Get("/graph", a.handleGraph)
		r.Get("/graph/synthesized", a.handleSynthesizedGraph)
		r.Get("/graph/drilldowns", a.handleAllDrilldowns)
		r.Get("/correlation", a.handleCorrelation)
		r.Get("/phase", a.handlePhase)
		r.Get("/report", a.handleReport)
		r.Get("/export", a.handleExport)
	})
}

// Router exposes the HTTP handler for serving and for tests
func (a *App) Router() http.Handler {
	return a.router
}

// Serve starts the HTTP server on the given port
func (a *App) Serve(port string) error {
	addr := fmt.Sprintf(":%s", port)
	a.logger.Info("dashboard API listening on %s", addr)
	return http.ListenAndServe(addr, a.router)
}
