package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"housepulse/adapters/api"
	"housepulse/adapters/excel"
	"housepulse/adapters/postgres"
	"housepulse/app"
	"housepulse/internal/config"
	"housepulse/internal/errors"
	"housepulse/internal/migration"
	"housepulse/ui"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// initDatabase initializes the PostgreSQL database connection
func initDatabase(appConfig *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	db.SetMaxOpenConns(appConfig.Database.MaxOpenConns)
	db.SetMaxIdleConns(appConfig.Database.MaxIdleConns)
	db.SetConnMaxLifetime(appConfig.Database.ConnMaxLifetime)

	// Run migrations
	migrator := migration.NewRunner()
	if err := migrator.Run(context.Background(), db); err != nil {
		return nil, errors.Wrap(err, "database migration failed")
	}

	return db, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := initDatabase(appConfig)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	// Wire adapters
	flowRepo := postgres.NewFlowRepository(db)
	metricRepo := postgres.NewMetricRepository(db)
	reader := api.NewMarketReader(api.FromAppConfig(appConfig.Market))
	exporter := excel.NewExporter(appConfig.Export.SheetPrefix)

	// Wire services
	flowService := app.NewFlowService(flowRepo)
	correlationService := app.NewCorrelationService(metricRepo)
	reportService := app.NewReportService(flowService, correlationService)
	ingestService := app.NewIngestService(reader, flowRepo, metricRepo)

	// Background ingestion: refresh once at startup, then poll. A failed
	// initial refresh is not fatal, the server can still answer from the
	// cache populated by earlier runs.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if result, err := ingestService.RefreshCurrent(ctx); err != nil {
		log.Printf("Initial ingestion failed: %v", err)
	} else {
		log.Printf("Initial ingestion complete for period %s: %d flows, %d metric points",
			result.Period, result.FlowRecords, result.MetricPoints)
	}
	go ingestService.Poll(ctx, appConfig.Market.PollInterval)

	// Serve the API
	dashboard := ui.NewApp(flowService, correlationService, reportService, ingestService, exporter)
	log.Printf("Starting housepulse on port %s", appConfig.Server.Port)
	if err := dashboard.Serve(appConfig.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
