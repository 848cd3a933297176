package main

import (
	"context"
	"flag"
	"log"

	"housepulse/adapters/postgres"
	"housepulse/domain/core"
	"housepulse/domain/metrics"
	"housepulse/domain/region"
	"housepulse/internal/config"
	"housepulse/internal/migration"
	"housepulse/internal/testkit"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// Seeds the database with synthetic migration flows and metric series so
// the dashboard has data to show before the upstream service is wired up.
func main() {
	var (
		seed        = flag.Int64("seed", 42, "random seed for reproducible data")
		months      = flag.Int("months", 12, "number of monthly periods to generate")
		recordCount = flag.Int("records", 800, "flow records per period")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.NewRunner().Run(context.Background(), db); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}

	if err := run(context.Background(), db, *seed, *months, *recordCount); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}

func run(ctx context.Context, db *sqlx.DB, seed int64, months, recordCount int) error {
	var (
		flowRepo   = postgres.NewFlowRepository(db)
		metricRepo = postgres.NewMetricRepository(db)
		generator  = testkit.NewGenerator(seed)
		periods    = testkit.Periods(months)
	)

	opts := testkit.DefaultFlowOptions()
	opts.RecordCount = recordCount

	for _, period := range periods {
		records := generator.Flows(opts)
		if err := flowRepo.SaveFlows(ctx, period, records); err != nil {
			return err
		}
		log.Printf("Seeded %d flow records for %s", len(records), period)
	}

	groups := seedableGroups()
	hpi, migrationSeries := generator.PairedSeries(groups, periods, 250, 50, 120)
	if err := metricRepo.SavePoints(ctx, metrics.MetricHPIChange, hpi); err != nil {
		return err
	}
	if err := metricRepo.SavePoints(ctx, metrics.MetricNetMigration, migrationSeries); err != nil {
		return err
	}
	log.Printf("Seeded %d metric points per metric across %d regions", len(hpi), len(groups))
	return nil
}

// seedableGroups returns the named metro regions, leaving out the fallback
// bucket which never carries its own metrics.
func seedableGroups() []core.RegionID {
	groups := region.Groups()
	out := make([]core.RegionID, 0, len(groups))
	for _, g := range groups {
		if g == region.FallbackGroup {
			continue
		}
		out = append(out, g)
	}
	return out
}
