package testkit

import (
	"fmt"
	"math/rand"

	"housepulse/domain/core"
	"housepulse/domain/flow"
	"housepulse/domain/metrics"
	"housepulse/domain/region"
)

// Generator produces deterministic synthetic market data for tests and
// local development seeding. The same seed always yields the same data.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator with a fixed seed
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// FlowOptions tunes synthetic flow generation.
type FlowOptions struct {
	// RecordCount is the number of raw records to produce.
	RecordCount int
	// SeoulGravity in [0,1] is the probability a record's destination is
	// forced into the Seoul group, mimicking the capital-bound skew of the
	// real data.
	SeoulGravity float64
	// MaxWeight caps the per-record move count.
	MaxWeight int
}

// DefaultFlowOptions mirrors the rough shape of one real monthly snapshot
func DefaultFlowOptions() FlowOptions {
	return FlowOptions{
		RecordCount:  800,
		SeoulGravity: 0.35,
		MaxWeight:    400,
	}
}

// Flows generates raw district-to-district migration records for one period.
// Origins and destinations are drawn from the real region table so the
// production resolver applies to the output.
func (g *Generator) Flows(opts FlowOptions) []flow.FlowRecord {
	districts := allDistricts()
	seoul := region.MembersOf("Seoul")

	records := make([]flow.FlowRecord, 0, opts.RecordCount)
	for i := 0; i < opts.RecordCount; i++ {
		origin := districts[g.rng.Intn(len(districts))]

		var destination core.RegionID
		if g.rng.Float64() < opts.SeoulGravity {
			destination = seoul[g.rng.Intn(len(seoul))]
		} else {
			destination = districts[g.rng.Intn(len(districts))]
		}
		if destination == origin {
			continue // self-moves carry no information; the aggregator drops them anyway
		}

		records = append(records, flow.FlowRecord{
			Origin:      origin,
			Destination: destination,
			Weight:      float64(1 + g.rng.Intn(opts.MaxWeight)),
		})
	}
	return records
}

// PairedSeries generates an HPI-change series and a net-migration series
// related by y = slope*x + intercept plus uniform noise in [-noise, noise],
// over every (region, period) combination. With small noise the regression
// engine must recover slope and intercept from the output.
func (g *Generator) PairedSeries(regions []core.RegionID, periods []core.Period, slope, intercept, noise float64) (metrics.MetricSeries, metrics.MetricSeries) {
	x := make(metrics.MetricSeries, 0, len(regions)*len(periods))
	y := make(metrics.MetricSeries, 0, len(regions)*len(periods))

	for _, r := range regions {
		for _, p := range periods {
			xv := g.rng.Float64()*6 - 3 // HPI change rate in [-3, 3] percent
			yv := slope*xv + intercept + (g.rng.Float64()*2-1)*noise
			x = append(x, metrics.MetricPoint{Region: r, Period: p, Value: xv})
			y = append(y, metrics.MetricPoint{Region: r, Period: p, Value: yv})
		}
	}
	x.Sort()
	y.Sort()
	return x, y
}

// Periods returns n consecutive monthly period labels starting at 2024-01.
func Periods(n int) []core.Period {
	periods := make([]core.Period, 0, n)
	year, month := 2024, 1
	for i := 0; i < n; i++ {
		periods = append(periods, core.Period(formatPeriod(year, month)))
		month++
		if month > 12 {
			month = 1
			year++
		}
	}
	return periods
}

func formatPeriod(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

func allDistricts() []core.RegionID {
	var districts []core.RegionID
	for _, group := range region.Groups() {
		districts = append(districts, region.MembersOf(group)...)
	}
	return districts
}
