package metrics

import (
	"sort"

	"housepulse/domain/core"
)

// Well-known metric keys published by the upstream market-data service.
const (
	// MetricHPIChange is the month-over-month change rate of the House Price
	// Index (baseline period fixed at 100 upstream).
	MetricHPIChange core.MetricKey = "hpi_change"
	// MetricNetMigration is inflow minus outflow population count.
	MetricNetMigration core.MetricKey = "net_migration"
)

// MetricPoint is one observation of one metric for one region and period.
type MetricPoint struct {
	Region core.RegionID `json:"region" db:"region"`
	Period core.Period   `json:"period" db:"period"`
	Value  float64       `json:"value" db:"value"`
}

// MetricSeries is a period-ordered collection of MetricPoints for a single
// metric. Series from different sources are not required to be aligned;
// joining is the correlation engine's job.
type MetricSeries []MetricPoint

// Sort orders the series by period, then region, in place.
func (s MetricSeries) Sort() {
	sort.Slice(s, func(i, j int) bool {
		if s[i].Period != s[j].Period {
			return s[i].Period < s[j].Period
		}
		return s[i].Region < s[j].Region
	})
}

// FilterRegion returns the subset of the series belonging to one region.
// The receiver is never modified.
func (s MetricSeries) FilterRegion(region core.RegionID) MetricSeries {
	out := make(MetricSeries, 0, len(s))
	for _, p := range s {
		if p.Region == region {
			out = append(out, p)
		}
	}
	return out
}

// Periods returns the distinct periods present in the series, sorted.
func (s MetricSeries) Periods() []core.Period {
	seen := make(map[core.Period]struct{})
	for _, p := range s {
		seen[p.Period] = struct{}{}
	}
	periods := make([]core.Period, 0, len(seen))
	for p := range seen {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i] < periods[j] })
	return periods
}

// JoinedPoint is one (region, period) observation present in both joined
// series. X comes from the first series, Y from the second.
type JoinedPoint struct {
	X      float64       `json:"x"`
	Y      float64       `json:"y"`
	Region core.RegionID `json:"region"`
	Period core.Period   `json:"period"`
}

type joinKey struct {
	region core.RegionID
	period core.Period
}

// InnerJoin pairs points from two series sharing an exact (region, period)
// key. Unmatched points on either side are discarded. If either side holds
// duplicate keys the last occurrence wins, matching upstream snapshot
// semantics where a re-published period supersedes the old one. The result
// is sorted by (period, region) so downstream math is order-stable.
func InnerJoin(a, b MetricSeries) []JoinedPoint {
	bByKey := make(map[joinKey]float64, len(b))
	for _, p := range b {
		bByKey[joinKey{p.Region, p.Period}] = p.Value
	}

	// Deduplicate the left side the same way before pairing.
	aByKey := make(map[joinKey]float64, len(a))
	order := make([]joinKey, 0, len(a))
	for _, p := range a {
		k := joinKey{p.Region, p.Period}
		if _, seen := aByKey[k]; !seen {
			order = append(order, k)
		}
		aByKey[k] = p.Value
	}

	joined := make([]JoinedPoint, 0, len(order))
	for _, k := range order {
		y, ok := bByKey[k]
		if !ok {
			continue
		}
		joined = append(joined, JoinedPoint{X: aByKey[k], Y: y, Region: k.region, Period: k.period})
	}
	sort.Slice(joined, func(i, j int) bool {
		if joined[i].Period != joined[j].Period {
			return joined[i].Period < joined[j].Period
		}
		return joined[i].Region < joined[j].Region
	})
	return joined
}
