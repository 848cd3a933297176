package correlation

import (
	"fmt"
	"math"

	"housepulse/domain/core"
	"housepulse/domain/metrics"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// significanceLevel gates the interpretation's significance statement.
const significanceLevel = 0.05

// minVariance guards the regression denominators against constant inputs.
const minVariance = 1e-12

// RegressionResult is the fitted line plus derived statistics for a joined
// pair of metric series.
//
// PValueApprox is exp(-0.5*t^2)*0.1 — the heuristic the dashboard was
// authored against, NOT a calibrated Student-t tail probability. The
// interpretation text and its significance threshold are tuned to this
// formula, so it is preserved as-is; a calibrated reference value is carried
// in Diagnostics under "p_value_student_t" for anyone comparing the two.
type RegressionResult struct {
	Slope          float64                `json:"slope"`
	Intercept      float64                `json:"intercept"`
	Correlation    float64                `json:"correlation"`
	RSquared       float64                `json:"r_squared"`
	PValueApprox   float64                `json:"p_value_approx"`
	Equation       string                 `json:"equation"`
	Signal         string                 `json:"signal"`
	Interpretation string                 `json:"interpretation"`
	DataPoints     []metrics.JoinedPoint  `json:"data_points"`
	Diagnostics    map[string]interface{} `json:"diagnostics,omitempty"`
}

// Options tunes a Correlate call.
type Options struct {
	// FilterRegion restricts both series to one region before joining.
	// Empty means all regions participate.
	FilterRegion core.RegionID
	// XLabel and YLabel name the variables in the interpretation text.
	// Empty labels fall back to "x" and "y".
	XLabel string
	YLabel string
}

// Correlate inner-joins two metric series on (region, period), fits an
// ordinary least-squares line and derives correlation statistics with a
// plain-language interpretation.
//
// A nil result is the expected no-data outcome, never a failure: it is
// returned when fewer than two joined points remain or when either joined
// variable has (near-)zero variance. Callers render it as an empty state.
func Correlate(seriesA, seriesB metrics.MetricSeries, opts Options) *RegressionResult {
	if opts.FilterRegion != "" {
		seriesA = seriesA.FilterRegion(opts.FilterRegion)
		seriesB = seriesB.FilterRegion(opts.FilterRegion)
	}

	joined := metrics.InnerJoin(seriesA, seriesB)
	n := len(joined)
	if n < 2 {
		return nil
	}

	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, p := range joined {
		xs[i] = p.X
		ys[i] = p.Y
	}

	// Degenerate variance means the line is undefined; bail out before any
	// division rather than propagating NaN.
	varX, _ := stats.PopulationVariance(xs)
	varY, _ := stats.PopulationVariance(ys)
	if varX < minVariance || varY < minVariance {
		return nil
	}

	var sumX, sumY, sumXY, sumXX, sumYY float64
	for i := 0; i < n; i++ {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumXX += xs[i] * xs[i]
		sumYY += ys[i] * ys[i]
	}

	fn := float64(n)
	slope := (fn*sumXY - sumX*sumY) / (fn*sumXX - sumX*sumX)
	intercept := (sumY - slope*sumX) / fn
	r := (fn*sumXY - sumX*sumY) / math.Sqrt((fn*sumXX-sumX*sumX)*(fn*sumYY-sumY*sumY))
	// Floating-point noise can push |r| marginally past 1 on exact fits.
	r = math.Max(-1, math.Min(1, r))
	rSquared := r * r

	t := 0.0
	if n > 2 {
		if rSquared >= 1 {
			t = math.Inf(sign(r))
		} else {
			t = r * math.Sqrt(float64(n-2)/(1-rSquared))
		}
	}
	pApprox := math.Exp(-0.5*t*t) * 0.1

	xLabel, yLabel := opts.XLabel, opts.YLabel
	if xLabel == "" {
		xLabel = "x"
	}
	if yLabel == "" {
		yLabel = "y"
	}

	result := &RegressionResult{
		Slope:        slope,
		Intercept:    intercept,
		Correlation:  r,
		RSquared:     rSquared,
		PValueApprox: pApprox,
		Equation:     formatEquation(slope, intercept),
		Signal:       classifySignal(math.Abs(r)),
		DataPoints:   joined,
		Diagnostics: map[string]interface{}{
			"sample_size": n,
			"variance_x":  varX,
			"variance_y":  varY,
		},
	}
	// An exact fit drives t to infinity, which encoding/json refuses to
	// marshal. The p-values already pin down that case, so the entry is
	// simply left out.
	if !math.IsInf(t, 0) {
		result.Diagnostics["t_statistic"] = t
	}
	result.Interpretation = interpret(result, xLabel, yLabel)

	if calibrated, ok := studentTPValue(t, n); ok {
		result.Diagnostics["p_value_student_t"] = calibrated
	}

	return result
}

// studentTPValue computes the two-sided Student-t tail probability as a
// reference point for the heuristic PValueApprox. Needs n > 2 and a finite
// t statistic.
func studentTPValue(t float64, n int) (float64, bool) {
	if n <= 2 {
		return 0, false
	}
	if math.IsInf(t, 0) {
		return 0, true
	}
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
	return 2 * dist.Survival(math.Abs(t)), true
}

// classifySignal maps |r| to the dashboard's strength bands.
func classifySignal(absR float64) string {
	switch {
	case absR < 0.3:
		return "very weak"
	case absR < 0.5:
		return "weak"
	case absR < 0.7:
		return "moderate"
	case absR < 0.9:
		return "strong"
	default:
		return "very strong"
	}
}

// formatEquation renders the fitted line for display.
func formatEquation(slope, intercept float64) string {
	if intercept < 0 {
		return fmt.Sprintf("y = %.4fx - %.4f", slope, -intercept)
	}
	return fmt.Sprintf("y = %.4fx + %.4f", slope, intercept)
}

// interpret composes the natural-language summary shown under the scatter
// chart: strength band, direction, variance explained and a significance
// statement gated on the heuristic p-value.
func interpret(r *RegressionResult, xLabel, yLabel string) string {
	direction := "positive"
	if r.Correlation < 0 {
		direction = "negative"
	}

	significance := "not statistically significant at the 5% level"
	if r.PValueApprox < significanceLevel {
		significance = "statistically significant at the 5% level"
	}

	return fmt.Sprintf(
		"There is a %s %s relationship between %s and %s (r = %.3f). The fitted line explains %.1f%% of the variance. The relationship is %s (approximate p = %.4f).",
		r.Signal, direction, xLabel, yLabel, r.Correlation, r.RSquared*100, significance, r.PValueApprox,
	)
}

func sign(x float64) int {
	if x < 0 {
		return -1
	}
	return 1
}
