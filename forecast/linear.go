// Package forecast projects short-horizon trends by ordinary least squares over equally spaced periods.
package forecast

import (
	"gonum.org/v1/gonum/stat"
)

// Result is a fitted trend and its continuation.
type Result struct {
	// HistoricalTrend is the fitted line at each observed index, not the observed values.
	HistoricalTrend []float64 `json:"historical_trend"`
	// Forecast continues the line for the requested number of future periods.
	Forecast  []float64 `json:"forecast"`
	Slope     float64   `json:"slope"`
	Intercept float64   `json:"intercept"`
	// GrowthRate is the slope divided by the mean of the series: a per-period trend strength relative to the
	// typical value. It is not a compound growth rate.
	GrowthRate float64 `json:"growth_rate"`
}

// Linear fits y = slope*x + intercept with x = 0..n-1 and extends it periods steps past the last observation.
// Fewer than two points cannot define a line: a single point is carried forward flat and an empty series yields
// empty output. Negative periods are treated as zero.
func Linear(series []float64, periods int) Result {
	if periods < 0 {
		periods = 0
	}
	n := len(series)

	switch n {
	case 0:
		return Result{HistoricalTrend: []float64{}, Forecast: []float64{}}
	case 1:
		flat := make([]float64, periods)
		for i := range flat {
			flat[i] = series[0]
		}
		return Result{
			HistoricalTrend: []float64{series[0]},
			Forecast:        flat,
			Intercept:       series[0],
		}
	}

	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
	}
	xMean := stat.Mean(x, nil)
	yMean := stat.Mean(series, nil)

	var num, den float64
	for i, y := range series {
		dx := x[i] - xMean
		num += dx * (y - yMean)
		den += dx * dx
	}
	var slope float64
	if den != 0 {
		slope = num / den
	}
	intercept := yMean - slope*xMean

	trend := make([]float64, n)
	for i := range trend {
		trend[i] = slope*x[i] + intercept
	}
	projected := make([]float64, periods)
	for k := 1; k <= periods; k++ {
		projected[k-1] = slope*float64(n-1+k) + intercept
	}

	var growth float64
	if yMean != 0 {
		growth = slope / yMean
	}
	return Result{
		HistoricalTrend: trend,
		Forecast:        projected,
		Slope:           slope,
		Intercept:       intercept,
		GrowthRate:      growth,
	}
}
