package models

// ForecastResponse is the payload of the revenue forecast endpoint. Historical holds the fitted trend line for the
// observed months and Actual the raw monthly sums; Labels covers both observed and future months.
type ForecastResponse struct {
	Labels         []string  `json:"labels"`
	Historical     []float64 `json:"historical"`
	Actual         []float64 `json:"actual"`
	Forecast       []float64 `json:"forecast"`
	GrowthRatePct  float64   `json:"growth_rate_pct"`
	TrendDirection string    `json:"trend_direction"`
}
