// api/handlers/forecast_handlers.go
package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"bearcart/api/forecast"
	"bearcart/api/metrics"
	"bearcart/api/models"
	"bearcart/api/utils"
)

type ForecastHandlers struct {
	Source         EngineSource
	DefaultPeriods int
	MaxPeriods     int
}

func NewForecastHandlers(source EngineSource, defaultPeriods, maxPeriods int) *ForecastHandlers {
	return &ForecastHandlers{
		Source:         source,
		DefaultPeriods: defaultPeriods,
		MaxPeriods:     maxPeriods,
	}
}

// GetForecast fits a linear trend to monthly revenue over the full session history and projects it forward.
func (h *ForecastHandlers) GetForecast(c *gin.Context) {
	periods := h.DefaultPeriods
	if periodsParam := c.Query("periods"); periodsParam != "" {
		parsed, err := strconv.Atoi(periodsParam)
		if err != nil || parsed < 0 || parsed > h.MaxPeriods {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid 'periods' parameter. Must be an integer between 0 and %d.", h.MaxPeriods)})
			return
		}
		periods = parsed
	}

	engine, err := h.Source.Engine()
	if err != nil {
		respondEngineError(c, "forecast", err)
		return
	}

	c.JSON(http.StatusOK, BuildForecast(metrics.MonthlyRevenue(engine.Sessions()), periods))
}

// BuildForecast turns monthly revenue buckets into the forecast payload.
func BuildForecast(months []metrics.MonthBucket, periods int) models.ForecastResponse {
	actual := make([]float64, len(months))
	labels := make([]string, 0, len(months)+periods)
	for i, m := range months {
		actual[i] = m.Revenue
		labels = append(labels, utils.MonthLabel(m.Year, m.Month))
	}

	fit := forecast.Linear(actual, periods)
	if len(months) > 0 {
		last := months[len(months)-1]
		labels = append(labels, utils.NextMonths(last.Year, last.Month, len(fit.Forecast))...)
	}

	direction := "Up"
	if fit.Slope < 0 {
		direction = "Down"
	}

	return models.ForecastResponse{
		Labels:         labels,
		Historical:     fit.HistoricalTrend,
		Actual:         actual,
		Forecast:       fit.Forecast,
		GrowthRatePct:  decimal.NewFromFloat(fit.GrowthRate * 100).Round(2).InexactFloat64(),
		TrendDirection: direction,
	}
}
