package metrics

import (
	"github.com/shopspring/decimal"

	"bearcart/api/dataset"
	"bearcart/api/models"
)

// Revenue summarizes order value. Average order value only counts rows whose converted flag is 1; converted is
// not conversion_flag, and the two can disagree.
func Revenue(sessions *dataset.Table) (models.RevenueMetrics, error) {
	return revenue(newView(sessions))
}

func revenue(v *view) (models.RevenueMetrics, error) {
	m := models.RevenueMetrics{RevenueByChannel: map[string]float64{}}

	value, ok, err := v.number("total_order_value")
	if err != nil {
		return m, err
	}
	converted, convertedOK, err := v.number("converted")
	if err != nil {
		return m, err
	}
	channels, channelsOK := v.key("traffic_channel")
	if !ok {
		return m, nil
	}

	total, _ := money(value, nil)
	m.TotalRevenue = total.InexactFloat64()
	if n := v.len(); n > 0 {
		m.RevenuePerSession = total.Div(decimal.NewFromInt(int64(n))).InexactFloat64()
	}

	if convertedOK {
		convertedTotal, n := money(value, func(i int) bool {
			return !converted.IsNull(i) && converted.Float(i) == 1
		})
		if n > 0 {
			m.AverageOrderValue = convertedTotal.Div(decimal.NewFromInt(int64(n))).InexactFloat64()
		}
	}

	if channelsOK {
		m.RevenueByChannel = groupMoney(channels, value)
	}
	return m, nil
}
