package metrics

import (
	"bearcart/api/dataset"
	"bearcart/api/models"
)

// funnelSteps maps the reported funnel stage to its step flag column, in funnel order.
var funnelSteps = []struct {
	Stage  string
	Column string
}{
	{"sessions", "step_home"},
	{"products", "step_product"},
	{"cart", "step_cart"},
	{"shipping", "step_shipping"},
	{"billing", "step_billing"},
	{"purchase", "step_thankyou"},
}

// Conversion summarizes conversion rates and the purchase funnel. It reads conversion_flag, not converted.
func Conversion(sessions *dataset.Table) (models.ConversionMetrics, error) {
	return conversion(newView(sessions))
}

func conversion(v *view) (models.ConversionMetrics, error) {
	m := models.ConversionMetrics{
		ConversionByChannel: map[string]float64{},
		ConversionByDevice:  map[string]float64{},
		FunnelSteps:         map[string]int64{},
	}

	flag, ok, err := v.number("conversion_flag")
	if err != nil {
		return m, err
	}
	if ok {
		converted := sum(flag)
		m.TotalConversions = int64(converted)
		m.OverallConversionRate = ratio(converted, float64(v.len()))

		if channels, ok := v.key("traffic_channel"); ok {
			m.ConversionByChannel = groupMean(channels, flag)
		}
		if devices, ok := v.key("device_type"); ok {
			m.ConversionByDevice = groupMean(devices, flag)
		}
	}

	funnel := make(map[string]int64, len(funnelSteps))
	for _, step := range funnelSteps {
		col, ok, err := v.number(step.Column)
		if err != nil {
			return m, err
		}
		if !ok {
			funnel = nil
			continue
		}
		if funnel != nil {
			funnel[step.Stage] = int64(sum(col))
		}
	}
	if funnel != nil {
		m.FunnelSteps = funnel
	}
	return m, nil
}
