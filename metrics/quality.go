package metrics

import (
	"bearcart/api/dataset"
	"bearcart/api/models"
)

const (
	returningSegment = "Returning"
	atRiskLimit      = 5
)

// Quality summarizes refunds and customer health. The refund rate is refunded sessions over converted sessions.
func Quality(sessions *dataset.Table) (models.QualityMetrics, error) {
	return quality(newView(sessions))
}

func quality(v *view) (models.QualityMetrics, error) {
	m := models.QualityMetrics{AtRiskSegments: models.RankedCounts{}}

	refunded, refundedOK, err := v.number("was_refunded")
	if err != nil {
		return m, err
	}
	converted, convertedOK, err := v.number("converted")
	if err != nil {
		return m, err
	}

	var refundedSessions, convertedSessions int
	if refundedOK {
		refundedSessions = countEqual(refunded, 1)
		m.TotalRefunds = int64(sum(refunded))
	}
	if convertedOK {
		convertedSessions = countEqual(converted, 1)
	}
	m.OverallRefundRate = ratio(float64(refundedSessions), float64(convertedSessions))

	if segments, ok := v.key("customer_segment"); ok {
		returning := 0
		for i := 0; i < segments.Len(); i++ {
			if !segments.IsNull(i) && segments.String(i) == returningSegment {
				returning++
			}
		}
		m.RepeatCustomerRate = ratio(float64(returning), float64(v.len()))
	}

	if refundedOK {
		if channels, ok := v.key("traffic_channel"); ok {
			m.AtRiskSegments = topCounts(channels, func(i int) bool {
				return !refunded.IsNull(i) && refunded.Float(i) == 1
			}, atRiskLimit)
		}
	}
	return m, nil
}
