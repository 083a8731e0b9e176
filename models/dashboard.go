package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Dashboard is the combined KPI snapshot for one time range.
type Dashboard struct {
	Traffic    TrafficMetrics    `json:"traffic"`
	Conversion ConversionMetrics `json:"conversion"`
	Revenue    RevenueMetrics    `json:"revenue"`
	Quality    QualityMetrics    `json:"quality"`
	Products   []ProductMetric   `json:"products"`

	// Degraded maps each expected column that was absent to the fallback used in its place.
	Degraded map[string]string `json:"-"`
}

type TrafficMetrics struct {
	TotalSessions     int            `json:"total_sessions"`
	UniqueUsers       int            `json:"unique_users"`
	SessionsByChannel map[string]int `json:"sessions_by_channel"`
	TotalPageviews    int64          `json:"total_pageviews"`
}

type ConversionMetrics struct {
	OverallConversionRate float64            `json:"overall_conversion_rate"`
	TotalConversions      int64              `json:"total_conversions"`
	ConversionByChannel   map[string]float64 `json:"conversion_by_channel"`
	ConversionByDevice    map[string]float64 `json:"conversion_by_device"`
	FunnelSteps           map[string]int64   `json:"funnel_steps"`
}

type RevenueMetrics struct {
	TotalRevenue      float64            `json:"total_revenue"`
	AverageOrderValue float64            `json:"average_order_value"`
	RevenuePerSession float64            `json:"revenue_per_session"`
	RevenueByChannel  map[string]float64 `json:"revenue_by_channel"`
}

type QualityMetrics struct {
	OverallRefundRate  float64      `json:"overall_refund_rate"`
	TotalRefunds       int64        `json:"total_refunds"`
	RepeatCustomerRate float64      `json:"repeat_customer_rate"`
	AtRiskSegments     RankedCounts `json:"at_risk_segments"`
}

type ProductMetric struct {
	ProductName  string  `json:"product_name"`
	SalesCount   int     `json:"sales_count"`
	TotalRevenue float64 `json:"total_revenue"`
	TotalMargin  float64 `json:"total_margin"`
	RefundCount  int     `json:"refund_count"`
	RefundRate   float64 `json:"refund_rate"`
}

type KeyCount struct {
	Key   string
	Count int
}

// RankedCounts is an ordered mapping. It encodes as a JSON object whose keys keep slice order, which a Go map
// cannot do.
type RankedCounts []KeyCount

func (r RankedCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kc := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(kc.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(kc.Count))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
