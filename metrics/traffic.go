package metrics

import (
	"bearcart/api/dataset"
	"bearcart/api/models"
)

// Traffic summarizes session volume and engagement.
func Traffic(sessions *dataset.Table) models.TrafficMetrics {
	return traffic(newView(sessions))
}

func traffic(v *view) models.TrafficMetrics {
	m := models.TrafficMetrics{
		TotalSessions:     v.len(),
		SessionsByChannel: map[string]int{},
	}

	if users, ok := v.key("user_id"); ok {
		m.UniqueUsers = len(valueCounts(users, nil))
	}
	if channels, ok := v.key("traffic_channel"); ok {
		m.SessionsByChannel = valueCounts(channels, nil)
	}
	// Pageviews is the one column that degrades to zero when malformed instead of failing the request.
	if pageviews, ok, err := v.number("total_pageviews"); ok && err == nil {
		m.TotalPageviews = int64(sum(pageviews))
	}
	return m
}
