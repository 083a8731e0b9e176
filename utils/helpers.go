package utils

import (
	"fmt"
	"time"
)

// IsValidRange reports whether rangeName is one the dashboard understands. Unknown names are not rejected by the
// engine (they mean "everything"), but handlers log them.
func IsValidRange(rangeName string) bool {
	switch rangeName {
	case "Week", "Month", "Year", "All":
		return true
	default:
		return false
	}
}

// MonthLabel formats a calendar month as "Jan 2024".
func MonthLabel(year int, month time.Month) string {
	return fmt.Sprintf("%s %d", month.String()[:3], year)
}

// NextMonths returns labels for the n months following year/month, rolling over into the next year after
// December.
func NextMonths(year int, month time.Month, n int) []string {
	labels := make([]string, 0, max(n, 0))
	for i := 1; i <= n; i++ {
		m := int(month) - 1 + i
		labels = append(labels, MonthLabel(year+m/12, time.Month(m%12+1)))
	}
	return labels
}
