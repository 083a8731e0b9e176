package metrics

import (
	"time"

	"github.com/shopspring/decimal"

	"bearcart/api/dataset"
)

// MonthBucket is the revenue of one calendar month.
type MonthBucket struct {
	Year    int
	Month   time.Month
	Revenue float64
}

// MonthlyRevenue sums total_order_value per calendar month of session_date, oldest first. Months without
// sessions between the first and last month are included with zero revenue so buckets stay equally spaced.
// Returns nil when either column is missing or unusable.
func MonthlyRevenue(sessions *dataset.Table) []MonthBucket {
	dates, ok := sessions.Column(dataset.SessionSchema.TimeColumn)
	if !ok || dates.Kind() != dataset.KindTime {
		return nil
	}
	values, ok := sessions.Column("total_order_value")
	if !ok || values.Kind() != dataset.KindNumber {
		return nil
	}

	sums := make(map[int]decimal.Decimal)
	first, last := -1, -1
	for i := 0; i < dates.Len(); i++ {
		if dates.IsNull(i) {
			continue
		}
		ts := dates.Time(i)
		key := monthIndex(ts.Year(), ts.Month())
		if first < 0 || key < first {
			first = key
		}
		if key > last {
			last = key
		}
		acc := sums[key]
		if !values.IsNull(i) {
			acc = acc.Add(decimal.NewFromFloat(values.Float(i)))
		}
		sums[key] = acc
	}
	if first < 0 {
		return nil
	}

	buckets := make([]MonthBucket, 0, last-first+1)
	for key := first; key <= last; key++ {
		year, month := fromMonthIndex(key)
		buckets = append(buckets, MonthBucket{Year: year, Month: month, Revenue: sums[key].InexactFloat64()})
	}
	return buckets
}

func monthIndex(year int, month time.Month) int {
	return year*12 + int(month) - 1
}

func fromMonthIndex(idx int) (int, time.Month) {
	return idx / 12, time.Month(idx%12 + 1)
}
