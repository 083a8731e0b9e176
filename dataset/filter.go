package dataset

import (
	"time"
)

// Range names accepted by FilterByRange. Anything else means the full dataset.
const (
	RangeWeek  = "Week"
	RangeMonth = "Month"
	RangeYear  = "Year"
	RangeAll   = "All"
)

var rangeSpans = map[string]time.Duration{
	RangeWeek:  7 * 24 * time.Hour,
	RangeMonth: 30 * 24 * time.Hour,
	RangeYear:  365 * 24 * time.Hour,
}

// RangeSpan returns the look-back window for a range name, and false when the name means no filtering.
func RangeSpan(rangeName string) (time.Duration, bool) {
	d, ok := rangeSpans[rangeName]
	return d, ok
}

// MaxTime returns the latest non-null timestamp in column, and false if there is none.
func MaxTime(col *Column) (time.Time, bool) {
	var (
		max   time.Time
		found bool
	)
	if col == nil || col.Kind() != KindTime {
		return max, false
	}
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			continue
		}
		if ts := col.Time(i); !found || ts.After(max) {
			max, found = ts, true
		}
	}
	return max, found
}

// FilterByRange keeps the rows whose timestamp falls within the named window ending at the dataset's own latest
// timestamp. The anchor is the data, not the wall clock, so historical fixtures give reproducible answers.
// The table is returned unchanged when it is empty, lacks the column, has no timestamps, or the range is not one
// of Week/Month/Year.
func FilterByRange(t *Table, column, rangeName string) *Table {
	if t.IsEmpty() {
		return t
	}
	span, ok := RangeSpan(rangeName)
	if !ok {
		return t
	}
	col, ok := t.Column(column)
	if !ok {
		return t
	}
	maxDate, ok := MaxTime(col)
	if !ok {
		return t
	}

	start := maxDate.Add(-span)
	return t.Where(func(i int) bool {
		return !col.IsNull(i) && !col.Time(i).Before(start)
	})
}
