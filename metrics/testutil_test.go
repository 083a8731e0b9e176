package metrics

import (
	"testing"
	"time"

	"bearcart/api/dataset"
)

func table(t *testing.T, name string, cols ...*dataset.Column) *dataset.Table {
	t.Helper()
	tbl, err := dataset.NewTable(name, cols...)
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}
	return tbl
}

func nums(name string, values ...float64) *dataset.Column {
	return dataset.NewNumberColumn(name, values, nil)
}

// strs builds a text column; "" marks a null.
func strs(name string, values ...string) *dataset.Column {
	valid := make([]bool, len(values))
	for i, v := range values {
		valid[i] = v != ""
	}
	return dataset.NewStringColumn(name, values, valid)
}

func dates(name string, values ...string) *dataset.Column {
	times := make([]time.Time, len(values))
	for i, v := range values {
		ts, err := time.Parse("2006-01-02", v)
		if err != nil {
			panic(err)
		}
		times[i] = ts
	}
	return dataset.NewTimeColumn(name, times, nil)
}

func approx(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}
