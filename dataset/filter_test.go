package dataset

import (
	"testing"
	"time"

	"pgregory.net/rapid"
)

var anchor = time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)

func daysBefore(days ...int) []time.Time {
	out := make([]time.Time, len(days))
	for i, d := range days {
		out[i] = anchor.AddDate(0, 0, -d)
	}
	return out
}

func mustTable(t *testing.T, cols ...*Column) *Table {
	t.Helper()
	tbl, err := NewTable("sessions", cols...)
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}
	return tbl
}

func TestFilterByRangeWindows(t *testing.T) {
	ages := []int{0, 3, 7, 8, 29, 30, 31, 364, 365, 366, 800}
	tbl := mustTable(t,
		NewTimeColumn("session_date", daysBefore(ages...), nil),
		NewNumberColumn("age", intsToFloats(ages), nil),
	)

	cases := []struct {
		rangeName string
		wantRows  int
	}{
		{"Week", 3},  // 0, 3, 7
		{"Month", 6}, // ... 8, 29, 30
		{"Year", 9},  // ... 31, 364, 365
		{"All", 11},
		{"", 11},
		{"Decade", 11},
	}
	for _, tc := range cases {
		t.Run(tc.rangeName, func(t *testing.T) {
			got := FilterByRange(tbl, "session_date", tc.rangeName)
			if got.Len() != tc.wantRows {
				t.Fatalf("expected %d rows, got %d", tc.wantRows, got.Len())
			}
		})
	}
}

func TestFilterByRangeAnchorsToDataNotClock(t *testing.T) {
	old := time.Date(2012, 6, 1, 0, 0, 0, 0, time.UTC)
	tbl := mustTable(t, NewTimeColumn("session_date", []time.Time{old, old.AddDate(0, 0, -2), old.AddDate(0, 0, -20)}, nil))

	got := FilterByRange(tbl, "session_date", "Week")
	if got.Len() != 2 {
		t.Fatalf("expected 2 rows within a week of the newest row, got %d", got.Len())
	}
}

func TestFilterByRangeUnchangedCases(t *testing.T) {
	withNulls := mustTable(t, NewTimeColumn("session_date", []time.Time{{}, {}}, []bool{false, false}))
	textDates := mustTable(t, NewStringColumn("session_date", []string{"soon", "later"}, nil))
	noDates := mustTable(t, NewNumberColumn("x", []float64{1, 2}, nil))
	empty := Empty("sessions")

	for name, tbl := range map[string]*Table{
		"all null":       withNulls,
		"non-time":       textDates,
		"missing column": noDates,
		"empty":          empty,
	} {
		if got := FilterByRange(tbl, "session_date", "Week"); got != tbl {
			t.Errorf("%s: expected the table back unchanged", name)
		}
	}
}

func TestFilterByRangeDropsNullTimestamps(t *testing.T) {
	tbl := mustTable(t, NewTimeColumn("session_date", daysBefore(0, 1, 2), []bool{true, false, true}))
	if got := FilterByRange(tbl, "session_date", "Week").Len(); got != 2 {
		t.Fatalf("expected null timestamp to be dropped, got %d rows", got)
	}
}

func TestFilterByRangeDoesNotMutateSource(t *testing.T) {
	tbl := mustTable(t, NewTimeColumn("session_date", daysBefore(0, 100), nil))
	_ = FilterByRange(tbl, "session_date", "Week")
	if tbl.Len() != 2 {
		t.Fatalf("source table changed: %d rows", tbl.Len())
	}
}

func genTable(rt *rapid.T) *Table {
	n := rapid.IntRange(0, 60).Draw(rt, "rows")
	times := make([]time.Time, n)
	valid := make([]bool, n)
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		times[i] = anchor.Add(-time.Duration(rapid.IntRange(0, 2*365*24).Draw(rt, "hoursAgo")) * time.Hour)
		valid[i] = rapid.Float64Range(0, 1).Draw(rt, "p") > 0.1
		ids[i] = rapid.StringMatching(`[a-z]{1,4}`).Draw(rt, "id")
	}
	tbl, err := NewTable("sessions",
		NewTimeColumn("session_date", times, valid),
		NewStringColumn("session_id", ids, nil),
	)
	if err != nil {
		rt.Fatalf("NewTable failed: %v", err)
	}
	return tbl
}

func TestProperty_UnknownRangeIsIdentity(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tbl := genTable(rt)
		name := rapid.SampledFrom([]string{"All", "", "Quarter", "week", "MONTH"}).Draw(rt, "range")

		got := FilterByRange(tbl, "session_date", name)
		if got.Len() != tbl.Len() {
			rt.Fatalf("expected %d rows, got %d", tbl.Len(), got.Len())
		}
		ids, _ := tbl.Column("session_id")
		gotIDs, _ := got.Column("session_id")
		for i := 0; i < tbl.Len(); i++ {
			if ids.String(i) != gotIDs.String(i) {
				rt.Fatalf("row %d differs: %q vs %q", i, ids.String(i), gotIDs.String(i))
			}
		}
	})
}

func TestProperty_FilterIsIdempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tbl := genTable(rt)
		name := rapid.SampledFrom([]string{"Week", "Month", "Year"}).Draw(rt, "range")

		once := FilterByRange(tbl, "session_date", name)
		twice := FilterByRange(once, "session_date", name)
		if once.Len() != twice.Len() {
			rt.Fatalf("filtering twice by %s changed row count: %d -> %d", name, once.Len(), twice.Len())
		}
	})
}

func intsToFloats(in []int) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}
