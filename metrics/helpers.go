package metrics

import (
	"sort"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"bearcart/api/dataset"
	"bearcart/api/models"
)

// sum adds the non-null values of a numeric column.
func sum(col *dataset.Column) float64 {
	var total float64
	for i := 0; i < col.Len(); i++ {
		total += col.Float(i)
	}
	return total
}

// money adds the non-null values of rows selected by keep using decimal arithmetic. keep may be nil.
func money(col *dataset.Column, keep func(i int) bool) (total decimal.Decimal, n int) {
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) || (keep != nil && !keep(i)) {
			continue
		}
		total = total.Add(decimal.NewFromFloat(col.Float(i)))
		n++
	}
	return total, n
}

// countEqual counts the rows of a numeric column equal to want.
func countEqual(col *dataset.Column, want float64) int {
	n := 0
	for i := 0; i < col.Len(); i++ {
		if !col.IsNull(i) && col.Float(i) == want {
			n++
		}
	}
	return n
}

// valueCounts counts rows per non-null key, skipping rows rejected by keep. keep may be nil.
func valueCounts(keys *dataset.Column, keep func(i int) bool) map[string]int {
	out := make(map[string]int)
	for i := 0; i < keys.Len(); i++ {
		if keys.IsNull(i) || (keep != nil && !keep(i)) {
			continue
		}
		out[keys.String(i)]++
	}
	return out
}

// groupMean averages a numeric column per non-null key. Rows with a null value are skipped, and a key with no
// values at all is left out rather than reported as NaN.
func groupMean(keys, values *dataset.Column) map[string]float64 {
	groups := make(map[string][]float64)
	for i := 0; i < keys.Len(); i++ {
		if keys.IsNull(i) || values.IsNull(i) {
			continue
		}
		k := keys.String(i)
		groups[k] = append(groups[k], values.Float(i))
	}
	out := make(map[string]float64, len(groups))
	for k, vals := range groups {
		out[k] = stat.Mean(vals, nil)
	}
	return out
}

// groupMoney sums a numeric column per non-null key. A key whose values are all null sums to 0.
func groupMoney(keys, values *dataset.Column) map[string]float64 {
	sums := make(map[string]decimal.Decimal)
	for i := 0; i < keys.Len(); i++ {
		if keys.IsNull(i) {
			continue
		}
		k := keys.String(i)
		acc := sums[k]
		if !values.IsNull(i) {
			acc = acc.Add(decimal.NewFromFloat(values.Float(i)))
		}
		sums[k] = acc
	}
	out := make(map[string]float64, len(sums))
	for k, d := range sums {
		out[k] = d.InexactFloat64()
	}
	return out
}

// topCounts orders counts descending and keeps the first n. Ties keep first-appearance order from keys.
func topCounts(keys *dataset.Column, keep func(i int) bool, n int) models.RankedCounts {
	counts := make(map[string]int)
	var order []string
	for i := 0; i < keys.Len(); i++ {
		if keys.IsNull(i) || (keep != nil && !keep(i)) {
			continue
		}
		k := keys.String(i)
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}

	ranked := make(models.RankedCounts, 0, len(order))
	for _, k := range order {
		ranked = append(ranked, models.KeyCount{Key: k, Count: counts[k]})
	}
	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].Count > ranked[b].Count })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// ratio divides guarding against an empty denominator.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
