package metrics

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"bearcart/api/dataset"
	"bearcart/api/models"
)

var hundred = decimal.NewFromInt(100)

// Products ranks products by revenue over the given item rows.
//
// Refund status is joined against the complete refund table. Callers filter items by time range but must pass
// refunds unfiltered: an item sold inside the window keeps its refund even when the refund was recorded later or
// earlier, so per-product refund rates reflect lifetime refunds.
func Products(items, refunds *dataset.Table) ([]models.ProductMetric, error) {
	return products(newView(items), newView(refunds))
}

type productAcc struct {
	sales   int
	revenue decimal.Decimal
	margin  decimal.Decimal
	refunds int
}

func products(items, refunds *view) ([]models.ProductMetric, error) {
	out := []models.ProductMetric{}
	if items.len() == 0 {
		return out, nil
	}

	names, ok := items.key("product_name")
	if !ok {
		return out, nil
	}
	price, priceOK, err := items.number("price_usd")
	if err != nil {
		return out, err
	}
	margin, marginOK, err := items.number("margin_usd")
	if err != nil {
		return out, err
	}
	isRefunded := refundFlags(items, refunds)

	groups := make(map[string]*productAcc)
	for i := 0; i < items.len(); i++ {
		if names.IsNull(i) {
			continue
		}
		name := names.String(i)
		acc, exists := groups[name]
		if !exists {
			acc = &productAcc{}
			groups[name] = acc
		}
		acc.sales++
		if priceOK && !price.IsNull(i) {
			acc.revenue = acc.revenue.Add(decimal.NewFromFloat(price.Float(i)))
		}
		if marginOK && !margin.IsNull(i) {
			acc.margin = acc.margin.Add(decimal.NewFromFloat(margin.Float(i)))
		}
		if isRefunded(i) {
			acc.refunds++
		}
	}

	productNames := make([]string, 0, len(groups))
	for name := range groups {
		productNames = append(productNames, name)
	}
	sort.Strings(productNames)

	for _, name := range productNames {
		acc := groups[name]
		out = append(out, models.ProductMetric{
			ProductName:  name,
			SalesCount:   acc.sales,
			TotalRevenue: acc.revenue.InexactFloat64(),
			TotalMargin:  acc.margin.InexactFloat64(),
			RefundCount:  acc.refunds,
			RefundRate:   refundRate(acc.refunds, acc.sales),
		})
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].TotalRevenue > out[b].TotalRevenue })
	return out, nil
}

// refundFlags returns a per-row refund test for items. A precomputed is_refunded column wins; otherwise the
// item's order_item_id is looked up in the refund set, built once.
func refundFlags(items, refunds *view) func(i int) bool {
	if flags, ok := items.optional("is_refunded"); ok {
		return func(i int) bool { return !flags.IsNull(i) && flags.Float(i) != 0 }
	}

	itemIDs, ok := items.key("order_item_id")
	if !ok || refunds.len() == 0 {
		return func(int) bool { return false }
	}
	refundedIDs, ok := refunds.key("order_item_id")
	if !ok {
		return func(int) bool { return false }
	}

	set := make(map[string]struct{}, refundedIDs.Len())
	for i := 0; i < refundedIDs.Len(); i++ {
		if !refundedIDs.IsNull(i) {
			set[idKey(refundedIDs, i)] = struct{}{}
		}
	}
	return func(i int) bool {
		if itemIDs.IsNull(i) {
			return false
		}
		_, hit := set[idKey(itemIDs, i)]
		return hit
	}
}

// idKey normalizes an id cell so that 7, "7" and "7.0" join to the same key. Ids that are not numbers compare
// as trimmed text.
func idKey(col *dataset.Column, i int) string {
	text := strings.TrimSpace(col.String(i))
	if col.Kind() == dataset.KindString {
		if f, ok := dataset.ParseNumber(text); ok {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
	return text
}

// refundRate is refunds per hundred sales, rounded to 2 decimals.
func refundRate(refunds, sales int) float64 {
	if sales == 0 {
		return 0
	}
	return decimal.NewFromInt(int64(refunds)).
		Mul(hundred).
		DivRound(decimal.NewFromInt(int64(sales)), 2).
		InexactFloat64()
}
