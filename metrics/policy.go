package metrics

import (
	"errors"
	"fmt"

	"bearcart/api/dataset"
)

var (
	// ErrServiceNotInitialized means no record store was ever loaded.
	ErrServiceNotInitialized = errors.New("metrics service not initialized")
	// ErrNonNumericColumn means a column the aggregators sum or average holds non-numeric data.
	ErrNonNumericColumn = errors.New("column is not numeric")
)

// Fallback names the neutral value an aggregator reports when a column it reads is absent.
type Fallback string

const (
	FallbackZero         Fallback = "zero"
	FallbackEmptyMapping Fallback = "empty mapping"
	FallbackEmptyFunnel  Fallback = "empty funnel"
	FallbackNotRefunded  Fallback = "not refunded"
	FallbackNoProducts   Fallback = "empty product list"
)

// fieldPolicy is the single source of truth for absent columns. Every column an aggregator reads must be listed.
var fieldPolicy = map[string]Fallback{
	// sessions
	"user_id":           FallbackZero,
	"traffic_channel":   FallbackEmptyMapping,
	"device_type":       FallbackEmptyMapping,
	"total_pageviews":   FallbackZero,
	"conversion_flag":   FallbackZero,
	"converted":         FallbackZero,
	"total_order_value": FallbackZero,
	"was_refunded":      FallbackZero,
	"customer_segment":  FallbackZero,
	"step_home":         FallbackEmptyFunnel,
	"step_product":      FallbackEmptyFunnel,
	"step_cart":         FallbackEmptyFunnel,
	"step_shipping":     FallbackEmptyFunnel,
	"step_billing":      FallbackEmptyFunnel,
	"step_thankyou":     FallbackEmptyFunnel,

	// items and refunds
	"product_name":  FallbackNoProducts,
	"price_usd":     FallbackZero,
	"margin_usd":    FallbackZero,
	"order_item_id": FallbackNotRefunded,
	"is_refunded":   FallbackNotRefunded,
}

// view is the only way aggregators touch a table. It resolves columns against fieldPolicy and records which
// ones were missing so the caller can report degraded metrics.
type view struct {
	t        *dataset.Table
	degraded map[string]Fallback
}

func newView(t *dataset.Table) *view {
	if t == nil {
		t = dataset.Empty("")
	}
	return &view{t: t, degraded: make(map[string]Fallback)}
}

func (v *view) len() int { return v.t.Len() }

func (v *view) lookup(name string) (*dataset.Column, bool) {
	fallback, known := fieldPolicy[name]
	if !known {
		panic(fmt.Sprintf("metrics: column %q read without a fallback policy", name))
	}
	col, ok := v.t.Column(name)
	if !ok {
		v.degraded[name] = fallback
	}
	return col, ok
}

// key resolves a column used for grouping or identity; any kind will do.
func (v *view) key(name string) (*dataset.Column, bool) {
	return v.lookup(name)
}

// number resolves a numeric column. A present column holding text is a data fault, not a missing column.
func (v *view) number(name string) (*dataset.Column, bool, error) {
	col, ok := v.lookup(name)
	if !ok {
		return nil, false, nil
	}
	if col.Kind() != dataset.KindNumber {
		return nil, false, fmt.Errorf("%w: %s.%s is %s", ErrNonNumericColumn, v.t.Name(), name, col.Kind())
	}
	return col, true, nil
}

// optional resolves a column that has a computed substitute, so its absence is not reported as degradation.
func (v *view) optional(name string) (*dataset.Column, bool) {
	if _, known := fieldPolicy[name]; !known {
		panic(fmt.Sprintf("metrics: column %q read without a fallback policy", name))
	}
	col, ok := v.t.Column(name)
	if ok && col.Kind() != dataset.KindNumber {
		return nil, false
	}
	return col, ok
}

func (v *view) merge(into map[string]Fallback) {
	for k, f := range v.degraded {
		into[k] = f
	}
}
