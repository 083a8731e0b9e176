package metrics

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"bearcart/api/dataset"
	"bearcart/api/models"
)

// Engine computes dashboard KPIs over one immutable snapshot of the record store. It holds no mutable state, so
// a single Engine serves concurrent requests without locking.
type Engine struct {
	sessions *dataset.Table
	items    *dataset.Table
	refunds  *dataset.Table
}

// NewEngine builds an engine over the given tables. Nil tables are treated as empty.
func NewEngine(sessions, items, refunds *dataset.Table) *Engine {
	return &Engine{
		sessions: orEmpty(sessions, dataset.SessionSchema.Name),
		items:    orEmpty(items, dataset.ItemSchema.Name),
		refunds:  orEmpty(refunds, dataset.RefundSchema.Name),
	}
}

func orEmpty(t *dataset.Table, name string) *dataset.Table {
	if t == nil {
		return dataset.Empty(name)
	}
	return t
}

func (e *Engine) Sessions() *dataset.Table { return e.sessions }
func (e *Engine) Items() *dataset.Table    { return e.items }
func (e *Engine) Refunds() *dataset.Table  { return e.refunds }

// Dashboard filters sessions and items to the named range, each by its own timestamp column, and runs every
// aggregator over the result. Refunds are never filtered; see Products. Aggregators not yet started when ctx is
// done are skipped and the context error is returned.
func (e *Engine) Dashboard(ctx context.Context, rangeName string) (models.Dashboard, error) {
	if e == nil {
		return models.Dashboard{}, ErrServiceNotInitialized
	}
	if err := ctx.Err(); err != nil {
		return models.Dashboard{}, err
	}

	sessions := dataset.FilterByRange(e.sessions, dataset.SessionSchema.TimeColumn, rangeName)
	items := dataset.FilterByRange(e.items, dataset.ItemSchema.TimeColumn, rangeName)

	var (
		d models.Dashboard

		trafficView    = newView(sessions)
		conversionView = newView(sessions)
		revenueView    = newView(sessions)
		qualityView    = newView(sessions)
		itemsView      = newView(items)
		refundsView    = newView(e.refunds)
	)
	g, gctx := errgroup.WithContext(ctx)
	run := func(fn func() error) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn()
		})
	}

	run(func() error {
		d.Traffic = traffic(trafficView)
		return nil
	})
	run(func() error {
		var err error
		if d.Conversion, err = conversion(conversionView); err != nil {
			return fmt.Errorf("conversion metrics: %w", err)
		}
		return nil
	})
	run(func() error {
		var err error
		if d.Revenue, err = revenue(revenueView); err != nil {
			return fmt.Errorf("revenue metrics: %w", err)
		}
		return nil
	})
	run(func() error {
		var err error
		if d.Quality, err = quality(qualityView); err != nil {
			return fmt.Errorf("quality metrics: %w", err)
		}
		return nil
	})
	run(func() error {
		var err error
		if d.Products, err = products(itemsView, refundsView); err != nil {
			return fmt.Errorf("product metrics: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return models.Dashboard{}, err
	}

	degraded := make(map[string]Fallback)
	for _, v := range []*view{trafficView, conversionView, revenueView, qualityView, itemsView, refundsView} {
		v.merge(degraded)
	}
	d.Degraded = make(map[string]string, len(degraded))
	for column, fallback := range degraded {
		d.Degraded[column] = string(fallback)
		log.Printf("Dashboard(%s): column %q absent, reporting %s", rangeName, column, fallback)
	}

	if n := FlagMismatches(sessions); n > 0 {
		log.Printf("WARNING: %d sessions have conversion_flag != converted; conversion and revenue/quality metrics use different flags", n)
	}
	return d, nil
}

// FlagMismatches counts sessions where conversion_flag and converted are both set but disagree. The two columns
// come from different upstream joins; a non-zero count is a data-quality issue for the cleaning pipeline.
func FlagMismatches(sessions *dataset.Table) int {
	a, okA := sessions.Column("conversion_flag")
	b, okB := sessions.Column("converted")
	if !okA || !okB || a.Kind() != dataset.KindNumber || b.Kind() != dataset.KindNumber {
		return 0
	}
	n := 0
	for i := 0; i < a.Len(); i++ {
		if !a.IsNull(i) && !b.IsNull(i) && a.Float(i) != b.Float(i) {
			n++
		}
	}
	return n
}
