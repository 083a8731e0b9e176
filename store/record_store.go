package store

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"bearcart/api/dataset"
	"bearcart/api/metrics"
)

// RecordStore is one immutable snapshot of the four cleaned datasets.
type RecordStore struct {
	Sessions *dataset.Table
	Orders   *dataset.Table
	Items    *dataset.Table
	Refunds  *dataset.Table

	Source   string
	LoadedAt time.Time
}

// Loader produces a complete RecordStore from some backing source.
type Loader interface {
	Load(ctx context.Context) (*RecordStore, error)
}

type snapshot struct {
	records *RecordStore
	engine  *metrics.Engine
}

// Registry owns the current snapshot. Readers never lock: a reload builds a whole new snapshot and publishes it
// with one atomic swap, so a request that already fetched an engine keeps a consistent view.
type Registry struct {
	loader  Loader
	current atomic.Pointer[snapshot]
	reload  sync.Mutex
}

func NewRegistry(loader Loader) *Registry {
	return &Registry{loader: loader}
}

// Init creates a registry and performs the first load. The registry is returned even when that load fails, so
// the server can come up and report the failure per request.
func Init(ctx context.Context, loader Loader) (*Registry, error) {
	r := NewRegistry(loader)
	return r, r.Reload(ctx)
}

// Reload loads a fresh snapshot and swaps it in. On failure the previous snapshot, if any, stays active.
func (r *Registry) Reload(ctx context.Context) error {
	r.reload.Lock()
	defer r.reload.Unlock()

	start := time.Now()
	records, err := r.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load record store: %w", err)
	}
	records.LoadedAt = time.Now()

	r.current.Store(&snapshot{
		records: records,
		engine:  metrics.NewEngine(records.Sessions, records.Items, records.Refunds),
	})
	log.Printf("Record store loaded from %s in %s: %d sessions, %d orders, %d items, %d refunds",
		records.Source, time.Since(start).Round(time.Millisecond),
		records.Sessions.Len(), records.Orders.Len(), records.Items.Len(), records.Refunds.Len())
	return nil
}

// Engine returns the engine for the current snapshot, or metrics.ErrServiceNotInitialized if nothing has
// loaded yet.
func (r *Registry) Engine() (*metrics.Engine, error) {
	s := r.current.Load()
	if s == nil {
		return nil, metrics.ErrServiceNotInitialized
	}
	return s.engine, nil
}

// Records returns the current snapshot's datasets.
func (r *Registry) Records() (*RecordStore, error) {
	s := r.current.Load()
	if s == nil {
		return nil, metrics.ErrServiceNotInitialized
	}
	return s.records, nil
}
