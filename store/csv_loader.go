package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"go.uber.org/multierr"

	"bearcart/api/dataset"
)

// ErrReportNotFound means the cleaning pipeline has not written a quality report.
var ErrReportNotFound = errors.New("report not found")

const qualityReportFile = "quality_report.json"

type csvSource struct {
	schema dataset.Schema
	// candidates are tried in order, relative to the data directory; the first existing file wins.
	candidates []string
}

var csvSources = struct {
	sessions, orders, items, refunds csvSource
}{
	sessions: csvSource{dataset.SessionSchema, []string{"master_dataset.csv"}},
	orders:   csvSource{dataset.OrderSchema, []string{"orders_clean.csv"}},
	items:    csvSource{dataset.ItemSchema, []string{"items_clean.csv", "../../raw/order_items.csv"}},
	refunds:  csvSource{dataset.RefundSchema, []string{"refunds_clean.csv", "../../raw/order_item_refunds.csv"}},
}

// CSVLoader reads the processed output of the cleaning pipeline from a directory.
type CSVLoader struct {
	Dir string
}

func NewCSVLoader(dir string) *CSVLoader {
	return &CSVLoader{Dir: dir}
}

// Load reads every dataset. A dataset with no file becomes an empty table; a file that cannot be parsed fails
// the whole load, with every such failure reported together.
func (l *CSVLoader) Load(ctx context.Context) (*RecordStore, error) {
	info, err := os.Stat(l.Dir)
	if err != nil {
		return nil, fmt.Errorf("data directory %s: %w", l.Dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("data directory %s is not a directory", l.Dir)
	}

	var errs error
	load := func(src csvSource) *dataset.Table {
		if err := ctx.Err(); err != nil {
			errs = multierr.Append(errs, err)
			return nil
		}
		t, err := l.loadSource(src)
		errs = multierr.Append(errs, err)
		return t
	}

	rs := &RecordStore{
		Sessions: load(csvSources.sessions),
		Orders:   load(csvSources.orders),
		Items:    load(csvSources.items),
		Refunds:  load(csvSources.refunds),
		Source:   "csv:" + l.Dir,
	}
	if errs != nil {
		return nil, errs
	}
	return rs, nil
}

func (l *CSVLoader) loadSource(src csvSource) (*dataset.Table, error) {
	for _, name := range src.candidates {
		path := filepath.Join(l.Dir, name)
		f, err := os.Open(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()

		t, err := dataset.ReadCSV(f, src.schema)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return t, nil
	}

	log.Printf("WARNING: %s data not found in %s (tried %v); using an empty dataset", src.schema.Name, l.Dir, src.candidates)
	return dataset.Empty(src.schema.Name), nil
}

// ReadQualityReport returns the cleaning report the pipeline stores next to the processed datasets.
func ReadQualityReport(dir string) (json.RawMessage, error) {
	data, err := os.ReadFile(filepath.Join(dir, qualityReportFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read quality report: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("quality report %s is not valid JSON", qualityReportFile)
	}
	return data, nil
}
