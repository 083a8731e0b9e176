package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTime accepts the timestamp formats the cleaning pipeline and ClickHouse emit. Values without a zone are UTC.
func ParseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseNumber accepts decimal numbers and the boolean spellings pandas writes for flag columns.
func ParseNumber(s string) (float64, bool) {
	switch strings.ToLower(s) {
	case "true":
		return 1, true
	case "false":
		return 0, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ReadCSV decodes a CSV stream with a header row into a Table.
func ReadCSV(r io.Reader, schema Schema) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return Empty(schema.Name), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV header: %w", schema.Name, err)
	}
	// Excel-exported files may carry a BOM on the first header.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s CSV row %d: %w", schema.Name, len(rows)+2, err)
		}
		rows = append(rows, row)
	}

	return FromRecords(schema, header, rows)
}

// FromRecords decodes text cells into typed columns. Empty cells are null. A declared column whose values do not
// all decode to its declared kind is kept as text so callers can see the column exists but is malformed.
func FromRecords(schema Schema, header []string, rows [][]string) (*Table, error) {
	columns := make([]*Column, 0, len(header))
	for j, name := range header {
		name = strings.TrimSpace(name)
		cells := make([]string, len(rows))
		for i, row := range rows {
			if j < len(row) {
				cells[i] = strings.TrimSpace(row[j])
			}
		}

		kind, declared := schema.Kind(name)
		if !declared {
			kind = KindNumber
		}
		columns = append(columns, decodeColumn(name, kind, cells))
	}
	return NewTable(schema.Name, columns...)
}

func decodeColumn(name string, kind Kind, cells []string) *Column {
	valid := make([]bool, len(cells))
	for i, c := range cells {
		valid[i] = c != ""
	}

	switch kind {
	case KindNumber:
		numbers := make([]float64, len(cells))
		ok := true
		for i, c := range cells {
			if !valid[i] {
				continue
			}
			if numbers[i], ok = ParseNumber(c); !ok {
				break
			}
		}
		if ok {
			return NewNumberColumn(name, numbers, valid)
		}
	case KindTime:
		times := make([]time.Time, len(cells))
		ok := true
		for i, c := range cells {
			if !valid[i] {
				continue
			}
			if times[i], ok = ParseTime(c); !ok {
				break
			}
		}
		if ok {
			return NewTimeColumn(name, times, valid)
		}
	}
	return NewStringColumn(name, cells, valid)
}
