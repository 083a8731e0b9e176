package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"reflect"
	"regexp"
	"strconv"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/shopspring/decimal"

	"bearcart/api/database"
	"bearcart/api/dataset"
)

// ClickHouse server error code for a missing table.
const chUnknownTable = 60

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// ClickHouseTables names the tables holding each dataset.
type ClickHouseTables struct {
	Sessions string
	Orders   string
	Items    string
	Refunds  string
}

// ClickHouseLoader reads the cleaned datasets from ClickHouse tables populated by the pipeline.
type ClickHouseLoader struct {
	DB     *database.ClickHouseClient
	Tables ClickHouseTables
}

func NewClickHouseLoader(db *database.ClickHouseClient, tables ClickHouseTables) *ClickHouseLoader {
	return &ClickHouseLoader{DB: db, Tables: tables}
}

func (l *ClickHouseLoader) Load(ctx context.Context) (*RecordStore, error) {
	rs := &RecordStore{Source: "clickhouse"}
	var err error
	if rs.Sessions, err = l.loadTable(ctx, l.Tables.Sessions, dataset.SessionSchema); err != nil {
		return nil, err
	}
	if rs.Orders, err = l.loadTable(ctx, l.Tables.Orders, dataset.OrderSchema); err != nil {
		return nil, err
	}
	if rs.Items, err = l.loadTable(ctx, l.Tables.Items, dataset.ItemSchema); err != nil {
		return nil, err
	}
	if rs.Refunds, err = l.loadTable(ctx, l.Tables.Refunds, dataset.RefundSchema); err != nil {
		return nil, err
	}
	return rs, nil
}

func (l *ClickHouseLoader) loadTable(ctx context.Context, table string, schema dataset.Schema) (*dataset.Table, error) {
	if !identifierPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid ClickHouse table name %q for %s", table, schema.Name)
	}

	rows, err := l.DB.Conn.Query(ctx, "SELECT * FROM "+table)
	if err != nil {
		var exc *clickhouse.Exception
		if errors.As(err, &exc) && exc.Code == chUnknownTable {
			log.Printf("WARNING: ClickHouse table %s not found; using an empty %s dataset", table, schema.Name)
			return dataset.Empty(schema.Name), nil
		}
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	header := rows.Columns()
	columnTypes := rows.ColumnTypes()

	var records [][]string
	for rows.Next() {
		values := make([]any, len(columnTypes))
		for i, ct := range columnTypes {
			values[i] = reflect.New(ct.ScanType()).Interface()
		}
		if err := rows.Scan(values...); err != nil {
			return nil, fmt.Errorf("failed to scan %s row %d: %w", table, len(records)+1, err)
		}
		record := make([]string, len(values))
		for i, v := range values {
			record[i] = cellText(v)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error while reading %s: %w", table, err)
	}

	return dataset.FromRecords(schema, header, records)
}

// cellText renders a scanned ClickHouse value in the same text form the CSV files use, so both sources decode
// through dataset.FromRecords. Nulls become the empty string.
func cellText(v any) string {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ""
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return ""
	}

	switch x := rv.Interface().(type) {
	case string:
		return x
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case bool:
		return strconv.FormatBool(x)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case decimal.Decimal:
		return x.String()
	case fmt.Stringer:
		return x.String()
	}

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	}
	return fmt.Sprint(rv.Interface())
}
