package dataset

import (
	"fmt"
)

// Table is an immutable, column-oriented dataset. Filtering produces new tables; nothing is modified in place,
// so a Table can be shared freely between goroutines.
type Table struct {
	name    string
	rows    int
	columns []*Column
	index   map[string]int
}

// NewTable assembles a table from columns. All columns must have the same length and distinct names.
func NewTable(name string, columns ...*Column) (*Table, error) {
	t := &Table{name: name, index: make(map[string]int, len(columns))}
	for i, col := range columns {
		if i == 0 {
			t.rows = col.Len()
		} else if col.Len() != t.rows {
			return nil, fmt.Errorf("table %s: column %q has %d rows, expected %d", name, col.Name(), col.Len(), t.rows)
		}
		if _, dup := t.index[col.Name()]; dup {
			return nil, fmt.Errorf("table %s: duplicate column %q", name, col.Name())
		}
		t.index[col.Name()] = i
		t.columns = append(t.columns, col)
	}
	return t, nil
}

// Empty returns a table with no rows and no columns.
func Empty(name string) *Table {
	return &Table{name: name, index: map[string]int{}}
}

func (t *Table) Name() string { return t.name }

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return t.rows
}

func (t *Table) IsEmpty() bool { return t.Len() == 0 }

// Has reports whether the table carries a column with this name.
func (t *Table) Has(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.index[name]
	return ok
}

func (t *Table) Column(name string) (*Column, bool) {
	if t == nil {
		return nil, false
	}
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// Columns lists column names in their original order.
func (t *Table) Columns() []string {
	if t == nil {
		return nil
	}
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name()
	}
	return names
}

// Take returns a new table with the given rows, in order.
func (t *Table) Take(idx []int) *Table {
	out := &Table{name: t.name, rows: len(idx), index: make(map[string]int, len(t.columns))}
	for i, c := range t.columns {
		out.index[c.Name()] = i
		out.columns = append(out.columns, c.take(idx))
	}
	return out
}

// Where returns a new table with the rows for which keep returns true.
func (t *Table) Where(keep func(row int) bool) *Table {
	idx := make([]int, 0, t.rows)
	for i := 0; i < t.rows; i++ {
		if keep(i) {
			idx = append(idx, i)
		}
	}
	return t.Take(idx)
}
