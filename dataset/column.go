package dataset

import (
	"strconv"
	"time"
)

// Kind is the storage type of a column.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindTime:
		return "time"
	default:
		return "string"
	}
}

// Column is an immutable typed vector with a validity mask. Only the slice matching Kind is populated.
type Column struct {
	name    string
	kind    Kind
	strings []string
	numbers []float64
	times   []time.Time
	valid   []bool
}

// NewStringColumn builds a string column. A nil valid mask marks every value present.
func NewStringColumn(name string, values []string, valid []bool) *Column {
	return &Column{name: name, kind: KindString, strings: values, valid: maskFor(len(values), valid)}
}

// NewNumberColumn builds a numeric column. A nil valid mask marks every value present.
func NewNumberColumn(name string, values []float64, valid []bool) *Column {
	return &Column{name: name, kind: KindNumber, numbers: values, valid: maskFor(len(values), valid)}
}

// NewTimeColumn builds a timestamp column. A nil valid mask marks every value present.
func NewTimeColumn(name string, values []time.Time, valid []bool) *Column {
	return &Column{name: name, kind: KindTime, times: values, valid: maskFor(len(values), valid)}
}

func maskFor(n int, valid []bool) []bool {
	if valid != nil {
		return valid
	}
	mask := make([]bool, n)
	for i := range mask {
		mask[i] = true
	}
	return mask
}

func (c *Column) Name() string { return c.name }
func (c *Column) Kind() Kind   { return c.kind }
func (c *Column) Len() int     { return len(c.valid) }

// IsNull reports whether row i holds no value.
func (c *Column) IsNull(i int) bool { return !c.valid[i] }

// Float returns the numeric value at row i. It is 0 for nulls and non-numeric columns.
func (c *Column) Float(i int) float64 {
	if c.kind != KindNumber || !c.valid[i] {
		return 0
	}
	return c.numbers[i]
}

// Time returns the timestamp at row i, or the zero time.
func (c *Column) Time(i int) time.Time {
	if c.kind != KindTime || !c.valid[i] {
		return time.Time{}
	}
	return c.times[i]
}

// String returns the value at row i rendered as text, or "" for nulls.
func (c *Column) String(i int) string {
	if !c.valid[i] {
		return ""
	}
	switch c.kind {
	case KindNumber:
		return strconv.FormatFloat(c.numbers[i], 'f', -1, 64)
	case KindTime:
		return c.times[i].Format(time.RFC3339Nano)
	default:
		return c.strings[i]
	}
}

// take returns a new column holding rows idx, in that order.
func (c *Column) take(idx []int) *Column {
	out := &Column{name: c.name, kind: c.kind, valid: make([]bool, len(idx))}
	switch c.kind {
	case KindNumber:
		out.numbers = make([]float64, len(idx))
	case KindTime:
		out.times = make([]time.Time, len(idx))
	default:
		out.strings = make([]string, len(idx))
	}
	for j, i := range idx {
		out.valid[j] = c.valid[i]
		switch c.kind {
		case KindNumber:
			out.numbers[j] = c.numbers[i]
		case KindTime:
			out.times[j] = c.times[i]
		default:
			out.strings[j] = c.strings[i]
		}
	}
	return out
}
