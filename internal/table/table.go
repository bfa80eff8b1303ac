// Package table provides the in-memory, column-oriented table used by every
// pipeline stage. A Table is an ordered set of named columns of equal length;
// each Column carries a Kind and a slice of cells where nil means "missing".
//
// Cell representation by kind:
//
//	KindNumber -> float64, or int64 for integers read from text
//	KindBool   -> bool
//	KindDate   -> time.Time
//	KindString -> string
//
// Stages never mutate a table they did not create; they Clone first.
package table

import (
	"fmt"
	"math"
	"time"
)

// Kind is the inferred storage type of a column.
type Kind uint8

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindDate
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindDate:
		return "date"
	default:
		return "string"
	}
}

// Column is a single named, typed column.
type Column struct {
	Name  string
	Kind  Kind
	Cells []any
}

// NewColumn returns a column with n missing cells.
func NewColumn(name string, kind Kind, n int) *Column {
	return &Column{Name: name, Kind: kind, Cells: make([]any, n)}
}

// Len returns the number of cells.
func (c *Column) Len() int { return len(c.Cells) }

// IsNull reports whether cell i is missing.
func (c *Column) IsNull(i int) bool { return c.Cells[i] == nil }

// NullCount returns the number of missing cells.
func (c *Column) NullCount() int {
	n := 0
	for i := range c.Cells {
		if c.IsNull(i) {
			n++
		}
	}
	return n
}

// Integral reports whether c is a number column whose present cells are all
// int64. A column with no present cells is not integral.
func (c *Column) Integral() bool {
	if c.Kind != KindNumber {
		return false
	}
	seen := false
	for i, v := range c.Cells {
		if c.IsNull(i) {
			continue
		}
		if _, ok := v.(int64); !ok {
			return false
		}
		seen = true
	}
	return seen
}

// Float returns cell i as a float64. ok is false when the cell is missing or
// is not a number.
func (c *Column) Float(i int) (float64, bool) {
	switch v := c.Cells[i].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// Floats returns the column as float64 values, with NaN for missing or
// non-numeric cells.
func (c *Column) Floats() []float64 {
	out := make([]float64, len(c.Cells))
	for i := range c.Cells {
		if f, ok := c.Float(i); ok {
			out[i] = f
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// Present returns the non-missing numeric values in row order.
func (c *Column) Present() []float64 {
	out := make([]float64, 0, len(c.Cells))
	for i := range c.Cells {
		if f, ok := c.Float(i); ok {
			out = append(out, f)
		}
	}
	return out
}

// Clone returns a deep copy of the column header and a shallow copy of the
// cell slice. Cell values are immutable scalars so this is a full copy.
func (c *Column) Clone() *Column {
	cells := make([]any, len(c.Cells))
	copy(cells, c.Cells)
	return &Column{Name: c.Name, Kind: c.Kind, Cells: cells}
}

// Table is an ordered collection of equal-length columns.
type Table struct {
	cols  []*Column
	index map[string]int
	rows  int
}

// New builds a table from columns. All columns must have the same length and
// distinct names.
func New(cols ...*Column) (*Table, error) {
	t := &Table{index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if i == 0 {
			t.rows = c.Len()
		}
		if t.Has(c.Name) {
			return nil, fmt.Errorf("table: duplicate column %q", c.Name)
		}
		if err := t.Set(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// MustNew is like New but panics on error. Intended for tests and literals.
func MustNew(cols ...*Column) *Table {
	t, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.rows }

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.cols) }

// Names returns the column names in order.
func (t *Table) Names() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Name
	}
	return out
}

// Columns returns the columns in order. The slice is a copy; the columns are not.
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.cols))
	copy(out, t.cols)
	return out
}

// Has reports whether a column named name exists.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Col returns the named column or nil.
func (t *Table) Col(name string) *Column {
	if i, ok := t.index[name]; ok {
		return t.cols[i]
	}
	return nil
}

// Set replaces the column with the same name in place, or appends it.
func (t *Table) Set(c *Column) error {
	if len(t.cols) > 0 && c.Len() != t.rows {
		return fmt.Errorf("table: column %q has %d cells, table has %d rows", c.Name, c.Len(), t.rows)
	}
	if len(t.cols) == 0 {
		t.rows = c.Len()
	}
	if i, ok := t.index[c.Name]; ok {
		t.cols[i] = c
		return nil
	}
	t.index[c.Name] = len(t.cols)
	t.cols = append(t.cols, c)
	return nil
}

// Row returns the cells of row i in column order.
func (t *Table) Row(i int) []any {
	out := make([]any, len(t.cols))
	for j, c := range t.cols {
		out[j] = c.Cells[i]
	}
	return out
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	out := &Table{
		cols:  make([]*Column, len(t.cols)),
		index: make(map[string]int, len(t.cols)),
		rows:  t.rows,
	}
	for i, c := range t.cols {
		out.cols[i] = c.Clone()
		out.index[c.Name] = i
	}
	return out
}

// Select returns a new table holding copies of the named columns, in the
// given order. Unknown names are an error.
func (t *Table) Select(names ...string) (*Table, error) {
	out := &Table{index: make(map[string]int, len(names)), rows: t.rows}
	for _, n := range names {
		c := t.Col(n)
		if c == nil {
			return nil, fmt.Errorf("table: unknown column %q", n)
		}
		if err := out.Set(c.Clone()); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Keep returns a new table with only the rows whose mask entry is true.
// Relative row order is preserved.
func (t *Table) Keep(mask []bool) *Table {
	n := 0
	for _, k := range mask {
		if k {
			n++
		}
	}
	out := &Table{
		cols:  make([]*Column, len(t.cols)),
		index: make(map[string]int, len(t.cols)),
		rows:  n,
	}
	for j, c := range t.cols {
		cells := make([]any, 0, n)
		for i, v := range c.Cells {
			if mask[i] {
				cells = append(cells, v)
			}
		}
		out.cols[j] = &Column{Name: c.Name, Kind: c.Kind, Cells: cells}
		out.index[c.Name] = j
	}
	return out
}

// CellEqual reports whether two cells hold the same value. Two missing cells
// are equal, and an int64 equals a float64 only when the float holds exactly
// that integer.
func CellEqual(a, b any) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case int64:
		switch y := b.(type) {
		case int64:
			return x == y
		case float64:
			return IntEqualsFloat(x, y)
		}
		return false
	case float64:
		switch y := b.(type) {
		case float64:
			return x == y
		case int64:
			return IntEqualsFloat(y, x)
		}
		return false
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	default:
		return a == b
	}
}

// IntEqualsFloat reports whether f is exactly the integer n.
func IntEqualsFloat(n int64, f float64) bool {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return false
	}
	return int64(f) == n
}
