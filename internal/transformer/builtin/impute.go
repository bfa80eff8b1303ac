package builtin

import (
	"sort"

	"custprep/internal/table"
)

// Median returns the median of vals, averaging the two middle values when
// the count is even. ok is false for an empty input. vals is not modified.
func Median(vals []float64) (float64, bool) {
	n := len(vals)
	if n == 0 {
		return 0, false
	}
	s := append([]float64(nil), vals...)
	sort.Float64s(s)
	if n%2 == 1 {
		return s[n/2], true
	}
	return (s[n/2-1] + s[n/2]) / 2, true
}

// FillMedian replaces missing cells in each named numeric column with the
// median of that column's present values, computed at the time the step
// runs. A column with no present values is left as is.
type FillMedian struct {
	Columns []string

	// OnFill, when set, is called for each column that had missing cells.
	OnFill func(column string, median float64, filled int)
}

// Apply implements transformer.Transformer.
func (f FillMedian) Apply(t *table.Table) *table.Table {
	for _, name := range f.Columns {
		col := t.Col(name)
		if col == nil {
			continue
		}
		med, ok := Median(col.Present())
		if !ok {
			continue
		}
		filled := 0
		for i := range col.Cells {
			if col.Cells[i] == nil {
				col.Cells[i] = med
				filled++
			}
		}
		if filled > 0 && f.OnFill != nil {
			f.OnFill(name, med, filled)
		}
	}
	return t
}

// FillValue replaces missing cells in each named column with Value. Integer
// values are stored as float64.
type FillValue struct {
	Columns []string
	Value   any
}

// Apply implements transformer.Transformer.
func (f FillValue) Apply(t *table.Table) *table.Table {
	v := f.Value
	switch x := v.(type) {
	case int:
		v = float64(x)
	case int64:
		v = float64(x)
	}
	for _, name := range f.Columns {
		col := t.Col(name)
		if col == nil {
			continue
		}
		for i := range col.Cells {
			if col.Cells[i] == nil {
				col.Cells[i] = v
			}
		}
	}
	return t
}
