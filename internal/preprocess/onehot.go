package preprocess

import (
	"fmt"
	"sort"

	"custprep/internal/table"
)

// OneHotEncoder expands each categorical column into one indicator column
// per category seen during Fit. Categories are sorted; a value not seen
// during Fit encodes as all zeros.
type OneHotEncoder struct {
	Columns    []string
	Categories [][]string

	index []map[string]int
}

// Fit collects the sorted category vocabulary of each column.
func (e *OneHotEncoder) Fit(t *table.Table) error {
	e.Categories = make([][]string, len(e.Columns))
	for j, name := range e.Columns {
		vals, err := categorical(t, name)
		if err != nil {
			return err
		}
		seen := make(map[string]struct{}, len(vals))
		var cats []string
		for _, v := range vals {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			cats = append(cats, v)
		}
		sort.Strings(cats)
		e.Categories[j] = cats
	}
	e.index = nil
	return nil
}

// Width returns the number of indicator columns produced.
func (e *OneHotEncoder) Width() int {
	n := 0
	for _, c := range e.Categories {
		n += len(c)
	}
	return n
}

func (e *OneHotEncoder) lookup(j int) map[string]int {
	if e.index == nil {
		e.index = make([]map[string]int, len(e.Categories))
	}
	if e.index[j] == nil {
		m := make(map[string]int, len(e.Categories[j]))
		for k, c := range e.Categories[j] {
			m[c] = k
		}
		e.index[j] = m
	}
	return e.index[j]
}

// categorical returns the named column rendered as text. Missing cells
// render as the empty string.
func categorical(t *table.Table, name string) ([]string, error) {
	c := t.Col(name)
	if c == nil {
		return nil, fmt.Errorf("preprocess: column %q not found", name)
	}
	f := table.NewFormatter(c)
	out := make([]string, c.Len())
	for i, v := range c.Cells {
		out[i] = f.Format(v)
	}
	return out, nil
}
