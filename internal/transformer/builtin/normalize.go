package builtin

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"custprep/internal/table"
)

// Normalize rewrites string cells of the named columns to NFC, turns
// non-breaking spaces into plain spaces and trims surrounding whitespace.
// With no Columns every KindString column is normalized.
type Normalize struct {
	Columns []string
}

// Apply implements transformer.Transformer.
func (n Normalize) Apply(t *table.Table) *table.Table {
	cols := n.Columns
	if len(cols) == 0 {
		for _, c := range t.Columns() {
			if c.Kind == table.KindString {
				cols = append(cols, c.Name)
			}
		}
	}
	for _, name := range cols {
		col := t.Col(name)
		if col == nil {
			continue
		}
		for i, v := range col.Cells {
			if s, ok := v.(string); ok {
				col.Cells[i] = NormalizeText(s)
			}
		}
	}
	return t
}

// NormalizeText applies the Normalize rules to a single string.
func NormalizeText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = norm.NFC.String(s)
	return strings.TrimSpace(s)
}

// ToString converts the named columns to KindString, rendering each present
// cell the way it would be written to CSV. Missing cells stay missing.
type ToString struct {
	Columns []string
}

// Apply implements transformer.Transformer.
func (s ToString) Apply(t *table.Table) *table.Table {
	for _, name := range s.Columns {
		col := t.Col(name)
		if col == nil {
			continue
		}
		f := table.NewFormatter(col)
		for i, v := range col.Cells {
			if v == nil {
				continue
			}
			if _, isStr := v.(string); !isStr {
				col.Cells[i] = f.Format(v)
			}
		}
		col.Kind = table.KindString
	}
	return t
}
