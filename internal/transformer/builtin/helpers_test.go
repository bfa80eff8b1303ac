package builtin

import (
	"testing"

	"custprep/internal/table"
)

func col(name string, kind table.Kind, cells ...any) *table.Column {
	return &table.Column{Name: name, Kind: kind, Cells: cells}
}

func strs(name string, cells ...any) *table.Column {
	return col(name, table.KindString, cells...)
}

func nums(name string, cells ...any) *table.Column {
	return col(name, table.KindNumber, cells...)
}

func cells(t *testing.T, tb *table.Table, name string) []any {
	t.Helper()
	c := tb.Col(name)
	if c == nil {
		t.Fatalf("column %q missing; have %v", name, tb.Names())
	}
	return c.Cells
}
