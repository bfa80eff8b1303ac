// Package ddl defines a small, backend-agnostic model for SQL table
// definitions and renders CREATE TABLE statements from it.
//
// Column names taken from data files are normalized into portable
// identifiers (see Identifier) before they reach any backend, so the same
// name is used in CREATE TABLE and in the bulk insert.
package ddl

import "custprep/internal/table"

// ColumnDef describes a single column of a table definition.
//
// Name is the unquoted identifier; quoting happens at render time. SQLType is
// the backend type (REAL, TEXT, DOUBLE PRECISION, ...).
type ColumnDef struct {
	Name     string
	SQLType  string
	Nullable bool
}

// TableDef holds the table name in dotted form ("schema.table" or "table")
// and an ordered list of columns.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// TypeMapper maps a table column kind to a backend SQL type. integral is
// set for number columns holding only exact integers.
type TypeMapper func(kind table.Kind, integral bool) string

// FromTable builds a definition for t with one nullable column per table
// column, in order. Column names are normalized with ColumnNames.
func FromTable(fqn string, t *table.Table, mapType TypeMapper) TableDef {
	names := ColumnNames(t.Names())
	def := TableDef{FQN: fqn, Columns: make([]ColumnDef, len(names))}
	for i, c := range t.Columns() {
		def.Columns[i] = ColumnDef{
			Name:     names[i],
			SQLType:  mapType(c.Kind, c.Integral()),
			Nullable: true,
		}
	}
	return def
}
