package sqlite

import "custprep/internal/table"

// MapType maps a column kind to a SQLite type affinity. Integer columns and
// booleans (as 0/1) use INTEGER; dates are ISO-8601 text.
func MapType(k table.Kind, integral bool) string {
	switch k {
	case table.KindNumber:
		if integral {
			return "INTEGER"
		}
		return "REAL"
	case table.KindBool:
		return "INTEGER"
	default:
		return "TEXT"
	}
}
