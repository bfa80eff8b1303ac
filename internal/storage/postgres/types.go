package postgres

import "custprep/internal/table"

// MapType maps a column kind to a Postgres type.
func MapType(k table.Kind, integral bool) string {
	switch k {
	case table.KindNumber:
		if integral {
			return "BIGINT"
		}
		return "DOUBLE PRECISION"
	case table.KindBool:
		return "BOOLEAN"
	case table.KindDate:
		return "DATE"
	default:
		return "TEXT"
	}
}
