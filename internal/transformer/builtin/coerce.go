package builtin

import (
	"strconv"
	"strings"
	"time"

	"custprep/internal/table"
)

// ToNumeric converts the named columns to KindNumber. Text cells that do not
// parse as numbers become missing; integer text stays an exact int64;
// booleans become 1/0. Columns absent from
// the table are skipped.
type ToNumeric struct {
	Columns []string

	// OnInvalid, when set, is called once per column with the number of
	// non-missing cells that could not be parsed.
	OnInvalid func(column string, n int)
}

// Apply implements transformer.Transformer.
func (c ToNumeric) Apply(t *table.Table) *table.Table {
	for _, name := range c.Columns {
		col := t.Col(name)
		if col == nil {
			continue
		}
		bad := 0
		for i, v := range col.Cells {
			switch x := v.(type) {
			case nil, float64, int64:
			case bool:
				if x {
					col.Cells[i] = 1.0
				} else {
					col.Cells[i] = 0.0
				}
			case string:
				if n, ok := table.ParseNumeric(x); ok {
					col.Cells[i] = n
				} else {
					col.Cells[i] = nil
					if !table.IsNA(strings.TrimSpace(x)) {
						bad++
					}
				}
			default:
				col.Cells[i] = nil
				bad++
			}
		}
		col.Kind = table.KindNumber
		if bad > 0 && c.OnInvalid != nil {
			c.OnInvalid(name, bad)
		}
	}
	return t
}

// ParseDates converts Column to KindDate. Text cells are parsed with
// ParseDate; cells that cannot be parsed become missing and are reported
// through OnInvalid. A missing or empty Column name is a no-op.
type ParseDates struct {
	Column   string
	DayFirst bool

	// OnInvalid, when set, is called for each non-missing cell that could
	// not be parsed, with its 0-based row index and raw text.
	OnInvalid func(row int, raw string)
}

// Apply implements transformer.Transformer.
func (p ParseDates) Apply(t *table.Table) *table.Table {
	if p.Column == "" {
		return t
	}
	col := t.Col(p.Column)
	if col == nil {
		return t
	}
	for i, v := range col.Cells {
		var raw string
		switch x := v.(type) {
		case nil, time.Time:
			continue
		case string:
			raw = x
		case float64:
			raw = strconv.FormatFloat(x, 'f', -1, 64)
		case int64:
			raw = strconv.FormatInt(x, 10)
		default:
			col.Cells[i] = nil
			continue
		}
		if d, ok := ParseDate(raw, p.DayFirst); ok {
			col.Cells[i] = d
			continue
		}
		col.Cells[i] = nil
		if p.OnInvalid != nil {
			p.OnInvalid(i, raw)
		}
	}
	col.Kind = table.KindDate
	return t
}

// Year-first layouts are unambiguous and always tried first.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"2006-1-2",
	"2006/1/2",
	"20060102",
}

var dayFirstLayouts = []string{
	"2-1-2006", "2/1/2006", "2.1.2006",
	"2-1-2006 15:04:05", "2/1/2006 15:04:05", "2.1.2006 15:04:05",
	"2-1-2006 15:04", "2/1/2006 15:04",
	"2-1-06", "2/1/06",
	"2 Jan 2006", "2 January 2006",
}

var monthFirstLayouts = []string{
	"1-2-2006", "1/2/2006", "1.2.2006",
	"1-2-2006 15:04:05", "1/2/2006 15:04:05",
	"1-2-2006 15:04", "1/2/2006 15:04",
	"1-2-06", "1/2/06",
	"Jan 2 2006", "Jan 2, 2006", "January 2, 2006",
}

// ParseDate parses s as a calendar date. Year-first forms are tried first.
// With dayFirst, "04-09-2012" is 4 September; when a day-first reading is
// impossible (e.g. "12/25/2012") the month-first reading is used instead.
func ParseDate(s string, dayFirst bool) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if table.IsNA(s) {
		return time.Time{}, false
	}
	for _, l := range isoLayouts {
		if d, err := time.Parse(l, s); err == nil {
			return d, true
		}
	}
	first, second := dayFirstLayouts, monthFirstLayouts
	if !dayFirst {
		first, second = monthFirstLayouts, dayFirstLayouts
	}
	for _, group := range [][]string{first, second} {
		for _, l := range group {
			if d, err := time.Parse(l, s); err == nil {
				return d, true
			}
		}
	}
	return time.Time{}, false
}
