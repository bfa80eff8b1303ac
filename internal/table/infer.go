package table

import (
	"strconv"
	"strings"
	"time"
)

// naTokens are the cell spellings read as missing.
var naTokens = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// IsNA reports whether s is one of the recognised missing-value tokens.
func IsNA(s string) bool {
	_, ok := naTokens[s]
	return ok
}

// ParseNumber parses s as a float. Surrounding whitespace is ignored; NA
// tokens and anything strconv rejects return ok=false.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if IsNA(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseNumeric parses s as a number, keeping integer literals exact: text
// that parses as a base-10 int64 yields an int64, any other number a
// float64.
func ParseNumeric(s string) (any, bool) {
	s = strings.TrimSpace(s)
	if IsNA(s) {
		return nil, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, false
	}
	return f, true
}

func parseBool(s string) (bool, bool) {
	switch s {
	case "True", "TRUE", "true":
		return true, true
	case "False", "FALSE", "false":
		return false, true
	}
	return false, false
}

// Infer builds a column from raw text cells:
//
//   - every non-missing cell parses as a number -> KindNumber, with integer
//     literals kept as int64
//   - no missing cells and every cell is a boolean literal -> KindBool
//   - otherwise -> KindString (missing cells stay nil)
//
// A column with no present values is KindNumber.
func Infer(name string, raw []string) *Column {
	n := len(raw)
	present := 0
	numeric, boolean := true, true
	for _, s := range raw {
		if IsNA(s) {
			boolean = false
			continue
		}
		present++
		if numeric {
			if _, ok := ParseNumber(s); !ok {
				numeric = false
			}
		}
		if boolean {
			if _, ok := parseBool(s); !ok {
				boolean = false
			}
		}
	}

	c := NewColumn(name, KindString, n)
	switch {
	case present == 0 || numeric:
		c.Kind = KindNumber
		for i, s := range raw {
			if v, ok := ParseNumeric(s); ok {
				c.Cells[i] = v
			}
		}
	case boolean:
		c.Kind = KindBool
		for i, s := range raw {
			b, _ := parseBool(s)
			c.Cells[i] = b
		}
	default:
		for i, s := range raw {
			if !IsNA(s) {
				c.Cells[i] = s
			}
		}
	}
	return c
}

// Formatter renders the cells of one column as text.
type Formatter struct {
	kind     Kind
	withTime bool
}

// NewFormatter prepares a formatter for c. Date columns are rendered as
// 2006-01-02 unless any value carries a time of day.
func NewFormatter(c *Column) Formatter {
	f := Formatter{kind: c.Kind}
	if c.Kind == KindDate {
		for _, v := range c.Cells {
			if t, ok := v.(time.Time); ok && (t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0 || t.Nanosecond() != 0) {
				f.withTime = true
				break
			}
		}
	}
	return f
}

// Format renders one cell. Missing cells render as the empty string.
func (f Formatter) Format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		if x {
			return "True"
		}
		return "False"
	case time.Time:
		if f.withTime {
			return x.Format("2006-01-02 15:04:05")
		}
		return x.Format("2006-01-02")
	case string:
		return x
	default:
		return ""
	}
}
