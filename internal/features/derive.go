package features

import (
	"math"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"custprep/internal/schema"
	"custprep/internal/table"
	"custprep/internal/transformer/builtin"
)

// Derived feature names.
const (
	Age           = "Age"
	TotalChildren = "total_children"
	TotalSpending = "total_spending"
	SinceCustomer = "since_customer"
	AcceptedAny   = "AcceptedAny"
)

// AddBusinessFeatures returns a copy of t with each derived feature named in
// keep added as a number column. Source columns that are absent fall back to
// zero; t is not modified.
//
//   - Age: now's year minus Year_Birth.
//   - total_children: Kidhome + Teenhome; a missing operand gives missing.
//   - total_spending: sum of the present Mnt* columns, missing cells skipped.
//   - since_customer: whole days from the enrollment date to now; an
//     unparseable date gives missing.
//   - AcceptedAny: 1 when the sum of the present campaign columns is
//     positive, else 0.
func AddBusinessFeatures(t *table.Table, dateCol string, keep []string, now time.Time) *table.Table {
	out := t.Clone()
	n := out.Len()
	want := func(name string) bool { return slices.Contains(keep, name) }

	if want(Age) {
		c := table.NewColumn(Age, table.KindNumber, n)
		if src := out.Col(schema.YearBirth); src != nil {
			year := float64(now.Year())
			for i := range c.Cells {
				if v, ok := number(src.Cells[i]); ok {
					c.Cells[i] = year - v
				}
			}
		} else {
			fill(c, 0.0)
		}
		mustSet(out, c)
	}

	if want(TotalChildren) {
		c := table.NewColumn(TotalChildren, table.KindNumber, n)
		kid, teen := out.Col(schema.Kidhome), out.Col(schema.Teenhome)
		for i := range c.Cells {
			a, okA := operand(kid, i)
			b, okB := operand(teen, i)
			if okA && okB {
				c.Cells[i] = a + b
			}
		}
		mustSet(out, c)
	}

	if want(TotalSpending) {
		c := table.NewColumn(TotalSpending, table.KindNumber, n)
		cols := present(out, schema.SpendColumns)
		for i := range c.Cells {
			sum := decimal.Zero
			for _, src := range cols {
				if v, ok := number(src.Cells[i]); ok {
					sum = sum.Add(decimal.NewFromFloat(v))
				}
			}
			c.Cells[i] = sum.InexactFloat64()
		}
		mustSet(out, c)
	}

	if want(SinceCustomer) {
		c := table.NewColumn(SinceCustomer, table.KindNumber, n)
		if src := out.Col(dateCol); dateCol != "" && src != nil {
			today := wallClock(now)
			for i := range c.Cells {
				if d, ok := date(src.Cells[i]); ok {
					c.Cells[i] = math.Floor(today.Sub(d).Hours() / 24)
				}
			}
		} else {
			fill(c, 0.0)
		}
		mustSet(out, c)
	}

	if want(AcceptedAny) {
		c := table.NewColumn(AcceptedAny, table.KindNumber, n)
		cols := present(out, schema.CampaignColumns)
		for i := range c.Cells {
			sum := 0.0
			for _, src := range cols {
				if v, ok := number(src.Cells[i]); ok {
					sum += v
				}
			}
			if sum > 0 {
				c.Cells[i] = 1.0
			} else {
				c.Cells[i] = 0.0
			}
		}
		mustSet(out, c)
	}
	return out
}

// number reads a cell as a float; text is parsed, anything else is missing.
func number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case string:
		return table.ParseNumber(x)
	}
	return 0, false
}

// operand reads row i of c, treating an absent column as zero.
func operand(c *table.Column, i int) (float64, bool) {
	if c == nil {
		return 0, true
	}
	return number(c.Cells[i])
}

func date(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case string:
		return builtin.ParseDate(x, true)
	}
	return time.Time{}, false
}

// wallClock re-expresses now's local wall-clock reading in UTC, the zone
// parsed dates carry.
func wallClock(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), time.UTC)
}

func present(t *table.Table, names []string) []*table.Column {
	var out []*table.Column
	for _, name := range names {
		if c := t.Col(name); c != nil {
			out = append(out, c)
		}
	}
	return out
}

func fill(c *table.Column, v any) {
	for i := range c.Cells {
		c.Cells[i] = v
	}
}

func mustSet(t *table.Table, c *table.Column) {
	if err := t.Set(c); err != nil {
		panic(err)
	}
}
