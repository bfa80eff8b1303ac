package builtin

import (
	"reflect"
	"testing"
	"time"

	"custprep/internal/table"
)

func TestNormalizeText(t *testing.T) {
	t.Parallel()
	tests := []struct{ in, want string }{
		{"Graduation", "Graduation"},
		{"  Master ", "Master"},
		{"Basic\u00a0", "Basic"},
		{"Together\u00a0Single", "Together Single"},
		{"Cafe\u0301", "Caf\u00e9"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := NormalizeText(tc.in); got != tc.want {
			t.Errorf("NormalizeText(%q) = %q want %q", tc.in, got, tc.want)
		}
	}
}

/*
TestNormalizeDefaultColumns verifies that with no explicit Columns every
string column is normalized and other kinds are left untouched.
*/
func TestNormalizeDefaultColumns(t *testing.T) {
	t.Parallel()
	in := table.MustNew(
		strs("Education", " PhD", nil),
		nums("Income", 1.0, 2.0),
	)
	out := Normalize{}.Apply(in)
	if want := []any{"PhD", nil}; !reflect.DeepEqual(cells(t, out, "Education"), want) {
		t.Fatalf("Education: got %v want %v", cells(t, out, "Education"), want)
	}
	if want := []any{1.0, 2.0}; !reflect.DeepEqual(cells(t, out, "Income"), want) {
		t.Fatalf("Income: got %v want %v", cells(t, out, "Income"), want)
	}
}

func TestToString(t *testing.T) {
	t.Parallel()
	in := table.MustNew(
		col("flag", table.KindBool, true, nil),
		col("joined", table.KindDate, time.Date(2012, 9, 4, 0, 0, 0, 0, time.UTC), nil),
	)
	out := ToString{Columns: []string{"flag", "joined", "absent"}}.Apply(in)
	if want := []any{"True", nil}; !reflect.DeepEqual(cells(t, out, "flag"), want) {
		t.Fatalf("flag: got %v want %v", cells(t, out, "flag"), want)
	}
	if want := []any{"2012-09-04", nil}; !reflect.DeepEqual(cells(t, out, "joined"), want) {
		t.Fatalf("joined: got %v want %v", cells(t, out, "joined"), want)
	}
	if out.Col("flag").Kind != table.KindString {
		t.Fatalf("flag kind=%v want string", out.Col("flag").Kind)
	}
}
