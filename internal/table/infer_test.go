package table

import (
	"reflect"
	"testing"
	"time"
)

func TestInfer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		raw   []string
		kind  Kind
		cells []any
	}{
		{"numbers with NA", []string{"1", "nan", " 2.5 "}, KindNumber, []any{int64(1), nil, 2.5}},
		{"large integers stay exact", []string{"9007199254740993", "9007199254740992"}, KindNumber, []any{int64(9007199254740993), int64(9007199254740992)}},
		{"all missing", []string{"", "NA"}, KindNumber, []any{nil, nil}},
		{"booleans", []string{"True", "false"}, KindBool, []any{true, false}},
		{"booleans with NA fall back to string", []string{"True", ""}, KindString, []any{"True", nil}},
		{"mixed", []string{"1", "x"}, KindString, []any{"1", "x"}},
		{"empty column", []string{}, KindNumber, []any{}},
	}
	for _, tc := range tests {
		c := Infer("c", tc.raw)
		if c.Kind != tc.kind {
			t.Errorf("%s: kind = %v, want %v", tc.name, c.Kind, tc.kind)
		}
		if !reflect.DeepEqual(c.Cells, tc.cells) {
			t.Errorf("%s: cells = %#v, want %#v", tc.name, c.Cells, tc.cells)
		}
	}
}

func TestParseNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"58138", 58138, true},
		{" -1.5 ", -1.5, true},
		{"1e3", 1000, true},
		{"N/A", 0, false},
		{"abc", 0, false},
	}
	for _, tc := range tests {
		got, ok := ParseNumber(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseNumber(%q) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseNumeric(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want any
		ok   bool
	}{
		{"5524", int64(5524), true},
		{" -7 ", int64(-7), true},
		{"9007199254740993", int64(9007199254740993), true},
		{"2.5", 2.5, true},
		{"99999999999999999999", 1e20, true},
		{"NA", nil, false},
		{"x1", nil, false},
	}
	for _, tc := range tests {
		got, ok := ParseNumeric(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseNumeric(%q) = %#v, %v; want %#v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestFormatter(t *testing.T) {
	t.Parallel()

	day := time.Date(2012, 9, 4, 0, 0, 0, 0, time.UTC)
	dates := &Column{Name: "d", Kind: KindDate, Cells: []any{day, nil}}
	if got := NewFormatter(dates).Format(day); got != "2012-09-04" {
		t.Fatalf("date = %q", got)
	}

	withTime := &Column{Name: "d", Kind: KindDate, Cells: []any{day, day.Add(90 * time.Minute)}}
	if got := NewFormatter(withTime).Format(day); got != "2012-09-04 00:00:00" {
		t.Fatalf("datetime = %q", got)
	}

	f := NewFormatter(&Column{Kind: KindNumber})
	for in, want := range map[any]string{nil: "", 0.1: "0.1", 1e21: "1000000000000000000000", int64(9007199254740993): "9007199254740993", true: "True", "x": "x"} {
		if got := f.Format(in); got != want {
			t.Errorf("Format(%v) = %q, want %q", in, got, want)
		}
	}
}
