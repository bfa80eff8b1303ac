package preprocess

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"custprep/internal/datasource/file"
	"custprep/internal/table"
)

func training() *table.Table {
	return table.MustNew(
		&table.Column{Name: "Income", Kind: table.KindNumber, Cells: []any{10.0, 20.0, 30.0, 40.0}},
		&table.Column{Name: "Recency", Kind: table.KindNumber, Cells: []any{5.0, 5.0, 5.0, 5.0}},
		&table.Column{Name: "Education", Kind: table.KindString, Cells: []any{"PhD", "Basic", "PhD", "Master"}},
		&table.Column{Name: "ignored", Kind: table.KindString, Cells: []any{"a", "b", "c", "d"}},
	)
}

const eps = 1e-12

/*
TestFitTransform verifies z-scores use population statistics, a constant
column scales to zero rather than NaN, and one-hot columns follow the
sorted vocabulary. Columns outside both groups are dropped.
*/
func TestFitTransform(t *testing.T) {
	t.Parallel()
	ct := NewColumnTransformer([]string{"Income", "Recency"}, []string{"Education"})
	m, err := ct.FitTransform(training())
	if err != nil {
		t.Fatalf("FitTransform: %v", err)
	}
	if r, c := m.Dims(); r != 4 || c != 5 {
		t.Fatalf("dims = %dx%d, want 4x5", r, c)
	}

	income := mat.Col(nil, 0, m)
	mean, variance := stat.PopMeanVariance(income, nil)
	if math.Abs(mean) > eps || math.Abs(variance-1) > eps {
		t.Fatalf("Income mean=%v var=%v, want 0 and 1", mean, variance)
	}
	if got := ct.Scaler.Mean[0]; got != 25 {
		t.Fatalf("Income mean = %v, want 25", got)
	}
	if got := ct.Scaler.Var[0]; got != 125 {
		t.Fatalf("Income population variance = %v, want 125", got)
	}
	if got := mat.Col(nil, 1, m); !reflect.DeepEqual(got, []float64{0, 0, 0, 0}) {
		t.Fatalf("Recency = %v, want zeros", got)
	}
	if ct.Scaler.Scale[1] != 1 {
		t.Fatalf("constant column scale = %v, want 1", ct.Scaler.Scale[1])
	}

	wantNames := []string{"Income", "Recency", "Education_Basic", "Education_Master", "Education_PhD"}
	if got := ct.FeatureNames(); !reflect.DeepEqual(got, wantNames) {
		t.Fatalf("FeatureNames = %v, want %v", got, wantNames)
	}
	wantOneHot := [][]float64{
		{0, 0, 1},
		{1, 0, 0},
		{0, 0, 1},
		{0, 1, 0},
	}
	for i, want := range wantOneHot {
		got := mat.Row(nil, i, m)[2:]
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("row %d one-hot = %v, want %v", i, got, want)
		}
	}
}

func TestTransformUnknownCategory(t *testing.T) {
	t.Parallel()
	ct := NewColumnTransformer(nil, []string{"Education"})
	if err := ct.Fit(training()); err != nil {
		t.Fatal(err)
	}
	unseen := table.MustNew(&table.Column{Name: "Education", Kind: table.KindString, Cells: []any{"2n Cycle", "PhD"}})
	m, err := ct.Transform(unseen)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if got := mat.Row(nil, 0, m); !reflect.DeepEqual(got, []float64{0, 0, 0}) {
		t.Fatalf("unknown category = %v, want all zeros", got)
	}
	if got := mat.Row(nil, 1, m); !reflect.DeepEqual(got, []float64{0, 0, 1}) {
		t.Fatalf("PhD = %v", got)
	}
}

func TestErrors(t *testing.T) {
	t.Parallel()
	ct := NewColumnTransformer([]string{"Income"}, nil)
	if _, err := ct.Transform(training()); !errors.Is(err, ErrNotFitted) {
		t.Fatalf("Transform before Fit: err = %v", err)
	}
	empty := table.MustNew(&table.Column{Name: "Income", Kind: table.KindNumber})
	if err := ct.Fit(empty); !errors.Is(err, ErrEmpty) {
		t.Fatalf("Fit on empty: err = %v", err)
	}
	withGap := table.MustNew(&table.Column{Name: "Income", Kind: table.KindNumber, Cells: []any{1.0, nil}})
	if err := ct.Fit(withGap); !errors.Is(err, ErrNotNumeric) {
		t.Fatalf("Fit with missing: err = %v", err)
	}
	if err := NewColumnTransformer([]string{"nope"}, nil).Fit(training()); err == nil {
		t.Fatalf("Fit with absent column: expected error")
	}
}

/*
TestSaveLoadRoundTrip verifies that a persisted transformer reproduces the
matrix it produced at fit time.
*/
func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "processed", "preprocessor.gob")

	ct := NewColumnTransformer([]string{"Income", "Recency"}, []string{"Education"})
	want, err := ct.FitTransform(training())
	if err != nil {
		t.Fatal(err)
	}
	if err := ct.Save(ctx, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(ctx, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got, err := loaded.Transform(training())
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if !mat.Equal(got, want) {
		t.Fatalf("round trip mismatch:\n got %v\nwant %v", mat.Formatted(got), mat.Formatted(want))
	}
	if !reflect.DeepEqual(loaded.FeatureNames(), ct.FeatureNames()) {
		t.Fatalf("names = %v, want %v", loaded.FeatureNames(), ct.FeatureNames())
	}
}

func TestLoadMissing(t *testing.T) {
	t.Parallel()
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.gob"))
	if !errors.Is(err, file.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestToTable(t *testing.T) {
	t.Parallel()
	m := mat.NewDense(2, 2, []float64{1, 2, 3, 4})

	got := ToTable(m, []string{"a", "b"})
	if !reflect.DeepEqual(got.Names(), []string{"a", "b"}) {
		t.Fatalf("names = %v", got.Names())
	}
	if !reflect.DeepEqual(got.Col("b").Cells, []any{2.0, 4.0}) {
		t.Fatalf("b = %v", got.Col("b").Cells)
	}

	for _, names := range [][]string{nil, {"a"}, {"x", "x"}} {
		fallback := ToTable(m, names)
		if !reflect.DeepEqual(fallback.Names(), []string{"f_0", "f_1"}) {
			t.Fatalf("names %v: fallback = %v", names, fallback.Names())
		}
	}

	if e := ToTable(&mat.Dense{}, nil); e.Width() != 0 || e.Len() != 0 {
		t.Fatalf("empty matrix -> %dx%d table", e.Len(), e.Width())
	}
}
