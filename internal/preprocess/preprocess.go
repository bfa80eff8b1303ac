// Package preprocess implements the fitted feature transformer: z-score
// scaling for numeric columns and one-hot encoding for categorical columns,
// combined into a single dense matrix.
//
// A ColumnTransformer is fitted once on the training table, persisted with
// encoding/gob and reloaded to transform new data identically:
//
//	ct := preprocess.NewColumnTransformer(numeric, categorical)
//	m, err := ct.FitTransform(t)
//	err = ct.Save(ctx, "data/processed/preprocessor.gob")
//	...
//	ct, err = preprocess.Load(ctx, "data/processed/preprocessor.gob")
//	m, err = ct.Transform(newData)
//
// Columns of the input that are in neither group are ignored.
package preprocess

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"custprep/internal/datasource/file"
	"custprep/internal/table"
)

var (
	// ErrNotFitted is returned by Transform before Fit.
	ErrNotFitted = errors.New("preprocess: transformer is not fitted")
	// ErrEmpty is returned when fitting on a table with no rows.
	ErrEmpty = errors.New("preprocess: no rows to fit")
	// ErrNotNumeric reports a missing or non-numeric cell in a scaled column.
	ErrNotNumeric = errors.New("missing or non-numeric value")
)

// ColumnTransformer scales Numeric columns and one-hot encodes Categorical
// columns. Output columns are the scaled numerics in order, followed by the
// indicators of each categorical column in order.
type ColumnTransformer struct {
	Scaler  StandardScaler
	Encoder OneHotEncoder
	Fitted  bool
}

// NewColumnTransformer returns an unfitted transformer for the given groups.
func NewColumnTransformer(numeric, categorical []string) *ColumnTransformer {
	return &ColumnTransformer{
		Scaler:  StandardScaler{Columns: append([]string(nil), numeric...)},
		Encoder: OneHotEncoder{Columns: append([]string(nil), categorical...)},
	}
}

// Fit learns scaling statistics and category vocabularies from t.
func (ct *ColumnTransformer) Fit(t *table.Table) error {
	if t.Len() == 0 {
		return ErrEmpty
	}
	if err := ct.Scaler.Fit(t); err != nil {
		return err
	}
	if err := ct.Encoder.Fit(t); err != nil {
		return err
	}
	ct.Fitted = true
	return nil
}

// FitTransform fits on t and returns the transformed matrix.
func (ct *ColumnTransformer) FitTransform(t *table.Table) (*mat.Dense, error) {
	if err := ct.Fit(t); err != nil {
		return nil, err
	}
	return ct.Transform(t)
}

// Width returns the number of output columns.
func (ct *ColumnTransformer) Width() int {
	return len(ct.Scaler.Columns) + ct.Encoder.Width()
}

// Transform applies the fitted parameters to t. A table with no rows or a
// transformer with no outputs yields an empty matrix.
func (ct *ColumnTransformer) Transform(t *table.Table) (*mat.Dense, error) {
	if !ct.Fitted {
		return nil, ErrNotFitted
	}
	rows, cols := t.Len(), ct.Width()
	if rows == 0 || cols == 0 {
		return &mat.Dense{}, nil
	}
	m := mat.NewDense(rows, cols, nil)

	buf := make([]float64, rows)
	for j := range ct.Scaler.Columns {
		if err := ct.Scaler.transformInto(t, j, buf); err != nil {
			return nil, err
		}
		m.SetCol(j, buf)
	}

	off := len(ct.Scaler.Columns)
	for j, name := range ct.Encoder.Columns {
		vals, err := categorical(t, name)
		if err != nil {
			return nil, err
		}
		idx := ct.Encoder.lookup(j)
		for i, v := range vals {
			if k, ok := idx[v]; ok {
				m.Set(i, off+k, 1)
			}
		}
		off += len(ct.Encoder.Categories[j])
	}
	return m, nil
}

// FeatureNames returns the output column names: numeric names verbatim,
// then "<column>_<category>" for each indicator.
func (ct *ColumnTransformer) FeatureNames() []string {
	out := make([]string, 0, ct.Width())
	out = append(out, ct.Scaler.Columns...)
	for j, name := range ct.Encoder.Columns {
		for _, c := range ct.Encoder.Categories[j] {
			out = append(out, name+"_"+c)
		}
	}
	return out
}

// Save writes the transformer to path with encoding/gob, creating the parent
// directory and overwriting any previous file.
func (ct *ColumnTransformer) Save(ctx context.Context, path string) error {
	err := file.NewLocal(path).WriteWith(ctx, func(w io.Writer) error {
		return gob.NewEncoder(w).Encode(ct)
	})
	if err != nil {
		return fmt.Errorf("preprocess: save: %w", err)
	}
	return nil
}

// Load reads a transformer written by Save.
func Load(ctx context.Context, path string) (*ColumnTransformer, error) {
	rc, err := file.NewLocal(path).Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("preprocess: load: %w", err)
	}
	defer rc.Close()

	var ct ColumnTransformer
	if err := gob.NewDecoder(rc).Decode(&ct); err != nil {
		return nil, fmt.Errorf("preprocess: decode %s: %w", path, err)
	}
	if len(ct.Encoder.Categories) != len(ct.Encoder.Columns) {
		return nil, fmt.Errorf("preprocess: decode %s: %d category lists for %d columns", path, len(ct.Encoder.Categories), len(ct.Encoder.Columns))
	}
	return &ct, nil
}

// ToTable converts m to a table of number columns. When names does not
// hold one distinct name per matrix column, positional names f_0..f_n are
// used.
func ToTable(m *mat.Dense, names []string) *table.Table {
	rows, cols := 0, 0
	if !m.IsEmpty() {
		rows, cols = m.Dims()
	}
	if len(names) != cols || hasDuplicate(names) {
		names = PositionalNames(cols)
	}
	out := make([]*table.Column, cols)
	for j := 0; j < cols; j++ {
		c := table.NewColumn(names[j], table.KindNumber, rows)
		for i := 0; i < rows; i++ {
			c.Cells[i] = m.At(i, j)
		}
		out[j] = c
	}
	return table.MustNew(out...)
}

func hasDuplicate(names []string) bool {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			return true
		}
		seen[n] = struct{}{}
	}
	return false
}

// PositionalNames returns f_0..f_{n-1}.
func PositionalNames(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "f_" + strconv.Itoa(i)
	}
	return out
}
