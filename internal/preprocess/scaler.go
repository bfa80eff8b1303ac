package preprocess

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"custprep/internal/table"
)

// StandardScaler standardises numeric columns to zero mean and unit
// variance using population statistics of the data it was fitted on.
type StandardScaler struct {
	Columns []string
	Mean    []float64
	Var     []float64
	// Scale is the population standard deviation, or 1 for a constant column.
	Scale []float64
}

// Fit computes per-column statistics over t. Missing cells are an error;
// impute before fitting.
func (s *StandardScaler) Fit(t *table.Table) error {
	s.Mean = make([]float64, len(s.Columns))
	s.Var = make([]float64, len(s.Columns))
	s.Scale = make([]float64, len(s.Columns))
	for j, name := range s.Columns {
		x, err := numeric(t, name)
		if err != nil {
			return err
		}
		mean, variance := stat.PopMeanVariance(x, nil)
		scale := math.Sqrt(variance)
		if scale == 0 || math.IsNaN(scale) {
			scale = 1
		}
		s.Mean[j], s.Var[j], s.Scale[j] = mean, variance, scale
	}
	return nil
}

// transformInto writes the scaled values of column j into dst.
func (s *StandardScaler) transformInto(t *table.Table, j int, dst []float64) error {
	x, err := numeric(t, s.Columns[j])
	if err != nil {
		return err
	}
	for i, v := range x {
		dst[i] = (v - s.Mean[j]) / s.Scale[j]
	}
	return nil
}

// numeric returns the named column as float64 values, failing on an absent
// column or a missing or non-numeric cell.
func numeric(t *table.Table, name string) ([]float64, error) {
	c := t.Col(name)
	if c == nil {
		return nil, fmt.Errorf("preprocess: column %q not found", name)
	}
	out := make([]float64, c.Len())
	for i := range c.Cells {
		v, ok := c.Float(i)
		if !ok {
			return nil, fmt.Errorf("preprocess: column %q row %d: %w", name, i, ErrNotNumeric)
		}
		out[i] = v
	}
	return out, nil
}
