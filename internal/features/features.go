// Package features builds the model-ready feature matrix from the cleaned
// table written by the clean stage.
//
// Run reads paths.interim/cleaned_data.csv, derives business features, keeps
// the allow-listed columns, imputes what is missing, fits the column
// transformer and writes both the scaled matrix and the fitted transformer
// to paths.processed.
package features

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/mat"

	"custprep/internal/clean"
	"custprep/internal/config"
	"custprep/internal/datasource/file"
	"custprep/internal/loader"
	"custprep/internal/preprocess"
	"custprep/internal/schema"
	"custprep/internal/table"
	"custprep/internal/transformer"
	"custprep/internal/transformer/builtin"
)

// Output filenames inside paths.processed.
const (
	OutputFile      = "features_scaled.csv"
	TransformerFile = "preprocessor.gob"
)

// Unknown replaces missing categorical values.
const Unknown = "Unknown"

// DefaultKeep is the allow-list used when features.keep is not configured.
var DefaultKeep = []string{
	schema.Income,
	TotalSpending,
	SinceCustomer,
	Age,
	TotalChildren,
	schema.Recency,
	"NumStorePurchases",
	"NumWebPurchases",
	AcceptedAny,
}

// ErrNoUsableFeatures is returned when no allow-listed column exists.
var ErrNoUsableFeatures = errors.New("no usable features")

// Result is the outcome of a feature run.
type Result struct {
	// Selected is the allow-listed, imputed table the transformer was fitted on.
	Selected *table.Table
	// Matrix is the transformed feature matrix.
	Matrix *mat.Dense
	// Names are the output column names, one per matrix column.
	Names []string
	// Keep is the allow-list used; Missing the allow-listed names that were
	// not available.
	Keep    []string
	Missing []string

	Transformer *preprocess.ColumnTransformer

	FeaturesPath    string
	TransformerPath string
}

// Keep returns the configured allow-list (features.keep) or DefaultKeep.
func Keep(cfg config.Config) []string {
	if keep := cfg.Section("features").StringSlice("keep"); len(keep) > 0 {
		return keep
	}
	return append([]string(nil), DefaultKeep...)
}

// Run builds features as of the current time.
func Run(ctx context.Context, cfg config.Config) (*Result, error) {
	return RunAt(ctx, cfg, time.Now())
}

// RunAt is Run with an explicit clock for Age and since_customer.
func RunAt(ctx context.Context, cfg config.Config, now time.Time) (*Result, error) {
	interim, err := cfg.Require("paths.interim")
	if err != nil {
		return nil, fmt.Errorf("features: %w", err)
	}
	processed, err := cfg.Require("paths.processed")
	if err != nil {
		return nil, fmt.Errorf("features: %w", err)
	}

	src := file.NewLocal(filepath.Join(interim, clean.OutputFile))
	if err := src.Require("run the clean stage first to produce " + clean.OutputFile); err != nil {
		return nil, fmt.Errorf("features: %w", err)
	}
	cleaned, err := loader.ReadFile(ctx, src.Path())
	if err != nil {
		return nil, fmt.Errorf("features: %w", err)
	}

	dateCol := cfg.Dataset().DateCol
	if dateCol == "" {
		dateCol = schema.DefaultDateColumn
	}
	res, err := Build(cleaned, dateCol, Keep(cfg), now)
	if err != nil {
		return nil, fmt.Errorf("features: %w", err)
	}

	res.FeaturesPath = filepath.Join(processed, OutputFile)
	res.TransformerPath = filepath.Join(processed, TransformerFile)
	if err := loader.WriteCSV(ctx, res.FeaturesPath, preprocess.ToTable(res.Matrix, res.Names)); err != nil {
		return nil, fmt.Errorf("features: write matrix: %w", err)
	}
	if err := res.Transformer.Save(ctx, res.TransformerPath); err != nil {
		return nil, fmt.Errorf("features: %w", err)
	}

	rows, cols := 0, 0
	if !res.Matrix.IsEmpty() {
		rows, cols = res.Matrix.Dims()
	}
	log.Printf("features: rows=%d cols=%d keep=%v output=%s transformer=%s",
		rows, cols, res.Keep, absPath(res.FeaturesPath), absPath(res.TransformerPath))
	return res, nil
}

// Build derives, selects, imputes and transforms cleaned in memory. The
// returned Result has no output paths set.
func Build(cleaned *table.Table, dateCol string, keep []string, now time.Time) (*Result, error) {
	derived := AddBusinessFeatures(cleaned, dateCol, keep, now)

	var existing, missing []string
	for _, name := range keep {
		if derived.Has(name) {
			existing = append(existing, name)
		} else {
			missing = append(missing, name)
		}
	}
	if len(existing) == 0 {
		return nil, fmt.Errorf("%w: none of %v found; available columns: %v", ErrNoUsableFeatures, keep, derived.Names())
	}
	if len(missing) > 0 {
		log.Printf("WARNING: features: allow-listed columns absent, ignored: %v", missing)
	}

	selected, err := derived.Select(existing...)
	if err != nil {
		return nil, err
	}

	var num, cat []string
	for _, c := range selected.Columns() {
		if c.Kind == table.KindNumber {
			num = append(num, c.Name)
		} else {
			cat = append(cat, c.Name)
		}
	}

	selected = transformer.Chain{
		builtin.ToNumeric{Columns: num},
		builtin.FillMedian{Columns: num},
		builtin.FillValue{Columns: num, Value: 0},
		builtin.FillValue{Columns: cat, Value: Unknown},
		builtin.ToString{Columns: cat},
		builtin.Normalize{Columns: cat},
	}.Apply(selected)

	ct := preprocess.NewColumnTransformer(num, cat)
	m, err := ct.FitTransform(selected)
	if err != nil {
		return nil, err
	}
	names := ct.FeatureNames()
	if !m.IsEmpty() {
		if _, cols := m.Dims(); len(names) != cols {
			names = preprocess.PositionalNames(cols)
		}
	}

	return &Result{
		Selected:    selected,
		Matrix:      m,
		Names:       names,
		Keep:        keep,
		Missing:     missing,
		Transformer: ct,
	}, nil
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
