// Package clean turns the raw dataset into the cleaned table: duplicates
// removed, the enrollment date parsed, numeric columns coerced and business
// imputations applied. The result is written to the interim directory, which
// is the only input the feature stage reads.
package clean

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"custprep/internal/config"
	"custprep/internal/loader"
	"custprep/internal/schema"
	"custprep/internal/table"
	"custprep/internal/transformer"
	"custprep/internal/transformer/builtin"
)

// OutputFile is the cleaned table's filename inside paths.interim.
const OutputFile = "cleaned_data.csv"

// Report summarises one cleaning run.
type Report struct {
	RowsIn        int
	RowsOut       int
	DuplicateRows int
	DuplicateIDs  int
	InvalidDates  int
	// InvalidNumbers counts non-missing cells per column that did not parse.
	InvalidNumbers map[string]int
	// IncomeMedian is the value used to fill missing income; IncomeFilled is
	// the number of cells it replaced.
	IncomeMedian float64
	IncomeFilled int
	// Path is where the cleaned table was written.
	Path string
}

// Run cleans the raw dataset named by cfg and writes it to
// paths.interim/cleaned_data.csv.
func Run(ctx context.Context, cfg config.Config) (*table.Table, error) {
	t, _, err := RunWithReport(ctx, cfg)
	return t, err
}

// RunWithReport is Run with the run's Report.
func RunWithReport(ctx context.Context, cfg config.Config) (*table.Table, Report, error) {
	interim, err := cfg.Require("paths.interim")
	if err != nil {
		return nil, Report{}, fmt.Errorf("clean: %w", err)
	}
	raw, err := loader.LoadRaw(ctx, cfg)
	if err != nil {
		return nil, Report{}, fmt.Errorf("clean: %w", err)
	}

	out, rep := Table(raw, cfg.Dataset())

	rep.Path = filepath.Join(interim, OutputFile)
	if err := loader.WriteCSV(ctx, rep.Path, out); err != nil {
		return nil, rep, fmt.Errorf("clean: write interim: %w", err)
	}
	log.Printf("clean: rows_in=%d rows_out=%d duplicate_rows=%d duplicate_ids=%d invalid_dates=%d income_median=%g income_filled=%d path=%s",
		rep.RowsIn, rep.RowsOut, rep.DuplicateRows, rep.DuplicateIDs, rep.InvalidDates, rep.IncomeMedian, rep.IncomeFilled, rep.Path)
	return out, rep, nil
}

// Table applies the cleaning steps to a private copy of raw and returns it
// with the run's Report. raw is not modified. Columns named by a step but
// absent from raw are skipped.
func Table(raw *table.Table, ds config.Dataset) (*table.Table, Report) {
	rep := Report{RowsIn: raw.Len(), InvalidNumbers: map[string]int{}}
	countInvalid := func(col string, n int) { rep.InvalidNumbers[col] += n }

	chain := transformer.Chain{
		builtin.DropDuplicates{OnDrop: func(n int) { rep.DuplicateRows = n }},
	}
	if ds.IDCol != "" && raw.Has(ds.IDCol) {
		chain = append(chain, builtin.DeDup{
			Keys:   []string{ds.IDCol},
			Policy: "keep-first",
			OnDrop: func(n int) { rep.DuplicateIDs = n },
		})
	}
	chain = append(chain,
		builtin.ParseDates{
			Column:    ds.DateCol,
			DayFirst:  true,
			OnInvalid: func(int, string) { rep.InvalidDates++ },
		},
		builtin.ToNumeric{Columns: []string{schema.Income}, OnInvalid: countInvalid},
		builtin.FillMedian{
			Columns: []string{schema.Income},
			OnFill: func(_ string, med float64, n int) {
				rep.IncomeMedian, rep.IncomeFilled = med, n
			},
		},
		builtin.ToNumeric{Columns: schema.NumericColumns, OnInvalid: countInvalid},
		builtin.FillValue{Columns: schema.ZeroFillColumns, Value: 0},
	)

	out := chain.Apply(raw.Clone())
	rep.RowsOut = out.Len()
	return out, rep
}
