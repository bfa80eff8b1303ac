package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"custprep/internal/clean"
	"custprep/internal/config"
	"custprep/internal/features"
	"custprep/internal/loader"
	"custprep/internal/metrics"
	csvparser "custprep/internal/parser/csv"
	"custprep/internal/preprocess"
	"custprep/internal/seed"
	"custprep/internal/storage"
	"custprep/internal/table"
)

func newCleanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Clean the raw dataset into paths.interim/" + clean.OutputFile,
		Args:  cobra.NoArgs,
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			_, err := a.clean(cmd.Context())
			return err
		}),
	}
}

func newFeaturesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "features",
		Short: "Build the scaled feature matrix from the cleaned dataset",
		Args:  cobra.NoArgs,
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			_, err := a.features(cmd.Context())
			return err
		}),
	}
}

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Clean, build features and run the configured export",
		Args:  cobra.NoArgs,
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cleaned, err := a.clean(ctx)
			if err != nil {
				return err
			}
			res, err := a.features(ctx)
			if err != nil {
				return err
			}
			exp, ok := a.cfg.Export()
			if !ok {
				return nil
			}
			out := preprocess.ToTable(res.Matrix, res.Names)
			if exp.Source == "cleaned" {
				out = cleaned
			}
			return a.export(ctx, exp, out)
		}),
	}
}

func newShowCmd(a *app) *cobra.Command {
	var sample int
	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Print a seeded sample of a file in paths.processed",
		Args:  cobra.ExactArgs(1),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			t, err := loader.LoadProcessed(cmd.Context(), a.cfg, args[0])
			if err != nil {
				return err
			}
			if sample > 0 {
				t = sampleRows(t, seed.Sample(a.rng, t.Len(), sample))
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: rows=%d cols=%d\n", args[0], t.Len(), t.Width())
			return csvparser.Write(cmd.OutOrStdout(), t)
		}),
	}
	cmd.Flags().IntVar(&sample, "sample", 10, "number of rows to print, drawn with --seed (0 prints all)")
	return cmd
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Lint the configuration file",
		Args:  cobra.NoArgs,
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			invalid := false
			for _, iss := range config.Validate(a.cfg) {
				fmt.Fprintln(cmd.OutOrStdout(), iss.Error())
				if iss.Severity == config.SeverityError {
					invalid = true
				}
			}
			if invalid {
				return fmt.Errorf("%s: %w", a.cfgPath, errInvalidConfig)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "configuration is valid: %s\n", a.cfgPath)
			return nil
		}),
	}
}

func (a *app) clean(ctx context.Context) (*table.Table, error) {
	var (
		t   *table.Table
		rep clean.Report
	)
	err := a.step("clean", func() (err error) {
		t, rep, err = clean.RunWithReport(ctx, a.cfg)
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordRow(a.runID, "clean", "read", int64(rep.RowsIn))
	metrics.RecordRow(a.runID, "clean", "duplicate_rows", int64(rep.DuplicateRows))
	metrics.RecordRow(a.runID, "clean", "duplicate_ids", int64(rep.DuplicateIDs))
	metrics.RecordRow(a.runID, "clean", "invalid_dates", int64(rep.InvalidDates))
	metrics.RecordRow(a.runID, "clean", "imputed", int64(rep.IncomeFilled))
	metrics.RecordRow(a.runID, "clean", "written", int64(rep.RowsOut))
	return t, nil
}

func (a *app) features(ctx context.Context) (*features.Result, error) {
	var res *features.Result
	err := a.step("features", func() (err error) {
		res, err = features.Run(ctx, a.cfg)
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordRow(a.runID, "features", "read", int64(res.Selected.Len()))
	metrics.RecordRow(a.runID, "features", "written", int64(res.Selected.Len()))
	return res, nil
}

func (a *app) export(ctx context.Context, exp config.Export, t *table.Table) error {
	return a.step("export", func() error {
		n, err := storage.Export(ctx, exp, t)
		metrics.RecordRow(a.runID, "export", "exported", n)
		if err != nil {
			return err
		}
		if a.verbose {
			log.Printf("export: source=%s rows=%d", exp.Source, n)
		}
		return nil
	})
}

func sampleRows(t *table.Table, idx []int) *table.Table {
	mask := make([]bool, t.Len())
	for _, i := range idx {
		mask[i] = true
	}
	return t.Keep(mask)
}
