// Package loader reads the raw dataset and processed outputs from the
// configured directories into tables.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"custprep/internal/config"
	"custprep/internal/datasource"
	"custprep/internal/datasource/file"
	csvparser "custprep/internal/parser/csv"
	"custprep/internal/schema"
	"custprep/internal/table"
)

// ErrOutsideDir is returned when a processed file name resolves outside
// paths.processed.
var ErrOutsideDir = errors.New("file outside processed directory")

// RawPath resolves paths.raw / dataset.filename.
func RawPath(cfg config.Config) (string, error) {
	dir, err := cfg.Require("paths.raw")
	if err != nil {
		return "", err
	}
	name, err := cfg.Require("dataset.filename")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// LoadRaw reads the raw dataset and checks that the configured identifier
// and date columns are present. The table is returned as parsed.
//
// Errors:
//   - file.ErrNotFound (wrapped) when the file does not exist
//   - *schema.MissingColumnsError when id_col or date_col is absent
//   - *config.KeyError when a required key is not configured
func LoadRaw(ctx context.Context, cfg config.Config) (*table.Table, error) {
	path, err := RawPath(cfg)
	if err != nil {
		return nil, err
	}
	src := file.NewLocal(path)
	hint := fmt.Sprintf("check that the dataset is present in %s", filepath.Dir(path))
	if err := src.Require(hint); err != nil {
		return nil, fmt.Errorf("load raw: %w", err)
	}

	t, err := Read(ctx, src, path)
	if err != nil {
		return nil, fmt.Errorf("load raw: %w", err)
	}

	idCol, err := cfg.Require("dataset.id_col")
	if err != nil {
		return nil, err
	}
	dateCol, err := cfg.Require("dataset.date_col")
	if err != nil {
		return nil, err
	}
	if err := schema.Require("raw dataset", idCol, dateCol).Check(t.Names()); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadProcessed reads filename from paths.processed. Names that are absolute
// or resolve outside that directory fail with ErrOutsideDir.
func LoadProcessed(ctx context.Context, cfg config.Config, filename string) (*table.Table, error) {
	dir, err := cfg.Require("paths.processed")
	if err != nil {
		return nil, err
	}
	path, err := processedPath(dir, filename)
	if err != nil {
		return nil, fmt.Errorf("load processed: %w", err)
	}
	src := file.NewLocal(path)
	if err := src.Require(""); err != nil {
		return nil, fmt.Errorf("load processed: %w", err)
	}
	t, err := Read(ctx, src, src.Path())
	if err != nil {
		return nil, fmt.Errorf("load processed: %w", err)
	}
	return t, nil
}

func processedPath(dir, filename string) (string, error) {
	if filepath.IsAbs(filename) {
		return "", fmt.Errorf("%w: %s", ErrOutsideDir, filename)
	}
	joined := filepath.Join(dir, filename)
	rel, err := filepath.Rel(dir, joined)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideDir, filename)
	}
	return joined, nil
}

// ReadFile parses the CSV file at path.
func ReadFile(ctx context.Context, path string) (*table.Table, error) {
	return Read(ctx, file.NewLocal(path), path)
}

// Read parses CSV from src; name labels errors and diagnostics.
func Read(ctx context.Context, src datasource.Source, name string) (*table.Table, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	t, st, err := csvparser.Read(rc, csvparser.Options{})
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	if st.Skipped > 0 || st.Padded > 0 {
		log.Printf("loader: %s: rows=%d skipped=%d padded=%d", name, st.Rows, st.Skipped, st.Padded)
	}
	return t, nil
}

// WriteCSV writes t to path as CSV, creating the parent directory and
// overwriting any previous file.
func WriteCSV(ctx context.Context, path string, t *table.Table) error {
	return Write(ctx, file.NewLocal(path), t)
}

// Write renders t as CSV into dst.
func Write(ctx context.Context, dst datasource.Sink, t *table.Table) error {
	return dst.WriteWith(ctx, func(w io.Writer) error {
		return csvparser.Write(w, t)
	})
}
