package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"custprep/internal/config"
	"custprep/internal/datasource/file"
	"custprep/internal/schema"
	"custprep/internal/table"
)

func project(t *testing.T, raw string) (config.Config, string) {
	t.Helper()
	root := t.TempDir()
	if raw != "" {
		if err := os.MkdirAll(filepath.Join(root, "raw"), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(root, "raw", "marketing.csv"), []byte(raw), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	cfg, err := config.Parse([]byte(fmt.Sprintf(`
paths: {raw: %q, interim: %q, processed: %q}
dataset: {filename: marketing.csv, id_col: ID, date_col: Dt_Customer}
`, filepath.Join(root, "raw"), filepath.Join(root, "interim"), filepath.Join(root, "processed"))))
	if err != nil {
		t.Fatal(err)
	}
	return cfg, root
}

func TestLoadRaw(t *testing.T) {
	t.Parallel()

	cfg, _ := project(t, "ID,Dt_Customer,Income\n1,04-09-2012,58138\n2,08-03-2014,\n")
	tb, err := LoadRaw(context.Background(), cfg)
	if err != nil {
		t.Fatalf("LoadRaw: %v", err)
	}
	if tb.Len() != 2 || !reflect.DeepEqual(tb.Names(), []string{"ID", "Dt_Customer", "Income"}) {
		t.Fatalf("table = %dx%v", tb.Len(), tb.Names())
	}
	// Dates are parsed by the cleaner, not on load.
	if tb.Col("Dt_Customer").Kind != table.KindString {
		t.Fatalf("date column kind = %v, want string", tb.Col("Dt_Customer").Kind)
	}
}

func TestLoadRawErrors(t *testing.T) {
	t.Parallel()

	cfg, root := project(t, "")
	_, err := LoadRaw(context.Background(), cfg)
	if !errors.Is(err, file.ErrNotFound) {
		t.Fatalf("missing file: err = %v, want ErrNotFound", err)
	}
	if !strings.Contains(err.Error(), filepath.Join(root, "raw")) {
		t.Fatalf("error does not name the raw dir: %v", err)
	}

	cfg, _ = project(t, "ID,Income\n1,5\n")
	_, err = LoadRaw(context.Background(), cfg)
	var mc *schema.MissingColumnsError
	if !errors.As(err, &mc) || !reflect.DeepEqual(mc.Missing, []string{"Dt_Customer"}) {
		t.Fatalf("missing column: err = %v", err)
	}

	empty, _ := config.Parse([]byte("paths: {raw: x}"))
	var ke *config.KeyError
	if _, err := LoadRaw(context.Background(), empty); !errors.As(err, &ke) || ke.Key != "dataset.filename" {
		t.Fatalf("missing key: err = %v", err)
	}
}

// TestWriteThenLoadProcessed round-trips a table through paths.processed.
func TestWriteThenLoadProcessed(t *testing.T) {
	t.Parallel()

	cfg, root := project(t, "")
	in := table.MustNew(
		&table.Column{Name: "Income", Kind: table.KindNumber, Cells: []any{-0.5, 1.25}},
		&table.Column{Name: "Education_PhD", Kind: table.KindNumber, Cells: []any{1.0, 0.0}},
	)
	ctx := context.Background()
	if err := WriteCSV(ctx, filepath.Join(root, "processed", "features_scaled.csv"), in); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	out, err := LoadProcessed(ctx, cfg, "features_scaled.csv")
	if err != nil {
		t.Fatalf("LoadProcessed: %v", err)
	}
	if !reflect.DeepEqual(out.Names(), in.Names()) || !reflect.DeepEqual(out.Col("Income").Cells, in.Col("Income").Cells) {
		t.Fatalf("round trip mismatch: %v %v", out.Names(), out.Col("Income").Cells)
	}

	if _, err := LoadProcessed(ctx, cfg, "nope.csv"); !errors.Is(err, file.ErrNotFound) {
		t.Fatalf("missing processed file: err = %v", err)
	}
}

func TestLoadProcessedStaysInDir(t *testing.T) {
	t.Parallel()

	cfg, root := project(t, "")
	ctx := context.Background()
	in := table.MustNew(&table.Column{Name: "a", Kind: table.KindNumber, Cells: []any{1.0}})
	outside := filepath.Join(root, "interim", "cleaned_data.csv")
	if err := WriteCSV(ctx, outside, in); err != nil {
		t.Fatal(err)
	}
	if err := WriteCSV(ctx, filepath.Join(root, "processed", "features_scaled.csv"), in); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"../interim/cleaned_data.csv", outside, "..", "."} {
		if _, err := LoadProcessed(ctx, cfg, name); !errors.Is(err, ErrOutsideDir) {
			t.Errorf("LoadProcessed(%q): err = %v, want ErrOutsideDir", name, err)
		}
	}
	if _, err := LoadProcessed(ctx, cfg, "sub/../features_scaled.csv"); err != nil {
		t.Fatalf("in-directory name rejected: %v", err)
	}
}
