package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"custprep/internal/datasource/file"
)

const sampleYAML = `
paths:
  raw: data/raw
  interim: data/interim
  processed: data/processed
dataset:
  filename: marketing_campaign.csv
  id_col: ID
  date_col: Dt_Customer
features:
  keep: [Income, total_spending, Age]
export:
  kind: sqlite
  dsn: out/custprep.db
  table: customer_features
  batch_size: 500
`

// -----------------------------------------------------------------------------
// Loading
// -----------------------------------------------------------------------------

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	p, err := cfg.Paths()
	if err != nil {
		t.Fatalf("Paths: %v", err)
	}
	if want := (Paths{Raw: "data/raw", Interim: "data/interim", Processed: "data/processed"}); p != want {
		t.Fatalf("paths = %+v, want %+v", p, want)
	}
	if want := (Dataset{Filename: "marketing_campaign.csv", IDCol: "ID", DateCol: "Dt_Customer"}); cfg.Dataset() != want {
		t.Fatalf("dataset = %+v, want %+v", cfg.Dataset(), want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "config", "config.yaml"))
	if !errors.Is(err, file.ErrNotFound) {
		t.Fatalf("err = %v, want file.ErrNotFound", err)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(empty): %v", err)
	}
	if len(cfg.Options) != 0 {
		t.Fatalf("empty document decoded to %v", cfg.Options)
	}
	if _, err := Parse([]byte("paths: [unterminated")); err == nil {
		t.Fatalf("want decode error")
	}
}

// TestRequire checks the lazy key error: absent, blank and nested-through-a
// scalar keys all report the dotted key.
func TestRequire(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte("paths:\n  raw: data/raw\n  interim: '  '\ndataset: plain\n"))
	if err != nil {
		t.Fatal(err)
	}
	if v, err := cfg.Require("paths.raw"); err != nil || v != "data/raw" {
		t.Fatalf("Require(paths.raw) = %q, %v", v, err)
	}
	for _, key := range []string{"paths.interim", "paths.processed", "dataset.filename"} {
		_, err := cfg.Require(key)
		var ke *KeyError
		if !errors.As(err, &ke) || ke.Key != key {
			t.Fatalf("Require(%s) err = %v, want *KeyError", key, err)
		}
	}
}

func TestExport(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatal(err)
	}
	e, ok := cfg.Export()
	if !ok {
		t.Fatalf("export not detected")
	}
	want := Export{
		Kind: "sqlite", DSN: "out/custprep.db", Table: "customer_features",
		Source: "features", AutoCreateTable: true, BatchSize: 500,
	}
	if e != want {
		t.Fatalf("export = %+v, want %+v", e, want)
	}

	for _, doc := range []string{"paths: {}\n", "export:\n  kind: none\n"} {
		c, _ := Parse([]byte(doc))
		if _, ok := c.Export(); ok {
			t.Fatalf("%q: export should be disabled", doc)
		}
	}
}

// -----------------------------------------------------------------------------
// Options helpers
// -----------------------------------------------------------------------------

func TestOptionsDefaultsAndCoercion(t *testing.T) {
	t.Parallel()

	o := Options{
		"s":    "hello",
		"b":    "true",
		"i":    "42",
		"n":    5,
		"list": []any{"a", 1},
		"map":  map[string]any{"k": 1},
		"sect": map[string]any{"inner": map[string]any{"x": "y"}},
	}

	if got := o.String("s", "def"); got != "hello" {
		t.Fatalf("String(s) = %q", got)
	}
	if got := o.String("n", "def"); got != "5" {
		t.Fatalf("String(n) = %q, want 5", got)
	}
	if got := o.String("missing", "def"); got != "def" {
		t.Fatalf("String(missing) = %q", got)
	}
	if !o.Bool("b", false) || !o.Bool("missing", true) {
		t.Fatalf("Bool coercion or default broken")
	}
	if got := o.Int("i", 0); got != 42 {
		t.Fatalf("Int(i) = %d", got)
	}
	if got := o.Int("s", 7); got != 7 {
		t.Fatalf("Int(s) = %d, want default", got)
	}
	if got := o.StringSlice("list"); !reflect.DeepEqual(got, []string{"a", "1"}) {
		t.Fatalf("StringSlice = %v", got)
	}
	if got := o.StringSlice("s"); got != nil {
		t.Fatalf("StringSlice(scalar) = %v, want nil", got)
	}
	if got := o.StringMap("map"); !reflect.DeepEqual(got, map[string]string{"k": "1"}) {
		t.Fatalf("StringMap = %v", got)
	}
	if got := o.Section("sect").String("inner.x", ""); got != "y" {
		t.Fatalf("nested lookup = %q", got)
	}
	if got := o.Section("s"); len(got) != 0 {
		t.Fatalf("Section(scalar) = %v, want empty", got)
	}
}
