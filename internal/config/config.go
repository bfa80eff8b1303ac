// Package config loads the YAML project configuration into a nested mapping
// and offers small typed accessors over it.
//
// The loader checks only that the file exists and decodes; it performs no
// schema validation. Stages read the keys they need and fail lazily with a
// *KeyError naming the dotted key when a required one is absent. A separate
// lint (Validate) is available for the CLI.
//
// Example:
//
//	paths:
//	  raw: data/raw
//	  interim: data/interim
//	  processed: data/processed
//	dataset:
//	  filename: marketing_campaign.csv
//	  id_col: ID
//	  date_col: Dt_Customer
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"custprep/internal/datasource/file"
)

// DefaultPath is used when Load is called with an empty path.
const DefaultPath = "config/config.yaml"

// Config is the decoded configuration document. It is read-only after Load.
type Config struct {
	Options
}

// KeyError reports a required configuration key that is absent or empty.
type KeyError struct {
	Key string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("config: missing required key %q", e.Key)
}

// Load reads the YAML document at path. An empty path means DefaultPath.
// A path that does not resolve to a file yields an error wrapping
// file.ErrNotFound.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := file.NewLocal(path).Require(""); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(b)
}

// Parse decodes a YAML document. An empty document yields an empty Config.
func Parse(b []byte) (Config, error) {
	var m map[string]any
	if err := yaml.Unmarshal(b, &m); err != nil {
		return Config{}, fmt.Errorf("config: decode yaml: %w", err)
	}
	if m == nil {
		m = map[string]any{}
	}
	return Config{Options: Options(m)}, nil
}

// Paths are the configured data directories.
type Paths struct {
	Raw       string
	Interim   string
	Processed string
}

// Dataset names the raw input file and its key columns.
type Dataset struct {
	Filename string
	IDCol    string
	DateCol  string
}

// Paths returns the three data directories, failing on the first absent key.
func (c Config) Paths() (Paths, error) {
	var p Paths
	var err error
	if p.Raw, err = c.Require("paths.raw"); err != nil {
		return Paths{}, err
	}
	if p.Interim, err = c.Require("paths.interim"); err != nil {
		return Paths{}, err
	}
	if p.Processed, err = c.Require("paths.processed"); err != nil {
		return Paths{}, err
	}
	return p, nil
}

// Dataset returns the dataset block without requiring any key; absent
// entries are empty strings.
func (c Config) Dataset() Dataset {
	d := c.Section("dataset")
	return Dataset{
		Filename: d.String("filename", ""),
		IDCol:    d.String("id_col", ""),
		DateCol:  d.String("date_col", ""),
	}
}

// Export describes the optional database export of a pipeline output.
type Export struct {
	Kind            string // "sqlite" or "postgres"
	DSN             string
	Table           string
	Source          string // "features" (default) or "cleaned"
	AutoCreateTable bool
	BatchSize       int
}

// Export returns the export block and whether one is configured.
func (c Config) Export() (Export, bool) {
	e := c.Section("export")
	kind := strings.TrimSpace(e.String("kind", ""))
	if kind == "" || kind == "none" {
		return Export{}, false
	}
	return Export{
		Kind:            kind,
		DSN:             e.String("dsn", ""),
		Table:           e.String("table", ""),
		Source:          e.String("source", "features"),
		AutoCreateTable: e.Bool("auto_create_table", true),
		BatchSize:       e.Int("batch_size", 0),
	}, true
}

// Require returns the non-empty string at dotted key, or a *KeyError.
func (c Config) Require(key string) (string, error) {
	v, ok := c.Lookup(key)
	if !ok {
		return "", &KeyError{Key: key}
	}
	s := strings.TrimSpace(cast.ToString(v))
	if s == "" {
		return "", &KeyError{Key: key}
	}
	return s, nil
}

// Options is a nested configuration mapping with typed, defaulting getters.
// Values are converted with cast, so YAML scalars of a neighbouring type
// (e.g. "true" for a bool, 5 for a string) are accepted.
type Options map[string]any

// Lookup resolves a dotted key ("paths.raw") through nested mappings.
func (o Options) Lookup(key string) (any, bool) {
	cur := o
	parts := strings.Split(key, ".")
	for i, p := range parts {
		v, ok := cur[p]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, v != nil
		}
		m, err := cast.ToStringMapE(v)
		if err != nil {
			return nil, false
		}
		cur = Options(m)
	}
	return nil, false
}

// Section returns the nested mapping under key, or an empty Options.
func (o Options) Section(key string) Options {
	v, ok := o.Lookup(key)
	if !ok {
		return Options{}
	}
	m, err := cast.ToStringMapE(v)
	if err != nil {
		return Options{}
	}
	return Options(m)
}

// String returns the string value for key or def if absent or not scalar.
func (o Options) String(key, def string) string {
	v, ok := o.Lookup(key)
	if !ok {
		return def
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return def
	}
	return s
}

// Bool returns the bool value for key or def.
func (o Options) Bool(key string, def bool) bool {
	v, ok := o.Lookup(key)
	if !ok {
		return def
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return def
	}
	return b
}

// Int returns the int value for key or def.
func (o Options) Int(key string, def int) int {
	v, ok := o.Lookup(key)
	if !ok {
		return def
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return def
	}
	return n
}

// StringSlice returns the list at key, or nil when absent or not a list. An
// empty list yields an empty, non-nil slice.
func (o Options) StringSlice(key string) []string {
	v, ok := o.Lookup(key)
	if !ok {
		return nil
	}
	if _, isList := v.([]any); !isList {
		if _, isStrs := v.([]string); !isStrs {
			return nil
		}
	}
	s, err := cast.ToStringSliceE(v)
	if err != nil {
		return nil
	}
	if s == nil {
		s = []string{}
	}
	return s
}

// StringMap returns the mapping at key with values converted to strings.
func (o Options) StringMap(key string) map[string]string {
	v, ok := o.Lookup(key)
	if !ok {
		return map[string]string{}
	}
	m, err := cast.ToStringMapStringE(v)
	if err != nil {
		return map[string]string{}
	}
	return m
}
