package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError marks a problem that will make a stage fail.
	SeverityError IssueSeverity = "error"
	// SeverityWarning marks a suspicious but runnable setting.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single lint finding. Path is a dotted key into the
// document (e.g. "paths.raw", "export.kind").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be returned as one.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// requiredKeys are read by the raw loader, the cleaner and the feature
// processor.
var requiredKeys = []string{
	"paths.raw",
	"paths.interim",
	"paths.processed",
	"dataset.filename",
	"dataset.id_col",
	"dataset.date_col",
}

// Validate lints a loaded configuration. Load never calls it: stages fail
// lazily on their own keys. The CLI uses it for the validate command.
func Validate(c Config) []Issue {
	var issues []Issue

	for _, k := range requiredKeys {
		if _, err := c.Require(k); err != nil {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     k,
				Message:  "required key is missing or empty",
			})
		}
	}

	issues = append(issues, validateFeatures(c)...)
	issues = append(issues, validateExport(c)...)
	return issues
}

func validateFeatures(c Config) []Issue {
	v, ok := c.Lookup("features.keep")
	if !ok {
		return nil
	}
	keep := c.StringSlice("features.keep")
	if keep == nil {
		return []Issue{{
			Severity: SeverityError,
			Path:     "features.keep",
			Message:  fmt.Sprintf("must be a list of column names, got %T", v),
		}}
	}
	if len(keep) == 0 {
		return []Issue{{
			Severity: SeverityError,
			Path:     "features.keep",
			Message:  "allow-list is empty; feature processing would select nothing",
		}}
	}
	var issues []Issue
	seen := map[string]struct{}{}
	for i, k := range keep {
		if strings.TrimSpace(k) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("features.keep[%d]", i),
				Message:  "empty column name",
			})
			continue
		}
		if _, dup := seen[k]; dup {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     fmt.Sprintf("features.keep[%d]", i),
				Message:  fmt.Sprintf("duplicate column %q is ignored", k),
			})
		}
		seen[k] = struct{}{}
	}
	return issues
}

func validateExport(c Config) []Issue {
	e, ok := c.Export()
	if !ok {
		return nil
	}
	var issues []Issue
	switch e.Kind {
	case "sqlite", "postgres":
	default:
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "export.kind",
			Message:  fmt.Sprintf("unknown export kind %q; ensure a matching backend is registered", e.Kind),
		})
	}
	if strings.TrimSpace(e.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "export.dsn",
			Message:  "export requires a non-empty dsn",
		})
	}
	if strings.TrimSpace(e.Table) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "export.table",
			Message:  "export requires a non-empty table",
		})
	}
	switch e.Source {
	case "features", "cleaned":
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "export.source",
			Message:  fmt.Sprintf("export.source must be \"features\" or \"cleaned\", got %q", e.Source),
		})
	}
	return issues
}
