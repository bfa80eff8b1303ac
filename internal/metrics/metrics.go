// Package metrics provides a small, backend-agnostic abstraction for recording
// operational metrics from the preparation pipeline.
//
//   - Backend is a narrow interface focused on counters and timings.
//   - A global, pluggable backend defaults to a no-op implementation, so
//     metrics are always safe to call even when nothing is configured.
//   - Concrete metric systems live in subpackages (see prompush).
//
// Stages call RecordStep once per stage run and RecordRow for row-level
// counts such as dropped duplicates or imputed cells.
package metrics

import "time"

// Metric names shared with backends.
const (
	StepTotal    = "custprep_step_total"
	StepDuration = "custprep_step_duration_seconds"
	RowsTotal    = "custprep_rows_total"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep records one execution of a pipeline stage with its outcome and
// duration.
func RecordStep(run, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{
		"run":    run,
		"step":   step,
		"status": status,
	}
	backend.IncCounter(StepTotal, 1, lbls)
	backend.ObserveHistogram(StepDuration, d.Seconds(), lbls)
}

// RecordRow increments a row-level counter for the given stage and kind.
//
// Kinds used by the pipeline:
//   - "read"
//   - "duplicate_rows"
//   - "duplicate_ids"
//   - "invalid_dates"
//   - "imputed"
//   - "written"
//   - "exported"
func RecordRow(run, step, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(RowsTotal, float64(delta), Labels{
		"run":  run,
		"step": step,
		"kind": kind,
	})
}
