// Package datasource defines the narrow contracts the pipeline stages use to
// read their inputs and write their outputs. The only implementation today
// is the local filesystem (package file).
package datasource

import (
	"context"
	"io"
)

// Source opens an input for reading.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Sink writes an output in one shot.
type Sink interface {
	WriteWith(ctx context.Context, fn func(io.Writer) error) error
}
