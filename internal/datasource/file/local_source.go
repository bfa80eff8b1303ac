// Package file implements the local filesystem data source and sink used by
// every pipeline stage. Inputs are opened through Local.Open; outputs are
// written through Local.WriteWith, which creates the parent directory and
// overwrites any previous file.
package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrNotFound is wrapped by every "required file is absent" error so callers
// can test for it with errors.Is regardless of which stage failed.
var ErrNotFound = errors.New("missing file")

// Local is a filesystem location used either as a source or as a sink.
type Local struct{ path string }

// NewLocal returns a Local bound to path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Path returns the bound path.
func (l *Local) Path() string { return l.path }

// Exists reports whether the path resolves to an existing regular file.
func (l *Local) Exists() bool {
	fi, err := os.Stat(l.path)
	return err == nil && fi.Mode().IsRegular()
}

// Require returns an error wrapping ErrNotFound when the path does not
// resolve to an existing file. hint, when non-empty, is appended to the
// message on its own line.
func (l *Local) Require(hint string) error {
	if l.Exists() {
		return nil
	}
	if hint != "" {
		return fmt.Errorf("%w: %s\n%s", ErrNotFound, l.path, hint)
	}
	return fmt.Errorf("%w: %s", ErrNotFound, l.path)
}

// Open opens the configured path for reading.
//
// Behavior:
//   - If ctx is already done, Open returns ctx.Err() without touching the
//     filesystem.
//   - A path that does not exist yields an error wrapping both ErrNotFound
//     and fs.ErrNotExist.
//   - Other filesystem errors are wrapped with the path.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, l.path, err)
		}
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	return f, nil
}

// WriteWith creates (or truncates) the file, creating parent directories as
// needed, and hands it to fn. The file is closed before WriteWith returns;
// a close error is reported when fn succeeded.
func (l *Local) WriteWith(ctx context.Context, fn func(io.Writer) error) (err error) {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(l.path), err)
	}
	f, err := os.Create(l.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", l.path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", l.path, cerr)
		}
	}()
	if err := fn(f); err != nil {
		return fmt.Errorf("write %s: %w", l.path, err)
	}
	return nil
}
