package storage

import (
	"context"
	"fmt"
	"sync"

	"custprep/internal/table"
)

// DDLBootstrapper creates the table fqn, shaped after t, if it does not
// exist. Backends register one per kind; it maps column kinds to the
// backend's SQL types and applies the DDL via repo.Exec.
type DDLBootstrapper func(ctx context.Context, repo Repository, fqn string, t *table.Table) error

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBootstrapper{}
)

// RegisterDDL adds or replaces the DDLBootstrapper for kind.
func RegisterDDL(kind string, fn DDLBootstrapper) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// EnsureTable runs the DDLBootstrapper registered for kind.
func EnsureTable(ctx context.Context, kind string, repo Repository, fqn string, t *table.Table) error {
	ddlMu.RLock()
	fn, ok := ddlFns[kind]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("no DDL bootstrapper registered for storage.kind=%q", kind)
	}
	return fn(ctx, repo, fqn, t)
}
