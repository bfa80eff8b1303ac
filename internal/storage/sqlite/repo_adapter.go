package sqlite

import (
	"context"
	"fmt"

	"custprep/internal/ddl"
	"custprep/internal/storage"
	"custprep/internal/table"
)

// newRepository is a test hook; tests replace it to avoid opening a file.
var newRepository = NewRepository

// wrappedRepo adds Close, backed by the func NewRepository returns.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

var _ storage.Repository = (*wrappedRepo)(nil)

func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{DSN: cfg.DSN, Table: cfg.Table})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})

	storage.RegisterDDL("sqlite", func(ctx context.Context, repo storage.Repository, fqn string, t *table.Table) error {
		sql, err := ddl.BuildCreateTableSQL(ddl.FromTable(fqn, t, MapType))
		if err != nil {
			return fmt.Errorf("sqlite: %w", err)
		}
		return repo.Exec(ctx, sql)
	})
}
