package storage

import (
	"context"
	"fmt"
	"log"

	"custprep/internal/config"
	"custprep/internal/ddl"
	"custprep/internal/table"
)

// DefaultBatchSize is used when export.batch_size is not positive.
const DefaultBatchSize = 5000

// Export writes t into the table named by exp. Column names are normalized
// with ddl.ColumnNames; missing cells are written as NULL. When
// exp.AutoCreateTable is set the table is created first if absent.
func Export(ctx context.Context, exp config.Export, t *table.Table) (int64, error) {
	repo, err := New(ctx, Config{Kind: exp.Kind, DSN: exp.DSN, Table: exp.Table})
	if err != nil {
		return 0, fmt.Errorf("export: %w", err)
	}
	defer repo.Close()

	if exp.AutoCreateTable {
		if err := EnsureTable(ctx, exp.Kind, repo, exp.Table, t); err != nil {
			return 0, fmt.Errorf("export: ensure table %s: %w", exp.Table, err)
		}
	}

	batch := exp.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	n, err := CopyBatches(ctx, ddl.ColumnNames(t.Names()), Rows(t), batch, repo.CopyFrom)
	if err != nil {
		return n, fmt.Errorf("export: %w", err)
	}
	log.Printf("export: kind=%s table=%s rows=%d cols=%d", exp.Kind, exp.Table, n, t.Width())
	return n, nil
}

// Rows returns t row by row with cells as stored (nil for missing).
func Rows(t *table.Table) [][]any {
	out := make([][]any, t.Len())
	for i := range out {
		out[i] = t.Row(i)
	}
	return out
}
