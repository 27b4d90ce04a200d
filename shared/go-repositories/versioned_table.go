package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"

	"github.com/AndreaCerratoSP/CIAMS/shared/go-utils"
)

// versionedTable is the plumbing shared by the single-table inventory
// repositories (office, asset_type, software_license). Concrete repos
// embed it and add their own INSERT / UPDATE statements.
type versionedTable[T EntityWithVersion] struct {
	db        DB
	table     string // unqualified, lives in the inventory schema
	kind      string // used in not-found messages
	selectSQL string
	scan      func(row pgx.Row) (T, error)
}

func newVersionedTable[T EntityWithVersion](
	db DB,
	table, kind, selectSQL string,
	scan func(pgx.Row) (T, error),
) *versionedTable[T] {
	return &versionedTable[T]{db: db, table: table, kind: kind, selectSQL: selectSQL, scan: scan}
}

// GetByID returns the zero T (nil) when the row does not exist.
func (b *versionedTable[T]) GetByID(ctx context.Context, id int64) (T, error) {
	return b.scan(b.db.QueryRow(ctx, b.selectSQL+" WHERE id=$1", id))
}

// query runs selectSQL followed by clause and scans every row.
func (b *versionedTable[T]) query(ctx context.Context, clause string, args ...any) ([]T, error) {
	rows, err := b.db.Query(ctx, b.selectSQL+" "+clause, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := b.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (b *versionedTable[T]) Delete(ctx context.Context, id int64) error {
	tag, err := b.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s.%s WHERE id=$1`, utils.InventorySchema, b.table), id)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return utils.NotFoundf("%s %d", b.kind, id)
	}
	return nil
}

func (b *versionedTable[T]) updateWithRetry(
	ctx context.Context,
	id int64,
	mutate func(T) error,
	updateIfVersion UpdateIfVersionFunc[T],
) error {
	return WithRetry(ctx, defaultMaxRetries, id, b.GetByID, updateIfVersion, mutate)
}
