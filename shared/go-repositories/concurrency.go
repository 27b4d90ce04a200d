package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgconn"

	"github.com/AndreaCerratoSP/CIAMS/shared/go-utils"
)

/*
EntityWithVersion:

* `comparable`  → lets us use `==` to compare two values of type T
* the three concurrency methods
*/
type EntityWithVersion interface {
	comparable
	GetID() int64
	GetRowVersion() int64
	SetRowVersion(int64)
}

type UpdateIfVersionFunc[T EntityWithVersion] func(
	ctx context.Context,
	entity T,
	expectedVersion int64,
) (pgconn.CommandTag, error)

type GetByIDFunc[T EntityWithVersion] func(
	ctx context.Context,
	id int64,
) (T, error)

const defaultMaxRetries = 3

/*
WithRetry runs a read‑mutate‑update loop with optimistic locking.
*/
func WithRetry[T EntityWithVersion](
	ctx context.Context,
	maxRetries int,
	id int64,
	getByID GetByIDFunc[T],
	updateIfVersion UpdateIfVersionFunc[T],
	mutate func(T) error,
) error {
	for attempt := 0; attempt < maxRetries; attempt++ {
		current, err := getByID(ctx, id)
		if err != nil {
			return err
		}

		// zero value of T (nil for pointers)
		var zero T
		if current == zero {
			return utils.NotFoundf("id %d", id)
		}

		oldVersion := current.GetRowVersion()

		if err := mutate(current); err != nil {
			return err
		}

		tag, err := updateIfVersion(ctx, current, oldVersion)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 1 {
			return nil
		}
		// someone else updated first – retry
	}
	return fmt.Errorf("too much contention updating %d: %w", id, utils.ErrRowVersionConflict)
}

// versionTag builds the command tag an UPDATE ... WHERE row_version=$n
// would report, for stores that are not backed by Postgres.
func versionTag(updated bool) pgconn.CommandTag {
	if updated {
		return pgconn.CommandTag("UPDATE 1")
	}
	return pgconn.CommandTag("UPDATE 0")
}
