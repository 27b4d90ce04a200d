package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"

	"github.com/AndreaCerratoSP/CIAMS/shared/go-repositories"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-utils"
)

// saveEntity inserts entity when it has no id and overwrites it in place
// otherwise. A non-zero row_version on entity must match the stored one.
func saveEntity[T repositories.EntityWithVersion](
	ctx context.Context,
	kind string,
	entity T,
	create func(context.Context, T) error,
	getByID repositories.GetByIDFunc[T],
	updateIfVersion repositories.UpdateIfVersionFunc[T],
) error {
	if entity.GetID() == 0 {
		return create(ctx, entity)
	}

	var zero T
	expected := entity.GetRowVersion()
	if expected == 0 {
		current, err := getByID(ctx, entity.GetID())
		if err != nil {
			return err
		}
		if current == zero {
			return utils.NotFoundf("%s %d", kind, entity.GetID())
		}
		expected = current.GetRowVersion()
	}

	tag, err := updateIfVersion(ctx, entity, expected)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	// Nothing updated: either the row is gone or the version moved on.
	current, err := getByID(ctx, entity.GetID())
	if err != nil {
		return err
	}
	if current == zero {
		return utils.NotFoundf("%s %d", kind, entity.GetID())
	}
	return fmt.Errorf("%s %d: %w", kind, entity.GetID(), utils.ErrRowVersionConflict)
}

// versionedRepo is the slice of an entity repository updateEntity needs.
type versionedRepo[T repositories.EntityWithVersion] interface {
	GetByID(ctx context.Context, id int64) (T, error)
	UpdateIfVersion(ctx context.Context, entity T, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id int64, mutate func(T) error) error
}

// updateEntity applies mutate to the stored entity. With a client
// row_version the write only succeeds against exactly that version;
// without one the repository retries on contention.
func updateEntity[T repositories.EntityWithVersion](
	ctx context.Context,
	kind string,
	id int64,
	clientVersion int64,
	repo versionedRepo[T],
	mutate func(T) error,
) error {
	if clientVersion == 0 {
		err := repo.UpdateWithRetry(ctx, id, mutate)
		if err != nil && errors.Is(err, utils.ErrNotFound) {
			return utils.NotFoundf("%s %d", kind, id)
		}
		return err
	}

	current, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	var zero T
	if current == zero {
		return utils.NotFoundf("%s %d", kind, id)
	}
	if current.GetRowVersion() != clientVersion {
		return fmt.Errorf("%s %d: %w", kind, id, utils.ErrRowVersionConflict)
	}
	if err := mutate(current); err != nil {
		return err
	}
	tag, err := repo.UpdateIfVersion(ctx, current, clientVersion)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("%s %d: %w", kind, id, utils.ErrRowVersionConflict)
	}
	return nil
}
