package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AndreaCerratoSP/CIAMS/shared/go-models"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-repositories"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-utils"
)

// countingOffices records how often the retrying update path is taken.
type countingOffices struct {
	repositories.OfficeRepository
	retried int
}

func (c *countingOffices) UpdateWithRetry(ctx context.Context, id int64, mutate func(*models.Office) error) error {
	c.retried++
	return c.OfficeRepository.UpdateWithRetry(ctx, id, mutate)
}

func newCountingOffices(t *testing.T) (*countingOffices, *models.Office) {
	t.Helper()
	repo := &countingOffices{OfficeRepository: repositories.NewMemoryStore().Offices()}
	o := &models.Office{Name: "HQ"}
	require.NoError(t, repo.Create(context.Background(), o))
	return repo, o
}

func rename(name string) func(*models.Office) error {
	return func(o *models.Office) error {
		o.Name = name
		return nil
	}
}

func TestUpdateEntityWithoutVersionUsesRepositoryRetry(t *testing.T) {
	ctx := context.Background()
	repo, o := newCountingOffices(t)

	require.NoError(t, updateEntity[*models.Office](ctx, "office", o.ID, 0, repo, rename("Head Office")))
	require.Equal(t, 1, repo.retried)

	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, "Head Office", got.Name)
	require.Equal(t, o.RowVersion+1, got.RowVersion)

	err = updateEntity[*models.Office](ctx, "office", 404, 0, repo, rename("x"))
	require.ErrorIs(t, err, utils.ErrNotFound)
	require.Contains(t, err.Error(), "office 404")
}

func TestUpdateEntityWithVersionChecksItExactly(t *testing.T) {
	ctx := context.Background()
	repo, o := newCountingOffices(t)

	err := updateEntity[*models.Office](ctx, "office", o.ID, o.RowVersion+5, repo, rename("Stale"))
	require.ErrorIs(t, err, utils.ErrRowVersionConflict)

	require.NoError(t, updateEntity[*models.Office](ctx, "office", o.ID, o.RowVersion, repo, rename("Fresh")))
	require.Zero(t, repo.retried)

	got, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, "Fresh", got.Name)
}
