package repositories

import (
	"context"
	"strings"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/AndreaCerratoSP/CIAMS/shared/go-models"
)

type AssetTypeRepository interface {
	Create(ctx context.Context, t *models.AssetType) error
	GetByID(ctx context.Context, id int64) (*models.AssetType, error)
	// SearchByName returns types whose name contains fragment, ignoring case, ordered by name.
	SearchByName(ctx context.Context, fragment string) ([]*models.AssetType, error)
	List(ctx context.Context) ([]*models.AssetType, error)
	UpdateIfVersion(ctx context.Context, t *models.AssetType, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id int64, mutate func(*models.AssetType) error) error
	Delete(ctx context.Context, id int64) error
}

type assetTypeRepo struct {
	*versionedTable[*models.AssetType]
	db DB
}

func NewAssetTypeRepository(db DB) AssetTypeRepository {
	r := &assetTypeRepo{db: db}
	r.versionedTable = newVersionedTable(db, "asset_type", "asset type", baseSelectAssetType(), scanAssetType)
	return r
}

func (r *assetTypeRepo) Create(ctx context.Context, t *models.AssetType) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO inventory.asset_type (name, description, row_version)
		VALUES ($1, $2, 1)
		RETURNING id, row_version
	`, t.Name, t.Description).Scan(&t.ID, &t.RowVersion)
	return mapPgError(err)
}

func (r *assetTypeRepo) SearchByName(ctx context.Context, fragment string) ([]*models.AssetType, error) {
	return r.query(ctx, `WHERE name ILIKE '%' || $1 || '%' ESCAPE '\' ORDER BY name, id`, escapeLike(fragment))
}

func (r *assetTypeRepo) List(ctx context.Context) ([]*models.AssetType, error) {
	return r.query(ctx, "ORDER BY id")
}

func (r *assetTypeRepo) UpdateIfVersion(ctx context.Context, t *models.AssetType, expected int64) (pgconn.CommandTag, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE inventory.asset_type SET name=$1, description=$2, row_version=row_version+1
		WHERE id=$3 AND row_version=$4
	`, t.Name, t.Description, t.ID, expected)
	if err != nil {
		return tag, mapPgError(err)
	}
	if tag.RowsAffected() == 1 {
		t.RowVersion = expected + 1
	}
	return tag, nil
}

func (r *assetTypeRepo) UpdateWithRetry(ctx context.Context, id int64, mutate func(*models.AssetType) error) error {
	return r.updateWithRetry(ctx, id, mutate, r.UpdateIfVersion)
}

func baseSelectAssetType() string {
	return `
		SELECT id, name, description, row_version
		FROM inventory.asset_type`
}

func scanAssetType(row pgx.Row) (*models.AssetType, error) {
	var t models.AssetType
	if err := row.Scan(&t.ID, &t.Name, &t.Description, &t.RowVersion); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
