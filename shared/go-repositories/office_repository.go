package repositories

import (
	"context"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/AndreaCerratoSP/CIAMS/shared/go-models"
)

type OfficeRepository interface {
	Create(ctx context.Context, o *models.Office) error
	GetByID(ctx context.Context, id int64) (*models.Office, error)
	GetByName(ctx context.Context, name string) (*models.Office, error)
	List(ctx context.Context) ([]*models.Office, error)
	UpdateIfVersion(ctx context.Context, o *models.Office, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id int64, mutate func(*models.Office) error) error
	Delete(ctx context.Context, id int64) error
}

type officeRepo struct {
	*versionedTable[*models.Office]
	db DB
}

func NewOfficeRepository(db DB) OfficeRepository {
	r := &officeRepo{db: db}
	r.versionedTable = newVersionedTable(db, "office", "office", baseSelectOffice(), scanOffice)
	return r
}

func (r *officeRepo) Create(ctx context.Context, o *models.Office) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO inventory.office (name, row_version)
		VALUES ($1, 1)
		RETURNING id, row_version
	`, o.Name).Scan(&o.ID, &o.RowVersion)
	return mapPgError(err)
}

func (r *officeRepo) GetByName(ctx context.Context, name string) (*models.Office, error) {
	row := r.db.QueryRow(ctx, baseSelectOffice()+" WHERE name=$1", name)
	return scanOffice(row)
}

func (r *officeRepo) List(ctx context.Context) ([]*models.Office, error) {
	return r.query(ctx, "ORDER BY id")
}

func (r *officeRepo) UpdateIfVersion(ctx context.Context, o *models.Office, expected int64) (pgconn.CommandTag, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE inventory.office SET name=$1, row_version=row_version+1
		WHERE id=$2 AND row_version=$3
	`, o.Name, o.ID, expected)
	if err != nil {
		return tag, mapPgError(err)
	}
	if tag.RowsAffected() == 1 {
		o.RowVersion = expected + 1
	}
	return tag, nil
}

func (r *officeRepo) UpdateWithRetry(ctx context.Context, id int64, mutate func(*models.Office) error) error {
	return r.updateWithRetry(ctx, id, mutate, r.UpdateIfVersion)
}

func baseSelectOffice() string {
	return `
		SELECT id, name, row_version
		FROM inventory.office`
}

func scanOffice(row pgx.Row) (*models.Office, error) {
	var o models.Office
	if err := row.Scan(&o.ID, &o.Name, &o.RowVersion); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}
