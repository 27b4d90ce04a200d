package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/AndreaCerratoSP/CIAMS/shared/go-models"
)

type SoftwareLicenseRepository interface {
	Create(ctx context.Context, l *models.SoftwareLicense) error
	GetByID(ctx context.Context, id int64) (*models.SoftwareLicense, error)
	SearchByName(ctx context.Context, fragment string) ([]*models.SoftwareLicense, error)
	List(ctx context.Context) ([]*models.SoftwareLicense, error)
	// ListExpiringBetween returns licenses with from <= expire_date <= to.
	ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*models.SoftwareLicense, error)
	UpdateIfVersion(ctx context.Context, l *models.SoftwareLicense, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id int64, mutate func(*models.SoftwareLicense) error) error
	Delete(ctx context.Context, id int64) error
}

type softwareLicenseRepo struct {
	*versionedTable[*models.SoftwareLicense]
	db DB
}

func NewSoftwareLicenseRepository(db DB) SoftwareLicenseRepository {
	r := &softwareLicenseRepo{db: db}
	r.versionedTable = newVersionedTable(db, "software_license", "software license", baseSelectLicense(), scanLicense)
	return r
}

func (r *softwareLicenseRepo) Create(ctx context.Context, l *models.SoftwareLicense) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO inventory.software_license (name, expire_date, row_version)
		VALUES ($1, $2, 1)
		RETURNING id, row_version
	`, l.Name, l.ExpireDate).Scan(&l.ID, &l.RowVersion)
	return mapPgError(err)
}

func (r *softwareLicenseRepo) SearchByName(ctx context.Context, fragment string) ([]*models.SoftwareLicense, error) {
	return r.query(ctx, `WHERE name ILIKE '%' || $1 || '%' ESCAPE '\' ORDER BY name, id`, escapeLike(fragment))
}

func (r *softwareLicenseRepo) List(ctx context.Context) ([]*models.SoftwareLicense, error) {
	return r.query(ctx, "ORDER BY id")
}

func (r *softwareLicenseRepo) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*models.SoftwareLicense, error) {
	return r.query(ctx, "WHERE expire_date BETWEEN $1 AND $2 ORDER BY expire_date, id", from, to)
}

func (r *softwareLicenseRepo) UpdateIfVersion(ctx context.Context, l *models.SoftwareLicense, expected int64) (pgconn.CommandTag, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE inventory.software_license SET name=$1, expire_date=$2, row_version=row_version+1
		WHERE id=$3 AND row_version=$4
	`, l.Name, l.ExpireDate, l.ID, expected)
	if err != nil {
		return tag, mapPgError(err)
	}
	if tag.RowsAffected() == 1 {
		l.RowVersion = expected + 1
	}
	return tag, nil
}

func (r *softwareLicenseRepo) UpdateWithRetry(ctx context.Context, id int64, mutate func(*models.SoftwareLicense) error) error {
	return r.updateWithRetry(ctx, id, mutate, r.UpdateIfVersion)
}

func baseSelectLicense() string {
	return `
		SELECT id, name, expire_date, row_version
		FROM inventory.software_license`
}

func scanLicense(row pgx.Row) (*models.SoftwareLicense, error) {
	var l models.SoftwareLicense
	if err := row.Scan(&l.ID, &l.Name, &l.ExpireDate, &l.RowVersion); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	l.ExpireDate = l.ExpireDate.UTC()
	return &l, nil
}
