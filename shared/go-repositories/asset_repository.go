package repositories

import (
	"context"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"

	"github.com/AndreaCerratoSP/CIAMS/shared/go-models"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-utils"
)

type AssetRepository interface {
	// Create inserts the asset row and its license links; it sets a.ID.
	Create(ctx context.Context, a *models.Asset) error
	GetByID(ctx context.Context, id int64) (*models.Asset, error)
	// GetByIDForUpdate locks the asset row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id int64) (*models.Asset, error)
	GetBySerialNumber(ctx context.Context, serial string) (*models.Asset, error)
	List(ctx context.Context) ([]*models.Asset, error)
	ListByOfficeID(ctx context.Context, officeID int64) ([]*models.Asset, error)
	CountByOfficeID(ctx context.Context, officeID int64) (int64, error)
	CountByAssetTypeID(ctx context.Context, assetTypeID int64) (int64, error)
	// UpdateIfVersion overwrites the row and replaces the license links.
	UpdateIfVersion(ctx context.Context, a *models.Asset, expected int64) (pgconn.CommandTag, error)
	Delete(ctx context.Context, id int64) error
}

type assetRepo struct {
	db DB
}

func NewAssetRepository(db DB) AssetRepository {
	return &assetRepo{db: db}
}

/* ---------- Create ---------- */

func (r *assetRepo) Create(ctx context.Context, a *models.Asset) error {
	return inTx(ctx, r.db, func(tx DB) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO inventory.asset (
				serial_number, acquisition_date, office_id, asset_type_id, row_version
			) VALUES ($1,$2,$3,$4,1)
			RETURNING id, row_version
		`, a.SerialNumber, dateArg(a.AcquisitionDate), a.Office.ID, a.AssetType.ID).Scan(&a.ID, &a.RowVersion)
		if err != nil {
			return mapPgError(err)
		}
		return insertLicenseLinks(ctx, tx, a.ID, a.LicenseIDs())
	})
}

/* ---------- Reads ---------- */

func (r *assetRepo) GetByID(ctx context.Context, id int64) (*models.Asset, error) {
	return r.getOne(ctx, baseSelectAsset()+" WHERE a.id=$1", id)
}

func (r *assetRepo) GetByIDForUpdate(ctx context.Context, id int64) (*models.Asset, error) {
	return r.getOne(ctx, baseSelectAsset()+" WHERE a.id=$1 FOR UPDATE OF a", id)
}

func (r *assetRepo) GetBySerialNumber(ctx context.Context, serial string) (*models.Asset, error) {
	return r.getOne(ctx, baseSelectAsset()+" WHERE a.serial_number=$1 ORDER BY a.id LIMIT 1", serial)
}

func (r *assetRepo) List(ctx context.Context) ([]*models.Asset, error) {
	return r.list(ctx, baseSelectAsset()+" ORDER BY a.id")
}

func (r *assetRepo) ListByOfficeID(ctx context.Context, officeID int64) ([]*models.Asset, error) {
	return r.list(ctx, baseSelectAsset()+" WHERE a.office_id=$1 ORDER BY a.id", officeID)
}

func (r *assetRepo) CountByOfficeID(ctx context.Context, officeID int64) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM inventory.asset WHERE office_id=$1`, officeID).Scan(&n)
	return n, err
}

func (r *assetRepo) CountByAssetTypeID(ctx context.Context, assetTypeID int64) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM inventory.asset WHERE asset_type_id=$1`, assetTypeID).Scan(&n)
	return n, err
}

/* ---------- Update / Delete ---------- */

func (r *assetRepo) UpdateIfVersion(ctx context.Context, a *models.Asset, expected int64) (pgconn.CommandTag, error) {
	var tag pgconn.CommandTag
	err := inTx(ctx, r.db, func(tx DB) error {
		var err error
		tag, err = tx.Exec(ctx, `
			UPDATE inventory.asset SET
				serial_number=$1, acquisition_date=$2, office_id=$3, asset_type_id=$4,
				row_version=row_version+1
			WHERE id=$5 AND row_version=$6
		`, a.SerialNumber, dateArg(a.AcquisitionDate), a.Office.ID, a.AssetType.ID, a.ID, expected)
		if err != nil {
			return mapPgError(err)
		}
		if tag.RowsAffected() != 1 {
			return nil
		}
		if _, err := tx.Exec(ctx, `DELETE FROM inventory.asset_licence WHERE asset_id=$1`, a.ID); err != nil {
			return err
		}
		return insertLicenseLinks(ctx, tx, a.ID, a.LicenseIDs())
	})
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 1 {
		a.RowVersion = expected + 1
	}
	return tag, nil
}

// Delete removes the asset; its asset_licence rows cascade.
func (r *assetRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM inventory.asset WHERE id=$1`, id)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return utils.NotFoundf("asset %d", id)
	}
	return nil
}

/* ---------- internals ---------- */

// dateArg binds an optional calendar day to a DATE parameter.
func dateArg(d *models.Date) any {
	if d == nil {
		return nil
	}
	return d.Time
}

func baseSelectAsset() string {
	return `
		SELECT a.id, a.serial_number, a.acquisition_date, a.row_version,
		       o.id, o.name, o.row_version,
		       t.id, t.name, t.description, t.row_version
		FROM inventory.asset a
		JOIN inventory.office o ON o.id = a.office_id
		JOIN inventory.asset_type t ON t.id = a.asset_type_id`
}

func scanAsset(row pgx.Row) (*models.Asset, error) {
	var a models.Asset
	var acquired pgtype.Date
	if err := row.Scan(
		&a.ID, &a.SerialNumber, &acquired, &a.RowVersion,
		&a.Office.ID, &a.Office.Name, &a.Office.RowVersion,
		&a.AssetType.ID, &a.AssetType.Name, &a.AssetType.Description, &a.AssetType.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if acquired.Status == pgtype.Present {
		d := models.DateOf(acquired.Time)
		a.AcquisitionDate = &d
	}
	a.SoftwareLicenses = []models.SoftwareLicense{}
	return &a, nil
}

func (r *assetRepo) getOne(ctx context.Context, sql string, args ...any) (*models.Asset, error) {
	a, err := scanAsset(r.db.QueryRow(ctx, sql, args...))
	if err != nil || a == nil {
		return nil, err
	}
	if err := r.attachLicenses(ctx, []*models.Asset{a}); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *assetRepo) list(ctx context.Context, sql string, args ...any) ([]*models.Asset, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	out := []*models.Asset{}
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachLicenses(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// attachLicenses loads the license sets of all given assets in one query.
func (r *assetRepo) attachLicenses(ctx context.Context, assets []*models.Asset) error {
	if len(assets) == 0 {
		return nil
	}
	byID := make(map[int64]*models.Asset, len(assets))
	ids := make([]int64, 0, len(assets))
	for _, a := range assets {
		byID[a.ID] = a
		ids = append(ids, a.ID)
	}

	rows, err := r.db.Query(ctx, `
		SELECT al.asset_id, l.id, l.name, l.expire_date, l.row_version
		FROM inventory.asset_licence al
		JOIN inventory.software_license l ON l.id = al.licence_id
		WHERE al.asset_id = ANY($1)
		ORDER BY al.asset_id, l.id
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var assetID int64
		var l models.SoftwareLicense
		if err := rows.Scan(&assetID, &l.ID, &l.Name, &l.ExpireDate, &l.RowVersion); err != nil {
			return err
		}
		l.ExpireDate = l.ExpireDate.UTC()
		if a, ok := byID[assetID]; ok {
			a.SoftwareLicenses = append(a.SoftwareLicenses, l)
		}
	}
	return rows.Err()
}

func insertLicenseLinks(ctx context.Context, db DB, assetID int64, licenseIDs []int64) error {
	if len(licenseIDs) == 0 {
		return nil
	}
	_, err := db.Exec(ctx, `
		INSERT INTO inventory.asset_licence (asset_id, licence_id)
		SELECT $1, unnest($2::bigint[])
		ON CONFLICT DO NOTHING
	`, assetID, licenseIDs)
	return mapPgError(err)
}
