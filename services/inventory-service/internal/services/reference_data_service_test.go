package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AndreaCerratoSP/CIAMS/services/inventory-service/internal/dtos"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-cache"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-models"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-utils"
)

func TestOfficeCRUD(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	hq := f.office(t, "HQ")
	got, err := f.offices.GetOfficeByName(ctx, "HQ")
	require.NoError(t, err)
	require.Equal(t, hq.ID, got.ID)

	_, err = f.offices.GetOfficeByName(ctx, "hq")
	require.ErrorIs(t, err, utils.ErrNotFound, "office lookup by name is exact")

	_, err = f.offices.CreateOffice(ctx, dtos.OfficeRequest{Name: "HQ"})
	require.ErrorIs(t, err, utils.ErrConflict)

	renamed, err := f.offices.UpdateOffice(ctx, hq.ID, dtos.OfficeRequest{Name: "Head Office", RowVersion: hq.RowVersion})
	require.NoError(t, err)
	require.Equal(t, "Head Office", renamed.Name)

	_, err = f.offices.UpdateOffice(ctx, hq.ID, dtos.OfficeRequest{Name: "Stale", RowVersion: hq.RowVersion})
	require.ErrorIs(t, err, utils.ErrRowVersionConflict)

	_, err = f.offices.UpdateOffice(ctx, 404, dtos.OfficeRequest{Name: "Ghost"})
	require.ErrorIs(t, err, utils.ErrNotFound)

	require.NoError(t, f.offices.DeleteOffice(ctx, hq.ID))
	_, err = f.offices.GetOfficeByID(ctx, hq.ID)
	require.ErrorIs(t, err, utils.ErrNotFound)
	require.ErrorIs(t, f.offices.DeleteOffice(ctx, hq.ID), utils.ErrNotFound)
}

func TestOfficeRenameToTakenName(t *testing.T) {
	f := newFixture(t)
	f.office(t, "HQ")
	branch := f.office(t, "Branch")

	_, err := f.offices.UpdateOffice(context.Background(), branch.ID, dtos.OfficeRequest{Name: "HQ"})
	require.ErrorIs(t, err, utils.ErrConflict)

	// keeping its own name is fine
	_, err = f.offices.UpdateOffice(context.Background(), branch.ID, dtos.OfficeRequest{Name: "Branch"})
	require.NoError(t, err)
}

func TestOfficeValidation(t *testing.T) {
	f := newFixture(t)
	_, err := f.offices.CreateOffice(context.Background(), dtos.OfficeRequest{Name: " "})
	var valErr *utils.ValidationError
	require.ErrorAs(t, err, &valErr)
	require.Equal(t, "name", valErr.Details[0].Field)
}

func TestDeleteReferencedOfficeOrTypeConflicts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	o := f.office(t, "HQ")
	at := f.assetType(t, "Laptop")
	f.asset(t, "SN-1", o.ID, at.ID)

	require.ErrorIs(t, f.offices.DeleteOffice(ctx, o.ID), utils.ErrConflict)
	require.ErrorIs(t, f.assetTypes.DeleteAssetType(ctx, at.ID), utils.ErrConflict)

	_, err := f.offices.GetOfficeByID(ctx, o.ID)
	require.NoError(t, err)
	_, err = f.assetTypes.GetAssetTypeByID(ctx, at.ID)
	require.NoError(t, err)
}

func TestAssetTypeSearchByName(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.assetType(t, "Laptop")
	f.assetType(t, "Desktop")
	f.assetType(t, "Monitor")

	list, err := f.assetTypes.GetAssetTypesByName(ctx, "TOP")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Desktop", list[0].Name)
	require.Equal(t, "Laptop", list[1].Name)

	_, err = f.assetTypes.GetAssetTypesByName(ctx, "printer")
	require.ErrorIs(t, err, utils.ErrNotFound)
}

func TestAssetTypeUpdateWithoutVersionRetries(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	at := f.assetType(t, "Laptop")

	updated, err := f.assetTypes.UpdateAssetType(ctx, at.ID, dtos.AssetTypeRequest{Name: "Notebook", Description: "portable"})
	require.NoError(t, err)
	require.Equal(t, "Notebook", updated.Name)
	require.Equal(t, at.RowVersion+1, updated.RowVersion)
}

func TestCacheNeverServesPreWriteData(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	at := f.assetType(t, "Laptop")

	got, err := f.assetTypes.GetAssetTypeByID(ctx, at.ID)
	require.NoError(t, err)
	require.Equal(t, "Laptop", got.Name)
	all, err := f.assetTypes.GetAllAssetTypes(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.NotZero(t, f.cache.Len(cache.RegionAssetTypes))

	got.Name = "Notebook"
	_, err = f.assetTypes.SaveAssetType(ctx, got)
	require.NoError(t, err)
	require.Zero(t, f.cache.Len(cache.RegionAssetTypes))

	got, err = f.assetTypes.GetAssetTypeByID(ctx, at.ID)
	require.NoError(t, err)
	require.Equal(t, "Notebook", got.Name)

	require.NoError(t, f.assetTypes.DeleteAssetType(ctx, at.ID))
	_, err = f.assetTypes.GetAssetTypeByID(ctx, at.ID)
	require.ErrorIs(t, err, utils.ErrNotFound)
	all, err = f.assetTypes.GetAllAssetTypes(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestOfficeListIsServedFromCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.office(t, "HQ")

	all, err := f.offices.GetAllOffices(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	// a write that bypasses the service is invisible until the region is evicted
	require.NoError(t, f.store.Offices().Create(ctx, &models.Office{Name: "Side door"}))
	all, err = f.offices.GetAllOffices(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	f.office(t, "Branch")
	all, err = f.offices.GetAllOffices(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestUncachedOfficeService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewOfficeService(f.store, nil)
	_, err := svc.CreateOffice(ctx, dtos.OfficeRequest{Name: "HQ"})
	require.NoError(t, err)
	_, err = svc.GetOfficeByName(ctx, "HQ")
	require.NoError(t, err)
	require.Zero(t, f.cache.Len(cache.RegionOffices))
}

func TestSoftwareLicenses(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	f.licenses.WithClock(func() time.Time { return now })

	past := f.license(t, "Expired Suite", now.Add(-time.Hour))
	soon := f.license(t, "Antivirus", now.Add(10*24*time.Hour))
	edge := f.license(t, "Edge Tool", now.Add(ExpiryWindow))
	f.license(t, "Far Future", now.Add(ExpiryWindow+time.Second))

	expiring, err := f.licenses.GetLicensesExpiringWithin(ctx, ExpiryWindow)
	require.NoError(t, err)
	require.Len(t, expiring, 2)
	require.Equal(t, soon.ID, expiring[0].ID)
	require.Equal(t, edge.ID, expiring[1].ID)

	list, err := f.licenses.GetLicensesByName(ctx, "suite")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, past.ID, list[0].ID)
	_, err = f.licenses.GetLicensesByName(ctx, "nothing")
	require.ErrorIs(t, err, utils.ErrNotFound)

	newDate := now.Add(400 * 24 * time.Hour)
	updated, err := f.licenses.UpdateLicense(ctx, soon.ID, dtos.SoftwareLicenseRequest{Name: "Antivirus Pro", ExpireDate: &newDate})
	require.NoError(t, err)
	require.Equal(t, "Antivirus Pro", updated.Name)
	require.True(t, newDate.Equal(updated.ExpireDate))

	_, err = f.licenses.CreateLicense(ctx, dtos.SoftwareLicenseRequest{Name: "No date"})
	var valErr *utils.ValidationError
	require.ErrorAs(t, err, &valErr)
	require.Equal(t, "expire_date", valErr.Details[0].Field)

	_, err = f.licenses.GetLicenseByID(ctx, 999)
	require.ErrorIs(t, err, utils.ErrNotFound)
	all, err := f.licenses.GetAllLicenses(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
}
