package testhelpers

import (
	"fmt"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AndreaCerratoSP/CIAMS/shared/go-models"
)

// UniqueName generates a unique name for testing.
func UniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func (h *TestHelper) requireStore() {
	require.NotNil(h.T, h.Store, "DB_URL is required for direct fixtures")
}

// CreateTestOffice persists an office with a unique name.
func (h *TestHelper) CreateTestOffice(prefix string) *models.Office {
	h.requireStore()
	o := &models.Office{Name: UniqueName(prefix)}
	require.NoError(h.T, h.Store.Offices().Create(h.Ctx, o), "Failed to create test office")
	return o
}

// CreateTestAssetType persists an asset type with a unique name.
func (h *TestHelper) CreateTestAssetType(prefix string) *models.AssetType {
	h.requireStore()
	at := &models.AssetType{Name: UniqueName(prefix), Description: "integration"}
	require.NoError(h.T, h.Store.AssetTypes().Create(h.Ctx, at), "Failed to create test asset type")
	return at
}

// CreateTestLicense persists a license expiring after the given duration.
func (h *TestHelper) CreateTestLicense(prefix string, expiresIn time.Duration) *models.SoftwareLicense {
	h.requireStore()
	l := &models.SoftwareLicense{Name: UniqueName(prefix), ExpireDate: time.Now().UTC().Add(expiresIn)}
	require.NoError(h.T, h.Store.SoftwareLicenses().Create(h.Ctx, l), "Failed to create test license")
	return l
}

// CreateTestAsset persists an asset in office o of type at.
func (h *TestHelper) CreateTestAsset(o *models.Office, at *models.AssetType) *models.Asset {
	h.requireStore()
	a := &models.Asset{SerialNumber: UniqueName("SN"), Office: *o, AssetType: *at}
	require.NoError(h.T, h.Store.Assets().Create(h.Ctx, a), "Failed to create test asset")
	return a
}
