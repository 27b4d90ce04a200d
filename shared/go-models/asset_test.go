package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAsset_AddLicenseIsIdempotent(t *testing.T) {
	a := &Asset{}
	require.True(t, a.AddLicense(SoftwareLicense{ID: 1, Name: "IDE"}))
	require.False(t, a.AddLicense(SoftwareLicense{ID: 1, Name: "IDE renamed"}))
	require.True(t, a.AddLicense(SoftwareLicense{ID: 2}))
	require.Equal(t, []int64{1, 2}, a.LicenseIDs())
	require.True(t, a.HasLicense(2))
}

func TestAsset_RemoveLicense(t *testing.T) {
	original := []SoftwareLicense{{ID: 1}, {ID: 2}, {ID: 3}}
	a := &Asset{SoftwareLicenses: original}

	require.False(t, a.RemoveLicense(9))
	require.True(t, a.RemoveLicense(2))
	require.Equal(t, []int64{1, 3}, a.LicenseIDs())
	require.False(t, a.HasLicense(2))

	// the caller's slice is left alone
	require.Equal(t, int64(2), original[1].ID)
}

func TestVersioned(t *testing.T) {
	o := &Office{ID: 4}
	o.SetRowVersion(3)
	require.Equal(t, int64(3), o.GetRowVersion())
	require.Equal(t, int64(4), o.GetID())
}
