package dtos

import (
	"time"

	"github.com/AndreaCerratoSP/CIAMS/shared/go-models"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-utils"
)

// EntityRef points at an existing entity by id, e.g. {"id": 1}.
type EntityRef struct {
	ID *int64 `json:"id" validate:"required,gt=0"`
}

func (r *EntityRef) Value() int64 {
	if r == nil {
		return 0
	}
	return utils.Val(r.ID)
}

// AssetRequest is the body of POST /assets and PUT /assets/{id}. Only the
// ids of the referenced office, asset type and licenses are read.
type AssetRequest struct {
	SerialNumber     string       `json:"serial_number" validate:"notblank,max=255"`
	AcquisitionDate  *models.Date `json:"acquisition_date,omitempty"`
	Office           *EntityRef   `json:"office" validate:"required"`
	AssetType        *EntityRef   `json:"asset_type" validate:"required"`
	SoftwareLicenses []EntityRef  `json:"software_licenses,omitempty" validate:"omitempty,dive"`
	RowVersion       int64        `json:"row_version,omitempty" validate:"gte=0"`
}

type OfficeRequest struct {
	Name       string `json:"name" validate:"notblank,max=255"`
	RowVersion int64  `json:"row_version,omitempty" validate:"gte=0"`
}

type AssetTypeRequest struct {
	Name        string `json:"name" validate:"notblank,max=255"`
	Description string `json:"description,omitempty" validate:"max=1024"`
	RowVersion  int64  `json:"row_version,omitempty" validate:"gte=0"`
}

type SoftwareLicenseRequest struct {
	Name       string     `json:"name" validate:"notblank,max=255"`
	ExpireDate *time.Time `json:"expire_date" validate:"required"`
	RowVersion int64      `json:"row_version,omitempty" validate:"gte=0"`
}
