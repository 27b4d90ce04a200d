package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/AndreaCerratoSP/CIAMS/services/inventory-service/internal/dtos"
	"github.com/AndreaCerratoSP/CIAMS/services/inventory-service/internal/events"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-models"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-repositories"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-utils"
)

// AssetService owns asset CRUD and the operations that change an asset's
// relationships. Every composite operation runs in one transaction with
// the asset row locked; events go out only after commit.
type AssetService struct {
	store     repositories.InventoryStore
	publisher events.Publisher
}

func NewAssetService(store repositories.InventoryStore, publisher events.Publisher) *AssetService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &AssetService{store: store, publisher: publisher}
}

func (s *AssetService) GetAllAssets(ctx context.Context) ([]*models.Asset, error) {
	return s.store.Assets().List(ctx)
}

func (s *AssetService) GetAssetByID(ctx context.Context, id int64) (*models.Asset, error) {
	a, err := s.store.Assets().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, utils.NotFoundf("asset %d", id)
	}
	return a, nil
}

func (s *AssetService) GetAssetBySerialNumber(ctx context.Context, serial string) (*models.Asset, error) {
	a, err := s.store.Assets().GetBySerialNumber(ctx, serial)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, utils.NotFoundf("asset with serial number %q", serial)
	}
	return a, nil
}

// GetAssetsByOffice lists the assets assigned to an existing office.
func (s *AssetService) GetAssetsByOffice(ctx context.Context, officeID int64) ([]*models.Asset, error) {
	o, err := s.store.Offices().GetByID(ctx, officeID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, utils.NotFoundf("office %d", officeID)
	}
	return s.store.Assets().ListByOfficeID(ctx, officeID)
}

// SaveAsset inserts a when it has no id and overwrites it otherwise.
// The caller is trusted: no shape validation happens here.
func (s *AssetService) SaveAsset(ctx context.Context, a *models.Asset) (*models.Asset, error) {
	created := a.ID == 0
	repo := s.store.Assets()
	if err := saveEntity(ctx, "asset", a, repo.Create, repo.GetByID, repo.UpdateIfVersion); err != nil {
		return nil, err
	}
	if created {
		s.publish(ctx, events.NewAssetEvent(events.AssetCreated, a.ID).WithOffice(a.Office.ID))
	} else {
		s.publish(ctx, events.NewAssetEvent(events.AssetUpdated, a.ID).WithOffice(a.Office.ID))
	}
	return a, nil
}

func (s *AssetService) DeleteAsset(ctx context.Context, id int64) error {
	var officeID int64
	err := s.store.WithinTx(ctx, func(tx repositories.InventoryStore) error {
		a, err := lockAsset(ctx, tx, id)
		if err != nil {
			return err
		}
		officeID = a.Office.ID
		return tx.Assets().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.publish(ctx, events.NewAssetEvent(events.AssetDeleted, id).WithOffice(officeID))
	return nil
}

// CreateAsset validates req, resolves its references and inserts the asset,
// all or nothing.
func (s *AssetService) CreateAsset(ctx context.Context, req dtos.AssetRequest) (*models.Asset, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	asset := &models.Asset{
		SerialNumber:    strings.TrimSpace(req.SerialNumber),
		AcquisitionDate: req.AcquisitionDate,
	}
	err := s.store.WithinTx(ctx, func(tx repositories.InventoryStore) error {
		if err := resolveRefs(ctx, tx, asset, req); err != nil {
			return err
		}
		return tx.Assets().Create(ctx, asset)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewAssetEvent(events.AssetCreated, asset.ID).WithOffice(asset.Office.ID))
	return asset, nil
}

// UpdateAsset overwrites every field of an existing asset from req.
func (s *AssetService) UpdateAsset(ctx context.Context, id int64, req dtos.AssetRequest) (*models.Asset, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	var asset *models.Asset
	err := s.store.WithinTx(ctx, func(tx repositories.InventoryStore) error {
		a, err := lockAsset(ctx, tx, id)
		if err != nil {
			return err
		}
		if req.RowVersion != 0 && req.RowVersion != a.RowVersion {
			return fmt.Errorf("asset %d: %w", id, utils.ErrRowVersionConflict)
		}
		a.SerialNumber = strings.TrimSpace(req.SerialNumber)
		a.AcquisitionDate = req.AcquisitionDate
		a.SoftwareLicenses = nil
		if err := resolveRefs(ctx, tx, a, req); err != nil {
			return err
		}
		asset = a
		return persistLocked(ctx, tx, a)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewAssetEvent(events.AssetUpdated, asset.ID).WithOffice(asset.Office.ID))
	return asset, nil
}

// MoveAsset reassigns an asset to another office. A missing office or
// asset leaves everything unchanged.
func (s *AssetService) MoveAsset(ctx context.Context, assetID, officeID int64) (*models.Asset, error) {
	var asset *models.Asset
	err := s.store.WithinTx(ctx, func(tx repositories.InventoryStore) error {
		office, err := tx.Offices().GetByID(ctx, officeID)
		if err != nil {
			return err
		}
		if office == nil {
			return utils.NotFoundf("office %d", officeID)
		}
		a, err := lockAsset(ctx, tx, assetID)
		if err != nil {
			return err
		}
		a.Office = *office
		asset = a
		return persistLocked(ctx, tx, a)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewAssetEvent(events.AssetMoved, assetID).WithOffice(officeID))
	return asset, nil
}

// InstallSoftware attaches a license to an asset. Installing a license the
// asset already holds changes nothing.
func (s *AssetService) InstallSoftware(ctx context.Context, assetID, licenseID int64) (*models.Asset, error) {
	return s.changeLicenses(ctx, assetID, licenseID, events.AssetSoftwareInstalled,
		func(a *models.Asset, l models.SoftwareLicense) bool { return a.AddLicense(l) })
}

// RemoveSoftware detaches a license from an asset. Removing a license the
// asset does not hold changes nothing.
func (s *AssetService) RemoveSoftware(ctx context.Context, assetID, licenseID int64) (*models.Asset, error) {
	return s.changeLicenses(ctx, assetID, licenseID, events.AssetSoftwareRemoved,
		func(a *models.Asset, l models.SoftwareLicense) bool { return a.RemoveLicense(l.ID) })
}

func (s *AssetService) changeLicenses(
	ctx context.Context,
	assetID, licenseID int64,
	eventType string,
	apply func(*models.Asset, models.SoftwareLicense) bool,
) (*models.Asset, error) {
	var (
		asset   *models.Asset
		changed bool
	)
	err := s.store.WithinTx(ctx, func(tx repositories.InventoryStore) error {
		license, err := tx.SoftwareLicenses().GetByID(ctx, licenseID)
		if err != nil {
			return err
		}
		if license == nil {
			return utils.NotFoundf("software license %d", licenseID)
		}
		a, err := lockAsset(ctx, tx, assetID)
		if err != nil {
			return err
		}
		asset = a
		if changed = apply(a, *license); !changed {
			return nil
		}
		return persistLocked(ctx, tx, a)
	})
	if err != nil {
		return nil, err
	}

	if changed {
		ev := events.NewAssetEvent(eventType, assetID).WithOffice(asset.Office.ID).WithLicense(licenseID)
		s.publish(ctx, ev)
	}
	return asset, nil
}

func (s *AssetService) publish(ctx context.Context, ev events.AssetEvent) {
	if err := s.publisher.PublishAssetEvent(ctx, ev); err != nil {
		utils.Logger.WithError(err).WithFields(logrus.Fields{
			"event_type": ev.EventType,
			"asset_id":   ev.AssetID,
		}).Warn("Failed to publish asset event")
	}
}

func lockAsset(ctx context.Context, tx repositories.InventoryStore, id int64) (*models.Asset, error) {
	a, err := tx.Assets().GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, utils.NotFoundf("asset %d", id)
	}
	return a, nil
}

// persistLocked writes an asset read with lockAsset in the same transaction.
func persistLocked(ctx context.Context, tx repositories.InventoryStore, a *models.Asset) error {
	tag, err := tx.Assets().UpdateIfVersion(ctx, a, a.RowVersion)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("asset %d: %w", a.ID, utils.ErrRowVersionConflict)
	}
	return nil
}

// resolveRefs loads the office, asset type and licenses named by req into a.
// The first missing reference is NotFound.
func resolveRefs(ctx context.Context, tx repositories.InventoryStore, a *models.Asset, req dtos.AssetRequest) error {
	officeID := req.Office.Value()
	office, err := tx.Offices().GetByID(ctx, officeID)
	if err != nil {
		return err
	}
	if office == nil {
		return utils.NotFoundf("office %d", officeID)
	}
	a.Office = *office

	typeID := req.AssetType.Value()
	assetType, err := tx.AssetTypes().GetByID(ctx, typeID)
	if err != nil {
		return err
	}
	if assetType == nil {
		return utils.NotFoundf("asset type %d", typeID)
	}
	a.AssetType = *assetType

	for _, ref := range req.SoftwareLicenses {
		id := ref.Value()
		license, err := tx.SoftwareLicenses().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if license == nil {
			return utils.NotFoundf("software license %d", id)
		}
		a.AddLicense(*license)
	}
	return nil
}
