package seeding

import (
	"context"
	"fmt"
	"time"

	"github.com/AndreaCerratoSP/CIAMS/shared/go-models"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-repositories"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-utils"
)

const DefaultOfficeName = "HQ"

// SeedInventory loads a small demo inventory in one transaction. It does
// nothing when the default office already exists.
func SeedInventory(ctx context.Context, store repositories.InventoryStore) error {
	existing, err := store.Offices().GetByName(ctx, DefaultOfficeName)
	if err != nil {
		return fmt.Errorf("error checking for existing seed office: %w", err)
	}
	if existing != nil {
		utils.Logger.Infof("Seed office %q already exists (ID=%d); skipping inventory seed.", existing.Name, existing.ID)
		return nil
	}

	now := time.Now().UTC().Truncate(24 * time.Hour)
	var assets int
	err = store.WithinTx(ctx, func(tx repositories.InventoryStore) error {
		hq := &models.Office{Name: DefaultOfficeName}
		branch := &models.Office{Name: "Branch Office"}
		for _, o := range []*models.Office{hq, branch} {
			if err := tx.Offices().Create(ctx, o); err != nil {
				return fmt.Errorf("failed to insert office %q: %w", o.Name, err)
			}
		}

		laptop := &models.AssetType{Name: "Laptop", Description: "Portable workstation"}
		monitor := &models.AssetType{Name: "Monitor", Description: "External display"}
		phone := &models.AssetType{Name: "Phone", Description: "Company mobile phone"}
		for _, at := range []*models.AssetType{laptop, monitor, phone} {
			if err := tx.AssetTypes().Create(ctx, at); err != nil {
				return fmt.Errorf("failed to insert asset type %q: %w", at.Name, err)
			}
		}

		suite := &models.SoftwareLicense{Name: "Office Suite", ExpireDate: now.AddDate(1, 0, 0)}
		antivirus := &models.SoftwareLicense{Name: "Antivirus", ExpireDate: now.AddDate(0, 0, 14)}
		ide := &models.SoftwareLicense{Name: "IDE Professional", ExpireDate: now.AddDate(0, 6, 0)}
		for _, l := range []*models.SoftwareLicense{suite, antivirus, ide} {
			if err := tx.SoftwareLicenses().Create(ctx, l); err != nil {
				return fmt.Errorf("failed to insert license %q: %w", l.Name, err)
			}
		}

		acquired := models.DateOf(now.AddDate(-1, 0, 0))
		seed := []*models.Asset{
			{SerialNumber: "SN-001", AcquisitionDate: &acquired, Office: *hq, AssetType: *laptop,
				SoftwareLicenses: []models.SoftwareLicense{*suite, *antivirus, *ide}},
			{SerialNumber: "SN-002", Office: *hq, AssetType: *monitor},
			{SerialNumber: "SN-003", Office: *branch, AssetType: *phone,
				SoftwareLicenses: []models.SoftwareLicense{*antivirus}},
		}
		for _, a := range seed {
			if err := tx.Assets().Create(ctx, a); err != nil {
				return fmt.Errorf("failed to insert asset %q: %w", a.SerialNumber, err)
			}
		}
		assets = len(seed)
		return nil
	})
	if err != nil {
		return err
	}

	utils.Logger.Infof("Successfully seeded demo inventory (%d assets).", assets)
	return nil
}
