package services

import (
	"context"
	"strings"
	"time"

	"github.com/AndreaCerratoSP/CIAMS/services/inventory-service/internal/dtos"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-models"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-repositories"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-utils"
)

// ExpiryWindow is how far ahead the expiring-licenses report looks.
const ExpiryWindow = 30 * 24 * time.Hour

type SoftwareLicenseService struct {
	store repositories.InventoryStore
	now   func() time.Time
}

func NewSoftwareLicenseService(store repositories.InventoryStore) *SoftwareLicenseService {
	return &SoftwareLicenseService{store: store, now: time.Now}
}

// WithClock replaces the time source used for expiry reports.
func (s *SoftwareLicenseService) WithClock(now func() time.Time) *SoftwareLicenseService {
	s.now = now
	return s
}

func (s *SoftwareLicenseService) GetAllLicenses(ctx context.Context) ([]*models.SoftwareLicense, error) {
	return s.store.SoftwareLicenses().List(ctx)
}

func (s *SoftwareLicenseService) GetLicenseByID(ctx context.Context, id int64) (*models.SoftwareLicense, error) {
	l, err := s.store.SoftwareLicenses().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, utils.NotFoundf("software license %d", id)
	}
	return l, nil
}

// GetLicensesByName returns the licenses whose name contains fragment,
// ignoring case. No match is NotFound.
func (s *SoftwareLicenseService) GetLicensesByName(ctx context.Context, fragment string) ([]*models.SoftwareLicense, error) {
	list, err := s.store.SoftwareLicenses().SearchByName(ctx, fragment)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, utils.NotFoundf("software license named like %q", fragment)
	}
	return list, nil
}

// GetLicensesExpiringWithin lists licenses with now <= expire_date <= now+window.
func (s *SoftwareLicenseService) GetLicensesExpiringWithin(ctx context.Context, window time.Duration) ([]*models.SoftwareLicense, error) {
	from := s.now()
	return s.store.SoftwareLicenses().ListExpiringBetween(ctx, from, from.Add(window))
}

func (s *SoftwareLicenseService) SaveLicense(ctx context.Context, l *models.SoftwareLicense) (*models.SoftwareLicense, error) {
	repo := s.store.SoftwareLicenses()
	if err := saveEntity(ctx, "software license", l, repo.Create, repo.GetByID, repo.UpdateIfVersion); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *SoftwareLicenseService) CreateLicense(ctx context.Context, req dtos.SoftwareLicenseRequest) (*models.SoftwareLicense, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	return s.SaveLicense(ctx, &models.SoftwareLicense{
		Name:       strings.TrimSpace(req.Name),
		ExpireDate: req.ExpireDate.UTC(),
	})
}

func (s *SoftwareLicenseService) UpdateLicense(ctx context.Context, id int64, req dtos.SoftwareLicenseRequest) (*models.SoftwareLicense, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	repo := s.store.SoftwareLicenses()
	var updated *models.SoftwareLicense
	err := updateEntity[*models.SoftwareLicense](ctx, "software license", id, req.RowVersion, repo,
		func(l *models.SoftwareLicense) error {
			l.Name = strings.TrimSpace(req.Name)
			l.ExpireDate = req.ExpireDate.UTC()
			updated = l
			return nil
		})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteLicense removes the license and detaches it from every asset.
func (s *SoftwareLicenseService) DeleteLicense(ctx context.Context, id int64) error {
	return s.store.WithinTx(ctx, func(tx repositories.InventoryStore) error {
		l, err := tx.SoftwareLicenses().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if l == nil {
			return utils.NotFoundf("software license %d", id)
		}
		return tx.SoftwareLicenses().Delete(ctx, id)
	})
}
