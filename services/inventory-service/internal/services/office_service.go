package services

import (
	"context"
	"strings"

	"github.com/AndreaCerratoSP/CIAMS/services/inventory-service/internal/dtos"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-cache"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-models"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-repositories"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-utils"
)

type OfficeService struct {
	store repositories.InventoryStore
	cache cache.Cache
}

// NewOfficeService returns an OfficeService. A nil cache disables caching
// of the Offices region.
func NewOfficeService(store repositories.InventoryStore, c cache.Cache) *OfficeService {
	return &OfficeService{store: store, cache: c}
}

func (s *OfficeService) GetAllOffices(ctx context.Context) ([]*models.Office, error) {
	return cache.ReadThrough(ctx, s.cache, cache.RegionOffices, cache.KeyAll,
		func(ctx context.Context) ([]*models.Office, error) {
			return s.store.Offices().List(ctx)
		})
}

func (s *OfficeService) GetOfficeByID(ctx context.Context, id int64) (*models.Office, error) {
	return cache.ReadThrough(ctx, s.cache, cache.RegionOffices, cache.KeyByID(id),
		func(ctx context.Context) (*models.Office, error) {
			o, err := s.store.Offices().GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			if o == nil {
				return nil, utils.NotFoundf("office %d", id)
			}
			return o, nil
		})
}

// GetOfficeByName is an exact match on the office name.
func (s *OfficeService) GetOfficeByName(ctx context.Context, name string) (*models.Office, error) {
	return cache.ReadThrough(ctx, s.cache, cache.RegionOffices, cache.KeyByName(name),
		func(ctx context.Context) (*models.Office, error) {
			o, err := s.store.Offices().GetByName(ctx, name)
			if err != nil {
				return nil, err
			}
			if o == nil {
				return nil, utils.NotFoundf("office %q", name)
			}
			return o, nil
		})
}

// SaveOffice inserts o when it has no id and overwrites it otherwise.
func (s *OfficeService) SaveOffice(ctx context.Context, o *models.Office) (*models.Office, error) {
	repo := s.store.Offices()
	if err := s.ensureNameFree(ctx, o.Name, o.ID); err != nil {
		return nil, err
	}
	if err := saveEntity(ctx, "office", o, repo.Create, repo.GetByID, repo.UpdateIfVersion); err != nil {
		return nil, err
	}
	cache.Evict(ctx, s.cache, cache.RegionOffices)
	return o, nil
}

func (s *OfficeService) CreateOffice(ctx context.Context, req dtos.OfficeRequest) (*models.Office, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	return s.SaveOffice(ctx, &models.Office{Name: strings.TrimSpace(req.Name)})
}

func (s *OfficeService) UpdateOffice(ctx context.Context, id int64, req dtos.OfficeRequest) (*models.Office, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if err := s.ensureNameFree(ctx, name, id); err != nil {
		return nil, err
	}

	repo := s.store.Offices()
	var updated *models.Office
	err := updateEntity[*models.Office](ctx, "office", id, req.RowVersion, repo,
		func(o *models.Office) error {
			o.Name = name
			updated = o
			return nil
		})
	if err != nil {
		return nil, err
	}
	cache.Evict(ctx, s.cache, cache.RegionOffices)
	return updated, nil
}

// DeleteOffice removes an office that no asset references.
func (s *OfficeService) DeleteOffice(ctx context.Context, id int64) error {
	err := s.store.WithinTx(ctx, func(tx repositories.InventoryStore) error {
		o, err := tx.Offices().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return utils.NotFoundf("office %d", id)
		}
		n, err := tx.Assets().CountByOfficeID(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return utils.Conflictf("office %d still holds %d asset(s)", id, n)
		}
		return tx.Offices().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	cache.Evict(ctx, s.cache, cache.RegionOffices)
	return nil
}

func (s *OfficeService) ensureNameFree(ctx context.Context, name string, selfID int64) error {
	existing, err := s.store.Offices().GetByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return utils.Conflictf("office name %q already in use", name)
	}
	return nil
}
