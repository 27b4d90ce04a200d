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

type AssetTypeService struct {
	store repositories.InventoryStore
	cache cache.Cache
}

func NewAssetTypeService(store repositories.InventoryStore, c cache.Cache) *AssetTypeService {
	return &AssetTypeService{store: store, cache: c}
}

func (s *AssetTypeService) GetAllAssetTypes(ctx context.Context) ([]*models.AssetType, error) {
	return cache.ReadThrough(ctx, s.cache, cache.RegionAssetTypes, cache.KeyAll,
		func(ctx context.Context) ([]*models.AssetType, error) {
			return s.store.AssetTypes().List(ctx)
		})
}

func (s *AssetTypeService) GetAssetTypeByID(ctx context.Context, id int64) (*models.AssetType, error) {
	return cache.ReadThrough(ctx, s.cache, cache.RegionAssetTypes, cache.KeyByID(id),
		func(ctx context.Context) (*models.AssetType, error) {
			t, err := s.store.AssetTypes().GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			if t == nil {
				return nil, utils.NotFoundf("asset type %d", id)
			}
			return t, nil
		})
}

// GetAssetTypesByName returns the asset types whose name contains
// fragment, ignoring case. No match is NotFound.
func (s *AssetTypeService) GetAssetTypesByName(ctx context.Context, fragment string) ([]*models.AssetType, error) {
	return cache.ReadThrough(ctx, s.cache, cache.RegionAssetTypes, cache.KeyByName(fragment),
		func(ctx context.Context) ([]*models.AssetType, error) {
			list, err := s.store.AssetTypes().SearchByName(ctx, fragment)
			if err != nil {
				return nil, err
			}
			if len(list) == 0 {
				return nil, utils.NotFoundf("asset type named like %q", fragment)
			}
			return list, nil
		})
}

func (s *AssetTypeService) SaveAssetType(ctx context.Context, t *models.AssetType) (*models.AssetType, error) {
	repo := s.store.AssetTypes()
	if err := saveEntity(ctx, "asset type", t, repo.Create, repo.GetByID, repo.UpdateIfVersion); err != nil {
		return nil, err
	}
	cache.Evict(ctx, s.cache, cache.RegionAssetTypes)
	return t, nil
}

func (s *AssetTypeService) CreateAssetType(ctx context.Context, req dtos.AssetTypeRequest) (*models.AssetType, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	return s.SaveAssetType(ctx, &models.AssetType{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	})
}

func (s *AssetTypeService) UpdateAssetType(ctx context.Context, id int64, req dtos.AssetTypeRequest) (*models.AssetType, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	repo := s.store.AssetTypes()
	var updated *models.AssetType
	err := updateEntity[*models.AssetType](ctx, "asset type", id, req.RowVersion, repo,
		func(t *models.AssetType) error {
			t.Name = strings.TrimSpace(req.Name)
			t.Description = req.Description
			updated = t
			return nil
		})
	if err != nil {
		return nil, err
	}
	cache.Evict(ctx, s.cache, cache.RegionAssetTypes)
	return updated, nil
}

// DeleteAssetType removes an asset type that no asset references.
func (s *AssetTypeService) DeleteAssetType(ctx context.Context, id int64) error {
	err := s.store.WithinTx(ctx, func(tx repositories.InventoryStore) error {
		t, err := tx.AssetTypes().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if t == nil {
			return utils.NotFoundf("asset type %d", id)
		}
		n, err := tx.Assets().CountByAssetTypeID(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return utils.Conflictf("asset type %d is used by %d asset(s)", id, n)
		}
		return tx.AssetTypes().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	cache.Evict(ctx, s.cache, cache.RegionAssetTypes)
	return nil
}
