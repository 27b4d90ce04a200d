package repositories

import (
	"context"
)

// InventoryStore groups the inventory repositories so multi-entity
// operations can run against one transaction.
type InventoryStore interface {
	Offices() OfficeRepository
	AssetTypes() AssetTypeRepository
	SoftwareLicenses() SoftwareLicenseRepository
	Assets() AssetRepository

	// WithinTx runs fn with repositories bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(tx InventoryStore) error) error
	Ping(ctx context.Context) error
}

type pgStore struct {
	db         DB
	offices    OfficeRepository
	assetTypes AssetTypeRepository
	licenses   SoftwareLicenseRepository
	assets     AssetRepository
}

func NewInventoryStore(db DB) InventoryStore {
	return &pgStore{
		db:         db,
		offices:    NewOfficeRepository(db),
		assetTypes: NewAssetTypeRepository(db),
		licenses:   NewSoftwareLicenseRepository(db),
		assets:     NewAssetRepository(db),
	}
}

func (s *pgStore) Offices() OfficeRepository                   { return s.offices }
func (s *pgStore) AssetTypes() AssetTypeRepository             { return s.assetTypes }
func (s *pgStore) SoftwareLicenses() SoftwareLicenseRepository { return s.licenses }
func (s *pgStore) Assets() AssetRepository                     { return s.assets }

func (s *pgStore) WithinTx(ctx context.Context, fn func(tx InventoryStore) error) error {
	return inTx(ctx, s.db, func(tx DB) error {
		return fn(NewInventoryStore(tx))
	})
}

func (s *pgStore) Ping(ctx context.Context) error {
	_, err := s.db.Exec(ctx, "SELECT 1")
	return err
}
