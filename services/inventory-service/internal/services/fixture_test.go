package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AndreaCerratoSP/CIAMS/services/inventory-service/internal/dtos"
	"github.com/AndreaCerratoSP/CIAMS/services/inventory-service/internal/events"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-cache"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-models"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-repositories"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.AssetEvent
	err    error
}

func (p *recordingPublisher) PublishAssetEvent(_ context.Context, evt events.AssetEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType)
	}
	return out
}

type fixture struct {
	store     repositories.InventoryStore
	cache     *cache.LRU
	publisher *recordingPublisher

	offices    *OfficeService
	assetTypes *AssetTypeService
	licenses   *SoftwareLicenseService
	assets     *AssetService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repositories.NewMemoryStore()
	c := cache.NewLRU(cache.DefaultMaxEntries, time.Hour)
	pub := &recordingPublisher{}
	return &fixture{
		store:      store,
		cache:      c,
		publisher:  pub,
		offices:    NewOfficeService(store, c),
		assetTypes: NewAssetTypeService(store, c),
		licenses:   NewSoftwareLicenseService(store),
		assets:     NewAssetService(store, pub),
	}
}

func ref(id int64) *dtos.EntityRef { return &dtos.EntityRef{ID: &id} }

func (f *fixture) office(t *testing.T, name string) *models.Office {
	t.Helper()
	o, err := f.offices.CreateOffice(context.Background(), dtos.OfficeRequest{Name: name})
	require.NoError(t, err)
	return o
}

func (f *fixture) assetType(t *testing.T, name string) *models.AssetType {
	t.Helper()
	at, err := f.assetTypes.CreateAssetType(context.Background(), dtos.AssetTypeRequest{Name: name})
	require.NoError(t, err)
	return at
}

func (f *fixture) license(t *testing.T, name string, expires time.Time) *models.SoftwareLicense {
	t.Helper()
	l, err := f.licenses.CreateLicense(context.Background(), dtos.SoftwareLicenseRequest{Name: name, ExpireDate: &expires})
	require.NoError(t, err)
	return l
}

func (f *fixture) asset(t *testing.T, serial string, officeID, typeID int64) *models.Asset {
	t.Helper()
	a, err := f.assets.CreateAsset(context.Background(), dtos.AssetRequest{
		SerialNumber: serial,
		Office:       ref(officeID),
		AssetType:    ref(typeID),
	})
	require.NoError(t, err)
	return a
}
