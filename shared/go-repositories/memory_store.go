package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgconn"

	"github.com/AndreaCerratoSP/CIAMS/shared/go-models"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-utils"
)

// memAsset is the stored shape of an asset: references by id, like the
// relational rows.
type memAsset struct {
	id              int64
	serialNumber    string
	acquisitionDate *models.Date
	officeID        int64
	assetTypeID     int64
	licenseIDs      []int64
	rowVersion      int64
}

type memoryState struct {
	offices    map[int64]models.Office
	assetTypes map[int64]models.AssetType
	licenses   map[int64]models.SoftwareLicense
	assets     map[int64]memAsset

	// one sequence per table, like BIGSERIAL
	seq struct{ office, assetType, license, asset int64 }
}

func newMemoryState() *memoryState {
	return &memoryState{
		offices:    map[int64]models.Office{},
		assetTypes: map[int64]models.AssetType{},
		licenses:   map[int64]models.SoftwareLicense{},
		assets:     map[int64]memAsset{},
	}
}

func (s *memoryState) clone() *memoryState {
	c := &memoryState{
		offices:    make(map[int64]models.Office, len(s.offices)),
		assetTypes: make(map[int64]models.AssetType, len(s.assetTypes)),
		licenses:   make(map[int64]models.SoftwareLicense, len(s.licenses)),
		assets:     make(map[int64]memAsset, len(s.assets)),
		seq:        s.seq,
	}
	for k, v := range s.offices {
		c.offices[k] = v
	}
	for k, v := range s.assetTypes {
		c.assetTypes[k] = v
	}
	for k, v := range s.licenses {
		c.licenses[k] = v
	}
	for k, v := range s.assets {
		v.licenseIDs = append([]int64(nil), v.licenseIDs...)
		c.assets[k] = v
	}
	return c
}

func nextID(seq *int64) int64 {
	*seq++
	return *seq
}

// memoryStore is an InventoryStore kept in process memory. Transactions
// hold the store lock and work on a copy that replaces the live state on
// commit, so a failed WithinTx leaves no trace.
type memoryStore struct {
	mu   *sync.Mutex
	root **memoryState
	tx   *memoryState
}

// NewMemoryStore returns an empty in-memory InventoryStore.
func NewMemoryStore() InventoryStore {
	state := newMemoryState()
	return &memoryStore{mu: &sync.Mutex{}, root: &state}
}

func (s *memoryStore) Offices() OfficeRepository                   { return memOfficeRepo{s} }
func (s *memoryStore) AssetTypes() AssetTypeRepository             { return memAssetTypeRepo{s} }
func (s *memoryStore) SoftwareLicenses() SoftwareLicenseRepository { return memLicenseRepo{s} }
func (s *memoryStore) Assets() AssetRepository                     { return memAssetRepo{s} }

func (s *memoryStore) WithinTx(ctx context.Context, fn func(tx InventoryStore) error) error {
	if s.tx != nil {
		// nested: behaves like a savepoint
		inner := s.tx.clone()
		if err := fn(&memoryStore{mu: s.mu, root: s.root, tx: inner}); err != nil {
			return err
		}
		*s.tx = *inner
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	work := (*s.root).clone()
	if err := fn(&memoryStore{mu: s.mu, root: s.root, tx: work}); err != nil {
		return err
	}
	*s.root = work
	return nil
}

func (s *memoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// with runs fn against the transaction copy, or the live state under lock.
func (s *memoryStore) with(fn func(st *memoryState) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(*s.root)
}

func (st *memoryState) toAsset(a memAsset) *models.Asset {
	out := &models.Asset{
		ID:               a.id,
		SerialNumber:     a.serialNumber,
		Office:           st.offices[a.officeID],
		AssetType:        st.assetTypes[a.assetTypeID],
		SoftwareLicenses: make([]models.SoftwareLicense, 0, len(a.licenseIDs)),
	}
	out.RowVersion = a.rowVersion
	if a.acquisitionDate != nil {
		t := *a.acquisitionDate
		out.AcquisitionDate = &t
	}
	ids := append([]int64(nil), a.licenseIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if l, ok := st.licenses[id]; ok {
			out.SoftwareLicenses = append(out.SoftwareLicenses, l)
		}
	}
	return out
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func containsFold(s, fragment string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(fragment))
}

/* ---------- offices ---------- */

type memOfficeRepo struct{ s *memoryStore }

func (r memOfficeRepo) Create(_ context.Context, o *models.Office) error {
	return r.s.with(func(st *memoryState) error {
		for _, existing := range st.offices {
			if existing.Name == o.Name {
				return utils.Conflictf("duplicate value violates office_name_key")
			}
		}
		o.ID = nextID(&st.seq.office)
		o.RowVersion = 1
		st.offices[o.ID] = *o
		return nil
	})
}

func (r memOfficeRepo) GetByID(_ context.Context, id int64) (*models.Office, error) {
	var out *models.Office
	err := r.s.with(func(st *memoryState) error {
		if o, ok := st.offices[id]; ok {
			out = &o
		}
		return nil
	})
	return out, err
}

func (r memOfficeRepo) GetByName(_ context.Context, name string) (*models.Office, error) {
	var out *models.Office
	err := r.s.with(func(st *memoryState) error {
		for _, id := range sortedKeys(st.offices) {
			if o := st.offices[id]; o.Name == name {
				out = &o
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r memOfficeRepo) List(_ context.Context) ([]*models.Office, error) {
	out := []*models.Office{}
	err := r.s.with(func(st *memoryState) error {
		for _, id := range sortedKeys(st.offices) {
			o := st.offices[id]
			out = append(out, &o)
		}
		return nil
	})
	return out, err
}

func (r memOfficeRepo) UpdateIfVersion(_ context.Context, o *models.Office, expected int64) (pgconn.CommandTag, error) {
	updated := false
	err := r.s.with(func(st *memoryState) error {
		cur, ok := st.offices[o.ID]
		if !ok || cur.RowVersion != expected {
			return nil
		}
		for id, existing := range st.offices {
			if id != o.ID && existing.Name == o.Name {
				return utils.Conflictf("duplicate value violates office_name_key")
			}
		}
		o.RowVersion = expected + 1
		st.offices[o.ID] = *o
		updated = true
		return nil
	})
	return versionTag(updated), err
}

func (r memOfficeRepo) UpdateWithRetry(ctx context.Context, id int64, mutate func(*models.Office) error) error {
	return WithRetry(ctx, defaultMaxRetries, id, r.GetByID, r.UpdateIfVersion, mutate)
}

func (r memOfficeRepo) Delete(_ context.Context, id int64) error {
	return r.s.with(func(st *memoryState) error {
		if _, ok := st.offices[id]; !ok {
			return utils.NotFoundf("office %d", id)
		}
		for _, a := range st.assets {
			if a.officeID == id {
				return utils.Conflictf("reference constraint asset_office_id_fkey violated")
			}
		}
		delete(st.offices, id)
		return nil
	})
}

/* ---------- asset types ---------- */

type memAssetTypeRepo struct{ s *memoryStore }

func (r memAssetTypeRepo) Create(_ context.Context, t *models.AssetType) error {
	return r.s.with(func(st *memoryState) error {
		t.ID = nextID(&st.seq.assetType)
		t.RowVersion = 1
		st.assetTypes[t.ID] = *t
		return nil
	})
}

func (r memAssetTypeRepo) GetByID(_ context.Context, id int64) (*models.AssetType, error) {
	var out *models.AssetType
	err := r.s.with(func(st *memoryState) error {
		if t, ok := st.assetTypes[id]; ok {
			out = &t
		}
		return nil
	})
	return out, err
}

func (r memAssetTypeRepo) SearchByName(_ context.Context, fragment string) ([]*models.AssetType, error) {
	out := []*models.AssetType{}
	err := r.s.with(func(st *memoryState) error {
		for _, id := range sortedKeys(st.assetTypes) {
			if t := st.assetTypes[id]; containsFold(t.Name, fragment) {
				out = append(out, &t)
			}
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return nil
	})
	return out, err
}

func (r memAssetTypeRepo) List(_ context.Context) ([]*models.AssetType, error) {
	out := []*models.AssetType{}
	err := r.s.with(func(st *memoryState) error {
		for _, id := range sortedKeys(st.assetTypes) {
			t := st.assetTypes[id]
			out = append(out, &t)
		}
		return nil
	})
	return out, err
}

func (r memAssetTypeRepo) UpdateIfVersion(_ context.Context, t *models.AssetType, expected int64) (pgconn.CommandTag, error) {
	updated := false
	err := r.s.with(func(st *memoryState) error {
		cur, ok := st.assetTypes[t.ID]
		if !ok || cur.RowVersion != expected {
			return nil
		}
		t.RowVersion = expected + 1
		st.assetTypes[t.ID] = *t
		updated = true
		return nil
	})
	return versionTag(updated), err
}

func (r memAssetTypeRepo) UpdateWithRetry(ctx context.Context, id int64, mutate func(*models.AssetType) error) error {
	return WithRetry(ctx, defaultMaxRetries, id, r.GetByID, r.UpdateIfVersion, mutate)
}

func (r memAssetTypeRepo) Delete(_ context.Context, id int64) error {
	return r.s.with(func(st *memoryState) error {
		if _, ok := st.assetTypes[id]; !ok {
			return utils.NotFoundf("asset type %d", id)
		}
		for _, a := range st.assets {
			if a.assetTypeID == id {
				return utils.Conflictf("reference constraint asset_asset_type_id_fkey violated")
			}
		}
		delete(st.assetTypes, id)
		return nil
	})
}

/* ---------- software licenses ---------- */

type memLicenseRepo struct{ s *memoryStore }

func (r memLicenseRepo) Create(_ context.Context, l *models.SoftwareLicense) error {
	return r.s.with(func(st *memoryState) error {
		l.ID = nextID(&st.seq.license)
		l.RowVersion = 1
		st.licenses[l.ID] = *l
		return nil
	})
}

func (r memLicenseRepo) GetByID(_ context.Context, id int64) (*models.SoftwareLicense, error) {
	var out *models.SoftwareLicense
	err := r.s.with(func(st *memoryState) error {
		if l, ok := st.licenses[id]; ok {
			out = &l
		}
		return nil
	})
	return out, err
}

func (r memLicenseRepo) SearchByName(_ context.Context, fragment string) ([]*models.SoftwareLicense, error) {
	return r.filter(func(l models.SoftwareLicense) bool { return containsFold(l.Name, fragment) },
		func(a, b *models.SoftwareLicense) bool { return a.Name < b.Name })
}

func (r memLicenseRepo) List(_ context.Context) ([]*models.SoftwareLicense, error) {
	return r.filter(func(models.SoftwareLicense) bool { return true }, nil)
}

func (r memLicenseRepo) ListExpiringBetween(_ context.Context, from, to time.Time) ([]*models.SoftwareLicense, error) {
	return r.filter(func(l models.SoftwareLicense) bool {
		return !l.ExpireDate.Before(from) && !l.ExpireDate.After(to)
	}, func(a, b *models.SoftwareLicense) bool { return a.ExpireDate.Before(b.ExpireDate) })
}

func (r memLicenseRepo) filter(keep func(models.SoftwareLicense) bool, less func(a, b *models.SoftwareLicense) bool) ([]*models.SoftwareLicense, error) {
	out := []*models.SoftwareLicense{}
	err := r.s.with(func(st *memoryState) error {
		for _, id := range sortedKeys(st.licenses) {
			if l := st.licenses[id]; keep(l) {
				out = append(out, &l)
			}
		}
		if less != nil {
			sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
		}
		return nil
	})
	return out, err
}

func (r memLicenseRepo) UpdateIfVersion(_ context.Context, l *models.SoftwareLicense, expected int64) (pgconn.CommandTag, error) {
	updated := false
	err := r.s.with(func(st *memoryState) error {
		cur, ok := st.licenses[l.ID]
		if !ok || cur.RowVersion != expected {
			return nil
		}
		l.RowVersion = expected + 1
		st.licenses[l.ID] = *l
		updated = true
		return nil
	})
	return versionTag(updated), err
}

func (r memLicenseRepo) UpdateWithRetry(ctx context.Context, id int64, mutate func(*models.SoftwareLicense) error) error {
	return WithRetry(ctx, defaultMaxRetries, id, r.GetByID, r.UpdateIfVersion, mutate)
}

func (r memLicenseRepo) Delete(_ context.Context, id int64) error {
	return r.s.with(func(st *memoryState) error {
		if _, ok := st.licenses[id]; !ok {
			return utils.NotFoundf("software license %d", id)
		}
		delete(st.licenses, id)
		for assetID, a := range st.assets {
			kept := a.licenseIDs[:0:0]
			for _, lid := range a.licenseIDs {
				if lid != id {
					kept = append(kept, lid)
				}
			}
			a.licenseIDs = kept
			st.assets[assetID] = a
		}
		return nil
	})
}

/* ---------- assets ---------- */

type memAssetRepo struct{ s *memoryStore }

func (r memAssetRepo) checkRefs(st *memoryState, a *models.Asset) error {
	if _, ok := st.offices[a.Office.ID]; !ok {
		return utils.Conflictf("reference constraint asset_office_id_fkey violated")
	}
	if _, ok := st.assetTypes[a.AssetType.ID]; !ok {
		return utils.Conflictf("reference constraint asset_asset_type_id_fkey violated")
	}
	for _, id := range a.LicenseIDs() {
		if _, ok := st.licenses[id]; !ok {
			return utils.Conflictf("reference constraint asset_licence_licence_id_fkey violated")
		}
	}
	return nil
}

func toMemAsset(a *models.Asset) memAsset {
	m := memAsset{
		id:           a.ID,
		serialNumber: a.SerialNumber,
		officeID:     a.Office.ID,
		assetTypeID:  a.AssetType.ID,
		rowVersion:   a.RowVersion,
	}
	if a.AcquisitionDate != nil {
		t := *a.AcquisitionDate
		m.acquisitionDate = &t
	}
	seen := map[int64]bool{}
	for _, id := range a.LicenseIDs() {
		if !seen[id] {
			seen[id] = true
			m.licenseIDs = append(m.licenseIDs, id)
		}
	}
	return m
}

func (r memAssetRepo) Create(_ context.Context, a *models.Asset) error {
	return r.s.with(func(st *memoryState) error {
		if err := r.checkRefs(st, a); err != nil {
			return err
		}
		a.ID = nextID(&st.seq.asset)
		a.RowVersion = 1
		st.assets[a.ID] = toMemAsset(a)
		return nil
	})
}

func (r memAssetRepo) GetByID(_ context.Context, id int64) (*models.Asset, error) {
	var out *models.Asset
	err := r.s.with(func(st *memoryState) error {
		if a, ok := st.assets[id]; ok {
			out = st.toAsset(a)
		}
		return nil
	})
	return out, err
}

// GetByIDForUpdate needs no extra locking: transactions already hold the store lock.
func (r memAssetRepo) GetByIDForUpdate(ctx context.Context, id int64) (*models.Asset, error) {
	return r.GetByID(ctx, id)
}

func (r memAssetRepo) GetBySerialNumber(_ context.Context, serial string) (*models.Asset, error) {
	var out *models.Asset
	err := r.s.with(func(st *memoryState) error {
		for _, id := range sortedKeys(st.assets) {
			if a := st.assets[id]; a.serialNumber == serial {
				out = st.toAsset(a)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r memAssetRepo) List(ctx context.Context) ([]*models.Asset, error) {
	return r.filter(func(memAsset) bool { return true })
}

func (r memAssetRepo) ListByOfficeID(_ context.Context, officeID int64) ([]*models.Asset, error) {
	return r.filter(func(a memAsset) bool { return a.officeID == officeID })
}

func (r memAssetRepo) filter(keep func(memAsset) bool) ([]*models.Asset, error) {
	out := []*models.Asset{}
	err := r.s.with(func(st *memoryState) error {
		for _, id := range sortedKeys(st.assets) {
			if a := st.assets[id]; keep(a) {
				out = append(out, st.toAsset(a))
			}
		}
		return nil
	})
	return out, err
}

func (r memAssetRepo) CountByOfficeID(ctx context.Context, officeID int64) (int64, error) {
	list, err := r.ListByOfficeID(ctx, officeID)
	return int64(len(list)), err
}

func (r memAssetRepo) CountByAssetTypeID(_ context.Context, assetTypeID int64) (int64, error) {
	list, err := r.filter(func(a memAsset) bool { return a.assetTypeID == assetTypeID })
	return int64(len(list)), err
}

func (r memAssetRepo) UpdateIfVersion(_ context.Context, a *models.Asset, expected int64) (pgconn.CommandTag, error) {
	updated := false
	err := r.s.with(func(st *memoryState) error {
		cur, ok := st.assets[a.ID]
		if !ok || cur.rowVersion != expected {
			return nil
		}
		if err := r.checkRefs(st, a); err != nil {
			return err
		}
		a.RowVersion = expected + 1
		st.assets[a.ID] = toMemAsset(a)
		updated = true
		return nil
	})
	return versionTag(updated), err
}

func (r memAssetRepo) Delete(_ context.Context, id int64) error {
	return r.s.with(func(st *memoryState) error {
		if _, ok := st.assets[id]; !ok {
			return utils.NotFoundf("asset %d", id)
		}
		delete(st.assets, id)
		return nil
	})
}
