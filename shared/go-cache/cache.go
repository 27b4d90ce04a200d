// Package cache is the read-through cache used in front of the inventory
// lookups. Entries live in named regions; a write to an entity evicts its
// whole region.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AndreaCerratoSP/CIAMS/shared/go-utils"
)

const (
	RegionAssetTypes = "AssetTypes"
	RegionOffices    = "Offices"

	KeyAll = "all"

	DefaultMaxEntries = 10000
	DefaultTTL        = 60 * time.Minute
)

func KeyByID(id int64) string { return fmt.Sprintf("by-id:%d", id) }
func KeyByName(name string) string { return "by-name:" + name }

// Stamp is the region generation observed by a read. Set drops values
// whose stamp is older than the current generation, so a load that raced
// with an eviction cannot repopulate the region with pre-write data.
type Stamp uint64

type Cache interface {
	Get(ctx context.Context, region, key string) (value []byte, stamp Stamp, hit bool, err error)
	Set(ctx context.Context, region, key string, stamp Stamp, value []byte) error
	EvictRegion(ctx context.Context, region string) error
	Ping(ctx context.Context) error
}

// ReadThrough returns the cached value for key, or calls load and caches
// its result. Load errors are returned and never cached. Cache failures
// are logged and fall back to load.
func ReadThrough[T any](ctx context.Context, c Cache, region, key string, load func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return load(ctx)
	}
	logger := utils.Logger.WithFields(logrus.Fields{"region": region, "key": key})

	raw, stamp, hit, err := c.Get(ctx, region, key)
	switch {
	case err != nil:
		logger.WithError(err).Warn("Cache read failed; loading from store")
	case hit:
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			logger.Debug("Cache hit")
			return v, nil
		}
		logger.Warn("Discarding undecodable cache entry")
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if raw, err := json.Marshal(v); err != nil {
		logger.WithError(err).Warn("Cache encode failed")
	} else if err := c.Set(ctx, region, key, stamp, raw); err != nil {
		logger.WithError(err).Warn("Cache write failed")
	}
	return v, nil
}

// Evict drops every entry of region. Failures are logged: the write that
// triggered the eviction has already been committed.
func Evict(ctx context.Context, c Cache, region string) {
	if c == nil {
		return
	}
	if err := c.EvictRegion(ctx, region); err != nil {
		utils.Logger.WithError(err).WithField("region", region).Error("Cache eviction failed")
	}
}
