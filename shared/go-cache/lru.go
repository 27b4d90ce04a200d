package cache

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// LRU is an in-process cache: one expirable LRU per region, bounded by
// maxEntries with a TTL measured from write.
type LRU struct {
	maxEntries int
	ttl        time.Duration

	mu      sync.Mutex
	regions map[string]*lruRegion
}

type lruRegion struct {
	mu         sync.Mutex
	generation Stamp
	entries    *expirable.LRU[string, []byte]
}

func NewLRU(maxEntries int, ttl time.Duration) *LRU {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &LRU{maxEntries: maxEntries, ttl: ttl, regions: map[string]*lruRegion{}}
}

func (c *LRU) region(name string) *lruRegion {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.regions[name]
	if !ok {
		r = &lruRegion{entries: expirable.NewLRU[string, []byte](c.maxEntries, nil, c.ttl)}
		c.regions[name] = r
	}
	return r
}

func (c *LRU) Get(_ context.Context, region, key string) ([]byte, Stamp, bool, error) {
	r := c.region(region)
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.entries.Get(key)
	return v, r.generation, ok, nil
}

func (c *LRU) Set(_ context.Context, region, key string, stamp Stamp, value []byte) error {
	r := c.region(region)
	r.mu.Lock()
	defer r.mu.Unlock()
	if stamp != r.generation {
		return nil
	}
	r.entries.Add(key, value)
	return nil
}

func (c *LRU) EvictRegion(_ context.Context, region string) error {
	r := c.region(region)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generation++
	r.entries.Purge()
	return nil
}

func (c *LRU) Ping(context.Context) error { return nil }

// Len reports the number of live entries in region.
func (c *LRU) Len(region string) int {
	r := c.region(region)
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries.Len()
}
