package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect initializes a Redis client from URL or host:port input.
func Connect(_ context.Context, redisURL string) (*redis.Client, error) {
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, parseErr := redis.ParseURL(redisURL)
		if parseErr != nil {
			return nil, fmt.Errorf("parse redis url: %w", parseErr)
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisURL}), nil
}

// Redis shares cache entries between service replicas. Entry keys embed the
// region generation; EvictRegion bumps the generation so every older key
// becomes unreachable and ages out through its TTL. Capacity is bounded by
// the server's maxmemory policy.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedis(client *redis.Client, prefix string, ttl time.Duration) *Redis {
	if prefix == "" {
		prefix = "ciams:cache"
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: client, prefix: prefix, ttl: ttl}
}

func (c *Redis) generationKey(region string) string {
	return c.prefix + ":" + region + ":gen"
}

func (c *Redis) entryKey(region string, stamp Stamp, key string) string {
	return fmt.Sprintf("%s:%s:%d:%s", c.prefix, region, stamp, key)
}

func (c *Redis) generation(ctx context.Context, region string) (Stamp, error) {
	raw, err := c.client.Get(ctx, c.generationKey(region)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse generation for %s: %w", region, err)
	}
	return Stamp(n), nil
}

func (c *Redis) Get(ctx context.Context, region, key string) ([]byte, Stamp, bool, error) {
	stamp, err := c.generation(ctx, region)
	if err != nil {
		return nil, 0, false, err
	}
	v, err := c.client.Get(ctx, c.entryKey(region, stamp, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, stamp, false, nil
	}
	if err != nil {
		return nil, stamp, false, err
	}
	return v, stamp, true, nil
}

func (c *Redis) Set(ctx context.Context, region, key string, stamp Stamp, value []byte) error {
	current, err := c.generation(ctx, region)
	if err != nil {
		return err
	}
	if current != stamp {
		return nil
	}
	return c.client.Set(ctx, c.entryKey(region, stamp, key), value, c.ttl).Err()
}

func (c *Redis) EvictRegion(ctx context.Context, region string) error {
	return c.client.Incr(ctx, c.generationKey(region)).Err()
}

func (c *Redis) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
