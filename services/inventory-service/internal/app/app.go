package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/AndreaCerratoSP/CIAMS/services/inventory-service/internal/config"
	"github.com/AndreaCerratoSP/CIAMS/services/inventory-service/internal/events"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-cache"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-repositories"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-utils"
)

const (
	maxRetries     = 5
	connectTimeout = 5 * time.Second
	initialBackoff = 500 * time.Millisecond
)

type App struct {
	Config    *config.Config
	DB        *pgxpool.Pool // nil with the memory store
	Store     repositories.InventoryStore
	Cache     cache.Cache
	Publisher events.Publisher

	redis *redis.Client
}

func NewApp(cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		utils.Logger.Warn("Using in-memory store; data is lost on restart")
		a.Store = repositories.NewMemoryStore()
	default:
		pool, err := connectWithRetry(cfg.DBUrl)
		if err != nil {
			return nil, err
		}
		a.DB = pool
		if cfg.DBAutoMigrate {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := repositories.RunMigrations(ctx, pool); err != nil {
				a.Close()
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		}
		a.Store = repositories.NewInventoryStore(pool)
	}

	c, err := a.newCache()
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Cache = c

	if len(cfg.KafkaBrokers) > 0 {
		pub, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaAssetTopic)
		if err != nil {
			a.Close()
			return nil, err
		}
		utils.Logger.Infof("Publishing asset events to kafka topic %s", cfg.KafkaAssetTopic)
		a.Publisher = pub
	} else {
		a.Publisher = events.NoopPublisher{}
	}

	return a, nil
}

func (a *App) newCache() (cache.Cache, error) {
	switch a.Config.CacheBackend {
	case config.CacheBackendRedis:
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		client, err := cache.Connect(ctx, a.Config.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.redis = client
		utils.Logger.Info("Using redis cache")
		return cache.NewRedis(client, "", a.Config.CacheTTL), nil
	case config.CacheBackendNone:
		utils.Logger.Info("Cache disabled")
		return cache.NewNoop(), nil
	default:
		return cache.NewLRU(a.Config.CacheMaxEntries, a.Config.CacheTTL), nil
	}
}

// OfficeCache is the cache the office service should use, or nil when
// office caching is switched off.
func (a *App) OfficeCache() cache.Cache {
	if !a.Config.LDFlag_CacheOffices {
		return nil
	}
	return a.Cache
}

// Ping checks the store and the cache.
func (a *App) Ping(ctx context.Context) map[string]error {
	return map[string]error{
		"store": a.Store.Ping(ctx),
		"cache": a.Cache.Ping(ctx),
	}
}

func (a *App) Close() {
	if a.Publisher != nil {
		if err := a.Publisher.Close(); err != nil {
			utils.Logger.WithError(err).Warn("Failed to close event publisher")
		}
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.DB != nil {
		a.DB.Close()
		utils.Logger.Info("inventory-service DB connection closed.")
	}
}

func connectWithRetry(databaseURL string) (*pgxpool.Pool, error) {
	backoff := initialBackoff
	for i := 1; ; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		pool, err := newDBPool(ctx, databaseURL)
		cancel()
		if err == nil {
			utils.Logger.Infof("inventory-service connected to DB on attempt %d", i)
			return pool, nil
		}

		utils.Logger.WithError(err).Warnf(
			"Failed DB connect on attempt %d/%d. Retrying in %v...",
			i, maxRetries, backoff,
		)
		if i == maxRetries {
			return nil, fmt.Errorf("unable to connect after %d attempts: %w", maxRetries, err)
		}
		time.Sleep(backoff)
		backoff *= 2
	}
}

func newDBPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	cfg.MaxConnIdleTime = 2 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second
	return pgxpool.ConnectConfig(ctx, cfg)
}
