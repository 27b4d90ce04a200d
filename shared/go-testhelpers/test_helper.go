package testhelpers

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/AndreaCerratoSP/CIAMS/shared/go-repositories"
)

// TestHelper encapsulates the components integration tests share: the
// running service's base URL, a direct DB handle for fixtures and the
// secret used to mint access tokens.
type TestHelper struct {
	T         *testing.T
	Ctx       context.Context
	BaseURL   string
	JWTSecret []byte

	// Set only when DB_URL is present.
	DB    *pgxpool.Pool
	Store repositories.InventoryStore
}

// NewTestHelper reads APP_URL_FROM_ANYWHERE, DB_URL and JWT_SECRET from the
// environment. It is designed to be called once from a TestMain function.
func NewTestHelper(t *testing.T, appName string) *TestHelper {
	baseURL := os.Getenv("APP_URL_FROM_ANYWHERE")
	if baseURL == "" {
		log.Fatal("APP_URL_FROM_ANYWHERE env var is missing")
	}

	h := &TestHelper{
		T:         t,
		Ctx:       context.Background(),
		BaseURL:   baseURL,
		JWTSecret: []byte(os.Getenv("JWT_SECRET")),
	}

	if dbURL := os.Getenv("DB_URL"); dbURL != "" {
		pool, err := pgxpool.Connect(h.Ctx, dbURL)
		require.NoError(t, err, "Failed to connect to DB")
		t.Cleanup(pool.Close)
		require.NoError(t, repositories.RunMigrations(h.Ctx, pool), "Failed to migrate DB")
		h.DB = pool
		h.Store = repositories.NewInventoryStore(pool)
	}

	log.Printf("%s integration tests: baseURL=%s, env=%s, db=%t", appName, baseURL, os.Getenv("ENV"), h.DB != nil)
	return h
}
