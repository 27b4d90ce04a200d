package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := load()
	require.NoError(t, err)
	require.Equal(t, "8081", cfg.AppPort)
	require.Equal(t, "users", cfg.UsersCollection)
	require.Equal(t, time.Hour, cfg.TokenTTL)
	require.True(t, cfg.LDFlag_AllowSignup)
	require.False(t, cfg.LDFlag_SeedDbWithTestData)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("TOKEN_TTL", "15m")
	t.Setenv("ALLOW_SIGNUP", "false")
	t.Setenv("MONGODB_DATABASE", "auth")

	cfg, err := load()
	require.NoError(t, err)
	require.Equal(t, 15*time.Minute, cfg.TokenTTL)
	require.False(t, cfg.LDFlag_AllowSignup)
	require.Equal(t, "auth", cfg.MongoDatabase)
}

func TestLoad_RequiredSettings(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("JWT_SECRET", "secret")
	_, err := load()
	require.ErrorContains(t, err, "MONGODB_URI")

	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "")
	_, err = load()
	require.ErrorContains(t, err, "JWT_SECRET")

	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("TOKEN_TTL", "soon")
	_, err = load()
	require.Error(t, err)
}
