package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"

	"github.com/AndreaCerratoSP/CIAMS/shared/go-utils"
)

const (
	OrganizationName    = utils.OrganizationName
	LDConnectionTimeout = 5 * time.Second
)

// Build-time overrides, set with -ldflags.
var (
	AppName             = "auth-service"
	LDServerContextKey  = "auth-service"
	LDServerContextKind = "service"
)

type Config struct {
	OrganizationName string
	AppName          string
	AppPort          string
	AppUrl           string
	Env              string

	MongoURI        string
	MongoDatabase   string
	UsersCollection string

	JWTSecret []byte
	TokenTTL  time.Duration

	LDSDKKey                  string
	LDFlag_SeedDbWithTestData bool
	LDFlag_CORSHighSecurity   bool
	LDFlag_AllowSignup        bool
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		utils.Logger.Debug("No .env file loaded")
	}

	utils.Logger.Info("Loading config for app: ", AppName)

	cfg, err := load()
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to load config")
	}

	if cfg.LDSDKKey != "" {
		if err := cfg.loadFlagsFromLaunchDarkly(); err != nil {
			utils.Logger.WithError(err).Fatal("Failed to read LaunchDarkly flags")
		}
	}

	utils.Logger.Infof("Loaded config for %s (%s)", cfg.AppName, cfg.Env)
	return cfg
}

func load() (*Config, error) {
	cfg := &Config{
		OrganizationName:   OrganizationName,
		AppName:            AppName,
		AppPort:            envOrDefault("APP_PORT", "8081"),
		AppUrl:             os.Getenv("APP_URL_FROM_ANYWHERE"),
		Env:                envOrDefault("ENV", "dev"),
		MongoURI:           os.Getenv("MONGODB_URI"),
		MongoDatabase:      envOrDefault("MONGODB_DATABASE", "ciams"),
		UsersCollection:    envOrDefault("MONGODB_USERS_COLLECTION", "users"),
		JWTSecret:          []byte(os.Getenv("JWT_SECRET")),
		LDSDKKey:           os.Getenv("LD_SDK_KEY"),
		LDFlag_AllowSignup: true,
	}

	ttl, err := time.ParseDuration(envOrDefault("TOKEN_TTL", "1h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("invalid TOKEN_TTL %q", os.Getenv("TOKEN_TTL"))
	}
	cfg.TokenTTL = ttl

	cfg.LDFlag_SeedDbWithTestData = envBool("SEED_DB_WITH_TEST_DATA", false)
	cfg.LDFlag_CORSHighSecurity = envBool("CORS_HIGH_SECURITY", false)
	cfg.LDFlag_AllowSignup = envBool("ALLOW_SIGNUP", cfg.LDFlag_AllowSignup)

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGODB_URI env var is missing")
	}
	if len(cfg.JWTSecret) == 0 {
		return nil, fmt.Errorf("JWT_SECRET env var is missing")
	}
	return cfg, nil
}

func (c *Config) loadFlagsFromLaunchDarkly() error {
	ldClient, err := ld.MakeClient(c.LDSDKKey, LDConnectionTimeout)
	if err != nil {
		return fmt.Errorf("create LaunchDarkly client: %w", err)
	}
	defer ldClient.Close()
	if !ldClient.Initialized() {
		return fmt.Errorf("LaunchDarkly client failed to initialize")
	}

	ctx := ldcontext.NewWithKind(ldcontext.Kind(LDServerContextKind), LDServerContextKey)
	boolFlag := func(name string, fallback bool) bool {
		v, err := ldClient.BoolVariation(name, ctx, fallback)
		if err != nil {
			utils.Logger.WithError(err).Warnf("%s flag error; using %t", name, fallback)
			return fallback
		}
		return v
	}

	c.LDFlag_SeedDbWithTestData = boolFlag("seed_db_with_test_data", c.LDFlag_SeedDbWithTestData)
	c.LDFlag_CORSHighSecurity = boolFlag("cors_high_security", c.LDFlag_CORSHighSecurity)
	c.LDFlag_AllowSignup = boolFlag("allow_signup", c.LDFlag_AllowSignup)
	return nil
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envBool(name string, fallback bool) bool {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		utils.Logger.Warnf("Invalid %s=%q; using %t", name, raw, fallback)
		return fallback
	}
	return b
}
