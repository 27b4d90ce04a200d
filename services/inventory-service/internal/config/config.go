package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"
	"gopkg.in/yaml.v3"

	"github.com/AndreaCerratoSP/CIAMS/shared/go-utils"
)

const (
	OrganizationName    = utils.OrganizationName
	LDConnectionTimeout = 5 * time.Second

	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"

	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
	CacheBackendNone   = "none"
)

// Build-time overrides, set with -ldflags.
var (
	AppName             = "inventory-service"
	LDServerContextKey  = "inventory-service"
	LDServerContextKind = "service"
)

type Config struct {
	OrganizationName string
	AppName          string
	AppPort          string
	AppUrl           string
	Env              string

	StoreDriver   string
	DBUrl         string
	DBAutoMigrate bool

	CacheBackend    string
	CacheMaxEntries int
	CacheTTL        time.Duration
	RedisURL        string

	KafkaBrokers    []string
	KafkaAssetTopic string

	JWTSecret  []byte
	BasicUsers map[string]string // username -> bcrypt hash

	SendgridAPIKey          string
	SendgridFromEmail       string
	LicenseExpiryRecipients []string
	LicenseExpiryCron       string

	LDSDKKey                          string
	LDFlag_SeedDbWithTestData         bool
	LDFlag_CORSHighSecurity           bool
	LDFlag_CacheOffices               bool
	LDFlag_LicenseExpiryNotifications bool
}

type configFile struct {
	Service struct {
		Port string `yaml:"port"`
		URL  string `yaml:"url"`
	} `yaml:"service"`
	Store struct {
		Driver      string `yaml:"driver"`
		URL         string `yaml:"url"`
		AutoMigrate *bool  `yaml:"auto_migrate"`
	} `yaml:"store"`
	Cache struct {
		Backend    string `yaml:"backend"`
		MaxEntries int    `yaml:"max_entries"`
		TTLMinutes int    `yaml:"ttl_minutes"`
		RedisURL   string `yaml:"redis_url"`
	} `yaml:"cache"`
	Events struct {
		KafkaBrokers []string `yaml:"kafka_brokers"`
		AssetTopic   string   `yaml:"asset_topic"`
	} `yaml:"events"`
	Auth struct {
		BasicUsers map[string]string `yaml:"basic_users"`
	} `yaml:"auth"`
	Notifications struct {
		FromEmail  string   `yaml:"from_email"`
		Recipients []string `yaml:"recipients"`
		Cron       string   `yaml:"cron"`
	} `yaml:"notifications"`
	Flags map[string]bool `yaml:"flags"`
}

// LoadConfig layers defaults, an optional YAML file (CONFIG_FILE), the
// environment and LaunchDarkly flags, in that order.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		utils.Logger.Debug("No .env file loaded")
	}

	utils.Logger.Info("Loading config for app: ", AppName)

	cfg, err := load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to load config")
	}

	if cfg.LDSDKKey != "" {
		if err := cfg.loadFlagsFromLaunchDarkly(); err != nil {
			utils.Logger.WithError(err).Fatal("Failed to read LaunchDarkly flags")
		}
	} else {
		utils.Logger.Info("LD_SDK_KEY not set; feature flags come from env/config defaults")
	}

	utils.Logger.Infof("Loaded config for %s (%s)", cfg.AppName, cfg.Env)
	return cfg
}

func load(path string) (*Config, error) {
	cfg := &Config{
		OrganizationName:                  OrganizationName,
		AppName:                           AppName,
		AppPort:                           "8080",
		Env:                               "dev",
		StoreDriver:                       StoreDriverPostgres,
		DBAutoMigrate:                     true,
		CacheBackend:                      CacheBackendMemory,
		CacheMaxEntries:                   10000,
		CacheTTL:                          60 * time.Minute,
		KafkaAssetTopic:                   "inventory.asset-events",
		LicenseExpiryCron:                 "0 7 * * *",
		BasicUsers:                        map[string]string{},
		LDFlag_CacheOffices:               true,
		LDFlag_LicenseExpiryNotifications: true,
	}

	flags := map[string]bool{}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		var f configFile
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
		cfg.applyFile(f)
		flags = f.Flags
	}

	cfg.AppPort = envOrDefault("APP_PORT", cfg.AppPort)
	cfg.AppUrl = envOrDefault("APP_URL_FROM_ANYWHERE", cfg.AppUrl)
	cfg.Env = envOrDefault("ENV", cfg.Env)
	cfg.StoreDriver = strings.ToLower(envOrDefault("STORE_DRIVER", cfg.StoreDriver))
	cfg.DBUrl = envOrDefault("DB_URL", cfg.DBUrl)
	cfg.DBAutoMigrate = envBool("DB_AUTO_MIGRATE", cfg.DBAutoMigrate)
	cfg.CacheBackend = strings.ToLower(envOrDefault("CACHE_BACKEND", cfg.CacheBackend))
	cfg.CacheMaxEntries = envInt("CACHE_MAX_ENTRIES", cfg.CacheMaxEntries)
	cfg.CacheTTL = time.Duration(envInt("CACHE_TTL_MINUTES", int(cfg.CacheTTL.Minutes()))) * time.Minute
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.KafkaBrokers = envCSV("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.KafkaAssetTopic = envOrDefault("KAFKA_ASSET_TOPIC", cfg.KafkaAssetTopic)
	cfg.SendgridAPIKey = envOrDefault("SENDGRID_API_KEY", cfg.SendgridAPIKey)
	cfg.SendgridFromEmail = envOrDefault("SENDGRID_FROM_EMAIL", cfg.SendgridFromEmail)
	cfg.LicenseExpiryRecipients = envCSV("LICENSE_EXPIRY_RECIPIENTS", cfg.LicenseExpiryRecipients)
	cfg.LicenseExpiryCron = envOrDefault("LICENSE_EXPIRY_CRON", cfg.LicenseExpiryCron)
	cfg.LDSDKKey = envOrDefault("LD_SDK_KEY", cfg.LDSDKKey)
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWTSecret = []byte(secret)
	}
	for user, hash := range envPairs("BASIC_AUTH_USERS") {
		cfg.BasicUsers[user] = hash
	}

	cfg.LDFlag_SeedDbWithTestData = envBool("SEED_DB_WITH_TEST_DATA", flagOr(flags, "seed_db_with_test_data", cfg.LDFlag_SeedDbWithTestData))
	cfg.LDFlag_CORSHighSecurity = envBool("CORS_HIGH_SECURITY", flagOr(flags, "cors_high_security", cfg.LDFlag_CORSHighSecurity))
	cfg.LDFlag_CacheOffices = envBool("CACHE_OFFICES", flagOr(flags, "cache_offices", cfg.LDFlag_CacheOffices))
	cfg.LDFlag_LicenseExpiryNotifications = envBool("LICENSE_EXPIRY_NOTIFICATIONS", flagOr(flags, "license_expiry_notifications", cfg.LDFlag_LicenseExpiryNotifications))

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFile(f configFile) {
	if f.Service.Port != "" {
		c.AppPort = f.Service.Port
	}
	if f.Service.URL != "" {
		c.AppUrl = f.Service.URL
	}
	if f.Store.Driver != "" {
		c.StoreDriver = f.Store.Driver
	}
	if f.Store.URL != "" {
		c.DBUrl = f.Store.URL
	}
	if f.Store.AutoMigrate != nil {
		c.DBAutoMigrate = *f.Store.AutoMigrate
	}
	if f.Cache.Backend != "" {
		c.CacheBackend = f.Cache.Backend
	}
	if f.Cache.MaxEntries > 0 {
		c.CacheMaxEntries = f.Cache.MaxEntries
	}
	if f.Cache.TTLMinutes > 0 {
		c.CacheTTL = time.Duration(f.Cache.TTLMinutes) * time.Minute
	}
	if f.Cache.RedisURL != "" {
		c.RedisURL = f.Cache.RedisURL
	}
	if len(f.Events.KafkaBrokers) > 0 {
		c.KafkaBrokers = trimNonEmpty(f.Events.KafkaBrokers)
	}
	if f.Events.AssetTopic != "" {
		c.KafkaAssetTopic = f.Events.AssetTopic
	}
	for user, hash := range f.Auth.BasicUsers {
		c.BasicUsers[user] = hash
	}
	if f.Notifications.FromEmail != "" {
		c.SendgridFromEmail = f.Notifications.FromEmail
	}
	if len(f.Notifications.Recipients) > 0 {
		c.LicenseExpiryRecipients = trimNonEmpty(f.Notifications.Recipients)
	}
	if f.Notifications.Cron != "" {
		c.LicenseExpiryCron = f.Notifications.Cron
	}
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DBUrl == "" {
			return fmt.Errorf("DB_URL is required for the %s store", StoreDriverPostgres)
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	switch c.CacheBackend {
	case CacheBackendMemory, CacheBackendNone:
	case CacheBackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the %s cache", CacheBackendRedis)
		}
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q", c.CacheBackend)
	}
	return nil
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
		utils.Logger.Debugf("%s flag: %t", name, v)
		return v
	}

	c.LDFlag_SeedDbWithTestData = boolFlag("seed_db_with_test_data", c.LDFlag_SeedDbWithTestData)
	c.LDFlag_CORSHighSecurity = boolFlag("cors_high_security", c.LDFlag_CORSHighSecurity)
	c.LDFlag_CacheOffices = boolFlag("cache_offices", c.LDFlag_CacheOffices)
	c.LDFlag_LicenseExpiryNotifications = boolFlag("license_expiry_notifications", c.LDFlag_LicenseExpiryNotifications)
	return nil
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		utils.Logger.Warnf("Invalid %s=%q; using %d", name, raw, fallback)
		return fallback
	}
	return n
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

func envCSV(name string, fallback []string) []string {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	return trimNonEmpty(strings.Split(raw, ","))
}

// envPairs parses "user1:hash1,user2:hash2". bcrypt hashes contain no commas.
func envPairs(name string) map[string]string {
	out := map[string]string{}
	for _, pair := range envCSV(name, nil) {
		user, hash, ok := strings.Cut(pair, ":")
		if ok && user != "" && hash != "" {
			out[user] = hash
		}
	}
	return out
}

func flagOr(flags map[string]bool, name string, fallback bool) bool {
	if v, ok := flags[name]; ok {
		return v
	}
	return fallback
}

func trimNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
