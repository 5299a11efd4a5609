package api

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/spf13/viper"
	"go.temporal.io/sdk/client"

	"github.com/husnhira/storefront/internal/domains/orders/application/types"
)

// StoreBackend selects the order store implementation.
type StoreBackend string

const (
	StoreMemory   StoreBackend = "memory"
	StorePostgres StoreBackend = "postgres"
	StoreMongo    StoreBackend = "mongo"
)

// ConfigError reports a missing or malformed setting.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Key, e.Reason)
}

// Config carries settings for the API process, read from defaults, an optional
// CONFIG_FILE and the environment, in increasing precedence.
type Config struct {
	Port        string
	Environment string

	StoreBackend  StoreBackend
	PostgresDSN   string
	MongoURI      string
	MongoDatabase string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RazorpayKeyID     string
	RazorpayKeySecret string
	RazorpayBaseURL   string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string

	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool

	AdminUser         string
	AdminPassword     string
	AdminPasswordHash string
	SessionSecret     string
	SessionTTL        time.Duration

	NotifyTimeout  time.Duration
	RevenueMode    types.RevenueMode
	SentryDSN      string
	RateLimitRPS   float64
	RateLimitBurst int

	SessionPurgeIntervalMinute int
}

// MinSessionSecretLength is the shortest accepted SESSION_SECRET.
const MinSessionSecretLength = 16

func newViper() (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "local")
	v.SetDefault("STORE_BACKEND", "")
	v.SetDefault("MONGO_DATABASE", "husnhira")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RAZORPAY_BASE_URL", "https://api.razorpay.com")
	v.SetDefault("TEMPORAL_ADDRESS", client.DefaultHostPort)
	v.SetDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace)
	v.SetDefault("TEMPORAL_DISABLED", false)
	v.SetDefault("SESSION_TTL_HOURS", 12)
	v.SetDefault("NOTIFY_TIMEOUT_SECONDS", 10)
	v.SetDefault("REVENUE_MODE", string(types.RevenueLegacy))
	v.SetDefault("RATE_LIMIT_RPS", 5.0)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("SESSION_PURGE_INTERVAL_MINUTES", 0)
	v.AutomaticEnv()
	if file := strings.TrimSpace(os.Getenv("CONFIG_FILE")); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", file, err)
		}
	}
	return v, nil
}

// LoadConfig reads and validates the API settings.
func LoadConfig() (Config, error) {
	v, err := newViper()
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Port:              v.GetString("PORT"),
		Environment:       v.GetString("ENVIRONMENT"),
		StoreBackend:      StoreBackend(strings.ToLower(strings.TrimSpace(v.GetString("STORE_BACKEND")))),
		PostgresDSN:       strings.TrimSpace(v.GetString("POSTGRES_DSN")),
		MongoURI:          strings.TrimSpace(v.GetString("MONGO_URI")),
		MongoDatabase:     v.GetString("MONGO_DATABASE"),
		RedisAddr:         strings.TrimSpace(v.GetString("REDIS_ADDR")),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		RedisDB:           v.GetInt("REDIS_DB"),
		RazorpayKeyID:     strings.TrimSpace(v.GetString("RAZORPAY_KEY_ID")),
		RazorpayKeySecret: v.GetString("RAZORPAY_KEY_SECRET"),
		RazorpayBaseURL:   v.GetString("RAZORPAY_BASE_URL"),
		TwilioAccountSID:  v.GetString("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:   v.GetString("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber:  v.GetString("TWILIO_FROM_NUMBER"),
		TemporalAddress:   v.GetString("TEMPORAL_ADDRESS"),
		TemporalNamespace: v.GetString("TEMPORAL_NAMESPACE"),
		TemporalDisabled:  v.GetBool("TEMPORAL_DISABLED"),
		AdminUser:         strings.TrimSpace(v.GetString("ADMIN_USER")),
		AdminPassword:     v.GetString("ADMIN_PASSWORD"),
		AdminPasswordHash: strings.TrimSpace(v.GetString("ADMIN_PASSWORD_HASH")),
		SessionSecret:     v.GetString("SESSION_SECRET"),
		SessionTTL:        time.Duration(v.GetInt("SESSION_TTL_HOURS")) * time.Hour,
		NotifyTimeout:     time.Duration(v.GetInt("NOTIFY_TIMEOUT_SECONDS")) * time.Second,
		SentryDSN:         strings.TrimSpace(v.GetString("SENTRY_DSN")),
		RateLimitRPS:      v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst:    v.GetInt("RATE_LIMIT_BURST"),

		SessionPurgeIntervalMinute: v.GetInt("SESSION_PURGE_INTERVAL_MINUTES"),
	}
	mode, ok := types.ParseRevenueMode(strings.ToLower(strings.TrimSpace(v.GetString("REVENUE_MODE"))))
	if !ok {
		return Config{}, &ConfigError{Key: "REVENUE_MODE", Reason: "must be legacy or recorded"}
	}
	cfg.RevenueMode = mode
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = defaultBackend(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// defaultBackend picks postgres or mongo when only one of them is configured.
func defaultBackend(cfg Config) StoreBackend {
	switch {
	case cfg.PostgresDSN != "":
		return StorePostgres
	case cfg.MongoURI != "":
		return StoreMongo
	default:
		return StoreMemory
	}
}

// Validate rejects configurations the API must not start with.
func (c Config) Validate() error {
	switch c.StoreBackend {
	case StoreMemory, StorePostgres, StoreMongo:
	default:
		return &ConfigError{Key: "STORE_BACKEND", Reason: "must be memory, postgres or mongo"}
	}
	if c.RazorpayKeyID == "" {
		return &ConfigError{Key: "RAZORPAY_KEY_ID", Reason: "is required"}
	}
	if c.RazorpayKeySecret == "" {
		return &ConfigError{Key: "RAZORPAY_KEY_SECRET", Reason: "is required"}
	}
	if c.AdminUser == "" {
		return &ConfigError{Key: "ADMIN_USER", Reason: "is required"}
	}
	if c.AdminPassword == "" && c.AdminPasswordHash == "" {
		return &ConfigError{Key: "ADMIN_PASSWORD", Reason: "ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required"}
	}
	if len(c.SessionSecret) < MinSessionSecretLength {
		return &ConfigError{Key: "SESSION_SECRET", Reason: fmt.Sprintf("must be at least %d bytes", MinSessionSecretLength)}
	}
	if c.SessionTTL <= 0 {
		return &ConfigError{Key: "SESSION_TTL_HOURS", Reason: "must be a positive integer"}
	}
	if c.NotifyTimeout <= 0 {
		return &ConfigError{Key: "NOTIFY_TIMEOUT_SECONDS", Reason: "must be a positive integer"}
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return &ConfigError{Key: "RATE_LIMIT_RPS", Reason: "rate and burst must be positive"}
	}
	if c.SessionPurgeIntervalMinute < 0 {
		return &ConfigError{Key: "SESSION_PURGE_INTERVAL_MINUTES", Reason: "must be a positive integer"}
	}
	if err := validatePostgresDSN(c.PostgresDSN); err != nil {
		return err
	}
	if c.StoreBackend == StoreMongo && c.MongoURI == "" {
		return &ConfigError{Key: "MONGO_URI", Reason: "is required when STORE_BACKEND=mongo"}
	}
	return nil
}

// validatePostgresDSN checks URL-form DSNs; key=value DSNs are left to the driver.
func validatePostgresDSN(dsn string) error {
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		return nil
	}
	if _, err := pq.ParseURL(dsn); err != nil {
		return &ConfigError{Key: "POSTGRES_DSN", Reason: err.Error()}
	}
	return nil
}
