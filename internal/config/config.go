// Package config holds the storefront service configuration.
//
// Values are resolved in order: built-in defaults, an optional TOML file,
// environment variables, then CLI flags applied by cmd/storefront.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	HTTPAddr  string `toml:"http_addr"`
	// DebugAddr serves the payment attempt routes on a separate listener.
	// Empty disables them.
	DebugAddr string `toml:"debug_addr"`
	LogLevel  string `toml:"log_level"`

	ShopAPI  ShopAPIConfig  `toml:"shop_api"`
	Payments PaymentsConfig `toml:"payments"`
	Catalog  CatalogConfig  `toml:"catalog"`
	I18n     I18nConfig     `toml:"i18n"`
	Tracing  TracingConfig  `toml:"tracing"`
}

type ShopAPIConfig struct {
	URL          string   `toml:"url"`
	ChannelToken string   `toml:"channel_token"`
	Timeout      Duration `toml:"timeout"`
	// Fake serves an in-memory shop instead of calling URL.
	Fake         bool     `toml:"fake"`
}

type PaymentsConfig struct {
	// StripePublicKey enables the card method when set.
	StripePublicKey string   `toml:"stripe_public_key"`
	SubmitTimeout   Duration `toml:"submit_timeout"`
	AttemptLogPath  string   `toml:"attempt_log_path"`
	// MaxOpenForms caps the number of mounted payment forms.
	MaxOpenForms    int      `toml:"max_open_forms"`
}

type CatalogConfig struct {
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`
	PageSize  int      `toml:"page_size"`
}

type I18nConfig struct {
	DefaultLanguage string   `toml:"default_language"`
	Languages       []string `toml:"languages"`
}

type TracingConfig struct {
	Enabled     bool    `toml:"enabled"`
	ServiceName string  `toml:"service_name"`
	Endpoint    string  `toml:"endpoint"`
	Environment string  `toml:"environment"`
	SampleRatio float64 `toml:"sample_ratio"`
}

// Duration is a time.Duration written as "15s" in TOML files.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

var ErrInvalidConfig = errors.New("invalid config")

func Default() Config {
	return Config{
		HTTPAddr: ":8080",
		LogLevel: "info",
		ShopAPI: ShopAPIConfig{
			URL:     "http://localhost:3000/shop-api",
			Timeout: Duration{15 * time.Second},
		},
		Payments: PaymentsConfig{
			SubmitTimeout: Duration{30 * time.Second},
			MaxOpenForms:  10000,
		},
		Catalog: CatalogConfig{
			TTL:      Duration{10 * time.Second},
			PageSize: 12,
		},
		I18n: I18nConfig{
			DefaultLanguage: "en",
			Languages:       []string{"en", "pl"},
		},
		Tracing: TracingConfig{
			ServiceName: "storefront",
			Endpoint:    "localhost:4317",
			Environment: "local",
			SampleRatio: 1,
		},
	}
}

// Load resolves the configuration from defaults, the TOML file at path
// (skipped when path is empty) and the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %q: %w", path, err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %q: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.HTTPAddr = getEnv("HTTP_ADDR", cfg.HTTPAddr)
	cfg.DebugAddr = getEnv("DEBUG_ADDR", cfg.DebugAddr)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	cfg.ShopAPI.URL = getEnv("SHOP_API_URL", cfg.ShopAPI.URL)
	cfg.ShopAPI.ChannelToken = getEnv("SHOP_API_CHANNEL_TOKEN", cfg.ShopAPI.ChannelToken)
	cfg.ShopAPI.Timeout = Duration{getEnvAsDuration("SHOP_API_TIMEOUT", cfg.ShopAPI.Timeout.Duration)}
	cfg.ShopAPI.Fake = getEnvAsBool("SHOP_API_FAKE", cfg.ShopAPI.Fake)

	cfg.Payments.StripePublicKey = getEnv("STRIPE_PUBLIC_KEY", cfg.Payments.StripePublicKey)
	cfg.Payments.SubmitTimeout = Duration{getEnvAsDuration("PAYMENT_SUBMIT_TIMEOUT", cfg.Payments.SubmitTimeout.Duration)}
	cfg.Payments.AttemptLogPath = getEnv("PAYMENT_ATTEMPT_LOG", cfg.Payments.AttemptLogPath)

	cfg.Catalog.RedisAddr = getEnv("REDIS_ADDR", cfg.Catalog.RedisAddr)
	cfg.Catalog.TTL = Duration{getEnvAsDuration("CATALOG_TTL", cfg.Catalog.TTL.Duration)}

	cfg.I18n.DefaultLanguage = getEnv("DEFAULT_LANGUAGE", cfg.I18n.DefaultLanguage)

	cfg.Tracing.Enabled = getEnvAsBool("OTEL_ENABLED", cfg.Tracing.Enabled)
	cfg.Tracing.ServiceName = getEnv("OTEL_SERVICE_NAME", cfg.Tracing.ServiceName)
	cfg.Tracing.Endpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Tracing.Endpoint)
	cfg.Tracing.Environment = getEnv("OTEL_RESOURCE_ATTRIBUTES_ENV", cfg.Tracing.Environment)
}

// Validate reports the first problem found.
func (c Config) Validate() error {
	switch {
	case c.HTTPAddr == "":
		return fmt.Errorf("%w: http_addr is required", ErrInvalidConfig)
	case c.ShopAPI.URL == "" && !c.ShopAPI.Fake:
		return fmt.Errorf("%w: shop_api.url is required", ErrInvalidConfig)
	case c.ShopAPI.Timeout.Duration <= 0:
		return fmt.Errorf("%w: shop_api.timeout must be positive", ErrInvalidConfig)
	case c.Payments.SubmitTimeout.Duration <= 0:
		return fmt.Errorf("%w: payments.submit_timeout must be positive", ErrInvalidConfig)
	case c.Payments.MaxOpenForms <= 0:
		return fmt.Errorf("%w: payments.max_open_forms must be positive", ErrInvalidConfig)
	case c.DebugAddr != "" && c.DebugAddr == c.HTTPAddr:
		return fmt.Errorf("%w: debug_addr must differ from http_addr", ErrInvalidConfig)
	case c.Catalog.TTL.Duration <= 0:
		return fmt.Errorf("%w: catalog.ttl must be positive", ErrInvalidConfig)
	case c.Catalog.PageSize <= 0:
		return fmt.Errorf("%w: catalog.page_size must be positive", ErrInvalidConfig)
	case len(c.I18n.Languages) == 0:
		return fmt.Errorf("%w: i18n.languages is empty", ErrInvalidConfig)
	case !slices.Contains(c.I18n.Languages, c.I18n.DefaultLanguage):
		return fmt.Errorf("%w: default language %q is not in i18n.languages", ErrInvalidConfig, c.I18n.DefaultLanguage)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return fallback
}
