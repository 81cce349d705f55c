// Package config manages environment variables.
//
// It reads variables (optionally from a `.env` file), loads them into
// structured Go types, applies defaults for optional blocks and validates
// that required values are present so the app fails fast on bad config.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process environment before any config is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from every environment variable read by LoadConfig.
//
// Nested keys use "." as delimiter:
//
//	COUNTYHEALTH_SERVER.PORT -> server.port -> Config.Server.Port
const EnvPrefix = "COUNTYHEALTH_"

// ServiceName tags logs, traces and health responses.
const ServiceName = "county-health-api"

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis"`
	Cache         CacheConfig          `koanf:"cache"`
	RateLimit     RateLimitConfig      `koanf:"rate_limit"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are whole seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// RedisConfig contains Redis connection details.
// Address is "host:port". Empty disables every Redis-backed feature.
type RedisConfig struct {
	Address string `koanf:"address"`
}

// CacheConfig controls the lookup result cache.
type CacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	TTL     time.Duration `koanf:"ttl"`
	Prefix  string        `koanf:"prefix"`
}

// RateLimitConfig controls the in-memory request rate limiter.
type RateLimitConfig struct {
	Enabled           bool    `koanf:"enabled"`
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`
}

// LoadConfig loads configuration from environment variables, unmarshals it into
// Config, applies defaults, validates it, and returns the resulting config.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	mainConfig.applyDefaults()

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Cache.Enabled && mainConfig.Redis.Address == "" {
		return nil, fmt.Errorf("cache.enabled requires redis.address")
	}

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

// applyDefaults fills optional blocks. Service name and environment are
// always forced from the primary block so telemetry is consistently tagged.
func (c *Config) applyDefaults() {
	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}
	c.Observability.fillDefaults()
	c.Observability.ServiceName = ServiceName
	c.Observability.Environment = c.Primary.Env

	if c.Cache.TTL <= 0 {
		c.Cache.TTL = 10 * time.Minute
	}
	if c.Cache.Prefix == "" {
		c.Cache.Prefix = "countyhealth"
	}

	if c.RateLimit.RequestsPerSecond <= 0 {
		c.RateLimit.RequestsPerSecond = 20
	}
	if c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = 40
	}
}
