package config

import (
	"fmt"
	"time"
)

// ObservabilityConfig groups all configuration related to telemetry and runtime visibility.
//
// It is optional at the root level. If omitted, defaults are injected; if
// partially provided, the missing fields are filled from the defaults.
type ObservabilityConfig struct {
	// ServiceName identifies this service in logs/traces/APM dashboards.
	ServiceName string `koanf:"service_name" validate:"required"`

	// Environment splits telemetry by environment (production, local, ...).
	Environment string `koanf:"environment" validate:"required"`

	Logging      LoggingConfig      `koanf:"logging" validate:"required"`
	NewRelic     NewRelicConfig     `koanf:"new_relic"`
	HealthChecks HealthChecksConfig `koanf:"health_checks"`
}

// LoggingConfig holds application logging configuration.
type LoggingConfig struct {
	// Level is the verbosity threshold (debug/info/warn/error).
	Level string `koanf:"level" validate:"required"`

	// Format is "json" or "console".
	Format string `koanf:"format" validate:"required"`

	// SlowQueryThreshold marks queries slower than this as slow in logs.
	// Values are duration strings like "100ms".
	SlowQueryThreshold time.Duration `koanf:"slow_query_threshold"`
}

// NewRelicConfig holds configuration for New Relic APM and tracing.
//
// An empty LicenseKey means New Relic is disabled.
type NewRelicConfig struct {
	LicenseKey                string `koanf:"license_key"`
	AppLogForwardingEnabled   bool   `koanf:"app_log_forwarding_enabled"`
	DistributedTracingEnabled bool   `koanf:"distributed_tracing_enabled"`
	DebugLogging              bool   `koanf:"debug_logging"`
}

// HealthChecksConfig controls the dependency checks run by GET /status.
type HealthChecksConfig struct {
	Enabled bool          `koanf:"enabled"`
	Timeout time.Duration `koanf:"timeout"`
	Checks  []string      `koanf:"checks"`
}

// DefaultObservabilityConfig provides a safe set of defaults.
func DefaultObservabilityConfig() *ObservabilityConfig {
	return &ObservabilityConfig{
		ServiceName: ServiceName,
		Environment: "development",
		Logging: LoggingConfig{
			Level:              "info",
			Format:             "json",
			SlowQueryThreshold: 100 * time.Millisecond,
		},
		NewRelic: NewRelicConfig{
			LicenseKey:                "",
			AppLogForwardingEnabled:   true,
			DistributedTracingEnabled: true,
			DebugLogging:              false, // Disabled by default to avoid mixed log formats
		},
		HealthChecks: HealthChecksConfig{
			Enabled: true,
			Timeout: 5 * time.Second,
			Checks:  []string{"database", "redis", "dataset"},
		},
	}
}

// fillDefaults completes a partially provided observability block.
func (c *ObservabilityConfig) fillDefaults() {
	def := DefaultObservabilityConfig()
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = def.Logging.Format
	}
	if c.Logging.SlowQueryThreshold == 0 {
		c.Logging.SlowQueryThreshold = def.Logging.SlowQueryThreshold
	}
	if c.HealthChecks.Timeout <= 0 {
		c.HealthChecks.Timeout = def.HealthChecks.Timeout
	}
	if len(c.HealthChecks.Checks) == 0 {
		c.HealthChecks.Checks = def.HealthChecks.Checks
	}
}

// Validate applies rules that go beyond struct tags.
func (c *ObservabilityConfig) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required")
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be one of: debug, info, warn, error)", c.Logging.Level)
	}

	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("invalid logging format: %s (must be json or console)", c.Logging.Format)
	}

	if c.Logging.SlowQueryThreshold < 0 {
		return fmt.Errorf("logging slow_query_threshold must be non-negative")
	}

	return nil
}

// GetLogLevel returns the effective log level to use at runtime.
func (c *ObservabilityConfig) GetLogLevel() string {
	switch c.Environment {
	case "production":
		if c.Logging.Level == "" {
			return "info"
		}
	case "development", "local":
		if c.Logging.Level == "" {
			return "debug"
		}
	}
	return c.Logging.Level
}

// IsProduction reports whether the application is running in production mode.
func (c *ObservabilityConfig) IsProduction() bool {
	return c.Environment == "production"
}

// HealthCheckEnabled reports whether the named dependency check should run.
func (c *ObservabilityConfig) HealthCheckEnabled(name string) bool {
	if !c.HealthChecks.Enabled {
		return false
	}
	for _, check := range c.HealthChecks.Checks {
		if check == name {
			return true
		}
	}
	return false
}
