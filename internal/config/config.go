// Package config provides centralized configuration loaded from environment
// variables, plus the crawl plan loaded from YAML.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

// Sink names accepted by EXPORT_SINK.
const (
	SinkCSV      = "csv"
	SinkPostgres = "postgres"
	SinkSQLite   = "sqlite"
)

// --------------------------------------------------------------------------
// Config is populated from environment variables.
// --------------------------------------------------------------------------

type Config struct {
	// Provider
	ProviderBaseURL           string        `validate:"required,url"`
	ProviderTimeout           time.Duration `validate:"gte=0"`
	ProviderRequestsPerMinute int           `validate:"gte=0"`

	// Collection
	Concurrency          int      `validate:"gte=1"`
	BatchSize            int      `validate:"gte=0"`
	DiscoveryConcurrency int      `validate:"gte=0"`
	Fetches              []string `validate:"dive,oneof=profile jerseys market_values stats"`
	ResolveYouthTeams    bool

	// Export
	Sink       string `validate:"oneof=csv postgres sqlite"`
	ExportDir  string `validate:"required_if=Sink csv"`
	SQLitePath string `validate:"required_if=Sink sqlite"`
	DBSchema   string

	// Database
	DatabaseURL    string `validate:"required_if=Sink postgres"`
	DBPoolMinConns int    `validate:"gte=0"`
	DBPoolMaxConns int    `validate:"gte=1"`
	DBPoolMaxLife  time.Duration

	// Logging
	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=text json"`

	// Metrics endpoint, empty disables it.
	MetricsAddr        string
	MetricsCORSOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
// It does not validate; call Validate once flags have been applied.
func Load() *Config {
	return &Config{
		ProviderBaseURL:           envOr("PROVIDER_BASE_URL", "http://localhost:8000"),
		ProviderTimeout:           envDuration("PROVIDER_TIMEOUT_SECONDS", 30*time.Second),
		ProviderRequestsPerMinute: envInt("PROVIDER_REQUESTS_PER_MINUTE", 0),

		Concurrency:          envInt("COLLECT_CONCURRENCY", 100),
		BatchSize:            envInt("COLLECT_BATCH_SIZE", 1600),
		DiscoveryConcurrency: envInt("COLLECT_DISCOVERY_CONCURRENCY", 0),
		Fetches:              envList("COLLECT_FETCHES", nil),
		ResolveYouthTeams:    envBool("COLLECT_YOUTH_TEAMS", true),

		Sink:       strings.ToLower(envOr("EXPORT_SINK", SinkCSV)),
		ExportDir:  envOr("EXPORT_DIR", "data"),
		SQLitePath: envOr("SQLITE_PATH", "playerdata.db"),
		DBSchema:   envOr("DB_SCHEMA", ""),

		DatabaseURL:    envOr("DATABASE_URL", ""),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 1),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 4),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		LogLevel:  strings.ToLower(envOr("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(envOr("LOG_FORMAT", "text")),

		MetricsAddr:        envOr("METRICS_ADDR", ""),
		MetricsCORSOrigins: envList("METRICS_CORS_ORIGINS", nil),
	}
}

var validate = validator.New()

// Validate lower-cases fetch names, then checks the configuration for
// missing or out-of-range values.
func (c *Config) Validate() error {
	for i, name := range c.Fetches {
		c.Fetches[i] = strings.ToLower(strings.TrimSpace(name))
	}
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

// envDuration reads a whole number of seconds.
func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
