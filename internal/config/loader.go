package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "briefdeck.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// The YAML file is optional; a missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "BRIEFDECK_PORT")
	setString(&cfg.Server.CORSOrigin, "BRIEFDECK_CORS_ORIGIN")

	setString(&cfg.Upstream.BaseURL, "BRIEFDECK_UPSTREAM_URL")
	setDuration(&cfg.Upstream.RouteTimeout, "BRIEFDECK_ROUTE_TIMEOUT")
	setBool(&cfg.Upstream.Race, "BRIEFDECK_ROUTE_RACE")

	setString(&cfg.Monday.Token, "MONDAY_API_TOKEN")
	setString(&cfg.Monday.Endpoint, "MONDAY_API_ENDPOINT")

	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setInt32(&cfg.Postgres.MaxConns, "BRIEFDECK_PG_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "BRIEFDECK_PG_MIN_CONNS")
	setDuration(&cfg.Postgres.MaxConnLifetime, "BRIEFDECK_PG_MAX_CONN_LIFETIME")
	setDuration(&cfg.Postgres.MaxConnIdleTime, "BRIEFDECK_PG_MAX_CONN_IDLE_TIME")

	setString(&cfg.NATS.URL, "NATS_URL")

	setInt64(&cfg.Cache.L1MaxSizeMB, "BRIEFDECK_CACHE_L1_SIZE_MB")
	setDuration(&cfg.Cache.L1MaxLife, "BRIEFDECK_CACHE_L1_MAX_LIFE")
	setString(&cfg.Cache.RedisAddr, "REDIS_ADDR")
	setString(&cfg.Cache.RedisPassword, "REDIS_PASSWORD")
	setInt(&cfg.Cache.RedisDB, "REDIS_DB")
	setDuration(&cfg.Cache.ResultTTL, "BRIEFDECK_CACHE_RESULT_TTL")

	setDuration(&cfg.Idempotency.TTL, "BRIEFDECK_IDEMPOTENCY_TTL")

	setString(&cfg.Logging.Level, "BRIEFDECK_LOG_LEVEL")
	setString(&cfg.Logging.Service, "BRIEFDECK_LOG_SERVICE")
	setBool(&cfg.Logging.Async, "BRIEFDECK_LOG_ASYNC")

	setInt(&cfg.Breaker.MaxFailures, "BRIEFDECK_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "BRIEFDECK_BREAKER_TIMEOUT")

	setFloat64(&cfg.Rate.RequestsPerSecond, "BRIEFDECK_RATE_RPS")
	setInt(&cfg.Rate.Burst, "BRIEFDECK_RATE_BURST")
	setDuration(&cfg.Rate.CleanupInterval, "BRIEFDECK_RATE_CLEANUP_INTERVAL")
	setDuration(&cfg.Rate.MaxIdleTime, "BRIEFDECK_RATE_MAX_IDLE_TIME")

	setString(&cfg.Telemetry.OTLPEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.Upstream.BaseURL == "" {
		return errors.New("upstream.base_url is required")
	}
	if cfg.Upstream.RouteTimeout <= 0 {
		return errors.New("upstream.route_timeout must be positive")
	}
	if cfg.Postgres.DSN != "" && cfg.Postgres.MaxConns < 1 {
		return errors.New("postgres.max_conns must be >= 1")
	}
	if cfg.Breaker.MaxFailures < 1 {
		return errors.New("breaker.max_failures must be >= 1")
	}
	if cfg.Rate.RequestsPerSecond <= 0 {
		return errors.New("rate.requests_per_second must be positive")
	}
	if cfg.Rate.Burst < 1 {
		return errors.New("rate.burst must be >= 1")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
