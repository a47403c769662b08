// Package config provides hierarchical configuration loading for briefdeck.
// Precedence: defaults < YAML file < environment variables.
package config

import "time"

// Config holds all runtime configuration for the acquisition service.
type Config struct {
	Server      Server      `yaml:"server"`
	Upstream    Upstream    `yaml:"upstream"`
	Monday      Monday      `yaml:"monday"`
	Postgres    Postgres    `yaml:"postgres"`
	NATS        NATS        `yaml:"nats"`
	Cache       Cache       `yaml:"cache"`
	Idempotency Idempotency `yaml:"idempotency"`
	Logging     Logging     `yaml:"logging"`
	Breaker     Breaker     `yaml:"breaker"`
	Rate        Rate        `yaml:"rate"`
	Telemetry   Telemetry   `yaml:"telemetry"`
}

// Server holds HTTP server configuration.
type Server struct {
	Port       string `yaml:"port"`
	CORSOrigin string `yaml:"cors_origin"`
}

// Upstream holds platform-integrations layer configuration.
type Upstream struct {
	// BaseURL of the integration layer the route cascade targets.
	BaseURL string `yaml:"base_url"`
	// RouteTimeout bounds each individual route attempt.
	RouteTimeout time.Duration `yaml:"route_timeout"`
	// Race tries all routes concurrently instead of in order.
	Race bool `yaml:"race"`
}

// Monday holds the optional direct Monday.com GraphQL source configuration.
// An empty token disables the source.
type Monday struct {
	Token    string `yaml:"token"`
	Endpoint string `yaml:"endpoint"`
}

// Postgres holds the audit store connection configuration. An empty DSN
// disables auditing.
type Postgres struct {
	DSN             string        `yaml:"dsn"`
	MaxConns        int32         `yaml:"max_conns"`
	MinConns        int32         `yaml:"min_conns"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time"`
}

// NATS holds event broker configuration. An empty URL disables publishing.
type NATS struct {
	URL string `yaml:"url"`
}

// Cache holds result cache configuration. RedisAddr empty means in-process
// only; set it to get a shared L2 behind the in-process L1.
type Cache struct {
	L1MaxSizeMB   int64         `yaml:"l1_max_size_mb"`
	L1MaxLife     time.Duration `yaml:"l1_max_life"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	ResultTTL     time.Duration `yaml:"result_ttl"`
}

// Idempotency holds request deduplication configuration.
type Idempotency struct {
	TTL time.Duration `yaml:"ttl"`
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
	Async   bool   `yaml:"async"`
}

// Breaker holds upstream circuit breaker configuration.
type Breaker struct {
	MaxFailures int           `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Rate holds rate limiter configuration.
type Rate struct {
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	CleanupInterval   time.Duration `yaml:"cleanup_interval"`
	MaxIdleTime       time.Duration `yaml:"max_idle_time"`
}

// Telemetry holds OpenTelemetry exporter configuration. An empty endpoint
// disables export.
type Telemetry struct {
	OTLPEndpoint string `yaml:"otlp_endpoint"`
}

// Defaults returns a Config with sensible default values for local
// development.
func Defaults() Config {
	return Config{
		Server: Server{
			Port:       "8080",
			CORSOrigin: "http://localhost:3000",
		},
		Upstream: Upstream{
			BaseURL:      "http://localhost:9000",
			RouteTimeout: 30 * time.Second,
		},
		Postgres: Postgres{
			MaxConns:        15,
			MinConns:        2,
			MaxConnLifetime: time.Hour,
			MaxConnIdleTime: 10 * time.Minute,
		},
		Cache: Cache{
			L1MaxSizeMB: 64,
			L1MaxLife:   5 * time.Minute,
			ResultTTL:   5 * time.Minute,
		},
		Idempotency: Idempotency{
			TTL: 24 * time.Hour,
		},
		Logging: Logging{
			Level:   "info",
			Service: "briefdeck-core",
		},
		Breaker: Breaker{
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		},
		Rate: Rate{
			RequestsPerSecond: 10,
			Burst:             100,
			CleanupInterval:   time.Minute,
			MaxIdleTime:       10 * time.Minute,
		},
	}
}
