// Command briefdeck runs the acquisition service: it fetches project data
// from the platform-integrations layer, normalizes it, computes analytics
// and serves the results over HTTP and WebSocket.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	bdhttp "github.com/briefdeck/briefdeck/internal/adapter/http"
	_ "github.com/briefdeck/briefdeck/internal/adapter/jira"
	_ "github.com/briefdeck/briefdeck/internal/adapter/monday"
	"github.com/briefdeck/briefdeck/internal/adapter/mondaygql"
	bdnats "github.com/briefdeck/briefdeck/internal/adapter/nats"
	"github.com/briefdeck/briefdeck/internal/adapter/natskv"
	"github.com/briefdeck/briefdeck/internal/adapter/otel"
	"github.com/briefdeck/briefdeck/internal/adapter/postgres"
	"github.com/briefdeck/briefdeck/internal/adapter/redis"
	"github.com/briefdeck/briefdeck/internal/adapter/ristretto"
	"github.com/briefdeck/briefdeck/internal/adapter/tiered"
	_ "github.com/briefdeck/briefdeck/internal/adapter/trofos"
	"github.com/briefdeck/briefdeck/internal/adapter/ws"
	"github.com/briefdeck/briefdeck/internal/config"
	"github.com/briefdeck/briefdeck/internal/fetch"
	"github.com/briefdeck/briefdeck/internal/logger"
	"github.com/briefdeck/briefdeck/internal/middleware"
	"github.com/briefdeck/briefdeck/internal/port/audit"
	"github.com/briefdeck/briefdeck/internal/port/cache"
	"github.com/briefdeck/briefdeck/internal/resilience"
	"github.com/briefdeck/briefdeck/internal/service"
)

const resultBucket = "briefdeck-results"

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, logCloser := logger.New(cfg.Logging)
	slog.SetDefault(log)
	defer logCloser.Close()

	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"upstream", cfg.Upstream.BaseURL,
		"log_level", cfg.Logging.Level,
	)

	ctx := context.Background()

	// --- Telemetry ---
	shutdownTelemetry, err := otel.Init(ctx, cfg.Logging.Service, cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			slog.Error("telemetry shutdown failed", "error", err)
		}
	}()

	metrics, err := otel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	// --- Fetching ---
	var sources []fetch.Source
	if cfg.Monday.Token != "" {
		sources = append(sources, mondaygql.New(cfg.Monday.Token, cfg.Monday.Endpoint))
		slog.Info("monday graphql source enabled")
	}

	fetcher := fetch.New(fetch.Config{
		BaseURL:      cfg.Upstream.BaseURL,
		RouteTimeout: cfg.Upstream.RouteTimeout,
		Race:         cfg.Upstream.Race,
		Breaker:      resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout),
		Sources:      sources,
	})

	// --- Events (optional) ---
	var publisher *bdnats.Publisher
	if cfg.NATS.URL != "" {
		publisher, err = bdnats.Connect(ctx, cfg.NATS.URL)
		if err != nil {
			return fmt.Errorf("nats: %w", err)
		}
		defer func() { _ = publisher.Close() }()
		slog.Info("nats connected", "url", cfg.NATS.URL)
	}

	// --- Result cache: in-process L1, with a shared L2 when available ---
	l1, err := ristretto.New(cfg.Cache.L1MaxSizeMB << 20)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	var resultCache cache.Cache = l1
	switch {
	case cfg.Cache.RedisAddr != "":
		l2, err := redis.New(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		resultCache = tiered.New(l1, l2, cfg.Cache.L1MaxLife)
		slog.Info("redis result cache enabled", "addr", cfg.Cache.RedisAddr)
	case publisher != nil:
		kv, err := publisher.KeyValue(ctx, resultBucket, cfg.Cache.ResultTTL)
		if err != nil {
			return fmt.Errorf("nats kv: %w", err)
		}
		resultCache = tiered.New(l1, natskv.New(kv), cfg.Cache.L1MaxLife)
		slog.Info("nats kv result cache enabled", "bucket", resultBucket)
	}

	// --- Audit (optional) ---
	var auditStore audit.Store
	if cfg.Postgres.DSN != "" {
		pool, err := postgres.NewPool(ctx, cfg.Postgres)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		defer pool.Close()

		if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		auditStore = postgres.NewAuditStore(pool)
		slog.Info("acquisition audit enabled")
	}

	// --- Service ---
	hub := ws.NewHub()

	opts := []service.Option{
		service.WithResultCache(resultCache, cfg.Cache.ResultTTL),
		service.WithProgressBroadcaster(hub),
		service.WithMetrics(metrics),
	}
	if auditStore != nil {
		opts = append(opts, service.WithAuditStore(auditStore))
	}
	if publisher != nil {
		opts = append(opts, service.WithEventPublisher(publisher))
	}

	svc := service.NewAcquisitionService(fetcher, opts...)
	handlers := bdhttp.NewHandlers(svc, hub, auditStore)

	// --- HTTP ---
	limiter := middleware.NewRateLimiter(cfg.Rate.RequestsPerSecond, cfg.Rate.Burst)
	stopCleanup := limiter.StartCleanup(cfg.Rate.CleanupInterval, cfg.Rate.MaxIdleTime)
	defer stopCleanup()

	r := chi.NewRouter()
	// No RealIP here: the limiter keys on RemoteAddr, and rewriting it from
	// forwarded headers would let clients dodge the limit.
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(bdhttp.CORS(cfg.Server.CORSOrigin))
	r.Use(bdhttp.SecurityHeaders)
	r.Use(bdhttp.Logger)
	if cfg.Telemetry.OTLPEndpoint != "" {
		r.Use(otel.HTTPMiddleware(cfg.Logging.Service))
	}
	r.Use(limiter.Handler)
	r.Use(middleware.Idempotency(resultCache, cfg.Idempotency.TTL))

	bdhttp.MountRoutes(r, handlers)

	addr := ":" + cfg.Server.Port

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      0, // long-poll and WebSocket upgrades manage their own deadlines
		IdleTimeout:       120 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-done
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
