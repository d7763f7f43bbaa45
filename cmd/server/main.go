package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"seacrew/internal/audit"
	"seacrew/internal/compliance"
	compliancemetrics "seacrew/internal/compliance/metrics"
	"seacrew/internal/extraction"
	extractionmetrics "seacrew/internal/extraction/metrics"
	"seacrew/internal/extraction/providers"
	"seacrew/internal/extraction/providers/deepscan"
	"seacrew/internal/extraction/providers/offline"
	"seacrew/internal/extraction/providers/quickscan"
	"seacrew/internal/extraction/tracer"
	"seacrew/internal/fleet"
	"seacrew/internal/platform/config"
	"seacrew/internal/platform/database"
	"seacrew/internal/platform/health"
	"seacrew/internal/platform/httpserver"
	"seacrew/internal/platform/kafka"
	"seacrew/internal/platform/logger"
	platformmetrics "seacrew/internal/platform/metrics"
	"seacrew/internal/platform/redis"
	"seacrew/internal/ratelimit"
	ratelimitmetrics "seacrew/internal/ratelimit/metrics"
	"seacrew/internal/scantruth"
	scantruthmetrics "seacrew/internal/scantruth/metrics"
	"seacrew/internal/seeder"
	httptransport "seacrew/internal/transport/http"
	"seacrew/internal/verification"
	verificationmetrics "seacrew/internal/verification/metrics"
)

const activeScanCacheTTL = 10 * time.Minute

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal domain packages. Postgres, Redis, and Kafka
// are each optional: missing configuration degrades to in-memory stores and
// a store-only audit trail rather than refusing to start.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing seacrew",
		"addr", cfg.Addr,
		"postgres", cfg.DatabaseURL != "",
		"redis", cfg.RedisURL != "",
		"kafka", cfg.KafkaBrokers != "",
	)

	healthHandler := health.New()

	// Storage
	pool, err := database.New(database.DefaultConfig(cfg.DatabaseURL))
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}

	var fleetStore fleet.Store
	var scanStore scantruth.Store
	var auditStore audit.Store
	if pool != nil {
		defer pool.Close()
		healthHandler.RegisterCheck("postgres", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Health(ctx)
		})
		fleetStore = fleet.NewPostgres(pool.DB())
		scanStore = scantruth.NewPostgres(pool.DB())
		auditStore = audit.NewPostgres(pool.DB())
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		fleetStore = fleet.NewMemoryStore()
		scanStore = scantruth.NewMemoryStore()
		auditStore = audit.NewMemoryStore()
	}

	redisClient, err := redis.New(redis.DefaultConfig(cfg.RedisURL))
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		healthHandler.RegisterCheck("redis", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisClient.Health(ctx)
		})
		scanStore = scantruth.NewCachedStore(scanStore, redisClient.Client, activeScanCacheTTL, scantruthmetrics.New())
	}

	if cfg.SeedDemoData {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := seeder.New(fleetStore, log).SeedAll(ctx); err != nil {
			log.Error("demo data seeding failed", "error", err)
			cancel()
			os.Exit(1)
		}
		cancel()
	}

	// Audit trail
	auditOpts := []audit.PublisherOption{
		audit.WithAsyncBuffer(256),
		audit.WithPublisherLogger(log),
	}
	if cfg.KafkaBrokers != "" {
		producer, err := kafka.NewProducer(kafka.DefaultProducerConfig(cfg.KafkaBrokers), log)
		if err != nil {
			log.Error("kafka producer setup failed", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		healthHandler.RegisterCheck("kafka", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return producer.Health(ctx)
		})
		auditOpts = append(auditOpts, audit.WithKafkaSink(producer, cfg.AuditTopic))
	}
	auditor := audit.NewPublisher(auditStore, auditOpts...)
	defer auditor.Close()

	// OCR capability chain. The offline fallback is always present; the
	// networked tiers join only when configured.
	var provs []providers.Provider
	if cfg.DeepScanURL != "" {
		provs = append(provs, deepscan.New(cfg.DeepScanURL, cfg.DeepScanAPIKey, cfg.ProviderTimeout))
	}
	if cfg.QuickScanURL != "" {
		provs = append(provs, quickscan.New(cfg.QuickScanURL, cfg.QuickScanKey, cfg.ProviderTimeout))
	}
	provs = append(provs, offline.New())

	pipelineOpts := []extraction.Option{
		extraction.WithMetrics(extractionmetrics.New()),
		extraction.WithLogger(log),
		extraction.WithProviderTimeout(cfg.ProviderTimeout),
	}
	if cfg.TracingEnabled {
		pipelineOpts = append(pipelineOpts, extraction.WithTracer(tracer.NewOTel()))
	}
	pipeline := extraction.NewPipeline(provs, pipelineOpts...)

	// Domain services
	verifier := verification.New(fleetStore, scanStore, pipeline, auditor,
		verification.WithMetrics(verificationmetrics.New()),
		verification.WithLogger(log),
	)
	complianceSvc := compliance.New(fleetStore, auditor,
		compliance.WithMetrics(compliancemetrics.New()),
		compliance.WithLogger(log),
		compliance.WithGracePeriod(cfg.GracePeriodDays),
	)

	handler := httptransport.NewHandler(verifier, complianceSvc, cfg.GracePeriodDays, log)

	var extraMiddleware []func(http.Handler) http.Handler
	if cfg.RateLimitPerMinute > 0 {
		var limitStore ratelimit.Store
		if redisClient != nil {
			limitStore = ratelimit.NewRedisStore(redisClient.Client)
		} else {
			limitStore = ratelimit.NewMemoryStore()
		}
		limiter := ratelimit.NewLimiter(limitStore, cfg.RateLimitPerMinute, time.Minute,
			ratelimit.WithMetrics(ratelimitmetrics.New()),
			ratelimit.WithLogger(log),
		)
		extraMiddleware = append(extraMiddleware, limiter.Middleware)
	}

	router := httptransport.NewRouter(handler, healthHandler, platformmetrics.New(), log, extraMiddleware...)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
