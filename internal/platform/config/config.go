package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures process-level configuration. Everything comes from the
// environment so main stays lean and deployments stay declarative.
type Config struct {
	Addr string

	DatabaseURL  string
	RedisURL     string
	KafkaBrokers string
	AuditTopic   string

	// OCR capability endpoints. Either may be empty, in which case the
	// pipeline runs with whatever providers remain (at minimum the offline
	// fallback).
	DeepScanURL     string
	DeepScanAPIKey  string
	QuickScanURL    string
	QuickScanKey    string
	ProviderTimeout time.Duration

	// GracePeriodDays bounds how long an expired document is tolerated before
	// it blocks assignments.
	GracePeriodDays int

	// RateLimitPerMinute throttles API requests per client IP. Zero disables
	// throttling.
	RateLimitPerMinute int

	// SeedDemoData populates the fleet store with demo records on startup.
	// Intended for local development against the in-memory stores.
	SeedDemoData bool

	// TracingEnabled puts the extraction pipeline on the OpenTelemetry
	// tracer registered with the global provider. Off by default; spans
	// go to the no-op tracer.
	TracingEnabled bool
}

const (
	defaultAddr            = ":8080"
	defaultAuditTopic      = "seacrew.compliance.audit"
	defaultGracePeriodDays = 7
	defaultProviderTimeout = 15 * time.Second
)

// FromEnv builds a Config from environment variables with defaults.
func FromEnv() Config {
	cfg := Config{
		Addr:            envOr("SEACREW_ADDR", defaultAddr),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		KafkaBrokers:    os.Getenv("KAFKA_BROKERS"),
		AuditTopic:      envOr("AUDIT_TOPIC", defaultAuditTopic),
		DeepScanURL:     os.Getenv("OCR_DEEPSCAN_URL"),
		DeepScanAPIKey:  os.Getenv("OCR_DEEPSCAN_API_KEY"),
		QuickScanURL:    os.Getenv("OCR_QUICKSCAN_URL"),
		QuickScanKey:    os.Getenv("OCR_QUICKSCAN_API_KEY"),
		ProviderTimeout: defaultProviderTimeout,
		GracePeriodDays: defaultGracePeriodDays,
	}

	if v := os.Getenv("OCR_PROVIDER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ProviderTimeout = d
		}
	}
	if v := os.Getenv("GRACE_PERIOD_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.GracePeriodDays = n
		}
	}
	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.RateLimitPerMinute = n
		}
	}
	if v := os.Getenv("SEED_DEMO_DATA"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.SeedDemoData = b
		}
	}
	if v := os.Getenv("TRACING_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.TracingEnabled = b
		}
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
