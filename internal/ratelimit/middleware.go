package ratelimit

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"seacrew/internal/ratelimit/metrics"
	domerrors "seacrew/pkg/domain-errors"
	"seacrew/pkg/platform/httputil"
)

// Limiter wraps a Store into HTTP middleware keyed by client IP.
type Limiter struct {
	store   Store
	limit   int
	window  time.Duration
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// Option configures the Limiter.
type Option func(*Limiter)

// WithMetrics attaches Prometheus metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Limiter) { l.metrics = m }
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) { l.logger = logger }
}

// NewLimiter creates a limiter allowing limit requests per window per client.
func NewLimiter(store Store, limit int, window time.Duration, opts ...Option) *Limiter {
	if store == nil {
		panic("ratelimit.NewLimiter: store is required")
	}
	if limit <= 0 || window <= 0 {
		panic("ratelimit.NewLimiter: limit and window must be positive")
	}
	l := &Limiter{
		store:  store,
		limit:  limit,
		window: window,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Middleware enforces the limit. A store failure fails open: throttling is
// protective, not load-bearing, so a broken counter must not take the API down.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r)

		result, err := l.store.Allow(r.Context(), key, l.limit, l.window)
		if err != nil {
			l.metrics.RecordCheck("error")
			l.logger.ErrorContext(r.Context(), "rate limit check failed", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			l.metrics.RecordCheck("limited")
			retryAfter := int(time.Until(result.ResetAt).Seconds()) + 1
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			httputil.WriteError(w, domerrors.New(domerrors.CodeRateLimited, "request rate limit exceeded"))
			return
		}

		l.metrics.RecordCheck("allowed")
		next.ServeHTTP(w, r)
	})
}

// clientIP resolves the caller address, trusting the first X-Forwarded-For
// hop when a proxy inserted one.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first, _, ok := strings.Cut(fwd, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
