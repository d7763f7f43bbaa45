package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"seacrew/internal/platform/health"
	"seacrew/internal/platform/metrics"
	"seacrew/internal/platform/middleware"
)

// NewRouter wires all public endpoints with the shared middleware stack.
// Extra middleware (rate limiting, when configured) runs after the platform
// stack so its responses carry request IDs and show up in the access log.
func NewRouter(h *Handler, healthHandler *health.Handler, m *metrics.Metrics, logger *slog.Logger, extra ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.Latency(m))

	// Health and metrics stay outside the extra middleware; probes and
	// scrapers must never be throttled.
	r.Group(func(r chi.Router) {
		for _, mw := range extra {
			r.Use(mw)
		}

		// Verification
		r.Post("/documents/verify", h.handleVerifyDocument)
		r.Post("/documents/{id}/scan", h.handleRecordScan)

		// Status classification
		r.Post("/status/classify", h.handleClassifyStatus)

		// Compliance gates
		r.Post("/compliance/sign-on", h.handleSignOn)
		r.Post("/compliance/extension", h.handleExtension)
		r.Post("/compliance/sign-off", h.handleSignOff)
	})

	if healthHandler != nil {
		healthHandler.Register(r)
	}
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
