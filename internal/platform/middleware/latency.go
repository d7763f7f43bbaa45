package middleware

import (
	"net/http"
	"strconv"
	"time"

	"seacrew/internal/platform/metrics"
)

// Latency records per-endpoint request latency and status-class counters.
// A nil metrics value disables recording so test routers can skip wiring it.
func Latency(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m == nil {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			status := strconv.Itoa(wrapped.statusCode/100) + "xx"
			m.ObserveEndpoint(r.URL.Path, status, time.Since(start).Seconds())
		})
	}
}
