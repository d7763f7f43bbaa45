// Package metrics provides Prometheus metrics for request rate limiting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains rate limiting metrics.
type Metrics struct {
	ChecksTotal *prometheus.CounterVec // Checks by outcome (allowed, limited, error)
}

// New creates a Metrics instance with all metrics registered.
func New() *Metrics {
	return &Metrics{
		ChecksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "seacrew_ratelimit_checks_total",
			Help: "Total number of rate limit checks by outcome",
		}, []string{"outcome"}),
	}
}

// RecordCheck records one rate limit check outcome.
func (m *Metrics) RecordCheck(outcome string) {
	if m == nil {
		return
	}
	m.ChecksTotal.WithLabelValues(outcome).Inc()
}
