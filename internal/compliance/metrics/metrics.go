// Package metrics provides Prometheus metrics for the compliance validator.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all compliance validator metrics.
type Metrics struct {
	ChecksTotal   *prometheus.CounterVec // Gating checks by check and outcome
	BlockersTotal *prometheus.CounterVec // Hard blockers by issue code and document kind
	WarningsTotal *prometheus.CounterVec // Soft warnings by issue code and document kind
	CheckDuration prometheus.Histogram   // Gating check latency
}

// New creates a new Metrics instance with all metrics registered.
func New() *Metrics {
	return &Metrics{
		ChecksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "seacrew_compliance_checks_total",
			Help: "Total number of compliance gating checks by check and outcome",
		}, []string{"check", "outcome"}),

		BlockersTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "seacrew_compliance_blockers_total",
			Help: "Total number of hard compliance blockers by issue code and document kind",
		}, []string{"code", "kind"}),

		WarningsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "seacrew_compliance_warnings_total",
			Help: "Total number of soft compliance warnings by issue code and document kind",
		}, []string{"code", "kind"}),

		CheckDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "seacrew_compliance_check_duration_seconds",
			Help:    "Compliance gating check latency",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// RecordCheck records a completed gating check.
func (m *Metrics) RecordCheck(check, outcome string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.ChecksTotal.WithLabelValues(check, outcome).Inc()
	m.CheckDuration.Observe(durationSeconds)
}

// RecordBlocker records one hard blocker.
func (m *Metrics) RecordBlocker(code, kind string) {
	if m == nil {
		return
	}
	m.BlockersTotal.WithLabelValues(code, kind).Inc()
}

// RecordWarning records one soft warning.
func (m *Metrics) RecordWarning(code, kind string) {
	if m == nil {
		return
	}
	m.WarningsTotal.WithLabelValues(code, kind).Inc()
}
