// Package metrics provides Prometheus metrics for the verification engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all verification engine metrics.
type Metrics struct {
	VerificationsTotal *prometheus.CounterVec   // Verdicts by outcome (valid, invalid, no_evidence)
	MatchScore         prometheus.Histogram     // Distribution of match scores
	EvidenceSource     *prometheus.CounterVec   // Evidence origin per verification (fresh_scan, cached_scan)
	DuplicatesTotal    prometheus.Counter       // Verifications that found a duplicate number
	VerifyDuration     prometheus.Histogram     // End-to-end verification latency
	FieldMismatches    *prometheus.CounterVec   // Mismatches by field
	AsyncScansTotal    *prometheus.CounterVec   // Background scan recordings by outcome
}

// New creates a new Metrics instance with all metrics registered.
func New() *Metrics {
	return &Metrics{
		VerificationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "seacrew_verification_verifications_total",
			Help: "Total number of document verifications by outcome",
		}, []string{"outcome"}),

		MatchScore: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "seacrew_verification_match_score",
			Help:    "Distribution of verification match scores",
			Buckets: []float64{0, 25, 50, 75, 90, 99, 100},
		}),

		EvidenceSource: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "seacrew_verification_evidence_source_total",
			Help: "Total number of verifications by evidence origin",
		}, []string{"source"}),

		DuplicatesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "seacrew_verification_duplicates_total",
			Help: "Total number of verifications that found a duplicate document number",
		}),

		VerifyDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "seacrew_verification_verify_duration_seconds",
			Help:    "End-to-end document verification latency",
			Buckets: prometheus.DefBuckets,
		}),

		FieldMismatches: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "seacrew_verification_field_mismatches_total",
			Help: "Total number of claimed-versus-evidence mismatches by field",
		}, []string{"field"}),

		AsyncScansTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "seacrew_verification_async_scans_total",
			Help: "Total number of background scan recordings by outcome",
		}, []string{"outcome"}),
	}
}

// RecordVerification records a completed verification.
func (m *Metrics) RecordVerification(outcome string, score float64, durationSeconds float64) {
	if m == nil {
		return
	}
	m.VerificationsTotal.WithLabelValues(outcome).Inc()
	m.MatchScore.Observe(score)
	m.VerifyDuration.Observe(durationSeconds)
}

// RecordEvidenceSource records the evidence origin of a verification.
func (m *Metrics) RecordEvidenceSource(source string) {
	if m == nil {
		return
	}
	m.EvidenceSource.WithLabelValues(source).Inc()
}

// RecordDuplicate records a duplicate document number finding.
func (m *Metrics) RecordDuplicate() {
	if m == nil {
		return
	}
	m.DuplicatesTotal.Inc()
}

// RecordFieldMismatch records a mismatch on one field.
func (m *Metrics) RecordFieldMismatch(field string) {
	if m == nil {
		return
	}
	m.FieldMismatches.WithLabelValues(field).Inc()
}

// RecordAsyncScan records a background scan recording outcome.
func (m *Metrics) RecordAsyncScan(outcome string) {
	if m == nil {
		return
	}
	m.AsyncScansTotal.WithLabelValues(outcome).Inc()
}
