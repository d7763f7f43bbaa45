// Package metrics provides Prometheus metrics for the extraction pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all extraction pipeline metrics.
type Metrics struct {
	// Provider call metrics
	ProviderCallsTotal    *prometheus.CounterVec   // Calls by provider and outcome (success, error)
	ProviderErrorsTotal   *prometheus.CounterVec   // Errors by provider and category
	ProviderCallDuration  *prometheus.HistogramVec // Call latency by provider
	ProviderFallbackTotal *prometheus.CounterVec   // Fallback hops recorded by from-provider
	BreakerSkipsTotal     *prometheus.CounterVec   // Providers skipped because their circuit breaker was open

	// Pipeline outcome metrics
	ExtractionsTotal  *prometheus.CounterVec // Completed extractions by document kind and outcome
	DegradedTotal     prometheus.Counter     // Extractions that terminated on the offline tier
	CorrectionsTotal  *prometheus.CounterVec // Applied corrections by field and confirmation source
	MRZChecksumErrors prometheus.Counter     // MRZ lines rejected by check digit validation
}

// New creates a new Metrics instance with all metrics registered.
func New() *Metrics {
	return &Metrics{
		ProviderCallsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "seacrew_extraction_provider_calls_total",
			Help: "Total number of OCR provider calls by provider and outcome",
		}, []string{"provider", "outcome"}),

		ProviderErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "seacrew_extraction_provider_errors_total",
			Help: "Total number of OCR provider errors by provider and error category",
		}, []string{"provider", "category"}),

		ProviderCallDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "seacrew_extraction_provider_call_duration_seconds",
			Help:    "Duration of OCR provider calls by provider",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}, []string{"provider"}),

		ProviderFallbackTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "seacrew_extraction_provider_fallback_total",
			Help: "Total number of fallback hops away from a failing provider",
		}, []string{"from_provider"}),

		BreakerSkipsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "seacrew_extraction_breaker_skips_total",
			Help: "Total number of provider calls skipped while the provider circuit was open",
		}, []string{"provider"}),

		ExtractionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "seacrew_extraction_extractions_total",
			Help: "Total number of completed extractions by document kind and outcome",
		}, []string{"kind", "outcome"}),

		DegradedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "seacrew_extraction_degraded_total",
			Help: "Total number of extractions that fell through to the offline tier",
		}),

		CorrectionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "seacrew_extraction_corrections_total",
			Help: "Total number of field corrections by field and confirmation source",
		}, []string{"field", "source"}),

		MRZChecksumErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "seacrew_extraction_mrz_checksum_errors_total",
			Help: "Total number of MRZ reads rejected by check digit validation",
		}),
	}
}

// RecordProviderCall records a provider call outcome and its duration.
func (m *Metrics) RecordProviderCall(providerID, outcome string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.ProviderCallsTotal.WithLabelValues(providerID, outcome).Inc()
	m.ProviderCallDuration.WithLabelValues(providerID).Observe(durationSeconds)
}

// RecordProviderError records a categorized provider error.
func (m *Metrics) RecordProviderError(providerID, category string) {
	if m == nil {
		return
	}
	m.ProviderErrorsTotal.WithLabelValues(providerID, category).Inc()
}

// RecordFallback records a fallback hop away from a failing provider.
func (m *Metrics) RecordFallback(fromProvider string) {
	if m == nil {
		return
	}
	m.ProviderFallbackTotal.WithLabelValues(fromProvider).Inc()
}

// RecordBreakerSkip records a provider call skipped by an open circuit.
func (m *Metrics) RecordBreakerSkip(providerID string) {
	if m == nil {
		return
	}
	m.BreakerSkipsTotal.WithLabelValues(providerID).Inc()
}

// RecordExtraction records a completed pipeline run.
func (m *Metrics) RecordExtraction(kind, outcome string, degraded bool) {
	if m == nil {
		return
	}
	m.ExtractionsTotal.WithLabelValues(kind, outcome).Inc()
	if degraded {
		m.DegradedTotal.Inc()
	}
}

// RecordCorrection records an applied field correction.
// source is "mrz" when the MRZ confirmed the corrected value and
// "heuristic" when no MRZ was available.
func (m *Metrics) RecordCorrection(field, source string) {
	if m == nil {
		return
	}
	m.CorrectionsTotal.WithLabelValues(field, source).Inc()
}

// RecordMRZChecksumError records a rejected MRZ read.
func (m *Metrics) RecordMRZChecksumError() {
	if m == nil {
		return
	}
	m.MRZChecksumErrors.Inc()
}
