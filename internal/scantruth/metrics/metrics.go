// Package metrics provides Prometheus metrics for the scan truth store.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all scan store metrics.
type Metrics struct {
	ScansRecordedTotal      prometheus.Counter   // New scan records persisted
	SupersessionsTotal      prometheus.Counter   // Previously active records closed out
	SupersessionConflicts   prometheus.Counter   // RecordScan calls that lost a concurrent race
	CacheHitsTotal          prometheus.Counter   // Active-scan cache hits
	CacheMissesTotal        prometheus.Counter   // Active-scan cache misses
	CacheLookupDuration     prometheus.Histogram // Active-scan cache lookup latency
	CacheInvalidationsTotal prometheus.Counter   // Cache entries dropped after supersession
}

// New creates a new Metrics instance with all metrics registered.
func New() *Metrics {
	return &Metrics{
		ScansRecordedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "seacrew_scantruth_scans_recorded_total",
			Help: "Total number of scan records persisted",
		}),
		SupersessionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "seacrew_scantruth_supersessions_total",
			Help: "Total number of scan records closed out by a newer scan",
		}),
		SupersessionConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "seacrew_scantruth_supersession_conflicts_total",
			Help: "Total number of RecordScan calls that lost a concurrent supersession race",
		}),
		CacheHitsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "seacrew_scantruth_cache_hits_total",
			Help: "Total number of active-scan cache hits",
		}),
		CacheMissesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "seacrew_scantruth_cache_misses_total",
			Help: "Total number of active-scan cache misses",
		}),
		CacheLookupDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "seacrew_scantruth_cache_lookup_duration_seconds",
			Help:    "Duration of active-scan cache lookups",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05},
		}),
		CacheInvalidationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "seacrew_scantruth_cache_invalidations_total",
			Help: "Total number of cached active scans dropped after supersession",
		}),
	}
}

// RecordScan records a persisted scan and whether it superseded a prior one.
func (m *Metrics) RecordScan(superseded bool) {
	if m == nil {
		return
	}
	m.ScansRecordedTotal.Inc()
	if superseded {
		m.SupersessionsTotal.Inc()
	}
}

// RecordConflict records a lost supersession race.
func (m *Metrics) RecordConflict() {
	if m == nil {
		return
	}
	m.SupersessionConflicts.Inc()
}

// RecordCacheHit records an active-scan cache hit with its lookup duration.
func (m *Metrics) RecordCacheHit(durationSeconds float64) {
	if m == nil {
		return
	}
	m.CacheHitsTotal.Inc()
	m.CacheLookupDuration.Observe(durationSeconds)
}

// RecordCacheMiss records an active-scan cache miss with its lookup duration.
func (m *Metrics) RecordCacheMiss(durationSeconds float64) {
	if m == nil {
		return
	}
	m.CacheMissesTotal.Inc()
	m.CacheLookupDuration.Observe(durationSeconds)
}

// RecordCacheInvalidation records a cache entry dropped after supersession.
func (m *Metrics) RecordCacheInvalidation() {
	if m == nil {
		return
	}
	m.CacheInvalidationsTotal.Inc()
}
