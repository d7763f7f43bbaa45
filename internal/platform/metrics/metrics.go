package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds process-level Prometheus metrics. Domain modules register
// their own metrics in their local metrics packages; this one covers the HTTP
// surface shared by all of them.
type Metrics struct {
	EndpointLatency *prometheus.HistogramVec
	RequestsTotal   *prometheus.CounterVec
}

// New creates and registers the platform metrics.
func New() *Metrics {
	return &Metrics{
		EndpointLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "seacrew_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "seacrew_http_requests_total",
			Help: "Total HTTP requests by endpoint and status class",
		}, []string{"endpoint", "status"}),
	}
}

// ObserveEndpoint records one request against an endpoint label.
func (m *Metrics) ObserveEndpoint(endpoint, status string, seconds float64) {
	if m == nil {
		return
	}
	m.EndpointLatency.WithLabelValues(endpoint).Observe(seconds)
	m.RequestsTotal.WithLabelValues(endpoint, status).Inc()
}
