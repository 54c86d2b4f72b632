package observability

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "climate_api"

// Metrics holds the Prometheus collectors for the HTTP API.
type Metrics struct {
	// labels: route (mux pattern, or "unmatched"), code
	HTTPRequests *prometheus.CounterVec
	// labels: route
	HTTPRequestDuration *prometheus.HistogramVec
}

func newMetrics() *Metrics {
	return &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route pattern and status code.",
		}, []string{"route", "code"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route"}),
	}
}

// NewMetrics creates the API metrics and registers them with the default
// Prometheus registry, which is what /metrics exposes.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.HTTPRequests, m.HTTPRequestDuration)
	return m
}

// NewMetricsForTesting creates Metrics that are not registered anywhere, so
// tests can build as many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

// RegisterDBStats exports the connection pool statistics of db.
func RegisterDBStats(reg prometheus.Registerer, db *sql.DB) error {
	return reg.Register(collectors.NewDBStatsCollector(db, "climate"))
}
