// Package metrics defines the Prometheus collectors for the proximity
// engine and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the engine.
type Metrics struct {
	SearchQueriesTotal        *prometheus.CounterVec
	SearchLatency             prometheus.Histogram
	ProximityEvaluationsTotal *prometheus.CounterVec
	DocumentsIndexedTotal     prometheus.Counter
	CacheHitsTotal            prometheus.Counter
	CacheMissesTotal          prometheus.Counter

	gatherer prometheus.Gatherer
}

// New creates the engine's Prometheus metrics and registers them with
// registerer (pass prometheus.DefaultRegisterer in production).
func New(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		SearchQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "proximity_search_queries_total",
				Help: "Total search queries by outcome (hit, zero_result, error).",
			},
			[]string{"outcome"},
		),
		SearchLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "proximity_search_latency_seconds",
				Help:    "Search query latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
		),
		ProximityEvaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "proximity_evaluations_total",
				Help: "Total per-document within() evaluations by result (match, no_match).",
			},
			[]string{"result"},
		),
		DocumentsIndexedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "proximity_documents_indexed_total",
				Help: "Total documents added to any index.",
			},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "proximity_query_cache_hits_total",
				Help: "Total search queries served from the query cache.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "proximity_query_cache_misses_total",
				Help: "Total search queries that missed the query cache.",
			},
		),
	}

	registerer.MustRegister(
		m.SearchQueriesTotal,
		m.SearchLatency,
		m.ProximityEvaluationsTotal,
		m.DocumentsIndexedTotal,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
	)

	// Serve from the same registry the collectors went into when possible
	// (a *prometheus.Registry is also a Gatherer).
	if gatherer, ok := registerer.(prometheus.Gatherer); ok {
		m.gatherer = gatherer
	} else {
		m.gatherer = prometheus.DefaultGatherer
	}
	return m
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
