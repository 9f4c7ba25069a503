// Package metrics defines the Prometheus collectors for catalog loads, searches and
// the HTTP API, and exposes a scrape handler.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors, registered on their own registry.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	SearchQueriesTotal   *prometheus.CounterVec
	SearchLatency        prometheus.Histogram
	SearchResultsCount   prometheus.Histogram
	GagsLoaded           prometheus.Gauge
	FilesFailed          prometheus.Gauge
	TitleCollisions      prometheus.Gauge
	ReloadsTotal         *prometheus.CounterVec
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cutaway_http_requests_total",
				Help: "Total number of HTTP requests by method, route, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cutaway_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "cutaway_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		SearchQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cutaway_search_queries_total",
				Help: "Total search queries by scope and outcome (hit, zero_result, error).",
			},
			[]string{"scope", "result_type"},
		),
		SearchLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cutaway_search_latency_seconds",
				Help:    "Search query latency in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
		),
		SearchResultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cutaway_search_results_count",
				Help:    "Number of results returned per search query.",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 500},
			},
		),
		GagsLoaded: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "cutaway_gags_loaded",
				Help: "Gags in the current catalog snapshot.",
			},
		),
		FilesFailed: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "cutaway_files_failed",
				Help: "Files skipped by the last load because they could not be read or parsed.",
			},
		),
		TitleCollisions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "cutaway_title_collisions",
				Help: "Duplicate titles replaced during the last load.",
			},
		),
		ReloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cutaway_reloads_total",
				Help: "Catalog reloads by status.",
			},
			[]string{"status"},
		),
	}

	m.registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.SearchQueriesTotal,
		m.SearchLatency,
		m.SearchResultsCount,
		m.GagsLoaded,
		m.FilesFailed,
		m.TitleCollisions,
		m.ReloadsTotal,
	)

	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus scrape HTTP handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveSearch records one search. A non-nil err counts as an error outcome.
func (m *Metrics) ObserveSearch(scope string, results int, took time.Duration, err error) {
	resultType := "hit"
	switch {
	case err != nil:
		resultType = "error"
	case results == 0:
		resultType = "zero_result"
	}
	m.SearchQueriesTotal.WithLabelValues(scope, resultType).Inc()
	if err != nil {
		return
	}
	m.SearchLatency.Observe(took.Seconds())
	m.SearchResultsCount.Observe(float64(results))
}

// ObserveLoad sets the catalog gauges from a completed load.
func (m *Metrics) ObserveLoad(gags, failed, collisions int) {
	m.GagsLoaded.Set(float64(gags))
	m.FilesFailed.Set(float64(failed))
	m.TitleCollisions.Set(float64(collisions))
}

// ObserveReload counts a reload attempt.
func (m *Metrics) ObserveReload(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.ReloadsTotal.WithLabelValues(status).Inc()
}
