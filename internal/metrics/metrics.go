// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "finhistory"

// Metrics owns a registry and the application collectors registered on it.
type Metrics struct {
	registry *prometheus.Registry

	fallbacks    *prometheus.CounterVec
	imports      *prometheus.CounterVec
	importItems  *prometheus.CounterVec
	staleJobs    prometheus.Counter
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates a Metrics instance with its own registry, including the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "demo_fallbacks_total",
			Help:      "Reads served from the demo snapshot because the live store was unavailable.",
		}, []string{"operation", "signature"}),
		imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_total",
			Help:      "Bulk imports by outcome mode.",
		}, []string{"mode", "result"}),
		importItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_records_total",
			Help:      "Records written by bulk imports.",
		}, []string{"kind"}),
		staleJobs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingestion_jobs_expired_total",
			Help:      "Running ingestion jobs marked failed by housekeeping.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.fallbacks,
		m.imports,
		m.importItems,
		m.staleJobs,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry (tests gather from it).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// FallbackServed counts a read answered from the demo snapshot.
func (m *Metrics) FallbackServed(operation, signature string) {
	m.fallbacks.WithLabelValues(operation, signature).Inc()
}

// ImportFinished counts one import and the records it wrote.
func (m *Metrics) ImportFinished(mode string, failed bool, sources, events, links int) {
	result := "ok"
	if failed {
		result = "error"
	}
	m.imports.WithLabelValues(mode, result).Inc()
	m.importItems.WithLabelValues("source").Add(float64(sources))
	m.importItems.WithLabelValues("event").Add(float64(events))
	m.importItems.WithLabelValues("link").Add(float64(links))
}

// StaleJobsExpired counts jobs failed by housekeeping.
func (m *Metrics) StaleJobsExpired(n int) {
	m.staleJobs.Add(float64(n))
}

// ObserveHTTP records one finished request.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
