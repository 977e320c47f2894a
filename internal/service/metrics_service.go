package service

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Import run outcomes.
const (
	ImportOutcomeSuccess   = "success"
	ImportOutcomeFailed    = "failed"
	ImportOutcomeCancelled = "cancelled"
)

// MetricsService encapsulates Prometheus instrumentation for the API and the reconciliation engine.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheLookups    *prometheus.CounterVec
	importRuns      *prometheus.CounterVec
	importRows      prometheus.Counter
	importDuration  prometheus.Histogram
	importEntities  *prometheus.CounterVec
	txTotal         *prometheus.CounterVec
}

// NewMetricsService registers collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_lookups_total",
		Help: "Cache lookups by result",
	}, []string{"result"})

	importRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "curriculum_import_runs_total",
		Help: "Tabular import runs by outcome and error code",
	}, []string{"outcome", "code"})

	importRows := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "curriculum_import_rows_total",
		Help: "Rows committed by tabular imports",
	})

	importDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "curriculum_import_duration_seconds",
		Help:    "Wall time of tabular import runs",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	})

	importEntities := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "curriculum_import_entities_total",
		Help: "Entities touched by committed imports",
	}, []string{"entity", "action"})

	txTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "curriculum_transactions_total",
		Help: "Units of work by result",
	}, []string{"result"})

	registry.MustRegister(
		requestDuration, requestTotal,
		cacheLatency, cacheWrite, cacheLookups,
		importRuns, importRows, importDuration, importEntities, txTotal,
		collectors.NewGoCollector(),
	)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheLookups:    cacheLookups,
		importRuns:      importRuns,
		importRows:      importRows,
		importDuration:  importDuration,
		importEntities:  importEntities,
		txTotal:         txTotal,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry exposes the underlying registry for tests and embedding.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a cache lookup.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	m.cacheLookups.WithLabelValues("miss").Inc()
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveTransaction counts a finished unit of work.
func (m *MetricsService) ObserveTransaction(committed bool) {
	if m == nil {
		return
	}
	if committed {
		m.txTotal.WithLabelValues("commit").Inc()
		return
	}
	m.txTotal.WithLabelValues("rollback").Inc()
}

// ObserveImport records the outcome of an import run. code is empty on success.
func (m *MetricsService) ObserveImport(outcome, code string, rows int, duration time.Duration) {
	if m == nil {
		return
	}
	m.importRuns.WithLabelValues(outcome, code).Inc()
	m.importDuration.Observe(duration.Seconds())
	if outcome == ImportOutcomeSuccess {
		m.importRows.Add(float64(rows))
	}
}

// ObserveImportEntities counts entities created or reused by a committed import.
func (m *MetricsService) ObserveImportEntities(entity, action string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.importEntities.WithLabelValues(entity, action).Add(float64(count))
}
