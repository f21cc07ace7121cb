package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheLookups    *prometheus.CounterVec
	dbQueryDuration *prometheus.HistogramVec

	occupancyDuration prometheus.Histogram
	occupancySkipped  *prometheus.CounterVec
	occupancyCells    *prometheus.GaugeVec
	conflictsTotal    *prometheus.CounterVec
	exportsTotal      *prometheus.CounterVec
}

// NewMetricsService registers the collectors on a private registry.
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

	dbQueryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	occupancyDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "occupancy_compute_duration_seconds",
		Help:    "Time spent computing an occupancy grid from a snapshot",
		Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
	})

	occupancySkipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "occupancy_skipped_entities_total",
		Help: "Malformed entities ignored while computing occupancy",
	}, []string{"kind"})

	occupancyCells := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "occupancy_cells",
		Help: "Cells per status in the most recently computed grid for today",
	}, []string{"status"})

	conflictsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reservation_conflicts_total",
		Help: "Rejected reservations by kind of conflicting booking",
	}, []string{"kind"})

	exportsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "occupancy_exports_total",
		Help: "Generated grid exports by format",
	}, []string{"format"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheLookups, dbQueryDuration,
		occupancyDuration, occupancySkipped, occupancyCells, conflictsTotal, exportsTotal, goroutines)

	return &MetricsService{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		cacheLatency:      cacheLatency,
		cacheWrite:        cacheWrite,
		cacheLookups:      cacheLookups,
		dbQueryDuration:   dbQueryDuration,
		occupancyDuration: occupancyDuration,
		occupancySkipped:  occupancySkipped,
		occupancyCells:    occupancyCells,
		conflictsTotal:    conflictsTotal,
		exportsTotal:      exportsTotal,
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
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveDBQuery records database query timing.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// ObserveOccupancy records the duration of one grid computation.
func (m *MetricsService) ObserveOccupancy(duration time.Duration) {
	if m == nil {
		return
	}
	m.occupancyDuration.Observe(duration.Seconds())
}

// IncSkipped counts one malformed entity ignored by the computation.
func (m *MetricsService) IncSkipped(kind string) {
	if m == nil {
		return
	}
	m.occupancySkipped.WithLabelValues(kind).Inc()
}

// SetCellCounts publishes the per-status cell counts of today's grid.
func (m *MetricsService) SetCellCounts(counts map[string]int) {
	if m == nil {
		return
	}
	m.occupancyCells.Reset()
	for status, n := range counts {
		m.occupancyCells.WithLabelValues(status).Set(float64(n))
	}
}

// IncConflict counts a reservation rejected because of an existing booking.
func (m *MetricsService) IncConflict(kind string) {
	if m == nil {
		return
	}
	m.conflictsTotal.WithLabelValues(kind).Inc()
}

// IncExport counts a generated export.
func (m *MetricsService) IncExport(format string) {
	if m == nil {
		return
	}
	m.exportsTotal.WithLabelValues(format).Inc()
}
