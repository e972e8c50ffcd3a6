package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"pinstats/internal/structures"
	"time"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	SetCatalogSize(count int)
	AddRecordsProcessed(count int)
	IncBatchesPersisted()
	IncDetailFailures()
	IncResumes()
	ObserveRunDuration(duration time.Duration)
}

type MetricsProvider struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
	catalogSize      prometheus.Gauge
	recordsProcessed prometheus.Counter
	batchesPersisted prometheus.Counter
	detailFailures   prometheus.Counter
	resumes          prometheus.Counter
	runDuration      prometheus.Histogram
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) SetCatalogSize(count int) {
	m.catalogSize.Set(float64(count))
}

func (m *MetricsProvider) AddRecordsProcessed(count int) {
	m.recordsProcessed.Add(float64(count))
}

func (m *MetricsProvider) IncBatchesPersisted() {
	m.batchesPersisted.Inc()
}

func (m *MetricsProvider) IncDetailFailures() {
	m.detailFailures.Inc()
}

func (m *MetricsProvider) IncResumes() {
	m.resumes.Inc()
}

func (m *MetricsProvider) ObserveRunDuration(duration time.Duration) {
	m.runDuration.Observe(duration.Seconds())
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pinstats_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pinstats_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pinstats_cache_hits_total",
			Help: "Total number of snapshot cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pinstats_cache_misses_total",
			Help: "Total number of snapshot cache misses",
		}),

		catalogSize: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "pinstats_catalog_size",
			Help: "Number of pin records in the most recently fetched catalog",
		}),

		recordsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pinstats_records_processed_total",
			Help: "Total number of pin records ingested",
		}),

		batchesPersisted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pinstats_batches_persisted_total",
			Help: "Total number of checkpointed batches",
		}),

		detailFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pinstats_detail_failures_total",
			Help: "Total number of failed per-record detail fetches",
		}),

		resumes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pinstats_resumes_total",
			Help: "Total number of runs resumed from a checkpoint",
		}),

		runDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "pinstats_run_duration_seconds",
			Help:    "Duration of completed pipeline runs in seconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) SetCatalogSize(_ int)                             {}
func (n *noopMetrics) AddRecordsProcessed(_ int)                        {}
func (n *noopMetrics) IncBatchesPersisted()                             {}
func (n *noopMetrics) IncDetailFailures()                               {}
func (n *noopMetrics) IncResumes()                                      {}
func (n *noopMetrics) ObserveRunDuration(_ time.Duration)               {}
