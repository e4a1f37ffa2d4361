// Package metrics collects the Prometheus instruments shared by the API,
// the ingestion pipeline and the frame registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector bundles the application metrics. A nil Collector is valid and
// records nothing, so libraries can take one optionally.
type Collector struct {
	// API metrics
	APIRequestsTotal   *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec
	APIErrorsTotal     *prometheus.CounterVec

	// EOP ingestion metrics
	IngestionRecordsTotal prometheus.Counter
	IngestionDuration     prometheus.Histogram
	IngestionErrorsTotal  *prometheus.CounterVec
	IngestionBatchSize    prometheus.Histogram

	// Database metrics
	DBQueryDuration  *prometheus.HistogramVec
	DBConnectionPool *prometheus.GaugeVec
	DBErrorsTotal    *prometheus.CounterVec

	// Frame registry metrics
	FrameBuildsTotal   *prometheus.CounterVec
	EOPLoadsTotal      *prometheus.CounterVec
	TransformsTotal    *prometheus.CounterVec
	TransformDuration  prometheus.Histogram
	TransformErrors    *prometheus.CounterVec

	// Interpolation sample cache metrics
	CacheHitsTotal      *prometheus.CounterVec
	CacheMissesTotal    *prometheus.CounterVec
	CacheEvictionsTotal *prometheus.CounterVec

	// System metrics
	ActiveConnections prometheus.Gauge
}

// NewCollector registers the instruments on the default registry.
func NewCollector(namespace string) *Collector {
	return NewCollectorWith(namespace, prometheus.DefaultRegisterer)
}

// NewCollectorWith registers the instruments on reg. Tests pass a private
// registry so collectors never collide.
func NewCollectorWith(namespace string, reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		APIRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_requests_total",
				Help:      "Total number of API requests by endpoint, method, and status",
			},
			[]string{"endpoint", "method", "status"},
		),

		APIRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "api_request_duration_seconds",
				Help:      "API request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1.0, 2.0, 5.0},
			},
			[]string{"endpoint"},
		),

		APIErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_errors_total",
				Help:      "Total number of API errors by type",
			},
			[]string{"error_type", "endpoint"},
		),

		IngestionRecordsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ingestion_records_processed_total",
				Help:      "Total number of Earth orientation records ingested",
			},
		),

		IngestionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "ingestion_duration_seconds",
				Help:      "Duration of ingestion operations in seconds",
				Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
			},
		),

		IngestionErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ingestion_errors_total",
				Help:      "Total number of ingestion errors by type",
			},
			[]string{"error_type"},
		),

		IngestionBatchSize: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "ingestion_batch_size",
				Help:      "Number of records per batch during ingestion",
				Buckets:   []float64{10, 50, 100, 500, 1000, 5000, 10000},
			},
		),

		DBQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "db_query_duration_seconds",
				Help:      "Database query duration in seconds by query type",
				Buckets:   []float64{0.001, 0.002, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5},
			},
			[]string{"query_type"},
		),

		DBConnectionPool: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "db_connection_pool",
				Help:      "Database connection pool statistics",
			},
			[]string{"state"}, // "in_use", "idle", "total"
		),

		DBErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "db_errors_total",
				Help:      "Total number of database errors by type",
			},
			[]string{"error_type"},
		),

		FrameBuildsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "frame_builds_total",
				Help:      "Total number of frame constructions by frame key",
			},
			[]string{"frame"},
		),

		EOPLoadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "eop_history_loads_total",
				Help:      "Total number of Earth orientation history builds by convention and outcome",
			},
			[]string{"convention", "status"},
		),

		TransformsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transforms_total",
				Help:      "Total number of frame transform requests by endpoint frames",
			},
			[]string{"from", "to"},
		),

		TransformDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "transform_duration_seconds",
				Help:      "Duration of frame transform evaluation in seconds",
				Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.05, 0.1, 0.5},
			},
		),

		TransformErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transform_errors_total",
				Help:      "Total number of failed frame transform requests by type",
			},
			[]string{"error_type"},
		),

		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "interpolation_cache_hits_total",
				Help:      "Total number of transform sample cache hits by frame",
			},
			[]string{"frame"},
		),

		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "interpolation_cache_misses_total",
				Help:      "Total number of transform sample cache misses by frame",
			},
			[]string{"frame"},
		),

		CacheEvictionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "interpolation_cache_evictions_total",
				Help:      "Total number of transform sample slots evicted by frame",
			},
			[]string{"frame"},
		),

		ActiveConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_connections",
				Help:      "Number of active client connections",
			},
		),
	}
}

// Timer measures one operation against a histogram.
type Timer struct {
	start    time.Time
	observer prometheus.Observer
}

// NewTimer starts a timer feeding the given histogram. Safe on a nil
// Collector.
func (c *Collector) NewTimer(histogram prometheus.Observer) *Timer {
	if c == nil {
		return &Timer{start: time.Now()}
	}
	return &Timer{start: time.Now(), observer: histogram}
}

// ObserveDuration records the elapsed time since the timer started.
func (t *Timer) ObserveDuration() time.Duration {
	duration := time.Since(t.start)
	if t.observer != nil {
		t.observer.Observe(duration.Seconds())
	}
	return duration
}

// TransformTimer starts a timer feeding the transform duration histogram.
// Safe on a nil Collector.
func (c *Collector) TransformTimer() *Timer {
	if c == nil {
		return &Timer{start: time.Now()}
	}
	return &Timer{start: time.Now(), observer: c.TransformDuration}
}

// RecordAPIRequest increments the API request counter.
func (c *Collector) RecordAPIRequest(endpoint, method, status string) {
	if c == nil {
		return
	}
	c.APIRequestsTotal.WithLabelValues(endpoint, method, status).Inc()
}

// RecordAPIError increments the API error counter.
func (c *Collector) RecordAPIError(errorType, endpoint string) {
	if c == nil {
		return
	}
	c.APIErrorsTotal.WithLabelValues(errorType, endpoint).Inc()
}

// RecordIngestionError increments the ingestion error counter.
func (c *Collector) RecordIngestionError(errorType string) {
	if c == nil {
		return
	}
	c.IngestionErrorsTotal.WithLabelValues(errorType).Inc()
}

// RecordDBError increments the database error counter.
func (c *Collector) RecordDBError(errorType string) {
	if c == nil {
		return
	}
	c.DBErrorsTotal.WithLabelValues(errorType).Inc()
}

// RecordFrameBuild counts one construction of the given frame.
func (c *Collector) RecordFrameBuild(frame string) {
	if c == nil {
		return
	}
	c.FrameBuildsTotal.WithLabelValues(frame).Inc()
}

// RecordEOPLoad counts one Earth orientation history build.
func (c *Collector) RecordEOPLoad(convention, status string) {
	if c == nil {
		return
	}
	c.EOPLoadsTotal.WithLabelValues(convention, status).Inc()
}

// RecordTransform counts one transform request between two frames.
func (c *Collector) RecordTransform(from, to string) {
	if c == nil {
		return
	}
	c.TransformsTotal.WithLabelValues(from, to).Inc()
}

// RecordTransformError counts one failed transform request.
func (c *Collector) RecordTransformError(errorType string) {
	if c == nil {
		return
	}
	c.TransformErrors.WithLabelValues(errorType).Inc()
}

// RecordCacheHit counts one interpolation sample cache hit.
func (c *Collector) RecordCacheHit(frame string) {
	if c == nil {
		return
	}
	c.CacheHitsTotal.WithLabelValues(frame).Inc()
}

// RecordCacheMiss counts one interpolation sample cache miss.
func (c *Collector) RecordCacheMiss(frame string) {
	if c == nil {
		return
	}
	c.CacheMissesTotal.WithLabelValues(frame).Inc()
}

// RecordCacheEviction counts one evicted interpolation sample slot.
func (c *Collector) RecordCacheEviction(frame string) {
	if c == nil {
		return
	}
	c.CacheEvictionsTotal.WithLabelValues(frame).Inc()
}

// UpdateDBConnectionPool updates the connection pool gauges.
func (c *Collector) UpdateDBConnectionPool(inUse, idle, total int) {
	if c == nil {
		return
	}
	c.DBConnectionPool.WithLabelValues("in_use").Set(float64(inUse))
	c.DBConnectionPool.WithLabelValues("idle").Set(float64(idle))
	c.DBConnectionPool.WithLabelValues("total").Set(float64(total))
}
