package prometheus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	// HTTP request metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPStatusCategory  *prometheus.CounterVec

	// Database operation metrics
	DBOperationDuration *prometheus.HistogramVec

	// Record metrics
	RecordOperationsCounter *prometheus.CounterVec
	ValidationFailures      *prometheus.CounterVec

	// Media metrics
	MediaFilesStored    prometheus.Counter
	MediaFilesRemoved   prometheus.Counter
	MediaStorageWarning prometheus.Counter
}

// NewMetrics creates the collectors with the given name prefix and registers them on reg
func NewMetrics(prefix string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		HTTPStatusCategory: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_status_category_total",
				Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
			},
			[]string{"category", "method", "path"},
		),
		DBOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_db_operation_duration_seconds",
				Help:    "Duration of database operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"table", "operation_type"},
		),
		RecordOperationsCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_record_operations_total",
				Help: "Total number of completed record operations",
			},
			[]string{"entity", "operation"},
		),
		ValidationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_validation_failures_total",
				Help: "Total number of requests rejected by validation",
			},
			[]string{"entity"},
		),
		MediaFilesStored: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_media_files_stored_total",
				Help: "Total number of uploaded files written to storage",
			},
		),
		MediaFilesRemoved: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_media_files_removed_total",
				Help: "Total number of stored files deleted",
			},
		),
		MediaStorageWarning: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_media_storage_warnings_total",
				Help: "Total number of tracked files that could not be removed",
			},
		),
	}
}

// ObserveHTTPRequest records a finished HTTP request
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	statusStr := strconv.Itoa(status)
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, statusStr).Observe(d.Seconds())

	if category := statusCategory(status); category != "" {
		m.HTTPStatusCategory.WithLabelValues(category, method, path).Inc()
	}
}

func statusCategory(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500 && status < 600:
		return "5xx"
	default:
		return ""
	}
}

// TrackDBOperation returns a function that records the duration of a database operation
func (m *Metrics) TrackDBOperation(table, operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if m == nil {
			return
		}
		m.DBOperationDuration.WithLabelValues(table, operationType).Observe(time.Since(startTime).Seconds())
	}
}

// RecordOperation increments the counter for record operations
func (m *Metrics) RecordOperation(entity, operation string) {
	if m == nil {
		return
	}
	m.RecordOperationsCounter.WithLabelValues(entity, operation).Inc()
}

// RecordValidationFailure increments the validation failure counter for an entity
func (m *Metrics) RecordValidationFailure(entity string) {
	if m == nil {
		return
	}
	m.ValidationFailures.WithLabelValues(entity).Inc()
}

// RecordFileStored increments the stored file counter
func (m *Metrics) RecordFileStored() {
	if m == nil {
		return
	}
	m.MediaFilesStored.Inc()
}

// RecordFileRemoved increments the removed file counter
func (m *Metrics) RecordFileRemoved() {
	if m == nil {
		return
	}
	m.MediaFilesRemoved.Inc()
}

// RecordStorageWarning increments the storage warning counter
func (m *Metrics) RecordStorageWarning() {
	if m == nil {
		return
	}
	m.MediaStorageWarning.Inc()
}
