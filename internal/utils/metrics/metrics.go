package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Asset metrics
	AssetsCreatedTotal    prometheus.Counter
	PresignTotal          *prometheus.CounterVec
	UploadsConfirmedTotal prometheus.Counter
	RelayDuration         prometheus.Histogram
	RelayFailuresTotal    *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "assetvault"
	}

	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),

		AssetsCreatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "asset",
				Name:      "created_total",
				Help:      "Total number of asset records allocated",
			},
		),
		PresignTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "asset",
				Name:      "presign_total",
				Help:      "Total number of presigned URLs issued",
			},
			[]string{"operation"}, // operation: put, get
		),
		UploadsConfirmedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "asset",
				Name:      "uploads_confirmed_total",
				Help:      "Total number of uploads confirmed and marked complete",
			},
		),
		RelayDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "asset",
				Name:      "relay_duration_seconds",
				Help:      "Duration of upload relays to object storage",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
		),
		RelayFailuresTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "asset",
				Name:      "relay_failures_total",
				Help:      "Total number of failed upload relays",
			},
			[]string{"status"},
		),
	}
}

// --- Convenience methods ---

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	statusStr := statusCodeToString(status)
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordAssetCreated records an allocated asset record.
func (m *Metrics) RecordAssetCreated() {
	m.AssetsCreatedTotal.Inc()
}

// RecordPresign records an issued presigned URL.
func (m *Metrics) RecordPresign(operation string) {
	m.PresignTotal.WithLabelValues(operation).Inc()
}

// RecordUploadConfirmed records a confirmed upload.
func (m *Metrics) RecordUploadConfirmed() {
	m.UploadsConfirmedTotal.Inc()
}

// RecordRelay records a relay attempt by outcome.
func (m *Metrics) RecordRelay(status int, duration time.Duration) {
	m.RelayDuration.Observe(duration.Seconds())
	if status != 200 {
		m.RelayFailuresTotal.WithLabelValues(statusCodeToString(status)).Inc()
	}
}

// statusCodeToString converts an HTTP status code to a string category.
func statusCodeToString(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
