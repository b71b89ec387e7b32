package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RecorderInterface defines the contract for recording operational metrics
type RecorderInterface interface {
	RecordAggregationQuery(operation string, duration time.Duration, success bool)
	RecordEventPublished(action string)
	RecordEventDropped()
	ConnectionOpened()
	ConnectionClosed()
}

// PrometheusRecorder records metrics to the default prometheus registry
type PrometheusRecorder struct {
	aggregationQueries  *prometheus.CounterVec
	aggregationDuration prometheus.Histogram
	eventsPublished     *prometheus.CounterVec
	eventsDropped       prometheus.Counter
	activeConnections   prometheus.Gauge
}

// NewPrometheusRecorder creates and registers the metric set
func NewPrometheusRecorder() RecorderInterface {
	return &PrometheusRecorder{
		aggregationQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analytics_queries_total",
				Help: "Total number of analytics aggregation queries",
			},
			[]string{"operation", "status"},
		),
		aggregationDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "analytics_query_duration_milliseconds",
				Help:    "Analytics aggregation query duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		eventsPublished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "realtime_events_published_total",
				Help: "Total number of realtime events published",
			},
			[]string{"action"},
		),
		eventsDropped: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "realtime_events_dropped_total",
				Help: "Total number of realtime events dropped on slow or absent consumers",
			},
		),
		activeConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "realtime_active_connections",
				Help: "Number of currently connected websocket clients",
			},
		),
	}
}

func (m *PrometheusRecorder) RecordAggregationQuery(operation string, duration time.Duration, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.aggregationQueries.WithLabelValues(operation, status).Inc()
	m.aggregationDuration.Observe(float64(duration.Milliseconds()))
}

func (m *PrometheusRecorder) RecordEventPublished(action string) {
	m.eventsPublished.WithLabelValues(action).Inc()
}

func (m *PrometheusRecorder) RecordEventDropped() {
	m.eventsDropped.Inc()
}

func (m *PrometheusRecorder) ConnectionOpened() {
	m.activeConnections.Inc()
}

func (m *PrometheusRecorder) ConnectionClosed() {
	m.activeConnections.Dec()
}

// NoopRecorder discards all metrics. Used in tests.
type NoopRecorder struct{}

func NewNoopRecorder() RecorderInterface { return &NoopRecorder{} }

func (NoopRecorder) RecordAggregationQuery(string, time.Duration, bool) {}
func (NoopRecorder) RecordEventPublished(string)                       {}
func (NoopRecorder) RecordEventDropped()                               {}
func (NoopRecorder) ConnectionOpened()                                 {}
func (NoopRecorder) ConnectionClosed()                                 {}
