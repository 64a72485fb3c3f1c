package nuclino

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector provides Prometheus metrics for the client's request
// lifecycle, rate gate and response dispatch. It is safe for concurrent use.
// All record methods are nil-receiver safe so the client can call them
// unconditionally.
type MetricsCollector struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight *prometheus.GaugeVec

	gateWaitSeconds *prometheus.HistogramVec
	gateOccupancy   *prometheus.GaugeVec

	objectsParsed *prometheus.CounterVec

	errorsTotal *prometheus.CounterVec

	registry prometheus.Registerer
}

// NewMetricsCollector creates a metrics collector on the default registerer.
func NewMetricsCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsCollectorWithRegistry creates a collector using the supplied registerer.
func NewMetricsCollectorWithRegistry(registry prometheus.Registerer) *MetricsCollector {
	return &MetricsCollector{
		requestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "nuclino_requests_total",
				Help: "Total number of API requests made",
			},
			[]string{"method", "status_code", "endpoint"},
		),
		requestDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nuclino_request_duration_seconds",
				Help:    "Duration of API requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "status_code", "endpoint"},
		),
		requestsInFlight: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "nuclino_requests_in_flight",
				Help: "Number of API requests currently in flight",
			},
			[]string{"method", "endpoint"},
		),
		gateWaitSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nuclino_rate_gate_wait_seconds",
				Help:    "Time spent blocked waiting for rate gate admission",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		gateOccupancy: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "nuclino_rate_gate_window_occupancy",
				Help: "Number of admissions currently in the rolling rate window",
			},
			[]string{"name"},
		),
		objectsParsed: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "nuclino_objects_parsed_total",
				Help: "Total number of domain objects constructed from responses",
			},
			[]string{"object"},
		),
		errorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "nuclino_errors_total",
				Help: "Total number of classified errors surfaced to callers",
			},
			[]string{"type", "method", "endpoint"},
		),
		registry: registry,
	}
}

// RecordRequest records request count and duration.
func (mc *MetricsCollector) RecordRequest(method, endpoint string, statusCode int, duration time.Duration) {
	if mc == nil {
		return
	}
	code := strconv.Itoa(statusCode)
	mc.requestsTotal.WithLabelValues(method, code, endpoint).Inc()
	mc.requestDuration.WithLabelValues(method, code, endpoint).Observe(duration.Seconds())
}

// RecordRequestStart increments the in-flight gauge.
func (mc *MetricsCollector) RecordRequestStart(method, endpoint string) {
	if mc == nil {
		return
	}
	mc.requestsInFlight.WithLabelValues(method, endpoint).Inc()
}

// RecordRequestEnd decrements the in-flight gauge.
func (mc *MetricsCollector) RecordRequestEnd(method, endpoint string) {
	if mc == nil {
		return
	}
	mc.requestsInFlight.WithLabelValues(method, endpoint).Dec()
}

// RecordGateWait records the wall time a request spent blocked on admission.
func (mc *MetricsCollector) RecordGateWait(method, endpoint string, waited time.Duration) {
	if mc == nil {
		return
	}
	mc.gateWaitSeconds.WithLabelValues(method, endpoint).Observe(waited.Seconds())
}

// RecordGateOccupancy records the current rolling-window occupancy.
func (mc *MetricsCollector) RecordGateOccupancy(occupancy int) {
	if mc == nil {
		return
	}
	mc.gateOccupancy.WithLabelValues("default").Set(float64(occupancy))
}

// RecordObjectParsed counts a constructed domain object by tag.
func (mc *MetricsCollector) RecordObjectParsed(tag string) {
	if mc == nil {
		return
	}
	mc.objectsParsed.WithLabelValues(tag).Inc()
}

// RecordError counts a classified error by kind.
func (mc *MetricsCollector) RecordError(errorType, method, endpoint string) {
	if mc == nil {
		return
	}
	mc.errorsTotal.WithLabelValues(errorType, method, endpoint).Inc()
}
