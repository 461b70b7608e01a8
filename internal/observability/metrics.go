package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics registers the Prometheus collectors for the HTTP layer and the
// lifecycle engine.
type Metrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errorTotal      *prometheus.CounterVec
	transitionTotal *prometheus.CounterVec
	assignmentTotal *prometheus.CounterVec
}

// NewMetrics initializes a dedicated registry with the service collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	errorTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "domain_errors_total",
		Help: "Total number of domain errors returned to callers",
	}, []string{"code"})

	transitionTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "complaint_transitions_total",
		Help: "Accepted lifecycle transitions by event and resulting status",
	}, []string{"event", "status"})

	assignmentTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "complaint_assignments_total",
		Help: "Assignment operations by kind",
	}, []string{"kind"})

	registry.MustRegister(requestTotal, requestDuration, errorTotal, transitionTotal, assignmentTotal)

	return &Metrics{
		registry:        registry,
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		errorTotal:      errorTotal,
		transitionTotal: transitionTotal,
		assignmentTotal: assignmentTotal,
	}
}

// Handler exposes the registry for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRequest increments request counters.
func (m *Metrics) RecordRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordError increments the counter for a domain error code.
func (m *Metrics) RecordError(code string) {
	if m == nil {
		return
	}
	m.errorTotal.WithLabelValues(code).Inc()
}

// RecordTransition counts an accepted lifecycle transition.
func (m *Metrics) RecordTransition(event, status string) {
	if m == nil {
		return
	}
	m.transitionTotal.WithLabelValues(event, status).Inc()
}

// RecordAssignment counts an assignment operation.
func (m *Metrics) RecordAssignment(kind string) {
	if m == nil {
		return
	}
	m.assignmentTotal.WithLabelValues(kind).Inc()
}
