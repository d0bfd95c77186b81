package metric

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tokauth"

// Operation labels for AuthOperations.
const (
	OpRegister     = "register"
	OpLogin        = "login"
	OpAuthenticate = "authenticate"
)

// Registry holds the application metrics and the Prometheus registry they
// are registered with.
type Registry struct {
	registry *prometheus.Registry

	// AuthOperations counts auth operations by operation and result
	// (success, failure).
	AuthOperations *prometheus.CounterVec

	// RequestsTotal counts HTTP requests by method, route and status.
	RequestsTotal *prometheus.CounterVec

	// RequestDuration observes HTTP latency by method and route.
	RequestDuration *prometheus.HistogramVec
}

// NewRegistry creates a Registry with all metrics registered, plus the Go
// and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
		AuthOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "operations_total",
			Help:      "Authentication operations by operation and result.",
		}, []string{"operation", "result"}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		r.AuthOperations,
		r.RequestsTotal,
		r.RequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// Prometheus returns the underlying registry, for components that register
// their own collectors.
func (r *Registry) Prometheus() *prometheus.Registry {
	return r.registry
}

// RecordAuth counts one auth operation outcome.
func (r *Registry) RecordAuth(operation string, ok bool) {
	result := "failure"
	if ok {
		result = "success"
	}
	r.AuthOperations.WithLabelValues(operation, result).Inc()
}

// RecordRequest counts one HTTP request and observes its latency.
func (r *Registry) RecordRequest(method, route, status string, elapsed time.Duration) {
	r.RequestsTotal.WithLabelValues(method, route, status).Inc()
	r.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler returns an HTTP handler serving the registry in the Prometheus
// text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		Registry: r.registry,
	})
}
