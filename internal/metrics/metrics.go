// Package metrics exposes Prometheus collectors for backend calls and HTTP traffic.
//
// Collectors live on a private registry so tests can build as many recorders
// as they like without tripping duplicate registration.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder records API and HTTP metrics. A nil *Recorder is valid and records nothing.
type Recorder struct {
	reg *prometheus.Registry

	apiRequests *prometheus.CounterVec   // proformas_api_requests_total
	apiDuration *prometheus.HistogramVec // proformas_api_request_duration_seconds
	httpTotal   *prometheus.CounterVec   // proformas_http_requests_total
}

// New builds a Recorder with its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()

	apiRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proformas_api_requests_total",
			Help: "Remote API operations, partitioned by operation and outcome (ok, error).",
		},
		[]string{"operation", "outcome"},
	)
	apiDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "proformas_api_request_duration_seconds",
			Help:    "Latency of remote API operations in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
	httpTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proformas_http_requests_total",
			Help: "HTTP requests served, partitioned by method and status code.",
		},
		[]string{"method", "code"},
	)
	reg.MustRegister(apiRequests, apiDuration, httpTotal)

	return &Recorder{
		reg:         reg,
		apiRequests: apiRequests,
		apiDuration: apiDuration,
		httpTotal:   httpTotal,
	}
}

// ObserveAPICall records one remote operation.
func (r *Recorder) ObserveAPICall(operation string, elapsed time.Duration, err error) {
	if r == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.apiRequests.WithLabelValues(operation, outcome).Inc()
	r.apiDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveHTTP records one served request.
func (r *Recorder) ObserveHTTP(method string, status int) {
	if r == nil {
		return
	}
	r.httpTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
