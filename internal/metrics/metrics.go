// Package metrics provides Prometheus metrics for the summit service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "aim_summit"

// Submission outcomes.
const (
	OutcomeCreated     = "created"
	OutcomeBot         = "bot"
	OutcomeInvalid     = "invalid"
	OutcomeUpstream    = "upstream_error"
	OutcomeUnavailable = "unavailable"
)

// Metrics holds the collectors of one registry. Each Metrics value owns its registry so tests
// can build as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	submissions         *prometheus.CounterVec
	upstreamErrors      *prometheus.CounterVec
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	auto := promauto.With(reg)
	return &Metrics{
		registry: reg,
		httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpRequestDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		submissions: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Form submissions by form and outcome.",
		}, []string{"form", "outcome"}),
		upstreamErrors: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_errors_total",
			Help:      "Failed calls to external services by service and error kind.",
		}, []string{"service", "kind"}),
	}
}

// Registry returns the registry of the collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Submission counts one form submission.
func (m *Metrics) Submission(form, outcome string) {
	m.submissions.WithLabelValues(form, outcome).Inc()
}

// UpstreamError counts one failed external call.
func (m *Metrics) UpstreamError(service, kind string) {
	m.upstreamErrors.WithLabelValues(service, kind).Inc()
}

// Middleware records count and latency of every request under its route pattern. Unmatched
// requests are recorded under "unmatched" to keep label cardinality bounded.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.httpRequests.WithLabelValues(route, c.Request.Method, status).Inc()
		m.httpRequestDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
