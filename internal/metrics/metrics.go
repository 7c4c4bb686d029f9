// Package metrics provides Prometheus metrics for the MediAI backend
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the backend. Each instance owns its
// registry, so several can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Chat metrics
	MessagesStoredTotal     *prometheus.CounterVec
	PublicRepliesTotal      prometheus.Counter
	RateLimitRejectedTotal  prometheus.Counter
	GeneratorFallbacksTotal *prometheus.CounterVec
	StreamFailuresTotal     prometheus.Counter
}

// NewMetrics creates and registers all metrics on a fresh registry, together
// with the Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{registry: reg}

	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediai_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	m.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mediai_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	m.MessagesStoredTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediai_chat_messages_stored_total",
			Help: "Total number of chat messages persisted",
		},
		[]string{"role"},
	)

	m.PublicRepliesTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "mediai_public_replies_total",
			Help: "Total number of replies served to anonymous visitors",
		},
	)

	m.RateLimitRejectedTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "mediai_rate_limit_rejected_total",
			Help: "Total number of public messages rejected by the rate limiter",
		},
	)

	m.GeneratorFallbacksTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediai_generator_fallbacks_total",
			Help: "Total number of fallback replies produced by the completions generator",
		},
		[]string{"reason"},
	)

	m.StreamFailuresTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "mediai_stream_failures_total",
			Help: "Total number of reply streams that ended in an error",
		},
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records a finished HTTP request
func (m *Metrics) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordExchange counts the two messages of a committed exchange
func (m *Metrics) RecordExchange() {
	m.MessagesStoredTotal.WithLabelValues("user").Inc()
	m.MessagesStoredTotal.WithLabelValues("assistant").Inc()
}

// RecordGeneratorFallback counts a fallback reply by reason
func (m *Metrics) RecordGeneratorFallback(reason string) {
	m.GeneratorFallbacksTotal.WithLabelValues(reason).Inc()
}

// RecordStreamFailure counts a stream that ended in an error
func (m *Metrics) RecordStreamFailure(error) {
	m.StreamFailuresTotal.Inc()
}
