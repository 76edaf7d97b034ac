// Package metrics provides Prometheus metrics for the F3 data API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultNamespace = "f3"

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithHistogramBuckets sets custom buckets for the request duration histogram.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// Manager owns the service collectors and the registry they live in.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	databaseUp          prometheus.Gauge
	queryErrors         *prometheus.CounterVec
}

// NewManager registers all collectors on reg. A nil reg gets a fresh registry.
func NewManager(reg *prometheus.Registry, opts ...Option) *Manager {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Manager{
		namespace:        defaultNamespace,
		histogramBuckets: prometheus.DefBuckets,
		registry:         reg,
	}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(reg)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"method", "route"},
	)

	m.databaseUp = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "database_up",
		Help:      "1 if the last connectivity check succeeded, 0 otherwise",
	})

	m.queryErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Name:      "query_errors_total",
			Help:      "Total number of failed count queries",
		},
		[]string{"query"},
	)

	return m
}

// ObserveRequest records one finished HTTP request.
func (m *Manager) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// SetDatabaseUp has the signature expected by database.WithConnectionObserver.
func (m *Manager) SetDatabaseUp(connected bool) {
	if connected {
		m.databaseUp.Set(1)
		return
	}
	m.databaseUp.Set(0)
}

// QueryError counts one failed count query, labelled by query name.
func (m *Manager) QueryError(query string) {
	m.queryErrors.WithLabelValues(query).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
