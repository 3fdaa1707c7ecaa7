package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all prometheus collectors of the service.
type Metrics struct {
	registry *prometheus.Registry

	DashboardSnapshots prometheus.Counter
	DashboardBuildTime prometheus.Histogram
	PolicyEvaluations  *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
	ErrorsCount        *prometheus.CounterVec
}

// New creates the collectors on a private registry so several instances
// (one per test) never collide.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		DashboardSnapshots: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dashboard_snapshots_total",
			Help:      "The total number of dashboard snapshots assembled",
		}),
		DashboardBuildTime: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dashboard_build_seconds",
			Help:      "Time taken to fetch inputs and assemble a dashboard snapshot",
			Buckets:   prometheus.DefBuckets,
		}),
		PolicyEvaluations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "policy_evaluations_total",
			Help:      "The total number of refund and commission evaluations",
		}, []string{"policy", "outcome"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "The total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		ErrorsCount: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}

// Handler exposes the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObservePolicy counts one policy evaluation. Safe on a nil receiver.
func (m *Metrics) ObservePolicy(policy, outcome string) {
	if m == nil {
		return
	}
	m.PolicyEvaluations.WithLabelValues(policy, outcome).Inc()
}

// ObserveError counts a failed operation. Safe on a nil receiver.
func (m *Metrics) ObserveError(operation string) {
	if m == nil {
		return
	}
	m.ErrorsCount.WithLabelValues(operation).Inc()
}

// ObserveDashboard records one assembled snapshot and its build time.
func (m *Metrics) ObserveDashboard(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.DashboardSnapshots.Inc()
	m.DashboardBuildTime.Observe(elapsed.Seconds())
}

// ObserveHTTP records a finished request.
func (m *Metrics) ObserveHTTP(method, path, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, path, status).Inc()
	m.HTTPDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}
