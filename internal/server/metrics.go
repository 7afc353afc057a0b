package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agbru/montyhall/internal/metrics"
)

// Metrics tracks HTTP traffic on the metrics endpoint and renders the
// registry it is bound to.
type Metrics struct {
	handler        http.Handler
	activeRequests prometheus.Gauge
	requestsTotal  *prometheus.CounterVec
}

// NewMetrics registers the HTTP metrics on reg and serves everything reg
// gathers. A nil reg gets a fresh metrics.NewRegistry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	factory := promauto.With(reg)
	return &Metrics{
		handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		activeRequests: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metrics.Namespace,
			Name:      "active_requests",
			Help:      "Number of HTTP requests currently being served",
		}),
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method",
		}, []string{"method"}),
	}
}

// IncrementActiveRequests marks a request as in flight.
func (m *Metrics) IncrementActiveRequests() { m.activeRequests.Inc() }

// DecrementActiveRequests marks a request as finished.
func (m *Metrics) DecrementActiveRequests() { m.activeRequests.Dec() }

// CountRequest counts one request with the given method.
func (m *Metrics) CountRequest(method string) { m.requestsTotal.WithLabelValues(method).Inc() }

// WritePrometheus renders the registry in the Prometheus exposition format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}
