// Package telemetry exposes Prometheus metrics for the task service.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operation results.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultNoop     = "noop"
	ResultError    = "error"
)

// Metrics holds the collectors registered for one service.
type Metrics struct {
	Operations *prometheus.CounterVec
	Conflicts  prometheus.Counter
	Saves      *prometheus.CounterVec
	Entities   *prometheus.GaugeVec
	HTTP       *prometheus.HistogramVec
	gatherer   prometheus.Gatherer
}

// NewMetrics registers all collectors on reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kanban",
			Subsystem: "manager",
			Name:      "operations_total",
			Help:      "Manager operations, labelled by operation, entity kind and result.",
		}, []string{"op", "kind", "result"}),

		Conflicts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "kanban",
			Subsystem: "manager",
			Name:      "scheduling_conflicts_total",
			Help:      "Creates and updates rejected because their time window overlapped.",
		}),

		Saves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kanban",
			Subsystem: "store",
			Name:      "saves_total",
			Help:      "Snapshot saves, labelled by result.",
		}, []string{"result"}),

		Entities: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "kanban",
			Subsystem: "manager",
			Name:      "entities",
			Help:      "Entities currently held, labelled by kind.",
		}, []string{"kind"}),

		HTTP: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "kanban",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"method", "route", "status"}),

		gatherer: reg,
	}
}

// NewDefaultMetrics returns metrics on a fresh registry that also carries
// the Go runtime and process collectors.
func NewDefaultMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewMetrics(reg)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Gatherer returns the registry backing m.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.gatherer
}
