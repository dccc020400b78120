// Package metrics exposes Prometheus instrumentation for graph evaluation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "miniflow"

// Pass outcomes used as the status label.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Metrics holds the collectors for forward passes and node evaluations. It
// implements graph.Observer.
type Metrics struct {
	PassesTotal  *prometheus.CounterVec
	PassDuration prometheus.Histogram
	NodeDuration *prometheus.HistogramVec
	NodeErrors   *prometheus.CounterVec
}

// New registers the collectors with reg. Passing a fresh
// prometheus.NewRegistry keeps tests isolated from the global registry.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PassesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "passes_total",
			Help:      "Forward passes by outcome",
		}, []string{"status"}),
		PassDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pass_duration_seconds",
			Help:      "Duration of a complete forward pass",
			Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
		}),
		NodeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "node_forward_duration_seconds",
			Help:      "Duration of a single node evaluation by kind",
			Buckets:   []float64{0.000001, 0.00001, 0.0001, 0.001, 0.01, 0.1},
		}, []string{"kind"}),
		NodeErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "node_errors_total",
			Help:      "Failed node evaluations by kind",
		}, []string{"kind"}),
	}
}

// ObserveNode implements graph.Observer.
func (m *Metrics) ObserveNode(kind string, elapsed time.Duration, err error) {
	m.NodeDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	if err != nil {
		m.NodeErrors.WithLabelValues(kind).Inc()
	}
}

// ObservePass records one forward pass.
func (m *Metrics) ObservePass(elapsed time.Duration, err error) {
	m.PassDuration.Observe(elapsed.Seconds())
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	m.PassesTotal.WithLabelValues(status).Inc()
}

