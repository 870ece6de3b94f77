// Package metric provides Prometheus metrics for nsremover.
package metric

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "nsremover"

// Sweep results used as the "result" label.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Registry holds all application metrics.
type Registry struct {
	reg *prometheus.Registry

	// Sweep metrics
	SweepsTotal    *prometheus.CounterVec
	SweepDuration  prometheus.Histogram
	RecordsDeleted *prometheus.CounterVec
	RecordsSkipped *prometheus.CounterVec

	// Request metrics
	InvocationsTotal *prometheus.CounterVec
}

// NewRegistry creates a registry with the sweep metrics and the Go runtime
// collectors registered.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),

		SweepsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "runs_total",
			Help:      "Completed sweeps by result",
		}, []string{"result"}),

		SweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "duration_seconds",
			Help:      "Wall time of a sweep across all namespaces",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),

		RecordsDeleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "records_deleted_total",
			Help:      "Records deleted by sweeps, per namespace",
		}, []string{"namespace"}),

		RecordsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweep",
			Name:      "records_skipped_total",
			Help:      "Matched keys with an empty value left in place, per namespace",
		}, []string{"namespace"}),

		InvocationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invocations_total",
			Help:      "Dispatched operations by name and status",
		}, []string{"operation", "status"}),
	}

	r.reg.MustRegister(
		r.SweepsTotal,
		r.SweepDuration,
		r.RecordsDeleted,
		r.RecordsSkipped,
		r.InvocationsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// Registerer exposes the underlying registry for other components
// (for example the Badger engine gauges).
func (r *Registry) Registerer() prometheus.Registerer {
	return r.reg
}

// Gatherer exposes the underlying registry for tests and exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// MustRegister registers additional collectors.
func (r *Registry) MustRegister(cs ...prometheus.Collector) {
	r.reg.MustRegister(cs...)
}

// ObserveSweep records the outcome of one sweep.
func (r *Registry) ObserveSweep(result string, elapsed time.Duration) {
	r.SweepsTotal.WithLabelValues(result).Inc()
	r.SweepDuration.Observe(elapsed.Seconds())
}

// ObserveNamespace records what a sweep did inside one namespace.
func (r *Registry) ObserveNamespace(ns string, deleted, skipped int) {
	if deleted > 0 {
		r.RecordsDeleted.WithLabelValues(ns).Add(float64(deleted))
	}
	if skipped > 0 {
		r.RecordsSkipped.WithLabelValues(ns).Add(float64(skipped))
	}
}

// ObserveInvocation records one dispatched operation.
func (r *Registry) ObserveInvocation(operation string, status int) {
	label := "ok"
	if status >= 400 {
		label = "error"
	}
	r.InvocationsTotal.WithLabelValues(operation, label).Inc()
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}
