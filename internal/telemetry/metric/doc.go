// Package metric provides Prometheus metrics for nsremover.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: Prometheus registry, sweep metrics and HTTP handler
//   - collector.go: Custom collector for namespace registry state
//
// Metrics are exposed at /metrics in Prometheus format.
package metric
