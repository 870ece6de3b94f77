// Package metric provides Prometheus metrics for nsremover.
package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// NamespaceSource reports the registry state exported by Collector.
type NamespaceSource interface {
	Initialized() bool
	Len() int
}

// Collector exports the namespace registry state at scrape time.
type Collector struct {
	source NamespaceSource

	namespaces  *prometheus.Desc
	initialized *prometheus.Desc
}

// NewCollector creates a collector reading from source.
func NewCollector(source NamespaceSource) *Collector {
	return &Collector{
		source: source,
		namespaces: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "registry", "namespaces"),
			"Namespaces registered for sweeping",
			nil, nil,
		),
		initialized: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "registry", "initialized"),
			"1 once the namespace registry has been initialized",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.namespaces
	ch <- c.initialized
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	initialized := 0.0
	if c.source.Initialized() {
		initialized = 1
	}
	ch <- prometheus.MustNewConstMetric(c.namespaces, prometheus.GaugeValue, float64(c.source.Len()))
	ch <- prometheus.MustNewConstMetric(c.initialized, prometheus.GaugeValue, initialized)
}
