package metrics

import (
	"regexp"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Prom is the shared registry all client metrics attach to.
	Prom = New()
)

// Prometheus owns a metrics registry.
type Prometheus struct {
	registry *prometheus.Registry
}

// New creates an empty registry.
func New() *Prometheus {
	return &Prometheus{
		registry: prometheus.NewRegistry(),
	}
}

// WithGoCollectorRuntimeMetrics registers the Go runtime collectors.
func (p *Prometheus) WithGoCollectorRuntimeMetrics() {
	p.registry.MustRegister(collectors.NewGoCollector(
		collectors.WithGoCollectorRuntimeMetrics(collectors.GoRuntimeMetricsRule{Matcher: regexp.MustCompile("/.*")}),
	))
}

// WithBuildInfoCollector registers the build info collector.
func (p *Prometheus) WithBuildInfoCollector() {
	p.registry.MustRegister(collectors.NewBuildInfoCollector())
}

// Registry returns the underlying registry.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}
