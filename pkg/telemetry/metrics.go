package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus metrics for the resolution engine. A
// disabled instance is a no-op, so callers never nil-check.
type Metrics struct {
	config MetricsConfig

	commandsExecuted    prometheus.Counter
	conflictsResolved   prometheus.Counter
	packagesRemoved     prometheus.Counter
	packagesReinstalled prometheus.Counter
	driverIterations    prometheus.Counter
	runsCompleted       *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "pacfix"
	}

	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		commandsExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_executed_total",
			Help:      "Total number of package manager commands executed",
		}),
		conflictsResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conflicts_resolved_total",
			Help:      "Total number of package conflicts resolved",
		}),
		packagesRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packages_removed_total",
			Help:      "Total number of packages removed",
		}),
		packagesReinstalled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packages_reinstalled_total",
			Help:      "Total number of packages reinstalled",
		}),
		driverIterations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "driver_iterations_total",
			Help:      "Total number of driver loop iterations",
		}),
		runsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_completed_total",
			Help:      "Total number of runs completed",
		}, []string{"status"}),
	}

	registry.MustRegister(
		m.commandsExecuted,
		m.conflictsResolved,
		m.packagesRemoved,
		m.packagesReinstalled,
		m.driverIterations,
		m.runsCompleted,
	)

	return m, nil
}

// Enabled reports whether metrics collection is active.
func (m *Metrics) Enabled() bool {
	return m.registry != nil
}

// IncCommandsExecuted counts one package manager invocation.
func (m *Metrics) IncCommandsExecuted() {
	if m.Enabled() {
		m.commandsExecuted.Inc()
	}
}

// IncConflictsResolved counts one resolved conflict pair.
func (m *Metrics) IncConflictsResolved() {
	if m.Enabled() {
		m.conflictsResolved.Inc()
	}
}

// IncPackagesRemoved counts one removed package.
func (m *Metrics) IncPackagesRemoved() {
	if m.Enabled() {
		m.packagesRemoved.Inc()
	}
}

// IncPackagesReinstalled counts one reinstalled package.
func (m *Metrics) IncPackagesReinstalled() {
	if m.Enabled() {
		m.packagesReinstalled.Inc()
	}
}

// IncDriverIterations counts one driver loop iteration.
func (m *Metrics) IncDriverIterations() {
	if m.Enabled() {
		m.driverIterations.Inc()
	}
}

// IncRunsCompleted counts one finished run by final status.
func (m *Metrics) IncRunsCompleted(status string) {
	if m.Enabled() {
		m.runsCompleted.WithLabelValues(status).Inc()
	}
}

// Handler returns an HTTP handler exposing the registry, or nil when
// metrics are disabled.
func (m *Metrics) Handler() http.Handler {
	if !m.Enabled() {
		return nil
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, primarily for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
