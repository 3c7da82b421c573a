// Package metrics provides Prometheus instrumentation for orchestration runs.
//
// Collection is opt-in: call InitRegistry before constructing metrics. When
// the registry was never initialized, NewBootMetrics returns nil and every
// recording method is a no-op, so hosts without metrics pay nothing.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	mu       sync.Mutex
	registry *prometheus.Registry
)

// InitRegistry enables metrics collection. Safe to call more than once.
func InitRegistry() {
	mu.Lock()
	defer mu.Unlock()
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
}

// GetRegistry returns the metrics registry, or nil when disabled.
func GetRegistry() *prometheus.Registry {
	mu.Lock()
	defer mu.Unlock()
	return registry
}

// IsEnabled reports whether InitRegistry has been called.
func IsEnabled() bool {
	return GetRegistry() != nil
}

// Handler returns an HTTP handler exposing the registry.
func Handler() http.Handler {
	reg := GetRegistry()
	if reg == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// BootMetrics records orchestration run observations.
type BootMetrics struct {
	runsTotal         *prometheus.CounterVec
	runDuration       prometheus.Histogram
	phaseDuration     *prometheus.HistogramVec
	instancesExecuted *prometheus.CounterVec
	instanceFailures  *prometheus.CounterVec
}

// NewBootMetrics creates Prometheus-backed orchestration metrics.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewBootMetrics() *BootMetrics {
	if !IsEnabled() {
		return nil
	}

	reg := GetRegistry()

	return &BootMetrics{
		runsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "goboot_runs_total",
				Help: "Total number of orchestration runs by outcome",
			},
			[]string{"outcome"}, // "success", "failure"
		),
		runDuration: promauto.With(reg).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "goboot_run_duration_seconds",
				Help:    "End-to-end duration of the orchestration run",
				Buckets: prometheus.DefBuckets,
			},
		),
		phaseDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "goboot_phase_duration_seconds",
				Help:    "Duration of each orchestration phase",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"phase"}, // "system", "auto", "startup"
		),
		instancesExecuted: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "goboot_instances_executed_total",
				Help: "Total number of entry points executed by phase",
			},
			[]string{"phase"},
		),
		instanceFailures: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "goboot_instance_failures_total",
				Help: "Total number of entry-point failures by phase and implementation",
			},
			[]string{"phase", "implementation"},
		),
	}
}

// RecordRun records a finished run with its outcome and total duration.
func (m *BootMetrics) RecordRun(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(outcome).Inc()
	m.runDuration.Observe(d.Seconds())
}

// ObservePhase records the duration of one phase.
func (m *BootMetrics) ObservePhase(phase string, d time.Duration) {
	if m == nil {
		return
	}
	m.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

// RecordInstance records one successfully executed entry point.
func (m *BootMetrics) RecordInstance(phase string) {
	if m == nil {
		return
	}
	m.instancesExecuted.WithLabelValues(phase).Inc()
}

// RecordInstanceFailure records one failed entry point.
func (m *BootMetrics) RecordInstanceFailure(phase, implementation string) {
	if m == nil {
		return
	}
	m.instanceFailures.WithLabelValues(phase, implementation).Inc()
}
