package telemetry

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects the counters of one benchmark run in a private
// registry.
type Metrics struct {
	Registry *prometheus.Registry

	Builds          *prometheus.CounterVec
	BuildFailures   prometheus.Counter
	Simulations     prometheus.Counter
	SimulatedCycles *prometheus.GaugeVec
	BuildDuration   prometheus.Histogram
	MeasureDuration prometheus.Histogram
}

// NewMetrics creates and registers all run metrics.
func NewMetrics() *Metrics {
	m := &Metrics{Registry: prometheus.NewRegistry()}

	m.Builds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spmdbench_builds_total",
			Help: "Total number of variant builds attempted",
		},
		[]string{"family"},
	)

	m.BuildFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "spmdbench_build_failures_total",
			Help: "Total number of variant builds that failed",
		},
	)

	m.Simulations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "spmdbench_simulations_total",
			Help: "Total number of measured variants",
		},
	)

	m.SimulatedCycles = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "spmdbench_simulated_cycles",
			Help: "Reduced cycle count of each measured variant",
		},
		[]string{"bench", "variant"},
	)

	m.BuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "spmdbench_build_duration_seconds",
			Help:    "Wall time of building one variant",
			Buckets: prometheus.DefBuckets,
		},
	)

	m.MeasureDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "spmdbench_measure_duration_seconds",
			Help:    "Wall time of simulating one variant all runs",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
	)

	m.Registry.MustRegister(
		m.Builds,
		m.BuildFailures,
		m.Simulations,
		m.SimulatedCycles,
		m.BuildDuration,
		m.MeasureDuration,
	)
	return m
}

// ObserveBuild records one build attempt.
func (m *Metrics) ObserveBuild(family string, d time.Duration, err error) {
	m.Builds.WithLabelValues(family).Inc()
	m.BuildDuration.Observe(d.Seconds())
	if err != nil {
		m.BuildFailures.Inc()
	}
}

// ObserveMeasurement records one measured variant.
func (m *Metrics) ObserveMeasurement(bench, variant string, cycles int64, d time.Duration) {
	m.Simulations.Inc()
	m.SimulatedCycles.WithLabelValues(bench, variant).Set(float64(cycles))
	m.MeasureDuration.Observe(d.Seconds())
}

// WriteTextfile writes the metrics in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
