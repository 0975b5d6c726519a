// Package derive computes comparative metrics (speedups and size
// increases) from the raw measurements of each benchmark.
package derive

import (
	"log/slog"
	"math"

	"github.com/sarchlab/spmdbench/results"
	"github.com/sarchlab/spmdbench/variant"
)

// Precision is the number of decimal digits metrics are rounded to.
const Precision = 2

// Metric is one named ratio between two base columns of a row. The value
// is Numerator / Denominator.
type Metric struct {
	Name        string
	Numerator   string
	Denominator string

	// Requires gates the metric on a base column being present, in addition
	// to its own inputs.
	Requires string
}

// SpeedupName names the speedup of "of" over "over".
func SpeedupName(of, over variant.Key) string {
	return "speedup_" + of.String() + "_" + over.String()
}

// Speedup is the cycle ratio over/of; above 1 means "of" is faster.
func Speedup(of, over variant.Key) Metric {
	return Metric{
		Name:        SpeedupName(of, over),
		Numerator:   results.CyclesColumn(over),
		Denominator: results.CyclesColumn(of),
	}
}

// ObjectIncrease is the spmd object size relative to baseline.
func ObjectIncrease(baseline variant.Key) Metric {
	return Metric{
		Name:        "obj_increase_" + baseline.String(),
		Numerator:   results.ObjectColumn(variant.SPMDKey),
		Denominator: results.ObjectColumn(baseline),
	}
}

// ExecutableIncrease is the spmd executable size relative to baseline.
func ExecutableIncrease(baseline variant.Key) Metric {
	return Metric{
		Name:        "exe_increase_" + baseline.String(),
		Numerator:   results.ExecutableColumn(variant.SPMDKey),
		Denominator: results.ExecutableColumn(baseline),
	}
}

func threaded(m Metric) Metric {
	m.Requires = results.CyclesColumn(variant.ScalarThreadsKey)
	return m
}

// Metrics returns the closed set of derived metrics in computation order.
func Metrics() []Metric {
	return []Metric{
		Speedup(variant.SPMDKey, variant.ScalarKey),
		Speedup(variant.IntrinKey, variant.ScalarKey),
		Speedup(variant.SPMDKey, variant.IntrinKey),
		threaded(Speedup(variant.SPMDThreadsKey, variant.ScalarThreadsKey)),
		threaded(Speedup(variant.IntrinThreadsKey, variant.ScalarThreadsKey)),
		threaded(Speedup(variant.SPMDThreadsKey, variant.IntrinThreadsKey)),
		ObjectIncrease(variant.ScalarKey),
		ExecutableIncrease(variant.ScalarKey),
		ObjectIncrease(variant.IntrinKey),
		ExecutableIncrease(variant.IntrinKey),
	}
}

// Round rounds v to Precision decimal digits, halves away from zero.
func Round(v float64) float64 {
	scale := math.Pow(10, Precision)
	return math.Round(v*scale) / scale
}

// Deriver computes metrics for every row of a table.
type Deriver struct {
	metrics []Metric
	logger  *slog.Logger
}

// NewDeriver creates a deriver for the standard metric set. A nil logger
// uses slog.Default().
func NewDeriver(logger *slog.Logger) *Deriver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Deriver{metrics: Metrics(), logger: logger}
}

// Derive recomputes the metrics of every row from its measurements alone.
// A metric whose inputs are missing for a row is skipped for that row.
func (d *Deriver) Derive(t *results.Table) {
	for _, bench := range t.Benchmarks() {
		t.ResetMetrics(bench)
		for _, m := range d.metrics {
			if v, ok := d.compute(t, bench, m); ok {
				t.SetMetric(bench, m.Name, v)
			}
		}
	}
}

func (d *Deriver) compute(t *results.Table, bench string, m Metric) (float64, bool) {
	if m.Requires != "" {
		if _, ok := t.Get(bench, m.Requires); !ok {
			d.skip(bench, m, m.Requires)
			return 0, false
		}
	}
	num, ok := t.Get(bench, m.Numerator)
	if !ok {
		d.skip(bench, m, m.Numerator)
		return 0, false
	}
	den, ok := t.Get(bench, m.Denominator)
	if !ok || den == 0 {
		d.skip(bench, m, m.Denominator)
		return 0, false
	}
	return Round(num / den), true
}

func (d *Deriver) skip(bench string, m Metric, missing string) {
	d.logger.Debug("skipping metric", "bench", bench, "metric", m.Name, "missing", missing)
}

// Derive computes the standard metrics with the default logger.
func Derive(t *results.Table) {
	NewDeriver(nil).Derive(t)
}
