// Package benchmarks drives the build matrix: it builds every benchmark
// variant, measures it on the simulator, and collects the results.
package benchmarks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sarchlab/spmdbench/measure"
	"github.com/sarchlab/spmdbench/results"
	"github.com/sarchlab/spmdbench/telemetry"
	"github.com/sarchlab/spmdbench/toolchain"
	"github.com/sarchlab/spmdbench/variant"
)

// Builder produces the artifact of one benchmark variant.
type Builder interface {
	Build(ctx context.Context, bench variant.Benchmark, k variant.Key) (toolchain.Artifact, error)
}

// Measurer simulates an artifact and reports its measurement.
type Measurer interface {
	Measure(ctx context.Context, art toolchain.Artifact) (measure.Measurement, error)
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// Jobs is how many variants are built and measured concurrently.
	// Runs of one image are always sequential.
	Jobs int

	// Logger receives progress events (default: slog.Default()).
	Logger *slog.Logger

	// Metrics, if set, records build and measurement statistics.
	Metrics *telemetry.Metrics
}

// DefaultConfig returns a sequential harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		Jobs:   1,
		Logger: slog.Default(),
	}
}

// Harness runs build and measure pipelines for a list of jobs.
type Harness struct {
	config   HarnessConfig
	builder  Builder
	measurer Measurer
	jobs     []variant.Job
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig, builder Builder, measurer Measurer) *Harness {
	if config.Jobs < 1 {
		config.Jobs = 1
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Harness{
		config:   config,
		builder:  builder,
		measurer: measurer,
	}
}

// AddJob adds one job to the harness.
func (h *Harness) AddJob(j variant.Job) {
	h.jobs = append(h.jobs, j)
}

// AddJobs adds multiple jobs to the harness.
func (h *Harness) AddJobs(jobs []variant.Job) {
	h.jobs = append(h.jobs, jobs...)
}

// Jobs returns the queued jobs.
func (h *Harness) Jobs() []variant.Job {
	return h.jobs
}

// RunAll builds and measures every job. The first failure stops the run
// and no results are returned. Records keep the job order.
func (h *Harness) RunAll(ctx context.Context) (*results.Table, []results.Record, error) {
	table := results.NewTable()
	records := make([]results.Record, len(h.jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(h.config.Jobs)

	for i, job := range h.jobs {
		i, job := i, job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := h.runJob(ctx, job)
			if err != nil {
				return err
			}
			if err := table.Record(job.Bench.Name, job.Key, m); err != nil {
				return err
			}
			records[i] = results.NewRecord(job.Bench.Name, job.Key, m)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return table, records, nil
}

// runJob executes a single build and measure pipeline.
func (h *Harness) runJob(ctx context.Context, job variant.Job) (measure.Measurement, error) {
	start := time.Now()
	art, err := h.builder.Build(ctx, job.Bench, job.Key)
	if h.config.Metrics != nil {
		h.config.Metrics.ObserveBuild(string(job.Bench.Family), time.Since(start), err)
	}
	if err != nil {
		return measure.Measurement{}, err
	}

	h.config.Logger.Info("running", "bench", job.Bench.Name, "variant", job.Key.String())

	start = time.Now()
	m, err := h.measurer.Measure(ctx, art)
	if err != nil {
		return measure.Measurement{}, fmt.Errorf("failed to measure %s %s: %w",
			job.Bench.Name, job.Key, err)
	}
	if h.config.Metrics != nil {
		h.config.Metrics.ObserveMeasurement(job.Bench.Name, job.Key.String(), m.Cycles, time.Since(start))
	}
	return m, nil
}
