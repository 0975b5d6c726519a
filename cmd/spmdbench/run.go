package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/sarchlab/spmdbench/benchmarks"
	"github.com/sarchlab/spmdbench/measure"
	"github.com/sarchlab/spmdbench/results"
	"github.com/sarchlab/spmdbench/telemetry"
	"github.com/sarchlab/spmdbench/toolchain"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Build and measure every variant, writing the JSON records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context())
		},
	}
}

func newAllCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run the measurements, then analyse them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.run(cmd.Context()); err != nil {
				return err
			}
			return a.analyse(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func (a *app) run(ctx context.Context) error {
	jobs, err := a.jobs()
	if err != nil {
		return err
	}

	tc := a.cfg.Toolchain()
	if err := toolchain.PrepareScratch(tc.OutDir); err != nil {
		return err
	}

	builder := toolchain.NewBuilder(tc, toolchain.ExecRunner{},
		toolchain.WithLogger(a.logger))
	runner := measure.NewRunner(a.cfg.NewSimulator(),
		measure.WithRuns(a.cfg.Runs),
		measure.WithSeed(a.cfg.Seed),
		measure.WithPolicy(a.cfg.MeasurePolicy()),
		measure.WithLogger(a.logger),
	)

	hc := benchmarks.DefaultConfig()
	hc.Jobs = a.cfg.Jobs
	hc.Logger = a.logger
	if a.cfg.MetricsFile != "" {
		hc.Metrics = telemetry.NewMetrics()
	}

	h := benchmarks.NewHarness(hc, builder, runner)
	h.AddJobs(jobs)

	a.logger.Info("starting run", "variants", len(jobs), "jobs", hc.Jobs, "runs", a.cfg.Runs)
	_, records, err := h.RunAll(ctx)
	if hc.Metrics != nil {
		if werr := hc.Metrics.WriteTextfile(a.cfg.MetricsFile); werr != nil {
			a.logger.Warn("could not write metrics", "error", werr)
		}
	}
	if err != nil {
		return err
	}

	if err := results.SaveRecords(a.cfg.DataFile, records); err != nil {
		return err
	}
	a.logger.Info("wrote measurements", "path", a.cfg.DataFile, "records", len(records))
	return nil
}
