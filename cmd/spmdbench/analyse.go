package main

import (
	"context"
	"io"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/spf13/cobra"

	"github.com/sarchlab/spmdbench/benchmarks"
	"github.com/sarchlab/spmdbench/report"
	"github.com/sarchlab/spmdbench/results"
)

func newAnalyseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "analyse",
		Aliases: []string{"analyze"},
		Short:   "Derive metrics from the JSON records and write the report",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.analyse(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func (a *app) analyse(ctx context.Context, out io.Writer) error {
	records, err := results.LoadRecords(a.cfg.DataFile)
	if err != nil {
		return err
	}

	t, err := benchmarks.Analyse(records, a.cfg.MeasurePolicy(), a.logger)
	if err != nil {
		return err
	}

	if err := report.SaveCSV(a.cfg.ReportFile, t, a.cfg.SeparatorRune()); err != nil {
		return err
	}
	a.logger.Info("wrote report", "path", a.cfg.ReportFile, "benchmarks", len(t.Benchmarks()))

	if a.cfg.SQLiteFile != "" {
		if err := report.WriteSQLite(ctx, a.cfg.SQLiteFile, t); err != nil {
			return err
		}
		a.logger.Info("wrote report database", "path", a.cfg.SQLiteFile)
	}

	return report.Summary(out, t, report.SummaryOptions{
		ClockFreq: sim.Freq(a.cfg.ClockMHz) * sim.MHz,
	})
}
