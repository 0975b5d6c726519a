package benchmarks

import (
	"log/slog"

	"github.com/sarchlab/spmdbench/derive"
	"github.com/sarchlab/spmdbench/measure"
	"github.com/sarchlab/spmdbench/results"
)

// Analyse rebuilds the result table from measurement records and derives
// every metric. Records naming an unknown variant or carrying disagreeing
// runs fail the whole analysis.
func Analyse(records []results.Record, policy measure.Policy, logger *slog.Logger) (*results.Table, error) {
	table, err := results.TableFromRecords(records, policy)
	if err != nil {
		return nil, err
	}
	derive.NewDeriver(logger).Derive(table)
	return table, nil
}
