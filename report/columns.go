// Package report renders a result table as a benchmark × property report.
package report

import (
	"strconv"

	"github.com/samber/lo"

	"github.com/sarchlab/spmdbench/results"
)

// Columns returns the report's property columns: the fixed measurement
// columns followed by every derived metric in first-computed order across
// benchmarks in sorted order.
func Columns(t *results.Table) []string {
	cols := results.BaseColumns()
	var derived []string
	for _, bench := range t.Benchmarks() {
		derived = append(derived, t.Metrics(bench)...)
	}
	return append(cols, lo.Uniq(derived)...)
}

// FormatValue renders one cell. Measurement columns hold whole numbers;
// metrics use the shortest representation that round-trips.
func FormatValue(property string, v float64) string {
	if results.IsBaseColumn(property) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Cell renders the value of a property for a benchmark. Absent values are
// the empty string.
func Cell(t *results.Table, bench, property string) string {
	v, ok := t.Get(bench, property)
	if !ok {
		return ""
	}
	return FormatValue(property, v)
}
