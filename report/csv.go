package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/spmdbench/results"
)

// WriteCSV writes one header row naming the properties, then one row per
// benchmark in sorted order.
func WriteCSV(w io.Writer, t *results.Table, sep rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = sep

	cols := Columns(t)
	if err := cw.Write(append([]string{"bench"}, cols...)); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}

	for _, bench := range t.Benchmarks() {
		row := make([]string, 0, len(cols)+1)
		row = append(row, bench)
		for _, c := range cols {
			row = append(row, Cell(t, bench, c))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write report row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the report to path.
func SaveCSV(path string, t *results.Table, sep rune) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	if err := WriteCSV(f, t, sep); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
