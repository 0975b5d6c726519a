package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/spmdbench/results"
	"github.com/sarchlab/spmdbench/variant"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// SummaryOptions configures the terminal summary.
type SummaryOptions struct {
	// ClockFreq converts cycle counts into simulated time. Zero disables
	// the time columns.
	ClockFreq sim.Freq
}

// SimulatedMicros converts a cycle count into microseconds at freq.
func SimulatedMicros(cycles float64, freq sim.Freq) float64 {
	return float64(freq.NCyclesLater(int(cycles), 0)) * 1e6
}

// Summary prints cycle counts and speedups of every benchmark as a
// terminal table. Columns no benchmark has are left out.
func Summary(w io.Writer, t *results.Table, opts SummaryOptions) error {
	benches := t.Benchmarks()

	var cycleCols []string
	for _, k := range variant.Canonical() {
		col := results.CyclesColumn(k)
		if anyHas(t, benches, col) {
			cycleCols = append(cycleCols, col)
		}
	}
	var speedupCols []string
	for _, c := range Columns(t) {
		if strings.HasPrefix(c, "speedup_") {
			speedupCols = append(speedupCols, c)
		}
	}

	headers := []string{"bench"}
	headers = append(headers, cycleCols...)
	if opts.ClockFreq > 0 {
		for _, c := range cycleCols {
			headers = append(headers, c+" µs")
		}
	}
	for _, c := range speedupCols {
		headers = append(headers, strings.TrimPrefix(c, "speedup_"))
	}

	rows := make([][]string, 0, len(benches))
	for _, bench := range benches {
		row := []string{bench}
		for _, c := range cycleCols {
			row = append(row, Cell(t, bench, c))
		}
		if opts.ClockFreq > 0 {
			for _, c := range cycleCols {
				cell := ""
				if v, ok := t.Get(bench, c); ok {
					cell = fmt.Sprintf("%.3f", SimulatedMicros(v, opts.ClockFreq))
				}
				row = append(row, cell)
			}
		}
		for _, c := range speedupCols {
			row = append(row, Cell(t, bench, c))
		}
		rows = append(rows, row)
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	_, err := fmt.Fprintln(w, tbl.String())
	return err
}

func anyHas(t *results.Table, benches []string, col string) bool {
	for _, b := range benches {
		if _, ok := t.Get(b, col); ok {
			return true
		}
	}
	return false
}
