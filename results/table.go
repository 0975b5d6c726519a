// Package results holds the sparse per-benchmark result table shared by the
// measurement, derivation, and reporting stages.
package results

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sarchlab/spmdbench/measure"
	"github.com/sarchlab/spmdbench/variant"
)

// Entry is what is known about one (benchmark, variant) pair.
type Entry struct {
	Cycles    int64
	Runs      []int64
	HasCycles bool

	ObjectSize     int64
	ExecutableSize int64
	HasSizes       bool
}

type row struct {
	entries     map[variant.Key]*Entry
	metrics     map[string]float64
	metricOrder []string
}

func newRow() *row {
	return &row{
		entries: make(map[variant.Key]*Entry),
		metrics: make(map[string]float64),
	}
}

func (r *row) entry(k variant.Key) *Entry {
	e, ok := r.entries[k]
	if !ok {
		e = &Entry{}
		r.entries[k] = e
	}
	return e
}

// DuplicateMeasurement reports a second cycle measurement for a
// (benchmark, variant) pair.
type DuplicateMeasurement struct {
	Bench   string
	Variant variant.Key
}

func (e *DuplicateMeasurement) Error() string {
	return fmt.Sprintf("%s %s: measured twice", e.Bench, e.Variant)
}

// Table maps benchmark names to sparse rows of measurements and derived
// metrics. It is safe for concurrent use.
type Table struct {
	mu   sync.RWMutex
	rows map[string]*row
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{rows: make(map[string]*row)}
}

func (t *Table) row(bench string) *row {
	r, ok := t.rows[bench]
	if !ok {
		r = newRow()
		t.rows[bench] = r
	}
	return r
}

// Record stores the measurement of one variant. Each variant of a
// benchmark can be measured once.
func (t *Table) Record(bench string, k variant.Key, m measure.Measurement) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	e := t.row(bench).entry(k)
	if e.HasCycles {
		return &DuplicateMeasurement{Bench: bench, Variant: k}
	}
	e.Cycles = m.Cycles
	e.Runs = append([]int64(nil), m.Runs...)
	e.HasCycles = true
	e.ObjectSize = m.ObjectSize
	e.ExecutableSize = m.ExecutableSize
	e.HasSizes = true
	return nil
}

// MergeSizes stores artifact sizes without touching any recorded cycles.
func (t *Table) MergeSizes(bench string, k variant.Key, objSize, exeSize int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e := t.row(bench).entry(k)
	e.ObjectSize = objSize
	e.ExecutableSize = exeSize
	e.HasSizes = true
}

// Lookup returns a copy of the entry of one variant.
func (t *Table) Lookup(bench string, k variant.Key) (Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	r, ok := t.rows[bench]
	if !ok {
		return Entry{}, false
	}
	e, ok := r.entries[k]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Get reads a base column or a derived metric. Missing values report false.
func (t *Table) Get(bench, property string) (float64, bool) {
	if col, ok := baseColumns[property]; ok {
		e, ok := t.Lookup(bench, col.key)
		if !ok {
			return 0, false
		}
		switch col.kind {
		case kindCycles:
			return float64(e.Cycles), e.HasCycles
		case kindObject:
			return float64(e.ObjectSize), e.HasSizes
		case kindExecutable:
			return float64(e.ExecutableSize), e.HasSizes
		}
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	r, ok := t.rows[bench]
	if !ok {
		return 0, false
	}
	v, ok := r.metrics[property]
	return v, ok
}

// SetMetric stores a derived metric. Metrics remember the order in which
// they were first set on the row.
func (t *Table) SetMetric(bench, name string, value float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	r := t.row(bench)
	if _, ok := r.metrics[name]; !ok {
		r.metricOrder = append(r.metricOrder, name)
	}
	r.metrics[name] = value
}

// ResetMetrics drops every derived metric of a benchmark.
func (t *Table) ResetMetrics(bench string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if r, ok := t.rows[bench]; ok {
		r.metrics = make(map[string]float64)
		r.metricOrder = nil
	}
}

// Metrics returns the names of a benchmark's derived metrics in the order
// they were computed.
func (t *Table) Metrics(bench string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	r, ok := t.rows[bench]
	if !ok {
		return nil
	}
	return append([]string(nil), r.metricOrder...)
}

// Benchmarks returns every benchmark name in sorted order.
func (t *Table) Benchmarks() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, 0, len(t.rows))
	for name := range t.rows {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
