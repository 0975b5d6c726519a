package results

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/spmdbench/measure"
	"github.com/sarchlab/spmdbench/variant"
)

// Record is one entry of the JSON interchange file written by the
// measurement phase and read by the analysis phase.
type Record struct {
	Bench   string  `json:"bench"`
	Cycles  []int64 `json:"cycles"`
	ExeSize int64   `json:"exe_size"`
	ObjSize int64   `json:"obj_size"`
	Variant string  `json:"variant"`
}

// NewRecord converts a measurement into its interchange form.
func NewRecord(bench string, k variant.Key, m measure.Measurement) Record {
	return Record{
		Bench:   bench,
		Cycles:  append([]int64(nil), m.Runs...),
		ExeSize: m.ExecutableSize,
		ObjSize: m.ObjectSize,
		Variant: k.String(),
	}
}

// WriteRecords encodes records as an indented JSON array.
func WriteRecords(w io.Writer, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	return nil
}

// ReadRecords decodes a JSON array of records.
func ReadRecords(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	return records, nil
}

// SaveRecords writes records to a JSON file.
func SaveRecords(path string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create records file: %w", err)
	}
	if err := WriteRecords(f, records); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// LoadRecords reads records from a JSON file.
func LoadRecords(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open records file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadRecords(f)
}

// TableFromRecords builds a table from interchange records. Every record's
// runs are reduced again under policy, and an unrecognized variant name
// fails the whole load.
func TableFromRecords(records []Record, policy measure.Policy) (*Table, error) {
	t := NewTable()
	for i, rec := range records {
		k, err := variant.ParseKey(rec.Variant)
		if err != nil {
			return nil, fmt.Errorf("record %d (%s): %w", i, rec.Bench, err)
		}
		cycles, err := measure.Reduce(rec.Cycles, policy)
		if err != nil {
			return nil, fmt.Errorf("record %d (%s %s): %w", i, rec.Bench, rec.Variant, err)
		}
		m := measure.Measurement{
			Cycles:         cycles,
			Runs:           rec.Cycles,
			ObjectSize:     rec.ObjSize,
			ExecutableSize: rec.ExeSize,
		}
		if err := t.Record(rec.Bench, k, m); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Records returns every measured entry in sorted benchmark order and
// canonical variant order.
func (t *Table) Records() []Record {
	var records []Record
	for _, bench := range t.Benchmarks() {
		for _, k := range variant.Canonical() {
			e, ok := t.Lookup(bench, k)
			if !ok || !e.HasCycles {
				continue
			}
			records = append(records, Record{
				Bench:   bench,
				Cycles:  e.Runs,
				ExeSize: e.ExecutableSize,
				ObjSize: e.ObjectSize,
				Variant: k.String(),
			})
		}
	}
	return records
}
