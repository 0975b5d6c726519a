package results

import "github.com/sarchlab/spmdbench/variant"

type columnKind int

const (
	kindCycles columnKind = iota
	kindObject
	kindExecutable
)

type baseColumn struct {
	key  variant.Key
	kind columnKind
}

var (
	baseOrder   []string
	baseColumns = map[string]baseColumn{}
)

func init() {
	for _, kind := range []columnKind{kindCycles, kindObject, kindExecutable} {
		for _, k := range variant.Canonical() {
			name := columnName(k, kind)
			baseOrder = append(baseOrder, name)
			baseColumns[name] = baseColumn{key: k, kind: kind}
		}
	}
}

func columnName(k variant.Key, kind columnKind) string {
	switch kind {
	case kindObject:
		return k.String() + "_obj"
	case kindExecutable:
		return k.String() + "_exe"
	}
	return k.String()
}

// CyclesColumn names the cycle count column of a variant.
func CyclesColumn(k variant.Key) string { return columnName(k, kindCycles) }

// ObjectColumn names the object size column of a variant.
func ObjectColumn(k variant.Key) string { return columnName(k, kindObject) }

// ExecutableColumn names the executable size column of a variant.
func ExecutableColumn(k variant.Key) string { return columnName(k, kindExecutable) }

// BaseColumns returns the fixed measurement columns: cycle counts of every
// canonical variant, then object sizes, then executable sizes.
func BaseColumns() []string {
	return append([]string(nil), baseOrder...)
}

// IsBaseColumn reports whether name is a measurement column rather than a
// derived metric.
func IsBaseColumn(name string) bool {
	_, ok := baseColumns[name]
	return ok
}
