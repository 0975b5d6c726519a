// Package variant defines the benchmark build matrix: implementation
// strategies, threading modes, and the toolchain families that build them.
package variant

import "strings"

// Strategy is an implementation strategy of a benchmark.
type Strategy string

const (
	// Scalar is the plain, non-vectorized implementation.
	Scalar Strategy = "scalar"
	// SPMD is the data-parallel implementation.
	SPMD Strategy = "spmd"
	// Intrin is the hand-vectorized implementation using intrinsics.
	Intrin Strategy = "intrin"
)

// Strategies lists every known strategy in build order.
var Strategies = []Strategy{Scalar, SPMD, Intrin}

// ParseStrategy converts a strategy name into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	for _, st := range Strategies {
		if string(st) == s {
			return st, nil
		}
	}
	return "", &UnknownVariant{Kind: "strategy", Name: s}
}

const threadsSuffix = "_threads"

// Key identifies one measured configuration of a benchmark.
type Key struct {
	Strategy Strategy
	Threaded bool
}

// String returns the canonical name, e.g. "spmd" or "spmd_threads".
func (k Key) String() string {
	if k.Threaded {
		return string(k.Strategy) + threadsSuffix
	}
	return string(k.Strategy)
}

// Threads returns the threaded counterpart of k.
func (k Key) Threads() Key {
	return Key{Strategy: k.Strategy, Threaded: true}
}

// ParseKey converts a canonical variant name back into a Key.
func ParseKey(s string) (Key, error) {
	name, threaded := strings.CutSuffix(s, threadsSuffix)
	st, err := ParseStrategy(name)
	if err != nil {
		return Key{}, &UnknownVariant{Name: s}
	}
	return Key{Strategy: st, Threaded: threaded}, nil
}

// Canonical returns every known key in report order: all unthreaded
// strategies first, then their threaded counterparts.
func Canonical() []Key {
	keys := make([]Key, 0, 2*len(Strategies))
	for _, threaded := range []bool{false, true} {
		for _, st := range Strategies {
			keys = append(keys, Key{Strategy: st, Threaded: threaded})
		}
	}
	return keys
}

// Common keys.
var (
	ScalarKey        = Key{Strategy: Scalar}
	SPMDKey          = Key{Strategy: SPMD}
	IntrinKey        = Key{Strategy: Intrin}
	ScalarThreadsKey = ScalarKey.Threads()
	SPMDThreadsKey   = SPMDKey.Threads()
	IntrinThreadsKey = IntrinKey.Threads()
)
