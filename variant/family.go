package variant

// Family is a toolchain family. Each family defines its own set of
// buildable variants.
type Family string

const (
	// CXX benchmarks build every strategy, each with and without threads.
	CXX Family = "cxx"
	// Rust benchmarks build scalar and spmd only, without a threading axis.
	Rust Family = "rust"
)

// ParseFamily converts a family name into a Family.
func ParseFamily(s string) (Family, error) {
	switch Family(s) {
	case CXX, Rust:
		return Family(s), nil
	}
	return "", &UnknownVariant{Kind: "family", Name: s}
}

// Keys returns the variants the family builds, in build order.
func (f Family) Keys() []Key {
	switch f {
	case CXX:
		keys := make([]Key, 0, 2*len(Strategies))
		for _, st := range Strategies {
			for _, threaded := range []bool{false, true} {
				keys = append(keys, Key{Strategy: st, Threaded: threaded})
			}
		}
		return keys
	case Rust:
		return []Key{ScalarKey, SPMDKey}
	}
	return nil
}
