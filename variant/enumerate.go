package variant

import "github.com/samber/lo"

// Job is one (benchmark, variant) pair to build and measure.
type Job struct {
	Bench Benchmark
	Key   Key
}

// Filter restricts enumeration. Empty fields match everything.
type Filter struct {
	Benchmarks []string
	Strategies []Strategy
}

// NewFilter builds a Filter from raw names, rejecting unknown strategies.
func NewFilter(benchmarks, strategies []string) (Filter, error) {
	f := Filter{Benchmarks: benchmarks}
	for _, s := range strategies {
		st, err := ParseStrategy(s)
		if err != nil {
			return Filter{}, err
		}
		f.Strategies = append(f.Strategies, st)
	}
	return f, nil
}

func (f Filter) match(b Benchmark, k Key) bool {
	if len(f.Benchmarks) > 0 && !lo.Contains(f.Benchmarks, b.Name) {
		return false
	}
	if len(f.Strategies) > 0 && !lo.Contains(f.Strategies, k.Strategy) {
		return false
	}
	return true
}

// Enumerate yields the jobs of a suite in suite order, and within one
// benchmark in the build order of its family.
func Enumerate(s Suite, f Filter) []Job {
	var jobs []Job
	for _, b := range s.Benchmarks {
		for _, k := range b.Family.Keys() {
			if f.match(b, k) {
				jobs = append(jobs, Job{Bench: b, Key: k})
			}
		}
	}
	return jobs
}
