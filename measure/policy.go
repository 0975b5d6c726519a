package measure

import (
	"errors"
	"fmt"
)

// Policy decides how repeated cycle counts of one image are reduced.
type Policy string

const (
	// Strict requires every run to report the same count.
	Strict Policy = "strict"

	// Majority accepts a count reported by more than half of the runs.
	Majority Policy = "majority"

	// Retry reruns one more batch when a batch disagrees; the new batch must
	// then agree exactly.
	Retry Policy = "retry"
)

// ParsePolicy converts a policy name into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case Strict, Majority, Retry:
		return Policy(s), nil
	}
	return "", fmt.Errorf("unknown measurement policy %q", s)
}

// Reduce turns one batch of runs into a single cycle count. Retry reduces a
// recorded batch like Strict, since rerunning is the Runner's job.
func Reduce(runs []int64, p Policy) (int64, error) {
	if len(runs) == 0 {
		return 0, errors.New("no cycle measurements")
	}

	switch p {
	case Strict, Retry:
		for _, c := range runs[1:] {
			if c != runs[0] {
				return 0, &NonDeterministicMeasurement{Runs: runs}
			}
		}
		return runs[0], nil
	case Majority:
		counts := make(map[int64]int, len(runs))
		for _, c := range runs {
			counts[c]++
			if 2*counts[c] > len(runs) {
				return c, nil
			}
		}
		return 0, &NonDeterministicMeasurement{Runs: runs}
	}
	return 0, fmt.Errorf("unknown measurement policy %q", p)
}
