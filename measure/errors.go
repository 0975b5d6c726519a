package measure

import (
	"errors"
	"fmt"
)

var (
	// ErrInstrumentationMissing is matched by every InstrumentationMissing
	// error.
	ErrInstrumentationMissing = errors.New("instrumentation missing")

	// ErrNonDeterministic is matched by every NonDeterministicMeasurement
	// error.
	ErrNonDeterministic = errors.New("non-deterministic measurement")
)

// InstrumentationMissing reports simulator output without a usable
// "elapsed:" line, meaning the image was not linked with the harness.
type InstrumentationMissing struct {
	Image string
	Err   error
}

func (e *InstrumentationMissing) Error() string {
	msg := "did not find cycle count in harness output"
	if e.Image != "" {
		msg = e.Image + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is lets errors.Is match ErrInstrumentationMissing.
func (e *InstrumentationMissing) Is(target error) bool {
	return target == ErrInstrumentationMissing
}

func (e *InstrumentationMissing) Unwrap() error {
	return e.Err
}

// NonDeterministicMeasurement reports repeated runs of one image that did
// not agree on the cycle count.
type NonDeterministicMeasurement struct {
	Image string
	Runs  []int64
}

func (e *NonDeterministicMeasurement) Error() string {
	if e.Image == "" {
		return fmt.Sprintf("cycle counts disagree across runs: %v", e.Runs)
	}
	return fmt.Sprintf("%s: cycle counts disagree across runs: %v", e.Image, e.Runs)
}

// Unwrap lets errors.Is match ErrNonDeterministic.
func (e *NonDeterministicMeasurement) Unwrap() error {
	return ErrNonDeterministic
}
