package measure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/sarchlab/spmdbench/toolchain"
)

// DefaultRuns is how many times each image is simulated.
const DefaultRuns = 3

// Measurement is the observed data of one built and simulated variant.
type Measurement struct {
	// Cycles is the reduced cycle count.
	Cycles int64

	// Runs holds the cycle count of every accepted run.
	Runs []int64

	// ObjectSize is the byte length of the compiled object or archive.
	ObjectSize int64

	// ExecutableSize is the byte length of the linked ELF image.
	ExecutableSize int64
}

// Runner simulates images and reduces their cycle counts.
type Runner struct {
	sim    Simulator
	runs   int
	seed   string
	policy Policy
	logger *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRuns sets how many times each image is simulated.
func WithRuns(n int) RunnerOption {
	return func(r *Runner) {
		r.runs = n
	}
}

// WithSeed sets the simulator random seed.
func WithSeed(seed string) RunnerOption {
	return func(r *Runner) {
		r.seed = seed
	}
}

// WithPolicy sets the reduction policy.
func WithPolicy(p Policy) RunnerOption {
	return func(r *Runner) {
		r.policy = p
	}
}

// WithLogger sets the runner's logger.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = l
	}
}

// NewRunner creates a runner using sim.
func NewRunner(sim Simulator, opts ...RunnerOption) *Runner {
	r := &Runner{
		sim:    sim,
		runs:   DefaultRuns,
		seed:   DefaultSeed,
		policy: Strict,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Measure simulates the artifact's image repeatedly, reduces the cycle
// counts, and reads the artifact sizes.
func (r *Runner) Measure(ctx context.Context, art toolchain.Artifact) (Measurement, error) {
	if r.runs < 1 {
		return Measurement{}, fmt.Errorf("runs must be >= 1, got %d", r.runs)
	}

	runs, cycles, err := r.batch(ctx, art)
	if err != nil && r.policy == Retry && errors.Is(err, ErrNonDeterministic) {
		r.logger.Warn("cycle counts disagree, retrying",
			"bench", art.Bench, "variant", art.Variant.String(), "runs", runs)

		first := runs
		runs, cycles, err = r.batch(ctx, art)
		var nd *NonDeterministicMeasurement
		if errors.As(err, &nd) {
			nd.Runs = append(append([]int64{}, first...), runs...)
		}
	}
	if err != nil {
		return Measurement{}, err
	}

	objSize, err := fileSize(art.Object)
	if err != nil {
		return Measurement{}, err
	}
	exeSize, err := fileSize(art.Executable)
	if err != nil {
		return Measurement{}, err
	}

	r.logger.Info("measured",
		"bench", art.Bench, "variant", art.Variant.String(), "cycles", cycles)

	return Measurement{
		Cycles:         cycles,
		Runs:           runs,
		ObjectSize:     objSize,
		ExecutableSize: exeSize,
	}, nil
}

// batch runs the image r.runs times in sequence and reduces the counts.
func (r *Runner) batch(ctx context.Context, art toolchain.Artifact) ([]int64, int64, error) {
	runs := make([]int64, 0, r.runs)
	for i := 0; i < r.runs; i++ {
		r.logger.Debug("running",
			"bench", art.Bench, "variant", art.Variant.String(), "run", i+1)

		stdout, err := r.sim.Simulate(ctx, art.Image, r.seed)
		if err != nil {
			return nil, 0, err
		}
		cycles, err := ParseCycles(stdout)
		if err != nil {
			var im *InstrumentationMissing
			if errors.As(err, &im) {
				im.Image = art.Image
			}
			return nil, 0, err
		}
		runs = append(runs, cycles)
	}

	cycles, err := Reduce(runs, r.policy)
	if err != nil {
		var nd *NonDeterministicMeasurement
		if errors.As(err, &nd) {
			nd.Image = art.Image
		}
		return runs, 0, err
	}
	return runs, cycles, nil
}

func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to size artifact: %w", err)
	}
	return info.Size(), nil
}
