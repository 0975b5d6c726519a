// Package measure runs simulator images and reduces their repeated cycle
// counts to one authoritative value.
package measure

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// DefaultSeed is the random seed handed to the simulator.
const DefaultSeed = "0x12345678"

const elapsedPrefix = "elapsed:"

// Simulator runs an image and returns what it printed on stdout.
type Simulator interface {
	Simulate(ctx context.Context, image, seed string) (string, error)
}

// ExecSimulator runs an external simulator binary. The "{image}" and
// "{seed}" placeholders in Args are expanded on every run.
type ExecSimulator struct {
	Path string
	Args []string
}

// VerilatorArgs is the argument template of the Nyuzi verilator model.
func VerilatorArgs() []string {
	return []string{"+bin={image}", "+randseed={seed}"}
}

// EmulatorArgs is the argument template of the Nyuzi instruction-set
// emulator.
func EmulatorArgs() []string {
	return []string{"{image}"}
}

func (s ExecSimulator) args(image, seed string) []string {
	r := strings.NewReplacer("{image}", image, "{seed}", seed)
	out := make([]string, len(s.Args))
	for i, a := range s.Args {
		out[i] = r.Replace(a)
	}
	return out
}

// Simulate runs the simulator to completion.
func (s ExecSimulator) Simulate(ctx context.Context, image, seed string) (string, error) {
	cmd := exec.CommandContext(ctx, s.Path, s.args(image, seed)...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("simulator failed on %s: %w: %s",
				image, err, bytes.TrimSpace(exitErr.Stderr))
		}
		return "", fmt.Errorf("simulator failed on %s: %w", image, err)
	}
	return string(out), nil
}

// ParseCycles extracts the cycle count from the first "elapsed:" line of
// the harness output.
func ParseCycles(stdout string) (int64, error) {
	for _, line := range strings.Split(stdout, "\n") {
		rest, ok := strings.CutPrefix(line, elapsedPrefix)
		if !ok {
			continue
		}
		cycles, err := strconv.ParseInt(strings.TrimSpace(rest), 10, 64)
		if err != nil {
			return 0, &InstrumentationMissing{Err: err}
		}
		return cycles, nil
	}
	return 0, &InstrumentationMissing{}
}
