package benchmarks_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/sarchlab/spmdbench/benchmarks"
	"github.com/sarchlab/spmdbench/measure"
	"github.com/sarchlab/spmdbench/report"
	"github.com/sarchlab/spmdbench/results"
	"github.com/sarchlab/spmdbench/telemetry"
	"github.com/sarchlab/spmdbench/toolchain"
	"github.com/sarchlab/spmdbench/variant"
)

// sizedRunner stands in for the toolchain. It writes every "-o" target
// with a size looked up by file name, and fails commands mentioning
// failOn.
type sizedRunner struct {
	mu     sync.Mutex
	sizes  map[string]int
	failOn string
}

func (r *sizedRunner) Run(_ context.Context, cmd toolchain.Command) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failOn != "" && strings.Contains(cmd.String(), r.failOn) {
		return nil, &toolchain.ToolchainFailure{Command: cmd.String(), ExitCode: 1, Output: []byte("boom\n")}
	}
	for i, a := range cmd.Args {
		if a == "-o" && i+1 < len(cmd.Args) {
			out := cmd.Args[i+1]
			size := r.sizes[filepath.Base(out)]
			if err := os.WriteFile(out, make([]byte, size), 0644); err != nil {
				return nil, err
			}
		}
	}
	return nil, nil
}

// cycleSimulator reports a fixed cycle count per image file name.
type cycleSimulator struct {
	mu     sync.Mutex
	cycles map[string]int64
	calls  map[string]int
}

func (s *cycleSimulator) Simulate(_ context.Context, image, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := filepath.Base(image)
	s.calls[name]++
	c, ok := s.cycles[name]
	if !ok {
		c = 1000
	}
	return fmt.Sprintf("elapsed:%d\n", c), nil
}

var _ = Describe("Harness", func() {
	var (
		tempDir string
		runner  *sizedRunner
		sim     *cycleSimulator
		tc      toolchain.Config
		suite   variant.Suite
	)

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "harness-test-*")
		Expect(err).NotTo(HaveOccurred())

		tc = toolchain.DefaultConfig()
		tc.SourceDir = tempDir
		tc.OutDir = filepath.Join(tempDir, "out")
		Expect(toolchain.PrepareScratch(tc.OutDir)).To(Succeed())

		runner = &sizedRunner{sizes: map[string]int{
			"hash_scalar.o":   40,
			"hash_scalar.elf": 4000,
			"hash_spmd.o":     60,
			"hash_spmd.elf":   4400,
		}}
		sim = &cycleSimulator{
			cycles: map[string]int64{
				"hash_scalar.hex": 100,
				"hash_spmd.hex":   25,
			},
			calls: map[string]int{},
		}
		suite = variant.Suite{Benchmarks: []variant.Benchmark{
			{Name: "hash", Family: variant.CXX, Source: "hash/hash.cpp"},
		}}
	})

	AfterEach(func() {
		_ = os.RemoveAll(tempDir)
	})

	newHarness := func(config benchmarks.HarnessConfig, filter variant.Filter) *benchmarks.Harness {
		builder := toolchain.NewBuilder(tc, runner, toolchain.WithFailureOutput(&bytes.Buffer{}))
		h := benchmarks.NewHarness(config, builder, measure.NewRunner(sim))
		h.AddJobs(variant.Enumerate(suite, filter))
		return h
	}

	It("should build and measure the hash scenario end to end", func() {
		filter, err := variant.NewFilter(nil, []string{"scalar", "spmd"})
		Expect(err).NotTo(HaveOccurred())
		filter.Benchmarks = []string{"hash"}

		h := newHarness(benchmarks.DefaultConfig(), filter)
		Expect(h.Jobs()).To(HaveLen(4))

		_, records, err := h.RunAll(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(4))
		Expect(records[0].Variant).To(Equal("scalar"))
		Expect(records[0].Cycles).To(Equal([]int64{100, 100, 100}))
		Expect(records[0].ObjSize).To(Equal(int64(40)))
		Expect(records[1].Variant).To(Equal("scalar_threads"))
		Expect(sim.calls["hash_spmd.hex"]).To(Equal(3))

		table, err := benchmarks.Analyse(records, measure.Strict, nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(report.Cell(table, "hash", "speedup_spmd_scalar")).To(Equal("4"))
		Expect(report.Cell(table, "hash", "obj_increase_scalar")).To(Equal("1.5"))
		Expect(report.Cell(table, "hash", "exe_increase_scalar")).To(Equal("1.1"))
		Expect(report.Cell(table, "hash", "speedup_spmd_threads_scalar_threads")).To(Equal("1"))
		Expect(report.Cell(table, "hash", "speedup_intrin_scalar")).To(Equal(""))
	})

	It("should keep job order when running in parallel", func() {
		metrics := telemetry.NewMetrics()
		config := benchmarks.DefaultConfig()
		config.Jobs = 4
		config.Metrics = metrics

		h := newHarness(config, variant.Filter{})
		table, records, err := h.RunAll(context.Background())
		Expect(err).NotTo(HaveOccurred())

		names := []string{}
		for _, r := range records {
			names = append(names, r.Variant)
		}
		Expect(names).To(Equal([]string{
			"scalar", "scalar_threads", "spmd", "spmd_threads", "intrin", "intrin_threads",
		}))
		Expect(table.Records()).To(HaveLen(6))
		Expect(testutil.ToFloat64(metrics.Builds.WithLabelValues("cxx"))).To(Equal(6.0))
		Expect(testutil.ToFloat64(metrics.Simulations)).To(Equal(6.0))
	})

	It("should stop at the first build failure", func() {
		runner.failOn = "VARIANT_SPMD"

		metrics := telemetry.NewMetrics()
		config := benchmarks.DefaultConfig()
		config.Metrics = metrics

		_, records, err := newHarness(config, variant.Filter{}).RunAll(context.Background())
		var failure *toolchain.ToolchainFailure
		Expect(errors.As(err, &failure)).To(BeTrue())
		Expect(records).To(BeNil())
		Expect(testutil.ToFloat64(metrics.BuildFailures)).To(Equal(1.0))
		// scalar and scalar_threads ran; nothing after spmd did.
		Expect(sim.calls).NotTo(HaveKey("hash_intrin.hex"))
	})

	It("should stop when a measurement is non-deterministic", func() {
		flaky := &flakySimulator{}
		builder := toolchain.NewBuilder(tc, runner, toolchain.WithFailureOutput(&bytes.Buffer{}))
		h := benchmarks.NewHarness(benchmarks.DefaultConfig(), builder, measure.NewRunner(flaky))
		h.AddJobs(variant.Enumerate(suite, variant.Filter{}))

		_, _, err := h.RunAll(context.Background())
		Expect(errors.Is(err, measure.ErrNonDeterministic)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("hash scalar"))
	})
})

var _ = Describe("Analyse", func() {
	It("should reject unknown variants", func() {
		_, err := benchmarks.Analyse([]results.Record{
			{Bench: "hash", Variant: "vliw", Cycles: []int64{1, 1, 1}},
		}, measure.Strict, nil)
		Expect(err).To(MatchError(variant.ErrUnknownVariant))
	})
})

// flakySimulator counts up on every run.
type flakySimulator struct {
	n int64
}

func (s *flakySimulator) Simulate(context.Context, string, string) (string, error) {
	s.n++
	return fmt.Sprintf("elapsed:%d\n", 800+s.n), nil
}
