package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/viper"

	"github.com/sarchlab/spmdbench/config"
	"github.com/sarchlab/spmdbench/measure"
)

var _ = Describe("Config", func() {
	var tempDir string

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "config-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = os.RemoveAll(tempDir)
	})

	It("should use defaults without a config file", func() {
		wd, err := os.Getwd()
		Expect(err).NotTo(HaveOccurred())
		Expect(os.Chdir(tempDir)).To(Succeed())
		defer func() { _ = os.Chdir(wd) }()

		c, err := config.Load(viper.New(), "")
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Runs).To(Equal(3))
		Expect(c.Seed).To(Equal("0x12345678"))
		Expect(c.MeasurePolicy()).To(Equal(measure.Strict))
		Expect(c.CXXFlags).To(Equal([]string{"-std=c++11", "-O3"}))
		Expect(c.SeparatorRune()).To(Equal(','))
		Expect(c.SimulatorBinary()).To(Equal("../NyuziProcessor/bin/verilator_model"))
	})

	It("should read a YAML file", func() {
		path := filepath.Join(tempDir, "bench.yaml")
		Expect(os.WriteFile(path, []byte(`
runs: 5
policy: majority
simulator: emulator
nyuzi_root: /opt/nyuzi
separator: ";"
cxxflags: [-O2]
`), 0644)).To(Succeed())

		c, err := config.Load(viper.New(), path)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Runs).To(Equal(5))
		Expect(c.MeasurePolicy()).To(Equal(measure.Majority))
		Expect(c.SeparatorRune()).To(Equal(';'))
		Expect(c.CXXFlags).To(Equal([]string{"-O2"}))

		sim := c.NewSimulator()
		Expect(sim.Path).To(Equal("/opt/nyuzi/bin/emulator"))
		Expect(sim.Args).To(Equal(measure.EmulatorArgs()))
	})

	It("should let the environment override the file", func() {
		path := filepath.Join(tempDir, "bench.yaml")
		Expect(os.WriteFile(path, []byte("jobs: 2\n"), 0644)).To(Succeed())
		Expect(os.Setenv("SPMDBENCH_JOBS", "4")).To(Succeed())
		defer func() { _ = os.Unsetenv("SPMDBENCH_JOBS") }()

		c, err := config.Load(viper.New(), path)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Jobs).To(Equal(4))
	})

	It("should fail on a missing explicit config file", func() {
		_, err := config.Load(viper.New(), filepath.Join(tempDir, "nope.yaml"))
		Expect(err).To(HaveOccurred())
	})

	Describe("Validate", func() {
		valid := func() *config.Config {
			return &config.Config{
				Runs: 3, Jobs: 1, Policy: "strict", Simulator: "verilator",
				Separator: ",", OutDir: "out",
			}
		}

		It("should accept a valid config", func() {
			Expect(valid().Validate()).To(Succeed())
		})

		It("should accept tab and semicolon separators", func() {
			for _, sep := range []string{"\t", ";", "|"} {
				c := valid()
				c.Separator = sep
				Expect(c.Validate()).To(Succeed())
			}
		})

		DescribeTable("should reject",
			func(mutate func(*config.Config), msg string) {
				c := valid()
				mutate(c)
				Expect(c.Validate()).To(MatchError(ContainSubstring(msg)))
			},
			Entry("zero runs", func(c *config.Config) { c.Runs = 0 }, "runs"),
			Entry("zero jobs", func(c *config.Config) { c.Jobs = 0 }, "jobs"),
			Entry("unknown policy", func(c *config.Config) { c.Policy = "mean" }, "policy"),
			Entry("unknown simulator", func(c *config.Config) { c.Simulator = "qemu" }, "simulator"),
			Entry("long separator", func(c *config.Config) { c.Separator = ",," }, "separator"),
			Entry("empty separator", func(c *config.Config) { c.Separator = "" }, "separator"),
			Entry("quote separator", func(c *config.Config) { c.Separator = `"` }, "separator"),
			Entry("newline separator", func(c *config.Config) { c.Separator = "\n" }, "separator"),
			Entry("carriage return separator", func(c *config.Config) { c.Separator = "\r" }, "separator"),
			Entry("invalid utf-8 separator", func(c *config.Config) { c.Separator = "\xff" }, "separator"),
			Entry("negative clock", func(c *config.Config) { c.ClockMHz = -1 }, "clock_mhz"),
		)
	})
})
