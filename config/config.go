// Package config loads the layered spmdbench configuration: defaults, an
// optional YAML file, a .env file, SPMDBENCH_* environment variables, and
// command-line flags.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/sarchlab/spmdbench/measure"
	"github.com/sarchlab/spmdbench/toolchain"
)

// EnvPrefix prefixes every environment variable read by spmdbench.
const EnvPrefix = "SPMDBENCH"

// Config holds every setting of a benchmark run.
type Config struct {
	// LLVMRoot is the install prefix of the Nyuzi LLVM toolchain.
	LLVMRoot string `mapstructure:"llvm_root"`

	// NyuziRoot is the NyuziProcessor checkout with libraries and simulators.
	NyuziRoot string `mapstructure:"nyuzi_root"`

	// SourceDir is the directory benchmark sources are relative to.
	SourceDir string `mapstructure:"source_dir"`

	// OutDir is the scratch directory, recreated on every run.
	OutDir string `mapstructure:"out_dir"`

	// DataFile receives the JSON measurement records.
	DataFile string `mapstructure:"data_file"`

	// ReportFile receives the CSV report.
	ReportFile string `mapstructure:"report_file"`

	// Separator is the report's single-character cell separator.
	Separator string `mapstructure:"separator"`

	// SQLiteFile optionally receives the report as a SQLite database.
	SQLiteFile string `mapstructure:"sqlite_file"`

	// MetricsFile optionally receives run metrics in textfile format.
	MetricsFile string `mapstructure:"metrics_file"`

	// SuiteFile optionally replaces the built-in benchmark suite.
	SuiteFile string `mapstructure:"suite_file"`

	// Runs is how many times each image is simulated. Default: 3.
	Runs int `mapstructure:"runs"`

	// Seed is the simulator random seed.
	Seed string `mapstructure:"seed"`

	// Policy reduces repeated runs: strict, majority, or retry.
	Policy string `mapstructure:"policy"`

	// Jobs is how many variants are built and measured at once. Default: 1.
	Jobs int `mapstructure:"jobs"`

	// Simulator selects the simulator: verilator or emulator.
	Simulator string `mapstructure:"simulator"`

	// SimulatorPath overrides the simulator binary location.
	SimulatorPath string `mapstructure:"simulator_path"`

	// ClockMHz converts cycles into simulated time in the summary. Zero
	// disables the conversion.
	ClockMHz float64 `mapstructure:"clock_mhz"`

	// CXXFlags are passed to every clang invocation.
	CXXFlags []string `mapstructure:"cxxflags"`

	// HarnessSource is the measurement harness linked into every image.
	HarnessSource string `mapstructure:"harness_source"`

	// RustStaticlibDir is the crate aggregating the Rust benchmarks.
	RustStaticlibDir string `mapstructure:"rust_staticlib_dir"`

	// Verbose enables debug logging.
	Verbose bool `mapstructure:"verbose"`

	// LogFormat is "text" or "json".
	LogFormat string `mapstructure:"log_format"`
}

// SetDefaults installs the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	tc := toolchain.DefaultConfig()

	v.SetDefault("llvm_root", tc.LLVMRoot)
	v.SetDefault("nyuzi_root", tc.NyuziRoot)
	v.SetDefault("source_dir", tc.SourceDir)
	v.SetDefault("out_dir", tc.OutDir)
	v.SetDefault("data_file", "bench-data.json")
	v.SetDefault("report_file", "bench-report.csv")
	v.SetDefault("separator", ",")
	v.SetDefault("sqlite_file", "")
	v.SetDefault("metrics_file", "")
	v.SetDefault("suite_file", "")
	v.SetDefault("runs", measure.DefaultRuns)
	v.SetDefault("seed", measure.DefaultSeed)
	v.SetDefault("policy", string(measure.Strict))
	v.SetDefault("jobs", 1)
	v.SetDefault("simulator", "verilator")
	v.SetDefault("simulator_path", "")
	v.SetDefault("clock_mhz", 0.0)
	v.SetDefault("cxxflags", tc.CXXFlags)
	v.SetDefault("harness_source", tc.HarnessSource)
	v.SetDefault("rust_staticlib_dir", tc.RustStaticlibDir)
	v.SetDefault("verbose", false)
	v.SetDefault("log_format", "text")
}

// Load reads the configuration into a Config. When cfgFile is empty an
// optional spmdbench.yaml in the working directory is used.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	// A missing .env is fine.
	_ = godotenv.Load()

	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("spmdbench")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if c.Runs < 1 {
		return fmt.Errorf("runs must be >= 1")
	}
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be >= 1")
	}
	if _, err := measure.ParsePolicy(c.Policy); err != nil {
		return err
	}
	switch c.Simulator {
	case "verilator", "emulator":
	default:
		return fmt.Errorf("simulator must be verilator or emulator, got %q", c.Simulator)
	}
	if utf8.RuneCountInString(c.Separator) != 1 {
		return fmt.Errorf("separator must be a single character, got %q", c.Separator)
	}
	switch r, _ := utf8.DecodeRuneInString(c.Separator); r {
	case '"', '\r', '\n', utf8.RuneError:
		return fmt.Errorf("separator %q cannot delimit CSV fields", c.Separator)
	}
	if c.ClockMHz < 0 {
		return fmt.Errorf("clock_mhz must be >= 0")
	}
	if c.OutDir == "" {
		return fmt.Errorf("out_dir must not be empty")
	}
	return nil
}

// Toolchain returns the build settings.
func (c *Config) Toolchain() toolchain.Config {
	return toolchain.Config{
		LLVMRoot:         c.LLVMRoot,
		NyuziRoot:        c.NyuziRoot,
		SourceDir:        c.SourceDir,
		OutDir:           c.OutDir,
		CXXFlags:         c.CXXFlags,
		HarnessSource:    c.HarnessSource,
		RustStaticlibDir: c.RustStaticlibDir,
	}
}

// MeasurePolicy returns the parsed reduction policy.
func (c *Config) MeasurePolicy() measure.Policy {
	p, err := measure.ParsePolicy(c.Policy)
	if err != nil {
		return measure.Strict
	}
	return p
}

// SeparatorRune returns the report separator.
func (c *Config) SeparatorRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Separator)
	return r
}

// SimulatorBinary returns the simulator executable.
func (c *Config) SimulatorBinary() string {
	if c.SimulatorPath != "" {
		return c.SimulatorPath
	}
	if c.Simulator == "emulator" {
		return filepath.Join(c.NyuziRoot, "bin", "emulator")
	}
	return filepath.Join(c.NyuziRoot, "bin", "verilator_model")
}

// NewSimulator returns the configured simulator.
func (c *Config) NewSimulator() measure.ExecSimulator {
	args := measure.VerilatorArgs()
	if c.Simulator == "emulator" {
		args = measure.EmulatorArgs()
	}
	return measure.ExecSimulator{Path: c.SimulatorBinary(), Args: args}
}
