package variant

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Benchmark describes one benchmark program and how to build it.
type Benchmark struct {
	// Name identifies the benchmark across all of its variants.
	Name string `yaml:"name"`

	// Family selects the toolchain that builds the benchmark.
	Family Family `yaml:"family"`

	// Source is the C++ translation unit (cxx family only).
	Source string `yaml:"source,omitempty"`

	// Features are the cargo features linking the benchmark crate into the
	// static library (rust family only).
	Features string `yaml:"features,omitempty"`

	// Description is shown by "spmdbench list".
	Description string `yaml:"description,omitempty"`
}

// Suite is the statically known list of benchmarks of one run.
type Suite struct {
	Benchmarks []Benchmark `yaml:"benchmarks"`
}

// DefaultSuite returns the built-in benchmark suite.
func DefaultSuite() Suite {
	return Suite{Benchmarks: []Benchmark{
		{Name: "hash", Family: CXX, Source: "hash/hash.cpp",
			Description: "Integer hashing of a word array"},
		{Name: "mandelbrot", Family: CXX, Source: "mandelbrot/mandelbrot.cpp",
			Description: "Mandelbrot set escape-time rendering"},
		{Name: "fib_iter", Family: Rust, Features: "link_fib",
			Description: "Iterative Fibonacci"},
		{Name: "fib_rec", Family: Rust, Features: "link_fib",
			Description: "Recursive Fibonacci"},
		{Name: "nbody", Family: Rust, Features: "link_nbody",
			Description: "N-body gravitational simulation"},
		{Name: "fwt", Family: Rust, Features: "link_fwt",
			Description: "Fast Walsh transform"},
		{Name: "fwt_nodivmod", Family: Rust, Features: "link_fwt",
			Description: "Fast Walsh transform without div/mod"},
	}}
}

// LoadSuite reads a suite catalog from a YAML file.
func LoadSuite(path string) (Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Suite{}, fmt.Errorf("failed to read suite file: %w", err)
	}
	return ParseSuite(data)
}

// ParseSuite decodes and validates a YAML suite catalog.
func ParseSuite(data []byte) (Suite, error) {
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Suite{}, fmt.Errorf("failed to parse suite: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Suite{}, err
	}
	return s, nil
}

// Validate checks that every benchmark is uniquely named and buildable.
func (s Suite) Validate() error {
	seen := make(map[string]bool, len(s.Benchmarks))
	for i, b := range s.Benchmarks {
		if b.Name == "" {
			return fmt.Errorf("benchmark %d: name must not be empty", i)
		}
		if seen[b.Name] {
			return fmt.Errorf("benchmark %q: duplicate name", b.Name)
		}
		seen[b.Name] = true

		if _, err := ParseFamily(string(b.Family)); err != nil {
			return fmt.Errorf("benchmark %q: %w", b.Name, err)
		}
		if b.Family == CXX && b.Source == "" {
			return fmt.Errorf("benchmark %q: cxx benchmarks need a source", b.Name)
		}
		if b.Family == Rust && b.Features == "" {
			return fmt.Errorf("benchmark %q: rust benchmarks need features", b.Name)
		}
	}
	return nil
}
