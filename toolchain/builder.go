package toolchain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sarchlab/spmdbench/variant"
)

// Artifact is the output of building one benchmark variant.
type Artifact struct {
	Bench   string
	Variant variant.Key

	// Object is the compiled benchmark (.o for C++, .a for Rust).
	Object string

	// Executable is the linked ELF image.
	Executable string

	// Image is the memory image loaded by the simulator.
	Image string
}

// ArtifactName returns the deterministic scratch file name of a variant.
func ArtifactName(bench string, k variant.Key, ext string) string {
	return bench + "_" + k.String() + "." + ext
}

// Builder compiles benchmark variants and links them against the
// measurement harness.
type Builder struct {
	config   Config
	runner   CommandRunner
	failures io.Writer
	logger   *slog.Logger

	// Rust builds share one cargo target directory.
	rustMu sync.Mutex
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithFailureOutput sets where the output of failed commands is echoed.
// The default is os.Stderr.
func WithFailureOutput(w io.Writer) BuilderOption {
	return func(b *Builder) {
		b.failures = w
	}
}

// WithLogger sets the builder's logger.
func WithLogger(l *slog.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = l
	}
}

// NewBuilder creates a builder running tools through runner.
func NewBuilder(config Config, runner CommandRunner, opts ...BuilderOption) *Builder {
	b := &Builder{
		config:   config,
		runner:   runner,
		failures: os.Stderr,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build produces the object, executable, and simulator image of one
// benchmark variant.
func (b *Builder) Build(ctx context.Context, bench variant.Benchmark, k variant.Key) (Artifact, error) {
	b.logger.Info("building", "bench", bench.Name, "variant", k.String(), "family", bench.Family)

	var (
		obj string
		err error
	)
	switch bench.Family {
	case variant.CXX:
		obj, err = b.compileCXX(ctx, bench, k)
	case variant.Rust:
		obj, err = b.compileRust(ctx, bench, k)
	default:
		err = fmt.Errorf("unknown toolchain family %q", bench.Family)
	}
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to build %s %s: %w", bench.Name, k, err)
	}

	art, err := b.link(ctx, bench.Name, k, obj)
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to link %s %s: %w", bench.Name, k, err)
	}
	return art, nil
}

func (b *Builder) out(bench string, k variant.Key, ext string) string {
	return filepath.Join(b.config.OutDir, ArtifactName(bench, k, ext))
}

func (b *Builder) compileCXX(ctx context.Context, bench variant.Benchmark, k variant.Key) (string, error) {
	obj := b.out(bench.Name, k, "o")

	args := []string{b.config.source(bench.Source)}
	args = append(args, b.config.CXXFlags...)
	args = append(args, b.config.Includes()...)
	args = append(args,
		"-DBENCH_"+strings.ToUpper(bench.Name),
		"-DVARIANT_"+strings.ToUpper(string(k.Strategy)),
	)
	if k.Threaded {
		args = append(args, "-DUSE_THREADS")
	}
	args = append(args, "-c", "-o", obj)

	if err := b.sh(ctx, Command{Name: b.config.Clang(), Args: args}); err != nil {
		return "", err
	}
	return obj, nil
}

func (b *Builder) compileRust(ctx context.Context, bench variant.Benchmark, k variant.Key) (string, error) {
	if k.Threaded {
		return "", fmt.Errorf("rust benchmarks have no threaded variants")
	}
	if _, ok := os.LookupEnv("RUSTFLAGS"); ok {
		return "", errors.New("RUSTFLAGS must not be set in the environment")
	}

	b.rustMu.Lock()
	defer b.rustMu.Unlock()

	crate := b.config.source(b.config.RustStaticlibDir)
	rustflags := fmt.Sprintf(`--cfg benchmark="%s" --cfg variant="%s"`, bench.Name, k.Strategy)
	cmd := Command{
		Name: "xargo",
		Args: []string{
			"build", "--target=" + RustTarget, "--release",
			"--features", bench.Features,
		},
		Dir: crate,
		Env: []string{"RUSTFLAGS=" + rustflags},
	}
	if err := b.sh(ctx, cmd); err != nil {
		return "", err
	}

	archive := b.out(bench.Name, k, "a")
	if err := copyFile(filepath.Join(crate, rustArchive), archive); err != nil {
		return "", err
	}
	return archive, nil
}

func (b *Builder) link(ctx context.Context, bench string, k variant.Key, obj string) (Artifact, error) {
	elf := b.out(bench, k, "elf")
	hex := b.out(bench, k, "hex")

	args := []string{obj, b.config.source(b.config.HarnessSource)}
	args = append(args, b.config.CXXFlags...)
	args = append(args, b.config.Includes()...)
	args = append(args, b.config.CRT()...)
	args = append(args,
		"-DBENCH_NAME="+bench,
		"-DBENCH_VARIANT="+string(k.Strategy),
	)
	if k.Threaded {
		args = append(args, "-DUSE_THREADS")
	}
	args = append(args, "-o", elf)

	if err := b.sh(ctx, Command{Name: b.config.Clang(), Args: args}); err != nil {
		return Artifact{}, err
	}
	if err := b.sh(ctx, Command{Name: b.config.Elf2Hex(), Args: []string{elf, "-o", hex}}); err != nil {
		return Artifact{}, err
	}

	return Artifact{
		Bench:      bench,
		Variant:    k,
		Object:     obj,
		Executable: elf,
		Image:      hex,
	}, nil
}

// sh runs one command, echoing its captured output when it fails.
func (b *Builder) sh(ctx context.Context, cmd Command) error {
	b.logger.Debug("exec", "cmd", cmd.String(), "dir", cmd.Dir)

	out, err := b.runner.Run(ctx, cmd)
	if err != nil {
		var failure *ToolchainFailure
		if errors.As(err, &failure) {
			out = failure.Output
		}
		_, _ = fmt.Fprintln(b.failures, "FAILED:")
		_, _ = b.failures.Write(out)
		return err
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open build output: %w", err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create artifact: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy artifact: %w", err)
	}
	return out.Close()
}
