package toolchain

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RustTarget is the cross-compilation target of the Rust family.
const RustTarget = "nyuzi-elf-none"

// rustArchive is the static library produced by the staticlib crate,
// relative to the crate directory.
var rustArchive = filepath.Join("target", RustTarget, "release", "librust_nyuzi_staticlib.a")

// Config locates the toolchain, the Nyuzi support libraries, and the
// benchmark sources.
type Config struct {
	// LLVMRoot is the install prefix of the Nyuzi LLVM toolchain.
	LLVMRoot string

	// NyuziRoot is the NyuziProcessor checkout providing libc and libos.
	NyuziRoot string

	// SourceDir is the directory benchmark sources are relative to.
	SourceDir string

	// OutDir is the scratch directory receiving all artifacts.
	OutDir string

	// CXXFlags are passed to every clang invocation.
	CXXFlags []string

	// HarnessSource is the measurement harness linked into every image.
	HarnessSource string

	// RustStaticlibDir is the crate aggregating Rust benchmarks.
	RustStaticlibDir string
}

// DefaultConfig returns the conventional layout next to a NyuziProcessor
// checkout.
func DefaultConfig() Config {
	return Config{
		LLVMRoot:         "/usr/local/llvm-nyuzi",
		NyuziRoot:        "../NyuziProcessor",
		SourceDir:        ".",
		OutDir:           "out",
		CXXFlags:         []string{"-std=c++11", "-O3"},
		HarnessSource:    "harness.cpp",
		RustStaticlibDir: "rust_nyuzi_staticlib",
	}
}

// Clang returns the path of the C/C++ compiler driver.
func (c Config) Clang() string {
	return filepath.Join(c.LLVMRoot, "bin", "clang")
}

// Elf2Hex returns the path of the ELF to memory image converter.
func (c Config) Elf2Hex() string {
	return filepath.Join(c.LLVMRoot, "bin", "elf2hex")
}

// LibDir returns the Nyuzi software library directory.
func (c Config) LibDir() string {
	return filepath.Join(c.NyuziRoot, "software", "libs")
}

// Includes returns the include flags for the bare-metal runtime.
func (c Config) Includes() []string {
	lib := c.LibDir()
	return []string{
		"-I", filepath.Join(lib, "libc", "include"),
		"-I", filepath.Join(lib, "libos"),
		"-I", filepath.Join(lib, "libos", "bare-metal"),
	}
}

// CRT returns the runtime objects and archives linked into every image.
func (c Config) CRT() []string {
	lib := c.LibDir()
	return []string{
		filepath.Join(lib, "libc", "libc.a"),
		filepath.Join(lib, "compiler-rt", "compiler-rt.a"),
		filepath.Join(lib, "libos", "crt0-bare.o"),
		filepath.Join(lib, "libos", "libos-bare.a"),
	}
}

// RequiredPaths lists the files and directories a build needs.
func (c Config) RequiredPaths() []string {
	paths := []string{
		c.Clang(),
		c.Elf2Hex(),
		c.LibDir(),
		c.source(c.HarnessSource),
	}
	return append(paths, c.CRT()...)
}

func (c Config) source(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.SourceDir, p)
}

// MissingPaths reports required paths that do not exist.
type MissingPaths struct {
	Paths []string
}

func (e *MissingPaths) Error() string {
	return fmt.Sprintf("missing %d required path(s): %s",
		len(e.Paths), strings.Join(e.Paths, ", "))
}

// CheckPaths returns a *MissingPaths error naming every path that does not
// exist.
func CheckPaths(paths []string) error {
	var missing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return &MissingPaths{Paths: missing}
	}
	return nil
}

// CheckSetup verifies that the toolchain, runtime libraries, harness, and
// any extra paths such as the simulator binary are installed.
func (c Config) CheckSetup(extra ...string) error {
	return CheckPaths(append(c.RequiredPaths(), extra...))
}

// PrepareScratch discards everything in dir and recreates it empty.
func PrepareScratch(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to clear scratch directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create scratch directory: %w", err)
	}
	return nil
}
