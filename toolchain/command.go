// Package toolchain builds benchmark variants into simulator images by
// driving the external compiler, archiver, and image conversion tools.
package toolchain

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Command is one external tool invocation.
type Command struct {
	// Name is the program to execute.
	Name string

	// Args are the program arguments.
	Args []string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Env holds extra KEY=VALUE entries added to the inherited environment.
	Env []string
}

// String renders the command the way it would be typed in a shell.
func (c Command) String() string {
	parts := append([]string{c.Name}, c.Args...)
	return strings.Join(parts, " ")
}

// CommandRunner executes external commands and returns their combined
// stdout and stderr.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) ([]byte, error)
}

// ExecRunner runs commands as child processes.
type ExecRunner struct{}

// Run executes cmd and waits for it to exit. A nonzero exit status is
// reported as a *ToolchainFailure carrying the captured output.
func (ExecRunner) Run(ctx context.Context, cmd Command) ([]byte, error) {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}

	out, err := c.CombinedOutput()
	if err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return out, &ToolchainFailure{
			Command:  cmd.String(),
			ExitCode: code,
			Output:   out,
			Err:      err,
		}
	}
	return out, nil
}

// ToolchainFailure reports an external tool that exited unsuccessfully.
type ToolchainFailure struct {
	Command  string
	ExitCode int
	Output   []byte
	Err      error
}

func (e *ToolchainFailure) Error() string {
	return fmt.Sprintf("%s: exit status %d", e.Command, e.ExitCode)
}

func (e *ToolchainFailure) Unwrap() error {
	return e.Err
}
