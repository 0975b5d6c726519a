// Command spmdbench builds every benchmark variant, measures it on the
// Nyuzi simulator, and reports speedups and code-size increases.
//
// Usage:
//
//	spmdbench run       # build and measure, write bench-data.json
//	spmdbench analyse   # derive metrics, write bench-report.csv
//	spmdbench all       # run, then analyse
//	spmdbench check     # verify the toolchain and simulator are installed
//	spmdbench list      # print the build matrix
//
// Settings come from spmdbench.yaml, a .env file, SPMDBENCH_* environment
// variables, and flags, in increasing precedence.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

var exit = os.Exit

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("spmdbench failed", "error", err)
		stop()
		exit(1)
	}
}
