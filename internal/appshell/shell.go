// Package appshell wires a RunContext-style entry point to the process:
// signals, arguments, standard streams and the exit code.
package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// exitCanceled is reported when a signal arrived but run still returned 0.
const exitCanceled = 130

// Main runs run under a context cancelled by SIGINT/SIGTERM and exits.
func Main(run func(context.Context, []string, io.Writer, io.Writer) int) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	if ctx.Err() != nil && code == 0 {
		code = exitCanceled
	}

	stop()
	os.Exit(code)
}
