// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"fastmap/core/parser"
	"fastmap/internal/cli"
	"fastmap/internal/logging"
	"fastmap/internal/metrics"
	"fastmap/internal/version"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitFailure  = 3
	ExitCanceled = 130
)

// RunContext parses argv, runs the selected mode over every input and
// returns the process exit code.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	flush := func(ok int) int {
		if err := outw.Flush(); isBrokenPipe(err) {
			return ExitOK
		} else if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return ExitFailure
		}
		return ok
	}

	fs := cli.NewFlagSet("fastmap")
	fs.SetOutput(io.Discard)

	if len(argv) == 0 {
		argv = []string{"-h"}
	}
	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		fs.SetOutput(outw)
		if errors.Is(err, flag.ErrHelp) {
			fs.Usage()
			return flush(ExitOK)
		}
		_, _ = fmt.Fprintln(stderr, err)
		fs.Usage()
		return flush(ExitUsage)
	}
	if opts.Version {
		_, _ = fmt.Fprintf(outw, "fastmap version %s\n", version.Version)
		return flush(ExitOK)
	}

	logger, err := logging.New(opts.LogLevel, stderr)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return ExitUsage
	}
	defer func() { _ = logger.Sync() }()

	cfg := parser.Config{
		ChunkSize: opts.ChunkSize,
		Workers:   opts.Threads,
		Logger:    logger,
	}
	reg := prometheus.NewRegistry()
	if opts.Metrics {
		col, err := metrics.New(reg)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return ExitFailure
		}
		cfg.Observer = col
	}

	r := &runner{opts: opts, cfg: cfg, out: outw, log: logger.Sugar()}
	rerr := r.run(parent)

	if opts.Metrics {
		if err := metrics.WriteSummary(stderr, reg); err != nil {
			logger.Warn("metrics summary failed", zap.Error(err))
		}
	}
	if rerr != nil {
		if errors.Is(rerr, context.Canceled) {
			_ = outw.Flush()
			return ExitCanceled
		}
		_ = outw.Flush()
		if isBrokenPipe(rerr) {
			return ExitOK
		}
		_, _ = fmt.Fprintln(stderr, "error:", rerr)
		return ExitFailure
	}
	return flush(ExitOK)
}

// Run uses a background context.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

// isBrokenPipe reports whether the reader of stdout went away (e.g. `head`).
func isBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}
