// internal/app/run.go
package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"fastmap/core/block"
	"fastmap/core/fasta"
	"fastmap/core/fastq"
	"fastmap/core/parser"
	"fastmap/internal/cli"
	"fastmap/internal/spool"
	"fastmap/internal/stats"
)

type runner struct {
	opts cli.Options
	cfg  parser.Config
	out  *bufio.Writer
	log  *zap.SugaredLogger
}

func (r *runner) run(ctx context.Context) error {
	switch r.opts.Mode {
	case cli.ModeKmer:
		return r.kmers(ctx)
	case cli.ModeQual:
		return r.quality(ctx)
	default:
		return r.count(ctx)
	}
}

// eachInput spools every input, picks its format and calls fn.
func (r *runner) eachInput(ctx context.Context, fn func(src, path string, f block.Format) error) error {
	for _, in := range r.opts.Inputs {
		if err := ctx.Err(); err != nil {
			return err
		}
		sf, err := spool.Open(in, r.opts.TempDir)
		if err != nil {
			return err
		}
		if sf.Kind != spool.Plain {
			r.log.Debugw("input spooled", "source", in, "kind", sf.Kind.String(), "path", sf.Path)
		}
		f, err := pickFormat(r.opts.Format, sf.Path)
		if err == nil {
			err = fn(in, sf.Path, f)
		}
		if cerr := sf.Cleanup(); cerr != nil {
			r.log.Warnw("temporary file not removed", "path", sf.Path, "error", cerr)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", in, err)
		}
	}
	return nil
}

func (r *runner) count(ctx context.Context) error {
	fmt.Fprintln(r.out, "file\tformat\trecords\tbases\tA\tC\tG\tT\tN")
	return r.eachInput(ctx, func(src, path string, f block.Format) error {
		var t stats.Totals
		if r.opts.Parallel {
			acc := stats.NewSharedTotals()
			if err := parser.Parallel(ctx, r.cfg, path, f, acc, stats.CountShared); err != nil {
				return err
			}
			t = acc.Snapshot()
		} else if err := parser.Sequential(ctx, r.cfg, path, f, &t, stats.CountRecord); err != nil {
			return err
		}
		_, err := fmt.Fprintf(r.out, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			src, f.Name(), t.Records, t.Bases, t.A(), t.C(), t.G(), t.T(), t.N())
		return err
	})
}

func (r *runner) kmers(ctx context.Context) error {
	kc, err := stats.NewKmerCounter(r.opts.K)
	if err != nil {
		return err
	}
	err = r.eachInput(ctx, func(_, path string, f block.Format) error {
		if r.opts.Parallel {
			return parser.Parallel(ctx, r.cfg, path, f, kc, stats.CountKmers)
		}
		return parser.Sequential(ctx, r.cfg, path, f, kc, stats.CountKmers)
	})
	if err != nil {
		return err
	}
	_, err = kc.WriteTo(r.out)
	return err
}

func (r *runner) quality(ctx context.Context) error {
	if r.opts.Parallel {
		r.log.Warn("--mode qual ignores --parallel; its report is a sequential accumulator")
	}
	table := stats.NewErrorTable(byte(r.opts.PhredOffset))
	report := stats.NewQualityReport(table, r.opts.QualThreshold)
	err := r.eachInput(ctx, func(_, path string, f block.Format) error {
		if _, ok := f.(fastq.Format); !ok {
			return fmt.Errorf("--mode qual needs fastq input, got %s", f.Name())
		}
		return parser.Sequential(ctx, r.cfg, path, f, report, stats.AddRecord)
	})
	if err != nil {
		return err
	}
	_, err = report.WriteTo(r.out)
	return err
}

// pickFormat resolves "auto" from the first byte of the file.
func pickFormat(name, path string) (block.Format, error) {
	switch name {
	case cli.FormatFasta:
		return fasta.Format{}, nil
	case cli.FormatFastq:
		return fastq.Format{}, nil
	}

	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", block.ErrOpenFile, err)
	}
	defer fh.Close()
	var first [1]byte
	if _, err := io.ReadFull(fh, first[:]); err != nil {
		if err == io.EOF {
			return fasta.Format{}, nil // empty file: no records either way
		}
		return nil, err
	}
	switch first[0] {
	case fasta.Marker:
		return fasta.Format{}, nil
	case fastq.Marker:
		return fastq.Format{}, nil
	}
	return nil, fmt.Errorf("cannot detect format from leading byte %q, use --format", first[0])
}
