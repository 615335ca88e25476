// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"fastmap/core/block"
	"fastmap/internal/stats"
)

// Formats and modes accepted on the command line.
const (
	FormatAuto  = "auto"
	FormatFasta = "fasta"
	FormatFastq = "fastq"

	ModeCount = "count"
	ModeKmer  = "kmer"
	ModeQual  = "qual"
)

// EnvChunkSize overrides the default chunk size when -chunk-size is absent.
const EnvChunkSize = "FASTMAP_CHUNK_SIZE"

// Options holds all CLI flags and arguments.
type Options struct {
	Inputs []string

	Format string
	Mode   string

	// Performance
	Parallel  bool
	Threads   int
	ChunkSize int64

	// Mode parameters
	K             int
	QualThreshold int
	PhredOffset   int

	// Misc
	LogLevel string
	Metrics  bool
	TempDir  string
	Version  bool
}

// ParseArgs registers and parses all flags, returns a validated Options.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool

	var inputs stringSlice
	fs.Var(&inputs, "input", "input file (repeatable; positional arguments work too)")
	fs.StringVar(&opt.Format, "format", FormatAuto, "input format: auto | fasta | fastq [auto]")
	fs.StringVar(&opt.Mode, "mode", ModeCount, "what to compute: count | kmer | qual [count]")

	fs.BoolVar(&opt.Parallel, "parallel", false, "consume blocks on a worker pool [false]")
	fs.IntVar(&opt.Threads, "threads", 0, "number of workers with --parallel (0 = all CPUs) [0]")
	fs.Int64Var(&opt.ChunkSize, "chunk-size", block.DefaultChunkSize,
		fmt.Sprintf("candidate block size in bytes, must hold two records (env %s) [%d]", EnvChunkSize, block.DefaultChunkSize))

	fs.IntVar(&opt.K, "k", 5, "k-mer length for --mode kmer [5]")
	fs.IntVar(&opt.QualThreshold, "quality-threshold", 20, "scores below this count as low quality [20]")
	fs.IntVar(&opt.PhredOffset, "phred-offset", 33, "quality encoding offset: 33 | 64 [33]")

	fs.StringVar(&opt.LogLevel, "log-level", "warn", "debug | info | warn | error [warn]")
	fs.BoolVar(&opt.Metrics, "metrics", false, "print block/record metrics to stderr [false]")
	fs.StringVar(&opt.TempDir, "tmp-dir", "", "directory for inflated inputs (default: system temp)")

	fs.BoolVar(&opt.Version, "v", false, "print version and exit (shorthand) [false]")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&help, "h", false, "show this help message (shorthand) [false]")

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if help {
		fs.Usage()
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}
	opt.Inputs = append([]string(inputs), fs.Args()...)

	if !isSet(fs, "chunk-size") {
		if v, ok := os.LookupEnv(EnvChunkSize); ok && v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return opt, fmt.Errorf("%s: %w", EnvChunkSize, err)
			}
			opt.ChunkSize = n
		}
	}

	// Validation
	if len(opt.Inputs) == 0 {
		return opt, errors.New("at least one input file is required")
	}
	switch opt.Format {
	case FormatAuto, FormatFasta, FormatFastq:
	default:
		return opt, fmt.Errorf("invalid --format %q", opt.Format)
	}
	switch opt.Mode {
	case ModeCount, ModeKmer, ModeQual:
	default:
		return opt, fmt.Errorf("invalid --mode %q", opt.Mode)
	}
	if opt.Mode == ModeQual && opt.Format == FormatFasta {
		return opt, errors.New("--mode qual needs fastq input")
	}
	if opt.Threads < 0 {
		return opt, errors.New("--threads must be ≥ 0")
	}
	if opt.ChunkSize <= 0 {
		return opt, errors.New("--chunk-size must be > 0")
	}
	if opt.Mode == ModeKmer && (opt.K < 1 || opt.K > stats.MaxK) {
		return opt, fmt.Errorf("--k must be in [1, %d]", stats.MaxK)
	}
	if opt.PhredOffset != 33 && opt.PhredOffset != 64 {
		return opt, fmt.Errorf("invalid --phred-offset %d", opt.PhredOffset)
	}
	if opt.QualThreshold < 0 || opt.QualThreshold > 93 {
		return opt, errors.New("--quality-threshold must be in [0, 93]")
	}
	return opt, nil
}

func isSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// stringSlice allows repeatable string flags.
type stringSlice []string

func (s *stringSlice) String() string     { return strings.Join(*s, ",") }
func (s *stringSlice) Set(v string) error { *s = append(*s, v); return nil }
