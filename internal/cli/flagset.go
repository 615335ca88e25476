package cli

import (
	"flag"
	"fmt"

	"fastmap/internal/version"
)

// NewFlagSet returns a ContinueOnError FlagSet with fastmap usage text.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: memory-mapped FASTA/FASTQ statistics

Version: %s

Usage of %s: [flags] <file> [file ...]   ('-' reads stdin; .gz/.zst are inflated first)
`, name, version.Version, name)
		fs.PrintDefaults()
	}
	return fs
}
