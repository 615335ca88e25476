// core/block/errors.go
package block

import "errors"

// Failure kinds surfaced by Producer and Reader. I/O-backed kinds wrap the
// underlying error, so errors.As against *fs.PathError keeps working.
//
// ErrNoNewLineInBlock and the format errors come from a bounded backward
// scan. That scan cannot tell an undersized chunk from a malformed file:
// callers seeing either one should retry with a larger chunk size before
// concluding the input is bad.
var (
	ErrOpenFile         = errors.New("cannot open file")
	ErrMetaDataFile     = errors.New("cannot read file metadata")
	ErrMapFile          = errors.New("cannot map file in memory")
	ErrNoNewLineInBlock = errors.New("no newline found in block, increase chunk size")
	ErrNotAFastaFile    = errors.New("input does not look like a fasta file")
	ErrNotAFastqFile    = errors.New("input does not look like a fastq file")
	ErrPartialRecord    = errors.New("partial record found in block")
)
