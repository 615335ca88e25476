// Package fastq reads four-line FASTQ files through memory-mapped blocks.
//
// Records are header ('@'), sequence, separator ('+', optional header) and
// quality, one line each.
package fastq

import (
	"context"

	"fastmap/core/block"
	"fastmap/core/parser"
)

// NewProducer opens path and cuts it into blocks of whole FASTQ records.
func NewProducer(path string, chunkSize int64) (*block.Producer, error) {
	return block.NewProducer(path, chunkSize, Format{})
}

// NewReader iterates the records of a block produced by NewProducer.
func NewReader(b *block.Block) *block.Reader {
	return block.NewReader(b, Format{})
}

// Sequential visits every record of path in file order on the calling goroutine.
func Sequential[A any](ctx context.Context, cfg parser.Config, path string, acc A, visit parser.VisitFunc[A]) error {
	return parser.Sequential(ctx, cfg, path, Format{}, acc, visit)
}

// Parallel visits every record of path from a pool of workers. acc must be
// safe for concurrent use.
func Parallel[A any](ctx context.Context, cfg parser.Config, path string, acc A, visit parser.VisitFunc[A]) error {
	return parser.Parallel(ctx, cfg, path, Format{}, acc, visit)
}
