// Package fasta reads two-line FASTA files through memory-mapped blocks.
//
// Each record is exactly one header line starting with '>' followed by one
// sequence line; wrapped sequences are not supported.
package fasta

import (
	"context"

	"fastmap/core/block"
	"fastmap/core/parser"
)

// NewProducer opens path and cuts it into blocks of whole FASTA records.
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
