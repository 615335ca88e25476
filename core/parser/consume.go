// core/parser/consume.go
package parser

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"fastmap/core/block"
)

// consume reads every record of b, then releases it.
func consume[A any](b *block.Block, f block.Format, acc A, visit VisitFunc[A], obs Observer, log *zap.Logger) error {
	off, length := b.Offset(), b.Len()
	r := block.NewReader(b, f)
	defer r.Close()

	obs.ObserveBlock(off, length)
	n := 0
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("%s block at offset %d, byte %d: %w", f.Name(), off, r.Offset(), err)
		}
		if err := visit(rec, acc); err != nil {
			return err
		}
		n++
	}
	obs.ObserveRecords(n)
	log.Debug("block consumed", zap.Int64("offset", off), zap.Int("length", length), zap.Int("records", n))
	return nil
}
