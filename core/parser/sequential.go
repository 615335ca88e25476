// core/parser/sequential.go
package parser

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"fastmap/core/block"
)

// Sequential visits every record of path in file order on the calling
// goroutine. It stops at the first error; updates already applied to acc
// are kept.
func Sequential[A any](
	ctx context.Context,
	cfg Config,
	path string,
	f block.Format,
	acc A,
	visit VisitFunc[A],
) error {
	cfg = cfg.withDefaults()
	log := cfg.Logger.With(zap.String("format", f.Name()), zap.String("path", path))

	prod, err := block.NewProducer(path, cfg.ChunkSize, f)
	if err != nil {
		log.Warn("open failed", zap.Error(err))
		return err
	}
	defer prod.Close()

	blocks := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		b, err := prod.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Warn("block production failed", zap.Int64("offset", prod.Offset()), zap.Error(err))
			return err
		}
		if err := consume(b, f, acc, visit, cfg.Observer, log); err != nil {
			log.Warn("block consumption failed", zap.Error(err))
			return err
		}
		blocks++
	}
	log.Debug("sequential parse done", zap.Int("blocks", blocks), zap.Int64("bytes", prod.Size()))
	return nil
}
