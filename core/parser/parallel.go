// core/parser/parallel.go
package parser

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fastmap/core/block"
)

// Parallel produces blocks on the calling goroutine and consumes each one on
// a pool of cfg.Workers goroutines. acc is shared by every worker without
// any locking, so its type must be safe for concurrent mutation.
//
// Records of one block are visited in file order; blocks complete in any
// order. The first error (production, reading or visit) is returned. No new
// block is dispatched after it, but blocks already running may finish.
func Parallel[A any](
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

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	blocks := 0
	for gctx.Err() == nil {
		b, err := prod.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Warn("block production failed", zap.Int64("offset", prod.Offset()), zap.Error(err))
			// queue it so a worker failure recorded earlier keeps precedence
			g.Go(func() error { return err })
			break
		}
		blocks++
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				_ = b.Close()
				return err
			}
			return consume(b, f, acc, visit, cfg.Observer, log)
		})
	}

	if err := g.Wait(); err != nil {
		log.Warn("parallel parse failed", zap.Int("blocks", blocks), zap.Error(err))
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	log.Debug("parallel parse done", zap.Int("blocks", blocks), zap.Int("workers", cfg.Workers))
	return nil
}
