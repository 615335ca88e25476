// core/parser/config.go
package parser

import (
	"runtime"

	"go.uber.org/zap"

	"fastmap/core/block"
)

// VisitFunc is called once per record with the caller's accumulator.
// rec borrows block memory: keep derived values only. A non-nil error aborts
// the run and is returned by the driver.
type VisitFunc[A any] func(rec block.Record, acc A) error

// Observer is notified once per consumed block. Implementations used with
// Parallel must be safe for concurrent use.
type Observer interface {
	ObserveBlock(offset int64, length int)
	ObserveRecords(n int)
}

// Config controls both drivers.
type Config struct {
	ChunkSize int64       // candidate block length; <= 0 means block.DefaultChunkSize
	Workers   int         // Parallel pool size; <= 0 means all CPUs
	Logger    *zap.Logger // nil disables logging
	Observer  Observer    // nil disables observation
}

func (c Config) withDefaults() Config {
	if c.ChunkSize <= 0 {
		c.ChunkSize = block.DefaultChunkSize
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Observer == nil {
		c.Observer = nopObserver{}
	}
	return c
}

type nopObserver struct{}

func (nopObserver) ObserveBlock(int64, int) {}
func (nopObserver) ObserveRecords(int)      {}
