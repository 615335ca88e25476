//go:build !unix

package block

import (
	"fmt"
	"io"
	"os"
)

// mapRange falls back to a heap copy where mmap is not available.
func mapRange(f *os.File, offset int64, length int) (*Block, error) {
	mem := make([]byte, length)
	if _, err := f.ReadAt(mem, offset); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: offset %d length %d: %w", ErrMapFile, offset, length, err)
	}
	return newBlock(mem, 0, length, offset, nil), nil
}
