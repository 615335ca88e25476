//go:build unix

package block

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

var pageSize = int64(unix.Getpagesize())

// mapRange maps [offset, offset+length) of f read-only. mmap wants a
// page-aligned offset, so the mapping starts at the enclosing page boundary
// and the block hides the leading bytes.
func mapRange(f *os.File, offset int64, length int) (*Block, error) {
	aligned := offset - offset%pageSize
	lead := int(offset - aligned)

	mem, err := unix.Mmap(int(f.Fd()), aligned, lead+length, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("%w: offset %d length %d: %w", ErrMapFile, offset, length, err)
	}
	return newBlock(mem, lead, length, offset, unix.Munmap), nil
}
