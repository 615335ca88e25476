// core/block/block.go
package block

import "sync"

// DefaultChunkSize is the candidate block length used when none is configured.
const DefaultChunkSize int64 = 65536

// Block is a read-only view over one mapped byte range of a file.
// The mapping may start before the block (page alignment) and run past its
// valid end; Data only ever exposes the valid range.
type Block struct {
	mem    []byte // whole mapping, released on Close
	data   []byte
	offset int64

	once  sync.Once
	unmap func([]byte) error
}

func newBlock(mem []byte, start, length int, offset int64, unmap func([]byte) error) *Block {
	return &Block{
		mem:    mem,
		data:   mem[start : start+length : start+length],
		offset: offset,
		unmap:  unmap,
	}
}

// Data returns the valid bytes of the block. The slice must not be used after Close.
func (b *Block) Data() []byte { return b.data }

// Len is the number of valid bytes.
func (b *Block) Len() int { return len(b.data) }

// IsEmpty reports whether the block holds no bytes.
func (b *Block) IsEmpty() bool { return len(b.data) == 0 }

// Offset is the file offset of the first valid byte.
func (b *Block) Offset() int64 { return b.offset }

// Close releases the mapping. Calling it more than once is a no-op.
func (b *Block) Close() error {
	var err error
	b.once.Do(func() {
		if b.unmap != nil && b.mem != nil {
			err = b.unmap(b.mem)
		}
		b.mem, b.data = nil, nil
	})
	return err
}

func (b *Block) truncate(n int) { b.data = b.data[:n:n] }
