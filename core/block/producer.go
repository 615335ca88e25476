// core/block/producer.go
package block

import (
	"fmt"
	"io"
	"os"
)

// Producer cuts a file into Blocks holding whole records only.
// It is not safe for concurrent use: exactly one goroutine advances it.
type Producer struct {
	file      *os.File
	size      int64
	chunkSize int64
	cursor    int64
	format    Format
}

// NewProducer opens path for block production. chunkSize <= 0 selects
// DefaultChunkSize. The chunk must be able to hold at least two records of
// the format, otherwise Next fails with ErrNoNewLineInBlock or a format error.
func NewProducer(path string, chunkSize int64, f Format) (*Producer, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMetaDataFile, err)
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenFile, err)
	}
	size := st.Size()
	return &Producer{
		file:      fh,
		size:      size,
		chunkSize: min(chunkSize, size),
		format:    f,
	}, nil
}

// Next returns the next Block, or io.EOF once the whole file was produced.
// The caller owns the returned Block and must Close it.
func (p *Producer) Next() (*Block, error) {
	if p.cursor == p.size {
		return nil, io.EOF
	}

	// The tail always ends on a record boundary: end of file.
	if remain := p.size - p.cursor; remain <= p.chunkSize {
		b, err := mapRange(p.file, p.cursor, int(remain))
		if err != nil {
			return nil, err
		}
		p.cursor = p.size
		return b, nil
	}

	b, err := mapRange(p.file, p.cursor, int(p.chunkSize))
	if err != nil {
		return nil, err
	}
	cut, err := p.format.Cut(b.Data())
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("%s block at offset %d: %w", p.format.Name(), p.cursor, err)
	}
	b.truncate(cut)
	p.cursor += int64(cut)
	return b, nil
}

// Size is the file length in bytes.
func (p *Producer) Size() int64 { return p.size }

// Offset is the file offset the next Block starts at.
func (p *Producer) Offset() int64 { return p.cursor }

// ChunkSize is the effective candidate block length.
func (p *Producer) ChunkSize() int64 { return p.chunkSize }

// Close closes the underlying file. Blocks already produced stay valid
// until they are closed themselves.
func (p *Producer) Close() error { return p.file.Close() }
