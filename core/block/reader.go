// core/block/reader.go
package block

import (
	"bytes"
	"io"
)

// Reader walks one Block and yields zero-copy Records.
type Reader struct {
	block  *Block
	offset int
	lines  int
}

// NewReader takes ownership of b.
func NewReader(b *Block, f Format) *Reader {
	return &Reader{block: b, lines: f.Lines()}
}

// Next returns the next Record of the block, or io.EOF once it is exhausted.
// The Record borrows the block's memory and is invalidated by the next call.
func (r *Reader) Next() (Record, error) {
	data := r.block.Data()
	if r.offset == len(data) {
		return Record{}, io.EOF
	}

	var fields [4][]byte
	for i := 0; i < r.lines; i++ {
		line, err := r.line(data)
		if err != nil {
			return Record{}, err
		}
		fields[i] = line
	}
	return Record{
		Header:    fields[0],
		Sequence:  fields[1],
		Separator: fields[2],
		Quality:   fields[3],
	}, nil
}

// line consumes one line. The last line of the data may lack its newline
// when the file itself does not end with one.
func (r *Reader) line(data []byte) ([]byte, error) {
	if r.offset >= len(data) {
		return nil, ErrPartialRecord
	}
	rest := data[r.offset:]
	n := bytes.IndexByte(rest, '\n')
	if n < 0 {
		r.offset = len(data)
		return rest, nil
	}
	r.offset += n + 1
	return rest[:n], nil
}

// Offset is the number of bytes of the block consumed so far.
func (r *Reader) Offset() int { return r.offset }

// Block returns the block being read.
func (r *Reader) Block() *Block { return r.block }

// Close releases the underlying block.
func (r *Reader) Close() error { return r.block.Close() }
