// core/fastq/format.go
package fastq

import (
	"bytes"

	"fastmap/core/block"
)

const (
	// Marker starts every FASTQ header line.
	Marker = '@'
	// SeparatorMarker starts the third line of every record.
	SeparatorMarker = '+'
)

// cutBudget bounds how many newlines Cut walks back over looking for a
// header candidate.
const cutBudget = 5

// Format is the four-line FASTQ strategy. The zero value is ready to use.
type Format struct{}

var _ block.Format = Format{}

func (Format) Name() string { return "fastq" }

func (Format) Lines() int { return 4 }

// Cut returns the offset of the last header that starts within window.
//
// Quality lines may begin with '@' (or '+'), so a line starting with '@' is
// only a header candidate. If the line above it starts with '+' the
// candidate is usually a quality line; it is still a header when the '+'
// line is itself a quality line, i.e. the line above that starts with '+'
// too. Otherwise the real header sits one line further up.
func (Format) Cut(window []byte) (int, error) {
	end := len(window)
	for i := 0; i < cutBudget; i++ {
		nl := bytes.LastIndexByte(window[:end], '\n')
		if nl < 0 {
			return 0, block.ErrNoNewLineInBlock
		}
		end = nl
		if nl+1 >= len(window) || window[nl+1] != Marker {
			continue
		}

		prev := bytes.LastIndexByte(window[:nl], '\n')
		if prev < 0 {
			return 0, block.ErrNoNewLineInBlock
		}
		if window[prev+1] != SeparatorMarker {
			return nl + 1, nil
		}

		// candidate follows a '+' line: separator or quality?
		sep := bytes.LastIndexByte(window[:prev], '\n')
		if sep < 0 {
			return 0, block.ErrNoNewLineInBlock
		}
		if window[sep+1] == SeparatorMarker {
			return nl + 1, nil
		}

		// candidate is a quality line: prev is the separator, sep the sequence
		head := bytes.LastIndexByte(window[:sep], '\n')
		if head < 0 {
			return 0, block.ErrNoNewLineInBlock
		}
		if window[head+1] == Marker {
			return head + 1, nil
		}
		return 0, block.ErrNotAFastqFile
	}
	return 0, block.ErrNotAFastqFile
}
