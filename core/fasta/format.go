// core/fasta/format.go
package fasta

import (
	"bytes"

	"fastmap/core/block"
)

// Marker starts every FASTA header line.
const Marker = '>'

// cutBudget is how many newlines Cut walks back over before giving up.
// Two lines make one record, so two hops always reach a header in a
// well-formed window.
const cutBudget = 2

// Format is the two-line FASTA strategy. The zero value is ready to use.
type Format struct{}

var _ block.Format = Format{}

func (Format) Name() string { return "fasta" }

func (Format) Lines() int { return 2 }

// Cut returns the offset of the last header that starts within window.
func (Format) Cut(window []byte) (int, error) {
	end := len(window)
	for hops := 0; hops < cutBudget; {
		nl := bytes.LastIndexByte(window[:end], '\n')
		if nl < 0 {
			return 0, block.ErrNoNewLineInBlock
		}
		end = nl
		// a newline closing the window shows nothing of the next line
		if nl+1 == len(window) {
			continue
		}
		if window[nl+1] == Marker {
			return nl + 1, nil
		}
		hops++
	}
	return 0, block.ErrNotAFastaFile
}
