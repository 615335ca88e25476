// core/block/record.go
package block

import "bytes"

// Record borrows one record's fields from a Block. Header and Separator keep
// their marker byte. Separator and Quality are empty for two-line formats.
//
// A Record is only valid until the next call to Reader.Next; copy what you
// need to keep.
type Record struct {
	Header    []byte
	Sequence  []byte
	Separator []byte
	Quality   []byte
}

// ID returns the header without its marker, cut at the first space or tab.
func (r Record) ID() []byte {
	h := r.Header
	if len(h) > 0 {
		h = h[1:]
	}
	if i := bytes.IndexAny(h, " \t"); i >= 0 {
		return h[:i]
	}
	return h
}
