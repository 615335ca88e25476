// Package stats holds record accumulators for the sequential and parallel
// drivers: plain structs for the former, atomic counters for the latter.
package stats

import (
	"sync/atomic"

	"fastmap/core/block"
)

// Counts is a fixed-size array of independently atomic counters.
type Counts struct {
	slots []atomic.Uint64
}

// NewCounts allocates n zeroed counters.
func NewCounts(n int) *Counts {
	return &Counts{slots: make([]atomic.Uint64, n)}
}

func (c *Counts) Add(i int, n uint64) { c.slots[i].Add(n) }

func (c *Counts) Load(i int) uint64 { return c.slots[i].Load() }

func (c *Counts) Len() int { return len(c.slots) }

// Snapshot copies every counter. Only consistent once writers are done.
func (c *Counts) Snapshot() []uint64 {
	out := make([]uint64, len(c.slots))
	for i := range c.slots {
		out[i] = c.slots[i].Load()
	}
	return out
}

// NucSpace is the number of nucleotide slots addressed by NucIndex.
const NucSpace = 8

// NucIndex maps a base to a slot using bits 1..3 of its ASCII code:
// A→0, C→1, T→2, G→3, N→7, case-insensitive.
func NucIndex(b byte) int { return int(b>>1) & 0b111 }

// Totals is the sequential record/base accumulator.
type Totals struct {
	Records uint64
	Bases   uint64
	Nuc     [NucSpace]uint64
}

// A, C, G, T and N read the per-nucleotide counts.
func (t Totals) A() uint64 { return t.Nuc[0] }
func (t Totals) C() uint64 { return t.Nuc[1] }
func (t Totals) G() uint64 { return t.Nuc[3] }
func (t Totals) T() uint64 { return t.Nuc[2] }
func (t Totals) N() uint64 { return t.Nuc[7] }

// CountRecord adds one record to t. It matches parser.VisitFunc[*Totals].
func CountRecord(rec block.Record, t *Totals) error {
	t.Records++
	t.Bases += uint64(len(rec.Sequence))
	for _, b := range rec.Sequence {
		t.Nuc[NucIndex(b)]++
	}
	return nil
}

// SharedTotals is the concurrent counterpart of Totals.
type SharedTotals struct {
	records atomic.Uint64
	bases   atomic.Uint64
	nuc     *Counts
}

func NewSharedTotals() *SharedTotals {
	return &SharedTotals{nuc: NewCounts(NucSpace)}
}

// CountShared adds one record to s. It matches parser.VisitFunc[*SharedTotals].
// Bases are tallied locally first so each record costs NucSpace atomic adds
// at most.
func CountShared(rec block.Record, s *SharedTotals) error {
	var local [NucSpace]uint64
	for _, b := range rec.Sequence {
		local[NucIndex(b)]++
	}
	for i, n := range local {
		if n != 0 {
			s.nuc.Add(i, n)
		}
	}
	s.bases.Add(uint64(len(rec.Sequence)))
	s.records.Add(1)
	return nil
}

// Snapshot returns the current values as a Totals.
func (s *SharedTotals) Snapshot() Totals {
	t := Totals{Records: s.records.Load(), Bases: s.bases.Load()}
	copy(t.Nuc[:], s.nuc.Snapshot())
	return t
}
