// internal/stats/kmer.go
package stats

import (
	"bufio"
	"fmt"
	"io"

	"fastmap/core/block"
)

// MaxK bounds k so the 4^k counter array stays reasonable (16M slots).
const MaxK = 12

// KmerCounter counts 2-bit encoded k-mers in a shared atomic array.
// Windows containing a non-ACGT base are skipped.
type KmerCounter struct {
	k      int
	mask   uint64
	counts *Counts
}

// NewKmerCounter allocates 4^k counters.
func NewKmerCounter(k int) (*KmerCounter, error) {
	if k < 1 || k > MaxK {
		return nil, fmt.Errorf("k must be in [1, %d], got %d", MaxK, k)
	}
	return &KmerCounter{
		k:      k,
		mask:   (uint64(1) << (2 * k)) - 1,
		counts: NewCounts(1 << (2 * k)),
	}, nil
}

func (kc *KmerCounter) K() int { return kc.k }

// Count returns the occurrences of the k-mer encoded as code.
func (kc *KmerCounter) Count(code uint64) uint64 { return kc.counts.Load(int(code)) }

// encode maps A/C/T/G (any case) to 0/1/2/3.
func encode(b byte) (uint64, bool) {
	switch b | 0x20 {
	case 'a', 'c', 'g', 't':
		return uint64(b>>1) & 0b11, true
	}
	return 0, false
}

// Encode returns the 2-bit code of seq, which must hold exactly k bases.
func (kc *KmerCounter) Encode(seq []byte) (uint64, bool) {
	if len(seq) != kc.k {
		return 0, false
	}
	var code uint64
	for _, b := range seq {
		v, ok := encode(b)
		if !ok {
			return 0, false
		}
		code = code<<2 | v
	}
	return code, true
}

// Decode turns a code back into its k-mer.
func (kc *KmerCounter) Decode(code uint64) string {
	const alphabet = "ACTG"
	out := make([]byte, kc.k)
	for i := kc.k - 1; i >= 0; i-- {
		out[i] = alphabet[code&0b11]
		code >>= 2
	}
	return string(out)
}

// CountKmers adds every k-mer of rec's sequence. It matches
// parser.VisitFunc[*KmerCounter] and is safe for concurrent use.
func CountKmers(rec block.Record, kc *KmerCounter) error {
	var code uint64
	valid := 0
	for _, b := range rec.Sequence {
		v, ok := encode(b)
		if !ok {
			valid = 0
			continue
		}
		code = (code<<2 | v) & kc.mask
		if valid++; valid >= kc.k {
			kc.counts.Add(int(code), 1)
		}
	}
	return nil
}

// WriteTo prints "kmer,count" lines in code order, skipping zero counts.
func (kc *KmerCounter) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var total int64
	for i := 0; i < kc.counts.Len(); i++ {
		n := kc.counts.Load(i)
		if n == 0 {
			continue
		}
		c, err := fmt.Fprintf(bw, "%s,%d\n", kc.Decode(uint64(i)), n)
		total += int64(c)
		if err != nil {
			return total, err
		}
	}
	return total, bw.Flush()
}
