// internal/stats/quality.go
package stats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"

	"fastmap/core/block"
)

// qualityHeader names the report columns.
const qualityHeader = "POS\t#bases\t%A\t%C\t%G\t%T\t%N\tavgQ\terrQ\t%low\t%high\n"

// QualSpace is the number of distinct Phred scores tracked (printable range).
const QualSpace = 94

// ErrQualityRange reports a quality byte outside [offset, offset+QualSpace).
var ErrQualityRange = errors.New("quality value out of range")

// ErrorTable holds the error probability of every Phred score. Build it once
// with NewErrorTable and share it; it is read-only afterwards.
type ErrorTable struct {
	offset byte
	perr   [QualSpace]float64
}

// NewErrorTable builds the table for the given encoding offset (33 or 64).
// Scores below 4 are clamped to a 0.5 error probability.
func NewErrorTable(offset byte) *ErrorTable {
	t := &ErrorTable{offset: offset}
	for q := range t.perr {
		if q < 4 {
			t.perr[q] = 0.5
		} else {
			t.perr[q] = math.Pow(10, -float64(q)/10)
		}
	}
	return t
}

func (t *ErrorTable) Offset() byte { return t.offset }

// Prob is the error probability of score q.
func (t *ErrorTable) Prob(q int) float64 { return t.perr[q] }

// PosInfo aggregates one read position.
type PosInfo struct {
	Quality [QualSpace]uint64
	Nuc     [NucSpace]uint64
}

func (p *PosInfo) add(o *PosInfo) {
	for i := range p.Quality {
		p.Quality[i] += o.Quality[i]
	}
	for i := range p.Nuc {
		p.Nuc[i] += o.Nuc[i]
	}
}

// QualityReport is a per-position quality summary in the spirit of seqtk
// fqchk. It is a sequential accumulator.
type QualityReport struct {
	table     *ErrorTable
	threshold int

	Records   uint64
	MinLen    int
	MaxLen    int
	TotalLen  uint64
	Positions []PosInfo
}

// NewQualityReport counts bases with score < threshold as low quality.
func NewQualityReport(table *ErrorTable, threshold int) *QualityReport {
	return &QualityReport{table: table, threshold: threshold, MinLen: math.MaxInt}
}

// AddRecord matches parser.VisitFunc[*QualityReport].
func AddRecord(rec block.Record, q *QualityReport) error {
	n := len(rec.Quality)
	if n != len(rec.Sequence) {
		return fmt.Errorf("record %q: sequence length %d, quality length %d", rec.ID(), len(rec.Sequence), n)
	}
	q.Records++
	q.TotalLen += uint64(n)
	q.MinLen = min(q.MinLen, n)
	q.MaxLen = max(q.MaxLen, n)
	if n > len(q.Positions) {
		q.Positions = append(q.Positions, make([]PosInfo, n-len(q.Positions))...)
	}

	off := q.table.offset
	for i, c := range rec.Quality {
		if c < off || int(c-off) >= QualSpace {
			return fmt.Errorf("record %q position %d: %w: %q", rec.ID(), i, ErrQualityRange, c)
		}
		p := &q.Positions[i]
		p.Quality[c-off]++
		p.Nuc[NucIndex(rec.Sequence[i])]++
	}
	return nil
}

// AvgLen is the mean read length.
func (q *QualityReport) AvgLen() float64 {
	if q.Records == 0 {
		return 0
	}
	return float64(q.TotalLen) / float64(q.Records)
}

// WriteTo renders the report as TSV, one row per position followed by ALL.
func (q *QualityReport) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	cw := &countWriter{w: bw}

	var all PosInfo
	for i := range q.Positions {
		all.add(&q.Positions[i])
	}
	distinct := 0
	for _, n := range all.Quality {
		if n != 0 {
			distinct++
		}
	}
	minLen := q.MinLen
	if q.Records == 0 {
		minLen = 0
	}

	fmt.Fprintf(cw, "min_len: %d; max_len: %d; avg_len: %.2f; %d distinct quality values\n",
		minLen, q.MaxLen, q.AvgLen(), distinct)
	_, _ = io.WriteString(cw, qualityHeader)
	for i := range q.Positions {
		fmt.Fprintf(cw, "%d\t", i+1)
		q.writeRow(cw, &q.Positions[i])
	}
	fmt.Fprint(cw, "ALL\t")
	q.writeRow(cw, &all)

	if cw.err != nil {
		return cw.n, cw.err
	}
	return cw.n, bw.Flush()
}

func (q *QualityReport) writeRow(w io.Writer, p *PosInfo) {
	var sum, low, qsum, psum float64
	for k, n := range p.Quality {
		c := float64(n)
		sum += c
		if k < q.threshold {
			low += c
		}
		qsum += float64(k) * c
		psum += c * q.table.perr[k]
	}
	pct := func(n uint64) float64 {
		if sum == 0 {
			return 0
		}
		return 100 * float64(n) / sum
	}
	avgQ, pLow, pHigh := 0.0, 0.0, 0.0
	if sum > 0 {
		avgQ = qsum / sum
		pLow = 100 * low / sum
		pHigh = 100 * (sum - low) / sum
	}
	errQ := -4.343 * math.Log((psum+1e-6)/(sum+1e-6))

	fmt.Fprintf(w, "%.0f\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\n",
		sum, pct(p.Nuc[0]), pct(p.Nuc[1]), pct(p.Nuc[3]), pct(p.Nuc[2]), pct(p.Nuc[7]),
		avgQ, errQ, pLow, pHigh)
}

// countWriter keeps the first write error and the byte count.
type countWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}
