// Package testutil generates deterministic FASTA/FASTQ fixtures for tests.
package testutil

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

var dna = [4]byte{'A', 'C', 'T', 'G'}

// FastaBytes returns n records ">i\n<length random bases>\n".
func FastaBytes(seed int64, n, length int) []byte {
	rng := rand.New(rand.NewSource(seed))
	var buf bytes.Buffer
	for i := 0; i < n; i++ {
		buf.WriteByte('>')
		buf.WriteString(strconv.Itoa(i))
		buf.WriteByte('\n')
		for j := 0; j < length; j++ {
			buf.WriteByte(dna[rng.Intn(4)])
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// FastqBytes returns n records "@i\n<bases>\n+i\n<quality>\n". Quality bytes
// cover the whole printable range 33..126, so '@' and '+' do show up in
// quality lines.
func FastqBytes(seed int64, n, length int) []byte {
	rng := rand.New(rand.NewSource(seed))
	var buf bytes.Buffer
	for i := 0; i < n; i++ {
		id := strconv.Itoa(i)
		buf.WriteByte('@')
		buf.WriteString(id)
		buf.WriteByte('\n')
		for j := 0; j < length; j++ {
			buf.WriteByte(dna[rng.Intn(4)])
		}
		buf.WriteString("\n+")
		buf.WriteString(id)
		buf.WriteByte('\n')
		for j := 0; j < length; j++ {
			buf.WriteByte(byte(rng.Intn(94) + 33))
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// WriteFile writes data under t.TempDir() and returns the path.
func WriteFile(t testing.TB, name string, data []byte) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", fn, err)
	}
	return fn
}

// GenerateFasta writes FastaBytes to a temp file.
func GenerateFasta(t testing.TB, seed int64, n, length int) string {
	t.Helper()
	return WriteFile(t, "fixture.fa", FastaBytes(seed, n, length))
}

// GenerateFastq writes FastqBytes to a temp file.
func GenerateFastq(t testing.TB, seed int64, n, length int) string {
	t.Helper()
	return WriteFile(t, "fixture.fq", FastqBytes(seed, n, length))
}
