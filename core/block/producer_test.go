package block_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"fastmap/core/block"
	"fastmap/core/fasta"
	"fastmap/core/fastq"
	"fastmap/internal/testutil"
)

// drain collects a copy of every block and checks the producer invariants.
func drain(t *testing.T, p *block.Producer) [][]byte {
	t.Helper()
	var out [][]byte
	last := int64(-1)
	for {
		b, err := p.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		require.Greater(t, b.Offset(), last, "cursor must strictly increase")
		last = b.Offset()
		out = append(out, bytes.Clone(b.Data()))
		require.NoError(t, b.Close())
	}
	require.Equal(t, p.Size(), p.Offset())
	return out
}

func TestProducer_PartitionIsLossless(t *testing.T) {
	cases := []struct {
		name   string
		f      block.Format
		data   []byte
		marker byte
	}{
		{"fasta", fasta.Format{}, testutil.FastaBytes(42, 1000, 150), fasta.Marker},
		{"fastq", fastq.Format{}, testutil.FastqBytes(42, 1000, 150), fastq.Marker},
	}
	for _, tc := range cases {
		fn := testutil.WriteFile(t, "in."+tc.name, tc.data)
		for _, chunk := range []int64{800, 1000, 4093, 8192, 65536, 1 << 30} {
			p, err := block.NewProducer(fn, chunk, tc.f)
			require.NoError(t, err)
			blocks := drain(t, p)
			require.NoError(t, p.Close())

			require.Equal(t, tc.data, bytes.Join(blocks, nil), "%s chunk=%d", tc.name, chunk)
			for i, b := range blocks {
				require.NotEmpty(t, b)
				require.Equal(t, tc.marker, b[0], "%s chunk=%d block %d must start on a header", tc.name, chunk, i)
				require.Equal(t, byte('\n'), b[len(b)-1], "%s chunk=%d block %d must end a line", tc.name, chunk, i)
				require.LessOrEqual(t, int64(len(b)), chunk)
			}
		}
	}
}

func TestProducer_ChunkCoversFile_SingleBlock(t *testing.T) {
	data := testutil.FastaBytes(42, 100, 150)
	fn := testutil.WriteFile(t, "one.fa", data)

	p, err := fasta.NewProducer(fn, 0) // default 64 KiB > 15.4 KB
	require.NoError(t, err)
	defer p.Close()

	b, err := p.Next()
	require.NoError(t, err)
	require.Equal(t, len(data), b.Len())
	require.Equal(t, data, b.Data())
	require.Equal(t, int64(0), b.Offset())
	require.NoError(t, b.Close())
	require.NoError(t, b.Close(), "second close is a no-op")

	_, err = p.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestProducer_FastaFirstBlockStopsBeforePartialRecord(t *testing.T) {
	// every record is ">i\n" + 150 bases + "\n" = 154 bytes for i < 10
	fn := testutil.GenerateFasta(t, 42, 1000, 150)
	p, err := fasta.NewProducer(fn, 463)
	require.NoError(t, err)
	defer p.Close()

	b, err := p.Next()
	require.NoError(t, err)
	defer b.Close()
	require.Equal(t, 462, b.Len())
	require.Equal(t, 3, bytes.Count(b.Data(), []byte{'>'}))
	require.Equal(t, int64(462), p.Offset())
}

func TestProducer_FastqFirstBlockStopsBeforePartialRecord(t *testing.T) {
	// "@0\n" + 150 + "\n+0\n" + 150 + "\n" = 308 bytes
	fn := testutil.GenerateFastq(t, 42, 1000, 150)
	p, err := fastq.NewProducer(fn, 463)
	require.NoError(t, err)
	defer p.Close()

	b, err := p.Next()
	require.NoError(t, err)
	defer b.Close()
	require.Equal(t, 308, b.Len())
	require.True(t, bytes.HasPrefix(b.Data(), []byte("@0\n")))
}

func TestProducer_QualityLineStartingWithMarker(t *testing.T) {
	rec := func(id string) string { return "@" + id + "\nACGT\n+\n@III\n" }
	data := rec("r1") + rec("r2") + rec("r3")
	fn := testutil.WriteFile(t, "q.fq", []byte(data))

	p, err := fastq.NewProducer(fn, 30)
	require.NoError(t, err)
	defer p.Close()

	blocks := drain(t, p)
	require.Equal(t, []string{rec("r1"), rec("r2"), rec("r3")}, toStrings(blocks))
}

func TestProducer_Malformed(t *testing.T) {
	lorem := strings.Repeat("lorem ipsum dolor\n", 20)
	fn := testutil.WriteFile(t, "lorem.txt", []byte(lorem))

	p, err := fasta.NewProducer(fn, 200)
	require.NoError(t, err)
	_, err = p.Next()
	require.ErrorIs(t, err, block.ErrNotAFastaFile)
	require.NoError(t, p.Close())

	p, err = fastq.NewProducer(fn, 200)
	require.NoError(t, err)
	_, err = p.Next()
	require.ErrorIs(t, err, block.ErrNotAFastqFile)
	require.NoError(t, p.Close())
}

func TestProducer_ChunkTooSmall(t *testing.T) {
	fn := testutil.GenerateFasta(t, 42, 5, 150)
	p, err := fasta.NewProducer(fn, 10)
	require.NoError(t, err)
	defer p.Close()

	_, err = p.Next()
	require.ErrorIs(t, err, block.ErrNoNewLineInBlock)
	require.Equal(t, int64(0), p.Offset(), "failed correction must not move the cursor")
}

func TestProducer_EmptyFile(t *testing.T) {
	fn := testutil.WriteFile(t, "empty.fa", nil)
	p, err := fasta.NewProducer(fn, 0)
	require.NoError(t, err)
	defer p.Close()

	_, err = p.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestProducer_MissingFile(t *testing.T) {
	_, err := fasta.NewProducer(t.TempDir()+"/nope.fa", 0)
	require.ErrorIs(t, err, block.ErrMetaDataFile)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestProducer_ChunkClampedToFileSize(t *testing.T) {
	fn := testutil.GenerateFastq(t, 44, 2, 150)
	p, err := fastq.NewProducer(fn, 8092)
	require.NoError(t, err)
	defer p.Close()
	require.Equal(t, int64(616), p.ChunkSize())

	b, err := p.Next()
	require.NoError(t, err)
	require.Equal(t, 616, b.Len())
	require.NoError(t, b.Close())
}

func toStrings(bs [][]byte) []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = string(b)
	}
	return out
}

func TestProducer_UnreadableFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits do not block reads on windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root ignores permission bits")
	}
	fn := testutil.GenerateFasta(t, 42, 5, 150)
	require.NoError(t, os.Chmod(fn, 0o000))

	_, err := fasta.NewProducer(fn, 0)
	require.ErrorIs(t, err, block.ErrOpenFile)
	require.ErrorIs(t, err, os.ErrPermission)
}
