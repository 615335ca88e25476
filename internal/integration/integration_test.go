// internal/integration/integration_test.go
package integration

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"

	"fastmap/internal/app"
	"fastmap/internal/testutil"
)

func run(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errBuf bytes.Buffer
	code = app.Run(args, &out, &errBuf)
	return code, out.String(), errBuf.String()
}

func TestEndToEnd_Count(t *testing.T) {
	fa := testutil.WriteFile(t, "small.fa", []byte(">a desc\nACGTN\n>b\nGG\n"))

	code, out, errOut := run(t, fa)
	require.Equal(t, app.ExitOK, code, errOut)
	require.Equal(t,
		"file\tformat\trecords\tbases\tA\tC\tG\tT\tN\n"+
			fa+"\tfasta\t2\t7\t1\t1\t3\t1\t1\n", out)
}

func TestParallelMatchesSequential(t *testing.T) {
	fa := testutil.GenerateFasta(t, 11, 3000, 150)
	fq := testutil.GenerateFastq(t, 11, 3000, 150)

	for _, mode := range []string{"count", "kmer"} {
		serialCode, serial, errS := run(t, "--mode", mode, "--chunk-size", "4096", fa, fq)
		require.Equal(t, app.ExitOK, serialCode, errS)

		for _, threads := range []int{1, 4} {
			code, parallel, errP := run(t, "--mode", mode, "--chunk-size", "4096",
				"--parallel", "--threads", fmt.Sprint(threads), fa, fq)
			require.Equal(t, app.ExitOK, code, errP)
			require.Equal(t, serial, parallel, "mode=%s threads=%d", mode, threads)
		}
	}
}

func TestCountIndependentOfChunkSize(t *testing.T) {
	fq := testutil.GenerateFastq(t, 5, 1000, 100)
	_, want, _ := run(t, fq)
	for _, chunk := range []string{"600", "1000", "7777"} {
		code, got, errOut := run(t, "--chunk-size", chunk, fq)
		require.Equal(t, app.ExitOK, code, errOut)
		require.Equal(t, want, got, "chunk=%s", chunk)

		code, got, errOut = run(t, "--parallel", "--threads", "4", "--chunk-size", chunk, fq)
		require.Equal(t, app.ExitOK, code, errOut)
		require.Equal(t, want, got, "parallel chunk=%s", chunk)
	}
}

func TestKmerMode(t *testing.T) {
	fa := testutil.WriteFile(t, "k.fa", []byte(">a\nACGTNAC\n"))
	code, out, errOut := run(t, "--mode", "kmer", "--k", "2", fa)
	require.Equal(t, app.ExitOK, code, errOut)
	require.Equal(t, "AC,2\nCG,1\nGT,1\n", out)
}

func TestQualMode(t *testing.T) {
	fq := testutil.WriteFile(t, "q.fq", []byte("@r1\nACGT\n+\nIIII\n@r2\nACGT\n+\n++++\n"))
	code, out, errOut := run(t, "--mode", "qual", fq)
	require.Equal(t, app.ExitOK, code, errOut)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2+4+1)
	require.Equal(t, "min_len: 4; max_len: 4; avg_len: 4.00; 2 distinct quality values", lines[0])
	require.True(t, strings.HasPrefix(lines[len(lines)-1], "ALL\t8\t"))

	code, _, errOut = run(t, "--mode", "qual", testutil.WriteFile(t, "x.fa", []byte(">a\nAC\n")))
	require.Equal(t, app.ExitFailure, code)
	require.Contains(t, errOut, "needs fastq input")
}

func TestGzipInput(t *testing.T) {
	data := testutil.FastqBytes(2, 200, 80)
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write(data)
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	gz := testutil.WriteFile(t, "reads.fq.gz", buf.Bytes())
	plain := testutil.WriteFile(t, "reads.fq", data)

	tmp := t.TempDir()
	code, gzOut, errOut := run(t, "--tmp-dir", tmp, gz)
	require.Equal(t, app.ExitOK, code, errOut)
	_, plainOut, _ := run(t, plain)
	require.Equal(t, strings.ReplaceAll(plainOut, plain, gz), gzOut)

	left, err := os.ReadDir(tmp)
	require.NoError(t, err)
	require.Empty(t, left, "spooled copy must be removed")
}

func TestFailures(t *testing.T) {
	lorem := testutil.WriteFile(t, "lorem.fa", []byte(strings.Repeat("lorem ipsum dolor\n", 50)))

	code, _, errOut := run(t, "--format", "fasta", "--chunk-size", "200", lorem)
	require.Equal(t, app.ExitFailure, code)
	require.Contains(t, errOut, "does not look like a fasta file")

	code, _, errOut = run(t, lorem)
	require.Equal(t, app.ExitFailure, code)
	require.Contains(t, errOut, "cannot detect format")

	code, _, _ = run(t, filepath.Join(t.TempDir(), "missing.fa"))
	require.Equal(t, app.ExitFailure, code)
}

func TestUsageAndVersion(t *testing.T) {
	code, out, _ := run(t)
	require.Equal(t, app.ExitOK, code)
	require.Contains(t, out, "Usage of fastmap")

	code, _, errOut := run(t, "--mode", "align", "x.fa")
	require.Equal(t, app.ExitUsage, code)
	require.Contains(t, errOut, "invalid --mode")

	code, out, _ = run(t, "--version")
	require.Equal(t, app.ExitOK, code)
	require.True(t, strings.HasPrefix(out, "fastmap version "))
}

func TestMetricsSummary(t *testing.T) {
	fa := testutil.GenerateFasta(t, 1, 100, 150)
	code, _, errOut := run(t, "--metrics", "--chunk-size", "1000", fa)
	require.Equal(t, app.ExitOK, code, errOut)
	require.Contains(t, errOut, "fastmap_records_total 100\n")
	require.Contains(t, errOut, "fastmap_block_bytes_total 15490\n")
}

func TestCanceledContext_Exit130(t *testing.T) {
	fa := testutil.GenerateFasta(t, 1, 100, 150)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out, errBuf bytes.Buffer
	code := app.RunContext(ctx, []string{fa}, &out, &errBuf)
	require.Equal(t, app.ExitCanceled, code)
}
