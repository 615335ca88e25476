// Package spool turns inputs that cannot be memory-mapped (stdin, gzip or
// zstd streams) into plain temporary files.
package spool

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Kind is the detected input encoding.
type Kind int

const (
	Plain Kind = iota
	Gzip
	Zstd
	Stdin
)

func (k Kind) String() string {
	switch k {
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	case Stdin:
		return "stdin"
	default:
		return "plain"
	}
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// File is a mappable input. Path equals Source for plain files.
type File struct {
	Path   string
	Source string
	Kind   Kind
	temp   bool
}

// Cleanup removes the temporary copy, if any.
func (f *File) Cleanup() error {
	if !f.temp {
		return nil
	}
	return os.Remove(f.Path)
}

// Detect classifies an input from its leading bytes, falling back to the
// file suffix.
func Detect(name string, sig []byte) Kind {
	switch {
	case bytes.HasPrefix(sig, gzipMagic), strings.HasSuffix(name, ".gz"):
		return Gzip
	case bytes.HasPrefix(sig, zstdMagic), strings.HasSuffix(name, ".zst"):
		return Zstd
	}
	return Plain
}

// Open prepares path for mapping. "-" spools stdin. Temporary files are
// created in dir (os.TempDir when empty); call Cleanup when done.
func Open(path, dir string) (*File, error) {
	if path == "-" {
		return spool(os.Stdin, path, dir, Stdin)
	}

	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	var sig [4]byte
	n, _ := io.ReadFull(fh, sig[:])
	if _, err := fh.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	switch kind := Detect(path, sig[:n]); kind {
	case Gzip:
		gr, err := gzip.NewReader(fh)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		defer gr.Close()
		return spool(gr, path, dir, kind)
	case Zstd:
		zr, err := zstd.NewReader(fh)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		defer zr.Close()
		return spool(zr, path, dir, kind)
	default:
		return &File{Path: path, Source: path, Kind: Plain}, nil
	}
}

func spool(r io.Reader, source, dir string, kind Kind) (*File, error) {
	tmp, err := os.CreateTemp(dir, "fastmap-*"+plainExt(source))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return nil, fmt.Errorf("spool %s: %w", source, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return nil, err
	}
	return &File{Path: tmp.Name(), Source: source, Kind: kind, temp: true}, nil
}

// plainExt keeps the format extension of "reads.fq.gz" → ".fq".
func plainExt(name string) string {
	if name == "-" {
		return ""
	}
	base := filepath.Base(name)
	for _, s := range []string{".gz", ".zst"} {
		base = strings.TrimSuffix(base, s)
	}
	return filepath.Ext(base)
}
