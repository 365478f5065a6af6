// Package compress opens dump inputs, decompressing bzip2, gzip and zstd
// streams and counting the compressed bytes consumed.
package compress

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"sync/atomic"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	wikidump "github.com/llamasoft/WikiDump"
)

// Format identifies the compression of an input stream.
type Format string

const (
	FormatNone  Format = "none"
	FormatBzip2 Format = "bzip2"
	FormatGzip  Format = "gzip"
	FormatZstd  Format = "zstd"
)

var (
	bzip2Magic = []byte("BZh")
	gzipMagic  = []byte{0x1f, 0x8b}
	zstdMagic  = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Stdin is the path that selects standard input.
const Stdin = "-"

// Input is a decompressed view of a dump file.
// BytesRead and Size count compressed bytes, so their ratio tracks progress
// through the file whatever the compression.
type Input struct {
	r       io.Reader
	counter *countingReader
	closers []func() error
	size    int64
	format  Format
}

// Open opens the file at path, or standard input if path is "-".
// Returns ENOTFOUND if the file does not exist.
func Open(path string) (*Input, error) {
	if path == Stdin {
		return NewInput(os.Stdin, 0)
	}

	f, err := os.Open(path)
	if errors.Is(err, iofs.ErrNotExist) {
		return nil, wikidump.Errorf(wikidump.ENOTFOUND, "input not found: %s", path)
	} else if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}

	var size int64
	if fi, err := f.Stat(); err == nil && fi.Mode().IsRegular() {
		size = fi.Size()
	}

	in, err := NewInput(f, size)
	if err != nil {
		f.Close()
		return nil, err
	}
	in.closers = append(in.closers, f.Close)
	return in, nil
}

// NewInput wraps r, detecting its compression from the leading magic bytes.
// size is the compressed size of r, or 0 if unknown. Closing the Input does
// not close r.
func NewInput(r io.Reader, size int64) (*Input, error) {
	counter := &countingReader{r: r}
	br := bufio.NewReaderSize(counter, 64*1024)
	in := &Input{counter: counter, size: size, format: sniff(br)}

	switch in.format {
	case FormatBzip2:
		in.r = bzip2.NewReader(br)
	case FormatGzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, wikidump.Errorf(wikidump.EINVALID, "invalid gzip input: %v", err)
		}
		in.r = zr
		in.closers = append(in.closers, zr.Close)
	case FormatZstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, wikidump.Errorf(wikidump.EINVALID, "invalid zstd input: %v", err)
		}
		in.r = zr
		in.closers = append(in.closers, func() error { zr.Close(); return nil })
	default:
		in.r = br
	}
	return in, nil
}

// sniff peeks at the start of r to identify its compression.
func sniff(r *bufio.Reader) Format {
	head, _ := r.Peek(len(zstdMagic))
	switch {
	case bytes.HasPrefix(head, bzip2Magic):
		return FormatBzip2
	case bytes.HasPrefix(head, gzipMagic):
		return FormatGzip
	case bytes.HasPrefix(head, zstdMagic):
		return FormatZstd
	default:
		return FormatNone
	}
}

// Read reads decompressed bytes.
func (in *Input) Read(p []byte) (int, error) {
	return in.r.Read(p)
}

// Size returns the compressed input size, or 0 if unknown.
func (in *Input) Size() int64 {
	return in.size
}

// BytesRead returns the number of compressed bytes consumed so far.
// It is safe to call from any goroutine.
func (in *Input) BytesRead() int64 {
	return in.counter.n.Load()
}

// Format returns the detected compression.
func (in *Input) Format() Format {
	return in.format
}

// Close releases the decompressor and the underlying file, innermost first.
func (in *Input) Close() error {
	var errs []error
	for i := len(in.closers) - 1; i >= 0; i-- {
		if err := in.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	in.closers = nil
	return errors.Join(errs...)
}

// countingReader counts the bytes read through it.
type countingReader struct {
	r io.Reader
	n atomic.Int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n.Add(int64(n))
	return n, err
}
