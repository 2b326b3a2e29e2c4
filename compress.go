package marcxml

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// openCollectionFile opens path for reading, transparently wrapping known
// compressed dump formats based on the file extension. Unknown extensions are
// read as plain text. On any failure the underlying file handle is closed
// before returning, so a failed open never leaks.
func openCollectionFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("marcxml: open %s: %w", path, err)
		}
		return &layeredReadCloser{r: zr, closers: []io.Closer{zr, f}}, nil
	case ".zst", ".zstd":
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("marcxml: open %s: %w", path, err)
		}
		closeDecoder := closerFunc(func() error { zr.Close(); return nil })
		return &layeredReadCloser{r: zr, closers: []io.Closer{closeDecoder, f}}, nil
	case ".lz4":
		return &layeredReadCloser{r: lz4.NewReader(f), closers: []io.Closer{f}}, nil
	case ".br":
		return &layeredReadCloser{r: brotli.NewReader(f), closers: []io.Closer{f}}, nil
	default:
		return f, nil
	}
}

// layeredReadCloser reads through a decompressor and closes every layer down
// to the file handle.
type layeredReadCloser struct {
	r       io.Reader
	closers []io.Closer
}

func (l *layeredReadCloser) Read(p []byte) (int, error) {
	return l.r.Read(p)
}

// Close closes all layers and reports the first failure.
func (l *layeredReadCloser) Close() error {
	var first error
	for _, c := range l.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
