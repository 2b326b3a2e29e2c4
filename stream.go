package marcxml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// CollectionReader is a stateful, forward-only cursor over a MARCXML
// collection file. It never materializes the document tree: records are
// located by scanning the raw XML token stream and returned as verbatim text
// fragments, so collections of any size stream in bounded memory — the reader
// retains at most one record's worth of bytes plus decoder read-ahead.
//
// A reader owns at most one open file at a time and is not safe for
// concurrent use without external locking. Lifecycle: Open, NextRecord*,
// Rewind or Close.
type CollectionReader struct {
	cfg   readerConfig
	path  string
	src   io.ReadCloser
	tail  *tailBuffer
	dec   *xml.Decoder
	stack []string
}

// NewCollectionReader returns an unopened reader. Call Open before NextRecord
// or Rewind.
func NewCollectionReader(opts ...ReaderOption) *CollectionReader {
	cfg := defaultReaderConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &CollectionReader{cfg: cfg}
}

// Open starts streaming the collection file at path from the beginning,
// replacing any cursor already open. Compressed dumps (.gz, .zst, .lz4, .br)
// are opened through the matching decompressor. On failure the reader keeps
// its previous state and no new handle is left dangling.
func (r *CollectionReader) Open(path string) error {
	src, err := openCollectionFile(path)
	if err != nil {
		return err
	}
	if r.src != nil {
		if cerr := r.src.Close(); cerr != nil {
			src.Close()
			return cerr
		}
	}
	r.path = path
	r.src = src
	r.tail = &tailBuffer{src: src, max: r.cfg.maxRecordBytes}
	r.dec = xml.NewDecoder(r.tail)
	r.stack = r.stack[:0]
	r.cfg.log.Debug("opened marcxml collection", zap.String("path", path))
	return nil
}

// Rewind restarts the stream from the beginning of the most recently opened
// file. It fails with ErrNotOpen if the reader has never been opened.
func (r *CollectionReader) Rewind() error {
	if r.path == "" {
		return ErrNotOpen
	}
	r.cfg.log.Debug("rewinding marcxml collection", zap.String("path", r.path))
	return r.Open(r.path)
}

// Close releases the underlying file handle. It is safe to call on an
// unopened or already closed reader, and the reader may be re-opened or
// rewound afterwards.
func (r *CollectionReader) Close() error {
	if r.src == nil {
		return nil
	}
	err := r.src.Close()
	r.src = nil
	r.tail = nil
	r.dec = nil
	r.stack = nil
	return err
}

// NextRecord returns the verbatim outer XML (open tag through matching close
// tag, descendants included) of the next record element whose ancestor path
// is exactly /collection/record and whose namespace is either absent or the
// MARC21 slim namespace. It returns "" with a nil error once the stream is
// exhausted; callers must treat the empty string as end-of-stream, not as a
// malformed record. Calling NextRecord on a reader that was never opened, or
// that has been closed, fails with ErrNotOpen.
func (r *CollectionReader) NextRecord() (string, error) {
	if r.dec == nil {
		return "", ErrNotOpen
	}
	for {
		start := r.dec.InputOffset()
		r.tail.discard(start)
		tok, err := r.dec.Token()
		if err == io.EOF {
			return "", nil
		}
		if err != nil {
			return "", r.streamError(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if r.isRecordStart(t) {
				if err := r.dec.Skip(); err != nil {
					return "", r.streamError(err)
				}
				end := r.dec.InputOffset()
				raw := string(r.tail.slice(start, end))
				r.tail.discard(end)
				r.cfg.log.Debug("yielded record", zap.Int("bytes", len(raw)))
				return raw, nil
			}
			r.stack = append(r.stack, t.Name.Local)
		case xml.EndElement:
			if n := len(r.stack); n > 0 {
				r.stack = r.stack[:n-1]
			}
		}
		// Text, comments, processing instructions, and directives neither
		// update the path nor match.
	}
}

// isRecordStart reports whether t opens a record element directly under the
// collection root, unqualified or in the MARC21 namespace. A record nested
// any deeper, or in a foreign namespace, is not a match.
func (r *CollectionReader) isRecordStart(t xml.StartElement) bool {
	if t.Name.Local != "record" {
		return false
	}
	if len(r.stack) != 1 || r.stack[0] != "collection" {
		return false
	}
	return t.Name.Space == "" || t.Name.Space == Namespace
}

// streamError maps a decoder failure onto the package error taxonomy.
func (r *CollectionReader) streamError(err error) error {
	if errors.Is(err, errTailLimit) {
		return fmt.Errorf("%w: limit %d bytes", ErrRecordTooLarge, r.cfg.maxRecordBytes)
	}
	var syn *xml.SyntaxError
	if errors.As(err, &syn) {
		return &ParseError{Diagnostics: []Diagnostic{{Line: syn.Line, Message: syn.Msg}}}
	}
	return fmt.Errorf("marcxml: read collection: %w", err)
}

var errTailLimit = errors.New("marcxml: tail buffer limit exceeded")

// tailBuffer feeds the XML decoder from src while retaining every byte read
// since the last discard, so a matched element can be handed back verbatim
// without re-reading the file or buffering all of it.
type tailBuffer struct {
	src  io.Reader
	base int64 // stream offset of buf[0]
	buf  []byte
	max  int64
}

func (t *tailBuffer) Read(p []byte) (int, error) {
	if t.max > 0 && int64(len(t.buf)) > t.max {
		return 0, errTailLimit
	}
	n, err := t.src.Read(p)
	if n > 0 {
		t.buf = append(t.buf, p[:n]...)
	}
	return n, err
}

// slice returns the bytes between stream offsets from and to. Both offsets
// must lie at or after the last discard and at or before the read position.
func (t *tailBuffer) slice(from, to int64) []byte {
	return t.buf[from-t.base : to-t.base]
}

// discard drops retained bytes before stream offset off. Offsets at or before
// the current base are a no-op, so callers may discard on every token.
func (t *tailBuffer) discard(off int64) {
	if off <= t.base {
		return
	}
	n := off - t.base
	if n > int64(len(t.buf)) {
		n = int64(len(t.buf))
	}
	t.buf = append(t.buf[:0], t.buf[n:]...)
	t.base = off
}
