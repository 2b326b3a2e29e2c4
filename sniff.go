package marcxml

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// probeBytes bounds how much of each line CanParseCollectionFile inspects.
const probeBytes = 16

// CanParse reports whether text looks like MARCXML: the first non-whitespace
// byte is '<'. This is a cheap gate for format dispatch, not a validating
// parse; false positives are resolved by DecodeRecord.
func CanParse(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "<")
}

// CanParseCollection reports whether text looks like a MARCXML collection.
// The heuristic is the same as CanParse.
func CanParseCollection(text string) bool {
	return CanParse(text)
}

// CanParseCollectionFile applies CanParseCollection to the first non-blank
// line of the file at path, reading only a few bytes per line so arbitrarily
// large dumps probe in constant time. Compressed dumps (.gz, .zst, .lz4, .br)
// are probed through the matching decompressor. A file of only blank lines
// probes false; a file that cannot be opened or read is an error.
func CanParseCollectionFile(path string) (bool, error) {
	rc, err := openCollectionFile(path)
	if err != nil {
		return false, err
	}
	defer rc.Close()

	br := bufio.NewReader(rc)
	for {
		chunk, err := probeLine(br)
		if strings.TrimSpace(chunk) != "" {
			return CanParseCollection(chunk), nil
		}
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
	}
}

// probeLine reads at most probeBytes of the next line. A line longer than the
// bound is consumed in bounded chunks by successive calls.
func probeLine(br *bufio.Reader) (string, error) {
	var b strings.Builder
	for b.Len() < probeBytes {
		c, err := br.ReadByte()
		if err != nil {
			return b.String(), err
		}
		if c == '\n' {
			break
		}
		b.WriteByte(c)
	}
	return b.String(), nil
}
