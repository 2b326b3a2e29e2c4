package marcxml

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/beevik/etree"
)

const utf8Prolog = `<?xml version="1.0" encoding="utf-8"?>`

// normalizeProlog guarantees the parser always receives an explicit UTF-8
// declaration: an existing prolog lacking an encoding attribute gets one
// inserted, and text with no prolog at all gets a fresh one prepended.
func normalizeProlog(text string) string {
	if strings.HasPrefix(text, "<?xml version") {
		end := strings.Index(text, "?>")
		if end >= 0 && !strings.Contains(text[:end], "encoding") {
			return text[:end] + ` encoding="utf-8"` + text[end:]
		}
		return text
	}
	return utf8Prolog + "\n" + text
}

// loadDocument normalizes the prolog and parses text into a navigable tree.
// On failure it returns a *ParseError carrying line/column diagnostics and no
// partial tree.
func loadDocument(text string) (*etree.Document, error) {
	normalized := normalizeProlog(text)
	doc := etree.NewDocument()
	if err := doc.ReadFromString(normalized); err != nil {
		return nil, &ParseError{Diagnostics: diagnose(normalized, err)}
	}
	if doc.Root() == nil {
		return nil, &ParseError{Diagnostics: []Diagnostic{{Line: 1, Column: 1, Message: "no root element"}}}
	}
	return doc, nil
}

// diagnose re-scans text token by token to attribute the parse failure to a
// line and column. parseErr is the fallback when the scan does not reproduce
// the failure.
func diagnose(text string, parseErr error) []Diagnostic {
	dec := xml.NewDecoder(strings.NewReader(text))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			line, col := position(text, dec.InputOffset())
			return []Diagnostic{{Line: line, Column: col, Message: err.Error()}}
		}
	}
	return []Diagnostic{{Line: 1, Column: 1, Message: parseErr.Error()}}
}

// position converts a byte offset into 1-based line and column numbers.
func position(text string, offset int64) (line, col int) {
	if offset > int64(len(text)) {
		offset = int64(len(text))
	}
	head := text[:offset]
	line = 1 + strings.Count(head, "\n")
	if i := strings.LastIndexByte(head, '\n'); i >= 0 {
		return line, len(head) - i
	}
	return line, len(head) + 1
}
