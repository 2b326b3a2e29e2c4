package marcxml

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotOpen is returned by Rewind and NextRecord when the reader has
	// never been opened.
	ErrNotOpen = errors.New("marcxml: no collection file open")
	// ErrRecordTooLarge is returned by NextRecord when a single record
	// exceeds the reader's configured byte limit.
	ErrRecordTooLarge = errors.New("marcxml: record exceeds size limit")
)

// Diagnostic is one well-formedness problem reported by the XML parser.
// Line and Column are 1-based.
type Diagnostic struct {
	Line    int
	Column  int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s", d.Line, d.Column, d.Message)
}

// ParseError aggregates the well-formedness diagnostics of a failed parse.
// No partial document is ever returned alongside it. Match with errors.As.
type ParseError struct {
	Diagnostics []Diagnostic
}

func (e *ParseError) Error() string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = d.String()
	}
	return "marcxml: malformed document: " + strings.Join(msgs, "; ")
}
