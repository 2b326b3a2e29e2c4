package marcxml

import (
	"strings"

	"github.com/beevik/etree"
)

// SplitCollection parses a MARCXML collection and returns the standalone XML
// text of every record child of the root, in document order. The whole
// document is already resident after parsing, so the result is materialized
// eagerly; use CollectionReader to stream files too large to parse whole.
func SplitCollection(text string) ([]string, error) {
	doc, err := loadDocument(strings.TrimSpace(text))
	if err != nil {
		return nil, err
	}
	var records []string
	for _, child := range doc.Root().ChildElements() {
		if child.Tag != "record" {
			continue
		}
		one := etree.NewDocument()
		one.SetRoot(child.Copy())
		s, err := one.WriteToString()
		if err != nil {
			return nil, err
		}
		records = append(records, s)
	}
	return records, nil
}
