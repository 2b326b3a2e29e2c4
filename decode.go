package marcxml

import (
	"strings"

	"github.com/beevik/etree"
)

// DecodeRecord parses a MARCXML record from text into a Record. A whole
// collection is accepted too: decoding descends into its first record element.
// Elements are matched by local name, so both unqualified markup and markup in
// the MARC21 slim namespace decode identically.
//
// Decoding defaults rather than rejects: an absent leader decodes to the empty
// string and a missing or empty indicator attribute pads to a single space.
// Unknown tags, duplicate tags, and empty subfield values are preserved as
// found. Field and subfield order follows document order exactly.
func DecodeRecord(text string) (*Record, error) {
	doc, err := loadDocument(strings.TrimSpace(text))
	if err != nil {
		return nil, err
	}
	return decodeElement(recordElement(doc.Root())), nil
}

// recordElement descends into the first record child when the caller passed a
// whole collection; otherwise the root itself is the record.
func recordElement(root *etree.Element) *etree.Element {
	for _, child := range root.ChildElements() {
		if child.Tag == "record" {
			return child
		}
	}
	return root
}

func decodeElement(el *etree.Element) *Record {
	rec := &Record{}
	sawLeader := false
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "leader":
			if !sawLeader {
				rec.Leader = child.Text()
				sawLeader = true
			}
		case "controlfield":
			rec.Fields.Add(child.SelectAttrValue("tag", ""), ControlField{Value: child.Text()})
		case "datafield":
			df := DataField{
				Ind1: padIndicator(child.SelectAttrValue("ind1", "")),
				Ind2: padIndicator(child.SelectAttrValue("ind2", "")),
			}
			for _, sub := range child.ChildElements() {
				if sub.Tag != "subfield" {
					continue
				}
				df.Subfields = append(df.Subfields, Subfield{
					Code:  sub.SelectAttrValue("code", ""),
					Value: sub.Text(),
				})
			}
			rec.Fields.Add(child.SelectAttrValue("tag", ""), df)
		}
	}
	return rec
}

// padIndicator widens an indicator to one character, space-filling a missing
// or empty attribute.
func padIndicator(s string) string {
	if s == "" {
		return " "
	}
	return s
}
