package marcxml

import (
	"fmt"

	"github.com/beevik/etree"
)

// EncodeRecord serializes rec as a pretty-printed MARCXML document: a
// single-record collection in the MARC21 slim namespace with a UTF-8 prolog.
// Encode always produces the collection wrapper even though DecodeRecord
// accepts a bare record; external consumers depend on that output shape.
//
// Two deliberate asymmetries with DecodeRecord:
//   - an empty leader is omitted rather than written as an empty element, and
//     decodes back to the empty string (a stable fixpoint), and
//   - subfields whose value is empty are silently dropped.
//
// Everything else round-trips unchanged, in field-table order.
func EncodeRecord(rec *Record) (string, error) {
	if rec == nil {
		return "", fmt.Errorf("marcxml: encode: record is nil")
	}
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)
	coll := doc.CreateElement("collection")
	coll.CreateAttr("xmlns", Namespace)
	el := coll.CreateElement("record")

	if rec.Leader != "" {
		el.CreateElement("leader").SetText(rec.Leader)
	}
	for _, tag := range rec.Fields.Tags() {
		for _, f := range rec.Fields.Get(tag) {
			switch f := f.(type) {
			case ControlField:
				cf := el.CreateElement("controlfield")
				cf.CreateAttr("tag", tag)
				cf.SetText(f.Value)
			case DataField:
				dfEl := el.CreateElement("datafield")
				dfEl.CreateAttr("tag", tag)
				dfEl.CreateAttr("ind1", f.Ind1)
				dfEl.CreateAttr("ind2", f.Ind2)
				for _, sf := range f.Subfields {
					if sf.Value == "" {
						continue
					}
					sfEl := dfEl.CreateElement("subfield")
					sfEl.CreateAttr("code", sf.Code)
					sfEl.SetText(sf.Value)
				}
			default:
				return "", fmt.Errorf("marcxml: encode: unsupported field type %T under tag %q", f, tag)
			}
		}
	}

	doc.Indent(2)
	return doc.WriteToString()
}
