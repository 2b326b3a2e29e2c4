// Package marcxml implements a codec between MARC21 bibliographic records and
// the MARCXML wire format (the Library of Congress MARC21 slim schema).
//
// # Overview
//
// The package covers four concerns:
//   - Detection: CanParse, CanParseCollection, and CanParseCollectionFile are
//     cheap heuristics a format dispatcher can use to pick this codec among
//     alternatives. They never validate; the decode functions are the authority.
//   - Decoding: DecodeRecord parses a single record, or the first record of a
//     collection, into a Record value that preserves field and subfield order.
//   - Encoding: EncodeRecord serializes a Record as a pretty-printed,
//     one-record collection document in the MARC21 slim namespace.
//   - Streaming: CollectionReader walks a collection file record by record in
//     bounded memory, returning each record's verbatim XML fragment. Plain and
//     compressed (.gz, .zst, .lz4, .br) dumps are supported, so multi-gigabyte
//     collections stream without temporary files.
//
// # Basic Usage
//
// To decode and re-encode a record:
//
//	rec, err := marcxml.DecodeRecord(xmlText)
//	if err != nil {
//		return err
//	}
//	out, err := marcxml.EncodeRecord(rec)
//
// To stream a collection file:
//
//	r := marcxml.NewCollectionReader()
//	if err := r.Open("catalog.xml.gz"); err != nil {
//		return err
//	}
//	defer r.Close()
//	for {
//		frag, err := r.NextRecord()
//		if err != nil {
//			return err
//		}
//		if frag == "" {
//			break // end of stream
//		}
//		rec, err := marcxml.DecodeRecord(frag)
//		...
//	}
//
// # Fidelity
//
// Decoding never validates MARC semantics: unknown tags, duplicate tags, and
// empty subfield values are preserved as found, missing leaders decode to the
// empty string, and missing indicators pad to a single space. Encoding drops
// subfields whose value is empty and omits an empty leader; everything else
// round-trips through DecodeRecord unchanged.
package marcxml
