package marcxml

// Namespace is the MARC21 slim XML namespace.
const Namespace = "http://www.loc.gov/MARC21/slim"

// Record is a decoded MARC21 record: a leader plus an ordered field table.
// Leader may be empty when the source document carries no leader element.
// A Record is a plain value; it owns no external resources.
type Record struct {
	Leader string
	Fields FieldTable
}

// Field is one occurrence of a MARC field, either a ControlField or a
// DataField.
type Field interface {
	isField()
}

// ControlField holds the unstructured value of a control field (tags 001-009).
type ControlField struct {
	Value string
}

// DataField holds two one-character indicators and an ordered list of
// subfields. Subfield codes may repeat.
type DataField struct {
	Ind1      string
	Ind2      string
	Subfields []Subfield
}

// Subfield is a (code, value) pair within a data field.
type Subfield struct {
	Code  string
	Value string
}

func (ControlField) isField() {}
func (DataField) isField() {}

// FieldTable maps 3-character tags to their field occurrences. It preserves
// the insertion order of tags and the order of occurrences within a tag; a
// tag with zero occurrences never appears. The zero value is ready to use.
type FieldTable struct {
	tags    []string
	entries map[string][]Field
}

// Add appends f under tag, registering the tag on first use.
func (t *FieldTable) Add(tag string, f Field) {
	if t.entries == nil {
		t.entries = make(map[string][]Field)
	}
	if _, ok := t.entries[tag]; !ok {
		t.tags = append(t.tags, tag)
	}
	t.entries[tag] = append(t.entries[tag], f)
}

// Tags returns the tags in insertion order. The returned slice is shared;
// callers must not modify it.
func (t *FieldTable) Tags() []string {
	return t.tags
}

// Get returns the occurrences recorded under tag, in insertion order, or nil
// if the tag is absent.
func (t *FieldTable) Get(tag string) []Field {
	return t.entries[tag]
}

// Len returns the number of distinct tags.
func (t *FieldTable) Len() int {
	return len(t.tags)
}
