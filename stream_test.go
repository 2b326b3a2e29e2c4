package marcxml

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// drainReader collects record fragments until the EOF sentinel.
func drainReader(t *testing.T, r *CollectionReader) []string {
	t.Helper()
	var frags []string
	for {
		frag, err := r.NextRecord()
		if err != nil {
			t.Fatalf("NextRecord: %v", err)
		}
		if frag == "" {
			return frags
		}
		frags = append(frags, frag)
	}
}

func TestCollectionReader_StreamsAllRecords(t *testing.T) {
	path := writeTempFile(t, "coll.xml", sampleCollectionXML)
	r := NewCollectionReader(WithLogger(zaptest.NewLogger(t)))
	if err := r.Open(path); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	frags := drainReader(t, r)
	if len(frags) != 3 {
		t.Fatalf("got %d records, want 3", len(frags))
	}

	// EOF sentinel is stable across repeated calls.
	for i := 0; i < 2; i++ {
		frag, err := r.NextRecord()
		if err != nil || frag != "" {
			t.Fatalf("post-EOF NextRecord = (%q, %v), want empty sentinel", frag, err)
		}
	}

	if err := r.Rewind(); err != nil {
		t.Fatalf("Rewind: %v", err)
	}
	again := drainReader(t, r)
	if !reflect.DeepEqual(frags, again) {
		t.Errorf("rewound sequence differs\nfirst: %q\nagain: %q", frags, again)
	}
}

func TestCollectionReader_FragmentsAreVerbatim(t *testing.T) {
	path := writeTempFile(t, "coll.xml", sampleCollectionXML)
	r := NewCollectionReader()
	if err := r.Open(path); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	for i, frag := range drainReader(t, r) {
		if !strings.Contains(sampleCollectionXML, frag) {
			t.Errorf("fragment %d is not a verbatim slice of the source:\n%s", i, frag)
		}
		if !strings.HasPrefix(frag, "<record>") || !strings.HasSuffix(frag, "</record>") {
			t.Errorf("fragment %d is not a complete record element:\n%s", i, frag)
		}
	}
}

func TestCollectionReader_MatchesSplitCollection(t *testing.T) {
	path := writeTempFile(t, "coll.xml", sampleCollectionXML)
	split, err := SplitCollection(sampleCollectionXML)
	if err != nil {
		t.Fatalf("SplitCollection: %v", err)
	}

	r := NewCollectionReader()
	if err := r.Open(path); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()
	streamed := drainReader(t, r)

	if len(streamed) != len(split) {
		t.Fatalf("streamed %d records, split %d", len(streamed), len(split))
	}
	for i := range streamed {
		want := mustDecode(t, split[i])
		got := mustDecode(t, streamed[i])
		if !reflect.DeepEqual(want, got) {
			t.Errorf("record %d differs\nsplit:    %#v\nstreamed: %#v", i, want, got)
		}
	}
}

func TestCollectionReader_CompressedInputs(t *testing.T) {
	for _, ext := range []string{".gz", ".zst", ".lz4", ".br"} {
		t.Run(ext, func(t *testing.T) {
			path := writeCompressedFile(t, filepath.Join(t.TempDir(), "coll.xml"+ext), sampleCollectionXML)
			r := NewCollectionReader()
			if err := r.Open(path); err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer r.Close()
			frags := drainReader(t, r)
			if len(frags) != 3 {
				t.Fatalf("got %d records, want 3", len(frags))
			}
			rec := mustDecode(t, frags[0])
			if got := rec.Fields.Get("001"); !reflect.DeepEqual(got, []Field{ControlField{Value: "rec1"}}) {
				t.Errorf("first record 001 = %#v", got)
			}
		})
	}
}

func TestCollectionReader_NamespaceTolerance(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want int
	}{
		{
			name: "unqualified",
			doc:  `<collection><record><controlfield tag="001">A</controlfield></record></collection>`,
			want: 1,
		},
		{
			name: "default MARC21 namespace",
			doc:  `<collection xmlns="http://www.loc.gov/MARC21/slim"><record/><record/></collection>`,
			want: 2,
		},
		{
			name: "prefixed MARC21 namespace",
			doc:  `<marc:collection xmlns:marc="http://www.loc.gov/MARC21/slim"><marc:record/></marc:collection>`,
			want: 1,
		},
		{
			name: "foreign namespace not matched",
			doc:  `<collection><record xmlns="http://example.com/other"/></collection>`,
			want: 0,
		},
		{
			name: "record nested one level deeper not matched",
			doc:  `<collection xmlns="http://www.loc.gov/MARC21/slim"><wrapper><record/></wrapper></collection>`,
			want: 0,
		},
		{
			name: "root other than collection not matched",
			doc:  `<records><record/></records>`,
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempFile(t, "coll.xml", tt.doc)
			r := NewCollectionReader()
			if err := r.Open(path); err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer r.Close()
			if got := drainReader(t, r); len(got) != tt.want {
				t.Errorf("got %d records, want %d: %q", len(got), tt.want, got)
			}
		})
	}
}

func TestCollectionReader_NotOpen(t *testing.T) {
	r := NewCollectionReader()
	if _, err := r.NextRecord(); !errors.Is(err, ErrNotOpen) {
		t.Errorf("NextRecord err = %v, want ErrNotOpen", err)
	}
	if err := r.Rewind(); !errors.Is(err, ErrNotOpen) {
		t.Errorf("Rewind err = %v, want ErrNotOpen", err)
	}
}

func TestCollectionReader_OpenMissingFile(t *testing.T) {
	r := NewCollectionReader()
	if err := r.Open(filepath.Join(t.TempDir(), "nope.xml")); err == nil {
		t.Fatal("expected error")
	}
	// A failed open leaves the reader unopened.
	if _, err := r.NextRecord(); !errors.Is(err, ErrNotOpen) {
		t.Errorf("NextRecord err = %v, want ErrNotOpen", err)
	}
}

func TestCollectionReader_RecordTooLarge(t *testing.T) {
	huge := `<collection><record><datafield tag="520" ind1=" " ind2=" "><subfield code="a">` +
		strings.Repeat("x", 20000) +
		`</subfield></datafield></record></collection>`
	path := writeTempFile(t, "coll.xml", huge)
	r := NewCollectionReader(WithMaxRecordBytes(512))
	if err := r.Open(path); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()
	if _, err := r.NextRecord(); !errors.Is(err, ErrRecordTooLarge) {
		t.Errorf("NextRecord err = %v, want ErrRecordTooLarge", err)
	}
}

func TestCollectionReader_MalformedStream(t *testing.T) {
	path := writeTempFile(t, "coll.xml", `<collection><record><leader>x</leader></record>`)
	r := NewCollectionReader()
	if err := r.Open(path); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	frag, err := r.NextRecord()
	if err != nil || frag == "" {
		t.Fatalf("first NextRecord = (%q, %v), want one record", frag, err)
	}
	_, err = r.NextRecord()
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError for truncated stream, got %T: %v", err, err)
	}
	if pe.Diagnostics[0].Line <= 0 {
		t.Errorf("diagnostic line = %d, want > 0", pe.Diagnostics[0].Line)
	}
}

func TestCollectionReader_CloseAndReopen(t *testing.T) {
	path := writeTempFile(t, "coll.xml", sampleCollectionXML)
	r := NewCollectionReader()
	if err := r.Open(path); err != nil {
		t.Fatalf("Open: %v", err)
	}
	first := drainReader(t, r)

	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if _, err := r.NextRecord(); !errors.Is(err, ErrNotOpen) {
		t.Errorf("NextRecord after Close err = %v, want ErrNotOpen", err)
	}

	// Rewind reopens the last path even after Close.
	if err := r.Rewind(); err != nil {
		t.Fatalf("Rewind after Close: %v", err)
	}
	defer r.Close()
	if again := drainReader(t, r); !reflect.DeepEqual(first, again) {
		t.Errorf("sequence after rewind differs")
	}
}

func TestCollectionReader_ReopenReplacesCursor(t *testing.T) {
	pathA := writeTempFile(t, "a.xml", `<collection><record><controlfield tag="001">a1</controlfield></record><record><controlfield tag="001">a2</controlfield></record></collection>`)
	pathB := writeTempFile(t, "b.xml", `<collection><record><controlfield tag="001">b1</controlfield></record></collection>`)

	r := NewCollectionReader()
	if err := r.Open(pathA); err != nil {
		t.Fatalf("Open A: %v", err)
	}
	if frag, err := r.NextRecord(); err != nil || !strings.Contains(frag, "a1") {
		t.Fatalf("first record from A = (%q, %v)", frag, err)
	}

	if err := r.Open(pathB); err != nil {
		t.Fatalf("Open B: %v", err)
	}
	defer r.Close()
	frag, err := r.NextRecord()
	if err != nil || !strings.Contains(frag, "b1") {
		t.Fatalf("first record from B = (%q, %v)", frag, err)
	}
}
