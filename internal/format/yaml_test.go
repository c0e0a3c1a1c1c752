package format

import (
	"bytes"
	"strings"
	"testing"

	"github.com/morphcli/morph/internal/uv"
)

func TestYAMLReadPreservesKeyOrder(t *testing.T) {
	f, ok := Lookup("yaml")
	if !ok {
		t.Fatal("yaml format not registered")
	}
	recs, err := f.Reader.Read(strings.NewReader("b: 1\na: 2\n"))
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if keys := recs[0].MapKeys(); keys[0] != "b" || keys[1] != "a" {
		t.Errorf("key order = %v, want [b a]", keys)
	}
}

func TestYAMLWriteRoundTrip(t *testing.T) {
	f, _ := Lookup("yaml")
	m := uv.NewMap()
	m.MapSet("name", uv.String("ada"))
	nested := uv.NewArray(0)
	nested.ArrayAppend(uv.Int(1))
	nested.ArrayAppend(uv.Int(2))
	m.MapSet("nums", nested)

	var buf bytes.Buffer
	if err := f.Writer.Write(&buf, []*uv.Value{m}); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	recs, err := f.Reader.Read(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("round-trip Read returned error: %v", err)
	}
	if recs[0].MapGet("name").StringValue() != "ada" {
		t.Errorf("name = %v, want ada", recs[0].MapGet("name"))
	}
	if recs[0].MapGet("nums").ArrayLen() != 2 {
		t.Errorf("nums length = %d, want 2", recs[0].MapGet("nums").ArrayLen())
	}
}

func TestYAMLEmptyDocumentDecodesToNull(t *testing.T) {
	f, _ := Lookup("yaml")
	recs, err := f.Reader.Read(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if len(recs) != 1 || !recs[0].IsNull() {
		t.Errorf("empty YAML document should decode to a single null record, got %+v", recs)
	}
}
