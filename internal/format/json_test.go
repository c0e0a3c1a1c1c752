package format

import (
	"bytes"
	"strings"
	"testing"

	"github.com/morphcli/morph/internal/uv"
)

func TestJSONReadPreservesKeyOrderAndNumberKinds(t *testing.T) {
	f, ok := Lookup("json")
	if !ok {
		t.Fatal("json format not registered")
	}
	recs, err := f.Reader.Read(strings.NewReader(`{"b": 1, "a": 2.5, "c": "x"}`))
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	root := recs[0]
	if keys := root.MapKeys(); keys[0] != "b" || keys[1] != "a" || keys[2] != "c" {
		t.Errorf("key order = %v, want [b a c]", keys)
	}
	if root.MapGet("b").Kind() != uv.KindInt {
		t.Error("integral JSON number should decode as Int")
	}
	if root.MapGet("a").Kind() != uv.KindFloat {
		t.Error("fractional JSON number should decode as Float")
	}
}

func TestJSONWriteRoundTrip(t *testing.T) {
	f, _ := Lookup("json")
	m := uv.NewMap()
	m.MapSet("name", uv.String("ada"))
	m.MapSet("count", uv.Int(3))

	var buf bytes.Buffer
	if err := f.Writer.Write(&buf, []*uv.Value{m}); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	recs, err := f.Reader.Read(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("round-trip Read returned error: %v", err)
	}
	if recs[0].MapGet("name").StringValue() != "ada" || recs[0].MapGet("count").IntValue() != 3 {
		t.Errorf("round trip = %+v, want name=ada count=3", recs[0])
	}
}

func TestJSONLinesReadsOneRecordPerLine(t *testing.T) {
	f, ok := Lookup("jsonlines")
	if !ok {
		t.Fatal("jsonlines format not registered")
	}
	input := "{\"a\":1}\n{\"a\":2}\n"
	recs, err := f.Reader.Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0].MapGet("a").IntValue() != 1 || recs[1].MapGet("a").IntValue() != 2 {
		t.Errorf("records = %+v, want a=1 then a=2", recs)
	}
}

func TestJSONLinesWriteEmitsOneLinePerRecord(t *testing.T) {
	f, _ := Lookup("jsonlines")
	m1 := uv.NewMap()
	m1.MapSet("a", uv.Int(1))
	m2 := uv.NewMap()
	m2.MapSet("a", uv.Int(2))

	var buf bytes.Buffer
	if err := f.Writer.Write(&buf, []*uv.Value{m1, m2}); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
}

func TestJSONWriteWrapsMultipleRecordsInArray(t *testing.T) {
	f, _ := Lookup("json")
	var buf bytes.Buffer
	if err := f.Writer.Write(&buf, []*uv.Value{uv.Int(1), uv.Int(2)}); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	got := strings.Join(strings.Fields(buf.String()), "")
	if got != "[1,2]" {
		t.Errorf("Write(multiple records) = %q, want a JSON array of [1,2]", buf.String())
	}
}

func TestJSONReadSplitsTopLevelArrayIntoRecords(t *testing.T) {
	f, _ := Lookup("json")
	recs, err := f.Reader.Read(strings.NewReader(`[{"n":1},{"n":2}]`))
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0].MapGet("n").IntValue() != 1 || recs[1].MapGet("n").IntValue() != 2 {
		t.Errorf("records = %+v, want n=1 then n=2", recs)
	}
}

func TestLookupExtension(t *testing.T) {
	f, ok := LookupExtension(".json")
	if !ok || f.Name != "json" {
		t.Errorf("LookupExtension(.json) = %v, want json format", f)
	}
	if _, ok := LookupExtension(".nope"); ok {
		t.Error("LookupExtension(.nope) should not resolve")
	}
}
