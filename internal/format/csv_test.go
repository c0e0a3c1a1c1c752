package format

import (
	"bytes"
	"strings"
	"testing"

	"github.com/morphcli/morph/internal/uv"
)

func TestCSVReadProducesOneMapPerRow(t *testing.T) {
	f, ok := Lookup("csv")
	if !ok {
		t.Fatal("csv format not registered")
	}
	input := "name,age\nada,30\nalan,25\n"
	recs, err := f.Reader.Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0].MapGet("name").StringValue() != "ada" || recs[0].MapGet("age").StringValue() != "30" {
		t.Errorf("record 0 = %+v, want name=ada age=30", recs[0])
	}
}

func TestCSVFieldsDecodeAsString(t *testing.T) {
	f, _ := Lookup("csv")
	recs, err := f.Reader.Read(strings.NewReader("n\n42\n"))
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if recs[0].MapGet("n").Kind() != uv.KindString {
		t.Error("CSV fields should decode as strings; cast converts them")
	}
}

func TestCSVWriteUsesUnionOfKeysInFirstSeenOrder(t *testing.T) {
	f, _ := Lookup("csv")
	m1 := uv.NewMap()
	m1.MapSet("a", uv.String("1"))
	m2 := uv.NewMap()
	m2.MapSet("b", uv.String("2"))
	m2.MapSet("a", uv.String("3"))

	var buf bytes.Buffer
	if err := f.Writer.Write(&buf, []*uv.Value{m1, m2}); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[0] != "a,b" {
		t.Errorf("header = %q, want a,b (first-seen order)", lines[0])
	}
}

func TestTSVUsesTabDelimiter(t *testing.T) {
	f, ok := Lookup("tsv")
	if !ok {
		t.Fatal("tsv format not registered")
	}
	recs, err := f.Reader.Read(strings.NewReader("a\tb\n1\t2\n"))
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if recs[0].MapGet("a").StringValue() != "1" || recs[0].MapGet("b").StringValue() != "2" {
		t.Errorf("record = %+v, want a=1 b=2", recs[0])
	}
}

func TestCSVWriteRejectsNonMapRecords(t *testing.T) {
	f, _ := Lookup("csv")
	var buf bytes.Buffer
	if err := f.Writer.Write(&buf, []*uv.Value{uv.Int(1)}); err == nil {
		t.Error("csv writer should reject non-map records")
	}
}

func TestCSVReadOfEmptyInputReturnsNoRecords(t *testing.T) {
	f, _ := Lookup("csv")
	recs, err := f.Reader.Read(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("got %d records for empty input, want 0", len(recs))
	}
}
