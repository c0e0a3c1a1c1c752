package uvpath

import "testing"

func TestParseFieldChain(t *testing.T) {
	p, err := Parse(".a.b.c")
	if err != nil {
		t.Fatalf("Parse(.a.b.c) returned error: %v", err)
	}
	if len(p.Segments) != 3 {
		t.Fatalf("Parse(.a.b.c) = %d segments, want 3", len(p.Segments))
	}
	for i, want := range []string{"a", "b", "c"} {
		if p.Segments[i].Kind != SegField || p.Segments[i].Field != want {
			t.Errorf("segment %d = %+v, want field %q", i, p.Segments[i], want)
		}
	}
}

func TestParseIndexAndWildcard(t *testing.T) {
	p, err := Parse(".items[0].tags[*]")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	want := []Segment{
		{Kind: SegField, Field: "items"},
		{Kind: SegIndex, Index: 0},
		{Kind: SegField, Field: "tags"},
		{Kind: SegWildcard},
	}
	if len(p.Segments) != len(want) {
		t.Fatalf("got %d segments, want %d", len(p.Segments), len(want))
	}
	for i := range want {
		if p.Segments[i] != want[i] {
			t.Errorf("segment %d = %+v, want %+v", i, p.Segments[i], want[i])
		}
	}
}

func TestParseQuotedField(t *testing.T) {
	p, err := Parse(`.["a weird key"]`)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(p.Segments) != 1 || p.Segments[0].Field != "a weird key" {
		t.Fatalf("Parse(quoted field) = %+v, want field %q", p.Segments, "a weird key")
	}
}

func TestParseNegativeIndex(t *testing.T) {
	p, err := Parse(".items[-1]")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(p.Segments) != 2 || p.Segments[1].Index != -1 {
		t.Fatalf("Parse(.items[-1]) = %+v, want index -1", p.Segments)
	}
}

func TestParseMustStartWithDot(t *testing.T) {
	if _, err := Parse("a.b"); err == nil {
		t.Error(`Parse("a.b") should fail: path must start with '.'`)
	}
}

func TestParseEmptyPath(t *testing.T) {
	if _, err := Parse(""); err == nil {
		t.Error(`Parse("") should fail`)
	}
}

func TestPathStringRoundTrips(t *testing.T) {
	tests := []string{".a.b[0]", ".items[*]"}
	for _, src := range tests {
		p, err := Parse(src)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", src, err)
		}
		if got := p.String(); got != src {
			t.Errorf("Parse(%q).String() = %q, want %q", src, got, src)
		}
	}
}
