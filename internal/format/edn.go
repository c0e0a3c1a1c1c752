package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/morphcli/morph/internal/uv"
)

func init() {
	register(&Format{
		Name:       "edn",
		Extensions: []string{".edn"},
		Reader:     ednReader{},
		Writer:     ednWriter{},
	})
}

// edn, like sexp, has no library in the retrieved pack; this is a small
// hand-rolled reader/writer for the data subset spec.md cares about: maps
// `{}`, vectors `[]`, keywords `:kw`, strings, numbers, nil/true/false.
// Lists `()` and sets `#{}` are read as arrays too (morph has no distinct
// "set" UV kind), and keyword map keys lose their leading `:` on the way
// into a UV Map, recovered on write.
type ednReader struct{}

func (ednReader) Read(r io.Reader) ([]*uv.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ReadError{Format: "edn", Offset: -1, Err: err}
	}
	sc := &ednScanner{src: []rune(string(data))}
	sc.skipSpace()
	val, err := sc.readValue()
	if err != nil {
		return nil, &ReadError{Format: "edn", Offset: int64(sc.pos), Err: err}
	}
	return []*uv.Value{val}, nil
}

type ednScanner struct {
	src []rune
	pos int
}

func (s *ednScanner) skipSpace() {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == ',' {
			s.pos++
			continue
		}
		if c == ';' {
			for s.pos < len(s.src) && s.src[s.pos] != '\n' {
				s.pos++
			}
			continue
		}
		break
	}
}

func (s *ednScanner) peek() (rune, bool) {
	if s.pos >= len(s.src) {
		return 0, false
	}
	return s.src[s.pos], true
}

func (s *ednScanner) readValue() (*uv.Value, error) {
	s.skipSpace()
	c, ok := s.peek()
	if !ok {
		return nil, fmt.Errorf("unexpected end of input")
	}
	switch {
	case c == '{':
		return s.readMap()
	case c == '[':
		return s.readSeq('[', ']')
	case c == '(':
		return s.readSeq('(', ')')
	case c == '#':
		return s.readSet()
	case c == '"':
		return s.readString()
	default:
		return s.readAtom()
	}
}

func (s *ednScanner) readMap() (*uv.Value, error) {
	s.pos++ // '{'
	m := uv.NewMap()
	for {
		s.skipSpace()
		c, ok := s.peek()
		if !ok {
			return nil, fmt.Errorf("unterminated map")
		}
		if c == '}' {
			s.pos++
			break
		}
		key, err := s.readValue()
		if err != nil {
			return nil, err
		}
		s.skipSpace()
		val, err := s.readValue()
		if err != nil {
			return nil, err
		}
		m.MapSet(strings.TrimPrefix(key.StringValue(), ":"), val)
	}
	return m, nil
}

func (s *ednScanner) readSet() (*uv.Value, error) {
	s.pos++ // '#'
	c, ok := s.peek()
	if !ok || c != '{' {
		return nil, fmt.Errorf("expected '{' after '#'")
	}
	return s.readSeq('{', '}')
}

func (s *ednScanner) readSeq(open, close rune) (*uv.Value, error) {
	s.pos++ // consume opening delimiter
	arr := uv.NewArray(0)
	for {
		s.skipSpace()
		c, ok := s.peek()
		if !ok {
			return nil, fmt.Errorf("unterminated %q", string(open))
		}
		if c == close {
			s.pos++
			break
		}
		v, err := s.readValue()
		if err != nil {
			return nil, err
		}
		arr.ArrayAppend(v)
	}
	return arr, nil
}

func (s *ednScanner) readString() (*uv.Value, error) {
	s.pos++
	var sb strings.Builder
	for {
		c, ok := s.peek()
		if !ok {
			return nil, fmt.Errorf("unterminated string")
		}
		s.pos++
		if c == '"' {
			break
		}
		if c == '\\' {
			esc, ok := s.peek()
			if !ok {
				return nil, fmt.Errorf("unterminated escape in string")
			}
			s.pos++
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			default:
				sb.WriteRune(esc)
			}
			continue
		}
		sb.WriteRune(c)
	}
	return uv.String(sb.String()), nil
}

func isEdnDelim(c rune) bool {
	switch c {
	case '{', '}', '[', ']', '(', ')', ' ', '\t', '\n', '\r', ',':
		return true
	}
	return false
}

func (s *ednScanner) readAtom() (*uv.Value, error) {
	start := s.pos
	if c, ok := s.peek(); ok && c == ':' {
		s.pos++ // keep the ':' so readMap/writer can recognize a keyword
	}
	for s.pos < len(s.src) && !isEdnDelim(s.src[s.pos]) {
		s.pos++
	}
	tok := string(s.src[start:s.pos])
	if tok == "" {
		return nil, fmt.Errorf("unexpected character in input")
	}
	switch tok {
	case "nil":
		return uv.Null(), nil
	case "true":
		return uv.Bool(true), nil
	case "false":
		return uv.Bool(false), nil
	}
	if !strings.HasPrefix(tok, ":") {
		if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
			return uv.Int(n), nil
		}
		if f, err := strconv.ParseFloat(tok, 64); err == nil {
			return uv.Float(f), nil
		}
	}
	return uv.String(tok), nil
}

type ednWriter struct{}

func (ednWriter) Write(w io.Writer, records []*uv.Value) error {
	if len(records) != 1 {
		return &WriteError{Format: "edn", Err: fmt.Errorf("edn writer expects exactly one record, got %d", len(records))}
	}
	var sb strings.Builder
	writeEdnValue(&sb, records[0])
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return &WriteError{Format: "edn", Err: err}
	}
	return nil
}

func writeEdnValue(sb *strings.Builder, v *uv.Value) {
	switch v.Kind() {
	case uv.KindNull:
		sb.WriteString("nil")
	case uv.KindBool:
		if v.BoolValue() {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case uv.KindInt:
		fmt.Fprintf(sb, "%d", v.IntValue())
	case uv.KindFloat:
		sb.WriteString(uv.FormatFloat(v.FloatValue()))
	case uv.KindString:
		writeEdnString(sb, v.StringValue())
	case uv.KindBytes:
		writeEdnString(sb, string(v.BytesValue()))
	case uv.KindArray:
		sb.WriteByte('[')
		for i, elem := range v.ArrayElements() {
			if i > 0 {
				sb.WriteByte(' ')
			}
			writeEdnValue(sb, elem)
		}
		sb.WriteByte(']')
	case uv.KindMap:
		sb.WriteByte('{')
		for i, k := range v.MapKeys() {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteByte(':')
			sb.WriteString(k)
			sb.WriteByte(' ')
			writeEdnValue(sb, v.MapGet(k))
		}
		sb.WriteByte('}')
	}
}

func writeEdnString(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
}
