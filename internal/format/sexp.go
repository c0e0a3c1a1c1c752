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
		Name:       "sexp",
		Extensions: []string{".sexp"},
		Reader:     sexpReader{},
		Writer:     sexpWriter{},
	})
}

// sexp has no library in the retrieved pack and no standard-library
// encoder either; it is hand-rolled the way the teacher hand-rolls its
// own lexer (internal/lexer/lexer.go), using the same rune-scanning idiom
// this module already uses for the mapping language. Maps have no native
// S-expression literal, so morph represents one as a property list whose
// keys are `:keyword` atoms: `(:name "Ada" :age 36)`. Any other list is
// an Array.
type sexpReader struct{}

func (sexpReader) Read(r io.Reader) ([]*uv.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ReadError{Format: "sexp", Offset: -1, Err: err}
	}
	sc := &sexpScanner{src: []rune(string(data))}
	sc.skipSpace()
	val, err := sc.readValue()
	if err != nil {
		return nil, &ReadError{Format: "sexp", Offset: int64(sc.pos), Err: err}
	}
	return []*uv.Value{val}, nil
}

type sexpScanner struct {
	src []rune
	pos int
}

func (s *sexpScanner) skipSpace() {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			s.pos++
			continue
		}
		if c == ';' { // line comment
			for s.pos < len(s.src) && s.src[s.pos] != '\n' {
				s.pos++
			}
			continue
		}
		break
	}
}

func (s *sexpScanner) peek() (rune, bool) {
	if s.pos >= len(s.src) {
		return 0, false
	}
	return s.src[s.pos], true
}

func (s *sexpScanner) readValue() (*uv.Value, error) {
	s.skipSpace()
	c, ok := s.peek()
	if !ok {
		return nil, fmt.Errorf("unexpected end of input")
	}
	switch {
	case c == '(':
		return s.readList()
	case c == '"':
		return s.readString()
	default:
		return s.readAtom()
	}
}

func (s *sexpScanner) readList() (*uv.Value, error) {
	s.pos++ // consume '('
	var elems []*uv.Value
	for {
		s.skipSpace()
		c, ok := s.peek()
		if !ok {
			return nil, fmt.Errorf("unterminated list")
		}
		if c == ')' {
			s.pos++
			break
		}
		v, err := s.readValue()
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	if isPlist(elems) {
		m := uv.NewMap()
		for i := 0; i < len(elems); i += 2 {
			m.MapSet(strings.TrimPrefix(elems[i].StringValue(), ":"), elems[i+1])
		}
		return m, nil
	}
	arr := uv.NewArray(len(elems))
	for _, e := range elems {
		arr.ArrayAppend(e)
	}
	return arr, nil
}

// isPlist reports whether elems looks like a `:key value ...` property
// list: an even count, with every even-indexed element a bare `:`-prefixed
// keyword atom recorded as a String by readAtom.
func isPlist(elems []*uv.Value) bool {
	if len(elems) == 0 || len(elems)%2 != 0 {
		return false
	}
	for i := 0; i < len(elems); i += 2 {
		if elems[i].Kind() != uv.KindString || !strings.HasPrefix(elems[i].StringValue(), ":") {
			return false
		}
	}
	return true
}

func (s *sexpScanner) readString() (*uv.Value, error) {
	s.pos++ // consume opening quote
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

func (s *sexpScanner) readAtom() (*uv.Value, error) {
	start := s.pos
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if c == '(' || c == ')' || c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			break
		}
		s.pos++
	}
	tok := string(s.src[start:s.pos])
	if tok == "" {
		return nil, fmt.Errorf("unexpected character %q", string(s.src[s.pos]))
	}
	switch tok {
	case "nil":
		return uv.Null(), nil
	case "true":
		return uv.Bool(true), nil
	case "false":
		return uv.Bool(false), nil
	}
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return uv.Int(n), nil
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return uv.Float(f), nil
	}
	// bare symbols (including :keywords) are kept as-is; keyword-ness is
	// recovered by isPlist/the writer via the leading ':'.
	return uv.String(tok), nil
}

type sexpWriter struct{}

func (sexpWriter) Write(w io.Writer, records []*uv.Value) error {
	if len(records) != 1 {
		return &WriteError{Format: "sexp", Err: fmt.Errorf("sexp writer expects exactly one record, got %d", len(records))}
	}
	var sb strings.Builder
	writeSexpValue(&sb, records[0])
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return &WriteError{Format: "sexp", Err: err}
	}
	return nil
}

func writeSexpValue(sb *strings.Builder, v *uv.Value) {
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
		writeSexpString(sb, v.StringValue())
	case uv.KindBytes:
		writeSexpString(sb, string(v.BytesValue()))
	case uv.KindArray:
		sb.WriteByte('(')
		for i, elem := range v.ArrayElements() {
			if i > 0 {
				sb.WriteByte(' ')
			}
			writeSexpValue(sb, elem)
		}
		sb.WriteByte(')')
	case uv.KindMap:
		sb.WriteByte('(')
		for i, k := range v.MapKeys() {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteByte(':')
			sb.WriteString(k)
			sb.WriteByte(' ')
			writeSexpValue(sb, v.MapGet(k))
		}
		sb.WriteByte(')')
	}
}

func writeSexpString(sb *strings.Builder, s string) {
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
