// Package uvpath implements the mapping language's path addressing algebra
// (spec §3.2): root, field, quoted-field, index, and wildcard segments,
// plus get/set/delete primitives over a uv.Value tree. There is no close
// teacher analogue for this package — go-dws has no path/property-chain
// concept of its own — so the parsing style below follows the spec's
// grammar directly, informed by the teacher's general approach to small
// hand-rolled recursive scanners (internal/lexer).
package uvpath

import (
	"fmt"
	"strconv"
	"strings"
)

// SegmentKind identifies the kind of a single path segment.
type SegmentKind int

const (
	SegField SegmentKind = iota
	SegIndex
	SegWildcard
)

// Segment is one step of a Path: a field name, an array index, or a
// wildcard fan-out marker (spec §3.2).
type Segment struct {
	Kind  SegmentKind
	Field string // valid when Kind == SegField
	Index int    // valid when Kind == SegIndex
}

// Path is a parsed address into a Universal Value tree, e.g. `.a.b[0]`.
type Path struct {
	Segments []Segment
}

func (p Path) String() string {
	var sb strings.Builder
	for _, s := range p.Segments {
		switch s.Kind {
		case SegField:
			if isBareIdent(s.Field) {
				sb.WriteByte('.')
				sb.WriteString(s.Field)
			} else {
				sb.WriteString(".[\"")
				sb.WriteString(strings.ReplaceAll(s.Field, `"`, `\"`))
				sb.WriteString("\"]")
			}
		case SegIndex:
			sb.WriteString("[")
			sb.WriteString(strconv.Itoa(s.Index))
			sb.WriteString("]")
		case SegWildcard:
			sb.WriteString("[*]")
		}
	}
	if sb.Len() == 0 {
		return "."
	}
	return sb.String()
}

// Parse parses a path expression of the form described in spec §3.2:
// `.` (root), `.name`, `.["quoted name"]`, `.xs[N]`, `.xs[*]`, chained
// arbitrarily (e.g. `.a.b[0].c[*]`).
func Parse(s string) (Path, error) {
	p := &pathParser{src: s}
	segs, err := p.parse()
	if err != nil {
		return Path{}, err
	}
	return Path{Segments: segs}, nil
}

type pathParser struct {
	src string
	pos int
}

func (p *pathParser) parse() ([]Segment, error) {
	var segs []Segment
	if p.pos >= len(p.src) {
		return nil, fmt.Errorf("empty path")
	}
	if p.src[p.pos] != '.' {
		return nil, fmt.Errorf("path must start with '.' at offset %d", p.pos)
	}
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '.':
			p.pos++
			if p.pos < len(p.src) && p.src[p.pos] == '[' {
				continue // `.["key"]` form, index/bracket parsing below handles it
			}
			seg, err := p.parseField()
			if err != nil {
				return nil, err
			}
			segs = append(segs, seg)
		case '[':
			seg, err := p.parseBracket()
			if err != nil {
				return nil, err
			}
			segs = append(segs, seg)
		default:
			return nil, fmt.Errorf("unexpected character %q at offset %d", p.src[p.pos], p.pos)
		}
	}
	return segs, nil
}

func (p *pathParser) parseField() (Segment, error) {
	start := p.pos
	for p.pos < len(p.src) && isIdentByte(p.src[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return Segment{}, fmt.Errorf("expected field name at offset %d", start)
	}
	return Segment{Kind: SegField, Field: p.src[start:p.pos]}, nil
}

// parseBracket handles `[N]`, `[*]`, and `["quoted field"]`.
func (p *pathParser) parseBracket() (Segment, error) {
	if p.src[p.pos] != '[' {
		return Segment{}, fmt.Errorf("expected '[' at offset %d", p.pos)
	}
	p.pos++
	if p.pos >= len(p.src) {
		return Segment{}, fmt.Errorf("unterminated '[' at offset %d", p.pos)
	}
	if p.src[p.pos] == '*' {
		p.pos++
		if err := p.expect(']'); err != nil {
			return Segment{}, err
		}
		return Segment{Kind: SegWildcard}, nil
	}
	if p.src[p.pos] == '"' {
		field, err := p.parseQuoted()
		if err != nil {
			return Segment{}, err
		}
		if err := p.expect(']'); err != nil {
			return Segment{}, err
		}
		return Segment{Kind: SegField, Field: field}, nil
	}
	start := p.pos
	if p.src[p.pos] == '-' {
		p.pos++
	}
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == start {
		return Segment{}, fmt.Errorf("expected index or '*' at offset %d", start)
	}
	n, err := strconv.Atoi(p.src[start:p.pos])
	if err != nil {
		return Segment{}, fmt.Errorf("invalid index %q at offset %d", p.src[start:p.pos], start)
	}
	if err := p.expect(']'); err != nil {
		return Segment{}, err
	}
	return Segment{Kind: SegIndex, Index: n}, nil
}

func (p *pathParser) parseQuoted() (string, error) {
	p.pos++ // consume opening quote
	var sb strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '"' {
			p.pos++
			return sb.String(), nil
		}
		if c == '\\' && p.pos+1 < len(p.src) {
			p.pos++
			sb.WriteByte(p.src[p.pos])
			p.pos++
			continue
		}
		sb.WriteByte(c)
		p.pos++
	}
	return "", fmt.Errorf("unterminated quoted field")
}

func (p *pathParser) expect(c byte) error {
	if p.pos >= len(p.src) || p.src[p.pos] != c {
		return fmt.Errorf("expected %q at offset %d", c, p.pos)
	}
	p.pos++
	return nil
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isBareIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isIdentByte(s[i]) {
			return false
		}
	}
	return s[0] < '0' || s[0] > '9'
}
