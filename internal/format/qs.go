package format

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/morphcli/morph/internal/uv"
)

func init() {
	register(&Format{
		Name:       "qs",
		Extensions: []string{".qs"},
		Reader:     qsReader{},
		Writer:     qsWriter{},
	})
}

// qsReader decodes a URL query string into a Map: a key with one value
// becomes a String field, a key with several becomes an Array of Strings.
// Parsing is hand-rolled rather than net/url.ParseQuery, which returns an
// unordered map and would force keys into alphabetical order; splitting on
// `&` directly preserves the order keys first appear on the wire, matching
// the reader contract's "preserve Map insertion order" (spec §6.1).
type qsReader struct{}

func (qsReader) Read(r io.Reader) ([]*uv.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ReadError{Format: "qs", Offset: -1, Err: err}
	}
	raw := strings.TrimSuffix(strings.TrimSuffix(string(data), "\n"), "\r")

	m := uv.NewMap()
	if raw == "" {
		return []*uv.Value{m}, nil
	}
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		key, val := pair, ""
		if i := strings.IndexByte(pair, '='); i >= 0 {
			key, val = pair[:i], pair[i+1:]
		}
		k, err := url.QueryUnescape(key)
		if err != nil {
			return nil, &ReadError{Format: "qs", Offset: -1, Err: err}
		}
		v, err := url.QueryUnescape(val)
		if err != nil {
			return nil, &ReadError{Format: "qs", Offset: -1, Err: err}
		}
		existing := m.MapGet(k)
		switch {
		case existing == nil:
			m.MapSet(k, uv.String(v))
		case existing.Kind() == uv.KindArray:
			existing.ArrayAppend(uv.String(v))
		default:
			m.MapSet(k, uv.Array(existing, uv.String(v)))
		}
	}
	return []*uv.Value{m}, nil
}

type qsWriter struct{}

// Write emits a single `key=value` pair per scalar Map field and repeats
// the key for each element of an Array field, in Map insertion order
// (spec §6.2). Nested Maps are not representable in a flat query string
// and are rejected with WriteError rather than silently dropped.
func (qsWriter) Write(w io.Writer, records []*uv.Value) error {
	if len(records) != 1 {
		return &WriteError{Format: "qs", Err: fmt.Errorf("qs writer expects exactly one record, got %d", len(records))}
	}
	root := records[0]
	if root.Kind() != uv.KindMap {
		return &WriteError{Format: "qs", Err: fmt.Errorf("qs can only encode a top-level map, got %s", root.Kind())}
	}

	vals := url.Values{}
	for _, k := range root.MapKeys() {
		field := root.MapGet(k)
		if err := qsAppend(vals, k, field); err != nil {
			return &WriteError{Format: "qs", Err: err}
		}
	}
	if _, err := io.WriteString(w, encodeOrdered(root.MapKeys(), vals)); err != nil {
		return &WriteError{Format: "qs", Err: err}
	}
	return nil
}

func qsAppend(vals url.Values, key string, v *uv.Value) error {
	switch v.Kind() {
	case uv.KindMap:
		return fmt.Errorf("field %q: nested maps cannot be represented as a query string", key)
	case uv.KindArray:
		for _, elem := range v.ArrayElements() {
			s, err := qsScalarString(elem)
			if err != nil {
				return fmt.Errorf("field %q: %w", key, err)
			}
			vals.Add(key, s)
		}
		return nil
	default:
		s, err := qsScalarString(v)
		if err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		vals.Set(key, s)
		return nil
	}
}

func qsScalarString(v *uv.Value) (string, error) {
	casted, _, err := uv.Cast(v, uv.KindString)
	if err != nil {
		return "", err
	}
	return casted.StringValue(), nil
}

// encodeOrdered renders vals as `k=v&k=v...` following keyOrder (and, for
// repeated keys, vals' own slice order) instead of url.Values.Encode's
// alphabetical key sort, so Map insertion order survives onto the wire.
func encodeOrdered(keyOrder []string, vals url.Values) string {
	var sb []byte
	first := true
	for _, k := range keyOrder {
		for _, v := range vals[k] {
			if !first {
				sb = append(sb, '&')
			}
			first = false
			sb = append(sb, url.QueryEscape(k)...)
			sb = append(sb, '=')
			sb = append(sb, url.QueryEscape(v)...)
		}
	}
	return string(sb)
}
