package format

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/morphcli/morph/internal/uv"
)

func init() {
	register(&Format{
		Name:       "toml",
		Extensions: []string{".toml"},
		Reader:     tomlReader{},
		Writer:     tomlWriter{},
	})
}

type tomlReader struct{}

// Read decodes a single TOML document. go-toml/v2 has no ordered-map
// decode mode (unlike goccy/go-yaml's UseOrderedMap), so table keys come
// back as a Go map[string]interface{}; tomlToUV sorts those keys
// alphabetically before building the Map so output is at least
// deterministic, even though original source order is not recoverable.
func (tomlReader) Read(r io.Reader) ([]*uv.Value, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, &ReadError{Format: "toml", Offset: -1, Err: err}
	}
	var raw map[string]interface{}
	if err := toml.Unmarshal(buf.Bytes(), &raw); err != nil {
		return nil, &ReadError{Format: "toml", Offset: -1, Err: err}
	}
	val, err := tomlToUV(raw)
	if err != nil {
		return nil, &ReadError{Format: "toml", Offset: -1, Err: err}
	}
	return []*uv.Value{val}, nil
}

func tomlToUV(raw interface{}) (*uv.Value, error) {
	switch x := raw.(type) {
	case nil:
		return uv.Null(), nil
	case bool:
		return uv.Bool(x), nil
	case int64:
		return uv.Int(x), nil
	case int:
		return uv.Int(int64(x)), nil
	case float64:
		return uv.Float(x), nil
	case string:
		return uv.String(x), nil
	case time.Time:
		return uv.String(x.Format(time.RFC3339Nano)), nil
	case map[string]interface{}:
		return sortedMap(x, tomlToUV)
	case []interface{}:
		arr := uv.NewArray(len(x))
		for _, elem := range x {
			val, err := tomlToUV(elem)
			if err != nil {
				return nil, err
			}
			arr.ArrayAppend(val)
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unsupported TOML value type %T", raw)
	}
}

type tomlWriter struct{}

func (tomlWriter) Write(w io.Writer, records []*uv.Value) error {
	if len(records) != 1 {
		return &WriteError{Format: "toml", Err: fmt.Errorf("toml writer expects exactly one record, got %d", len(records))}
	}
	root := records[0]
	if root.Kind() != uv.KindMap {
		return &WriteError{Format: "toml", Err: fmt.Errorf("toml can only encode a top-level map, got %s", root.Kind())}
	}
	enc := toml.NewEncoder(w)
	if err := enc.Encode(uvToTOML(root)); err != nil {
		return &WriteError{Format: "toml", Err: err}
	}
	return nil
}

func uvToTOML(v *uv.Value) interface{} {
	switch v.Kind() {
	case uv.KindNull:
		return nil
	case uv.KindBool:
		return v.BoolValue()
	case uv.KindInt:
		return v.IntValue()
	case uv.KindFloat:
		return v.FloatValue()
	case uv.KindString:
		return v.StringValue()
	case uv.KindBytes:
		return v.BytesValue()
	case uv.KindArray:
		elems := v.ArrayElements()
		out := make([]interface{}, len(elems))
		for i, elem := range elems {
			out[i] = uvToTOML(elem)
		}
		return out
	case uv.KindMap:
		out := make(map[string]interface{}, v.MapLen())
		for _, k := range v.MapKeys() {
			out[k] = uvToTOML(v.MapGet(k))
		}
		return out
	default:
		return nil
	}
}
