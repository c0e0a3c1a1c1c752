package format

import (
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/morphcli/morph/internal/uv"
)

func init() {
	register(&Format{
		Name:       "yaml",
		Extensions: []string{".yaml", ".yml"},
		Reader:     yamlReader{},
		Writer:     yamlWriter{},
	})
}

type yamlReader struct{}

// Read decodes a single YAML document. yaml.UseOrderedMap forces every
// mapping level to decode into a yaml.MapSlice instead of Go's unordered
// map[string]interface{}, which is what lets yamlToUV preserve Map
// insertion order (spec §6.1).
func (yamlReader) Read(r io.Reader) ([]*uv.Value, error) {
	dec := yaml.NewDecoder(r, yaml.UseOrderedMap())
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		if err == io.EOF {
			return []*uv.Value{uv.Null()}, nil
		}
		return nil, &ReadError{Format: "yaml", Offset: -1, Err: err}
	}
	val, err := yamlToUV(raw)
	if err != nil {
		return nil, &ReadError{Format: "yaml", Offset: -1, Err: err}
	}
	return []*uv.Value{val}, nil
}

func yamlToUV(raw interface{}) (*uv.Value, error) {
	switch x := raw.(type) {
	case nil:
		return uv.Null(), nil
	case bool:
		return uv.Bool(x), nil
	case int:
		return uv.Int(int64(x)), nil
	case int64:
		return uv.Int(x), nil
	case uint64:
		return uv.Int(int64(x)), nil
	case float64:
		return uv.Float(x), nil
	case string:
		return uv.String(x), nil
	case time.Time:
		return uv.String(x.Format(time.RFC3339Nano)), nil
	case yaml.MapSlice:
		m := uv.NewMap()
		for _, item := range x {
			key, ok := item.Key.(string)
			if !ok {
				key = fmt.Sprintf("%v", item.Key)
			}
			val, err := yamlToUV(item.Value)
			if err != nil {
				return nil, err
			}
			m.MapSet(key, val)
		}
		return m, nil
	case []interface{}:
		arr := uv.NewArray(len(x))
		for _, elem := range x {
			val, err := yamlToUV(elem)
			if err != nil {
				return nil, err
			}
			arr.ArrayAppend(val)
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unsupported YAML scalar type %T", raw)
	}
}

type yamlWriter struct{}

func (yamlWriter) Write(w io.Writer, records []*uv.Value) error {
	if len(records) != 1 {
		return &WriteError{Format: "yaml", Err: fmt.Errorf("yaml writer expects exactly one record, got %d", len(records))}
	}
	enc := yaml.NewEncoder(w, yaml.Indent(2))
	if err := enc.Encode(uvToYAML(records[0])); err != nil {
		return &WriteError{Format: "yaml", Err: err}
	}
	return enc.Close()
}

// uvToYAML builds a yaml.MapSlice tree so the encoder reproduces Map
// insertion order on output, mirroring yamlToUV's decode path.
func uvToYAML(v *uv.Value) interface{} {
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
			out[i] = uvToYAML(elem)
		}
		return out
	case uv.KindMap:
		keys := v.MapKeys()
		ms := make(yaml.MapSlice, len(keys))
		for i, k := range keys {
			ms[i] = yaml.MapItem{Key: k, Value: uvToYAML(v.MapGet(k))}
		}
		return ms
	default:
		return nil
	}
}
