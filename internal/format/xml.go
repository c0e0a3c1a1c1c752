package format

import (
	"fmt"
	"io"

	"github.com/clbanning/mxj/v2"

	"github.com/morphcli/morph/internal/uv"
)

func init() {
	register(&Format{
		Name:       "xml",
		Extensions: []string{".xml"},
		Reader:     xmlReader{},
		Writer:     xmlWriter{},
	})
}

type xmlReader struct{}

// Read decodes a single XML document into a Map with one top-level key
// (the root element name), mirroring mxj's document-map shape. mxj
// leaves element text as plain strings rather than attempting Int/Float
// detection, since XML itself carries no numeric-vs-text distinction;
// `cast` recovers typed fields the same way it does for CSV.
func (xmlReader) Read(r io.Reader) ([]*uv.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ReadError{Format: "xml", Offset: -1, Err: err}
	}
	m, err := mxj.NewMapXml(data)
	if err != nil {
		return nil, &ReadError{Format: "xml", Offset: -1, Err: err}
	}
	val, err := xmlToUV(map[string]interface{}(m))
	if err != nil {
		return nil, &ReadError{Format: "xml", Offset: -1, Err: err}
	}
	return []*uv.Value{val}, nil
}

func xmlToUV(raw interface{}) (*uv.Value, error) {
	switch x := raw.(type) {
	case nil:
		return uv.Null(), nil
	case bool:
		return uv.Bool(x), nil
	case float64:
		return uv.Float(x), nil
	case int:
		return uv.Int(int64(x)), nil
	case int64:
		return uv.Int(x), nil
	case string:
		return uv.String(x), nil
	case map[string]interface{}:
		return sortedMap(x, xmlToUV)
	case []interface{}:
		arr := uv.NewArray(len(x))
		for _, elem := range x {
			val, err := xmlToUV(elem)
			if err != nil {
				return nil, err
			}
			arr.ArrayAppend(val)
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unsupported XML value type %T", raw)
	}
}

type xmlWriter struct{}

// Write expects a Map with exactly one top-level key naming the root
// element (the shape Read produces); a Map with any other number of keys
// is wrapped under a synthetic "root" element so every UV Map is still
// representable (spec §6.2: never silently drop data).
func (xmlWriter) Write(w io.Writer, records []*uv.Value) error {
	if len(records) != 1 {
		return &WriteError{Format: "xml", Err: fmt.Errorf("xml writer expects exactly one record, got %d", len(records))}
	}
	root := records[0]
	if root.Kind() != uv.KindMap {
		return &WriteError{Format: "xml", Err: fmt.Errorf("xml can only encode a top-level map, got %s", root.Kind())}
	}

	var doc mxj.Map
	if root.MapLen() == 1 {
		doc = mxj.Map{root.MapKeys()[0]: uvToXML(root.MapGet(root.MapKeys()[0]))}
	} else {
		doc = mxj.Map{"root": uvToXML(root)}
	}

	out, err := doc.XmlIndent("", "  ")
	if err != nil {
		return &WriteError{Format: "xml", Err: err}
	}
	if _, err := w.Write(out); err != nil {
		return &WriteError{Format: "xml", Err: err}
	}
	return nil
}

func uvToXML(v *uv.Value) interface{} {
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
			out[i] = uvToXML(elem)
		}
		return out
	case uv.KindMap:
		out := make(map[string]interface{}, v.MapLen())
		for _, k := range v.MapKeys() {
			out[k] = uvToXML(v.MapGet(k))
		}
		return out
	default:
		return nil
	}
}
