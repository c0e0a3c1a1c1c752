package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/tidwall/pretty"

	"github.com/morphcli/morph/internal/uv"
)

func init() {
	register(&Format{
		Name:       "json",
		Extensions: []string{".json"},
		Reader:     jsonReader{},
		Writer:     jsonWriter{},
	})
	register(&Format{
		Name:       "jsonlines",
		Extensions: []string{".jsonl", ".ndjson"},
		Reader:     jsonLinesReader{},
		Writer:     jsonLinesWriter{},
		Records:    true,
	})
}

type jsonReader struct{}

// Read decodes a single JSON document into one or more UVs (spec §6.1):
// object order is preserved via json.Decoder's token stream rather than
// encoding/json's default map[string]interface{} decoding, which would
// discard it. A top-level JSON array is split into one record per
// element, per spec §5's streaming contract ("top-level JSON Arrays"
// feed the driver one record at a time, same as JSON-Lines and CSV);
// anything else (object, scalar) yields exactly one record.
func (jsonReader) Read(r io.Reader) ([]*uv.Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	val, err := decodeJSONValue(dec)
	if err != nil {
		return nil, &ReadError{Format: "json", Offset: dec.InputOffset(), Err: err}
	}
	if val.Kind() == uv.KindArray {
		return val.ArrayElements(), nil
	}
	return []*uv.Value{val}, nil
}

type jsonLinesReader struct{}

func (jsonLinesReader) Read(r io.Reader) ([]*uv.Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var out []*uv.Value
	for dec.More() {
		val, err := decodeJSONValue(dec)
		if err != nil {
			return nil, &ReadError{Format: "jsonlines", Offset: dec.InputOffset(), Err: err}
		}
		out = append(out, val)
	}
	return out, nil
}

// decodeJSONValue reads exactly one JSON value from dec token-by-token,
// building a UV directly so that object key order survives and numbers
// keep their Int-vs-Float distinction (json.Number defers that decision
// until here instead of encoding/json's default float64-only behavior).
func decodeJSONValue(dec *json.Decoder) (*uv.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return jsonValueFromToken(dec, tok)
}

func jsonValueFromToken(dec *json.Decoder, tok json.Token) (*uv.Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := uv.NewMap()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("expected object key, got %v", keyTok)
				}
				valTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				val, err := jsonValueFromToken(dec, valTok)
				if err != nil {
					return nil, err
				}
				m.MapSet(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return m, nil
		case '[':
			arr := uv.NewArray(0)
			for dec.More() {
				elemTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				elem, err := jsonValueFromToken(dec, elemTok)
				if err != nil {
					return nil, err
				}
				arr.ArrayAppend(elem)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	case nil:
		return uv.Null(), nil
	case bool:
		return uv.Bool(t), nil
	case string:
		return uv.String(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return uv.Int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return uv.Float(f), nil
	default:
		return nil, fmt.Errorf("unsupported JSON token %T", tok)
	}
}

type jsonWriter struct{}

// Write emits a single record as its own JSON document, and more than one
// record as a JSON array of them — the mirror image of Read's top-level
// array splitting, so `rename .n -> .num` over `[{"n":1},{"n":2}]`
// round-trips to `[{"num":1},{"num":2}]` (spec §5, §8 scenario 1) without
// requiring an explicit `each`.
func (jsonWriter) Write(w io.Writer, records []*uv.Value) error {
	if len(records) == 0 {
		return &WriteError{Format: "json", Err: fmt.Errorf("json writer requires at least one record")}
	}
	if len(records) == 1 {
		return writeJSONValue(w, records[0])
	}
	arr := uv.NewArray(len(records))
	for _, rec := range records {
		arr.ArrayAppend(rec)
	}
	return writeJSONValue(w, arr)
}

type jsonLinesWriter struct{}

func (jsonLinesWriter) Write(w io.Writer, records []*uv.Value) error {
	for _, rec := range records {
		if err := writeJSONValue(w, rec); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return &WriteError{Format: "jsonlines", Err: err}
		}
	}
	return nil
}

// writeJSONValue renders v as compact JSON, then reformats with
// tidwall/pretty so the writer's indentation style matches the rest of
// the CLI's pretty-printed output (spec §6.2: faithful Int/Float
// round-trip, here via uv.FormatFloat for enough-digits-to-round-trip
// float rendering).
func writeJSONValue(w io.Writer, v *uv.Value) error {
	var buf bytes.Buffer
	if err := encodeJSONValue(&buf, v); err != nil {
		return &WriteError{Format: "json", Err: err}
	}
	out := pretty.Pretty(buf.Bytes())
	out = bytes.TrimRight(out, "\n")
	if _, err := w.Write(out); err != nil {
		return &WriteError{Format: "json", Err: err}
	}
	return nil
}

func encodeJSONValue(buf *bytes.Buffer, v *uv.Value) error {
	switch v.Kind() {
	case uv.KindNull:
		buf.WriteString("null")
	case uv.KindBool:
		if v.BoolValue() {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case uv.KindInt:
		fmt.Fprintf(buf, "%d", v.IntValue())
	case uv.KindFloat:
		buf.WriteString(uv.FormatFloat(v.FloatValue()))
	case uv.KindString:
		enc, err := json.Marshal(v.StringValue())
		if err != nil {
			return err
		}
		buf.Write(enc)
	case uv.KindBytes:
		enc, err := json.Marshal(v.BytesValue())
		if err != nil {
			return err
		}
		buf.Write(enc)
	case uv.KindArray:
		buf.WriteByte('[')
		for i, elem := range v.ArrayElements() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeJSONValue(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case uv.KindMap:
		buf.WriteByte('{')
		for i, k := range v.MapKeys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			keyEnc, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(keyEnc)
			buf.WriteByte(':')
			if err := encodeJSONValue(buf, v.MapGet(k)); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}
