package format

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/morphcli/morph/internal/uv"
)

func init() {
	register(&Format{
		Name:       "msgpack",
		Extensions: []string{".msgpack"},
		Reader:     msgpackReader{},
		Writer:     msgpackWriter{},
	})
}

type msgpackReader struct{}

// Read decodes a single MessagePack document via the library's generic
// DecodeInterface, which (like encoding/json's default decoding) yields
// a Go map[string]interface{} for MessagePack maps and so cannot recover
// wire order; msgpackToUV sorts keys alphabetically for determinism, the
// same accepted limitation as the TOML and XML readers.
func (msgpackReader) Read(r io.Reader) ([]*uv.Value, error) {
	dec := msgpack.NewDecoder(r)
	raw, err := dec.DecodeInterface()
	if err != nil {
		return nil, &ReadError{Format: "msgpack", Offset: -1, Err: err}
	}
	val, err := msgpackToUV(raw)
	if err != nil {
		return nil, &ReadError{Format: "msgpack", Offset: -1, Err: err}
	}
	return []*uv.Value{val}, nil
}

func msgpackToUV(raw interface{}) (*uv.Value, error) {
	switch x := raw.(type) {
	case nil:
		return uv.Null(), nil
	case bool:
		return uv.Bool(x), nil
	case int8:
		return uv.Int(int64(x)), nil
	case int16:
		return uv.Int(int64(x)), nil
	case int32:
		return uv.Int(int64(x)), nil
	case int64:
		return uv.Int(x), nil
	case int:
		return uv.Int(int64(x)), nil
	case uint8:
		return uv.Int(int64(x)), nil
	case uint16:
		return uv.Int(int64(x)), nil
	case uint32:
		return uv.Int(int64(x)), nil
	case uint64:
		return uv.Int(int64(x)), nil
	case float32:
		return uv.Float(float64(x)), nil
	case float64:
		return uv.Float(x), nil
	case string:
		return uv.String(x), nil
	case []byte:
		return uv.Bytes(x), nil
	case []interface{}:
		arr := uv.NewArray(len(x))
		for _, elem := range x {
			val, err := msgpackToUV(elem)
			if err != nil {
				return nil, err
			}
			arr.ArrayAppend(val)
		}
		return arr, nil
	case map[string]interface{}:
		m, err := sortedMap(x, msgpackToUV)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported MessagePack value type %T", raw)
	}
}

type msgpackWriter struct{}

// Write encodes each record via the Encoder's low-level EncodeMapLen/
// EncodeArrayLen primitives instead of Marshal(interface{}), so that Map
// key order survives onto the wire even though it cannot survive back off
// it (spec §6.2: writer emits Map keys in UV insertion order).
func (msgpackWriter) Write(w io.Writer, records []*uv.Value) error {
	if len(records) != 1 {
		return &WriteError{Format: "msgpack", Err: fmt.Errorf("msgpack writer expects exactly one record, got %d", len(records))}
	}
	enc := msgpack.NewEncoder(w)
	if err := encodeMsgpackValue(enc, records[0]); err != nil {
		return &WriteError{Format: "msgpack", Err: err}
	}
	return nil
}

func encodeMsgpackValue(enc *msgpack.Encoder, v *uv.Value) error {
	switch v.Kind() {
	case uv.KindNull:
		return enc.EncodeNil()
	case uv.KindBool:
		return enc.EncodeBool(v.BoolValue())
	case uv.KindInt:
		return enc.EncodeInt64(v.IntValue())
	case uv.KindFloat:
		return enc.EncodeFloat64(v.FloatValue())
	case uv.KindString:
		return enc.EncodeString(v.StringValue())
	case uv.KindBytes:
		return enc.EncodeBytes(v.BytesValue())
	case uv.KindArray:
		elems := v.ArrayElements()
		if err := enc.EncodeArrayLen(len(elems)); err != nil {
			return err
		}
		for _, elem := range elems {
			if err := encodeMsgpackValue(enc, elem); err != nil {
				return err
			}
		}
		return nil
	case uv.KindMap:
		keys := v.MapKeys()
		if err := enc.EncodeMapLen(len(keys)); err != nil {
			return err
		}
		for _, k := range keys {
			if err := enc.EncodeString(k); err != nil {
				return err
			}
			if err := encodeMsgpackValue(enc, v.MapGet(k)); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported UV kind %s", v.Kind())
	}
}
