package format

import (
	"bytes"
	"io"
	"sort"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/morphcli/morph/internal/uv"
)

// DecodeInput strips a byte-order mark and normalizes UTF-16 input to
// UTF-8 before any reader sees it, generalizing the teacher's
// detectAndDecodeFile (internal/interp/encoding.go in go-dws) from a
// single caller reading `.morph` mapping source to every format adapter's
// input. BOM-less input is assumed to already be UTF-8 and passed through
// unchanged.
func DecodeInput(r io.Reader) (io.Reader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	switch {
	case len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF:
		return bytes.NewReader(data[3:]), nil
	case len(data) >= 2 && data[0] == 0xFF && data[1] == 0xFE:
		return decodeUTF16(data, unicode.LittleEndian)
	case len(data) >= 2 && data[0] == 0xFE && data[1] == 0xFF:
		return decodeUTF16(data, unicode.BigEndian)
	default:
		return bytes.NewReader(data), nil
	}
}

func decodeUTF16(data []byte, endianness unicode.Endianness) (io.Reader, error) {
	decoder := unicode.UTF16(endianness, unicode.IgnoreBOM).NewDecoder()
	utf8Data, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(utf8Data), nil
}

// sortedMap builds a Map from a Go map[string]interface{} with keys
// visited in sorted order, for formats whose decode library does not
// preserve wire/source order (spec §6.1 calls for preserving Map
// insertion order when the source format has one; TOML, XML and
// MessagePack's generic decode paths do not, so alphabetical order keeps
// output at least deterministic).
func sortedMap(x map[string]interface{}, conv func(interface{}) (*uv.Value, error)) (*uv.Value, error) {
	keys := make([]string, 0, len(x))
	for k := range x {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	m := uv.NewMap()
	for _, k := range keys {
		val, err := conv(x[k])
		if err != nil {
			return nil, err
		}
		m.MapSet(k, val)
	}
	return m, nil
}
