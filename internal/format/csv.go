package format

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/morphcli/morph/internal/uv"
)

func init() {
	register(&Format{
		Name:       "csv",
		Extensions: []string{".csv"},
		Reader:     delimReader{comma: ','},
		Writer:     delimWriter{comma: ','},
		Records:    true,
	})
	register(&Format{
		Name:       "tsv",
		Extensions: []string{".tsv"},
		Reader:     delimReader{comma: '\t'},
		Writer:     delimWriter{comma: '\t'},
		Records:    true,
	})
}

// delimReader turns a delimited table into one Map record per data row,
// keyed by the header row (spec §6.1's records-oriented contract). Every
// field decodes to a String; the mapping language's `cast` statement is
// the documented way to recover Int/Float/Bool fields, since CSV's text
// grid carries no type information of its own.
type delimReader struct {
	comma rune
}

func (d delimReader) Read(r io.Reader) ([]*uv.Value, error) {
	cr := csv.NewReader(r)
	cr.Comma = d.comma
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, &ReadError{Format: "csv", Offset: -1, Err: err}
	}

	var out []*uv.Value
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ReadError{Format: "csv", Offset: -1, Err: err}
		}
		m := uv.NewMap()
		for i, col := range header {
			if i < len(row) {
				m.MapSet(col, uv.String(row[i]))
			} else {
				m.MapSet(col, uv.Null())
			}
		}
		out = append(out, m)
	}
	return out, nil
}

// delimWriter writes one header row (the union of every record's Map
// keys, in first-seen order) followed by one data row per record. Scalar
// field values are cast to string and Null is written as an empty cell;
// an Array, Map or Bytes value cannot be cast and fails the write with a
// WriteError rather than being silently dropped.
type delimWriter struct {
	comma rune
}

func (d delimWriter) Write(w io.Writer, records []*uv.Value) error {
	if len(records) == 0 {
		return nil
	}
	var header []string
	seen := make(map[string]bool)
	for _, rec := range records {
		if rec.Kind() != uv.KindMap {
			return &WriteError{Format: "csv", Err: fmt.Errorf("csv writer expects map records, got %s", rec.Kind())}
		}
		for _, k := range rec.MapKeys() {
			if !seen[k] {
				seen[k] = true
				header = append(header, k)
			}
		}
	}

	cw := csv.NewWriter(w)
	cw.Comma = d.comma
	if err := cw.Write(header); err != nil {
		return &WriteError{Format: "csv", Err: err}
	}
	for _, rec := range records {
		row := make([]string, len(header))
		for i, k := range header {
			val := rec.MapGet(k)
			if val.IsNull() {
				row[i] = ""
				continue
			}
			s, err := csvCellString(val)
			if err != nil {
				return &WriteError{Format: "csv", Err: err}
			}
			row[i] = s
		}
		if err := cw.Write(row); err != nil {
			return &WriteError{Format: "csv", Err: err}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return &WriteError{Format: "csv", Err: err}
	}
	return nil
}

func csvCellString(v *uv.Value) (string, error) {
	casted, _, err := uv.Cast(v, uv.KindString)
	if err != nil {
		return "", err
	}
	return casted.StringValue(), nil
}
