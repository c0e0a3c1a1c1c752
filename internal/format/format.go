// Package format implements the reader/writer adapters named by spec.md
// §6.1/§6.2: each one turns a byte stream into one or more Universal
// Values, or the reverse. The registry and per-format lookup-by-name-or-
// extension follow the teacher's unit-registry idiom
// (internal/units.UnitRegistry in go-dws): a flat name-keyed map built up
// by registration calls in each adapter file's init(), rather than a
// switch statement that would need editing in one place for every new
// format.
package format

import (
	"fmt"
	"io"
	"sort"

	"github.com/maruel/natural"

	"github.com/morphcli/morph/internal/uv"
)

// Reader consumes a byte stream and yields a sequence of records. Single-
// document formats (YAML, TOML, XML, MessagePack, S-expressions, query
// strings, EDN) yield exactly one record; records-oriented formats
// (JSON-Lines, CSV/TSV) yield one per line/row (spec §6.1). JSON sits
// between the two: a top-level array is split into one record per
// element (spec §5's streaming contract names "top-level JSON Arrays"
// alongside JSON-Lines and CSV); anything else yields exactly one record.
type Reader interface {
	Read(r io.Reader) ([]*uv.Value, error)
}

// Writer consumes a sequence of records and produces bytes. Single-
// document formats accept exactly one record; records-oriented formats
// accept any number, emitting one line/row per record (spec §6.2). JSON
// accepts any number, wrapping more than one record back into a JSON
// array — the mirror image of the reader's array-splitting.
type Writer interface {
	Write(w io.Writer, records []*uv.Value) error
}

// Format bundles a name, its known file extensions, and its Reader/Writer,
// following spec.md §6.3's format-selection table.
type Format struct {
	Name       string
	Extensions []string
	Reader     Reader
	Writer     Writer
	// Records reports whether this format is naturally a stream of
	// independent records (JSON-Lines, CSV/TSV) as opposed to a single
	// document (everything else).
	Records bool
}

var registry = map[string]*Format{}
var extIndex = map[string]string{}

func register(f *Format) {
	registry[f.Name] = f
	for _, ext := range f.Extensions {
		extIndex[ext] = f.Name
	}
}

// Lookup finds a format by its explicit name (`-f`/`-t` flag value).
func Lookup(name string) (*Format, bool) {
	f, ok := registry[name]
	return f, ok
}

// LookupExtension finds a format by file extension, including the leading
// dot (e.g. ".json").
func LookupExtension(ext string) (*Format, bool) {
	name, ok := extIndex[ext]
	if !ok {
		return nil, false
	}
	return registry[name], true
}

// Names returns every registered format name, naturally ordered (spec's
// supplemental `--list-formats`, grounded on github.com/maruel/natural so
// "json2" sorts before "json10" the way a human would expect, distinct
// from the mapping language's own `sort` statement which spec.md §3.1
// mandates stay pure Unicode-scalar order).
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return natural.Less(names[i], names[j]) })
	return names
}

// ErrUnknownFormat reports a format name that is not registered. The CLI
// layer does not return it; an unresolvable format there is reported as a
// usage error (exit code 2).
type ErrUnknownFormat struct {
	Name string
}

func (e *ErrUnknownFormat) Error() string {
	return fmt.Sprintf("unknown format %q", e.Name)
}
