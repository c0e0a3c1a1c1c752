package builtins

import (
	"fmt"
	"time"

	"github.com/itchyny/timefmt-go"

	"github.com/morphcli/morph/internal/uv"
)

func init() {
	register("coalesce", 1, -1, fnCoalesce)
	register("if", 3, 3, fnIf)
	register("now", 0, 0, fnNow)
	register("env", 1, 2, fnEnv)
	register("parse_date", 2, 2, fnParseDate)
	register("format_date", 2, 2, fnFormatDate)
}

// coalesce(a, b, ...) returns the first non-null argument, or null if all
// are null (spec §4.6).
func fnCoalesce(args []*uv.Value, _ Deps) (*uv.Value, error) {
	for _, a := range args {
		if !a.IsNull() {
			return a, nil
		}
	}
	return uv.Null(), nil
}

// fnIf is registered only so Lookup/Names see if()'s name and arity for
// parse-time validation; only the selected branch may be safe to evaluate
// (spec §4.6: "lazy in branches"), so the call is always intercepted and
// evaluated specially by the evaluator rather than reaching this registry
// with both branches already computed. See eval.evalIf, and this file's
// peers fnCount/fnGroupBy in collection.go for the same pattern.
func fnIf(args []*uv.Value, _ Deps) (*uv.Value, error) {
	return nil, fmt.Errorf("if() must be called directly; its branches cannot be passed as values")
}

// now() returns the current time as an ISO-8601 UTC string, sourced from
// the injected clock provider so evaluation stays deterministic under test
// (spec §4.6, §5/§9).
func fnNow(_ []*uv.Value, deps Deps) (*uv.Value, error) {
	var sec int64
	if deps.Now != nil {
		sec = deps.Now()
	} else {
		sec = time.Now().Unix()
	}
	return uv.String(time.Unix(sec, 0).UTC().Format(time.RFC3339)), nil
}

// env(name[, default]) reads an environment variable through the injected
// provider (spec §5/§9), returning default (or null) when unset.
func fnEnv(args []*uv.Value, deps Deps) (*uv.Value, error) {
	name, err := wantString("env", 0, args[0])
	if err != nil {
		return nil, err
	}
	lookup := deps.Env
	var val string
	var ok bool
	if lookup != nil {
		val, ok = lookup(name)
	}
	if ok {
		return uv.String(val), nil
	}
	if len(args) == 2 {
		return args[1], nil
	}
	return uv.Null(), nil
}

// parse_date(s, format) parses s according to a strftime-style format
// string into a Unix-epoch seconds Int.
func fnParseDate(args []*uv.Value, _ Deps) (*uv.Value, error) {
	s, err := wantString("parse_date", 0, args[0])
	if err != nil {
		return nil, err
	}
	format, err := wantString("parse_date", 1, args[1])
	if err != nil {
		return nil, err
	}
	t, err := timefmt.Parse(s, format)
	if err != nil {
		return nil, fmt.Errorf("parse_date() could not parse %q with format %q: %w", s, format, err)
	}
	return uv.Int(t.Unix()), nil
}

// format_date(epochSeconds, format) renders an Int (or Float) Unix
// timestamp as a string using a strftime-style format string.
func fnFormatDate(args []*uv.Value, _ Deps) (*uv.Value, error) {
	f, _, err := wantNumber("format_date", 0, args[0])
	if err != nil {
		return nil, err
	}
	format, err := wantString("format_date", 1, args[1])
	if err != nil {
		return nil, err
	}
	t := time.Unix(int64(f), 0).UTC()
	return uv.String(timefmt.Format(t, format)), nil
}
