// Package builtins implements the mapping language's built-in function
// library (spec §4.6): string, math, collection, type, and utility
// functions resolved by name at parse time and arity/type-checked at the
// call site. The file-per-domain layout and the "Name() expects N
// arguments, got %d" error phrasing follow the teacher's internal/builtins
// package in go-dws.
package builtins

import (
	"fmt"

	"github.com/morphcli/morph/internal/uv"
)

// Func is a built-in function implementation. deps carries the injectable
// providers backing the env() and now() built-ins (spec §5/§9); most other
// functions ignore it.
type Func func(args []*uv.Value, deps Deps) (*uv.Value, error)

// Deps bundles the providers a handful of built-ins need for deterministic,
// testable evaluation. Production CLI runs wire real ones; tests substitute
// fixed values.
type Deps struct {
	Now func() int64          // current time, Unix seconds (UTC)
	Env func(name string) (string, bool)
	// Warn emits a non-fatal diagnostic (spec §5's "diagnostic emission"
	// provider, §7's warning list — narrowing casts, a `default` on a key
	// that is present but null, etc). Nil is treated as a no-op.
	Warn func(message string)
}

// Emit calls Warn if one was supplied, a no-op otherwise.
func (d Deps) Emit(message string) {
	if d.Warn != nil {
		d.Warn(message)
	}
}

// Signature describes a built-in's arity for parse-time validation.
// MaxArgs of -1 means unbounded (variadic).
type Signature struct {
	Name    string
	MinArgs int
	MaxArgs int
	Fn      Func
}

var registry = map[string]Signature{}

func register(name string, min, max int, fn Func) {
	registry[name] = Signature{Name: name, MinArgs: min, MaxArgs: max, Fn: fn}
}

// Lookup returns the signature registered under name.
func Lookup(name string) (Signature, bool) {
	s, ok := registry[name]
	return s, ok
}

// Names returns every registered built-in name, used by the parser's
// "did you mean?" suggestion search (spec §4.2).
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	return out
}

// Call resolves name and invokes it against args, checking arity before
// dispatch. Type errors surface from the function body itself.
func Call(name string, args []*uv.Value, deps Deps) (*uv.Value, error) {
	sig, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown function %q", name)
	}
	if len(args) < sig.MinArgs || (sig.MaxArgs >= 0 && len(args) > sig.MaxArgs) {
		return nil, arityError(sig, len(args))
	}
	return sig.Fn(args, deps)
}

func arityError(sig Signature, got int) error {
	return fmt.Errorf("%s", ArityMessage(sig, got))
}

// ArityMessage renders the "expects N arguments, got M" text shared by the
// evaluator's runtime arity check and the parser's parse-time one (spec
// §4.2: "--dry-run validates function names/arities").
func ArityMessage(sig Signature, got int) string {
	if sig.MinArgs == sig.MaxArgs {
		return fmt.Sprintf("%s() expects %d argument(s), got %d", sig.Name, sig.MinArgs, got)
	}
	if sig.MaxArgs < 0 {
		return fmt.Sprintf("%s() expects at least %d argument(s), got %d", sig.Name, sig.MinArgs, got)
	}
	return fmt.Sprintf("%s() expects %d to %d arguments, got %d", sig.Name, sig.MinArgs, sig.MaxArgs, got)
}

// CheckArity validates an already-resolved call's argument count, used by
// the evaluator for the handful of built-ins (if, count, group_by) whose
// arguments are special-cased rather than routed through Call.
func CheckArity(name string, got int) error {
	sig, ok := Lookup(name)
	if !ok {
		return fmt.Errorf("unknown function %q", name)
	}
	if got < sig.MinArgs || (sig.MaxArgs >= 0 && got > sig.MaxArgs) {
		return arityError(sig, got)
	}
	return nil
}

func typeError(fn string, argIndex int, want string, got *uv.Value) error {
	return fmt.Errorf("%s() expects %s for argument %d, got %s", fn, want, argIndex+1, got.Kind())
}
