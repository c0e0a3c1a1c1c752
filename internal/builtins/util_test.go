package builtins

import (
	"testing"

	"github.com/morphcli/morph/internal/uv"
)

func TestCoalesceReturnsFirstNonNull(t *testing.T) {
	got := call(t, "coalesce", uv.Null(), uv.Null(), uv.Int(5), uv.Int(9))
	if got.IntValue() != 5 {
		t.Errorf("coalesce = %v, want 5", got)
	}
}

func TestCoalesceAllNullReturnsNull(t *testing.T) {
	if !call(t, "coalesce", uv.Null(), uv.Null()).IsNull() {
		t.Error("coalesce(null, null) should be null")
	}
}

// if()'s branch selection is evaluated specially by the evaluator (its
// unselected branch may not even be safe to evaluate), so calling it
// through the plain registry always rejects; see internal/eval for its
// actual branch-selection behavior.
func TestIfThroughRegistryIsRejected(t *testing.T) {
	if _, err := Call("if", []*uv.Value{uv.Bool(true), uv.String("yes"), uv.String("no")}, Deps{}); err == nil {
		t.Error("if() called through the plain registry should fail")
	}
}

func TestNowUsesInjectedClock(t *testing.T) {
	v, err := Call("now", nil, Deps{Now: func() int64 { return 42 }})
	if err != nil {
		t.Fatalf("now() returned error: %v", err)
	}
	if v.StringValue() != "1970-01-01T00:00:42Z" {
		t.Errorf("now() = %v, want 1970-01-01T00:00:42Z", v)
	}
}

func TestEnvUsesInjectedLookup(t *testing.T) {
	deps := Deps{Env: func(name string) (string, bool) {
		if name == "HOME" {
			return "/root", true
		}
		return "", false
	}}
	v, err := Call("env", []*uv.Value{uv.String("HOME")}, deps)
	if err != nil {
		t.Fatalf("env(HOME) returned error: %v", err)
	}
	if v.StringValue() != "/root" {
		t.Errorf("env(HOME) = %q, want /root", v.StringValue())
	}
}

func TestEnvFallsBackToDefaultWhenUnset(t *testing.T) {
	deps := Deps{Env: func(string) (string, bool) { return "", false }}
	v, err := Call("env", []*uv.Value{uv.String("MISSING"), uv.String("fallback")}, deps)
	if err != nil {
		t.Fatalf("env() returned error: %v", err)
	}
	if v.StringValue() != "fallback" {
		t.Errorf("env(MISSING, fallback) = %q, want fallback", v.StringValue())
	}
}

func TestEnvWithoutDefaultIsNullWhenUnset(t *testing.T) {
	deps := Deps{Env: func(string) (string, bool) { return "", false }}
	v, err := Call("env", []*uv.Value{uv.String("MISSING")}, deps)
	if err != nil {
		t.Fatalf("env() returned error: %v", err)
	}
	if !v.IsNull() {
		t.Error("env(MISSING) with no default should be null")
	}
}

func TestParseDateAndFormatDateRoundTrip(t *testing.T) {
	parsed, err := Call("parse_date", []*uv.Value{uv.String("2024-01-15"), uv.String("%Y-%m-%d")}, Deps{})
	if err != nil {
		t.Fatalf("parse_date returned error: %v", err)
	}
	formatted, err := Call("format_date", []*uv.Value{parsed, uv.String("%Y-%m-%d")}, Deps{})
	if err != nil {
		t.Fatalf("format_date returned error: %v", err)
	}
	if formatted.StringValue() != "2024-01-15" {
		t.Errorf("format_date(parse_date(x)) = %q, want 2024-01-15", formatted.StringValue())
	}
}

func TestCallUnknownFunctionIsError(t *testing.T) {
	if _, err := Call("nope", nil, Deps{}); err == nil {
		t.Error("calling an unregistered function should fail")
	}
}

func TestCallArityBounds(t *testing.T) {
	if _, err := Call("if", []*uv.Value{uv.Bool(true)}, Deps{}); err == nil {
		t.Error("if() with too few arguments should fail")
	}
	if _, err := Call("now", []*uv.Value{uv.Int(1)}, Deps{}); err == nil {
		t.Error("now() with arguments should fail (arity 0)")
	}
}
