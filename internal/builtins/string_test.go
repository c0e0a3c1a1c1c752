package builtins

import (
	"testing"

	"github.com/morphcli/morph/internal/uv"
)

func TestJoinAndSplit(t *testing.T) {
	arr := uv.Array(uv.String("a"), uv.String("b"), uv.String("c"))
	if got := call(t, "join", arr, uv.String(",")).StringValue(); got != "a,b,c" {
		t.Errorf("join = %q, want a,b,c", got)
	}

	got := call(t, "split", uv.String("a,b,c"), uv.String(","))
	if got.ArrayLen() != 3 || got.ArrayGet(1).StringValue() != "b" {
		t.Errorf("split = %v, want [a b c]", got.ArrayElements())
	}
}

func TestLowerUpperTrim(t *testing.T) {
	if got := call(t, "lower", uv.String("ABC")).StringValue(); got != "abc" {
		t.Errorf("lower = %q, want abc", got)
	}
	if got := call(t, "upper", uv.String("abc")).StringValue(); got != "ABC" {
		t.Errorf("upper = %q, want ABC", got)
	}
	if got := call(t, "trim", uv.String("  x  ")).StringValue(); got != "x" {
		t.Errorf("trim = %q, want x", got)
	}
}

func TestReplace(t *testing.T) {
	got := call(t, "replace", uv.String("ababab"), uv.String("a"), uv.String("X"))
	if got.StringValue() != "XbXbXb" {
		t.Errorf("replace = %q, want XbXbXb", got.StringValue())
	}
}

func TestStartsEndsContains(t *testing.T) {
	if !call(t, "starts_with", uv.String("hello"), uv.String("he")).BoolValue() {
		t.Error("starts_with(hello, he) should be true")
	}
	if !call(t, "ends_with", uv.String("hello"), uv.String("lo")).BoolValue() {
		t.Error("ends_with(hello, lo) should be true")
	}
	if !call(t, "contains", uv.String("hello"), uv.String("ell")).BoolValue() {
		t.Error("contains(hello, ell) should be true")
	}
}

func TestSubstringNegativeStart(t *testing.T) {
	got := call(t, "substring", uv.String("hello"), uv.Int(-3))
	if got.StringValue() != "llo" {
		t.Errorf("substring(hello, -3) = %q, want llo", got.StringValue())
	}
}

func TestSubstringWithLength(t *testing.T) {
	got := call(t, "substring", uv.String("hello"), uv.Int(1), uv.Int(3))
	if got.StringValue() != "ell" {
		t.Errorf("substring(hello, 1, 3) = %q, want ell", got.StringValue())
	}
}

func TestPadLeftAndRight(t *testing.T) {
	if got := call(t, "pad_left", uv.String("7"), uv.Int(3), uv.String("0")).StringValue(); got != "007" {
		t.Errorf("pad_left(7, 3, 0) = %q, want 007", got)
	}
	if got := call(t, "pad_right", uv.String("7"), uv.Int(3), uv.String("0")).StringValue(); got != "700" {
		t.Errorf("pad_right(7, 3, 0) = %q, want 700", got)
	}
}

func TestPadShorterThanWidthIsNoOp(t *testing.T) {
	got := call(t, "pad_left", uv.String("hello"), uv.Int(2))
	if got.StringValue() != "hello" {
		t.Errorf("pad_left should not truncate, got %q", got.StringValue())
	}
}

func TestRegexMatchAndReplace(t *testing.T) {
	if !call(t, "regex_match", uv.String("abc123"), uv.String(`\d+`)).BoolValue() {
		t.Error("regex_match should find digits in abc123")
	}
	got := call(t, "regex_replace", uv.String("abc123"), uv.String(`\d+`), uv.String("#"))
	if got.StringValue() != "abc#" {
		t.Errorf("regex_replace = %q, want abc#", got.StringValue())
	}
}

func TestStringFunctionTypeErrors(t *testing.T) {
	if _, err := Call("lower", []*uv.Value{uv.Int(1)}, Deps{}); err == nil {
		t.Error("lower(int) should fail with a type error")
	}
}
