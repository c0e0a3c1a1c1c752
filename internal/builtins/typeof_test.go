package builtins

import (
	"testing"

	"github.com/morphcli/morph/internal/uv"
)

func TestTypeOf(t *testing.T) {
	tests := []struct {
		v    *uv.Value
		want string
	}{
		{uv.Null(), "null"},
		{uv.Int(1), "int"},
		{uv.Float(1.0), "float"},
		{uv.String("x"), "string"},
		{uv.Bool(true), "bool"},
		{uv.NewArray(0), "array"},
		{uv.NewMap(), "map"},
	}
	for _, tt := range tests {
		if got := call(t, "type_of", tt.v).StringValue(); got != tt.want {
			t.Errorf("type_of(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestIsPredicates(t *testing.T) {
	if !call(t, "is_null", uv.Null()).BoolValue() {
		t.Error("is_null(null) should be true")
	}
	if !call(t, "is_array", uv.NewArray(0)).BoolValue() {
		t.Error("is_array([]) should be true")
	}
	if !call(t, "is_object", uv.NewMap()).BoolValue() {
		t.Error("is_object({}) should be true")
	}
	if !call(t, "is_string", uv.String("x")).BoolValue() {
		t.Error("is_string(x) should be true")
	}
	if !call(t, "is_number", uv.Int(1)).BoolValue() {
		t.Error("is_number(1) should be true")
	}
	if !call(t, "is_number", uv.Float(1.5)).BoolValue() {
		t.Error("is_number(1.5) should be true")
	}
	if call(t, "is_number", uv.String("1")).BoolValue() {
		t.Error("is_number(\"1\") should be false: a numeric-looking string is still a string")
	}
}
