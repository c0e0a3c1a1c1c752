package uv

import "testing"

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindNull, "null"},
		{KindBool, "bool"},
		{KindInt, "int"},
		{KindFloat, "float"},
		{KindString, "string"},
		{KindBytes, "bytes"},
		{KindArray, "array"},
		{KindMap, "map"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestNilValueIsNull(t *testing.T) {
	var v *Value
	if !v.IsNull() {
		t.Error("nil *Value should report IsNull() == true")
	}
	if v.Kind() != KindNull {
		t.Errorf("nil *Value.Kind() = %v, want KindNull", v.Kind())
	}
}

func TestArrayGetSetNegativeIndex(t *testing.T) {
	arr := Array(Int(1), Int(2), Int(3))

	if got := arr.ArrayGet(-1); got.IntValue() != 3 {
		t.Errorf("ArrayGet(-1) = %d, want 3", got.IntValue())
	}

	if !arr.ArraySet(-1, Int(99)) {
		t.Fatal("ArraySet(-1, ...) should succeed")
	}
	if got := arr.ArrayGet(2); got.IntValue() != 99 {
		t.Errorf("after ArraySet(-1, 99), ArrayGet(2) = %d, want 99", got.IntValue())
	}

	if arr.ArraySet(5, Int(0)) {
		t.Error("ArraySet(5, ...) should fail on a 3-element array")
	}
}

func TestArrayDeleteClosesGap(t *testing.T) {
	arr := Array(Int(1), Int(2), Int(3))
	if !arr.ArrayDelete(1) {
		t.Fatal("ArrayDelete(1) should succeed")
	}
	if arr.ArrayLen() != 2 {
		t.Fatalf("ArrayLen() = %d, want 2", arr.ArrayLen())
	}
	if arr.ArrayGet(0).IntValue() != 1 || arr.ArrayGet(1).IntValue() != 3 {
		t.Error("ArrayDelete(1) did not close the gap correctly")
	}
}

func TestMapPreservesInsertionOrder(t *testing.T) {
	m := NewMap()
	m.MapSet("b", Int(2))
	m.MapSet("a", Int(1))
	m.MapSet("c", Int(3))

	want := []string{"b", "a", "c"}
	got := m.MapKeys()
	if len(got) != len(want) {
		t.Fatalf("MapKeys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("MapKeys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMapSetExistingKeyKeepsPosition(t *testing.T) {
	m := NewMap()
	m.MapSet("a", Int(1))
	m.MapSet("b", Int(2))
	m.MapSet("a", Int(100))

	want := []string{"a", "b"}
	got := m.MapKeys()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("MapKeys() = %v, want %v", got, want)
		}
	}
	if m.MapGet("a").IntValue() != 100 {
		t.Errorf("MapGet(a) = %d, want 100", m.MapGet("a").IntValue())
	}
}

func TestMapDelete(t *testing.T) {
	m := NewMap()
	m.MapSet("a", Int(1))
	m.MapSet("b", Int(2))

	if !m.MapDelete("a") {
		t.Fatal("MapDelete(a) should report true")
	}
	if m.MapHas("a") {
		t.Error("a should be gone after MapDelete")
	}
	if m.MapDelete("a") {
		t.Error("MapDelete(a) a second time should report false")
	}
	if got := m.MapKeys(); len(got) != 1 || got[0] != "b" {
		t.Errorf("MapKeys() after delete = %v, want [b]", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := NewMap()
	orig.MapSet("nums", Array(Int(1), Int(2)))

	clone := orig.Clone()
	clone.MapGet("nums").ArraySet(0, Int(99))

	if orig.MapGet("nums").ArrayGet(0).IntValue() != 1 {
		t.Error("mutating a clone's nested array must not affect the original")
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		name string
		v    *Value
		want bool
	}{
		{"null", Null(), false},
		{"false", Bool(false), false},
		{"true", Bool(true), true},
		{"zero int", Int(0), false},
		{"nonzero int", Int(1), true},
		{"zero float", Float(0), false},
		{"nonzero float", Float(0.1), true},
		{"empty string", String(""), false},
		{"nonempty string", String("x"), true},
		{"empty array", NewArray(0), false},
		{"nonempty array", Array(Int(1)), true},
		{"empty map", NewMap(), false},
	}

	for _, tt := range tests {
		if got := tt.v.Truthy(); got != tt.want {
			t.Errorf("%s: Truthy() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
