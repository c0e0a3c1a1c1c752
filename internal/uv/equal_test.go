package uv

import "testing"

func TestEqualVariantStrict(t *testing.T) {
	if Equal(Int(1), Float(1.0)) {
		t.Error("Int(1) should not equal Float(1.0): Equal is variant-strict")
	}
	if !Equal(Int(1), Int(1)) {
		t.Error("Int(1) should equal Int(1)")
	}
}

func TestEqualMapIgnoresOrder(t *testing.T) {
	a := NewMap()
	a.MapSet("x", Int(1))
	a.MapSet("y", Int(2))

	b := NewMap()
	b.MapSet("y", Int(2))
	b.MapSet("x", Int(1))

	if !Equal(a, b) {
		t.Error("maps with the same entries in a different order should be equal")
	}
}

func TestEqualArrayOrderSensitive(t *testing.T) {
	a := Array(Int(1), Int(2))
	b := Array(Int(2), Int(1))

	if Equal(a, b) {
		t.Error("arrays with elements in a different order should not be equal")
	}
}

func TestEqualNestedStructures(t *testing.T) {
	a := NewMap()
	a.MapSet("items", Array(Int(1), String("two")))

	b := NewMap()
	b.MapSet("items", Array(Int(1), String("two")))

	if !Equal(a, b) {
		t.Error("structurally identical nested maps/arrays should be equal")
	}

	b.MapGet("items").ArraySet(1, String("three"))
	if Equal(a, b) {
		t.Error("differing nested element should make maps unequal")
	}
}
