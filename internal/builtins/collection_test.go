package builtins

import (
	"testing"

	"github.com/morphcli/morph/internal/uv"
)

func call(t *testing.T, name string, args ...*uv.Value) *uv.Value {
	t.Helper()
	v, err := Call(name, args, Deps{})
	if err != nil {
		t.Fatalf("%s(...) returned error: %v", name, err)
	}
	return v
}

func TestLenOverArrayMapString(t *testing.T) {
	if got := call(t, "len", uv.Array(uv.Int(1), uv.Int(2))).IntValue(); got != 2 {
		t.Errorf("len(array) = %d, want 2", got)
	}
	m := uv.NewMap()
	m.MapSet("a", uv.Int(1))
	if got := call(t, "len", m).IntValue(); got != 1 {
		t.Errorf("len(map) = %d, want 1", got)
	}
	if got := call(t, "len", uv.String("hello")).IntValue(); got != 5 {
		t.Errorf("len(string) = %d, want 5", got)
	}
}

func TestLenOnUnsupportedTypeIsError(t *testing.T) {
	if _, err := Call("len", []*uv.Value{uv.Int(1)}, Deps{}); err == nil {
		t.Error("len(int) should fail")
	}
}

func TestKeysAndValuesPreserveOrder(t *testing.T) {
	m := uv.NewMap()
	m.MapSet("b", uv.Int(2))
	m.MapSet("a", uv.Int(1))

	keys := call(t, "keys", m)
	if keys.ArrayGet(0).StringValue() != "b" || keys.ArrayGet(1).StringValue() != "a" {
		t.Errorf("keys() = %v, want insertion order [b a]", keys.ArrayElements())
	}

	values := call(t, "values", m)
	if values.ArrayGet(0).IntValue() != 2 || values.ArrayGet(1).IntValue() != 1 {
		t.Errorf("values() = %v, want [2 1]", values.ArrayElements())
	}
}

func TestUniqueKeepsFirstOccurrence(t *testing.T) {
	arr := uv.Array(uv.Int(1), uv.Int(2), uv.Int(1), uv.Int(3), uv.Int(2))
	got := call(t, "unique", arr)
	if got.ArrayLen() != 3 {
		t.Fatalf("unique() has %d elements, want 3", got.ArrayLen())
	}
	want := []int64{1, 2, 3}
	for i, w := range want {
		if got.ArrayGet(i).IntValue() != w {
			t.Errorf("unique()[%d] = %d, want %d", i, got.ArrayGet(i).IntValue(), w)
		}
	}
}

func TestReverse(t *testing.T) {
	got := call(t, "reverse", uv.Array(uv.Int(1), uv.Int(2), uv.Int(3)))
	want := []int64{3, 2, 1}
	for i, w := range want {
		if got.ArrayGet(i).IntValue() != w {
			t.Errorf("reverse()[%d] = %d, want %d", i, got.ArrayGet(i).IntValue(), w)
		}
	}
}

func TestFirstAndLastOnEmptyArrayReturnNull(t *testing.T) {
	empty := uv.NewArray(0)
	if !call(t, "first", empty).IsNull() {
		t.Error("first([]) should be null")
	}
	if !call(t, "last", empty).IsNull() {
		t.Error("last([]) should be null")
	}
}

func TestFirstAndLast(t *testing.T) {
	arr := uv.Array(uv.Int(1), uv.Int(2), uv.Int(3))
	if call(t, "first", arr).IntValue() != 1 {
		t.Error("first() should return the first element")
	}
	if call(t, "last", arr).IntValue() != 3 {
		t.Error("last() should return the last element")
	}
}

// group_by()'s key argument is a per-element expression, not a plain
// value, so it's always intercepted and evaluated specially by the
// evaluator; calling it through the plain registry always rejects. See
// internal/eval for group_by()'s actual bucketing behavior.
func TestGroupByThroughRegistryIsRejected(t *testing.T) {
	arr := uv.NewArray(0)
	arr.ArrayAppend(uv.NewMap())
	if _, err := Call("group_by", []*uv.Value{arr, uv.String("group")}, Deps{}); err == nil {
		t.Error("group_by() called through the plain registry should fail")
	}
}

func TestFlattenDefaultDepthOne(t *testing.T) {
	nested := uv.Array(uv.Array(uv.Int(1), uv.Int(2)), uv.Array(uv.Int(3)))
	got := call(t, "flatten", nested)
	want := []int64{1, 2, 3}
	if got.ArrayLen() != len(want) {
		t.Fatalf("flatten() has %d elements, want %d", got.ArrayLen(), len(want))
	}
	for i, w := range want {
		if got.ArrayGet(i).IntValue() != w {
			t.Errorf("flatten()[%d] = %d, want %d", i, got.ArrayGet(i).IntValue(), w)
		}
	}
}

func TestFlattenRespectsExplicitDepth(t *testing.T) {
	nested := uv.Array(uv.Array(uv.Array(uv.Int(1))))
	got := call(t, "flatten", nested, uv.Int(2))
	if got.ArrayLen() != 1 || got.ArrayGet(0).IntValue() != 1 {
		t.Errorf("flatten(arr, 2) = %v, want fully flattened [1]", got.ArrayElements())
	}
}

func TestArityErrorMessage(t *testing.T) {
	_, err := Call("len", nil, Deps{})
	if err == nil {
		t.Fatal("len() with no args should fail arity check")
	}
}
