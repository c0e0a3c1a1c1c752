package builtins

import (
	"testing"

	"github.com/morphcli/morph/internal/uv"
)

func TestRoundHalfAwayFromZero(t *testing.T) {
	if got := call(t, "round", uv.Float(2.5)).IntValue(); got != 3 {
		t.Errorf("round(2.5) = %d, want 3", got)
	}
	if got := call(t, "round", uv.Float(-2.5)).IntValue(); got != -3 {
		t.Errorf("round(-2.5) = %d, want -3", got)
	}
}

func TestRoundWithDigitsReturnsFloat(t *testing.T) {
	got := call(t, "round", uv.Float(3.14159), uv.Int(2))
	if got.Kind() != uv.KindFloat || got.FloatValue() != 3.14 {
		t.Errorf("round(3.14159, 2) = %v, want Float(3.14)", got)
	}
}

func TestCeilAndFloor(t *testing.T) {
	if got := call(t, "ceil", uv.Float(1.1)).IntValue(); got != 2 {
		t.Errorf("ceil(1.1) = %d, want 2", got)
	}
	if got := call(t, "floor", uv.Float(1.9)).IntValue(); got != 1 {
		t.Errorf("floor(1.9) = %d, want 1", got)
	}
	if got := call(t, "ceil", uv.Int(4)).IntValue(); got != 4 {
		t.Errorf("ceil(4) = %d, want 4 (already an int)", got)
	}
}

func TestAbs(t *testing.T) {
	if got := call(t, "abs", uv.Int(-5)).IntValue(); got != 5 {
		t.Errorf("abs(-5) = %d, want 5", got)
	}
	if got := call(t, "abs", uv.Float(-1.5)).FloatValue(); got != 1.5 {
		t.Errorf("abs(-1.5) = %v, want 1.5", got)
	}
}

func TestMinMaxVariadic(t *testing.T) {
	if got := call(t, "min", uv.Int(3), uv.Int(1), uv.Int(2)).IntValue(); got != 1 {
		t.Errorf("min(3,1,2) = %d, want 1", got)
	}
	if got := call(t, "max", uv.Int(3), uv.Int(1), uv.Int(2)).IntValue(); got != 3 {
		t.Errorf("max(3,1,2) = %d, want 3", got)
	}
}

func TestMinMaxOverSingleArrayArgument(t *testing.T) {
	arr := uv.Array(uv.Int(5), uv.Int(9), uv.Int(2))
	if got := call(t, "min", arr).IntValue(); got != 2 {
		t.Errorf("min([5,9,2]) = %d, want 2", got)
	}
	if got := call(t, "max", arr).IntValue(); got != 9 {
		t.Errorf("max([5,9,2]) = %d, want 9", got)
	}
}

func TestSumAllIntReturnsInt(t *testing.T) {
	got := call(t, "sum", uv.Array(uv.Int(1), uv.Int(2), uv.Int(3)))
	if got.Kind() != uv.KindInt || got.IntValue() != 6 {
		t.Errorf("sum([1,2,3]) = %v, want Int(6)", got)
	}
}

func TestSumWithAnyFloatReturnsFloat(t *testing.T) {
	got := call(t, "sum", uv.Array(uv.Int(1), uv.Float(2.5)))
	if got.Kind() != uv.KindFloat || got.FloatValue() != 3.5 {
		t.Errorf("sum([1, 2.5]) = %v, want Float(3.5)", got)
	}
}
