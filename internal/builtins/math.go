package builtins

import (
	"fmt"
	"math"

	"github.com/morphcli/morph/internal/uv"
)

func init() {
	register("round", 1, 2, fnRound)
	register("ceil", 1, 1, fnCeil)
	register("floor", 1, 1, fnFloor)
	register("abs", 1, 1, fnAbs)
	register("min", 1, -1, fnMin)
	register("max", 1, -1, fnMax)
	register("sum", 1, 1, fnSum)
}

func wantNumber(fn string, idx int, v *uv.Value) (float64, bool, error) {
	switch v.Kind() {
	case uv.KindInt:
		return float64(v.IntValue()), true, nil
	case uv.KindFloat:
		return v.FloatValue(), false, nil
	default:
		return 0, false, typeError(fn, idx, "number", v)
	}
}

// round(x[, digits]) rounds half away from zero, matching common
// spreadsheet/display conventions rather than Go's round-half-to-even.
func fnRound(args []*uv.Value, _ Deps) (*uv.Value, error) {
	f, _, err := wantNumber("round", 0, args[0])
	if err != nil {
		return nil, err
	}
	digits := 0
	if len(args) == 2 {
		if args[1].Kind() != uv.KindInt {
			return nil, typeError("round", 1, "int", args[1])
		}
		digits = int(args[1].IntValue())
	}
	scale := math.Pow(10, float64(digits))
	rounded := math.Round(f*scale) / scale
	if digits <= 0 {
		return uv.Int(int64(rounded)), nil
	}
	return uv.Float(rounded), nil
}

func fnCeil(args []*uv.Value, _ Deps) (*uv.Value, error) {
	f, isInt, err := wantNumber("ceil", 0, args[0])
	if err != nil {
		return nil, err
	}
	if isInt {
		return uv.Int(int64(f)), nil
	}
	return uv.Int(int64(math.Ceil(f))), nil
}

func fnFloor(args []*uv.Value, _ Deps) (*uv.Value, error) {
	f, isInt, err := wantNumber("floor", 0, args[0])
	if err != nil {
		return nil, err
	}
	if isInt {
		return uv.Int(int64(f)), nil
	}
	return uv.Int(int64(math.Floor(f))), nil
}

func fnAbs(args []*uv.Value, _ Deps) (*uv.Value, error) {
	v := args[0]
	switch v.Kind() {
	case uv.KindInt:
		n := v.IntValue()
		if n < 0 {
			n = -n
		}
		return uv.Int(n), nil
	case uv.KindFloat:
		return uv.Float(math.Abs(v.FloatValue())), nil
	default:
		return nil, typeError("abs", 0, "number", v)
	}
}

func fnMin(args []*uv.Value, _ Deps) (*uv.Value, error) {
	return minMax(args, false)
}

func fnMax(args []*uv.Value, _ Deps) (*uv.Value, error) {
	return minMax(args, true)
}

// min/max accept either a single array argument or a variadic argument
// list, both documented in spec §4.6.
func minMax(args []*uv.Value, wantMax bool) (*uv.Value, error) {
	vals := args
	if len(args) == 1 && args[0].Kind() == uv.KindArray {
		vals = args[0].ArrayElements()
		if len(vals) == 0 {
			return nil, fmt.Errorf("min/max() called on an empty array")
		}
	}
	best := vals[0]
	for _, v := range vals[1:] {
		cmp, err := uv.Compare(v, best)
		if err != nil {
			return nil, err
		}
		if (wantMax && cmp > 0) || (!wantMax && cmp < 0) {
			best = v
		}
	}
	return best, nil
}

func fnSum(args []*uv.Value, _ Deps) (*uv.Value, error) {
	arr := args[0]
	if arr.Kind() != uv.KindArray {
		return nil, typeError("sum", 0, "array", arr)
	}
	var total float64
	allInt := true
	for i, e := range arr.ArrayElements() {
		f, isInt, err := wantNumber("sum", 0, e)
		if err != nil {
			return nil, fmt.Errorf("sum() element %d: %w", i, err)
		}
		if !isInt {
			allInt = false
		}
		total += f
	}
	if allInt {
		return uv.Int(int64(total)), nil
	}
	return uv.Float(total), nil
}
