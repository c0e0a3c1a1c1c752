package builtins

import (
	"fmt"

	"github.com/morphcli/morph/internal/uv"
)

func init() {
	register("len", 1, 1, fnLen)
	register("keys", 1, 1, fnKeys)
	register("values", 1, 1, fnValues)
	register("unique", 1, 1, fnUnique)
	register("reverse", 1, 1, fnReverse)
	register("first", 1, 1, fnFirst)
	register("last", 1, 1, fnLast)
	register("count", 2, 2, fnCount)
	register("group_by", 2, 2, fnGroupBy)
	register("flatten", 1, 2, fnFlatten)
}

func fnLen(args []*uv.Value, _ Deps) (*uv.Value, error) {
	v := args[0]
	switch v.Kind() {
	case uv.KindArray:
		return uv.Int(int64(v.ArrayLen())), nil
	case uv.KindMap:
		return uv.Int(int64(v.MapLen())), nil
	case uv.KindString:
		return uv.Int(int64(len([]rune(v.StringValue())))), nil
	default:
		return nil, typeError("len", 0, "array, map, or string", v)
	}
}

// fnCount is registered only so Lookup/Names see count()'s name and arity
// for parse-time validation (and "did you mean?" suggestions); its second
// argument is a per-element condition expression, not a plain value, so
// the call is always intercepted and evaluated specially by the evaluator
// (spec §4.6) before reaching this registry. See eval.evalCount.
func fnCount(args []*uv.Value, _ Deps) (*uv.Value, error) {
	return nil, fmt.Errorf("count() must be called directly; its condition cannot be passed as a value")
}

func fnKeys(args []*uv.Value, _ Deps) (*uv.Value, error) {
	v := args[0]
	if v.Kind() != uv.KindMap {
		return nil, typeError("keys", 0, "map", v)
	}
	ks := v.MapKeys()
	out := uv.NewArray(len(ks))
	for _, k := range ks {
		out.ArrayAppend(uv.String(k))
	}
	return out, nil
}

func fnValues(args []*uv.Value, _ Deps) (*uv.Value, error) {
	v := args[0]
	if v.Kind() != uv.KindMap {
		return nil, typeError("values", 0, "map", v)
	}
	ks := v.MapKeys()
	out := uv.NewArray(len(ks))
	for _, k := range ks {
		out.ArrayAppend(v.MapGet(k))
	}
	return out, nil
}

// unique removes duplicate elements by structural equality (spec §3.1),
// keeping the first occurrence's position.
func fnUnique(args []*uv.Value, _ Deps) (*uv.Value, error) {
	v := args[0]
	if v.Kind() != uv.KindArray {
		return nil, typeError("unique", 0, "array", v)
	}
	elems := v.ArrayElements()
	out := uv.NewArray(len(elems))
	for _, e := range elems {
		dup := false
		for _, kept := range out.ArrayElements() {
			if uv.Equal(e, kept) {
				dup = true
				break
			}
		}
		if !dup {
			out.ArrayAppend(e)
		}
	}
	return out, nil
}

func fnReverse(args []*uv.Value, _ Deps) (*uv.Value, error) {
	v := args[0]
	if v.Kind() != uv.KindArray {
		return nil, typeError("reverse", 0, "array", v)
	}
	elems := v.ArrayElements()
	out := uv.NewArray(len(elems))
	for i := len(elems) - 1; i >= 0; i-- {
		out.ArrayAppend(elems[i])
	}
	return out, nil
}

func fnFirst(args []*uv.Value, _ Deps) (*uv.Value, error) {
	v := args[0]
	if v.Kind() != uv.KindArray {
		return nil, typeError("first", 0, "array", v)
	}
	if v.ArrayLen() == 0 {
		return uv.Null(), nil
	}
	return v.ArrayGet(0), nil
}

func fnLast(args []*uv.Value, _ Deps) (*uv.Value, error) {
	v := args[0]
	if v.Kind() != uv.KindArray {
		return nil, typeError("last", 0, "array", v)
	}
	if v.ArrayLen() == 0 {
		return uv.Null(), nil
	}
	return v.ArrayGet(-1), nil
}

// fnGroupBy is registered only so Lookup/Names see group_by()'s name and
// arity for parse-time validation; its second argument is a per-element
// key expression (spec §4.6: "group_by(arr,keyExpr)"), not a plain value,
// so the call is always intercepted and evaluated specially by the
// evaluator. See eval.evalGroupBy, and this file's fnCount.
func fnGroupBy(args []*uv.Value, _ Deps) (*uv.Value, error) {
	return nil, fmt.Errorf("group_by() must be called directly; its key expression cannot be passed as a value")
}

// flatten(array[, depth]) flattens nested arrays to the given depth
// (default 1).
func fnFlatten(args []*uv.Value, _ Deps) (*uv.Value, error) {
	arr := args[0]
	if arr.Kind() != uv.KindArray {
		return nil, typeError("flatten", 0, "array", arr)
	}
	depth := 1
	if len(args) == 2 {
		if args[1].Kind() != uv.KindInt {
			return nil, typeError("flatten", 1, "int", args[1])
		}
		depth = int(args[1].IntValue())
	}
	return flattenTo(arr, depth), nil
}

func flattenTo(arr *uv.Value, depth int) *uv.Value {
	out := uv.NewArray(arr.ArrayLen())
	for _, e := range arr.ArrayElements() {
		if depth > 0 && e.Kind() == uv.KindArray {
			for _, inner := range flattenTo(e, depth-1).ArrayElements() {
				out.ArrayAppend(inner)
			}
			continue
		}
		out.ArrayAppend(e)
	}
	return out
}
