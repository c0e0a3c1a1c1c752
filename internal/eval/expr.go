package eval

import (
	"fmt"
	"math"
	"strings"

	"github.com/morphcli/morph/internal/ast"
	"github.com/morphcli/morph/internal/builtins"
	"github.com/morphcli/morph/internal/uv"
	"github.com/morphcli/morph/internal/uvpath"
)

// evalExpr evaluates an expression against the current scope. Arithmetic
// promotes Int to Float whenever either operand is Float (spec §3.1); `and`
// and `or` short-circuit, matching the teacher's boolean-operator handling.
func (e *Evaluator) evalExpr(expr ast.Expression, scope *uv.Value) (*uv.Value, error) {
	switch ex := expr.(type) {
	case *ast.Literal:
		return e.evalLiteral(ex), nil
	case *ast.PathExpr:
		return e.evalPath(ex, scope)
	case *ast.ArrayLiteral:
		return e.evalArrayLiteral(ex, scope)
	case *ast.BinaryExpr:
		return e.evalBinary(ex, scope)
	case *ast.UnaryExpr:
		return e.evalUnary(ex, scope)
	case *ast.CallExpr:
		return e.evalCall(ex, scope)
	case *ast.Interpolation:
		return e.evalInterpolation(ex, scope)
	case nil:
		return uv.Null(), nil
	default:
		return nil, fmt.Errorf("eval: unsupported expression type %T", expr)
	}
}

func (e *Evaluator) evalLiteral(lit *ast.Literal) *uv.Value {
	switch lit.Kind {
	case ast.LitInt:
		return uv.Int(lit.IntVal)
	case ast.LitFloat:
		return uv.Float(lit.FloatVal)
	case ast.LitString:
		return uv.String(lit.StrVal)
	case ast.LitBool:
		return uv.Bool(lit.BoolVal)
	default:
		return uv.Null()
	}
}

// evalPath resolves a path reference within an expression. An empty match
// yields Null rather than an error, so that e.g. `default` statements can
// test for an absent field; a wildcard match takes its first element,
// since arithmetic and comparisons operate on single values.
func (e *Evaluator) evalPath(p *ast.PathExpr, scope *uv.Value) (*uv.Value, error) {
	path, err := e.resolvePath(p)
	if err != nil {
		return nil, err
	}
	vals, err := uvpath.Get(scope, path)
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return uv.Null(), nil
	}
	return vals[0], nil
}

func (e *Evaluator) evalArrayLiteral(a *ast.ArrayLiteral, scope *uv.Value) (*uv.Value, error) {
	out := uv.NewArray(len(a.Elements))
	for _, elemExpr := range a.Elements {
		v, err := e.evalExpr(elemExpr, scope)
		if err != nil {
			return nil, err
		}
		out.ArrayAppend(v)
	}
	return out, nil
}

func (e *Evaluator) evalUnary(u *ast.UnaryExpr, scope *uv.Value) (*uv.Value, error) {
	operand, err := e.evalExpr(u.Operand, scope)
	if err != nil {
		return nil, err
	}
	switch u.Op {
	case ast.OpNot:
		return uv.Bool(!operand.Truthy()), nil
	case ast.OpNeg:
		switch operand.Kind() {
		case uv.KindInt:
			return uv.Int(-operand.IntValue()), nil
		case uv.KindFloat:
			return uv.Float(-operand.FloatValue()), nil
		default:
			return nil, fmt.Errorf("cannot negate a %s", operand.Kind())
		}
	default:
		return nil, fmt.Errorf("eval: unknown unary operator")
	}
}

func (e *Evaluator) evalBinary(b *ast.BinaryExpr, scope *uv.Value) (*uv.Value, error) {
	// `and`/`or` short-circuit: the right operand is only evaluated when
	// the left side didn't already decide the result.
	if b.Op == ast.OpAnd {
		left, err := e.evalExpr(b.Left, scope)
		if err != nil {
			return nil, err
		}
		if !left.Truthy() {
			return uv.Bool(false), nil
		}
		right, err := e.evalExpr(b.Right, scope)
		if err != nil {
			return nil, err
		}
		return uv.Bool(right.Truthy()), nil
	}
	if b.Op == ast.OpOr {
		left, err := e.evalExpr(b.Left, scope)
		if err != nil {
			return nil, err
		}
		if left.Truthy() {
			return uv.Bool(true), nil
		}
		right, err := e.evalExpr(b.Right, scope)
		if err != nil {
			return nil, err
		}
		return uv.Bool(right.Truthy()), nil
	}

	left, err := e.evalExpr(b.Left, scope)
	if err != nil {
		return nil, err
	}
	right, err := e.evalExpr(b.Right, scope)
	if err != nil {
		return nil, err
	}

	switch b.Op {
	case ast.OpAdd:
		return evalAdd(left, right)
	case ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		return evalArith(b.Op, left, right)
	case ast.OpEq:
		return uv.Bool(uv.Equal(left, right)), nil
	case ast.OpNotEq:
		return uv.Bool(!uv.Equal(left, right)), nil
	case ast.OpLt, ast.OpLtEq, ast.OpGt, ast.OpGtEq:
		cmp, err := uv.Compare(left, right)
		if err != nil {
			return nil, err
		}
		switch b.Op {
		case ast.OpLt:
			return uv.Bool(cmp < 0), nil
		case ast.OpLtEq:
			return uv.Bool(cmp <= 0), nil
		case ast.OpGt:
			return uv.Bool(cmp > 0), nil
		default:
			return uv.Bool(cmp >= 0), nil
		}
	default:
		return nil, fmt.Errorf("eval: unknown binary operator")
	}
}

// evalAdd implements `+`, which doubles as both numeric addition and
// string concatenation when either operand is a string.
func evalAdd(left, right *uv.Value) (*uv.Value, error) {
	if left.Kind() == uv.KindString || right.Kind() == uv.KindString {
		ls, err := stringOf(left)
		if err != nil {
			return nil, err
		}
		rs, err := stringOf(right)
		if err != nil {
			return nil, err
		}
		return uv.String(ls + rs), nil
	}
	return evalArith(ast.OpAdd, left, right)
}

func stringOf(v *uv.Value) (string, error) {
	casted, _, err := uv.Cast(v, uv.KindString)
	if err != nil {
		return "", err
	}
	return casted.StringValue(), nil
}

// evalArith promotes Int to Float whenever either operand is Float.
func evalArith(op ast.BinaryOp, left, right *uv.Value) (*uv.Value, error) {
	if !isNumeric(left) || !isNumeric(right) {
		return nil, fmt.Errorf("arithmetic requires numeric operands, got %s and %s", left.Kind(), right.Kind())
	}
	if left.Kind() == uv.KindFloat || right.Kind() == uv.KindFloat {
		lf := toFloat(left)
		rf := toFloat(right)
		switch op {
		case ast.OpAdd:
			return uv.Float(lf + rf), nil
		case ast.OpSub:
			return uv.Float(lf - rf), nil
		case ast.OpMul:
			return uv.Float(lf * rf), nil
		case ast.OpDiv:
			if rf == 0 {
				return nil, fmt.Errorf("division by zero")
			}
			return uv.Float(lf / rf), nil
		case ast.OpMod:
			if rf == 0 {
				return nil, fmt.Errorf("division by zero")
			}
			return uv.Float(floatMod(lf, rf)), nil
		}
	}
	li := left.IntValue()
	ri := right.IntValue()
	switch op {
	case ast.OpAdd:
		return uv.Int(li + ri), nil
	case ast.OpSub:
		return uv.Int(li - ri), nil
	case ast.OpMul:
		return uv.Int(li * ri), nil
	case ast.OpDiv:
		if ri == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return uv.Int(li / ri), nil
	case ast.OpMod:
		if ri == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return uv.Int(li % ri), nil
	}
	return nil, fmt.Errorf("eval: unknown arithmetic operator")
}

func isNumeric(v *uv.Value) bool {
	return v.Kind() == uv.KindInt || v.Kind() == uv.KindFloat
}

func toFloat(v *uv.Value) float64 {
	if v.Kind() == uv.KindFloat {
		return v.FloatValue()
	}
	return float64(v.IntValue())
}

func floatMod(a, b float64) float64 {
	return math.Mod(a, b)
}

// evalCall dispatches a call expression. Most built-ins evaluate every
// argument eagerly against the current scope and hand the resulting values
// to the registry (spec §4.6). Three names get special treatment because
// an argument isn't a plain value expression:
//
//   - if(c,t,e) evaluates only the branch the condition selects ("lazy in
//     branches", spec §4.6) — the other branch may be invalid to evaluate
//     at all (e.g. it indexes a field that only exists on the true path).
//   - count(arr,cond) and group_by(arr,keyExpr) evaluate their second
//     argument once per element of the first, with `.` rebound to that
//     element (spec §4.6), the same per-element scoping `each` and `sort`
//     use; there is no single scope against which to eagerly evaluate it.
func (e *Evaluator) evalCall(c *ast.CallExpr, scope *uv.Value) (*uv.Value, error) {
	switch c.Name {
	case "if":
		return e.evalIf(c, scope)
	case "count":
		return e.evalCount(c, scope)
	case "group_by":
		return e.evalGroupBy(c, scope)
	}

	args := make([]*uv.Value, len(c.Args))
	for i, argExpr := range c.Args {
		v, err := e.evalExpr(argExpr, scope)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return builtins.Call(c.Name, args, e.Deps)
}

func (e *Evaluator) evalIf(c *ast.CallExpr, scope *uv.Value) (*uv.Value, error) {
	if err := builtins.CheckArity("if", len(c.Args)); err != nil {
		return nil, err
	}
	cond, err := e.evalExpr(c.Args[0], scope)
	if err != nil {
		return nil, err
	}
	if cond.Truthy() {
		return e.evalExpr(c.Args[1], scope)
	}
	return e.evalExpr(c.Args[2], scope)
}

func (e *Evaluator) evalCount(c *ast.CallExpr, scope *uv.Value) (*uv.Value, error) {
	if err := builtins.CheckArity("count", len(c.Args)); err != nil {
		return nil, err
	}
	arr, err := e.evalExpr(c.Args[0], scope)
	if err != nil {
		return nil, err
	}
	if arr.Kind() != uv.KindArray {
		return nil, fmt.Errorf("count() expects an array for argument 1, got %s", arr.Kind())
	}
	n := 0
	for _, elem := range arr.ArrayElements() {
		matched, err := e.evalExpr(c.Args[1], elem)
		if err != nil {
			return nil, err
		}
		if matched.Truthy() {
			n++
		}
	}
	return uv.Int(int64(n)), nil
}

func (e *Evaluator) evalGroupBy(c *ast.CallExpr, scope *uv.Value) (*uv.Value, error) {
	if err := builtins.CheckArity("group_by", len(c.Args)); err != nil {
		return nil, err
	}
	arr, err := e.evalExpr(c.Args[0], scope)
	if err != nil {
		return nil, err
	}
	if arr.Kind() != uv.KindArray {
		return nil, fmt.Errorf("group_by() expects an array for argument 1, got %s", arr.Kind())
	}
	out := uv.NewMap()
	for _, elem := range arr.ArrayElements() {
		keyVal, err := e.evalExpr(c.Args[1], elem)
		if err != nil {
			return nil, err
		}
		keyStr, _, err := uv.Cast(keyVal, uv.KindString)
		if err != nil {
			return nil, fmt.Errorf("group_by() key: %w", err)
		}
		key := keyStr.StringValue()
		bucket := out.MapGet(key)
		if bucket == nil {
			bucket = uv.NewArray(0)
			out.MapSet(key, bucket)
		}
		bucket.ArrayAppend(elem)
	}
	return out, nil
}

func (e *Evaluator) evalInterpolation(interp *ast.Interpolation, scope *uv.Value) (*uv.Value, error) {
	var sb strings.Builder
	for _, part := range interp.Parts {
		if part.Expr == nil {
			sb.WriteString(part.Literal)
			continue
		}
		v, err := e.evalExpr(part.Expr, scope)
		if err != nil {
			return nil, err
		}
		s, err := stringOf(v)
		if err != nil {
			return nil, err
		}
		sb.WriteString(s)
	}
	return uv.String(sb.String()), nil
}
