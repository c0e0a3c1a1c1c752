// Package eval implements the mapping language's tree-walking evaluator
// (spec §4.4): each statement in a parsed Program runs in turn against a
// single "current scope" Universal Value, with no loops, recursion, or
// user-defined functions — a property that guarantees every mapping
// program terminates. The switch-on-concrete-AST-type dispatch style
// follows the teacher's interpreter (internal/interp in go-dws), adapted
// from a symbol-table-driven language to this scope-only one.
package eval

import (
	"fmt"

	"github.com/morphcli/morph/internal/ast"
	"github.com/morphcli/morph/internal/builtins"
	"github.com/morphcli/morph/internal/uv"
	"github.com/morphcli/morph/internal/uvpath"
)

// Evaluator runs a parsed Program against successive records.
type Evaluator struct {
	Deps builtins.Deps
}

// New builds an Evaluator with the given injectable providers (spec §5,
// §9). A zero Deps falls back to the real clock and a no-op environment
// lookup.
func New(deps builtins.Deps) *Evaluator {
	return &Evaluator{Deps: deps}
}

// Result reports what running a Program against one record produced.
type Result struct {
	Value *uv.Value
}

// Run executes every statement of prog against scope in order, mutating a
// clone of scope and returning it. A top-level `where` guard (one whose
// current scope isn't an Array) that fails short-circuits the remaining
// statements and yields a literal Null result rather than omitting the
// record (spec §4.4: "for a top-level where, the output is Null").
func (e *Evaluator) Run(prog *ast.Program, scope *uv.Value) (Result, error) {
	cur := scope.Clone()
	for _, stmt := range prog.Statements {
		stop, err := e.execStatement(stmt, cur)
		if err != nil {
			return Result{}, err
		}
		if stop {
			return Result{Value: uv.Null()}, nil
		}
	}
	return Result{Value: cur}, nil
}

// execStatement runs one statement against scope, returning true if a
// `where` guard failed and the enclosing block should short-circuit.
func (e *Evaluator) execStatement(stmt ast.Statement, scope *uv.Value) (bool, error) {
	switch s := stmt.(type) {
	case *ast.RenameStmt:
		return false, e.execRename(s, scope)
	case *ast.SelectStmt:
		return false, e.execSelect(s, scope)
	case *ast.DropStmt:
		return false, e.execDrop(s, scope)
	case *ast.FlattenStmt:
		return false, e.execFlatten(s, scope)
	case *ast.NestStmt:
		return false, e.execNest(s, scope)
	case *ast.SetStmt:
		return false, e.execSet(s, scope)
	case *ast.DefaultStmt:
		return false, e.execDefault(s, scope)
	case *ast.CastStmt:
		return false, e.execCast(s, scope)
	case *ast.WhereStmt:
		return e.execWhere(s, scope)
	case *ast.SortStmt:
		return false, e.execSort(s, scope)
	case *ast.EachStmt:
		return false, e.execEach(s, scope)
	case *ast.WhenStmt:
		return false, e.execWhen(s, scope)
	default:
		return false, fmt.Errorf("eval: unsupported statement type %T", stmt)
	}
}

func (e *Evaluator) resolvePath(p *ast.PathExpr) (uvpath.Path, error) {
	path, err := uvpath.Parse(p.Raw)
	if err != nil {
		return uvpath.Path{}, fmt.Errorf("invalid path %q: %w", p.Raw, err)
	}
	return path, nil
}

func (e *Evaluator) execRename(s *ast.RenameStmt, scope *uv.Value) error {
	path, err := e.resolvePath(s.From)
	if err != nil {
		return err
	}
	vals, err := uvpath.Get(scope, path)
	if err != nil {
		return err
	}
	if len(vals) == 0 {
		return nil
	}
	if err := uvpath.Delete(scope, path); err != nil {
		return err
	}
	if len(path.Segments) == 0 {
		return fmt.Errorf("rename requires a field path")
	}
	parent, err := parentScope(scope, path)
	if err != nil {
		return err
	}
	if parent.Kind() != uv.KindMap {
		return fmt.Errorf("rename target's parent must be a map")
	}
	parent.MapSet(s.To, vals[0])
	return nil
}

// parentScope resolves the Map that directly contains the final segment
// of path, used by statements (rename, nest) that relocate a field rather
// than just reading or overwriting it in place.
func parentScope(scope *uv.Value, path uvpath.Path) (*uv.Value, error) {
	if len(path.Segments) == 0 {
		return scope, nil
	}
	parentPath := uvpath.Path{Segments: path.Segments[:len(path.Segments)-1]}
	if len(parentPath.Segments) == 0 {
		return scope, nil
	}
	vals, err := uvpath.Get(scope, parentPath)
	if err != nil {
		return nil, err
	}
	if len(vals) != 1 {
		return nil, fmt.Errorf("path does not resolve to a single parent scope")
	}
	return vals[0], nil
}

func (e *Evaluator) execSelect(s *ast.SelectStmt, scope *uv.Value) error {
	switch scope.Kind() {
	case uv.KindMap:
		// Order the kept fields by the select list, not by the scope's
		// original insertion order (spec §4.4: "preserving the listed
		// order, not the original").
		type kept struct {
			key string
			val *uv.Value
		}
		order := make([]kept, 0, len(s.Paths))
		index := make(map[string]int, len(s.Paths))
		for _, p := range s.Paths {
			path, err := e.resolvePath(p)
			if err != nil {
				return err
			}
			vals, err := uvpath.Get(scope, path)
			if err != nil {
				return err
			}
			if len(path.Segments) == 0 {
				continue
			}
			if len(vals) == 0 {
				e.Deps.Emit(fmt.Sprintf("select: field %s not found", p.Raw))
				continue
			}
			name := path.Segments[len(path.Segments)-1].Field
			if i, ok := index[name]; ok {
				order[i].val = vals[0]
				continue
			}
			index[name] = len(order)
			order = append(order, kept{key: name, val: vals[0]})
		}
		for _, k := range scope.MapKeys() {
			scope.MapDelete(k)
		}
		for _, kv := range order {
			scope.MapSet(kv.key, kv.val)
		}
		return nil
	case uv.KindArray:
		for _, elem := range scope.ArrayElements() {
			if err := e.execSelect(s, elem); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("select: cannot project fields out of a %s", scope.Kind())
	}
}

func (e *Evaluator) execDrop(s *ast.DropStmt, scope *uv.Value) error {
	for _, p := range s.Paths {
		path, err := e.resolvePath(p)
		if err != nil {
			return err
		}
		if err := uvpath.Delete(scope, path); err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) execFlatten(s *ast.FlattenStmt, scope *uv.Value) error {
	path, err := e.resolvePath(s.Path)
	if err != nil {
		return err
	}
	vals, err := uvpath.Get(scope, path)
	if err != nil {
		return err
	}
	if len(vals) != 1 || vals[0].Kind() != uv.KindMap {
		return fmt.Errorf("flatten: path must resolve to exactly one map")
	}
	nested := vals[0]
	parent, err := parentScope(scope, path)
	if err != nil {
		return err
	}
	if parent.Kind() != uv.KindMap {
		return fmt.Errorf("flatten: parent of path must be a map")
	}
	if err := uvpath.Delete(scope, path); err != nil {
		return err
	}

	// Default prefix is the path's final segment joined with "_" (spec
	// §4.4: "default S = the final segment of P, joined with `_`").
	prefix := s.Prefix
	if !s.HasPrefix {
		prefix = ""
		if n := len(path.Segments); n > 0 {
			prefix = path.Segments[n-1].Field
		}
		prefix += "_"
	}

	keys := nested.MapKeys()
	if len(s.Targets) > 0 {
		keys = make([]string, 0, len(s.Targets))
		for _, target := range s.Targets {
			tpath, err := e.resolvePath(target)
			if err != nil {
				return err
			}
			n := len(tpath.Segments)
			if n == 0 {
				continue
			}
			keys = append(keys, tpath.Segments[n-1].Field)
		}
	}

	for _, k := range keys {
		if !nested.MapHas(k) {
			continue
		}
		parent.MapSet(prefix+k, nested.MapGet(k))
	}
	return nil
}

func (e *Evaluator) execNest(s *ast.NestStmt, scope *uv.Value) error {
	nested := uv.NewMap()
	for _, p := range s.Paths {
		path, err := e.resolvePath(p)
		if err != nil {
			return err
		}
		vals, err := uvpath.Get(scope, path)
		if err != nil {
			return err
		}
		if len(vals) == 0 || len(path.Segments) == 0 {
			continue
		}
		name := path.Segments[len(path.Segments)-1].Field
		nested.MapSet(name, vals[0])
		if err := uvpath.Delete(scope, path); err != nil {
			return err
		}
	}
	if scope.Kind() != uv.KindMap {
		return fmt.Errorf("nest: current scope must be a map")
	}
	scope.MapSet(s.Name, nested)
	return nil
}

// execSet evaluates s.Value and writes it at s.Path (spec §4.4). A
// wildcard in s.Path re-evaluates s.Value once per matched site rather
// than once against the top-level scope (spec §4.3), so `.` inside the
// expression binds to the wildcard's matched element — equivalent to
// `each <wildcard's array> { set <rest> = <value> }`.
func (e *Evaluator) execSet(s *ast.SetStmt, scope *uv.Value) error {
	path, err := e.resolvePath(s.Path)
	if err != nil {
		return err
	}
	return uvpath.SetFunc(scope, path, func(site *uv.Value) (*uv.Value, error) {
		return e.evalExpr(s.Value, site)
	})
}

func (e *Evaluator) execDefault(s *ast.DefaultStmt, scope *uv.Value) error {
	path, err := e.resolvePath(s.Path)
	if err != nil {
		return err
	}
	existing, err := uvpath.Get(scope, path)
	if err != nil {
		return err
	}
	if len(existing) == 1 {
		if !existing[0].IsNull() {
			return nil
		}
		e.Deps.Emit(fmt.Sprintf("default: %s is explicitly null, overwriting", s.Path.Raw))
	}
	val, err := e.evalExpr(s.Value, scope)
	if err != nil {
		return err
	}
	return uvpath.Set(scope, path, val)
}

// execCast coerces the value(s) at s.Path (spec §4.5). Get returns live
// pointers into the scope tree, so a wildcard path (spec §4.4: "multi-
// value paths cast each site") is handled by mutating each matched Value
// node in place rather than routing back through uvpath.Set, which would
// otherwise broadcast a single shared result to every match.
func (e *Evaluator) execCast(s *ast.CastStmt, scope *uv.Value) error {
	path, err := e.resolvePath(s.Path)
	if err != nil {
		return err
	}
	vals, err := uvpath.Get(scope, path)
	if err != nil {
		return err
	}
	target := castTargetKind(s.Target)
	for _, v := range vals {
		casted, warn, err := uv.Cast(v, target)
		if err != nil {
			return fmt.Errorf("cast %s: %w", s.Path.Raw, err)
		}
		if warn != nil {
			e.Deps.Emit(fmt.Sprintf("%s: %s", s.Path.Raw, warn.Message))
		}
		*v = *casted
	}
	return nil
}

func castTargetKind(t ast.CastTarget) uv.Kind {
	switch t {
	case ast.CastInt:
		return uv.KindInt
	case ast.CastFloat:
		return uv.KindFloat
	case ast.CastBool:
		return uv.KindBool
	default:
		return uv.KindString
	}
}

// execWhere implements spec §4.4's dual `where` semantics: over an Array
// scope it filters elements in place (order-preserving, spec §8's "where
// stability" property); over anything else it acts as a guard that
// short-circuits the enclosing block when the condition is falsy (at the
// top level, that yields a Null result — see Run).
func (e *Evaluator) execWhere(s *ast.WhereStmt, scope *uv.Value) (bool, error) {
	if scope.Kind() == uv.KindArray {
		elems := scope.ArrayElements()
		for i := len(elems) - 1; i >= 0; i-- {
			val, err := e.evalExpr(s.Cond, elems[i])
			if err != nil {
				return false, err
			}
			if !val.Truthy() {
				scope.ArrayDelete(i)
			}
		}
		return false, nil
	}

	val, err := e.evalExpr(s.Cond, scope)
	if err != nil {
		return false, err
	}
	return !val.Truthy(), nil
}

func (e *Evaluator) execEach(s *ast.EachStmt, scope *uv.Value) error {
	path, err := e.resolvePath(s.Path)
	if err != nil {
		return err
	}
	vals, err := uvpath.Get(scope, path)
	if err != nil {
		return err
	}
	if len(vals) != 1 || vals[0].Kind() != uv.KindArray {
		return fmt.Errorf("each: path must resolve to exactly one array")
	}
	for _, elem := range vals[0].ArrayElements() {
		for _, stmt := range s.Body {
			stop, err := e.execStatement(stmt, elem)
			if err != nil {
				return err
			}
			if stop {
				break
			}
		}
	}
	return nil
}

func (e *Evaluator) execWhen(s *ast.WhenStmt, scope *uv.Value) error {
	cond, err := e.evalExpr(s.Cond, scope)
	if err != nil {
		return err
	}
	if !cond.Truthy() {
		return nil
	}
	for _, stmt := range s.Body {
		stop, err := e.execStatement(stmt, scope)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
	return nil
}
