package builtins

import "github.com/morphcli/morph/internal/uv"

func init() {
	register("type_of", 1, 1, fnTypeOf)
	register("is_null", 1, 1, fnIsNull)
	register("is_array", 1, 1, fnIsArray)
	register("is_object", 1, 1, fnIsObject)
	register("is_string", 1, 1, fnIsString)
	register("is_number", 1, 1, fnIsNumber)
}

func fnTypeOf(args []*uv.Value, _ Deps) (*uv.Value, error) {
	return uv.String(args[0].Kind().String()), nil
}

func fnIsNull(args []*uv.Value, _ Deps) (*uv.Value, error) {
	return uv.Bool(args[0].Kind() == uv.KindNull), nil
}

func fnIsArray(args []*uv.Value, _ Deps) (*uv.Value, error) {
	return uv.Bool(args[0].Kind() == uv.KindArray), nil
}

// is_object reports whether the value is a Map — "object" is the
// user-facing name for the Map variant, matching how JSON/YAML users
// think of it (spec GLOSSARY).
func fnIsObject(args []*uv.Value, _ Deps) (*uv.Value, error) {
	return uv.Bool(args[0].Kind() == uv.KindMap), nil
}

func fnIsString(args []*uv.Value, _ Deps) (*uv.Value, error) {
	return uv.Bool(args[0].Kind() == uv.KindString), nil
}

func fnIsNumber(args []*uv.Value, _ Deps) (*uv.Value, error) {
	k := args[0].Kind()
	return uv.Bool(k == uv.KindInt || k == uv.KindFloat), nil
}
