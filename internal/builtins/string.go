package builtins

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/morphcli/morph/internal/uv"
)

func init() {
	register("join", 2, 2, fnJoin)
	register("split", 2, 2, fnSplit)
	register("lower", 1, 1, fnLower)
	register("upper", 1, 1, fnUpper)
	register("trim", 1, 1, fnTrim)
	register("replace", 3, 3, fnReplace)
	register("starts_with", 2, 2, fnStartsWith)
	register("ends_with", 2, 2, fnEndsWith)
	register("contains", 2, 2, fnContains)
	register("substring", 2, 3, fnSubstring)
	register("pad_left", 2, 3, fnPadLeft)
	register("pad_right", 2, 3, fnPadRight)
	register("regex_match", 2, 2, fnRegexMatch)
	register("regex_replace", 3, 3, fnRegexReplace)
}

func wantString(fn string, idx int, v *uv.Value) (string, error) {
	if v.Kind() != uv.KindString {
		return "", typeError(fn, idx, "string", v)
	}
	return v.StringValue(), nil
}

// join(array, sep) joins an array of strings (or string-castable values)
// with sep.
func fnJoin(args []*uv.Value, _ Deps) (*uv.Value, error) {
	arr := args[0]
	if arr.Kind() != uv.KindArray {
		return nil, typeError("join", 0, "array", arr)
	}
	sep, err := wantString("join", 1, args[1])
	if err != nil {
		return nil, err
	}
	parts := make([]string, 0, arr.ArrayLen())
	for i, e := range arr.ArrayElements() {
		s, _, err := uv.Cast(e, uv.KindString)
		if err != nil {
			return nil, fmt.Errorf("join() element %d is not castable to string: %w", i, err)
		}
		parts = append(parts, s.StringValue())
	}
	return uv.String(strings.Join(parts, sep)), nil
}

func fnSplit(args []*uv.Value, _ Deps) (*uv.Value, error) {
	s, err := wantString("split", 0, args[0])
	if err != nil {
		return nil, err
	}
	sep, err := wantString("split", 1, args[1])
	if err != nil {
		return nil, err
	}
	var parts []string
	if sep == "" {
		parts = strings.Split(s, "")
	} else {
		parts = strings.Split(s, sep)
	}
	out := uv.NewArray(len(parts))
	for _, p := range parts {
		out.ArrayAppend(uv.String(p))
	}
	return out, nil
}

func fnLower(args []*uv.Value, _ Deps) (*uv.Value, error) {
	s, err := wantString("lower", 0, args[0])
	if err != nil {
		return nil, err
	}
	return uv.String(strings.ToLower(s)), nil
}

func fnUpper(args []*uv.Value, _ Deps) (*uv.Value, error) {
	s, err := wantString("upper", 0, args[0])
	if err != nil {
		return nil, err
	}
	return uv.String(strings.ToUpper(s)), nil
}

func fnTrim(args []*uv.Value, _ Deps) (*uv.Value, error) {
	s, err := wantString("trim", 0, args[0])
	if err != nil {
		return nil, err
	}
	return uv.String(strings.TrimSpace(s)), nil
}

func fnReplace(args []*uv.Value, _ Deps) (*uv.Value, error) {
	s, err := wantString("replace", 0, args[0])
	if err != nil {
		return nil, err
	}
	old, err := wantString("replace", 1, args[1])
	if err != nil {
		return nil, err
	}
	repl, err := wantString("replace", 2, args[2])
	if err != nil {
		return nil, err
	}
	return uv.String(strings.ReplaceAll(s, old, repl)), nil
}

func fnStartsWith(args []*uv.Value, _ Deps) (*uv.Value, error) {
	s, err := wantString("starts_with", 0, args[0])
	if err != nil {
		return nil, err
	}
	prefix, err := wantString("starts_with", 1, args[1])
	if err != nil {
		return nil, err
	}
	return uv.Bool(strings.HasPrefix(s, prefix)), nil
}

func fnEndsWith(args []*uv.Value, _ Deps) (*uv.Value, error) {
	s, err := wantString("ends_with", 0, args[0])
	if err != nil {
		return nil, err
	}
	suffix, err := wantString("ends_with", 1, args[1])
	if err != nil {
		return nil, err
	}
	return uv.Bool(strings.HasSuffix(s, suffix)), nil
}

func fnContains(args []*uv.Value, _ Deps) (*uv.Value, error) {
	s, err := wantString("contains", 0, args[0])
	if err != nil {
		return nil, err
	}
	sub, err := wantString("contains", 1, args[1])
	if err != nil {
		return nil, err
	}
	return uv.Bool(strings.Contains(s, sub)), nil
}

// substring(s, start[, length]) slices by rune, not byte, so multi-byte
// text indexes the way a user reading it would expect. Negative start
// resolves from the end, matching path indexing (spec §3.2).
func fnSubstring(args []*uv.Value, _ Deps) (*uv.Value, error) {
	s, err := wantString("substring", 0, args[0])
	if err != nil {
		return nil, err
	}
	if args[1].Kind() != uv.KindInt {
		return nil, typeError("substring", 1, "int", args[1])
	}
	runes := []rune(s)
	start, ok := uv.ResolveIndex(int(args[1].IntValue()), len(runes))
	if !ok {
		return uv.String(""), nil
	}
	end := len(runes)
	if len(args) == 3 {
		if args[2].Kind() != uv.KindInt {
			return nil, typeError("substring", 2, "int", args[2])
		}
		end = start + int(args[2].IntValue())
		if end > len(runes) {
			end = len(runes)
		}
		if end < start {
			end = start
		}
	}
	return uv.String(string(runes[start:end])), nil
}

func fnPadLeft(args []*uv.Value, _ Deps) (*uv.Value, error) {
	return pad(args, true)
}

func fnPadRight(args []*uv.Value, _ Deps) (*uv.Value, error) {
	return pad(args, false)
}

func pad(args []*uv.Value, left bool) (*uv.Value, error) {
	fn := "pad_right"
	if left {
		fn = "pad_left"
	}
	s, err := wantString(fn, 0, args[0])
	if err != nil {
		return nil, err
	}
	if args[1].Kind() != uv.KindInt {
		return nil, typeError(fn, 1, "int", args[1])
	}
	width := int(args[1].IntValue())
	padChar := " "
	if len(args) == 3 {
		padChar, err = wantString(fn, 2, args[2])
		if err != nil {
			return nil, err
		}
		if padChar == "" {
			padChar = " "
		}
	}
	runes := []rune(s)
	need := width - len(runes)
	if need <= 0 {
		return uv.String(s), nil
	}
	var sb strings.Builder
	for sb.Len() < need {
		sb.WriteString(padChar)
	}
	padding := string([]rune(sb.String())[:need])
	if left {
		return uv.String(padding + s), nil
	}
	return uv.String(s + padding), nil
}

// regex_match(s, pattern) reports whether pattern matches anywhere in s.
// Patterns use .NET-flavored regex syntax (lookaround, backreferences) via
// dlclark/regexp2, a superset of Go's RE2 dialect.
func fnRegexMatch(args []*uv.Value, _ Deps) (*uv.Value, error) {
	s, err := wantString("regex_match", 0, args[0])
	if err != nil {
		return nil, err
	}
	pattern, err := wantString("regex_match", 1, args[1])
	if err != nil {
		return nil, err
	}
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("regex_match() invalid pattern: %w", err)
	}
	matched, err := re.MatchString(s)
	if err != nil {
		return nil, fmt.Errorf("regex_match() match failed: %w", err)
	}
	return uv.Bool(matched), nil
}

// regex_replace(s, pattern, replacement) replaces every match of pattern in
// s, with $1-style backreferences in replacement.
func fnRegexReplace(args []*uv.Value, _ Deps) (*uv.Value, error) {
	s, err := wantString("regex_replace", 0, args[0])
	if err != nil {
		return nil, err
	}
	pattern, err := wantString("regex_replace", 1, args[1])
	if err != nil {
		return nil, err
	}
	repl, err := wantString("regex_replace", 2, args[2])
	if err != nil {
		return nil, err
	}
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("regex_replace() invalid pattern: %w", err)
	}
	out, err := re.Replace(s, repl, -1, -1)
	if err != nil {
		return nil, fmt.Errorf("regex_replace() replace failed: %w", err)
	}
	return uv.String(out), nil
}
