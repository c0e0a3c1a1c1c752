package uv

import (
	"fmt"
	"strconv"
	"strings"
)

// CastError reports a failed cast (spec §4.5 / §7 CastError).
type CastError struct {
	From, To Kind
	Detail   string
}

func (e *CastError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("cannot cast %s to %s: %s", e.From, e.To, e.Detail)
	}
	return fmt.Sprintf("cannot cast %s to %s", e.From, e.To)
}

// CastWarning is a non-fatal diagnostic produced alongside a successful but
// lossy cast, e.g. `3.7 as int` truncating to 3 (spec §4.5).
type CastWarning struct {
	Message string
}

// Cast coerces v to the target kind per the table in spec §4.5. It returns
// the coerced value, an optional warning (precision loss), and an error if
// the source cannot be represented in the target kind at all. Only
// int/float/bool/string are valid cast targets; Array/Map/Bytes targets
// always fail, matching the table's "CastError" entries.
func Cast(v *Value, target Kind) (*Value, *CastWarning, error) {
	switch target {
	case KindInt:
		return castToInt(v)
	case KindFloat:
		return castToFloat(v)
	case KindBool:
		return castToBool(v)
	case KindString:
		return castToString(v)
	default:
		return nil, nil, &CastError{From: v.Kind(), To: target, Detail: "unsupported cast target"}
	}
}

func castToInt(v *Value) (*Value, *CastWarning, error) {
	switch v.Kind() {
	case KindNull:
		return Int(0), nil, nil
	case KindBool:
		if v.b {
			return Int(1), nil, nil
		}
		return Int(0), nil, nil
	case KindInt:
		return Int(v.i), nil, nil
	case KindFloat:
		truncated := int64(v.f)
		var warn *CastWarning
		if float64(truncated) != v.f {
			warn = &CastWarning{Message: fmt.Sprintf("cast truncated %g to %d", v.f, truncated)}
		}
		return Int(truncated), warn, nil
	case KindString:
		n, err := strconv.ParseInt(strings.TrimSpace(v.s), 10, 64)
		if err != nil {
			return nil, nil, &CastError{From: v.Kind(), To: KindInt, Detail: "not a base-10 integer"}
		}
		return Int(n), nil, nil
	default:
		return nil, nil, &CastError{From: v.Kind(), To: KindInt}
	}
}

func castToFloat(v *Value) (*Value, *CastWarning, error) {
	switch v.Kind() {
	case KindNull:
		return Float(0), nil, nil
	case KindBool:
		if v.b {
			return Float(1), nil, nil
		}
		return Float(0), nil, nil
	case KindInt:
		return Float(float64(v.i)), nil, nil
	case KindFloat:
		return Float(v.f), nil, nil
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil {
			return nil, nil, &CastError{From: v.Kind(), To: KindFloat, Detail: "not a valid float literal"}
		}
		return Float(f), nil, nil
	default:
		return nil, nil, &CastError{From: v.Kind(), To: KindFloat}
	}
}

func castToBool(v *Value) (*Value, *CastWarning, error) {
	switch v.Kind() {
	case KindNull:
		return Bool(false), nil, nil
	case KindBool:
		return Bool(v.b), nil, nil
	case KindInt:
		return Bool(v.i != 0), nil, nil
	case KindFloat:
		return Bool(v.f != 0 && v.f == v.f), nil, nil // v.f == v.f excludes NaN
	case KindString:
		switch strings.ToLower(v.s) {
		case "true":
			return Bool(true), nil, nil
		case "false":
			return Bool(false), nil, nil
		default:
			return nil, nil, &CastError{From: v.Kind(), To: KindBool, Detail: `expected "true" or "false"`}
		}
	default:
		return nil, nil, &CastError{From: v.Kind(), To: KindBool}
	}
}

func castToString(v *Value) (*Value, *CastWarning, error) {
	switch v.Kind() {
	case KindNull:
		return String(""), nil, nil
	case KindBool:
		if v.b {
			return String("true"), nil, nil
		}
		return String("false"), nil, nil
	case KindInt:
		return String(strconv.FormatInt(v.i, 10)), nil, nil
	case KindFloat:
		return String(FormatFloat(v.f)), nil, nil
	case KindString:
		return String(v.s), nil, nil
	default:
		return nil, nil, &CastError{From: v.Kind(), To: KindString}
	}
}

// FormatFloat renders f using the minimal round-trip decimal representation,
// appending ".0" when the value is integral (spec §4.5 `string` column).
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
