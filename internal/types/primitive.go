package types

import (
	"fmt"
	"strconv"
)

// InferPrimitive classifies a scalar literal as its primitive type. Values
// that carry their own type (metadata) report it directly.
func InferPrimitive(v any) (Type, error) {
	if typed, ok := v.(Typed); ok {
		return typed.TypeOf(), nil
	}
	switch v.(type) {
	case bool:
		return Bool, nil
	case int, int64:
		return Int, nil
	case float32, float64:
		return Float, nil
	case string:
		return Str, nil
	default:
		return nil, fmt.Errorf("cannot infer a primitive type for %T", v)
	}
}

// ParsePrimitive decodes a raw value into the representation the declared
// primitive type calls for. Strings arriving from an interchange layer are
// parsed; values already of the right shape pass through. Collection-typed
// parameters decode element-wise.
func ParsePrimitive(t Type, v any) (any, error) {
	if c, ok := t.(*Collection); ok {
		return parsePrimitiveCollection(c, v)
	}

	// For unions, the first member that decodes wins, trying non-string
	// kinds before Str so "3" prefers Int in Int | Str.
	if u, ok := t.(Union); ok {
		var strMember Type
		for _, m := range u {
			if p, ok := m.(*Primitive); ok && p.kind == KindStr {
				strMember = m
				continue
			}
			if parsed, err := ParsePrimitive(m, v); err == nil {
				return parsed, nil
			}
		}
		if strMember != nil {
			return ParsePrimitive(strMember, v)
		}
		return nil, fmt.Errorf("value %v does not decode as any member of %s", v, t)
	}

	p, ok := t.(*Primitive)
	if !ok {
		return nil, fmt.Errorf("cannot decode a value for non-primitive type %s", t)
	}

	switch p.kind {
	case KindInt:
		switch val := v.(type) {
		case int:
			return val, nil
		case int64:
			return int(val), nil
		case string:
			n, err := strconv.Atoi(val)
			if err != nil {
				return nil, fmt.Errorf("value %q does not decode as %s", val, t)
			}
			return n, nil
		}
	case KindFloat:
		switch val := v.(type) {
		case float64:
			return val, nil
		case int:
			return float64(val), nil
		case string:
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return nil, fmt.Errorf("value %q does not decode as %s", val, t)
			}
			return f, nil
		}
	case KindBool:
		switch val := v.(type) {
		case bool:
			return val, nil
		case string:
			b, err := strconv.ParseBool(val)
			if err != nil {
				return nil, fmt.Errorf("value %q does not decode as %s", val, t)
			}
			return b, nil
		}
	case KindStr:
		if val, ok := v.(string); ok {
			return val, nil
		}
	case KindMetadata:
		return v, nil
	}
	return nil, fmt.Errorf("value %v (%T) does not decode as %s", v, v, t)
}

func parsePrimitiveCollection(c *Collection, v any) (any, error) {
	switch val := v.(type) {
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			parsed, err := ParsePrimitive(c.elem, e)
			if err != nil {
				return nil, err
			}
			out[i] = parsed
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			parsed, err := ParsePrimitive(c.elem, e)
			if err != nil {
				return nil, err
			}
			out[k] = parsed
		}
		return out, nil
	default:
		return nil, fmt.Errorf("value %v (%T) does not decode as %s", v, v, c)
	}
}
