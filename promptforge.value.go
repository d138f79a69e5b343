package promptforge

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// ValueKind identifies the variant of a Value.
type ValueKind int

// Value kind constants
const (
	ValueKindNull ValueKind = iota
	ValueKindString
	ValueKindNumber
	ValueKindBool
	ValueKindList
	ValueKindMap
)

// Value kind string names
const (
	ValueKindNameNull   = "null"
	ValueKindNameString = "string"
	ValueKindNameNumber = "number"
	ValueKindNameBool   = "bool"
	ValueKindNameList   = "list"
	ValueKindNameMap    = "map"
)

// String returns the string representation of the value kind
func (k ValueKind) String() string {
	switch k {
	case ValueKindString:
		return ValueKindNameString
	case ValueKindNumber:
		return ValueKindNameNumber
	case ValueKindBool:
		return ValueKindNameBool
	case ValueKindList:
		return ValueKindNameList
	case ValueKindMap:
		return ValueKindNameMap
	default:
		return ValueKindNameNull
	}
}

// Value is the JSON-compatible variant carried by a render Context:
// string, number, bool, null, ordered list, or ordered-key map. Values are
// immutable once constructed.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	b    bool
	list []Value
	m    *Context
}

// StringValue creates a string value.
func StringValue(s string) Value {
	return Value{kind: ValueKindString, str: s}
}

// NumberValue creates a number value.
func NumberValue(n float64) Value {
	return Value{kind: ValueKindNumber, num: n}
}

// IntValue creates a number value from an integer.
func IntValue(n int64) Value {
	return Value{kind: ValueKindNumber, num: float64(n)}
}

// BoolValue creates a bool value.
func BoolValue(b bool) Value {
	return Value{kind: ValueKindBool, b: b}
}

// NullValue creates a null value.
func NullValue() Value {
	return Value{kind: ValueKindNull}
}

// ListValue creates a list value.
func ListValue(items ...Value) Value {
	return Value{kind: ValueKindList, list: items}
}

// MapValue creates a map value from an ordered Context. The Context must
// not be mutated afterwards.
func MapValue(m *Context) Value {
	if m == nil {
		m = NewContext()
	}
	return Value{kind: ValueKindMap, m: m}
}

// ValueOf converts a JSON-compatible Go value into a Value. Map keys are
// sorted so that conversion is deterministic regardless of Go's map
// iteration order.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return NullValue(), nil
	case Value:
		return x, nil
	case string:
		return StringValue(x), nil
	case bool:
		return BoolValue(x), nil
	case int:
		return IntValue(int64(x)), nil
	case int32:
		return IntValue(int64(x)), nil
	case int64:
		return IntValue(x), nil
	case float32:
		return NumberValue(float64(x)), nil
	case float64:
		return NumberValue(x), nil
	case []string:
		items := make([]Value, 0, len(x))
		for _, s := range x {
			items = append(items, StringValue(s))
		}
		return ListValue(items...), nil
	case []any:
		items := make([]Value, 0, len(x))
		for _, item := range x {
			converted, err := ValueOf(item)
			if err != nil {
				return Value{}, err
			}
			items = append(items, converted)
		}
		return ListValue(items...), nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewContext()
		for _, k := range keys {
			converted, err := ValueOf(x[k])
			if err != nil {
				return Value{}, err
			}
			m.Set(k, converted)
		}
		return MapValue(m), nil
	case map[string]string:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewContext()
		for _, k := range keys {
			m.Set(k, StringValue(x[k]))
		}
		return MapValue(m), nil
	case *Context:
		return MapValue(x), nil
	default:
		return Value{}, NewUnsupportedValueError(fmt.Sprintf("%T", v))
	}
}

// MustValueOf converts a Go value and panics on unsupported types.
func MustValueOf(v any) Value {
	converted, err := ValueOf(v)
	if err != nil {
		panic(err)
	}
	return converted
}

// Kind returns the variant of this value.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsTruthy reports whether the value gates a Mustache section open:
// true bools, non-empty strings, non-zero numbers, non-empty lists and
// maps. Null and missing are always falsy.
func (v Value) IsTruthy() bool {
	switch v.kind {
	case ValueKindBool:
		return v.b
	case ValueKindString:
		return v.str != ""
	case ValueKindNumber:
		return v.num != 0
	case ValueKindList:
		return len(v.list) > 0
	case ValueKindMap:
		return v.m.Len() > 0
	default:
		return false
	}
}

// IsScalar reports whether the value can be coerced to a string.
func (v Value) IsScalar() bool {
	return v.kind != ValueKindList && v.kind != ValueKindMap
}

// List returns the list items for a list value.
func (v Value) List() []Value {
	return v.list
}

// Map returns the ordered entries for a map value.
func (v Value) Map() *Context {
	return v.m
}

// Float returns the numeric value for a number value.
func (v Value) Float() float64 {
	return v.num
}

// Text returns the string payload for a string value.
func (v Value) Text() string {
	return v.str
}

// Bool returns the boolean payload for a bool value.
func (v Value) Bool() bool {
	return v.b
}

// coerce returns the canonical scalar string form: strings as-is, bools as
// lowercase true/false, numbers in the shortest form that re-parses to the
// same value (integers without a trailing .0), null as the empty string.
// ok is false for lists and maps.
func (v Value) coerce() (string, bool) {
	switch v.kind {
	case ValueKindString:
		return v.str, true
	case ValueKindBool:
		return strconv.FormatBool(v.b), true
	case ValueKindNumber:
		return formatNumber(v.num), true
	case ValueKindNull:
		return "", true
	default:
		return "", false
	}
}

// formatNumber renders a float in its canonical shortest form.
func formatNumber(n float64) string {
	abs := math.Abs(n)
	if abs >= 1e21 || (abs > 0 && abs < 1e-6) {
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// String returns a debug representation.
func (v Value) String() string {
	switch v.kind {
	case ValueKindString:
		return strconv.Quote(v.str)
	case ValueKindList:
		return fmt.Sprintf("list(%d)", len(v.list))
	case ValueKindMap:
		return fmt.Sprintf("map(%d)", v.m.Len())
	default:
		s, _ := v.coerce()
		if v.kind == ValueKindNull {
			return ValueKindNameNull
		}
		return s
	}
}
