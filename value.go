// SPDX-FileCopyrightText: 2026 The ajv-go authors
// SPDX-License-Identifier: MIT

package ajv

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies the JSON type held by a Value.
type Kind int

const (
	Null Kind = iota
	Bool
	Int
	Float
	String
	Array
	Object
)

// Value is an immutable JSON value. Object member order is preserved
// from the input document. Integers and floats are kept distinct so
// that "type": "integer" and exact numeric comparisons work without
// loss, but Equal treats 1 and 1.0 as the same value.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	a    []Value
	o    []Member
}

// Member is a single object member.
type Member struct {
	Key   string
	Value Value
}

// NullValue returns the JSON null value.
func NullValue() Value { return Value{kind: Null} }

// BoolValue returns a JSON boolean.
func BoolValue(b bool) Value { return Value{kind: Bool, b: b} }

// IntValue returns a JSON number holding an integer.
func IntValue(i int64) Value { return Value{kind: Int, i: i} }

// FloatValue returns a JSON number holding a float.
func FloatValue(f float64) Value { return Value{kind: Float, f: f} }

// StringValue returns a JSON string.
func StringValue(s string) Value { return Value{kind: String, s: s} }

// ArrayValue returns a JSON array of the given items.
func ArrayValue(items ...Value) Value { return Value{kind: Array, a: items} }

// ObjectValue returns a JSON object with the given members, in order.
func ObjectValue(members ...Member) Value { return Value{kind: Object, o: members} }

// Kind returns the JSON type of v.
func (v Value) Kind() Kind { return v.kind }

// Bool returns the boolean payload. Valid only for Bool values.
func (v Value) Bool() bool { return v.b }

// Int returns the integer payload. Valid only for Int values.
func (v Value) Int() int64 { return v.i }

// Float returns the float payload. Valid only for Float values.
func (v Value) Float() float64 { return v.f }

// Str returns the string payload. Valid only for String values.
func (v Value) Str() string { return v.s }

// Items returns the array elements. Valid only for Array values.
func (v Value) Items() []Value { return v.a }

// Members returns the object members in document order.
func (v Value) Members() []Member { return v.o }

// Len returns the number of elements or members, or 0 for scalars.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.a)
	case Object:
		return len(v.o)
	}
	return 0
}

// Number returns the numeric payload as a float64 for Int and Float values.
func (v Value) Number() float64 {
	if v.kind == Int {
		return float64(v.i)
	}
	return v.f
}

// Lookup returns the member value for key and whether it is present.
func (v Value) Lookup(key string) (Value, bool) {
	for _, m := range v.o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// isIntegral reports whether v is a number with zero fractional part.
func (v Value) isIntegral() bool {
	switch v.kind {
	case Int:
		return true
	case Float:
		return v.f == math.Trunc(v.f) && !math.IsInf(v.f, 0) && !math.IsNaN(v.f)
	}
	return false
}

// typeName returns the JSON Schema type name of v.
func (v Value) typeName() string {
	switch v.kind {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Int, Float:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	}
	return "unknown"
}

// Equal reports structural equality between two values. Numbers
// cross-compare: an Int and a Float holding the same mathematical
// value are equal. Object member order does not affect equality.
func Equal(a, b Value) bool {
	an, bn := a.kind == Int || a.kind == Float, b.kind == Int || b.kind == Float
	if an && bn {
		if a.kind == Int && b.kind == Int {
			return a.i == b.i
		}
		return a.Number() == b.Number()
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Null:
		return true
	case Bool:
		return a.b == b.b
	case String:
		return a.s == b.s
	case Array:
		if len(a.a) != len(b.a) {
			return false
		}
		for i := range a.a {
			if !Equal(a.a[i], b.a[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(a.o) != len(b.o) {
			return false
		}
		for _, m := range a.o {
			bv, ok := b.Lookup(m.Key)
			if !ok || !Equal(m.Value, bv) {
				return false
			}
		}
		return true
	}
	return false
}

// ToGo converts v to the equivalent encoding/json shape
// (nil, bool, int64, float64, string, []any, map[string]any).
func (v Value) ToGo() any {
	switch v.kind {
	case Null:
		return nil
	case Bool:
		return v.b
	case Int:
		return v.i
	case Float:
		return v.f
	case String:
		return v.s
	case Array:
		out := make([]any, len(v.a))
		for i, item := range v.a {
			out[i] = item.ToGo()
		}
		return out
	case Object:
		out := make(map[string]any, len(v.o))
		for _, m := range v.o {
			out[m.Key] = m.Value.ToGo()
		}
		return out
	}
	return nil
}

// FromGo converts a decoded encoding/json shape into a Value. Map keys
// are sorted so the result is deterministic; use DecodeBytes to keep
// document order.
func FromGo(data any) (Value, error) {
	switch d := data.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(d), nil
	case string:
		return StringValue(d), nil
	case int:
		return IntValue(int64(d)), nil
	case int64:
		return IntValue(d), nil
	case float64:
		if d == math.Trunc(d) && math.Abs(d) < 1<<53 {
			return IntValue(int64(d)), nil
		}
		return FloatValue(d), nil
	case json.Number:
		if i, err := strconv.ParseInt(string(d), 10, 64); err == nil {
			return IntValue(i), nil
		}
		f, err := strconv.ParseFloat(string(d), 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", d, err)
		}
		return FloatValue(f), nil
	case []any:
		items := make([]Value, len(d))
		for i, item := range d {
			v, err := FromGo(item)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return ArrayValue(items...), nil
	case map[string]any:
		keys := make([]string, 0, len(d))
		for k := range d {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		members := make([]Member, len(keys))
		for i, k := range keys {
			v, err := FromGo(d[k])
			if err != nil {
				return Value{}, err
			}
			members[i] = Member{Key: k, Value: v}
		}
		return ObjectValue(members...), nil
	case Value:
		return d, nil
	}
	return Value{}, fmt.Errorf("unsupported value type %T", data)
}

// String renders v as compact JSON. Used in error messages and tests.
func (v Value) String() string {
	var sb strings.Builder
	v.writeJSON(&sb)
	return sb.String()
}

func (v Value) writeJSON(sb *strings.Builder) {
	switch v.kind {
	case Null:
		sb.WriteString("null")
	case Bool:
		sb.WriteString(strconv.FormatBool(v.b))
	case Int:
		sb.WriteString(strconv.FormatInt(v.i, 10))
	case Float:
		sb.WriteString(strconv.FormatFloat(v.f, 'g', -1, 64))
	case String:
		b, _ := json.Marshal(v.s)
		sb.Write(b)
	case Array:
		sb.WriteByte('[')
		for i, item := range v.a {
			if i > 0 {
				sb.WriteByte(',')
			}
			item.writeJSON(sb)
		}
		sb.WriteByte(']')
	case Object:
		sb.WriteByte('{')
		for i, m := range v.o {
			if i > 0 {
				sb.WriteByte(',')
			}
			b, _ := json.Marshal(m.Key)
			sb.Write(b)
			sb.WriteByte(':')
			m.Value.writeJSON(sb)
		}
		sb.WriteByte('}')
	}
}
