// SPDX-FileCopyrightText: 2026 The ajv-go authors
// SPDX-License-Identifier: MIT

package ajv

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// errTooDeep is returned when a document nests beyond the configured ceiling.
var errTooDeep = fmt.Errorf("document exceeds maximum nesting depth")

// DecodeBytes decodes raw JSON into a Value, preserving object member
// order. Malformed input and over-deep nesting return an error.
func DecodeBytes(data []byte) (Value, error) {
	return decodeBytes(data, defaultMaxDepth)
}

// DecodeString decodes a JSON string into a Value.
func DecodeString(s string) (Value, error) {
	return decodeString(s, defaultMaxDepth)
}

func decodeBytes(data []byte, maxDepth int) (Value, error) {
	if !gjson.ValidBytes(data) {
		return Value{}, fmt.Errorf("invalid JSON")
	}
	return fromResult(gjson.ParseBytes(data), 0, maxDepth)
}

func decodeString(s string, maxDepth int) (Value, error) {
	if !gjson.Valid(s) {
		return Value{}, fmt.Errorf("invalid JSON")
	}
	return fromResult(gjson.Parse(s), 0, maxDepth)
}

// fromResult converts a gjson node into a Value. Numbers keep the
// integer/float distinction by inspecting the raw token: anything with
// a fraction or exponent part decodes as a float.
func fromResult(r gjson.Result, depth, maxDepth int) (Value, error) {
	switch r.Type {
	case gjson.Null:
		return NullValue(), nil
	case gjson.False:
		return BoolValue(false), nil
	case gjson.True:
		return BoolValue(true), nil
	case gjson.String:
		return StringValue(r.Str), nil
	case gjson.Number:
		return numberFromRaw(r), nil
	}
	// gjson.JSON: object or array. Containers may nest at most
	// maxDepth levels, matching exceedsDepth below.
	if depth >= maxDepth {
		return Value{}, errTooDeep
	}
	var convErr error
	if r.IsArray() {
		var items []Value
		r.ForEach(func(_, item gjson.Result) bool {
			v, err := fromResult(item, depth+1, maxDepth)
			if err != nil {
				convErr = err
				return false
			}
			items = append(items, v)
			return true
		})
		if convErr != nil {
			return Value{}, convErr
		}
		return ArrayValue(items...), nil
	}
	var members []Member
	r.ForEach(func(key, item gjson.Result) bool {
		v, err := fromResult(item, depth+1, maxDepth)
		if err != nil {
			convErr = err
			return false
		}
		// Duplicate keys keep the last value at the first position,
		// like JSON.parse.
		for i := range members {
			if members[i].Key == key.Str {
				members[i].Value = v
				return true
			}
		}
		members = append(members, Member{Key: key.Str, Value: v})
		return true
	})
	if convErr != nil {
		return Value{}, convErr
	}
	return ObjectValue(members...), nil
}

func numberFromRaw(r gjson.Result) Value {
	raw := r.Raw
	if !strings.ContainsAny(raw, ".eE") {
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return IntValue(i)
		}
	}
	return FloatValue(r.Num)
}

// exceedsDepth reports whether data nests containers deeper than max.
// It is a single pass over the bytes, skipping string contents, and
// exists so the lazy byte path agrees with full decoding on the depth
// ceiling without materializing anything.
func exceedsDepth(data []byte, max int) bool {
	depth, inStr, esc := 0, false, false
	for _, c := range data {
		if inStr {
			switch {
			case esc:
				esc = false
			case c == '\\':
				esc = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{', '[':
			depth++
			if depth > max {
				return true
			}
		case '}', ']':
			depth--
		}
	}
	return false
}
