// SPDX-FileCopyrightText: 2026 The ajv-go authors
// SPDX-License-Identifier: MIT

package ajv

import (
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustCompile(t *testing.T, schema string, opts ...Option) *Validator {
	t.Helper()
	v, err := New().CompileBytes([]byte(schema), opts...)
	if err != nil {
		t.Fatalf("CompileBytes(%s) error = %v", schema, err)
	}
	return v
}

func TestValidateKeywords(t *testing.T) {
	tests := []struct {
		name   string
		schema string
		valid  []string
		bad    []string
	}{
		{
			name:   "type string",
			schema: `{"type": "string"}`,
			valid:  []string{`"x"`, `""`},
			bad:    []string{`1`, `null`, `{}`, `[]`, `true`},
		},
		{
			name:   "type integer accepts whole floats",
			schema: `{"type": "integer"}`,
			valid:  []string{`1`, `-3`, `1.0`, `1e2`},
			bad:    []string{`1.5`, `"1"`},
		},
		{
			name:   "type list",
			schema: `{"type": ["string", "null"]}`,
			valid:  []string{`"x"`, `null`},
			bad:    []string{`1`, `[]`},
		},
		{
			name:   "enum with numeric cross-equality",
			schema: `{"enum": [1, "a", [2], {"b": 3}]}`,
			valid:  []string{`1`, `1.0`, `"a"`, `[2]`, `{"b": 3}`},
			bad:    []string{`2`, `"b"`, `[2, 2]`, `{"b": 4}`},
		},
		{
			name:   "const numeric equivalence",
			schema: `{"const": 1}`,
			valid:  []string{`1`, `1.0`},
			bad:    []string{`2`, `"1"`, `null`},
		},
		{
			name:   "numeric bounds",
			schema: `{"minimum": 2, "maximum": 10}`,
			valid:  []string{`2`, `10`, `2.5`, `"not a number"`},
			bad:    []string{`1`, `1.99`, `11`},
		},
		{
			name:   "exclusive bounds draft-06 form",
			schema: `{"exclusiveMinimum": 2, "exclusiveMaximum": 10}`,
			valid:  []string{`3`, `9.99`},
			bad:    []string{`2`, `10`},
		},
		{
			name:   "exclusive bounds draft-04 boolean form",
			schema: `{"minimum": 2, "exclusiveMinimum": true}`,
			valid:  []string{`3`},
			bad:    []string{`2`},
		},
		{
			name:   "multipleOf integer",
			schema: `{"multipleOf": 3}`,
			valid:  []string{`0`, `9`, `-6`},
			bad:    []string{`5`},
		},
		{
			name:   "multipleOf float without rounding noise",
			schema: `{"multipleOf": 0.1}`,
			valid:  []string{`0.3`, `1.1`, `19.99e1`},
			bad:    []string{`0.35`},
		},
		{
			name:   "string length counts runes",
			schema: `{"minLength": 2, "maxLength": 3}`,
			valid:  []string{`"ab"`, `"héé"`},
			bad:    []string{`"a"`, `"abcd"`},
		},
		{
			name:   "pattern",
			schema: `{"pattern": "^a+$"}`,
			valid:  []string{`"aaa"`, `123`},
			bad:    []string{`"b"`, `""`},
		},
		{
			name:   "items single schema",
			schema: `{"items": {"type": "integer"}}`,
			valid:  []string{`[]`, `[1, 2]`},
			bad:    []string{`[1, "x"]`},
		},
		{
			name:   "tuple items with additionalItems schema",
			schema: `{"items": [{"type": "integer"}, {"type": "string"}], "additionalItems": {"type": "boolean"}}`,
			valid:  []string{`[1]`, `[1, "a"]`, `[1, "a", true, false]`},
			bad:    []string{`["a"]`, `[1, 2]`, `[1, "a", 3]`},
		},
		{
			name:   "tuple items with additionalItems false",
			schema: `{"items": [{"type": "integer"}], "additionalItems": false}`,
			valid:  []string{`[1]`, `[]`},
			bad:    []string{`[1, 2]`},
		},
		{
			name:   "array bounds and uniqueItems",
			schema: `{"minItems": 1, "maxItems": 3, "uniqueItems": true}`,
			valid:  []string{`[1]`, `[1, 2, 3]`, `[{"a":1}, {"a":2}]`},
			bad:    []string{`[]`, `[1, 2, 3, 4]`, `[1, 1.0]`, `[{"a":1}, {"a":1}]`},
		},
		{
			name:   "contains",
			schema: `{"contains": {"type": "integer"}}`,
			valid:  []string{`[1]`, `["a", 2]`},
			bad:    []string{`[]`, `["a", "b"]`},
		},
		{
			name:   "required and properties",
			schema: `{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}, "age": {"type": "integer"}}}`,
			valid:  []string{`{"name": "John"}`, `{"name": "John", "age": 30}`},
			bad:    []string{`{}`, `{"age": 30}`, `{"name": 1}`, `{"name": "John", "age": "x"}`},
		},
		{
			name:   "property count bounds",
			schema: `{"minProperties": 1, "maxProperties": 2}`,
			valid:  []string{`{"a": 1}`, `{"a": 1, "b": 2}`},
			bad:    []string{`{}`, `{"a": 1, "b": 2, "c": 3}`},
		},
		{
			name:   "additionalProperties false with patternProperties exemption",
			schema: `{"properties": {"a": {}}, "patternProperties": {"^x-": {}}, "additionalProperties": false}`,
			valid:  []string{`{"a": 1}`, `{"x-custom": 1}`, `{"a": 1, "x-y": 2}`},
			bad:    []string{`{"b": 1}`, `{"a": 1, "b": 2}`},
		},
		{
			name:   "additionalProperties schema",
			schema: `{"properties": {"a": {}}, "additionalProperties": {"type": "integer"}}`,
			valid:  []string{`{"a": "anything"}`, `{"b": 1}`},
			bad:    []string{`{"b": "x"}`},
		},
		{
			name:   "propertyNames",
			schema: `{"propertyNames": {"maxLength": 2}}`,
			valid:  []string{`{}`, `{"ab": 1}`},
			bad:    []string{`{"abc": 1}`},
		},
		{
			name:   "dependencies required form",
			schema: `{"dependencies": {"credit_card": ["billing_address"]}}`,
			valid:  []string{`{}`, `{"billing_address": "x"}`, `{"credit_card": 1, "billing_address": "x"}`},
			bad:    []string{`{"credit_card": 1}`},
		},
		{
			name:   "dependencies schema form",
			schema: `{"dependencies": {"a": {"required": ["b"]}}}`,
			valid:  []string{`{}`, `{"a": 1, "b": 2}`},
			bad:    []string{`{"a": 1}`},
		},
		{
			name:   "dependentRequired",
			schema: `{"dependentRequired": {"a": ["b"]}}`,
			valid:  []string{`{}`, `{"a": 1, "b": 2}`},
			bad:    []string{`{"a": 1}`},
		},
		{
			name:   "dependentSchemas",
			schema: `{"dependentSchemas": {"a": {"properties": {"b": {"type": "integer"}}}}}`,
			valid:  []string{`{}`, `{"a": 1, "b": 2}`},
			bad:    []string{`{"a": 1, "b": "x"}`},
		},
		{
			name:   "allOf",
			schema: `{"allOf": [{"minimum": 2}, {"maximum": 4}]}`,
			valid:  []string{`3`},
			bad:    []string{`1`, `5`},
		},
		{
			name:   "anyOf",
			schema: `{"anyOf": [{"type": "string"}, {"type": "number", "minimum": 10}]}`,
			valid:  []string{`"x"`, `12`},
			bad:    []string{`5`, `null`},
		},
		{
			name:   "oneOf",
			schema: `{"oneOf": [{"type": "integer"}, {"type": "number", "minimum": 2}]}`,
			valid:  []string{`1`, `2.5`},
			bad:    []string{`3`, `1.5`, `"x"`},
		},
		{
			name:   "not",
			schema: `{"not": {"type": "string"}}`,
			valid:  []string{`1`, `null`},
			bad:    []string{`"x"`},
		},
		{
			name:   "if then else",
			schema: `{"if": {"type": "string"}, "then": {"minLength": 2}, "else": {"minimum": 10}}`,
			valid:  []string{`"ab"`, `12`},
			bad:    []string{`"a"`, `5`},
		},
		{
			name:   "if without else passes non-matching",
			schema: `{"if": {"type": "string"}, "then": {"minLength": 2}}`,
			valid:  []string{`"ab"`, `5`, `null`},
			bad:    []string{`"a"`},
		},
		{
			name:   "boolean schema true",
			schema: `true`,
			valid:  []string{`1`, `null`, `{}`},
			bad:    nil,
		},
		{
			name:   "boolean schema false",
			schema: `false`,
			valid:  nil,
			bad:    []string{`1`, `null`, `{}`},
		},
		{
			name:   "nested property false schema",
			schema: `{"properties": {"a": false}}`,
			valid:  []string{`{}`, `{"b": 1}`},
			bad:    []string{`{"a": 1}`},
		},
		{
			name:   "unknown keywords are inert",
			schema: `{"title": "t", "description": "d", "x-vendor": [1], "type": "integer"}`,
			valid:  []string{`1`},
			bad:    []string{`"x"`},
		},
		{
			name:   "local ref",
			schema: `{"definitions": {"pos": {"type": "integer", "minimum": 1}}, "properties": {"n": {"$ref": "#/definitions/pos"}}}`,
			valid:  []string{`{"n": 3}`, `{}`},
			bad:    []string{`{"n": 0}`, `{"n": "x"}`},
		},
		{
			name: "recursive ref",
			schema: `{
				"type": "object",
				"properties": {
					"value": {"type": "integer"},
					"next": {"$ref": "#"}
				},
				"required": ["value"]
			}`,
			valid: []string{`{"value": 1}`, `{"value": 1, "next": {"value": 2}}`},
			bad:   []string{`{}`, `{"value": 1, "next": {}}`, `{"value": 1, "next": {"value": "x"}}`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := mustCompile(t, tt.schema)
			for _, in := range tt.valid {
				if res := v.ValidateString(in); !res.Valid {
					t.Errorf("ValidateString(%s) = invalid, want valid; errors = %+v", in, res.Errors)
				}
			}
			for _, in := range tt.bad {
				if res := v.ValidateString(in); res.Valid {
					t.Errorf("ValidateString(%s) = valid, want invalid", in)
				}
			}
		})
	}
}

func TestErrorRecordShape(t *testing.T) {
	v := mustCompile(t, `{"type": "object", "properties": {"a": {"type": "integer"}}}`)

	res := v.ValidateString(`{"a": "x"}`)
	if res.Valid {
		t.Fatal("ValidateString() = valid, want invalid")
	}
	want := []ValidationError{{
		InstancePath: "/a",
		SchemaPath:   "#/properties/a/type",
		Keyword:      "type",
		Params:       map[string]any{"type": "integer"},
		Message:      "must be integer",
	}}
	if diff := cmp.Diff(want, res.Errors); diff != "" {
		t.Errorf("errors diff = %v", diff)
	}
}

func TestErrorRecords(t *testing.T) {
	tests := []struct {
		name         string
		schema       string
		instance     string
		wantKeyword  string
		wantInstPath string
		wantSchPath  string
		wantParams   map[string]any
		wantMessage  string
	}{
		{
			name:         "required",
			schema:       `{"required": ["name"]}`,
			instance:     `{}`,
			wantKeyword:  "required",
			wantInstPath: "",
			wantSchPath:  "#/required",
			wantParams:   map[string]any{"missingProperty": "name"},
			wantMessage:  "must have required property 'name'",
		},
		{
			name:         "additionalProperties",
			schema:       `{"properties": {"a": {}}, "additionalProperties": false}`,
			instance:     `{"b": 1}`,
			wantKeyword:  "additionalProperties",
			wantInstPath: "",
			wantSchPath:  "#/additionalProperties",
			wantParams:   map[string]any{"additionalProperty": "b"},
			wantMessage:  "must NOT have additional properties",
		},
		{
			name:         "enum",
			schema:       `{"enum": ["a", "b"]}`,
			instance:     `"c"`,
			wantKeyword:  "enum",
			wantInstPath: "",
			wantSchPath:  "#/enum",
			wantParams:   map[string]any{"allowedValues": []any{"a", "b"}},
			wantMessage:  "must be equal to one of the allowed values",
		},
		{
			name:         "minimum",
			schema:       `{"minimum": 5}`,
			instance:     `3`,
			wantKeyword:  "minimum",
			wantInstPath: "",
			wantSchPath:  "#/minimum",
			wantParams:   map[string]any{"comparison": ">=", "limit": int64(5)},
			wantMessage:  "must be >= 5",
		},
		{
			name:         "anyOf reports a single summary error",
			schema:       `{"anyOf": [{"type": "string"}, {"type": "boolean"}]}`,
			instance:     `1`,
			wantKeyword:  "anyOf",
			wantInstPath: "",
			wantSchPath:  "#/anyOf",
			wantParams:   map[string]any{},
			wantMessage:  "must match a schema in anyOf",
		},
		{
			name:         "oneOf matching more than one",
			schema:       `{"oneOf": [{"type": "integer"}, {"minimum": 0}]}`,
			instance:     `1`,
			wantKeyword:  "oneOf",
			wantInstPath: "",
			wantSchPath:  "#/oneOf",
			wantParams:   map[string]any{"passingSchemas": []int{0, 1}},
			wantMessage:  "must match exactly one schema in oneOf",
		},
		{
			name:         "uniqueItems reports earlier index as j, later as i",
			schema:       `{"uniqueItems": true}`,
			instance:     `[1, 2, 1]`,
			wantKeyword:  "uniqueItems",
			wantInstPath: "",
			wantSchPath:  "#/uniqueItems",
			wantParams:   map[string]any{"i": 2, "j": 0},
			wantMessage:  "must NOT have duplicate items (items ## 0 and 2 are identical)",
		},
		{
			name:         "escaped instance path",
			schema:       `{"properties": {"a/b": {"type": "integer"}}}`,
			instance:     `{"a/b": "x"}`,
			wantKeyword:  "type",
			wantInstPath: "/a~1b",
			wantSchPath:  "#/properties/a~1b/type",
			wantParams:   map[string]any{"type": "integer"},
			wantMessage:  "must be integer",
		},
		{
			name:         "ref error paths rebase onto the target",
			schema:       `{"definitions": {"s": {"type": "string"}}, "properties": {"a": {"$ref": "#/definitions/s"}}}`,
			instance:     `{"a": 1}`,
			wantKeyword:  "type",
			wantInstPath: "/a",
			wantSchPath:  "#/definitions/s/type",
			wantParams:   map[string]any{"type": "string"},
			wantMessage:  "must be string",
		},
		{
			name:         "malformed input becomes a parse error",
			schema:       `{"type": "object"}`,
			instance:     `{oops}`,
			wantKeyword:  "parse",
			wantInstPath: "",
			wantSchPath:  "#",
			wantParams:   map[string]any{},
			wantMessage:  "invalid JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := mustCompile(t, tt.schema)
			res := v.ValidateString(tt.instance)
			if res.Valid {
				t.Fatal("ValidateString() = valid, want invalid")
			}
			if len(res.Errors) != 1 {
				t.Fatalf("got %d errors %+v, want 1", len(res.Errors), res.Errors)
			}
			e := res.Errors[0]
			if e.Keyword != tt.wantKeyword {
				t.Errorf("Keyword = %q, want %q", e.Keyword, tt.wantKeyword)
			}
			if e.InstancePath != tt.wantInstPath {
				t.Errorf("InstancePath = %q, want %q", e.InstancePath, tt.wantInstPath)
			}
			if e.SchemaPath != tt.wantSchPath {
				t.Errorf("SchemaPath = %q, want %q", e.SchemaPath, tt.wantSchPath)
			}
			if diff := cmp.Diff(tt.wantParams, e.Params); diff != "" {
				t.Errorf("Params diff = %v", diff)
			}
			if e.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", e.Message, tt.wantMessage)
			}
		})
	}
}

func TestErrorOrdering(t *testing.T) {
	v := mustCompile(t, `{
		"type": "object",
		"required": ["a", "b"],
		"properties": {
			"c": {"type": "integer"},
			"d": {"type": "string"}
		}
	}`)

	res := v.ValidateString(`{"c": "x", "d": 1}`)
	if res.Valid {
		t.Fatal("ValidateString() = valid, want invalid")
	}
	var got []string
	for _, e := range res.Errors {
		got = append(got, e.Keyword+" "+e.SchemaPath)
	}
	want := []string{
		"required #/required",
		"required #/required",
		"type #/properties/c/type",
		"type #/properties/d/type",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("error order diff = %v", diff)
	}
}

func TestEntryPointEquivalence(t *testing.T) {
	v := mustCompile(t, `{
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string", "minLength": 2},
			"score": {"type": "number", "minimum": 0}
		},
		"additionalProperties": false
	}`)

	inputs := []string{
		`{"name": "ok", "score": 1}`,
		`{"name": "x"}`,
		`{"score": -1, "name": "ok"}`,
		`{"name": "ok", "extra": true}`,
		`[]`,
		`null`,
	}
	for _, in := range inputs {
		val, err := DecodeString(in)
		if err != nil {
			t.Fatalf("DecodeString(%s) error = %v", in, err)
		}
		fromValue := v.Validate(val)
		fromString := v.ValidateString(in)
		fromBytes := v.ValidateBytes([]byte(in))

		if diff := cmp.Diff(fromValue, fromString); diff != "" {
			t.Errorf("Validate vs ValidateString diff for %s = %v", in, diff)
		}
		if diff := cmp.Diff(fromValue, fromBytes); diff != "" {
			t.Errorf("Validate vs ValidateBytes diff for %s = %v", in, diff)
		}
		if got := v.IsValid(val); got != fromValue.Valid {
			t.Errorf("IsValid(%s) = %v, want %v", in, got, fromValue.Valid)
		}
		if got := v.IsValidString(in); got != fromValue.Valid {
			t.Errorf("IsValidString(%s) = %v, want %v", in, got, fromValue.Valid)
		}
	}
}

func TestIsValidBytesAgreesWithValidateBytes(t *testing.T) {
	schemas := []string{
		`{"type": "object", "properties": {"a": {"type": "integer"}}, "required": ["a"]}`,
		`{"items": {"oneOf": [{"type": "string"}, {"minimum": 10}]}}`,
		`{"anyOf": [{"type": "array", "contains": {"const": 1}}, {"type": "string", "pattern": "^z"}]}`,
		`{"not": {"type": "object"}}`,
		`{"if": {"properties": {"kind": {"const": "a"}}}, "then": {"required": ["x"]}, "else": {"required": ["y"]}}`,
		`{"properties": {"a": {}}, "additionalProperties": false, "propertyNames": {"pattern": "^[a-z]+$"}}`,
		`{"dependencies": {"a": ["b"], "c": {"minProperties": 3}}}`,
		`{"enum": [[1, 2], {"a": 1}, "s", 2.5]}`,
		`{"uniqueItems": true, "minItems": 1}`,
		`false`,
	}
	inputs := []string{
		`{"a": 1}`, `{"a": "x"}`, `{}`, `{"a": 1, "b": 2}`,
		`["s", 11, 12]`, `["s", 5]`, `[1, 2, 1]`, `[]`,
		`{"kind": "a", "x": 1}`, `{"kind": "b"}`, `{"kind": "b", "y": 1}`,
		`{"A": 1}`, `{"a": 1, "c": 2}`, `{"c": 1, "d": 2, "e": 3}`,
		`[1, 2]`, `{"a": 1, "z": 0}`, `"s"`, `"zebra"`, `2.5`, `2.50`,
		`null`, `true`, `not json at all`, `{"a": }`,
	}

	for _, schema := range schemas {
		v := mustCompile(t, schema)
		for _, in := range inputs {
			want := v.ValidateBytes([]byte(in)).Valid
			if got := v.IsValidBytes([]byte(in)); got != want {
				t.Errorf("schema %s: IsValidBytes(%s) = %v, ValidateBytes().Valid = %v", schema, in, got, want)
			}
		}
	}
}

func TestDuplicateObjectKeysKeepLast(t *testing.T) {
	v := mustCompile(t, `{"properties": {"a": {"type": "integer"}}, "maxProperties": 1}`)

	// The last occurrence wins, as in JSON.parse.
	lastWins := `{"a": "x", "a": 1}`
	if res := v.ValidateString(lastWins); !res.Valid {
		t.Errorf("ValidateString(%s) = invalid, want valid; errors = %+v", lastWins, res.Errors)
	}
	if !v.IsValidBytes([]byte(lastWins)) {
		t.Errorf("IsValidBytes(%s) = false, want true", lastWins)
	}

	lastLoses := `{"a": 1, "a": "x"}`
	if v.ValidateString(lastLoses).Valid {
		t.Errorf("ValidateString(%s) = valid, want invalid", lastLoses)
	}
	if v.IsValidBytes([]byte(lastLoses)) {
		t.Errorf("IsValidBytes(%s) = true, want false", lastLoses)
	}

	// Duplicates collapse to one member for property counting.
	val, err := DecodeString(lastWins)
	if err != nil {
		t.Fatalf("DecodeString() error = %v", err)
	}
	if val.Len() != 1 {
		t.Errorf("Len() = %d, want 1", val.Len())
	}
}

func TestValidatorIdempotent(t *testing.T) {
	v := mustCompile(t, `{"type": "object", "required": ["a"], "properties": {"a": {"type": "integer"}}}`)

	first := v.ValidateString(`{"a": "x"}`)
	second := v.ValidateString(`{"a": "x"}`)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated validation diff = %v", diff)
	}
}

func TestConcurrentValidation(t *testing.T) {
	v := mustCompile(t, `{"type": "object", "properties": {"n": {"minimum": 0}}, "required": ["n"]}`)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				good := v.ValidateString(`{"n": 1}`)
				if !good.Valid {
					t.Errorf("goroutine %d: valid input reported invalid", i)
					return
				}
				bad := v.ValidateString(`{"n": -1}`)
				if bad.Valid {
					t.Errorf("goroutine %d: invalid input reported valid", i)
					return
				}
			}
		}(i)
	}
	wg.Wait()
}

func TestDegenerateRecursionDepthGuard(t *testing.T) {
	// A schema that re-applies itself to the same value can never
	// terminate by consuming input; the evaluation ceiling stops it.
	v := mustCompile(t, `{"allOf": [{"$ref": "#"}]}`, WithMaxDepth(64))

	res := v.ValidateString(`{"a": 1}`)
	if res.Valid {
		t.Fatal("ValidateString() = valid, want depth failure")
	}
	if res.Errors[0].Keyword != "depthLimit" {
		t.Errorf("Keyword = %q, want %q", res.Errors[0].Keyword, "depthLimit")
	}
	if v.IsValidBytes([]byte(`{"a": 1}`)) {
		t.Error("IsValidBytes() = true, want false")
	}
}

func TestEvalDepthLimit(t *testing.T) {
	v := mustCompile(t, `{
		"properties": {"next": {"$ref": "#"}}
	}`, WithMaxDepth(64))

	depth := 80
	in := strings.Repeat(`{"next":`, depth) + `{}` + strings.Repeat(`}`, depth)
	res := v.ValidateBytes([]byte(in))
	if res.Valid {
		t.Fatal("ValidateBytes() on over-deep input = valid, want invalid")
	}
	if res.Errors[0].Keyword != "parse" {
		t.Errorf("Keyword = %q, want %q", res.Errors[0].Keyword, "parse")
	}
	if v.IsValidBytes([]byte(in)) {
		t.Error("IsValidBytes() on over-deep input = true, want false")
	}
}
