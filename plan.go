// SPDX-FileCopyrightText: 2026 The ajv-go authors
// SPDX-License-Identifier: MIT

package ajv

import "regexp"

// node is one compiled evaluator in a validation plan. The keyword set
// is closed, so a single struct with optional fields per keyword family
// dispatches faster than an interface per keyword and keeps the plan
// trivially shareable between goroutines once built.
//
// loc is the absolute schema location ("#/..." or "uri#/..." once a
// $ref crosses documents) used to build error schemaPath values.
type node struct {
	loc        string
	boolSchema *bool

	// $ref: when set, all sibling keywords were ignored at compile
	// time (draft-04..07 semantics).
	ref *node

	types    []string
	enum     []Value
	constVal *Value

	multipleOf       *Value
	maximum          *Value
	exclusiveMaximum *Value
	minimum          *Value
	exclusiveMinimum *Value

	maxLength  *int
	minLength  *int
	pattern    *regexp.Regexp
	patternSrc string

	formatName string
	formatFn   formatFunc // nil compiles the keyword to a no-op

	items           *node
	tupleItems      []*node
	additionalItems *node
	maxItems        *int
	minItems        *int
	uniqueItems     bool
	contains        *node
	minContains     *int
	maxContains     *int

	maxProperties   *int
	minProperties   *int
	required        []string
	props           []propSchema
	patternProps    []patternSchema
	additionalProps *node
	propertyNames   *node
	deps            []dependency

	allOf []*node
	anyOf []*node
	oneOf []*node
	not   *node

	ifSchema   *node
	thenSchema *node
	elseSchema *node
}

// propSchema keeps "properties" entries in schema declaration order so
// error ordering is stable across runs.
type propSchema struct {
	name   string
	schema *node
}

type patternSchema struct {
	re     *regexp.Regexp
	src    string
	schema *node
}

// dependency is one "dependencies" / "dependentRequired" /
// "dependentSchemas" entry: exactly one of required or schema is set.
type dependency struct {
	prop     string
	keyword  string // which keyword produced it, for schemaPath
	required []string
	schema   *node
}

// isFalse reports whether n is the boolean schema false. The object
// keywords special-case it to emit additionalProperties /
// additionalItems errors instead of a generic boolean-schema failure.
func (n *node) isFalse() bool {
	return n != nil && n.boolSchema != nil && !*n.boolSchema
}
