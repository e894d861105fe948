// SPDX-FileCopyrightText: 2026 The ajv-go authors
// SPDX-License-Identifier: MIT

package ajv

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

// Validator is a compiled, reusable schema. It owns its whole plan
// tree, is immutable after Compile, and is safe for concurrent use.
// It stays usable after the originating Ajv instance clears or drops
// the schemas it was compiled from.
type Validator struct {
	plan     *node
	maxDepth int
}

// Validate checks an already-decoded value.
func (v *Validator) Validate(val Value) *Result {
	st := &evalState{collect: true, maxDepth: v.maxDepth}
	ok := v.plan.eval(val, "", 0, st)
	return &Result{Valid: ok, Errors: st.errs}
}

// ValidateString decodes JSON text and validates it. Malformed input
// is reported as a validation failure with a single "parse" error.
func (v *Validator) ValidateString(s string) *Result {
	val, err := decodeString(s, v.maxDepth)
	if err != nil {
		return parseFailure(err)
	}
	return v.Validate(val)
}

// ValidateBytes decodes a raw JSON buffer and validates it.
func (v *Validator) ValidateBytes(data []byte) *Result {
	val, err := decodeBytes(data, v.maxDepth)
	if err != nil {
		return parseFailure(err)
	}
	return v.Validate(val)
}

// IsValid reports whether val satisfies the schema. No error records
// are built and evaluation stops at the first failure.
func (v *Validator) IsValid(val Value) bool {
	st := &evalState{maxDepth: v.maxDepth}
	return v.plan.eval(val, "", 0, st)
}

// IsValidString is the boolean-only form of ValidateString.
func (v *Validator) IsValidString(s string) bool {
	val, err := decodeString(s, v.maxDepth)
	if err != nil {
		return false
	}
	return v.IsValid(val)
}

// IsValidBytes is the boolean-only fast path over a raw buffer: it
// evaluates the plan lazily against the undecoded bytes, stopping as
// soon as the result is known, and never materializes a full document.
func (v *Validator) IsValidBytes(data []byte) bool {
	if !gjson.ValidBytes(data) || exceedsDepth(data, v.maxDepth) {
		return false
	}
	return evalFast(v.plan, gjson.ParseBytes(data), 0, v.maxDepth)
}

// evalState carries per-call traversal state. collect=false is the
// fail-fast boolean mode shared by the IsValid entry points.
type evalState struct {
	errs     []ValidationError
	collect  bool
	maxDepth int
}

// deny appends a keyword failure. The returned abort flag is true in
// boolean mode, where the first failure settles the result.
func (st *evalState) deny(n *node, path, keyword string, params map[string]any, message string) (abort bool) {
	if !st.collect {
		return true
	}
	if params == nil {
		params = map[string]any{}
	}
	st.errs = append(st.errs, ValidationError{
		InstancePath: path,
		SchemaPath:   n.loc + "/" + keyword,
		Keyword:      keyword,
		Params:       params,
		Message:      message,
	})
	return false
}

// probe evaluates n silently, for applicators whose children must not
// contribute to the report.
func (n *node) probe(v Value, depth, maxDepth int) bool {
	st := &evalState{maxDepth: maxDepth}
	return n.eval(v, "", depth, st)
}

// eval applies every keyword of n to v. It returns false when any
// keyword failed; in collect mode it keeps going so the report is
// complete, matching a full-error-reporting consumer.
func (n *node) eval(v Value, path string, depth int, st *evalState) bool {
	if depth > st.maxDepth {
		if st.collect {
			st.errs = append(st.errs, depthFailure(path))
		}
		return false
	}
	if n.ref != nil {
		return n.ref.eval(v, path, depth+1, st)
	}
	if n.boolSchema != nil {
		if *n.boolSchema {
			return true
		}
		if st.collect {
			st.errs = append(st.errs, ValidationError{
				InstancePath: path,
				SchemaPath:   n.loc,
				Keyword:      "false schema",
				Params:       map[string]any{},
				Message:      "boolean schema is false",
			})
		}
		return false
	}

	ok := true

	if n.types != nil && !typeMatches(n.types, v) {
		ok = false
		if st.deny(n, path, "type", map[string]any{"type": strings.Join(n.types, ",")},
			"must be "+strings.Join(n.types, ",")) {
			return false
		}
	}
	if n.enum != nil && !containsEqual(n.enum, v) {
		ok = false
		if st.deny(n, path, "enum", map[string]any{"allowedValues": toGoSlice(n.enum)},
			"must be equal to one of the allowed values") {
			return false
		}
	}
	if n.constVal != nil && !Equal(*n.constVal, v) {
		ok = false
		if st.deny(n, path, "const", map[string]any{"allowedValue": n.constVal.ToGo()},
			"must be equal to constant") {
			return false
		}
	}
	if n.formatFn != nil && v.Kind() == String && !n.formatFn(v.Str()) {
		ok = false
		if st.deny(n, path, "format", map[string]any{"format": n.formatName},
			fmt.Sprintf("must match format %q", n.formatName)) {
			return false
		}
	}

	var valid, abort bool
	switch v.Kind() {
	case Int, Float:
		valid, abort = n.evalNumeric(v, path, st)
	case String:
		valid, abort = n.evalString(v, path, st)
	case Array:
		valid, abort = n.evalArray(v, path, depth, st)
	case Object:
		valid, abort = n.evalObject(v, path, depth, st)
	default:
		valid = true
	}
	if !valid {
		ok = false
		if abort {
			return false
		}
	}

	valid, abort = n.evalApplicators(v, path, depth, st)
	if !valid {
		ok = false
		if abort {
			return false
		}
	}
	return ok
}

func (n *node) evalNumeric(v Value, path string, st *evalState) (valid, abort bool) {
	valid = true
	if n.multipleOf != nil && !isMultipleOf(v, *n.multipleOf) {
		valid = false
		if st.deny(n, path, "multipleOf", map[string]any{"multipleOf": n.multipleOf.ToGo()},
			"must be multiple of "+n.multipleOf.String()) {
			return false, true
		}
	}
	bounds := []struct {
		limit      *Value
		keyword    string
		comparison string
		holds      func(cmp int) bool
	}{
		{n.maximum, "maximum", "<=", func(c int) bool { return c <= 0 }},
		{n.exclusiveMaximum, "exclusiveMaximum", "<", func(c int) bool { return c < 0 }},
		{n.minimum, "minimum", ">=", func(c int) bool { return c >= 0 }},
		{n.exclusiveMinimum, "exclusiveMinimum", ">", func(c int) bool { return c > 0 }},
	}
	for _, b := range bounds {
		if b.limit == nil || b.holds(compareNumbers(v, *b.limit)) {
			continue
		}
		valid = false
		if st.deny(n, path, b.keyword, map[string]any{"comparison": b.comparison, "limit": b.limit.ToGo()},
			fmt.Sprintf("must be %s %s", b.comparison, b.limit.String())) {
			return false, true
		}
	}
	return valid, false
}

func (n *node) evalString(v Value, path string, st *evalState) (valid, abort bool) {
	valid = true
	length := utf8.RuneCountInString(v.Str())
	if n.maxLength != nil && length > *n.maxLength {
		valid = false
		if st.deny(n, path, "maxLength", map[string]any{"limit": *n.maxLength},
			fmt.Sprintf("must NOT have more than %d characters", *n.maxLength)) {
			return false, true
		}
	}
	if n.minLength != nil && length < *n.minLength {
		valid = false
		if st.deny(n, path, "minLength", map[string]any{"limit": *n.minLength},
			fmt.Sprintf("must NOT have fewer than %d characters", *n.minLength)) {
			return false, true
		}
	}
	if n.pattern != nil && !n.pattern.MatchString(v.Str()) {
		valid = false
		if st.deny(n, path, "pattern", map[string]any{"pattern": n.patternSrc},
			fmt.Sprintf("must match pattern %q", n.patternSrc)) {
			return false, true
		}
	}
	return valid, false
}

func (n *node) evalArray(v Value, path string, depth int, st *evalState) (valid, abort bool) {
	valid = true
	items := v.Items()
	if n.maxItems != nil && len(items) > *n.maxItems {
		valid = false
		if st.deny(n, path, "maxItems", map[string]any{"limit": *n.maxItems},
			fmt.Sprintf("must NOT have more than %d items", *n.maxItems)) {
			return false, true
		}
	}
	if n.minItems != nil && len(items) < *n.minItems {
		valid = false
		if st.deny(n, path, "minItems", map[string]any{"limit": *n.minItems},
			fmt.Sprintf("must NOT have fewer than %d items", *n.minItems)) {
			return false, true
		}
	}
	if n.uniqueItems {
		// Ajv convention: i is the later index, j the earlier.
		if j, i, dup := firstDuplicate(items); dup {
			valid = false
			if st.deny(n, path, "uniqueItems", map[string]any{"i": i, "j": j},
				fmt.Sprintf("must NOT have duplicate items (items ## %d and %d are identical)", j, i)) {
				return false, true
			}
		}
	}
	if n.items != nil {
		for i, item := range items {
			if !n.items.eval(item, path+"/"+strconv.Itoa(i), depth+1, st) {
				valid = false
				if !st.collect {
					return false, true
				}
			}
		}
	}
	if n.tupleItems != nil {
		for i, item := range items {
			if i < len(n.tupleItems) {
				if !n.tupleItems[i].eval(item, path+"/"+strconv.Itoa(i), depth+1, st) {
					valid = false
					if !st.collect {
						return false, true
					}
				}
				continue
			}
			if n.additionalItems == nil {
				break
			}
			if n.additionalItems.isFalse() {
				valid = false
				if st.deny(n, path, "additionalItems", map[string]any{"limit": len(n.tupleItems)},
					fmt.Sprintf("must NOT have more than %d items", len(n.tupleItems))) {
					return false, true
				}
				break
			}
			if !n.additionalItems.eval(item, path+"/"+strconv.Itoa(i), depth+1, st) {
				valid = false
				if !st.collect {
					return false, true
				}
			}
		}
	}
	if n.contains != nil {
		count := 0
		for _, item := range items {
			if n.contains.probe(item, depth+1, st.maxDepth) {
				count++
			}
		}
		minC := 1
		if n.minContains != nil {
			minC = *n.minContains
		}
		if count < minC {
			valid = false
			if st.deny(n, path, "contains", map[string]any{"minContains": minC},
				fmt.Sprintf("must contain at least %d valid item(s)", minC)) {
				return false, true
			}
		}
		if n.maxContains != nil && count > *n.maxContains {
			valid = false
			if st.deny(n, path, "contains", map[string]any{"maxContains": *n.maxContains},
				fmt.Sprintf("must contain at most %d valid item(s)", *n.maxContains)) {
				return false, true
			}
		}
	}
	return valid, false
}

func (n *node) evalObject(v Value, path string, depth int, st *evalState) (valid, abort bool) {
	valid = true
	members := v.Members()
	if n.maxProperties != nil && len(members) > *n.maxProperties {
		valid = false
		if st.deny(n, path, "maxProperties", map[string]any{"limit": *n.maxProperties},
			fmt.Sprintf("must NOT have more than %d properties", *n.maxProperties)) {
			return false, true
		}
	}
	if n.minProperties != nil && len(members) < *n.minProperties {
		valid = false
		if st.deny(n, path, "minProperties", map[string]any{"limit": *n.minProperties},
			fmt.Sprintf("must NOT have fewer than %d properties", *n.minProperties)) {
			return false, true
		}
	}
	for _, req := range n.required {
		if _, present := v.Lookup(req); !present {
			valid = false
			if st.deny(n, path, "required", map[string]any{"missingProperty": req},
				fmt.Sprintf("must have required property '%s'", req)) {
				return false, true
			}
		}
	}
	for _, p := range n.props {
		pv, present := v.Lookup(p.name)
		if !present {
			continue
		}
		if !p.schema.eval(pv, path+"/"+escapeToken(p.name), depth+1, st) {
			valid = false
			if !st.collect {
				return false, true
			}
		}
	}
	for _, pp := range n.patternProps {
		for _, m := range members {
			if !pp.re.MatchString(m.Key) {
				continue
			}
			if !pp.schema.eval(m.Value, path+"/"+escapeToken(m.Key), depth+1, st) {
				valid = false
				if !st.collect {
					return false, true
				}
			}
		}
	}
	if n.additionalProps != nil {
		for _, m := range members {
			if n.coveredProperty(m.Key) {
				continue
			}
			if n.additionalProps.isFalse() {
				valid = false
				if st.deny(n, path, "additionalProperties", map[string]any{"additionalProperty": m.Key},
					"must NOT have additional properties") {
					return false, true
				}
				continue
			}
			if !n.additionalProps.eval(m.Value, path+"/"+escapeToken(m.Key), depth+1, st) {
				valid = false
				if !st.collect {
					return false, true
				}
			}
		}
	}
	if n.propertyNames != nil {
		for _, m := range members {
			if n.propertyNames.probe(StringValue(m.Key), depth+1, st.maxDepth) {
				continue
			}
			valid = false
			if st.deny(n, path, "propertyNames", map[string]any{"propertyName": m.Key},
				"property name must be valid") {
				return false, true
			}
		}
	}
	for _, d := range n.deps {
		if _, present := v.Lookup(d.prop); !present {
			continue
		}
		if d.schema != nil {
			if !d.schema.eval(v, path, depth+1, st) {
				valid = false
				if !st.collect {
					return false, true
				}
			}
			continue
		}
		for _, req := range d.required {
			if _, present := v.Lookup(req); present {
				continue
			}
			valid = false
			if st.deny(n, path, d.keyword, map[string]any{
				"property":        d.prop,
				"missingProperty": req,
				"depsCount":       len(d.required),
				"deps":            strings.Join(d.required, ", "),
			}, fmt.Sprintf("must have property %s when property %s is present", req, d.prop)) {
				return false, true
			}
		}
	}
	return valid, false
}

func (n *node) evalApplicators(v Value, path string, depth int, st *evalState) (valid, abort bool) {
	valid = true
	for _, child := range n.allOf {
		if !child.eval(v, path, depth+1, st) {
			valid = false
			if !st.collect {
				return false, true
			}
		}
	}
	if n.anyOf != nil {
		matched := false
		for _, child := range n.anyOf {
			if child.probe(v, depth+1, st.maxDepth) {
				matched = true
				break
			}
		}
		if !matched {
			valid = false
			if st.deny(n, path, "anyOf", nil, "must match a schema in anyOf") {
				return false, true
			}
		}
	}
	if n.oneOf != nil {
		var passing []int
		for i, child := range n.oneOf {
			if child.probe(v, depth+1, st.maxDepth) {
				passing = append(passing, i)
			}
		}
		if len(passing) != 1 {
			var ps any
			if len(passing) > 0 {
				ps = passing
			}
			valid = false
			if st.deny(n, path, "oneOf", map[string]any{"passingSchemas": ps},
				"must match exactly one schema in oneOf") {
				return false, true
			}
		}
	}
	if n.not != nil && n.not.probe(v, depth+1, st.maxDepth) {
		valid = false
		if st.deny(n, path, "not", nil, "must NOT be valid") {
			return false, true
		}
	}
	if n.ifSchema != nil {
		branch, name := n.thenSchema, "then"
		if !n.ifSchema.probe(v, depth+1, st.maxDepth) {
			branch, name = n.elseSchema, "else"
		}
		if branch != nil && !branch.eval(v, path, depth+1, st) {
			valid = false
			if st.deny(n, path, "if", map[string]any{"failingKeyword": name},
				fmt.Sprintf("must match %q schema", name)) {
				return false, true
			}
		}
	}
	return valid, false
}

// coveredProperty reports whether a key is matched by "properties" or
// any "patternProperties" entry and is therefore exempt from
// "additionalProperties".
func (n *node) coveredProperty(key string) bool {
	for _, p := range n.props {
		if p.name == key {
			return true
		}
	}
	for _, pp := range n.patternProps {
		if pp.re.MatchString(key) {
			return true
		}
	}
	return false
}

func typeMatches(types []string, v Value) bool {
	for _, t := range types {
		switch t {
		case "integer":
			if v.isIntegral() {
				return true
			}
		case "number":
			if v.Kind() == Int || v.Kind() == Float {
				return true
			}
		default:
			if v.typeName() == t {
				return true
			}
		}
	}
	return false
}

func containsEqual(set []Value, v Value) bool {
	for _, item := range set {
		if Equal(item, v) {
			return true
		}
	}
	return false
}

func toGoSlice(vals []Value) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v.ToGo()
	}
	return out
}

func firstDuplicate(items []Value) (int, int, bool) {
	for j := 1; j < len(items); j++ {
		for i := 0; i < j; i++ {
			if Equal(items[i], items[j]) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// compareNumbers orders two numeric values, exactly for Int/Int pairs
// and by float comparison otherwise.
func compareNumbers(a, b Value) int {
	if a.Kind() == Int && b.Kind() == Int {
		switch {
		case a.Int() < b.Int():
			return -1
		case a.Int() > b.Int():
			return 1
		}
		return 0
	}
	af, bf := a.Number(), b.Number()
	switch {
	case af < bf:
		return -1
	case af > bf:
		return 1
	}
	return 0
}

// isMultipleOf uses exact integer arithmetic when it can and a
// tolerance-bounded quotient check otherwise, so 0.3/0.1 style float
// noise does not produce false negatives.
func isMultipleOf(v, m Value) bool {
	if v.Kind() == Int && m.Kind() == Int {
		return v.Int()%m.Int() == 0
	}
	div := v.Number() / m.Number()
	if math.IsInf(div, 0) || math.IsNaN(div) {
		return false
	}
	return math.Abs(div-math.Round(div)) <= 1e-9
}
