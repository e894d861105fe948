// SPDX-FileCopyrightText: 2026 The ajv-go authors
// SPDX-License-Identifier: MIT

package ajv

import (
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

// The fast path evaluates a plan directly over raw JSON bytes through
// gjson's lazy results: containers hand out raw sub-slices without
// decoding them, so validation touches only what the schema asks about
// and stops at the first failure. Only equality-based keywords (enum,
// const, uniqueItems) materialize the sub-value they compare.
//
// Depth accounting mirrors node.eval exactly so that
// IsValidBytes(data) == ValidateBytes(data).Valid for every input.

type fastMember struct {
	key string
	val gjson.Result
}

func evalFast(n *node, r gjson.Result, depth, maxDepth int) bool {
	if depth > maxDepth {
		return false
	}
	if n.ref != nil {
		return evalFast(n.ref, r, depth+1, maxDepth)
	}
	if n.boolSchema != nil {
		return *n.boolSchema
	}

	if n.types != nil && !typeMatchesFast(n.types, r) {
		return false
	}
	if n.enum != nil || n.constVal != nil {
		// Depth 0: the buffer already passed the whole-document
		// depth check, so materializing here cannot fail.
		v, err := fromResult(r, 0, maxDepth)
		if err != nil {
			return false
		}
		if n.enum != nil && !containsEqual(n.enum, v) {
			return false
		}
		if n.constVal != nil && !Equal(*n.constVal, v) {
			return false
		}
	}
	if n.formatFn != nil && r.Type == gjson.String && !n.formatFn(r.Str) {
		return false
	}

	switch {
	case r.Type == gjson.Number:
		if !fastNumeric(n, r) {
			return false
		}
	case r.Type == gjson.String:
		if !fastString(n, r) {
			return false
		}
	case r.IsArray():
		if !fastArray(n, r, depth, maxDepth) {
			return false
		}
	case r.IsObject():
		if !fastObject(n, r, depth, maxDepth) {
			return false
		}
	}

	return fastApplicators(n, r, depth, maxDepth)
}

func fastNumeric(n *node, r gjson.Result) bool {
	if n.multipleOf == nil && n.maximum == nil && n.exclusiveMaximum == nil &&
		n.minimum == nil && n.exclusiveMinimum == nil {
		return true
	}
	v := numberFromRaw(r)
	if n.multipleOf != nil && !isMultipleOf(v, *n.multipleOf) {
		return false
	}
	if n.maximum != nil && compareNumbers(v, *n.maximum) > 0 {
		return false
	}
	if n.exclusiveMaximum != nil && compareNumbers(v, *n.exclusiveMaximum) >= 0 {
		return false
	}
	if n.minimum != nil && compareNumbers(v, *n.minimum) < 0 {
		return false
	}
	if n.exclusiveMinimum != nil && compareNumbers(v, *n.exclusiveMinimum) <= 0 {
		return false
	}
	return true
}

func fastString(n *node, r gjson.Result) bool {
	if n.maxLength != nil || n.minLength != nil {
		length := utf8.RuneCountInString(r.Str)
		if n.maxLength != nil && length > *n.maxLength {
			return false
		}
		if n.minLength != nil && length < *n.minLength {
			return false
		}
	}
	return n.pattern == nil || n.pattern.MatchString(r.Str)
}

func fastArray(n *node, r gjson.Result, depth, maxDepth int) bool {
	var items []gjson.Result
	r.ForEach(func(_, item gjson.Result) bool {
		items = append(items, item)
		return true
	})

	if n.maxItems != nil && len(items) > *n.maxItems {
		return false
	}
	if n.minItems != nil && len(items) < *n.minItems {
		return false
	}
	if n.uniqueItems && len(items) > 1 {
		vals := make([]Value, len(items))
		for i, item := range items {
			v, err := fromResult(item, 0, maxDepth)
			if err != nil {
				return false
			}
			vals[i] = v
		}
		if _, _, dup := firstDuplicate(vals); dup {
			return false
		}
	}
	if n.items != nil {
		for _, item := range items {
			if !evalFast(n.items, item, depth+1, maxDepth) {
				return false
			}
		}
	}
	if n.tupleItems != nil {
		for i, item := range items {
			if i < len(n.tupleItems) {
				if !evalFast(n.tupleItems[i], item, depth+1, maxDepth) {
					return false
				}
				continue
			}
			if n.additionalItems == nil {
				break
			}
			if n.additionalItems.isFalse() {
				return false
			}
			if !evalFast(n.additionalItems, item, depth+1, maxDepth) {
				return false
			}
		}
	}
	if n.contains != nil {
		count := 0
		for _, item := range items {
			if evalFast(n.contains, item, depth+1, maxDepth) {
				count++
			}
		}
		minC := 1
		if n.minContains != nil {
			minC = *n.minContains
		}
		if count < minC {
			return false
		}
		if n.maxContains != nil && count > *n.maxContains {
			return false
		}
	}
	return true
}

func fastObject(n *node, r gjson.Result, depth, maxDepth int) bool {
	var members []fastMember
	r.ForEach(func(key, val gjson.Result) bool {
		// Duplicate keys keep the last value, matching fromResult.
		for i := range members {
			if members[i].key == key.Str {
				members[i].val = val
				return true
			}
		}
		members = append(members, fastMember{key: key.Str, val: val})
		return true
	})
	lookup := func(key string) (gjson.Result, bool) {
		for _, m := range members {
			if m.key == key {
				return m.val, true
			}
		}
		return gjson.Result{}, false
	}

	if n.maxProperties != nil && len(members) > *n.maxProperties {
		return false
	}
	if n.minProperties != nil && len(members) < *n.minProperties {
		return false
	}
	for _, req := range n.required {
		if _, present := lookup(req); !present {
			return false
		}
	}
	for _, p := range n.props {
		if pv, present := lookup(p.name); present {
			if !evalFast(p.schema, pv, depth+1, maxDepth) {
				return false
			}
		}
	}
	for _, pp := range n.patternProps {
		for _, m := range members {
			if pp.re.MatchString(m.key) && !evalFast(pp.schema, m.val, depth+1, maxDepth) {
				return false
			}
		}
	}
	if n.additionalProps != nil {
		for _, m := range members {
			if n.coveredProperty(m.key) {
				continue
			}
			if n.additionalProps.isFalse() {
				return false
			}
			if !evalFast(n.additionalProps, m.val, depth+1, maxDepth) {
				return false
			}
		}
	}
	if n.propertyNames != nil {
		for _, m := range members {
			if !n.propertyNames.probe(StringValue(m.key), depth+1, maxDepth) {
				return false
			}
		}
	}
	for _, d := range n.deps {
		if _, present := lookup(d.prop); !present {
			continue
		}
		if d.schema != nil {
			if !evalFast(d.schema, r, depth+1, maxDepth) {
				return false
			}
			continue
		}
		for _, req := range d.required {
			if _, present := lookup(req); !present {
				return false
			}
		}
	}
	return true
}

func fastApplicators(n *node, r gjson.Result, depth, maxDepth int) bool {
	for _, child := range n.allOf {
		if !evalFast(child, r, depth+1, maxDepth) {
			return false
		}
	}
	if n.anyOf != nil {
		matched := false
		for _, child := range n.anyOf {
			if evalFast(child, r, depth+1, maxDepth) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	if n.oneOf != nil {
		passing := 0
		for _, child := range n.oneOf {
			if evalFast(child, r, depth+1, maxDepth) {
				passing++
				if passing > 1 {
					return false
				}
			}
		}
		if passing != 1 {
			return false
		}
	}
	if n.not != nil && evalFast(n.not, r, depth+1, maxDepth) {
		return false
	}
	if n.ifSchema != nil {
		branch := n.thenSchema
		if !evalFast(n.ifSchema, r, depth+1, maxDepth) {
			branch = n.elseSchema
		}
		if branch != nil && !evalFast(branch, r, depth+1, maxDepth) {
			return false
		}
	}
	return true
}

func typeMatchesFast(types []string, r gjson.Result) bool {
	for _, t := range types {
		switch t {
		case "null":
			if r.Type == gjson.Null {
				return true
			}
		case "boolean":
			if r.Type == gjson.True || r.Type == gjson.False {
				return true
			}
		case "string":
			if r.Type == gjson.String {
				return true
			}
		case "number":
			if r.Type == gjson.Number {
				return true
			}
		case "integer":
			if r.Type == gjson.Number && rawIsIntegral(r) {
				return true
			}
		case "array":
			if r.IsArray() {
				return true
			}
		case "object":
			if r.IsObject() {
				return true
			}
		}
	}
	return false
}

// rawIsIntegral reports whether a number token holds an integral
// value, matching Value.isIntegral on the decoded form (so "1.0" and
// "1e2" count as integers).
func rawIsIntegral(r gjson.Result) bool {
	if !strings.ContainsAny(r.Raw, ".eE") {
		return true
	}
	return numberFromRaw(r).isIntegral()
}
