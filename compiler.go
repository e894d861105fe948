// SPDX-FileCopyrightText: 2026 The ajv-go authors
// SPDX-License-Identifier: MIT

package ajv

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strings"
)

// compiler walks a schema document once and produces the plan tree.
// memo maps resolved absolute schema locations to their nodes; a
// placeholder is registered before a target compiles so that cyclic
// $ref chains terminate.
type compiler struct {
	docs map[string]Value // registry snapshot, read-only during compile
	opts options

	memo map[string]*node
}

func newCompiler(docs map[string]Value, opts options) *compiler {
	return &compiler{docs: docs, opts: opts, memo: make(map[string]*node)}
}

// compileRoot compiles a full schema document.
func (c *compiler) compileRoot(sch Value) (*node, error) {
	docURI := documentID(sch)
	n := &node{loc: "#"}
	c.memo[memoKey(docURI, "")] = n
	if err := c.compileInto(sch, n, sch, docURI); err != nil {
		return nil, err
	}
	return n, nil
}

// compile builds the node for a nested schema at loc.
func (c *compiler) compile(sch Value, loc string, doc Value, docURI string) (*node, error) {
	n := &node{loc: loc}
	if err := c.compileInto(sch, n, doc, docURI); err != nil {
		return nil, err
	}
	return n, nil
}

func (c *compiler) compileInto(sch Value, n *node, doc Value, docURI string) error {
	switch sch.Kind() {
	case Bool:
		b := sch.Bool()
		n.boolSchema = &b
		return nil
	case Object:
	default:
		return compileErrorf("schema must be an object or boolean, got %s", sch.typeName())
	}

	if ref, ok := sch.Lookup("$ref"); ok {
		if ref.Kind() != String {
			return compileErrorf("$ref must be a string")
		}
		target, err := c.resolveRef(ref.Str(), doc, docURI)
		if err != nil {
			return err
		}
		n.ref = target
		return nil
	}

	if err := c.compileGeneric(sch, n); err != nil {
		return err
	}
	if err := c.compileNumeric(sch, n); err != nil {
		return err
	}
	if err := c.compileString(sch, n); err != nil {
		return err
	}
	if err := c.compileArray(sch, n, doc, docURI); err != nil {
		return err
	}
	if err := c.compileObject(sch, n, doc, docURI); err != nil {
		return err
	}
	return c.compileApplicators(sch, n, doc, docURI)
}

func (c *compiler) compileGeneric(sch Value, n *node) error {
	if t, ok := sch.Lookup("type"); ok {
		names, err := typeNames(t)
		if err != nil {
			return err
		}
		n.types = names
	}
	if e, ok := sch.Lookup("enum"); ok {
		if e.Kind() != Array {
			return compileErrorf("enum must be an array")
		}
		n.enum = e.Items()
	}
	if cv, ok := sch.Lookup("const"); ok {
		v := cv
		n.constVal = &v
	}
	if f, ok := sch.Lookup("format"); ok {
		if f.Kind() != String {
			return compileErrorf("format must be a string")
		}
		n.formatName = f.Str()
		if c.opts.validateFormats {
			fn, known := formats[f.Str()]
			if !known && c.opts.strictFormats {
				return compileErrorf("unknown format %q", f.Str())
			}
			n.formatFn = fn
		}
	}
	return nil
}

func (c *compiler) compileNumeric(sch Value, n *node) error {
	var err error
	if n.multipleOf, err = numberKeyword(sch, "multipleOf"); err != nil {
		return err
	}
	if n.multipleOf != nil && n.multipleOf.Number() <= 0 {
		return compileErrorf("multipleOf must be greater than 0")
	}
	if n.maximum, err = numberKeyword(sch, "maximum"); err != nil {
		return err
	}
	if n.minimum, err = numberKeyword(sch, "minimum"); err != nil {
		return err
	}

	// exclusiveMinimum/Maximum: draft-06+ numbers, or draft-04
	// booleans modifying minimum/maximum.
	if v, ok := sch.Lookup("exclusiveMaximum"); ok {
		switch v.Kind() {
		case Int, Float:
			ev := v
			n.exclusiveMaximum = &ev
		case Bool:
			if v.Bool() {
				if n.maximum == nil {
					return compileErrorf("exclusiveMaximum: true requires maximum")
				}
				n.exclusiveMaximum, n.maximum = n.maximum, nil
			}
		default:
			return compileErrorf("exclusiveMaximum must be a number or boolean")
		}
	}
	if v, ok := sch.Lookup("exclusiveMinimum"); ok {
		switch v.Kind() {
		case Int, Float:
			ev := v
			n.exclusiveMinimum = &ev
		case Bool:
			if v.Bool() {
				if n.minimum == nil {
					return compileErrorf("exclusiveMinimum: true requires minimum")
				}
				n.exclusiveMinimum, n.minimum = n.minimum, nil
			}
		default:
			return compileErrorf("exclusiveMinimum must be a number or boolean")
		}
	}
	return nil
}

func (c *compiler) compileString(sch Value, n *node) error {
	var err error
	if n.maxLength, err = intKeyword(sch, "maxLength"); err != nil {
		return err
	}
	if n.minLength, err = intKeyword(sch, "minLength"); err != nil {
		return err
	}
	if p, ok := sch.Lookup("pattern"); ok {
		if p.Kind() != String {
			return compileErrorf("pattern must be a string")
		}
		re, rerr := regexp.Compile(p.Str())
		if rerr != nil {
			return compileErrorf("invalid pattern %q: %v", p.Str(), rerr)
		}
		n.pattern, n.patternSrc = re, p.Str()
	}
	return nil
}

func (c *compiler) compileArray(sch Value, n *node, doc Value, docURI string) error {
	var err error
	if n.maxItems, err = intKeyword(sch, "maxItems"); err != nil {
		return err
	}
	if n.minItems, err = intKeyword(sch, "minItems"); err != nil {
		return err
	}
	if u, ok := sch.Lookup("uniqueItems"); ok {
		if u.Kind() != Bool {
			return compileErrorf("uniqueItems must be a boolean")
		}
		n.uniqueItems = u.Bool()
	}
	if items, ok := sch.Lookup("items"); ok {
		if items.Kind() == Array {
			for i, sub := range items.Items() {
				child, err := c.compile(sub, fmt.Sprintf("%s/items/%d", n.loc, i), doc, docURI)
				if err != nil {
					return err
				}
				n.tupleItems = append(n.tupleItems, child)
			}
			if ai, ok := sch.Lookup("additionalItems"); ok {
				child, err := c.compile(ai, n.loc+"/additionalItems", doc, docURI)
				if err != nil {
					return err
				}
				n.additionalItems = child
			}
		} else {
			child, err := c.compile(items, n.loc+"/items", doc, docURI)
			if err != nil {
				return err
			}
			n.items = child
		}
	}
	if cv, ok := sch.Lookup("contains"); ok {
		child, err := c.compile(cv, n.loc+"/contains", doc, docURI)
		if err != nil {
			return err
		}
		n.contains = child
		if n.minContains, err = intKeyword(sch, "minContains"); err != nil {
			return err
		}
		if n.maxContains, err = intKeyword(sch, "maxContains"); err != nil {
			return err
		}
	}
	return nil
}

func (c *compiler) compileObject(sch Value, n *node, doc Value, docURI string) error {
	var err error
	if n.maxProperties, err = intKeyword(sch, "maxProperties"); err != nil {
		return err
	}
	if n.minProperties, err = intKeyword(sch, "minProperties"); err != nil {
		return err
	}
	if r, ok := sch.Lookup("required"); ok {
		if r.Kind() != Array {
			return compileErrorf("required must be an array")
		}
		for _, item := range r.Items() {
			if item.Kind() != String {
				return compileErrorf("required entries must be strings")
			}
			n.required = append(n.required, item.Str())
		}
	}
	if props, ok := sch.Lookup("properties"); ok {
		if props.Kind() != Object {
			return compileErrorf("properties must be an object")
		}
		for _, m := range props.Members() {
			child, err := c.compile(m.Value, n.loc+"/properties/"+escapeToken(m.Key), doc, docURI)
			if err != nil {
				return err
			}
			n.props = append(n.props, propSchema{name: m.Key, schema: child})
		}
	}
	if pp, ok := sch.Lookup("patternProperties"); ok {
		if pp.Kind() != Object {
			return compileErrorf("patternProperties must be an object")
		}
		for _, m := range pp.Members() {
			re, rerr := regexp.Compile(m.Key)
			if rerr != nil {
				return compileErrorf("invalid patternProperties pattern %q: %v", m.Key, rerr)
			}
			child, err := c.compile(m.Value, n.loc+"/patternProperties/"+escapeToken(m.Key), doc, docURI)
			if err != nil {
				return err
			}
			n.patternProps = append(n.patternProps, patternSchema{re: re, src: m.Key, schema: child})
		}
	}
	if ap, ok := sch.Lookup("additionalProperties"); ok {
		child, err := c.compile(ap, n.loc+"/additionalProperties", doc, docURI)
		if err != nil {
			return err
		}
		n.additionalProps = child
	}
	if pn, ok := sch.Lookup("propertyNames"); ok {
		child, err := c.compile(pn, n.loc+"/propertyNames", doc, docURI)
		if err != nil {
			return err
		}
		n.propertyNames = child
	}
	if err := c.compileDependencies(sch, n, "dependencies", doc, docURI); err != nil {
		return err
	}
	if err := c.compileDependencies(sch, n, "dependentRequired", doc, docURI); err != nil {
		return err
	}
	return c.compileDependencies(sch, n, "dependentSchemas", doc, docURI)
}

// compileDependencies handles draft-07 "dependencies" and its split
// successors. The required form and the schema form are told apart by
// the member's value type.
func (c *compiler) compileDependencies(sch Value, n *node, keyword string, doc Value, docURI string) error {
	deps, ok := sch.Lookup(keyword)
	if !ok {
		return nil
	}
	if deps.Kind() != Object {
		return compileErrorf("%s must be an object", keyword)
	}
	for _, m := range deps.Members() {
		d := dependency{prop: m.Key, keyword: keyword}
		if m.Value.Kind() == Array {
			if keyword == "dependentSchemas" {
				return compileErrorf("dependentSchemas values must be schemas")
			}
			for _, item := range m.Value.Items() {
				if item.Kind() != String {
					return compileErrorf("%s entries must be strings", keyword)
				}
				d.required = append(d.required, item.Str())
			}
		} else {
			if keyword == "dependentRequired" {
				return compileErrorf("dependentRequired values must be arrays")
			}
			child, err := c.compile(m.Value, n.loc+"/"+keyword+"/"+escapeToken(m.Key), doc, docURI)
			if err != nil {
				return err
			}
			d.schema = child
		}
		n.deps = append(n.deps, d)
	}
	return nil
}

func (c *compiler) compileApplicators(sch Value, n *node, doc Value, docURI string) error {
	var err error
	if n.allOf, err = c.compileList(sch, "allOf", n.loc, doc, docURI); err != nil {
		return err
	}
	if n.anyOf, err = c.compileList(sch, "anyOf", n.loc, doc, docURI); err != nil {
		return err
	}
	if n.oneOf, err = c.compileList(sch, "oneOf", n.loc, doc, docURI); err != nil {
		return err
	}
	if nv, ok := sch.Lookup("not"); ok {
		if n.not, err = c.compile(nv, n.loc+"/not", doc, docURI); err != nil {
			return err
		}
	}
	if iv, ok := sch.Lookup("if"); ok {
		if n.ifSchema, err = c.compile(iv, n.loc+"/if", doc, docURI); err != nil {
			return err
		}
		if tv, ok := sch.Lookup("then"); ok {
			if n.thenSchema, err = c.compile(tv, n.loc+"/then", doc, docURI); err != nil {
				return err
			}
		}
		if ev, ok := sch.Lookup("else"); ok {
			if n.elseSchema, err = c.compile(ev, n.loc+"/else", doc, docURI); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *compiler) compileList(sch Value, keyword, loc string, doc Value, docURI string) ([]*node, error) {
	list, ok := sch.Lookup(keyword)
	if !ok {
		return nil, nil
	}
	if list.Kind() != Array || list.Len() == 0 {
		return nil, compileErrorf("%s must be a non-empty array", keyword)
	}
	out := make([]*node, 0, list.Len())
	for i, sub := range list.Items() {
		child, err := c.compile(sub, fmt.Sprintf("%s/%s/%d", loc, keyword, i), doc, docURI)
		if err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	return out, nil
}

// resolveRef resolves a $ref URI to a compiled node, compiling the
// target on first sight. Targets are memoized by absolute location so
// shared sub-schemas compile once and cycles terminate.
func (c *compiler) resolveRef(ref string, doc Value, docURI string) (*node, error) {
	base, frag := splitFragment(ref)
	if frag != "" && frag[0] != '/' {
		return nil, compileErrorf("cannot resolve $ref %q: plain-name fragments are not supported", ref)
	}

	targetDoc, targetURI := doc, docURI
	sameDoc := base == "" || base == docURI || base == strings.TrimSuffix(docURI, "/")
	if !sameDoc {
		found, foundURI, ok := c.lookupDocument(base, docURI)
		if !ok {
			return nil, compileErrorf("cannot resolve $ref %q: schema %q is not registered", ref, base)
		}
		targetDoc, targetURI = found, foundURI
	}

	key := memoKey(targetURI, frag)
	if n, ok := c.memo[key]; ok {
		return n, nil
	}

	target, ok := resolvePointer(targetDoc, frag)
	if !ok {
		return nil, compileErrorf("cannot resolve $ref %q: no value at pointer %q", ref, frag)
	}

	loc := "#" + frag
	if !sameDoc {
		loc = targetURI + "#" + frag
	}
	n := &node{loc: loc}
	c.memo[key] = n
	if err := c.compileInto(target, n, targetDoc, targetURI); err != nil {
		return nil, err
	}
	return n, nil
}

// lookupDocument finds a registered document for a base URI, with the
// same fallbacks the registered-schema retriever applies: exact key,
// key without trailing slash, and the ref resolved against the current
// document's URI.
func (c *compiler) lookupDocument(base, docURI string) (Value, string, bool) {
	if d, ok := c.docs[base]; ok {
		return d, base, true
	}
	if trimmed := strings.TrimSuffix(base, "/"); trimmed != base {
		if d, ok := c.docs[trimmed]; ok {
			return d, trimmed, true
		}
	}
	if docURI != "" {
		if abs := resolveURI(docURI, base); abs != "" && abs != base {
			if d, ok := c.docs[abs]; ok {
				return d, abs, true
			}
		}
	}
	return Value{}, "", false
}

func memoKey(docURI, frag string) string {
	return docURI + "#" + frag
}

func splitFragment(ref string) (base, frag string) {
	if i := strings.IndexByte(ref, '#'); i >= 0 {
		frag = ref[i+1:]
		if u, err := url.PathUnescape(frag); err == nil {
			frag = u
		}
		return ref[:i], frag
	}
	return ref, ""
}

func resolveURI(base, ref string) string {
	bu, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ru, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return bu.ResolveReference(ru).String()
}

// documentID returns the document's own identifier: "$id", falling
// back to draft-04 "id". A trailing empty fragment is stripped so the
// identifier compares equal to $ref base URIs.
func documentID(sch Value) string {
	if sch.Kind() != Object {
		return ""
	}
	if id, ok := sch.Lookup("$id"); ok && id.Kind() == String {
		return strings.TrimSuffix(id.Str(), "#")
	}
	if id, ok := sch.Lookup("id"); ok && id.Kind() == String {
		return strings.TrimSuffix(id.Str(), "#")
	}
	return ""
}

func typeNames(t Value) ([]string, error) {
	switch t.Kind() {
	case String:
		if !validTypeName(t.Str()) {
			return nil, compileErrorf("unknown type %q", t.Str())
		}
		return []string{t.Str()}, nil
	case Array:
		names := make([]string, 0, t.Len())
		for _, item := range t.Items() {
			if item.Kind() != String || !validTypeName(item.Str()) {
				return nil, compileErrorf("type entries must be valid type names")
			}
			names = append(names, item.Str())
		}
		return names, nil
	}
	return nil, compileErrorf("type must be a string or array of strings")
}

func validTypeName(s string) bool {
	switch s {
	case "null", "boolean", "object", "array", "number", "integer", "string":
		return true
	}
	return false
}

// numberKeyword extracts an optional numeric keyword, keeping the
// original Int/Float representation for exact comparison.
func numberKeyword(sch Value, keyword string) (*Value, error) {
	v, ok := sch.Lookup(keyword)
	if !ok {
		return nil, nil
	}
	if v.Kind() != Int && v.Kind() != Float {
		return nil, compileErrorf("%s must be a number", keyword)
	}
	return &v, nil
}

// intKeyword extracts an optional non-negative integer keyword.
func intKeyword(sch Value, keyword string) (*int, error) {
	v, ok := sch.Lookup(keyword)
	if !ok {
		return nil, nil
	}
	if !v.isIntegral() || v.Number() < 0 {
		return nil, compileErrorf("%s must be a non-negative integer", keyword)
	}
	var i int
	if v.Kind() == Int {
		i = int(v.Int())
	} else {
		// Integral floats can exceed the int range (1e300), where
		// the conversion result is unspecified.
		if v.Float() >= math.MaxInt64 {
			return nil, compileErrorf("%s is out of range", keyword)
		}
		i = int(v.Float())
	}
	return &i, nil
}
