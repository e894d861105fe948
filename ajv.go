// SPDX-FileCopyrightText: 2026 The ajv-go authors
// SPDX-License-Identifier: MIT

// Package ajv is a JSON Schema validation engine (drafts 04, 06 and
// 07) producing Ajv-compatible error records. Schemas compile once
// into immutable Validators that can be shared across goroutines and
// run against decoded values, JSON text, or raw byte buffers.
package ajv

import (
	"fmt"
	"strings"
	"sync"
)

// defaultMaxDepth bounds document nesting and schema application depth
// so adversarial inputs degrade to a structural error, not a crash.
const defaultMaxDepth = 512

type options struct {
	defaultMeta     string
	validateFormats bool
	strictFormats   bool
	validateSchema  bool
	maxDepth        int
}

// Option configures an Ajv instance or a single Compile call.
type Option func(*options)

// WithDefaultMeta sets the draft meta-schema assumed when a schema has
// no $schema of its own. The default is draft-07.
func WithDefaultMeta(uri string) Option {
	return func(o *options) { o.defaultMeta = uri }
}

// WithValidateFormats toggles evaluation of the format keyword. When
// off, format compiles to a no-op and schemas are still accepted.
// Defaults to on.
func WithValidateFormats(on bool) Option {
	return func(o *options) { o.validateFormats = on }
}

// WithStrictFormats makes an unknown format name a compile error
// instead of an always-valid annotation.
func WithStrictFormats(on bool) Option {
	return func(o *options) { o.strictFormats = on }
}

// WithValidateSchema validates the schema document itself against its
// draft meta-schema at compile time.
func WithValidateSchema(on bool) Option {
	return func(o *options) { o.validateSchema = on }
}

// WithMaxDepth sets the nesting/recursion ceiling for decoding and
// evaluation.
func WithMaxDepth(n int) Option {
	return func(o *options) { o.maxDepth = n }
}

// Ajv owns a registry of schema documents and compiles them into
// Validators. Registry mutation (AddSchema, RemoveSchema, Clear) is
// mutually exclusive with compilation; validation of already-compiled
// plans never touches the registry, so clearing it leaves previously
// returned Validators fully usable.
type Ajv struct {
	mu       sync.RWMutex
	docs     map[string]Value
	compiled map[string]*Validator

	opts options

	metaMu sync.Mutex
	metas  map[string]*Validator
}

// New creates an Ajv instance.
func New(opts ...Option) *Ajv {
	o := options{
		defaultMeta:     Draft07URI,
		validateFormats: true,
		maxDepth:        defaultMaxDepth,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Ajv{
		docs:     make(map[string]Value),
		compiled: make(map[string]*Validator),
		opts:     o,
		metas:    make(map[string]*Validator),
	}
}

// AddSchema registers a schema document for $ref resolution. With an
// empty key the document's own $id (or draft-04 id) is used; a
// document with neither is accepted but unaddressable, so registration
// is a no-op and only a later $ref can fail. Registering an existing
// key is an error.
func (a *Ajv) AddSchema(schema Value, key string) error {
	if schema.Kind() != Object && schema.Kind() != Bool {
		return &RegistrationError{Key: key, Message: "schema must be an object or boolean"}
	}
	if key == "" {
		key = documentID(schema)
	}
	key = strings.TrimSuffix(key, "#")
	if key == "" {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.docs[key]; exists {
		return &RegistrationError{Key: key, Message: "schema with this key is already registered"}
	}
	a.docs[key] = schema
	return nil
}

// AddSchemaBytes decodes and registers a raw schema document.
func (a *Ajv) AddSchemaBytes(data []byte, key string) error {
	schema, err := decodeBytes(data, a.opts.maxDepth)
	if err != nil {
		return &RegistrationError{Key: key, Message: fmt.Sprintf("invalid schema document: %v", err)}
	}
	return a.AddSchema(schema, key)
}

// RemoveSchema drops one registered document and its cached plan.
// Validators already returned by Compile or GetSchema are unaffected.
func (a *Ajv) RemoveSchema(key string) {
	key = strings.TrimSuffix(key, "#")
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.docs, key)
	delete(a.compiled, key)
}

// Clear drops every registered document and all cached plans.
func (a *Ajv) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.docs = make(map[string]Value)
	a.compiled = make(map[string]*Validator)
}

// Compile builds a Validator for a schema document. References to
// other documents resolve against the registry at compile time; the
// returned Validator holds its own plan and never reads the registry
// again.
func (a *Ajv) Compile(schema Value, opts ...Option) (*Validator, error) {
	o := a.opts
	for _, opt := range opts {
		opt(&o)
	}
	if o.validateSchema {
		if err := a.checkAgainstMeta(schema, o.defaultMeta); err != nil {
			return nil, err
		}
	}

	a.mu.RLock()
	defer a.mu.RUnlock()
	c := newCompiler(a.docs, o)
	plan, err := c.compileRoot(schema)
	if err != nil {
		return nil, err
	}
	return &Validator{plan: plan, maxDepth: o.maxDepth}, nil
}

// CompileBytes decodes a raw schema document and compiles it.
func (a *Ajv) CompileBytes(data []byte, opts ...Option) (*Validator, error) {
	schema, err := decodeBytes(data, a.opts.maxDepth)
	if err != nil {
		return nil, compileErrorf("invalid schema document: %v", err)
	}
	return a.Compile(schema, opts...)
}

// CompileDraft compiles with an explicit draft hint, used when the
// schema carries no $schema. An unrecognized hint is ignored.
func (a *Ajv) CompileDraft(schema Value, draftURI string, opts ...Option) (*Validator, error) {
	if normalizeMetaURI(draftURI) != "" {
		opts = append([]Option{WithDefaultMeta(draftURI)}, opts...)
	}
	return a.Compile(schema, opts...)
}

// GetSchema returns the Validator for a registered document, compiling
// it on first use and caching the result until the entry is removed.
func (a *Ajv) GetSchema(key string) (*Validator, error) {
	key = strings.TrimSuffix(key, "#")

	a.mu.RLock()
	if v, ok := a.compiled[key]; ok {
		a.mu.RUnlock()
		return v, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()
	if v, ok := a.compiled[key]; ok {
		return v, nil
	}
	doc, ok := a.docs[key]
	if !ok {
		return nil, compileErrorf("no schema registered under key %q", key)
	}
	if a.opts.validateSchema {
		if err := a.checkAgainstMeta(doc, a.opts.defaultMeta); err != nil {
			return nil, err
		}
	}
	c := newCompiler(a.docs, a.opts)
	plan, err := c.compileRoot(doc)
	if err != nil {
		return nil, err
	}
	v := &Validator{plan: plan, maxDepth: a.opts.maxDepth}
	a.compiled[key] = v
	return v, nil
}
