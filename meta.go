// SPDX-FileCopyrightText: 2026 The ajv-go authors
// SPDX-License-Identifier: MIT

package ajv

import (
	_ "embed"
	"fmt"
	"strings"
)

// Meta-schema URIs for the supported drafts.
const (
	Draft04URI = "http://json-schema.org/draft-04/schema#"
	Draft06URI = "http://json-schema.org/draft-06/schema#"
	Draft07URI = "http://json-schema.org/draft-07/schema#"
)

//go:embed metaschemas/draft-04.json
var metaDraft04 []byte

//go:embed metaschemas/draft-06.json
var metaDraft06 []byte

//go:embed metaschemas/draft-07.json
var metaDraft07 []byte

var metaSources = map[string][]byte{
	Draft04URI: metaDraft04,
	Draft06URI: metaDraft06,
	Draft07URI: metaDraft07,
}

// normalizeMetaURI maps the accepted spellings of a draft URI (with or
// without the trailing empty fragment, http or https) onto the
// canonical constant, or "" when unrecognized.
func normalizeMetaURI(uri string) string {
	u := strings.TrimSuffix(uri, "#")
	u = strings.TrimPrefix(u, "https://")
	u = strings.TrimPrefix(u, "http://")
	switch u {
	case "json-schema.org/draft-04/schema":
		return Draft04URI
	case "json-schema.org/draft-06/schema":
		return Draft06URI
	case "json-schema.org/draft-07/schema":
		return Draft07URI
	}
	return ""
}

// schemaMetaURI returns the draft the schema declares via $schema, or
// "" when absent.
func schemaMetaURI(sch Value) string {
	if sch.Kind() != Object {
		return ""
	}
	if s, ok := sch.Lookup("$schema"); ok && s.Kind() == String {
		return s.Str()
	}
	return ""
}

// metaValidator returns the compiled meta-schema for a draft URI,
// compiling the embedded document on first use.
func (a *Ajv) metaValidator(uri string) (*Validator, error) {
	canonical := normalizeMetaURI(uri)
	if canonical == "" {
		return nil, compileErrorf("unknown meta-schema %q", uri)
	}

	a.metaMu.Lock()
	defer a.metaMu.Unlock()
	if v, ok := a.metas[canonical]; ok {
		return v, nil
	}

	doc, err := decodeBytes(metaSources[canonical], defaultMaxDepth)
	if err != nil {
		return nil, fmt.Errorf("decode embedded meta-schema %s: %w", canonical, err)
	}
	c := newCompiler(nil, options{validateFormats: true, maxDepth: defaultMaxDepth})
	plan, cerr := c.compileRoot(doc)
	if cerr != nil {
		return nil, fmt.Errorf("compile embedded meta-schema %s: %w", canonical, cerr)
	}
	v := &Validator{plan: plan, maxDepth: defaultMaxDepth}
	a.metas[canonical] = v
	return v, nil
}

// checkAgainstMeta validates a schema document against its declared
// (or default) draft meta-schema.
func (a *Ajv) checkAgainstMeta(sch Value, defaultMeta string) error {
	uri := schemaMetaURI(sch)
	if uri == "" {
		uri = defaultMeta
	}
	mv, err := a.metaValidator(uri)
	if err != nil {
		return err
	}
	if res := mv.Validate(sch); !res.Valid {
		return &CompileError{Message: "schema is invalid against meta-schema " + uri, Errors: res.Errors}
	}
	return nil
}
