// SPDX-FileCopyrightText: 2026 The ajv-go authors
// SPDX-License-Identifier: MIT

package ajv

import (
	"strconv"
	"strings"
)

// escapeToken escapes a single reference token per RFC 6901.
func escapeToken(tok string) string {
	if !strings.ContainsAny(tok, "~/") {
		return tok
	}
	tok = strings.ReplaceAll(tok, "~", "~0")
	return strings.ReplaceAll(tok, "/", "~1")
}

// unescapeToken reverses escapeToken. Order matters: ~1 before ~0.
func unescapeToken(tok string) string {
	if !strings.Contains(tok, "~") {
		return tok
	}
	tok = strings.ReplaceAll(tok, "~1", "/")
	return strings.ReplaceAll(tok, "~0", "~")
}

// resolvePointer resolves a JSON pointer (without the leading "#")
// within doc. An empty pointer addresses doc itself.
func resolvePointer(doc Value, ptr string) (Value, bool) {
	if ptr == "" {
		return doc, true
	}
	if ptr[0] != '/' {
		return Value{}, false
	}
	cur := doc
	for _, raw := range strings.Split(ptr[1:], "/") {
		tok := unescapeToken(raw)
		switch cur.Kind() {
		case Object:
			next, ok := cur.Lookup(tok)
			if !ok {
				return Value{}, false
			}
			cur = next
		case Array:
			idx, err := strconv.Atoi(tok)
			if err != nil || idx < 0 || idx >= cur.Len() {
				return Value{}, false
			}
			cur = cur.Items()[idx]
		default:
			return Value{}, false
		}
	}
	return cur, true
}
