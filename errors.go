// SPDX-FileCopyrightText: 2026 The ajv-go authors
// SPDX-License-Identifier: MIT

package ajv

import (
	"fmt"
	"strings"
)

// ValidationError is a single keyword failure, shaped exactly like an
// Ajv error object so host adapters can pass it through unchanged.
type ValidationError struct {
	InstancePath string         `json:"instancePath"`
	SchemaPath   string         `json:"schemaPath"`
	Keyword      string         `json:"keyword"`
	Params       map[string]any `json:"params"`
	Message      string         `json:"message"`
}

// Result is the outcome of a validation call. Valid is false when
// Errors is non-empty; Errors keeps keyword-failure order from a
// single depth-first traversal.
type Result struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// CompileError reports a schema that could not be compiled: malformed
// schema value, unresolvable $ref, bad pattern, or a failed
// meta-schema check. It is fatal only to the compile call.
type CompileError struct {
	Message string
	// Errors holds meta-schema violations when the schema itself
	// failed validation; nil otherwise.
	Errors []ValidationError
}

func (e *CompileError) Error() string {
	if len(e.Errors) == 0 {
		return "compile: " + e.Message
	}
	parts := make([]string, 0, len(e.Errors))
	for _, ve := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s %s", ve.SchemaPath, ve.Message))
	}
	return "compile: " + e.Message + ": " + strings.Join(parts, "; ")
}

// RegistrationError reports a rejected AddSchema call.
type RegistrationError struct {
	Key     string
	Message string
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("add schema %q: %s", e.Key, e.Message)
}

func compileErrorf(format string, args ...any) *CompileError {
	return &CompileError{Message: fmt.Sprintf(format, args...)}
}

// parseFailure wraps a decode error as a normal validation outcome so
// malformed input and schema-mismatched input look the same to callers.
func parseFailure(err error) *Result {
	return &Result{Errors: []ValidationError{{
		InstancePath: "",
		SchemaPath:   "#",
		Keyword:      "parse",
		Params:       map[string]any{},
		Message:      err.Error(),
	}}}
}

func depthFailure(instPath string) ValidationError {
	return ValidationError{
		InstancePath: instPath,
		SchemaPath:   "#",
		Keyword:      "depthLimit",
		Params:       map[string]any{},
		Message:      "instance exceeds maximum validation depth",
	}
}
