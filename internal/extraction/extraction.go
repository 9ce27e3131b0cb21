// Copyright 2025 the doc6 authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package extraction defines the field-extraction capability shared by all
// document types and the registry that dispatches a classified type to its
// specialized extractor.
package extraction

import (
	"github.com/aelsaeed/doc6/internal/layout"
)

// NotFound is the sentinel value for a schema field whose extraction was
// attempted but produced nothing. Distinct from an empty value: the output
// always fully populates the declared schema.
const NotFound = "Not found"

// FieldResult carries one extracted field value plus traceability data.
type FieldResult struct {
	Value string `json:"value"`

	// Box is the absolute bounding box of the winning block when a spatial
	// strategy produced the value, for external visualization. Nil otherwise.
	Box *layout.Box `json:"box,omitempty"`

	// Strategy names the fallback strategy that produced the value.
	Strategy string `json:"strategy,omitempty"`
}

// Result is the outcome of extracting one document.
type Result struct {
	DocType string                 `json:"document_type"`
	Fields  map[string]FieldResult `json:"fields"`

	// Degraded is set when extraction ran without OCR words and had to rely
	// on raw-text regex strategies only.
	Degraded bool `json:"degraded,omitempty"`
}

// Extractor is the per-document-type extraction capability. Adding a new
// document type means registering a new implementation; the dispatch logic
// never changes.
type Extractor interface {
	// FieldSchema returns the field names this extractor produces, in output
	// order.
	FieldSchema() []string

	// ExtractFields resolves fields from the word index and the raw document
	// text. index may be nil when no OCR words are available; implementations
	// then degrade to text-only strategies. Fields that could not be resolved
	// may be omitted; Run fills the sentinel.
	ExtractFields(index *layout.WordIndex, text string) map[string]FieldResult
}

// Run executes an extractor and completes its output against the declared
// schema: every schema field is present in the result, resolved fields keep
// their first (and only) value, unresolved fields get the NotFound sentinel.
func Run(ex Extractor, docType string, index *layout.WordIndex, text string) *Result {
	fields := ex.ExtractFields(index, text)
	if fields == nil {
		fields = make(map[string]FieldResult)
	}

	for _, name := range ex.FieldSchema() {
		if r, ok := fields[name]; !ok || r.Value == "" {
			fields[name] = FieldResult{Value: NotFound}
		}
	}

	// Drop anything outside the schema so the contract stays exact.
	schema := make(map[string]bool, len(ex.FieldSchema()))
	for _, name := range ex.FieldSchema() {
		schema[name] = true
	}
	for name := range fields {
		if !schema[name] {
			delete(fields, name)
		}
	}

	return &Result{
		DocType:  docType,
		Fields:   fields,
		Degraded: index == nil,
	}
}
