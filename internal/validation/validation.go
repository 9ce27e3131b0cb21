// Copyright 2025 the doc6 authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package validation annotates extracted field values against their schema
// definitions. It never mutates or drops values; a malformed value stays in
// the result with a violation message attached.
package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aelsaeed/doc6/internal/extraction"
	"github.com/aelsaeed/doc6/internal/template"
)

// FieldStatus is the validity annotation for one field.
type FieldStatus struct {
	Valid   bool   `json:"is_valid"`
	Message string `json:"message,omitempty"`
}

// Report collects the per-field annotations for one document.
type Report struct {
	Fields map[string]FieldStatus `json:"fields"`

	// Valid is true when every field passed.
	Valid bool `json:"valid"`
}

// Validate checks extracted fields against their definitions. A required
// field carrying the sentinel gets a "required field not found" violation,
// which is distinct from a malformed present value. Optional absent fields
// are valid.
func Validate(defs []template.FieldDefinition, fields map[string]extraction.FieldResult) *Report {
	report := &Report{
		Fields: make(map[string]FieldStatus, len(defs)),
		Valid:  true,
	}

	for _, def := range defs {
		status := validateField(def, fields[def.Name].Value)
		report.Fields[def.Name] = status
		if !status.Valid {
			report.Valid = false
		}
	}
	return report
}

// ValidateLoose annotates a schema-less field map, e.g. the generic
// extractor's output. Present values are valid by definition; sentinel values
// are valid too since nothing is required.
func ValidateLoose(fields map[string]extraction.FieldResult) *Report {
	report := &Report{
		Fields: make(map[string]FieldStatus, len(fields)),
		Valid:  true,
	}
	for name := range fields {
		report.Fields[name] = FieldStatus{Valid: true}
	}
	return report
}

func validateField(def template.FieldDefinition, value string) FieldStatus {
	if value == "" || value == extraction.NotFound {
		if def.Required {
			return FieldStatus{Valid: false, Message: "required field not found"}
		}
		return FieldStatus{Valid: true}
	}

	switch def.DataType {
	case template.TypeCurrency:
		return validateCurrency(def, value)
	case template.TypeInteger:
		return validateInteger(def, value)
	default:
		if def.FormatPattern != nil && !def.FormatPattern.MatchString(value) {
			return FieldStatus{Valid: false, Message: fmt.Sprintf("value %q does not match the expected format", value)}
		}
		return FieldStatus{Valid: true}
	}
}

// validateCurrency checks the format pattern first, then the parsed amount.
// The W-2 pattern requires explicit cents, so "48500" is rejected even though
// it parses as a number.
func validateCurrency(def template.FieldDefinition, value string) FieldStatus {
	if def.FormatPattern != nil && !def.FormatPattern.MatchString(value) {
		return FieldStatus{Valid: false, Message: fmt.Sprintf("value %q is not a valid currency amount", value)}
	}

	cleaned := strings.ReplaceAll(strings.TrimPrefix(value, "$"), ",", "")
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return FieldStatus{Valid: false, Message: fmt.Sprintf("value %q is not a valid amount", value)}
	}
	if amount < 0 {
		return FieldStatus{Valid: false, Message: "amount must not be negative"}
	}
	return FieldStatus{Valid: true}
}

func validateInteger(def template.FieldDefinition, value string) FieldStatus {
	if def.FormatPattern != nil && !def.FormatPattern.MatchString(value) {
		return FieldStatus{Valid: false, Message: fmt.Sprintf("value %q is not a valid year", value)}
	}
	if _, err := strconv.Atoi(value); err != nil {
		return FieldStatus{Valid: false, Message: fmt.Sprintf("value %q is not an integer", value)}
	}
	return FieldStatus{Valid: true}
}
