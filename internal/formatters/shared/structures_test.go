// Copyright 2025 the doc6 authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package shared

import (
	"testing"

	"github.com/aelsaeed/doc6/internal/extraction"
	"github.com/aelsaeed/doc6/internal/formatters"
	"github.com/aelsaeed/doc6/internal/layout"
	"github.com/aelsaeed/doc6/internal/pipeline"
	"github.com/aelsaeed/doc6/internal/validation"
)

func sampleReport() *pipeline.Report {
	box := layout.NewBox(330, 90, 400, 110)
	return &pipeline.Report{
		Path:       "w2.pdf",
		DocType:    "W2 (Form W-2)",
		Confidence: 0.95,
		Reasoning:  "keywords found",
		Summary:    "a W-2 form",
		Extraction: &extraction.Result{
			DocType: "W2 (Form W-2)",
			Fields: map[string]extraction.FieldResult{
				"wages":        {Value: "48500.00", Strategy: "template_region"},
				"employee_ssn": {Value: "123-45-6789", Strategy: "context_regex", Box: &box},
				"state_wages":  {Value: extraction.NotFound},
			},
		},
		Validation: &validation.Report{
			Fields: map[string]validation.FieldStatus{
				"wages":        {Valid: true},
				"employee_ssn": {Valid: false, Message: "bad format"},
				"state_wages":  {Valid: true},
			},
		},
	}
}

func TestConvertReports(t *testing.T) {
	response := ConvertReports([]*pipeline.Report{sampleReport()}, formatters.FormatterOptions{Verbose: true})

	if response.Metadata.DocumentCount != 1 {
		t.Errorf("expected document count 1, got %d", response.Metadata.DocumentCount)
	}
	if response.Metadata.Timestamp == "" || response.Metadata.Version == "" {
		t.Error("expected run metadata to be populated")
	}
	if len(response.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(response.Results))
	}

	result := response.Results[0]
	if result.DocumentType != "W2 (Form W-2)" || result.Confidence != 0.95 {
		t.Errorf("unexpected result header: %+v", result)
	}
	if result.Reasoning != "keywords found" {
		t.Error("expected reasoning in verbose mode")
	}

	// Entries come back sorted by name regardless of map order.
	wantOrder := []string{"employee_ssn", "state_wages", "wages"}
	if len(result.Fields) != len(wantOrder) {
		t.Fatalf("expected %d fields, got %d", len(wantOrder), len(result.Fields))
	}
	for i, name := range wantOrder {
		if result.Fields[i].Name != name {
			t.Errorf("field %d: expected %q, got %q", i, name, result.Fields[i].Name)
		}
	}

	ssn := result.Fields[0]
	if ssn.Valid || ssn.Message != "bad format" {
		t.Errorf("expected validation annotation carried over: %+v", ssn)
	}
	if ssn.Box == nil || ssn.Box.X0 != 330 || ssn.Box.Y1 != 110 {
		t.Errorf("expected the bounding box carried over: %+v", ssn.Box)
	}
}

func TestConvertReports_NonVerboseOmitsReasoning(t *testing.T) {
	response := ConvertReports([]*pipeline.Report{sampleReport()}, formatters.FormatterOptions{})

	if response.Results[0].Reasoning != "" {
		t.Error("expected reasoning omitted without verbose")
	}
}
