// Copyright 2025 the doc6 authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package json

import (
	"encoding/json"
	"testing"

	"github.com/aelsaeed/doc6/internal/extraction"
	"github.com/aelsaeed/doc6/internal/formatters"
	"github.com/aelsaeed/doc6/internal/pipeline"
	"github.com/aelsaeed/doc6/internal/validation"
)

func TestFormat_RoundTrips(t *testing.T) {
	f := NewFormatter()

	report := &pipeline.Report{
		DocType:    "W2 (Form W-2)",
		Confidence: 0.95,
		Extraction: &extraction.Result{
			Fields: map[string]extraction.FieldResult{
				"wages": {Value: "48500.00", Strategy: "template_region"},
			},
		},
		Validation: &validation.Report{
			Fields: map[string]validation.FieldStatus{"wages": {Valid: true}},
			Valid:  true,
		},
	}

	out, err := f.Format([]*pipeline.Report{report}, formatters.FormatterOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded struct {
		Metadata struct {
			DocumentCount int `json:"document_count"`
		} `json:"metadata"`
		Results []struct {
			DocumentType string `json:"document_type"`
			Fields       []struct {
				Name  string `json:"name"`
				Value string `json:"value"`
				Valid bool   `json:"is_valid"`
			} `json:"fields"`
		} `json:"results"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if decoded.Metadata.DocumentCount != 1 {
		t.Errorf("expected document count 1, got %d", decoded.Metadata.DocumentCount)
	}
	if len(decoded.Results) != 1 || decoded.Results[0].DocumentType != "W2 (Form W-2)" {
		t.Fatalf("unexpected results: %+v", decoded.Results)
	}
	field := decoded.Results[0].Fields[0]
	if field.Name != "wages" || field.Value != "48500.00" || !field.Valid {
		t.Errorf("unexpected field: %+v", field)
	}
}

func TestRegistered(t *testing.T) {
	if _, ok := formatters.Get("json"); !ok {
		t.Fatal("json formatter not registered")
	}
}
