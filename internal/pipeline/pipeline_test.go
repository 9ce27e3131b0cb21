// Copyright 2025 the doc6 authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/aelsaeed/doc6/internal/classifier"
	"github.com/aelsaeed/doc6/internal/doctype"
	"github.com/aelsaeed/doc6/internal/extraction"
	"github.com/aelsaeed/doc6/internal/extraction/w2"
	"github.com/aelsaeed/doc6/internal/layout"
)

const w2Text = `Form W-2 Wage and Tax Statement
a Employee's social security number 123-45-6789
b Employer identification number 12-3456789
1 Wages, tips, other compensation $48,500.00
2 Federal income tax withheld 6,835.00
Copy B - To Be Filed With Employee's FEDERAL Tax Return
Tax Year 2023`

// newW2Pipeline wires a keyword-only classifier against the real registry, so
// the whole run works without an embedding provider.
func newW2Pipeline() *Pipeline {
	registry := extraction.NewRegistry(extraction.NewGenericExtractor())
	registry.Register(doctype.W2, w2.New())
	return New(classifier.New(nil, nil), registry)
}

func TestProcess_W2EndToEnd(t *testing.T) {
	p := newW2Pipeline()

	report, err := p.Process(context.Background(), Document{
		Path: "w2-2023.pdf",
		Text: w2Text,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.DocType != doctype.W2 {
		t.Errorf("expected %q, got %q", doctype.W2, report.DocType)
	}
	if report.Confidence != 0.95 {
		t.Errorf("expected override confidence, got %v", report.Confidence)
	}
	if report.Summary == "" || report.Reasoning == "" {
		t.Error("expected summary and reasoning to be populated")
	}

	// No OCR words were supplied, so the run degraded to text strategies.
	if !report.Extraction.Degraded {
		t.Error("expected degraded extraction without words")
	}

	fields := report.Extraction.Fields
	if len(fields) != 14 {
		t.Fatalf("expected the full W-2 schema, got %d fields", len(fields))
	}
	if fields["employee_ssn"].Value != "123-45-6789" {
		t.Errorf("ssn: got %q", fields["employee_ssn"].Value)
	}
	if fields["wages"].Value != "48500.00" {
		t.Errorf("wages: got %q", fields["wages"].Value)
	}
	if fields["state_wages"].Value != extraction.NotFound {
		t.Errorf("expected sentinel for state wages, got %q", fields["state_wages"].Value)
	}

	// Validation annotates; the required fields this text omits make the
	// report invalid, but every value stays untouched.
	if report.Validation == nil {
		t.Fatal("expected a validation report")
	}
	if report.Validation.Valid {
		t.Error("expected validation violations for missing required fields")
	}
	if !report.Validation.Fields["employee_ssn"].Valid {
		t.Error("expected the extracted SSN to validate")
	}
	if report.Validation.Fields["employer_name"].Valid {
		t.Error("expected missing employer name to be a violation")
	}
}

func TestProcess_ClassificationFailureIsFatal(t *testing.T) {
	p := newW2Pipeline()

	// No override markers and no embedder: classification must fail and the
	// failure surfaces instead of a default guess.
	_, err := p.Process(context.Background(), Document{Text: "an unremarkable document"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "classifying document") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestProcess_GenericFallback(t *testing.T) {
	registry := extraction.NewRegistry(extraction.NewGenericExtractor())
	p := New(classifier.New(nil, nil), registry)

	report, err := p.Process(context.Background(), Document{Text: w2Text})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Nothing registered for W-2: the generic schema comes back and loose
	// validation accepts it wholesale.
	if _, ok := report.Extraction.Fields["wages"]; ok {
		t.Error("generic extractor must not produce W-2 fields")
	}
	if _, ok := report.Extraction.Fields["date"]; !ok {
		t.Error("expected the generic schema")
	}
}

func TestProcess_DegenerateBoxesDegrade(t *testing.T) {
	p := newW2Pipeline()

	// All boxes collapse to a single point: the index cannot be built and the
	// run must degrade rather than fail.
	report, err := p.Process(context.Background(), Document{
		Text:  w2Text,
		Words: []string{"a", "b"},
		Boxes: []layout.Box{layout.NewBox(5, 5, 5, 5), layout.NewBox(5, 5, 5, 5)},
	})
	if err != nil {
		t.Fatalf("expected degraded run, got error: %v", err)
	}
	if !report.Extraction.Degraded {
		t.Error("expected degraded extraction for a degenerate extent")
	}
}

func TestProcess_WithWordIndex(t *testing.T) {
	p := newW2Pipeline()

	report, err := p.Process(context.Background(), Document{
		Text:  w2Text,
		Words: []string{"W-2", "2023"},
		Boxes: []layout.Box{layout.NewBox(0, 0, 50, 20), layout.NewBox(400, 900, 450, 920)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Extraction.Degraded {
		t.Error("expected a full run with a valid word index")
	}
}
