// Copyright 2025 the doc6 authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package pipeline orchestrates a document run: word-index construction,
// classification, extractor dispatch, field extraction and validation.
package pipeline

import (
	"context"
	"fmt"

	"github.com/aelsaeed/doc6/internal/classifier"
	"github.com/aelsaeed/doc6/internal/doctype"
	"github.com/aelsaeed/doc6/internal/extraction"
	"github.com/aelsaeed/doc6/internal/layout"
	"github.com/aelsaeed/doc6/internal/observability"
	"github.com/aelsaeed/doc6/internal/template"
	"github.com/aelsaeed/doc6/internal/validation"
)

// Document is the decoded input to one pipeline run: plain text plus the
// parallel word/box lists from the OCR or layout source. Words may be empty;
// extraction then degrades to text-only strategies.
type Document struct {
	Path  string
	Text  string
	Words []string
	Boxes []layout.Box
}

// Report is the full outcome of processing one document.
type Report struct {
	Path       string             `json:"path,omitempty"`
	DocType    string             `json:"document_type"`
	Confidence float64            `json:"confidence"`
	Reasoning  string             `json:"reasoning,omitempty"`
	Summary    string             `json:"summary,omitempty"`
	Extraction *extraction.Result `json:"extraction"`
	Validation *validation.Report `json:"validation"`
}

// Pipeline ties the classifier and the extractor registry together. It holds
// no per-document state and is safe for concurrent use; distinct documents
// may be processed in parallel.
type Pipeline struct {
	classifier *classifier.Classifier
	registry   *extraction.Registry
	observer   *observability.StandardObserver
}

// New creates a pipeline.
func New(cl *classifier.Classifier, registry *extraction.Registry) *Pipeline {
	return &Pipeline{
		classifier: cl,
		registry:   registry,
	}
}

// SetObserver sets the observability component and propagates it to the
// classifier.
func (p *Pipeline) SetObserver(observer *observability.StandardObserver) {
	p.observer = observer
	if p.classifier != nil {
		p.classifier.SetObserver(observer)
	}
}

// Process runs the full pipeline on one document. A classification failure is
// fatal to the call; missing OCR words are not, the run degrades to text-only
// extraction instead.
func (p *Pipeline) Process(ctx context.Context, doc Document) (*Report, error) {
	var finishTiming func(bool, map[string]interface{})
	if p.observer != nil {
		finishTiming = p.observer.StartTiming("pipeline", "process_document", doc.Path)
	}

	report, err := p.process(ctx, doc)
	if finishTiming != nil {
		metadata := map[string]interface{}{}
		if report != nil {
			metadata["document_type"] = report.DocType
			metadata["degraded"] = report.Extraction.Degraded
		}
		finishTiming(err == nil, metadata)
	}
	return report, err
}

func (p *Pipeline) process(ctx context.Context, doc Document) (*Report, error) {
	index := p.buildIndex(doc)

	classification, err := p.classifier.Classify(ctx, doc.Text)
	if err != nil {
		return nil, fmt.Errorf("classifying document: %w", err)
	}

	ex := p.registry.Get(classification.Label)
	result := extraction.Run(ex, classification.Label, index, doc.Text)

	return &Report{
		Path:       doc.Path,
		DocType:    classification.Label,
		Confidence: classification.Confidence,
		Reasoning:  classification.Reasoning,
		Summary:    classifier.GenerateSummary(classification.Label),
		Extraction: result,
		Validation: p.validate(classification.Label, result),
	}, nil
}

// buildIndex constructs the normalized word index, or nil when the document
// carries no usable words. A degenerate extent is treated the same as missing
// OCR data: the run continues in degraded mode rather than failing.
func (p *Pipeline) buildIndex(doc Document) *layout.WordIndex {
	if len(doc.Words) == 0 {
		return nil
	}
	index, err := layout.BuildWordIndex(doc.Words, doc.Boxes)
	if err != nil {
		if p.observer != nil {
			p.observer.LogOperation(observability.OperationData{
				Component: "pipeline",
				Operation: "build_word_index",
				FilePath:  doc.Path,
				Success:   false,
				Error:     err.Error(),
			})
		}
		return nil
	}
	return index
}

func (p *Pipeline) validate(label string, result *extraction.Result) *validation.Report {
	if label == doctype.W2 {
		return validation.Validate(template.W2Fields, result.Fields)
	}
	return validation.ValidateLoose(result.Fields)
}
