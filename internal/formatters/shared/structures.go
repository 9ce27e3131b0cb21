// Copyright 2025 the doc6 authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package shared holds the response envelope used identically by the JSON
// and YAML formatters, so both formats stay structurally compatible.
package shared

import (
	"sort"
	"time"

	"github.com/aelsaeed/doc6/internal/formatters"
	"github.com/aelsaeed/doc6/internal/pipeline"
	"github.com/aelsaeed/doc6/internal/version"
)

// Response is the top-level envelope of a formatted run.
type Response struct {
	Metadata Metadata         `json:"metadata" yaml:"metadata"`
	Results  []DocumentResult `json:"results" yaml:"results"`
}

// Metadata describes the run that produced the results.
type Metadata struct {
	Timestamp     string `json:"timestamp" yaml:"timestamp"`
	Version       string `json:"version" yaml:"version"`
	DocumentCount int    `json:"document_count" yaml:"document_count"`
}

// DocumentResult is the serialized form of one processed document.
type DocumentResult struct {
	Path         string       `json:"path,omitempty" yaml:"path,omitempty"`
	DocumentType string       `json:"document_type" yaml:"document_type"`
	Confidence   float64      `json:"confidence" yaml:"confidence"`
	Summary      string       `json:"summary,omitempty" yaml:"summary,omitempty"`
	Reasoning    string       `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`
	Degraded     bool         `json:"degraded,omitempty" yaml:"degraded,omitempty"`
	Fields       []FieldEntry `json:"fields" yaml:"fields"`
}

// FieldEntry is one extracted field with its validity annotation.
type FieldEntry struct {
	Name     string  `json:"name" yaml:"name"`
	Value    string  `json:"value" yaml:"value"`
	Strategy string  `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	Valid    bool    `json:"is_valid" yaml:"is_valid"`
	Message  string  `json:"message,omitempty" yaml:"message,omitempty"`
	Box      *BoxRef `json:"box,omitempty" yaml:"box,omitempty"`
}

// BoxRef is the absolute bounding box of the matched word(s).
type BoxRef struct {
	X0 float64 `json:"x0" yaml:"x0"`
	Y0 float64 `json:"y0" yaml:"y0"`
	X1 float64 `json:"x1" yaml:"x1"`
	Y1 float64 `json:"y1" yaml:"y1"`
}

// ConvertReports builds the response envelope from pipeline reports. Both the
// JSON and YAML formatters call this, keeping their structures identical.
func ConvertReports(reports []*pipeline.Report, options formatters.FormatterOptions) Response {
	response := Response{
		Metadata: Metadata{
			Timestamp:     time.Now().UTC().Format(time.RFC3339),
			Version:       version.Version,
			DocumentCount: len(reports),
		},
		Results: make([]DocumentResult, 0, len(reports)),
	}

	for _, report := range reports {
		result := DocumentResult{
			Path:         report.Path,
			DocumentType: report.DocType,
			Confidence:   report.Confidence,
			Summary:      report.Summary,
			Degraded:     report.Extraction.Degraded,
		}
		if options.Verbose {
			result.Reasoning = report.Reasoning
		}

		for name, field := range report.Extraction.Fields {
			entry := FieldEntry{
				Name:     name,
				Value:    field.Value,
				Strategy: field.Strategy,
				Valid:    true,
			}
			if report.Validation != nil {
				if status, ok := report.Validation.Fields[name]; ok {
					entry.Valid = status.Valid
					entry.Message = status.Message
				}
			}
			if field.Box != nil {
				entry.Box = &BoxRef{
					X0: field.Box.Min.X, Y0: field.Box.Min.Y,
					X1: field.Box.Max.X, Y1: field.Box.Max.Y,
				}
			}
			result.Fields = append(result.Fields, entry)
		}
		sortFieldEntries(result.Fields)

		response.Results = append(response.Results, result)
	}

	return response
}

// sortFieldEntries orders entries by name so map iteration order never leaks
// into the output.
func sortFieldEntries(entries []FieldEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
}
