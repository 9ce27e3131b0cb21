// Copyright 2025 the doc6 authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aelsaeed/doc6/internal/extraction"
	"github.com/aelsaeed/doc6/internal/formatters"
	"github.com/aelsaeed/doc6/internal/pipeline"
	"github.com/aelsaeed/doc6/internal/validation"

	"github.com/fatih/color"
)

// Formatter implements text-based output formatting
type Formatter struct {
	colors map[string]*color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"green":   color.New(color.FgGreen),
			"yellow":  color.New(color.FgYellow),
			"red":     color.New(color.FgRed),
			"cyan":    color.New(color.FgCyan),
			"magenta": color.New(color.FgMagenta),
			"white":   color.New(color.FgWhite, color.Bold),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable text output with colors and a field table"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(reports []*pipeline.Report, options formatters.FormatterOptions) (string, error) {
	// Disable colors if requested
	if options.NoColor {
		color.NoColor = true
	}

	if len(reports) == 0 {
		return "No documents processed.", nil
	}

	var builder strings.Builder
	for i, report := range reports {
		if i > 0 {
			builder.WriteString("\n")
		}
		f.appendReport(&builder, report, options)
	}
	return builder.String(), nil
}

func (f *Formatter) appendReport(builder *strings.Builder, report *pipeline.Report, options formatters.FormatterOptions) {
	if report.Path != "" {
		f.colors["white"].Fprintf(builder, "=== %s ===\n", report.Path)
	} else {
		f.colors["white"].Fprintf(builder, "=== Document ===\n")
	}

	f.colors["cyan"].Fprintf(builder, "Type: ")
	fmt.Fprintf(builder, "%s ", report.DocType)
	f.confidenceColor(report.Confidence).Fprintf(builder, "(%.0f%% confidence)\n", report.Confidence*100)

	if report.Summary != "" {
		f.colors["cyan"].Fprintf(builder, "Summary: ")
		fmt.Fprintf(builder, "%s\n", report.Summary)
	}
	if options.Verbose && report.Reasoning != "" {
		f.colors["cyan"].Fprintf(builder, "Reasoning: ")
		fmt.Fprintf(builder, "%s\n", report.Reasoning)
	}
	if report.Extraction.Degraded {
		f.colors["yellow"].Fprintf(builder, "Note: no word positions available, text-only extraction\n")
	}

	builder.WriteString("\n")
	f.appendFieldTable(builder, report, options)
}

func (f *Formatter) appendFieldTable(builder *strings.Builder, report *pipeline.Report, options formatters.FormatterOptions) {
	fields := report.Extraction.Fields
	names := sortedFieldNames(fields)

	nameWidth, valueWidth := columnWidths(names, fields)
	header := fmt.Sprintf("%-*s %-*s %-18s %s\n", nameWidth, "FIELD", valueWidth, "VALUE", "STRATEGY", "VALID")
	builder.WriteString(f.colors["white"].Sprint(header))
	builder.WriteString(strings.Repeat("-", nameWidth+valueWidth+28) + "\n")

	for _, name := range names {
		field := fields[name]
		status := fieldStatus(report.Validation, name)

		valueStr := field.Value
		if valueStr == extraction.NotFound {
			valueStr = f.colors["yellow"].Sprint(extraction.NotFound)
			// Color codes break the column width, pad manually.
			valueStr += strings.Repeat(" ", valueWidth-len(extraction.NotFound))
		} else {
			valueStr = fmt.Sprintf("%-*s", valueWidth, valueStr)
		}

		validStr := f.colors["green"].Sprint("yes")
		if status != nil && !status.Valid {
			validStr = f.colors["red"].Sprintf("no (%s)", status.Message)
		}

		fmt.Fprintf(builder, "%-*s %s %-18s %s\n", nameWidth, name, valueStr, field.Strategy, validStr)

		if options.Verbose && field.Box != nil {
			f.colors["magenta"].Fprintf(builder, "%*s box (%.0f,%.0f)-(%.0f,%.0f)\n",
				nameWidth, "", field.Box.Min.X, field.Box.Min.Y, field.Box.Max.X, field.Box.Max.Y)
		}
	}
}

func (f *Formatter) confidenceColor(confidence float64) *color.Color {
	switch {
	case confidence >= 0.9:
		return f.colors["green"]
	case confidence >= 0.6:
		return f.colors["yellow"]
	default:
		return f.colors["red"]
	}
}

// sortedFieldNames keeps schema output stable: W-2 fields print in their
// declared order, anything else alphabetically after them.
func sortedFieldNames(fields map[string]extraction.FieldResult) []string {
	seen := make(map[string]bool, len(fields))
	var names []string
	for _, name := range fieldOrder {
		if _, ok := fields[name]; ok {
			names = append(names, name)
			seen[name] = true
		}
	}
	var rest []string
	for name := range fields {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

var fieldOrder = []string{
	"employee_ssn", "employer_ein", "employer_name", "control_number",
	"employee_name", "wages", "federal_tax", "social_security_wages",
	"social_security_tax", "medicare_wages", "medicare_tax",
	"state_wages", "state_tax", "tax_year",
}

func columnWidths(names []string, fields map[string]extraction.FieldResult) (int, int) {
	nameWidth, valueWidth := len("FIELD"), len("VALUE")
	for _, name := range names {
		if len(name) > nameWidth {
			nameWidth = len(name)
		}
		if l := len(fields[name].Value); l > valueWidth && l <= 40 {
			valueWidth = l
		}
	}
	return nameWidth, valueWidth
}

func fieldStatus(report *validation.Report, name string) *validation.FieldStatus {
	if report == nil {
		return nil
	}
	if status, ok := report.Fields[name]; ok {
		return &status
	}
	return nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
