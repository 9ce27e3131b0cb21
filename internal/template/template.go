// Copyright 2025 the doc6 authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package template holds the static per-type field schemas and form-region
// tables consumed by the extraction engine. The tables are configuration
// data: strategies read them, nothing mutates them after startup.
package template

import "regexp"

// DataType tells the extraction engine which value matcher to apply within a
// template region and which semantic checks the validator runs.
type DataType string

const (
	TypeString   DataType = "string"
	TypeCurrency DataType = "currency"
	TypeInteger  DataType = "integer"
)

// FieldDefinition describes one extractable field of a form.
type FieldDefinition struct {
	Name string

	// BoxID is the form's native field identifier (e.g. "a", "1", "year"),
	// used for region lookup in the active layout.
	BoxID string

	// Label is the phrase printed next to the field on the form.
	Label string

	// FormatPattern validates the final extracted value.
	FormatPattern *regexp.Regexp

	// Validation is the message reported when the value fails FormatPattern.
	Validation string

	DataType DataType
	Required bool

	// Position is a coarse layout hint ("top_right", "bottom", ...). Kept for
	// documentation and downstream visualization, not used for matching.
	Position string

	// MultiLine fields concatenate several vertically sorted blocks.
	MultiLine bool

	// Combines lists constituent sub-fields for composite fields like names.
	Combines []string
}

// Span is a closed interval in normalized [0,1] coordinates.
type Span struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Contains reports whether v lies within the span.
func (s Span) Contains(v float64) bool {
	return v >= s.Min && v <= s.Max
}

// Region is a rectangular area of the form in normalized coordinates.
type Region struct {
	X Span `yaml:"x"`
	Y Span `yaml:"y"`
}

// Contains reports whether the normalized point (x, y) lies in the region.
func (r Region) Contains(x, y float64) bool {
	return r.X.Contains(x) && r.Y.Contains(y)
}

// FormLayout maps box identifiers to their regions for one physical layout of
// a form type.
type FormLayout struct {
	Name       string
	BoxRegions map[string]Region
}

// Region returns the region for a box id, and whether one is configured. A
// missing region is expected for fields resolved purely by text strategies;
// the template strategy skips them and later fallbacks still run.
func (l FormLayout) Region(boxID string) (Region, bool) {
	region, ok := l.BoxRegions[boxID]
	return region, ok
}
