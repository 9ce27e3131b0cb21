// Copyright 2025 the doc6 authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package w2

import (
	"regexp"
	"sort"
	"strings"

	"github.com/aelsaeed/doc6/internal/layout"
	"github.com/aelsaeed/doc6/internal/template"
)

// extractFromRegion is the first strategy of every chain: collect the word
// blocks whose normalized center falls inside the field's template region and
// pick a value by data type. Returns empty when the index is nil, the layout
// carries no region for the box, or nothing in the region matches.
func (e *Extractor) extractFromRegion(def template.FieldDefinition, index *layout.WordIndex) (string, *layout.Box) {
	if index == nil {
		return "", nil
	}
	region, ok := e.layout.Region(def.BoxID)
	if !ok {
		// Box has no calibrated region in this layout; the chain moves on
		// to the text strategies.
		return "", nil
	}

	var inRegion []layout.TextBlock
	for _, b := range index.Blocks {
		if region.Contains(b.X, b.Y) {
			inRegion = append(inRegion, b)
		}
	}
	if len(inRegion) == 0 {
		return "", nil
	}

	switch {
	case def.Name == "tax_year":
		return e.regionYear(inRegion)
	case def.Name == "employee_name":
		return e.regionPersonName(inRegion)
	case def.MultiLine:
		return e.regionMultiLine(inRegion)
	case def.DataType == template.TypeCurrency:
		return e.regionCurrency(def, inRegion)
	case def.Name == "employee_ssn":
		return e.regionPattern(e.ssnValue, inRegion)
	case def.Name == "employer_ein":
		return e.regionPattern(e.einValue, inRegion)
	default:
		return e.regionFormat(def, inRegion)
	}
}

// regionCurrency returns the first monetary-looking block in the region,
// skipping blocks that repeat words of the printed field label.
func (e *Extractor) regionCurrency(def template.FieldDefinition, blocks []layout.TextBlock) (string, *layout.Box) {
	labelWords := strings.Fields(strings.ToLower(def.Label))
	for _, b := range blocks {
		lower := strings.ToLower(b.Text)
		isLabel := false
		for _, w := range labelWords {
			if strings.Contains(lower, w) {
				isLabel = true
				break
			}
		}
		if isLabel {
			continue
		}
		if m := e.currencyValue.FindString(b.Text); m != "" {
			box := b.Box
			return m, &box
		}
	}
	return "", nil
}

// regionPattern returns the first substring of a region block matching an
// identifier pattern (SSN, EIN).
func (e *Extractor) regionPattern(pattern *regexp.Regexp, blocks []layout.TextBlock) (string, *layout.Box) {
	for _, b := range blocks {
		if m := pattern.FindString(b.Text); m != "" {
			box := b.Box
			return m, &box
		}
	}
	return "", nil
}

// regionFormat returns the first region block whose full text matches the
// field's format pattern.
func (e *Extractor) regionFormat(def template.FieldDefinition, blocks []layout.TextBlock) (string, *layout.Box) {
	if def.FormatPattern == nil {
		return "", nil
	}
	for _, b := range blocks {
		if def.FormatPattern.MatchString(b.Text) {
			box := b.Box
			return b.Text, &box
		}
	}
	return "", nil
}

// regionMultiLine joins the region's blocks top to bottom, dropping address
// boilerplate that shares box c with the employer name.
func (e *Extractor) regionMultiLine(blocks []layout.TextBlock) (string, *layout.Box) {
	sorted := make([]layout.TextBlock, len(blocks))
	copy(sorted, blocks)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Y < sorted[j].Y })

	var parts []string
	var first *layout.Box
	for _, b := range sorted {
		lower := strings.ToLower(b.Text)
		if strings.Contains(lower, "address") || strings.Contains(lower, "zip") || strings.Contains(lower, "code") {
			continue
		}
		if first == nil {
			box := b.Box
			first = &box
		}
		parts = append(parts, b.Text)
	}
	if len(parts) == 0 {
		return "", nil
	}
	return strings.Join(parts, " "), first
}

// regionPersonName resolves box e. A single block already shaped like
// "First M. Last" wins outright; otherwise adjacent blocks forming a
// first-name, middle-initial, last-name run are joined; otherwise the
// capitalized non-label blocks are concatenated left to right.
func (e *Extractor) regionPersonName(blocks []layout.TextBlock) (string, *layout.Box) {
	for _, b := range blocks {
		if fullNameShape.MatchString(b.Text) {
			box := b.Box
			return b.Text, &box
		}
	}

	sorted := make([]layout.TextBlock, len(blocks))
	copy(sorted, blocks)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	for i := 0; i+2 < len(sorted); i++ {
		if firstNameShape.MatchString(sorted[i].Text) &&
			initialShape.MatchString(sorted[i+1].Text) &&
			lastNameShape.MatchString(sorted[i+2].Text) {
			box := sorted[i].Box.Union(sorted[i+1].Box).Union(sorted[i+2].Box)
			return sorted[i].Text + " " + sorted[i+1].Text + " " + sorted[i+2].Text, &box
		}
	}

	var parts []string
	var first *layout.Box
	for _, b := range sorted {
		if len(b.Text) < 2 || b.Text[0] < 'A' || b.Text[0] > 'Z' {
			continue
		}
		if nameLabelWords[strings.ToLower(b.Text)] {
			continue
		}
		if first == nil {
			box := b.Box
			first = &box
		}
		parts = append(parts, b.Text)
	}
	if len(parts) == 0 {
		return "", nil
	}
	return strings.Join(parts, " "), first
}

// regionYear resolves the tax year, which is printed in the bottom band of
// the form rather than inside a labeled box.
func (e *Extractor) regionYear(blocks []layout.TextBlock) (string, *layout.Box) {
	for _, b := range blocks {
		if b.Y > 0.7 && e.yearPrefix.MatchString(b.Text) {
			box := b.Box
			return e.yearPrefix.FindString(b.Text), &box
		}
	}
	return "", nil
}
