// Copyright 2025 the doc6 authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package w2 implements the specialized field extractor for W-2 tax forms.
// Each field is resolved through an ordered fallback chain: template-region
// match, context-anchored regex, spatial proximity, then generic regex. The
// first strategy producing a non-empty value wins and no later strategy
// overrides it.
package w2

import (
	"regexp"
	"strings"

	"github.com/aelsaeed/doc6/internal/extraction"
	"github.com/aelsaeed/doc6/internal/layout"
	"github.com/aelsaeed/doc6/internal/observability"
	"github.com/aelsaeed/doc6/internal/template"
)

// Strategy names recorded on field results.
const (
	strategyTemplate = "template_region"
	strategyContext  = "context_regex"
	strategySpatial  = "spatial_proximity"
	strategyGeneric  = "generic_regex"
)

// Extractor resolves the W-2 field schema. It is stateless across documents
// and safe for concurrent use.
type Extractor struct {
	layout template.FormLayout

	currencyValue  *regexp.Regexp
	currencyPrefix *regexp.Regexp
	ssnValue       *regexp.Regexp
	einValue       *regexp.Regexp
	yearPrefix     *regexp.Regexp
	bareNineDigits *regexp.Regexp

	observer *observability.StandardObserver
}

// New creates a W-2 extractor against the standard layout.
func New() *Extractor {
	return NewWithLayout(template.W2Layout(template.StandardLayout))
}

// NewWithLayout creates a W-2 extractor against a specific region layout,
// e.g. one loaded from a YAML override file.
func NewWithLayout(formLayout template.FormLayout) *Extractor {
	return &Extractor{
		layout:         formLayout,
		currencyValue:  regexp.MustCompile(`(?:\$|)(\d{1,3}(?:,\d{3})*(?:\.\d{2}))`),
		currencyPrefix: regexp.MustCompile(`^\$?\d{1,3}(?:,\d{3})*(?:\.\d{1,2})?`),
		ssnValue:       regexp.MustCompile(`\d{3}-\d{2}-\d{4}`),
		einValue:       regexp.MustCompile(`\d{2}-\d{7}`),
		yearPrefix:     regexp.MustCompile(`^20\d{2}`),
		bareNineDigits: regexp.MustCompile(`\b(\d{9})\b`),
	}
}

// SetObserver sets the observability component.
func (e *Extractor) SetObserver(observer *observability.StandardObserver) {
	e.observer = observer
}

// FieldSchema returns the W-2 field names in output order.
func (e *Extractor) FieldSchema() []string {
	names := make([]string, len(template.W2Fields))
	for i, def := range template.W2Fields {
		names[i] = def.Name
	}
	return names
}

// strategy resolves one field. A nil box is fine; an empty value means the
// strategy produced nothing and the chain advances.
type strategy struct {
	name string
	run  func(index *layout.WordIndex, text string) (string, *layout.Box)
}

// ExtractFields runs every field's fallback chain and then the cross-field
// repair pass. index may be nil, in which case only the pure-text strategies
// run (degraded mode).
func (e *Extractor) ExtractFields(index *layout.WordIndex, text string) map[string]extraction.FieldResult {
	var finishTiming func(bool, map[string]interface{})
	if e.observer != nil {
		finishTiming = e.observer.StartTiming("w2_extractor", "extract_fields", "")
	}

	fields := make(map[string]extraction.FieldResult)
	for _, def := range template.W2Fields {
		if result, ok := e.resolveField(def, index, text); ok {
			fields[def.Name] = result
		}
	}

	e.repairConflicts(fields, index, text)

	if finishTiming != nil {
		finishTiming(true, map[string]interface{}{"field_count": len(fields)})
	}
	return fields
}

// resolveField runs the fallback chain for one field. Strategies are tried in
// order and short-circuit on the first non-empty value. A panic inside one
// strategy is contained here so a bad field never aborts the others.
func (e *Extractor) resolveField(def template.FieldDefinition, index *layout.WordIndex, text string) (result extraction.FieldResult, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			result, ok = extraction.FieldResult{}, false
		}
	}()

	for _, s := range e.chainFor(def) {
		value, box := s.run(index, text)
		if value == "" {
			continue
		}
		if def.DataType == template.TypeCurrency {
			value = cleanCurrency(value)
		}
		return extraction.FieldResult{Value: value, Box: box, Strategy: s.name}, true
	}
	return extraction.FieldResult{}, false
}

// chainFor builds the ordered fallback chain for a field.
func (e *Extractor) chainFor(def template.FieldDefinition) []strategy {
	chain := []strategy{{
		name: strategyTemplate,
		run: func(index *layout.WordIndex, _ string) (string, *layout.Box) {
			return e.extractFromRegion(def, index)
		},
	}}

	switch def.Name {
	case "employee_ssn":
		chain = append(chain,
			strategy{strategyContext, e.ssnByContext},
			strategy{strategyGeneric, e.ssnGeneric})
	case "employer_ein":
		chain = append(chain,
			strategy{strategyContext, e.einByContext},
			strategy{strategyGeneric, e.einGeneric})
	case "employer_name":
		chain = append(chain,
			strategy{strategyContext, e.employerNameByContext},
			strategy{strategyGeneric, e.employerNameGeneric})
	case "employee_name":
		chain = append(chain,
			strategy{strategyContext, e.employeeNameByContext},
			strategy{strategyGeneric, e.employeeNameGeneric})
	case "control_number":
		chain = append(chain,
			strategy{strategyContext, e.controlNumberByContext},
			strategy{strategyGeneric, e.controlNumberGeneric})
	case "tax_year":
		chain = append(chain,
			strategy{strategyContext, e.taxYearByContext},
			strategy{strategySpatial, e.taxYearBySpatial},
			strategy{strategyGeneric, e.taxYearByFrequency})
	default:
		// Numbered dollar boxes share one chain parameterized by box id.
		boxID := def.BoxID
		chain = append(chain,
			strategy{
				name: strategyContext,
				run: func(_ *layout.WordIndex, text string) (string, *layout.Box) {
					return e.boxValueByPhrase(text, boxID)
				},
			},
			strategy{
				name: strategySpatial,
				run: func(index *layout.WordIndex, _ string) (string, *layout.Box) {
					return e.boxValueBySpatial(index, boxID)
				},
			},
			strategy{
				name: strategyGeneric,
				run: func(_ *layout.WordIndex, text string) (string, *layout.Box) {
					return e.boxValueByLabel(text, boxID)
				},
			})
	}

	return chain
}

// repairConflicts runs after every field is resolved once.
//
// Rule 1: when one string field's value bled verbatim into another string
// field (a nearby identifier picked up by a loose name heuristic), strip the
// shorter value out of the longer one.
//
// Rule 2: two distinct currency boxes resolving to the identical value is a
// known failure mode for wages vs. federal tax; re-run the anchored strategies
// for federal_tax with a stricter context phrase and replace the value only
// if a new, different match comes back.
func (e *Extractor) repairConflicts(fields map[string]extraction.FieldResult, index *layout.WordIndex, text string) {
	for _, a := range template.W2Fields {
		if a.DataType != template.TypeString {
			continue
		}
		av, ok := fields[a.Name]
		if !ok || av.Value == "" {
			continue
		}
		for _, b := range template.W2Fields {
			if b.Name == a.Name || b.DataType != template.TypeString {
				continue
			}
			bv, ok := fields[b.Name]
			if !ok || bv.Value == av.Value || !strings.Contains(bv.Value, av.Value) {
				continue
			}
			stripped := strings.Join(strings.Fields(strings.ReplaceAll(bv.Value, av.Value, " ")), " ")
			if stripped != "" {
				bv.Value = stripped
				fields[b.Name] = bv
			}
		}
	}

	wages, hasWages := fields["wages"]
	federal, hasFederal := fields["federal_tax"]
	if hasWages && hasFederal && wages.Value == federal.Value {
		value, box := e.extractBoxValueWithContext(index, text, "2", "Federal")
		if value != "" {
			value = cleanCurrency(value)
			if value != wages.Value {
				fields["federal_tax"] = extraction.FieldResult{Value: value, Box: box, Strategy: strategyContext}
			}
		}
	}
}

// cleanCurrency strips the dollar sign and thousands separators, leaving only
// digits and at most one decimal point.
func cleanCurrency(value string) string {
	value = strings.ReplaceAll(value, "$", "")
	value = strings.ReplaceAll(value, ",", "")
	return strings.TrimSpace(value)
}
