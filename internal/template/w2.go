// Copyright 2025 the doc6 authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package template

import "regexp"

// StandardLayout is the default W-2 layout name.
const StandardLayout = "standard_layout"

var (
	currencyPattern = regexp.MustCompile(`^\$?[\d,]+\.\d{2}$`)
)

// W2Fields defines the W-2 schema in output order.
var W2Fields = []FieldDefinition{
	{
		Name:          "employee_ssn",
		BoxID:         "a",
		Label:         "Employee's social security number",
		FormatPattern: regexp.MustCompile(`^\d{3}-\d{2}-\d{4}$`),
		Validation:    "SSN must be in XXX-XX-XXXX format",
		DataType:      TypeString,
		Required:      true,
		Position:      "top_right",
	},
	{
		Name:          "employer_ein",
		BoxID:         "b",
		Label:         "Employer identification number (EIN)",
		FormatPattern: regexp.MustCompile(`^\d{2}-\d{7}$`),
		Validation:    "EIN must be in XX-XXXXXXX format",
		DataType:      TypeString,
		Required:      true,
		Position:      "top_left",
	},
	{
		Name:          "employer_name",
		BoxID:         "c",
		Label:         "Employer's name, address, and ZIP code",
		FormatPattern: regexp.MustCompile(`^.+$`),
		Validation:    "Must not be empty",
		DataType:      TypeString,
		Required:      true,
		Position:      "upper_left",
		MultiLine:     true,
	},
	{
		Name:          "control_number",
		BoxID:         "d",
		Label:         "Control number",
		FormatPattern: regexp.MustCompile(`^[A-Za-z0-9]+$`),
		Validation:    "Alphanumeric characters only",
		DataType:      TypeString,
		Position:      "middle_left",
	},
	{
		Name:          "employee_name",
		BoxID:         "e",
		Label:         "Employee's first name and initial",
		FormatPattern: regexp.MustCompile(`^[A-Za-z\s.-]+$`),
		Validation:    "Must contain letters, spaces, periods, or hyphens",
		DataType:      TypeString,
		Required:      true,
		Position:      "middle_left",
		Combines:      []string{"first_name", "middle_initial", "last_name"},
	},
	{
		Name:          "wages",
		BoxID:         "1",
		Label:         "Wages, tips, other compensation",
		FormatPattern: currencyPattern,
		Validation:    "Must be a currency amount",
		DataType:      TypeCurrency,
		Required:      true,
		Position:      "upper_right",
	},
	{
		Name:          "federal_tax",
		BoxID:         "2",
		Label:         "Federal income tax withheld",
		FormatPattern: currencyPattern,
		Validation:    "Must be a currency amount",
		DataType:      TypeCurrency,
		Required:      true,
		Position:      "upper_right",
	},
	{
		Name:          "social_security_wages",
		BoxID:         "3",
		Label:         "Social security wages",
		FormatPattern: currencyPattern,
		Validation:    "Must be a currency amount",
		DataType:      TypeCurrency,
		Required:      true,
		Position:      "middle_right",
	},
	{
		Name:          "social_security_tax",
		BoxID:         "4",
		Label:         "Social security tax withheld",
		FormatPattern: currencyPattern,
		Validation:    "Must be a currency amount",
		DataType:      TypeCurrency,
		Required:      true,
		Position:      "middle_right",
	},
	{
		Name:          "medicare_wages",
		BoxID:         "5",
		Label:         "Medicare wages and tips",
		FormatPattern: currencyPattern,
		Validation:    "Must be a currency amount",
		DataType:      TypeCurrency,
		Required:      true,
		Position:      "middle_right",
	},
	{
		Name:          "medicare_tax",
		BoxID:         "6",
		Label:         "Medicare tax withheld",
		FormatPattern: currencyPattern,
		Validation:    "Must be a currency amount",
		DataType:      TypeCurrency,
		Required:      true,
		Position:      "middle_right",
	},
	{
		Name:          "state_wages",
		BoxID:         "16",
		Label:         "State wages, tips, etc.",
		FormatPattern: currencyPattern,
		Validation:    "Must be a currency amount",
		DataType:      TypeCurrency,
		Position:      "bottom_left",
	},
	{
		Name:          "state_tax",
		BoxID:         "17",
		Label:         "State income tax",
		FormatPattern: currencyPattern,
		Validation:    "Must be a currency amount",
		DataType:      TypeCurrency,
		Position:      "bottom_left",
	},
	{
		Name:          "tax_year",
		BoxID:         "year",
		Label:         "Tax Year",
		FormatPattern: regexp.MustCompile(`^20\d{2}$`),
		Validation:    "Must be a 4-digit year (20XX)",
		DataType:      TypeInteger,
		Required:      true,
		Position:      "bottom",
	},
}

// W2FieldByName indexes W2Fields for direct lookup.
var W2FieldByName = func() map[string]FieldDefinition {
	m := make(map[string]FieldDefinition, len(W2Fields))
	for _, def := range W2Fields {
		m[def.Name] = def
	}
	return m
}()

// w2StandardLayout holds the fine-tuned box regions for the standard W-2
// layout. Boxes 16/17 (state amounts) have no reliable region on scanned
// forms; those fields resolve through the text strategies instead.
var w2StandardLayout = FormLayout{
	Name: StandardLayout,
	BoxRegions: map[string]Region{
		"a": {X: Span{0.25, 0.48}, Y: Span{0.08, 0.12}},
		"b": {X: Span{0.25, 0.48}, Y: Span{0.16, 0.20}},
		"c": {X: Span{0.18, 0.48}, Y: Span{0.20, 0.28}},
		"d": {X: Span{0.18, 0.28}, Y: Span{0.29, 0.33}},
		"e": {X: Span{0.18, 0.48}, Y: Span{0.33, 0.39}},
		"1": {X: Span{0.52, 0.65}, Y: Span{0.16, 0.19}},
		"2": {X: Span{0.65, 0.80}, Y: Span{0.16, 0.19}},
		"3": {X: Span{0.52, 0.65}, Y: Span{0.19, 0.22}},
		"4": {X: Span{0.65, 0.80}, Y: Span{0.19, 0.22}},
		"5": {X: Span{0.52, 0.65}, Y: Span{0.22, 0.26}},
		"6": {X: Span{0.65, 0.80}, Y: Span{0.22, 0.26}},
		// The revision year prints in the bottom band rather than a labeled box.
		"year": {X: Span{0.0, 1.0}, Y: Span{0.70, 1.0}},
	},
}

// w2Layouts maps layout names to their region tables.
var w2Layouts = map[string]FormLayout{
	StandardLayout: w2StandardLayout,
}

// W2Layout returns the named W-2 layout, falling back to the standard layout
// when the name is unknown.
func W2Layout(name string) FormLayout {
	if layout, ok := w2Layouts[name]; ok {
		return layout
	}
	return w2Layouts[StandardLayout]
}
