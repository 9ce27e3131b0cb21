// Copyright 2025 the doc6 authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRegionContains(t *testing.T) {
	region := Region{X: Span{0.25, 0.48}, Y: Span{0.08, 0.12}}

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"center", 0.35, 0.10, true},
		{"on min boundary", 0.25, 0.08, true},
		{"on max boundary", 0.48, 0.12, true},
		{"left of region", 0.20, 0.10, false},
		{"below region", 0.35, 0.20, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := region.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestW2Layout_FallsBackToStandard(t *testing.T) {
	standard := W2Layout(StandardLayout)
	if standard.Name != StandardLayout {
		t.Fatalf("expected standard layout, got %q", standard.Name)
	}

	unknown := W2Layout("no_such_layout")
	if unknown.Name != StandardLayout {
		t.Errorf("expected fallback to standard layout, got %q", unknown.Name)
	}
}

func TestFormLayout_Region(t *testing.T) {
	layout := W2Layout(StandardLayout)

	if _, ok := layout.Region("a"); !ok {
		t.Error("expected a region for box a")
	}
	// State boxes resolve through text strategies only.
	if _, ok := layout.Region("16"); ok {
		t.Error("expected no region for box 16")
	}
	if _, ok := layout.Region("17"); ok {
		t.Error("expected no region for box 17")
	}
}

func TestW2Fields_Schema(t *testing.T) {
	if len(W2Fields) != 14 {
		t.Fatalf("expected 14 W-2 fields, got %d", len(W2Fields))
	}

	required := map[string]bool{
		"employee_ssn": true, "employer_ein": true, "employer_name": true,
		"employee_name": true, "wages": true, "federal_tax": true,
		"social_security_wages": true, "social_security_tax": true,
		"medicare_wages": true, "medicare_tax": true, "tax_year": true,
	}

	for _, def := range W2Fields {
		if def.FormatPattern == nil {
			t.Errorf("field %q has no format pattern", def.Name)
		}
		if def.Required != required[def.Name] {
			t.Errorf("field %q: required = %v, want %v", def.Name, def.Required, required[def.Name])
		}
		if W2FieldByName[def.Name].BoxID != def.BoxID {
			t.Errorf("field %q missing from W2FieldByName", def.Name)
		}
	}
}

func TestW2Fields_FormatPatterns(t *testing.T) {
	tests := []struct {
		field string
		value string
		want  bool
	}{
		{"employee_ssn", "123-45-6789", true},
		{"employee_ssn", "123456789", false},
		{"employer_ein", "12-3456789", true},
		{"employer_ein", "123-45-6789", false},
		{"wages", "48,500.00", true},
		{"wages", "$48,500.00", true},
		{"wages", "not money", false},
		{"tax_year", "2023", true},
		{"tax_year", "1999", false},
		{"control_number", "AB123", true},
		{"control_number", "AB 123", false},
	}

	for _, tt := range tests {
		t.Run(tt.field+"/"+tt.value, func(t *testing.T) {
			def, ok := W2FieldByName[tt.field]
			if !ok {
				t.Fatalf("unknown field %q", tt.field)
			}
			if got := def.FormatPattern.MatchString(tt.value); got != tt.want {
				t.Errorf("match %q = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestLoadW2Overrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layouts.yaml")

	content := `
layouts:
  standard_layout:
    boxes:
      a: {x: {min: 0.30, max: 0.50}, y: {min: 0.05, max: 0.10}}
  scanned_layout:
    boxes:
      "1": {x: {min: 0.55, max: 0.70}, y: {min: 0.15, max: 0.20}}
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing override file: %v", err)
	}

	layouts, err := LoadW2Overrides(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Overridden box replaced, untouched boxes preserved.
	standard := layouts[StandardLayout]
	if got := standard.BoxRegions["a"]; got.X.Min != 0.30 || got.Y.Max != 0.10 {
		t.Errorf("box a not overridden: %+v", got)
	}
	if _, ok := standard.BoxRegions["b"]; !ok {
		t.Error("expected built-in box b to survive the override")
	}

	// New layout names are added.
	scanned, ok := layouts["scanned_layout"]
	if !ok {
		t.Fatal("expected scanned_layout to be added")
	}
	if _, ok := scanned.BoxRegions["1"]; !ok {
		t.Error("expected box 1 in scanned_layout")
	}

	// The built-in table itself is never mutated.
	builtin := W2Layout(StandardLayout)
	if got := builtin.BoxRegions["a"]; got.X.Min != 0.25 {
		t.Errorf("built-in layout mutated: %+v", got)
	}
}

func TestLoadW2Overrides_InvalidSpan(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")

	content := `
layouts:
  standard_layout:
    boxes:
      a: {x: {min: 0.9, max: 0.2}, y: {min: 0.0, max: 0.1}}
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing override file: %v", err)
	}

	if _, err := LoadW2Overrides(path); err == nil {
		t.Fatal("expected error for inverted span")
	}
}

func TestLoadW2Overrides_MissingFile(t *testing.T) {
	if _, err := LoadW2Overrides("/nonexistent/layouts.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
