// Copyright 2025 the doc6 authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// overridesFile is the on-disk shape of a layout override file:
//
//	layouts:
//	  standard_layout:
//	    boxes:
//	      a: {x: {min: 0.25, max: 0.48}, y: {min: 0.08, max: 0.12}}
type overridesFile struct {
	Layouts map[string]struct {
		Boxes map[string]Region `yaml:"boxes"`
	} `yaml:"layouts"`
}

// LoadW2Overrides reads a YAML layout override file and returns the full
// layout table: the built-in layouts with only the named regions replaced.
// Layout names not built in are added as new layouts. The built-in tables are
// never mutated.
func LoadW2Overrides(path string) (map[string]FormLayout, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("reading layout overrides: %w", err)
	}

	var file overridesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing layout overrides: %w", err)
	}

	layouts := make(map[string]FormLayout, len(w2Layouts))
	for name, layout := range w2Layouts {
		regions := make(map[string]Region, len(layout.BoxRegions))
		for boxID, region := range layout.BoxRegions {
			regions[boxID] = region
		}
		layouts[name] = FormLayout{Name: name, BoxRegions: regions}
	}

	for name, override := range file.Layouts {
		layout, ok := layouts[name]
		if !ok {
			layout = FormLayout{Name: name, BoxRegions: make(map[string]Region)}
		}
		for boxID, region := range override.Boxes {
			if err := validateRegion(name, boxID, region); err != nil {
				return nil, err
			}
			layout.BoxRegions[boxID] = region
		}
		layouts[name] = layout
	}

	return layouts, nil
}

func validateRegion(layout, boxID string, r Region) error {
	for _, span := range []Span{r.X, r.Y} {
		if span.Min < 0 || span.Max > 1 || span.Min > span.Max {
			return fmt.Errorf("layout %q box %q: span [%v, %v] outside [0,1]", layout, boxID, span.Min, span.Max)
		}
	}
	return nil
}
