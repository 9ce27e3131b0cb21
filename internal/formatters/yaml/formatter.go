// Copyright 2025 the doc6 authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package yaml

import (
	"fmt"

	"github.com/aelsaeed/doc6/internal/formatters"
	"github.com/aelsaeed/doc6/internal/formatters/shared"
	"github.com/aelsaeed/doc6/internal/pipeline"

	"gopkg.in/yaml.v3"
)

// Formatter implements YAML output formatting
type Formatter struct{}

// NewFormatter creates a new YAML formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "yaml"
}

func (f *Formatter) Description() string {
	return "YAML format output, structurally identical to the JSON format"
}

func (f *Formatter) FileExtension() string {
	return ".yaml"
}

func (f *Formatter) Format(reports []*pipeline.Report, options formatters.FormatterOptions) (string, error) {
	// Identical envelope to the JSON formatter.
	response := shared.ConvertReports(reports, options)

	yamlData, err := yaml.Marshal(response)
	if err != nil {
		return "", fmt.Errorf("formatting YAML: %w", err)
	}
	return string(yamlData), nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
