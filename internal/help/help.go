// Copyright 2025 the doc6 authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package help renders CLI help: general usage, the supported document
// types, and per-type detail pages.
package help

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/aelsaeed/doc6/internal/doctype"
	"github.com/aelsaeed/doc6/internal/template"
)

// TypeInfo contains standardized information about a document type
type TypeInfo struct {
	Label       string   // Type label (e.g., "W2 (Form W-2)")
	Description string   // What the document is
	Keywords    []string // Keywords that indicate this type
	Fields      []string // Fields extracted for this type
	Specialized bool     // Whether a specialized extractor exists
}

// System manages help content for the application
type System struct {
	noColor bool
	colors  map[string]*color.Color
}

// NewSystem creates a new help system
func NewSystem(noColor bool) *System {
	if noColor {
		color.NoColor = true
	}

	return &System{
		noColor: noColor,
		colors: map[string]*color.Color{
			"title":    color.New(color.FgWhite, color.Bold),
			"header":   color.New(color.FgBlue, color.Bold),
			"item":     color.New(color.FgCyan),
			"emphasis": color.New(color.FgWhite, color.Bold),
			"example":  color.New(color.FgMagenta),
			"negative": color.New(color.FgRed),
		},
	}
}

// ShowGeneralHelp displays general help information
func (h *System) ShowGeneralHelp() {
	h.colors["title"].Println("doc6 - Document Classification and Field Extraction")
	fmt.Println("===================================================")
	fmt.Println()
	h.colors["header"].Println("USAGE:")
	fmt.Println("  doc6 --file <path-to-pdf> [options]")
	fmt.Println()

	h.colors["header"].Println("OPTIONS:")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  --file\t<path>\tPath to the input PDF document (required)")
	fmt.Fprintln(w, "  --config\t<path>\tPath to configuration file (YAML)")
	fmt.Fprintln(w, "  --profile\t<name>\tProfile name to use from config file")
	fmt.Fprintln(w, "  --list-profiles\t\tList available profiles in config file")
	fmt.Fprintln(w, "  --format\t<format>\tOutput format: text, json, yaml (default: text)")
	fmt.Fprintln(w, "  --layout\t<name>\tW-2 region layout name (default: standard_layout)")
	fmt.Fprintln(w, "  --layout-file\t<path>\tYAML file overriding built-in box regions")
	fmt.Fprintln(w, "  --output\t<path>\tPath to output file (if not specified, output to stdout)")
	fmt.Fprintln(w, "  --verbose\t\tDisplay reasoning and matched bounding boxes")
	fmt.Fprintln(w, "  --debug\t\tEnable step-by-step debug logging")
	fmt.Fprintln(w, "  --no-color\t\tDisable colored output")
	fmt.Fprintln(w, "  --version\t\tShow version information")
	fmt.Fprintln(w, "  --help\t\tShow this help message")
	fmt.Fprintln(w, "  --help types\t\tList supported document types")
	fmt.Fprintln(w, "  --help <type>\t\tShow detailed help for a document type")
	w.Flush()

	fmt.Println()
	h.colors["header"].Println("EXAMPLES:")
	h.colors["example"].Println("  doc6 --file w2-2023.pdf")
	h.colors["example"].Println("  doc6 --file w2-2023.pdf --format json --output result.json")
	h.colors["example"].Println("  doc6 --file statement.pdf --config doc6.yaml --profile batch")

	fmt.Println()
	h.colors["header"].Println("CONFIGURATION:")
	fmt.Println("  Project config: doc6.yaml or .doc6.yaml (in current directory)")
	fmt.Println("  User config: ~/.config/doc6/config.yaml")
	fmt.Println("  Environment: GEMINI_API_KEY - embedding provider key for classification")
}

// ShowTypesHelp displays the supported document types
func (h *System) ShowTypesHelp() {
	h.colors["title"].Println("Supported Document Types")
	fmt.Println("========================")
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	h.colors["header"].Fprintln(w, "  TYPE\tEXTRACTOR\tDESCRIPTION")
	h.colors["header"].Fprintln(w, "  ----\t---------\t-----------")

	for _, label := range doctype.Labels {
		info := typeInfo(label)
		extractor := "generic"
		if info.Specialized {
			extractor = "specialized"
		}
		fmt.Fprintf(w, "  ")
		h.colors["emphasis"].Fprintf(w, "%s", label)
		fmt.Fprintf(w, "\t%s\t%s\n", extractor, info.Description)
	}
	w.Flush()

	fmt.Println()
	fmt.Println("For detailed information about a specific type, use:")
	h.colors["example"].Println("  doc6 --help \"W2 (Form W-2)\"")
}

// ShowTypeHelp displays detailed help for a specific document type.
// Matching is case-insensitive and accepts any unambiguous substring.
func (h *System) ShowTypeHelp(name string) bool {
	label := resolveLabel(name)
	if label == "" {
		h.colors["negative"].Printf("Error: document type '%s' not found.\n", name)
		fmt.Println("Use 'doc6 --help types' to see the supported types.")
		return false
	}

	info := typeInfo(label)

	h.colors["title"].Printf("%s\n", info.Label)
	fmt.Println(strings.Repeat("=", len(info.Label)))
	fmt.Println()
	fmt.Println(info.Description)
	fmt.Println()

	if len(info.Keywords) > 0 {
		h.colors["header"].Println("INDICATIVE KEYWORDS:")
		for _, kw := range info.Keywords {
			fmt.Print("  - ")
			h.colors["item"].Println(kw)
		}
		fmt.Println()
	}

	h.colors["header"].Println("EXTRACTED FIELDS:")
	for _, field := range info.Fields {
		fmt.Print("  - ")
		h.colors["item"].Println(field)
	}
	fmt.Println()

	if info.Specialized {
		fmt.Println("This type has a specialized extractor with template-region, context-regex,")
		fmt.Println("spatial-proximity and generic-regex strategies.")
	} else {
		fmt.Println("This type uses the generic extractor with loose heuristics.")
	}

	return true
}

func typeInfo(label string) TypeInfo {
	info := TypeInfo{
		Label:       label,
		Description: doctype.Descriptions[label],
		Keywords:    doctype.Keywords[label],
	}
	if label == doctype.W2 {
		info.Specialized = true
		for _, def := range template.W2Fields {
			info.Fields = append(info.Fields, fmt.Sprintf("%s (box %s)", def.Name, def.BoxID))
		}
	} else {
		info.Fields = []string{"name", "address", "date", "amount", "account_number", "reference"}
	}
	return info
}

func resolveLabel(name string) string {
	lowered := strings.ToLower(name)
	for _, label := range doctype.Labels {
		if strings.ToLower(label) == lowered {
			return label
		}
	}
	for _, label := range doctype.Labels {
		if strings.Contains(strings.ToLower(label), lowered) {
			return label
		}
	}
	return ""
}
