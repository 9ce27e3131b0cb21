// Copyright 2025 the doc6 authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package extraction

import (
	"fmt"
	"regexp"

	"github.com/aelsaeed/doc6/internal/layout"
)

// GenericExtractor handles document types without a specialized extractor
// using loose heuristics: a capitalized-word-pair guess for names and
// unanchored regexes for dates, amounts and account numbers.
type GenericExtractor struct {
	datePattern    *regexp.Regexp
	amountPattern  *regexp.Regexp
	accountPattern *regexp.Regexp
}

// NewGenericExtractor creates the fallback extractor.
func NewGenericExtractor() *GenericExtractor {
	return &GenericExtractor{
		datePattern:    regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{2,4}|\d{1,2}-\d{1,2}-\d{2,4}|(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]* \d{1,2},? \d{4})`),
		amountPattern:  regexp.MustCompile(`\$(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)`),
		accountPattern: regexp.MustCompile(`(?i)(?:Account|Acct|A/C)(?:\.|\s|#|:)?\s*(\d+)`),
	}
}

// FieldSchema returns the generic field names.
func (g *GenericExtractor) FieldSchema() []string {
	return []string{"name", "address", "date", "amount", "account_number", "reference"}
}

// ExtractFields applies the generic heuristics.
func (g *GenericExtractor) ExtractFields(index *layout.WordIndex, text string) map[string]FieldResult {
	fields := make(map[string]FieldResult)

	if index != nil {
		if name, box := g.guessName(index.Blocks); name != "" {
			fields["name"] = FieldResult{Value: name, Box: box, Strategy: "capitalized_pair"}
		}
	}

	if m := g.datePattern.FindString(text); m != "" {
		fields["date"] = FieldResult{Value: m, Strategy: "generic_regex"}
	}
	if m := g.amountPattern.FindStringSubmatch(text); m != nil {
		fields["amount"] = FieldResult{Value: m[1], Strategy: "generic_regex"}
	}
	if m := g.accountPattern.FindStringSubmatch(text); m != nil {
		fields["account_number"] = FieldResult{Value: m[1], Strategy: "generic_regex"}
	}

	return fields
}

// guessName returns the first run of two adjacent capitalized words.
func (g *GenericExtractor) guessName(blocks []layout.TextBlock) (string, *layout.Box) {
	for i := 0; i+1 < len(blocks); i++ {
		a, b := blocks[i], blocks[i+1]
		if isCapitalizedWord(a.Text) && isCapitalizedWord(b.Text) {
			box := a.Box.Union(b.Box)
			return fmt.Sprintf("%s %s", a.Text, b.Text), &box
		}
	}
	return "", nil
}

func isCapitalizedWord(s string) bool {
	if len(s) < 2 {
		return false
	}
	return s[0] >= 'A' && s[0] <= 'Z'
}
