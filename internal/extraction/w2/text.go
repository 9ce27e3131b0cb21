// Copyright 2025 the doc6 authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package w2

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aelsaeed/doc6/internal/layout"
)

// Shapes used by the person-name heuristics. A name match requires one of
// these exact adjacent-word patterns before the looser capitalized-run
// concatenation is tried.
var (
	fullNameShape  = regexp.MustCompile(`^[A-Z][a-z]+\s+[A-Z]\.?\s+[A-Z][A-Za-z]+$`)
	firstNameShape = regexp.MustCompile(`^[A-Z][a-z]+$`)
	initialShape   = regexp.MustCompile(`^[A-Z]\.?$`)
	lastNameShape  = regexp.MustCompile(`^[A-Z][A-Za-z]+$`)
)

// nameLabelWords are printed label tokens that must never be mistaken for
// part of a person's name.
var nameLabelWords = map[string]bool{
	"employee":   true,
	"employee's": true,
	"employer":   true,
	"employer's": true,
	"first":      true,
	"last":       true,
	"middle":     true,
	"initial":    true,
	"name":       true,
	"suffix":     true,
}

// formWords are W-2 boilerplate tokens excluded from loose name guesses.
var formWords = map[string]bool{
	"wage": true, "wages": true, "tax": true, "statement": true,
	"form": true, "copy": true, "department": true, "treasury": true,
	"internal": true, "revenue": true, "service": true, "social": true,
	"security": true, "medicare": true, "federal": true, "state": true,
	"local": true, "income": true, "control": true, "number": true,
	"address": true, "compensation": true, "withheld": true,
}

// ssnDenylist holds placeholder values that are never a real SSN.
var ssnDenylist = map[string]bool{
	"000000000": true,
	"999999999": true,
}

var (
	ssnContextPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)employee'?s?\s+social\s+security\s+number\D*?(\d{3}-\d{2}-\d{4})`),
		regexp.MustCompile(`(?is)social\s+security\s+number\D*?(\d{3}-\d{2}-\d{4})`),
		regexp.MustCompile(`(?is)\bSSN\b\D*?(\d{3}-\d{2}-\d{4})`),
	}

	einContextPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)employer\s+identification\s+number\D*?(\d{2}-\d{7})`),
		regexp.MustCompile(`(?is)\bEIN\b\D*?(\d{2}-\d{7})`),
	}

	employerNamePattern = regexp.MustCompile(
		`(?is)employer'?s?\s+name(?:,?\s+address,?\s+and\s+zip\s+code)?\W*?` +
			`((?:[A-Z][A-Za-z&.,']*\s+)*(?:Inc|LLC|Corp|Company|Co|Ltd)\b\.?)`)

	employeeNamePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)employee'?s?\s+first\s+name(?:\s+and\s+initial)?(?:\s+last\s+name)?\W*?([A-Z][a-z]+\s+(?:[A-Z]\.?\s+)?[A-Z][A-Za-z]+)`),
		regexp.MustCompile(`(?is)employee'?s?\s+name\W*?([A-Z][a-z]+\s+(?:[A-Z]\.?\s+)?[A-Z][A-Za-z]+)`),
	}

	// Label phrase is matched case-insensitively but the captured value must
	// keep its exact case, so the classes are spelled out.
	controlNumberPattern = regexp.MustCompile(`(?s)(?:d\s+)?[Cc]ontrol\s+[Nn]umber\W*?([A-Z0-9]*\d[A-Z0-9]*)`)
	controlNumberWord    = regexp.MustCompile(`^[A-Z0-9]*\d[A-Z0-9]*$`)

	taxYearContextPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)tax\s+year\W*?(20\d{2})`),
		regexp.MustCompile(`(?i)for\s+(?:calendar\s+)?year\W*?(20\d{2})`),
		regexp.MustCompile(`(?i)(20\d{2})\s+wage\s+and\s+tax\s+statement`),
		regexp.MustCompile(`(?i)wage\s+and\s+tax\s+statement\W*?(20\d{2})`),
		regexp.MustCompile(`(?i)form\s+w-?2\W*?(20\d{2})`),
	}

	anyYear = regexp.MustCompile(`\b20\d{2}\b`)

	employerSuffixes = map[string]bool{
		"Inc": true, "LLC": true, "Corp": true,
		"Company": true, "Co": true, "Ltd": true,
	}
)

// boxLabelPatterns are the printed box captions, used as the last text
// strategy for the dollar boxes.
var boxLabelPatterns = map[string][]*regexp.Regexp{
	"1":  {currencyAfter(`wages,?\s+tips,?\s+other\s+comp(?:ensation)?`)},
	"2":  {currencyAfter(`federal\s+income\s+tax\s+withheld`)},
	"3":  {currencyAfter(`social\s+security\s+wages`)},
	"4":  {currencyAfter(`social\s+security\s+tax\s+withheld`)},
	"5":  {currencyAfter(`medicare\s+wages(?:\s+and\s+tips)?`)},
	"6":  {currencyAfter(`medicare\s+tax\s+withheld`)},
	"16": {currencyAfter(`state\s+wages,?\s+tips,?\s+etc`)},
	"17": {currencyAfter(`state\s+income\s+tax`)},
}

func currencyAfter(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)` + label + `\.?\D*?(\$?\d{1,3}(?:,\d{3})*(?:\.\d{1,2})?)`)
}

// tokens returns the word sequence the scan-based heuristics iterate over:
// the OCR words when available, whitespace-split text otherwise.
func tokens(index *layout.WordIndex, text string) []string {
	if index != nil {
		return index.Words()
	}
	return strings.Fields(text)
}

// tokenBox maps a token span back to an absolute bounding box when the tokens
// came from the word index.
func tokenBox(index *layout.WordIndex, first, last int) *layout.Box {
	if index == nil || first < 0 || last >= len(index.Blocks) {
		return nil
	}
	box := index.Blocks[first].Box
	for i := first + 1; i <= last; i++ {
		box = box.Union(index.Blocks[i].Box)
	}
	return &box
}

func firstSubmatch(patterns []*regexp.Regexp, text string) string {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func (e *Extractor) ssnByContext(_ *layout.WordIndex, text string) (string, *layout.Box) {
	return firstSubmatch(ssnContextPatterns, text), nil
}

// ssnGeneric takes any SSN-shaped value in the text, then reformats bare
// nine-digit runs, skipping the placeholder values.
func (e *Extractor) ssnGeneric(_ *layout.WordIndex, text string) (string, *layout.Box) {
	if m := e.ssnValue.FindString(text); m != "" {
		return m, nil
	}
	for _, m := range e.bareNineDigits.FindAllStringSubmatch(text, -1) {
		digits := m[1]
		if ssnDenylist[digits] {
			continue
		}
		return fmt.Sprintf("%s-%s-%s", digits[:3], digits[3:5], digits[5:]), nil
	}
	return "", nil
}

func (e *Extractor) einByContext(_ *layout.WordIndex, text string) (string, *layout.Box) {
	return firstSubmatch(einContextPatterns, text), nil
}

func (e *Extractor) einGeneric(_ *layout.WordIndex, text string) (string, *layout.Box) {
	if m := e.einValue.FindString(text); m != "" {
		return m, nil
	}
	for _, m := range e.bareNineDigits.FindAllStringSubmatch(text, -1) {
		digits := m[1]
		if ssnDenylist[digits] {
			continue
		}
		return fmt.Sprintf("%s-%s", digits[:2], digits[2:]), nil
	}
	return "", nil
}

func (e *Extractor) employerNameByContext(_ *layout.WordIndex, text string) (string, *layout.Box) {
	if m := employerNamePattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1]), nil
	}
	return "", nil
}

// employerNameGeneric scans the word sequence for a "The Something Something"
// run, then backtracks from a corporate suffix over the capitalized words
// preceding it.
func (e *Extractor) employerNameGeneric(index *layout.WordIndex, text string) (string, *layout.Box) {
	words := tokens(index, text)

	for i := 0; i+2 < len(words); i++ {
		if strings.EqualFold(words[i], "the") &&
			lastNameShape.MatchString(words[i+1]) &&
			lastNameShape.MatchString(words[i+2]) {
			return strings.Join(words[i:i+3], " "), tokenBox(index, i, i+2)
		}
	}

	for i, w := range words {
		trimmed := strings.TrimRight(w, ".,")
		if !employerSuffixes[trimmed] {
			continue
		}
		start := i
		for j := i - 1; j >= 0 && i-j <= 5; j-- {
			if len(words[j]) < 2 || words[j][0] < 'A' || words[j][0] > 'Z' {
				break
			}
			if nameLabelWords[strings.ToLower(words[j])] || formWords[strings.ToLower(words[j])] {
				break
			}
			start = j
		}
		if start == i {
			continue
		}
		return strings.Join(words[start:i+1], " "), tokenBox(index, start, i)
	}

	return "", nil
}

func (e *Extractor) employeeNameByContext(_ *layout.WordIndex, text string) (string, *layout.Box) {
	return firstSubmatch(employeeNamePatterns, text), nil
}

// employeeNameGeneric requires the exact first-name, middle-initial,
// last-name adjacency in the word sequence; a bare capitalized pair is
// accepted only when neither word is form boilerplate.
func (e *Extractor) employeeNameGeneric(index *layout.WordIndex, text string) (string, *layout.Box) {
	words := tokens(index, text)

	for i := 0; i+2 < len(words); i++ {
		if firstNameShape.MatchString(words[i]) &&
			initialShape.MatchString(words[i+1]) &&
			lastNameShape.MatchString(words[i+2]) {
			return strings.Join(words[i:i+3], " "), tokenBox(index, i, i+2)
		}
	}

	for i := 0; i+1 < len(words); i++ {
		a, b := words[i], words[i+1]
		if !firstNameShape.MatchString(a) || !firstNameShape.MatchString(b) {
			continue
		}
		al, bl := strings.ToLower(a), strings.ToLower(b)
		if nameLabelWords[al] || nameLabelWords[bl] || formWords[al] || formWords[bl] {
			continue
		}
		return a + " " + b, tokenBox(index, i, i+1)
	}

	return "", nil
}

func (e *Extractor) controlNumberByContext(_ *layout.WordIndex, text string) (string, *layout.Box) {
	if m := controlNumberPattern.FindStringSubmatch(text); m != nil {
		return m[1], nil
	}
	return "", nil
}

// controlNumberGeneric looks at the five words following a "control" token
// for an uppercase alphanumeric value with at least one digit.
func (e *Extractor) controlNumberGeneric(index *layout.WordIndex, text string) (string, *layout.Box) {
	words := tokens(index, text)
	for i, w := range words {
		if !strings.EqualFold(w, "control") {
			continue
		}
		for j := i + 1; j < len(words) && j <= i+5; j++ {
			if controlNumberWord.MatchString(words[j]) {
				return words[j], tokenBox(index, j, j)
			}
		}
	}
	return "", nil
}

func (e *Extractor) taxYearByContext(_ *layout.WordIndex, text string) (string, *layout.Box) {
	return firstSubmatch(taxYearContextPatterns, text), nil
}

// taxYearBySpatial picks a year-shaped word printed in the bottom band of the
// form, where the revision year appears.
func (e *Extractor) taxYearBySpatial(index *layout.WordIndex, _ string) (string, *layout.Box) {
	if index == nil {
		return "", nil
	}
	for _, b := range index.Blocks {
		if b.Y > 0.7 && e.yearPrefix.MatchString(b.Text) {
			box := b.Box
			return e.yearPrefix.FindString(b.Text), &box
		}
	}
	return "", nil
}

// taxYearByFrequency returns the most frequent year mentioned anywhere in the
// text. Ties go to the year seen first, so the result is deterministic.
func (e *Extractor) taxYearByFrequency(_ *layout.WordIndex, text string) (string, *layout.Box) {
	matches := anyYear.FindAllString(text, -1)
	if len(matches) == 0 {
		return "", nil
	}

	counts := make(map[string]int)
	var order []string
	for _, y := range matches {
		if counts[y] == 0 {
			order = append(order, y)
		}
		counts[y]++
	}

	best := order[0]
	for _, y := range order[1:] {
		if counts[y] > counts[best] {
			best = y
		}
	}
	return best, nil
}

// boxValueByPhrase matches "box N", or a bare N at the start of a line the way
// box captions print, followed by a monetary value. Anchoring keeps the box
// number from matching a digit embedded in an SSN or EIN.
func (e *Extractor) boxValueByPhrase(text, boxID string) (string, *layout.Box) {
	p := regexp.MustCompile(`(?ms)(?:^|[Bb]ox\s*)` + boxID + `\b\D*?(\$?\d{1,3}(?:,\d{3})*(?:\.\d{1,2})?)`)
	if m := p.FindStringSubmatch(text); m != nil {
		return m[1], nil
	}
	return "", nil
}

// boxValueBySpatial finds the box-number token on the page and scans the
// nearest words to its right, same-line matches first, for a monetary value.
func (e *Extractor) boxValueBySpatial(index *layout.WordIndex, boxID string) (string, *layout.Box) {
	if index == nil {
		return "", nil
	}
	for _, ref := range index.Blocks {
		if ref.Text != boxID {
			continue
		}
		neighbors := layout.Nearest(layout.Point{X: ref.X, Y: ref.Y}, index.Blocks, layout.RightOf, 0.5)
		if len(neighbors) > 7 {
			neighbors = neighbors[:7]
		}
		for _, n := range neighbors {
			if m := e.currencyPrefix.FindString(n.Text); m != "" {
				box := n.Box
				return m, &box
			}
		}
	}
	return "", nil
}

// boxValueByLabel matches the printed caption of a dollar box.
func (e *Extractor) boxValueByLabel(text, boxID string) (string, *layout.Box) {
	return firstSubmatch(boxLabelPatterns[boxID], text), nil
}

// extractBoxValueWithContext is the stricter re-extraction used by the
// conflict repair: the value must follow the context word in the text, or sit
// spatially close to both a context word and the box-number token.
func (e *Extractor) extractBoxValueWithContext(index *layout.WordIndex, text, boxID, context string) (string, *layout.Box) {
	p := regexp.MustCompile(`(?is)` + regexp.QuoteMeta(context) + `.*?(?:box\s*)?` + boxID + `\b\D*?(\$?\d{1,3}(?:,\d{3})*(?:\.\d{1,2})?)`)
	if m := p.FindStringSubmatch(text); m != nil {
		return m[1], nil
	}

	if index == nil {
		return "", nil
	}

	lowerContext := strings.ToLower(context)
	var contextBlocks, boxBlocks []layout.TextBlock
	for _, b := range index.Blocks {
		if strings.Contains(strings.ToLower(b.Text), lowerContext) {
			contextBlocks = append(contextBlocks, b)
		}
		if b.Text == boxID {
			boxBlocks = append(boxBlocks, b)
		}
	}
	if len(contextBlocks) == 0 || len(boxBlocks) == 0 {
		return "", nil
	}

	for _, c := range index.Blocks {
		if e.currencyPrefix.FindString(c.Text) == "" {
			continue
		}
		pos := layout.Point{X: c.X, Y: c.Y}
		if minDistance(pos, contextBlocks) < 0.3 && minDistance(pos, boxBlocks) < 0.2 {
			box := c.Box
			return e.currencyPrefix.FindString(c.Text), &box
		}
	}
	return "", nil
}

func minDistance(ref layout.Point, blocks []layout.TextBlock) float64 {
	min := ref.Manhattan(layout.Point{X: blocks[0].X, Y: blocks[0].Y})
	for _, b := range blocks[1:] {
		if d := ref.Manhattan(layout.Point{X: b.X, Y: b.Y}); d < min {
			min = d
		}
	}
	return min
}
