// Copyright 2025 the doc6 authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package pdftext decodes a PDF into the pipeline's input shape: plain text
// for the whole document plus per-word bounding boxes for the first page.
// Multi-page layout stitching is out of scope; spatial extraction only ever
// sees page one, which is where form fields live on the supported documents.
package pdftext

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/aelsaeed/doc6/internal/layout"
)

// maxPages bounds text extraction for very large PDFs.
const maxPages = 50

// Content is the decoded result of one PDF.
type Content struct {
	Filename  string
	Text      string
	Words     []string
	Boxes     []layout.Box
	PageCount int
}

// Extract validates the PDF and decodes its text and word positions.
// A file that fails structural validation is rejected before any parsing.
func Extract(filePath string) (*Content, error) {
	if err := api.ValidateFile(filePath, nil); err != nil {
		return nil, fmt.Errorf("invalid PDF %s: %w", filepath.Base(filePath), err)
	}

	content := &Content{
		Filename: filepath.Base(filePath),
	}

	if ctx, err := api.ReadContextFile(filePath); err == nil {
		content.PageCount = ctx.PageCount
	}

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	pages := r.NumPage()
	if content.PageCount == 0 {
		content.PageCount = pages
	}
	if pages > maxPages {
		pages = maxPages
	}

	var buf bytes.Buffer
	for i := 1; i <= pages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := pageText(p)
		if err != nil {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(text)

		if i == 1 {
			content.Words, content.Boxes = pageWords(p)
		}
	}

	content.Text = cleanText(buf.String())
	return content, nil
}

// pageText extracts one page's text in reading order, using row positions for
// spacing and falling back to plain extraction when rows are unavailable.
func pageText(p pdf.Page) (string, error) {
	rows, err := p.GetTextByRow()
	if err != nil {
		return p.GetPlainText(nil)
	}

	sorted := sortRows(rows)

	var buf bytes.Buffer
	for _, row := range sorted {
		rowText := joinRow(row.Content)
		if strings.TrimSpace(rowText) != "" {
			buf.WriteString(rowText)
			buf.WriteString("\n")
		}
	}
	return buf.String(), nil
}

// pageWords extracts per-word boxes from a page. PDF y coordinates grow
// upward; they are flipped here so the returned boxes use the top-left origin
// the spatial index expects.
func pageWords(p pdf.Page) ([]string, []layout.Box) {
	rows, err := p.GetTextByRow()
	if err != nil {
		return nil, nil
	}

	var words []string
	var boxes []layout.Box
	for _, row := range sortRows(rows) {
		elements := sortByX(row.Content)
		for _, group := range groupWords(elements) {
			first, last := group[0], group[len(group)-1]
			height := first.FontSize
			if height <= 0 {
				height = 12
			}

			var text strings.Builder
			for _, el := range group {
				text.WriteString(el.S)
			}
			word := strings.TrimSpace(text.String())
			if word == "" {
				continue
			}

			words = append(words, word)
			boxes = append(boxes, layout.NewBox(first.X, first.Y, last.X+last.W, first.Y+height))
		}
	}

	flipY(boxes)
	return words, boxes
}

// sortRows orders rows top to bottom. Higher PDF y means higher on the page.
func sortRows(rows pdf.Rows) pdf.Rows {
	sorted := make(pdf.Rows, 0, len(rows))
	for _, row := range rows {
		if row != nil && len(row.Content) > 0 {
			sorted = append(sorted, row)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return averageY(sorted[i].Content) > averageY(sorted[j].Content)
	})
	return sorted
}

func sortByX(elements []pdf.Text) []pdf.Text {
	sorted := make([]pdf.Text, len(elements))
	copy(sorted, elements)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})
	return sorted
}

// groupWords splits a row's glyph runs into words: a gap wider than 20% of
// the font size starts a new word.
func groupWords(elements []pdf.Text) [][]pdf.Text {
	var groups [][]pdf.Text
	var current []pdf.Text

	for i, el := range elements {
		current = append(current, el)
		if i == len(elements)-1 {
			break
		}

		fontSize := el.FontSize
		if fontSize <= 0 {
			fontSize = 12
		}
		gap := elements[i+1].X - (el.X + el.W)
		if gap > fontSize*0.2 {
			groups = append(groups, current)
			current = nil
		}
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}

// joinRow reconstructs a row's text with gap-based spacing.
func joinRow(elements []pdf.Text) string {
	sorted := sortByX(elements)

	var buf bytes.Buffer
	for i, el := range sorted {
		buf.WriteString(el.S)
		if i == len(sorted)-1 {
			break
		}

		fontSize := el.FontSize
		if fontSize <= 0 {
			fontSize = 12
		}
		gap := sorted[i+1].X - (el.X + el.W)
		if gap > fontSize*0.2 {
			buf.WriteString(" ")
		}
	}
	return buf.String()
}

func averageY(elements []pdf.Text) float64 {
	if len(elements) == 0 {
		return 0
	}
	var total float64
	for _, el := range elements {
		total += el.Y
	}
	return total / float64(len(elements))
}

// flipY mirrors boxes vertically within their own extent so y grows downward.
func flipY(boxes []layout.Box) {
	if len(boxes) == 0 {
		return
	}
	minY, maxY := boxes[0].Min.Y, boxes[0].Max.Y
	for _, b := range boxes[1:] {
		if b.Min.Y < minY {
			minY = b.Min.Y
		}
		if b.Max.Y > maxY {
			maxY = b.Max.Y
		}
	}
	total := minY + maxY
	for i, b := range boxes {
		boxes[i] = layout.NewBox(b.Min.X, total-b.Max.Y, b.Max.X, total-b.Min.Y)
	}
}

// cleanText trims lines and collapses runs of spaces while preserving line
// structure, which the context-anchored regexes rely on.
func cleanText(text string) string {
	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.ReplaceAll(line, "\t", " ")
		for strings.Contains(line, "  ") {
			line = strings.ReplaceAll(line, "  ", " ")
		}
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
