// Copyright 2025 the doc6 authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package layout

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDegenerateExtent is returned when the words of a document collapse to a
// zero-width or zero-height extent, which makes normalization impossible.
var ErrDegenerateExtent = errors.New("document extent has zero width or height")

// TextBlock is a word annotated with its position normalized to the [0,1]
// coordinate space of the document's bounding extent. The original absolute
// box is retained for traceability (e.g. drawing match overlays downstream).
type TextBlock struct {
	Text string

	// Normalized center position and size, all in [0,1].
	X      float64
	Y      float64
	Width  float64
	Height float64

	// Absolute coordinates as reported by the OCR/layout source.
	Box    Box
	Center Point

	// Index is the position of the word in the original OCR sequence.
	Index int
}

// WordIndex is an ordered view of a document's words with spatial lookups.
// The order of Blocks preserves the OCR reading sequence.
type WordIndex struct {
	Blocks []TextBlock
	Extent Box
}

// BuildWordIndex normalizes raw word boxes against the document's bounding
// extent and returns an ordered index. words and boxes must be parallel
// slices; a degenerate extent is an error, never silently divided.
func BuildWordIndex(words []string, boxes []Box) (*WordIndex, error) {
	if len(words) != len(boxes) {
		return nil, fmt.Errorf("word/box count mismatch: %d words, %d boxes", len(words), len(boxes))
	}
	if len(words) == 0 {
		return nil, errors.New("no words to index")
	}

	extent := boxes[0]
	for _, b := range boxes[1:] {
		extent = extent.Union(b)
	}
	width := extent.Width()
	height := extent.Height()
	if width == 0 || height == 0 {
		return nil, ErrDegenerateExtent
	}

	blocks := make([]TextBlock, len(words))
	for i, word := range words {
		center := boxes[i].Center()
		blocks[i] = TextBlock{
			Text:   word,
			X:      (center.X - extent.Min.X) / width,
			Y:      (center.Y - extent.Min.Y) / height,
			Width:  boxes[i].Width() / width,
			Height: boxes[i].Height() / height,
			Box:    boxes[i],
			Center: center,
			Index:  i,
		}
	}

	return &WordIndex{Blocks: blocks, Extent: extent}, nil
}

// Words returns the token texts in OCR order.
func (idx *WordIndex) Words() []string {
	words := make([]string, len(idx.Blocks))
	for i, b := range idx.Blocks {
		words[i] = b.Text
	}
	return words
}

// Direction restricts a proximity query to one side of the reference point,
// in normalized coordinates (y grows downward).
type Direction int

const (
	AnyDirection Direction = iota
	RightOf
	LeftOf
	Below
	Above
)

func (d Direction) admits(ref, candidate Point) bool {
	switch d {
	case RightOf:
		return candidate.X > ref.X
	case LeftOf:
		return candidate.X < ref.X
	case Below:
		return candidate.Y > ref.Y
	case Above:
		return candidate.Y < ref.Y
	default:
		return true
	}
}

// Nearest returns the candidate blocks ordered by a weighted Manhattan
// distance from ref, computed over normalized positions: |dy| + xWeight*|dx|.
// A weight below 1 favors words on the same line over words directly
// underneath, which is how values follow labels on form layouts. When dir is
// not AnyDirection only candidates on that side of ref are considered.
// Ties are broken by original OCR index, so the ordering is deterministic.
func Nearest(ref Point, candidates []TextBlock, dir Direction, xWeight float64) []TextBlock {
	type scored struct {
		block TextBlock
		dist  float64
	}
	var admitted []scored
	for _, c := range candidates {
		pos := Point{X: c.X, Y: c.Y}
		if !dir.admits(ref, pos) {
			continue
		}
		dist := abs(pos.Y-ref.Y) + xWeight*abs(pos.X-ref.X)
		admitted = append(admitted, scored{block: c, dist: dist})
	}

	sort.SliceStable(admitted, func(i, j int) bool {
		if admitted[i].dist != admitted[j].dist {
			return admitted[i].dist < admitted[j].dist
		}
		return admitted[i].block.Index < admitted[j].block.Index
	})

	result := make([]TextBlock, len(admitted))
	for i, s := range admitted {
		result[i] = s.block
	}
	return result
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
