// Copyright 2025 the doc6 authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package layout

import (
	"errors"
	"math"
	"testing"
)

func TestBuildWordIndex_Normalization(t *testing.T) {
	// Document extent is x [100,500], y [50,150]; a word centered at
	// (300,100) normalizes to (0.5,0.5).
	words := []string{"corner", "middle", "corner"}
	boxes := []Box{
		NewBox(100, 50, 120, 60),
		NewBox(290, 95, 310, 105),
		NewBox(480, 140, 500, 150),
	}

	index, err := BuildWordIndex(words, boxes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(index.Blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(index.Blocks))
	}

	mid := index.Blocks[1]
	if math.Abs(mid.X-0.5) > 1e-9 || math.Abs(mid.Y-0.5) > 1e-9 {
		t.Errorf("expected center (0.5, 0.5), got (%v, %v)", mid.X, mid.Y)
	}
	if mid.Index != 1 {
		t.Errorf("expected OCR index 1, got %d", mid.Index)
	}
	if mid.Box != boxes[1] {
		t.Errorf("expected original box retained, got %+v", mid.Box)
	}

	// Normalized width: 20 units over a 400-unit extent.
	if math.Abs(mid.Width-0.05) > 1e-9 {
		t.Errorf("expected width 0.05, got %v", mid.Width)
	}
}

func TestBuildWordIndex_PreservesOrder(t *testing.T) {
	words := []string{"b", "a", "c"}
	boxes := []Box{
		NewBox(50, 0, 60, 10),
		NewBox(0, 0, 10, 10),
		NewBox(90, 90, 100, 100),
	}

	index, err := BuildWordIndex(words, boxes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := index.Words()
	for i, want := range words {
		if got[i] != want {
			t.Errorf("word %d: expected %q, got %q", i, want, got[i])
		}
	}
}

func TestBuildWordIndex_CountMismatch(t *testing.T) {
	_, err := BuildWordIndex([]string{"a", "b"}, []Box{NewBox(0, 0, 1, 1)})
	if err == nil {
		t.Fatal("expected error for mismatched word/box counts")
	}
}

func TestBuildWordIndex_Empty(t *testing.T) {
	_, err := BuildWordIndex(nil, nil)
	if err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestBuildWordIndex_DegenerateExtent(t *testing.T) {
	// All words on one horizontal line with zero height.
	words := []string{"a", "b"}
	boxes := []Box{
		NewBox(0, 10, 10, 10),
		NewBox(20, 10, 30, 10),
	}

	_, err := BuildWordIndex(words, boxes)
	if !errors.Is(err, ErrDegenerateExtent) {
		t.Fatalf("expected ErrDegenerateExtent, got %v", err)
	}
}

func TestNearest_WeightedDistance(t *testing.T) {
	// With xWeight 0.5, a word 0.4 to the right (dist 0.2) beats a word
	// 0.3 below (dist 0.3).
	ref := Point{X: 0.1, Y: 0.5}
	candidates := []TextBlock{
		{Text: "below", X: 0.1, Y: 0.8, Index: 0},
		{Text: "right", X: 0.5, Y: 0.5, Index: 1},
	}

	got := Nearest(ref, candidates, AnyDirection, 0.5)
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].Text != "right" {
		t.Errorf("expected same-line word first, got %q", got[0].Text)
	}
}

func TestNearest_DirectionFilter(t *testing.T) {
	ref := Point{X: 0.5, Y: 0.5}
	candidates := []TextBlock{
		{Text: "left", X: 0.2, Y: 0.5, Index: 0},
		{Text: "right", X: 0.8, Y: 0.5, Index: 1},
		{Text: "above", X: 0.5, Y: 0.2, Index: 2},
	}

	tests := []struct {
		name string
		dir  Direction
		want []string
	}{
		{"right of", RightOf, []string{"right"}},
		{"left of", LeftOf, []string{"left"}},
		{"above", Above, []string{"above"}},
		{"below", Below, nil},
		{"any", AnyDirection, []string{"left", "right", "above"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Nearest(ref, candidates, tt.dir, 1.0)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d results, got %d", len(tt.want), len(got))
			}
			for i, want := range tt.want {
				found := false
				for _, g := range got {
					if g.Text == want {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("expected %q in results at some position (%d)", want, i)
				}
			}
		})
	}
}

func TestNearest_TieBreakByIndex(t *testing.T) {
	// Two candidates at the exact same distance resolve by OCR order.
	ref := Point{X: 0.5, Y: 0.5}
	candidates := []TextBlock{
		{Text: "second", X: 0.7, Y: 0.5, Index: 5},
		{Text: "first", X: 0.3, Y: 0.5, Index: 2},
	}

	got := Nearest(ref, candidates, AnyDirection, 1.0)
	if got[0].Text != "first" {
		t.Errorf("expected lower OCR index to win the tie, got %q", got[0].Text)
	}
}

func TestBoxUnionAndCenter(t *testing.T) {
	a := NewBox(0, 0, 10, 10)
	b := NewBox(5, 5, 20, 30)

	u := a.Union(b)
	if u.Min.X != 0 || u.Min.Y != 0 || u.Max.X != 20 || u.Max.Y != 30 {
		t.Errorf("unexpected union: %+v", u)
	}

	c := NewBox(10, 20, 30, 40).Center()
	if c.X != 20 || c.Y != 30 {
		t.Errorf("unexpected center: %+v", c)
	}
}

func TestManhattan(t *testing.T) {
	d := Point{X: 1, Y: 2}.Manhattan(Point{X: 4, Y: 6})
	if d != 7 {
		t.Errorf("expected distance 7, got %v", d)
	}
}
