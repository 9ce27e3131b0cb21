// Copyright 2025 the doc6 authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package layout

import "math"

// Point represents a 2D point in document coordinates.
type Point struct {
	X float64
	Y float64
}

// Manhattan returns the Manhattan distance to another point.
func (p Point) Manhattan(other Point) float64 {
	return math.Abs(p.X-other.X) + math.Abs(p.Y-other.Y)
}

// Box is an axis-aligned bounding box described by two corner points,
// as produced by OCR/layout engines: Min is the top-left corner, Max the
// bottom-right corner (y grows downward on a page).
type Box struct {
	Min Point
	Max Point
}

// NewBox creates a bounding box from two corner coordinates.
func NewBox(x0, y0, x1, y1 float64) Box {
	return Box{Min: Point{X: x0, Y: y0}, Max: Point{X: x1, Y: y1}}
}

// Center returns the center point of the box.
func (b Box) Center() Point {
	return Point{
		X: (b.Min.X + b.Max.X) / 2,
		Y: (b.Min.Y + b.Max.Y) / 2,
	}
}

// Width returns the horizontal extent of the box.
func (b Box) Width() float64 {
	return b.Max.X - b.Min.X
}

// Height returns the vertical extent of the box.
func (b Box) Height() float64 {
	return b.Max.Y - b.Min.Y
}

// Union returns the smallest box covering both boxes.
func (b Box) Union(other Box) Box {
	return Box{
		Min: Point{X: math.Min(b.Min.X, other.Min.X), Y: math.Min(b.Min.Y, other.Min.Y)},
		Max: Point{X: math.Max(b.Max.X, other.Max.X), Y: math.Max(b.Max.Y, other.Max.Y)},
	}
}
