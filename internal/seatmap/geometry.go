// Package seatmap is the headless seatmap editor core: shape templates, the
// area authoring dialog, the canvas controller, the JSON document codec and
// the read-only viewer. Nothing in this package is safe for concurrent use;
// callers serialise access per canvas (see internal/editor).
package seatmap

import "math"

// Point is a 2D coordinate. Polygon points are stored relative to the
// top-left corner of the primitive's box.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// IsEmpty reports whether the rect has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Union returns the smallest rect containing both rects.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}

	left := math.Min(r.Left, other.Left)
	top := math.Min(r.Top, other.Top)
	right := math.Max(r.Right(), other.Right())
	bottom := math.Max(r.Bottom(), other.Bottom())

	return Rect{Left: left, Top: top, Width: right - left, Height: bottom - top}
}

// Center returns the centre point of the rect.
func (r Rect) Center() Point {
	return Point{X: r.Left + r.Width/2, Y: r.Top + r.Height/2}
}

// Within reports whether r lies entirely inside a w×h viewport anchored at 0,0.
func (r Rect) Within(w, h float64) bool {
	return r.Left >= 0 && r.Top >= 0 && r.Right() <= w && r.Bottom() <= h
}

// clampShift returns the translation that brings r back inside a w×h
// viewport. Right and bottom overflow are corrected first and left/top last,
// so a rect larger than the viewport ends up pinned to the top-left corner.
func clampShift(r Rect, w, h float64) (dx, dy float64) {
	if over := r.Right() - w; over > 0 {
		dx -= over
		r.Left -= over
	}
	if over := r.Bottom() - h; over > 0 {
		dy -= over
		r.Top -= over
	}
	if r.Left < 0 {
		dx -= r.Left
		r.Left = 0
	}
	if r.Top < 0 {
		dy -= r.Top
		r.Top = 0
	}
	return dx, dy
}
