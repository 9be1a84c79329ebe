// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

// Rect is an axis-aligned rectangle in world units with its origin at the
// bottom-left corner.
type Rect struct {
	X, Y, W, H float32
}

// RectFromCorners returns the rectangle spanning (minX, minY)-(maxX, maxY).
func RectFromCorners(minX, minY, maxX, maxY float32) Rect {
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Overlaps reports whether r and o share interior area. Rectangles that
// only touch along an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && r.X+r.W > o.X && r.Y < o.Y+o.H && r.Y+r.H > o.Y
}

// Inflate grows the rectangle by d on every side.
func (r Rect) Inflate(d float32) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, W: r.W + 2*d, H: r.H + 2*d}
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}
