// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "golang.org/x/image/math/f32"

// Camera is the viewport the floor is drawn through.
type Camera interface {
	// Position returns the world-space center of the view.
	Position() (x, y float32)

	// Size returns the view width and height in world units.
	Size() (w, h float32)

	// Bounds returns the exact world rectangle covered by the view.
	Bounds() Rect

	// Matrix returns the row-major projection-view matrix.
	Matrix() f32.Mat4
}

// OrthoCamera is an axis-aligned orthographic camera.
type OrthoCamera struct {
	X, Y float32
	W, H float32
}

// NewOrthoCamera returns a camera centered on (x, y) with the given view size.
func NewOrthoCamera(x, y, w, h float32) *OrthoCamera {
	return &OrthoCamera{X: x, Y: y, W: w, H: h}
}

// Position implements Camera.
func (c *OrthoCamera) Position() (float32, float32) { return c.X, c.Y }

// Size implements Camera.
func (c *OrthoCamera) Size() (float32, float32) { return c.W, c.H }

// Bounds implements Camera.
func (c *OrthoCamera) Bounds() Rect {
	return Rect{X: c.X - c.W/2, Y: c.Y - c.H/2, W: c.W, H: c.H}
}

// Matrix maps the view rectangle onto normalized device coordinates.
func (c *OrthoCamera) Matrix() f32.Mat4 {
	if c.W == 0 || c.H == 0 {
		return Identity()
	}
	sx := 2 / c.W
	sy := 2 / c.H
	return f32.Mat4{
		sx, 0, 0, -c.X * sx,
		0, sy, 0, -c.Y * sy,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Identity returns the 4x4 identity matrix.
func Identity() f32.Mat4 {
	return f32.Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Transform applies the row-major matrix m to the point (x, y, 0, 1).
func Transform(m f32.Mat4, x, y float32) (float32, float32) {
	return m[0]*x + m[1]*y + m[3], m[4]*x + m[5]*y + m[7]
}

var _ Camera = (*OrthoCamera)(nil)
