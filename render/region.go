// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

// Region is a named sub-rectangle of a texture page. UVs are normalized,
// with (U, V) at the top-left and (U2, V2) at the bottom-right corner of the
// page image.
type Region struct {
	Name    string
	Texture Texture

	U, V, U2, V2 float32

	// Pixel rectangle inside the page.
	X, Y, Width, Height int
}
