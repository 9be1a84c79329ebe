// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "math"

// Color is a packed 8-bit-per-channel color with alpha in the high byte
// and red in the low byte (ABGR), the byte order of the vertex color
// attribute.
type Color uint32

// Common colors.
const (
	White Color = 0xffffffff
	Clear Color = 0x00000000
)

// RGBA8 packs four 8-bit channels.
func RGBA8(r, g, b, a uint8) Color {
	return Color(uint32(a)<<24 | uint32(b)<<16 | uint32(g)<<8 | uint32(r))
}

// RGBA packs four channels in [0, 1]. Values outside the range are clamped.
func RGBA(r, g, b, a float32) Color {
	return RGBA8(unit8(r), unit8(g), unit8(b), unit8(a))
}

func unit8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}

// R returns the red channel.
func (c Color) R() uint8 { return uint8(c) }

// G returns the green channel.
func (c Color) G() uint8 { return uint8(c >> 8) }

// B returns the blue channel.
func (c Color) B() uint8 { return uint8(c >> 16) }

// A returns the alpha channel.
func (c Color) A() uint8 { return uint8(c >> 24) }

// Packed returns the color as a float32 whose bits are the ABGR value with
// the lowest alpha bit cleared, so the result is never a NaN. The shader
// compensates by scaling alpha by 255/254.
func (c Color) Packed() float32 {
	return math.Float32frombits(uint32(c) & 0xfeffffff)
}

// Unpack reverses Packed. The lowest alpha bit is always zero.
func Unpack(f float32) Color {
	return Color(math.Float32bits(f))
}
