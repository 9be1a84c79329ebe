// Package blend evaluates GPU blend states on 8-bit colors.
//
// The CPU preview backend uses it to composite fragments exactly as a
// render pipeline configured with the same gputypes.BlendState would:
//
//	result = op(src*srcFactor, dst*dstFactor)
//
// evaluated separately for the color channels and for alpha. Values are
// bytes in the range 0-255; a factor of 255 means 1.0.
package blend

import "github.com/gogpu/gputypes"

// Pixel is an RGBA color with 8-bit channels.
type Pixel [4]byte

// Channel indices of a Pixel.
const (
	R = iota
	G
	B
	A
)

// Eval blends src onto dst under state s.
func Eval(s gputypes.BlendState, src, dst Pixel) Pixel {
	return Pixel{
		component(s.Color, src, dst, R),
		component(s.Color, src, dst, G),
		component(s.Color, src, dst, B),
		component(s.Alpha, src, dst, A),
	}
}

func component(c gputypes.BlendComponent, src, dst Pixel, ch int) byte {
	switch c.Operation {
	case gputypes.BlendOperationMin:
		return min(src[ch], dst[ch])
	case gputypes.BlendOperationMax:
		return max(src[ch], dst[ch])
	}

	s := scale(src[ch], factor(c.SrcFactor, src, dst, ch))
	d := scale(dst[ch], factor(c.DstFactor, src, dst, ch))
	return combine(c.Operation, s, d)
}

// factor returns a blend factor as a byte. The constant blend color is
// always opaque white.
func factor(f gputypes.BlendFactor, src, dst Pixel, ch int) byte {
	switch f {
	case gputypes.BlendFactorOne, gputypes.BlendFactorConstant:
		return 255
	case gputypes.BlendFactorSrc:
		return src[ch]
	case gputypes.BlendFactorOneMinusSrc:
		return 255 - src[ch]
	case gputypes.BlendFactorSrcAlpha:
		return src[A]
	case gputypes.BlendFactorOneMinusSrcAlpha:
		return 255 - src[A]
	case gputypes.BlendFactorDst:
		return dst[ch]
	case gputypes.BlendFactorOneMinusDst:
		return 255 - dst[ch]
	case gputypes.BlendFactorDstAlpha:
		return dst[A]
	case gputypes.BlendFactorOneMinusDstAlpha:
		return 255 - dst[A]
	case gputypes.BlendFactorSrcAlphaSaturated:
		if ch == A {
			return 255
		}
		return min(src[A], 255 - dst[A])
	default:
		return 0
	}
}
