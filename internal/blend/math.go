package blend

import "github.com/gogpu/gputypes"

// scale returns v*f/255 rounded up through (x + 255) >> 8. Factors of 0
// and 255 are exact; other results are at most one above the true
// quotient.
func scale(v, f byte) byte {
	return byte((uint16(v)*uint16(f) + 255) >> 8)
}

// combine applies op to the scaled source and destination terms,
// saturating to the byte range.
func combine(op gputypes.BlendOperation, s, d byte) byte {
	switch op {
	case gputypes.BlendOperationSubtract:
		return byte(max(int(s)-int(d), 0))
	case gputypes.BlendOperationReverseSubtract:
		return byte(max(int(d)-int(s), 0))
	default:
		return byte(min(int(s)+int(d), 255))
	}
}
