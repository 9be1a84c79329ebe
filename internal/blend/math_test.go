package blend

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestScaleBounds(t *testing.T) {
	for v := 0; v <= 255; v++ {
		for f := 0; f <= 255; f++ {
			exact := v * f / 255
			got := int(scale(byte(v), byte(f)))
			if got < exact || got > exact+1 {
				t.Fatalf("scale(%d, %d) = %d, exact %d", v, f, got, exact)
			}
		}
		if got := scale(byte(v), 255); got != byte(v) {
			t.Errorf("scale(%d, 255) = %d", v, got)
		}
		if got := scale(byte(v), 0); got != 0 {
			t.Errorf("scale(%d, 0) = %d", v, got)
		}
	}
}

func TestCombineSaturates(t *testing.T) {
	tests := []struct {
		op   gputypes.BlendOperation
		s, d byte
		want byte
	}{
		{gputypes.BlendOperationAdd, 100, 100, 200},
		{gputypes.BlendOperationAdd, 200, 100, 255},
		{gputypes.BlendOperationSubtract, 100, 40, 60},
		{gputypes.BlendOperationSubtract, 40, 100, 0},
		{gputypes.BlendOperationReverseSubtract, 40, 100, 60},
		{gputypes.BlendOperationReverseSubtract, 100, 40, 0},
	}
	for _, tt := range tests {
		if got := combine(tt.op, tt.s, tt.d); got != tt.want {
			t.Errorf("combine(%v, %d, %d) = %d, want %d", tt.op, tt.s, tt.d, got, tt.want)
		}
	}
}

func BenchmarkEvalAlpha(b *testing.B) {
	s := gputypes.BlendStateAlpha()
	src, dst := Pixel{200, 100, 50, 128}, Pixel{10, 20, 30, 255}
	for i := 0; i < b.N; i++ {
		dst = Eval(s, src, dst)
	}
	_ = dst
}
