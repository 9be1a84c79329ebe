package blend

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestEvalPresets(t *testing.T) {
	additive := gputypes.BlendState{
		Color: gputypes.BlendComponent{SrcFactor: gputypes.BlendFactorOne, DstFactor: gputypes.BlendFactorOne, Operation: gputypes.BlendOperationAdd},
		Alpha: gputypes.BlendComponent{SrcFactor: gputypes.BlendFactorOne, DstFactor: gputypes.BlendFactorOne, Operation: gputypes.BlendOperationAdd},
	}

	tests := []struct {
		name     string
		state    gputypes.BlendState
		src, dst Pixel
		want     Pixel
	}{
		{"replace", gputypes.BlendStateReplace(), Pixel{10, 20, 30, 40}, Pixel{200, 200, 200, 255}, Pixel{10, 20, 30, 40}},
		{"alpha opaque", gputypes.BlendStateAlpha(), Pixel{10, 20, 30, 255}, Pixel{200, 200, 200, 255}, Pixel{10, 20, 30, 255}},
		{"alpha transparent", gputypes.BlendStateAlpha(), Pixel{10, 20, 30, 0}, Pixel{200, 100, 50, 255}, Pixel{200, 100, 50, 255}},
		{"premultiplied clear", gputypes.BlendStatePremultiplied(), Pixel{0, 0, 0, 0}, Pixel{1, 2, 3, 4}, Pixel{1, 2, 3, 4}},
		{"additive clamps", additive, Pixel{200, 10, 0, 255}, Pixel{100, 10, 0, 255}, Pixel{255, 20, 0, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Eval(tt.state, tt.src, tt.dst); got != tt.want {
				t.Errorf("Eval = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvalHalfAlpha(t *testing.T) {
	got := Eval(gputypes.BlendStateAlpha(), Pixel{255, 0, 0, 128}, Pixel{0, 0, 255, 255})
	// 255*128/255 and 255*127/255, each at most one above exact.
	if got[R] < 128 || got[R] > 129 || got[B] < 127 || got[B] > 128 || got[A] != 255 {
		t.Errorf("Eval = %v", got)
	}
}

// The underwater state scales the written alpha by the destination alpha,
// so nothing becomes visible outside an existing liquid surface.
func TestEvalDestinationAlpha(t *testing.T) {
	s := gputypes.BlendState{
		Color: gputypes.BlendComponent{SrcFactor: gputypes.BlendFactorSrcAlpha, DstFactor: gputypes.BlendFactorOneMinusSrcAlpha, Operation: gputypes.BlendOperationAdd},
		Alpha: gputypes.BlendComponent{SrcFactor: gputypes.BlendFactorDstAlpha, DstFactor: gputypes.BlendFactorOneMinusSrcAlpha, Operation: gputypes.BlendOperationAdd},
	}
	if got := Eval(s, Pixel{255, 255, 255, 255}, Pixel{0, 0, 0, 0}); got[A] != 0 {
		t.Errorf("alpha over empty destination = %d, want 0", got[A])
	}
	if got := Eval(s, Pixel{255, 255, 255, 255}, Pixel{0, 0, 0, 255}); got[A] != 255 {
		t.Errorf("alpha over opaque destination = %d, want 255", got[A])
	}
}

func TestEvalOperations(t *testing.T) {
	one := func(op gputypes.BlendOperation) gputypes.BlendState {
		c := gputypes.BlendComponent{SrcFactor: gputypes.BlendFactorOne, DstFactor: gputypes.BlendFactorOne, Operation: op}
		return gputypes.BlendState{Color: c, Alpha: c}
	}
	src, dst := Pixel{100, 50, 0, 255}, Pixel{60, 80, 10, 255}

	tests := []struct {
		op   gputypes.BlendOperation
		want Pixel
	}{
		{gputypes.BlendOperationSubtract, Pixel{40, 0, 0, 0}},
		{gputypes.BlendOperationReverseSubtract, Pixel{0, 30, 10, 0}},
		{gputypes.BlendOperationMin, Pixel{60, 50, 0, 255}},
		{gputypes.BlendOperationMax, Pixel{100, 80, 10, 255}},
	}
	for _, tt := range tests {
		if got := Eval(one(tt.op), src, dst); got != tt.want {
			t.Errorf("op %v: Eval = %v, want %v", tt.op, got, tt.want)
		}
	}
}
