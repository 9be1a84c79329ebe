// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"math"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

func TestNullDeviceHandle(t *testing.T) {
	var handle DeviceHandle = NullDeviceHandle{}

	if handle.Device() != nil {
		t.Error("NullDeviceHandle.Device() should return nil")
	}
	if handle.Queue() != nil {
		t.Error("NullDeviceHandle.Queue() should return nil")
	}
	if handle.Adapter() != nil {
		t.Error("NullDeviceHandle.Adapter() should return nil")
	}
	if handle.SurfaceFormat() != gputypes.TextureFormatUndefined {
		t.Error("NullDeviceHandle.SurfaceFormat() should return Undefined")
	}
	if handle.AdapterInfo().Type != gpucontext.AdapterTypeUnknown {
		t.Error("NullDeviceHandle.AdapterInfo() should report an unknown adapter")
	}
}

func TestColorChannels(t *testing.T) {
	c := RGBA8(0x11, 0x22, 0x33, 0x44)
	if uint32(c) != 0x44332211 {
		t.Fatalf("RGBA8 = %#x, want 0x44332211", uint32(c))
	}
	if c.R() != 0x11 || c.G() != 0x22 || c.B() != 0x33 || c.A() != 0x44 {
		t.Errorf("channels = %#x %#x %#x %#x", c.R(), c.G(), c.B(), c.A())
	}
	if RGBA(1, 0, 0, 1) != RGBA8(255, 0, 0, 255) {
		t.Errorf("RGBA(1,0,0,1) = %#x", uint32(RGBA(1, 0, 0, 1)))
	}
	if RGBA(-1, 2, 0.5, 1).G() != 255 {
		t.Error("RGBA should clamp channels above 1")
	}
}

func TestColorPacked(t *testing.T) {
	tests := []struct {
		name string
		c    Color
		want uint32
	}{
		{"white", White, 0xfeffffff},
		{"clear", Clear, 0},
		{"opaque red", RGBA8(255, 0, 0, 255), 0xfe0000ff},
		{"odd alpha", RGBA8(1, 2, 3, 0x81), 0x80030201},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.c.Packed()
			if math.IsNaN(float64(f)) {
				t.Fatal("packed color is NaN")
			}
			if got := uint32(Unpack(f)); got != tt.want {
				t.Errorf("Unpack(Packed()) = %#x, want %#x", got, tt.want)
			}
		})
	}
}

func TestRectOverlaps(t *testing.T) {
	base := Rect{X: 0, Y: 0, W: 10, H: 10}
	tests := []struct {
		name string
		o    Rect
		want bool
	}{
		{"inside", Rect{X: 2, Y: 2, W: 2, H: 2}, true},
		{"partial", Rect{X: 5, Y: 5, W: 10, H: 10}, true},
		{"touching edge", Rect{X: 10, Y: 0, W: 5, H: 5}, false},
		{"touching corner", Rect{X: -5, Y: -5, W: 5, H: 5}, false},
		{"disjoint", Rect{X: 20, Y: 20, W: 1, H: 1}, false},
		{"covering", Rect{X: -1, Y: -1, W: 12, H: 12}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Overlaps(tt.o); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			if got := tt.o.Overlaps(base); got != tt.want {
				t.Errorf("reverse Overlaps = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectInflate(t *testing.T) {
	r := RectFromCorners(0, 0, 240, 240).Inflate(4)
	want := Rect{X: -4, Y: -4, W: 248, H: 248}
	if r != want {
		t.Errorf("Inflate = %+v, want %+v", r, want)
	}
	if !r.Contains(-4, -4) || r.Contains(244, 0) {
		t.Error("Contains disagrees with the inflated bounds")
	}
}

func TestOrthoCamera(t *testing.T) {
	cam := NewOrthoCamera(100, 50, 200, 100)

	b := cam.Bounds()
	if b != (Rect{X: 0, Y: 0, W: 200, H: 100}) {
		t.Errorf("Bounds = %+v", b)
	}

	m := cam.Matrix()
	corners := []struct{ x, y, nx, ny float32 }{
		{0, 0, -1, -1},
		{200, 100, 1, 1},
		{100, 50, 0, 0},
	}
	for _, c := range corners {
		nx, ny := Transform(m, c.x, c.y)
		if !near(nx, c.nx) || !near(ny, c.ny) {
			t.Errorf("Transform(%v, %v) = (%v, %v), want (%v, %v)", c.x, c.y, nx, ny, c.nx, c.ny)
		}
	}

	if (&OrthoCamera{}).Matrix() != Identity() {
		t.Error("zero-size camera should fall back to identity")
	}
}

func TestQuadIndices(t *testing.T) {
	idx := QuadIndices(2)
	want := []uint16{0, 1, 2, 2, 3, 0, 4, 5, 6, 6, 7, 4}
	if len(idx) != len(want) {
		t.Fatalf("len = %d, want %d", len(idx), len(want))
	}
	for i := range want {
		if idx[i] != want[i] {
			t.Errorf("idx[%d] = %d, want %d", i, idx[i], want[i])
		}
	}

	full := QuadIndices(MaxQuads)
	if got := full[len(full)-2]; int(got) != MaxQuads*4-1 {
		t.Errorf("last quad top index = %d, want %d", got, MaxQuads*4-1)
	}
}

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}
