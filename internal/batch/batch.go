// Package batch collects textured quads into a flat vertex array for
// upload as a chunk mesh.
//
// A Batch only appends geometry. It never draws, and it rejects the
// drawing operations that would need a live GPU pipeline.
package batch

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/gogpu/floor/render"
)

// Batch errors.
var (
	// ErrShaderUnsupported is returned by SetShader. Cache batches always
	// use the floor shader.
	ErrShaderUnsupported = errors.New("batch: cache batch does not support custom shaders")

	// ErrVerticesUnsupported is returned by DrawVertices. Only quads built
	// from regions may be cached.
	ErrVerticesUnsupported = errors.New("batch: cache batch does not support raw vertices")

	// ErrCapacityExceeded is the panic value when a chunk produces more
	// quads than a mesh can index.
	ErrCapacityExceeded = errors.New("batch: quad capacity exceeded")
)

// Batch accumulates quads for one chunk layer. It implements render.Drawer.
// A Batch is not safe for concurrent use.
type Batch struct {
	vertices []float32
	idx      int

	texture  render.Texture
	errorReg *render.Region

	color  render.Color
	packed float32

	logger *slog.Logger
	warned map[*render.Region]struct{}
}

// New returns a batch that accepts regions of texture. Regions of any other
// texture are replaced by errRegion. The batch holds at most maxQuads quads;
// zero selects render.MaxQuads.
func New(texture render.Texture, errRegion *render.Region, maxQuads int) *Batch {
	if maxQuads <= 0 {
		maxQuads = render.MaxQuads
	}
	b := &Batch{
		vertices: make([]float32, maxQuads*render.QuadSize),
		texture:  texture,
		errorReg: errRegion,
		logger:   slog.New(slog.DiscardHandler),
		warned:   make(map[*render.Region]struct{}),
	}
	b.SetColor(render.White)
	return b
}

// SetLogger sets the logger used for rejected operations and region
// substitution. Nil disables logging.
func (b *Batch) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	b.logger = l
}

// Reset discards all quads and restores the white tint.
func (b *Batch) Reset() {
	b.idx = 0
	b.SetColor(render.White)
}

// SetColor implements render.Drawer.
func (b *Batch) SetColor(c render.Color) {
	b.color = c
	b.packed = c.Packed()
}

// Color returns the current tint.
func (b *Batch) Color() render.Color { return b.color }

// Quads returns the number of quads written since the last Reset.
func (b *Batch) Quads() int { return b.idx / render.QuadSize }

// Capacity returns the maximum number of quads.
func (b *Batch) Capacity() int { return len(b.vertices) / render.QuadSize }

// Vertices returns the written vertex data. The slice aliases the batch
// storage and is only valid until the next Reset or Draw.
func (b *Batch) Vertices() []float32 { return b.vertices[:b.idx] }

// SetShader always fails: cached geometry is drawn with the floor shader.
func (b *Batch) SetShader(render.Shader) error {
	b.logger.Error("batch: rejected shader change", "err", ErrShaderUnsupported)
	return ErrShaderUnsupported
}

// DrawVertices always fails and leaves the vertex array untouched.
func (b *Batch) DrawVertices(render.Texture, []float32) error {
	b.logger.Error("batch: rejected raw vertices", "err", ErrVerticesUnsupported)
	return ErrVerticesUnsupported
}

// Draw implements render.Drawer. The quad is centered on (x, y).
func (b *Batch) Draw(r *render.Region, x, y, w, h, rotation float32) {
	b.DrawOrigin(r, x-w/2, y-h/2, w/2, h/2, w, h, rotation)
}

// DrawOrigin emits a quad whose bottom-left corner is (x, y), rotated by
// rotation degrees around (x+originX, y+originY).
func (b *Batch) DrawOrigin(r *render.Region, x, y, originX, originY, w, h, rotation float32) {
	if r == nil {
		r = b.errorReg
		if r == nil {
			return
		}
	}
	if r.Texture != b.texture && r != b.errorReg && b.errorReg != nil {
		b.substitute(r)
		r = b.errorReg
	}
	if b.idx+render.QuadSize > len(b.vertices) {
		panic(fmt.Errorf("%w: limit %d", ErrCapacityExceeded, b.Capacity()))
	}

	v := b.vertices[b.idx : b.idx+render.QuadSize]
	b.idx += render.QuadSize

	u, v1 := r.U, r.V2
	u2, v2 := r.U2, r.V
	c := b.packed

	var x1, y1, x2, y2, x3, y3, x4, y4 float32
	if !zero(rotation) {
		ox := x + originX
		oy := y + originY
		fx, fy := -originX, -originY
		fx2, fy2 := w-originX, h-originY

		rad := float64(rotation) * math.Pi / 180
		cos := float32(math.Cos(rad))
		sin := float32(math.Sin(rad))

		x1 = cos*fx - sin*fy + ox
		y1 = sin*fx + cos*fy + oy
		x2 = cos*fx - sin*fy2 + ox
		y2 = sin*fx + cos*fy2 + oy
		x3 = cos*fx2 - sin*fy2 + ox
		y3 = sin*fx2 + cos*fy2 + oy
		x4 = x1 + (x3 - x2)
		y4 = y3 - (y2 - y1)
	} else {
		x1, y1 = x, y
		x2, y2 = x, y+h
		x3, y3 = x+w, y+h
		x4, y4 = x+w, y
	}

	v[0], v[1], v[2], v[3], v[4] = x1, y1, c, u, v1
	v[5], v[6], v[7], v[8], v[9] = x2, y2, c, u, v2
	v[10], v[11], v[12], v[13], v[14] = x3, y3, c, u2, v2
	v[15], v[16], v[17], v[18], v[19] = x4, y4, c, u2, v1
}

func (b *Batch) substitute(r *render.Region) {
	if _, ok := b.warned[r]; ok {
		return
	}
	b.warned[r] = struct{}{}
	b.logger.Warn("batch: region from foreign texture replaced by error region",
		"region", r.Name, "error_region", b.errorReg.Name)
}

func zero(f float32) bool {
	return f > -0.000001 && f < 0.000001
}

var _ render.Drawer = (*Batch)(nil)
