// Package preview implements a CPU backend for the floor renderer that
// rasterizes chunk meshes into an RGBA frame and presents it on a terminal
// through tcell.
//
// Each terminal cell shows two vertically stacked frame pixels using the
// upper half block glyph, so a W x H cell screen displays a W x 2H frame.
// Blending follows the gputypes.BlendState set on the Blender exactly, so
// the preview shows the same layer compositing a GPU pipeline would.
//
// The backend registers itself under backend.BackendPreview on import.
package preview

import (
	"errors"
	"image"
	"log/slog"

	"github.com/gdamore/tcell/v2"
	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/floor/backend"
	"github.com/gogpu/floor/render"
)

// Errors returned by the preview backend.
var (
	// ErrVertexCount is returned for vertex data that is not whole quads.
	ErrVertexCount = errors.New("preview: vertex data is not a whole number of quads")

	// ErrTooManyQuads is returned for meshes larger than the shared index buffer.
	ErrTooManyQuads = errors.New("preview: mesh exceeds the shared index buffer")

	// ErrEmptyFrame is returned by BeginFrame for a non-positive size.
	ErrEmptyFrame = errors.New("preview: empty frame")
)

func init() {
	backend.Register(backend.BackendPreview, func() backend.Backend { return New() })
}

// Option configures a Backend.
type Option func(*Backend)

// WithScreen presents every finished frame on s. The caller owns s.
func WithScreen(s tcell.Screen) Option {
	return func(b *Backend) {
		b.screen = s
	}
}

// Stats counts the work of the current frame.
type Stats struct {
	Draws     int
	Quads     int
	Flushes   int
	BlendSets int
}

// Backend is the CPU preview backend. It is owned by the render thread.
type Backend struct {
	log    *slog.Logger
	screen tcell.Screen
	inited bool

	frame  *image.RGBA
	matrix f32.Mat4
	bound  *Texture
	blend  gputypes.BlendState
	stats  Stats
}

// New returns an uninitialized preview backend.
func New(opts ...Option) *Backend {
	b := &Backend{
		log:    slog.New(slog.DiscardHandler),
		matrix: render.Identity(),
		blend:  gputypes.BlendStateAlpha(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetLogger sets the backend logger. Nil discards output.
func (b *Backend) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	b.log = l
}

// Name implements backend.Backend.
func (b *Backend) Name() string { return backend.BackendPreview }

// Init implements backend.Backend.
func (b *Backend) Init() error {
	b.inited = true
	b.log.Debug("preview: initialized", "screen", b.screen != nil)
	return nil
}

// Close implements backend.Backend. The screen is left to its owner.
func (b *Backend) Close() {
	b.inited = false
	b.frame = nil
	b.bound = nil
}

// Shader implements render.Backend.
func (b *Backend) Shader() render.Shader { return (*shader)(b) }

// Meshes implements render.Backend.
func (b *Backend) Meshes() render.MeshFactory { return (*meshFactory)(b) }

// Blender implements render.Backend.
func (b *Backend) Blender() render.Blender { return (*blender)(b) }

// NewTexture implements backend.Backend. The pixels are converted to
// straight alpha once so sampling needs no division.
func (b *Backend) NewTexture(img *image.RGBA) (render.Texture, error) {
	if !b.inited {
		return nil, backend.ErrNotInitialized
	}
	bounds := img.Bounds()
	n := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(n, n.Bounds(), img, bounds.Min, draw.Src)
	return &Texture{owner: b, img: n}, nil
}

// BeginFrame implements backend.Backend.
func (b *Backend) BeginFrame(width, height int, c render.Color) error {
	if !b.inited {
		return backend.ErrNotInitialized
	}
	if width <= 0 || height <= 0 {
		return ErrEmptyFrame
	}
	if b.frame == nil || b.frame.Rect.Dx() != width || b.frame.Rect.Dy() != height {
		b.frame = image.NewRGBA(image.Rect(0, 0, width, height))
	}
	px := []byte{c.R(), c.G(), c.B(), c.A()}
	for i := 0; i < len(b.frame.Pix); i += 4 {
		copy(b.frame.Pix[i:i+4], px)
	}
	b.blend = gputypes.BlendStateAlpha()
	b.stats = Stats{}
	return nil
}

// EndFrame implements backend.Backend. With a screen attached the frame
// is presented on it.
func (b *Backend) EndFrame() error {
	if !b.inited {
		return backend.ErrNotInitialized
	}
	if b.screen != nil && b.frame != nil {
		Present(b.screen, b.frame)
	}
	b.log.Debug("preview: frame done",
		"draws", b.stats.Draws, "quads", b.stats.Quads, "blend_sets", b.stats.BlendSets)
	return nil
}

// Frame returns the frame being drawn, or nil before BeginFrame.
func (b *Backend) Frame() *image.RGBA { return b.frame }

// Stats returns the counters of the current frame.
func (b *Backend) Stats() Stats { return b.stats }

// Present shows frame on s, two pixel rows per cell row, and calls Show.
func Present(s tcell.Screen, frame *image.RGBA) {
	sw, sh := s.Size()
	r := frame.Rect
	for cy := 0; cy < sh; cy++ {
		for cx := 0; cx < sw; cx++ {
			x, y := r.Min.X+cx, r.Min.Y+cy*2
			if x >= r.Max.X || y >= r.Max.Y {
				continue
			}
			top := cellColor(frame, x, y)
			bottom := top
			if y+1 < r.Max.Y {
				bottom = cellColor(frame, x, y+1)
			}
			s.SetContent(cx, cy, '▀', nil, tcell.StyleDefault.Foreground(top).Background(bottom))
		}
	}
	s.Show()
}

func cellColor(img *image.RGBA, x, y int) tcell.Color {
	i := img.PixOffset(x, y)
	p := img.Pix[i : i+3 : i+3]
	return tcell.NewRGBColor(int32(p[0]), int32(p[1]), int32(p[2]))
}

type shader Backend

func (s *shader) Bind() {}

func (s *shader) SetUniformMatrix4(name string, m f32.Mat4) {
	if name != render.ProjectionViewUniform {
		s.log.Warn("preview: unknown uniform", "name", name)
		return
	}
	s.matrix = m
}

type blender Backend

func (bl *blender) Flush() { bl.stats.Flushes++ }

func (bl *blender) SetBlend(s gputypes.BlendState) {
	bl.blend = s
	bl.stats.BlendSets++
}

// Texture is an image sampled with nearest filtering.
type Texture struct {
	owner *Backend
	img   *image.NRGBA
}

// Bind implements render.Texture. Only unit 0 is sampled.
func (t *Texture) Bind(unit int) {
	if unit == 0 {
		t.owner.bound = t
	}
}

// Size returns the texture size in pixels.
func (t *Texture) Size() (w, h int) {
	return t.img.Rect.Dx(), t.img.Rect.Dy()
}

var (
	_ backend.Backend = (*Backend)(nil)
	_ render.Texture  = (*Texture)(nil)
)
