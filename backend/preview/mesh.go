package preview

import (
	"fmt"

	"github.com/gogpu/floor/internal/blend"
	"github.com/gogpu/floor/render"
)

type meshFactory Backend

// NewMesh implements render.MeshFactory.
func (f *meshFactory) NewMesh(vertices []float32) (render.Mesh, error) {
	if len(vertices)%render.QuadSize != 0 {
		return nil, fmt.Errorf("%w: %d floats", ErrVertexCount, len(vertices))
	}
	if q := len(vertices) / render.QuadSize; q > render.MaxQuads {
		return nil, fmt.Errorf("%w: %d quads", ErrTooManyQuads, q)
	}
	return &mesh{owner: (*Backend)(f), verts: append([]float32(nil), vertices...)}, nil
}

type mesh struct {
	owner *Backend
	verts []float32
}

func (m *mesh) VertexCount() int    { return len(m.verts) / render.VertexSize }
func (m *mesh) Vertices() []float32 { return append([]float32(nil), m.verts...) }
func (m *mesh) Dispose()            { m.verts = nil }

// Render rasterizes the first indexCount/6 quads of the mesh.
func (m *mesh) Render(_ render.Shader, indexCount int) {
	b := m.owner
	switch {
	case m.verts == nil:
		b.log.Error("preview: render of disposed mesh")
		return
	case b.frame == nil:
		b.log.Warn("preview: render outside a frame")
		return
	case b.bound == nil:
		b.log.Warn("preview: render without a bound texture")
		return
	}

	quads := min(indexCount/render.IndicesPerQuad, len(m.verts)/render.QuadSize)
	for q := range quads {
		b.quad(m.verts[q*render.QuadSize : (q+1)*render.QuadSize])
	}
	b.stats.Draws++
	b.stats.Quads += quads
}

type vertex struct {
	x, y       float32
	r, g, b, a float32
	u, v       float32
}

// quad rasterizes triangles (0, 1, 2) and (2, 3, 0), matching the shared
// index buffer, touching each pixel of the quad at most once.
func (b *Backend) quad(v []float32) {
	w, h := b.frame.Rect.Dx(), b.frame.Rect.Dy()

	var p [4]vertex
	minX, minY := float32(w), float32(h)
	maxX, maxY := float32(0), float32(0)
	for i := range p {
		o := i * render.VertexSize
		nx, ny := render.Transform(b.matrix, v[o+render.AttrX], v[o+render.AttrY])
		c := render.Unpack(v[o+render.AttrColor])
		p[i] = vertex{
			x: (nx + 1) / 2 * float32(w),
			y: (1 - ny) / 2 * float32(h),
			r: float32(c.R()), g: float32(c.G()), b: float32(c.B()),
			// The packed alpha lost its low bit; scale it back as the
			// GPU shader does.
			a: min(float32(c.A())*255/254, 255),
			u: v[o+render.AttrU], v: v[o+render.AttrV],
		}
		minX, maxX = min(minX, p[i].x), max(maxX, p[i].x)
		minY, maxY = min(minY, p[i].y), max(maxY, p[i].y)
	}

	x0, x1 := max(int(minX), 0), min(int(maxX)+1, w)
	y0, y1 := max(int(minY), 0), min(int(maxY)+1, h)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			cx, cy := float32(px)+0.5, float32(py)+0.5
			f, ok := interpolate(p[0], p[1], p[2], cx, cy)
			if !ok {
				f, ok = interpolate(p[2], p[3], p[0], cx, cy)
			}
			if ok {
				b.shade(px, py, f)
			}
		}
	}
}

func edge(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// interpolate returns the attributes at (px, py) if it lies inside the
// triangle abc, edges included. Either winding is accepted.
func interpolate(a, b, c vertex, px, py float32) (vertex, bool) {
	area := edge(a.x, a.y, b.x, b.y, c.x, c.y)
	if area == 0 {
		return vertex{}, false
	}
	wa := edge(b.x, b.y, c.x, c.y, px, py) / area
	wb := edge(c.x, c.y, a.x, a.y, px, py) / area
	wc := edge(a.x, a.y, b.x, b.y, px, py) / area
	if wa < 0 || wb < 0 || wc < 0 {
		return vertex{}, false
	}
	mix := func(x, y, z float32) float32 { return wa*x + wb*y + wc*z }
	return vertex{
		r: mix(a.r, b.r, c.r), g: mix(a.g, b.g, c.g), b: mix(a.b, b.b, c.b), a: mix(a.a, b.a, c.a),
		u: mix(a.u, b.u, c.u), v: mix(a.v, b.v, c.v),
	}, true
}

// shade samples the bound texture, tints it and blends it into the frame.
func (b *Backend) shade(px, py int, f vertex) {
	tex := b.bound.img
	tw, th := tex.Rect.Dx(), tex.Rect.Dy()
	tx := min(max(int(f.u*float32(tw)), 0), tw-1)
	ty := min(max(int(f.v*float32(th)), 0), th-1)
	t := tex.Pix[tex.PixOffset(tex.Rect.Min.X+tx, tex.Rect.Min.Y+ty):]

	src := blend.Pixel{
		tint(t[0], f.r), tint(t[1], f.g), tint(t[2], f.b), tint(t[3], f.a),
	}
	i := b.frame.PixOffset(b.frame.Rect.Min.X+px, b.frame.Rect.Min.Y+py)
	d := b.frame.Pix[i : i+4 : i+4]
	out := blend.Eval(b.blend, src, blend.Pixel{d[0], d[1], d[2], d[3]})
	copy(d, out[:])
}

func tint(texel byte, c float32) byte {
	return byte(min(float32(texel)*c/255+0.5, 255))
}
