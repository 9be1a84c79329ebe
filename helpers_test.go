package floor

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/floor/atlas"
	"github.com/gogpu/floor/layer"
	"github.com/gogpu/floor/render"
	"github.com/gogpu/floor/world"
)

// fakeGPU records every call the renderer makes.
type fakeGPU struct {
	events  []string
	draws   []*fakeMesh
	meshes  []*fakeMesh
	blends  []gputypes.BlendState
	failNew error
	logger  *slog.Logger
}

func (g *fakeGPU) Shader() render.Shader       { return (*fakeShader)(g) }
func (g *fakeGPU) Meshes() render.MeshFactory  { return (*fakeFactory)(g) }
func (g *fakeGPU) Blender() render.Blender     { return (*fakeBlender)(g) }
func (g *fakeGPU) SetLogger(l *slog.Logger)    { g.logger = l }
func (g *fakeGPU) log(format string, a ...any) { g.events = append(g.events, fmt.Sprintf(format, a...)) }

func (g *fakeGPU) live() int {
	n := 0
	for _, m := range g.meshes {
		if !m.disposed {
			n++
		}
	}
	return n
}

type fakeShader fakeGPU

func (s *fakeShader) Bind() { (*fakeGPU)(s).log("bind") }
func (s *fakeShader) SetUniformMatrix4(name string, _ f32.Mat4) {
	(*fakeGPU)(s).log("uniform %s", name)
}

type fakeBlender fakeGPU

func (b *fakeBlender) Flush() { (*fakeGPU)(b).log("flush") }
func (b *fakeBlender) SetBlend(s gputypes.BlendState) {
	g := (*fakeGPU)(b)
	g.blends = append(g.blends, s)
	g.log("blend")
}

type fakeFactory fakeGPU

func (f *fakeFactory) NewMesh(v []float32) (render.Mesh, error) {
	g := (*fakeGPU)(f)
	if g.failNew != nil {
		return nil, g.failNew
	}
	m := &fakeMesh{gpu: g, id: len(g.meshes), verts: append([]float32(nil), v...)}
	g.meshes = append(g.meshes, m)
	return m, nil
}

type fakeMesh struct {
	gpu      *fakeGPU
	id       int
	verts    []float32
	disposed bool
}

func (m *fakeMesh) Render(_ render.Shader, n int) {
	if m.disposed {
		panic("render of disposed mesh")
	}
	if n != len(m.verts)/render.VertexSize/4*6 {
		panic(fmt.Sprintf("index count %d for %d vertices", n, len(m.verts)/render.VertexSize))
	}
	m.gpu.draws = append(m.gpu.draws, m)
	m.gpu.log("draw %d", m.id)
}
func (m *fakeMesh) VertexCount() int    { return len(m.verts) / render.VertexSize }
func (m *fakeMesh) Vertices() []float32 { return append([]float32(nil), m.verts...) }
func (m *fakeMesh) Dispose() {
	if m.disposed {
		panic("double dispose")
	}
	m.disposed = true
}

type fakeTexture struct{ binds int }

func (t *fakeTexture) Bind(int) { t.binds++ }

var errUpload = errors.New("out of memory")

// fixture is a world, its atlas and content.
type fixture struct {
	reg     *layer.Registry
	atlas   *atlas.Atlas
	content *world.Content
	tex     *fakeTexture
}

func newFixture(t *testing.T, reg *layer.Registry) *fixture {
	t.Helper()
	if reg == nil {
		reg = layer.Default()
	}
	tex := &fakeTexture{}
	a := atlas.New(tex, 256, 256)
	a.Add(atlas.ErrorRegionName, 0, 0, 16, 16)
	for i, n := range []string{"grass", "sand", "stone", "deep-water", "shallow-water", "tar", "space", "stone-wall", "boulder", "grass-edge"} {
		a.Add(n, 16+i*16, 0, 16, 16)
	}
	return &fixture{reg: reg, atlas: a, content: world.DefaultContent(reg, a), tex: tex}
}

// floorIn returns a single-variant floor without edges in layer l.
func (f *fixture) floorIn(name string, l *layer.CacheLayer) *world.Floor {
	return &world.Floor{Name: name, Layer: l, Variants: []*render.Region{f.atlas.Find("grass")}}
}

func (f *fixture) grid(w, h int, fill *world.Floor) *world.Grid {
	return world.NewGrid(f.content, w, h, fill)
}

func (f *fixture) plain() *world.Floor {
	return f.floorIn("plain", nil)
}

func newTestRenderer(f *fixture, opts ...Option) (*Renderer, *fakeGPU) {
	gpu := &fakeGPU{}
	opts = append([]Option{WithRegistry(f.reg)}, opts...)
	return New(gpu, f.atlas, opts...), gpu
}

// camera centered on a tile-space rectangle.
func camOver(x0, y0, x1, y1 float32) *render.OrthoCamera {
	return render.NewOrthoCamera((x0+x1)/2, (y0+y1)/2, x1-x0, y1-y0)
}
