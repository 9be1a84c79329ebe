package native

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/floor/backend"
	"github.com/gogpu/floor/render"
)

type meshFactory Backend

// NewMesh implements render.MeshFactory. The vertices are uploaded into a
// vertex buffer of their own; the index buffer is shared.
func (f *meshFactory) NewMesh(vertices []float32) (render.Mesh, error) {
	b := (*Backend)(f)
	if !b.inited {
		return nil, backend.ErrNotInitialized
	}
	if len(vertices) == 0 || len(vertices)%render.QuadSize != 0 {
		return nil, fmt.Errorf("%w: %d floats", ErrVertexCount, len(vertices))
	}
	quads := len(vertices) / render.QuadSize
	if quads > render.MaxQuads {
		return nil, fmt.Errorf("%w: %d quads", ErrTooManyQuads, quads)
	}

	buf, err := b.upload("floor_chunk_vertices", gputypes.BufferUsageVertex, vertexBytes(vertices))
	if err != nil {
		return nil, err
	}
	return &mesh{
		owner: b,
		buf:   buf,
		verts: append([]float32(nil), vertices...),
		quads: quads,
	}, nil
}

// mesh is a chunk layer uploaded to the GPU. verts keeps the data for
// Vertices since vertex buffers are not mappable. drawn is the last frame
// that recorded a draw of buf.
type mesh struct {
	owner *Backend
	buf   hal.Buffer
	verts []float32
	quads int
	drawn uint64
}

func (m *mesh) VertexCount() int    { return len(m.verts) / render.VertexSize }
func (m *mesh) Vertices() []float32 { return append([]float32(nil), m.verts...) }

// Dispose releases the vertex buffer. A disposed mesh no longer draws.
// When a frame that drew the mesh has not completed yet, the buffer is
// destroyed once the queue reports that submission done.
func (m *mesh) Dispose() {
	if m.buf == nil {
		return
	}
	m.owner.retire(m.buf, m.drawn)
	m.buf = nil
	m.verts = nil
}

// Render records a draw of the first indexCount/6 quads into the frame's
// render pass with the pipeline of the current blend state.
func (m *mesh) Render(_ render.Shader, indexCount int) {
	b := m.owner
	switch {
	case m.buf == nil:
		b.log.Error("native: render of disposed mesh")
		return
	case b.pass == nil:
		b.log.Warn("native: render outside a frame")
		return
	case b.bound == nil:
		b.log.Warn("native: render without a bound texture")
		return
	}

	quads := min(indexCount/render.IndicesPerQuad, m.quads)
	if quads <= 0 {
		return
	}

	key := pipelineKey{blend: b.blend, format: b.format}
	if !b.hasPipeline || key != b.current {
		p, err := b.pipelines.get(key)
		if err != nil {
			b.log.Error("native: pipeline unavailable", "err", err)
			return
		}
		b.pass.SetPipeline(p)
		b.current, b.hasPipeline = key, true
		b.stats.PipelineSwitches++
	}

	b.pass.SetBindGroup(0, b.uniformGroup, []uint32{b.uniformOffset()})
	b.pass.SetBindGroup(1, b.bound.group, nil)
	b.pass.SetVertexBuffer(0, m.buf, 0)
	b.pass.SetIndexBuffer(b.indices, gputypes.IndexFormatUint16, 0)
	b.pass.DrawIndexed(uint32(quads*render.IndicesPerQuad), 1, 0, 0, 0)
	m.drawn = b.frame

	b.stats.Draws++
	b.stats.Quads += quads
}
