package floor

import (
	"github.com/gogpu/floor/layer"
	"github.com/gogpu/floor/render"
)

// ChunkMesh is the uploaded geometry of one layer of one chunk.
type ChunkMesh struct {
	render.Mesh

	Layer  *layer.CacheLayer
	Bounds render.Rect
}

// IndexCount returns the number of shared indices that draw every quad of
// the mesh.
func (m *ChunkMesh) IndexCount() int {
	return m.VertexCount() / 4 * render.IndicesPerQuad
}

// Draw renders the whole mesh with shader s.
func (m *ChunkMesh) Draw(s render.Shader) {
	m.Render(s, m.IndexCount())
}
