// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

// Tile grid geometry. Meshes, index buffers and the world grid all size
// themselves from these.
const (
	// TileSize is the tile edge length in world units.
	TileSize = 8

	// ChunkSize is the chunk edge length in tiles.
	ChunkSize = 30
)

// Vertex layout shared by every backend.
const (
	// VertexSize is the number of float32 values per vertex: x, y, color, u, v.
	VertexSize = 5

	// QuadSize is the number of float32 values per quad.
	QuadSize = VertexSize * 4

	// IndicesPerQuad is the number of indices drawing one quad.
	IndicesPerQuad = 6

	// MaxQuads bounds a single chunk mesh: every tile of a chunk may
	// contribute nine quads, its base plus eight neighbour edges. The
	// shared index buffer covers exactly this many quads.
	MaxQuads = ChunkSize * ChunkSize * 9
)

// Offsets of the attributes inside one vertex.
const (
	AttrX = iota
	AttrY
	AttrColor
	AttrU
	AttrV
)

// QuadIndices returns the index list for n quads: j, j+1, j+2, j+2, j+3, j
// for every quad base vertex j.
func QuadIndices(n int) []uint16 {
	idx := make([]uint16, n*IndicesPerQuad)
	j := 0
	for i := 0; i < len(idx); i += IndicesPerQuad {
		idx[i] = uint16(j)
		idx[i+1] = uint16(j + 1)
		idx[i+2] = uint16(j + 2)
		idx[i+3] = uint16(j + 2)
		idx[i+4] = uint16(j + 3)
		idx[i+5] = uint16(j)
		j += 4
	}
	return idx
}
