package floor

import "github.com/gogpu/floor/render"

// Grid geometry.
const (
	// ChunkSize is the chunk edge length in tiles.
	ChunkSize = render.ChunkSize

	// TileSize is the tile edge length in world units.
	TileSize = render.TileSize

	// ChunkUnits is the chunk edge length in world units.
	ChunkUnits = ChunkSize * TileSize

	// MaxSprites is the most quads one chunk layer may hold.
	MaxSprites = render.MaxQuads

	pad = TileSize / 2
)

// ChunkOf returns the chunk that owns tile (x, y). Tile coordinates must
// not be negative.
func ChunkOf(x, y int) (cx, cy int) {
	return x / ChunkSize, y / ChunkSize
}

// ChunkCount returns the number of chunks along each axis for a grid of
// w x h tiles.
func ChunkCount(w, h int) (cx, cy int) {
	return (w + ChunkSize - 1) / ChunkSize, (h + ChunkSize - 1) / ChunkSize
}

// ChunkBounds returns the world rectangle of a chunk inflated by half a
// tile, the extent quads may reach past the chunk edge.
func ChunkBounds(cx, cy int) render.Rect {
	return render.RectFromCorners(
		float32(cx*ChunkUnits), float32(cy*ChunkUnits),
		float32((cx+1)*ChunkUnits), float32((cy+1)*ChunkUnits),
	).Inflate(pad)
}
