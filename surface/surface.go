// Package surface declares the tile data the floor renderer samples.
//
// The renderer owns none of these types. A game world implements World and
// Tile, and each floor or block kind implements Surface, drawing itself into
// a render.Drawer when asked.
package surface

import (
	"github.com/gogpu/floor/layer"
	"github.com/gogpu/floor/render"
)

// World is a rectangular tile grid.
type World interface {
	// Width and Height return the grid size in tiles.
	Width() int
	Height() int

	// Tile returns the tile at (x, y), or nil outside the grid.
	Tile(x, y int) Tile

	// IsAccessible reports whether at least one orthogonal neighbour of
	// (x, y) is not a solid wall.
	IsAccessible(x, y int) bool
}

// Tile is one grid cell: a floor and at most one block.
type Tile interface {
	X() int
	Y() int

	// Floor returns the floor surface. Never nil.
	Floor() Surface

	// Block returns the block surface. Empty cells return an air surface,
	// never nil.
	Block() Surface

	// Darkened reports whether the tile is inside a dark region.
	Darkened() bool

	// Data returns per-tile auxiliary data, such as the darkness level.
	Data() int
}

// Surface is a floor or block kind.
type Surface interface {
	// CacheLayer returns the layer the surface draws into. Nil means the
	// normal layer.
	CacheLayer() *layer.CacheLayer

	// FillsTile reports whether the surface covers its whole tile.
	FillsTile() bool

	// DrawBase draws the surface itself at tile t.
	DrawBase(d render.Drawer, t Tile)

	// DrawNonLayer draws the parts of tile t that belong to layer l even
	// though the surface itself lives in another layer, such as edges
	// blending into neighbouring floors.
	DrawNonLayer(d render.Drawer, t Tile, l *layer.CacheLayer)
}
