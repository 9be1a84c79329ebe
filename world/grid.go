package world

import (
	"sync"

	"github.com/gogpu/floor/render"
	"github.com/gogpu/floor/surface"
)

// TileSize is the tile edge length in world units.
const TileSize = render.TileSize

// maxDarkness caps the darkness level stored in solid tiles.
const maxDarkness = 6

// Tile is one cell of a Grid.
type Tile struct {
	grid  *Grid
	x, y  int
	floor *Floor
	block *Block
	data  int
}

// X implements surface.Tile.
func (t *Tile) X() int { return t.x }

// Y implements surface.Tile.
func (t *Tile) Y() int { return t.y }

// Floor implements surface.Tile.
func (t *Tile) Floor() surface.Surface { return t.floor }

// Block implements surface.Tile.
func (t *Tile) Block() surface.Surface { return t.block }

// Darkened reports whether the tile is buried inside solid blocks.
func (t *Tile) Darkened() bool { return t.block.Solid && t.block.Fills }

// Data implements surface.Tile. For solid tiles it holds the darkness
// level: the distance to the nearest open tile, capped.
func (t *Tile) Data() int { return t.data }

// Nearby returns the tile offset by (dx, dy), or nil outside the grid.
func (t *Tile) Nearby(dx, dy int) *Tile {
	return t.grid.at(t.x+dx, t.y+dy)
}

// Listener receives grid notifications.
type Listener interface {
	WorldLoaded(w surface.World)
	RecacheTile(x, y int)
}

// Grid is a rectangular tile world. Edits and reads must not overlap:
// the host mutates the grid between frames. Listener registration is safe
// for concurrent use.
type Grid struct {
	width, height int
	tiles         []Tile
	content       *Content

	mu        sync.Mutex
	listeners []Listener
}

// NewGrid returns a w x h grid of fill floor with no blocks.
func NewGrid(c *Content, w, h int, fill *Floor) *Grid {
	g := &Grid{content: c}
	g.reset(w, h, fill)
	return g
}

func (g *Grid) reset(w, h int, fill *Floor) {
	g.width, g.height = w, h
	g.tiles = make([]Tile, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.tiles[y*w+x] = Tile{grid: g, x: x, y: y, floor: fill, block: g.content.Air}
		}
	}
}

// Attach registers l for load and change notifications.
func (g *Grid) Attach(l Listener) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listeners = append(g.listeners, l)
}

func (g *Grid) snapshot() []Listener {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Listener(nil), g.listeners...)
}

// Load resizes the grid, fills it through gen and notifies listeners that
// a new world is loaded. gen may be nil.
func (g *Grid) Load(w, h int, fill *Floor, gen func(g *Grid)) {
	g.reset(w, h, fill)
	if gen != nil {
		gen(g)
	}
	g.UpdateDarkness()
	g.Loaded()
}

// Loaded notifies listeners that the current contents form a new world.
func (g *Grid) Loaded() {
	for _, l := range g.snapshot() {
		l.WorldLoaded(g)
	}
}

// Width implements surface.World.
func (g *Grid) Width() int { return g.width }

// Height implements surface.World.
func (g *Grid) Height() int { return g.height }

// Content returns the floor and block kinds of the grid.
func (g *Grid) Content() *Content { return g.content }

func (g *Grid) at(x, y int) *Tile {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return nil
	}
	return &g.tiles[y*g.width+x]
}

// Tile implements surface.World.
func (g *Grid) Tile(x, y int) surface.Tile {
	if t := g.at(x, y); t != nil {
		return t
	}
	return nil
}

// At returns the concrete tile at (x, y), or nil.
func (g *Grid) At(x, y int) *Tile { return g.at(x, y) }

func (g *Grid) solid(x, y int) bool {
	t := g.at(x, y)
	return t == nil || t.block.Solid
}

// IsAccessible implements surface.World.
func (g *Grid) IsAccessible(x, y int) bool {
	return !g.solid(x, y-1) || !g.solid(x, y+1) || !g.solid(x-1, y) || !g.solid(x+1, y)
}

// SetFloor replaces the floor at (x, y).
func (g *Grid) SetFloor(x, y int, f *Floor) {
	if t := g.at(x, y); t != nil && f != nil {
		t.floor = f
		g.changed(x, y)
	}
}

// SetBlock replaces the block at (x, y). Nil means air.
func (g *Grid) SetBlock(x, y int, b *Block) {
	t := g.at(x, y)
	if t == nil {
		return
	}
	if b == nil {
		b = g.content.Air
	}
	t.block = b
	g.changed(x, y)
}

// SetData sets the auxiliary data of (x, y).
func (g *Grid) SetData(x, y, data int) {
	if t := g.at(x, y); t != nil {
		t.data = data
		g.changed(x, y)
	}
}

// changed notifies listeners about (x, y) and its neighbours, whose edges
// and accessibility depend on it.
func (g *Grid) changed(x, y int) {
	ls := g.snapshot()
	if len(ls) == 0 {
		return
	}
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if g.at(x+dx, y+dy) == nil {
				continue
			}
			for _, l := range ls {
				l.RecacheTile(x+dx, y+dy)
			}
		}
	}
}

// UpdateDarkness recomputes the darkness level of every tile without
// notifying listeners. Open tiles get zero; solid tiles get their
// Chebyshev distance to the nearest open tile, capped.
func (g *Grid) UpdateDarkness() {
	for i := range g.tiles {
		t := &g.tiles[i]
		t.data = 0
		if t.block.Solid {
			t.data = g.darkness(t.x, t.y)
		}
	}
}

func (g *Grid) darkness(x, y int) int {
	for r := 1; r < maxDarkness; r++ {
		for dx := -r; dx <= r; dx++ {
			for dy := -r; dy <= r; dy++ {
				if max(abs(dx), abs(dy)) != r {
					continue
				}
				t := g.at(x+dx, y+dy)
				if t != nil && !t.block.Solid {
					return r
				}
			}
		}
	}
	return maxDarkness
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

var _ surface.World = (*Grid)(nil)
