// Package world is a reference tile world for the floor renderer: a grid
// of floors and blocks with edit and load notifications.
package world

import (
	"strconv"

	"github.com/gogpu/floor/atlas"
	"github.com/gogpu/floor/layer"
	"github.com/gogpu/floor/render"
	"github.com/gogpu/floor/surface"
)

// neighbour offsets: four sides, then four corners.
var d8 = [8][2]int{
	{1, 0}, {0, 1}, {-1, 0}, {0, -1},
	{1, 1}, {-1, 1}, {-1, -1}, {1, -1},
}

// Floor is a ground surface kind.
type Floor struct {
	Name  string
	Layer *layer.CacheLayer // nil means normal

	// Variants are picked per tile by a position hash.
	Variants []*render.Region

	// Edge and Corner are drawn onto neighbouring tiles of other floors,
	// rotated to face this floor. Nil disables edges.
	Edge   *render.Region
	Corner *render.Region

	// EdgePriority decides which floor draws over the other at a seam.
	EdgePriority int
}

// CacheLayer implements surface.Surface.
func (f *Floor) CacheLayer() *layer.CacheLayer { return f.Layer }

// FillsTile implements surface.Surface.
func (f *Floor) FillsTile() bool { return true }

// DrawBase draws one variant of the floor centered on the tile.
func (f *Floor) DrawBase(d render.Drawer, t surface.Tile) {
	if len(f.Variants) == 0 {
		return
	}
	v := f.Variants[variant(t.X(), t.Y(), len(f.Variants))]
	d.SetColor(render.White)
	d.Draw(v, center(t.X()), center(t.Y()), TileSize, TileSize, 0)
}

// DrawNonLayer draws the edges that neighbouring floors of layer l cast
// onto tile t.
func (f *Floor) DrawNonLayer(d render.Drawer, t surface.Tile, l *layer.CacheLayer) {
	wt, ok := t.(*Tile)
	if !ok {
		return
	}
	d.SetColor(render.White)
	for i, o := range d8 {
		other := wt.Nearby(o[0], o[1])
		if other == nil {
			continue
		}
		of := other.floor
		if of == f || of.Layer != l || of.EdgePriority <= f.EdgePriority {
			continue
		}
		r := of.Edge
		if i >= 4 {
			r = of.Corner
		}
		if r == nil {
			continue
		}
		d.Draw(r, center(t.X()), center(t.Y()), TileSize, TileSize, float32(90*(i%4)))
	}
}

// Block is a structure standing on a floor.
type Block struct {
	Name   string
	Layer  *layer.CacheLayer // nil means normal
	Solid  bool
	Fills  bool
	Region *render.Region
}

// CacheLayer implements surface.Surface.
func (b *Block) CacheLayer() *layer.CacheLayer { return b.Layer }

// FillsTile implements surface.Surface.
func (b *Block) FillsTile() bool { return b.Fills }

// DrawBase draws the block centered on the tile.
func (b *Block) DrawBase(d render.Drawer, t surface.Tile) {
	if b.Region == nil {
		return
	}
	d.SetColor(render.White)
	d.Draw(b.Region, center(t.X()), center(t.Y()), TileSize, TileSize, 0)
}

// DrawNonLayer implements surface.Surface. Blocks cast nothing onto other
// layers.
func (b *Block) DrawNonLayer(render.Drawer, surface.Tile, *layer.CacheLayer) {}

// Content is the set of floor and block kinds of a world.
type Content struct {
	Floors map[string]*Floor
	Blocks map[string]*Block
	Air    *Block
}

// Floor returns the named floor, or nil.
func (c *Content) Floor(name string) *Floor { return c.Floors[name] }

// Block returns the named block, or nil.
func (c *Content) Block(name string) *Block { return c.Blocks[name] }

// DefaultContent builds the stock floors and blocks, resolving regions in
// a and layers in reg. Missing layers fall back to normal.
func DefaultContent(reg *layer.Registry, a *atlas.Atlas) *Content {
	c := &Content{
		Floors: make(map[string]*Floor),
		Blocks: make(map[string]*Block),
	}
	byName := func(name string) *layer.CacheLayer {
		if l := reg.ByName(name); l != nil {
			return l
		}
		return reg.Normal()
	}

	floors := []struct {
		name     string
		layer    string
		priority int
	}{
		{"deep-water", "water", 0},
		{"shallow-water", "water", 1},
		{"tar", "tar", 2},
		{"space", "space", 3},
		{"sand", layer.NormalName, 4},
		{"grass", layer.NormalName, 5},
		{"stone", layer.NormalName, 6},
	}
	for _, fd := range floors {
		f := &Floor{
			Name:         fd.name,
			Layer:        byName(fd.layer),
			Variants:     variants(a, fd.name),
			EdgePriority: fd.priority,
		}
		if a.Has(fd.name + "-edge") {
			f.Edge = a.Find(fd.name + "-edge")
			f.Corner = f.Edge
		}
		if a.Has(fd.name + "-corner") {
			f.Corner = a.Find(fd.name + "-corner")
		}
		c.Floors[f.Name] = f
	}

	c.Air = &Block{Name: "air"}
	c.Blocks["air"] = c.Air
	c.Blocks["stone-wall"] = &Block{
		Name:   "stone-wall",
		Layer:  reg.Walls(),
		Solid:  true,
		Fills:  true,
		Region: a.Find("stone-wall"),
	}
	c.Blocks["boulder"] = &Block{
		Name:   "boulder",
		Layer:  reg.Walls(),
		Solid:  true,
		Region: a.Find("boulder"),
	}
	return c
}

// variants collects name, name2, name3... while they exist, falling back
// to the atlas lookup of name alone.
func variants(a *atlas.Atlas, name string) []*render.Region {
	var out []*render.Region
	if a.Has(name) {
		out = append(out, a.Find(name))
	}
	for i := 2; a.Has(name + strconv.Itoa(i)); i++ {
		out = append(out, a.Find(name+strconv.Itoa(i)))
	}
	if len(out) == 0 {
		out = append(out, a.Find(name))
	}
	return out
}

func center(v int) float32 { return float32(v * TileSize) }

// variant hashes a position into [0, n).
func variant(x, y, n int) int {
	h := uint32(x)*73856093 ^ uint32(y)*19349663
	return int(h % uint32(n))
}
