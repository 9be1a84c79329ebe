package floor

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/willf/bitset"

	"github.com/gogpu/floor/internal/batch"
	"github.com/gogpu/floor/layer"
	"github.com/gogpu/floor/render"
	"github.com/gogpu/floor/surface"
)

// ErrMeshUpload is the panic value, wrapped, when a chunk mesh cannot be
// created. A partially cached floor cannot be drawn correctly.
var ErrMeshUpload = errors.New("floor: chunk mesh upload failed")

// ChunkCache holds the layer meshes of every chunk of a world.
//
// Each chunk entry is a slice indexed by layer id. A nil entry has never
// been built; a nil slot inside a built entry means the layer has no
// geometry in that chunk. ChunkCache is owned by the render thread.
type ChunkCache struct {
	world   surface.World
	reg     *layer.Registry
	meshes  render.MeshFactory
	batch   *batch.Batch
	metrics *Metrics
	log     func() *slog.Logger

	entries          [][]*ChunkMesh // cx*chunksY + cy
	chunksX, chunksY int

	used *bitset.BitSet
}

// NewChunkCache returns a cache for world. No chunk is built until
// RebuildAll or RebuildChunk is called.
func NewChunkCache(world surface.World, reg *layer.Registry, meshes render.MeshFactory, b *batch.Batch) *ChunkCache {
	c := &ChunkCache{
		world:  world,
		reg:    reg,
		meshes: meshes,
		batch:  b,
		log:    Logger,
		used:   bitset.New(uint(reg.Len())),
	}
	c.chunksX, c.chunksY = ChunkCount(world.Width(), world.Height())
	c.entries = make([][]*ChunkMesh, c.chunksX*c.chunksY)
	return c
}

// Size returns the number of chunks along each axis.
func (c *ChunkCache) Size() (cx, cy int) { return c.chunksX, c.chunksY }

// InBounds reports whether (cx, cy) is a chunk of the grid.
func (c *ChunkCache) InBounds(cx, cy int) bool {
	return cx >= 0 && cy >= 0 && cx < c.chunksX && cy < c.chunksY
}

// Chunk returns the layer slots of a chunk, or nil if the chunk is out of
// bounds or was never built.
func (c *ChunkCache) Chunk(cx, cy int) []*ChunkMesh {
	if !c.InBounds(cx, cy) {
		return nil
	}
	return c.entries[cx*c.chunksY+cy]
}

// Built reports whether a chunk has been built at least once.
func (c *ChunkCache) Built(cx, cy int) bool {
	return c.Chunk(cx, cy) != nil
}

// RebuildAll disposes every mesh and builds every chunk again.
func (c *ChunkCache) RebuildAll() {
	c.Dispose()

	start := time.Now()
	for cx := 0; cx < c.chunksX; cx++ {
		for cy := 0; cy < c.chunksY; cy++ {
			c.RebuildChunk(cx, cy)
		}
	}
	c.log().Debug("floor: generated world mesh",
		"chunks", c.chunksX*c.chunksY,
		"elapsed", time.Since(start))
}

// Dispose releases every mesh and marks every chunk as never built.
func (c *ChunkCache) Dispose() {
	for i, entry := range c.entries {
		for _, m := range entry {
			if m != nil {
				m.Dispose()
				c.metrics.meshDisposed()
			}
		}
		c.entries[i] = nil
	}
}

// RebuildChunk regenerates every layer mesh of one chunk. Out of bounds
// chunks are ignored.
func (c *ChunkCache) RebuildChunk(cx, cy int) {
	if !c.InBounds(cx, cy) {
		return
	}
	c.collectUsed(cx, cy)

	i := cx*c.chunksY + cy
	entry := c.entries[i]
	if entry == nil {
		entry = make([]*ChunkMesh, c.reg.Len())
		c.entries[i] = entry
	}
	for id, m := range entry {
		if m != nil {
			m.Dispose()
			c.metrics.meshDisposed()
			entry[id] = nil
		}
	}

	for id, ok := c.used.NextSet(0); ok; id, ok = c.used.NextSet(id + 1) {
		entry[id] = c.buildLayer(cx, cy, c.reg.Get(int(id)))
	}
	c.metrics.chunkRebuilt()
}

// collectUsed records the layers with content in the chunk footprint plus
// a one tile border, clamped to the grid.
func (c *ChunkCache) collectUsed(cx, cy int) {
	c.used.ClearAll()

	w, h := c.world.Width(), c.world.Height()
	normal := c.reg.Normal()
	for x := max(cx*ChunkSize-1, 0); x < (cx+1)*ChunkSize+1 && x < w; x++ {
		for y := max(cy*ChunkSize-1, 0); y < (cy+1)*ChunkSize+1 && y < h; y++ {
			t := c.world.Tile(x, y)
			if t == nil {
				continue
			}
			block := c.reg.Resolve(t.Block().CacheLayer())
			wall := block != normal
			if wall {
				c.used.Set(uint(block.ID))
			}
			if !wall || c.world.IsAccessible(x, y) {
				c.used.Set(uint(c.reg.Resolve(t.Floor().CacheLayer()).ID))
			}
		}
	}
}

// buildLayer runs one pass over the chunk footprint for layer l and
// uploads the produced quads. It returns nil when nothing was drawn.
func (c *ChunkCache) buildLayer(cx, cy int, l *layer.CacheLayer) *ChunkMesh {
	b := c.batch
	b.Reset()
	b.SetLogger(c.log())

	walls := c.reg.Walls()
	for x := cx * ChunkSize; x < (cx+1)*ChunkSize; x++ {
		for y := cy * ChunkSize; y < (cy+1)*ChunkSize; y++ {
			t := c.world.Tile(x, y)
			if t == nil {
				continue
			}
			floor := t.Floor()
			block := t.Block()
			floorLayer := c.reg.Resolve(floor.CacheLayer())
			blockLayer := c.reg.Resolve(block.CacheLayer())

			switch {
			case blockLayer == l && l == walls && !(t.Darkened() && t.Data() >= 5):
				block.DrawBase(b, t)
			case floorLayer == l && (c.world.IsAccessible(x, y) || blockLayer != walls || !block.FillsTile()):
				floor.DrawBase(b, t)
			case floorLayer != l && l != walls:
				floor.DrawNonLayer(b, t, l)
			}
		}
	}

	if b.Quads() == 0 {
		return nil
	}

	mesh, err := c.meshes.NewMesh(b.Vertices())
	if err != nil {
		panic(fmt.Errorf("%w: chunk (%d, %d) layer %s: %w", ErrMeshUpload, cx, cy, l.Name, err))
	}
	c.metrics.meshBuilt()
	return &ChunkMesh{Mesh: mesh, Layer: l, Bounds: ChunkBounds(cx, cy)}
}
