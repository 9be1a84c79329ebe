package floor

import (
	"log/slog"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/willf/bitset"

	"github.com/gogpu/floor/internal/batch"
	"github.com/gogpu/floor/layer"
	"github.com/gogpu/floor/render"
	"github.com/gogpu/floor/surface"
)

// Atlas supplies the texture page every floor region lives on and the
// region substituted for anything else.
type Atlas interface {
	Texture() render.Texture
	Error() *render.Region
}

// UnderwaterDraw draws content that must appear beneath liquid surfaces.
type UnderwaterDraw func()

// Renderer draws the cached floor of a world.
//
// All methods except RecacheTile belong to the render thread.
type Renderer struct {
	shader  render.Shader
	meshes  render.MeshFactory
	blender render.Blender
	gpu     render.Backend
	texture render.Texture

	reg   *layer.Registry
	opts  options
	batch *batch.Batch
	dirty *DirtySet

	world surface.World
	cache *ChunkCache

	present    *bitset.BitSet
	underwater []UnderwaterDraw
}

// New returns a renderer drawing with gpu and regions of atlas. The floor
// is empty until WorldLoaded is called.
func New(gpu render.Backend, atlas Atlas, opts ...Option) *Renderer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = layer.Default()
	}

	r := &Renderer{
		shader:  gpu.Shader(),
		meshes:  gpu.Meshes(),
		blender: gpu.Blender(),
		gpu:     gpu,
		texture: atlas.Texture(),
		reg:     o.registry,
		opts:    o,
		batch:   batch.New(atlas.Texture(), atlas.Error(), MaxSprites),
		dirty:   NewDirtySet(0, 0),
		present: bitset.New(uint(o.registry.Len())),
	}
	if o.logger != nil {
		if ls, ok := gpu.(loggerSetter); ok {
			ls.SetLogger(o.logger)
		}
	} else {
		attachLogger(gpu)
	}
	return r
}

func (r *Renderer) logger() *slog.Logger {
	if r.opts.logger != nil {
		return r.opts.logger
	}
	return Logger()
}

// Registry returns the cache layers the renderer draws.
func (r *Renderer) Registry() *layer.Registry { return r.reg }

// Cache returns the chunk cache, or nil before the first world load.
func (r *Renderer) Cache() *ChunkCache { return r.cache }

// WorldLoaded replaces the cached floor with one for w. Outside dynamic
// mode every chunk is built immediately.
func (r *Renderer) WorldLoaded(w surface.World) {
	if r.cache != nil {
		r.cache.Dispose()
	}
	r.world = w
	r.dirty.Reset(w.Width(), w.Height())

	r.cache = NewChunkCache(w, r.reg, r.meshes, r.batch)
	r.cache.metrics = r.opts.metrics
	r.cache.log = r.logger

	cx, cy := r.cache.Size()
	r.logger().Info("floor: world loaded",
		"width", w.Width(), "height", w.Height(),
		"chunks_x", cx, "chunks_y", cy,
		"dynamic", r.opts.dynamic)

	if !r.opts.dynamic {
		r.cache.RebuildAll()
	}
}

// Close releases every mesh. The renderer can be reused by calling
// WorldLoaded again.
func (r *Renderer) Close() {
	if r.cache != nil {
		r.cache.Dispose()
		r.cache = nil
	}
	detachLogger(r.gpu)
}

// RecacheTile queues the chunk owning tile (x, y) for a rebuild on the next
// CheckChanges. Safe for concurrent use.
func (r *Renderer) RecacheTile(x, y int) {
	r.dirty.MarkDirty(x, y)
}

// CheckChanges rebuilds every queued chunk and returns how many there were.
func (r *Renderer) CheckChanges() int {
	if r.cache == nil {
		return 0
	}
	n := r.dirty.Drain(r.cache.RebuildChunk)
	if n > 0 {
		r.logger().Debug("floor: rebuilt dirty chunks", "chunks", n)
	}
	return n
}

// DrawUnderwater registers fn to run inside every liquid layer drawn this
// frame. fn runs once per visible liquid layer, so with water and tar both
// in view it runs twice, each time under that layer's underwater blend.
// Registrations are dropped at the end of DrawFloor.
func (r *Renderer) DrawUnderwater(fn UnderwaterDraw) {
	r.underwater = append(r.underwater, fn)
}

// VisibleRange returns the inclusive chunk range that may intersect the
// camera view, padded by half a tile. The range is not clamped to the grid.
func VisibleRange(cam render.Camera) (minX, minY, maxX, maxY int) {
	x, y := cam.Position()
	w, h := cam.Size()
	minX = int((x - w/2 - pad) / ChunkUnits)
	minY = int((y - h/2 - pad) / ChunkUnits)
	maxX = int(math.Ceil(float64((x + w/2 + pad) / ChunkUnits)))
	maxY = int(math.Ceil(float64((y + h/2 + pad) / ChunkUnits)))
	return minX, minY, maxX, maxY
}

// BeginDraw flushes pending draws and binds the floor shader, the camera
// matrix and the atlas texture.
func (r *Renderer) BeginDraw(cam render.Camera) {
	if r.cache == nil {
		return
	}
	r.blender.Flush()
	r.shader.Bind()
	r.shader.SetUniformMatrix4(render.ProjectionViewUniform, cam.Matrix())
	r.texture.Bind(0)
}

// DrawFloor draws every non-wall layer visible to cam in ascending layer
// id order. Chunks never built are built on first sight.
func (r *Renderer) DrawFloor(cam render.Camera) {
	defer r.clearUnderwater()
	if r.cache == nil {
		return
	}

	minX, minY, maxX, maxY := VisibleRange(cam)
	bounds := cam.Bounds()
	walls := r.reg.Walls().ID

	r.present.ClearAll()
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			if !r.cache.InBounds(x, y) {
				continue
			}
			if !r.cache.Built(x, y) {
				r.cache.RebuildChunk(x, y)
			}
			for id, m := range r.cache.Chunk(x, y) {
				if m != nil && id != walls && m.Bounds.Overlaps(bounds) {
					r.present.Set(uint(id))
				}
			}
		}
	}

	r.BeginDraw(cam)
	for id, ok := r.present.NextSet(0); ok; id, ok = r.present.NextSet(id + 1) {
		r.DrawLayer(cam, r.reg.Get(int(id)))
	}
}

// DrawWalls draws the wall layer. Hosts call it from their block pass.
func (r *Renderer) DrawWalls(cam render.Camera) {
	r.BeginDraw(cam)
	r.DrawLayer(cam, r.reg.Walls())
}

// DrawLayer draws one layer of every built chunk in view. For liquid layers
// the registered underwater callbacks run after the layer's meshes with a
// blend that keeps their alpha within the liquid surface.
func (r *Renderer) DrawLayer(cam render.Camera, l *layer.CacheLayer) {
	if r.cache == nil || l == nil {
		return
	}

	minX, minY, maxX, maxY := VisibleRange(cam)
	bounds := cam.Bounds()

	l.Begin(r.blender)
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			chunk := r.cache.Chunk(x, y)
			if chunk == nil {
				continue
			}
			if m := chunk[l.ID]; m != nil && m.Bounds.Overlaps(bounds) {
				m.Draw(r.shader)
				r.opts.metrics.meshDrawn()
			}
		}
	}

	if l.Liquid && len(r.underwater) > 0 {
		r.blender.Flush()
		r.blender.SetBlend(layer.UnderwaterBlend())
		for _, fn := range r.underwater {
			fn()
		}
		r.blender.Flush()
		r.blender.SetBlend(gputypes.BlendStateAlpha())
		r.BeginDraw(cam)
		r.opts.metrics.underwaterPass()
	}

	l.End(r.blender)
}

func (r *Renderer) clearUnderwater() {
	clear(r.underwater)
	r.underwater = r.underwater[:0]
}
