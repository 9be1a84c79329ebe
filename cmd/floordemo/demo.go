package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gogpu/floor"
	"github.com/gogpu/floor/atlas"
	"github.com/gogpu/floor/backend"
	"github.com/gogpu/floor/backend/native"
	"github.com/gogpu/floor/backend/preview"
	"github.com/gogpu/floor/render"
	"github.com/gogpu/floor/world"
)

// settings are the parsed command line flags.
type settings struct {
	seed     int64
	size     int
	backend  string
	frames   int
	zoom     int
	interval time.Duration
}

// Frame size used without a screen.
const headlessWidth, headlessHeight = 160, 96

type demo struct {
	log     *slog.Logger
	screen  tcell.Screen
	gpu     backend.Backend
	r       *floor.Renderer
	grid    *world.Grid
	content *world.Content
	cam     *render.OrthoCamera
	zoom    int
	rng     *rand.Rand
	frames  int
}

// newDemo wires a backend, a generated world and a renderer. screen may be
// nil for a headless run; metrics may be nil.
func newDemo(set settings, cfg *floor.Config, screen tcell.Screen, metrics prometheus.Registerer, log *slog.Logger) (*demo, error) {
	name := set.backend

	if screen != nil {
		backend.Register(backend.BackendPreview, func() backend.Backend {
			return preview.New(preview.WithScreen(screen))
		})
	}
	if name == backend.BackendNative {
		host, err := openHeadlessHost()
		if err != nil {
			return nil, err
		}
		native.Register(host)
	}
	gpu, err := backend.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open backend %q: %w", name, err)
	}

	page, rects := atlas.Pack(cellSize, tileSources(set.seed)...)
	tex, err := gpu.NewTexture(page)
	if err != nil {
		gpu.Close()
		return nil, fmt.Errorf("upload atlas: %w", err)
	}
	a := atlas.FromPage(tex, page.Bounds(), rects)
	a.SetLogger(log)

	opts, err := cfg.Options()
	if err != nil {
		gpu.Close()
		return nil, err
	}
	opts = append(opts, floor.WithLogger(log))
	if metrics != nil {
		m, err := floor.NewMetrics(metrics)
		if err != nil {
			gpu.Close()
			return nil, err
		}
		opts = append(opts, floor.WithMetrics(m))
	}

	r := floor.New(gpu, a, opts...)
	d := &demo{
		log:     log,
		screen:  screen,
		gpu:     gpu,
		r:       r,
		content: world.DefaultContent(r.Registry(), a),
		zoom:    max(set.zoom, 1),
		rng:     rand.New(rand.NewSource(set.seed)),
	}
	d.grid = world.NewGrid(d.content, 0, 0, nil)
	d.grid.Attach(d.r)

	start := time.Now()
	d.grid.Load(set.size, set.size, d.content.Floor("grass"), world.Generate(world.DefaultTerrain(set.seed)))
	log.Info("world generated", "backend", gpu.Name(), "size", set.size, "seed", set.seed,
		"elapsed", time.Since(start))

	mid := float32(set.size * world.TileSize / 2)
	d.cam = render.NewOrthoCamera(mid, mid, 0, 0)
	return d, nil
}

// Close releases the renderer and then the backend.
func (d *demo) Close() {
	d.r.Close()
	d.gpu.Close()
}

func (d *demo) frameSize() (int, int) {
	if d.screen == nil {
		return headlessWidth, headlessHeight
	}
	w, h := d.screen.Size()
	return w, h * 2
}

// frame applies pending world changes and draws one frame.
func (d *demo) frame() error {
	if n := d.r.CheckChanges(); n > 0 {
		d.log.Debug("chunks rebuilt", "count", n)
	}

	w, h := d.frameSize()
	d.cam.W = float32(w * world.TileSize / d.zoom)
	d.cam.H = float32(h * world.TileSize / d.zoom)

	if err := d.gpu.BeginFrame(w, h, render.RGBA8(0, 0, 0, 255)); err != nil {
		return err
	}
	d.r.DrawFloor(d.cam)
	d.r.DrawWalls(d.cam)
	d.frames++
	return d.gpu.EndFrame()
}

// pan moves the camera by whole tiles.
func (d *demo) pan(dx, dy int) {
	d.cam.X += float32(dx * world.TileSize)
	d.cam.Y += float32(dy * world.TileSize)
}

// centerTile returns the tile under the camera.
func (d *demo) centerTile() (int, int) {
	return int(d.cam.X) / world.TileSize, int(d.cam.Y) / world.TileSize
}

// flood paints a disc of shallow water around the camera.
func (d *demo) flood(radius int) {
	cx, cy := d.centerTile()
	water := d.content.Floor("shallow-water")
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			if (x-cx)*(x-cx)+(y-cy)*(y-cy) <= radius*radius {
				d.grid.SetFloor(x, y, water)
			}
		}
	}
}

// toggleWall places or removes a stone wall under the camera.
func (d *demo) toggleWall() {
	x, y := d.centerTile()
	t := d.grid.At(x, y)
	if t == nil {
		return
	}
	if b, _ := t.Block().(*world.Block); b == d.content.Air {
		d.grid.SetBlock(x, y, d.content.Block("stone-wall"))
	} else {
		d.grid.SetBlock(x, y, d.content.Air)
	}
	d.grid.UpdateDarkness()
}

// handle applies one input event and reports whether the demo continues.
func (d *demo) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			d.pan(-4, 0)
		case tcell.KeyRight:
			d.pan(4, 0)
		case tcell.KeyUp:
			d.pan(0, 4)
		case tcell.KeyDown:
			d.pan(0, -4)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'f':
				d.flood(3 + d.rng.Intn(3))
			case 'w':
				d.toggleWall()
			case '+':
				d.zoom = min(d.zoom*2, 8)
			case '-':
				d.zoom = max(d.zoom/2, 1)
			}
		}
	case *tcell.EventResize:
		d.screen.Sync()
	}
	return true
}

// run draws frames until the user quits or, with limit > 0, until limit
// frames are drawn. Without a screen the camera drifts across the world.
func (d *demo) run(limit int, interval time.Duration) error {
	if d.screen == nil {
		if limit <= 0 {
			limit = 60
		}
		for d.frames < limit {
			d.pan(1, 0)
			if err := d.frame(); err != nil {
				return err
			}
		}
		return nil
	}

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := d.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case ev, ok := <-events:
			if !ok || !d.handle(ev) {
				return nil
			}
		case <-ticker.C:
			if err := d.frame(); err != nil {
				return err
			}
			if limit > 0 && d.frames >= limit {
				return nil
			}
		}
	}
}

// headlessHost provides the noop HAL device, so the native backend records
// and submits real command streams without a window.
type headlessHost struct {
	dev hal.OpenDevice
}

func openHeadlessHost() (*headlessHost, error) {
	inst, err := noop.API{}.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("create HAL instance: %w", err)
	}
	adapters := inst.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return nil, fmt.Errorf("no HAL adapter")
	}
	dev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		return nil, fmt.Errorf("open HAL device: %w", err)
	}
	return &headlessHost{dev: dev}, nil
}

func (h *headlessHost) Device() gpucontext.Device   { return h.dev.Device }
func (h *headlessHost) Queue() gpucontext.Queue     { return h.dev.Queue }
func (h *headlessHost) Adapter() gpucontext.Adapter { return nil }
func (h *headlessHost) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

func (h *headlessHost) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: "noop", Type: gpucontext.AdapterTypeUnknown}
}
