package floor

import (
	"slices"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/floor/layer"
	"github.com/gogpu/floor/render"
	"github.com/gogpu/floor/world"
)

func TestVisibleRange(t *testing.T) {
	tests := []struct {
		name                   string
		x, y, w, h             float32
		minX, minY, maxX, maxY int
	}{
		{"inside chunk 1", 360, 360, 100, 100, 1, 1, 2, 2},
		{"origin", 0, 0, 100, 100, 0, 0, 1, 1},
		{"wide", 480, 120, 960, 240, 0, 0, 5, 2},
		{"far negative", -5000, -5000, 100, 100, -21, -21, -20, -20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			minX, minY, maxX, maxY := VisibleRange(render.NewOrthoCamera(tt.x, tt.y, tt.w, tt.h))
			if minX != tt.minX || minY != tt.minY || maxX != tt.maxX || maxY != tt.maxY {
				t.Errorf("VisibleRange = (%d, %d, %d, %d), want (%d, %d, %d, %d)",
					minX, minY, maxX, maxY, tt.minX, tt.minY, tt.maxX, tt.maxY)
			}
		})
	}
}

func TestVisibilityCorrectness(t *testing.T) {
	f := newFixture(t, nil)
	r, gpu := newTestRenderer(f)
	t.Cleanup(r.Close)
	r.WorldLoaded(f.grid(90, 90, f.plain()))

	cams := []*render.OrthoCamera{
		render.NewOrthoCamera(360, 360, 100, 100),
		render.NewOrthoCamera(240, 240, 30, 30),
		render.NewOrthoCamera(0, 0, 50, 50),
		render.NewOrthoCamera(700, 100, 300, 120),
		render.NewOrthoCamera(360, 360, 2000, 2000),
	}
	for _, cam := range cams {
		gpu.draws = nil
		r.DrawFloor(cam)

		var want []*fakeMesh
		for x := 0; x < 3; x++ {
			for y := 0; y < 3; y++ {
				m := r.Cache().Chunk(x, y)[f.reg.Normal().ID]
				if m.Bounds.Overlaps(cam.Bounds()) {
					want = append(want, m.Mesh.(*fakeMesh))
				}
			}
		}
		if len(want) == 0 {
			t.Fatalf("camera %+v sees nothing; bad test setup", cam)
		}
		if !sameMeshes(gpu.draws, want) {
			t.Errorf("camera %+v drew %v, want %v", cam, ids(gpu.draws), ids(want))
		}
	}
}

func sameMeshes(a, b []*fakeMesh) bool {
	x, y := ids(a), ids(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y)
}

func ids(ms []*fakeMesh) []int {
	out := make([]int, len(ms))
	for i, m := range ms {
		out[i] = m.id
	}
	return out
}

func TestLayerPaintOrder(t *testing.T) {
	var begun []string
	hook := func(_ render.Blender, l *layer.CacheLayer) { begun = append(begun, l.Name) }
	reg := layer.MustNew(
		layer.Def{Name: "c", OnBegin: hook},
		layer.Def{Name: "x1", OnBegin: hook},
		layer.Def{Name: "a", OnBegin: hook},
		layer.Def{Name: "x3", OnBegin: hook},
		layer.Def{Name: "x4", OnBegin: hook},
		layer.Def{Name: "b", OnBegin: hook},
		layer.Def{Name: layer.NormalName, OnBegin: hook},
		layer.Def{Name: layer.WallsName, OnBegin: hook},
	)
	f := newFixture(t, reg)
	g := f.grid(90, 30, f.floorIn("b", reg.Get(5)))
	for x := 30; x < 60; x++ {
		for y := 0; y < 30; y++ {
			g.SetFloor(x, y, f.floorIn("a", reg.Get(2)))
			g.SetFloor(x+30, y, f.floorIn("c", reg.Get(0)))
		}
	}

	r, _ := newTestRenderer(f)
	t.Cleanup(r.Close)
	r.WorldLoaded(g)
	r.DrawFloor(camOver(0, 0, 720, 240))

	want := []string{"c", "a", "b"}
	if !slices.Equal(begun, want) {
		t.Errorf("layers began in order %v, want %v", begun, want)
	}
}

func TestUnderwaterIsolation(t *testing.T) {
	f := newFixture(t, nil)
	water := f.reg.ByName("water")
	g := f.grid(60, 30, f.plain())
	for x := 0; x < 30; x++ {
		for y := 0; y < 30; y++ {
			g.SetFloor(x, y, f.floorIn("water", water))
		}
	}

	r, gpu := newTestRenderer(f)
	t.Cleanup(r.Close)
	r.WorldLoaded(g)
	cam := camOver(0, 0, 480, 240)

	r.DrawUnderwater(func() { gpu.log("cb1") })
	r.DrawUnderwater(func() { gpu.log("cb2") })
	gpu.events, gpu.blends = nil, nil
	r.DrawFloor(cam)

	uniform := "uniform " + render.ProjectionViewUniform
	want := []string{
		"flush", "bind", uniform, // BeginDraw
		"blend", "draw 0", // water layer
		"flush", "blend", "cb1", "cb2", "flush", "blend",
		"flush", "bind", uniform,
		"blend",
		"blend", "draw 1", "blend", // normal layer
	}
	if !slices.Equal(gpu.events, want) {
		t.Errorf("events =\n%v\nwant\n%v", gpu.events, want)
	}
	if len(gpu.blends) < 3 || gpu.blends[1] != layer.UnderwaterBlend() || gpu.blends[2] != gputypes.BlendStateAlpha() {
		t.Errorf("blends around callbacks = %+v", gpu.blends)
	}

	// Requests live for one frame only.
	gpu.events = nil
	r.DrawFloor(cam)
	if slices.Contains(gpu.events, "cb1") || slices.Contains(gpu.events, "cb2") {
		t.Error("underwater callbacks ran on a later frame")
	}
	if len(r.underwater) != 0 {
		t.Errorf("underwater list has %d entries after DrawFloor", len(r.underwater))
	}
}

func TestUnderwaterRunsPerLiquidLayer(t *testing.T) {
	f := newFixture(t, nil)
	water, tar := f.reg.ByName("water"), f.reg.ByName("tar")
	g := f.grid(60, 30, f.plain())
	for y := 0; y < 30; y++ {
		g.SetFloor(2, y, f.floorIn("water", water))
		g.SetFloor(40, y, f.floorIn("tar", tar))
	}

	r, gpu := newTestRenderer(f)
	t.Cleanup(r.Close)
	r.WorldLoaded(g)
	cam := camOver(0, 0, 480, 240)

	calls := 0
	r.DrawUnderwater(func() {
		calls++
		if b := gpu.blends[len(gpu.blends)-1]; b != layer.UnderwaterBlend() {
			t.Errorf("callback %d ran under blend %+v", calls, b)
		}
	})
	r.DrawFloor(cam)
	if calls != 2 {
		t.Errorf("callback ran %d times with two liquid layers in view, want 2", calls)
	}

	calls = 0
	r.DrawFloor(cam)
	if calls != 0 {
		t.Errorf("callback ran %d times on the next frame", calls)
	}
}

func TestUnderwaterClearedWithoutLiquid(t *testing.T) {
	f := newFixture(t, nil)
	r, gpu := newTestRenderer(f)
	t.Cleanup(r.Close)

	// Before any world is loaded.
	r.DrawUnderwater(func() { gpu.log("cb") })
	r.DrawFloor(camOver(0, 0, 100, 100))
	if len(r.underwater) != 0 {
		t.Error("requests survived a frame without a cache")
	}

	r.WorldLoaded(f.grid(30, 30, f.plain()))
	r.DrawUnderwater(func() { gpu.log("cb") })
	r.DrawFloor(camOver(0, 0, 100, 100))
	if slices.Contains(gpu.events, "cb") || len(r.underwater) != 0 {
		t.Error("callbacks ran or survived without a liquid layer in view")
	}
}

func TestDirtyThenClean(t *testing.T) {
	f := newFixture(t, nil)
	g := f.grid(60, 30, f.plain())
	r, gpu := newTestRenderer(f)
	t.Cleanup(r.Close)
	g.Attach(r)
	g.Loaded()

	normal := f.reg.Normal().ID
	first := r.Cache().Chunk(0, 0)[normal]
	other := r.Cache().Chunk(1, 0)[normal]

	g.SetFloor(3, 3, f.content.Floor("sand"))
	if n := r.CheckChanges(); n != 1 {
		t.Fatalf("CheckChanges = %d, want 1", n)
	}
	rebuilt := r.Cache().Chunk(0, 0)[normal]
	if rebuilt == first {
		t.Error("dirty chunk was not rebuilt")
	}
	if !first.Mesh.(*fakeMesh).disposed {
		t.Error("replaced mesh was not disposed")
	}
	if r.Cache().Chunk(1, 0)[normal] != other {
		t.Error("clean neighbour chunk was rebuilt")
	}

	if n := r.CheckChanges(); n != 0 {
		t.Errorf("second CheckChanges = %d, want 0", n)
	}
	if r.Cache().Chunk(0, 0)[normal] != rebuilt {
		t.Error("clean chunk mesh changed on the second drain")
	}
	if gpu.live() != 2 {
		t.Errorf("live = %d, want 2", gpu.live())
	}
}

func TestCameraOutsideGrid(t *testing.T) {
	f := newFixture(t, nil)
	r, gpu := newTestRenderer(f)
	t.Cleanup(r.Close)
	r.WorldLoaded(f.grid(60, 60, f.plain()))

	for _, cam := range []*render.OrthoCamera{
		render.NewOrthoCamera(-5000, -5000, 200, 200),
		render.NewOrthoCamera(10000, 240, 200, 200),
		render.NewOrthoCamera(240, 10000, 200, 200),
	} {
		r.DrawFloor(cam)
		r.DrawWalls(cam)
	}
	if len(gpu.draws) != 0 {
		t.Errorf("drew %d meshes outside the grid", len(gpu.draws))
	}
}

func TestDrawBeforeWorldLoad(t *testing.T) {
	f := newFixture(t, nil)
	r, gpu := newTestRenderer(f)
	t.Cleanup(r.Close)

	cam := camOver(0, 0, 100, 100)
	r.DrawFloor(cam)
	r.DrawWalls(cam)
	r.BeginDraw(cam)
	r.RecacheTile(1, 1)
	if n := r.CheckChanges(); n != 0 {
		t.Errorf("CheckChanges = %d before load", n)
	}
	if len(gpu.events) != 0 {
		t.Errorf("unexpected GPU activity: %v", gpu.events)
	}
}

func TestWallsOnlyInWallPass(t *testing.T) {
	f := newFixture(t, nil)
	r, gpu := newTestRenderer(f)
	t.Cleanup(r.Close)
	r.WorldLoaded(wallWorld(f))

	chunk := r.Cache().Chunk(0, 0)
	normal := chunk[f.reg.Normal().ID].Mesh.(*fakeMesh)
	walls := chunk[f.reg.Walls().ID].Mesh.(*fakeMesh)
	cam := camOver(0, 0, 240, 240)

	r.DrawFloor(cam)
	if !sameMeshes(gpu.draws, []*fakeMesh{normal}) {
		t.Errorf("DrawFloor drew %v, want only the normal mesh", ids(gpu.draws))
	}

	gpu.draws = nil
	r.DrawWalls(cam)
	if !sameMeshes(gpu.draws, []*fakeMesh{walls}) {
		t.Errorf("DrawWalls drew %v, want only the walls mesh", ids(gpu.draws))
	}
	if f.tex.binds == 0 {
		t.Error("atlas texture was never bound")
	}
}

func TestDynamicMode(t *testing.T) {
	f := newFixture(t, nil)
	r, gpu := newTestRenderer(f, WithDynamic(true))
	t.Cleanup(r.Close)
	r.WorldLoaded(f.grid(90, 90, f.plain()))

	if len(gpu.meshes) != 0 {
		t.Fatalf("dynamic mode built %d meshes on load", len(gpu.meshes))
	}

	r.DrawFloor(render.NewOrthoCamera(100, 100, 50, 50))
	if !r.Cache().Built(0, 0) || !r.Cache().Built(1, 1) {
		t.Error("chunks in range were not built on sight")
	}
	if r.Cache().Built(2, 2) {
		t.Error("chunk out of range was built")
	}
	if len(gpu.draws) != 1 {
		t.Errorf("drew %d meshes, want 1", len(gpu.draws))
	}
}

func TestGridListenerWiring(t *testing.T) {
	f := newFixture(t, nil)
	g := f.grid(1, 1, f.plain())
	r, _ := newTestRenderer(f)
	t.Cleanup(r.Close)
	g.Attach(r)

	g.Load(60, 60, f.plain(), world.Generate(world.DefaultTerrain(3)))
	if r.Cache() == nil {
		t.Fatal("load event did not reach the renderer")
	}
	if cx, cy := r.Cache().Size(); cx != 2 || cy != 2 {
		t.Errorf("cache size = (%d, %d), want (2, 2)", cx, cy)
	}

	// An edit on a chunk corner dirties every chunk its neighbours touch.
	g.SetFloor(29, 29, f.content.Floor("tar"))
	if n := r.CheckChanges(); n != 4 {
		t.Errorf("CheckChanges = %d, want 4", n)
	}
}
