// Package floor renders the static floor and wall surfaces of a tile world
// as a small set of cached GPU meshes.
//
// # Overview
//
// The world is cut into 30x30 tile chunks. Each chunk keeps one immutable
// mesh per cache layer that has content in it, built by asking every tile
// surface to draw itself into a vertex batch. Meshes are rebuilt only for
// chunks that change and drawn only when they intersect the camera, one
// layer at a time in ascending layer id, which is the paint order.
//
// # Quick Start
//
//	gpu := backend.MustDefault()
//	if err := gpu.Init(); err != nil {
//	    log.Fatal(err)
//	}
//	r := floor.New(gpu, atlas)
//	r.WorldLoaded(world)
//
//	// simulation goroutine
//	r.RecacheTile(x, y)
//
//	// every frame, on the render thread
//	r.CheckChanges()
//	r.DrawFloor(camera)
//
// # Layers
//
// Cache layers come from package layer. Liquid layers may interrupt the
// pass: callbacks registered with DrawUnderwater run after each visible
// liquid layer with a blend that clips their alpha to the liquid surface.
// Walls are never drawn by DrawFloor; hosts call DrawWalls in their block
// pass.
//
// # Logging
//
// floor is silent by default. SetLogger enables structured logging through
// log/slog for the renderer and its GPU backends.
package floor
