package world

import (
	"github.com/aquilax/go-perlin"
)

// Terrain configures Generate.
type Terrain struct {
	Seed int64

	// Scale is the number of tiles per noise unit.
	Scale float64
}

// DefaultTerrain returns the terrain settings used by the demo.
func DefaultTerrain(seed int64) Terrain {
	return Terrain{Seed: seed, Scale: 24}
}

// Generate returns a Load callback that paints height-mapped terrain:
// deep water, shallows, sand, grass, stone and stone walls on the peaks,
// with tar pits from a second noise field. The same seed always produces
// the same grid.
func Generate(t Terrain) func(g *Grid) {
	return func(g *Grid) {
		scale := t.Scale
		if scale <= 0 {
			scale = 24
		}
		height := perlin.NewPerlin(2, 2, 3, t.Seed)
		pits := perlin.NewPerlin(2, 2, 2, t.Seed+1)

		c := g.Content()
		wall := c.Block("stone-wall")
		for y := 0; y < g.Height(); y++ {
			for x := 0; x < g.Width(); x++ {
				fx, fy := float64(x)/scale, float64(y)/scale
				n := height.Noise2D(fx, fy)

				var f *Floor
				switch {
				case n < -0.25:
					f = c.Floor("deep-water")
				case n < -0.15:
					f = c.Floor("shallow-water")
				case n < -0.05:
					f = c.Floor("sand")
				case n < 0.2:
					f = c.Floor("grass")
				default:
					f = c.Floor("stone")
				}
				if n >= -0.05 && n < 0.2 && pits.Noise2D(fx*2, fy*2) > 0.35 {
					f = c.Floor("tar")
				}

				tile := g.at(x, y)
				tile.floor = f
				if n > 0.3 && wall != nil {
					tile.block = wall
				}
			}
		}
	}
}
