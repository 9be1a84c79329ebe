package main

import (
	"image"
	"image/color"
	"math/rand"

	"github.com/gogpu/floor/atlas"
)

// cellSize is the pixel size of every generated tile image.
const cellSize = 8

type tileStyle struct {
	name     string
	base     color.RGBA
	variants int
	edge     bool
}

var tileStyles = []tileStyle{
	{"deep-water", color.RGBA{R: 30, G: 60, B: 140, A: 255}, 1, true},
	{"shallow-water", color.RGBA{R: 60, G: 110, B: 190, A: 255}, 2, true},
	{"tar", color.RGBA{R: 40, G: 35, B: 30, A: 255}, 1, true},
	{"space", color.RGBA{R: 5, G: 5, B: 15, A: 255}, 1, false},
	{"sand", color.RGBA{R: 210, G: 190, B: 120, A: 255}, 3, true},
	{"grass", color.RGBA{R: 70, G: 150, B: 60, A: 255}, 3, true},
	{"stone", color.RGBA{R: 120, G: 120, B: 125, A: 255}, 2, false},
	{"stone-wall", color.RGBA{R: 80, G: 78, B: 82, A: 255}, 1, false},
	{"boulder", color.RGBA{R: 100, G: 95, B: 90, A: 255}, 1, false},
}

// tileSources generates the demo tile images: speckled variants named
// name, name2, name3 and a fading edge strip for floors that blend into
// their neighbours.
func tileSources(seed int64) []atlas.Source {
	rng := rand.New(rand.NewSource(seed))
	var out []atlas.Source
	for _, s := range tileStyles {
		for v := 1; v <= s.variants; v++ {
			name := s.name
			if v > 1 {
				name += string(rune('0' + v))
			}
			out = append(out, atlas.Source{Name: name, Image: speckled(rng, s.base)})
		}
		if s.edge {
			out = append(out, atlas.Source{Name: s.name + "-edge", Image: edge(s.base)})
		}
	}
	return out
}

func speckled(rng *rand.Rand, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, cellSize, cellSize))
	for y := 0; y < cellSize; y++ {
		for x := 0; x < cellSize; x++ {
			d := rng.Intn(25) - 12
			img.SetRGBA(x, y, color.RGBA{R: shade(c.R, d), G: shade(c.G, d), B: shade(c.B, d), A: c.A})
		}
	}
	return img
}

// edge fades from opaque at the top row to transparent at the middle.
func edge(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, cellSize, cellSize))
	half := cellSize / 2
	for y := 0; y < half; y++ {
		a := uint8(255 * (half - y) / half)
		// Premultiplied, as image.RGBA stores it.
		p := color.RGBA{
			R: uint8(int(c.R) * int(a) / 255),
			G: uint8(int(c.G) * int(a) / 255),
			B: uint8(int(c.B) * int(a) / 255),
			A: a,
		}
		for x := 0; x < cellSize; x++ {
			img.SetRGBA(x, y, p)
		}
	}
	return img
}

func shade(v uint8, d int) uint8 {
	return uint8(min(max(int(v)+d, 0), 255))
}
