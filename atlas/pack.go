package atlas

import (
	"image"
	"image/color"
	"sort"

	"golang.org/x/image/draw"
)

// Source is an image to place on a packed page.
type Source struct {
	Name  string
	Image image.Image
}

// Pack lays sources out row by row on a square grid of cell x cell slots,
// scaling each image to its slot with nearest-neighbour sampling so pixel
// art stays sharp. Sources are placed in name order, and an error region
// is always appended when none is supplied.
func Pack(cell int, srcs ...Source) (*image.RGBA, map[string]image.Rectangle) {
	srcs = append([]Source(nil), srcs...)
	if !containsName(srcs, ErrorRegionName) {
		srcs = append(srcs, Source{Name: ErrorRegionName, Image: errorImage(cell)})
	}
	sort.Slice(srcs, func(i, j int) bool { return srcs[i].Name < srcs[j].Name })

	cols := 1
	for cols*cols < len(srcs) {
		cols++
	}
	rows := (len(srcs) + cols - 1) / cols

	page := image.NewRGBA(image.Rect(0, 0, cols*cell, rows*cell))
	rects := make(map[string]image.Rectangle, len(srcs))
	for i, s := range srcs {
		x := (i % cols) * cell
		y := (i / cols) * cell
		dr := image.Rect(x, y, x+cell, y+cell)
		draw.NearestNeighbor.Scale(page, dr, s.Image, s.Image.Bounds(), draw.Src, nil)
		rects[s.Name] = dr
	}
	return page, rects
}

func containsName(srcs []Source, name string) bool {
	for _, s := range srcs {
		if s.Name == name {
			return true
		}
	}
	return false
}

// errorImage is a magenta and black checkerboard.
func errorImage(cell int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, cell, cell))
	half := max(cell/2, 1)
	for y := 0; y < cell; y++ {
		for x := 0; x < cell; x++ {
			c := color.RGBA{A: 255}
			if (x/half+y/half)%2 == 0 {
				c = color.RGBA{R: 255, B: 255, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
