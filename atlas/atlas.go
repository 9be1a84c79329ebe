// Package atlas maps region names to rectangles of a single texture page.
package atlas

import (
	"image"
	"log/slog"
	"sort"

	"github.com/gogpu/floor/render"
)

// ErrorRegionName is the region substituted for missing or foreign regions.
const ErrorRegionName = "env-error"

// Atlas is a set of named regions on one texture page.
// An Atlas is safe for concurrent reads once populated.
type Atlas struct {
	texture render.Texture
	width   int
	height  int
	regions map[string]*render.Region
	logger  *slog.Logger
}

// New returns an empty atlas for a page of w x h pixels.
func New(tex render.Texture, w, h int) *Atlas {
	return &Atlas{
		texture: tex,
		width:   w,
		height:  h,
		regions: make(map[string]*render.Region),
		logger:  slog.New(slog.DiscardHandler),
	}
}

// FromPage returns an atlas holding every rectangle of a packed page.
func FromPage(tex render.Texture, page image.Rectangle, rects map[string]image.Rectangle) *Atlas {
	a := New(tex, page.Dx(), page.Dy())
	for name, r := range rects {
		a.Add(name, r.Min.X-page.Min.X, r.Min.Y-page.Min.Y, r.Dx(), r.Dy())
	}
	return a
}

// SetLogger sets the logger used to report missing regions.
func (a *Atlas) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	a.logger = l
}

// Texture returns the page texture.
func (a *Atlas) Texture() render.Texture { return a.texture }

// Size returns the page size in pixels.
func (a *Atlas) Size() (w, h int) { return a.width, a.height }

// Add registers a region covering the pixel rectangle (x, y, w, h), with y
// growing downwards. Adding an existing name replaces it.
func (a *Atlas) Add(name string, x, y, w, h int) *render.Region {
	fw, fh := float32(a.width), float32(a.height)
	r := &render.Region{
		Name:    name,
		Texture: a.texture,
		U:       float32(x) / fw,
		V:       float32(y) / fh,
		U2:      float32(x+w) / fw,
		V2:      float32(y+h) / fh,
		X:       x,
		Y:       y,
		Width:   w,
		Height:  h,
	}
	a.regions[name] = r
	return r
}

// Has reports whether name is registered.
func (a *Atlas) Has(name string) bool {
	_, ok := a.regions[name]
	return ok
}

// Find returns the named region, or the error region when it is missing.
func (a *Atlas) Find(name string) *render.Region {
	if r, ok := a.regions[name]; ok {
		return r
	}
	a.logger.Warn("atlas: missing region", "region", name)
	return a.Error()
}

// Error returns the error region, or nil if the page has none.
func (a *Atlas) Error() *render.Region {
	return a.regions[ErrorRegionName]
}

// Names returns every region name in sorted order.
func (a *Atlas) Names() []string {
	names := make([]string, 0, len(a.regions))
	for name := range a.regions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
