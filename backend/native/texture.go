package native

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/floor/render"
)

// Texture is a sampled RGBA8 texture with its bind group. Textures live
// until the backend closes.
type Texture struct {
	owner         *Backend
	tex           hal.Texture
	view          hal.TextureView
	group         hal.BindGroup
	width, height int
}

func (t *Texture) create(img *image.NRGBA) error {
	d := t.owner.device
	size := hal.Extent3D{Width: uint32(t.width), Height: uint32(t.height), DepthOrArrayLayers: 1}

	var err error
	t.tex, err = d.CreateTexture(&hal.TextureDescriptor{
		Label:         "floor_atlas",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("native: create atlas texture: %w", err)
	}

	err = t.owner.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: t.tex, Aspect: gputypes.TextureAspectAll},
		img.Pix,
		&hal.ImageDataLayout{BytesPerRow: uint32(img.Stride), RowsPerImage: uint32(t.height)},
		&size,
	)
	if err != nil {
		return fmt.Errorf("native: upload atlas texture: %w", err)
	}

	t.view, err = d.CreateTextureView(t.tex, &hal.TextureViewDescriptor{
		Label:         "floor_atlas_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		return fmt.Errorf("native: create atlas view: %w", err)
	}

	t.group, err = d.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "floor_atlas_group",
		Layout: t.owner.textureLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.TextureViewBinding{TextureView: t.view.NativeHandle()}},
			{Binding: 1, Resource: gputypes.SamplerBinding{Sampler: t.owner.sampler.NativeHandle()}},
		},
	})
	if err != nil {
		return fmt.Errorf("native: create atlas group: %w", err)
	}
	return nil
}

func (t *Texture) destroy() {
	d := t.owner.device
	if t.group != nil {
		d.DestroyBindGroup(t.group)
		t.group = nil
	}
	if t.view != nil {
		d.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		d.DestroyTexture(t.tex)
		t.tex = nil
	}
	if t.owner.bound == t {
		t.owner.bound = nil
	}
}

// Bind implements render.Texture. Only unit 0 is sampled.
func (t *Texture) Bind(unit int) {
	if unit != 0 {
		t.owner.log.Warn("native: texture unit not sampled", "unit", unit)
		return
	}
	if t.group == nil {
		t.owner.log.Error("native: bind of released texture")
		return
	}
	t.owner.bound = t
}

// Size returns the texture size in pixels.
func (t *Texture) Size() (w, h int) { return t.width, t.height }

var _ render.Texture = (*Texture)(nil)
