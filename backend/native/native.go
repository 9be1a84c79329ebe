// Package native implements the floor renderer backend on the gogpu/wgpu
// hardware abstraction layer.
//
// The host owns the GPU device and hands it over through a
// render.DeviceHandle. The backend compiles the floor shader with naga,
// keeps one render pipeline per blend state and records every mesh draw
// into a single render pass per frame:
//
//	b, err := native.FromHandle(host)
//	...
//	b.BeginFrame(w, h, render.RGBA8(0, 0, 0, 255))
//	r.DrawFloor(cam)
//	b.EndFrame()
//
// Frames render into an offscreen texture unless the host supplies a view
// of its surface texture with SetTarget.
package native

import (
	"encoding/binary"
	"fmt"
	"image"
	"log/slog"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/floor/backend"
	"github.com/gogpu/floor/render"
)

const (
	// uniformStride is the distance between matrix slots in the uniform
	// buffer, the minimum dynamic offset alignment WebGPU guarantees.
	uniformStride = 256

	// matrixSize is the byte size of one mat4x4<f32>.
	matrixSize = 64

	// uniformSlots bounds the distinct matrices uploaded per frame.
	uniformSlots = 64
)

// Option configures a Backend.
type Option func(*Backend)

// WithFormat sets the color format of the frame target. The default is
// the host surface format, or RGBA8Unorm when the host reports none.
func WithFormat(f gputypes.TextureFormat) Option {
	return func(b *Backend) {
		b.format = f
	}
}

// Stats counts the work of the current frame.
type Stats struct {
	Draws            int
	Quads            int
	PipelineSwitches int
	UniformUploads   int
	BlendSets        int
	Flushes          int
}

// inflight is a submitted command buffer awaiting completion.
type inflight struct {
	index   uint64
	frame   uint64
	encoder hal.CommandEncoder
	cmd     hal.CommandBuffer
}

// retired is a vertex buffer disposed while a frame that drew it was still
// recording or executing.
type retired struct {
	buf   hal.Buffer
	frame uint64
}

// offscreen is the frame target used when the host supplies none.
type offscreen struct {
	tex           hal.Texture
	view          hal.TextureView
	width, height int
}

// Backend draws floor meshes with a HAL device. It is owned by the render
// thread; only the pipeline cache may be shared.
type Backend struct {
	log    *slog.Logger
	device hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat
	inited bool

	module        hal.ShaderModule
	uniformLayout hal.BindGroupLayout
	textureLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	pipelines     *pipelineCache
	indices       hal.Buffer
	uniforms      hal.Buffer
	uniformGroup  hal.BindGroup
	sampler       hal.Sampler
	textures      []*Texture

	target    hal.TextureView
	offscreen *offscreen
	encoders  []hal.CommandEncoder
	pending   []inflight
	retired   []retired

	// frame numbers frames from 1; zero marks a mesh that never drew.
	frame uint64

	// Frame state. current is valid while hasPipeline is set.
	encoder     hal.CommandEncoder
	pass        hal.RenderPassEncoder
	matrix      f32.Mat4
	slot        int
	used        int
	bound       *Texture
	blend       gputypes.BlendState
	current     pipelineKey
	hasPipeline bool
	stats       Stats
}

// New returns an uninitialized backend drawing with device and queue.
func New(device hal.Device, queue hal.Queue, opts ...Option) *Backend {
	b := &Backend{
		log:    slog.New(slog.DiscardHandler),
		device: device,
		queue:  queue,
		format: gputypes.TextureFormatRGBA8Unorm,
		matrix: render.Identity(),
		slot:   -1,
		blend:  gputypes.BlendStateAlpha(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// FromHandle returns a backend for the HAL device and queue provided by
// the host.
func FromHandle(h render.DeviceHandle, opts ...Option) (*Backend, error) {
	if h == nil {
		return nil, ErrNoDevice
	}
	device, ok := h.Device().(hal.Device)
	if !ok {
		return nil, fmt.Errorf("%w: device is %T", ErrNoDevice, h.Device())
	}
	queue, ok := h.Queue().(hal.Queue)
	if !ok {
		return nil, fmt.Errorf("%w: queue is %T", ErrNoDevice, h.Queue())
	}
	if f := h.SurfaceFormat(); f != gputypes.TextureFormatUndefined {
		opts = append([]Option{WithFormat(f)}, opts...)
	}
	return New(device, queue, opts...), nil
}

// Register registers a factory for the device of h under
// backend.BackendNative. The factory yields nothing when h carries no HAL
// device, so backend.Default falls through to the next backend.
func Register(h render.DeviceHandle, opts ...Option) {
	backend.Register(backend.BackendNative, func() backend.Backend {
		b, err := FromHandle(h, opts...)
		if err != nil {
			return nil
		}
		return b
	})
}

// SetLogger sets the backend logger. Nil discards output.
func (b *Backend) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	b.log = l
}

// Name implements backend.Backend.
func (b *Backend) Name() string { return backend.BackendNative }

// Init implements backend.Backend. It compiles the shader and creates the
// objects shared by every frame.
func (b *Backend) Init() error {
	if b.inited {
		return nil
	}
	if b.device == nil || b.queue == nil {
		return ErrNoDevice
	}
	if err := b.createShared(); err != nil {
		b.release()
		return err
	}
	b.inited = true
	b.log.Debug("native: initialized", "format", b.format.String())
	return nil
}

func (b *Backend) createShared() error {
	code, err := compileShader()
	if err != nil {
		return err
	}
	b.module, err = b.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "floor_shader",
		Source: hal.ShaderSource{SPIRV: code},
	})
	if err != nil {
		return fmt.Errorf("native: create shader module: %w", err)
	}

	b.uniformLayout, err = b.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "floor_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer: &gputypes.BufferBindingLayout{
					Type:             gputypes.BufferBindingTypeUniform,
					HasDynamicOffset: true,
					MinBindingSize:   matrixSize,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("native: create uniform layout: %w", err)
	}

	b.textureLayout, err = b.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "floor_texture_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("native: create texture layout: %w", err)
	}

	b.pipeLayout, err = b.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "floor_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{b.uniformLayout, b.textureLayout},
	})
	if err != nil {
		return fmt.Errorf("native: create pipeline layout: %w", err)
	}
	b.pipelines = newPipelineCache(b.device, b.module, b.pipeLayout)

	b.indices, err = b.upload("floor_quad_indices", gputypes.BufferUsageIndex, indexBytes(render.QuadIndices(render.MaxQuads)))
	if err != nil {
		return err
	}

	b.uniforms, err = b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "floor_uniforms",
		Size:  uniformSlots * uniformStride,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("native: create uniform buffer: %w", err)
	}
	b.uniformGroup, err = b.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "floor_uniform_group",
		Layout: b.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: b.uniforms.NativeHandle(), Size: matrixSize}},
		},
	})
	if err != nil {
		return fmt.Errorf("native: create uniform group: %w", err)
	}

	b.sampler, err = b.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "floor_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeNearest,
		MinFilter:    gputypes.FilterModeNearest,
		MipmapFilter: gputypes.FilterModeNearest,
		LodMaxClamp:  32,
		Anisotropy:   1,
	})
	if err != nil {
		return fmt.Errorf("native: create sampler: %w", err)
	}
	return nil
}

// upload creates a buffer holding data.
func (b *Backend) upload(label string, usage gputypes.BufferUsage, data []byte) (hal.Buffer, error) {
	buf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("native: create %s: %w", label, err)
	}
	if err := b.queue.WriteBuffer(buf, 0, data); err != nil {
		b.device.DestroyBuffer(buf)
		return nil, fmt.Errorf("native: write %s: %w", label, err)
	}
	return buf, nil
}

// Close implements backend.Backend. It waits for the GPU and releases
// every object the backend created except meshes, which their owners
// dispose.
func (b *Backend) Close() {
	if !b.inited {
		return
	}
	if b.pass != nil {
		b.pass.End()
		b.encoder.DiscardEncoding()
		b.encoders = append(b.encoders, b.encoder)
		b.pass, b.encoder = nil, nil
	}
	if err := b.device.WaitIdle(); err != nil {
		b.log.Warn("native: wait idle", "err", err)
	}
	b.reclaim(true)
	b.release()
	b.inited = false
	b.log.Debug("native: closed")
}

// release destroys the shared objects in reverse creation order.
func (b *Backend) release() {
	d := b.device
	for _, t := range b.textures {
		t.destroy()
	}
	b.textures = nil
	for _, e := range b.encoders {
		e.Destroy()
	}
	b.encoders = nil
	if b.offscreen != nil {
		d.DestroyTextureView(b.offscreen.view)
		d.DestroyTexture(b.offscreen.tex)
		b.offscreen = nil
	}
	if b.sampler != nil {
		d.DestroySampler(b.sampler)
		b.sampler = nil
	}
	if b.uniformGroup != nil {
		d.DestroyBindGroup(b.uniformGroup)
		b.uniformGroup = nil
	}
	if b.uniforms != nil {
		d.DestroyBuffer(b.uniforms)
		b.uniforms = nil
	}
	if b.indices != nil {
		d.DestroyBuffer(b.indices)
		b.indices = nil
	}
	if b.pipelines != nil {
		b.pipelines.destroy()
		b.pipelines = nil
	}
	if b.pipeLayout != nil {
		d.DestroyPipelineLayout(b.pipeLayout)
		b.pipeLayout = nil
	}
	if b.textureLayout != nil {
		d.DestroyBindGroupLayout(b.textureLayout)
		b.textureLayout = nil
	}
	if b.uniformLayout != nil {
		d.DestroyBindGroupLayout(b.uniformLayout)
		b.uniformLayout = nil
	}
	if b.module != nil {
		d.DestroyShaderModule(b.module)
		b.module = nil
	}
	b.bound, b.hasPipeline = nil, false
}

// Shader implements render.Backend.
func (b *Backend) Shader() render.Shader { return (*shader)(b) }

// Meshes implements render.Backend.
func (b *Backend) Meshes() render.MeshFactory { return (*meshFactory)(b) }

// Blender implements render.Backend.
func (b *Backend) Blender() render.Blender { return (*blender)(b) }

// SetTarget makes the following frames render into view, typically the
// current surface texture. Nil restores the offscreen target.
func (b *Backend) SetTarget(view hal.TextureView) { b.target = view }

// Target returns the offscreen texture of the last frame, or nil when the
// frame went to a host target.
func (b *Backend) Target() hal.Texture {
	if b.target != nil || b.offscreen == nil {
		return nil
	}
	return b.offscreen.tex
}

// Stats returns the counters of the current frame.
func (b *Backend) Stats() Stats { return b.stats }

// BeginFrame implements backend.Backend. It opens the render pass every
// mesh draw of the frame is recorded into.
func (b *Backend) BeginFrame(width, height int, c render.Color) error {
	if !b.inited {
		return backend.ErrNotInitialized
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if b.pass != nil {
		return ErrFrameActive
	}
	b.reclaim(false)

	view := b.target
	if view == nil {
		if err := b.ensureOffscreen(width, height); err != nil {
			return err
		}
		view = b.offscreen.view
	}

	enc, err := b.nextEncoder()
	if err != nil {
		return err
	}
	if err := enc.BeginEncoding("floor_frame"); err != nil {
		b.encoders = append(b.encoders, enc)
		return fmt.Errorf("native: begin encoding: %w", err)
	}

	b.frame++
	b.encoder = enc
	b.pass = enc.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "floor_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: clearValue(c),
			},
		},
	})
	b.pass.SetViewport(0, 0, float32(width), float32(height), 0, 1)

	b.blend = gputypes.BlendStateAlpha()
	b.hasPipeline = false
	b.slot, b.used = -1, 0
	b.stats = Stats{}
	return nil
}

// EndFrame implements backend.Backend. It ends the render pass and submits
// the recorded commands.
func (b *Backend) EndFrame() error {
	if !b.inited {
		return backend.ErrNotInitialized
	}
	if b.pass == nil {
		return ErrNoFrame
	}
	b.pass.End()
	enc := b.encoder
	b.pass, b.encoder = nil, nil

	cmd, err := enc.EndEncoding()
	if err != nil {
		b.encoders = append(b.encoders, enc)
		return fmt.Errorf("native: end encoding: %w", err)
	}
	index, err := b.queue.Submit([]hal.CommandBuffer{cmd})
	if err != nil {
		b.device.FreeCommandBuffer(cmd)
		b.encoders = append(b.encoders, enc)
		return fmt.Errorf("native: submit: %w", err)
	}
	b.pending = append(b.pending, inflight{index: index, frame: b.frame, encoder: enc, cmd: cmd})

	b.log.Debug("native: frame submitted",
		"index", index, "draws", b.stats.Draws, "quads", b.stats.Quads,
		"pipelines", b.stats.PipelineSwitches)
	return nil
}

// nextEncoder returns a recycled command encoder or creates one.
func (b *Backend) nextEncoder() (hal.CommandEncoder, error) {
	if n := len(b.encoders); n > 0 {
		enc := b.encoders[n-1]
		b.encoders = b.encoders[:n-1]
		return enc, nil
	}
	enc, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "floor_encoder"})
	if err != nil {
		return nil, fmt.Errorf("native: create command encoder: %w", err)
	}
	return enc, nil
}

// busy reports whether frame is still being recorded or awaits completion
// on the queue.
func (b *Backend) busy(frame uint64) bool {
	if frame == 0 {
		return false
	}
	if b.pass != nil && frame == b.frame {
		return true
	}
	for _, f := range b.pending {
		if f.frame == frame {
			return true
		}
	}
	return false
}

// retire destroys a vertex buffer last drawn in frame, or parks it until
// that frame completes.
func (b *Backend) retire(buf hal.Buffer, frame uint64) {
	if !b.busy(frame) {
		b.device.DestroyBuffer(buf)
		return
	}
	b.retired = append(b.retired, retired{buf: buf, frame: frame})
}

// reclaim recycles the encoders of completed submissions and destroys the
// buffers retired by them. With all set every pending submission is
// treated as complete.
func (b *Backend) reclaim(all bool) {
	done := b.queue.PollCompleted()
	keep := b.pending[:0]
	for _, f := range b.pending {
		if !all && f.index > done {
			keep = append(keep, f)
			continue
		}
		f.encoder.ResetAll([]hal.CommandBuffer{f.cmd})
		b.encoders = append(b.encoders, f.encoder)
	}
	clear(b.pending[len(keep):])
	b.pending = keep

	parked := b.retired[:0]
	for _, r := range b.retired {
		if !all && b.busy(r.frame) {
			parked = append(parked, r)
			continue
		}
		b.device.DestroyBuffer(r.buf)
	}
	clear(b.retired[len(parked):])
	b.retired = parked
}

func (b *Backend) ensureOffscreen(width, height int) error {
	if o := b.offscreen; o != nil {
		if o.width == width && o.height == height {
			return nil
		}
		b.device.DestroyTextureView(o.view)
		b.device.DestroyTexture(o.tex)
		b.offscreen = nil
	}

	tex, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "floor_target",
		Size:          hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        b.format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("native: create target: %w", err)
	}
	view, err := b.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "floor_target_view",
		Format:        b.format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		b.device.DestroyTexture(tex)
		return fmt.Errorf("native: create target view: %w", err)
	}
	b.offscreen = &offscreen{tex: tex, view: view, width: width, height: height}
	return nil
}

// NewTexture implements backend.Backend. The pixels are uploaded with
// straight alpha, the form the shader multiplies by the vertex tint.
func (b *Backend) NewTexture(img *image.RGBA) (render.Texture, error) {
	if !b.inited {
		return nil, backend.ErrNotInitialized
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: texture %dx%d", ErrInvalidDimensions, w, h)
	}
	n := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(n, n.Bounds(), img, bounds.Min, draw.Src)

	t := &Texture{owner: b, width: w, height: h}
	if err := t.create(n); err != nil {
		t.destroy()
		return nil, err
	}
	b.textures = append(b.textures, t)
	return t, nil
}

// uniformOffset uploads the current matrix on first use in the frame and
// returns the dynamic offset of its slot.
func (b *Backend) uniformOffset() uint32 {
	if b.slot < 0 {
		if b.used == uniformSlots {
			b.log.Warn("native: uniform slots exhausted, reusing the last one")
			b.used--
		}
		b.slot = b.used
		b.used++
		off := uint64(b.slot * uniformStride)
		if err := b.queue.WriteBuffer(b.uniforms, off, matrixBytes(b.matrix)); err != nil {
			b.log.Error("native: upload matrix", "err", err)
		}
		b.stats.UniformUploads++
	}
	return uint32(b.slot * uniformStride)
}

// matrixBytes encodes the row-major m as a column-major mat4x4<f32>.
func matrixBytes(m f32.Mat4) []byte {
	buf := make([]byte, matrixSize)
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			binary.LittleEndian.PutUint32(buf[(col*4+row)*4:], math.Float32bits(m[row*4+col]))
		}
	}
	return buf
}

// vertexBytes encodes vertex data as the GPU reads it. The packed color is
// carried bit for bit.
func vertexBytes(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func indexBytes(idx []uint16) []byte {
	buf := make([]byte, len(idx)*2)
	for i, v := range idx {
		binary.LittleEndian.PutUint16(buf[i*2:], v)
	}
	return buf
}

func clearValue(c render.Color) gputypes.Color {
	return gputypes.Color{
		R: float64(c.R()) / 255,
		G: float64(c.G()) / 255,
		B: float64(c.B()) / 255,
		A: float64(c.A()) / 255,
	}
}

type shader Backend

// Bind is a no-op: the pipeline is chosen per draw from the blend state.
func (s *shader) Bind() {}

func (s *shader) SetUniformMatrix4(name string, m f32.Mat4) {
	if name != render.ProjectionViewUniform {
		s.log.Warn("native: unknown uniform", "name", name)
		return
	}
	if s.slot >= 0 && m == s.matrix {
		return
	}
	s.matrix = m
	s.slot = -1
}

type blender Backend

// Flush only counts: draws are recorded into the pass as they happen.
func (bl *blender) Flush() { bl.stats.Flushes++ }

func (bl *blender) SetBlend(s gputypes.BlendState) {
	bl.blend = s
	bl.stats.BlendSets++
}

var _ backend.Backend = (*Backend)(nil)
