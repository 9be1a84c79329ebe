package native

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// pipelineKey identifies one floor render pipeline variant. Everything
// else in the pipeline descriptor is fixed.
type pipelineKey struct {
	blend  gputypes.BlendState
	format gputypes.TextureFormat
}

// pipelineCache holds one render pipeline per blend state and target
// format. Layers switch blend states many times a frame, so pipelines are
// created once and reused.
//
// pipelineCache is safe for concurrent use. Lookups take a read lock and
// creation double-checks under the write lock.
type pipelineCache struct {
	mu        sync.RWMutex
	device    hal.Device
	shader    hal.ShaderModule
	layout    hal.PipelineLayout
	pipelines map[pipelineKey]hal.RenderPipeline

	hits   atomic.Uint64
	misses atomic.Uint64
}

func newPipelineCache(device hal.Device, shader hal.ShaderModule, layout hal.PipelineLayout) *pipelineCache {
	return &pipelineCache{
		device:    device,
		shader:    shader,
		layout:    layout,
		pipelines: make(map[pipelineKey]hal.RenderPipeline),
	}
}

// get returns the pipeline for key, creating it on first use.
func (c *pipelineCache) get(key pipelineKey) (hal.RenderPipeline, error) {
	c.mu.RLock()
	if p, ok := c.pipelines[key]; ok {
		c.mu.RUnlock()
		c.hits.Add(1)
		return p, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.pipelines[key]; ok {
		c.hits.Add(1)
		return p, nil
	}

	p, err := c.create(key)
	if err != nil {
		return nil, err
	}
	c.pipelines[key] = p
	c.misses.Add(1)
	return p, nil
}

func (c *pipelineCache) create(key pipelineKey) (hal.RenderPipeline, error) {
	blend := key.blend
	p, err := c.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "floor_pipeline",
		Layout: c.layout,
		Vertex: hal.VertexState{
			Module:     c.shader,
			EntryPoint: "vs_main",
			Buffers:    vertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     c.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    key.format,
					Blend:     &blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.DefaultMultisampleState(),
	})
	if err != nil {
		return nil, fmt.Errorf("native: create floor pipeline: %w", err)
	}
	return p, nil
}

// Len returns the number of cached pipelines.
func (c *pipelineCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pipelines)
}

// destroy releases every cached pipeline.
func (c *pipelineCache) destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, p := range c.pipelines {
		c.device.DestroyRenderPipeline(p)
		delete(c.pipelines, k)
	}
}
