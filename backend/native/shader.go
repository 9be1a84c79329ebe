package native

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
)

// floorShaderWGSL draws textured, tinted quads. The vertex color arrives as
// unorm8x4 whose alpha lost its lowest bit when packed, so alpha is scaled
// by 255/254.
const floorShaderWGSL = `
struct Uniforms {
    projection_view: mat4x4<f32>,
}

@group(0) @binding(0) var<uniform> uniforms: Uniforms;
@group(1) @binding(0) var atlas: texture_2d<f32>;
@group(1) @binding(1) var atlas_sampler: sampler;

struct VertexInput {
    @location(0) position: vec2<f32>,
    @location(1) color: vec4<f32>,
    @location(2) uv: vec2<f32>,
}

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) color: vec4<f32>,
    @location(1) uv: vec2<f32>,
}

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.position = uniforms.projection_view * vec4<f32>(in.position, 0.0, 1.0);
    out.color = vec4<f32>(in.color.rgb, min(in.color.a * 1.00393701, 1.0));
    out.uv = in.uv;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return textureSample(atlas, atlas_sampler, in.uv) * in.color;
}
`

// Byte offsets of the vertex attributes. The layout mirrors
// render.VertexSize float32 values per vertex.
const (
	vertexStride = 4 * 5
	offsetColor  = 8
	offsetUV     = 12
)

// compileShader compiles the floor shader to SPIR-V words.
func compileShader() ([]uint32, error) {
	spirvBytes, err := naga.Compile(floorShaderWGSL)
	if err != nil {
		return nil, fmt.Errorf("native: compile floor shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("native: SPIR-V size %d is not word aligned", len(spirvBytes))
	}

	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return code, nil
}

// vertexLayout describes the shared vertex format: position, packed color
// and texture coordinates.
func vertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: vertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
				{Format: gputypes.VertexFormatUnorm8x4, Offset: offsetColor, ShaderLocation: 1},
				{Format: gputypes.VertexFormatFloat32x2, Offset: offsetUV, ShaderLocation: 2},
			},
		},
	}
}
