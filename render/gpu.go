// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"
)

// ProjectionViewUniform is the name of the combined projection-view matrix
// uniform consumed by the floor shader.
const ProjectionViewUniform = "u_projectionViewMatrix"

// Shader is a compiled floor shader program.
type Shader interface {
	// Bind makes the shader current for subsequent mesh renders.
	Bind()

	// SetUniformMatrix4 uploads a row-major 4x4 matrix uniform.
	SetUniformMatrix4(name string, m f32.Mat4)
}

// Texture is a sampled GPU texture, typically the environment atlas page.
type Texture interface {
	// Bind binds the texture to the given texture unit.
	Bind(unit int)
}

// Mesh is an immutable GPU vertex buffer drawn with the shared quad
// index buffer of the MeshFactory that created it.
type Mesh interface {
	// Render draws indexCount indices of the mesh with the bound shader.
	Render(s Shader, indexCount int)

	// VertexCount returns the number of vertices stored in the mesh.
	VertexCount() int

	// Vertices returns a copy of the uploaded vertex data.
	Vertices() []float32

	// Dispose releases the vertex buffer. The shared index buffer is kept.
	Dispose()
}

// MeshFactory uploads vertex data into new meshes.
type MeshFactory interface {
	// NewMesh copies vertices into a new mesh. The caller reuses the
	// slice afterwards.
	NewMesh(vertices []float32) (Mesh, error)
}

// Blender controls the blend state of the draw stream.
type Blender interface {
	// Flush submits any pending geometry before state changes.
	Flush()

	// SetBlend sets the blend state used by subsequent draws.
	SetBlend(b gputypes.BlendState)
}

// Drawer receives textured quads from tile surfaces.
type Drawer interface {
	// SetColor sets the tint applied to subsequent quads.
	SetColor(c Color)

	// Draw emits a quad centered on (x, y), rotated by rotation degrees
	// counter-clockwise around its center.
	Draw(r *Region, x, y, w, h, rotation float32)
}

// Backend supplies the GPU objects the floor renderer draws with.
type Backend interface {
	Shader() Shader
	Meshes() MeshFactory
	Blender() Blender
}
