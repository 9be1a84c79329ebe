// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render defines the GPU boundary of the floor renderer.
//
// The floor core never talks to a graphics API directly. It consumes the
// small interfaces declared here (Shader, Texture, Mesh, MeshFactory,
// Blender) and emits quads through Drawer. Backends under backend/
// implement them on top of a host-provided device (DeviceHandle) or on the
// CPU for previews and tests.
//
// Geometry uses one vertex layout: five float32 values per vertex
// (x, y, packed color, u, v), four vertices per quad, drawn with a shared
// uint16 index buffer in the winding 0,1,2 2,3,0.
package render
