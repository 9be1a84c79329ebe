// Package backend provides a pluggable GPU backend abstraction for the
// floor renderer.
//
// A backend supplies the shader, mesh factory and blender consumed by
// floor.New, plus the texture upload and frame control a host needs.
//
// # Backend Registration
//
// Backends are registered via init() functions or explicit Register calls
// and selected at runtime. The preview backend registers itself on import:
//
//	import _ "github.com/gogpu/floor/backend/preview"
//
// The native backend needs a device from the host application:
//
//	native.Register(handle) // handle is a render.DeviceHandle
//
// # Backend Selection
//
// Use Default() to get the best available backend, or Get() to request
// a specific backend by name:
//
//	b, err := backend.Open("") // best available, initialized
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
//
//	r := floor.New(b, atlas)
//
// # Available Backends
//
//   - "native": GPU meshes through gogpu/wgpu HAL
//   - "preview": CPU rasterizer presenting to a terminal via tcell
package backend
