package backend

import (
	"errors"
	"image"

	"github.com/gogpu/floor/render"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")
)

// Backend name constants.
const (
	// BackendNative is the name of the GPU backend (gogpu/wgpu HAL).
	BackendNative = "native"
	// BackendPreview is the name of the CPU terminal preview backend.
	BackendPreview = "preview"
)

// Backend is a complete GPU implementation for the floor renderer.
// It supplies the render.Backend primitives plus the lifecycle and frame
// control a host needs to drive it.
//
// Backends must be registered via Register() and are selected via
// Get() or Default().
type Backend interface {
	render.Backend

	// Name returns the backend identifier (e.g., "native", "preview").
	Name() string

	// Init acquires device resources. It must be called before any other
	// method except Name.
	Init() error

	// Close releases all backend resources.
	// The backend should not be used after Close is called.
	Close()

	// NewTexture uploads img as a sampled texture for the floor atlas.
	NewTexture(img *image.RGBA) (render.Texture, error)

	// BeginFrame starts a frame of the given target size, cleared to c.
	BeginFrame(width, height int, c render.Color) error

	// EndFrame submits the frame.
	EndFrame() error
}
