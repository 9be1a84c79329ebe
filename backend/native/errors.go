package native

import "errors"

// Package errors for the native backend.
var (
	// ErrNoDevice is returned when the host supplies no HAL device or queue.
	ErrNoDevice = errors.New("native: no HAL device")

	// ErrVertexCount is returned for vertex data that is empty or not whole quads.
	ErrVertexCount = errors.New("native: vertex data is not a positive number of quads")

	// ErrTooManyQuads is returned for meshes larger than the shared index buffer.
	ErrTooManyQuads = errors.New("native: mesh exceeds the shared index buffer")

	// ErrInvalidDimensions is returned when a frame or texture size is not positive.
	ErrInvalidDimensions = errors.New("native: invalid dimensions")

	// ErrFrameActive is returned by BeginFrame while a frame is open.
	ErrFrameActive = errors.New("native: frame already begun")

	// ErrNoFrame is returned by EndFrame without a matching BeginFrame.
	ErrNoFrame = errors.New("native: no frame in progress")
)
