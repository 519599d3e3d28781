package renderer

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend"
	"github.com/go-gl/mathgl/mgl32"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithBackend injects the backend GPU commands are issued on, bypassing the backend type
// passed to NewRenderer.
//
// Parameters:
//   - b: the backend to use
//
// Returns:
//   - RendererBuilderOption: a function that applies the backend option to a renderer
func WithBackend(b backend.Backend) RendererBuilderOption {
	return func(r *renderer) {
		r.backend = b
	}
}

// WithClearColor sets the initial clear color.
//
// Parameters:
//   - color: the RGBA clear color
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color option to a renderer
func WithClearColor(color mgl32.Vec4) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = color
	}
}

// WithFrameColor sets the initial flat color of the frame state.
//
// Parameters:
//   - color: the RGBA color handed to programs
//
// Returns:
//   - RendererBuilderOption: a function that applies the frame color option to a renderer
func WithFrameColor(color mgl32.Vec4) RendererBuilderOption {
	return func(r *renderer) {
		r.frameState.Color = color
	}
}
