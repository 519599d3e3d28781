package renderer

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeGL selects the go-gl backend driving the context current on the calling thread.
	BackendTypeGL RendererBackendType = iota
)

func (t RendererBackendType) String() string {
	switch t {
	case BackendTypeGL:
		return "gl"
	default:
		return "unknown"
	}
}

// Surface is the presentation target a Renderer draws into. It is implemented by
// window.Window; tests provide their own.
type Surface interface {
	// Width returns the drawable width in pixels.
	Width() int

	// Height returns the drawable height in pixels.
	Height() int

	// SwapBuffers presents the back buffer.
	SwapBuffers()

	// Profile reports the API family of the context the surface owns.
	//
	// Returns:
	//   - backend.Profile: the context profile
	Profile() backend.Profile
}

// FrameStats holds counters collected for one completed frame.
type FrameStats struct {
	// Frame is the number of frames completed so far.
	Frame uint64

	// DrawCalls is the number of draw calls issued during the frame.
	DrawCalls int

	// Skipped is true when the frame was not presented because the surface was minimized.
	Skipped bool
}

// newBackend builds the backend selected by backendType for the given profile.
func newBackend(backendType RendererBackendType, profile backend.Profile) (backend.Backend, error) {
	switch backendType {
	case BackendTypeGL:
		fallthrough
	default:
		return backend.NewGLBackend(profile)
	}
}
