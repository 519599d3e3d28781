// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

// TextureStagingData holds RGBA pixel data for a texture pending GPU upload.
// Decoders and file loaders produce it on any goroutine; the renderer consumes it on the context thread.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// Valid reports whether the staging data describes a non-empty image whose pixel buffer covers every texel.
//
// Returns:
//   - bool: true if Width and Height are non-zero and Pixels holds at least Width*Height*4 bytes
func (t TextureStagingData) Valid() bool {
	return t.Width > 0 && t.Height > 0 && uint64(len(t.Pixels)) >= uint64(t.Width)*uint64(t.Height)*4
}

// FrameState is the per-frame shader input shared by every draw. Camera or scene logic sets it once per frame and
// every shader program reads it on activation.
type FrameState struct {
	// ViewProjection is the combined model-view-projection matrix, column-major.
	ViewProjection mgl32.Mat4
	// Color is the flat RGBA color, each component in [0, 1].
	Color mgl32.Vec4
}

// DefaultFrameState returns the frame state a renderer starts with: identity transform and opaque white.
//
// Returns:
//   - FrameState: the default frame state
func DefaultFrameState() FrameState {
	return FrameState{
		ViewProjection: mgl32.Ident4(),
		Color:          mgl32.Vec4{1, 1, 1, 1},
	}
}
