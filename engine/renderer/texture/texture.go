package texture

import (
	"errors"
	"fmt"
	"log"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend"
)

// ErrInvalidStaging is returned when staging data has no texels or too few pixel bytes.
var ErrInvalidStaging = errors.New("invalid texture staging data")

// texture is the implementation of the Texture interface.
type texture struct {
	b        backend.Backend
	label    string
	handle   backend.Texture
	width    uint32
	height   uint32
	released bool
}

// Texture is an RGBA8 2D texture resident on the GPU.
type Texture interface {
	// Label returns the debug label given at construction, or an empty string.
	//
	// Returns:
	//   - string: the label
	Label() string

	// Handle returns the GPU texture handle.
	//
	// Returns:
	//   - backend.Texture: the handle, or zero after Release
	Handle() backend.Texture

	// Width returns the texture width in pixels.
	//
	// Returns:
	//   - uint32: the width
	Width() uint32

	// Height returns the texture height in pixels.
	//
	// Returns:
	//   - uint32: the height
	Height() uint32

	// Bind makes the texture current on the given texture unit.
	//
	// Parameters:
	//   - unit: the zero-based texture unit
	Bind(unit uint32)

	// Release deletes the GPU texture. Calls after the first are no-ops.
	Release()
}

var _ Texture = &texture{}

// NewTexture uploads staging data as a new texture on unit 0 and applies the sampler and
// render state from the options. The defaults are repeat wrapping, linear magnification,
// trilinear minification, generated mipmaps, SRC_ALPHA/ONE_MINUS_SRC_ALPHA blending, depth
// testing with LEQUAL and an alpha test discarding fragments with alpha <= 0.5.
//
// The render state is global pipeline state; it is applied on every call so the most
// recently created texture decides it unless options disable parts of it.
//
// Parameters:
//   - b: the backend to create the texture on
//   - staging: the RGBA pixels to upload
//   - options: configuration options for the texture
//
// Returns:
//   - Texture: the new texture, bound to unit 0
//   - error: ErrInvalidStaging if staging does not describe a complete image
func NewTexture(b backend.Backend, staging common.TextureStagingData, options ...TextureBuilderOption) (Texture, error) {
	if !staging.Valid() {
		return nil, fmt.Errorf("%w: %dx%d with %d bytes", ErrInvalidStaging, staging.Width, staging.Height, len(staging.Pixels))
	}
	cfg := newTextureConfig(options...)
	if b.Profile() == backend.ProfileEmbedded && cfg.mipmaps {
		staging = ResizePowerOfTwo(staging)
	}

	t := &texture{
		b:      b,
		label:  cfg.label,
		width:  staging.Width,
		height: staging.Height,
	}
	t.handle = b.CreateTexture()
	b.ActiveTexture(0)
	b.BindTexture(t.handle)
	b.SetSamplerState(cfg.samplerState())
	b.TexImage2D(int32(staging.Width), int32(staging.Height), staging.Pixels)
	if cfg.mipmaps {
		b.GenerateMipmap()
	}

	cfg.applyRenderState(b)

	if cfg.label != "" {
		log.Printf("[Texture] %s: %dx%d uploaded (mipmaps=%t)", cfg.label, t.width, t.height, cfg.mipmaps)
	}
	return t, nil
}

// NewTextureFromTGA decodes an in-memory TGA file with DecodeTGA and uploads it with NewTexture.
//
// Parameters:
//   - b: the backend to create the texture on
//   - buf: the complete TGA file contents
//   - options: configuration options for the texture
//
// Returns:
//   - Texture: the new texture
//   - error: any DecodeTGA or NewTexture error
func NewTextureFromTGA(b backend.Backend, buf []byte, options ...TextureBuilderOption) (Texture, error) {
	pixels, width, height, err := DecodeTGA(buf)
	if err != nil {
		return nil, err
	}
	return NewTexture(b, common.TextureStagingData{Pixels: pixels, Width: uint32(width), Height: uint32(height)}, options...)
}

func (t *texture) Label() string {
	return t.label
}

func (t *texture) Handle() backend.Texture {
	return t.handle
}

func (t *texture) Width() uint32 {
	return t.width
}

func (t *texture) Height() uint32 {
	return t.height
}

func (t *texture) Bind(unit uint32) {
	if t.released {
		return
	}
	t.b.ActiveTexture(unit)
	t.b.BindTexture(t.handle)
}

func (t *texture) Release() {
	if t.released {
		return
	}
	t.released = true
	t.b.DeleteTexture(t.handle)
	t.handle = 0
}
