package texture

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend"
)

// textureConfig collects the sampler and render state options of a single NewTexture call.
type textureConfig struct {
	label     string
	wrapS     backend.Wrap
	wrapT     backend.Wrap
	magFilter backend.Filter
	minFilter backend.Filter
	mipmaps   bool

	blend     bool
	blendSrc  backend.BlendFactor
	blendDst  backend.BlendFactor
	depthTest bool
	depthFunc backend.CompareFunc
	alphaTest bool
	alphaRef  float32
}

// TextureBuilderOption is a function that configures a texture during construction.
type TextureBuilderOption func(*textureConfig)

func newTextureConfig(options ...TextureBuilderOption) *textureConfig {
	cfg := &textureConfig{
		wrapS:     backend.WrapRepeat,
		wrapT:     backend.WrapRepeat,
		magFilter: backend.FilterLinear,
		minFilter: backend.FilterLinearMipmapLinear,
		mipmaps:   true,
		blend:     true,
		blendSrc:  backend.BlendSrcAlpha,
		blendDst:  backend.BlendOneMinusSrcAlpha,
		depthTest: true,
		depthFunc: backend.CompareLessEqual,
		alphaTest: true,
		alphaRef:  0.5,
	}
	for _, opt := range options {
		opt(cfg)
	}
	return cfg
}

// samplerState returns the sampler for the upload. Without mipmaps a mipmapped minification
// filter would leave the texture incomplete, so it falls back to the matching base filter.
func (c *textureConfig) samplerState() backend.SamplerState {
	minFilter := c.minFilter
	if !c.mipmaps {
		switch minFilter {
		case backend.FilterLinearMipmapLinear:
			minFilter = backend.FilterLinear
		case backend.FilterNearestMipmapNearest:
			minFilter = backend.FilterNearest
		}
	}
	return backend.SamplerState{
		WrapS:     c.wrapS,
		WrapT:     c.wrapT,
		MagFilter: c.magFilter,
		MinFilter: minFilter,
	}
}

func (c *textureConfig) applyRenderState(b backend.Backend) {
	b.Enable(backend.CapabilityTexture2D)
	if c.blend {
		b.Enable(backend.CapabilityBlend)
		b.BlendFunc(c.blendSrc, c.blendDst)
	}
	if c.depthTest {
		b.Enable(backend.CapabilityDepthTest)
		b.DepthFunc(c.depthFunc)
	}
	if c.alphaTest {
		b.AlphaFunc(backend.CompareGreater, c.alphaRef)
		b.Enable(backend.CapabilityAlphaTest)
	}
}

// WithLabel sets the debug label used in logs.
//
// Parameters:
//   - label: the label, typically the source file name
//
// Returns:
//   - TextureBuilderOption: a function that applies the label option
func WithLabel(label string) TextureBuilderOption {
	return func(c *textureConfig) {
		c.label = label
	}
}

// WithWrap sets the texture coordinate wrapping on both axes.
//
// Parameters:
//   - s: wrapping along the horizontal axis
//   - t: wrapping along the vertical axis
//
// Returns:
//   - TextureBuilderOption: a function that applies the wrap option
func WithWrap(s, t backend.Wrap) TextureBuilderOption {
	return func(c *textureConfig) {
		c.wrapS = s
		c.wrapT = t
	}
}

// WithFilters sets the magnification and minification filters.
//
// Parameters:
//   - magFilter: the magnification filter
//   - minFilter: the minification filter
//
// Returns:
//   - TextureBuilderOption: a function that applies the filter option
func WithFilters(magFilter, minFilter backend.Filter) TextureBuilderOption {
	return func(c *textureConfig) {
		c.magFilter = magFilter
		c.minFilter = minFilter
	}
}

// WithMipmaps enables or disables mipmap generation. Enabled by default.
//
// Parameters:
//   - enabled: whether to generate mipmaps on upload
//
// Returns:
//   - TextureBuilderOption: a function that applies the mipmap option
func WithMipmaps(enabled bool) TextureBuilderOption {
	return func(c *textureConfig) {
		c.mipmaps = enabled
	}
}

// WithBlendFunc sets the blend factors applied after the upload.
//
// Parameters:
//   - src: the source blend factor
//   - dst: the destination blend factor
//
// Returns:
//   - TextureBuilderOption: a function that applies the blend option
func WithBlendFunc(src, dst backend.BlendFactor) TextureBuilderOption {
	return func(c *textureConfig) {
		c.blend = true
		c.blendSrc = src
		c.blendDst = dst
	}
}

// WithoutBlending leaves the blend state untouched.
func WithoutBlending() TextureBuilderOption {
	return func(c *textureConfig) {
		c.blend = false
	}
}

// WithDepthFunc sets the depth comparison applied after the upload.
//
// Parameters:
//   - f: the depth comparison function
//
// Returns:
//   - TextureBuilderOption: a function that applies the depth option
func WithDepthFunc(f backend.CompareFunc) TextureBuilderOption {
	return func(c *textureConfig) {
		c.depthTest = true
		c.depthFunc = f
	}
}

// WithoutDepthTest leaves the depth test state untouched.
func WithoutDepthTest() TextureBuilderOption {
	return func(c *textureConfig) {
		c.depthTest = false
	}
}

// WithAlphaThreshold sets the alpha test reference; fragments with alpha at or below it are
// discarded. Only honored on the desktop profile.
//
// Parameters:
//   - ref: the alpha reference value in [0, 1]
//
// Returns:
//   - TextureBuilderOption: a function that applies the alpha test option
func WithAlphaThreshold(ref float32) TextureBuilderOption {
	return func(c *textureConfig) {
		c.alphaTest = true
		c.alphaRef = ref
	}
}

// WithoutAlphaTest leaves the alpha test state untouched.
func WithoutAlphaTest() TextureBuilderOption {
	return func(c *textureConfig) {
		c.alphaTest = false
	}
}
