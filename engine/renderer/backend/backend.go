// Package backend defines the GPU command surface used by the renderer and its
// resource types. Every method maps to one rasterization API call (or a small
// fixed group of them) so that higher layers own the protocol and the backend
// owns nothing but the translation to the driver.
package backend

// Shader is a handle to a single compiled shader stage. The zero value is the null handle.
type Shader uint32

// Program is a handle to a linked GPU program. The zero value is the null handle.
type Program uint32

// Buffer is a handle to a GPU buffer object. The zero value is the null handle.
type Buffer uint32

// Texture is a handle to a GPU texture object. The zero value is the null handle.
type Texture uint32

// Profile identifies the family of rasterization API the backend targets.
type Profile int

const (
	// ProfileDesktop targets OpenGL 2.1 (compatibility) on desktop platforms.
	ProfileDesktop Profile = iota

	// ProfileEmbedded targets OpenGL ES 2.0 on mobile and embedded platforms.
	ProfileEmbedded
)

func (p Profile) String() string {
	switch p {
	case ProfileDesktop:
		return "desktop"
	case ProfileEmbedded:
		return "embedded"
	default:
		return "unknown"
	}
}

// ShaderStage identifies the pipeline stage a shader is compiled for.
type ShaderStage int

const (
	// StageVertex is the per-vertex programmable stage.
	StageVertex ShaderStage = iota

	// StageFragment is the per-fragment programmable stage.
	StageFragment
)

func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// BufferTarget selects the binding point a buffer is bound to.
type BufferTarget int

const (
	// TargetArray is the vertex attribute source binding point.
	TargetArray BufferTarget = iota

	// TargetElementArray is the index source binding point.
	TargetElementArray
)

// BufferUsage is the usage hint passed with buffer uploads.
type BufferUsage int

const (
	// UsageStatic marks data that is uploaded once and drawn many times.
	UsageStatic BufferUsage = iota

	// UsageStream marks data that is uploaded once and drawn at most a few times.
	UsageStream
)

// ComponentType is the scalar type of a vertex attribute component.
type ComponentType int

const (
	// ComponentFloat is a 32-bit IEEE float.
	ComponentFloat ComponentType = iota

	// ComponentUnsignedByte is an 8-bit unsigned integer.
	ComponentUnsignedByte
)

// Primitive is the topology used to assemble indices into primitives.
type Primitive int

const (
	PrimitivePoints Primitive = iota
	PrimitiveLines
	PrimitiveLineStrip
	PrimitiveTriangles
	PrimitiveTriangleStrip
	PrimitiveTriangleFan
)

func (p Primitive) String() string {
	switch p {
	case PrimitivePoints:
		return "points"
	case PrimitiveLines:
		return "lines"
	case PrimitiveLineStrip:
		return "line_strip"
	case PrimitiveTriangles:
		return "triangles"
	case PrimitiveTriangleStrip:
		return "triangle_strip"
	case PrimitiveTriangleFan:
		return "triangle_fan"
	default:
		return "unknown"
	}
}

// Capability is a toggleable piece of fixed pipeline state.
type Capability int

const (
	CapabilityBlend Capability = iota
	CapabilityDepthTest
	CapabilityAlphaTest
	CapabilityTexture2D
)

// CompareFunc is a comparison used by the depth and alpha tests.
type CompareFunc int

const (
	CompareNever CompareFunc = iota
	CompareLess
	CompareEqual
	CompareLessEqual
	CompareGreater
	CompareNotEqual
	CompareGreaterEqual
	CompareAlways
)

// BlendFactor is a source or destination blend factor.
type BlendFactor int

const (
	BlendZero BlendFactor = iota
	BlendOne
	BlendSrcAlpha
	BlendOneMinusSrcAlpha
)

// Wrap is a texture coordinate wrapping mode.
type Wrap int

const (
	WrapRepeat Wrap = iota
	WrapClampToEdge
	WrapMirroredRepeat
)

// Filter is a texture sampling filter.
type Filter int

const (
	FilterNearest Filter = iota
	FilterLinear
	FilterLinearMipmapLinear
	FilterNearestMipmapNearest
)

// SamplerState is the complete per-texture sampling configuration.
type SamplerState struct {
	// WrapS and WrapT are the wrap modes along the horizontal and vertical texture axes.
	WrapS, WrapT Wrap
	// MagFilter and MinFilter are the magnification and minification filters.
	MagFilter, MinFilter Filter
}

// ClearMask selects which framebuffer attachments Clear resets.
type ClearMask int

const (
	ClearColor ClearMask = 1 << iota
	ClearDepth
)

// Backend is the GPU command surface consumed by the vertex binder, shader programs,
// meshes, textures and the renderer. All methods must be invoked on the thread that owns
// the graphics context.
type Backend interface {
	// Profile reports which API family the backend drives.
	//
	// Returns:
	//   - Profile: the backend profile
	Profile() Profile

	// CreateShader creates an empty shader object for the given stage.
	//
	// Parameters:
	//   - stage: the pipeline stage
	//
	// Returns:
	//   - Shader: the new shader handle
	CreateShader(stage ShaderStage) Shader

	// CompileShader uploads the source to the shader and compiles it.
	//
	// Parameters:
	//   - s: the shader to compile
	//   - source: the complete GLSL source, preamble included
	//
	// Returns:
	//   - bool: the compile status
	CompileShader(s Shader, source string) bool

	// ShaderInfoLog retrieves the compiler diagnostic of the shader.
	//
	// Parameters:
	//   - s: the shader to query
	//
	// Returns:
	//   - string: the diagnostic text, possibly empty
	ShaderInfoLog(s Shader) string

	// DeleteShader releases the shader object.
	//
	// Parameters:
	//   - s: the shader to delete
	DeleteShader(s Shader)

	CreateProgram() Program
	AttachShader(p Program, s Shader)

	// BindAttribLocation associates a vertex attribute name with a fixed slot. Only takes
	// effect on the next LinkProgram.
	//
	// Parameters:
	//   - p: the program
	//   - slot: the attribute slot index
	//   - name: the attribute name used in the vertex shader
	BindAttribLocation(p Program, slot uint32, name string)

	// LinkProgram links the attached stages.
	//
	// Parameters:
	//   - p: the program to link
	//
	// Returns:
	//   - bool: the link status
	LinkProgram(p Program) bool

	ProgramInfoLog(p Program) string
	DeleteProgram(p Program)
	UseProgram(p Program)

	// UniformLocation looks up a uniform by name.
	//
	// Parameters:
	//   - p: the linked program
	//   - name: the uniform name
	//
	// Returns:
	//   - int32: the location, or a negative value when the program has no such active uniform
	UniformLocation(p Program, name string) int32

	Uniform1i(location int32, v int32)
	Uniform4f(location int32, v [4]float32)

	// UniformMatrix4 uploads a single 4x4 matrix stored in column-major order.
	//
	// Parameters:
	//   - location: the uniform location
	//   - m: the 16 matrix elements, column-major
	UniformMatrix4(location int32, m [16]float32)

	CreateBuffer() Buffer
	BindBuffer(target BufferTarget, b Buffer)

	// BufferData uploads data to the buffer currently bound at target.
	//
	// Parameters:
	//   - target: the binding point
	//   - data: the bytes to upload
	//   - usage: the usage hint
	BufferData(target BufferTarget, data []byte, usage BufferUsage)

	DeleteBuffer(b Buffer)

	EnableVertexAttribArray(slot uint32)
	DisableVertexAttribArray(slot uint32)

	// VertexAttribPointer describes one attribute of the currently bound array buffer.
	//
	// Parameters:
	//   - slot: the attribute slot
	//   - components: the number of components per vertex
	//   - typ: the component scalar type
	//   - normalized: whether integer components are normalized to [0, 1]
	//   - stride: the byte distance between consecutive vertices
	//   - offset: the byte offset of the attribute inside a vertex
	VertexAttribPointer(slot uint32, components int32, typ ComponentType, normalized bool, stride int32, offset int)

	// DrawElements draws count 32-bit indices from the bound element buffer.
	//
	// Parameters:
	//   - mode: the primitive topology
	//   - count: the number of indices
	//   - offset: the byte offset into the element buffer
	DrawElements(mode Primitive, count int32, offset int)

	CreateTexture() Texture
	ActiveTexture(unit uint32)
	BindTexture(t Texture)
	SetSamplerState(state SamplerState)

	// TexImage2D uploads RGBA8 pixels as level 0 of the bound texture.
	//
	// Parameters:
	//   - width, height: the image size in pixels
	//   - pixels: width*height*4 bytes, rows bottom to top (the GL texture origin)
	TexImage2D(width, height int32, pixels []byte)

	// GenerateMipmap builds the mipmap chain of the bound texture from its level 0.
	// Must follow TexImage2D.
	GenerateMipmap()

	DeleteTexture(t Texture)

	Enable(c Capability)
	Disable(c Capability)
	BlendFunc(src, dst BlendFactor)
	DepthFunc(f CompareFunc)
	AlphaFunc(f CompareFunc, ref float32)
	ClearColor(r, g, b, a float32)
	Clear(mask ClearMask)
	Viewport(x, y, width, height int32)
}
