package backend

import (
	"fmt"
	"log"
	"slices"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v2.1/gl"
)

// mipmapPath selects how the desktop backend builds mipmap chains.
type mipmapPath int

const (
	// mipmapCore uses glGenerateMipmap (GL 3.0 or ARB_framebuffer_object).
	mipmapCore mipmapPath = iota

	// mipmapEXT uses glGenerateMipmapEXT from EXT_framebuffer_object.
	mipmapEXT

	// mipmapAuto sets GL_GENERATE_MIPMAP and re-specifies level 0, the GL 1.4 mechanism.
	mipmapAuto
)

// glBackend drives desktop OpenGL 2.1 through the go-gl bindings. Function pointers are
// resolved by gl.Init against the context that is current when NewGLBackend is called.
type glBackend struct {
	mipmaps mipmapPath

	// last level 0 upload, kept only on the mipmapAuto path until GenerateMipmap consumes it
	pendingWidth, pendingHeight int32
	pendingPixels               []byte
}

var _ Backend = &glBackend{}

// NewGLBackend initializes the go-gl function table for the current context and returns a
// Backend issuing real GL calls. The desktop profile is served by the GL 2.1 bindings and the
// embedded profile by the ES 2.0 bindings. The calling goroutine must own the current
// context (runtime.LockOSThread) for the lifetime of the backend.
//
// Go-gl reference: https://pkg.go.dev/github.com/go-gl/gl/v2.1/gl
//
// Parameters:
//   - profile: the API family the context was created for
//
// Returns:
//   - Backend: the GL backend
//   - error: an error if the GL entry points could not be resolved
func NewGLBackend(profile Profile) (Backend, error) {
	if profile == ProfileEmbedded {
		return newGLESBackend()
	}
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GL entry points: %w", err)
	}
	version := gl.GoStr(gl.GetString(gl.VERSION))
	extensions := gl.GoStr(gl.GetString(gl.EXTENSIONS))
	g := &glBackend{mipmaps: selectMipmapPath(version, extensions)}
	log.Printf("[Backend] %s profile, GL %s (%s)", profile, version, gl.GoStr(gl.GetString(gl.RENDERER)))
	return g, nil
}

// selectMipmapPath picks the mipmap mechanism from the GL version and extension strings.
func selectMipmapPath(version, extensions string) mipmapPath {
	if version != "" && version[0] >= '3' && version[0] <= '9' {
		return mipmapCore
	}
	exts := strings.Fields(extensions)
	switch {
	case slices.Contains(exts, "GL_ARB_framebuffer_object"):
		return mipmapCore
	case slices.Contains(exts, "GL_EXT_framebuffer_object"):
		return mipmapEXT
	default:
		return mipmapAuto
	}
}

func (g *glBackend) Profile() Profile {
	return ProfileDesktop
}

func (g *glBackend) CreateShader(stage ShaderStage) Shader {
	switch stage {
	case StageFragment:
		return Shader(gl.CreateShader(gl.FRAGMENT_SHADER))
	default:
		return Shader(gl.CreateShader(gl.VERTEX_SHADER))
	}
}

func (g *glBackend) CompileShader(s Shader, source string) bool {
	csources, free := gl.Strs(source + "\x00")
	defer free()
	gl.ShaderSource(uint32(s), 1, csources, nil)
	gl.CompileShader(uint32(s))

	var status int32
	gl.GetShaderiv(uint32(s), gl.COMPILE_STATUS, &status)
	return status == gl.TRUE
}

func (g *glBackend) ShaderInfoLog(s Shader) string {
	var length int32
	gl.GetShaderiv(uint32(s), gl.INFO_LOG_LENGTH, &length)
	if length <= 0 {
		return ""
	}
	buf := make([]byte, length+1)
	gl.GetShaderInfoLog(uint32(s), length, nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00")
}

func (g *glBackend) DeleteShader(s Shader) {
	gl.DeleteShader(uint32(s))
}

func (g *glBackend) CreateProgram() Program {
	return Program(gl.CreateProgram())
}

func (g *glBackend) AttachShader(p Program, s Shader) {
	gl.AttachShader(uint32(p), uint32(s))
}

func (g *glBackend) BindAttribLocation(p Program, slot uint32, name string) {
	gl.BindAttribLocation(uint32(p), slot, gl.Str(name+"\x00"))
}

func (g *glBackend) LinkProgram(p Program) bool {
	gl.LinkProgram(uint32(p))

	var status int32
	gl.GetProgramiv(uint32(p), gl.LINK_STATUS, &status)
	return status == gl.TRUE
}

func (g *glBackend) ProgramInfoLog(p Program) string {
	var length int32
	gl.GetProgramiv(uint32(p), gl.INFO_LOG_LENGTH, &length)
	if length <= 0 {
		return ""
	}
	buf := make([]byte, length+1)
	gl.GetProgramInfoLog(uint32(p), length, nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00")
}

func (g *glBackend) DeleteProgram(p Program) {
	gl.DeleteProgram(uint32(p))
}

func (g *glBackend) UseProgram(p Program) {
	gl.UseProgram(uint32(p))
}

func (g *glBackend) UniformLocation(p Program, name string) int32 {
	return gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
}

func (g *glBackend) Uniform1i(location int32, v int32) {
	gl.Uniform1i(location, v)
}

func (g *glBackend) Uniform4f(location int32, v [4]float32) {
	gl.Uniform4f(location, v[0], v[1], v[2], v[3])
}

func (g *glBackend) UniformMatrix4(location int32, m [16]float32) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (g *glBackend) CreateBuffer() Buffer {
	var b uint32
	gl.GenBuffers(1, &b)
	return Buffer(b)
}

func (g *glBackend) BindBuffer(target BufferTarget, b Buffer) {
	gl.BindBuffer(glBufferTarget(target), uint32(b))
}

func (g *glBackend) BufferData(target BufferTarget, data []byte, usage BufferUsage) {
	// gl.Ptr panics on an empty slice; a zero-sized store is still a valid allocation.
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = gl.Ptr(data)
	}
	hint := uint32(gl.STATIC_DRAW)
	if usage == UsageStream {
		hint = gl.STREAM_DRAW
	}
	gl.BufferData(glBufferTarget(target), len(data), ptr, hint)
}

func (g *glBackend) DeleteBuffer(b Buffer) {
	h := uint32(b)
	gl.DeleteBuffers(1, &h)
}

func (g *glBackend) EnableVertexAttribArray(slot uint32) {
	gl.EnableVertexAttribArray(slot)
}

func (g *glBackend) DisableVertexAttribArray(slot uint32) {
	gl.DisableVertexAttribArray(slot)
}

func (g *glBackend) VertexAttribPointer(slot uint32, components int32, typ ComponentType, normalized bool, stride int32, offset int) {
	xtype := uint32(gl.FLOAT)
	if typ == ComponentUnsignedByte {
		xtype = gl.UNSIGNED_BYTE
	}
	gl.VertexAttribPointer(slot, components, xtype, normalized, stride, gl.PtrOffset(offset))
}

func (g *glBackend) DrawElements(mode Primitive, count int32, offset int) {
	gl.DrawElements(glPrimitive(mode), count, gl.UNSIGNED_INT, gl.PtrOffset(offset))
}

func (g *glBackend) CreateTexture() Texture {
	var t uint32
	gl.GenTextures(1, &t)
	return Texture(t)
}

func (g *glBackend) ActiveTexture(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
}

func (g *glBackend) BindTexture(t Texture) {
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))
}

func (g *glBackend) SetSamplerState(state SamplerState) {
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, glWrap(state.WrapS))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, glWrap(state.WrapT))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, glFilter(state.MagFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, glFilter(state.MinFilter))
}

func (g *glBackend) TexImage2D(width, height int32, pixels []byte) {
	var ptr unsafe.Pointer
	if len(pixels) > 0 {
		ptr = gl.Ptr(pixels)
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, ptr)
	if g.mipmaps == mipmapAuto {
		g.pendingWidth, g.pendingHeight, g.pendingPixels = width, height, pixels
	}
}

func (g *glBackend) GenerateMipmap() {
	switch g.mipmaps {
	case mipmapCore:
		gl.GenerateMipmap(gl.TEXTURE_2D)
	case mipmapEXT:
		gl.GenerateMipmapEXT(gl.TEXTURE_2D)
	default:
		// GL_GENERATE_MIPMAP only regenerates when level 0 changes after it is set.
		pixels := g.pendingPixels
		g.pendingPixels = nil
		if len(pixels) == 0 {
			return
		}
		gl.TexParameteri(gl.TEXTURE_2D, gl.GENERATE_MIPMAP, gl.TRUE)
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, g.pendingWidth, g.pendingHeight, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	}
}

func (g *glBackend) DeleteTexture(t Texture) {
	h := uint32(t)
	gl.DeleteTextures(1, &h)
}

func (g *glBackend) Enable(c Capability) {
	if cap, ok := g.glCapability(c); ok {
		gl.Enable(cap)
	}
}

func (g *glBackend) Disable(c Capability) {
	if cap, ok := g.glCapability(c); ok {
		gl.Disable(cap)
	}
}

func (g *glBackend) BlendFunc(src, dst BlendFactor) {
	gl.BlendFunc(glBlendFactor(src), glBlendFactor(dst))
}

func (g *glBackend) DepthFunc(f CompareFunc) {
	gl.DepthFunc(glCompare(f))
}

func (g *glBackend) AlphaFunc(f CompareFunc, ref float32) {
	gl.AlphaFunc(glCompare(f), ref)
}

func (g *glBackend) ClearColor(r, gr, b, a float32) {
	gl.ClearColor(r, gr, b, a)
}

func (g *glBackend) Clear(mask ClearMask) {
	var bits uint32
	if mask&ClearColor != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&ClearDepth != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(bits)
}

func (g *glBackend) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

// glCapability maps a Capability to its GL enum.
func (g *glBackend) glCapability(c Capability) (uint32, bool) {
	switch c {
	case CapabilityBlend:
		return gl.BLEND, true
	case CapabilityDepthTest:
		return gl.DEPTH_TEST, true
	case CapabilityAlphaTest:
		return gl.ALPHA_TEST, true
	case CapabilityTexture2D:
		return gl.TEXTURE_2D, true
	default:
		return 0, false
	}
}
