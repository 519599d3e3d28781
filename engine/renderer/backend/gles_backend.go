package backend

import (
	"fmt"
	"log"
	"slices"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v3.1/gles2"
)

// glesBackend drives OpenGL ES 2.0 through the go-gl gles2 bindings. The fixed-function
// alpha test and the TEXTURE_2D enable do not exist on ES 2; shaders discard instead.
type glesBackend struct{}

var _ Backend = &glesBackend{}

// newGLESBackend resolves the ES entry points against the current context. Meshes index with
// 32-bit integers, so the context must expose GL_OES_element_index_uint.
//
// Go-gl reference: https://pkg.go.dev/github.com/go-gl/gl/v3.1/gles2
func newGLESBackend() (Backend, error) {
	if err := gles2.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLES entry points: %w", err)
	}
	exts := strings.Fields(gles2.GoStr(gles2.GetString(gles2.EXTENSIONS)))
	if !slices.Contains(exts, "GL_OES_element_index_uint") {
		return nil, fmt.Errorf("failed to verify context: missing extension GL_OES_element_index_uint")
	}
	log.Printf("[Backend] %s profile, %s (%s)", ProfileEmbedded,
		gles2.GoStr(gles2.GetString(gles2.VERSION)), gles2.GoStr(gles2.GetString(gles2.RENDERER)))
	return &glesBackend{}, nil
}

func (g *glesBackend) Profile() Profile {
	return ProfileEmbedded
}

func (g *glesBackend) CreateShader(stage ShaderStage) Shader {
	if stage == StageFragment {
		return Shader(gles2.CreateShader(gles2.FRAGMENT_SHADER))
	}
	return Shader(gles2.CreateShader(gles2.VERTEX_SHADER))
}

func (g *glesBackend) CompileShader(s Shader, source string) bool {
	csources, free := gles2.Strs(source + "\x00")
	defer free()
	gles2.ShaderSource(uint32(s), 1, csources, nil)
	gles2.CompileShader(uint32(s))

	var status int32
	gles2.GetShaderiv(uint32(s), gles2.COMPILE_STATUS, &status)
	return status == gles2.TRUE
}

func (g *glesBackend) ShaderInfoLog(s Shader) string {
	var length int32
	gles2.GetShaderiv(uint32(s), gles2.INFO_LOG_LENGTH, &length)
	if length <= 0 {
		return ""
	}
	buf := make([]byte, length+1)
	gles2.GetShaderInfoLog(uint32(s), length, nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00")
}

func (g *glesBackend) DeleteShader(s Shader) {
	gles2.DeleteShader(uint32(s))
}

func (g *glesBackend) CreateProgram() Program {
	return Program(gles2.CreateProgram())
}

func (g *glesBackend) AttachShader(p Program, s Shader) {
	gles2.AttachShader(uint32(p), uint32(s))
}

func (g *glesBackend) BindAttribLocation(p Program, slot uint32, name string) {
	gles2.BindAttribLocation(uint32(p), slot, gles2.Str(name+"\x00"))
}

func (g *glesBackend) LinkProgram(p Program) bool {
	gles2.LinkProgram(uint32(p))

	var status int32
	gles2.GetProgramiv(uint32(p), gles2.LINK_STATUS, &status)
	return status == gles2.TRUE
}

func (g *glesBackend) ProgramInfoLog(p Program) string {
	var length int32
	gles2.GetProgramiv(uint32(p), gles2.INFO_LOG_LENGTH, &length)
	if length <= 0 {
		return ""
	}
	buf := make([]byte, length+1)
	gles2.GetProgramInfoLog(uint32(p), length, nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00")
}

func (g *glesBackend) DeleteProgram(p Program) {
	gles2.DeleteProgram(uint32(p))
}

func (g *glesBackend) UseProgram(p Program) {
	gles2.UseProgram(uint32(p))
}

func (g *glesBackend) UniformLocation(p Program, name string) int32 {
	return gles2.GetUniformLocation(uint32(p), gles2.Str(name+"\x00"))
}

func (g *glesBackend) Uniform1i(location int32, v int32) {
	gles2.Uniform1i(location, v)
}

func (g *glesBackend) Uniform4f(location int32, v [4]float32) {
	gles2.Uniform4f(location, v[0], v[1], v[2], v[3])
}

func (g *glesBackend) UniformMatrix4(location int32, m [16]float32) {
	// ES 2 requires transpose to be false.
	gles2.UniformMatrix4fv(location, 1, false, &m[0])
}

func (g *glesBackend) CreateBuffer() Buffer {
	var b uint32
	gles2.GenBuffers(1, &b)
	return Buffer(b)
}

func (g *glesBackend) BindBuffer(target BufferTarget, b Buffer) {
	gles2.BindBuffer(glBufferTarget(target), uint32(b))
}

func (g *glesBackend) BufferData(target BufferTarget, data []byte, usage BufferUsage) {
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = gles2.Ptr(data)
	}
	hint := uint32(gles2.STATIC_DRAW)
	if usage == UsageStream {
		hint = gles2.STREAM_DRAW
	}
	gles2.BufferData(glBufferTarget(target), len(data), ptr, hint)
}

func (g *glesBackend) DeleteBuffer(b Buffer) {
	h := uint32(b)
	gles2.DeleteBuffers(1, &h)
}

func (g *glesBackend) EnableVertexAttribArray(slot uint32) {
	gles2.EnableVertexAttribArray(slot)
}

func (g *glesBackend) DisableVertexAttribArray(slot uint32) {
	gles2.DisableVertexAttribArray(slot)
}

func (g *glesBackend) VertexAttribPointer(slot uint32, components int32, typ ComponentType, normalized bool, stride int32, offset int) {
	xtype := uint32(gles2.FLOAT)
	if typ == ComponentUnsignedByte {
		xtype = gles2.UNSIGNED_BYTE
	}
	gles2.VertexAttribPointer(slot, components, xtype, normalized, stride, gles2.PtrOffset(offset))
}

func (g *glesBackend) DrawElements(mode Primitive, count int32, offset int) {
	gles2.DrawElements(glPrimitive(mode), count, gles2.UNSIGNED_INT, gles2.PtrOffset(offset))
}

func (g *glesBackend) CreateTexture() Texture {
	var t uint32
	gles2.GenTextures(1, &t)
	return Texture(t)
}

func (g *glesBackend) ActiveTexture(unit uint32) {
	gles2.ActiveTexture(gles2.TEXTURE0 + unit)
}

func (g *glesBackend) BindTexture(t Texture) {
	gles2.BindTexture(gles2.TEXTURE_2D, uint32(t))
}

func (g *glesBackend) SetSamplerState(state SamplerState) {
	gles2.TexParameteri(gles2.TEXTURE_2D, gles2.TEXTURE_WRAP_S, glWrap(state.WrapS))
	gles2.TexParameteri(gles2.TEXTURE_2D, gles2.TEXTURE_WRAP_T, glWrap(state.WrapT))
	gles2.TexParameteri(gles2.TEXTURE_2D, gles2.TEXTURE_MAG_FILTER, glFilter(state.MagFilter))
	gles2.TexParameteri(gles2.TEXTURE_2D, gles2.TEXTURE_MIN_FILTER, glFilter(state.MinFilter))
}

func (g *glesBackend) TexImage2D(width, height int32, pixels []byte) {
	var ptr unsafe.Pointer
	if len(pixels) > 0 {
		ptr = gles2.Ptr(pixels)
	}
	gles2.TexImage2D(gles2.TEXTURE_2D, 0, gles2.RGBA, width, height, 0, gles2.RGBA, gles2.UNSIGNED_BYTE, ptr)
}

func (g *glesBackend) GenerateMipmap() {
	gles2.GenerateMipmap(gles2.TEXTURE_2D)
}

func (g *glesBackend) DeleteTexture(t Texture) {
	h := uint32(t)
	gles2.DeleteTextures(1, &h)
}

func (g *glesBackend) Enable(c Capability) {
	if cap, ok := glesCapability(c); ok {
		gles2.Enable(cap)
	}
}

func (g *glesBackend) Disable(c Capability) {
	if cap, ok := glesCapability(c); ok {
		gles2.Disable(cap)
	}
}

func (g *glesBackend) BlendFunc(src, dst BlendFactor) {
	gles2.BlendFunc(glBlendFactor(src), glBlendFactor(dst))
}

func (g *glesBackend) DepthFunc(f CompareFunc) {
	gles2.DepthFunc(glCompare(f))
}

func (g *glesBackend) AlphaFunc(CompareFunc, float32) {}

func (g *glesBackend) ClearColor(r, gr, b, a float32) {
	gles2.ClearColor(r, gr, b, a)
}

func (g *glesBackend) Clear(mask ClearMask) {
	var bits uint32
	if mask&ClearColor != 0 {
		bits |= gles2.COLOR_BUFFER_BIT
	}
	if mask&ClearDepth != 0 {
		bits |= gles2.DEPTH_BUFFER_BIT
	}
	gles2.Clear(bits)
}

func (g *glesBackend) Viewport(x, y, width, height int32) {
	gles2.Viewport(x, y, width, height)
}

// glesCapability maps a Capability to its ES enum. Alpha test and TEXTURE_2D are
// fixed-function state ES 2 does not have.
func glesCapability(c Capability) (uint32, bool) {
	switch c {
	case CapabilityBlend:
		return gles2.BLEND, true
	case CapabilityDepthTest:
		return gles2.DEPTH_TEST, true
	default:
		return 0, false
	}
}
