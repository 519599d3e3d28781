// Package backendtest provides an in-memory backend.Backend that records every call and
// tracks resource lifetimes, so binding protocols, draw ordering and handle leaks can be
// asserted without a graphics context.
package backendtest

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend"
)

// Call is a single recorded backend invocation.
type Call struct {
	Name string
	Args []any
}

// Draw is a recorded DrawElements call together with the pipeline state it observed.
type Draw struct {
	Mode          backend.Primitive
	Count         int32
	Offset        int
	Program       backend.Program
	ElementBuffer backend.Buffer
	ArrayBuffer   backend.Buffer
	EnabledSlots  []uint32
	Textures      map[uint32]backend.Texture
}

// AttribPointer is the last layout registered for a slot via VertexAttribPointer.
type AttribPointer struct {
	Buffer     backend.Buffer
	Components int32
	Type       backend.ComponentType
	Normalized bool
	Stride     int32
	Offset     int
}

// UniformWrite is a recorded uniform upload.
type UniformWrite struct {
	Program  backend.Program
	Location int32
	Value    any
}

type shaderObject struct {
	stage    backend.ShaderStage
	source   string
	compiled bool
	log      string
}

type programObject struct {
	shaders  []backend.Shader
	attribs  map[string]uint32
	uniforms map[string]int32
	linked   bool
	log      string
}

var uniformDecl = regexp.MustCompile(`(?m)^\s*uniform\s+(?:(?:lowp|mediump|highp)\s+)?\w+\s+(\w+)\s*(?:\[\s*\d+\s*\])?\s*;`)

// Recorder is a fake backend.Backend. The zero value is not usable; construct with
// NewRecorder.
type Recorder struct {
	// FailCompile, when set, is consulted after the built-in syntax check. A non-empty
	// return value fails the compile with that diagnostic.
	FailCompile func(stage backend.ShaderStage, source string) string

	// FailLink, when set, is consulted after the built-in checks. A non-empty return value
	// fails the link with that diagnostic.
	FailLink func(vertexSource, fragmentSource string) string

	profile backend.Profile
	next    uint32

	calls   []Call
	draws   []Draw
	writes  []UniformWrite
	deleted []string

	shaders  map[backend.Shader]*shaderObject
	programs map[backend.Program]*programObject
	buffers  map[backend.Buffer][]byte
	textures map[backend.Texture][]byte

	current      backend.Program
	bound        map[backend.BufferTarget]backend.Buffer
	enabled      map[uint32]bool
	pointers     map[uint32]AttribPointer
	activeUnit   uint32
	unitTextures map[uint32]backend.Texture
	capabilities map[backend.Capability]bool
	samplers     map[backend.Texture]backend.SamplerState
	mipmapped    map[backend.Texture]bool
	viewport     [4]int32
}

var _ backend.Backend = &Recorder{}

// NewRecorder creates an empty Recorder reporting the given profile.
//
// Parameters:
//   - profile: the profile returned by Profile()
//
// Returns:
//   - *Recorder: the recorder
func NewRecorder(profile backend.Profile) *Recorder {
	return &Recorder{
		profile:      profile,
		shaders:      make(map[backend.Shader]*shaderObject),
		programs:     make(map[backend.Program]*programObject),
		buffers:      make(map[backend.Buffer][]byte),
		textures:     make(map[backend.Texture][]byte),
		bound:        make(map[backend.BufferTarget]backend.Buffer),
		enabled:      make(map[uint32]bool),
		pointers:     make(map[uint32]AttribPointer),
		unitTextures: make(map[uint32]backend.Texture),
		capabilities: make(map[backend.Capability]bool),
		samplers:     make(map[backend.Texture]backend.SamplerState),
		mipmapped:    make(map[backend.Texture]bool),
	}
}

func (r *Recorder) record(name string, args ...any) {
	r.calls = append(r.calls, Call{Name: name, Args: args})
}

func (r *Recorder) handle() uint32 {
	r.next++
	return r.next
}

func (r *Recorder) Profile() backend.Profile {
	return r.profile
}

func (r *Recorder) CreateShader(stage backend.ShaderStage) backend.Shader {
	s := backend.Shader(r.handle())
	r.shaders[s] = &shaderObject{stage: stage}
	r.record("CreateShader", stage, s)
	return s
}

func (r *Recorder) CompileShader(s backend.Shader, source string) bool {
	r.record("CompileShader", s)
	obj, ok := r.shaders[s]
	if !ok {
		return false
	}
	obj.source = source
	obj.log = checkSyntax(source)
	if obj.log == "" && r.FailCompile != nil {
		obj.log = r.FailCompile(obj.stage, source)
	}
	obj.compiled = obj.log == ""
	return obj.compiled
}

func (r *Recorder) ShaderInfoLog(s backend.Shader) string {
	if obj, ok := r.shaders[s]; ok {
		return obj.log
	}
	return ""
}

func (r *Recorder) DeleteShader(s backend.Shader) {
	r.record("DeleteShader", s)
	if _, ok := r.shaders[s]; !ok {
		r.deleted = append(r.deleted, fmt.Sprintf("shader %d", s))
		return
	}
	delete(r.shaders, s)
}

func (r *Recorder) CreateProgram() backend.Program {
	p := backend.Program(r.handle())
	r.programs[p] = &programObject{attribs: make(map[string]uint32)}
	r.record("CreateProgram", p)
	return p
}

func (r *Recorder) AttachShader(p backend.Program, s backend.Shader) {
	r.record("AttachShader", p, s)
	if obj, ok := r.programs[p]; ok {
		obj.shaders = append(obj.shaders, s)
	}
}

func (r *Recorder) BindAttribLocation(p backend.Program, slot uint32, name string) {
	r.record("BindAttribLocation", p, slot, name)
	if obj, ok := r.programs[p]; ok {
		obj.attribs[name] = slot
	}
}

func (r *Recorder) LinkProgram(p backend.Program) bool {
	r.record("LinkProgram", p)
	obj, ok := r.programs[p]
	if !ok {
		return false
	}
	var vs, fs string
	for _, s := range obj.shaders {
		sh, ok := r.shaders[s]
		if !ok || !sh.compiled {
			obj.log = fmt.Sprintf("error: attached shader %d is not compiled", s)
			return false
		}
		if sh.stage == backend.StageVertex {
			vs = sh.source
		} else {
			fs = sh.source
		}
	}
	switch {
	case vs == "":
		obj.log = "error: no vertex shader attached"
	case fs == "":
		obj.log = "error: no fragment shader attached"
	case !strings.Contains(vs, "void main"):
		obj.log = "error: vertex shader has no main function"
	case !strings.Contains(fs, "void main"):
		obj.log = "error: fragment shader has no main function"
	case r.FailLink != nil:
		obj.log = r.FailLink(vs, fs)
	}
	if obj.log != "" {
		return false
	}

	obj.uniforms = make(map[string]int32)
	for _, src := range []string{vs, fs} {
		for _, m := range uniformDecl.FindAllStringSubmatch(src, -1) {
			if _, seen := obj.uniforms[m[1]]; !seen {
				obj.uniforms[m[1]] = int32(len(obj.uniforms))
			}
		}
	}
	obj.linked = true
	return true
}

func (r *Recorder) ProgramInfoLog(p backend.Program) string {
	if obj, ok := r.programs[p]; ok {
		return obj.log
	}
	return ""
}

func (r *Recorder) DeleteProgram(p backend.Program) {
	r.record("DeleteProgram", p)
	if _, ok := r.programs[p]; !ok {
		r.deleted = append(r.deleted, fmt.Sprintf("program %d", p))
		return
	}
	delete(r.programs, p)
	if r.current == p {
		r.current = 0
	}
}

func (r *Recorder) UseProgram(p backend.Program) {
	r.record("UseProgram", p)
	r.current = p
}

func (r *Recorder) UniformLocation(p backend.Program, name string) int32 {
	r.record("UniformLocation", p, name)
	obj, ok := r.programs[p]
	if !ok || !obj.linked {
		return -1
	}
	if loc, ok := obj.uniforms[name]; ok {
		return loc
	}
	return -1
}

func (r *Recorder) Uniform1i(location int32, v int32) {
	r.record("Uniform1i", location, v)
	r.writes = append(r.writes, UniformWrite{Program: r.current, Location: location, Value: v})
}

func (r *Recorder) Uniform4f(location int32, v [4]float32) {
	r.record("Uniform4f", location, v)
	r.writes = append(r.writes, UniformWrite{Program: r.current, Location: location, Value: v})
}

func (r *Recorder) UniformMatrix4(location int32, m [16]float32) {
	r.record("UniformMatrix4", location, m)
	r.writes = append(r.writes, UniformWrite{Program: r.current, Location: location, Value: m})
}

func (r *Recorder) CreateBuffer() backend.Buffer {
	b := backend.Buffer(r.handle())
	r.buffers[b] = nil
	r.record("CreateBuffer", b)
	return b
}

func (r *Recorder) BindBuffer(target backend.BufferTarget, b backend.Buffer) {
	r.record("BindBuffer", target, b)
	r.bound[target] = b
}

func (r *Recorder) BufferData(target backend.BufferTarget, data []byte, usage backend.BufferUsage) {
	r.record("BufferData", target, len(data), usage)
	b := r.bound[target]
	if _, ok := r.buffers[b]; ok {
		r.buffers[b] = slices.Clone(data)
	}
}

func (r *Recorder) DeleteBuffer(b backend.Buffer) {
	r.record("DeleteBuffer", b)
	if _, ok := r.buffers[b]; !ok {
		r.deleted = append(r.deleted, fmt.Sprintf("buffer %d", b))
		return
	}
	delete(r.buffers, b)
	for t, bound := range r.bound {
		if bound == b {
			r.bound[t] = 0
		}
	}
}

func (r *Recorder) EnableVertexAttribArray(slot uint32) {
	r.record("EnableVertexAttribArray", slot)
	r.enabled[slot] = true
}

func (r *Recorder) DisableVertexAttribArray(slot uint32) {
	r.record("DisableVertexAttribArray", slot)
	delete(r.enabled, slot)
}

func (r *Recorder) VertexAttribPointer(slot uint32, components int32, typ backend.ComponentType, normalized bool, stride int32, offset int) {
	r.record("VertexAttribPointer", slot, components, typ, normalized, stride, offset)
	r.pointers[slot] = AttribPointer{
		Buffer:     r.bound[backend.TargetArray],
		Components: components,
		Type:       typ,
		Normalized: normalized,
		Stride:     stride,
		Offset:     offset,
	}
}

func (r *Recorder) DrawElements(mode backend.Primitive, count int32, offset int) {
	r.record("DrawElements", mode, count, offset)
	r.draws = append(r.draws, Draw{
		Mode:          mode,
		Count:         count,
		Offset:        offset,
		Program:       r.current,
		ElementBuffer: r.bound[backend.TargetElementArray],
		ArrayBuffer:   r.bound[backend.TargetArray],
		EnabledSlots:  r.EnabledSlots(),
		Textures:      maps.Clone(r.unitTextures),
	})
}

func (r *Recorder) CreateTexture() backend.Texture {
	t := backend.Texture(r.handle())
	r.textures[t] = nil
	r.record("CreateTexture", t)
	return t
}

func (r *Recorder) ActiveTexture(unit uint32) {
	r.record("ActiveTexture", unit)
	r.activeUnit = unit
}

func (r *Recorder) BindTexture(t backend.Texture) {
	r.record("BindTexture", t)
	r.unitTextures[r.activeUnit] = t
}

func (r *Recorder) SetSamplerState(state backend.SamplerState) {
	r.record("SetSamplerState", state)
	r.samplers[r.unitTextures[r.activeUnit]] = state
}

func (r *Recorder) TexImage2D(width, height int32, pixels []byte) {
	r.record("TexImage2D", width, height, len(pixels))
	t := r.unitTextures[r.activeUnit]
	if _, ok := r.textures[t]; ok {
		r.textures[t] = slices.Clone(pixels)
		r.mipmapped[t] = false
	}
}

func (r *Recorder) GenerateMipmap() {
	r.record("GenerateMipmap")
	t := r.unitTextures[r.activeUnit]
	if _, ok := r.textures[t]; ok {
		r.mipmapped[t] = true
	}
}

func (r *Recorder) DeleteTexture(t backend.Texture) {
	r.record("DeleteTexture", t)
	if _, ok := r.textures[t]; !ok {
		r.deleted = append(r.deleted, fmt.Sprintf("texture %d", t))
		return
	}
	delete(r.textures, t)
	delete(r.mipmapped, t)
}

func (r *Recorder) Enable(c backend.Capability) {
	r.record("Enable", c)
	r.capabilities[c] = true
}

func (r *Recorder) Disable(c backend.Capability) {
	r.record("Disable", c)
	delete(r.capabilities, c)
}

func (r *Recorder) BlendFunc(src, dst backend.BlendFactor) {
	r.record("BlendFunc", src, dst)
}

func (r *Recorder) DepthFunc(f backend.CompareFunc) {
	r.record("DepthFunc", f)
}

func (r *Recorder) AlphaFunc(f backend.CompareFunc, ref float32) {
	r.record("AlphaFunc", f, ref)
}

func (r *Recorder) ClearColor(red, green, blue, alpha float32) {
	r.record("ClearColor", red, green, blue, alpha)
}

func (r *Recorder) Clear(mask backend.ClearMask) {
	r.record("Clear", mask)
}

func (r *Recorder) Viewport(x, y, width, height int32) {
	r.record("Viewport", x, y, width, height)
	r.viewport = [4]int32{x, y, width, height}
}

// Calls returns every recorded call in order.
func (r *Recorder) Calls() []Call {
	return slices.Clone(r.calls)
}

// CallNames returns the names of every recorded call in order.
func (r *Recorder) CallNames() []string {
	names := make([]string, len(r.calls))
	for i, c := range r.calls {
		names[i] = c.Name
	}
	return names
}

// CallCount returns how many times the named method was called.
func (r *Recorder) CallCount(name string) int {
	n := 0
	for _, c := range r.calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Draws returns every recorded draw in order.
func (r *Recorder) Draws() []Draw {
	return slices.Clone(r.draws)
}

// UniformWrites returns every recorded uniform upload in order.
func (r *Recorder) UniformWrites() []UniformWrite {
	return slices.Clone(r.writes)
}

// EnabledSlots returns the currently enabled attribute slots in ascending order.
func (r *Recorder) EnabledSlots() []uint32 {
	out := make([]uint32, 0, len(r.enabled))
	for s := range r.enabled {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// Pointer returns the last layout registered for slot.
func (r *Recorder) Pointer(slot uint32) (AttribPointer, bool) {
	p, ok := r.pointers[slot]
	return p, ok
}

// BufferContents returns a copy of the bytes uploaded to a live buffer.
func (r *Recorder) BufferContents(b backend.Buffer) ([]byte, bool) {
	data, ok := r.buffers[b]
	return slices.Clone(data), ok
}

// TextureContents returns a copy of the pixels uploaded to a live texture.
func (r *Recorder) TextureContents(t backend.Texture) ([]byte, bool) {
	data, ok := r.textures[t]
	return slices.Clone(data), ok
}

// Sampler returns the sampler state last set while t was bound.
func (r *Recorder) Sampler(t backend.Texture) (backend.SamplerState, bool) {
	s, ok := r.samplers[t]
	return s, ok
}

// Mipmapped reports whether a mipmap chain was generated from t's current level 0.
func (r *Recorder) Mipmapped(t backend.Texture) bool {
	return r.mipmapped[t]
}

// Enabled reports whether capability c is currently enabled.
func (r *Recorder) Enabled(c backend.Capability) bool {
	return r.capabilities[c]
}

// CurrentProgram returns the program made current by the last UseProgram.
func (r *Recorder) CurrentProgram() backend.Program {
	return r.current
}

// LastViewport returns the last viewport rectangle as x, y, width, height.
func (r *Recorder) LastViewport() [4]int32 {
	return r.viewport
}

// LiveShaders returns the number of shader objects not yet deleted.
func (r *Recorder) LiveShaders() int { return len(r.shaders) }

// LivePrograms returns the number of program objects not yet deleted.
func (r *Recorder) LivePrograms() int { return len(r.programs) }

// LiveBuffers returns the number of buffer objects not yet deleted.
func (r *Recorder) LiveBuffers() int { return len(r.buffers) }

// LiveTextures returns the number of texture objects not yet deleted.
func (r *Recorder) LiveTextures() int { return len(r.textures) }

// InvalidDeletes lists deletions of handles that were not live: double frees or frees of
// handles never created.
func (r *Recorder) InvalidDeletes() []string {
	return slices.Clone(r.deleted)
}

// Reset forgets recorded calls, draws and uniform writes while keeping resource state.
func (r *Recorder) Reset() {
	r.calls = nil
	r.draws = nil
	r.writes = nil
}

// checkSyntax is a coarse stand-in for a GLSL front end: it rejects sources whose braces or
// parentheses do not balance, reporting the first offending line the way drivers do.
func checkSyntax(source string) string {
	var stack []rune
	pairs := map[rune]rune{'}': '{', ')': '('}
	for i, line := range strings.Split(source, "\n") {
		for _, c := range line {
			switch c {
			case '{', '(':
				stack = append(stack, c)
			case '}', ')':
				if len(stack) == 0 || stack[len(stack)-1] != pairs[c] {
					return fmt.Sprintf("0:%d: error: syntax error, unexpected '%c'", i+1, c)
				}
				stack = stack[:len(stack)-1]
			}
		}
	}
	if len(stack) > 0 {
		return fmt.Sprintf("0:%d: error: syntax error, unexpected end of file", strings.Count(source, "\n")+1)
	}
	return ""
}
