package shader

import (
	"fmt"
	"log"
	"os"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/vertex"
)

// UniformAbsent is the location reported for a standard uniform the linked program does not use.
const UniformAbsent int32 = -1

// Standard uniform names looked up after every successful link.
const (
	UniformModelViewProjection = "model_view_projection"
	UniformColor               = "color"
	UniformTextureUnit0        = "texture_unit_0"
)

// program is the implementation of the Program interface.
// It owns the linked program handle and both stage handles until Release.
type program struct {
	b     backend.Backend
	label string

	handle backend.Program
	vs     backend.Shader
	fs     backend.Shader

	uniformMVP      int32
	uniformColor    int32
	uniformTexture0 int32

	released bool
}

// Program is a linked vertex + fragment shader pair with the standard uniform locations
// resolved. Activate makes it current and uploads the frame state.
type Program interface {
	// Label returns the debug label given at construction, or an empty string.
	//
	// Returns:
	//   - string: the label
	Label() string

	// Handle returns the linked program handle.
	//
	// Returns:
	//   - backend.Program: the program handle, or zero after Release
	Handle() backend.Program

	// VertexShader returns the compiled vertex stage handle.
	//
	// Returns:
	//   - backend.Shader: the vertex stage handle, or zero after Release
	VertexShader() backend.Shader

	// FragmentShader returns the compiled fragment stage handle.
	//
	// Returns:
	//   - backend.Shader: the fragment stage handle, or zero after Release
	FragmentShader() backend.Shader

	// UniformModelViewProjection returns the location of model_view_projection.
	//
	// Returns:
	//   - int32: the location, or UniformAbsent
	UniformModelViewProjection() int32

	// UniformColor returns the location of color.
	//
	// Returns:
	//   - int32: the location, or UniformAbsent
	UniformColor() int32

	// UniformTextureUnit0 returns the location of texture_unit_0.
	//
	// Returns:
	//   - int32: the location, or UniformAbsent
	UniformTextureUnit0() int32

	// Initialize looks up the standard uniform locations and points texture_unit_0 at texture
	// unit 0. The program must be current. CompileAndLink calls it after a successful link.
	Initialize()

	// Activate makes the program current and uploads the view-projection and color of state
	// to the uniforms the program uses.
	//
	// Parameters:
	//   - state: the frame state to upload
	Activate(state common.FrameState)

	// Release deletes the fragment stage, the vertex stage and the program. Calls after the
	// first are no-ops.
	Release()

	// Released reports whether Release has been called.
	//
	// Returns:
	//   - bool: true once released
	Released() bool
}

var _ Program = &program{}

// CompileAndLink builds a Program from vertex and fragment sources. Both sources are
// pre-processed first; the vertex stage is compiled before the fragment stage and a failure
// stops the build. The four fixed attribute names are bound to their slots before linking.
// On any failure every handle created along the way is deleted and a nil Program is returned.
//
// Parameters:
//   - b: the backend to create the program on
//   - vsSource: the vertex shader source
//   - fsSource: the fragment shader source
//   - options: configuration options for the build
//
// Returns:
//   - Program: the linked program, current on the backend
//   - error: a pre-processor error, *CompileError or *LinkError
func CompileAndLink(b backend.Backend, vsSource, fsSource string, options ...ShaderBuilderOption) (Program, error) {
	cfg := newShaderConfig(b.Profile(), options...)
	pp := NewPreProcessor(cfg.profile, cfg.includes)

	vsText, err := pp.Process(vsSource)
	if err != nil {
		return nil, cfg.wrap(fmt.Errorf("vertex shader: %w", err))
	}
	fsText, err := pp.Process(fsSource)
	if err != nil {
		return nil, cfg.wrap(fmt.Errorf("fragment shader: %w", err))
	}

	p := &program{
		b:               b,
		label:           cfg.label,
		uniformMVP:      UniformAbsent,
		uniformColor:    UniformAbsent,
		uniformTexture0: UniformAbsent,
	}
	p.handle = b.CreateProgram()

	p.vs, err = compileStage(b, backend.StageVertex, p.handle, vsText, cfg.label)
	if err != nil {
		b.DeleteProgram(p.handle)
		return nil, err
	}
	p.fs, err = compileStage(b, backend.StageFragment, p.handle, fsText, cfg.label)
	if err != nil {
		b.DeleteShader(p.vs)
		b.DeleteProgram(p.handle)
		return nil, err
	}

	for _, slot := range vertex.Slots() {
		b.BindAttribLocation(p.handle, uint32(slot), slot.Name())
	}

	if !b.LinkProgram(p.handle) {
		linkErr := &LinkError{Label: cfg.label, Log: b.ProgramInfoLog(p.handle)}
		log.Printf("[Shader] %v", linkErr)
		b.DeleteShader(p.fs)
		b.DeleteShader(p.vs)
		b.DeleteProgram(p.handle)
		return nil, linkErr
	}

	b.UseProgram(p.handle)
	p.Initialize()
	return p, nil
}

// CompileAndLinkFiles reads both sources with LoadSource and passes them to CompileAndLink.
// When no label option is given the vertex shader path is used as the label.
//
// Parameters:
//   - b: the backend to create the program on
//   - vsPath: path to the vertex shader source
//   - fsPath: path to the fragment shader source
//   - options: configuration options for the build
//
// Returns:
//   - Program: the linked program
//   - error: a read error or any error returned by CompileAndLink
func CompileAndLinkFiles(b backend.Backend, vsPath, fsPath string, options ...ShaderBuilderOption) (Program, error) {
	vs, err := LoadSource(vsPath)
	if err != nil {
		return nil, err
	}
	fs, err := LoadSource(fsPath)
	if err != nil {
		return nil, err
	}
	return CompileAndLink(b, vs, fs, append([]ShaderBuilderOption{WithLabel(vsPath)}, options...)...)
}

// CompileStage pre-processes source for profile, compiles it and attaches it to program.
// A failed stage is deleted before returning.
//
// Parameters:
//   - b: the backend to compile on
//   - stage: the pipeline stage of source
//   - program: the program the compiled stage is attached to
//   - source: the raw GLSL source
//   - profile: the API family selecting the preamble
//
// Returns:
//   - backend.Shader: the compiled stage handle, or zero on failure
//   - error: a pre-processor error or *CompileError
func CompileStage(b backend.Backend, stage backend.ShaderStage, program backend.Program, source string, profile backend.Profile) (backend.Shader, error) {
	text, err := NewPreProcessor(profile, nil).Process(source)
	if err != nil {
		return 0, fmt.Errorf("%s shader: %w", stage, err)
	}
	return compileStage(b, stage, program, text, "")
}

func compileStage(b backend.Backend, stage backend.ShaderStage, program backend.Program, text, label string) (backend.Shader, error) {
	s := b.CreateShader(stage)
	if !b.CompileShader(s, text) {
		compileErr := &CompileError{Label: label, Stage: stage, Log: b.ShaderInfoLog(s)}
		log.Printf("[Shader] %v", compileErr)
		b.DeleteShader(s)
		return 0, compileErr
	}
	b.AttachShader(program, s)
	return s, nil
}

// LoadSource reads a shader source file.
//
// Parameters:
//   - path: the file to read
//
// Returns:
//   - string: the file contents
//   - error: an error if the file could not be read
func LoadSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read shader source %q: %w", path, err)
	}
	return string(data), nil
}

func (p *program) Label() string {
	return p.label
}

func (p *program) Handle() backend.Program {
	return p.handle
}

func (p *program) VertexShader() backend.Shader {
	return p.vs
}

func (p *program) FragmentShader() backend.Shader {
	return p.fs
}

func (p *program) UniformModelViewProjection() int32 {
	return p.uniformMVP
}

func (p *program) UniformColor() int32 {
	return p.uniformColor
}

func (p *program) UniformTextureUnit0() int32 {
	return p.uniformTexture0
}

func (p *program) Initialize() {
	p.uniformMVP = p.b.UniformLocation(p.handle, UniformModelViewProjection)
	p.uniformColor = p.b.UniformLocation(p.handle, UniformColor)
	p.uniformTexture0 = p.b.UniformLocation(p.handle, UniformTextureUnit0)
	if p.uniformTexture0 >= 0 {
		p.b.Uniform1i(p.uniformTexture0, 0)
	}
}

func (p *program) Activate(state common.FrameState) {
	if p.released {
		log.Printf("[Shader] %s: %v", p.label, ErrReleased)
		return
	}
	p.b.UseProgram(p.handle)
	if p.uniformMVP >= 0 {
		p.b.UniformMatrix4(p.uniformMVP, [16]float32(state.ViewProjection))
	}
	if p.uniformColor >= 0 {
		p.b.Uniform4f(p.uniformColor, [4]float32(state.Color))
	}
}

func (p *program) Release() {
	if p.released {
		return
	}
	p.released = true
	p.b.DeleteShader(p.fs)
	p.b.DeleteShader(p.vs)
	p.b.DeleteProgram(p.handle)
	p.fs, p.vs, p.handle = 0, 0, 0
}

func (p *program) Released() bool {
	return p.released
}
