package material

import (
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/texture"
	"github.com/go-gl/mathgl/mgl32"
)

// material is the implementation of the Material interface.
type material struct {
	name      string
	program   shader.Program
	textures  []texture.Texture
	baseColor *mgl32.Vec4
}

// Material defines the interface for a render material: the shader program and textures a
// draw uses, plus an optional flat color that replaces the frame color for that draw.
//
// A material borrows its program and textures. Releasing them stays with whoever created
// them, and a material must not be activated after they are released.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Program retrieves the shader program the material draws with.
	//
	// Returns:
	//   - shader.Program: the program, or nil if none was set
	Program() shader.Program

	// Textures retrieves the textures in unit order: texture i is bound to unit i.
	//
	// Returns:
	//   - []texture.Texture: the textures
	Textures() []texture.Texture

	// BaseColor retrieves the color override.
	//
	// Returns:
	//   - mgl32.Vec4: the override color
	//   - bool: false if the material uses the frame color
	BaseColor() (mgl32.Vec4, bool)

	// Activate binds each texture to its unit and activates the program with state, replacing
	// the frame color with the base color when one is configured.
	//
	// Parameters:
	//   - state: the current frame state
	Activate(state common.FrameState)
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Program() shader.Program {
	return m.program
}

func (m *material) Textures() []texture.Texture {
	return m.textures
}

func (m *material) BaseColor() (mgl32.Vec4, bool) {
	if m.baseColor == nil {
		return mgl32.Vec4{}, false
	}
	return *m.baseColor, true
}

func (m *material) Activate(state common.FrameState) {
	for unit, tex := range m.textures {
		tex.Bind(uint32(unit))
	}
	if m.program == nil {
		return
	}
	if m.baseColor != nil {
		state.Color = *m.baseColor
	}
	m.program.Activate(state)
}
