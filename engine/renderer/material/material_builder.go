package material

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/texture"
	"github.com/go-gl/mathgl/mgl32"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithProgram is an option builder that sets the shader program the material draws with.
//
// Parameters:
//   - program: the linked shader program
//
// Returns:
//   - MaterialBuilderOption: a function that applies the program option to a material
func WithProgram(program shader.Program) MaterialBuilderOption {
	return func(m *material) {
		m.program = program
	}
}

// WithTexture is an option builder that appends a texture. Textures are bound to consecutive
// units in the order they are added, starting at unit 0.
//
// Parameters:
//   - tex: the texture to bind on activation
//
// Returns:
//   - MaterialBuilderOption: a function that applies the texture option to a material
func WithTexture(tex texture.Texture) MaterialBuilderOption {
	return func(m *material) {
		m.textures = append(m.textures, tex)
	}
}

// WithBaseColor is an option builder that sets the RGBA color uploaded instead of the frame color.
//
// Parameters:
//   - color: the base color as RGBA float32 values
//
// Returns:
//   - MaterialBuilderOption: a function that applies the base color option to a material
func WithBaseColor(color [4]float32) MaterialBuilderOption {
	return func(m *material) {
		c := mgl32.Vec4(color)
		m.baseColor = &c
	}
}
