package shader

import (
	"fmt"
	"maps"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend"
)

// shaderConfig collects the options of a single CompileAndLink call.
type shaderConfig struct {
	profile  backend.Profile
	includes map[string]string
	label    string
}

// ShaderBuilderOption is a function that configures a program build.
type ShaderBuilderOption func(*shaderConfig)

func newShaderConfig(profile backend.Profile, options ...ShaderBuilderOption) *shaderConfig {
	cfg := &shaderConfig{
		profile:  profile,
		includes: make(map[string]string),
	}
	for _, opt := range options {
		opt(cfg)
	}
	return cfg
}

func (c *shaderConfig) wrap(err error) error {
	if c.label == "" {
		return err
	}
	return fmt.Errorf("%s: %w", c.label, err)
}

// WithProfile overrides the profile used to select the source preamble. By default the
// backend's profile is used.
//
// Parameters:
//   - profile: the API family to pre-process for
//
// Returns:
//   - ShaderBuilderOption: a function that applies the profile option
func WithProfile(profile backend.Profile) ShaderBuilderOption {
	return func(c *shaderConfig) {
		c.profile = profile
	}
}

// WithIncludes registers named GLSL snippets that sources can pull in with `#include "name"`.
// Repeated options merge; later names win.
//
// Parameters:
//   - includes: snippet sources keyed by include name
//
// Returns:
//   - ShaderBuilderOption: a function that applies the includes option
func WithIncludes(includes map[string]string) ShaderBuilderOption {
	return func(c *shaderConfig) {
		maps.Copy(c.includes, includes)
	}
}

// WithLabel sets the debug label reported in errors and logs.
//
// Parameters:
//   - label: the label, typically the shader file name
//
// Returns:
//   - ShaderBuilderOption: a function that applies the label option
func WithLabel(label string) ShaderBuilderOption {
	return func(c *shaderConfig) {
		c.label = label
	}
}
