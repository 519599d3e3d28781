package main

import (
	_ "embed"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
)

//go:embed assets/textured.vert
var texturedVertexSource string

//go:embed assets/textured.frag
var texturedFragmentSource string

//go:embed assets/flat.vert
var flatVertexSource string

//go:embed assets/flat.frag
var flatFragmentSource string

// resolveSources returns the sources named by pair, falling back to the built-in source for
// each empty path.
func resolveSources(pair ShaderPair, builtinVertex, builtinFragment string) (string, string, error) {
	vs, fs := builtinVertex, builtinFragment
	var err error
	if pair.Vertex != "" {
		if vs, err = shader.LoadSource(pair.Vertex); err != nil {
			return "", "", err
		}
	}
	if pair.Fragment != "" {
		if fs, err = shader.LoadSource(pair.Fragment); err != nil {
			return "", "", err
		}
	}
	return vs, fs, nil
}

// loadPrograms links the textured and flat programs the scene draws with.
//
// Parameters:
//   - r: the renderer owning the context
//   - cfg: the shader paths
//
// Returns:
//   - shader.Program: the textured program
//   - shader.Program: the flat program
//   - error: a read, pre-processor, compile or link error
func loadPrograms(r renderer.Renderer, cfg ShaderConfig) (shader.Program, shader.Program, error) {
	vs, fs, err := resolveSources(cfg.Textured, texturedVertexSource, texturedFragmentSource)
	if err != nil {
		return nil, nil, err
	}
	textured, err := r.CompileAndLinkShader(vs, fs, shader.WithLabel("textured"))
	if err != nil {
		return nil, nil, err
	}

	vs, fs, err = resolveSources(cfg.Flat, flatVertexSource, flatFragmentSource)
	if err != nil {
		textured.Release()
		return nil, nil, err
	}
	flat, err := r.CompileAndLinkShader(vs, fs, shader.WithLabel("flat"))
	if err != nil {
		textured.Release()
		return nil, nil, err
	}
	return textured, flat, nil
}
