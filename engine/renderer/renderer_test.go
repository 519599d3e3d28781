package renderer

import (
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/mesh"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend/backendtest"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/texture"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vs = `#include "oxy_attributes"
#include "oxy_uniforms"
void main() {
    gl_Position = model_view_projection * vec4(aPosition, 1.0);
}
`

const fs = `#include "oxy_uniforms"
void main() {
    gl_FragColor = color;
}
`

type fakeSurface struct {
	width, height int
	swaps         int
	closes        int
	closeErr      error
}

func (s *fakeSurface) Width() int { return s.width }
func (s *fakeSurface) Height() int { return s.height }
func (s *fakeSurface) SwapBuffers() { s.swaps++ }
func (s *fakeSurface) Profile() backend.Profile { return backend.ProfileDesktop }
func (s *fakeSurface) Close() error {
	s.closes++
	return s.closeErr
}

func newTestRenderer(t *testing.T) (Renderer, *backendtest.Recorder, *fakeSurface) {
	t.Helper()
	rec := backendtest.NewRecorder(backend.ProfileDesktop)
	surface := &fakeSurface{width: 640, height: 480}
	r, err := NewRenderer(BackendTypeGL, surface, WithBackend(rec))
	require.NoError(t, err)
	return r, rec, surface
}

func TestNewRendererConfiguresViewport(t *testing.T) {
	r, rec, _ := newTestRenderer(t)

	assert.Same(t, rec, r.Backend())
	assert.Equal(t, [4]int32{0, 0, 640, 480}, rec.LastViewport())
	assert.True(t, rec.Enabled(backend.CapabilityDepthTest))
	assert.Equal(t, mgl32.Ident4(), r.FrameState().ViewProjection)
	assert.Equal(t, mgl32.Vec4{1, 1, 1, 1}, r.FrameState().Color)
}

func TestFrameStateSetters(t *testing.T) {
	rec := backendtest.NewRecorder(backend.ProfileDesktop)
	r, err := NewRenderer(BackendTypeGL, &fakeSurface{width: 1, height: 1},
		WithBackend(rec), WithFrameColor(mgl32.Vec4{0, 0, 1, 1}))
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec4{0, 0, 1, 1}, r.FrameState().Color)

	vp := mgl32.Perspective(mgl32.DegToRad(60), 1, 0.1, 100)
	r.SetViewProjection(vp)
	r.SetColor(mgl32.Vec4{1, 0, 0, 1})

	state := r.FrameState()
	assert.Equal(t, vp, state.ViewProjection)
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, state.Color)
}

func TestClearFrameBufferSetsColorOnChange(t *testing.T) {
	r, rec, _ := newTestRenderer(t)
	rec.Reset()

	r.ClearFrameBuffer(mgl32.Vec4{0.2, 0.3, 0.4, 1})
	r.ClearFrameBuffer(mgl32.Vec4{0.2, 0.3, 0.4, 1})

	assert.Equal(t, []string{"ClearColor", "Clear", "Clear"}, rec.CallNames())
	assert.Equal(t, []any{backend.ClearColor | backend.ClearDepth}, rec.Calls()[1].Args)
}

func TestAdvanceFrameSwapsAndRollsStats(t *testing.T) {
	r, rec, surface := newTestRenderer(t)
	prog, err := r.CompileAndLinkShader(vs, fs)
	require.NoError(t, err)

	m, err := r.NewMesh(mesh.MarshalColorVertices(make([]mesh.ColorVertex, 3)), 3, 16, mesh.ColorVertexFormat)
	require.NoError(t, err)
	mat := material.NewMaterial(material.WithProgram(prog))
	require.NoError(t, m.AddIndices([]uint32{0, 1, 2}, mat))
	require.NoError(t, m.AddIndices([]uint32{2, 1, 0}, mat))

	require.NoError(t, r.DrawMesh(m))
	require.NoError(t, r.RenderArray(backend.PrimitiveLines, 2, mesh.ColorVertexFormat, 16,
		mesh.MarshalColorVertices(make([]mesh.ColorVertex, 2)), []uint32{0, 1}))
	assert.Len(t, rec.Draws(), 3)

	surface.width, surface.height = 800, 600
	r.AdvanceFrame(false)
	assert.Equal(t, 1, surface.swaps)
	assert.Equal(t, [4]int32{0, 0, 800, 600}, rec.LastViewport())
	assert.Equal(t, FrameStats{Frame: 1, DrawCalls: 3}, r.Stats())

	r.AdvanceFrame(false)
	assert.Equal(t, FrameStats{Frame: 2, DrawCalls: 0}, r.Stats())
}

func TestAdvanceFrameMinimizedSkipsSwap(t *testing.T) {
	minimizedFrameDelay = time.Millisecond
	defer func() { minimizedFrameDelay = 10 * time.Millisecond }()

	r, rec, surface := newTestRenderer(t)
	rec.Reset()

	r.AdvanceFrame(true)
	assert.Zero(t, surface.swaps)
	assert.Equal(t, []string{"Viewport"}, rec.CallNames())
	assert.True(t, r.Stats().Skipped)
}

func TestDrawMeshUsesFrameState(t *testing.T) {
	r, rec, _ := newTestRenderer(t)
	prog, err := r.CompileAndLinkShader(vs, fs)
	require.NoError(t, err)

	m, err := r.NewMesh(mesh.MarshalColorVertices(make([]mesh.ColorVertex, 3)), 3, 16, mesh.ColorVertexFormat)
	require.NoError(t, err)
	require.NoError(t, m.AddIndices([]uint32{0, 1, 2}, material.NewMaterial(material.WithProgram(prog))))

	r.SetColor(mgl32.Vec4{0, 1, 0, 1})
	rec.Reset()
	require.NoError(t, r.DrawMesh(m))

	var colors []any
	for _, w := range rec.UniformWrites() {
		if w.Location == prog.UniformColor() {
			colors = append(colors, w.Value)
		}
	}
	assert.Equal(t, []any{[4]float32{0, 1, 0, 1}}, colors)
}

func TestDrawMeshAtAppliesModelMatrix(t *testing.T) {
	r, rec, _ := newTestRenderer(t)
	prog, err := r.CompileAndLinkShader(vs, fs)
	require.NoError(t, err)

	m, err := r.NewMesh(mesh.MarshalColorVertices(make([]mesh.ColorVertex, 3)), 3, 16, mesh.ColorVertexFormat)
	require.NoError(t, err)
	require.NoError(t, m.AddIndices([]uint32{0, 1, 2}, material.NewMaterial(material.WithProgram(prog))))

	viewProjection := mgl32.Translate3D(0, 0, -5)
	model := mgl32.Translate3D(1, 2, 0)
	r.SetViewProjection(viewProjection)
	rec.Reset()
	require.NoError(t, r.DrawMeshAt(m, model))

	var matrices []any
	for _, w := range rec.UniformWrites() {
		if w.Location == prog.UniformModelViewProjection() {
			matrices = append(matrices, w.Value)
		}
	}
	assert.Equal(t, []any{[16]float32(viewProjection.Mul4(model))}, matrices)
	assert.Equal(t, viewProjection, r.FrameState().ViewProjection, "frame state is left untouched")
}

func TestLastErrorTracksFailures(t *testing.T) {
	r, rec, _ := newTestRenderer(t)
	assert.NoError(t, r.LastError())

	rec.FailCompile = func(stage backend.ShaderStage, source string) string {
		return "0:1: syntax error"
	}
	_, err := r.CompileAndLinkShader(vs, fs)
	var compileErr *shader.CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, err, r.LastError())

	_, err = r.CreateTextureFromTGAMemory([]byte{1, 2, 3})
	assert.ErrorIs(t, err, texture.ErrTruncated)
	assert.ErrorIs(t, r.LastError(), texture.ErrTruncated)

	m, err := r.NewMesh(mesh.MarshalColorVertices(make([]mesh.ColorVertex, 1)), 1, 16, mesh.ColorVertexFormat)
	require.NoError(t, err)
	m.Release()
	assert.ErrorIs(t, r.DrawMesh(m), mesh.ErrReleased)
	assert.ErrorIs(t, r.LastError(), mesh.ErrReleased)
}

func TestCreateTexture(t *testing.T) {
	r, rec, _ := newTestRenderer(t)
	tex, err := r.CreateTexture(common.TextureStagingData{Width: 2, Height: 2})
	assert.Nil(t, tex)
	assert.ErrorIs(t, err, texture.ErrInvalidStaging)
	assert.Zero(t, rec.LiveTextures())
}

func TestShutDownClosesSurfaceOnce(t *testing.T) {
	r, _, surface := newTestRenderer(t)
	surface.closeErr = errors.New("boom")

	assert.EqualError(t, r.ShutDown(), "boom")
	assert.NoError(t, r.ShutDown())
	assert.Equal(t, 1, surface.closes)
}
