package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend/backendtest"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSurface struct{}

func (fakeSurface) Width() int { return 320 }
func (fakeSurface) Height() int { return 240 }
func (fakeSurface) SwapBuffers() {}
func (fakeSurface) Profile() backend.Profile { return backend.ProfileDesktop }

func newTestRenderer(t *testing.T) (renderer.Renderer, *backendtest.Recorder) {
	t.Helper()
	rec := backendtest.NewRecorder(backend.ProfileDesktop)
	r, err := renderer.NewRenderer(renderer.BackendTypeGL, fakeSurface{}, renderer.WithBackend(rec))
	require.NoError(t, err)
	return r, rec
}

func TestBuildCubeWindsOutward(t *testing.T) {
	vertices, sides, caps := buildCube()
	require.Len(t, vertices, 24)
	assert.Len(t, sides, 24)
	assert.Len(t, caps, 12)

	for _, indices := range [][]uint32{sides, caps} {
		for i := 0; i < len(indices); i += 3 {
			a := mgl32.Vec3(vertices[indices[i]].Position)
			b := mgl32.Vec3(vertices[indices[i+1]].Position)
			c := mgl32.Vec3(vertices[indices[i+2]].Position)
			normal := mgl32.Vec3(vertices[indices[i]].Normal)
			face := b.Sub(a).Cross(c.Sub(a))
			assert.Positive(t, face.Dot(normal), "triangle %d faces inward", i/3)
		}
	}
	for _, v := range vertices {
		for _, p := range v.Position {
			assert.InDelta(t, 0.5, mgl32.Abs(p), 1e-6)
		}
	}
}

func TestBuildGizmo(t *testing.T) {
	vertices, indices := buildGizmo(2)
	require.Len(t, vertices, 6)
	assert.Equal(t, []uint32{0, 1, 2, 3, 4, 5}, indices)
	assert.Equal(t, [3]float32{2, 0, 0}, vertices[1].Position)
	assert.Equal(t, [4]uint8{0, 0, 255, 255}, vertices[5].Color)
}

func TestFirstValidSkipsFailedDecodes(t *testing.T) {
	good := common.TextureStagingData{Pixels: make([]byte, 4), Width: 1, Height: 1}
	got, ok := firstValid([]common.TextureStagingData{{}, good})
	require.True(t, ok)
	assert.Equal(t, good, got)

	_, ok = firstValid(nil)
	assert.False(t, ok)
}

func TestBuildSceneDrawsCubeAndGizmo(t *testing.T) {
	r, rec := newTestRenderer(t)
	cfg := DefaultConfig()

	s, err := buildScene(r, cfg, backend.ProfileDesktop, nil)
	require.NoError(t, err)
	require.Len(t, s.cube.Ranges(), 2)
	require.Equal(t, 1, s.world.Count())

	rec.Reset()
	s.draw(r)
	require.NoError(t, r.LastError())

	draws := rec.Draws()
	require.Len(t, draws, 3)
	assert.Equal(t, backend.PrimitiveTriangles, draws[0].Mode)
	assert.Equal(t, int32(24), draws[0].Count)
	assert.Equal(t, s.textured.Handle(), draws[0].Program)
	assert.Equal(t, s.tex.Handle(), draws[0].Textures[0])
	assert.Equal(t, int32(12), draws[1].Count)
	assert.Equal(t, s.flat.Handle(), draws[1].Program)
	assert.Equal(t, backend.PrimitiveLines, draws[2].Mode)

	s.release()
	assert.Zero(t, rec.LiveTextures())
	assert.Zero(t, rec.LivePrograms())
	assert.Empty(t, rec.InvalidDeletes())
}

func TestBuildSceneUsesConfiguredShaders(t *testing.T) {
	r, _ := newTestRenderer(t)
	cfg := DefaultConfig()
	cfg.Shaders.Flat.Vertex = filepath.Join(t.TempDir(), "missing.vert")

	_, err := buildScene(r, cfg, backend.ProfileDesktop, nil)
	assert.ErrorContains(t, err, "failed to read shader source")

	dir := t.TempDir()
	frag := filepath.Join(dir, "flat.frag")
	require.NoError(t, os.WriteFile(frag, []byte("void main() {\n    gl_FragColor = vec4(1.0);\n}\n"), 0o644))
	cfg.Shaders.Flat = ShaderPair{Fragment: frag}
	s, err := buildScene(r, cfg, backend.ProfileDesktop, nil)
	require.NoError(t, err)
	s.release()
}

func TestApplyKeysMovesController(t *testing.T) {
	ctrl := camera.NewOrbitController()
	keys := newKeyState()

	azimuth := ctrl.Azimuth()
	keys.set(common.KeyRight, true)
	applyKeys(keys, ctrl)
	assert.NotEqual(t, azimuth, ctrl.Azimuth())

	keys.set(common.KeyRight, false)
	radius := ctrl.Radius()
	keys.set(common.KeyEqual, true)
	applyKeys(keys, ctrl)
	assert.Less(t, ctrl.Radius(), radius)
}
