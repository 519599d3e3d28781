package material

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend/backendtest"
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

func newFixture(t *testing.T) (*backendtest.Recorder, shader.Program, texture.Texture, texture.Texture) {
	t.Helper()
	rec := backendtest.NewRecorder(backend.ProfileDesktop)
	prog, err := shader.CompileAndLink(rec, vs, fs)
	require.NoError(t, err)
	staging := common.TextureStagingData{Pixels: make([]byte, 4), Width: 1, Height: 1}
	diffuse, err := texture.NewTexture(rec, staging)
	require.NoError(t, err)
	detail, err := texture.NewTexture(rec, staging)
	require.NoError(t, err)
	rec.Reset()
	return rec, prog, diffuse, detail
}

func TestActivateBindsTexturesInUnitOrder(t *testing.T) {
	rec, prog, diffuse, detail := newFixture(t)
	m := NewMaterial(WithName("crate"), WithProgram(prog), WithTexture(diffuse), WithTexture(detail))

	assert.Equal(t, "crate", m.Name())
	assert.Equal(t, prog, m.Program())
	assert.Len(t, m.Textures(), 2)

	m.Activate(common.DefaultFrameState())

	assert.Equal(t, []string{"ActiveTexture", "BindTexture", "ActiveTexture", "BindTexture", "UseProgram", "UniformMatrix4", "Uniform4f"}, rec.CallNames())
	calls := rec.Calls()
	assert.Equal(t, []any{uint32(0)}, calls[0].Args)
	assert.Equal(t, []any{diffuse.Handle()}, calls[1].Args)
	assert.Equal(t, []any{uint32(1)}, calls[2].Args)
	assert.Equal(t, []any{detail.Handle()}, calls[3].Args)
}

func TestActivateUsesFrameColorWithoutOverride(t *testing.T) {
	rec, prog, _, _ := newFixture(t)
	m := NewMaterial(WithProgram(prog))

	_, ok := m.BaseColor()
	assert.False(t, ok)

	state := common.DefaultFrameState()
	state.Color = mgl32.Vec4{0.1, 0.2, 0.3, 0.4}
	m.Activate(state)

	writes := rec.UniformWrites()
	require.Len(t, writes, 2)
	assert.Equal(t, [4]float32{0.1, 0.2, 0.3, 0.4}, writes[1].Value)
}

func TestActivateAppliesBaseColor(t *testing.T) {
	rec, prog, _, _ := newFixture(t)
	m := NewMaterial(WithProgram(prog), WithBaseColor([4]float32{1, 0, 0, 1}))

	c, ok := m.BaseColor()
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, c)

	state := common.DefaultFrameState()
	m.Activate(state)

	writes := rec.UniformWrites()
	require.Len(t, writes, 2)
	assert.Equal(t, prog.UniformColor(), writes[1].Location)
	assert.Equal(t, [4]float32{1, 0, 0, 1}, writes[1].Value)
	assert.Equal(t, mgl32.Vec4{1, 1, 1, 1}, state.Color, "caller state is not modified")
}

func TestActivateWithoutProgramOnlyBindsTextures(t *testing.T) {
	rec, _, diffuse, _ := newFixture(t)
	m := NewMaterial(WithTexture(diffuse))

	m.Activate(common.DefaultFrameState())

	assert.Equal(t, []string{"ActiveTexture", "BindTexture"}, rec.CallNames())
	assert.Nil(t, m.Program())
}
