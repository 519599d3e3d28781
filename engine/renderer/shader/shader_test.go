package shader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend/backendtest"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVertexSource = `#include "oxy_attributes"
#include "oxy_uniforms"
varying vec2 vTexCoord;
void main() {
    vTexCoord = aTexCoord;
    gl_Position = model_view_projection * vec4(aPosition, 1.0);
}
`

const testFragmentSource = `#include "oxy_uniforms"
varying vec2 vTexCoord;
void main() {
    gl_FragColor = color * texture2D(texture_unit_0, vTexCoord);
}
`

const flatFragmentSource = `void main() {
    gl_FragColor = vec4(1.0);
}
`

func TestCompileAndLinkResolvesStandardUniforms(t *testing.T) {
	rec := backendtest.NewRecorder(backend.ProfileDesktop)

	p, err := CompileAndLink(rec, testVertexSource, testFragmentSource, WithLabel("textured"))
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.Equal(t, "textured", p.Label())
	assert.NotZero(t, p.Handle())
	assert.NotZero(t, p.VertexShader())
	assert.NotZero(t, p.FragmentShader())
	assert.Equal(t, p.Handle(), rec.CurrentProgram())

	for _, loc := range []int32{p.UniformModelViewProjection(), p.UniformColor(), p.UniformTextureUnit0()} {
		assert.GreaterOrEqual(t, loc, int32(0))
	}

	writes := rec.UniformWrites()
	require.Len(t, writes, 1)
	assert.Equal(t, backendtest.UniformWrite{Program: p.Handle(), Location: p.UniformTextureUnit0(), Value: int32(0)}, writes[0])
}

func TestCompileAndLinkBindsFixedAttributeSlots(t *testing.T) {
	rec := backendtest.NewRecorder(backend.ProfileDesktop)

	_, err := CompileAndLink(rec, testVertexSource, testFragmentSource)
	require.NoError(t, err)

	var bound []string
	for _, c := range rec.Calls() {
		if c.Name == "BindAttribLocation" {
			bound = append(bound, c.Args[2].(string))
			assert.Equal(t, map[string]uint32{"aPosition": 0, "aNormal": 1, "aTexCoord": 2, "aColor": 3}[c.Args[2].(string)], c.Args[1])
		}
	}
	assert.Equal(t, []string{"aPosition", "aNormal", "aTexCoord", "aColor"}, bound)

	names := rec.CallNames()
	assert.Less(t, lastIndex(names, "BindAttribLocation"), lastIndex(names, "LinkProgram"))
}

func TestMissingUniformsReportAbsent(t *testing.T) {
	rec := backendtest.NewRecorder(backend.ProfileDesktop)
	vs := `#include "oxy_attributes"
void main() {
    gl_Position = vec4(aPosition, 1.0);
}
`
	p, err := CompileAndLink(rec, vs, flatFragmentSource)
	require.NoError(t, err)

	assert.Equal(t, UniformAbsent, p.UniformModelViewProjection())
	assert.Equal(t, UniformAbsent, p.UniformColor())
	assert.Equal(t, UniformAbsent, p.UniformTextureUnit0())
	assert.Empty(t, rec.UniformWrites())

	rec.Reset()
	p.Activate(common.DefaultFrameState())
	assert.Equal(t, []string{"UseProgram"}, rec.CallNames())
}

func TestVertexCompileFailureLeavesNoHandles(t *testing.T) {
	rec := backendtest.NewRecorder(backend.ProfileDesktop)
	broken := "void main() {\n    gl_Position = vec4(1.0;\n}\n"

	p, err := CompileAndLink(rec, broken, testFragmentSource)
	assert.Nil(t, p)

	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, backend.StageVertex, compileErr.Stage)
	assert.NotEmpty(t, compileErr.Log)

	assert.Equal(t, 1, rec.CallCount("CreateShader"), "fragment stage must not be attempted")
	assert.Zero(t, rec.LiveShaders())
	assert.Zero(t, rec.LivePrograms())
	assert.Empty(t, rec.InvalidDeletes())
}

func TestFragmentCompileFailureReleasesVertexStage(t *testing.T) {
	rec := backendtest.NewRecorder(backend.ProfileEmbedded)
	rec.FailCompile = func(stage backend.ShaderStage, _ string) string {
		if stage == backend.StageFragment {
			return "0:3: error: 'texture_unit_1' : undeclared identifier"
		}
		return ""
	}

	_, err := CompileAndLink(rec, testVertexSource, testFragmentSource)

	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, backend.StageFragment, compileErr.Stage)
	assert.Contains(t, err.Error(), "undeclared identifier")
	assert.Zero(t, rec.LiveShaders())
	assert.Zero(t, rec.LivePrograms())
	assert.Empty(t, rec.InvalidDeletes())
}

func TestLinkFailureDeletesFragmentVertexProgram(t *testing.T) {
	rec := backendtest.NewRecorder(backend.ProfileDesktop)
	rec.FailLink = func(_, _ string) string {
		return "error: varying vTexCoord not written by vertex shader"
	}

	p, err := CompileAndLink(rec, testVertexSource, testFragmentSource, WithLabel("broken"))
	assert.Nil(t, p)

	var linkErr *LinkError
	require.ErrorAs(t, err, &linkErr)
	assert.Equal(t, "broken", linkErr.Label)
	assert.Contains(t, linkErr.Log, "vTexCoord")

	var deletes []string
	for _, name := range rec.CallNames() {
		if strings.HasPrefix(name, "Delete") {
			deletes = append(deletes, name)
		}
	}
	assert.Equal(t, []string{"DeleteShader", "DeleteShader", "DeleteProgram"}, deletes)

	var deletedShaders []uint32
	for _, c := range rec.Calls() {
		if c.Name == "DeleteShader" {
			deletedShaders = append(deletedShaders, uint32(c.Args[0].(backend.Shader)))
		}
	}
	// The fragment stage is created second, so it carries the larger handle.
	require.Len(t, deletedShaders, 2)
	assert.Greater(t, deletedShaders[0], deletedShaders[1])

	assert.Zero(t, rec.LiveShaders())
	assert.Zero(t, rec.LivePrograms())
}

func TestActivateUploadsFrameState(t *testing.T) {
	rec := backendtest.NewRecorder(backend.ProfileDesktop)
	p, err := CompileAndLink(rec, testVertexSource, testFragmentSource)
	require.NoError(t, err)
	rec.Reset()

	state := common.FrameState{
		ViewProjection: mgl32.Translate3D(1, 2, 3),
		Color:          mgl32.Vec4{0.25, 0.5, 0.75, 1},
	}
	p.Activate(state)

	assert.Equal(t, p.Handle(), rec.CurrentProgram())
	writes := rec.UniformWrites()
	require.Len(t, writes, 2)
	assert.Equal(t, p.UniformModelViewProjection(), writes[0].Location)
	assert.Equal(t, [16]float32(state.ViewProjection), writes[0].Value)
	// Column-major: the translation occupies elements 12 to 14.
	assert.Equal(t, float32(2), writes[0].Value.([16]float32)[13])
	assert.Equal(t, p.UniformColor(), writes[1].Location)
	assert.Equal(t, [4]float32{0.25, 0.5, 0.75, 1}, writes[1].Value)
}

func TestReleaseIsIdempotent(t *testing.T) {
	rec := backendtest.NewRecorder(backend.ProfileDesktop)
	p, err := CompileAndLink(rec, testVertexSource, testFragmentSource)
	require.NoError(t, err)

	p.Release()
	p.Release()

	assert.True(t, p.Released())
	assert.Zero(t, p.Handle())
	assert.Zero(t, rec.LiveShaders())
	assert.Zero(t, rec.LivePrograms())
	assert.Empty(t, rec.InvalidDeletes())

	rec.Reset()
	p.Activate(common.DefaultFrameState())
	assert.Empty(t, rec.Calls())
}

func TestCompileStage(t *testing.T) {
	rec := backendtest.NewRecorder(backend.ProfileEmbedded)
	prog := rec.CreateProgram()

	s, err := CompileStage(rec, backend.StageFragment, prog, flatFragmentSource, backend.ProfileEmbedded)
	require.NoError(t, err)
	assert.NotZero(t, s)
	assert.Equal(t, 1, rec.CallCount("AttachShader"))

	bad, err := CompileStage(rec, backend.StageFragment, prog, "void main() {", backend.ProfileEmbedded)
	assert.Zero(t, bad)
	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, 1, rec.LiveShaders())
	assert.Equal(t, 1, rec.CallCount("AttachShader"))

	_, err = CompileStage(rec, backend.StageVertex, prog, `#include "missing"`, backend.ProfileDesktop)
	assert.ErrorIs(t, err, ErrUnknownInclude)
}

func TestPreProcessorPreamble(t *testing.T) {
	out, err := NewPreProcessor(backend.ProfileDesktop, nil).Process(flatFragmentSource)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "#version 120\n"))

	out, err = NewPreProcessor(backend.ProfileEmbedded, nil).Process(flatFragmentSource)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "#ifdef GL_ES\nprecision highp float;\n#endif\n"))
	assert.True(t, strings.HasSuffix(out, flatFragmentSource))
}

func TestPreProcessorIncludes(t *testing.T) {
	pp := NewPreProcessor(backend.ProfileDesktop, map[string]string{
		"lighting": "#include \"oxy_uniforms\"\nvec4 shade(vec4 c) { return c * color; }\n",
	})
	assert.Equal(t, []string{"lighting", IncludeAttributes, IncludeUniforms}, pp.Includes())

	out, err := pp.Process("#include \"lighting\"\nvoid main() {}")
	require.NoError(t, err)
	assert.Contains(t, out, "uniform vec4 color;")
	assert.Contains(t, out, "vec4 shade(vec4 c)")
	assert.NotContains(t, out, "#include")
}

func TestPreProcessorErrors(t *testing.T) {
	pp := NewPreProcessor(backend.ProfileDesktop, map[string]string{
		"a": `#include "b"`,
		"b": `#include "a"`,
	})

	_, err := pp.Process("void main() {}\n\n#include \"nope\"")
	require.ErrorIs(t, err, ErrUnknownInclude)
	assert.Contains(t, err.Error(), "line 3")

	_, err = pp.Process("#include <nope>")
	assert.ErrorIs(t, err, ErrMalformedInclude)

	_, err = pp.Process(`#include "a"`)
	assert.ErrorIs(t, err, ErrIncludeCycle)
}

func TestCompileAndLinkReportsPreProcessorErrors(t *testing.T) {
	rec := backendtest.NewRecorder(backend.ProfileDesktop)

	_, err := CompileAndLink(rec, testVertexSource, `#include "lighting"`, WithLabel("lit"))
	require.ErrorIs(t, err, ErrUnknownInclude)
	assert.True(t, strings.HasPrefix(err.Error(), "lit: fragment shader"))
	assert.Zero(t, rec.CallCount("CreateProgram"))

	_, err = CompileAndLink(rec, testVertexSource, `#include "lighting"`,
		WithIncludes(map[string]string{"lighting": flatFragmentSource}))
	assert.NoError(t, err)
}

func TestLoadSourceAndCompileFiles(t *testing.T) {
	dir := t.TempDir()
	vsPath := filepath.Join(dir, "flat.vert")
	fsPath := filepath.Join(dir, "flat.frag")
	require.NoError(t, os.WriteFile(vsPath, []byte(testVertexSource), 0o644))
	require.NoError(t, os.WriteFile(fsPath, []byte(testFragmentSource), 0o644))

	src, err := LoadSource(vsPath)
	require.NoError(t, err)
	assert.Equal(t, testVertexSource, src)

	_, err = LoadSource(filepath.Join(dir, "missing.vert"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	rec := backendtest.NewRecorder(backend.ProfileDesktop)
	p, err := CompileAndLinkFiles(rec, vsPath, fsPath)
	require.NoError(t, err)
	assert.Equal(t, vsPath, p.Label())
}

func lastIndex(names []string, name string) int {
	idx := -1
	for i, n := range names {
		if n == name {
			idx = i
		}
	}
	return idx
}
