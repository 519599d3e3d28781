package window

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend"
	"github.com/stretchr/testify/assert"
)

func TestWindowDefaults(t *testing.T) {
	w := newEngineWindow()

	assert.Equal(t, 1280, w.Width())
	assert.Equal(t, 720, w.Height())
	assert.Equal(t, backend.ProfileDesktop, w.Profile())
	assert.True(t, w.vsync)
	assert.Equal(t, DesktopExtensions, w.extensions)
	assert.False(t, w.IsRunning())
	assert.False(t, w.Minimized())
	assert.Error(t, w.Close())
}

func TestWindowOptions(t *testing.T) {
	w := newEngineWindow(
		WithTitle("viewer"),
		WithWidth(320),
		WithHeight(240),
		WithProfile(backend.ProfileEmbedded),
		WithVSync(false),
	)

	assert.Equal(t, "viewer", w.title)
	assert.Equal(t, 320, w.Width())
	assert.Equal(t, 240, w.Height())
	assert.Equal(t, backend.ProfileEmbedded, w.Profile())
	assert.False(t, w.vsync)
	assert.Nil(t, w.extensions, "embedded contexts skip the desktop extension check")
}

func TestWithRequiredExtensionsOverridesDefault(t *testing.T) {
	w := newEngineWindow(WithRequiredExtensions())
	assert.Empty(t, w.extensions)
	assert.NotNil(t, w.extensions)

	w = newEngineWindow(WithRequiredExtensions("GL_ARB_multitexture"))
	assert.Equal(t, []string{"GL_ARB_multitexture"}, w.extensions)
}

func TestUnspawnedWindowIgnoresPresentation(t *testing.T) {
	w := newEngineWindow()
	w.MakeCurrent()
	w.SwapBuffers()

	called := false
	w.SetUpdateCallback(func() { called = true })
	w.ProcessMessages()
	assert.False(t, called)
}
