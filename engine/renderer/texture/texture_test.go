package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend/backendtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func checker(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 40), G: uint8(y * 40), B: 0x7f, A: 0xff})
		}
	}
	return img
}

func TestNewTextureDefaults(t *testing.T) {
	rec := backendtest.NewRecorder(backend.ProfileDesktop)
	staging := common.TextureStagingData{Pixels: make([]byte, 4*4*4), Width: 4, Height: 4}

	tex, err := NewTexture(rec, staging)
	require.NoError(t, err)

	assert.NotZero(t, tex.Handle())
	assert.Equal(t, uint32(4), tex.Width())
	assert.Equal(t, uint32(4), tex.Height())

	sampler, ok := rec.Sampler(tex.Handle())
	require.True(t, ok)
	assert.Equal(t, backend.SamplerState{
		WrapS:     backend.WrapRepeat,
		WrapT:     backend.WrapRepeat,
		MagFilter: backend.FilterLinear,
		MinFilter: backend.FilterLinearMipmapLinear,
	}, sampler)

	pixels, ok := rec.TextureContents(tex.Handle())
	require.True(t, ok)
	assert.Len(t, pixels, 64)
	assert.True(t, rec.Mipmapped(tex.Handle()))

	for _, c := range []backend.Capability{backend.CapabilityTexture2D, backend.CapabilityBlend, backend.CapabilityDepthTest, backend.CapabilityAlphaTest} {
		assert.True(t, rec.Enabled(c))
	}
	for _, c := range rec.Calls() {
		switch c.Name {
		case "TexImage2D":
			assert.Equal(t, []any{int32(4), int32(4), 64}, c.Args)
		case "BlendFunc":
			assert.Equal(t, []any{backend.BlendSrcAlpha, backend.BlendOneMinusSrcAlpha}, c.Args)
		case "DepthFunc":
			assert.Equal(t, []any{backend.CompareLessEqual}, c.Args)
		case "AlphaFunc":
			assert.Equal(t, []any{backend.CompareGreater, float32(0.5)}, c.Args)
		}
	}
}

func TestNewTextureOptions(t *testing.T) {
	rec := backendtest.NewRecorder(backend.ProfileDesktop)
	staging := common.TextureStagingData{Pixels: make([]byte, 2*2*4), Width: 2, Height: 2}

	tex, err := NewTexture(rec, staging,
		WithLabel("ui"),
		WithWrap(backend.WrapClampToEdge, backend.WrapMirroredRepeat),
		WithMipmaps(false),
		WithoutBlending(),
		WithoutDepthTest(),
		WithoutAlphaTest(),
	)
	require.NoError(t, err)
	assert.Equal(t, "ui", tex.Label())

	sampler, _ := rec.Sampler(tex.Handle())
	assert.Equal(t, backend.WrapClampToEdge, sampler.WrapS)
	assert.Equal(t, backend.WrapMirroredRepeat, sampler.WrapT)
	assert.Equal(t, backend.FilterLinear, sampler.MinFilter, "mipmapped filter falls back without mipmaps")
	assert.False(t, rec.Mipmapped(tex.Handle()))
	assert.Zero(t, rec.CallCount("GenerateMipmap"))

	assert.False(t, rec.Enabled(backend.CapabilityBlend))
	assert.False(t, rec.Enabled(backend.CapabilityDepthTest))
	assert.False(t, rec.Enabled(backend.CapabilityAlphaTest))
	assert.Zero(t, rec.CallCount("BlendFunc"))
	assert.Zero(t, rec.CallCount("AlphaFunc"))
}

func TestNewTextureRejectsInvalidStaging(t *testing.T) {
	rec := backendtest.NewRecorder(backend.ProfileDesktop)

	for _, staging := range []common.TextureStagingData{
		{},
		{Pixels: make([]byte, 12), Width: 2, Height: 2},
		{Pixels: make([]byte, 16), Width: 0, Height: 4},
	} {
		_, err := NewTexture(rec, staging)
		assert.ErrorIs(t, err, ErrInvalidStaging)
	}
	assert.Zero(t, rec.CallCount("CreateTexture"))
}

func TestNewTextureEmbeddedResizesToPowerOfTwo(t *testing.T) {
	rec := backendtest.NewRecorder(backend.ProfileEmbedded)

	tex, err := NewTexture(rec, FromImage(checker(3, 5)))
	require.NoError(t, err)
	assert.Equal(t, uint32(4), tex.Width())
	assert.Equal(t, uint32(8), tex.Height())

	pixels, _ := rec.TextureContents(tex.Handle())
	assert.Len(t, pixels, 4*8*4)

	npot, err := NewTexture(rec, FromImage(checker(3, 5)), WithMipmaps(false))
	require.NoError(t, err)
	assert.Equal(t, uint32(3), npot.Width())
	assert.False(t, rec.Mipmapped(npot.Handle()))
}

func TestNewTextureEmbeddedGeneratesMipmapsAfterUpload(t *testing.T) {
	rec := backendtest.NewRecorder(backend.ProfileEmbedded)

	tex, err := NewTexture(rec, FromImage(checker(4, 4)))
	require.NoError(t, err)
	assert.True(t, rec.Mipmapped(tex.Handle()))

	var names []string
	for _, c := range rec.Calls() {
		if c.Name == "TexImage2D" || c.Name == "GenerateMipmap" {
			names = append(names, c.Name)
		}
		if c.Name == "TexImage2D" {
			assert.Len(t, c.Args, 3, "level 0 upload carries no mipmap parameter")
		}
	}
	assert.Equal(t, []string{"TexImage2D", "GenerateMipmap"}, names)

	sampler, _ := rec.Sampler(tex.Handle())
	assert.Equal(t, backend.FilterLinearMipmapLinear, sampler.MinFilter)
}

func TestTextureBindAndRelease(t *testing.T) {
	rec := backendtest.NewRecorder(backend.ProfileDesktop)
	tex, err := NewTexture(rec, common.TextureStagingData{Pixels: make([]byte, 4), Width: 1, Height: 1})
	require.NoError(t, err)
	handle := tex.Handle()

	rec.Reset()
	tex.Bind(3)
	assert.Equal(t, []string{"ActiveTexture", "BindTexture"}, rec.CallNames())
	assert.Equal(t, []any{uint32(3)}, rec.Calls()[0].Args)
	assert.Equal(t, []any{handle}, rec.Calls()[1].Args)

	tex.Release()
	tex.Release()
	assert.Zero(t, rec.LiveTextures())
	assert.Empty(t, rec.InvalidDeletes())

	rec.Reset()
	tex.Bind(0)
	assert.Empty(t, rec.Calls())
}

func TestNewTextureFromTGA(t *testing.T) {
	rec := backendtest.NewRecorder(backend.ProfileDesktop)

	tex, err := NewTextureFromTGA(rec, buildTGA(2, 0, 32, 0, 2, 2, nil, bgra2x2))
	require.NoError(t, err)
	pixels, _ := rec.TextureContents(tex.Handle())
	assert.Equal(t, []byte{0x03, 0x02, 0x01, 0x80}, pixels[:4])

	_, err = NewTextureFromTGA(rec, buildTGA(2, 1, 32, 0, 2, 2, nil, bgra2x2))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Equal(t, 1, rec.LiveTextures())
}

func TestDecodeStandardFormatsBottomUp(t *testing.T) {
	img := checker(2, 3)

	var pngBuf, bmpBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, img))
	require.NoError(t, bmp.Encode(&bmpBuf, img))

	for name, data := range map[string][]byte{"png": pngBuf.Bytes(), "bmp": bmpBuf.Bytes()} {
		staging, err := Decode(data)
		require.NoError(t, err, name)
		assert.Equal(t, uint32(2), staging.Width, name)
		assert.Equal(t, uint32(3), staging.Height, name)
		// The bottom image row (y=2) comes first.
		assert.Equal(t, []byte{0, 80, 0x7f, 0xff}, staging.Pixels[:4], name)
		assert.Equal(t, []byte{40, 0, 0x7f, 0xff}, staging.Pixels[len(staging.Pixels)-4:], name)
	}
}

func TestDecodeFallsBackToTGA(t *testing.T) {
	staging, err := Decode(buildTGA(2, 0, 32, 0, 2, 2, nil, bgra2x2))
	require.NoError(t, err)
	assert.True(t, staging.Valid())

	_, err = Decode([]byte("not an image at all, clearly"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestResizePowerOfTwo(t *testing.T) {
	src := FromImage(checker(4, 2))
	assert.Equal(t, src, ResizePowerOfTwo(src))

	out := ResizePowerOfTwo(FromImage(checker(5, 9)))
	assert.Equal(t, uint32(8), out.Width)
	assert.Equal(t, uint32(16), out.Height)
	assert.True(t, out.Valid())

	assert.Equal(t, uint32(1), nextPowerOfTwo(0))
	assert.Equal(t, uint32(1), nextPowerOfTwo(1))
	assert.Equal(t, uint32(64), nextPowerOfTwo(33))
}

func TestLoadFilesPreservesOrder(t *testing.T) {
	dir := t.TempDir()

	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, checker(3, 3)))
	paths := []string{
		filepath.Join(dir, "a.tga"),
		filepath.Join(dir, "b.png"),
		filepath.Join(dir, "c.tga"),
	}
	require.NoError(t, os.WriteFile(paths[0], buildTGA(2, 0, 32, 0, 2, 2, nil, bgra2x2), 0o644))
	require.NoError(t, os.WriteFile(paths[1], pngBuf.Bytes(), 0o644))
	require.NoError(t, os.WriteFile(paths[2], buildTGA(2, 0, 24, 0, 1, 1, nil, []byte{1, 2, 3}), 0o644))

	results, err := LoadFiles(paths, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, uint32(2), results[0].Width)
	assert.Equal(t, uint32(3), results[1].Width)
	assert.Equal(t, []byte{3, 2, 1, 0xff}, results[2].Pixels)
}

type countingPool struct {
	worker.DynamicWorkerPool
	stops *atomic.Int32
}

func (p countingPool) Stop() {
	p.stops.Add(1)
	p.DynamicWorkerPool.Stop()
}

func TestLoadFilesStopsPool(t *testing.T) {
	var stops atomic.Int32
	orig := newWorkerPool
	newWorkerPool = func(maxWorkers, queueSize int, idle time.Duration) worker.DynamicWorkerPool {
		return countingPool{DynamicWorkerPool: orig(maxWorkers, queueSize, idle), stops: &stops}
	}
	t.Cleanup(func() { newWorkerPool = orig })

	path := filepath.Join(t.TempDir(), "a.tga")
	require.NoError(t, os.WriteFile(path, buildTGA(2, 0, 24, 0, 1, 1, nil, []byte{1, 2, 3}), 0o644))

	_, err := LoadFiles([]string{path, path}, 2)
	require.NoError(t, err)
	assert.Equal(t, int32(1), stops.Load())
}

func TestLoadFilesReportsFailures(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.tga")
	require.NoError(t, os.WriteFile(good, buildTGA(2, 0, 32, 0, 2, 2, nil, bgra2x2), 0o644))
	missing := filepath.Join(dir, "missing.png")

	results, err := LoadFiles([]string{missing, good}, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "missing.png")
	assert.False(t, results[0].Valid())
	assert.True(t, results[1].Valid())

	empty, err := LoadFiles(nil, 4)
	assert.NoError(t, err)
	assert.Empty(t, empty)
}
