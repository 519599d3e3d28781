package vertex

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/backend/backendtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormatValidation(t *testing.T) {
	_, err := NewFormat()
	assert.ErrorIs(t, err, ErrEmptyFormat)

	_, err = NewFormat(Position3f, Attribute(42))
	assert.ErrorIs(t, err, ErrUnknownAttribute)

	_, err = NewFormat(Position3f, TexCoord2f, Position3f)
	assert.ErrorIs(t, err, ErrDuplicateAttribute)

	f, err := NewFormat(Position3f, Normal3f, TexCoord2f, Color4ub)
	require.NoError(t, err)
	assert.Equal(t, 4, f.Len())
	assert.Equal(t, "[Position3f Normal3f TexCoord2f Color4ub]", f.String())
}

func TestMustFormatPanics(t *testing.T) {
	assert.Panics(t, func() { MustFormat() })
	assert.NotPanics(t, func() { MustFormat(Color4ub) })
}

func TestFormatOffsets(t *testing.T) {
	f := MustFormat(Position3f, TexCoord2f, Color4ub)

	assert.Equal(t, 24, f.Size())
	for _, tc := range []struct {
		attr   Attribute
		offset int
		ok     bool
	}{
		{Position3f, 0, true},
		{TexCoord2f, 12, true},
		{Color4ub, 20, true},
		{Normal3f, 0, false},
	} {
		offset, ok := f.Offset(tc.attr)
		assert.Equal(t, tc.ok, ok, tc.attr.String())
		assert.Equal(t, tc.offset, offset, tc.attr.String())
	}
}

func TestFormatAttributesIsACopy(t *testing.T) {
	f := MustFormat(Position3f, Normal3f)
	attrs := f.Attributes()
	attrs[0] = Color4ub
	assert.Equal(t, Position3f, f.Attributes()[0])
}

func TestSlotNames(t *testing.T) {
	assert.Equal(t, []string{"aPosition", "aNormal", "aTexCoord", "aColor"}, []string{
		SlotPosition.Name(), SlotNormal.Name(), SlotTexCoord.Name(), SlotColor.Name(),
	})
	assert.Len(t, Slots(), SlotCount)
}

func TestBindRegistersEveryAttribute(t *testing.T) {
	rec := backendtest.NewRecorder(backend.ProfileDesktop)
	f := MustFormat(Position3f, Normal3f, TexCoord2f, Color4ub)
	const stride = 40

	binding := Bind(rec, backend.Buffer(7), f, stride)

	assert.Equal(t, []uint32{0, 1, 2, 3}, rec.EnabledSlots())
	want := map[Slot]backendtest.AttribPointer{
		SlotPosition: {Buffer: 7, Components: 3, Type: backend.ComponentFloat, Stride: stride, Offset: 0},
		SlotNormal:   {Buffer: 7, Components: 3, Type: backend.ComponentFloat, Stride: stride, Offset: 12},
		SlotTexCoord: {Buffer: 7, Components: 2, Type: backend.ComponentFloat, Stride: stride, Offset: 24},
		SlotColor:    {Buffer: 7, Components: 4, Type: backend.ComponentUnsignedByte, Normalized: true, Stride: stride, Offset: 32},
	}
	for slot, p := range want {
		got, ok := rec.Pointer(uint32(slot))
		require.True(t, ok, slot.Name())
		assert.Equal(t, p, got, slot.Name())
	}

	binding.Release()
	assert.Empty(t, rec.EnabledSlots())
}

func TestBindConsumesFormatSize(t *testing.T) {
	formats := []Format{
		MustFormat(Position3f),
		MustFormat(Color4ub, Position3f),
		MustFormat(TexCoord2f, Normal3f),
		MustFormat(Position3f, Normal3f, TexCoord2f, Color4ub),
	}
	for _, f := range formats {
		rec := backendtest.NewRecorder(backend.ProfileDesktop)
		binding := Bind(rec, 1, f, f.Size())
		assert.Equal(t, f.Size(), binding.Consumed(), f.String())
		binding.Release()
		assert.Empty(t, rec.EnabledSlots(), f.String())
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	rec := backendtest.NewRecorder(backend.ProfileDesktop)
	f := MustFormat(Position3f, Color4ub)

	binding := Bind(rec, 1, f, f.Size())
	binding.Release()
	binding.Release()

	assert.Equal(t, 2, rec.CallCount("DisableVertexAttribArray"))

	var nilBinding *Binding
	assert.NotPanics(t, nilBinding.Release)
}

func TestUnbindOnlyTouchesFormatSlots(t *testing.T) {
	rec := backendtest.NewRecorder(backend.ProfileDesktop)
	all := MustFormat(Position3f, Normal3f, TexCoord2f, Color4ub)
	Bind(rec, 1, all, all.Size())

	Unbind(rec, MustFormat(Normal3f, Color4ub))

	assert.Equal(t, []uint32{uint32(SlotPosition), uint32(SlotTexCoord)}, rec.EnabledSlots())
}
