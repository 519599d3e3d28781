package texture

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTGA assembles a TGA file from header fields and raw BGR(A) pixel bytes.
func buildTGA(imageType, colorMapType, bpp, descriptor uint8, width, height uint16, id []byte, pixels []byte) []byte {
	header := make([]byte, tgaHeaderSize)
	header[0] = uint8(len(id))
	header[1] = colorMapType
	header[2] = imageType
	binary.LittleEndian.PutUint16(header[12:14], width)
	binary.LittleEndian.PutUint16(header[14:16], height)
	header[16] = bpp
	header[17] = descriptor
	out := append(header, id...)
	return append(out, pixels...)
}

// 2x2 BGRA, first stored row then second stored row.
var bgra2x2 = []byte{
	0x01, 0x02, 0x03, 0x80, 0x11, 0x12, 0x13, 0x81,
	0x21, 0x22, 0x23, 0x82, 0x31, 0x32, 0x33, 0x83,
}

func TestDecodeTGA32Bit(t *testing.T) {
	pixels, w, h, err := DecodeTGA(buildTGA(2, 0, 32, 0, 2, 2, nil, bgra2x2))
	require.NoError(t, err)

	assert.Equal(t, 2, w)
	assert.Equal(t, 2, h)
	require.Len(t, pixels, 16)
	assert.Equal(t, []byte{
		0x03, 0x02, 0x01, 0x80, 0x13, 0x12, 0x11, 0x81,
		0x23, 0x22, 0x21, 0x82, 0x33, 0x32, 0x31, 0x83,
	}, pixels)
}

func TestDecodeTGA24BitIsOpaque(t *testing.T) {
	bgr := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09}
	pixels, w, h, err := DecodeTGA(buildTGA(2, 0, 24, 0, 3, 1, nil, bgr))
	require.NoError(t, err)

	assert.Equal(t, 3, w)
	assert.Equal(t, 1, h)
	assert.Equal(t, []byte{0x03, 0x02, 0x01, 0xff, 0x06, 0x05, 0x04, 0xff, 0x09, 0x08, 0x07, 0xff}, pixels)
}

func TestDecodeTGAFlipBitReversesRows(t *testing.T) {
	swapped := append(append([]byte{}, bgra2x2[8:]...), bgra2x2[:8]...)

	plain, _, _, err := DecodeTGA(buildTGA(2, 0, 32, 0, 2, 2, nil, bgra2x2))
	require.NoError(t, err)
	flipped, _, _, err := DecodeTGA(buildTGA(2, 0, 32, tgaDescriptorTopY, 2, 2, nil, swapped))
	require.NoError(t, err)

	assert.Equal(t, plain, flipped)
}

func TestDecodeTGASkipsImageID(t *testing.T) {
	plain, _, _, err := DecodeTGA(buildTGA(2, 0, 32, 0, 2, 2, nil, bgra2x2))
	require.NoError(t, err)
	withID, _, _, err := DecodeTGA(buildTGA(2, 0, 32, 0, 2, 2, []byte("oxy texture"), bgra2x2))
	require.NoError(t, err)

	assert.Equal(t, plain, withID)
}

func TestDecodeTGARejectsUnsupportedHeaders(t *testing.T) {
	for name, buf := range map[string][]byte{
		"color map":  buildTGA(2, 1, 32, 0, 2, 2, nil, bgra2x2),
		"rle":        buildTGA(10, 0, 32, 0, 2, 2, nil, bgra2x2),
		"grayscale":  buildTGA(3, 0, 32, 0, 2, 2, nil, bgra2x2),
		"16 bit":     buildTGA(2, 0, 16, 0, 2, 2, nil, bgra2x2),
		"8 bit":      buildTGA(2, 0, 8, 0, 2, 2, nil, bgra2x2),
		"zero depth": buildTGA(2, 0, 0, 0, 2, 2, nil, bgra2x2),
		"33 bit":     buildTGA(2, 0, 33, 0, 2, 2, nil, bgra2x2),
	} {
		_, _, _, err := DecodeTGA(buf)
		assert.ErrorIs(t, err, ErrUnsupportedFormat, name)
	}
}

func TestDecodeTGATruncated(t *testing.T) {
	_, _, _, err := DecodeTGA(make([]byte, 10))
	assert.ErrorIs(t, err, ErrTruncated)

	_, _, _, err = DecodeTGA(buildTGA(2, 0, 32, 0, 2, 2, nil, bgra2x2[:15]))
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestDecodeTGAEmptyImage(t *testing.T) {
	pixels, w, h, err := DecodeTGA(buildTGA(2, 0, 24, 0, 0, 0, nil, nil))
	require.NoError(t, err)
	assert.Zero(t, w)
	assert.Zero(t, h)
	assert.Empty(t, pixels)
}

func TestDecodeTGABigEndianHost(t *testing.T) {
	saved := hostBigEndian
	hostBigEndian = true
	t.Cleanup(func() { hostBigEndian = saved })

	_, _, _, err := DecodeTGA(buildTGA(2, 0, 32, 0, 2, 2, nil, bgra2x2))
	assert.ErrorIs(t, err, ErrBigEndianHost)
}
