package texture

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned for images the decoders cannot read. For TGA that is any
	// file with a color map, an image type other than uncompressed true-color, or a depth other
	// than 24 or 32 bits.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrTruncated is returned when the buffer ends before the header or pixel data does.
	ErrTruncated = errors.New("truncated image data")

	// ErrBigEndianHost is returned by DecodeTGA on big-endian hosts.
	ErrBigEndianHost = errors.New("TGA decoding is not supported on big-endian hosts")
)

const (
	tgaHeaderSize     = 18
	tgaTrueColor      = 2
	tgaDescriptorTopY = 0x20
)

// hostBigEndian reports the byte order of the running host. It is a variable so the big-endian
// rejection can be exercised on little-endian machines.
var hostBigEndian = isBigEndian()

func isBigEndian() bool {
	var probe [2]byte
	binary.NativeEndian.PutUint16(probe[:], 1)
	return probe[0] == 0
}

// tgaHeader is the fixed 18-byte TGA file header. Multi-byte fields are little-endian on disk.
type tgaHeader struct {
	idLength        uint8
	colorMapType    uint8
	imageType       uint8
	width           uint16
	height          uint16
	bitsPerPixel    uint8
	imageDescriptor uint8
}

func parseTGAHeader(buf []byte) (tgaHeader, error) {
	if len(buf) < tgaHeaderSize {
		return tgaHeader{}, fmt.Errorf("%w: TGA header needs %d bytes, got %d", ErrTruncated, tgaHeaderSize, len(buf))
	}
	// bytes 3..7 are the color map specification and 8..11 the x/y origin; both are ignored.
	return tgaHeader{
		idLength:        buf[0],
		colorMapType:    buf[1],
		imageType:       buf[2],
		width:           binary.LittleEndian.Uint16(buf[12:14]),
		height:          binary.LittleEndian.Uint16(buf[14:16]),
		bitsPerPixel:    buf[16],
		imageDescriptor: buf[17],
	}, nil
}

// DecodeTGA decodes an uncompressed 24- or 32-bit true-color TGA image into tightly packed RGBA
// bytes. Rows are emitted in file order unless the descriptor's top-origin bit (0x20) is set,
// in which case the first stored row becomes the last output row. 24-bit sources get an alpha
// of 255.
//
// Parameters:
//   - buf: the complete TGA file contents
//
// Returns:
//   - []byte: width*height*4 bytes of RGBA pixel data
//   - int: the image width in pixels
//   - int: the image height in pixels
//   - error: ErrBigEndianHost, ErrUnsupportedFormat or ErrTruncated
func DecodeTGA(buf []byte) ([]byte, int, int, error) {
	if hostBigEndian {
		return nil, 0, 0, ErrBigEndianHost
	}
	h, err := parseTGAHeader(buf)
	if err != nil {
		return nil, 0, 0, err
	}
	if h.colorMapType != 0 {
		return nil, 0, 0, fmt.Errorf("%w: TGA color map type %d", ErrUnsupportedFormat, h.colorMapType)
	}
	if h.imageType != tgaTrueColor {
		return nil, 0, 0, fmt.Errorf("%w: TGA image type %d", ErrUnsupportedFormat, h.imageType)
	}
	if h.bitsPerPixel != 24 && h.bitsPerPixel != 32 {
		return nil, 0, 0, fmt.Errorf("%w: TGA depth %d bits", ErrUnsupportedFormat, h.bitsPerPixel)
	}

	width, height := int(h.width), int(h.height)
	srcBytes := int(h.bitsPerPixel) / 8
	start := tgaHeaderSize + int(h.idLength)
	need := start + width*height*srcBytes
	if len(buf) < need {
		return nil, 0, 0, fmt.Errorf("%w: TGA pixel data needs %d bytes, got %d", ErrTruncated, need, len(buf))
	}

	src := buf[start:need]
	rgba := make([]byte, width*height*4)

	y, endY, stepY := 0, height, 1
	if h.imageDescriptor&tgaDescriptorTopY != 0 {
		y, endY, stepY = height-1, -1, -1
	}
	for ; y != endY; y += stepY {
		row := rgba[y*width*4 : (y+1)*width*4]
		for x := 0; x < width; x++ {
			p := row[x*4 : x*4+4]
			p[2] = src[0] // BGR -> RGB
			p[1] = src[1]
			p[0] = src[2]
			if srcBytes == 4 {
				p[3] = src[3]
			} else {
				p[3] = 255
			}
			src = src[srcBytes:]
		}
	}
	return rgba, width, height, nil
}
