package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/Carmen-Shannon/oxy-gl/common"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decode decodes an image file held in memory into RGBA staging data. PNG, JPEG, BMP, TIFF and
// WebP are recognized by their signatures; anything else is tried as TGA, which has none.
// The output's first row is the bottom of the image, matching the GL texture origin.
// Reference: https://pkg.go.dev/image
//
// Parameters:
//   - data: the complete file contents
//
// Returns:
//   - common.TextureStagingData: the decoded pixels
//   - error: an error if no decoder accepts the data
func Decode(data []byte) (common.TextureStagingData, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err == nil {
		return FromImage(img), nil
	}
	if !errors.Is(err, image.ErrFormat) {
		return common.TextureStagingData{}, fmt.Errorf("failed to decode image: %w", err)
	}

	pixels, width, height, err := DecodeTGA(data)
	if err != nil {
		return common.TextureStagingData{}, err
	}
	return common.TextureStagingData{Pixels: pixels, Width: uint32(width), Height: uint32(height)}, nil
}

// DecodeFile reads path and decodes it with Decode.
//
// Parameters:
//   - path: the image file to read
//
// Returns:
//   - common.TextureStagingData: the decoded pixels
//   - error: an error if the file cannot be read or decoded
func DecodeFile(path string) (common.TextureStagingData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("failed to read texture file %s: %w", path, err)
	}
	staging, err := Decode(data)
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("failed to decode texture file %s: %w", path, err)
	}
	return staging, nil
}

// FromImage converts any image.Image into bottom-up RGBA staging data.
//
// Parameters:
//   - img: the source image
//
// Returns:
//   - common.TextureStagingData: the converted pixels
func FromImage(img image.Image) common.TextureStagingData {
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	flipRows(rgba.Pix, rgba.Stride, bounds.Dy())
	return common.TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
	}
}

// ResizePowerOfTwo scales staging data up to the next power-of-two dimensions with bilinear
// filtering. ES 2 only mipmaps power-of-two textures. Data that already has power-of-two
// dimensions is returned unchanged.
//
// Parameters:
//   - staging: the source pixels
//
// Returns:
//   - common.TextureStagingData: power-of-two sized pixels
func ResizePowerOfTwo(staging common.TextureStagingData) common.TextureStagingData {
	w, h := nextPowerOfTwo(staging.Width), nextPowerOfTwo(staging.Height)
	if w == staging.Width && h == staging.Height {
		return staging
	}
	src := &image.RGBA{
		Pix:    staging.Pixels,
		Stride: int(staging.Width) * 4,
		Rect:   image.Rect(0, 0, int(staging.Width), int(staging.Height)),
	}
	dst := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return common.TextureStagingData{Pixels: dst.Pix, Width: w, Height: h}
}

func nextPowerOfTwo(v uint32) uint32 {
	if v == 0 {
		return 1
	}
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	return v + 1
}

func flipRows(pix []byte, stride, height int) {
	tmp := make([]byte, stride)
	for top, bottom := 0, height-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := pix[top*stride : (top+1)*stride]
		b := pix[bottom*stride : (bottom+1)*stride]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}
