// Package texture decodes surface images for swatches and model materials.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// MaxSize bounds either image dimension.
const MaxSize = 8192

// ErrTooLarge is returned for images exceeding MaxSize.
var ErrTooLarge = errors.New("texture exceeds maximum size")

// Load decodes a PNG, JPEG, BMP or WebP file into RGBA.
func Load(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening texture: %w", err)
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// Decode reads any registered image format into RGBA.
func Decode(r io.Reader) (*image.RGBA, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	b := img.Bounds()
	if b.Dx() > MaxSize || b.Dy() > MaxSize {
		return nil, fmt.Errorf("%s %dx%d: %w", format, b.Dx(), b.Dy(), ErrTooLarge)
	}
	return ToRGBA(img), nil
}

// ToRGBA converts img to an RGBA image with origin at (0, 0). RGBA input
// already in that layout is returned as-is.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == rgba.Rect.Dx()*4 {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
