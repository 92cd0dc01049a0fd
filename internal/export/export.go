// Package export writes product snapshots and order sheets to disk.
package export

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

const timestampLayout = "2006-01-02_15-04-05"

// Exporter names and writes output files under one directory.
type Exporter struct {
	outputDir string
	prefix    string
	now       func() time.Time
}

// New creates an exporter writing to outputDir with file names starting
// with prefix.
func New(outputDir, prefix string) *Exporter {
	return &Exporter{
		outputDir: outputDir,
		prefix:    prefix,
		now:       time.Now,
	}
}

// OutputDir returns the directory default file names point into.
func (e *Exporter) OutputDir() string {
	return e.outputDir
}

// Filename generates a timestamped file name with extension ext, without
// creating anything.
func (e *Exporter) Filename(ext string) string {
	name := fmt.Sprintf("%s_%s.%s", e.prefix, e.now().Format(timestampLayout), ext)
	if e.outputDir != "" {
		name = filepath.Join(e.outputDir, name)
	}
	return name
}

// FlipRows converts bottom-up RGBA rows, as OpenGL reads them, into an
// image with the origin at the top left.
func FlipRows(pixels []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		srcOffset := (height - 1 - y) * rowSize
		dstOffset := y * img.Stride
		copy(img.Pix[dstOffset:dstOffset+rowSize], pixels[srcOffset:srcOffset+rowSize])
	}
	return img, nil
}

// SavePNG encodes img to path, creating parent directories.
func SavePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return file.Close()
}

// Snapshot flips framebuffer pixels and writes them as PNG. An empty path
// uses a timestamped name in the output directory. It returns the path
// written.
func (e *Exporter) Snapshot(path string, pixels []byte, width, height int) (string, error) {
	img, err := FlipRows(pixels, width, height)
	if err != nil {
		return "", err
	}
	if path == "" {
		path = e.Filename("png")
	}
	if err := SavePNG(path, img); err != nil {
		return "", err
	}
	return path, nil
}
