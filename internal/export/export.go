// Package export writes relief grids and viewer captures as PNG files.
package export

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/Faultbox/puffrelief/internal/canvas"
	"github.com/Faultbox/puffrelief/internal/derived"
	"github.com/Faultbox/puffrelief/internal/heightfield"
	"github.com/Faultbox/puffrelief/internal/material"
)

// Writer saves PNG files under an output directory.
type Writer struct {
	outputDir string
	prefix    string
}

// NewWriter creates a writer. Files are named "<prefix>_<name>.png".
func NewWriter(outputDir, prefix string) *Writer {
	return &Writer{
		outputDir: outputDir,
		prefix:    prefix,
	}
}

// SetOutputDir sets the output directory.
func (w *Writer) SetOutputDir(dir string) {
	w.outputDir = dir
}

// Path returns the file path used for name.
func (w *Writer) Path(name string) string {
	filename := name + ".png"
	if w.prefix != "" {
		filename = w.prefix + "_" + filename
	}
	if w.outputDir != "" {
		filename = filepath.Join(w.outputDir, filename)
	}
	return filename
}

// WriteImage encodes img as name.
func (w *Writer) WriteImage(name string, img image.Image) (string, error) {
	if w.outputDir != "" {
		if err := os.MkdirAll(w.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := w.Path(name)
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return filename, nil
}

// WriteGrid saves a height field as a 16-bit grayscale PNG.
func (w *Writer) WriteGrid(name string, grid *heightfield.Grid) (string, error) {
	if !grid.Valid() {
		return "", fmt.Errorf("writing %s: invalid grid", name)
	}
	return w.WriteImage(name, canvas.GridImage(grid))
}

// WriteMaps saves the height field and every derived map. It returns the
// written paths in the order height, normal, roughness, metallic, ao.
func (w *Writer) WriteMaps(grid *heightfield.Grid, maps *derived.Maps) ([]string, error) {
	if maps == nil || maps.Size != grid.Size {
		return nil, fmt.Errorf("writing maps: %w", derived.ErrDimensionMismatch)
	}
	images := []struct {
		name string
		img  image.Image
	}{
		{"height", canvas.GridImage(grid)},
		{"normal", material.NormalImage(maps.Normal, maps.Size)},
		{"roughness", material.GrayImage(maps.Roughness, maps.Size)},
		{"metallic", material.GrayImage(maps.Metallic, maps.Size)},
		{"ao", material.GrayImage(maps.AO, maps.Size)},
	}

	paths := make([]string, 0, len(images))
	for _, im := range images {
		path, err := w.WriteImage(im.name, im.img)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// CaptureFromPixels saves a bottom-up RGBA framebuffer readback with a
// timestamped name. The image is flipped vertically.
func (w *Writer) CaptureFromPixels(pixels []byte, width, height int) (string, error) {
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		srcOffset := (height - 1 - y) * rowSize
		dstOffset := y * img.Stride
		copy(img.Pix[dstOffset:dstOffset+rowSize], pixels[srcOffset:srcOffset+rowSize])
	}

	return w.WriteImage("capture_"+time.Now().Format("2006-01-02_15-04-05"), img)
}
