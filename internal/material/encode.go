package material

import (
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/Faultbox/puffrelief/internal/heightfield"
)

// GrayImage encodes a scalar grid in [0,1] as an 8-bit gray image.
func GrayImage(data []float64, size int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, size, size))
	for i, v := range data {
		img.Pix[i] = toByte(v)
	}
	return img
}

// NormalImage encodes an encoded normal grid (three values per cell) as RGBA.
func NormalImage(data []float64, size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for i := 0; i < size*size; i++ {
		img.Pix[i*4] = toByte(data[i*3])
		img.Pix[i*4+1] = toByte(data[i*3+1])
		img.Pix[i*4+2] = toByte(data[i*3+2])
		img.Pix[i*4+3] = 255
	}
	return img
}

// fitGray downscales img to maxSize when it is larger.
func fitGray(img *image.Gray, maxSize int) *image.Gray {
	size := img.Bounds().Dx()
	target := heightfield.ClampResolution(size, maxSize)
	if target == size {
		return img
	}
	dst := image.NewGray(image.Rect(0, 0, target, target))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// fitRGBA downscales img to maxSize when it is larger.
func fitRGBA(img *image.RGBA, maxSize int) *image.RGBA {
	size := img.Bounds().Dx()
	target := heightfield.ClampResolution(size, maxSize)
	if target == size {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, target, target))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// SourceGrid converts a footprint source image into a square power-of-two
// height grid no larger than maxSize. Height is luminance weighted by alpha.
func SourceGrid(src image.Image, maxSize int) (*heightfield.Grid, error) {
	b := src.Bounds()
	if b.Empty() {
		return nil, ErrEmptySource
	}
	edge := heightfield.NextPow2(max(b.Dx(), b.Dy()))
	edge = heightfield.ClampResolution(edge, maxSize)

	dst := image.NewGray16(image.Rect(0, 0, edge, edge))
	if b.Dx() == edge && b.Dy() == edge {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	}

	grid := heightfield.NewGrid(edge)
	for y := 0; y < edge; y++ {
		for x := 0; x < edge; x++ {
			grid.Set(x, y, float64(dst.Gray16At(x, y).Y)/math.MaxUint16)
		}
	}
	return grid, nil
}

func toByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}
