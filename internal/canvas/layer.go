// Package canvas accumulates puff height fields in texture space. A Layer
// is the footprint source a mesh's composite material is built from.
package canvas

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/Faultbox/puffrelief/internal/heightfield"
	pmath "github.com/Faultbox/puffrelief/pkg/math"
)

// MaxFootprintScale bounds a stamp's edge as a multiple of the canvas edge.
// Larger footprints are clamped; only their centre can land on the canvas.
const MaxFootprintScale = 16

// Layer is a square 16-bit height canvas covering a mesh's UV space.
// It is not safe for concurrent use.
type Layer struct {
	img    *image.Gray16
	stamps int
}

// NewLayer creates an empty size x size layer.
func NewLayer(size int) *Layer {
	if size < 1 {
		size = 1
	}
	return &Layer{img: image.NewGray16(image.Rect(0, 0, size, size))}
}

// Size returns the canvas edge in pixels.
func (l *Layer) Size() int {
	return l.img.Rect.Dx()
}

// Image returns the canvas. The image is owned by the layer and changes
// with later stamps.
func (l *Layer) Image() image.Image {
	return l.img
}

// Empty reports whether nothing has been stamped since the last Reset.
func (l *Layer) Empty() bool {
	return l.stamps == 0
}

// Reset clears the canvas.
func (l *Layer) Reset() {
	clear(l.img.Pix)
	l.stamps = 0
}

// Stamp resamples grid to a footprintPx square centred on uv and merges
// it into the canvas keeping the higher value per pixel. footprintPx is
// clamped to MaxFootprintScale times the canvas edge and only the part of
// the footprint covering the canvas is resampled. It reports whether any
// part of the footprint landed on the canvas.
func (l *Layer) Stamp(grid *heightfield.Grid, uv pmath.Vec2, footprintPx int) bool {
	if !grid.Valid() || footprintPx < 1 {
		return false
	}
	size := l.Size()
	footprintPx = min(footprintPx, size*MaxFootprintScale)
	if math.IsNaN(uv.X) || math.IsNaN(uv.Y) || math.Abs(uv.X) > MaxFootprintScale || math.Abs(uv.Y) > MaxFootprintScale {
		return false
	}
	cx := int(math.Round(uv.X * float64(size)))
	cy := int(math.Round(uv.Y * float64(size)))
	origin := image.Pt(cx-footprintPx/2, cy-footprintPx/2)
	dst := image.Rectangle{Min: origin, Max: origin.Add(image.Pt(footprintPx, footprintPx))}

	visible := dst.Intersect(l.img.Rect)
	if visible.Empty() {
		return false
	}

	stamp := image.NewGray16(image.Rect(0, 0, visible.Dx(), visible.Dy()))
	src := GridImage(grid)
	if footprintPx == grid.Size {
		draw.Draw(stamp, stamp.Rect, src, visible.Min.Sub(origin), draw.Src)
	} else {
		// Grid space to stamp space: scale, then shift by the clipped offset.
		k := float64(footprintPx) / float64(grid.Size)
		s2d := f64.Aff3{
			k, 0, float64(origin.X - visible.Min.X),
			0, k, float64(origin.Y - visible.Min.Y),
		}
		draw.BiLinear.Transform(stamp, s2d, src, src.Rect, draw.Src, nil)
	}

	for y := visible.Min.Y; y < visible.Max.Y; y++ {
		for x := visible.Min.X; x < visible.Max.X; x++ {
			v := stamp.Gray16At(x-visible.Min.X, y-visible.Min.Y).Y
			if v > l.img.Gray16At(x, y).Y {
				l.img.SetGray16(x, y, color.Gray16{Y: v})
			}
		}
	}
	l.stamps++
	return true
}

// GridImage encodes grid values in [0,1] as a 16-bit gray image.
func GridImage(grid *heightfield.Grid) *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, grid.Size, grid.Size))
	for y := 0; y < grid.Size; y++ {
		for x := 0; x < grid.Size; x++ {
			img.SetGray16(x, y, color.Gray16{Y: toUint16(grid.At(x, y))})
		}
	}
	return img
}

func toUint16(v float64) uint16 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return math.MaxUint16
	}
	return uint16(math.Round(v * math.MaxUint16))
}
