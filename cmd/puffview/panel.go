package main

import (
	"github.com/Faultbox/puffrelief/internal/engine/framebuffer"
	"github.com/Faultbox/puffrelief/internal/footprint"
	"github.com/Faultbox/puffrelief/internal/meshres"
	"github.com/Faultbox/puffrelief/internal/puff"
	pmath "github.com/Faultbox/puffrelief/pkg/math"
)

const (
	minSize = 4
	maxSize = 256
)

func newPanel() *meshres.StaticMesh {
	return meshres.NewQuad("panel", 1, 1)
}

// pointToUV maps a window point to panel texture coordinates through
// whichever view rectangle contains it.
func (v *viewer) pointToUV(x, y int) (pmath.Vec2, bool) {
	dw, dh := v.win.GetSize()
	ww, wh := v.win.PointSize()
	sx, sy := scale(dw, ww), scale(dh, wh)
	px, py := float64(x)*sx, float64(y)*sy

	for _, r := range viewRects(int32(dw), int32(dh), v.lit) {
		if u, vv, ok := r.UV(px, py, int32(dh)); ok {
			return pmath.Vec2{X: u, Y: vv}, true
		}
	}
	return pmath.Vec2{}, false
}

// viewRects returns where the panel texture is drawn: one square in the
// lit view, one per map quadrant otherwise.
func viewRects(w, h int32, lit bool) []framebuffer.Rect {
	if lit {
		return []framebuffer.Rect{framebuffer.Rect{Width: w, Height: h}.Fit(0)}
	}
	quads := framebuffer.Quadrants(w, h)
	rects := make([]framebuffer.Rect, len(quads))
	for i, q := range quads {
		rects[i] = q.Fit(0)
	}
	return rects
}

func scale(pixels, points int) float64 {
	if points <= 0 {
		return 1
	}
	return float64(pixels) / float64(points)
}

func nextShape(s footprint.Shape) footprint.Shape {
	if s >= footprint.ShapeSoft {
		return footprint.ShapeRound
	}
	return s + 1
}

func toggleSymmetry(s puff.Symmetry) puff.Symmetry {
	if s.Enabled {
		return puff.Symmetry{Axis: s.Axis, Count: 1}
	}
	return puff.Symmetry{Enabled: true, Axis: puff.AxisZ, Count: 4}
}

func resize(size, factor float64) float64 {
	return min(maxSize, max(minSize, size*factor))
}
