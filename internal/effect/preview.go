package effect

import (
	"math"

	pmath "github.com/Faultbox/puffrelief/pkg/math"
)

// Preview is a small raised-ring mesh drawn at an effect's position.
type Preview struct {
	Vertices  []pmath.Vec3
	Triangles []uint32
	UVs       []pmath.Vec2
}

// Ring proportions of the preview.
const (
	previewTopScale = 0.8
	previewLift     = 0.25
)

// MaxPreviewSegments caps the ring of very large footprints.
const MaxPreviewSegments = 512

// PreviewSegments returns the ring segment count for a footprint size.
func PreviewSegments(size float64) int {
	return int(max(8, min(MaxPreviewSegments, math.Floor(size/10))))
}

// BuildPreview builds the ring geometry around center, raised along normal.
// Vertex 0 is the base center, followed by the bottom ring and the top ring.
func BuildPreview(center, normal pmath.Vec3, radius, height, size float64) *Preview {
	segs := PreviewSegments(size)
	n := normal.Normalize()
	if n.Length() == 0 {
		n = pmath.Vec3{Z: 1}
	}
	orient := pmath.QuatFromTo(pmath.Vec3{Z: 1}, n)

	p := &Preview{
		Vertices:  make([]pmath.Vec3, 0, 1+2*segs),
		UVs:       make([]pmath.Vec2, 0, 1+2*segs),
		Triangles: make([]uint32, 0, 9*segs),
	}
	p.Vertices = append(p.Vertices, center)
	p.UVs = append(p.UVs, pmath.Vec2{X: 0.5, Y: 0.5})

	ring := func(scale, lift float64) {
		for i := 0; i < segs; i++ {
			a := 2 * math.Pi * float64(i) / float64(segs)
			c, s := math.Cos(a), math.Sin(a)
			local := pmath.Vec3{X: c * radius * scale, Y: s * radius * scale, Z: lift}
			p.Vertices = append(p.Vertices, center.Add(orient.Rotate(local)))
			p.UVs = append(p.UVs, pmath.Vec2{X: 0.5 + 0.5*scale*c, Y: 0.5 + 0.5*scale*s})
		}
	}
	ring(1, 0)
	ring(previewTopScale, height)

	bottom := func(i int) uint32 { return uint32(1 + i%segs) }
	top := func(i int) uint32 { return uint32(1 + segs + i%segs) }
	for i := 0; i < segs; i++ {
		p.Triangles = append(p.Triangles,
			bottom(i), bottom(i+1), top(i),
			top(i), bottom(i+1), top(i+1),
			0, bottom(i+1), bottom(i),
		)
	}
	return p
}

// Transform returns a copy of p with every vertex mapped through fn.
func (p *Preview) Transform(fn func(pmath.Vec3) pmath.Vec3) *Preview {
	if p == nil {
		return nil
	}
	out := &Preview{
		Vertices:  make([]pmath.Vec3, len(p.Vertices)),
		Triangles: p.Triangles,
		UVs:       p.UVs,
	}
	for i, v := range p.Vertices {
		out.Vertices[i] = fn(v)
	}
	return out
}
