package meshres

import pmath "github.com/Faultbox/puffrelief/pkg/math"

// Locate finds the surface point whose texture coordinate is uv by searching
// the mesh triangles in UV space. Position and normal are interpolated with
// the barycentric weights of the first triangle containing uv.
func (r *Resolution) Locate(uv pmath.Vec2) (Surface, bool) {
	const eps = 1e-9

	for t := 0; t+2 < len(r.Indices); t += 3 {
		i0, i1, i2 := r.Indices[t], r.Indices[t+1], r.Indices[t+2]
		a, b, c := r.UVs[i0], r.UVs[i1], r.UVs[i2]

		area := b.Sub(a).Cross(c.Sub(a))
		if area > -eps && area < eps {
			continue // degenerate in UV space
		}
		w1 := uv.Sub(a).Cross(c.Sub(a)) / area
		w2 := b.Sub(a).Cross(uv.Sub(a)) / area
		w0 := 1 - w1 - w2
		if w0 < -eps || w1 < -eps || w2 < -eps {
			continue
		}

		pos := r.Vertices[i0].Scale(w0).Add(r.Vertices[i1].Scale(w1)).Add(r.Vertices[i2].Scale(w2))
		n := r.Normals[i0].Scale(w0).Add(r.Normals[i1].Scale(w1)).Add(r.Normals[i2].Scale(w2)).Normalize()
		if n == (pmath.Vec3{}) {
			// Opposing vertex normals: fall back to the geometric face normal
			e1 := r.Vertices[i1].Sub(r.Vertices[i0])
			e2 := r.Vertices[i2].Sub(r.Vertices[i0])
			n = e1.Cross(e2).Normalize()
		}
		return Surface{Position: pos, Normal: n, Triangle: t / 3}, true
	}
	return Surface{}, false
}
