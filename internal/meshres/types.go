// Package meshres extracts and caches per-mesh geometry from renderer-owned meshes.
package meshres

import pmath "github.com/Faultbox/puffrelief/pkg/math"

// Source is a renderer-owned mesh. Attribute slices are flat: three floats per
// position and normal, two per UV. Implementations must return the same data
// for the lifetime of the mesh; the resolver never writes to them.
type Source interface {
	ID() string
	Positions() []float32
	Normals() []float32
	UVs() []float32
	Indices() []uint32
}

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min pmath.Vec3
	Max pmath.Vec3
}

// Center returns the box centroid.
func (b Bounds) Center() pmath.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the box extent per axis.
func (b Bounds) Size() pmath.Vec3 {
	return b.Max.Sub(b.Min)
}

// Resolution is the geometry extracted from one mesh.
type Resolution struct {
	MeshID   string
	Vertices []pmath.Vec3
	Normals  []pmath.Vec3
	UVs      []pmath.Vec2
	Indices  []uint32
	Bounds   Bounds
}

// Surface is a located point on a mesh.
type Surface struct {
	Position pmath.Vec3
	Normal   pmath.Vec3
	Triangle int
}
