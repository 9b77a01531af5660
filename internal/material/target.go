package material

import "github.com/Faultbox/puffrelief/internal/meshres"

// Basic is a plain named material.
type Basic struct {
	Label string
}

// Name implements Material.
func (b *Basic) Name() string { return b.Label }

// MeshTarget attaches a swappable material to a static mesh.
type MeshTarget struct {
	*meshres.StaticMesh
	current Material
}

// NewMeshTarget wraps mesh with its initial material.
func NewMeshTarget(mesh *meshres.StaticMesh, m Material) *MeshTarget {
	return &MeshTarget{StaticMesh: mesh, current: m}
}

// Material implements Target.
func (t *MeshTarget) Material() Material { return t.current }

// SetMaterial implements Target.
func (t *MeshTarget) SetMaterial(m Material) { t.current = m }
