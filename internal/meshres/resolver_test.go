package meshres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pmath "github.com/Faultbox/puffrelief/pkg/math"
)

func TestResolveQuad(t *testing.T) {
	r := NewResolver(nil)
	res, err := r.Resolve(NewQuad("shirt-front", 2, 4))
	require.NoError(t, err)

	assert.Equal(t, "shirt-front", res.MeshID)
	assert.Len(t, res.Vertices, 4)
	assert.Len(t, res.Normals, 4)
	assert.Len(t, res.UVs, 4)
	assert.Equal(t, pmath.Vec3{X: -1, Y: -2, Z: 0}, res.Bounds.Min)
	assert.Equal(t, pmath.Vec3{X: 1, Y: 2, Z: 0}, res.Bounds.Max)
	assert.Equal(t, pmath.Vec3{}, res.Bounds.Center())
	assert.Equal(t, pmath.Vec3{X: 2, Y: 4}, res.Bounds.Size())
}

func TestResolveIsCachedByIdentity(t *testing.T) {
	r := NewResolver(nil)
	mesh := NewQuad("sleeve", 1, 1)

	a, err := r.Resolve(mesh)
	require.NoError(t, err)
	b, err := r.Resolve(mesh)
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 1, r.Len())

	r.Forget("sleeve")
	c, err := r.Resolve(mesh)
	require.NoError(t, err)
	assert.NotSame(t, a, c)

	r.Clear()
	assert.Equal(t, 0, r.Len())
}

func TestResolveDoesNotMutateSource(t *testing.T) {
	mesh := NewQuad("collar", 1, 1)
	before := append([]float32(nil), mesh.Position...)

	res, err := NewResolver(nil).Resolve(mesh)
	require.NoError(t, err)
	res.Vertices[0] = pmath.Vec3{X: 100}
	res.Indices[0] = 3

	assert.Equal(t, before, mesh.Position)
	assert.Equal(t, uint32(0), mesh.IndexList[0])
}

func TestResolveMissingAttributes(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*StaticMesh)
	}{
		{"no positions", func(m *StaticMesh) { m.Position = nil }},
		{"no normals", func(m *StaticMesh) { m.Normal = nil }},
		{"no uvs", func(m *StaticMesh) { m.TexCoord = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(nil)
			m := NewQuad("broken", 1, 1)
			tt.mutate(m)
			_, err := r.Resolve(m)
			assert.ErrorIs(t, err, ErrMissingAttributes)
			assert.Equal(t, 0, r.Len(), "failed resolves are not cached")
		})
	}
}

func TestResolveAttributeMismatch(t *testing.T) {
	m := NewQuad("ragged", 1, 1)
	m.TexCoord = m.TexCoord[:6]
	_, err := NewResolver(nil).Resolve(m)
	assert.ErrorIs(t, err, ErrAttributeMismatch)

	m = NewQuad("bad-index", 1, 1)
	m.IndexList = []uint32{0, 1, 9}
	_, err = NewResolver(nil).Resolve(m)
	assert.ErrorIs(t, err, ErrAttributeMismatch)
}

func TestResolveNonIndexed(t *testing.T) {
	m := NewQuad("tri-list", 1, 1)
	m.IndexList = nil
	res, err := NewResolver(nil).Resolve(m)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2}, res.Indices)
}

func TestLocate(t *testing.T) {
	res, err := NewResolver(nil).Resolve(NewQuad("front", 2, 2))
	require.NoError(t, err)

	s, ok := res.Locate(pmath.Vec2{X: 0.5, Y: 0.5})
	require.True(t, ok)
	assert.True(t, s.Position.ApproxEqual(pmath.Vec3{}, 1e-9), "got %v", s.Position)
	assert.True(t, s.Normal.ApproxEqual(pmath.Vec3{Z: 1}, 1e-9))

	// UV (0,0) is the top-left corner
	s, ok = res.Locate(pmath.Vec2{X: 0, Y: 0})
	require.True(t, ok)
	assert.True(t, s.Position.ApproxEqual(pmath.Vec3{X: -1, Y: 1}, 1e-9), "got %v", s.Position)

	s, ok = res.Locate(pmath.Vec2{X: 0.75, Y: 0.25})
	require.True(t, ok)
	assert.True(t, s.Position.ApproxEqual(pmath.Vec3{X: 0.5, Y: 0.5}, 1e-9), "got %v", s.Position)

	_, ok = res.Locate(pmath.Vec2{X: 1.5, Y: 0.5})
	assert.False(t, ok)
}
