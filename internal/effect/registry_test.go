package effect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/puffrelief/internal/meshres"
	"github.com/Faultbox/puffrelief/internal/puff"
	pmath "github.com/Faultbox/puffrelief/pkg/math"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newRegistry() *Registry {
	return NewRegistry(Options{Now: func() time.Time { return fixedNow }})
}

func smallParams() puff.Parameters {
	p := puff.DefaultParameters()
	p.Size = 16
	return p
}

var cube = meshres.Bounds{
	Min: pmath.Vec3{X: -1, Y: -1, Z: -1},
	Max: pmath.Vec3{X: 1, Y: 1, Z: 1},
}

func TestGeneratePuff(t *testing.T) {
	r := newRegistry()

	e, err := r.GeneratePuff(pmath.Vec2{X: 0.75, Y: 0.25}, smallParams(), cube)
	require.NoError(t, err)

	assert.Equal(t, "puff-1", e.ID)
	assert.True(t, e.Center.ApproxEqual(pmath.Vec3{X: 0.5, Y: 0.5, Z: 1}, 1e-12), "center %v", e.Center)
	assert.Equal(t, pmath.Vec3{Z: 1}, e.Normal)
	assert.Equal(t, fixedNow, e.Timestamp)
	assert.Equal(t, 64, e.Height.Size)
	assert.Equal(t, 64, e.Maps.Size)
	assert.Len(t, e.Preview.Vertices, 17)
	assert.False(t, e.Replica())

	got, ok := r.Get("puff-1")
	require.True(t, ok)
	assert.Same(t, e, got)

	e2, err := r.GeneratePuff(pmath.Vec2{X: 0.5, Y: 0.5}, smallParams(), cube)
	require.NoError(t, err)
	assert.Equal(t, "puff-2", e2.ID)
	assert.Equal(t, []*Effect{e, e2}, r.List())
}

func TestGeneratePuffInvalidStoresNothing(t *testing.T) {
	r := newRegistry()
	p := smallParams()
	p.Size = 0

	_, err := r.GeneratePuff(pmath.Vec2{}, p, cube)
	assert.ErrorIs(t, err, puff.ErrInvalidSize)
	assert.Zero(t, r.Len())

	e, err := r.GeneratePuff(pmath.Vec2{}, smallParams(), cube)
	require.NoError(t, err)
	assert.Equal(t, "puff-1", e.ID)
}

func TestGeneratePuffAt(t *testing.T) {
	r := newRegistry()
	at := Placement{
		MeshID:   "sleeve",
		TexCoord: pmath.Vec2{X: 0.1, Y: 0.2},
		Position: pmath.Vec3{X: 3, Y: 2, Z: 1},
		Normal:   pmath.Vec3{X: 1},
	}
	e, err := r.GeneratePuffAt(at, smallParams())
	require.NoError(t, err)
	assert.Equal(t, "sleeve", e.MeshID)
	assert.Equal(t, at.Position, e.Center)
	assert.Equal(t, at.TexCoord, e.TexCoord)
	assert.Equal(t, []*Effect{e}, r.ForMesh("sleeve"))
	assert.Empty(t, r.ForMesh("collar"))
}

func TestApplySymmetryAboutY(t *testing.T) {
	r := newRegistry()
	e, err := r.GeneratePuffAt(Placement{
		Position: pmath.Vec3{X: 1, Y: 0.5, Z: 0},
		Normal:   pmath.Vec3{X: 1},
	}, smallParams())
	require.NoError(t, err)

	sym := puff.Symmetry{Enabled: true, Axis: puff.AxisY, Count: 4}
	all, err := r.ApplySymmetry(e, sym, cube)
	require.NoError(t, err)
	require.Len(t, all, 4)

	want := []pmath.Vec3{
		{X: 1, Y: 0.5, Z: 0},
		{X: 0, Y: 0.5, Z: -1},
		{X: -1, Y: 0.5, Z: 0},
		{X: 0, Y: 0.5, Z: 1},
	}
	for i, got := range all {
		assert.True(t, got.Center.ApproxEqual(want[i], 1e-9), "replica %d: %v", i, got.Center)
	}
	assert.Same(t, e, all[0])
	assert.True(t, all[2].Normal.ApproxEqual(pmath.Vec3{X: -1}, 1e-9))

	for i, rep := range all[1:] {
		assert.Equal(t, e.ID+"-symmetry-"+string(rune('1'+i)), rep.ID)
		assert.Same(t, e.Height, rep.Height)
		assert.Same(t, e.Maps, rep.Maps)
		assert.Equal(t, e.ID, rep.Origin)
		assert.True(t, rep.Preview.Vertices[0].ApproxEqual(rep.Center, 1e-9))
	}
	assert.Equal(t, 4, r.Len())
}

func TestApplySymmetryDisabledOrInvalid(t *testing.T) {
	r := newRegistry()
	e, err := r.GeneratePuff(pmath.Vec2{X: 0.5, Y: 0.5}, smallParams(), cube)
	require.NoError(t, err)

	all, err := r.ApplySymmetry(e, puff.Symmetry{Count: 4}, cube)
	require.NoError(t, err)
	assert.Equal(t, []*Effect{e}, all)

	_, err = r.ApplySymmetry(e, puff.Symmetry{Enabled: true, Count: 0}, cube)
	assert.ErrorIs(t, err, puff.ErrInvalidSymmetry)
	assert.Equal(t, 1, r.Len())
}

func TestReplicaTexCoord(t *testing.T) {
	r := newRegistry()
	e, err := r.GeneratePuff(pmath.Vec2{X: 0.75, Y: 0.5}, smallParams(), cube)
	require.NoError(t, err)

	all, err := r.ApplySymmetry(e, puff.Symmetry{Enabled: true, Axis: puff.AxisZ, Count: 2}, cube)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, all[1].TexCoord.X, 1e-9)
	assert.InDelta(t, 0.5, all[1].TexCoord.Y, 1e-9)
}

func TestRemoveClearDispose(t *testing.T) {
	r := newRegistry()
	a, err := r.GeneratePuff(pmath.Vec2{}, smallParams(), cube)
	require.NoError(t, err)
	b, err := r.GeneratePuff(pmath.Vec2{}, smallParams(), cube)
	require.NoError(t, err)

	require.NoError(t, r.Remove(a.ID))
	assert.ErrorIs(t, r.Remove(a.ID), ErrNotFound)
	assert.Equal(t, []*Effect{b}, r.List())

	r.Clear()
	assert.Zero(t, r.Len())
	assert.Empty(t, r.List())

	c, err := r.GeneratePuff(pmath.Vec2{}, smallParams(), cube)
	require.NoError(t, err)
	r.Dispose()
	r.Dispose()
	assert.Zero(t, r.Len())
	assert.Nil(t, c.Height)
	assert.Nil(t, c.Preview)

	d, err := r.GeneratePuff(pmath.Vec2{}, smallParams(), cube)
	require.NoError(t, err)
	assert.Equal(t, "puff-4", d.ID)
}
