package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/puffrelief/internal/heightfield"
	pmath "github.com/Faultbox/puffrelief/pkg/math"
)

func flatGrid(size int, v float64) *heightfield.Grid {
	g := heightfield.NewGrid(size)
	for i := range g.Data {
		g.Data[i] = v
	}
	return g
}

func TestStampCentered(t *testing.T) {
	l := NewLayer(64)
	require.True(t, l.Empty())

	ok := l.Stamp(flatGrid(8, 1), pmath.Vec2{X: 0.5, Y: 0.5}, 8)
	require.True(t, ok)
	assert.False(t, l.Empty())

	img := l.img
	assert.Equal(t, uint16(65535), img.Gray16At(32, 32).Y)
	assert.Equal(t, uint16(65535), img.Gray16At(28, 28).Y)
	assert.Equal(t, uint16(65535), img.Gray16At(35, 35).Y)
	assert.Zero(t, img.Gray16At(27, 32).Y)
	assert.Zero(t, img.Gray16At(36, 32).Y)
}

func TestStampKeepsMaximum(t *testing.T) {
	l := NewLayer(32)
	uv := pmath.Vec2{X: 0.5, Y: 0.5}
	l.Stamp(flatGrid(4, 1), uv, 4)
	l.Stamp(flatGrid(4, 0.25), uv, 4)

	assert.Equal(t, uint16(65535), l.img.Gray16At(16, 16).Y)
}

func TestStampClipsAtEdge(t *testing.T) {
	l := NewLayer(16)
	assert.True(t, l.Stamp(flatGrid(4, 1), pmath.Vec2{X: 0, Y: 0}, 4))
	assert.Equal(t, uint16(65535), l.img.Gray16At(0, 0).Y)
	assert.Equal(t, uint16(65535), l.img.Gray16At(1, 1).Y)
	assert.Zero(t, l.img.Gray16At(2, 2).Y)

	assert.False(t, l.Stamp(flatGrid(4, 1), pmath.Vec2{X: 3, Y: 3}, 4))
	assert.False(t, l.Stamp(heightfield.NewGrid(0), pmath.Vec2{X: 0.5, Y: 0.5}, 4))
}

func TestStampResamples(t *testing.T) {
	l := NewLayer(128)
	l.Stamp(flatGrid(64, 1), pmath.Vec2{X: 0.5, Y: 0.5}, 16)
	assert.Greater(t, l.img.Gray16At(64, 64).Y, uint16(65000))
	assert.Zero(t, l.img.Gray16At(80, 64).Y)
}

func TestStampClampsHugeFootprint(t *testing.T) {
	l := NewLayer(16)
	require.True(t, l.Stamp(flatGrid(8, 1), pmath.Vec2{X: 0.5, Y: 0.5}, 1<<40))

	for _, p := range [][2]int{{0, 0}, {8, 8}, {15, 15}, {0, 15}} {
		assert.Greater(t, l.img.Gray16At(p[0], p[1]).Y, uint16(65000), "pixel %v", p)
	}

	assert.False(t, l.Stamp(flatGrid(8, 1), pmath.Vec2{X: 1e18, Y: 0.5}, 1<<40))
}

func TestStampPartialResample(t *testing.T) {
	// Left half high, right half low; a stamp hanging off the right edge
	// keeps the left half of the footprint in place.
	g := heightfield.NewGrid(8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 4; x++ {
			g.Set(x, y, 1)
		}
	}
	l := NewLayer(32)
	require.True(t, l.Stamp(g, pmath.Vec2{X: 1, Y: 0.5}, 16))

	assert.Greater(t, l.img.Gray16At(26, 16).Y, uint16(65000))
	assert.Zero(t, l.img.Gray16At(23, 16).Y)
}

func TestReset(t *testing.T) {
	l := NewLayer(16)
	l.Stamp(flatGrid(4, 1), pmath.Vec2{X: 0.5, Y: 0.5}, 4)
	l.Reset()
	assert.True(t, l.Empty())
	for _, b := range l.img.Pix {
		assert.Zero(t, b)
	}
}
