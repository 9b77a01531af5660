package framebuffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuadrants(t *testing.T) {
	q := Quadrants(101, 50)
	assert.Equal(t, Rect{X: 0, Y: 25, Width: 50, Height: 25}, q[0])
	assert.Equal(t, Rect{X: 50, Y: 25, Width: 51, Height: 25}, q[1])
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 50, Height: 25}, q[2])
	assert.Equal(t, Rect{X: 50, Y: 0, Width: 51, Height: 25}, q[3])
}

func TestFit(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 200, Height: 100}
	assert.Equal(t, Rect{X: 60, Y: 20, Width: 100, Height: 100}, r.Fit(0))
	assert.Equal(t, Rect{X: 78, Y: 38, Width: 64, Height: 64}, r.Fit(64))
	assert.Equal(t, Rect{X: 60, Y: 20, Width: 100, Height: 100}, r.Fit(512))
}

func TestUV(t *testing.T) {
	// Bottom-right quadrant of a 200x100 drawable.
	r := Rect{X: 100, Y: 0, Width: 100, Height: 50}

	u, v, ok := r.UV(150, 75, 100)
	assert.True(t, ok)
	assert.InDelta(t, 0.5, u, 1e-12)
	assert.InDelta(t, 0.5, v, 1e-12)

	// Top edge of the rect is v = 0.
	u, v, ok = r.UV(100, 50, 100)
	assert.True(t, ok)
	assert.InDelta(t, 0, u, 1e-12)
	assert.InDelta(t, 0, v, 1e-12)

	_, _, ok = r.UV(50, 75, 100)
	assert.False(t, ok)
	_, _, ok = Rect{}.UV(0, 0, 100)
	assert.False(t, ok)
}
