package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/puffrelief/internal/footprint"
	"github.com/Faultbox/puffrelief/internal/puff"
)

func TestNextShapeCycles(t *testing.T) {
	s := footprint.ShapeRound
	seen := map[footprint.Shape]bool{}
	for i := 0; i < 7; i++ {
		seen[s] = true
		s = nextShape(s)
	}
	assert.Len(t, seen, 7)
	assert.Equal(t, footprint.ShapeRound, s)
}

func TestToggleSymmetry(t *testing.T) {
	on := toggleSymmetry(puff.Symmetry{Count: 1})
	assert.True(t, on.Enabled)
	assert.NoError(t, on.Validate())

	off := toggleSymmetry(on)
	assert.False(t, off.Enabled)
	assert.NoError(t, off.Validate())
}

func TestResizeClamps(t *testing.T) {
	assert.Equal(t, 125.0, resize(100, 1.25))
	assert.Equal(t, float64(maxSize), resize(250, 1.25))
	assert.Equal(t, float64(minSize), resize(4, 0.8))
}

func TestViewRects(t *testing.T) {
	lit := viewRects(400, 200, true)
	assert.Len(t, lit, 1)
	assert.Equal(t, int32(200), lit[0].Width)
	assert.Equal(t, int32(100), lit[0].X)

	quads := viewRects(400, 200, false)
	assert.Len(t, quads, 4)
	for _, r := range quads {
		assert.Equal(t, int32(100), r.Width)
		assert.Equal(t, r.Width, r.Height)
	}
}
