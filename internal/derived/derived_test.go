package derived

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/puffrelief/internal/heightfield"
	"github.com/Faultbox/puffrelief/internal/puff"
)

func dome(n int) *heightfield.Grid {
	g := heightfield.NewGrid(n)
	c := float64(n-1) / 2
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			d := math.Hypot(float64(x)-c, float64(y)-c) / c
			g.Set(x, y, math.Max(0, 1-d*d))
		}
	}
	return g
}

func TestGenerateRejectsBadDimensions(t *testing.T) {
	gen := NewGenerator(Options{})

	_, err := gen.Generate(nil, 0.5)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = gen.Generate(&heightfield.Grid{Size: 0}, 0.5)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = gen.Generate(&heightfield.Grid{Size: 4, Data: make([]float64, 12)}, 0.5)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestGenerateSizes(t *testing.T) {
	m, err := NewGenerator(Options{}).Generate(dome(32), 0.5)
	require.NoError(t, err)
	assert.Equal(t, 32, m.Size)
	assert.Len(t, m.Normal, 32*32*3)
	assert.Len(t, m.Roughness, 32*32)
	assert.Len(t, m.Metallic, 32*32)
	assert.Len(t, m.AO, 32*32)
}

func TestNormalsEncodedAndUnit(t *testing.T) {
	g := dome(48)
	m, err := NewGenerator(Options{}).Generate(g, 0.8)
	require.NoError(t, err)

	for _, v := range m.Normal {
		require.True(t, v >= 0 && v <= 1, "encoded channel %v", v)
	}
	for y := 1; y < m.Size-1; y++ {
		for x := 1; x < m.Size-1; x++ {
			assert.InDelta(t, 1, m.DecodeNormal(x, y).Length(), 1e-9)
		}
	}

	// Flat center points straight up; the left flank leans toward -x
	c := m.Size / 2
	assert.Greater(t, m.DecodeNormal(c, c).Z, 0.99)
	assert.Less(t, m.DecodeNormal(6, c).X, 0.0)
}

func TestNormalStrengthFloor(t *testing.T) {
	g := dome(16)
	flat := NormalMap(g, 0)
	floor := NormalMap(g, 0.05)
	assert.Equal(t, flat, floor, "strength is at least 0.1")
}

func TestRoughnessRange(t *testing.T) {
	for _, curv := range []float64{0, 0.5, 1.5} {
		for _, v := range RoughnessMap(dome(32), curv) {
			require.True(t, v >= MinRoughness && v <= MaxRoughness, "roughness %v", v)
		}
	}
	// Flat empty fabric is rough, the top of the puff is smoother
	r := RoughnessMap(dome(32), 0.5)
	assert.Greater(t, r[0], r[16*32+16])
}

func TestMetallicConstant(t *testing.T) {
	m, err := NewGenerator(Options{}).Generate(dome(8), 0.5)
	require.NoError(t, err)
	for _, v := range m.Metallic {
		assert.Equal(t, 0.0, v)
	}
	for _, v := range MetallicMap(dome(8), 0.3) {
		assert.Equal(t, 0.3, v)
	}
}

func TestAORangeAndShape(t *testing.T) {
	g := dome(64)
	ao := AmbientOcclusionMap(g, 0.5)
	for _, v := range ao {
		require.True(t, v >= MinAO && v <= MaxAO, "ao %v", v)
	}
	// The peak is fully lit; the foot of the dome is occluded by it
	assert.Equal(t, 1.0, ao[32*64+32])
	assert.Less(t, ao[32*64+3], 1.0)

	// Flat grids have no occlusion
	for _, v := range AmbientOcclusionMap(heightfield.NewGrid(16), 0.5) {
		assert.Equal(t, 1.0, v)
	}
}

func TestAORadius(t *testing.T) {
	assert.Equal(t, 2, AORadius(16))
	assert.Equal(t, 3, AORadius(64))
	assert.Equal(t, 26, AORadius(512))
}

func TestGenerateFromSynthesizedPuff(t *testing.T) {
	synth := heightfield.NewSynthesizer(heightfield.Options{NoiseSeed: 1})
	p := puff.DefaultParameters()
	p.Size = 16
	g, err := synth.Synthesize(p, "derived")
	require.NoError(t, err)

	m, err := NewGenerator(Options{}).Generate(g, p.Curvature)
	require.NoError(t, err)
	assert.Equal(t, g.Size, m.Size)
	for _, v := range m.AO {
		require.True(t, v >= MinAO && v <= MaxAO)
	}
}
