package puff

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/puffrelief/internal/footprint"
	pmath "github.com/Faultbox/puffrelief/pkg/math"
)

func TestDefaultParametersValid(t *testing.T) {
	require.NoError(t, DefaultParameters().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Parameters)
		want   error
	}{
		{"zero size", func(p *Parameters) { p.Size = 0 }, ErrInvalidSize},
		{"negative size", func(p *Parameters) { p.Size = -5 }, ErrInvalidSize},
		{"nan height", func(p *Parameters) { p.Height = math.NaN() }, ErrInvalidParameter},
		{"opacity above one", func(p *Parameters) { p.Opacity = 1.2 }, ErrInvalidParameter},
		{"flow above range", func(p *Parameters) { p.Flow = 1.6 }, ErrInvalidParameter},
		{"negative curvature", func(p *Parameters) { p.Curvature = -0.1 }, ErrInvalidParameter},
		{"pattern without scale", func(p *Parameters) {
			p.Pattern = PatternSpec{Kind: PatternPolka}
		}, ErrInvalidParameter},
		{"symmetry count zero", func(p *Parameters) {
			p.Symmetry = Symmetry{Enabled: true, Count: 0}
		}, ErrInvalidSymmetry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParameters()
			tt.mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestDisabledSymmetryIgnoresCount(t *testing.T) {
	assert.NoError(t, Symmetry{Enabled: false, Count: 0}.Validate())
}

func TestParsePatternAndAxis(t *testing.T) {
	k, err := ParsePattern("Polka")
	require.NoError(t, err)
	assert.Equal(t, PatternPolka, k)

	_, err = ParsePattern("plaid")
	assert.ErrorIs(t, err, ErrInvalidParameter)

	a, err := ParseAxis("z")
	require.NoError(t, err)
	assert.Equal(t, AxisZ, a)
	assert.Equal(t, pmath.Vec3{Z: 1}, a.Vector())
	assert.Equal(t, pmath.Vec3{Y: 1}, AxisY.Vector())
}

func TestParametersYAML(t *testing.T) {
	src := `
height: 2
curvature: 0.7
shape: diamond
size: 64
opacity: 0.9
hardness: 0.3
flow: 1.2
pattern:
  kind: stripes
  scale: 2
symmetry:
  enabled: true
  axis: x
  count: 6
`
	p := DefaultParameters()
	require.NoError(t, yaml.Unmarshal([]byte(src), &p))

	assert.Equal(t, footprint.ShapeDiamond, p.Shape)
	assert.Equal(t, PatternStripes, p.Pattern.Kind)
	assert.Equal(t, AxisX, p.Symmetry.Axis)
	assert.Equal(t, 6, p.Symmetry.Count)
	assert.NoError(t, p.Validate())

	out, err := yaml.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(out), "shape: diamond")
}
