package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/puffrelief/internal/footprint"
	"github.com/Faultbox/puffrelief/internal/puff"
)

func parse(t *testing.T, args ...string) (puff.Parameters, error) {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	pf := bindParams(fs)
	require.NoError(t, fs.Parse(args))
	return pf.resolve(fs)
}

func TestResolveDefaults(t *testing.T) {
	p, err := parse(t)
	require.NoError(t, err)
	assert.Equal(t, puff.DefaultParameters(), p)
}

func TestResolveFlags(t *testing.T) {
	p, err := parse(t, "-size", "40", "-shape", "triangle", "-pattern", "grid", "-rotation", "15")
	require.NoError(t, err)
	assert.Equal(t, 40.0, p.Size)
	assert.Equal(t, footprint.ShapeTriangle, p.Shape)
	assert.Equal(t, puff.PatternGrid, p.Pattern.Kind)
	assert.Equal(t, 15.0, p.Rotation)
}

func TestResolveFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.yaml")
	require.NoError(t, os.WriteFile(path, []byte("size: 30\nshape: square\n"), 0644))

	p, err := parse(t, "-params", path, "-size", "60")
	require.NoError(t, err)
	assert.Equal(t, 60.0, p.Size)
	assert.Equal(t, footprint.ShapeSquare, p.Shape)
}

func TestResolveErrors(t *testing.T) {
	_, err := parse(t, "-shape", "hexagon")
	assert.Error(t, err)

	_, err = parse(t, "-size", "0")
	assert.ErrorIs(t, err, puff.ErrInvalidSize)

	_, err = parse(t, "-opacity", "2")
	assert.ErrorIs(t, err, puff.ErrInvalidParameter)
}
