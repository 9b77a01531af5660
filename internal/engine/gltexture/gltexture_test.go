package gltexture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/puffrelief/internal/material"
)

func TestExpandGray(t *testing.T) {
	out, err := Expand(material.FormatGray, 2, []byte{0, 64, 128, 255})
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0, 0, 0, 255,
		64, 64, 64, 255,
		128, 128, 128, 255,
		255, 255, 255, 255,
	}, out)
}

func TestExpandRGBACopies(t *testing.T) {
	in := []byte{1, 2, 3, 4}
	out, err := Expand(material.FormatRGBA, 1, in)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	out[0] = 9
	assert.Equal(t, byte(1), in[0])
}

func TestExpandSizeMismatch(t *testing.T) {
	_, err := Expand(material.FormatGray, 2, []byte{1, 2, 3})
	assert.Error(t, err)
	_, err = Expand(material.FormatRGBA, 1, []byte{1, 2, 3})
	assert.Error(t, err)
}
