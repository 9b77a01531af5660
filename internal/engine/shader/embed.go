package shader

import _ "embed"

// ReliefVertexShader draws a fullscreen triangle.
//
//go:embed relief.vert
var ReliefVertexShader string

// ReliefFragmentShader shades a composite relief material.
//
//go:embed relief.frag
var ReliefFragmentShader string
