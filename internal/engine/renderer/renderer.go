// Package renderer shades composite relief materials with OpenGL.
package renderer

import (
	"fmt"
	"math"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/puffrelief/internal/engine/shader"
	"github.com/Faultbox/puffrelief/internal/logger"
)

// Relief is the input of one lit relief draw. Texture ids of 0 are unbound.
type Relief struct {
	Height, Normal, Roughness, AO uint32

	DisplacementScale float32
	DisplacementBias  float32
	NormalIntensity   float32
	Metallic          float32
	RoughnessBias     float32
}

// Renderer draws a relief material as a lit fullscreen pass.
type Renderer struct {
	program *shader.Program
	vao     uint32
	light   [3]float32
	base    [3]float32
	log     *zap.Logger

	uniforms struct {
		height, normal, roughness, ao                  int32
		dispScale, dispBias, normalIntensity, metallic int32
		roughBias, hasRough, lightDir, baseColor       int32
	}
}

// New creates a renderer.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func New(log *zap.Logger) (*Renderer, error) {
	r := &Renderer{
		light: LightDirection(135, 45),
		base:  [3]float32{0.78, 0.74, 0.70},
		log:   logger.OrNop(log),
	}

	var err error
	r.program, err = shader.Link("relief",
		shader.Vertex(shader.ReliefVertexShader),
		shader.Fragment(shader.ReliefFragmentShader))
	if err != nil {
		return nil, fmt.Errorf("failed to create relief program: %w", err)
	}
	p, u := r.program, &r.uniforms
	u.height = p.Uniform("uHeight")
	u.normal = p.Uniform("uNormal")
	u.roughness = p.Uniform("uRoughness")
	u.ao = p.Uniform("uAO")
	u.dispScale = p.Uniform("uDisplacementScale")
	u.dispBias = p.Uniform("uDisplacementBias")
	u.normalIntensity = p.Uniform("uNormalIntensity")
	u.metallic = p.Uniform("uMetallic")
	u.roughBias = p.Uniform("uRoughnessBias")
	u.hasRough = p.Uniform("uHasRoughness")
	u.lightDir = p.Uniform("uLightDir")
	u.baseColor = p.Uniform("uBaseColor")

	// Core profile needs a bound VAO even without attributes.
	gl.GenVertexArrays(1, &r.vao)

	r.log.Debug("relief renderer ready", zap.Uint32("program", r.program.ID))
	return r, nil
}

// SetLight points the light by azimuth and elevation in degrees.
func (r *Renderer) SetLight(azimuth, elevation float64) {
	r.light = LightDirection(azimuth, elevation)
}

// Draw shades rel into the viewport rectangle.
func (r *Renderer) Draw(rel Relief, x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
	gl.Disable(gl.DEPTH_TEST)
	r.program.Use()

	textures := [4]uint32{rel.Height, rel.Normal, rel.Roughness, rel.AO}
	units := [4]int32{r.uniforms.height, r.uniforms.normal, r.uniforms.roughness, r.uniforms.ao}
	for i, tex := range textures {
		gl.ActiveTexture(gl.TEXTURE0 + uint32(i))
		gl.BindTexture(gl.TEXTURE_2D, tex)
		gl.Uniform1i(units[i], int32(i))
	}

	hasRough := int32(0)
	if rel.Roughness != 0 {
		hasRough = 1
	}
	u := &r.uniforms
	gl.Uniform1f(u.dispScale, rel.DisplacementScale)
	gl.Uniform1f(u.dispBias, rel.DisplacementBias)
	gl.Uniform1f(u.normalIntensity, rel.NormalIntensity)
	gl.Uniform1f(u.metallic, rel.Metallic)
	gl.Uniform1f(u.roughBias, rel.RoughnessBias)
	gl.Uniform1i(u.hasRough, hasRough)
	gl.Uniform3f(u.lightDir, r.light[0], r.light[1], r.light[2])
	gl.Uniform3f(u.baseColor, r.base[0], r.base[1], r.base[2])

	gl.BindVertexArray(r.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)

	for i := range textures {
		gl.ActiveTexture(gl.TEXTURE0 + uint32(i))
		gl.BindTexture(gl.TEXTURE_2D, 0)
	}
	gl.ActiveTexture(gl.TEXTURE0)
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Debug("closing relief renderer")
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
	r.program.Delete()
}

// LightDirection returns the unit vector toward a light at the given
// azimuth (counterclockwise from +X) and elevation above the surface.
func LightDirection(azimuth, elevation float64) [3]float32 {
	az := azimuth * math.Pi / 180
	el := elevation * math.Pi / 180
	return [3]float32{
		float32(math.Cos(el) * math.Cos(az)),
		float32(math.Cos(el) * math.Sin(az)),
		float32(math.Sin(el)),
	}
}
