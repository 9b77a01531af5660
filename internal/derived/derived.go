// Package derived computes the shading maps (normal, roughness, metallic,
// ambient occlusion) of a height field.
package derived

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/Faultbox/puffrelief/internal/footprint"
	"github.com/Faultbox/puffrelief/internal/heightfield"
	"github.com/Faultbox/puffrelief/internal/logger"
	pmath "github.com/Faultbox/puffrelief/pkg/math"
)

// ErrDimensionMismatch is returned for empty or non-square height fields.
var ErrDimensionMismatch = errors.New("derived: height field must be square and non-empty")

// Value ranges of the scalar maps.
const (
	MinRoughness = 0.2
	MaxRoughness = 0.9
	MinAO        = 0.2
	MaxAO        = 1.0
)

// Maps holds the derived grids, co-indexed with the source height field.
type Maps struct {
	Size int
	// Normal stores encoded (x, y, z) triplets in [0,1] per cell.
	Normal    []float64
	Roughness []float64
	Metallic  []float64
	AO        []float64
}

// Options configures a Generator.
type Options struct {
	// Metallic is the constant metallic value; fabric is 0.
	Metallic float64
	Logger   *zap.Logger
}

// Generator derives shading maps from height fields.
type Generator struct {
	metallic float64
	log      *zap.Logger
}

// NewGenerator creates a generator.
func NewGenerator(opts Options) *Generator {
	return &Generator{
		metallic: opts.Metallic,
		log:      logger.OrNop(opts.Logger),
	}
}

// Generate computes all four maps for grid. curvature scales the normal
// strength and ambient occlusion.
func (g *Generator) Generate(grid *heightfield.Grid, curvature float64) (*Maps, error) {
	if err := check(grid); err != nil {
		return nil, err
	}
	m := &Maps{
		Size:      grid.Size,
		Normal:    NormalMap(grid, curvature),
		Roughness: RoughnessMap(grid, curvature),
		Metallic:  MetallicMap(grid, g.metallic),
		AO:        AmbientOcclusionMap(grid, curvature),
	}
	g.log.Debug("derived maps generated", zap.Int("size", grid.Size))
	return m, nil
}

func check(grid *heightfield.Grid) error {
	if grid == nil || grid.Size <= 0 {
		return fmt.Errorf("%w: empty grid", ErrDimensionMismatch)
	}
	if len(grid.Data) != grid.Size*grid.Size {
		return fmt.Errorf("%w: %d values for edge %d", ErrDimensionMismatch, len(grid.Data), grid.Size)
	}
	return nil
}

// gradient returns the central differences of grid at (x, y), edge-clamped.
func gradient(grid *heightfield.Grid, x, y int) (dx, dy float64) {
	dx = grid.AtClamped(x+1, y) - grid.AtClamped(x-1, y)
	dy = grid.AtClamped(x, y+1) - grid.AtClamped(x, y-1)
	return dx, dy
}

// NormalMap returns the encoded tangent-space normals of grid.
func NormalMap(grid *heightfield.Grid, curvature float64) []float64 {
	strength := math.Max(0.1, curvature*2)
	n := grid.Size
	out := make([]float64, n*n*3)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			dx, dy := gradient(grid, x, y)
			v := pmath.Vec3{X: -dx * strength, Y: -dy * strength, Z: 1}.Normalize()
			i := (y*n + x) * 3
			out[i] = v.X*0.5 + 0.5
			out[i+1] = v.Y*0.5 + 0.5
			out[i+2] = v.Z*0.5 + 0.5
		}
	}
	return out
}

// RoughnessMap returns per-cell roughness in [MinRoughness, MaxRoughness].
// Steep flanks are rough, raised plateaus smoother.
func RoughnessMap(grid *heightfield.Grid, curvature float64) []float64 {
	smoothness := math.Max(0.35, 1-curvature*0.4)
	n := grid.Size
	out := make([]float64, n*n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			h := grid.At(x, y)
			dx, dy := gradient(grid, x, y)
			r := 0.35 + math.Hypot(dx, dy)*0.9 + (1-h)*smoothness
			r -= footprint.Smoothstep(0.55, 1.0, h) * 0.25
			out[y*n+x] = clamp(r, MinRoughness, MaxRoughness)
		}
	}
	return out
}

// MetallicMap returns a constant grid.
func MetallicMap(grid *heightfield.Grid, value float64) []float64 {
	out := make([]float64, grid.Size*grid.Size)
	if value != 0 {
		for i := range out {
			out[i] = value
		}
	}
	return out
}

// AORadius is the neighborhood radius used for a grid of edge n.
func AORadius(n int) int {
	r := int(math.Round(float64(n) * 0.05))
	if r < 2 {
		r = 2
	}
	return r
}

// AmbientOcclusionMap returns per-cell ambient occlusion in [MinAO, MaxAO].
// Cells below their neighbors darken, steep rims darken, peaks lift.
func AmbientOcclusionMap(grid *heightfield.Grid, curvature float64) []float64 {
	n := grid.Size
	radius := AORadius(n)
	strength := 0.3 + curvature*0.2
	out := make([]float64, n*n)

	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			center := grid.At(x, y)

			var occ float64
			samples := 0
			for oy := -radius; oy <= radius; oy += 2 {
				for ox := -radius; ox <= radius; ox += 2 {
					if ox == 0 && oy == 0 {
						continue
					}
					dist := math.Hypot(float64(ox), float64(oy))
					weight := math.Max(0, 1-dist/float64(radius+1))
					diff := grid.AtClamped(x+ox, y+oy) - center
					if diff > 0 {
						occ += diff * weight
					}
					samples++
				}
			}
			if samples > 0 {
				occ = occ / float64(samples) * strength
			}

			dx, dy := gradient(grid, x, y)
			rim := footprint.Smoothstep(0.12, 0.45, math.Hypot(dx, dy)) * 0.3
			lift := footprint.Smoothstep(0.65, 1.0, center) * 0.12

			out[y*n+x] = clamp(1-occ-rim+lift, MinAO, MaxAO)
		}
	}
	return out
}

// DecodeNormal returns the unit normal stored at (x, y).
func (m *Maps) DecodeNormal(x, y int) pmath.Vec3 {
	i := (y*m.Size + x) * 3
	return pmath.Vec3{
		X: m.Normal[i]*2 - 1,
		Y: m.Normal[i+1]*2 - 1,
		Z: m.Normal[i+2]*2 - 1,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
