package footprint

import "math"

// Falloff returns the intensity of the footprint at normalized distance d
// (0 at the center, 1 at the rim). hardness in [0,1] sharpens the edge.
// jitter is a uniform draw in [0,1) used only by ShapeAirbrush.
func Falloff(d float64, shape Shape, hardness, jitter float64) float64 {
	d = clamp(d, 0, 1)
	hardnessFactor := 1 - clamp(hardness, 0, 1)

	switch shape {
	case ShapeSquare, ShapeDiamond:
		// Near-binary: full strength until a thin rim band
		edge := 0.02 + hardnessFactor*0.08
		return 1 - Smoothstep(1-edge, 1, d)
	case ShapeTriangle:
		return math.Max(0, 1-d*1.5)
	case ShapeAirbrush:
		spread := hardnessFactor*0.5 + 0.1
		base := math.Exp(-d * d / spread)
		// Grainy spray: knock out up to 35% of the intensity per cell
		return base * (1 - 0.35*jitter*d)
	default:
		return math.Exp(-d * d / (hardnessFactor*0.5 + 0.1))
	}
}

// Smoothstep is the cubic Hermite ease between e0 and e1.
func Smoothstep(e0, e1, x float64) float64 {
	if e1 == e0 {
		if x < e0 {
			return 0
		}
		return 1
	}
	t := clamp((x-e0)/(e1-e0), 0, 1)
	return t * t * (3 - 2*t)
}
