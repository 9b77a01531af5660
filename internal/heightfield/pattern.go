package heightfield

import (
	"math"

	"github.com/Faultbox/puffrelief/internal/footprint"
	"github.com/Faultbox/puffrelief/internal/puff"
)

// patternPeriod is the pattern period in footprint-normalized units at scale 1.
const patternPeriod = 0.25

// PatternValue evaluates a repeating pattern at footprint-normalized
// coordinates (u, v in [-1, 1]). The result is in [0, 1].
func PatternValue(kind puff.PatternKind, u, v, scale, rotationDeg float64) float64 {
	if kind == puff.PatternNone {
		return 1
	}
	if scale <= 0 {
		scale = 1
	}
	s, c := math.Sincos(rotationDeg * math.Pi / 180)
	ru := (u*c + v*s) / (patternPeriod * scale)
	rv := (-u*s + v*c) / (patternPeriod * scale)

	switch kind {
	case puff.PatternStripes:
		return 0.5 + 0.5*math.Sin(ru*2*math.Pi)
	case puff.PatternPolka:
		// Distance to the nearest dot center of the unit lattice
		du := ru - math.Floor(ru) - 0.5
		dv := rv - math.Floor(rv) - 0.5
		return 1 - footprint.Smoothstep(0.25, 0.35, math.Hypot(du, dv))
	case puff.PatternGrid:
		lu := math.Abs(ru - math.Round(ru))
		lv := math.Abs(rv - math.Round(rv))
		return 1 - footprint.Smoothstep(0.06, 0.12, math.Min(lu, lv))
	}
	return 1
}

// modulate folds a pattern value into a falloff without fully erasing it,
// so the pattern reads as stitched relief rather than holes.
func modulate(falloff, pattern float64) float64 {
	return falloff * (0.55 + 0.45*pattern)
}
