// Package footprint constrains brush offsets to a footprint shape and computes
// the shape-specific intensity falloff across it.
package footprint

import (
	"fmt"
	"math"
	"strings"
)

// Shape is the closed set of footprint shapes.
type Shape uint8

const (
	ShapeRound Shape = iota
	ShapeSquare
	ShapeDiamond
	ShapeTriangle
	ShapeAirbrush
	ShapeCalligraphy
	ShapeSoft
)

var shapeNames = [...]string{
	ShapeRound:       "round",
	ShapeSquare:      "square",
	ShapeDiamond:     "diamond",
	ShapeTriangle:    "triangle",
	ShapeAirbrush:    "airbrush",
	ShapeCalligraphy: "calligraphy",
	ShapeSoft:        "soft",
}

// String returns the shape name.
func (s Shape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return fmt.Sprintf("Shape(%d)", uint8(s))
}

// ParseShape converts a shape name to a Shape.
func ParseShape(name string) (Shape, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" || n == "circle" {
		return ShapeRound, nil
	}
	for i, s := range shapeNames {
		if s == n {
			return Shape(i), nil
		}
	}
	return ShapeRound, fmt.Errorf("unknown footprint shape %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Shape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Shape) UnmarshalText(text []byte) error {
	v, err := ParseShape(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ShapeOffset maps an offset (x, z) inside a brush of the given radius onto
// the footprint of shape. The offset is rotated into shape-local space by
// -rotationDeg, constrained, and rotated back. The result never lies farther
// than radius from the origin.
func ShapeOffset(x, z, radius float64, shape Shape, curvature, rotationDeg float64) (float64, float64) {
	if radius <= 0 {
		return 0, 0
	}

	rot := rotationDeg * math.Pi / 180
	sin, cos := math.Sincos(rot)

	// Into shape-local space
	lx := x*cos + z*sin
	lz := -x*sin + z*cos

	switch shape {
	case ShapeRound, ShapeSoft:
		// isotropic, nothing to constrain
	case ShapeAirbrush:
		k := 1 - 0.2*clamp(curvature, 0, 1)
		lx *= k
		lz *= k
	case ShapeSquare:
		// Inscribed in the brush circle: half-side is radius/sqrt(2)
		lx, lz = clampMaxAxis(lx, lz, radius*math.Sqrt2/2)
	case ShapeDiamond:
		const q = math.Pi / 4
		s45, c45 := math.Sincos(q)
		dx := lx*c45 - lz*s45
		dz := lx*s45 + lz*c45
		dx, dz = clampMaxAxis(dx, dz, radius*math.Sqrt2/2)
		lx = dx*c45 + dz*s45
		lz = -dx*s45 + dz*c45
	case ShapeTriangle:
		lx, lz = triangleSector(lx, lz)
	case ShapeCalligraphy:
		lz *= 0.6 + curvature*0.4
	}

	// Back to brush space
	ox := lx*cos - lz*sin
	oz := lx*sin + lz*cos

	// Hard clamp onto the nominal radius
	if d := math.Hypot(ox, oz); d > radius {
		k := radius / d
		ox *= k
		oz *= k
	}
	return ox, oz
}

// clampMaxAxis scales (a, b) so that max(|a|, |b|) <= limit.
func clampMaxAxis(a, b, limit float64) (float64, float64) {
	m := math.Max(math.Abs(a), math.Abs(b))
	if m > limit {
		k := limit / m
		return a * k, b * k
	}
	return a, b
}

// triangleSector snaps the angle of (x, z) into its 120 degree sector,
// keeping the angle relative to the sector axis within +-60 degrees and the
// radial distance unchanged.
func triangleSector(x, z float64) (float64, float64) {
	const sector = 2 * math.Pi / 3
	const half = sector / 2

	r := math.Hypot(x, z)
	if r == 0 {
		return 0, 0
	}
	angle := math.Atan2(z, x)
	base := math.Round(angle/sector) * sector
	rel := clamp(angle-base, -half, half)
	s, c := math.Sincos(base + rel)
	return r * c, r * s
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
