// Package puff defines the parameter set of a placed puff effect.
package puff

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Faultbox/puffrelief/internal/footprint"
	pmath "github.com/Faultbox/puffrelief/pkg/math"
)

// Input errors. Callers match them with errors.Is.
var (
	ErrInvalidSize      = errors.New("puff: footprint size must be positive")
	ErrInvalidSymmetry  = errors.New("puff: symmetry count must be at least 1")
	ErrInvalidParameter = errors.New("puff: invalid parameter")
)

// PatternKind is the closed set of repeating patterns that can modulate a puff.
type PatternKind uint8

const (
	PatternNone PatternKind = iota
	PatternStripes
	PatternPolka
	PatternGrid
)

var patternNames = [...]string{
	PatternNone:    "none",
	PatternStripes: "stripes",
	PatternPolka:   "polka",
	PatternGrid:    "grid",
}

func (k PatternKind) String() string {
	if int(k) < len(patternNames) {
		return patternNames[k]
	}
	return fmt.Sprintf("PatternKind(%d)", uint8(k))
}

// ParsePattern converts a pattern id to a PatternKind.
func ParsePattern(name string) (PatternKind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return PatternNone, nil
	}
	for i, s := range patternNames {
		if s == n {
			return PatternKind(i), nil
		}
	}
	return PatternNone, fmt.Errorf("%w: unknown pattern %q", ErrInvalidParameter, name)
}

func (k PatternKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *PatternKind) UnmarshalText(text []byte) error {
	v, err := ParsePattern(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Axis is a world axis used for symmetry replication.
type Axis uint8

const (
	AxisY Axis = iota
	AxisX
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return fmt.Sprintf("Axis(%d)", uint8(a))
}

// ParseAxis converts "x", "y" or "z" to an Axis.
func ParseAxis(name string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "x":
		return AxisX, nil
	case "y", "":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return AxisY, fmt.Errorf("%w: unknown axis %q", ErrInvalidParameter, name)
}

func (a Axis) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *Axis) UnmarshalText(text []byte) error {
	v, err := ParseAxis(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Vector returns the unit world vector of the axis.
func (a Axis) Vector() pmath.Vec3 {
	switch a {
	case AxisX:
		return pmath.Vec3{X: 1}
	case AxisZ:
		return pmath.Vec3{Z: 1}
	default:
		return pmath.Vec3{Y: 1}
	}
}

// PatternSpec selects an optional repeating pattern.
type PatternSpec struct {
	Kind     PatternKind `yaml:"kind"`
	Scale    float64     `yaml:"scale"`    // Pattern period relative to the footprint
	Rotation float64     `yaml:"rotation"` // Degrees
}

// Symmetry describes rotational replication about a world axis.
type Symmetry struct {
	Enabled bool `yaml:"enabled"`
	Axis    Axis `yaml:"axis"`
	Count   int  `yaml:"count"`
}

// Parameters is the immutable parameter set of one puff effect.
type Parameters struct {
	Height    float64         `yaml:"height"`    // Extrusion magnitude
	Curvature float64         `yaml:"curvature"` // Dome sharpness, 0..1+
	Shape     footprint.Shape `yaml:"shape"`
	Size      float64         `yaml:"size"` // Footprint diameter in texture-space units
	Opacity   float64         `yaml:"opacity"`
	Hardness  float64         `yaml:"hardness"`
	Flow      float64         `yaml:"flow"` // Intensity multiplier, 0..1.5
	Spacing   float64         `yaml:"spacing"`
	Rotation  float64         `yaml:"rotation"` // Degrees
	Pattern   PatternSpec     `yaml:"pattern"`
	Symmetry  Symmetry        `yaml:"symmetry"`
}

// DefaultParameters returns a medium round puff.
func DefaultParameters() Parameters {
	return Parameters{
		Height:    1,
		Curvature: 0.5,
		Shape:     footprint.ShapeRound,
		Size:      100,
		Opacity:   1,
		Hardness:  0.5,
		Flow:      1,
		Spacing:   0.25,
		Pattern:   PatternSpec{Kind: PatternNone, Scale: 1},
		Symmetry:  Symmetry{Axis: AxisY, Count: 1},
	}
}

// Validate checks the parameters and returns a descriptive input error.
func (p Parameters) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"height", p.Height}, {"curvature", p.Curvature}, {"size", p.Size},
		{"opacity", p.Opacity}, {"hardness", p.Hardness}, {"flow", p.Flow},
		{"spacing", p.Spacing}, {"rotation", p.Rotation},
		{"pattern.scale", p.Pattern.Scale}, {"pattern.rotation", p.Pattern.Rotation},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidParameter, f.name)
		}
	}

	if p.Size <= 0 {
		return fmt.Errorf("%w: got %g", ErrInvalidSize, p.Size)
	}
	if p.Opacity < 0 || p.Opacity > 1 {
		return fmt.Errorf("%w: opacity %g outside [0,1]", ErrInvalidParameter, p.Opacity)
	}
	if p.Flow < 0 || p.Flow > 1.5 {
		return fmt.Errorf("%w: flow %g outside [0,1.5]", ErrInvalidParameter, p.Flow)
	}
	if p.Hardness < 0 || p.Hardness > 1 {
		return fmt.Errorf("%w: hardness %g outside [0,1]", ErrInvalidParameter, p.Hardness)
	}
	if p.Curvature < 0 {
		return fmt.Errorf("%w: curvature %g is negative", ErrInvalidParameter, p.Curvature)
	}
	if p.Height < 0 {
		return fmt.Errorf("%w: height %g is negative", ErrInvalidParameter, p.Height)
	}
	if p.Pattern.Kind != PatternNone && p.Pattern.Scale <= 0 {
		return fmt.Errorf("%w: pattern scale %g must be positive", ErrInvalidParameter, p.Pattern.Scale)
	}
	return p.Symmetry.Validate()
}

// Validate checks a symmetry spec. A disabled spec is always valid.
func (s Symmetry) Validate() error {
	if !s.Enabled {
		return nil
	}
	if s.Count < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidSymmetry, s.Count)
	}
	if s.Axis > AxisZ {
		return fmt.Errorf("%w: unknown axis %d", ErrInvalidParameter, s.Axis)
	}
	return nil
}
