package main

import (
	"flag"

	"github.com/Faultbox/puffrelief/internal/footprint"
	"github.com/Faultbox/puffrelief/internal/puff"
)

// paramFlags binds the puff parameter flags of a subcommand.
type paramFlags struct {
	file            *string
	size            *float64
	shape           *string
	curvature       *float64
	hardness        *float64
	opacity         *float64
	flow            *float64
	height          *float64
	rotation        *float64
	pattern         *string
	patternScale    *float64
	patternRotation *float64
}

func bindParams(fs *flag.FlagSet) *paramFlags {
	d := puff.DefaultParameters()
	return &paramFlags{
		file:            fs.String("params", "", "YAML parameter file"),
		size:            fs.Float64("size", d.Size, "Footprint size"),
		shape:           fs.String("shape", d.Shape.String(), "Footprint shape (round, square, diamond, triangle, airbrush, calligraphy, soft)"),
		curvature:       fs.Float64("curvature", d.Curvature, "Dome curvature"),
		hardness:        fs.Float64("hardness", d.Hardness, "Edge hardness 0..1"),
		opacity:         fs.Float64("opacity", d.Opacity, "Opacity 0..1"),
		flow:            fs.Float64("flow", d.Flow, "Flow 0..1.5"),
		height:          fs.Float64("height", d.Height, "Extrusion height"),
		rotation:        fs.Float64("rotation", d.Rotation, "Footprint rotation in degrees"),
		pattern:         fs.String("pattern", d.Pattern.Kind.String(), "Pattern (none, stripes, polka, grid)"),
		patternScale:    fs.Float64("pattern-scale", d.Pattern.Scale, "Pattern scale"),
		patternRotation: fs.Float64("pattern-rotation", d.Pattern.Rotation, "Pattern rotation in degrees"),
	}
}

// resolve builds the parameters: defaults, then the -params file, then
// flags given explicitly on the command line.
func (pf *paramFlags) resolve(fs *flag.FlagSet) (puff.Parameters, error) {
	p := puff.DefaultParameters()
	if *pf.file != "" {
		var err error
		if p, err = puff.LoadParameters(*pf.file); err != nil {
			return p, err
		}
	}

	var err error
	fs.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "size":
			p.Size = *pf.size
		case "shape":
			p.Shape, err = footprint.ParseShape(*pf.shape)
		case "curvature":
			p.Curvature = *pf.curvature
		case "hardness":
			p.Hardness = *pf.hardness
		case "opacity":
			p.Opacity = *pf.opacity
		case "flow":
			p.Flow = *pf.flow
		case "height":
			p.Height = *pf.height
		case "rotation":
			p.Rotation = *pf.rotation
		case "pattern":
			p.Pattern.Kind, err = puff.ParsePattern(*pf.pattern)
		case "pattern-scale":
			p.Pattern.Scale = *pf.patternScale
		case "pattern-rotation":
			p.Pattern.Rotation = *pf.patternRotation
		}
	})
	if err != nil {
		return p, err
	}
	return p, p.Validate()
}
