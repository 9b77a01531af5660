package heightfield

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/puffrelief/internal/footprint"
	"github.com/Faultbox/puffrelief/internal/logger"
	"github.com/Faultbox/puffrelief/internal/puff"
)

// Options configures a Synthesizer.
type Options struct {
	// MaxResolution caps the grid edge (device texture limit). Zero means MaxResolution.
	MaxResolution int
	NoiseSeed     int64
	AirbrushSeed  int64
	// AirbrushRandom draws a fresh airbrush seed per call instead of using AirbrushSeed.
	AirbrushRandom bool
	Logger         *zap.Logger
}

// Synthesizer turns puff parameters into height fields.
// It is not safe for concurrent use.
type Synthesizer struct {
	opts  Options
	noise *fabricNoise
	log   *zap.Logger
}

// NewSynthesizer creates a synthesizer.
func NewSynthesizer(opts Options) *Synthesizer {
	if opts.MaxResolution <= 0 {
		opts.MaxResolution = MaxResolution
	}
	return &Synthesizer{
		opts:  opts,
		noise: newFabricNoise(opts.NoiseSeed),
		log:   logger.OrNop(opts.Logger),
	}
}

// ResolutionFor returns the grid edge Synthesize will use for params,
// after clamping to the configured maximum.
func (s *Synthesizer) ResolutionFor(params puff.Parameters) int {
	return ClampResolution(Resolution(params.Size), s.opts.MaxResolution)
}

// Synthesize builds the height field of one puff. key identifies the effect
// and selects the airbrush jitter stream. Every value of the result lies in
// [0, params.Opacity].
func (s *Synthesizer) Synthesize(params puff.Parameters, key string) (*Grid, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("synthesizing height field: %w", err)
	}

	want := Resolution(params.Size)
	res := ClampResolution(want, s.opts.MaxResolution)
	if res != want {
		s.log.Warn("height field resolution clamped to device maximum",
			zap.Int("requested", want),
			zap.Int("resolution", res))
	}

	airSeed := s.opts.AirbrushSeed
	if s.opts.AirbrushRandom {
		airSeed = time.Now().UnixNano()
	}

	radius := params.Size / 2
	curv := params.Curvature
	grid := NewGrid(res)

	for py := 0; py < res; py++ {
		for px := 0; px < res; px++ {
			// Centered local coordinate in [-radius, radius]
			lx := ((float64(px)+0.5)/float64(res)*2 - 1) * radius
			lz := ((float64(py)+0.5)/float64(res)*2 - 1) * radius

			sx, sz := footprint.ShapeOffset(lx, lz, radius, params.Shape, curv, params.Rotation)
			d := clamp01(math.Hypot(sx, sz) / radius)

			var jitter float64
			if params.Shape == footprint.ShapeAirbrush {
				jitter = Uniform(airSeed, key, px, py)
			}
			falloff := footprint.Falloff(d, params.Shape, params.Hardness, jitter) * params.Flow

			if params.Pattern.Kind != puff.PatternNone {
				pv := PatternValue(params.Pattern.Kind, lx/radius, lz/radius,
					params.Pattern.Scale, params.Pattern.Rotation)
				falloff = modulate(falloff, pv)
			}

			v := profile(d, curv) * falloff

			// Soften the rim
			v *= 1 - footprint.Smoothstep(0.7, 1, d)*0.6

			// Center highlight, only where the footprint reaches
			v += footprint.Smoothstep(0, 0.35, 1-d) * 0.12 * math.Min(falloff, 1)

			// Fiber noise, faded out where there is no relief
			coverage := footprint.Smoothstep(0, 0.05, v)
			v += s.noise.at(float64(px), float64(py)) * coverage

			grid.Set(px, py, clamp01(v)*params.Opacity)
		}
	}

	s.log.Debug("height field synthesized",
		zap.String("key", key),
		zap.Stringer("shape", params.Shape),
		zap.Int("resolution", res))
	return grid, nil
}

// profile blends the soft and dome cross-sections of a puff at distance d.
func profile(d, curvature float64) float64 {
	soft := math.Pow(math.Max(0, 1-math.Pow(d, 1.35)), 1+curvature)
	dome := math.Pow(math.Max(0, math.Cos(d*math.Pi/2)), 1+curvature*1.5)
	return 0.6*soft + 0.4*dome
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
