package heightfield

import (
	"math"

	"github.com/ojrac/opensimplex-go"
)

// Fractal sums octaves of opensimplex noise.
type Fractal struct {
	noise       opensimplex.Noise
	Octaves     int
	Persistence float64
	Lacunarity  float64
	Frequency   float64
}

// NewFractal creates a fractal noise stack with its own seed.
func NewFractal(seed int64, octaves int, persistence, lacunarity, frequency float64) *Fractal {
	return &Fractal{
		noise:       opensimplex.New(seed),
		Octaves:     octaves,
		Persistence: persistence,
		Lacunarity:  lacunarity,
		Frequency:   frequency,
	}
}

// Eval returns the normalized fractal value at (x, y), in [-1, 1].
func (f *Fractal) Eval(x, y float64) float64 {
	var sum, norm float64
	amp := 1.0
	freq := f.Frequency
	for i := 0; i < f.Octaves; i++ {
		sum += f.noise.Eval2(x*freq, y*freq) * amp
		norm += amp
		amp *= f.Persistence
		freq *= f.Lacunarity
	}
	if norm == 0 {
		return 0
	}
	return math.Max(-1, math.Min(1, sum/norm))
}

// fabricNoise is the macro + micro fiber noise added to every puff.
type fabricNoise struct {
	macro *Fractal
	micro *Fractal
}

const (
	macroAmplitude = 0.08
	microAmplitude = 0.04
)

func newFabricNoise(seed int64) *fabricNoise {
	return &fabricNoise{
		macro: NewFractal(seed, 4, 0.55, 2.1, 1.0/48),
		micro: NewFractal(seed^0x5f3759df, 2, 0.65, 2.3, 1.0/6),
	}
}

// at returns the combined noise offset for pixel (x, y), within +-0.12.
func (n *fabricNoise) at(x, y float64) float64 {
	return n.macro.Eval(x, y)*macroAmplitude + n.micro.Eval(x, y)*microAmplitude
}
