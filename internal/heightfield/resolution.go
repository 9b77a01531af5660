package heightfield

import "math"

// Resolution bounds for a single puff.
const (
	MinResolution = 64
	MaxResolution = 1024
)

// Resolution returns the grid edge for a footprint of the given size:
// the next power of two of clamp(round(size*4), 64, 1024).
func Resolution(size float64) int {
	n := int(math.Round(size * 4))
	if n < MinResolution {
		n = MinResolution
	}
	if n > MaxResolution {
		n = MaxResolution
	}
	return NextPow2(n)
}

// NextPow2 returns the smallest power of two >= n (1 for n <= 1).
func NextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// ClampResolution returns res, or the largest power of two <= max when res
// exceeds it. The result is never below 1.
func ClampResolution(res, max int) int {
	if max <= 0 || res <= max {
		return res
	}
	p := 1
	for p*2 <= max {
		p <<= 1
	}
	return p
}
