package heightfield

import "gonum.org/v1/gonum/floats"

// Stats summarizes a grid.
type Stats struct {
	Min, Max, Mean float64
	// ArgMaxX and ArgMaxY locate the first cell holding Max.
	ArgMaxX, ArgMaxY int
}

// ComputeStats returns summary statistics of g. g must be valid.
func ComputeStats(g *Grid) Stats {
	idx := floats.MaxIdx(g.Data)
	return Stats{
		Min:     floats.Min(g.Data),
		Max:     g.Data[idx],
		Mean:    floats.Sum(g.Data) / float64(len(g.Data)),
		ArgMaxX: idx % g.Size,
		ArgMaxY: idx / g.Size,
	}
}
