package heightfield

import (
	"encoding/binary"
	"strconv"

	"golang.org/x/crypto/blake2s"
)

// Uniform returns a reproducible draw in [0, 1) determined only by its
// arguments. Independent streams come from varying key; grids index the
// stream by cell coordinate.
func Uniform(seed int64, key string, x, y int) float64 {
	buf := make([]byte, 0, len(key)+48)
	buf = strconv.AppendInt(buf, seed, 10)
	buf = append(buf, '/')
	buf = append(buf, key...)
	buf = append(buf, '/')
	buf = strconv.AppendInt(buf, int64(x), 10)
	buf = append(buf, '/')
	buf = strconv.AppendInt(buf, int64(y), 10)

	sum := blake2s.Sum256(buf)
	// 53 random bits -> float64 in [0,1)
	return float64(binary.LittleEndian.Uint64(sum[:8])>>11) / (1 << 53)
}
