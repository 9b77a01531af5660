package meshres

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/Faultbox/puffrelief/internal/logger"
	pmath "github.com/Faultbox/puffrelief/pkg/math"
)

// Input errors.
var (
	ErrMissingAttributes = errors.New("meshres: mesh is missing attributes")
	ErrAttributeMismatch = errors.New("meshres: mesh attribute counts disagree")
)

// Resolver caches mesh geometry by mesh identity. Geometry is assumed
// immutable once loaded, so entries live until Forget or Clear.
// It is not safe for concurrent use.
type Resolver struct {
	cache map[string]*Resolution
	log   *zap.Logger
}

// NewResolver creates an empty resolver.
func NewResolver(log *zap.Logger) *Resolver {
	return &Resolver{
		cache: make(map[string]*Resolution),
		log:   logger.OrNop(log),
	}
}

// Resolve returns the geometry of src, extracting it on first use.
// Repeated calls with the same mesh identity return the same *Resolution.
func (r *Resolver) Resolve(src Source) (*Resolution, error) {
	id := src.ID()
	if res, ok := r.cache[id]; ok {
		return res, nil
	}

	res, err := extract(src)
	if err != nil {
		return nil, err
	}
	r.cache[id] = res
	r.log.Debug("mesh resolved",
		zap.String("mesh", id),
		zap.Int("vertices", len(res.Vertices)),
		zap.Int("indices", len(res.Indices)))
	return res, nil
}

// Forget drops the cached geometry of one mesh.
func (r *Resolver) Forget(id string) {
	delete(r.cache, id)
}

// Clear drops every cached mesh.
func (r *Resolver) Clear() {
	clear(r.cache)
}

// Len returns the number of cached meshes.
func (r *Resolver) Len() int {
	return len(r.cache)
}

func extract(src Source) (*Resolution, error) {
	id := src.ID()
	pos, nrm, uvs := src.Positions(), src.Normals(), src.UVs()

	var missing []string
	if len(pos) == 0 {
		missing = append(missing, "position")
	}
	if len(nrm) == 0 {
		missing = append(missing, "normal")
	}
	if len(uvs) == 0 {
		missing = append(missing, "uv")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: mesh %q lacks %v", ErrMissingAttributes, id, missing)
	}

	if len(pos)%3 != 0 || len(nrm)%3 != 0 || len(uvs)%2 != 0 {
		return nil, fmt.Errorf("%w: mesh %q has ragged attribute buffers", ErrAttributeMismatch, id)
	}
	count := len(pos) / 3
	if len(nrm)/3 != count || len(uvs)/2 != count {
		return nil, fmt.Errorf("%w: mesh %q has %d positions, %d normals, %d uvs",
			ErrAttributeMismatch, id, count, len(nrm)/3, len(uvs)/2)
	}

	srcIdx := src.Indices()
	for _, i := range srcIdx {
		if int(i) >= count {
			return nil, fmt.Errorf("%w: mesh %q index %d out of range", ErrAttributeMismatch, id, i)
		}
	}

	res := &Resolution{
		MeshID:   id,
		Vertices: make([]pmath.Vec3, count),
		Normals:  make([]pmath.Vec3, count),
		UVs:      make([]pmath.Vec2, count),
		Indices:  append([]uint32(nil), srcIdx...),
		Bounds: Bounds{
			Min: pmath.Vec3{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)},
			Max: pmath.Vec3{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)},
		},
	}

	for i := 0; i < count; i++ {
		p := pmath.Vec3{X: float64(pos[i*3]), Y: float64(pos[i*3+1]), Z: float64(pos[i*3+2])}
		res.Vertices[i] = p
		res.Normals[i] = pmath.Vec3{X: float64(nrm[i*3]), Y: float64(nrm[i*3+1]), Z: float64(nrm[i*3+2])}
		res.UVs[i] = pmath.Vec2{X: float64(uvs[i*2]), Y: float64(uvs[i*2+1])}
		res.Bounds.Min = res.Bounds.Min.Min(p)
		res.Bounds.Max = res.Bounds.Max.Max(p)
	}

	// Non-indexed meshes are implicit triangle lists
	if len(res.Indices) == 0 {
		res.Indices = make([]uint32, count-count%3)
		for i := range res.Indices {
			res.Indices[i] = uint32(i)
		}
	}
	return res, nil
}
