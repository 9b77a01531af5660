package material

import (
	"fmt"
	"image"
	"math"

	"go.uber.org/zap"

	"github.com/Faultbox/puffrelief/internal/derived"
	"github.com/Faultbox/puffrelief/internal/heightfield"
	"github.com/Faultbox/puffrelief/internal/logger"
)

// Key identifies a cached material resolution.
type Key struct {
	MeshID string
	Width  int
	Height int
}

func (k Key) String() string {
	return fmt.Sprintf("%s@%dx%d", k.MeshID, k.Width, k.Height)
}

// Resolution pairs a composite with the material it replaced.
type Resolution struct {
	Key       Key
	Original  Material
	Composite *Composite
	active    bool
	bound     bool
}

// Active reports whether the composite is live.
func (r *Resolution) Active() bool { return r.active }

// Bound reports whether the composite is currently set on its mesh.
func (r *Resolution) Bound() bool { return r.bound }

// dispose releases the composite. Repeated calls do nothing.
func (r *Resolution) dispose(log *zap.Logger) {
	if !r.active {
		return
	}
	r.active = false
	r.bound = false
	r.Composite.release(log)
}

// Options configures a Resolver.
type Options struct {
	Allocator Allocator
	Generator *derived.Generator

	Metallic           float64
	RoughnessBias      float64
	DefaultCurvature   float64
	DisplacementFactor float64
	NormalFactor       float64

	Logger *zap.Logger
}

// DefaultOptions returns the fabric defaults for alloc.
func DefaultOptions(alloc Allocator) Options {
	return Options{
		Allocator:          alloc,
		RoughnessBias:      0.8,
		DefaultCurvature:   0.5,
		DisplacementFactor: 0.1,
		NormalFactor:       0.5,
	}
}

// Resolver creates and caches composite materials per mesh and footprint
// dimensions. At most one composite is active per mesh.
// It is not safe for concurrent use.
type Resolver struct {
	opts    Options
	gen     *derived.Generator
	entries map[Key]*Resolution
	byMesh  map[string]Key
	log     *zap.Logger
}

// NewResolver creates a resolver.
func NewResolver(opts Options) *Resolver {
	log := logger.OrNop(opts.Logger)
	gen := opts.Generator
	if gen == nil {
		gen = derived.NewGenerator(derived.Options{Metallic: opts.Metallic, Logger: log})
	}
	return &Resolver{
		opts:    opts,
		gen:     gen,
		entries: make(map[Key]*Resolution),
		byMesh:  make(map[string]Key),
		log:     log,
	}
}

// build produces the relief data a composite is filled from.
type build func() (*heightfield.Grid, *derived.Maps, error)

// Resolve returns the composite for target sized to source, creating it
// on a cache miss. A cache hit returns the existing resolution untouched.
func (r *Resolver) Resolve(target Target, source image.Image) (*Resolution, error) {
	key, err := sourceKey(target, source)
	if err != nil {
		return nil, err
	}
	res, _, err := r.acquire(target, key, r.fromSource(source, r.opts.DefaultCurvature))
	return res, err
}

// ApplyPuffToMesh resolves the composite for target, refreshes its maps
// from source and binds it with displacement and normal strength derived
// from height and curvature.
func (r *Resolver) ApplyPuffToMesh(target Target, source image.Image, height, curvature float64) (*Resolution, error) {
	key, err := sourceKey(target, source)
	if err != nil {
		return nil, err
	}
	return r.apply(target, key, r.fromSource(source, curvature), height, curvature)
}

// ApplyMaps binds maps already produced by the derived map generator.
func (r *Resolver) ApplyMaps(target Target, grid *heightfield.Grid, maps *derived.Maps, height, curvature float64) (*Resolution, error) {
	if !grid.Valid() || maps == nil || maps.Size != grid.Size {
		return nil, fmt.Errorf("applying maps to %s: %w", target.ID(), derived.ErrDimensionMismatch)
	}
	key := Key{MeshID: target.ID(), Width: grid.Size, Height: grid.Size}
	return r.apply(target, key, func() (*heightfield.Grid, *derived.Maps, error) {
		return grid, maps, nil
	}, height, curvature)
}

// ClearPuffEffects restores the original material of target and releases
// its composite. Meshes that were never resolved are left alone.
func (r *Resolver) ClearPuffEffects(target Target) {
	id := target.ID()
	key, ok := r.byMesh[id]
	if !ok {
		r.log.Debug("no puff material to clear", zap.String("mesh", id))
		return
	}
	res := r.entries[key]
	if res.bound {
		target.SetMaterial(res.Original)
	}
	res.dispose(r.log)
	delete(r.entries, key)
	delete(r.byMesh, id)
	r.log.Debug("puff material cleared", zap.String("key", key.String()))
}

// Active returns the live resolution of a mesh.
func (r *Resolver) Active(meshID string) (*Resolution, bool) {
	key, ok := r.byMesh[meshID]
	if !ok {
		return nil, false
	}
	return r.entries[key], true
}

// Len returns the number of cached resolutions.
func (r *Resolver) Len() int {
	return len(r.entries)
}

// DisposeAll releases every composite and empties the cache. Materials are
// not restored; clear meshes first to put their originals back.
func (r *Resolver) DisposeAll() {
	for key, res := range r.entries {
		res.dispose(r.log)
		delete(r.entries, key)
	}
	clear(r.byMesh)
}

func (r *Resolver) apply(target Target, key Key, fill build, height, curvature float64) (*Resolution, error) {
	res, fresh, err := r.acquire(target, key, fill)
	if err != nil {
		return nil, err
	}
	if !fresh {
		grid, maps, err := fill()
		if err != nil {
			return nil, err
		}
		if err := res.Composite.upload(r.encode(key, grid, maps)); err != nil {
			return nil, err
		}
	}
	if !res.bound {
		target.SetMaterial(res.Composite)
		res.bound = true
	}

	c := res.Composite
	c.SetDisplacementScale(height * r.opts.DisplacementFactor)
	c.SetDisplacementBias(0)
	c.SetNormalIntensity(math.Max(0.1, curvature*r.opts.NormalFactor))
	c.MarkDirty()
	return res, nil
}

// acquire returns the cached resolution for key or creates one. fresh is
// true when the composite was just filled from fill.
func (r *Resolver) acquire(target Target, key Key, fill build) (res *Resolution, fresh bool, err error) {
	if res, ok := r.entries[key]; ok {
		r.log.Debug("material cache hit", zap.String("key", key.String()))
		return res, false, nil
	}

	grid, maps, err := fill()
	if err != nil {
		return nil, false, err
	}
	comp, err := newComposite(key.String(), r.opts.Allocator, r.encode(key, grid, maps))
	if err != nil {
		return nil, false, err
	}
	comp.Metallic = r.opts.Metallic
	comp.RoughnessBias = r.opts.RoughnessBias

	res = &Resolution{Key: key, Composite: comp, active: true}
	res.Original = target.Material()
	// The previous composite goes only after its replacement is allocated,
	// so a failed allocation leaves the mesh as it was.
	if prevKey, ok := r.byMesh[key.MeshID]; ok {
		prev := r.entries[prevKey]
		res.Original = prev.Original
		if prev.bound {
			target.SetMaterial(comp)
			res.bound = true
		}
		prev.dispose(r.log)
		delete(r.entries, prevKey)
		r.log.Debug("material replaced",
			zap.String("previous", prevKey.String()),
			zap.String("key", key.String()))
	}
	r.entries[key] = res
	r.byMesh[key.MeshID] = key
	r.log.Debug("material cache miss", zap.String("key", key.String()))
	return res, true, nil
}

func (r *Resolver) encode(key Key, grid *heightfield.Grid, maps *derived.Maps) [slotCount]TextureSpec {
	maxSize := r.opts.Allocator.MaxTextureSize()
	if maxSize > 0 && grid.Size > maxSize {
		r.log.Warn("texture resolution degraded",
			zap.String("key", key.String()),
			zap.Int("requested", grid.Size),
			zap.Int("used", heightfield.ClampResolution(grid.Size, maxSize)))
	}
	return encodeSlots(grid, maps, maxSize)
}

func (r *Resolver) fromSource(source image.Image, curvature float64) build {
	return func() (*heightfield.Grid, *derived.Maps, error) {
		grid, err := SourceGrid(source, r.opts.Allocator.MaxTextureSize())
		if err != nil {
			return nil, nil, err
		}
		maps, err := r.gen.Generate(grid, curvature)
		if err != nil {
			return nil, nil, err
		}
		return grid, maps, nil
	}
}

func sourceKey(target Target, source image.Image) (Key, error) {
	if source == nil || source.Bounds().Empty() {
		return Key{}, fmt.Errorf("resolving material for %s: %w", target.ID(), ErrEmptySource)
	}
	b := source.Bounds()
	return Key{MeshID: target.ID(), Width: b.Dx(), Height: b.Dy()}, nil
}
