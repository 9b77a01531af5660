package effect

import (
	"fmt"
	"math"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/puffrelief/internal/derived"
	"github.com/Faultbox/puffrelief/internal/heightfield"
	"github.com/Faultbox/puffrelief/internal/logger"
	"github.com/Faultbox/puffrelief/internal/meshres"
	"github.com/Faultbox/puffrelief/internal/puff"
	pmath "github.com/Faultbox/puffrelief/pkg/math"
)

// DefaultWorldUnitsPerTexel converts footprint units to world units.
const DefaultWorldUnitsPerTexel = 0.001

// Options configures a Registry.
type Options struct {
	Synthesizer *heightfield.Synthesizer
	Generator   *derived.Generator

	// WorldUnitsPerTexel scales footprint sizes into world space for previews.
	WorldUnitsPerTexel float64

	Logger *zap.Logger
	// Now stamps new effects. Defaults to time.Now.
	Now func() time.Time
}

// Registry owns the puff effects of a session.
// It is not safe for concurrent use.
type Registry struct {
	synth *heightfield.Synthesizer
	gen   *derived.Generator
	scale float64
	now   func() time.Time
	log   *zap.Logger

	effects map[string]*Effect
	order   []string
	seq     uint64
}

// NewRegistry creates an empty registry. Missing collaborators get defaults.
func NewRegistry(opts Options) *Registry {
	log := logger.OrNop(opts.Logger)
	r := &Registry{
		synth:   opts.Synthesizer,
		gen:     opts.Generator,
		scale:   opts.WorldUnitsPerTexel,
		now:     opts.Now,
		log:     log,
		effects: make(map[string]*Effect),
	}
	if r.synth == nil {
		r.synth = heightfield.NewSynthesizer(heightfield.Options{Logger: log})
	}
	if r.gen == nil {
		r.gen = derived.NewGenerator(derived.Options{Logger: log})
	}
	if r.scale <= 0 {
		r.scale = DefaultWorldUnitsPerTexel
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// GeneratePuff creates an effect at texCoord mapped onto bounds with
// PlanarPlacement.
func (r *Registry) GeneratePuff(texCoord pmath.Vec2, params puff.Parameters, bounds meshres.Bounds) (*Effect, error) {
	return r.GeneratePuffAt(PlanarPlacement(texCoord, bounds), params)
}

// PlanarPlacement maps a texture coordinate onto the front (max Z) face of
// bounds: u runs along +X and v along -Y.
func PlanarPlacement(texCoord pmath.Vec2, bounds meshres.Bounds) Placement {
	size := bounds.Size()
	return Placement{
		TexCoord: texCoord,
		Position: pmath.Vec3{
			X: bounds.Min.X + texCoord.X*size.X,
			Y: bounds.Max.Y - texCoord.Y*size.Y,
			Z: bounds.Max.Z,
		},
		Normal: pmath.Vec3{Z: 1},
	}
}

// GeneratePuffAt creates an effect at a located surface point. Nothing is
// stored when synthesis fails.
func (r *Registry) GeneratePuffAt(at Placement, params puff.Parameters) (*Effect, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("generating puff: %w", err)
	}

	id := fmt.Sprintf("puff-%d", r.seq+1)
	start := time.Now()
	grid, err := r.synth.Synthesize(params, id)
	if err != nil {
		return nil, err
	}
	maps, err := r.gen.Generate(grid, params.Curvature)
	if err != nil {
		return nil, err
	}
	r.seq++

	radius := r.Radius(params)
	e := &Effect{
		ID:        id,
		MeshID:    at.MeshID,
		TexCoord:  at.TexCoord,
		Center:    at.Position,
		Normal:    at.Normal,
		Params:    params,
		Height:    grid,
		Maps:      maps,
		Preview:   BuildPreview(at.Position, at.Normal, radius, radius*previewLift*params.Height, params.Size),
		Timestamp: r.now(),
	}
	r.store(e)
	r.log.Debug("puff generated",
		zap.String("id", id),
		zap.String("mesh", at.MeshID),
		zap.Int("resolution", grid.Size),
		zap.Duration("elapsed", time.Since(start)))
	return e, nil
}

// Radius returns the world-space footprint radius of params.
func (r *Registry) Radius(params puff.Parameters) float64 {
	return params.Size / 2 * r.scale
}

// ApplySymmetry replicates e about the axis of sym through the center of
// bounds. The result starts with e itself; replicas are stored and share
// e's height field and maps. A disabled symmetry returns only e.
func (r *Registry) ApplySymmetry(e *Effect, sym puff.Symmetry, bounds meshres.Bounds) ([]*Effect, error) {
	if err := sym.Validate(); err != nil {
		return nil, fmt.Errorf("applying symmetry to %s: %w", e.ID, err)
	}
	out := []*Effect{e}
	if !sym.Enabled || sym.Count == 1 {
		return out, nil
	}

	pivot := bounds.Center()
	axis := sym.Axis.Vector()
	for i := 1; i < sym.Count; i++ {
		angle := 2 * math.Pi * float64(i) / float64(sym.Count)
		q := pmath.QuatFromAxisAngle(axis, angle)
		center := pmath.RotateAbout(e.Center, pivot, axis, angle)
		replica := &Effect{
			ID:       fmt.Sprintf("%s-symmetry-%d", e.ID, i),
			MeshID:   e.MeshID,
			TexCoord: planarTexCoord(center, bounds),
			Center:   center,
			Normal:   q.Rotate(e.Normal),
			Params:   e.Params,
			Height:   e.Height,
			Maps:     e.Maps,
			Preview: e.Preview.Transform(func(v pmath.Vec3) pmath.Vec3 {
				return pmath.RotateAbout(v, pivot, axis, angle)
			}),
			Timestamp: e.Timestamp,
			Origin:    e.ID,
		}
		r.store(replica)
		out = append(out, replica)
	}
	r.log.Debug("symmetry applied",
		zap.String("id", e.ID),
		zap.Stringer("axis", sym.Axis),
		zap.Int("count", sym.Count))
	return out, nil
}

// planarTexCoord inverts PlanarPlacement.
func planarTexCoord(p pmath.Vec3, bounds meshres.Bounds) pmath.Vec2 {
	size := bounds.Size()
	var uv pmath.Vec2
	if size.X > 0 {
		uv.X = (p.X - bounds.Min.X) / size.X
	}
	if size.Y > 0 {
		uv.Y = (bounds.Max.Y - p.Y) / size.Y
	}
	return uv
}

// Get returns the effect with the given id.
func (r *Registry) Get(id string) (*Effect, bool) {
	e, ok := r.effects[id]
	return e, ok
}

// List returns all effects in insertion order.
func (r *Registry) List() []*Effect {
	out := make([]*Effect, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.effects[id])
	}
	return out
}

// ForMesh returns the effects placed on one mesh in insertion order.
func (r *Registry) ForMesh(meshID string) []*Effect {
	var out []*Effect
	for _, id := range r.order {
		if e := r.effects[id]; e.MeshID == meshID {
			out = append(out, e)
		}
	}
	return out
}

// Remove deletes one effect.
func (r *Registry) Remove(id string) error {
	if _, ok := r.effects[id]; !ok {
		return fmt.Errorf("removing %q: %w", id, ErrNotFound)
	}
	delete(r.effects, id)
	r.order = slices.DeleteFunc(r.order, func(s string) bool { return s == id })
	return nil
}

// Clear deletes every effect.
func (r *Registry) Clear() {
	clear(r.effects)
	r.order = r.order[:0]
}

// Dispose drops every effect together with its grids and preview buffers.
// The registry stays usable afterwards.
func (r *Registry) Dispose() {
	for _, e := range r.effects {
		e.Height = nil
		e.Maps = nil
		e.Preview = nil
	}
	n := len(r.effects)
	r.Clear()
	r.log.Debug("effects disposed", zap.Int("count", n))
}

// Len returns the number of stored effects.
func (r *Registry) Len() int {
	return len(r.effects)
}

func (r *Registry) store(e *Effect) {
	if _, ok := r.effects[e.ID]; !ok {
		r.order = append(r.order, e.ID)
	}
	r.effects[e.ID] = e
}
