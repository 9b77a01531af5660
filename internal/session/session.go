// Package session wires the relief components into one render-session
// context. Every cache and registry is owned by a Session; nothing is global.
package session

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/Faultbox/puffrelief/internal/canvas"
	"github.com/Faultbox/puffrelief/internal/config"
	"github.com/Faultbox/puffrelief/internal/derived"
	"github.com/Faultbox/puffrelief/internal/effect"
	"github.com/Faultbox/puffrelief/internal/heightfield"
	"github.com/Faultbox/puffrelief/internal/logger"
	"github.com/Faultbox/puffrelief/internal/material"
	"github.com/Faultbox/puffrelief/internal/meshres"
	"github.com/Faultbox/puffrelief/internal/puff"
	pmath "github.com/Faultbox/puffrelief/pkg/math"
)

// ErrClosed is returned by operations on a closed session.
var ErrClosed = errors.New("session: closed")

// Session owns the synthesizer, generator, resolvers, effect registry and
// per-mesh canvas layers of one render session.
// It is not safe for concurrent use.
type Session struct {
	cfg *config.Config
	log *zap.Logger

	synth     *heightfield.Synthesizer
	gen       *derived.Generator
	meshes    *meshres.Resolver
	materials *material.Resolver
	effects   *effect.Registry

	layers  map[string]*canvas.Layer
	targets map[string]material.Target
	closed  bool
}

// New creates a session. alloc receives every texture the session creates.
func New(cfg *config.Config, alloc material.Allocator, log *zap.Logger) *Session {
	if cfg == nil {
		cfg = config.Default()
	}
	log = logger.OrNop(log)

	maxRes := cfg.Engine.MaxTextureSize
	if m := alloc.MaxTextureSize(); m > 0 && (maxRes <= 0 || m < maxRes) {
		maxRes = m
	}

	synth := heightfield.NewSynthesizer(heightfield.Options{
		MaxResolution:  maxRes,
		NoiseSeed:      cfg.Engine.NoiseSeed,
		AirbrushSeed:   cfg.Engine.AirbrushSeed,
		AirbrushRandom: cfg.Engine.AirbrushRandom,
		Logger:         log.Named("heightfield"),
	})
	gen := derived.NewGenerator(derived.Options{
		Metallic: cfg.Material.Metallic,
		Logger:   log.Named("derived"),
	})

	return &Session{
		cfg:    cfg,
		log:    log,
		synth:  synth,
		gen:    gen,
		meshes: meshres.NewResolver(log.Named("meshres")),
		materials: material.NewResolver(material.Options{
			Allocator:          alloc,
			Generator:          gen,
			Metallic:           cfg.Material.Metallic,
			RoughnessBias:      cfg.Material.RoughnessBias,
			DefaultCurvature:   cfg.Material.DefaultCurvature,
			DisplacementFactor: cfg.Material.DisplacementFactor,
			NormalFactor:       cfg.Material.NormalFactor,
			Logger:             log.Named("material"),
		}),
		effects: effect.NewRegistry(effect.Options{
			Synthesizer:        synth,
			Generator:          gen,
			WorldUnitsPerTexel: cfg.Preview.WorldUnitsPerTexel,
			Logger:             log.Named("effect"),
		}),
		layers:  make(map[string]*canvas.Layer),
		targets: make(map[string]material.Target),
	}
}

// Effects returns the effect registry.
func (s *Session) Effects() *effect.Registry { return s.effects }

// Materials returns the material resolver.
func (s *Session) Materials() *material.Resolver { return s.materials }

// Meshes returns the mesh resolver.
func (s *Session) Meshes() *meshres.Resolver { return s.meshes }

// Synthesizer returns the height field synthesizer.
func (s *Session) Synthesizer() *heightfield.Synthesizer { return s.synth }

// PlacePuff places a puff on target at uv, replicates it when params ask
// for symmetry and rebinds the mesh material. The returned slice starts
// with the placed effect followed by its replicas.
func (s *Session) PlacePuff(target material.Target, uv pmath.Vec2, params puff.Parameters) ([]*effect.Effect, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("placing puff: %w", err)
	}
	mesh, err := s.meshes.Resolve(target)
	if err != nil {
		return nil, fmt.Errorf("placing puff: %w", err)
	}

	at := effect.PlanarPlacement(uv, mesh.Bounds)
	if surf, ok := mesh.Locate(uv); ok {
		at.Position = surf.Position
		at.Normal = surf.Normal
	} else {
		s.log.Debug("uv not on mesh surface, using planar placement",
			zap.String("mesh", mesh.MeshID),
			zap.Float64("u", uv.X),
			zap.Float64("v", uv.Y))
	}
	at.MeshID = mesh.MeshID

	e, err := s.effects.GeneratePuffAt(at, params)
	if err != nil {
		return nil, err
	}
	all, err := s.effects.ApplySymmetry(e, params.Symmetry, mesh.Bounds)
	if err != nil {
		_ = s.effects.Remove(e.ID)
		return nil, err
	}

	s.targets[mesh.MeshID] = target
	if err := s.refresh(target, mesh, params); err != nil {
		for _, added := range all {
			_ = s.effects.Remove(added.ID)
		}
		if rerr := s.refresh(target, mesh, params); rerr != nil {
			s.log.Warn("restoring material after failed placement", zap.Error(rerr))
		}
		return nil, err
	}

	s.log.Info("puff placed",
		zap.String("id", e.ID),
		zap.String("mesh", mesh.MeshID),
		zap.Int("effects", len(all)))
	return all, nil
}

// RemovePuff removes an effect and its symmetry replicas, then rebuilds the
// mesh material. Removing the last effect of a mesh restores its material.
func (s *Session) RemovePuff(target material.Target, id string) error {
	if s.closed {
		return ErrClosed
	}
	e, ok := s.effects.Get(id)
	if !ok || e.MeshID != target.ID() {
		return fmt.Errorf("removing puff %q from %s: %w", id, target.ID(), effect.ErrNotFound)
	}

	if err := s.effects.Remove(id); err != nil {
		return err
	}
	for _, other := range s.effects.ForMesh(e.MeshID) {
		if other.Origin == id {
			_ = s.effects.Remove(other.ID)
		}
	}

	mesh, err := s.meshes.Resolve(target)
	if err != nil {
		return err
	}
	remaining := s.effects.ForMesh(mesh.MeshID)
	if len(remaining) == 0 {
		s.ClearMesh(target)
		return nil
	}
	return s.refresh(target, mesh, remaining[len(remaining)-1].Params)
}

// ClearMesh removes every effect of target and restores its material.
func (s *Session) ClearMesh(target material.Target) {
	id := target.ID()
	for _, e := range s.effects.ForMesh(id) {
		_ = s.effects.Remove(e.ID)
	}
	s.materials.ClearPuffEffects(target)
	delete(s.layers, id)
	delete(s.targets, id)
	s.log.Debug("mesh cleared", zap.String("mesh", id))
}

// Close restores every touched mesh and releases all resources. Further
// calls do nothing.
func (s *Session) Close() {
	if s.closed {
		return
	}
	for _, target := range s.targets {
		s.materials.ClearPuffEffects(target)
	}
	s.materials.DisposeAll()
	s.effects.Dispose()
	s.meshes.Clear()
	clear(s.layers)
	clear(s.targets)
	s.closed = true
	s.log.Debug("session closed")
}

// Layer returns the canvas layer of a mesh, if any puff was placed on it.
func (s *Session) Layer(meshID string) (*canvas.Layer, bool) {
	l, ok := s.layers[meshID]
	return l, ok
}

// refresh restamps every effect of the mesh and applies the canvas to its
// material. params supplies the displacement height and normal curvature.
func (s *Session) refresh(target material.Target, mesh *meshres.Resolution, params puff.Parameters) error {
	effects := s.effects.ForMesh(mesh.MeshID)
	if len(effects) == 0 {
		s.materials.ClearPuffEffects(target)
		delete(s.layers, mesh.MeshID)
		return nil
	}

	layer, ok := s.layers[mesh.MeshID]
	if !ok {
		layer = canvas.NewLayer(s.cfg.Engine.CanvasSize)
		s.layers[mesh.MeshID] = layer
	}
	layer.Reset()
	for _, e := range effects {
		px := s.footprintPixels(e, mesh.Bounds, layer.Size())
		if !layer.Stamp(e.Height, e.TexCoord, px) {
			s.log.Debug("effect outside canvas", zap.String("id", e.ID))
		}
	}

	_, err := s.materials.ApplyPuffToMesh(target, layer.Image(), params.Height, params.Curvature)
	return err
}

// footprintPixels converts an effect's world footprint to canvas pixels
// relative to the larger planar extent of the mesh. Footprints far larger
// than the canvas are clamped to canvas.MaxFootprintScale canvas edges.
func (s *Session) footprintPixels(e *effect.Effect, bounds meshres.Bounds, canvasSize int) int {
	size := bounds.Size()
	extent := math.Max(size.X, size.Y)
	if extent <= 0 {
		return e.Height.Size
	}
	diameter := 2 * s.effects.Radius(e.Params)
	px := math.Round(diameter / extent * float64(canvasSize))
	limit := float64(canvasSize * canvas.MaxFootprintScale)
	if px > limit || math.IsNaN(px) {
		s.log.Warn("footprint clamped to canvas limit",
			zap.String("id", e.ID),
			zap.Float64("requested", px),
			zap.Int("pixels", int(limit)))
		return int(limit)
	}
	return max(1, int(px))
}
