// Package effect keeps the puff effects of a session: generation,
// symmetry replication and the preview geometry shown while a material
// is being rebuilt.
package effect

import (
	"errors"
	"time"

	"github.com/Faultbox/puffrelief/internal/derived"
	"github.com/Faultbox/puffrelief/internal/heightfield"
	"github.com/Faultbox/puffrelief/internal/puff"
	pmath "github.com/Faultbox/puffrelief/pkg/math"
)

// ErrNotFound is returned for unknown effect ids.
var ErrNotFound = errors.New("effect: not found")

// Effect is one placed puff.
type Effect struct {
	ID       string
	MeshID   string
	TexCoord pmath.Vec2
	Center   pmath.Vec3
	Normal   pmath.Vec3
	Params   puff.Parameters

	// Height and Maps are shared between an effect and its symmetry replicas.
	Height *heightfield.Grid
	Maps   *derived.Maps

	Preview   *Preview
	Timestamp time.Time

	// Origin is the id of the effect a replica was made from; empty for originals.
	Origin string
}

// Replica reports whether e was produced by symmetry replication.
func (e *Effect) Replica() bool {
	return e.Origin != ""
}

// Placement locates a new effect on a mesh surface.
type Placement struct {
	MeshID   string
	TexCoord pmath.Vec2
	Position pmath.Vec3
	Normal   pmath.Vec3
}
