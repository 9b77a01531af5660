// Package material binds derived relief maps to renderer materials and
// owns the lifetime of the textures it creates.
package material

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/puffrelief/internal/derived"
	"github.com/Faultbox/puffrelief/internal/heightfield"
	"github.com/Faultbox/puffrelief/internal/meshres"
)

// ErrEmptySource is returned when a footprint source image has no pixels.
var ErrEmptySource = errors.New("material: footprint source is empty")

// Material is a renderer material.
type Material interface {
	Name() string
}

// Target is a renderer mesh whose material can be swapped.
type Target interface {
	meshres.Source
	Material() Material
	SetMaterial(m Material)
}

// Texture slots of a Composite.
const (
	SlotHeight = iota
	SlotNormal
	SlotRoughness
	SlotAO
	slotCount
)

var slotNames = [slotCount]string{"height", "normal", "roughness", "ao"}

// Composite is the material bound to a mesh while puff effects are applied.
// It samples height as displacement plus normal, roughness and AO maps.
type Composite struct {
	name     string
	textures [slotCount]Texture

	Metallic          float64
	RoughnessBias     float64
	DisplacementScale float64
	DisplacementBias  float64
	NormalIntensity   float64

	released bool
}

// Name implements Material.
func (c *Composite) Name() string { return c.name }

// Texture returns the texture in the given slot.
func (c *Composite) Texture(slot int) Texture {
	return c.textures[slot]
}

// Textures returns the height, normal, roughness and AO textures in slot order.
func (c *Composite) Textures() []Texture {
	return c.textures[:]
}

func (c *Composite) SetDisplacementScale(v float64) { c.DisplacementScale = v }
func (c *Composite) SetDisplacementBias(v float64)  { c.DisplacementBias = v }
func (c *Composite) SetNormalIntensity(v float64)   { c.NormalIntensity = v }

// Released reports whether the composite textures have been released.
func (c *Composite) Released() bool { return c.released }

// MarkDirty flags every texture for re-upload.
func (c *Composite) MarkDirty() {
	for _, t := range c.textures {
		if t != nil {
			t.MarkDirty()
		}
	}
}

// encodeSlots turns a height grid and its maps into per-slot texel data and
// the spec of each texture, downscaled to maxSize when needed.
func encodeSlots(grid *heightfield.Grid, maps *derived.Maps, maxSize int) [slotCount]TextureSpec {
	size := grid.Size
	height := fitGray(GrayImage(grid.Data, size), maxSize)
	normal := fitRGBA(NormalImage(maps.Normal, size), maxSize)
	rough := fitGray(GrayImage(maps.Roughness, size), maxSize)
	ao := fitGray(GrayImage(maps.AO, size), maxSize)

	return [slotCount]TextureSpec{
		SlotHeight:    {Size: height.Bounds().Dx(), Format: FormatGray, Pixels: height.Pix},
		SlotNormal:    {Size: normal.Bounds().Dx(), Format: FormatRGBA, Pixels: normal.Pix},
		SlotRoughness: {Size: rough.Bounds().Dx(), Format: FormatGray, Pixels: rough.Pix},
		SlotAO:        {Size: ao.Bounds().Dx(), Format: FormatGray, Pixels: ao.Pix},
	}
}

// newComposite allocates the four textures of a composite. On failure any
// texture already allocated is released again.
func newComposite(name string, alloc Allocator, specs [slotCount]TextureSpec) (*Composite, error) {
	c := &Composite{name: name}
	for i := range specs {
		spec := specs[i]
		spec.Name = name + "/" + slotNames[i]
		t, err := alloc.Allocate(spec)
		if err != nil {
			for _, prev := range c.textures[:i] {
				_ = prev.Release()
			}
			return nil, fmt.Errorf("creating composite %s: %w", name, err)
		}
		c.textures[i] = t
	}
	return c, nil
}

// upload replaces the texel data of every slot.
func (c *Composite) upload(specs [slotCount]TextureSpec) error {
	for i, t := range c.textures {
		if err := t.Update(specs[i].Pixels); err != nil {
			return fmt.Errorf("refreshing composite %s: %w", c.name, err)
		}
	}
	return nil
}

// release frees every texture once. Errors are logged, not returned.
func (c *Composite) release(log *zap.Logger) {
	if c.released {
		return
	}
	c.released = true
	for _, t := range c.textures {
		if t == nil {
			continue
		}
		if err := t.Release(); err != nil {
			log.Warn("texture release failed", zap.String("texture", t.Name()), zap.Error(err))
		}
	}
}
