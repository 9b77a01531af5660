package material

import (
	"errors"
	"fmt"
)

// ErrTextureReleased is returned when a released texture is used or released again.
var ErrTextureReleased = errors.New("material: texture already released")

// Format is the texel layout of a texture upload.
type Format uint8

const (
	FormatGray Format = iota // 1 byte per texel
	FormatRGBA               // 4 bytes per texel
)

// BytesPerTexel returns the texel stride of f.
func (f Format) BytesPerTexel() int {
	if f == FormatRGBA {
		return 4
	}
	return 1
}

func (f Format) String() string {
	if f == FormatRGBA {
		return "rgba"
	}
	return "gray"
}

// TextureSpec describes a square texture to allocate.
type TextureSpec struct {
	Name   string
	Size   int
	Format Format
	Pixels []byte
}

// Texture is a renderer-side texture handle.
type Texture interface {
	Name() string
	Size() int
	Format() Format
	// Update replaces the texel data; the renderer picks it up once marked dirty.
	Update(pixels []byte) error
	MarkDirty()
	Release() error
}

// Allocator creates renderer textures.
type Allocator interface {
	Allocate(spec TextureSpec) (Texture, error)
	// MaxTextureSize is the largest texture edge the device supports.
	MaxTextureSize() int
}

// MemoryAllocator keeps textures in memory. It backs headless tools and
// tests and records allocation and release counts.
type MemoryAllocator struct {
	MaxSize   int
	Allocated int
	Released  int
	live      map[*MemoryTexture]struct{}
}

// NewMemoryAllocator creates an allocator with the given maximum edge.
func NewMemoryAllocator(maxSize int) *MemoryAllocator {
	return &MemoryAllocator{MaxSize: maxSize, live: make(map[*MemoryTexture]struct{})}
}

// Allocate implements Allocator.
func (a *MemoryAllocator) Allocate(spec TextureSpec) (Texture, error) {
	if spec.Size <= 0 {
		return nil, fmt.Errorf("allocating %s: invalid size %d", spec.Name, spec.Size)
	}
	if a.MaxSize > 0 && spec.Size > a.MaxSize {
		return nil, fmt.Errorf("allocating %s: size %d exceeds device maximum %d", spec.Name, spec.Size, a.MaxSize)
	}
	want := spec.Size * spec.Size * spec.Format.BytesPerTexel()
	if len(spec.Pixels) != want {
		return nil, fmt.Errorf("allocating %s: pixel data size mismatch: expected %d, got %d", spec.Name, want, len(spec.Pixels))
	}
	t := &MemoryTexture{
		alloc:  a,
		name:   spec.Name,
		size:   spec.Size,
		format: spec.Format,
		Pixels: append([]byte(nil), spec.Pixels...),
		Dirty:  true,
	}
	a.live[t] = struct{}{}
	a.Allocated++
	return t, nil
}

// MaxTextureSize implements Allocator.
func (a *MemoryAllocator) MaxTextureSize() int {
	return a.MaxSize
}

// Live returns the number of allocated, unreleased textures.
func (a *MemoryAllocator) Live() int {
	return len(a.live)
}

// MemoryTexture is the Texture of a MemoryAllocator.
type MemoryTexture struct {
	alloc    *MemoryAllocator
	name     string
	size     int
	format   Format
	Pixels   []byte
	Dirty    bool
	Version  int
	released bool
}

func (t *MemoryTexture) Name() string   { return t.name }
func (t *MemoryTexture) Size() int      { return t.size }
func (t *MemoryTexture) Format() Format { return t.format }

// Update implements Texture.
func (t *MemoryTexture) Update(pixels []byte) error {
	if t.released {
		return fmt.Errorf("updating %s: %w", t.name, ErrTextureReleased)
	}
	if len(pixels) != len(t.Pixels) {
		return fmt.Errorf("updating %s: pixel data size mismatch: expected %d, got %d", t.name, len(t.Pixels), len(pixels))
	}
	copy(t.Pixels, pixels)
	return nil
}

// MarkDirty implements Texture.
func (t *MemoryTexture) MarkDirty() {
	t.Dirty = true
	t.Version++
}

// Release implements Texture.
func (t *MemoryTexture) Release() error {
	if t.released {
		return fmt.Errorf("releasing %s: %w", t.name, ErrTextureReleased)
	}
	t.released = true
	t.Pixels = nil
	delete(t.alloc.live, t)
	t.alloc.Released++
	return nil
}

// Released reports whether the texture has been released.
func (t *MemoryTexture) Released() bool {
	return t.released
}
