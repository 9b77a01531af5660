// Package gltexture implements the material texture allocator on OpenGL.
// Every call must be made on the thread that owns the GL context.
package gltexture

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/puffrelief/internal/logger"
	"github.com/Faultbox/puffrelief/internal/material"
)

// Allocator creates RGBA8 textures. Gray data is expanded to RGBA on upload
// so every texture can be blitted as-is.
type Allocator struct {
	maxSize  int
	textures map[*Texture]struct{}
	log      *zap.Logger
}

// New creates an allocator sized to the device's GL_MAX_TEXTURE_SIZE,
// further limited by limit when positive.
func New(limit int, log *zap.Logger) *Allocator {
	var deviceMax int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &deviceMax)
	size := int(deviceMax)
	if limit > 0 && (size <= 0 || limit < size) {
		size = limit
	}
	log = logger.OrNop(log)
	log.Info("texture allocator ready", zap.Int32("device_max", deviceMax), zap.Int("max", size))
	return &Allocator{
		maxSize:  size,
		textures: make(map[*Texture]struct{}),
		log:      log,
	}
}

// MaxTextureSize implements material.Allocator.
func (a *Allocator) MaxTextureSize() int {
	return a.maxSize
}

// Allocate implements material.Allocator.
func (a *Allocator) Allocate(spec material.TextureSpec) (material.Texture, error) {
	if spec.Size <= 0 || spec.Size > a.maxSize {
		return nil, fmt.Errorf("allocating %s: size %d outside [1,%d]", spec.Name, spec.Size, a.maxSize)
	}
	rgba, err := Expand(spec.Format, spec.Size, spec.Pixels)
	if err != nil {
		return nil, fmt.Errorf("allocating %s: %w", spec.Name, err)
	}

	t := &Texture{
		alloc:  a,
		name:   spec.Name,
		size:   spec.Size,
		format: spec.Format,
		pixels: rgba,
	}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8,
		int32(t.size), int32(t.size),
		0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&t.pixels[0]))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	a.textures[t] = struct{}{}
	a.log.Debug("texture allocated", zap.String("name", t.name), zap.Uint32("id", t.id), zap.Int("size", t.size))
	return t, nil
}

// Sync re-uploads every dirty texture and returns how many were uploaded.
// Call once per frame before drawing.
func (a *Allocator) Sync() int {
	n := 0
	for t := range a.textures {
		if !t.dirty {
			continue
		}
		gl.BindTexture(gl.TEXTURE_2D, t.id)
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0,
			int32(t.size), int32(t.size),
			gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&t.pixels[0]))
		t.dirty = false
		n++
	}
	if n > 0 {
		gl.BindTexture(gl.TEXTURE_2D, 0)
	}
	return n
}

// Live returns the number of unreleased textures.
func (a *Allocator) Live() int {
	return len(a.textures)
}

// Texture is an OpenGL texture created by Allocator.
type Texture struct {
	alloc  *Allocator
	id     uint32
	name   string
	size   int
	format material.Format
	pixels []byte
	dirty  bool
}

// ID returns the GL texture name, 0 once released.
func (t *Texture) ID() uint32 { return t.id }

func (t *Texture) Name() string            { return t.name }
func (t *Texture) Size() int               { return t.size }
func (t *Texture) Format() material.Format { return t.format }

// Update implements material.Texture. The data reaches the GPU on the next
// Sync after MarkDirty.
func (t *Texture) Update(pixels []byte) error {
	if t.id == 0 {
		return fmt.Errorf("updating %s: %w", t.name, material.ErrTextureReleased)
	}
	rgba, err := Expand(t.format, t.size, pixels)
	if err != nil {
		return fmt.Errorf("updating %s: %w", t.name, err)
	}
	t.pixels = rgba
	return nil
}

// MarkDirty implements material.Texture.
func (t *Texture) MarkDirty() {
	t.dirty = true
}

// Release implements material.Texture.
func (t *Texture) Release() error {
	if t.id == 0 {
		return fmt.Errorf("releasing %s: %w", t.name, material.ErrTextureReleased)
	}
	gl.DeleteTextures(1, &t.id)
	t.id = 0
	t.pixels = nil
	delete(t.alloc.textures, t)
	return nil
}

// Expand converts texel data of the given format to RGBA8.
func Expand(format material.Format, size int, pixels []byte) ([]byte, error) {
	want := size * size * format.BytesPerTexel()
	if len(pixels) != want {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", want, len(pixels))
	}
	if format == material.FormatRGBA {
		return append([]byte(nil), pixels...), nil
	}
	out := make([]byte, size*size*4)
	for i, v := range pixels {
		out[i*4] = v
		out[i*4+1] = v
		out[i*4+2] = v
		out[i*4+3] = 255
	}
	return out, nil
}
