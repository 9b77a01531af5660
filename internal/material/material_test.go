package material

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/puffrelief/internal/derived"
	"github.com/Faultbox/puffrelief/internal/heightfield"
	"github.com/Faultbox/puffrelief/internal/meshres"
)

func newTarget(id string) (*MeshTarget, *Basic) {
	orig := &Basic{Label: id + "-cloth"}
	return NewMeshTarget(meshres.NewQuad(id, 2, 2), orig), orig
}

// bump returns a square image with a bright disc in the middle.
func bump(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	c := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)+0.5-c, float64(y)+0.5-c
			if dx*dx+dy*dy < c*c/4 {
				img.Set(x, y, color.NRGBA{255, 255, 255, 255})
			}
		}
	}
	return img
}

func newResolver(maxSize int) (*Resolver, *MemoryAllocator) {
	alloc := NewMemoryAllocator(maxSize)
	return NewResolver(DefaultOptions(alloc)), alloc
}

func TestResolveIsCached(t *testing.T) {
	r, alloc := newResolver(1024)
	target, orig := newTarget("sleeve")
	src := bump(64)

	first, err := r.Resolve(target, src)
	require.NoError(t, err)
	second, err := r.Resolve(target, src)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Same(t, orig, first.Original)
	assert.True(t, first.Active())
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 4, alloc.Allocated)
	assert.Equal(t, Key{MeshID: "sleeve", Width: 64, Height: 64}, first.Key)
	// Resolve alone does not bind.
	assert.Same(t, orig, target.Material())
}

func TestResolveEmptySource(t *testing.T) {
	r, alloc := newResolver(1024)
	target, _ := newTarget("sleeve")

	_, err := r.Resolve(target, image.NewGray(image.Rect(0, 0, 0, 0)))
	assert.ErrorIs(t, err, ErrEmptySource)
	_, err = r.ApplyPuffToMesh(target, nil, 1, 0.5)
	assert.ErrorIs(t, err, ErrEmptySource)

	assert.Zero(t, r.Len())
	assert.Zero(t, alloc.Allocated)
}

func TestApplyBindsAndTunes(t *testing.T) {
	r, _ := newResolver(1024)
	target, _ := newTarget("sleeve")

	res, err := r.ApplyPuffToMesh(target, bump(64), 2, 0.5)
	require.NoError(t, err)

	c := res.Composite
	assert.Same(t, c, target.Material())
	assert.InDelta(t, 0.2, c.DisplacementScale, 1e-12)
	assert.Zero(t, c.DisplacementBias)
	assert.InDelta(t, 0.25, c.NormalIntensity, 1e-12)
	assert.InDelta(t, 0.8, c.RoughnessBias, 1e-12)
	for _, tex := range c.Textures() {
		mt := tex.(*MemoryTexture)
		assert.True(t, mt.Dirty, tex.Name())
		assert.Equal(t, 1, mt.Version, tex.Name())
	}

	// Low curvature keeps a minimum normal strength.
	res, err = r.ApplyPuffToMesh(target, bump(64), 1, 0.05)
	require.NoError(t, err)
	assert.InDelta(t, 0.1, res.Composite.NormalIntensity, 1e-12)
	assert.Equal(t, 1, r.Len())
}

func TestApplyRefreshesCachedTextures(t *testing.T) {
	r, alloc := newResolver(1024)
	target, _ := newTarget("sleeve")

	res, err := r.ApplyPuffToMesh(target, image.NewGray(image.Rect(0, 0, 64, 64)), 1, 0.5)
	require.NoError(t, err)
	height := res.Composite.Texture(SlotHeight).(*MemoryTexture)
	assert.Zero(t, height.Pixels[32*64+32])

	again, err := r.ApplyPuffToMesh(target, bump(64), 1, 0.5)
	require.NoError(t, err)
	assert.Same(t, res, again)
	assert.Equal(t, 4, alloc.Allocated)
	assert.Equal(t, uint8(255), height.Pixels[32*64+32])
}

func TestReresolveWithNewKeyDisposesPrevious(t *testing.T) {
	r, alloc := newResolver(1024)
	target, orig := newTarget("sleeve")

	first, err := r.ApplyPuffToMesh(target, bump(64), 1, 0.5)
	require.NoError(t, err)
	second, err := r.ApplyPuffToMesh(target, bump(128), 1, 0.5)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.False(t, first.Active())
	assert.True(t, first.Composite.Released())
	assert.Same(t, orig, second.Original)
	assert.Same(t, second.Composite, target.Material())
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 4, alloc.Live())
}

func TestClearRestoresOriginal(t *testing.T) {
	r, alloc := newResolver(1024)
	target, orig := newTarget("sleeve")

	res, err := r.ApplyPuffToMesh(target, bump(64), 1, 0.5)
	require.NoError(t, err)

	r.ClearPuffEffects(target)
	assert.Same(t, orig, target.Material())
	assert.False(t, res.Active())
	assert.Zero(t, r.Len())
	assert.Zero(t, alloc.Live())
	assert.Equal(t, 4, alloc.Released)

	// Clearing again, or clearing an untouched mesh, changes nothing.
	r.ClearPuffEffects(target)
	other, otherOrig := newTarget("collar")
	r.ClearPuffEffects(other)
	assert.Same(t, otherOrig, other.Material())
	assert.Equal(t, 4, alloc.Released)
}

func TestApplyMaps(t *testing.T) {
	r, _ := newResolver(1024)
	target, _ := newTarget("hem")

	grid := heightfield.NewGrid(64)
	grid.Set(10, 10, 1)
	maps, err := derived.NewGenerator(derived.Options{}).Generate(grid, 0.5)
	require.NoError(t, err)

	res, err := r.ApplyMaps(target, grid, maps, 1, 0.5)
	require.NoError(t, err)
	assert.Equal(t, Key{MeshID: "hem", Width: 64, Height: 64}, res.Key)
	height := res.Composite.Texture(SlotHeight).(*MemoryTexture)
	assert.Equal(t, uint8(255), height.Pixels[10*64+10])
	normal := res.Composite.Texture(SlotNormal)
	assert.Equal(t, FormatRGBA, normal.Format())

	_, err = r.ApplyMaps(target, heightfield.NewGrid(32), maps, 1, 0.5)
	assert.ErrorIs(t, err, derived.ErrDimensionMismatch)
}

func TestDegradesAboveDeviceMaximum(t *testing.T) {
	r, _ := newResolver(256)
	target, _ := newTarget("sleeve")

	grid := heightfield.NewGrid(512)
	maps, err := derived.NewGenerator(derived.Options{}).Generate(grid, 0.5)
	require.NoError(t, err)

	res, err := r.ApplyMaps(target, grid, maps, 1, 0.5)
	require.NoError(t, err)
	for _, tex := range res.Composite.Textures() {
		assert.Equal(t, 256, tex.Size(), tex.Name())
	}
}

func TestDisposeAll(t *testing.T) {
	r, alloc := newResolver(1024)
	a, _ := newTarget("a")
	b, _ := newTarget("b")
	_, err := r.ApplyPuffToMesh(a, bump(64), 1, 0.5)
	require.NoError(t, err)
	_, err = r.ApplyPuffToMesh(b, bump(64), 1, 0.5)
	require.NoError(t, err)

	r.DisposeAll()
	r.DisposeAll()
	assert.Zero(t, r.Len())
	assert.Zero(t, alloc.Live())
	_, ok := r.Active("a")
	assert.False(t, ok)
}

type failingAllocator struct {
	*MemoryAllocator
	failAfter int
}

func (f *failingAllocator) Allocate(spec TextureSpec) (Texture, error) {
	if f.Allocated >= f.failAfter {
		return nil, errors.New("out of video memory")
	}
	return f.MemoryAllocator.Allocate(spec)
}

func TestAllocationFailureLeavesNoState(t *testing.T) {
	alloc := &failingAllocator{MemoryAllocator: NewMemoryAllocator(1024), failAfter: 2}
	r := NewResolver(DefaultOptions(alloc))
	target, orig := newTarget("sleeve")

	_, err := r.ApplyPuffToMesh(target, bump(64), 1, 0.5)
	require.Error(t, err)
	assert.Zero(t, r.Len())
	assert.Zero(t, alloc.Live())
	assert.Same(t, orig, target.Material())
}

func TestReresolveAllocationFailureKeepsPrevious(t *testing.T) {
	alloc := &failingAllocator{MemoryAllocator: NewMemoryAllocator(1024), failAfter: 4}
	r := NewResolver(DefaultOptions(alloc))
	target, orig := newTarget("sleeve")

	first, err := r.ApplyPuffToMesh(target, bump(64), 1, 0.5)
	require.NoError(t, err)

	_, err = r.ApplyPuffToMesh(target, bump(32), 1, 0.5)
	require.Error(t, err)

	res, ok := r.Active("sleeve")
	require.True(t, ok)
	assert.Same(t, first, res)
	assert.False(t, res.Composite.Released())
	assert.Same(t, first.Composite, target.Material())
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 4, alloc.Live())

	r.ClearPuffEffects(target)
	assert.Same(t, orig, target.Material())
}

func TestMemoryTextureDoubleRelease(t *testing.T) {
	alloc := NewMemoryAllocator(0)
	tex, err := alloc.Allocate(TextureSpec{Name: "t", Size: 2, Format: FormatGray, Pixels: make([]byte, 4)})
	require.NoError(t, err)

	require.NoError(t, tex.Release())
	assert.ErrorIs(t, tex.Release(), ErrTextureReleased)
	assert.ErrorIs(t, tex.Update(make([]byte, 4)), ErrTextureReleased)
	assert.Equal(t, 1, alloc.Released)
}

func TestSourceGrid(t *testing.T) {
	tests := []struct {
		name     string
		w, h     int
		max      int
		wantSize int
	}{
		{"power of two", 64, 64, 1024, 64},
		{"rounded up", 100, 60, 1024, 128},
		{"clamped", 600, 600, 256, 256},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := SourceGrid(image.NewGray(image.Rect(0, 0, tt.w, tt.h)), tt.max)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSize, g.Size)
		})
	}

	// Transparent pixels carry no height.
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.Set(0, 0, color.NRGBA{255, 255, 255, 255})
	img.Set(1, 0, color.NRGBA{255, 255, 255, 0})
	g, err := SourceGrid(img, 1024)
	require.NoError(t, err)
	assert.InDelta(t, 1, g.At(0, 0), 1e-9)
	assert.Zero(t, g.At(1, 0))
}
