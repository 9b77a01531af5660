// Package framebuffer copies textures to the screen through a read
// framebuffer and reads back the default framebuffer.
package framebuffer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Rect is a destination rectangle in window pixels, origin bottom-left.
type Rect struct {
	X, Y, Width, Height int32
}

// Quadrants splits a width x height viewport into four equal rectangles:
// top-left, top-right, bottom-left, bottom-right.
func Quadrants(width, height int32) [4]Rect {
	hw, hh := width/2, height/2
	return [4]Rect{
		{X: 0, Y: hh, Width: hw, Height: height - hh},
		{X: hw, Y: hh, Width: width - hw, Height: height - hh},
		{X: 0, Y: 0, Width: hw, Height: hh},
		{X: hw, Y: 0, Width: width - hw, Height: hh},
	}
}

// Fit returns the largest square of side size centered in r, scaled to fit.
func (r Rect) Fit(size int32) Rect {
	side := min(r.Width, r.Height)
	if size > 0 && size < side {
		side = size
	}
	return Rect{
		X:      r.X + (r.Width-side)/2,
		Y:      r.Y + (r.Height-side)/2,
		Width:  side,
		Height: side,
	}
}

// UV maps a drawable pixel (origin top-left) to texture coordinates of a
// texture blitted into r of a framebuffer drawableHeight pixels tall.
// ok is false outside r.
func (r Rect) UV(px, py float64, drawableHeight int32) (u, v float64, ok bool) {
	if r.Width <= 0 || r.Height <= 0 {
		return 0, 0, false
	}
	glY := float64(drawableHeight) - py
	u = (px - float64(r.X)) / float64(r.Width)
	v = (float64(r.Y+r.Height) - glY) / float64(r.Height)
	return u, v, u >= 0 && u <= 1 && v >= 0 && v <= 1
}

// Blitter owns a read framebuffer that textures are attached to in turn.
type Blitter struct {
	fbo uint32
}

// New creates a blitter.
func New() (*Blitter, error) {
	b := &Blitter{}
	gl.GenFramebuffers(1, &b.fbo)
	if b.fbo == 0 {
		return nil, fmt.Errorf("creating read framebuffer: glGenFramebuffers returned 0")
	}
	return b, nil
}

// Blit copies a square texture of edge size into dst of the default
// framebuffer. The texture's first row lands at the top of dst.
func (b *Blitter) Blit(texture uint32, size int32, dst Rect) error {
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, b.fbo)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, texture, 0)

	status := gl.CheckFramebufferStatus(gl.READ_FRAMEBUFFER)
	if status != gl.FRAMEBUFFER_COMPLETE {
		gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
		return fmt.Errorf("read framebuffer incomplete: 0x%x", status)
	}

	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	// Source rows go top-down, GL rows bottom-up: flip by swapping dst Y.
	gl.BlitFramebuffer(
		0, 0, size, size,
		dst.X, dst.Y+dst.Height, dst.X+dst.Width, dst.Y,
		gl.COLOR_BUFFER_BIT, gl.LINEAR)

	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, 0, 0)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	return nil
}

// Clear clears the default framebuffer with the specified color.
func Clear(r, g, b, a float32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.ClearColor(r, g, b, a)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// ReadPixels reads the default framebuffer as bottom-up RGBA rows.
func ReadPixels(width, height int32) []byte {
	pixels := make([]byte, width*height*4)

	var prevFBO int32
	gl.GetIntegerv(gl.READ_FRAMEBUFFER_BINDING, &prevFBO)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)

	gl.ReadPixels(0, 0, width, height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, uint32(prevFBO))
	return pixels
}

// Destroy releases the framebuffer object.
func (b *Blitter) Destroy() {
	if b.fbo != 0 {
		gl.DeleteFramebuffers(1, &b.fbo)
		b.fbo = 0
	}
}
