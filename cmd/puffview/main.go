// puffview shows the relief maps of puffs placed on a flat panel.
// The window is split into height, normal, roughness and AO quadrants;
// clicking any quadrant places a puff at that texture coordinate. L switches
// to a single lit view of the relief.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/puffrelief/internal/config"
	"github.com/Faultbox/puffrelief/internal/engine/framebuffer"
	"github.com/Faultbox/puffrelief/internal/engine/gltexture"
	"github.com/Faultbox/puffrelief/internal/engine/input"
	"github.com/Faultbox/puffrelief/internal/engine/renderer"
	"github.com/Faultbox/puffrelief/internal/engine/window"
	"github.com/Faultbox/puffrelief/internal/export"
	"github.com/Faultbox/puffrelief/internal/logger"
	"github.com/Faultbox/puffrelief/internal/material"
	"github.com/Faultbox/puffrelief/internal/puff"
	"github.com/Faultbox/puffrelief/internal/session"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	params := puff.DefaultParameters()
	if flag.NArg() > 0 {
		if params, err = puff.LoadParameters(flag.Arg(0)); err != nil {
			logger.Error("failed to load parameters", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("=== Puff Viewer ===")

	win, err := window.New(window.Config{
		Title:  "puffview",
		Width:  cfg.Preview.Width,
		Height: cfg.Preview.Height,
		VSync:  cfg.Preview.VSync,
	}, logger.Named("window"))
	if err != nil {
		logger.Error("failed to create window", zap.Error(err))
		os.Exit(1)
	}
	defer win.Close()

	v, err := newViewer(cfg, win, params)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	v.Run()
	logger.Info("viewer closed normally")
}

type viewer struct {
	win     *window.Window
	input   *input.Input
	alloc   *gltexture.Allocator
	blitter *framebuffer.Blitter
	relief  *renderer.Renderer
	lit     bool
	sess    *session.Session
	panel   *material.MeshTarget
	shots   *export.Writer
	params  puff.Parameters
	placed  []string
	log     *zap.Logger
}

func newViewer(cfg *config.Config, win *window.Window, params puff.Parameters) (*viewer, error) {
	blitter, err := framebuffer.New()
	if err != nil {
		return nil, err
	}
	relief, err := renderer.New(logger.Named("renderer"))
	if err != nil {
		blitter.Destroy()
		return nil, err
	}
	alloc := gltexture.New(cfg.Engine.MaxTextureSize, logger.Named("gltexture"))

	return &viewer{
		win:     win,
		input:   input.New(),
		alloc:   alloc,
		blitter: blitter,
		relief:  relief,
		sess:    session.New(cfg, alloc, logger.Named("session")),
		panel:   material.NewMeshTarget(newPanel(), &material.Basic{Label: "panel"}),
		shots:   export.NewWriter("screenshots", "puffview"),
		params:  params,
		log:     logger.Named("viewer"),
	}, nil
}

// Run drives the frame loop until the window is closed.
func (v *viewer) Run() {
	for !v.input.Update() {
		for _, a := range v.input.Actions() {
			v.handle(a)
		}
		v.alloc.Sync()
		v.draw()
		v.win.SwapBuffers()
	}
}

func (v *viewer) handle(a input.Action) {
	switch a.Type {
	case input.ActionPlace:
		v.place(a.X, a.Y)
	case input.ActionUndo:
		v.undo()
	case input.ActionClear:
		v.sess.ClearMesh(v.panel)
		v.placed = v.placed[:0]
	case input.ActionNextShape:
		v.params.Shape = nextShape(v.params.Shape)
		v.log.Info("shape", zap.Stringer("shape", v.params.Shape))
	case input.ActionSymmetry:
		v.params.Symmetry = toggleSymmetry(v.params.Symmetry)
		v.log.Info("symmetry", zap.Bool("enabled", v.params.Symmetry.Enabled), zap.Int("count", v.params.Symmetry.Count))
	case input.ActionSizeUp:
		v.params.Size = resize(v.params.Size, 1.25)
	case input.ActionSizeDown:
		v.params.Size = resize(v.params.Size, 0.8)
	case input.ActionLit:
		v.lit = !v.lit
	case input.ActionCapture:
		v.capture()
	}
	v.updateTitle()
}

func (v *viewer) place(x, y int) {
	uv, ok := v.pointToUV(x, y)
	if !ok {
		return
	}
	effects, err := v.sess.PlacePuff(v.panel, uv, v.params)
	if err != nil {
		v.log.Warn("placing puff failed", zap.Error(err))
		return
	}
	v.placed = append(v.placed, effects[0].ID)
}

func (v *viewer) undo() {
	if len(v.placed) == 0 {
		return
	}
	id := v.placed[len(v.placed)-1]
	v.placed = v.placed[:len(v.placed)-1]
	if err := v.sess.RemovePuff(v.panel, id); err != nil {
		v.log.Warn("removing puff failed", zap.String("id", id), zap.Error(err))
	}
}

func (v *viewer) draw() {
	w, h := v.win.GetSize()
	framebuffer.Clear(0.1, 0.1, 0.15, 1.0)

	res, ok := v.sess.Materials().Active(v.panel.ID())
	if !ok {
		return
	}
	if v.lit {
		v.drawLit(res.Composite, int32(w), int32(h))
		return
	}

	rects := viewRects(int32(w), int32(h), false)
	for i, tex := range res.Composite.Textures() {
		gt, ok := tex.(*gltexture.Texture)
		if !ok || gt.ID() == 0 {
			continue
		}
		size := int32(gt.Size())
		if err := v.blitter.Blit(gt.ID(), size, rects[i]); err != nil {
			v.log.Warn("blit failed", zap.String("texture", gt.Name()), zap.Error(err))
		}
	}
}

func (v *viewer) drawLit(c *material.Composite, w, h int32) {
	var ids [4]uint32
	for i, tex := range c.Textures() {
		if gt, ok := tex.(*gltexture.Texture); ok {
			ids[i] = gt.ID()
		}
	}
	r := viewRects(w, h, true)[0]
	v.relief.Draw(renderer.Relief{
		Height:            ids[material.SlotHeight],
		Normal:            ids[material.SlotNormal],
		Roughness:         ids[material.SlotRoughness],
		AO:                ids[material.SlotAO],
		DisplacementScale: float32(c.DisplacementScale),
		DisplacementBias:  float32(c.DisplacementBias),
		NormalIntensity:   float32(c.NormalIntensity),
		Metallic:          float32(c.Metallic),
		RoughnessBias:     float32(c.RoughnessBias),
	}, r.X, r.Y, r.Width, r.Height)
}

func (v *viewer) capture() {
	w, h := v.win.GetSize()
	path, err := v.shots.CaptureFromPixels(framebuffer.ReadPixels(int32(w), int32(h)), w, h)
	if err != nil {
		v.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

func (v *viewer) updateTitle() {
	v.win.SetTitle(fmt.Sprintf("puffview - %s size %.0f - %d puffs",
		v.params.Shape, v.params.Size, v.sess.Effects().Len()))
}

// Close releases the session before the GL context goes away.
func (v *viewer) Close() {
	v.sess.Close()
	v.relief.Close()
	v.blitter.Destroy()
}
