// pufftool synthesizes puff relief maps from the command line.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/puffrelief/internal/config"
	"github.com/Faultbox/puffrelief/internal/derived"
	"github.com/Faultbox/puffrelief/internal/engine/texture"
	"github.com/Faultbox/puffrelief/internal/export"
	"github.com/Faultbox/puffrelief/internal/heightfield"
	"github.com/Faultbox/puffrelief/internal/logger"
	"github.com/Faultbox/puffrelief/internal/material"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	command := args[0]
	args = args[1:]

	switch command {
	case "synth":
		cmdSynth(cfg, args)
	case "bake":
		cmdBake(cfg, args)
	case "info":
		cmdInfo(cfg, args)
	case "config":
		cmdConfig(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`pufftool - puff relief map synthesizer

Usage:
  pufftool [global options] <command> [options]

Global options:
  -config <file>       Config file
  -debug               Debug logging
  -seed <n>            Noise seed
  -max-texture <n>     Maximum texture size

Commands:
  synth [options]      Write height, normal, roughness, metallic and AO PNGs
  bake [options]       Derive maps from an existing height image
  info [options]       Print resolution and height statistics
  config [path]        Write the effective config as YAML

Puff options (synth, info):
  -params <file>       YAML parameter file (flags override it)
  -size, -shape, -curvature, -hardness, -opacity, -flow, -height,
  -rotation, -pattern, -pattern-scale, -pattern-rotation

Bake options:
  -source <file>       Height image (TGA, PNG, JPEG, BMP, TIFF, WebP)
  -curvature <n>       Curvature driving normal and AO strength
  -out, -prefix        Output directory and file name prefix

Examples:
  pufftool synth -size 100 -shape diamond -out ./maps
  pufftool bake -source stamp.tga -curvature 0.8 -out ./maps
  pufftool info -params star.yaml
  pufftool -seed 42 synth -shape airbrush -key stroke-7
  pufftool config ./config.yaml`)
}

func newSynthesizer(cfg *config.Config) *heightfield.Synthesizer {
	return heightfield.NewSynthesizer(heightfield.Options{
		MaxResolution:  cfg.Engine.MaxTextureSize,
		NoiseSeed:      cfg.Engine.NoiseSeed,
		AirbrushSeed:   cfg.Engine.AirbrushSeed,
		AirbrushRandom: cfg.Engine.AirbrushRandom,
		Logger:         logger.Named("heightfield"),
	})
}

func cmdSynth(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("synth", flag.ExitOnError)
	pf := bindParams(fs)
	out := fs.String("out", ".", "Output directory")
	prefix := fs.String("prefix", "puff", "File name prefix")
	key := fs.String("key", "puff-1", "Effect id selecting the airbrush jitter stream")
	fs.Parse(args)

	params, err := pf.resolve(fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()
	grid, err := newSynthesizer(cfg).Synthesize(params, *key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	gen := derived.NewGenerator(derived.Options{
		Metallic: cfg.Material.Metallic,
		Logger:   logger.Named("derived"),
	})
	maps, err := gen.Generate(grid, params.Curvature)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	paths, err := export.NewWriter(*out, *prefix).WriteMaps(grid, maps)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("maps written",
		zap.Int("resolution", grid.Size),
		zap.Duration("elapsed", time.Since(start)))
	for _, p := range paths {
		fmt.Println(p)
	}
}

func cmdBake(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("bake", flag.ExitOnError)
	source := fs.String("source", "", "Height image")
	curvature := fs.Float64("curvature", 0.5, "Curvature (0-1)")
	out := fs.String("out", ".", "Output directory")
	prefix := fs.String("prefix", "bake", "File name prefix")
	fs.Parse(args)

	if *source == "" {
		fmt.Fprintln(os.Stderr, "Usage: pufftool bake -source <file> [-curvature n] [-out dir]")
		os.Exit(1)
	}

	img, err := texture.Load(*source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	grid, err := material.SourceGrid(img, cfg.Engine.MaxTextureSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	gen := derived.NewGenerator(derived.Options{
		Metallic: cfg.Material.Metallic,
		Logger:   logger.Named("derived"),
	})
	maps, err := gen.Generate(grid, *curvature)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	paths, err := export.NewWriter(*out, *prefix).WriteMaps(grid, maps)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	b := img.Bounds()
	logger.Info("source baked",
		zap.String("source", *source),
		zap.Int("width", b.Dx()),
		zap.Int("height", b.Dy()),
		zap.Int("resolution", grid.Size))
	for _, p := range paths {
		fmt.Println(p)
	}
}

func cmdInfo(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	pf := bindParams(fs)
	key := fs.String("key", "puff-1", "Effect id selecting the airbrush jitter stream")
	fs.Parse(args)

	params, err := pf.resolve(fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	synth := newSynthesizer(cfg)
	grid, err := synth.Synthesize(params, *key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	stats := heightfield.ComputeStats(grid)

	fmt.Printf("Shape:      %s\n", params.Shape)
	fmt.Printf("Size:       %g\n", params.Size)
	fmt.Printf("Requested:  %d\n", heightfield.Resolution(params.Size))
	fmt.Printf("Resolution: %d\n", grid.Size)
	fmt.Println()
	fmt.Printf("Min:        %.4f\n", stats.Min)
	fmt.Printf("Max:        %.4f at (%d, %d)\n", stats.Max, stats.ArgMaxX, stats.ArgMaxY)
	fmt.Printf("Mean:       %.4f\n", stats.Mean)
	fmt.Printf("Center:     %.4f\n", grid.At(grid.Size/2, grid.Size/2))
}

func cmdConfig(cfg *config.Config, args []string) {
	if len(args) < 1 {
		path, err := cfg.Save()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(path)
		return
	}
	if err := cfg.SaveTo(args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(args[0])
}
