package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagSeed       = flag.Int64("seed", 0, "Noise seed (0 keeps the configured seed)")
	flagMaxTexture = flag.Int("max-texture", 0, "Maximum texture size in texels")
	flagWidth      = flag.Int("width", 0, "Preview window width")
	flagHeight     = flag.Int("height", 0, "Preview window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSeed != 0 {
		cfg.Engine.NoiseSeed = *flagSeed
	}
	if *flagMaxTexture > 0 {
		cfg.Engine.MaxTextureSize = *flagMaxTexture
	}
	if *flagWidth > 0 {
		cfg.Preview.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Preview.Height = *flagHeight
	}
}
