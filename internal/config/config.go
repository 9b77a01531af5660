// Package config handles relief engine configuration loading and management.
package config

// Config holds all engine settings.
type Config struct {
	Engine   EngineConfig   `yaml:"engine"`
	Material MaterialConfig `yaml:"material"`
	Preview  PreviewConfig  `yaml:"preview"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// EngineConfig holds height field synthesis settings.
type EngineConfig struct {
	MaxTextureSize int   `yaml:"max_texture_size"` // Largest grid/texture edge in texels
	NoiseSeed      int64 `yaml:"noise_seed"`       // Seed of the coherent fabric noise
	AirbrushSeed   int64 `yaml:"airbrush_seed"`    // Seed of the per-cell airbrush jitter
	AirbrushRandom bool  `yaml:"airbrush_random"`  // Reseed airbrush jitter on every stroke
	CanvasSize     int   `yaml:"canvas_size"`      // Texture-space canvas edge per mesh
}

// MaterialConfig holds composite material defaults.
type MaterialConfig struct {
	RoughnessBias      float64 `yaml:"roughness_bias"`
	Metallic           float64 `yaml:"metallic"`
	DefaultCurvature   float64 `yaml:"default_curvature"`
	DisplacementFactor float64 `yaml:"displacement_factor"` // Displacement scale per unit of puff height
	NormalFactor       float64 `yaml:"normal_factor"`       // Normal intensity per unit of curvature
}

// PreviewConfig holds preview geometry and viewer window settings.
type PreviewConfig struct {
	WorldUnitsPerTexel float64 `yaml:"world_units_per_texel"`
	Width              int     `yaml:"width"`
	Height             int     `yaml:"height"`
	VSync              bool    `yaml:"vsync"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxTextureSize: 1024,
			NoiseSeed:      1337,
			AirbrushSeed:   7,
			AirbrushRandom: false,
			CanvasSize:     512,
		},
		Material: MaterialConfig{
			RoughnessBias:      0.8,
			Metallic:           0,
			DefaultCurvature:   0.5,
			DisplacementFactor: 0.1,
			NormalFactor:       0.5,
		},
		Preview: PreviewConfig{
			WorldUnitsPerTexel: 0.001,
			Width:              1280,
			Height:             720,
			VSync:              true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
