// Package config handles application configuration loading and management.
package config

// Config holds all application settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Renderer RendererFiles  `yaml:"renderer"`
	Scene    SceneConfig    `yaml:"scene"`
	UI       UIConfig       `yaml:"ui"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	HighDPI    bool `yaml:"high_dpi"`
}

// RendererFiles locates the engine files read once at startup.
type RendererFiles struct {
	ConfigFile    string `yaml:"config_file"`    // render system settings (TOML)
	ResourcesFile string `yaml:"resources_file"` // shader resource locations (TOML)
}

// SceneConfig holds the scene to import and the camera start pose.
type SceneConfig struct {
	Asset       string     `yaml:"asset"`
	CameraStart [3]float32 `yaml:"camera_start"`
}

// UIConfig holds overlay settings.
type UIConfig struct {
	ShowOnStart         bool    `yaml:"show_on_start"`
	StatsIntervalFrames int     `yaml:"stats_interval_frames"`
	MenuSpringFrequency float64 `yaml:"menu_spring_frequency"`
	MenuSpringDamping   float64 `yaml:"menu_spring_damping"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			HighDPI:    false,
		},
		Renderer: RendererFiles{
			ConfigFile:    "configs/renderer.toml",
			ResourcesFile: "configs/resources.toml",
		},
		Scene: SceneConfig{
			Asset:       "data/test_scene.glb",
			CameraStart: [3]float32{0, 5, 15},
		},
		UI: UIConfig{
			ShowOnStart:         true,
			StatsIntervalFrames: 20,
			MenuSpringFrequency: 6.0,
			MenuSpringDamping:   1.0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
