package config

import "flag"

// Flags are the command-line overrides. Zero values leave the config alone.
type Flags struct {
	Config     string
	Debug      bool
	Scene      string
	Windowed   bool
	Fullscreen bool
	Width      int
	Height     int
}

var cli Flags

func init() {
	RegisterFlags(flag.CommandLine, &cli)
}

// RegisterFlags binds f to fs.
func RegisterFlags(fs *flag.FlagSet, f *Flags) {
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.Scene, "scene", "", "Scene asset to import (.gltf or .glb)")
	fs.BoolVar(&f.Windowed, "windowed", false, "Run in windowed mode")
	fs.BoolVar(&f.Fullscreen, "fullscreen", false, "Run in fullscreen mode")
	fs.IntVar(&f.Width, "width", 0, "Window width")
	fs.IntVar(&f.Height, "height", 0, "Window height")
}

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return cli.Config
}

// apply writes the overrides into cfg. -fullscreen wins over -windowed.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Scene != "" {
		cfg.Scene.Asset = f.Scene
	}
	if f.Windowed {
		cfg.Graphics.Fullscreen = false
	}
	if f.Fullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if f.Width > 0 {
		cfg.Graphics.Width = f.Width
	}
	if f.Height > 0 {
		cfg.Graphics.Height = f.Height
	}
}
