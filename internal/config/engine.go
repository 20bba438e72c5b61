package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

var (
	// ErrMissingFile is returned when a required engine file does not exist.
	ErrMissingFile = errors.New("config: missing file")
	// ErrInvalidFile is returned when an engine file cannot be parsed or fails validation.
	ErrInvalidFile = errors.New("config: invalid file")
)

// RenderSystemGL41 is the only supported render backend.
const RenderSystemGL41 = "gl41"

// RenderSettings is the renderer configuration file.
type RenderSettings struct {
	RenderSystem string     `toml:"render_system"`
	SRGB         bool       `toml:"srgb"`
	Background   [3]float32 `toml:"background"`
	Ambient      [3]float32 `toml:"ambient"`
	FovY         float32    `toml:"fov_y"`
	NearClip     float32    `toml:"near_clip"`
	FarClip      float32    `toml:"far_clip"`
	MaxLights    int        `toml:"max_lights"`
}

// DefaultRenderSettings returns the values used for keys a file leaves out.
func DefaultRenderSettings() RenderSettings {
	return RenderSettings{
		RenderSystem: RenderSystemGL41,
		SRGB:         false,
		Background:   [3]float32{0.2, 0.4, 0.6},
		Ambient:      [3]float32{0.25, 0.25, 0.3},
		FovY:         45,
		NearClip:     0.2,
		FarClip:      1000,
		MaxLights:    32,
	}
}

// ResourceLocation is one directory scanned for shader sources.
type ResourceLocation struct {
	Path      string `toml:"path"`
	Recursive bool   `toml:"recursive"`
}

// Resources is the resource-location file.
type Resources struct {
	Locations []ResourceLocation `toml:"location"`
}

// LoadRenderSettings reads and validates the renderer configuration file.
func LoadRenderSettings(path string) (RenderSettings, error) {
	rs := DefaultRenderSettings()
	if err := decodeTOML(path, &rs); err != nil {
		return RenderSettings{}, err
	}
	if err := rs.validate(); err != nil {
		return RenderSettings{}, fmt.Errorf("%w: %s: %v", ErrInvalidFile, path, err)
	}
	return rs, nil
}

func (rs RenderSettings) validate() error {
	if rs.RenderSystem != RenderSystemGL41 {
		return fmt.Errorf("unsupported render_system %q", rs.RenderSystem)
	}
	if rs.FovY <= 0 || rs.FovY >= 180 {
		return fmt.Errorf("fov_y %.1f out of range (0, 180)", rs.FovY)
	}
	if rs.NearClip <= 0 || rs.FarClip <= rs.NearClip {
		return fmt.Errorf("bad clip planes near=%g far=%g", rs.NearClip, rs.FarClip)
	}
	if rs.MaxLights <= 0 {
		return fmt.Errorf("max_lights must be positive, got %d", rs.MaxLights)
	}
	return nil
}

// LoadResources reads the resource-location file. Relative location paths
// are resolved against the file's directory and every location must exist.
func LoadResources(path string) (Resources, error) {
	var res Resources
	if err := decodeTOML(path, &res); err != nil {
		return Resources{}, err
	}

	base := filepath.Dir(path)
	for i, loc := range res.Locations {
		if loc.Path == "" {
			return Resources{}, fmt.Errorf("%w: %s: location %d has no path", ErrInvalidFile, path, i)
		}
		if !filepath.IsAbs(loc.Path) {
			res.Locations[i].Path = filepath.Join(base, loc.Path)
		}
		info, err := os.Stat(res.Locations[i].Path)
		if err != nil || !info.IsDir() {
			return Resources{}, fmt.Errorf("%w: %s: location %q is not a directory", ErrInvalidFile, path, loc.Path)
		}
	}
	return res, nil
}

func decodeTOML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidFile, path, err)
	}
	return nil
}
