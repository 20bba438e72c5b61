package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadRenderSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "renderer.toml")
	writeFile(t, path, `
render_system = "gl41"
srgb = true
background = [0.1, 0.1, 0.1]
fov_y = 60.0
`)

	rs, err := LoadRenderSettings(path)
	require.NoError(t, err)
	assert.True(t, rs.SRGB)
	assert.Equal(t, [3]float32{0.1, 0.1, 0.1}, rs.Background)
	assert.Equal(t, float32(60), rs.FovY)
	// Unset keys fall back to defaults
	assert.Equal(t, float32(0.2), rs.NearClip)
	assert.Equal(t, float32(1000), rs.FarClip)
	assert.Equal(t, 32, rs.MaxLights)
}

func TestLoadRenderSettingsErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"malformed", `render_system = "gl41`, ErrInvalidFile},
		{"unknown backend", `render_system = "direct3d11"`, ErrInvalidFile},
		{"bad clip", "near_clip = 10.0\nfar_clip = 1.0", ErrInvalidFile},
		{"bad fov", "fov_y = 0.0", ErrInvalidFile},
		{"no lights", "max_lights = 0", ErrInvalidFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".toml")
			writeFile(t, path, tt.content)
			_, err := LoadRenderSettings(path)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := LoadRenderSettings(filepath.Join(dir, "absent.toml"))
	assert.ErrorIs(t, err, ErrMissingFile)
}

func TestLoadResources(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "shaders", "custom"), 0755))

	path := filepath.Join(dir, "resources.toml")
	writeFile(t, path, `
[[location]]
path = "shaders"
recursive = true

[[location]]
path = "shaders/custom"
`)

	res, err := LoadResources(path)
	require.NoError(t, err)
	require.Len(t, res.Locations, 2)
	assert.Equal(t, filepath.Join(dir, "shaders"), res.Locations[0].Path)
	assert.True(t, res.Locations[0].Recursive)
	assert.False(t, res.Locations[1].Recursive)
}

func TestLoadResourcesMissingLocation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resources.toml")
	writeFile(t, path, "[[location]]\npath = \"nowhere\"\n")

	_, err := LoadResources(path)
	assert.ErrorIs(t, err, ErrInvalidFile)

	_, err = LoadResources(filepath.Join(dir, "absent.toml"))
	assert.ErrorIs(t, err, ErrMissingFile)
}
