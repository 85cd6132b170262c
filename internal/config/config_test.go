package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/sim-spawner/internal/model"
)

// writeFile writes a config fixture into a temp dir and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestLoad_YAML verifies parsing of the primary YAML format, including
// defaults: base_path "models", Euler orientation in degrees.
func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "models.yaml", `
models:
  - name: crate
    type: box
    pose: [1.0, 2.0, 0.5, 0, 0, 90]
    scale: [0.4, 0.4, 0.4]
  - name: shelf
    type: sdf
    package: warehouse_assets
    unique_name: shelf_main
    quaternion: true
    pose: [0, 3, 0, 0, 0, 0, 1]
`)

	specs, err := Load(path)
	require.NoError(t, err)
	require.Len(t, specs, 2)

	crate := specs[0]
	assert.Equal(t, "crate", crate.Name)
	assert.Equal(t, model.KindBox, crate.Kind)
	assert.Equal(t, "models", crate.BasePath, "base_path should default")
	assert.False(t, crate.Quaternion, "orientation should default to Euler")
	assert.False(t, crate.Radians, "angles should default to degrees")
	assert.Equal(t, []float64{1, 2, 0.5, 0, 0, 90}, crate.Pose)
	assert.Equal(t, []float64{0.4, 0.4, 0.4}, crate.Scale)

	shelf := specs[1]
	assert.Equal(t, model.KindSDF, shelf.Kind)
	assert.Equal(t, "warehouse_assets", shelf.Package)
	assert.Equal(t, "shelf_main", shelf.UniqueName)
	assert.True(t, shelf.Quaternion)
}

// TestLoad_JSONC verifies that .jsonc configs parse with comments and
// trailing commas, producing the same specs as the YAML equivalent.
func TestLoad_JSONC(t *testing.T) {
	path := writeFile(t, "models.jsonc", `{
  // warehouse scene
  "models": [
    {
      "name": "crate",
      "type": "box",
      "pose": [1.0, 2.0, 0.5, 0, 0, 90], // yaw in degrees
    },
  ],
}`)

	specs, err := Load(path)
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, "crate", specs[0].Name)
	assert.Equal(t, model.KindBox, specs[0].Kind)
	assert.Equal(t, []float64{1, 2, 0.5, 0, 0, 90}, specs[0].Pose)
}

// TestLoad_KindNormalized verifies that uppercase kind strings are
// normalized to the lowercase enum values.
func TestLoad_KindNormalized(t *testing.T) {
	path := writeFile(t, "models.yaml", `
models:
  - name: robot
    type: URDF
    package: robot_descriptions
    pose: [0, 0, 0, 0, 0, 0]
`)

	specs, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, model.KindURDF, specs[0].Kind)
}

// TestLoad_InvalidEntry verifies that a validation failure names the
// entry index and carries the config exit code.
func TestLoad_InvalidEntry(t *testing.T) {
	path := writeFile(t, "models.yaml", `
models:
  - name: crate
    type: box
    pose: [0, 0, 0, 0, 0, 0]
  - name: broken
    type: hologram
    pose: [0, 0, 0, 0, 0, 0]
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "models[1]")

	cliErr, ok := err.(*model.CLIError)
	require.True(t, ok)
	assert.Equal(t, model.ExitConfigError, cliErr.Code)
}

// TestLoad_EmptyModels verifies that a config without models is rejected —
// an empty batch is almost certainly a user mistake.
func TestLoad_EmptyModels(t *testing.T) {
	path := writeFile(t, "models.yaml", "models: []\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declares no models")
}

// TestLoad_MissingFile verifies the error for a nonexistent config path.
func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)

	cliErr, ok := err.(*model.CLIError)
	require.True(t, ok)
	assert.Equal(t, model.ExitConfigError, cliErr.Code)
}

// TestResolvePackage verifies lookup across multiple roots: the first
// root containing the package directory wins.
func TestResolvePackage(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(rootB, "warehouse_assets"), 0755))

	searchPath := rootA + string(os.PathListSeparator) + rootB

	dir, err := ResolvePackage(searchPath, "warehouse_assets")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(rootB, "warehouse_assets"), dir)
}

// TestResolvePackage_NotFound verifies the per-model resource error for a
// package that exists under no root.
func TestResolvePackage_NotFound(t *testing.T) {
	_, err := ResolvePackage(t.TempDir(), "ghost_pkg")
	require.Error(t, err)

	cliErr, ok := err.(*model.CLIError)
	require.True(t, ok)
	assert.Equal(t, model.ExitResourceNotFound, cliErr.Code)
}

// TestConfigPath verifies the leading-slash tolerance on package-relative
// config paths.
func TestConfigPath(t *testing.T) {
	assert.Equal(t,
		filepath.Join("/pkg", "config", "models.yaml"),
		ConfigPath("/pkg", "/config/models.yaml"))
	assert.Equal(t,
		filepath.Join("/pkg", "config", "models.yaml"),
		ConfigPath("/pkg", "config/models.yaml"))
}

// TestParseSettings verifies env parsing with defaults and overrides.
func TestParseSettings(t *testing.T) {
	s, err := ParseSettings()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:11345", s.ServerAddr)
	assert.Equal(t, 5*time.Second, s.DialTimeout)
	assert.Equal(t, "default", s.World)

	t.Setenv("SPAWNER_SERVER_ADDR", "sim.local:14000")
	t.Setenv("SPAWNER_CALL_TIMEOUT", "2s")

	s, err = ParseSettings()
	require.NoError(t, err)
	assert.Equal(t, "sim.local:14000", s.ServerAddr)
	assert.Equal(t, 2*time.Second, s.CallTimeout)
}

// TestParseSettings_Invalid verifies that a malformed duration surfaces
// as a config error.
func TestParseSettings_Invalid(t *testing.T) {
	t.Setenv("SPAWNER_DIAL_TIMEOUT", "soon")
	_, err := ParseSettings()
	require.Error(t, err)

	cliErr, ok := err.(*model.CLIError)
	require.True(t, ok)
	assert.Equal(t, model.ExitConfigError, cliErr.Code)
}
