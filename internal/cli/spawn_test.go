// Package cli — spawn_test.go exercises the command wiring that needs no
// running spawn service: dry runs, flag validation, and config errors
// surfacing with the right exit codes.
package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/sim-spawner/internal/model"
)

// writePackage creates a package directory with a models.yaml under a
// fresh root, points SPAWNER_PACKAGE_PATH at the root, and returns the
// package directory so tests can add model files next to the config.
func writePackage(t *testing.T, pkg, configYAML string) string {
	t.Helper()
	root := t.TempDir()
	pkgDir := filepath.Join(root, pkg)
	configDir := filepath.Join(pkgDir, "config")
	require.NoError(t, os.MkdirAll(configDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "models.yaml"), []byte(configYAML), 0644))
	t.Setenv("SPAWNER_PACKAGE_PATH", root)
	return pkgDir
}

// execute runs the root command with the given args and returns the
// command error (the one Execute would map to an exit code).
func execute(t *testing.T, args ...string) error {
	t.Helper()
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	return cmd.Execute()
}

// TestSpawnCommand_DryRun verifies the full offline path: package
// resolution, config loading, name de-duplication, and pose validation,
// with no spawn service anywhere.
func TestSpawnCommand_DryRun(t *testing.T) {
	writePackage(t, "warehouse_assets", `
models:
  - name: crate
    type: box
    pose: [0, 0, 0.5, 0, 0, 0]
  - name: crate
    type: box
    pose: [1, 0, 0.5, 0, 0, 45]
`)

	err := execute(t, "spawn", "--package", "warehouse_assets", "--dry-run")
	assert.NoError(t, err)
}

// TestSpawnCommand_DryRunResolvesFiles verifies that a dry run walks the
// same resolution pipeline as a real spawn: a file-backed model whose SDF
// is present on disk passes, and removing the file makes the dry run fail
// instead of reporting success.
func TestSpawnCommand_DryRunResolvesFiles(t *testing.T) {
	pkgDir := writePackage(t, "warehouse_assets", `
models:
  - name: shelf
    type: sdf
    package: warehouse_assets
    pose: [0, 0, 0, 0, 0, 0]
`)
	modelDir := filepath.Join(pkgDir, "models", "shelf")
	require.NoError(t, os.MkdirAll(modelDir, 0755))
	sdfFile := filepath.Join(modelDir, "model.sdf")
	require.NoError(t, os.WriteFile(sdfFile, []byte("<sdf version=\"1.6\"><model name=\"shelf\"/></sdf>\n"), 0644))

	require.NoError(t, execute(t, "spawn", "--package", "warehouse_assets", "--dry-run"))

	require.NoError(t, os.Remove(sdfFile))
	err := execute(t, "spawn", "--package", "warehouse_assets", "--dry-run")
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitSpawnFailed, cliErr.Code)
	assert.Contains(t, err.Error(), "failed to resolve")
}

// TestSpawnCommand_DryRunBadPose verifies that pose conversion runs during
// a dry run, so a zero quaternion is caught with no service involved.
func TestSpawnCommand_DryRunBadPose(t *testing.T) {
	writePackage(t, "warehouse_assets", `
models:
  - name: crate
    type: box
    quaternion: true
    pose: [0, 0, 0, 0, 0, 0, 0]
`)

	err := execute(t, "spawn", "--package", "warehouse_assets", "--dry-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to resolve")
}

// TestSpawnCommand_PackageNotFound verifies that a missing package
// surfaces as a resource-not-found CLIError before any spawning.
func TestSpawnCommand_PackageNotFound(t *testing.T) {
	t.Setenv("SPAWNER_PACKAGE_PATH", t.TempDir())

	err := execute(t, "spawn", "--package", "ghost_pkg", "--dry-run")
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitResourceNotFound, cliErr.Code)
}

// TestSpawnCommand_InvalidConfig verifies that a config validation error
// carries the config exit code and names the bad entry.
func TestSpawnCommand_InvalidConfig(t *testing.T) {
	writePackage(t, "warehouse_assets", `
models:
  - name: crate
    type: hologram
    pose: [0, 0, 0, 0, 0, 0]
`)

	err := execute(t, "spawn", "--package", "warehouse_assets", "--dry-run")
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitConfigError, cliErr.Code)
	assert.Contains(t, err.Error(), "models[0]")
}

// TestValidateCommand verifies the validate command against a config
// exercising both orientation encodings.
func TestValidateCommand(t *testing.T) {
	writePackage(t, "warehouse_assets", `
models:
  - name: crate
    type: box
    pose: [0, 0, 0.5, 0, 0, 90]
  - name: shelf
    type: sphere
    quaternion: true
    pose: [1, 1, 1, 0, 0, 0, 1]
`)

	err := execute(t, "validate", "--package", "warehouse_assets")
	assert.NoError(t, err)
}

// TestValidateCommand_ZeroQuaternion verifies that the one pose error
// config.Load cannot catch — a zero quaternion — fails validation.
func TestValidateCommand_ZeroQuaternion(t *testing.T) {
	writePackage(t, "warehouse_assets", `
models:
  - name: crate
    type: box
    quaternion: true
    pose: [0, 0, 0, 0, 0, 0, 0]
`)

	err := execute(t, "validate", "--package", "warehouse_assets")
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitConfigError, cliErr.Code)
}

// TestRemoveCommand_ArgValidation verifies the names/--all flag rules,
// which are checked before any network connection is attempted.
func TestRemoveCommand_ArgValidation(t *testing.T) {
	err := execute(t, "remove")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--all")

	err = execute(t, "remove", "--all", "crate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be combined")
}
