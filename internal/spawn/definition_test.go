package spawn

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/sim-spawner/internal/model"
)

// TestResolveDefinition_Box verifies inline SDF generation for boxes:
// default unit size, and scale-driven size when a scale is present.
func TestResolveDefinition_Box(t *testing.T) {
	spec := &model.ModelSpec{Name: "crate", Kind: model.KindBox}

	xml, err := ResolveDefinition(spec, "")
	require.NoError(t, err)
	assert.Contains(t, xml, `<model name="crate">`)
	assert.Contains(t, xml, "<size>1 1 1</size>")

	spec.Scale = []float64{0.4, 0.6, 0.8}
	xml, err = ResolveDefinition(spec, "")
	require.NoError(t, err)
	assert.Contains(t, xml, "<size>0.4 0.6 0.8</size>")
}

// TestResolveDefinition_BoxUsesSpawnName verifies that the generated SDF
// names the model by its resolved unique name, not the declared name —
// otherwise two de-duplicated boxes would carry identical inner names.
func TestResolveDefinition_BoxUsesSpawnName(t *testing.T) {
	spec := &model.ModelSpec{Name: "crate", Kind: model.KindBox, ResolvedName: "crate_2"}

	xml, err := ResolveDefinition(spec, "")
	require.NoError(t, err)
	assert.Contains(t, xml, `<model name="crate_2">`)
}

// TestResolveDefinition_Sphere verifies sphere generation: unit diameter
// by default, radius derived from the first scale component otherwise.
func TestResolveDefinition_Sphere(t *testing.T) {
	spec := &model.ModelSpec{Name: "ball", Kind: model.KindSphere}

	xml, err := ResolveDefinition(spec, "")
	require.NoError(t, err)
	assert.Contains(t, xml, "<radius>0.5</radius>")

	spec.Scale = []float64{2, 2, 2}
	xml, err = ResolveDefinition(spec, "")
	require.NoError(t, err)
	assert.Contains(t, xml, "<radius>1</radius>")
}

// TestResolveDefinition_SDF verifies the on-disk SDF path layout
// <pkg>/<base_path>/<name>/model.sdf and the newline stripping the
// service expects.
func TestResolveDefinition_SDF(t *testing.T) {
	pkgDir := t.TempDir()
	modelDir := filepath.Join(pkgDir, "models", "shelf")
	require.NoError(t, os.MkdirAll(modelDir, 0755))
	require.NoError(t, os.WriteFile(
		filepath.Join(modelDir, "model.sdf"),
		[]byte("<sdf version=\"1.6\">\n  <model name=\"shelf\"/>\n</sdf>\n"), 0644))

	spec := &model.ModelSpec{
		Name:     "shelf",
		Kind:     model.KindSDF,
		Package:  "warehouse_assets",
		BasePath: "models",
	}

	xml, err := ResolveDefinition(spec, pkgDir)
	require.NoError(t, err)
	assert.NotContains(t, xml, "\n", "SDF should be collapsed to a single line")
	assert.Contains(t, xml, `<model name="shelf"/>`)
}

// TestResolveDefinition_URDF verifies the fixed <pkg>/urdf/<name>.urdf
// layout, which does not use base_path, and that URDF text is passed
// through unmodified.
func TestResolveDefinition_URDF(t *testing.T) {
	pkgDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(pkgDir, "urdf"), 0755))
	content := "<robot name=\"arm\">\n</robot>\n"
	require.NoError(t, os.WriteFile(
		filepath.Join(pkgDir, "urdf", "arm.urdf"), []byte(content), 0644))

	spec := &model.ModelSpec{
		Name:     "arm",
		Kind:     model.KindURDF,
		Package:  "robot_descriptions",
		BasePath: "ignored_for_urdf",
	}

	xml, err := ResolveDefinition(spec, pkgDir)
	require.NoError(t, err)
	assert.Equal(t, content, xml, "URDF text is passed through as-is")
}

// TestResolveDefinition_MissingFile verifies that a missing model file
// yields a resource-not-found error naming the attempted path, so the
// batch runner can report it and continue.
func TestResolveDefinition_MissingFile(t *testing.T) {
	spec := &model.ModelSpec{
		Name:     "ghost",
		Kind:     model.KindSDF,
		Package:  "warehouse_assets",
		BasePath: "models",
	}

	_, err := ResolveDefinition(spec, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")

	cliErr, ok := err.(*model.CLIError)
	require.True(t, ok)
	assert.Equal(t, model.ExitResourceNotFound, cliErr.Code)
}
