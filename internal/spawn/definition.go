// definition.go resolves the model definition text (SDF or URDF XML) that
// the spawn service needs for each model kind.
//
// File-backed kinds read from the resolved package directory:
//   - sdf:  <pkg>/<base_path>/<name>/model.sdf
//   - urdf: <pkg>/urdf/<name>.urdf
//
// Primitive kinds (box, sphere) generate a minimal SDF document inline,
// so they work without any package on disk.
package spawn

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shinji-kodama/sim-spawner/internal/model"
)

// urdfDir is the fixed package-relative directory for URDF files.
// Unlike SDF models, URDF convention does not use base_path.
const urdfDir = "urdf"

// ResolveDefinition returns the model definition XML for a spec.
// pkgDir is the resolved package directory; it is ignored for primitive
// kinds. Errors carry ExitResourceNotFound so the batch runner can report
// them per model and continue.
func ResolveDefinition(spec *model.ModelSpec, pkgDir string) (string, error) {
	switch spec.Kind {
	case model.KindBox:
		return boxSDF(spec.SpawnName(), spec.Scale), nil

	case model.KindSphere:
		return sphereSDF(spec.SpawnName(), spec.Scale), nil

	case model.KindSDF:
		path := filepath.Join(pkgDir, filepath.FromSlash(spec.BasePath), spec.Name, "model.sdf")
		data, err := os.ReadFile(path)
		if err != nil {
			return "", model.WrapCLIError(model.ExitResourceNotFound,
				fmt.Sprintf("cannot open SDF model %q at %s — check the model name and that the model exists", spec.Name, path),
				err)
		}
		// The service expects the SDF as a single line.
		return strings.ReplaceAll(string(data), "\n", ""), nil

	case model.KindURDF:
		path := filepath.Join(pkgDir, urdfDir, spec.Name+".urdf")
		data, err := os.ReadFile(path)
		if err != nil {
			return "", model.WrapCLIError(model.ExitResourceNotFound,
				fmt.Sprintf("cannot open URDF model %q at %s — check the model name and that the model exists", spec.Name, path),
				err)
		}
		return string(data), nil

	default:
		return "", fmt.Errorf("model %q: unknown kind %q", spec.Name, spec.Kind)
	}
}

// boxSDF generates a minimal SDF document for a unit box, sized by the
// scale vector when present (depth, width, height).
func boxSDF(name string, scale []float64) string {
	size := "1 1 1"
	if len(scale) == 3 {
		size = fmt.Sprintf("%g %g %g", scale[0], scale[1], scale[2])
	}
	return fmt.Sprintf(
		`<?xml version="1.0"?><sdf version="1.6"><model name="%s"><link name="link">`+
			`<collision name="collision"><geometry><box><size>%s</size></box></geometry></collision>`+
			`<visual name="visual"><geometry><box><size>%s</size></box></geometry></visual>`+
			`</link></model></sdf>`,
		name, size, size)
}

// sphereSDF generates a minimal SDF document for a sphere. The radius is
// half the first scale component (diameter semantics, matching the box
// edge length), defaulting to a unit-diameter sphere.
func sphereSDF(name string, scale []float64) string {
	radius := 0.5
	if len(scale) == 3 {
		radius = scale[0] / 2
	}
	return fmt.Sprintf(
		`<?xml version="1.0"?><sdf version="1.6"><model name="%s"><link name="link">`+
			`<collision name="collision"><geometry><sphere><radius>%g</radius></sphere></geometry></collision>`+
			`<visual name="visual"><geometry><sphere><radius>%g</radius></sphere></geometry></visual>`+
			`</link></model></sdf>`,
		name, radius, radius)
}
