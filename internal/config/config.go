// Package config loads the declarative model-list configuration and
// resolves source packages on disk.
//
// Two file formats are supported, selected by extension:
//   - .yaml / .yml — the primary format, parsed with gopkg.in/yaml.v3
//   - .json / .jsonc — JSON with Comments, stripped with
//     github.com/tidwall/jsonc before parsing with encoding/json
//
// Both formats describe the same structure: a top-level "models" list of
// entries matching model.ModelSpec.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/sim-spawner/internal/model"
)

// modelFile is the on-disk structure of a model-list config file.
type modelFile struct {
	Models []*model.ModelSpec `yaml:"models" json:"models"`
}

// Load reads and parses a model-list config file, applies defaults, and
// validates every entry. Validation errors name the entry index so users
// can locate the offending block in a long config.
func Load(path string) ([]*model.ModelSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError,
			fmt.Sprintf("cannot read config file %q", path), err)
	}

	var file modelFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		// jsonc.ToJSON replaces comments and trailing commas with
		// whitespace, preserving offsets, so standard encoding/json can
		// parse the result.
		if err := json.Unmarshal(jsonc.ToJSON(data), &file); err != nil {
			return nil, model.WrapCLIError(model.ExitConfigError,
				fmt.Sprintf("cannot parse JSON config %q", path), err)
		}
	default:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, model.WrapCLIError(model.ExitConfigError,
				fmt.Sprintf("cannot parse YAML config %q", path), err)
		}
	}

	if len(file.Models) == 0 {
		return nil, model.NewCLIError(model.ExitConfigError,
			fmt.Sprintf("config %q declares no models", path))
	}

	for i, spec := range file.Models {
		if spec == nil {
			return nil, model.NewCLIError(model.ExitConfigError,
				fmt.Sprintf("config %q: models[%d] is empty", path, i))
		}
		applyDefaults(spec)
		if err := spec.Validate(); err != nil {
			return nil, model.WrapCLIError(model.ExitConfigError,
				fmt.Sprintf("config %q: models[%d]", path, i), err)
		}
	}

	return file.Models, nil
}

// applyDefaults fills in the optional fields a config entry may omit.
func applyDefaults(spec *model.ModelSpec) {
	if spec.BasePath == "" {
		spec.BasePath = model.DefaultBasePath
	}
	// Kind strings are normalized so configs may use uppercase kinds.
	spec.Kind = model.ModelKind(strings.ToLower(string(spec.Kind)))
}

// ResolvePackage locates a source package directory by name.
//
// searchPath is a colon-separated (os-specific list separator) set of root
// directories, typically from SPAWNER_PACKAGE_PATH. The current working
// directory is always searched last, so small projects work without any
// environment setup. The first root containing a directory named after the
// package wins.
func ResolvePackage(searchPath, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("package name must not be empty")
	}

	roots := filepath.SplitList(searchPath)
	if cwd, err := os.Getwd(); err == nil {
		roots = append(roots, cwd)
	}

	for _, root := range roots {
		if root == "" {
			continue
		}
		candidate := filepath.Join(root, name)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			abs, err := filepath.Abs(candidate)
			if err != nil {
				return "", err
			}
			return abs, nil
		}
	}

	return "", model.NewCLIError(model.ExitResourceNotFound,
		fmt.Sprintf("cannot find package %q under %v — check the package name and SPAWNER_PACKAGE_PATH", name, roots))
}

// ConfigPath joins a package directory with the package-relative config
// path. A leading slash on the relative path is tolerated and stripped,
// matching the forgiving behavior users expect from package-relative
// paths like "/config/models.yaml".
func ConfigPath(pkgDir, relative string) string {
	relative = strings.TrimPrefix(relative, "/")
	return filepath.Join(pkgDir, filepath.FromSlash(relative))
}
