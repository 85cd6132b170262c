// Package cli — validate.go implements the "sim-spawner validate" command.
//
// The validate command performs everything spawn does except the network
// calls: it parses the config, assigns unique names, and converts every
// pose, then reports the resolved batch. It is the fast feedback loop for
// editing model configs.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/sim-spawner/internal/config"
	"github.com/shinji-kodama/sim-spawner/internal/model"
	"github.com/shinji-kodama/sim-spawner/internal/pose"
	"github.com/shinji-kodama/sim-spawner/internal/registry"
)

// validateFlags holds the flag values for the validate command.
type validateFlags struct {
	pkg        string // --package: package owning the config file
	configPath string // --config: package-relative config path
}

// validatedModel is the per-model output of the validate command: the
// resolved name and the fully converted pose.
type validatedModel struct {
	Name string     `json:"name"`
	Kind string     `json:"kind"`
	Pose model.Pose `json:"pose"`
}

// NewValidateCommand creates the "validate" cobra command.
func NewValidateCommand() *cobra.Command {
	flags := &validateFlags{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a model config without spawning anything",
		Long: `Parse and validate a model config file: check every entry, assign the
unique spawn names, and convert all poses to quaternions. No network
connection is made.

Examples:
  sim-spawner validate --package warehouse_assets
  sim-spawner validate --package warehouse_assets --config config/scene.yaml --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(flags)
		},
	}

	cmd.Flags().StringVar(&flags.pkg, "package", "", "Source package containing the config file (required)")
	cmd.Flags().StringVar(&flags.configPath, "config", "config/models.yaml", "Package-relative config file path")
	_ = cmd.MarkFlagRequired("package")

	return cmd
}

// runValidate is the main logic function for the validate command.
func runValidate(flags *validateFlags) error {
	settings, err := config.ParseSettings()
	if err != nil {
		return err
	}

	pkgDir, err := config.ResolvePackage(settings.PackagePath, flags.pkg)
	if err != nil {
		return err
	}
	configFile := config.ConfigPath(pkgDir, flags.configPath)
	VerboseLog("Config file: %s", configFile)

	specs, err := config.Load(configFile)
	if err != nil {
		return err
	}

	reg, err := registry.Build(specs)
	if err != nil {
		return model.WrapCLIError(model.ExitConfigError, "cannot assign unique names", err)
	}

	// Pose conversion is the one validation step Load cannot do, because
	// a zero quaternion only surfaces during normalization.
	validated := make([]validatedModel, 0, reg.Len())
	for _, name := range reg.Names() {
		spec, _ := reg.Get(name)
		p, err := pose.ToPose(spec)
		if err != nil {
			return model.WrapCLIError(model.ExitConfigError,
				fmt.Sprintf("model %q has an invalid pose", name), err)
		}
		validated = append(validated, validatedModel{
			Name: name,
			Kind: spec.Kind.String(),
			Pose: p,
		})
	}

	printValidateResult(configFile, validated)
	return nil
}

// printValidateResult outputs the validation result in text or JSON.
func printValidateResult(configFile string, models []validatedModel) {
	if IsJSONOutput() {
		type resultJSON struct {
			Config string           `json:"config"`
			Valid  bool             `json:"valid"`
			Models []validatedModel `json:"models"`
		}
		data, _ := json.MarshalIndent(resultJSON{
			Config: configFile,
			Valid:  true,
			Models: models,
		}, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("Config %s is valid: %d model(s)\n", configFile, len(models))
	for _, m := range models {
		fmt.Printf("  %-24s %-8s at (%.3g, %.3g, %.3g) q(%.4f, %.4f, %.4f, %.4f)\n",
			m.Name, m.Kind,
			m.Pose.Position.X, m.Pose.Position.Y, m.Pose.Position.Z,
			m.Pose.Orientation.X, m.Pose.Orientation.Y, m.Pose.Orientation.Z, m.Pose.Orientation.W)
	}
}
