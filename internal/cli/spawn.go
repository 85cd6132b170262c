// Package cli — spawn.go implements the "sim-spawner spawn" command.
//
// The spawn command is the primary operation. It orchestrates the full
// batch workflow:
//  1. Resolve the config-owning package and load the model list
//  2. Assign unique spawn names (de-duplication, declaration order)
//  3. Wait (bounded) for the spawn service to become available
//  4. For each model: resolve its definition, convert its pose, and issue
//     the spawn call — logging failures and continuing with the rest
//  5. Report per-model results and a summary (text or JSON)
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/sim-spawner/internal/config"
	"github.com/shinji-kodama/sim-spawner/internal/model"
	"github.com/shinji-kodama/sim-spawner/internal/pose"
	"github.com/shinji-kodama/sim-spawner/internal/registry"
	"github.com/shinji-kodama/sim-spawner/internal/spawn"
)

// spawnFlags holds the flag values for the spawn command.
type spawnFlags struct {
	pkg         string        // --package: package owning the config file
	configPath  string        // --config: package-relative config path
	world       string        // --world: target world (default: env)
	randomOrder bool          // --random-order: shuffle spawn order
	interval    time.Duration // --interval: delay between spawns
	dryRun      bool          // --dry-run: resolve and report, no calls
}

// spawnResult records the outcome of one model's spawn attempt for the
// final report.
type spawnResult struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Spawned bool   `json:"spawned"`
	Message string `json:"message,omitempty"`
}

// NewSpawnCommand creates the "spawn" cobra command.
func NewSpawnCommand() *cobra.Command {
	flags := &spawnFlags{}

	cmd := &cobra.Command{
		Use:   "spawn",
		Short: "Spawn all models from a config file into the running world",
		Long: `Spawn every model declared in the configuration file into the running
simulation world, sequentially and best-effort: a model that fails to
resolve or spawn is reported and the batch continues.

The config file lives inside a source package and is addressed by a
package-relative path. Packages are located under the directories listed
in SPAWNER_PACKAGE_PATH (plus the working directory).

Examples:
  sim-spawner spawn --package warehouse_assets
  sim-spawner spawn --package warehouse_assets --config config/scene.yaml
  sim-spawner spawn --package warehouse_assets --random-order --interval 500ms
  sim-spawner spawn --package warehouse_assets --dry-run`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpawn(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.pkg, "package", "", "Source package containing the config file (required)")
	cmd.Flags().StringVar(&flags.configPath, "config", "config/models.yaml", "Package-relative config file path")
	cmd.Flags().StringVar(&flags.world, "world", "", "Target world (default: $SPAWNER_WORLD)")
	cmd.Flags().BoolVar(&flags.randomOrder, "random-order", false, "Spawn models in random order")
	cmd.Flags().DurationVar(&flags.interval, "interval", time.Second, "Delay between spawns (0 to disable)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Resolve and validate everything, but issue no spawn calls")
	_ = cmd.MarkFlagRequired("package")

	return cmd
}

// runSpawn is the main orchestration function for the spawn command.
func runSpawn(ctx context.Context, flags *spawnFlags) error {
	settings, err := config.ParseSettings()
	if err != nil {
		return err
	}

	world := flags.world
	if world == "" {
		world = settings.World
	}

	// Step 1: Locate the config file inside its package.
	pkgDir, err := config.ResolvePackage(settings.PackagePath, flags.pkg)
	if err != nil {
		return err
	}
	configFile := config.ConfigPath(pkgDir, flags.configPath)
	VerboseLog("Config file: %s", configFile)

	// Step 2: Load, validate, and register the model list.
	specs, err := config.Load(configFile)
	if err != nil {
		return err
	}

	reg, err := registry.Build(specs)
	if err != nil {
		return model.WrapCLIError(model.ExitConfigError, "cannot assign unique names", err)
	}

	names := reg.Names()
	if flags.randomOrder {
		names = reg.Shuffled()
	}
	VerboseLog("Model names: %v", names)
	VerboseLog("Total number of models: %d", reg.Len())

	// Step 3: Dry run performs the full resolution pipeline — package
	// lookup, definition files, pose conversion — and stops just short of
	// the network, so a config that would fail for real fails here too.
	if flags.dryRun {
		results := make([]spawnResult, 0, len(names))
		failures := 0
		for _, name := range names {
			spec, _ := reg.Get(name)
			res := spawnResult{Name: name, Kind: spec.Kind.String()}
			if _, _, err := resolveOne(spec, settings); err != nil {
				res.Message = err.Error()
				failures++
				printError(fmt.Sprintf("model %s failed to resolve", name), err)
			}
			results = append(results, res)
		}
		printSpawnReport(results, world, true)
		if failures > 0 {
			return model.NewCLIError(model.ExitSpawnFailed,
				fmt.Sprintf("%d of %d models failed to resolve", failures, len(names)))
		}
		return nil
	}

	// Step 4: Wait for the spawn service before the first call, so a
	// simulator that is still starting up does not fail the whole batch.
	client := newSpawnClient(settings)
	VerboseLog("Waiting for spawn service at %s", client.Addr())
	if err := client.WaitForService(ctx, settings.WaitTimeout); err != nil {
		return err
	}

	// Step 5: Spawn sequentially, best-effort.
	results := make([]spawnResult, 0, len(names))
	failures := 0
	for i, name := range names {
		spec, _ := reg.Get(name)

		res := spawnOne(ctx, client, spec, settings, world)
		results = append(results, res)
		if !res.Spawned {
			failures++
			printError(fmt.Sprintf("model %s not spawned", name), fmt.Errorf("%s", res.Message))
		} else {
			VerboseLog("Spawned %s as %s", spec.Name, name)
		}

		// Fixed inter-spawn delay, skipped after the last model.
		if flags.interval > 0 && i < len(names)-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(flags.interval):
			}
		}
	}

	// Step 6: Report.
	printSpawnReport(results, world, false)
	if failures > 0 {
		return model.NewCLIError(model.ExitSpawnFailed,
			fmt.Sprintf("%d of %d models failed to spawn", failures, len(names)))
	}
	return nil
}

// resolveOne runs a model's offline resolution pipeline: package lookup,
// definition XML, pose conversion. Nothing here touches the network, so
// the dry run shares it with the real spawn path.
func resolveOne(spec *model.ModelSpec, settings *config.Settings) (string, model.Pose, error) {
	// File-backed kinds need their package on disk; primitives do not.
	pkgDir := ""
	if !spec.Kind.IsPrimitive() {
		dir, err := config.ResolvePackage(settings.PackagePath, spec.Package)
		if err != nil {
			return "", model.Pose{}, err
		}
		pkgDir = dir
	}

	modelXML, err := spawn.ResolveDefinition(spec, pkgDir)
	if err != nil {
		return "", model.Pose{}, err
	}

	p, err := pose.ToPose(spec)
	if err != nil {
		return "", model.Pose{}, err
	}

	return modelXML, p, nil
}

// spawnOne resolves and spawns a single model. All failure modes — missing
// package, missing model file, bad pose, refused or failed call — are
// folded into the returned result so the batch loop can continue.
func spawnOne(ctx context.Context, client *spawn.Client, spec *model.ModelSpec, settings *config.Settings, world string) spawnResult {
	res := spawnResult{Name: spec.SpawnName(), Kind: spec.Kind.String()}

	modelXML, p, err := resolveOne(spec, settings)
	if err != nil {
		res.Message = err.Error()
		return res
	}

	VerboseLog("Now spawning: %s", spec.SpawnName())
	resp, err := client.Spawn(ctx, spawn.NewSpawnRequest(spec.SpawnName(), modelXML, p, spec.Scale, world))
	if err != nil {
		res.Message = err.Error()
		return res
	}
	if !resp.Success {
		res.Message = resp.StatusMessage
		return res
	}

	res.Spawned = true
	res.Message = resp.StatusMessage
	return res
}

// printSpawnReport outputs the batch results in text or JSON format.
func printSpawnReport(results []spawnResult, world string, dryRun bool) {
	if IsJSONOutput() {
		type reportJSON struct {
			World   string        `json:"world"`
			DryRun  bool          `json:"dryRun"`
			Models  []spawnResult `json:"models"`
			Spawned int           `json:"spawned"`
			Failed  int           `json:"failed"`
		}
		report := reportJSON{World: world, DryRun: dryRun, Models: results}
		for _, r := range results {
			switch {
			case r.Spawned:
				report.Spawned++
			case dryRun && r.Message == "":
				// Resolved cleanly; a dry run spawns nothing.
			default:
				report.Failed++
			}
		}
		data, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(data))
		return
	}

	if dryRun {
		fmt.Printf("Dry run: %d model(s) would be spawned into world %q\n", len(results), world)
		for _, r := range results {
			status := "ok"
			if r.Message != "" {
				status = "FAILED: " + r.Message
			}
			fmt.Printf("  %-24s %-8s %s\n", r.Name, r.Kind, status)
		}
		return
	}

	spawned := 0
	for _, r := range results {
		if r.Spawned {
			spawned++
		}
	}
	fmt.Printf("Spawned %d of %d model(s) into world %q\n", spawned, len(results), world)
	for _, r := range results {
		status := "ok"
		if !r.Spawned {
			status = "FAILED: " + r.Message
		}
		fmt.Printf("  %-24s %-8s %s\n", r.Name, r.Kind, status)
	}
}
