// Package cli — remove.go implements the "sim-spawner remove" command.
//
// The remove command deletes models from the running world by unique
// name, or all models with --all. Like spawning, removal is best-effort:
// a model that fails to delete is reported and the rest proceed.
package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/sim-spawner/internal/config"
	"github.com/shinji-kodama/sim-spawner/internal/model"
)

// removeFlags holds the flag values for the remove command.
type removeFlags struct {
	world string // --world: target world (default: env)
	all   bool   // --all: remove every model in the world
}

// removeResult records the outcome of one model's delete call.
type removeResult struct {
	Name    string `json:"name"`
	Removed bool   `json:"removed"`
	Message string `json:"message,omitempty"`
}

// NewRemoveCommand creates the "remove" cobra command.
func NewRemoveCommand() *cobra.Command {
	flags := &removeFlags{}

	cmd := &cobra.Command{
		Use:   "remove [unique-name...]",
		Short: "Remove models from the running world",
		Long: `Remove models from the running simulation world by their unique spawn
names. With --all, every model currently in the world is removed.

Examples:
  sim-spawner remove crate crate_1
  sim-spawner remove --all
  sim-spawner remove --all --world warehouse`,

		// Names are required unless --all is given; checked in RunE
		// because cobra.Args cannot see flag values.
		Args: cobra.ArbitraryArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			if !flags.all && len(args) == 0 {
				return model.NewCLIError(model.ExitGeneralError,
					"specify at least one unique name, or use --all")
			}
			if flags.all && len(args) > 0 {
				return model.NewCLIError(model.ExitGeneralError,
					"--all cannot be combined with explicit names")
			}
			return runRemove(cmd.Context(), args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.world, "world", "", "Target world (default: $SPAWNER_WORLD)")
	cmd.Flags().BoolVar(&flags.all, "all", false, "Remove every model in the world")

	return cmd
}

// runRemove is the main logic function for the remove command.
func runRemove(ctx context.Context, names []string, flags *removeFlags) error {
	settings, err := config.ParseSettings()
	if err != nil {
		return err
	}

	world := flags.world
	if world == "" {
		world = settings.World
	}

	client := newSpawnClient(settings)
	if err := client.WaitForService(ctx, settings.WaitTimeout); err != nil {
		return err
	}

	// --all asks the world which models exist, then removes each one.
	if flags.all {
		names, err = client.ListModels(ctx, world)
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "failed to list models", err)
		}
		VerboseLog("Removing all %d model(s)", len(names))
	}

	results := make([]removeResult, 0, len(names))
	failures := 0
	for _, name := range names {
		res := removeResult{Name: name}

		resp, err := client.Delete(ctx, name, world)
		switch {
		case err != nil:
			res.Message = err.Error()
		case !resp.Success:
			res.Message = resp.StatusMessage
		default:
			res.Removed = true
		}

		if !res.Removed {
			failures++
			printError(fmt.Sprintf("model %s not removed", name), fmt.Errorf("%s", res.Message))
		} else {
			VerboseLog("Removed %s", name)
		}
		results = append(results, res)
	}

	printRemoveReport(results, world)
	if failures > 0 {
		return model.NewCLIError(model.ExitModelNotFound,
			fmt.Sprintf("%d of %d models failed to remove", failures, len(names)))
	}
	return nil
}

// printRemoveReport outputs the removal results in text or JSON.
func printRemoveReport(results []removeResult, world string) {
	if IsJSONOutput() {
		type reportJSON struct {
			World  string         `json:"world"`
			Models []removeResult `json:"models"`
		}
		data, _ := json.MarshalIndent(reportJSON{World: world, Models: results}, "", "  ")
		fmt.Println(string(data))
		return
	}

	removed := 0
	for _, r := range results {
		if r.Removed {
			removed++
		}
	}
	fmt.Printf("Removed %d of %d model(s) from world %q\n", removed, len(results), world)
}
