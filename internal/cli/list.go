// Package cli — list.go implements the "sim-spawner list" command.
//
// The list command queries the spawn service for the unique names of all
// models currently present in the world.
package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/sim-spawner/internal/config"
	"github.com/shinji-kodama/sim-spawner/internal/model"
)

// listFlags holds the flag values for the list command.
type listFlags struct {
	world string // --world: target world (default: env)
}

// NewListCommand creates the "list" cobra command.
func NewListCommand() *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List models currently in the running world",
		Long: `List the unique names of all models currently present in the running
simulation world.

Examples:
  sim-spawner list
  sim-spawner list --world warehouse --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.world, "world", "", "Target world (default: $SPAWNER_WORLD)")

	return cmd
}

// runList is the main logic function for the list command.
func runList(ctx context.Context, flags *listFlags) error {
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

	models, err := client.ListModels(ctx, world)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to list models", err)
	}

	if IsJSONOutput() {
		type resultJSON struct {
			World  string   `json:"world"`
			Models []string `json:"models"`
		}
		data, _ := json.MarshalIndent(resultJSON{World: world, Models: models}, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("%d model(s) in world %q\n", len(models), world)
	for _, name := range models {
		fmt.Printf("  %s\n", name)
	}
	return nil
}
