// Package cli — sim.go implements the "sim-spawner sim" command group.
//
// The sim subcommands run the simulator server as a local Docker
// container, for users without a native simulator installation:
//
//	sim up      create and start the simulator container
//	sim down    stop and remove it
//	sim status  report its state
//
// The container is discovered through Docker labels, so there is no
// state file to get out of sync.
package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/sim-spawner/internal/config"
	"github.com/shinji-kodama/sim-spawner/internal/sim"
)

// simUpFlags holds flag values for "sim up".
type simUpFlags struct {
	image string // --image: simulator server image
	name  string // --name: container name
	port  int    // --port: host port for the spawn service
	world string // --world: world name passed to the simulator
}

// NewSimCommand creates the "sim" command group with its subcommands.
func NewSimCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Manage a local simulator container",
		Long: `Run the simulator server as a local Docker container and manage its
lifecycle. The spawn service port is published on localhost only.

Examples:
  sim-spawner sim up
  sim-spawner sim up --image gazebo:11 --port 11345 --world warehouse
  sim-spawner sim status
  sim-spawner sim down`,
	}

	cmd.AddCommand(newSimUpCommand())
	cmd.AddCommand(newSimDownCommand())
	cmd.AddCommand(newSimStatusCommand())
	return cmd
}

// newSimUpCommand creates the "sim up" subcommand.
func newSimUpCommand() *cobra.Command {
	flags := &simUpFlags{}

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Create and start the simulator container",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimUp(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.image, "image", sim.DefaultImage, "Simulator server image")
	cmd.Flags().StringVar(&flags.name, "name", sim.DefaultContainerName, "Container name")
	cmd.Flags().IntVar(&flags.port, "port", sim.DefaultPort, "Host port for the spawn service")
	cmd.Flags().StringVar(&flags.world, "world", "", "World name (default: $SPAWNER_WORLD)")

	return cmd
}

// runSimUp starts the simulator container and reports it.
func runSimUp(ctx context.Context, flags *simUpFlags) error {
	settings, err := config.ParseSettings()
	if err != nil {
		return err
	}

	world := flags.world
	if world == "" {
		world = settings.World
	}

	cli, err := sim.NewClient()
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	if err := cli.Ping(ctx); err != nil {
		return err
	}
	VerboseLog("Connected to Docker daemon")

	info, err := sim.Up(ctx, cli, sim.UpOptions{
		Image: flags.image,
		Name:  flags.name,
		Port:  flags.port,
		World: world,
	})
	if err != nil {
		return err
	}

	printSimInfo(info, "started")
	return nil
}

// newSimDownCommand creates the "sim down" subcommand.
func newSimDownCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Stop and remove the simulator container",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimDown(cmd.Context())
		},
	}
}

// runSimDown stops and removes the simulator container if one exists.
func runSimDown(ctx context.Context) error {
	cli, err := sim.NewClient()
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	if err := cli.Ping(ctx); err != nil {
		return err
	}

	info, err := sim.Down(ctx, cli)
	if err != nil {
		return err
	}
	if info == nil {
		fmt.Println("No simulator container found")
		return nil
	}

	printSimInfo(info, "removed")
	return nil
}

// newSimStatusCommand creates the "sim status" subcommand.
func newSimStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the simulator container state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimStatus(cmd.Context())
		},
	}
}

// runSimStatus reports the managed simulator container, if any.
func runSimStatus(ctx context.Context) error {
	cli, err := sim.NewClient()
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	if err := cli.Ping(ctx); err != nil {
		return err
	}

	info, err := sim.Find(ctx, cli)
	if err != nil {
		return err
	}
	if info == nil {
		if IsJSONOutput() {
			fmt.Println("null")
		} else {
			fmt.Println("No simulator container found")
		}
		return nil
	}

	printSimInfo(info, info.State)
	return nil
}

// printSimInfo outputs a simulator container description in text or JSON.
func printSimInfo(info *sim.Info, verb string) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(info, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("Simulator container %q (%s)\n", info.ContainerName, verb)
	fmt.Printf("  World:   %s\n", info.World)
	fmt.Printf("  Service: 127.0.0.1:%d\n", info.Port)
	fmt.Printf("  Created: %s\n", info.CreatedAt.Format("2006-01-02 15:04:05 MST"))
}
