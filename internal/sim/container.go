// container.go implements the simulator container lifecycle: create and
// start (Up), stop and remove (Down), and label-based discovery (Find).
//
// Exactly one managed simulator container exists at a time. It is found
// through the "spawner.managed-by" label, never by name, so a renamed
// container is still discovered.
package sim

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/go-connections/nat"

	"github.com/shinji-kodama/sim-spawner/internal/model"
)

// Defaults for the locally run simulator container.
const (
	// DefaultImage is the simulator server image. Overridable via
	// "sim up --image" for custom builds.
	DefaultImage = "gazebo:latest"

	// DefaultContainerName names the managed container. Purely cosmetic —
	// discovery goes through labels.
	DefaultContainerName = "sim-spawner-server"

	// DefaultPort is the spawn-service port published on the host,
	// matching the default SPAWNER_SERVER_ADDR.
	DefaultPort = 11345

	// stopTimeoutSeconds is how long the daemon waits for the simulator
	// to shut down before killing it.
	stopTimeoutSeconds = 10
)

// UpOptions configures the simulator container started by Up.
type UpOptions struct {
	// Image is the simulator server image. Empty means DefaultImage.
	Image string

	// Name is the container name. Empty means DefaultContainerName.
	Name string

	// World is the world name passed to the simulator.
	World string

	// Port is the host port the spawn service is published on.
	// Zero means DefaultPort.
	Port int
}

// Find returns the managed simulator container, or nil if none exists.
// Discovery is label-based and includes stopped containers, so "sim up"
// can refuse to create a duplicate even when the old one has exited.
func Find(ctx context.Context, cli *Client) (*Info, error) {
	filterArgs := filters.NewArgs(
		filters.Arg("label", LabelManagedBy+"="+ManagedByValue),
	)

	containers, err := cli.Inner().ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filterArgs,
	})
	if err != nil {
		return nil, model.WrapCLIError(model.ExitDockerError,
			"failed to list Docker containers", err)
	}
	if len(containers) == 0 {
		return nil, nil
	}

	// More than one match means a previous run leaked a container; report
	// the first and let the user clean up — never guess which to manage.
	if len(containers) > 1 {
		return nil, model.NewCLIError(model.ExitDockerError,
			fmt.Sprintf("found %d simulator containers with label %s — remove the extras manually",
				len(containers), LabelManagedBy))
	}

	return containerToInfo(containers[0])
}

// containerToInfo converts a Docker API container summary into an Info,
// merging runtime state with the label-recorded metadata.
func containerToInfo(c types.Container) (*Info, error) {
	info, err := ParseLabels(c.Labels)
	if err != nil {
		return nil, fmt.Errorf("container %s: %w", c.ID, err)
	}

	info.ContainerID = c.ID

	// The API returns names with a leading "/" artifact.
	if len(c.Names) > 0 {
		info.ContainerName = strings.TrimPrefix(c.Names[0], "/")
	}
	info.State = c.State
	return info, nil
}

// Up creates and starts the simulator container, publishing the spawn
// service port on localhost. Returns the started container's Info.
//
// If a managed container already exists — running or stopped — Up refuses
// and tells the user to run "sim down" first, so configuration changes
// never silently apply to a stale container.
func Up(ctx context.Context, cli *Client, opts UpOptions) (*Info, error) {
	if opts.Image == "" {
		opts.Image = DefaultImage
	}
	if opts.Name == "" {
		opts.Name = DefaultContainerName
	}
	if opts.Port == 0 {
		opts.Port = DefaultPort
	}

	existing, err := Find(ctx, cli)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, model.NewCLIError(model.ExitDockerError,
			fmt.Sprintf("simulator container %q already exists (state: %s) — run \"sim down\" first",
				existing.ContainerName, existing.State))
	}

	portStr := strconv.Itoa(opts.Port)
	servicePort := nat.Port(portStr + "/tcp")

	cfg := &container.Config{
		Image:  opts.Image,
		Labels: BuildLabels(opts.World, opts.Port, time.Now()),
		ExposedPorts: nat.PortSet{
			servicePort: struct{}{},
		},
		Env: []string{"SIM_WORLD=" + opts.World},
	}
	hostCfg := &container.HostConfig{
		PortBindings: nat.PortMap{
			// Bind to loopback only — the spawn service has no
			// authentication, so it must not be reachable from the network.
			servicePort: []nat.PortBinding{{HostIP: "127.0.0.1", HostPort: portStr}},
		},
	}

	created, err := cli.Inner().ContainerCreate(ctx, cfg, hostCfg, nil, nil, opts.Name)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitDockerError,
			fmt.Sprintf("failed to create simulator container from image %q — is the image pulled?", opts.Image),
			err)
	}

	if err := cli.Inner().ContainerStart(ctx, created.ID, container.StartOptions{}); err != nil {
		return nil, model.WrapCLIError(model.ExitDockerError,
			"failed to start simulator container", err)
	}

	return Find(ctx, cli)
}

// Down stops and removes the managed simulator container.
// Returns the Info of the removed container, or nil if none existed.
func Down(ctx context.Context, cli *Client) (*Info, error) {
	info, err := Find(ctx, cli)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, nil
	}

	timeout := stopTimeoutSeconds
	if err := cli.Inner().ContainerStop(ctx, info.ContainerID, container.StopOptions{
		Timeout: &timeout,
	}); err != nil {
		return nil, model.WrapCLIError(model.ExitDockerError,
			fmt.Sprintf("failed to stop simulator container %q", info.ContainerName), err)
	}

	if err := cli.Inner().ContainerRemove(ctx, info.ContainerID, container.RemoveOptions{}); err != nil {
		return nil, model.WrapCLIError(model.ExitDockerError,
			fmt.Sprintf("failed to remove simulator container %q", info.ContainerName), err)
	}

	return info, nil
}
