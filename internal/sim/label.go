package sim

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Label keys persist simulator-container metadata directly on the
// container, so its configuration can be reconstructed from `docker
// inspect` alone. All keys share the "spawner." prefix to avoid
// collisions with labels set by other tools.
const (
	// LabelPrefix is the common prefix for all sim-spawner labels.
	LabelPrefix = "spawner."

	// LabelManagedBy identifies containers managed by sim-spawner.
	// Key: "spawner.managed-by", value: always "sim-spawner".
	LabelManagedBy = LabelPrefix + "managed-by"

	// LabelWorld stores the world name the simulator was started with.
	LabelWorld = LabelPrefix + "world"

	// LabelPort stores the published spawn-service port.
	LabelPort = LabelPrefix + "port"

	// LabelCreatedAt stores the RFC3339 timestamp of container creation.
	LabelCreatedAt = LabelPrefix + "created-at"
)

// ManagedByValue is the constant value for the LabelManagedBy label.
const ManagedByValue = "sim-spawner"

// Info describes a managed simulator container as reconstructed from its
// labels plus runtime state from the Docker API.
type Info struct {
	// ContainerID is the Docker container identifier.
	ContainerID string `json:"containerId"`

	// ContainerName is the human-readable container name.
	ContainerName string `json:"containerName"`

	// State is the Docker container state ("running", "exited", ...).
	State string `json:"state"`

	// World is the simulator world name from the labels.
	World string `json:"world"`

	// Port is the published spawn-service port from the labels.
	Port int `json:"port"`

	// CreatedAt is the label-recorded creation time.
	CreatedAt time.Time `json:"createdAt"`
}

// BuildLabels constructs the label map applied to a new simulator
// container.
func BuildLabels(world string, port int, createdAt time.Time) map[string]string {
	return map[string]string{
		LabelManagedBy: ManagedByValue,
		LabelWorld:     world,
		LabelPort:      strconv.Itoa(port),
		LabelCreatedAt: createdAt.UTC().Format(time.RFC3339),
	}
}

// ParseLabels reconstructs the simulator metadata from container labels.
// This is the inverse of BuildLabels. Missing labels are reported
// together so one inspect round trip surfaces every problem.
func ParseLabels(labels map[string]string) (*Info, error) {
	var missing []string
	for _, key := range []string{LabelManagedBy, LabelWorld, LabelPort, LabelCreatedAt} {
		if _, ok := labels[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required labels: %s", strings.Join(missing, ", "))
	}

	if labels[LabelManagedBy] != ManagedByValue {
		return nil, fmt.Errorf("label %s has unexpected value %q (expected %q)",
			LabelManagedBy, labels[LabelManagedBy], ManagedByValue)
	}

	port, err := strconv.Atoi(labels[LabelPort])
	if err != nil {
		return nil, fmt.Errorf("invalid label %s=%q: %w", LabelPort, labels[LabelPort], err)
	}

	createdAt, err := time.Parse(time.RFC3339, labels[LabelCreatedAt])
	if err != nil {
		return nil, fmt.Errorf("invalid label %s: %w", LabelCreatedAt, err)
	}

	return &Info{
		World:     labels[LabelWorld],
		Port:      port,
		CreatedAt: createdAt,
	}, nil
}
