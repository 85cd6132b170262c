package config

import (
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/shinji-kodama/sim-spawner/internal/model"
)

// Settings holds the environment-driven runtime configuration.
// CLI flags override these values where a corresponding flag exists;
// the environment provides the defaults for scripted use.
type Settings struct {
	// ServerAddr is the host:port of the simulator's spawn service.
	ServerAddr string `env:"SPAWNER_SERVER_ADDR" envDefault:"127.0.0.1:11345"`

	// DialTimeout bounds a single connection attempt to the service.
	DialTimeout time.Duration `env:"SPAWNER_DIAL_TIMEOUT" envDefault:"5s"`

	// CallTimeout bounds a full request/response round trip.
	CallTimeout time.Duration `env:"SPAWNER_CALL_TIMEOUT" envDefault:"10s"`

	// WaitTimeout bounds how long to wait for the spawn service to become
	// available before aborting the batch.
	WaitTimeout time.Duration `env:"SPAWNER_WAIT_TIMEOUT" envDefault:"5s"`

	// PackagePath is a list of root directories (os list separator)
	// searched for source packages. The working directory is always
	// searched in addition.
	PackagePath string `env:"SPAWNER_PACKAGE_PATH"`

	// World is the target world name inside the simulator.
	World string `env:"SPAWNER_WORLD" envDefault:"default"`
}

// ParseSettings loads Settings from environment variables, applying the
// declared defaults for unset variables.
func ParseSettings() (*Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError,
			"invalid SPAWNER_* environment configuration", err)
	}
	return &s, nil
}
