package config

import (
	"fmt"

	"github.com/fleetstat/fleetstat/internal/errors"
)

// Validate checks the config for values the poll engine cannot run with.
// It does not mutate the config; callers clamp or reject as they prefer.
func (c *Config) Validate() error {
	if len(c.Hosts) == 0 {
		return errors.New(errors.ErrConfig,
			"No hosts configured",
			"Add hosts to "+ConfigFileName+" or pass them as arguments")
	}

	if _, err := ParseEndpoints(c.Hosts, c.SSHPort); err != nil {
		return err
	}

	if c.SSHPort < 1 || c.SSHPort > 65535 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Default SSH port %d out of range", c.SSHPort),
			"Ports must be between 1 and 65535")
	}

	if c.Interval < MinInterval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Interval %s too short", c.Interval),
			fmt.Sprintf("Minimum interval is %s to avoid hammering hosts", MinInterval))
	}

	if c.Timeout <= 0 {
		return errors.New(errors.ErrConfig,
			"Timeout must be positive",
			"Use a duration like 30s")
	}

	if c.Command == "" {
		return errors.New(errors.ErrConfig,
			"Remote command is empty",
			"Set 'command' in the config or use --exec")
	}

	if c.Output == "" && c.Listen == "" {
		return errors.New(errors.ErrConfig,
			"Nowhere to publish: both output path and listen address are empty",
			"Set 'output' to a file path or 'listen' to an address like :8080")
	}

	return nil
}
