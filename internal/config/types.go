package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// DefaultCommand is the remote command executed on every poll cycle.
const DefaultCommand = "gpustat --color --gpuname-width 25"

// MinInterval is the enforced floor for the poll interval so a fleet of
// pollers cannot hammer the remote hosts.
const MinInterval = time.Second

// Config represents the complete .fleetstat.yaml configuration file.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// Hosts are connection strings in HOSTNAME[:PORT] form, polled in the
	// order they are listed. Rendering preserves this order.
	Hosts []string `yaml:"hosts" mapstructure:"hosts"`

	// SSHPort is the default port used when a host entry has none.
	SSHPort int `yaml:"ssh_port" mapstructure:"ssh_port"`

	// Interval is the delay between two consecutive polls of one host,
	// and the retry delay after a transport failure.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// Timeout bounds a single remote command execution.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Command is the remote command whose stdout becomes the host's
	// status line(s).
	Command string `yaml:"command" mapstructure:"command"`

	// Output is the path of the rendered HTML document.
	Output string `yaml:"output" mapstructure:"output"`

	// Listen, when non-empty, enables the embedded HTTP server serving
	// the rendered page and Prometheus metrics.
	Listen string `yaml:"listen" mapstructure:"listen"`

	// MaxFailures recycles a session after this many consecutive command
	// failures. Zero keeps the original behavior of retrying on the same
	// session indefinitely.
	MaxFailures int `yaml:"max_failures" mapstructure:"max_failures"`

	// Insecure skips SSH host key verification.
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`

	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `yaml:"level" mapstructure:"level"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:  CurrentConfigVersion,
		Hosts:    []string{},
		SSHPort:  22,
		Interval: 10 * time.Second,
		Timeout:  30 * time.Second,
		Command:  DefaultCommand,
		Output:   "cluster_status.html",
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
