package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fleetstat/fleetstat/internal/config"
	"github.com/fleetstat/fleetstat/internal/errors"
)

var (
	initHostsFlag string
	initForce     bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create " + config.ConfigFileName + " configuration",
	Long: `Initialize a new fleetstat configuration file.

Creates a ` + config.ConfigFileName + ` file in the current directory. Without
flags, prompts interactively for the host list and polling settings.

Examples:
  fleetstat init
  fleetstat init --hosts gpu1,gpu2,gpu3:2222
  fleetstat init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(initHostsFlag, initForce)
	},
}

func init() {
	initCmd.Flags().StringVar(&initHostsFlag, "hosts", "", "comma-separated host list (skips prompts)")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")
	rootCmd.AddCommand(initCmd)
}

// initConfig creates a new config file, prompting when hosts were not
// given on the command line.
func initConfig(hostsFlag string, force bool) error {
	configPath := filepath.Join(".", config.ConfigFileName)

	if _, err := os.Stat(configPath); err == nil && !force {
		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()

	if hostsFlag != "" {
		cfg.Hosts = splitHosts(hostsFlag)
	} else {
		var hostsInput, intervalInput string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Hosts to poll").
					Description("Comma-separated, HOSTNAME[:PORT] each").
					Placeholder("gpu1, gpu2, gpu3:2222").
					Value(&hostsInput).
					Validate(func(s string) error {
						if len(splitHosts(s)) == 0 {
							return fmt.Errorf("at least one host is required")
						}
						_, err := config.ParseEndpoints(splitHosts(s), 22)
						return err
					}),
			),
			huh.NewGroup(
				huh.NewInput().
					Title("Poll interval").
					Description("How often to run the status command on each host").
					Placeholder("10s").
					Value(&intervalInput).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return nil
						}
						d, err := time.ParseDuration(s)
						if err != nil {
							return fmt.Errorf("not a duration (try 10s or 1m)")
						}
						if d < config.MinInterval {
							return fmt.Errorf("minimum interval is %s", config.MinInterval)
						}
						return nil
					}),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Check terminal compatibility, or use --hosts to skip prompts")
		}

		cfg.Hosts = splitHosts(hostsInput)
		if strings.TrimSpace(intervalInput) != "" {
			cfg.Interval, _ = time.ParseDuration(intervalInput)
		}
	}

	if _, err := config.ParseEndpoints(cfg.Hosts, cfg.SSHPort); err != nil {
		return err
	}

	data, err := yaml.Marshal(configDocument(cfg))
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to generate config",
			"This shouldn't happen - please report this bug")
	}

	header := `# fleetstat configuration
# Run 'fleetstat' to start polling, 'fleetstat check' to test connectivity

`
	if err := os.WriteFile(configPath, []byte(header+string(data)), 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to write config file: %s", configPath),
			"Check directory permissions")
	}

	fmt.Printf("%s Created %s\n\n", symbolSuccess, configPath)
	fmt.Println("Next steps:")
	fmt.Println("  fleetstat check   - Test SSH connectivity to all hosts")
	fmt.Println("  fleetstat         - Start polling")

	return nil
}

// yamlConfig mirrors config.Config with durations as strings, so the
// written file reads naturally ("10s" instead of nanosecond integers).
type yamlConfig struct {
	Version  int      `yaml:"version"`
	Hosts    []string `yaml:"hosts"`
	SSHPort  int      `yaml:"ssh_port"`
	Interval string   `yaml:"interval"`
	Timeout  string   `yaml:"timeout"`
	Command  string   `yaml:"command"`
	Output   string   `yaml:"output"`
	Logging  struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

func configDocument(cfg *config.Config) yamlConfig {
	doc := yamlConfig{
		Version:  cfg.Version,
		Hosts:    cfg.Hosts,
		SSHPort:  cfg.SSHPort,
		Interval: cfg.Interval.String(),
		Timeout:  cfg.Timeout.String(),
		Command:  cfg.Command,
		Output:   cfg.Output,
	}
	doc.Logging.Level = cfg.Logging.Level
	return doc
}

// splitHosts parses a comma-separated host list, dropping empty entries.
func splitHosts(s string) []string {
	var hosts []string
	for _, part := range strings.Split(s, ",") {
		if h := strings.TrimSpace(part); h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}
