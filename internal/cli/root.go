// Package cli implements the fleetstat command-line interface.
//
// The root command runs the poll engine: it connects to every configured
// host over SSH, executes the status command on an interval, and publishes
// the combined result as an HTML page (to a file, over HTTP, or both) or
// as a live console view. Subcommands cover configuration (init), one-shot
// connectivity checks (check), and the usual version/completion plumbing.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fleetstat/fleetstat/internal/logger"
)

// Root command flags.
var (
	configFlag  string
	verboseFlag bool

	intervalFlag    string
	timeoutFlag     string
	sshPortFlag     int
	execFlag        string
	outputFlag      string
	listenFlag      string
	consoleFlag     bool
	insecureFlag    bool
	maxFailuresFlag int
)

var rootCmd = &cobra.Command{
	Use:   "fleetstat [host...]",
	Short: "Live GPU status across a fleet of SSH hosts",
	Long: `fleetstat polls a set of hosts over SSH, runs a status command
(gpustat by default) on each, and publishes the combined output as a
continuously refreshed HTML page.

Hosts come from .fleetstat.yaml or from the command line. Each host keeps
a persistent SSH session; failed sessions are rebuilt automatically.

Examples:
  fleetstat                        # hosts from .fleetstat.yaml
  fleetstat gpu1 gpu2 gpu3:2222    # hosts from the command line
  fleetstat --listen :8080         # serve the page over HTTP
  fleetstat --console              # interactive terminal view`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEngine(cmd.Context(), args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to config file (default .fleetstat.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")

	rootCmd.Flags().StringVar(&intervalFlag, "interval", "", "poll interval (e.g. 10s, 1m)")
	rootCmd.Flags().StringVar(&timeoutFlag, "timeout", "", "per-command timeout (e.g. 30s)")
	rootCmd.Flags().IntVar(&sshPortFlag, "ssh-port", 0, "default SSH port for hosts without an explicit port")
	rootCmd.Flags().StringVar(&execFlag, "exec", "", "command to run on each host")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "HTML output file path")
	rootCmd.Flags().StringVar(&listenFlag, "listen", "", "serve the page over HTTP on this address (e.g. :8080)")
	rootCmd.Flags().BoolVar(&consoleFlag, "console", false, "show a live console view instead of writing HTML")
	rootCmd.Flags().BoolVar(&insecureFlag, "insecure", false, "skip host key verification")
	rootCmd.Flags().IntVar(&maxFailuresFlag, "max-failures", 0, "recycle a session after N consecutive command failures (0 = never)")
}

// Execute runs the CLI and exits the process on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogging applies the --verbose flag and config level to the global
// logger. Flags win over config.
func setupLogging(configLevel string) {
	level := configLevel
	if verboseFlag {
		level = "debug"
	}
	if level != "" {
		logger.SetLevel(level)
	}
}
