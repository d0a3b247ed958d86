package cli

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/fleetstat/fleetstat/internal/config"
	"github.com/fleetstat/fleetstat/internal/errors"
	"github.com/fleetstat/fleetstat/pkg/sshutil"
)

var checkTimeoutFlag string

var checkCmd = &cobra.Command{
	Use:   "check [host...]",
	Short: "Test SSH connectivity and the status command on every host",
	Long: `Connect to each configured host once, run the status command, and
report the result. Useful after 'fleetstat init' and before leaving the
poller running unattended.

Examples:
  fleetstat check
  fleetstat check gpu1 gpu2:2222
  fleetstat check --timeout 5s`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return checkHosts(cmd.Context(), args)
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkTimeoutFlag, "timeout", "10s", "per-host probe timeout")
	rootCmd.AddCommand(checkCmd)
}

// checkResult is the probe outcome for one host.
type checkResult struct {
	endpoint config.Endpoint
	latency  time.Duration
	err      error
}

// checkHosts probes every host concurrently and prints one line per host.
// Returns an error if any probe failed, so exit codes are scriptable.
func checkHosts(ctx context.Context, hostArgs []string) error {
	cfg, err := loadConfig(hostArgs)
	if err != nil {
		return err
	}
	if len(cfg.Hosts) == 0 {
		return errors.New(errors.ErrConfig,
			"No hosts configured",
			"Pass hosts as arguments or run 'fleetstat init' first")
	}

	endpoints, err := config.ParseEndpoints(cfg.Hosts, cfg.SSHPort)
	if err != nil {
		return err
	}

	probeTimeout, err := time.ParseDuration(checkTimeoutFlag)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid --timeout value: "+checkTimeoutFlag,
			"Use a duration like 5s or 1m")
	}

	fmt.Printf("Checking %d host(s) with %q ...\n\n", len(endpoints), cfg.Command)

	results := make([]checkResult, len(endpoints))
	var wg sync.WaitGroup
	for i, ep := range endpoints {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = probeHost(ctx, ep, cfg.Command, probeTimeout, cfg.Insecure)
		}()
	}
	wg.Wait()

	width := 0
	for _, ep := range endpoints {
		if len(ep.String()) > width {
			width = len(ep.String())
		}
	}

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			fmt.Printf("  %s %-*s  %s\n", failMark(), width, r.endpoint.String(), firstLine(r.err.Error()))
			continue
		}
		fmt.Printf("  %s %-*s  %s\n", okMark(), width, r.endpoint.String(),
			mutedStyle.Render(r.latency.Round(time.Millisecond).String()))
	}

	fmt.Println()
	if failed > 0 {
		return errors.New(errors.ErrSSH,
			fmt.Sprintf("%d of %d host(s) failed the check", failed, len(endpoints)),
			"Inspect the lines above; 'ssh <host>' by hand often shows more detail")
	}
	fmt.Printf("%s All %d host(s) reachable\n", okMark(), len(endpoints))
	return nil
}

// probeHost dials one host and runs the status command once.
func probeHost(ctx context.Context, ep config.Endpoint, command string, timeout time.Duration, insecure bool) checkResult {
	start := time.Now()

	client, err := sshutil.Dial(ep.Hostname, ep.Port, sshutil.Options{
		Timeout:         timeout,
		InsecureHostKey: insecure,
	})
	if err != nil {
		return checkResult{endpoint: ep, err: err}
	}
	defer client.Close()

	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	_, stderr, exitCode, err := client.ExecContext(execCtx, command)
	if err != nil {
		return checkResult{endpoint: ep, err: err}
	}
	if exitCode != 0 {
		return checkResult{endpoint: ep, err: fmt.Errorf("command exited %d: %s", exitCode, firstLine(string(stderr)))}
	}

	return checkResult{endpoint: ep, latency: time.Since(start)}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}
