package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fleetstat/fleetstat/internal/config"
	"github.com/fleetstat/fleetstat/internal/console"
	"github.com/fleetstat/fleetstat/internal/errors"
	"github.com/fleetstat/fleetstat/internal/logger"
	"github.com/fleetstat/fleetstat/internal/metrics"
	"github.com/fleetstat/fleetstat/internal/poller"
	"github.com/fleetstat/fleetstat/internal/render"
	"github.com/fleetstat/fleetstat/internal/status"
	"github.com/fleetstat/fleetstat/internal/web"
	"github.com/fleetstat/fleetstat/pkg/sshutil"
)

// runEngine loads config, applies flag overrides, and runs the poll engine
// until interrupted or a fatal error occurs.
func runEngine(ctx context.Context, hostArgs []string) error {
	cfg, err := loadConfig(hostArgs)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	setupLogging(cfg.Logging.Level)
	log := logger.Default()

	endpoints, err := config.ParseEndpoints(cfg.Hosts, cfg.SSHPort)
	if err != nil {
		return err
	}

	log.Info("polling %d host(s) every %s (command: %q)", len(endpoints), cfg.Interval, cfg.Command)

	table := status.NewTable()
	met := metrics.New()

	outputPath := cfg.Output
	if consoleFlag {
		// The console view reads the table directly; no HTML is written
		// unless an output path was asked for explicitly.
		if outputFlag == "" {
			outputPath = ""
		}
	}

	var renderFn poller.RenderFunc
	var renderer *render.Renderer
	if outputPath != "" || cfg.Listen != "" {
		renderer, err = render.New(outputPath, cfg.Interval, log)
		if err != nil {
			return err
		}
		renderFn = func() error {
			if err := renderer.Render(table.Snapshot()); err != nil {
				return err
			}
			met.Renders.Inc()
			return nil
		}
	}

	sup := poller.NewSupervisor(poller.SupervisorOptions{
		Endpoints:   endpoints,
		Command:     cfg.Command,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		MaxFailures: cfg.MaxFailures,
		Dial: poller.DialSSH(sshutil.Options{
			Timeout:         10 * time.Second,
			InsecureHostKey: cfg.Insecure,
		}),
		Table:   table,
		Render:  renderFn,
		Logger:  log,
		Metrics: met,
	})

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	runCtx, cancel := context.WithCancel(runCtx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		return sup.Run(gctx)
	})

	if cfg.Listen != "" {
		srv := web.New(cfg.Listen, renderer, met, log)
		g.Go(func() error {
			return srv.Run(gctx)
		})
	}

	if consoleFlag {
		if !console.IsInteractive() {
			cancel()
			_ = g.Wait()
			return errors.New(errors.ErrConfig,
				"--console requires an interactive terminal",
				"Run without --console, or use --output / --listen instead")
		}
		g.Go(func() error {
			defer cancel() // quitting the view stops the engine
			return console.Run(gctx, table, cancel)
		})
	}

	err = g.Wait()
	if err == nil || err == context.Canceled {
		log.Info("shut down cleanly")
		return nil
	}
	return err
}

// loadConfig resolves the effective config from file, flags, and host
// arguments. Precedence: flags > arguments > file > defaults.
func loadConfig(hostArgs []string) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(configFlag)
	if err != nil {
		return nil, err
	}

	if len(hostArgs) > 0 {
		cfg.Hosts = hostArgs
	}
	if execFlag != "" {
		cfg.Command = execFlag
	}
	if outputFlag != "" {
		cfg.Output = outputFlag
	}
	if listenFlag != "" {
		cfg.Listen = listenFlag
	}
	if sshPortFlag > 0 {
		cfg.SSHPort = sshPortFlag
	}
	if maxFailuresFlag > 0 {
		cfg.MaxFailures = maxFailuresFlag
	}
	if insecureFlag {
		cfg.Insecure = true
	}

	if intervalFlag != "" {
		d, err := time.ParseDuration(intervalFlag)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Invalid --interval value: "+intervalFlag,
				"Use a duration like 10s, 30s, or 1m")
		}
		cfg.Interval = d
	}
	if timeoutFlag != "" {
		d, err := time.ParseDuration(timeoutFlag)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Invalid --timeout value: "+timeoutFlag,
				"Use a duration like 30s or 2m")
		}
		cfg.Timeout = d
	}

	return cfg, nil
}
