package poller

import (
	"context"
	"sync"
	"time"

	"github.com/fleetstat/fleetstat/internal/config"
	"github.com/fleetstat/fleetstat/internal/logger"
	"github.com/fleetstat/fleetstat/internal/metrics"
	"github.com/fleetstat/fleetstat/internal/status"
)

// Supervisor launches one Poller per configured host and owns their
// lifetime. All pollers share the injected status table and render hook;
// nothing else is shared between them.
type Supervisor struct {
	endpoints   []config.Endpoint
	command     string
	interval    time.Duration
	timeout     time.Duration
	maxFailures int

	dial   DialFunc
	table  *status.Table
	render RenderFunc
	log    logger.Logger
	met    *metrics.Metrics
}

// SupervisorOptions configures a Supervisor.
type SupervisorOptions struct {
	Endpoints   []config.Endpoint
	Command     string
	Interval    time.Duration
	Timeout     time.Duration
	MaxFailures int

	Dial    DialFunc
	Table   *status.Table
	Render  RenderFunc
	Logger  logger.Logger
	Metrics *metrics.Metrics
}

// NewSupervisor creates a supervisor. Table and Dial are required; a nil
// Render hook or Logger is replaced with a no-op.
func NewSupervisor(opts SupervisorOptions) *Supervisor {
	render := opts.Render
	if render == nil {
		render = func() error { return nil }
	}
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}

	return &Supervisor{
		endpoints:   opts.Endpoints,
		command:     opts.Command,
		interval:    opts.Interval,
		timeout:     opts.Timeout,
		maxFailures: opts.MaxFailures,
		dial:        opts.Dial,
		table:       opts.Table,
		render:      render,
		log:         log,
		met:         opts.Metrics,
	}
}

// Run initializes placeholder entries for every host, launches all pollers
// concurrently, and blocks until ctx is cancelled or one poller fails
// fatally. A fatal error from any single poller fails the whole run; this
// fail-fast policy is deliberate and distinct from the per-poller retry
// policy, which absorbs every environmental failure.
func (s *Supervisor) Run(ctx context.Context) error {
	// Seed placeholders before any poller starts, so a render triggered
	// before the first poll completes is well-defined.
	for _, ep := range s.endpoints {
		s.table.Init(ep.Hostname, placeholder(ep.Hostname))
	}

	// Shared label width for aligned log output. Cosmetic only.
	width := 0
	for _, ep := range s.endpoints {
		if len(ep.Hostname) > width {
			width = len(ep.Hostname)
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	fatalCh := make(chan error, len(s.endpoints))

	for _, ep := range s.endpoints {
		p := &Poller{
			endpoint:    ep,
			command:     s.command,
			interval:    s.interval,
			timeout:     s.timeout,
			maxFailures: s.maxFailures,
			dial:        s.dial,
			table:       s.table,
			render:      s.render,
			log:         s.log,
			met:         s.met,
			labelWidth:  width,
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p.Run(runCtx); err != nil {
				fatalCh <- err
				cancel()
			}
		}()
	}

	wg.Wait()
	close(fatalCh)

	// First fatal error wins; the rest exited on the shared cancel.
	if err := <-fatalCh; err != nil {
		return err
	}
	return nil
}
