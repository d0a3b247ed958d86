// Package poller implements the multi-host polling engine: one independent,
// self-healing poll loop per host, all writing into a shared status table
// that the renderer consumes.
package poller

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/fleetstat/fleetstat/internal/config"
	"github.com/fleetstat/fleetstat/internal/errors"
	"github.com/fleetstat/fleetstat/internal/logger"
	"github.com/fleetstat/fleetstat/internal/metrics"
	"github.com/fleetstat/fleetstat/internal/status"
	"github.com/fleetstat/fleetstat/pkg/sshutil"
)

// DialFunc establishes a remote command channel to one host. The production
// implementation wraps sshutil.Dial; tests substitute scripted fakes.
type DialFunc func(hostname string, port int) (sshutil.Runner, error)

// RenderFunc publishes the current status table. Called after every status
// update, successful or not.
type RenderFunc func() error

// Poller drives the poll loop for a single host. Its life cycle is
// Connecting → Polling → (Disconnected ⇄ Connecting) until the context is
// cancelled. Transport failures are absorbed and retried after the poll
// interval; only render failures escape, since they indicate a defect in
// the process itself rather than in the environment.
type Poller struct {
	endpoint    config.Endpoint
	command     string
	interval    time.Duration
	timeout     time.Duration
	maxFailures int

	dial   DialFunc
	table  *status.Table
	render RenderFunc
	log    logger.Logger
	met    *metrics.Metrics

	labelWidth int
}

// Run polls the host until ctx is cancelled. It returns nil on cancellation
// and an error only for fatal (unclassified) failures.
func (p *Poller) Run(ctx context.Context) error {
	host := p.endpoint.Hostname

	for {
		if ctx.Err() != nil {
			return nil
		}

		client, err := p.dial(host, p.endpoint.Port)
		if err != nil {
			// Connect failures are the steady-state retry path, not fatal.
			p.log.Warn("[%-*s] connect failed: %s", p.labelWidth, host, compactError(err))
			p.table.Set(host, errorLine(host, compactError(err)))
			if rerr := p.render(); rerr != nil {
				return rerr
			}
			if !p.sleep(ctx) {
				return nil
			}
			continue
		}

		p.log.Info("[%-*s] SSH connection established (%s)", p.labelWidth, host, client.Addr())

		fatal, cancelled := p.pollLoop(ctx, client)
		_ = client.Close()
		if fatal != nil {
			return fatal
		}
		if cancelled {
			p.log.Info("[%-*s] closed on shutdown", p.labelWidth, host)
			return nil
		}

		if p.met != nil {
			p.met.Reconnects.WithLabelValues(host).Inc()
		}
		p.log.Warn("[%-*s] disconnected, retrying in %s", p.labelWidth, host, p.interval)
		if !p.sleep(ctx) {
			return nil
		}
	}
}

// pollLoop executes the command repeatedly on one established session.
// It returns when the session must be torn down (timeout, channel drop,
// failure escalation), on cancellation, or on a fatal render error.
func (p *Poller) pollLoop(ctx context.Context, client sshutil.Runner) (fatal error, cancelled bool) {
	host := p.endpoint.Hostname
	failures := 0

	for {
		execCtx, cancel := context.WithTimeout(ctx, p.timeout)
		start := time.Now()
		stdout, stderr, exitCode, err := client.ExecContext(execCtx, p.command)
		elapsed := time.Since(start)
		cancel()

		if ctx.Err() != nil {
			// Shutdown interrupted the command; abandon the cycle.
			return nil, true
		}

		res := classify(stdout, stderr, exitCode, err)

		if p.met != nil {
			p.met.Polls.WithLabelValues(host, res.Kind.String()).Inc()
			if res.Kind == KindSuccess || res.Kind == KindCommandFailure {
				p.met.PollDuration.WithLabelValues(host).Observe(elapsed.Seconds())
			}
		}

		switch res.Kind {
		case KindSuccess:
			failures = 0
			p.log.Debug("[%-*s] poll ok (%d bytes, %s)", p.labelWidth, host, len(res.Output), elapsed.Round(time.Millisecond))
			p.table.Set(host, res.Output)

		case KindCommandFailure:
			failures++
			msg := fmt.Sprintf("[exitcode %d] %s", res.ExitCode, stderrSummary(res.Stderr))
			p.log.Warn("[%-*s] %s", p.labelWidth, host, msg)
			p.table.Set(host, errorLine(host, msg))

		case KindTimeout:
			p.log.Warn("[%-*s] timeout after %s", p.labelWidth, host, p.timeout)
			p.table.Set(host, errorLine(host, timeoutMessage(p.timeout.Seconds())))

		case KindTransportError:
			p.log.Warn("[%-*s] channel error: %s", p.labelWidth, host, compactError(res.Err))
			p.table.Set(host, errorLine(host, compactError(res.Err)))
		}

		if rerr := p.render(); rerr != nil {
			return rerr, false
		}

		if res.Kind == KindTimeout || res.Kind == KindTransportError {
			return nil, false
		}

		if p.maxFailures > 0 && failures >= p.maxFailures {
			p.log.Warn("[%-*s] %d consecutive command failures, recycling session", p.labelWidth, host, failures)
			return nil, false
		}

		if !p.sleep(ctx) {
			return nil, true
		}
	}
}

// sleep waits one poll interval. Returns false if ctx was cancelled first.
func (p *Poller) sleep(ctx context.Context) bool {
	t := time.NewTimer(p.interval)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// compactError reduces an error to a single displayable line. Structured
// errors contribute their message instead of the multi-line help text.
func compactError(err error) string {
	if err == nil {
		return ""
	}
	var fsErr *errors.Error
	if stderrors.As(err, &fsErr) {
		return fsErr.Message
	}
	return stderrSummary(err.Error())
}

// DialSSH is the production DialFunc, connecting with the given options.
func DialSSH(opts sshutil.Options) DialFunc {
	return func(hostname string, port int) (sshutil.Runner, error) {
		return sshutil.Dial(hostname, port, opts)
	}
}
