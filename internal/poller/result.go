package poller

import (
	"context"
	"errors"
	"strings"
)

// Kind classifies the outcome of one poll cycle. The classification decides
// whether the session survives: data-level failures keep the connection,
// transport-level failures tear it down.
type Kind int

const (
	// KindSuccess means the remote command exited zero.
	KindSuccess Kind = iota
	// KindCommandFailure means the command ran but exited non-zero.
	// Data-level: the session stays up.
	KindCommandFailure
	// KindTimeout means the command exceeded its deadline.
	// Transport-level: the session is discarded and rebuilt.
	KindTimeout
	// KindTransportError means the channel dropped mid-command.
	// Transport-level: the session is discarded and rebuilt.
	KindTransportError
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindCommandFailure:
		return "command_failure"
	case KindTimeout:
		return "timeout"
	case KindTransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// Result is the outcome of a single poll cycle. It is ephemeral: produced,
// converted into a status table update, and dropped.
type Result struct {
	Kind     Kind
	Output   string // stdout, when the command ran
	Stderr   string // stderr, when the command ran
	ExitCode int
	Err      error // underlying error for transport-level failures
}

// classify converts an ExecContext outcome into a Result.
func classify(stdout, stderr []byte, exitCode int, err error) Result {
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Result{Kind: KindTimeout, Err: err}
		}
		return Result{Kind: KindTransportError, Err: err}
	}
	if exitCode != 0 {
		return Result{
			Kind:     KindCommandFailure,
			Output:   string(stdout),
			Stderr:   string(stderr),
			ExitCode: exitCode,
		}
	}
	return Result{Kind: KindSuccess, Output: string(stdout)}
}

// stderrSummary returns the first line of stderr for one-line error display.
func stderrSummary(stderr string) string {
	line, _, _ := strings.Cut(stderr, "\n")
	return strings.TrimSpace(line)
}
