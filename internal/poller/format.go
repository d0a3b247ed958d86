package poller

import (
	"fmt"
	"strings"
)

// ANSI SGR codes used in status lines. The renderer converts these into
// HTML spans; the console view prints them as-is.
const (
	sgrReset = "\x1b[0m"
	sgrRed   = "\x1b[31m"
	sgrWhite = "\x1b[37m"
)

// hostLabel renders the "(hostname) " prefix that precedes placeholder and
// error lines, in white so it stands apart from the message body.
func hostLabel(hostname string) string {
	return sgrWhite + "(" + hostname + ") " + sgrReset
}

// statusLine builds one host status line with the labeled prefix.
func statusLine(hostname, msg string) string {
	return hostLabel(hostname) + msg + "\n"
}

// errorLine builds one host status line with the message in red.
func errorLine(hostname, msg string) string {
	return statusLine(hostname, sgrRed+msg+sgrReset)
}

// placeholder is the initial table text before the first poll completes.
func placeholder(hostname string) string {
	return statusLine(hostname, "Loading ...")
}

// IsPlaceholder reports whether a status text is still the pre-poll
// placeholder, i.e. no poll for the host has completed yet.
func IsPlaceholder(text string) bool {
	return strings.Contains(text, "Loading ...")
}

// timeoutMessage formats the line shown when a poll exceeds its deadline.
func timeoutMessage(seconds float64) string {
	return fmt.Sprintf("Timeout after %g sec", seconds)
}
