package sshutil

import "context"

// Runner defines the interface for remote command execution over an
// established channel. Both the real Client and test fakes satisfy it.
type Runner interface {
	// ExecContext runs a command and returns stdout, stderr, and exit code.
	// Exit code is -1 if the command couldn't be executed at all.
	// A non-zero exit code with nil error means the command ran but failed.
	ExecContext(ctx context.Context, cmd string) (stdout, stderr []byte, exitCode int, err error)

	// Close closes the SSH connection.
	Close() error

	// Addr returns the resolved host:port address.
	Addr() string
}
