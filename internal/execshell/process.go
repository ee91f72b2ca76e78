package execshell

import (
	"context"
	"io"
)

// ShellInvocation describes the shell process to spawn.
type ShellInvocation struct {
	Binary               string
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	// ProcessGroup starts the shell in its own process group so that killing it also
	// kills the commands it is running.
	ProcessGroup         bool
}

// Process is a started shell process and its standard streams.
type Process interface {
	Stdin() io.WriteCloser
	Stdout() io.ReadCloser
	Stderr() io.ReadCloser
	// Wait blocks until the process exits and reports its exit code.
	Wait() (int, error)
	// Kill forcibly terminates the process. Killing an exited process is not an error.
	Kill() error
}

// ProcessStarter spawns shell processes.
type ProcessStarter interface {
	Start(executionContext context.Context, invocation ShellInvocation) (Process, error)
}
