package execshell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
)

const (
	environmentAssignmentSeparatorConstant = "="
	environmentAssignmentTemplateConstant  = "%s%s%s"
	standardInputPipeErrorTemplateConstant = "unable to open standard input: %w"
	outputPipeErrorTemplateConstant        = "unable to open %s pipe: %w"
	startErrorTemplateConstant             = "unable to start %s: %w"
	standardOutputStreamNameConstant       = "standard output"
	standardErrorStreamNameConstant        = "standard error"
)

// OSProcessStarter spawns shell processes using the operating system facilities.
type OSProcessStarter struct{}

// NewOSProcessStarter constructs a starter backed by os/exec.
func NewOSProcessStarter() *OSProcessStarter {
	return &OSProcessStarter{}
}

// Start launches the shell with piped standard streams.
//
// Standard output and standard error are os.Pipe pairs owned by the returned
// Process rather than exec-managed pipes, so Wait never closes them while a
// caller is still reading.
func (starter *OSProcessStarter) Start(executionContext context.Context, invocation ShellInvocation) (Process, error) {
	if executionContext != nil {
		if contextError := executionContext.Err(); contextError != nil {
			return nil, contextError
		}
	}

	commandArguments := append([]string{}, invocation.Arguments...)
	executable := exec.Command(invocation.Binary, commandArguments...)

	if invocation.ProcessGroup {
		configureProcessGroup(executable)
	}

	if len(invocation.WorkingDirectory) > 0 {
		executable.Dir = invocation.WorkingDirectory
	}

	if len(invocation.EnvironmentVariables) > 0 {
		mergedEnvironment := append([]string{}, os.Environ()...)
		for environmentKey, environmentValue := range invocation.EnvironmentVariables {
			mergedEnvironment = append(mergedEnvironment, fmt.Sprintf(environmentAssignmentTemplateConstant, environmentKey, environmentAssignmentSeparatorConstant, environmentValue))
		}
		executable.Env = mergedEnvironment
	}

	standardInput, standardInputError := executable.StdinPipe()
	if standardInputError != nil {
		return nil, fmt.Errorf(standardInputPipeErrorTemplateConstant, standardInputError)
	}

	outputReader, outputWriter, outputPipeError := os.Pipe()
	if outputPipeError != nil {
		_ = standardInput.Close()
		return nil, fmt.Errorf(outputPipeErrorTemplateConstant, standardOutputStreamNameConstant, outputPipeError)
	}

	errorReader, errorWriter, errorPipeError := os.Pipe()
	if errorPipeError != nil {
		closeQuietly(standardInput, outputReader, outputWriter)
		return nil, fmt.Errorf(outputPipeErrorTemplateConstant, standardErrorStreamNameConstant, errorPipeError)
	}

	executable.Stdout = outputWriter
	executable.Stderr = errorWriter

	if startError := executable.Start(); startError != nil {
		closeQuietly(standardInput, outputReader, outputWriter, errorReader, errorWriter)
		return nil, fmt.Errorf(startErrorTemplateConstant, invocation.Binary, startError)
	}

	// The child holds its own copies of the write ends; EOF arrives once it exits.
	closeQuietly(outputWriter, errorWriter)

	return &osProcess{
		command:        executable,
		processGroup:   invocation.ProcessGroup,
		standardInput:  standardInput,
		standardOutput: outputReader,
		standardError:  errorReader,
	}, nil
}

type osProcess struct {
	command        *exec.Cmd
	processGroup   bool
	reaped         atomic.Bool
	standardInput  io.WriteCloser
	standardOutput *os.File
	standardError  *os.File
	waitOnce       sync.Once
	exitCode       int
	waitError      error
}

func (process *osProcess) Stdin() io.WriteCloser {
	return process.standardInput
}

func (process *osProcess) Stdout() io.ReadCloser {
	return process.standardOutput
}

func (process *osProcess) Stderr() io.ReadCloser {
	return process.standardError
}

func (process *osProcess) Wait() (int, error) {
	process.waitOnce.Do(func() {
		process.exitCode, process.waitError = resolveExitCode(process.command.Wait())
		process.reaped.Store(true)
	})
	return process.exitCode, process.waitError
}

// Kill terminates the shell. Until the shell is reaped, a shell started in its own
// process group is killed together with every command it spawned.
func (process *osProcess) Kill() error {
	if process.command.Process == nil {
		return nil
	}
	var killError error
	if process.processGroup && !process.reaped.Load() {
		killError = killProcessGroup(process.command.Process)
	} else {
		killError = process.command.Process.Kill()
	}
	if killError == nil || errors.Is(killError, os.ErrProcessDone) {
		return nil
	}
	return killError
}

func resolveExitCode(waitError error) (int, error) {
	if waitError == nil {
		return 0, nil
	}
	exitError := &exec.ExitError{}
	if errors.As(waitError, &exitError) {
		if signalExitCode, signaled := signaledExitCode(exitError); signaled {
			return signalExitCode, nil
		}
		return exitError.ExitCode(), nil
	}
	return SentinelExitCode, waitError
}

func closeQuietly(closers ...io.Closer) {
	for _, closer := range closers {
		if closer == nil {
			continue
		}
		_ = closer.Close()
	}
}
