package cli

import (
	"fmt"

	"github.com/temirov/shellbatch/internal/execshell"
)

const (
	exitStatusMessageTemplateConstant        = "shell exited with code %d"
	exitStatusFailureMessageTemplateConstant = "shell session %s: %v"
	exitStatusOutcomeMessageTemplateConstant = "shell session %s"
	genericFailureExitCodeConstant           = 1
)

// ExitStatusError carries the exit status a command wants the process to terminate with.
type ExitStatusError struct {
	ExitCode int
	Outcome  execshell.Outcome
	Cause    error
}

func newExitStatusError(result execshell.ExecutionResult) ExitStatusError {
	return ExitStatusError{ExitCode: result.ExitCode, Outcome: result.Outcome, Cause: result.Failure}
}

// Error describes the exit status or the session failure behind it.
func (exitStatusError ExitStatusError) Error() string {
	switch {
	case exitStatusError.Cause != nil:
		return fmt.Sprintf(exitStatusFailureMessageTemplateConstant, exitStatusError.Outcome, exitStatusError.Cause)
	case exitStatusError.Reportable():
		return fmt.Sprintf(exitStatusOutcomeMessageTemplateConstant, exitStatusError.Outcome)
	}
	return fmt.Sprintf(exitStatusMessageTemplateConstant, exitStatusError.ExitCode)
}

// Unwrap exposes the session failure, when there is one.
func (exitStatusError ExitStatusError) Unwrap() error {
	return exitStatusError.Cause
}

// Reportable reports whether the error describes a session failure worth printing, as opposed
// to a shell that simply exited non-zero.
func (exitStatusError ExitStatusError) Reportable() bool {
	if exitStatusError.Cause != nil {
		return true
	}
	return len(exitStatusError.Outcome) > 0 && exitStatusError.Outcome != execshell.OutcomeCompleted
}

// ProcessExitCode maps the status onto a valid process exit code. The sentinel becomes 1.
func (exitStatusError ExitStatusError) ProcessExitCode() int {
	if exitStatusError.ExitCode <= 0 || exitStatusError.ExitCode > 255 {
		return genericFailureExitCodeConstant
	}
	return exitStatusError.ExitCode
}
