package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	sessionStartTemplateConstant            = "Running %s in %s%s"
	sessionSuccessTemplateConstant          = "Completed %s in %s%s"
	sessionFailureTemplateConstant          = "%s exited with code %d%s"
	sessionExecutionFailureTemplateConstant = "%s failed: %s"
	singleCommandLabelConstant              = "1 command"
	multipleCommandsLabelTemplateConstant   = "%d commands"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	standardErrorSuffixTemplateConstant     = ": %s"
	elevatedShellLabelTemplateConstant      = "%s (elevated)"
	unknownFailureMessageConstant           = "unknown error"
	unknownShellLabelConstant               = "shell"
	emptyStringConstant                     = ""
)

// SessionMessageFormatter builds human-readable messages for session lifecycle events.
type SessionMessageFormatter struct{}

// BuildStartedMessage formats the message describing a session about to run.
func (formatter SessionMessageFormatter) BuildStartedMessage(session ShellSession) string {
	return formatter.buildMessage(session, ExecutionResult{}, messageStageStart)
}

// BuildSuccessMessage formats the message describing a session that exited with status zero.
func (formatter SessionMessageFormatter) BuildSuccessMessage(session ShellSession) string {
	return formatter.buildMessage(session, ExecutionResult{}, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a session that exited with a non-zero status.
func (formatter SessionMessageFormatter) BuildFailureMessage(session ShellSession, result ExecutionResult) string {
	return formatter.buildMessage(session, result, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing a session that never produced a clean exit status.
func (formatter SessionMessageFormatter) BuildExecutionFailureMessage(session ShellSession, result ExecutionResult) string {
	return formatter.buildMessage(session, result, messageStageExecutionFailure)
}

func (formatter SessionMessageFormatter) buildMessage(session ShellSession, result ExecutionResult, stage messageStage) string {
	shellLabel := formatter.describeShell(session)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(sessionStartTemplateConstant, formatter.describeCommandCount(session.Request), shellLabel, formatter.describeWorkingDirectory(session.Request))
	case messageStageSuccess:
		return fmt.Sprintf(sessionSuccessTemplateConstant, formatter.describeCommandCount(session.Request), shellLabel, formatter.describeWorkingDirectory(session.Request))
	case messageStageFailure:
		return fmt.Sprintf(sessionFailureTemplateConstant, shellLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(sessionExecutionFailureTemplateConstant, shellLabel, formatter.describeFailure(result.Failure))
	}
}

func (formatter SessionMessageFormatter) describeShell(session ShellSession) string {
	shellLabel := strings.TrimSpace(session.Shell)
	if len(shellLabel) == 0 {
		shellLabel = unknownShellLabelConstant
	}
	if session.Request.Elevated {
		return fmt.Sprintf(elevatedShellLabelTemplateConstant, shellLabel)
	}
	return shellLabel
}

func (formatter SessionMessageFormatter) describeCommandCount(request ExecutionRequest) string {
	commandCount := len(request.Commands)
	if commandCount == 1 {
		return singleCommandLabelConstant
	}
	return fmt.Sprintf(multipleCommandsLabelTemplateConstant, commandCount)
}

func (formatter SessionMessageFormatter) describeWorkingDirectory(request ExecutionRequest) string {
	trimmedWorkingDirectory := strings.TrimSpace(request.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter SessionMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter SessionMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}
