package execshell

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultShellBinaryConstant         = "sh"
	defaultElevatedShellBinaryConstant = "su"
	noCommandsMessageConstant          = "no commands supplied; shell not spawned"
	sessionStartedMessageConstant      = "shell session started"
	sessionCompletedMessageConstant    = "shell session completed"
	sessionFailedMessageConstant       = "shell session failed"
	processKillFailureMessageConstant  = "unable to terminate shell process"
	logFieldShellConstant              = "shell"
	logFieldCommandCountConstant       = "command_count"
	logFieldElevatedConstant           = "elevated"
	logFieldCaptureOutputConstant      = "capture_output"
	logFieldTimeoutConstant            = "timeout"
	logFieldExitCodeConstant           = "exit_code"
	logFieldOutcomeConstant            = "outcome"
	logFieldStageConstant              = "stage"
)

// ExecutorOption customizes a ShellExecutor.
type ExecutorOption func(executor *ShellExecutor)

// WithShellBinaries overrides the shell used for regular and elevated sessions. Blank values keep the defaults.
func WithShellBinaries(shellBinary string, elevatedShellBinary string) ExecutorOption {
	return func(executor *ShellExecutor) {
		if trimmed := strings.TrimSpace(shellBinary); len(trimmed) > 0 {
			executor.shellBinary = trimmed
		}
		if trimmed := strings.TrimSpace(elevatedShellBinary); len(trimmed) > 0 {
			executor.elevatedShellBinary = trimmed
		}
	}
}

// WithCommandEventObserver registers an observer for session lifecycle events.
func WithCommandEventObserver(observer CommandEventObserver) ExecutorOption {
	return func(executor *ShellExecutor) {
		if observer != nil {
			executor.observer = observer
		}
	}
}

// WithDefaultTimeout bounds sessions whose request carries no timeout of its own.
func WithDefaultTimeout(timeout time.Duration) ExecutorOption {
	return func(executor *ShellExecutor) {
		if timeout > 0 {
			executor.defaultTimeout = timeout
		}
	}
}

// ShellExecutor runs command batches through a freshly spawned shell per call.
type ShellExecutor struct {
	logger              *zap.Logger
	starter             ProcessStarter
	observer            CommandEventObserver
	shellBinary         string
	elevatedShellBinary string
	defaultTimeout      time.Duration
}

// NewShellExecutor constructs a ShellExecutor around the provided logger and process starter.
func NewShellExecutor(logger *zap.Logger, starter ProcessStarter, options ...ExecutorOption) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if starter == nil {
		return nil, ErrProcessStarterNotConfigured
	}

	executor := &ShellExecutor{
		logger:              logger,
		starter:             starter,
		observer:            noopCommandEventObserver{},
		shellBinary:         defaultShellBinaryConstant,
		elevatedShellBinary: defaultElevatedShellBinaryConstant,
	}
	for _, option := range options {
		if option != nil {
			option(executor)
		}
	}

	return executor, nil
}

// ExecuteCommand runs a single command line with output capture enabled.
func (executor *ShellExecutor) ExecuteCommand(executionContext context.Context, command string, elevated bool) ExecutionResult {
	return executor.ExecuteCommands(executionContext, []string{command}, elevated)
}

// ExecuteCommands runs the command lines in order with output capture enabled.
func (executor *ShellExecutor) ExecuteCommands(executionContext context.Context, commands []string, elevated bool) ExecutionResult {
	return executor.Execute(executionContext, ExecutionRequest{Commands: commands, Elevated: elevated, CaptureOutput: true})
}

// Execute runs one shell session and reports its result. Failures never surface as errors;
// they are folded into the result's exit code, outcome, and failure fields.
func (executor *ShellExecutor) Execute(executionContext context.Context, request ExecutionRequest) ExecutionResult {
	if len(request.Commands) == 0 {
		executor.logger.Debug(noCommandsMessageConstant)
		return ExecutionResult{ExitCode: SentinelExitCode, Outcome: OutcomeNoCommands}
	}

	if executionContext == nil {
		executionContext = context.Background()
	}

	session := ShellSession{Shell: executor.resolveShellBinary(request.Elevated), Request: request}
	sessionTimeout := executor.resolveTimeout(request.Timeout)

	executor.observer.SessionStarted(session)
	executor.logger.Debug(
		sessionStartedMessageConstant,
		zap.String(logFieldShellConstant, session.Shell),
		zap.Int(logFieldCommandCountConstant, len(request.Commands)),
		zap.Bool(logFieldElevatedConstant, request.Elevated),
		zap.Bool(logFieldCaptureOutputConstant, request.CaptureOutput),
		zap.Duration(logFieldTimeoutConstant, sessionTimeout),
	)

	sessionContext, cancelSession := deriveSessionContext(executionContext, sessionTimeout)
	defer cancelSession()

	result := executor.runSession(sessionContext, session)
	executor.reportResult(session, result)

	return result
}

func (executor *ShellExecutor) runSession(sessionContext context.Context, session ShellSession) ExecutionResult {
	invocation := ShellInvocation{
		Binary:               session.Shell,
		WorkingDirectory:     session.Request.WorkingDirectory,
		EnvironmentVariables: session.Request.EnvironmentVariables,
		// Elevated shells stay in the caller's process group so su can prompt on the
		// terminal; their children run as another user and cannot be signaled anyway.
		ProcessGroup:         !session.Request.Elevated,
	}

	if sessionContext.Err() != nil {
		return failedResult(*classifyFailure(sessionContext, true, nil, nil, nil))
	}

	process, startError := executor.starter.Start(sessionContext, invocation)
	if startError != nil {
		return failedResult(newSessionError(StageSpawn, startError))
	}
	defer executor.releaseProcess(process)

	standardOutput := newStreamDrain(process.Stdout(), session.Request.CaptureOutput)
	standardError := newStreamDrain(process.Stderr(), session.Request.CaptureOutput)

	stopDeadlineWatch := context.AfterFunc(sessionContext, func() {
		executor.abortProcess(process)
	})

	var sessionGroup errgroup.Group
	var outputDrainError, errorDrainError error
	sessionGroup.Go(func() error {
		outputDrainError = standardOutput.Drain()
		return outputDrainError
	})
	sessionGroup.Go(func() error {
		errorDrainError = standardError.Drain()
		return errorDrainError
	})

	writeError := feedCommands(process.Stdin(), session.Request.Commands)
	// Closing standard input guarantees EOF even when the exit line never made it through.
	if closeError := CloseAll(executor.logger, process.Stdin()); closeError != nil && writeError == nil {
		writeError = closeError
	}

	exitCode := SentinelExitCode
	var waitError error
	sessionGroup.Go(func() error {
		exitCode, waitError = process.Wait()
		return waitError
	})
	_ = sessionGroup.Wait()

	deadlineReached := !stopDeadlineWatch()

	failure := classifyFailure(sessionContext, deadlineReached, writeError, waitError, multierr.Combine(outputDrainError, errorDrainError))
	result := ExecutionResult{
		ExitCode:       exitCode,
		StandardOutput: standardOutput.Text(),
		StandardError:  standardError.Text(),
		Outcome:        OutcomeCompleted,
	}
	if failure == nil {
		return result
	}

	result.Outcome = failure.Outcome()
	result.Failure = *failure
	if failure.Stage != StageDrain {
		result.ExitCode = SentinelExitCode
	}
	return result
}

// classifyFailure picks the failure that best explains the session, preferring deadline
// expiry over wait, write, and drain failures in that order.
func classifyFailure(sessionContext context.Context, deadlineReached bool, writeError error, waitError error, drainError error) *SessionError {
	var failure SessionError
	switch {
	case deadlineReached && errors.Is(sessionContext.Err(), context.DeadlineExceeded):
		failure = newSessionError(StageTimeout, sessionContext.Err())
	case deadlineReached:
		failure = newSessionError(StageCancel, sessionContext.Err())
	case waitError != nil:
		failure = newSessionError(StageWait, waitError)
	case writeError != nil:
		failure = newSessionError(StageWrite, writeError)
	case drainError != nil:
		failure = newSessionError(StageDrain, drainError)
	default:
		return nil
	}
	return &failure
}

func failedResult(failure SessionError) ExecutionResult {
	return ExecutionResult{
		ExitCode: SentinelExitCode,
		Outcome:  failure.Outcome(),
		Failure:  failure,
	}
}

// abortProcess kills the shell and closes its streams so blocked drains and writes return.
func (executor *ShellExecutor) abortProcess(process Process) {
	if killError := process.Kill(); killError != nil {
		executor.logger.Debug(processKillFailureMessageConstant, zap.Error(killError))
	}
	_ = CloseAll(executor.logger, process.Stdin(), process.Stdout(), process.Stderr())
}

func (executor *ShellExecutor) releaseProcess(process Process) {
	_ = CloseAll(executor.logger, process.Stdin(), process.Stdout(), process.Stderr())
	if killError := process.Kill(); killError != nil {
		executor.logger.Debug(processKillFailureMessageConstant, zap.Error(killError))
	}
}

func (executor *ShellExecutor) reportResult(session ShellSession, result ExecutionResult) {
	if result.Outcome == OutcomeCompleted {
		executor.logger.Debug(
			sessionCompletedMessageConstant,
			zap.String(logFieldShellConstant, session.Shell),
			zap.Int(logFieldExitCodeConstant, result.ExitCode),
			zap.String(logFieldOutcomeConstant, string(result.Outcome)),
		)
		executor.observer.SessionCompleted(session, result)
		return
	}

	fields := []zap.Field{
		zap.String(logFieldShellConstant, session.Shell),
		zap.Int(logFieldExitCodeConstant, result.ExitCode),
		zap.String(logFieldOutcomeConstant, string(result.Outcome)),
	}
	var sessionError SessionError
	if errors.As(result.Failure, &sessionError) {
		fields = append(fields, zap.String(logFieldStageConstant, string(sessionError.Stage)))
	}
	fields = append(fields, zap.Error(result.Failure))

	executor.logger.Warn(sessionFailedMessageConstant, fields...)
	executor.observer.SessionFailed(session, result)
}

func (executor *ShellExecutor) resolveShellBinary(elevated bool) string {
	if elevated {
		return executor.elevatedShellBinary
	}
	return executor.shellBinary
}

func (executor *ShellExecutor) resolveTimeout(requestTimeout time.Duration) time.Duration {
	if requestTimeout > 0 {
		return requestTimeout
	}
	return executor.defaultTimeout
}

func deriveSessionContext(parentContext context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(parentContext, timeout)
	}
	return context.WithCancel(parentContext)
}
