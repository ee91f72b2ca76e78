package ui

import (
	"go.uber.org/zap"

	"github.com/temirov/shellbatch/internal/execshell"
)

// ConsoleCommandEventLogger narrates shell sessions through a zap logger configured for human-readable output.
type ConsoleCommandEventLogger struct {
	logger    *zap.Logger
	formatter execshell.SessionMessageFormatter
}

// NewConsoleCommandEventLogger constructs a console event logger backed by the provided zap logger.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger}
}

// SessionStarted implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) SessionStarted(session execshell.ShellSession) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Info(eventLogger.formatter.BuildStartedMessage(session))
}

// SessionCompleted implements execshell.CommandEventObserver. Non-zero exits are logged as warnings.
func (eventLogger *ConsoleCommandEventLogger) SessionCompleted(session execshell.ShellSession, result execshell.ExecutionResult) {
	if eventLogger == nil {
		return
	}
	if result.ExitCode == 0 {
		eventLogger.logger.Info(eventLogger.formatter.BuildSuccessMessage(session))
		return
	}
	eventLogger.logger.Warn(eventLogger.formatter.BuildFailureMessage(session, result))
}

// SessionFailed implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) SessionFailed(session execshell.ShellSession, result execshell.ExecutionResult) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Error(eventLogger.formatter.BuildExecutionFailureMessage(session, result))
}
