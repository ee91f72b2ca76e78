package ui_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/shellbatch/internal/execshell"
	"github.com/temirov/shellbatch/internal/ui"
)

const (
	testStandardErrorMessageConstant       = "ls: cannot access '/missing': No such file or directory"
	testStartMessageExpectationConstant    = "Running 2 commands in sh (in /tmp/project)"
	testSuccessMessageExpectationConstant  = "Completed 2 commands in sh (in /tmp/project)"
	testFailureMessageExpectationConstant  = "sh exited with code 2: " + testStandardErrorMessageConstant
	testExecutionFailureMessageExpectation = "sh failed: timeout failed: context deadline exceeded"
)

func TestConsoleCommandEventLoggerEmitsMessages(testInstance *testing.T) {
	session := execshell.ShellSession{
		Shell: "sh",
		Request: execshell.ExecutionRequest{
			Commands:         []string{"cd build", "ls /missing"},
			WorkingDirectory: "/tmp/project",
		},
	}
	timeoutFailure := execshell.SessionError{Stage: execshell.StageTimeout, Cause: errors.New("context deadline exceeded")}

	testCases := []struct {
		name            string
		invoke          func(logger *ui.ConsoleCommandEventLogger)
		expectedLevel   zapcore.Level
		expectedMessage string
	}{
		{
			name: "session_started",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.SessionStarted(session)
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: testStartMessageExpectationConstant,
		},
		{
			name: "session_completed_success",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.SessionCompleted(session, execshell.ExecutionResult{ExitCode: 0, Outcome: execshell.OutcomeCompleted})
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: testSuccessMessageExpectationConstant,
		},
		{
			name: "session_completed_non_zero",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.SessionCompleted(session, execshell.ExecutionResult{ExitCode: 2, StandardError: testStandardErrorMessageConstant, Outcome: execshell.OutcomeCompleted})
			},
			expectedLevel:   zapcore.WarnLevel,
			expectedMessage: testFailureMessageExpectationConstant,
		},
		{
			name: "session_failed",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.SessionFailed(session, execshell.ExecutionResult{ExitCode: execshell.SentinelExitCode, Outcome: execshell.OutcomeTimedOut, Failure: timeoutFailure})
			},
			expectedLevel:   zapcore.ErrorLevel,
			expectedMessage: testExecutionFailureMessageExpectation,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observedLogs := observer.New(zapcore.DebugLevel)
			eventLogger := ui.NewConsoleCommandEventLogger(zap.New(observerCore))

			testCase.invoke(eventLogger)

			entries := observedLogs.All()
			require.Len(testInstance, entries, 1)
			require.Equal(testInstance, testCase.expectedLevel, entries[0].Level)
			require.Equal(testInstance, testCase.expectedMessage, entries[0].Message)
		})
	}
}

func TestConsoleCommandEventLoggerObservesExecutor(testInstance *testing.T) {
	observerCore, observedLogs := observer.New(zapcore.DebugLevel)
	eventLogger := ui.NewConsoleCommandEventLogger(zap.New(observerCore))

	executor, creationError := execshell.NewShellExecutor(
		zap.NewNop(),
		execshell.NewOSProcessStarter(),
		execshell.WithShellBinaries("/nonexistent/shellbatch-sh", ""),
		execshell.WithCommandEventObserver(eventLogger),
	)
	require.NoError(testInstance, creationError)

	result := executor.ExecuteCommand(context.Background(), "echo hello", false)
	require.Equal(testInstance, execshell.OutcomeSpawnFailed, result.Outcome)

	entries := observedLogs.All()
	require.Len(testInstance, entries, 2)
	require.Equal(testInstance, "Running 1 command in /nonexistent/shellbatch-sh", entries[0].Message)
	require.Equal(testInstance, zapcore.ErrorLevel, entries[1].Level)
	require.Contains(testInstance, entries[1].Message, "/nonexistent/shellbatch-sh failed: spawn failed")
}
