package execshell

import (
	"errors"
	"fmt"
)

const (
	loggerNotConfiguredMessageConstant         = "shell executor logger not configured"
	processStarterNotConfiguredMessageConstant = "shell executor process starter not configured"
	sessionErrorTemplateConstant               = "%s failed: %v"
	sessionErrorWithoutCauseTemplateConstant   = "%s failed"
)

var (
	// ErrLoggerNotConfigured indicates that NewShellExecutor received a nil logger.
	ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)
	// ErrProcessStarterNotConfigured indicates that NewShellExecutor received a nil process starter.
	ErrProcessStarterNotConfigured = errors.New(processStarterNotConfiguredMessageConstant)
)

// SessionStage identifies the lifecycle step at which a session failed.
type SessionStage string

// Supported session stages.
const (
	StageSpawn   SessionStage = "spawn"
	StageWrite   SessionStage = "write"
	StageWait    SessionStage = "wait"
	StageDrain   SessionStage = "drain"
	StageTimeout SessionStage = "timeout"
	StageCancel  SessionStage = "cancel"
)

var stageOutcomes = map[SessionStage]Outcome{
	StageSpawn:   OutcomeSpawnFailed,
	StageWrite:   OutcomeWriteFailed,
	StageWait:    OutcomeWaitFailed,
	StageDrain:   OutcomeDrainFailed,
	StageTimeout: OutcomeTimedOut,
	StageCancel:  OutcomeCanceled,
}

// SessionError describes a failure recovered inside a shell session.
type SessionError struct {
	Stage SessionStage
	Cause error
}

func newSessionError(stage SessionStage, cause error) SessionError {
	return SessionError{Stage: stage, Cause: cause}
}

// Error describes the failed stage and its cause.
func (sessionError SessionError) Error() string {
	if sessionError.Cause == nil {
		return fmt.Sprintf(sessionErrorWithoutCauseTemplateConstant, sessionError.Stage)
	}
	return fmt.Sprintf(sessionErrorTemplateConstant, sessionError.Stage, sessionError.Cause)
}

// Unwrap exposes the underlying cause.
func (sessionError SessionError) Unwrap() error {
	return sessionError.Cause
}

// Outcome maps the failed stage onto the result outcome.
func (sessionError SessionError) Outcome() Outcome {
	outcome, known := stageOutcomes[sessionError.Stage]
	if !known {
		return OutcomeWaitFailed
	}
	return outcome
}
