package execshell

import "time"

// SentinelExitCode marks results for which no real exit status was obtained.
const SentinelExitCode = -1

// Outcome tags how a shell session ended.
type Outcome string

// Supported outcomes.
const (
	OutcomeCompleted   Outcome = "completed"
	OutcomeNoCommands  Outcome = "no_commands"
	OutcomeSpawnFailed Outcome = "spawn_failed"
	OutcomeWriteFailed Outcome = "write_failed"
	OutcomeWaitFailed  Outcome = "wait_failed"
	OutcomeDrainFailed Outcome = "drain_failed"
	OutcomeTimedOut    Outcome = "timed_out"
	OutcomeCanceled    Outcome = "canceled"
)

// ExecutionRequest describes one shell session.
type ExecutionRequest struct {
	Commands             []string
	Elevated             bool
	CaptureOutput        bool
	Timeout              time.Duration
	WorkingDirectory     string
	EnvironmentVariables map[string]string
}

// ExecutionResult captures the observable results of a shell session.
type ExecutionResult struct {
	ExitCode       int
	StandardOutput string
	StandardError  string
	Outcome        Outcome
	Failure        error
}

// Succeeded reports whether the shell ran to completion with a zero exit code.
func (result ExecutionResult) Succeeded() bool {
	return result.Outcome == OutcomeCompleted && result.ExitCode == 0
}

// ShellSession pairs a request with the shell binary chosen to run it.
type ShellSession struct {
	Shell   string
	Request ExecutionRequest
}
