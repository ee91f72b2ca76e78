package execshell

// CommandEventObserver receives lifecycle notifications for shell sessions.
type CommandEventObserver interface {
	// SessionStarted notifies observers that a shell is about to be spawned.
	SessionStarted(session ShellSession)
	// SessionCompleted notifies observers that the shell exited and supplies the result.
	SessionCompleted(session ShellSession, result ExecutionResult)
	// SessionFailed reports failures that prevented a clean exit status.
	SessionFailed(session ShellSession, result ExecutionResult)
}

// noopCommandEventObserver discards all session events.
type noopCommandEventObserver struct{}

// SessionStarted implements CommandEventObserver for the no-op observer.
func (noopCommandEventObserver) SessionStarted(ShellSession) {}

// SessionCompleted implements CommandEventObserver for the no-op observer.
func (noopCommandEventObserver) SessionCompleted(ShellSession, ExecutionResult) {}

// SessionFailed implements CommandEventObserver for the no-op observer.
func (noopCommandEventObserver) SessionFailed(ShellSession, ExecutionResult) {}
