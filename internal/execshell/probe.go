package execshell

import "context"

const elevationProbeCommandConstant = "echo root"

// ElevationAvailable reports whether an elevated shell can be spawned and runs a trivial command successfully.
func (executor *ShellExecutor) ElevationAvailable(executionContext context.Context) bool {
	probeResult := executor.Execute(executionContext, ExecutionRequest{
		Commands:      []string{elevationProbeCommandConstant},
		Elevated:      true,
		CaptureOutput: false,
	})
	return probeResult.Succeeded()
}
