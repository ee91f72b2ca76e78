//go:build !unix

package execshell

import (
	"os"
	"os/exec"
)

func configureProcessGroup(*exec.Cmd) {}

func killProcessGroup(process *os.Process) error {
	return process.Kill()
}

func signaledExitCode(*exec.ExitError) (int, bool) {
	return 0, false
}
