//go:build unix

package execshell

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
)

const signaledExitCodeBaseConstant = 128

func configureProcessGroup(executable *exec.Cmd) {
	if executable.SysProcAttr == nil {
		executable.SysProcAttr = &syscall.SysProcAttr{}
	}
	executable.SysProcAttr.Setpgid = true
}

// killProcessGroup sends SIGKILL to the group led by process.
func killProcessGroup(process *os.Process) error {
	killError := syscall.Kill(-process.Pid, syscall.SIGKILL)
	if errors.Is(killError, syscall.ESRCH) {
		return os.ErrProcessDone
	}
	return killError
}

// signaledExitCode reports 128 plus the signal number for a shell terminated by a signal.
func signaledExitCode(exitError *exec.ExitError) (int, bool) {
	status, isWaitStatus := exitError.Sys().(syscall.WaitStatus)
	if !isWaitStatus || !status.Signaled() {
		return 0, false
	}
	return signaledExitCodeBaseConstant + int(status.Signal()), true
}
