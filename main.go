package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/temirov/shellbatch/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the shellbatch command-line application and mirrors the shell's exit status.
func main() {
	executionError := cli.Execute()
	if executionError == nil {
		return
	}

	var exitStatusError cli.ExitStatusError
	if errors.As(executionError, &exitStatusError) {
		if exitStatusError.Reportable() {
			fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		}
		os.Exit(exitStatusError.ProcessExitCode())
	}

	fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
	os.Exit(1)
}
