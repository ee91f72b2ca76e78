package execshell

import (
	"bufio"
	"io"
)

const exitCommandConstant = "exit"

// feedCommands writes each command verbatim followed by the line separator, flushing per line,
// and terminates the batch with exit so the shell does not wait for more input.
// Empty entries are written as empty lines; heredoc bodies depend on them.
func feedCommands(standardInput io.Writer, commands []string) error {
	commandWriter := bufio.NewWriter(standardInput)
	for _, command := range commands {
		if writeError := writeCommandLine(commandWriter, command); writeError != nil {
			return writeError
		}
	}
	return writeCommandLine(commandWriter, exitCommandConstant)
}

func writeCommandLine(commandWriter *bufio.Writer, command string) error {
	if _, writeError := commandWriter.WriteString(command); writeError != nil {
		return writeError
	}
	if _, writeError := commandWriter.WriteString(lineSeparatorConstant); writeError != nil {
		return writeError
	}
	return commandWriter.Flush()
}
