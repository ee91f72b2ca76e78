package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/shellbatch/internal/execshell"
)

const (
	rootCheckCommandUseConstant              = "root-check"
	rootCheckCommandShortDescriptionConstant = "Report whether an elevated shell is available"
	rootCheckCommandLongDescriptionConstant  = "root-check runs a trivial command through the configured elevated shell and reports whether it succeeded. The process exits with status 1 when elevation is unavailable."
	rootAccessAvailableMessageConstant       = "root access available"
	rootAccessUnavailableMessageConstant     = "root access unavailable"
	rootCheckOutputTemplateConstant          = "%s\n"
	rootCheckUnavailableExitCodeConstant     = 1
	rootCheckCompletedMessageConstant        = "elevation probe finished"
	logFieldElevatedBinaryConstant           = "elevated_binary"
	logFieldAvailableConstant                = "available"
)

// RootCheckCommandBuilder assembles the root-check command.
type RootCheckCommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() ShellConfiguration
	ExecutorProvider      ExecutorProvider
}

// Build constructs the root-check command.
func (builder *RootCheckCommandBuilder) Build() (*cobra.Command, error) {
	return &cobra.Command{
		Use:           rootCheckCommandUseConstant,
		Short:         rootCheckCommandShortDescriptionConstant,
		Long:          rootCheckCommandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          builder.run,
	}, nil
}

func (builder *RootCheckCommandBuilder) run(command *cobra.Command, _ []string) error {
	logger := zap.NewNop()
	if builder.LoggerProvider != nil {
		logger = builder.LoggerProvider()
	}

	var configuration ShellConfiguration
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	executorProvider := builder.ExecutorProvider
	if executorProvider == nil {
		executorProvider = NewOSExecutor
	}
	executor, executorError := executorProvider(logger, configuration, nil)
	if executorError != nil {
		return fmt.Errorf(executorCreationErrorTemplateConstant, executorError)
	}

	available := executor.ElevationAvailable(command.Context())
	logger.Debug(
		rootCheckCompletedMessageConstant,
		zap.String(logFieldElevatedBinaryConstant, configuration.ElevatedBinary),
		zap.Bool(logFieldAvailableConstant, available),
	)

	message := rootAccessUnavailableMessageConstant
	if available {
		message = rootAccessAvailableMessageConstant
	}
	if _, writeError := fmt.Fprintf(command.OutOrStdout(), rootCheckOutputTemplateConstant, message); writeError != nil {
		return fmt.Errorf(resultRenderErrorTemplateConstant, writeError)
	}

	if available {
		return nil
	}
	return ExitStatusError{ExitCode: rootCheckUnavailableExitCodeConstant, Outcome: execshell.OutcomeCompleted}
}
