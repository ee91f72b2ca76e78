package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/shellbatch/internal/batch"
	"github.com/temirov/shellbatch/internal/execshell"
	"github.com/temirov/shellbatch/internal/ui"
	flagutils "github.com/temirov/shellbatch/internal/utils/flags"
	pathutils "github.com/temirov/shellbatch/internal/utils/path"
)

const (
	runCommandUseConstant                  = "run [flags] [--] <command>..."
	runCommandShortDescriptionConstant     = "Run commands in a fresh shell"
	runCommandLongDescriptionConstant      = "run spawns one shell, writes each argument as a command line followed by exit, and prints the captured output. The process exits with the shell's exit status."
	rootFlagNameConstant                   = "root"
	rootFlagShorthandConstant              = "r"
	rootFlagUsageConstant                  = "Run the commands in an elevated shell."
	noCaptureFlagNameConstant              = "no-capture"
	noCaptureFlagUsageConstant             = "Discard standard output and standard error instead of printing them."
	timeoutFlagNameConstant                = "timeout"
	timeoutFlagUsageConstant               = "Kill the shell after this duration (0 waits indefinitely)."
	fileFlagNameConstant                   = "file"
	fileFlagShorthandConstant              = "f"
	fileFlagUsageConstant                  = "Read the batch from a YAML file (- for standard input)."
	formatFlagNameConstant                 = "format"
	formatFlagUsageConstant                = "Result output format."
	workdirFlagNameConstant                = "workdir"
	workdirFlagUsageConstant               = "Working directory for the shell."
	commandsRequiredMessageConstant        = "provide commands as arguments or through --file"
	commandsAndFileConflictMessageConstant = "commands as arguments and --file are mutually exclusive"
	negativeTimeoutMessageConstant         = "timeout must not be negative"
	batchLoadErrorTemplateConstant         = "unable to load batch: %w"
	outputFormatErrorTemplateConstant      = "invalid --format: %w"
	workingDirectoryErrorTemplateConstant  = "invalid --workdir: %w"
	executorCreationErrorTemplateConstant  = "unable to construct shell executor: %w"
	resultRenderErrorTemplateConstant      = "unable to print result: %w"
	loggerNotConfiguredMessageConstant     = "logger not configured"
	runCompletedMessageConstant            = "shell batch finished"
	logFieldExitCodeConstant               = "exit_code"
	logFieldOutcomeConstant                = "outcome"
	logFieldElapsedConstant                = "elapsed"
)

var (
	errCommandsRequired        = errors.New(commandsRequiredMessageConstant)
	errCommandsAndFileConflict = errors.New(commandsAndFileConflictMessageConstant)
	errNegativeTimeout         = errors.New(negativeTimeoutMessageConstant)
)

// BatchLoader reads an execution request from a batch file.
type BatchLoader interface {
	Load(batchPath string) (execshell.ExecutionRequest, error)
}

type runOptions struct {
	elevated         bool
	noCapture        bool
	timeout          time.Duration
	batchPath        string
	outputFormat     string
	workingDirectory string
}

// RunCommandBuilder assembles the run command.
type RunCommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConsoleObserver       func() execshell.CommandEventObserver
	ConfigurationProvider func() ShellConfiguration
	ExecutorProvider      ExecutorProvider
	BatchLoader           BatchLoader
	PathResolver          *pathutils.HomeExpander
}

// Build constructs the run command.
func (builder *RunCommandBuilder) Build() (*cobra.Command, error) {
	options := &runOptions{}
	command := &cobra.Command{
		Use:           runCommandUseConstant,
		Short:         runCommandShortDescriptionConstant,
		Long:          runCommandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.run(command, arguments, *options)
		},
	}

	flagSet := command.Flags()
	flagutils.AddToggleFlag(flagSet, &options.elevated, rootFlagNameConstant, rootFlagShorthandConstant, false, rootFlagUsageConstant)
	flagSet.BoolVar(&options.noCapture, noCaptureFlagNameConstant, false, noCaptureFlagUsageConstant)
	flagSet.DurationVar(&options.timeout, timeoutFlagNameConstant, 0, timeoutFlagUsageConstant)
	flagSet.StringVarP(&options.batchPath, fileFlagNameConstant, fileFlagShorthandConstant, "", fileFlagUsageConstant)
	flagSet.StringVar(&options.outputFormat, formatFlagNameConstant, "", flagutils.FormatChoiceUsage(string(ui.OutputFormatText), ui.SupportedOutputFormats(), formatFlagUsageConstant))
	flagSet.StringVar(&options.workingDirectory, workdirFlagNameConstant, "", workdirFlagUsageConstant)

	return command, nil
}

func (builder *RunCommandBuilder) run(command *cobra.Command, arguments []string, options runOptions) error {
	logger := builder.resolveLogger()
	if logger == nil {
		return errors.New(loggerNotConfiguredMessageConstant)
	}
	configuration := builder.resolveConfiguration()

	request, requestError := builder.buildRequest(command, arguments, options, configuration)
	if requestError != nil {
		return requestError
	}

	outputFormat := configuration.OutputFormat
	if command.Flags().Changed(formatFlagNameConstant) {
		outputFormat = options.outputFormat
	}
	resolvedFormat, formatError := flagutils.ResolveChoice(outputFormat, ui.SupportedOutputFormats())
	if formatError != nil {
		return fmt.Errorf(outputFormatErrorTemplateConstant, formatError)
	}

	executor, executorError := builder.resolveExecutorProvider()(logger, configuration, builder.resolveObserver())
	if executorError != nil {
		return fmt.Errorf(executorCreationErrorTemplateConstant, executorError)
	}

	startTime := time.Now()
	result := executor.Execute(command.Context(), request)
	logger.Debug(
		runCompletedMessageConstant,
		zap.Int(logFieldExitCodeConstant, result.ExitCode),
		zap.String(logFieldOutcomeConstant, string(result.Outcome)),
		zap.Duration(logFieldElapsedConstant, time.Since(startTime)),
	)

	if renderError := ui.NewResultRenderer().Render(command.OutOrStdout(), result, ui.OutputFormat(resolvedFormat)); renderError != nil {
		return fmt.Errorf(resultRenderErrorTemplateConstant, renderError)
	}

	if result.Succeeded() {
		return nil
	}
	return newExitStatusError(result)
}

// buildRequest merges the batch file, configuration defaults, and flags. Flags win when set.
func (builder *RunCommandBuilder) buildRequest(command *cobra.Command, arguments []string, options runOptions, configuration ShellConfiguration) (execshell.ExecutionRequest, error) {
	flagSet := command.Flags()
	batchPath := strings.TrimSpace(options.batchPath)

	var request execshell.ExecutionRequest
	switch {
	case len(batchPath) > 0 && len(arguments) > 0:
		return execshell.ExecutionRequest{}, errCommandsAndFileConflict
	case len(batchPath) > 0:
		loadedRequest, loadError := builder.resolveBatchLoader().Load(builder.resolveBatchPath(batchPath))
		if loadError != nil {
			return execshell.ExecutionRequest{}, fmt.Errorf(batchLoadErrorTemplateConstant, loadError)
		}
		request = loadedRequest
		if !flagSet.Changed(rootFlagNameConstant) {
			options.elevated = request.Elevated
		}
	case len(arguments) > 0:
		request = execshell.ExecutionRequest{
			Commands:      append([]string(nil), arguments...),
			CaptureOutput: configuration.CaptureOutput,
		}
	default:
		return execshell.ExecutionRequest{}, errCommandsRequired
	}

	request.Elevated = options.elevated
	if flagSet.Changed(noCaptureFlagNameConstant) {
		request.CaptureOutput = !options.noCapture
	}
	if flagSet.Changed(timeoutFlagNameConstant) {
		if options.timeout < 0 {
			return execshell.ExecutionRequest{}, errNegativeTimeout
		}
		request.Timeout = options.timeout
	}

	workingDirectory := request.WorkingDirectory
	if flagSet.Changed(workdirFlagNameConstant) {
		workingDirectory = options.workingDirectory
	}
	resolvedDirectory, directoryError := builder.resolvePathResolver().Resolve(workingDirectory)
	if directoryError != nil {
		return execshell.ExecutionRequest{}, fmt.Errorf(workingDirectoryErrorTemplateConstant, directoryError)
	}
	request.WorkingDirectory = resolvedDirectory

	return request, nil
}

func (builder *RunCommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	return builder.LoggerProvider()
}

func (builder *RunCommandBuilder) resolveConfiguration() ShellConfiguration {
	if builder.ConfigurationProvider == nil {
		return ShellConfiguration{CaptureOutput: true, OutputFormat: string(ui.OutputFormatText)}
	}
	return builder.ConfigurationProvider()
}

func (builder *RunCommandBuilder) resolveObserver() execshell.CommandEventObserver {
	if builder.ConsoleObserver == nil {
		return nil
	}
	return builder.ConsoleObserver()
}

func (builder *RunCommandBuilder) resolveExecutorProvider() ExecutorProvider {
	if builder.ExecutorProvider == nil {
		return NewOSExecutor
	}
	return builder.ExecutorProvider
}

func (builder *RunCommandBuilder) resolveBatchLoader() BatchLoader {
	if builder.BatchLoader == nil {
		return batch.NewLoader()
	}
	return builder.BatchLoader
}

func (builder *RunCommandBuilder) resolvePathResolver() *pathutils.HomeExpander {
	if builder.PathResolver == nil {
		builder.PathResolver = pathutils.NewHomeExpander()
	}
	return builder.PathResolver
}

func (builder *RunCommandBuilder) resolveBatchPath(batchPath string) string {
	if batchPath == "-" {
		return batchPath
	}
	return builder.resolvePathResolver().Expand(batchPath)
}
