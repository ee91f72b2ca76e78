package cli

import (
	"time"

	"go.uber.org/zap"

	"github.com/temirov/shellbatch/internal/execshell"
	"github.com/temirov/shellbatch/internal/ui"
)

const (
	shellConfigurationKeyConstant               = "shell"
	shellBinaryConfigurationKeyConstant         = shellConfigurationKeyConstant + ".binary"
	shellElevatedBinaryConfigurationKeyConstant = shellConfigurationKeyConstant + ".elevated_binary"
	shellCaptureOutputConfigurationKeyConstant  = shellConfigurationKeyConstant + ".capture_output"
	shellTimeoutConfigurationKeyConstant        = shellConfigurationKeyConstant + ".timeout"
	shellOutputFormatConfigurationKeyConstant   = shellConfigurationKeyConstant + ".output_format"
	defaultShellBinaryConstant                  = "sh"
	defaultElevatedShellBinaryConstant          = "su"
	defaultShellTimeoutConstant                 = "0s"
)

// ShellConfiguration holds the shell defaults shared by the run and root-check commands.
type ShellConfiguration struct {
	Binary         string        `mapstructure:"binary"`
	ElevatedBinary string        `mapstructure:"elevated_binary"`
	CaptureOutput  bool          `mapstructure:"capture_output"`
	Timeout        time.Duration `mapstructure:"timeout"`
	OutputFormat   string        `mapstructure:"output_format"`
}

// DefaultShellConfigurationValues returns the configuration defaults for the shell section.
func DefaultShellConfigurationValues() map[string]any {
	return map[string]any{
		shellBinaryConfigurationKeyConstant:         defaultShellBinaryConstant,
		shellElevatedBinaryConfigurationKeyConstant: defaultElevatedShellBinaryConstant,
		shellCaptureOutputConfigurationKeyConstant:  true,
		shellTimeoutConfigurationKeyConstant:        defaultShellTimeoutConstant,
		shellOutputFormatConfigurationKeyConstant:   string(ui.OutputFormatText),
	}
}

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ExecutorProvider builds the shell executor a command runs against.
type ExecutorProvider func(logger *zap.Logger, configuration ShellConfiguration, observer execshell.CommandEventObserver) (*execshell.ShellExecutor, error)

// NewOSExecutor builds a ShellExecutor that spawns real shells with the configured binaries and timeout.
func NewOSExecutor(logger *zap.Logger, configuration ShellConfiguration, observer execshell.CommandEventObserver) (*execshell.ShellExecutor, error) {
	return execshell.NewShellExecutor(
		logger,
		execshell.NewOSProcessStarter(),
		execshell.WithShellBinaries(configuration.Binary, configuration.ElevatedBinary),
		execshell.WithDefaultTimeout(configuration.Timeout),
		execshell.WithCommandEventObserver(observer),
	)
}
