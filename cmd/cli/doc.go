// Package cli constructs the shellbatch command-line interface.
//
// It wires the Cobra command hierarchy to the Viper configuration loader and
// the zap loggers, and exposes the run and root-check commands that drive
// execshell.ShellExecutor.
package cli
