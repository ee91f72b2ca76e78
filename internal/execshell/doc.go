// Package execshell runs batches of command lines through an interactive shell.
//
// ShellExecutor spawns sh (or su for elevated sessions) through a
// ProcessStarter, feeds the commands over standard input, drains standard
// output and standard error concurrently with the exit wait, and folds every
// failure into an ExecutionResult instead of returning an error.
// OSProcessStarter is the os/exec backed starter used outside of tests.
package execshell
