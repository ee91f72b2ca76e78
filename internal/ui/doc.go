// Package ui turns shell session events and results into operator-facing output.
//
// ConsoleCommandEventLogger narrates session lifecycles through a console zap
// logger, while ResultRenderer prints the captured streams as text or encodes
// the full result as JSON or YAML for scripts.
package ui
