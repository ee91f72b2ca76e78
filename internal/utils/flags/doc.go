// Package flags provides helpers for declaring shellbatch command-line flags.
package flags
