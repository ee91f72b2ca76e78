// Package utils holds the ambient plumbing shared by the shellbatch commands.
//
// ConfigurationLoader layers embedded defaults, configuration files, and
// SHELLBATCH_ environment overrides through Viper. LoggerFactory builds the
// zap loggers, and FlushingWriter keeps rendered output visible as it is
// produced.
package utils
