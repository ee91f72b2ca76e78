// Package batch loads shell session requests from YAML batch files.
package batch
