// Package logs reads the service log file for the CLI, returning trailing
// lines and optionally following appends.
package logs
