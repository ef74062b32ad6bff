// Package logging provides structured logging using Go's standard library
// log/slog, with JSON output for machine consumption or text output for
// interactive composer runs.
package logging
