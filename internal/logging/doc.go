// Package logging assembles structured slog loggers and formatting helpers used
// across vidscribe.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can tag log
// lines with the source being processed, the stage, and the run correlation
// ID. A no-op logger is provided for tests and wiring code that cannot fail.
//
// Logs go to stderr by default so transcript text and status lines printed on
// stdout stay clean for piping.
package logging
