// Package services defines shared utilities consumed by the pipeline and the
// external tool integrations (yt-dlp, WhisperX, pyannote).
//
// Key responsibilities:
//   - Context helpers that stamp source identifiers, stage names, and run
//     correlation IDs for logging.
//   - Structured error markers plus the Wrap helper so callers can tell
//     configuration problems apart from per-item tool failures.
//   - A CommandRunner abstraction that keeps external process execution
//     testable.
package services
