// Package cache persists rendered plain-text transcripts in SQLite so repeat
// requests for the same video skip download and transcription.
//
// Entries are keyed by (video ID, format) and expire after a configurable
// number of days. The database is opened and closed around every operation;
// a missing or unreadable database is reported as a miss rather than an
// error. Writers take an advisory file lock next to the database so
// concurrent processes do not interleave upserts, and transient SQLITE_BUSY
// errors are retried with exponential backoff.
package cache
