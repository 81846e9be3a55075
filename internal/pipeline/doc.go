// Package pipeline turns inputs (remote URLs or local media files) into
// transcript files.
//
// A Runner processes inputs strictly in order with one reused transcription
// engine. For URLs it consults the transcript cache, then the platform's
// native captions, then downloads audio for WhisperX. Optional diarization is
// aligned onto the segments and degrades to unlabeled output on failure.
//
// When a batch holds more than one URL, metadata and audio for upcoming items
// are fetched ahead of time by a bounded errgroup. Results are still consumed
// in input order, and prefetched audio that is never used is removed.
package pipeline
