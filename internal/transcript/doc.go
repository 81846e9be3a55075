// Package transcript defines the segment, speaker-turn, and format types that
// flow between the transcription engine, the speaker aligner, the renderer,
// and the transcript cache.
//
// Segments are ordered by start time as produced upstream. Nothing in this
// package re-sorts or mutates them; callers that need a modified copy should
// use Clone.
package transcript
