// Package align assigns diarization speakers to transcript segments.
//
// Each segment receives the speaker whose turns overlap it for the greatest
// total duration. Overlap is accumulated per speaker in the order speakers
// are first encountered while scanning the turns, and ties are resolved in
// favour of the earliest-seen speaker. Segments that no turn overlaps are
// tagged speaker.Unknown.
//
// Result lets callers carry either aligned segments or the reason diarization
// was unavailable, so the pipeline can fall back to unlabeled output without
// treating it as an error.
package align
