// Package render turns transcript segments into txt, srt, vtt, and json
// artifacts.
//
// Render is pure: the same segments, format, and options always produce
// byte-identical artifacts, and inputs are never reordered or modified.
// WriteFiles persists artifacts next to a caller-supplied base path as
// <base>.<format>; filesystem errors are returned unchanged and files that
// were written before the failure are left in place.
//
// Speaker-aware rendering is enabled only when diarization was requested and
// the first segment carries a speaker tag. In that mode txt output groups
// consecutive segments under "[Speaker N]" headers, srt cues are prefixed with
// the label, and vtt cues use <v Speaker N> voice spans.
package render
