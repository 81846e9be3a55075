package align

import "vidscribe/internal/transcript"

// Result is the outcome of an optional diarization pass.
type Result struct {
	segments []transcript.Segment
	reason   string
	aligned  bool
}

// Aligned wraps segments that carry speaker labels.
func Aligned(segments []transcript.Segment) Result {
	return Result{segments: segments, aligned: true}
}

// Unavailable records why speaker labels could not be produced.
func Unavailable(reason string) Result {
	return Result{reason: reason}
}

// FromTurns aligns segments when diarization succeeded, or reports the
// diarization error as the unavailability reason.
func FromTurns(segments []transcript.Segment, turns []transcript.Turn, err error) Result {
	if err != nil {
		return Unavailable(err.Error())
	}
	return Aligned(Assign(segments, turns))
}

// OK reports whether the result carries aligned segments.
func (r Result) OK() bool {
	return r.aligned
}

// Reason returns the unavailability reason, or "" for aligned results.
func (r Result) Reason() string {
	return r.reason
}

// Segments returns the aligned segments, or fallback when unavailable.
func (r Result) Segments(fallback []transcript.Segment) []transcript.Segment {
	if r.aligned {
		return r.segments
	}
	return fallback
}
