package align

import (
	"vidscribe/internal/speaker"
	"vidscribe/internal/transcript"
)

// Assign returns a copy of segments with Speaker set from turns. The input
// slices are not modified. Cost is O(len(segments) * len(turns)).
func Assign(segments []transcript.Segment, turns []transcript.Turn) []transcript.Segment {
	out := transcript.Clone(segments)
	var acc accumulator
	for i := range out {
		acc.reset()
		for _, turn := range turns {
			acc.add(turn.Speaker, overlap(out[i], turn))
		}
		if winner, ok := acc.best(); ok {
			out[i].Speaker = winner
		} else {
			out[i].Speaker = speaker.Unknown
		}
	}
	return out
}

func overlap(seg transcript.Segment, turn transcript.Turn) float64 {
	return max(0, min(seg.End, turn.End)-max(seg.Start, turn.Start))
}

// accumulator sums overlap per speaker while remembering first-seen order.
type accumulator struct {
	speakers []string
	totals   []float64
}

func (a *accumulator) reset() {
	a.speakers = a.speakers[:0]
	a.totals = a.totals[:0]
}

func (a *accumulator) add(name string, amount float64) {
	if amount <= 0 {
		return
	}
	for i, existing := range a.speakers {
		if existing == name {
			a.totals[i] += amount
			return
		}
	}
	a.speakers = append(a.speakers, name)
	a.totals = append(a.totals, amount)
}

// best returns the speaker with the largest total. Strict comparison keeps
// the first-seen speaker on ties.
func (a *accumulator) best() (string, bool) {
	if len(a.speakers) == 0 {
		return "", false
	}
	bestIdx := 0
	for i := 1; i < len(a.totals); i++ {
		if a.totals[i] > a.totals[bestIdx] {
			bestIdx = i
		}
	}
	return a.speakers[bestIdx], true
}
