package transcript

import (
	"fmt"
	"strings"
)

// Segment is one timestamped span of transcribed text.
type Segment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker string  `json:"speaker,omitempty"`
}

// Turn is one speaker-attributed interval reported by diarization.
type Turn struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker"`
}

// Info carries engine metadata that is only surfaced in the json artifact.
type Info struct {
	Language            string  `json:"language"`
	LanguageProbability float64 `json:"language_probability"`
	Duration            float64 `json:"duration"`
}

// Clone returns a copy of segments that can be modified without touching the input.
func Clone(segments []Segment) []Segment {
	if segments == nil {
		return nil
	}
	out := make([]Segment, len(segments))
	copy(out, segments)
	return out
}

// HasSpeakers reports whether the first segment carries a speaker tag.
func HasSpeakers(segments []Segment) bool {
	return len(segments) > 0 && segments[0].Speaker != ""
}

// Format identifies an output artifact type.
type Format string

const (
	FormatTXT  Format = "txt"
	FormatSRT  Format = "srt"
	FormatVTT  Format = "vtt"
	FormatJSON Format = "json"
	FormatAll  Format = "all"
)

// Formats lists every accepted format value in display order.
var Formats = []Format{FormatTXT, FormatSRT, FormatVTT, FormatJSON, FormatAll}

// ParseFormat validates a user-supplied format name.
func ParseFormat(value string) (Format, error) {
	normalized := Format(strings.ToLower(strings.TrimSpace(value)))
	for _, f := range Formats {
		if f == normalized {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid format %q (choose from %s)", value, FormatNames())
}

// FormatNames returns the accepted format values joined for help text.
func FormatNames() string {
	names := make([]string, 0, len(Formats))
	for _, f := range Formats {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

// Includes reports whether rendering f produces an artifact of kind other.
func (f Format) Includes(other Format) bool {
	return f == other || (f == FormatAll && other != FormatAll)
}

// CacheKey returns the format under which a transcript is cached. The cache
// only stores plain text, so "all" is looked up as "txt".
func (f Format) CacheKey() Format {
	if f == FormatAll {
		return FormatTXT
	}
	return f
}

// Expand returns the concrete artifact formats produced for f, in write order.
func (f Format) Expand() []Format {
	if f == FormatAll {
		return []Format{FormatTXT, FormatSRT, FormatVTT, FormatJSON}
	}
	return []Format{f}
}
