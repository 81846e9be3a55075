package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"vidscribe/internal/speaker"
	"vidscribe/internal/timecode"
	"vidscribe/internal/transcript"
)

// Options tune rendering.
type Options struct {
	// Diarized marks that speaker diarization was requested for this run.
	Diarized bool
	// Info is included in the json artifact when non-nil.
	Info *transcript.Info
}

// Artifact is one rendered output document.
type Artifact struct {
	Format  transcript.Format
	Content string
}

// Render produces the artifacts selected by format, in txt, srt, vtt, json order.
func Render(segments []transcript.Segment, format transcript.Format, opts Options) ([]Artifact, error) {
	speakerAware := opts.Diarized && transcript.HasSpeakers(segments)
	artifacts := make([]Artifact, 0, 4)
	for _, f := range format.Expand() {
		var (
			content string
			err     error
		)
		switch f {
		case transcript.FormatTXT:
			content = renderTXT(segments, speakerAware)
		case transcript.FormatSRT:
			content = renderSRT(segments, speakerAware)
		case transcript.FormatVTT:
			content = renderVTT(segments, speakerAware)
		case transcript.FormatJSON:
			content, err = renderJSON(segments, speakerAware, opts.Info)
		default:
			err = fmt.Errorf("render: unsupported format %q", f)
		}
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, Artifact{Format: f, Content: content})
	}
	return artifacts, nil
}

func labelOf(seg transcript.Segment) string {
	tag := seg.Speaker
	if tag == "" {
		tag = speaker.Unknown
	}
	return speaker.Label(tag)
}

func renderTXT(segments []transcript.Segment, speakerAware bool) string {
	var b strings.Builder
	if !speakerAware {
		for _, seg := range segments {
			b.WriteString(seg.Text)
			b.WriteByte('\n')
		}
		return b.String()
	}
	current := ""
	for i, seg := range segments {
		label := labelOf(seg)
		if i == 0 || label != current {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString("[" + label + "]\n")
			current = label
		}
		b.WriteString(seg.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

func renderSRT(segments []transcript.Segment, speakerAware bool) string {
	var b strings.Builder
	for i, seg := range segments {
		text := seg.Text
		if speakerAware {
			text = "[" + labelOf(seg) + "] " + text
		}
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n", i+1, timecode.SRT(seg.Start), timecode.SRT(seg.End), text)
	}
	return b.String()
}

func renderVTT(segments []transcript.Segment, speakerAware bool) string {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for _, seg := range segments {
		fmt.Fprintf(&b, "%s --> %s\n", timecode.VTT(seg.Start), timecode.VTT(seg.End))
		if speakerAware {
			b.WriteString("<v " + labelOf(seg) + ">")
		}
		b.WriteString(seg.Text)
		b.WriteString("\n\n")
	}
	return b.String()
}

// document fixes the json key order.
type document struct {
	Diarization         bool                 `json:"diarization"`
	Segments            []transcript.Segment `json:"segments"`
	Language            *string              `json:"language,omitempty"`
	LanguageProbability *float64             `json:"language_probability,omitempty"`
	Duration            *float64             `json:"duration,omitempty"`
	Speakers            []string             `json:"speakers,omitempty"`
}

func renderJSON(segments []transcript.Segment, speakerAware bool, info *transcript.Info) (string, error) {
	doc := document{
		Diarization: speakerAware,
		Segments:    segments,
	}
	if doc.Segments == nil {
		doc.Segments = []transcript.Segment{}
	}
	if info != nil {
		doc.Language = &info.Language
		doc.LanguageProbability = &info.LanguageProbability
		doc.Duration = &info.Duration
	}
	if speakerAware {
		tags := make([]string, 0, len(segments))
		for _, seg := range segments {
			if seg.Speaker != "" {
				tags = append(tags, seg.Speaker)
			}
		}
		doc.Speakers = speaker.Labels(tags)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("render json: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
