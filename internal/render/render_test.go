package render

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vidscribe/internal/transcript"
)

func diarizedSegments() []transcript.Segment {
	return []transcript.Segment{
		{Start: 0, End: 1.5, Text: "Hello there.", Speaker: "SPEAKER_00"},
		{Start: 1.5, End: 3, Text: "How are you?", Speaker: "SPEAKER_00"},
		{Start: 3, End: 4.25, Text: "Fine, thanks.", Speaker: "SPEAKER_01"},
		{Start: 4.25, End: 5, Text: "Good.", Speaker: "SPEAKER_00"},
	}
}

func plainSegments() []transcript.Segment {
	return []transcript.Segment{
		{Start: 0, End: 1.234, Text: "First line."},
		{Start: 1.234, End: 3661, Text: "Second line."},
	}
}

func renderOne(t *testing.T, segs []transcript.Segment, f transcript.Format, opts Options) string {
	t.Helper()
	artifacts, err := Render(segs, f, opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(artifacts) != 1 {
		t.Fatalf("expected one artifact, got %d", len(artifacts))
	}
	if artifacts[0].Format != f {
		t.Fatalf("artifact format = %q, want %q", artifacts[0].Format, f)
	}
	return artifacts[0].Content
}

func TestTXTPlain(t *testing.T) {
	got := renderOne(t, plainSegments(), transcript.FormatTXT, Options{})
	want := "First line.\nSecond line.\n"
	if got != want {
		t.Fatalf("txt = %q, want %q", got, want)
	}
}

func TestTXTSpeakerHeaders(t *testing.T) {
	got := renderOne(t, diarizedSegments(), transcript.FormatTXT, Options{Diarized: true})
	want := "[Speaker 1]\nHello there.\nHow are you?\n\n[Speaker 2]\nFine, thanks.\n\n[Speaker 1]\nGood.\n"
	if got != want {
		t.Fatalf("txt = %q, want %q", got, want)
	}
}

func TestTXTIgnoresSpeakersWhenNotDiarized(t *testing.T) {
	got := renderOne(t, diarizedSegments(), transcript.FormatTXT, Options{})
	if strings.Contains(got, "[") {
		t.Fatalf("expected no headers, got %q", got)
	}
}

func TestTXTDiarizedWithoutTagsIsPlain(t *testing.T) {
	got := renderOne(t, plainSegments(), transcript.FormatTXT, Options{Diarized: true})
	if got != "First line.\nSecond line.\n" {
		t.Fatalf("txt = %q", got)
	}
}

func TestSRT(t *testing.T) {
	got := renderOne(t, plainSegments(), transcript.FormatSRT, Options{})
	want := "1\n00:00:00,000 --> 00:00:01,234\nFirst line.\n\n" +
		"2\n00:00:01,234 --> 01:01:01,000\nSecond line.\n\n"
	if got != want {
		t.Fatalf("srt = %q, want %q", got, want)
	}
}

func TestSRTSpeakerPrefix(t *testing.T) {
	got := renderOne(t, diarizedSegments()[2:3], transcript.FormatSRT, Options{Diarized: true})
	want := "1\n00:00:03,000 --> 00:00:04,250\n[Speaker 2] Fine, thanks.\n\n"
	if got != want {
		t.Fatalf("srt = %q, want %q", got, want)
	}
}

func TestVTT(t *testing.T) {
	got := renderOne(t, plainSegments()[:1], transcript.FormatVTT, Options{})
	want := "WEBVTT\n\n00:00:00.000 --> 00:00:01.234\nFirst line.\n\n"
	if got != want {
		t.Fatalf("vtt = %q, want %q", got, want)
	}
}

func TestVTTVoiceSpans(t *testing.T) {
	segs := []transcript.Segment{{Start: 0, End: 1, Text: "Hi", Speaker: "UNKNOWN"}}
	got := renderOne(t, segs, transcript.FormatVTT, Options{Diarized: true})
	want := "WEBVTT\n\n00:00:00.000 --> 00:00:01.000\n<v Unknown>Hi\n\n"
	if got != want {
		t.Fatalf("vtt = %q, want %q", got, want)
	}
}

func TestVTTEmpty(t *testing.T) {
	got := renderOne(t, nil, transcript.FormatVTT, Options{})
	if got != "WEBVTT\n\n" {
		t.Fatalf("vtt = %q", got)
	}
}

func TestJSONPlain(t *testing.T) {
	segs := []transcript.Segment{{Start: 0, End: 1.5, Text: "Hi"}}
	got := renderOne(t, segs, transcript.FormatJSON, Options{})
	want := "{\n" +
		"  \"diarization\": false,\n" +
		"  \"segments\": [\n" +
		"    {\n" +
		"      \"start\": 0,\n" +
		"      \"end\": 1.5,\n" +
		"      \"text\": \"Hi\"\n" +
		"    }\n" +
		"  ]\n" +
		"}"
	if got != want {
		t.Fatalf("json = %s\nwant %s", got, want)
	}
}

func TestJSONWithInfoAndSpeakers(t *testing.T) {
	info := &transcript.Info{Language: "en", LanguageProbability: 0.5, Duration: 5}
	got := renderOne(t, diarizedSegments(), transcript.FormatJSON, Options{Diarized: true, Info: info})
	for _, fragment := range []string{
		`"diarization": true`,
		`"speaker": "SPEAKER_01"`,
		`"language": "en"`,
		`"language_probability": 0.5`,
		`"duration": 5`,
		"\"speakers\": [\n    \"Speaker 1\",\n    \"Speaker 2\"\n  ]",
	} {
		if !strings.Contains(got, fragment) {
			t.Fatalf("json missing %q:\n%s", fragment, got)
		}
	}
	if strings.Index(got, `"segments"`) > strings.Index(got, `"language"`) {
		t.Fatalf("segments must precede metadata:\n%s", got)
	}
}

func TestJSONDoesNotEscapeHTML(t *testing.T) {
	segs := []transcript.Segment{{Start: 0, End: 1, Text: "a < b & c"}}
	got := renderOne(t, segs, transcript.FormatJSON, Options{})
	if !strings.Contains(got, `"a < b & c"`) {
		t.Fatalf("json escaped text: %s", got)
	}
}

func TestAllFormatsOrder(t *testing.T) {
	artifacts, err := Render(plainSegments(), transcript.FormatAll, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := []transcript.Format{transcript.FormatTXT, transcript.FormatSRT, transcript.FormatVTT, transcript.FormatJSON}
	if len(artifacts) != len(want) {
		t.Fatalf("got %d artifacts, want %d", len(artifacts), len(want))
	}
	for i, f := range want {
		if artifacts[i].Format != f {
			t.Fatalf("artifact %d = %q, want %q", i, artifacts[i].Format, f)
		}
	}
}

func TestRenderIsIdempotentAndDoesNotMutate(t *testing.T) {
	segs := diarizedSegments()
	before := transcript.Clone(segs)
	first, err := Render(segs, transcript.FormatAll, Options{Diarized: true})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	second, err := Render(segs, transcript.FormatAll, Options{Diarized: true})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("artifact %s differs between runs", first[i].Format)
		}
	}
	for i := range segs {
		if segs[i] != before[i] {
			t.Fatalf("segment %d mutated: %+v", i, segs[i])
		}
	}
}

func TestRenderUnsupportedFormat(t *testing.T) {
	if _, err := Render(plainSegments(), transcript.Format("docx"), Options{}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWriteFiles(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "video")
	artifacts := []Artifact{
		{Format: transcript.FormatTXT, Content: "hello\n"},
		{Format: transcript.FormatSRT, Content: "1\n"},
	}
	paths, err := WriteFiles(base, artifacts)
	if err != nil {
		t.Fatalf("WriteFiles: %v", err)
	}
	if len(paths) != 2 || paths[0] != base+".txt" || paths[1] != base+".srt" {
		t.Fatalf("unexpected paths %v", paths)
	}
	data, err := os.ReadFile(base + ".txt")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "hello\n" {
		t.Fatalf("content = %q", data)
	}
}

func TestWriteFilesKeepsEarlierArtifactsOnFailure(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "video")
	// A directory where the srt file should go makes that write fail.
	if err := os.Mkdir(base+".srt", 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	artifacts := []Artifact{
		{Format: transcript.FormatTXT, Content: "kept\n"},
		{Format: transcript.FormatSRT, Content: "lost\n"},
	}
	paths, err := WriteFiles(base, artifacts)
	if err == nil {
		t.Fatal("expected write error")
	}
	var pathErr *os.PathError
	if !errors.As(err, &pathErr) {
		t.Fatalf("expected wrapped *os.PathError, got %T", err)
	}
	if len(paths) != 1 || paths[0] != base+".txt" {
		t.Fatalf("unexpected paths %v", paths)
	}
	if _, err := os.Stat(base + ".txt"); err != nil {
		t.Fatalf("earlier artifact missing: %v", err)
	}
}
